package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/akamensky/argparse"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/lector/internal/adapter"
	"github.com/mmcdole/lector/internal/domain"
	"github.com/mmcdole/lector/internal/history"
	"github.com/mmcdole/lector/internal/loader"
	"github.com/mmcdole/lector/internal/store"
	"github.com/mmcdole/lector/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

// options are the parsed command-line flags
type options struct {
	file        string
	plain       bool
	chunkSize   int
	writeConfig bool
}

func main() {
	parser := argparse.NewParser("lector", "Stream a text file into a scrollable, searchable viewer")

	file := parser.String("f", "file", &argparse.Options{Help: "File path or file:// URI to open"})
	plain := parser.Flag("p", "plain", &argparse.Options{Help: "Print progress to stderr and content to stdout instead of starting the UI"})
	chunkSize := parser.Int("c", "chunk-size", &argparse.Options{Help: "Bytes read per chunk (overrides loader.chunk_size)"})
	writeConfig := parser.Flag("w", "write-config", &argparse.Options{Help: "Write the effective configuration to the config directory and exit"})
	showVersion := parser.Flag("v", "version", &argparse.Options{Help: "Print version"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(2)
	}

	if *showVersion {
		fmt.Printf("lector %s\n", Version)
		return
	}

	opts := options{
		file:        *file,
		plain:       *plain,
		chunkSize:   *chunkSize,
		writeConfig: *writeConfig,
	}

	code, err := run(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func run(opts options) (int, error) {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return 1, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.chunkSize > 0 {
		cfg.Loader.ChunkSize = opts.chunkSize
		if err := cfg.Validate(); err != nil {
			return 1, err
		}
	}

	if opts.writeConfig {
		if err := adapter.SaveConfig(cfg); err != nil {
			return 1, fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Wrote %s/config.yaml\n", adapter.ConfigDir())
		return 0, nil
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting lector", "version", Version, "chunkSize", cfg.Loader.ChunkSize)

	// Open the history store
	var recent domain.RecentStore
	if cfg.History.Enabled {
		st, err := store.NewRecentStore(cfg.History.Path)
		if err != nil {
			// Another instance may hold the lock; keep history for this session only
			logger.Warn("history store unavailable, using memory", "path", cfg.History.Path, "error", err)
			st, _ = store.NewRecentStore("")
		}
		defer st.Close()
		recent = st
	}
	hist := history.NewService(recent, cfg.History.MaxEntries, cfg.History.Enabled, logger)

	reader := loader.NewChunkedReader(cfg.Loader.ChunkSize, logger)

	interactive := !opts.plain && term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		return runTUI(cfg, opts, reader, hist, logger)
	}
	return runConsole(opts, reader, hist, logger), nil
}

// runTUI starts the Bubble Tea program
func runTUI(cfg *adapter.Config, opts options, reader *loader.ChunkedReader, hist *history.Service, logger *slog.Logger) (int, error) {
	picker := tui.NewPickerSelector()
	ctrl := loader.NewController(reader,
		loader.WithSelector(picker),
		loader.WithRecorder(hist),
		loader.WithLogger(logger),
	)
	launcher := adapter.NewLauncher(cfg.Editor.Command, cfg.Editor.Args, cfg.Editor.LineFlag, logger)

	model := tui.NewModel(ctrl, hist, picker, launcher, tui.Options{
		InitialPath:      opts.file,
		PickerStartDir:   cfg.Picker.StartDir,
		PickerExtensions: cfg.Picker.AllowedExtensions,
		PickerShowHidden: cfg.Picker.ShowHidden,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	_, err := p.Run()

	// Never leave a worker reading after the UI is gone
	ctrl.Cancel()
	ctrl.Wait()

	if err != nil {
		logger.Error("TUI error", "error", err)
		return 1, fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return 0, nil
}

// runConsole loads one file, streaming progress to stderr and the content to stdout
func runConsole(opts options, reader *loader.ChunkedReader, hist *history.Service, logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	console := adapter.NewConsole(os.Stdout, os.Stderr)
	ctrl := loader.NewController(reader,
		loader.WithSelector(adapter.NewPromptSelector(os.Stdin, os.Stderr)),
		loader.WithRecorder(hist),
		loader.WithLogger(logger),
	)

	l := ctrl.LoadAsync(ctx, opts.file)

	var total int64
	if info, err := os.Stat(l.Path); err == nil {
		total = info.Size()
	}
	console.Begin(l.Path, total)

	loader.Relay(l, console)
	ctrl.Wait()

	if console.Failed() {
		return 1
	}
	return 0
}
