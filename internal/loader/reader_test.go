package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mmcdole/lector/internal/domain"
)

const mib = 1024 * 1024

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// sizedText returns ASCII text of exactly n bytes, broken into 16-byte lines
func sizedText(n int) string {
	const line = "0123456789abcde\n"
	var b strings.Builder
	b.Grow(n)
	for b.Len()+len(line) <= n {
		b.WriteString(line)
	}
	b.WriteString(strings.Repeat("z", n-b.Len()))
	return b.String()
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		consumed int64
		total    int64
		want     int
	}{
		{"nothing read", 0, 100, 0},
		{"half", 50, 100, 50},
		{"rounds down", 999, 1000, 99},
		{"complete", 100, 100, 100},
		{"overshoot capped", 150, 100, 100},
		{"empty file", 0, 0, 100},
		{"negative consumed", -1, 100, 0},
		{"large file", 2 * mib, 5 * mib / 2, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.consumed, tt.total); got != tt.want {
				t.Errorf("Percent(%d, %d) = %d, want %d", tt.consumed, tt.total, got, tt.want)
			}
		})
	}
}

func TestNewChunkedReader_ChunkSize(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		want      int
	}{
		{"zero selects default", 0, DefaultChunkSize},
		{"negative selects default", -5, DefaultChunkSize},
		{"below minimum clamps", 10, MinChunkSize},
		{"custom", 64 * 1024, 64 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewChunkedReader(tt.chunkSize, testLogger())
			if r.ChunkSize() != tt.want {
				t.Errorf("ChunkSize() = %d, want %d", r.ChunkSize(), tt.want)
			}
		})
	}
}

func TestChunkedReader_ProgressSequence(t *testing.T) {
	content := sizedText(5 * mib / 2)
	path := writeTestFile(t, "big.txt", content)

	r := NewChunkedReader(mib, testLogger())

	var percents []int
	got, err := r.ReadFile(context.Background(), path, func(p Progress) {
		percents = append(percents, p.Percent)
		if p.TotalBytes != int64(len(content)) {
			t.Errorf("TotalBytes = %d, want %d", p.TotalBytes, len(content))
		}
	})
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != content {
		t.Errorf("ReadFile() content length = %d, want %d", len(got), len(content))
	}
	if want := []int{40, 80, 100}; !reflect.DeepEqual(percents, want) {
		t.Errorf("progress = %v, want %v", percents, want)
	}
}

func TestChunkedReader_ExactMultipleOfChunk(t *testing.T) {
	content := sizedText(2 * MinChunkSize)
	path := writeTestFile(t, "even.txt", content)

	r := NewChunkedReader(MinChunkSize, testLogger())

	var percents []int
	got, err := r.ReadFile(context.Background(), path, func(p Progress) {
		percents = append(percents, p.Percent)
	})
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != content {
		t.Error("content mismatch")
	}
	if len(percents) != 2 || percents[len(percents)-1] != 100 {
		t.Errorf("progress = %v, want two events ending at 100", percents)
	}
}

func TestChunkedReader_Decoding(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain ascii", "hello\nworld\n", "hello\nworld\n"},
		{"multi-byte runes", "héllo wörld ✓ 日本語\n", "héllo wörld ✓ 日本語\n"},
		{"byte order mark stripped", "\xEF\xBB\xBFhello", "hello"},
		{"invalid sequence replaced", "a\xffb", "a�b"},
		{"crlf preserved", "a\r\nb\r\n", "a\r\nb\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestFile(t, "in.txt", tt.raw)
			r := NewChunkedReader(0, testLogger())

			got, err := r.ReadFile(context.Background(), path, nil)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadFile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChunkedReader_MultiByteAcrossChunks(t *testing.T) {
	// 3-byte runes do not line up with 4096-byte chunks
	content := strings.Repeat("✓", 3*MinChunkSize)
	path := writeTestFile(t, "runes.txt", content)

	r := NewChunkedReader(MinChunkSize, testLogger())

	last := -1
	got, err := r.ReadFile(context.Background(), path, func(p Progress) {
		if p.Percent < last {
			t.Errorf("progress went backwards: %d after %d", p.Percent, last)
		}
		last = p.Percent
	})
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != content {
		t.Errorf("content mismatch: got %d bytes, want %d", len(got), len(content))
	}
	if last != 100 {
		t.Errorf("final progress = %d, want 100", last)
	}
}

func TestChunkedReader_EmptyFile(t *testing.T) {
	path := writeTestFile(t, "empty.txt", "")
	r := NewChunkedReader(0, testLogger())

	calls := 0
	got, err := r.ReadFile(context.Background(), path, func(Progress) { calls++ })
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != "" {
		t.Errorf("ReadFile() = %q, want empty", got)
	}
	if calls != 0 {
		t.Errorf("progress called %d times, want 0", calls)
	}
}

func TestChunkedReader_OpenErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.txt")},
		{"directory", dir},
		{"empty path", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewChunkedReader(0, testLogger())
			calls := 0
			_, err := r.ReadFile(context.Background(), tt.path, func(Progress) { calls++ })

			var openErr *domain.FileOpenError
			if !errors.As(err, &openErr) {
				t.Fatalf("ReadFile() error = %v, want *FileOpenError", err)
			}
			if openErr.Path != tt.path {
				t.Errorf("FileOpenError.Path = %q, want %q", openErr.Path, tt.path)
			}
			if tt.path != "" && !strings.Contains(err.Error(), tt.path) {
				t.Errorf("error %q does not name the path", err.Error())
			}
			if calls != 0 {
				t.Errorf("progress called %d times, want 0", calls)
			}
		})
	}
}

func TestChunkedReader_CancelledBeforeStart(t *testing.T) {
	path := writeTestFile(t, "a.txt", sizedText(3*MinChunkSize))
	r := NewChunkedReader(MinChunkSize, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := r.ReadFile(ctx, path, func(Progress) { calls++ })
	if !errors.Is(err, domain.ErrLoadCancelled) {
		t.Fatalf("ReadFile() error = %v, want ErrLoadCancelled", err)
	}
	if calls != 0 {
		t.Errorf("progress called %d times, want 0", calls)
	}
}

func TestChunkedReader_CancelAtChunkBoundary(t *testing.T) {
	path := writeTestFile(t, "a.txt", sizedText(10*MinChunkSize))
	r := NewChunkedReader(MinChunkSize, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	_, err := r.ReadFile(ctx, path, func(Progress) {
		calls++
		cancel()
	})
	if !errors.Is(err, domain.ErrLoadCancelled) {
		t.Fatalf("ReadFile() error = %v, want ErrLoadCancelled", err)
	}
	if calls != 1 {
		t.Errorf("progress called %d times, want 1", calls)
	}
}

func TestChunkedReader_ReadError(t *testing.T) {
	r := NewChunkedReader(MinChunkSize, testLogger())
	boom := errors.New("disk on fire")
	r.open = func(string) (io.ReadCloser, int64, error) {
		return io.NopCloser(&failingReader{err: boom}), 100, nil
	}

	_, err := r.ReadFile(context.Background(), "/virtual.txt", nil)

	var ioErr *domain.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("ReadFile() error = %v, want *IOError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error does not wrap the read failure: %v", err)
	}
}

type failingReader struct {
	err error
}

func (f *failingReader) Read([]byte) (int, error) { return 0, f.err }
