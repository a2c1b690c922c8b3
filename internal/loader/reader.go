package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mmcdole/lector/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// DefaultChunkSize is the number of decoded bytes read per chunk
	DefaultChunkSize = 1024 * 1024
	// MinChunkSize keeps tiny configured values from turning a load into a syscall storm
	MinChunkSize = 4 * 1024

	// maxPrealloc caps the up-front buffer reservation for very large files
	maxPrealloc = 256 * 1024 * 1024
)

var (
	errIsDirectory = errors.New("is a directory")
	errEmptyPath   = errors.New("empty path")
)

// Progress is reported after every chunk.
type Progress struct {
	Percent    int   // 0..100
	BytesRead  int64 // bytes consumed from the file so far
	TotalBytes int64 // file size at stat time
}

// ProgressFunc receives chunk progress. Called from the reading goroutine.
type ProgressFunc func(p Progress)

// ChunkedReader streams a UTF-8 text file in fixed-size chunks.
type ChunkedReader struct {
	chunkSize int
	logger    *slog.Logger

	// open returns the file body and its size in bytes
	open func(path string) (io.ReadCloser, int64, error)
}

// NewChunkedReader creates a reader. chunkSize <= 0 selects DefaultChunkSize.
func NewChunkedReader(chunkSize int, logger *slog.Logger) *ChunkedReader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize < MinChunkSize {
		chunkSize = MinChunkSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChunkedReader{chunkSize: chunkSize, logger: logger, open: openFile}
}

// ChunkSize returns the effective chunk size in bytes
func (r *ChunkedReader) ChunkSize() int {
	return r.chunkSize
}

// ReadFile reads the whole file at path.
//
// ctx is the cancellation probe: it is checked before every chunk and once
// more before success is returned, so a cancel that lands while the last
// chunk is in flight still reports domain.ErrLoadCancelled.
//
// Progress is measured in bytes actually consumed from the file, not in
// decoded characters, so multi-byte text does not skew the percentage.
func (r *ChunkedReader) ReadFile(ctx context.Context, path string, onProgress ProgressFunc) (string, error) {
	if path == "" {
		return "", &domain.FileOpenError{Path: path, Err: errEmptyPath}
	}

	file, total, err := r.open(path)
	if err != nil {
		return "", &domain.FileOpenError{Path: path, Err: err}
	}
	defer file.Close()

	counter := &countingReader{r: file}
	decoded := transform.NewReader(counter, unicode.UTF8BOM.NewDecoder())

	var content strings.Builder
	if total > 0 {
		content.Grow(int(min(total, maxPrealloc)))
	}
	buf := make([]byte, r.chunkSize)
	chunks := 0

	for {
		if ctx.Err() != nil {
			r.logger.Debug("read cancelled", "path", path, "chunks", chunks, "bytesRead", counter.n)
			return "", domain.ErrLoadCancelled
		}

		n, readErr := io.ReadFull(decoded, buf)
		if n > 0 {
			chunks++
			content.Write(buf[:n])
			if onProgress != nil {
				onProgress(Progress{
					Percent:    Percent(counter.n, total),
					BytesRead:  counter.n,
					TotalBytes: total,
				})
			}
		}

		switch {
		case readErr == nil:
			continue
		case errors.Is(readErr, io.EOF), errors.Is(readErr, io.ErrUnexpectedEOF):
			if ctx.Err() != nil {
				return "", domain.ErrLoadCancelled
			}
			r.logger.Debug("read complete", "path", path, "chunks", chunks, "bytesRead", counter.n)
			return content.String(), nil
		default:
			return "", &domain.IOError{Detail: "reading " + path, Err: readErr}
		}
	}
}

// openFile stats path for its size, then opens it.
func openFile(path string) (io.ReadCloser, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	if info.IsDir() {
		return nil, 0, errIsDirectory
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	return file, info.Size(), nil
}

// Percent computes min(100, floor(consumed*100/total)). An empty file is 100%.
func Percent(consumed, total int64) int {
	if total <= 0 {
		return 100
	}
	if consumed <= 0 {
		return 0
	}
	p := consumed * 100 / total
	if p > 100 {
		return 100
	}
	return int(p)
}

// countingReader tracks how many raw bytes have been pulled from the file.
// Only the reading goroutine touches n.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
