package adapter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// PromptSelector asks for a path on a line-oriented input.
// Implements domain.FileSelector.
type PromptSelector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptSelector creates a selector reading from in and prompting on out
func NewPromptSelector(in io.Reader, out io.Writer) *PromptSelector {
	return &PromptSelector{in: bufio.NewReader(in), out: out}
}

// SelectFile prompts once and returns the trimmed answer. An empty answer
// or end of input means the user chose nothing.
func (p *PromptSelector) SelectFile(ctx context.Context) (string, error) {
	fmt.Fprint(p.out, "File to open: ")

	type result struct {
		line string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		line, err := p.in.ReadString('\n')
		resultCh <- result{line, err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil && res.err != io.EOF {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return strings.TrimSpace(res.line), nil
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	}
}
