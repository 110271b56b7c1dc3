package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// maxItemBytes bounds how much item text is read from any source.
const maxItemBytes = 1 << 20

// InputSource says where item text comes from. Clipboard wins over Path,
// and Path wins over Stdin.
type InputSource struct {
	Stdin     io.Reader
	Path      string
	Clipboard bool
}

// clipboardRead is swapped out in tests.
var clipboardRead = clipboard.ReadAll

// ReadItem reads one item export from the configured source.
func ReadItem(ctx context.Context, src InputSource) (string, error) {
	switch {
	case src.Clipboard:
		text, err := clipboardRead()
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return text, nil
	case src.Path != "" && src.Path != "-":
		f, err := os.Open(src.Path)
		if err != nil {
			return "", fmt.Errorf("failed to open item file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return ReadAll(ctx, f)
	case src.Stdin != nil:
		return ReadAll(ctx, src.Stdin)
	}
	return "", fmt.Errorf("no item source given")
}

// ReadAll reads r to EOF, respecting context cancellation.
func ReadAll(ctx context.Context, r io.Reader) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		var sb strings.Builder
		_, err := io.Copy(&sb, io.LimitReader(r, maxItemBytes))
		resultCh <- result{value: sb.String(), err: err}
	}()

	// The reading goroutine keeps running until its reader returns.
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}
