package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadItem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

	orig := clipboardRead
	t.Cleanup(func() { clipboardRead = orig })
	clipboardRead = func() (string, error) { return "from clipboard", nil }

	tests := []struct {
		name    string
		want    string
		src     InputSource
		wantErr bool
	}{
		{
			name: "clipboard wins",
			src:  InputSource{Clipboard: true, Path: path, Stdin: strings.NewReader("from stdin")},
			want: "from clipboard",
		},
		{
			name: "file before stdin",
			src:  InputSource{Path: path, Stdin: strings.NewReader("from stdin")},
			want: "from file",
		},
		{
			name: "dash means stdin",
			src:  InputSource{Path: "-", Stdin: strings.NewReader("from stdin")},
			want: "from stdin",
		},
		{
			name:    "missing file",
			src:     InputSource{Path: filepath.Join(dir, "missing.txt")},
			wantErr: true,
		},
		{
			name:    "no source",
			src:     InputSource{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadItem(context.Background(), tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadItem_ClipboardError(t *testing.T) {
	orig := clipboardRead
	t.Cleanup(func() { clipboardRead = orig })
	clipboardRead = func() (string, error) { return "", errors.New("no display") }

	_, err := ReadItem(context.Background(), InputSource{Clipboard: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
}

func TestReadAll_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadAll(ctx, pr)
	assert.ErrorIs(t, err, ErrInputCancelled)
}
