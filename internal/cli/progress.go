package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ImportProgress renders catalog import progress as a terminal bar.
type ImportProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	total  int
}

// NewImportProgress creates a progress reporter writing to writer.
func NewImportProgress(writer io.Writer) *ImportProgress {
	if writer == nil {
		writer = os.Stderr
	}
	return &ImportProgress{writer: writer}
}

// Update moves the bar to done out of total. The bar is created on the first
// call so the total does not need to be known up front.
func (p *ImportProgress) Update(done, total int) {
	if total <= 0 {
		return
	}
	if p.bar == nil || p.total != total {
		p.total = total
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]Importing stats...[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprintln(p.writer)
			}),
		)
	}
	_ = p.bar.Set(done)
}

// Finish completes the bar if one was started.
func (p *ImportProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
