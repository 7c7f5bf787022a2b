// Package progress provides progress reporting for uploads and
// downloads: a terminal bar for interactive commands and a no-op for
// silent operation.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter is the interface transfer code reports through.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
	Error(err error)
}

// Bar renders a byte progress bar on stderr, keeping stdout clean for
// command output.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar creates a terminal progress reporter.
func NewBar() *Bar {
	return &Bar{}
}

// Start initializes the bar with the total size and a label.
func (p *Bar) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update moves the bar to the current byte position.
func (p *Bar) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the bar.
func (p *Bar) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Error prints the failure under the bar.
func (p *Bar) Error(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
	}
}

// Silent is a Reporter that does nothing.
type Silent struct{}

func (Silent) Start(total int64, description string) {}
func (Silent) Update(current int64)                  {}
func (Silent) Finish()                               {}
func (Silent) Error(err error)                       {}

// Reader wraps an io.Reader and reports cumulative bytes read.
type Reader struct {
	reader   io.Reader
	reporter Reporter
	current  int64
}

// NewReader creates a progress-reporting reader.
func NewReader(reader io.Reader, reporter Reporter) *Reader {
	return &Reader{reader: reader, reporter: reporter}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.current += int64(n)
	r.reporter.Update(r.current)
	return n, err
}
