package main

import (
	"fmt"
	"io"
	"os"

	"github.com/DonovanMods/mrunpack/internal/core"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
)

// fetchProgress renders download progress as a single redrawn line
type fetchProgress struct {
	out  io.Writer
	bar  progress.Model
	live bool // Redraw in place; otherwise only failures are printed
}

func newFetchProgress(out *os.File) *fetchProgress {
	opts := []progress.Option{progress.WithWidth(30), progress.WithoutPercentage()}
	if colorEnabled() {
		opts = append(opts, progress.WithDefaultGradient())
	} else {
		opts = append(opts, progress.WithSolidFill("7"))
	}
	return &fetchProgress{
		out:  out,
		bar:  progress.New(opts...),
		live: isInteractive(out),
	}
}

// Observe handles one fetch event
func (p *fetchProgress) Observe(e core.FetchEvent) {
	if e.Err != nil {
		p.clearLine()
		fmt.Fprintf(p.out, "%s %s\n", colorYellow("failed:"), e.Path)
	}
	if !p.live || e.Total == 0 {
		return
	}

	fmt.Fprintf(p.out, "\r%s %s", p.bar.ViewAs(float64(e.Done)/float64(e.Total)), progressLabel(e))
	if e.Done == e.Total {
		fmt.Fprintln(p.out)
	}
}

func (p *fetchProgress) clearLine() {
	if p.live {
		fmt.Fprint(p.out, "\r\033[K")
	}
}

// progressLabel formats "12/40 files, 3.1 MB of 80 MB"
func progressLabel(e core.FetchEvent) string {
	label := fmt.Sprintf("%d/%d files, %s", e.Done, e.Total, humanize.Bytes(uint64(e.BytesDone)))
	if e.BytesTotal > 0 {
		label += " of " + humanize.Bytes(uint64(e.BytesTotal))
	}
	return label
}
