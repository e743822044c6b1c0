package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"yashubustudio/profitprophet/prophet"
)

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newLogger builds the stderr logger. quiet raises the level to warn so log
// lines do not tear through the progress bar.
func newLogger(w io.Writer, level string, asJSON, quiet bool) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	if quiet && lvl < slog.LevelWarn {
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

type progressBar struct {
	bar      *progressbar.ProgressBar
	finished bool
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{bar: progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)}
}

// Update renders pr and clears the bar once the run reaches a terminal state.
func (p *progressBar) Update(pr prophet.Progress) {
	if p.finished {
		return
	}
	p.bar.Describe(pr.Stage)
	_ = p.bar.Set(pr.Percent)
	if pr.State.Terminal() {
		p.Close()
	}
}

func (p *progressBar) Close() {
	if p.finished {
		return
	}
	p.finished = true
	_ = p.bar.Finish()
}
