package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// newLogger returns logger writing to f, colored if f is a terminal
func newLogger(f *os.File, verbose bool) *slog.Logger {
	isTTY := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return newTintLogger(colorable.NewColorable(f), !isTTY, verbose)
}

func newTintLogger(w io.Writer, noColor, verbose bool) *slog.Logger {
	lvl := &slog.LevelVar{}
	lvl.Set(slog.LevelInfo)
	if verbose {
		lvl.Set(slog.LevelDebug)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		NoColor:    noColor,
		TimeFormat: "2006-01-02 15:04:05.000",
	}))
}
