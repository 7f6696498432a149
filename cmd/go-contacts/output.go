package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles renders CLI output for one writer.
// Colours are dropped automatically when the writer is not a terminal.
type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	muted   lipgloss.Style
	failure lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		failure: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}
