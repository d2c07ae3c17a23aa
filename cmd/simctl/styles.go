package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	faint   lipgloss.Style
	warning lipgloss.Style
	good    lipgloss.Style
	border  lipgloss.Style
	section lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("241")).Padding(0, 1),
		cell:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1),
		faint:   lipgloss.NewStyle().Faint(true),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		good:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		border:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		section: lipgloss.NewStyle().MarginTop(1),
	}
}
