package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"marketsim/internal/app/observe"
	"marketsim/internal/app/replay"
	"marketsim/internal/domain/economy"
)

func (s styles) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func renderWorld(v observe.WorldView) string {
	s := newStyles()
	var b strings.Builder

	b.WriteString(s.title.Render(fmt.Sprintf("Day %d, %02d:00 (%s)", v.Day, v.Hour, v.Phase)))
	b.WriteString(s.faint.Render(fmt.Sprintf("  version %d, %d active agents", v.Version, v.ActiveAgents)))
	b.WriteString("\n")

	companies := make([][]string, 0, len(v.Companies))
	for _, c := range v.Companies {
		companies = append(companies, []string{
			c.Name,
			c.CEOName,
			money(c.Funds),
			strconv.Itoa(c.Reputation),
			strconv.Itoa(c.Employees),
			strconv.Itoa(c.Products),
		})
	}
	b.WriteString(s.section.Render(s.table([]string{"Company", "CEO", "Funds", "Rep", "Staff", "Products"}, companies)))
	b.WriteString("\n")

	market := make([][]string, 0, len(v.Market))
	for _, p := range v.Market {
		rating := "-"
		if p.RatingCount > 0 {
			rating = fmt.Sprintf("%d/10 (%d)", p.AverageRating, p.RatingCount)
		}
		market = append(market, []string{p.Name, p.CompanyName, string(p.ItemType), money(p.Price), strconv.Itoa(p.Quality), rating})
	}
	b.WriteString(s.section.Render(s.table([]string{"Product", "Company", "Type", "Price", "Quality", "Rating"}, market)))
	b.WriteString("\n")

	agents := make([][]string, 0, len(v.Agents))
	for _, a := range v.Agents {
		state := a.LastAction
		switch {
		case !a.Active:
			state = "not arrived"
		case a.Sleeping:
			state = "sleeping"
		}
		agents = append(agents, []string{
			a.Name,
			string(a.Location),
			strconv.Itoa(a.Vitals.Hunger),
			strconv.Itoa(a.Vitals.Energy),
			strconv.Itoa(a.Vitals.Boredom),
			money(a.Vitals.Money),
			state,
		})
	}
	b.WriteString(s.section.Render(s.table([]string{"Agent", "Location", "Hunger", "Energy", "Boredom", "Money", "Doing"}, agents)))
	return b.String()
}

func renderEntries(entries []economy.LogEntry) string {
	s := newStyles()
	var b strings.Builder
	for _, e := range entries {
		line := fmt.Sprintf("[D%d %02d:00] %s", e.Day, e.Time, e.Line())
		switch e.Kind {
		case economy.LogSystem:
			line = s.title.Render(line)
		case economy.LogThought:
			line = s.faint.Render(line)
		case economy.LogMarket:
			line = s.good.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func renderDivergences(ds []replay.Divergence) string {
	s := newStyles()
	if len(ds) == 0 {
		return s.good.Render("no divergence")
	}
	rows := make([][]string, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, []string{fmt.Sprintf("D%d %02d:00", d.Day, d.Hour), strconv.Itoa(d.Index), d.Want, d.Got})
	}
	return s.warning.Render(fmt.Sprintf("%d divergent ticks", len(ds))) + "\n" +
		s.table([]string{"Tick", "Line", "Archived", "Replayed"}, rows)
}

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}
