package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap/logging"
	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/risk"
	"github.com/oliver-breen/crypto-crowd-risk/internal/usecase/registry"
)

type Options struct {
	Cryptocurrency  string
	RefreshInterval time.Duration
}

type entriesModel struct {
	ctx             context.Context
	service         *registry.Service
	cryptoFilter    string
	refreshInterval time.Duration

	entries       []risk.Entry
	stats         registry.Stats
	selectedIndex int
	status        string
}

type entriesLoadedMsg struct {
	entries []risk.Entry
	stats   registry.Stats
	err     error
}

type tickMsg struct{}

func NewEntriesModel(ctx context.Context, service *registry.Service, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &entriesModel{
		ctx:             ctx,
		service:         service,
		cryptoFilter:    strings.TrimSpace(options.Cryptocurrency),
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *entriesModel) Init() tea.Cmd {
	return tea.Batch(m.loadEntriesCmd(), m.tickCmd())
}

func (m *entriesModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadEntriesCmd(), m.tickCmd())
	case entriesLoadedMsg:
		if msg.err != nil {
			m.status = "load failed: " + msg.err.Error()
			return m, nil
		}
		m.entries = msg.entries
		m.stats = msg.stats
		m.selectedIndex = clampIndex(m.selectedIndex, len(m.entries))
		m.status = fmt.Sprintf("loaded entries=%d avg_risk=%.2f", len(m.entries), m.stats.AverageRisk)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.selectedIndex = clampIndex(m.selectedIndex-1, len(m.entries))
			return m, nil
		case "down", "j":
			m.selectedIndex = clampIndex(m.selectedIndex+1, len(m.entries))
			return m, nil
		case "r":
			return m, m.loadEntriesCmd()
		}
	}

	return m, nil
}

func (m *entriesModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Crowd Risk Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"filter=%s refresh=%s",
		firstNonEmpty(m.cryptoFilter, "all"),
		m.refreshInterval,
	)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Entries"))
	builder.WriteString("\n")
	if len(m.entries) == 0 {
		builder.WriteString(dimStyle.Render("- no entries"))
		builder.WriteString("\n\n")
	} else {
		for index, entry := range m.entries {
			line := fmt.Sprintf(
				"#%d %s %s [%s] score=%.2f sentiment=%s reporter=%s",
				entry.ID,
				entry.ReportDate,
				entry.Cryptocurrency,
				strings.ToUpper(string(entry.RiskLevel)),
				entry.RiskScore,
				sentimentLabel(entry.CrowdSentiment),
				entry.Reporter,
			)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	if len(m.entries) > 0 {
		selected := m.entries[m.selectedIndex]
		builder.WriteString(sectionStyle.Render("Detail"))
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf("  market_cap=%.2f volatility=%.2f\n", selected.MarketCap, selected.VolatilityIndex))
		if selected.Description != "" {
			builder.WriteString("  " + selected.Description + "\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Stats"))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("  total=%d avg_risk=%.2f\n", m.stats.TotalEntries, m.stats.AverageRisk))
	for _, level := range risk.RiskLevels() {
		if count := m.stats.Distribution[level]; count > 0 {
			builder.WriteString(fmt.Sprintf("  %s=%d\n", level, count))
		}
	}
	builder.WriteString("\n")

	builder.WriteString(dimStyle.Render("status: " + m.status))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render("keys: up/down select, r refresh, q quit"))
	builder.WriteString("\n")

	return builder.String()
}

func (m *entriesModel) loadEntriesCmd() tea.Cmd {
	return func() tea.Msg {
		var entries []risk.Entry
		var err error

		if m.cryptoFilter == "" {
			entries, err = m.service.ListAll(m.ctx)
		} else {
			entries, err = m.service.ListByCryptocurrency(m.ctx, m.cryptoFilter)
		}
		if err != nil {
			logging.Error(m.ctx, "console load entries failed", slog.Any("err", err))
			return entriesLoadedMsg{err: err}
		}

		stats, err := m.service.Stats(m.ctx, m.cryptoFilter)
		if err != nil {
			return entriesLoadedMsg{err: err}
		}

		return entriesLoadedMsg{entries: entries, stats: stats}
	}
}

func (m *entriesModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func clampIndex(index int, length int) int {
	if length == 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

func sentimentLabel(sentiment *risk.CrowdSentiment) string {
	if sentiment == nil {
		return "-"
	}
	return string(*sentiment)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
