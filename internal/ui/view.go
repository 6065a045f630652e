package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiocommand/console/internal/engine"
	"github.com/studiocommand/console/internal/monitor"
	"github.com/studiocommand/console/internal/state"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "starting console..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	now := time.Now()
	var b strings.Builder
	b.WriteString(m.renderHeader(now))
	b.WriteByte('\n')
	b.WriteString(m.renderNowPlaying(now))
	b.WriteByte('\n')
	b.WriteString(m.renderQueue(now))
	b.WriteByte('\n')
	if m.showVU {
		b.WriteString(m.renderMeters(now))
		b.WriteByte('\n')
	}
	b.WriteString(m.renderProducers())
	b.WriteByte('\n')
	b.WriteString(m.renderMonitor(now))
	b.WriteByte('\n')
	b.WriteString(m.renderFooter(now))
	return b.String()
}

func (m Model) renderHeader(now time.Time) string {
	s := m.styles
	mode := m.snapshot.Mode(now, state.DefaultStaleAfter)

	var badge string
	switch mode {
	case state.ModeLive:
		badge = s.BadgeLive.Render("LIVE")
	case state.ModeLiveStale:
		badge = s.BadgeStale.Render("STALE")
	default:
		badge = s.BadgeOffline.Render("OFFLINE")
	}

	parts := []string{s.Accent.Bold(true).Render("console"), badge}

	if m.snapshot.HasStatus && m.snapshot.Status.Version != "" {
		label := "engine " + m.snapshot.Status.Version
		if m.snapshot.Demo {
			label = "rehearsal"
		}
		parts = append(parts, s.Muted.Render(label))
	}

	switch mode {
	case state.ModeLive:
		parts = append(parts, s.Faint.Render(m.snapshot.LastSuccess.Format("15:04:05")))
	case state.ModeLiveStale:
		age := now.Sub(m.snapshot.LastSuccess).Round(time.Second)
		parts = append(parts, s.Warning.Render(fmt.Sprintf("last seen %s ago", age)))
	default:
		parts = append(parts, s.Warning.Render("engine unreachable, rehearsing locally"))
	}

	if m.snapshot.LastError != nil && mode != state.ModeLive {
		parts = append(parts, s.Danger.Render(truncate(m.snapshot.LastError.Error(), 48)))
	}

	return s.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderNowPlaying(now time.Time) string {
	s := m.styles
	if !m.snapshot.HasStatus || !m.hasAnchor {
		return s.Muted.Render(" waiting for playout state...")
	}

	np := m.snapshot.Status.Now
	pos := m.anchor.PositionAt(now)
	title := np.Title
	if np.Artist != "" {
		title += " — " + np.Artist
	}

	clock := fmt.Sprintf("%s / %s", engine.FormatDuration(pos), engine.FormatDuration(np.Dur))
	barWidth := m.width - lipgloss.Width(title) - len(clock) - 8
	if barWidth < 10 {
		barWidth = 10
	}
	bar := progressBar(m.anchor.Fraction(now), barWidth)

	return " " + s.Playing.Render("▶ ") + s.Text.Render(title) + "  " +
		s.Accent.Render(bar) + "  " + s.Muted.Render(clock)
}

// progressBar renders a fraction as a fixed-width bar.
func progressBar(frac float64, width int) string {
	if width <= 0 {
		return ""
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("━", filled) + strings.Repeat("╌", width-filled)
}

func (m Model) renderQueue(now time.Time) string {
	s := m.styles
	log := m.snapshot.Status.Log

	header := fmt.Sprintf("   %-4s %-6s %-*s %-*s %6s  %s",
		"TAG", "TIME", m.titleWidth(), "TITLE", m.artistWidth(), "ARTIST", "DUR", "CART")
	lines := []string{s.Faint.Render(header)}

	if len(log) == 0 {
		lines = append(lines, s.Muted.Render("   log empty"))
		return strings.Join(lines, "\n")
	}

	flashLive := now.Before(m.flashUntil)
	for i, item := range log {
		lines = append(lines, m.renderRow(i, item, flashLive))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i int, item engine.QueueItem, flashLive bool) string {
	s := m.styles

	marker := "  "
	switch {
	case m.drag.active && i == m.drag.overRow && i != m.drag.fromRow:
		marker = "⇢ "
	case i == 0:
		marker = "▶ "
	case item.State == engine.StateLocked:
		marker = "⊘ "
	}

	text := fmt.Sprintf("%s%-4s %-6s %-*s %-*s %6s  %s",
		marker, item.Tag, item.Time,
		m.titleWidth(), truncate(item.Title, m.titleWidth()),
		m.artistWidth(), truncate(item.Artist, m.artistWidth()),
		item.Dur, item.Cart)
	text = " " + text

	_, flashed := m.flash[item.ID]
	switch {
	case m.drag.active && i == m.drag.fromRow:
		return s.Selected.Render(text)
	case i == m.selected:
		return s.Selected.Render(text)
	case flashLive && flashed:
		return s.Flash.Render(text)
	case i == 0:
		return s.Playing.Render(text)
	case item.State == engine.StateLocked:
		return s.Locked.Render(text)
	case item.State == engine.StateNext:
		return s.Accent.Render(text)
	default:
		return s.Text.Render(text)
	}
}

func (m Model) titleWidth() int {
	w := (m.width - 40) / 2
	if w < 16 {
		w = 16
	}
	return w
}

func (m Model) artistWidth() int {
	w := (m.width - 40) / 3
	if w < 12 {
		w = 12
	}
	return w
}

func (m Model) renderProducers() string {
	s := m.styles
	producers := m.snapshot.Status.Producers
	if len(producers) == 0 {
		return s.Faint.Render(" no producers connected")
	}

	parts := make([]string, 0, len(producers))
	for _, p := range producers {
		label := p.Name
		if p.OnAir {
			label = s.Danger.Render("● " + label)
		} else {
			label = s.Muted.Render("○ " + label)
		}
		if p.CamOn {
			label += s.Accent.Render(" cam")
		}
		parts = append(parts, label)
	}
	return " " + s.Muted.Render("producers ") + strings.Join(parts, "  ")
}

func (m Model) renderMonitor(now time.Time) string {
	s := m.styles
	src := "poll"
	if m.opts.Selector != nil {
		src = m.opts.Selector.Active(now).String()
	}
	if m.opts.Monitor == nil {
		return " " + s.Faint.Render("monitor unavailable") + "  " + s.Faint.Render("meters "+src)
	}

	phase := m.opts.Monitor.Phase()
	var phaseStyled string
	switch phase {
	case monitor.PhaseConnected:
		phaseStyled = s.Success.Render(phase.String())
	case monitor.PhaseConnecting:
		phaseStyled = s.Warning.Render(phase.String())
	case monitor.PhaseFailed:
		phaseStyled = s.Danger.Render(phase.String())
	default:
		phaseStyled = s.Muted.Render(phase.String())
	}

	st := m.opts.Monitor.States()
	detail := fmt.Sprintf("peer %s  ice %s  sig %s  gather %s", st.Peer, st.ICE, st.Signaling, st.Gathering)
	return " " + s.Muted.Render("monitor ") + phaseStyled + "  " +
		s.Faint.Render(detail) + "  " + s.Faint.Render("meters "+src)
}

func (m Model) renderFooter(now time.Time) string {
	s := m.styles
	if m.inserting {
		return s.Footer.Width(m.width).Render(
			"insert after row " + fmt.Sprint(m.selected) + ": " + m.insert.View() + "  (enter to send, esc to cancel)")
	}
	if m.alert != "" && now.Before(m.alertUntil) {
		style := s.Muted
		if m.alertErr {
			style = s.Danger
		}
		return s.Footer.Width(m.width).Render(style.Render(m.alert))
	}
	return s.Footer.Width(m.width).Render(m.help.View(m.keys))
}

func (m Model) renderHelp() string {
	s := m.styles
	title := s.Accent.Bold(true).Render("console keys")
	body := m.help.FullHelpView(m.keys.FullHelp())
	note := s.Muted.Render("drag a row with the mouse to reorder; the playing item stays put")
	return lipgloss.JoinVertical(lipgloss.Left, "", " "+title, "", body, "", " "+note,
		"", " "+s.Faint.Render("press any key to close"))
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
