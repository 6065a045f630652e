package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiocommand/console/internal/meter"
)

// Meter bar geometry. The bar spans -60 dB to 0 dB; color bands follow
// broadcast convention with the caution band starting at -12 dB.
const (
	meterFloorDB   = -60.0
	meterCautionDB = -12.0
	meterHotDB     = -6.0
)

func (m Model) renderMeters(now time.Time) string {
	if m.opts.Selector == nil {
		return ""
	}
	d := m.opts.Selector.Display()

	width := m.width - 24
	if width < 20 {
		width = 20
	}

	left := m.renderChannel("L", d.Left, width)
	right := m.renderChannel("R", d.Right, width)
	return left + "\n" + right
}

func (m Model) renderChannel(label string, ch meter.ChannelDisplay, width int) string {
	s := m.styles

	rmsDB := meter.DisplayDB(ch.RMS)
	peakDB := meter.DisplayDB(ch.Peak)

	rmsCells := dbToCells(rmsDB, width)
	peakCell := dbToCells(peakDB, width)

	var bar strings.Builder
	for i := 0; i < width; i++ {
		style := s.Faint
		glyph := "·"
		switch {
		case i < rmsCells:
			glyph = "█"
			style = m.bandStyle(cellDB(i, width))
		case i == peakCell && peakCell > 0:
			glyph = "▌"
			style = m.bandStyle(peakDB)
		}
		bar.WriteString(style.Render(glyph))
	}

	return fmt.Sprintf(" %s %s %s",
		s.Muted.Render(label),
		bar.String(),
		s.Muted.Render(fmt.Sprintf("%6.1f dB", rmsDB)))
}

func (m Model) bandStyle(db float64) lipgloss.Style {
	switch {
	case db >= meterHotDB:
		return m.styles.MeterHigh
	case db >= meterCautionDB:
		return m.styles.MeterMid
	default:
		return m.styles.MeterLow
	}
}

// dbToCells maps a dB value onto the bar, clamped to its span.
func dbToCells(db float64, width int) int {
	frac := (db - meterFloorDB) / -meterFloorDB
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return int(frac * float64(width))
}

// cellDB is the inverse mapping, used to color each filled cell by the
// level it represents.
func cellDB(cell, width int) float64 {
	return meterFloorDB + (float64(cell)/float64(width))*-meterFloorDB
}
