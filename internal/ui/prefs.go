package ui

import (
	"log"

	"github.com/studiocommand/console/internal/prefs"
)

// currentPrefs assembles the preferences to persist. AutoStart is the
// value loaded at startup, not the monitor's live state: toggling
// meters must not rewrite an operator's auto_start_monitor choice.
func (m Model) currentPrefs() prefs.Prefs {
	return prefs.Prefs{
		Theme:     m.theme.Name,
		ShowVU:    m.showVU,
		AutoStart: m.opts.AutoStartMonitor,
	}
}

func savePrefs(path string, p prefs.Prefs) {
	if err := prefs.Save(path, p); err != nil {
		log.Printf("save preferences: %v", err)
	}
}
