package appcontrol

import "appcontrol/internal/platform"

// InForeground decides whether the application counts as being in the
// foreground. A visible and focused window settles it immediately; failing
// that, any visible window still counts, so foreground means "on screen"
// rather than "holds input focus".
func InForeground(states []platform.WindowState) bool {
	anyVisible := false
	for _, s := range states {
		if s.Visible && s.Focused {
			return true
		}
		if s.Visible {
			anyVisible = true
		}
	}
	return anyVisible
}
