package editor

import "time"

// DefaultSuppressWindow is how long the context menu stays suppressed after
// a dropdown closes, a connection completes, or a selection is cleared.
const DefaultSuppressWindow = 200 * time.Millisecond

// Suppressor is a short-lived token that blocks the context menu while the
// pointer event that would open it belongs to another interaction.
type Suppressor struct {
	until time.Time
	now   func() time.Time
}

func NewSuppressor(now func() time.Time) *Suppressor {
	if now == nil {
		now = time.Now
	}
	return &Suppressor{now: now}
}

// Suppress blocks the menu for d from now. An existing longer window is kept.
func (s *Suppressor) Suppress(d time.Duration) {
	until := s.now().Add(d)
	if until.After(s.until) {
		s.until = until
	}
}

// Active reports whether the menu is currently suppressed.
func (s *Suppressor) Active() bool {
	return s.now().Before(s.until)
}

func (s *Suppressor) Until() time.Time {
	return s.until
}

// Clear ends any suppression window.
func (s *Suppressor) Clear() {
	s.until = time.Time{}
}
