package services

import (
	"time"
)

// SetClock replaces the service clock; tests only.
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}
