package store

import (
	"context"

	"crystalos/internal/core/domain"
)

// SetThemeColor applies the color locally and, when signed in, stores it on
// the profile.
func (s *Store) SetThemeColor(ctx context.Context, color string) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	s.mu.Lock()
	s.data.themeColor = color
	user, ok := s.userLocked()
	s.mu.Unlock()
	s.publish()

	if !ok {
		return
	}
	if err := s.gateway.UpdateThemeColor(ctx, user.ID, color); err != nil {
		s.fail("set_theme_color", domain.TableProfiles, user.ID, err)
	}
}

func (s *Store) ToggleDarkMode() bool {
	s.mu.Lock()
	s.data.isDarkMode = !s.data.isDarkMode
	dark := s.data.isDarkMode
	s.mu.Unlock()
	s.publish()
	return dark
}

func (s *Store) UpdateFocusMode(patch domain.FocusPatch) domain.FocusMode {
	s.mu.Lock()
	s.data.focus = patch.Apply(s.data.focus)
	focus := s.data.focus
	s.mu.Unlock()
	s.publish()
	return focus
}

func (s *Store) SetAmbient(patch domain.AmbientPatch) domain.Ambient {
	s.mu.Lock()
	s.data.ambient = patch.Apply(s.data.ambient)
	ambient := s.data.ambient
	s.mu.Unlock()
	s.publish()
	return ambient
}

func (s *Store) SetAISettings(settings domain.AISettings) {
	s.mu.Lock()
	s.data.ai = settings
	s.mu.Unlock()
	s.publish()
}

func (s *Store) AISettings() domain.AISettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ai
}
