package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"crystalos/internal/adapter/http/dto"
	"crystalos/internal/core/domain"
)

var ErrInvalidPayload = errors.New("invalid payload")

// BuildHabitPatch rejects bodies without any known field and fields sent as
// null, which the binding cannot tell apart from absent ones.
func BuildHabitPatch(req dto.UpdateHabitRequest, raw map[string]json.RawMessage) (domain.HabitPatch, error) {
	if !hasAnyField(raw, "name", "type", "note") {
		return domain.HabitPatch{}, ErrInvalidPayload
	}
	if nullSent(raw, "name", req.Name == nil) || nullSent(raw, "type", req.Type == nil) || nullSent(raw, "note", req.Note == nil) {
		return domain.HabitPatch{}, ErrInvalidPayload
	}

	var patch domain.HabitPatch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.HabitPatch{}, ErrInvalidPayload
		}
		patch.Name = &name
	}
	if req.Type != nil {
		habitType := domain.HabitType(*req.Type)
		patch.Type = &habitType
	}
	patch.Note = req.Note
	return patch, nil
}

func BuildTimetableItem(req dto.CreateTimetableRequest) (domain.TimetableItem, error) {
	activity := strings.TrimSpace(req.Activity)
	if activity == "" || req.EndTime <= req.StartTime {
		return domain.TimetableItem{}, ErrInvalidPayload
	}

	item := domain.TimetableItem{
		Activity:   activity,
		Category:   strings.TrimSpace(req.Category),
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Recurrence: domain.RecurrenceWeekly,
	}
	if req.Recurrence != nil {
		item.Recurrence = domain.Recurrence(*req.Recurrence)
	}

	switch item.Recurrence {
	case domain.RecurrenceOnce:
		if req.Date == nil {
			return domain.TimetableItem{}, ErrInvalidPayload
		}
		day, err := domain.ParseDay(*req.Date)
		if err != nil {
			return domain.TimetableItem{}, ErrInvalidPayload
		}
		item.Date = day
	default:
		if req.Day == nil {
			return domain.TimetableItem{}, ErrInvalidPayload
		}
		item.Day = *req.Day
	}
	return item, nil
}

func BuildTimetablePatch(req dto.UpdateTimetableRequest, raw map[string]json.RawMessage) (domain.TimetablePatch, error) {
	fields := []string{"activity", "category", "start_time", "end_time", "recurrence", "day", "date"}
	if !hasAnyField(raw, fields...) {
		return domain.TimetablePatch{}, ErrInvalidPayload
	}

	patch := domain.TimetablePatch{
		Activity:  req.Activity,
		Category:  req.Category,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Day:       req.Day,
	}
	if req.Activity != nil && strings.TrimSpace(*req.Activity) == "" {
		return domain.TimetablePatch{}, ErrInvalidPayload
	}
	if req.Recurrence != nil {
		recurrence := domain.Recurrence(*req.Recurrence)
		patch.Recurrence = &recurrence
	}
	if req.Date != nil {
		day, err := domain.ParseDay(*req.Date)
		if err != nil {
			return domain.TimetablePatch{}, ErrInvalidPayload
		}
		patch.Date = &day
	}

	// switching recurrence must carry the field the new recurrence needs;
	// checks against the stored item happen when the patch is applied
	if patch.Recurrence != nil {
		switch *patch.Recurrence {
		case domain.RecurrenceOnce:
			if patch.Date == nil {
				return domain.TimetablePatch{}, ErrInvalidPayload
			}
		case domain.RecurrenceWeekly:
			if patch.Day == nil {
				return domain.TimetablePatch{}, ErrInvalidPayload
			}
		}
	}
	if patch.StartTime != nil && patch.EndTime != nil && *patch.EndTime <= *patch.StartTime {
		return domain.TimetablePatch{}, ErrInvalidPayload
	}
	return patch, nil
}

func BuildFocusPatch(req dto.FocusRequest, raw map[string]json.RawMessage) (domain.FocusPatch, error) {
	if !hasAnyField(raw, "is_active", "is_open", "time_left", "active_task_id", "session_type") {
		return domain.FocusPatch{}, ErrInvalidPayload
	}

	patch := domain.FocusPatch{
		IsActive:     req.IsActive,
		IsOpen:       req.IsOpen,
		TimeLeft:     req.TimeLeft,
		ActiveTaskID: req.ActiveTaskID,
	}
	if req.SessionType != nil {
		sessionType := domain.SessionType(*req.SessionType)
		patch.SessionType = &sessionType
	}
	return patch, nil
}

func BuildAmbientPatch(req dto.AmbientRequest, raw map[string]json.RawMessage) (domain.AmbientPatch, error) {
	if !hasAnyField(raw, "track", "volume", "is_playing") {
		return domain.AmbientPatch{}, ErrInvalidPayload
	}

	patch := domain.AmbientPatch{Volume: req.Volume, IsPlaying: req.IsPlaying}
	if req.Track != nil {
		track := domain.AmbientTrack(*req.Track)
		if !track.Valid() {
			return domain.AmbientPatch{}, ErrInvalidPayload
		}
		patch.Track = &track
	}
	return patch, nil
}

// BuildAISettings merges the request into the current settings. An empty
// api_key clears the stored key.
func BuildAISettings(current domain.AISettings, req dto.AISettingsRequest, raw map[string]json.RawMessage) (domain.AISettings, error) {
	if !hasAnyField(raw, "api_key", "use_cloud") {
		return domain.AISettings{}, ErrInvalidPayload
	}
	if req.APIKey != nil {
		current.APIKey = strings.TrimSpace(*req.APIKey)
	}
	if req.UseCloud != nil {
		current.UseCloud = *req.UseCloud
	}
	return current, nil
}

func hasAnyField(raw map[string]json.RawMessage, fields ...string) bool {
	for _, field := range fields {
		if hasJSONField(raw, field) {
			return true
		}
	}
	return false
}

func nullSent(raw map[string]json.RawMessage, field string, missing bool) bool {
	return hasJSONField(raw, field) && missing && isJSONNull(raw[field])
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
