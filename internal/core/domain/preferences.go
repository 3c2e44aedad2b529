package domain

const (
	DefaultThemeColor   = "#AFFC41"
	DefaultFocusSeconds = 25 * 60
	DefaultVolume       = 0.5
)

type SessionType string

const (
	SessionTypeFocus SessionType = "focus"
	SessionTypeBreak SessionType = "break"
)

type FocusMode struct {
	IsActive     bool        `json:"is_active"`
	IsOpen       bool        `json:"is_open"`
	TimeLeft     int         `json:"time_left"`
	ActiveTaskID string      `json:"active_task_id,omitempty"`
	SessionType  SessionType `json:"session_type"`
}

type AmbientTrack string

const (
	AmbientNone  AmbientTrack = "none"
	AmbientRain  AmbientTrack = "rain"
	AmbientLofi  AmbientTrack = "lofi"
	AmbientWaves AmbientTrack = "waves"
	AmbientWhite AmbientTrack = "white"
)

func (t AmbientTrack) Valid() bool {
	switch t {
	case AmbientNone, AmbientRain, AmbientLofi, AmbientWaves, AmbientWhite:
		return true
	}
	return false
}

type Ambient struct {
	Track     AmbientTrack `json:"track"`
	Volume    float64      `json:"volume"`
	IsPlaying bool         `json:"is_playing"`
}

type AmbientPatch struct {
	Track     *AmbientTrack
	Volume    *float64
	IsPlaying *bool
}

func (p AmbientPatch) Apply(a Ambient) Ambient {
	if p.Track != nil {
		a.Track = *p.Track
	}
	if p.Volume != nil {
		a.Volume = *p.Volume
	}
	if p.IsPlaying != nil {
		a.IsPlaying = *p.IsPlaying
	}
	return a
}

type FocusPatch struct {
	IsActive     *bool
	IsOpen       *bool
	TimeLeft     *int
	ActiveTaskID *string
	SessionType  *SessionType
}

func (p FocusPatch) Apply(f FocusMode) FocusMode {
	if p.IsActive != nil {
		f.IsActive = *p.IsActive
	}
	if p.IsOpen != nil {
		f.IsOpen = *p.IsOpen
	}
	if p.TimeLeft != nil {
		f.TimeLeft = *p.TimeLeft
	}
	if p.ActiveTaskID != nil {
		f.ActiveTaskID = *p.ActiveTaskID
	}
	if p.SessionType != nil {
		f.SessionType = *p.SessionType
	}
	return f
}

func DefaultFocusMode() FocusMode {
	return FocusMode{TimeLeft: DefaultFocusSeconds, SessionType: SessionTypeFocus}
}

func DefaultAmbient() Ambient {
	return Ambient{Track: AmbientNone, Volume: DefaultVolume}
}
