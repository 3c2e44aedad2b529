// Package insight runs the two-stage advisory pipeline: a local insight is
// published immediately and is replaced by a generated one when remote text
// generation is configured and succeeds.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"crystalos/internal/app/advisor"
	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

const (
	ModeRemote = "Gemini Neural"

	ChatGreeting    = "Systems online. Cortex ready for input."
	ChatLinkFailure = "Error: Neural Link unstable."
)

var (
	ErrNoGenerator       = errors.New("no text generator configured")
	ErrMalformedResponse = errors.New("malformed generated payload")
)

// Target is the session state the pipeline reads from and publishes to.
type Target interface {
	AdvisorState() advisor.State
	AISettings() domain.AISettings
	Now() time.Time
	Location() *time.Location
	PublishInsight(domain.Insight)
	SetLatestInsight(domain.Insight)
}

// ChatTarget holds the ephemeral chat history of a session.
type ChatTarget interface {
	AdvisorState() advisor.State
	AISettings() domain.AISettings
	SeedChat(greeting domain.ChatMessage) []domain.ChatMessage
	AppendChat(messages ...domain.ChatMessage)
}

// Outcome is the result of one Generate run. Fallback carries the reason the
// remote stage was abandoned and is nil when it succeeded or was not tried.
type Outcome struct {
	Insight    domain.Insight    `json:"insight"`
	Provenance domain.Provenance `json:"provenance"`
	Fallback   error             `json:"-"`
}

type Service struct {
	generator ports.TextGenerator
	logger    *zap.Logger
}

// NewService builds the pipeline. A nil generator disables the remote stage.
func NewService(generator ports.TextGenerator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{generator: generator, logger: logger}
}

func (s *Service) cloudUsable(settings domain.AISettings) bool {
	return s.generator != nil && settings.CloudEnabled()
}

type generatedInsight struct {
	Message    string `json:"message"`
	Action     string `json:"action"`
	Priority   string `json:"priority"`
	Motivation string `json:"motivation"`
}

// Generate publishes the local insight, then tries the remote stage once.
// Concurrent calls are not deduplicated; the last publish wins.
func (s *Service) Generate(ctx context.Context, target Target) Outcome {
	state := target.AdvisorState()
	now, loc := target.Now(), target.Location()

	local := advisor.Analyze(state, now, loc).Insight()
	target.PublishInsight(local)
	outcome := Outcome{Insight: local, Provenance: domain.ProvenanceLocal}

	settings := target.AISettings()
	if !s.cloudUsable(settings) {
		return outcome
	}

	text, err := s.generator.Generate(ctx, settings.APIKey, buildInsightPrompt(Summary(state, now, loc)))
	if err != nil {
		s.logger.Warn("insight generation failed, keeping local insight", zap.Error(err))
		outcome.Fallback = err
		return outcome
	}

	var generated generatedInsight
	if err := json.Unmarshal([]byte(stripFences(text)), &generated); err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		s.logger.Warn("generated insight is not valid JSON, keeping local insight", zap.Error(err))
		outcome.Fallback = err
		return outcome
	}
	if generated.Message == "" {
		s.logger.Warn("generated insight has no message, keeping local insight")
		outcome.Fallback = ErrMalformedResponse
		return outcome
	}

	remote := domain.Insight{
		Message:    generated.Message,
		Action:     generated.Action,
		Priority:   generated.Priority,
		Motivation: generated.Motivation,
		Mode:       ModeRemote,
		Provenance: domain.ProvenanceRemote,
	}
	target.PublishInsight(remote)
	target.SetLatestInsight(remote)
	return Outcome{Insight: remote, Provenance: domain.ProvenanceRemote}
}

// History returns the chat log, seeding it with the greeting on first use.
func (s *Service) History(target ChatTarget) []domain.ChatMessage {
	return target.SeedChat(domain.ChatMessage{Role: domain.ChatRoleAI, Text: ChatGreeting})
}

// Chat records message and the reply in the session's chat history and
// returns the reply.
func (s *Service) Chat(ctx context.Context, target ChatTarget, message string) domain.ChatMessage {
	s.History(target)

	reply := domain.ChatMessage{Role: domain.ChatRoleAI, Text: s.reply(ctx, target, message)}
	target.AppendChat(domain.ChatMessage{Role: domain.ChatRoleUser, Text: message}, reply)
	return reply
}

func (s *Service) reply(ctx context.Context, target ChatTarget, message string) string {
	settings := target.AISettings()
	if !s.cloudUsable(settings) {
		return advisor.Reply(message)
	}

	tasks := len(target.AdvisorState().Tasks)
	text, err := s.generator.Generate(ctx, settings.APIKey, buildChatPrompt(tasks, message))
	if err == nil && text != "" {
		return text
	}
	if ctx.Err() != nil {
		s.logger.Warn("chat generation aborted", zap.Error(ctx.Err()))
		return ChatLinkFailure
	}
	s.logger.Warn("chat generation failed, using local reply", zap.Error(err))
	return advisor.Reply(message)
}

// Research builds the briefing attached to a new project. It returns the
// generated payload when possible and the local template otherwise.
func (s *Service) Research(ctx context.Context, settings domain.AISettings, name, description string) (domain.Research, domain.Provenance) {
	detected := advisor.ClassifyDomain(name, description)
	if !s.cloudUsable(settings) {
		return advisor.FallbackResearch(name, description), domain.ProvenanceLocal
	}

	text, err := s.generator.Generate(ctx, settings.APIKey, buildResearchPrompt(name, description, detected))
	if err != nil {
		s.logger.Warn("research generation failed, using local template", zap.String("project", name), zap.Error(err))
		return advisor.FallbackResearch(name, description), domain.ProvenanceLocal
	}

	var research domain.Research
	if err := json.Unmarshal([]byte(stripFences(text)), &research); err != nil || research.Brief == "" {
		s.logger.Warn("generated research is malformed, using local template", zap.String("project", name), zap.Error(err))
		return advisor.FallbackResearch(name, description), domain.ProvenanceLocal
	}
	switch research.Domain {
	case domain.ResearchDomainHardware, domain.ResearchDomainSoftware, domain.ResearchDomainInformation:
	default:
		research.Domain = detected
	}
	return research, domain.ProvenanceRemote
}
