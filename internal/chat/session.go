package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/neexbeast/trekmate/internal/metrics"
	"github.com/neexbeast/trekmate/internal/plan"
	"github.com/neexbeast/trekmate/internal/weather"
)

// ErrTurnInFlight is returned when Send is called while another turn of the
// same session is still running.
var ErrTurnInFlight = errors.New("a turn is already in progress for this conversation")

const (
	msgWelcome         = "Hi! I'm TrekMate AI. Where do you want to trek/travel in Japan? 🏔️"
	msgEmptyQuestion   = "Please type a question about your trek."
	msgNeedDestination = "Please provide a destination first so I can tailor advice."
	msgPlanFailed      = "I couldn't generate the trek plan right now. You can still ask questions about your trek."
	msgFollowUpFailed  = "I couldn't process that question right now. Please try again."
	msgAskFollowUps    = "Ask me follow-up questions or request adjustments (distance, pace, budget). 🏔️"
	msgNewDestination  = "Sure! Where do you want to trek/travel in Japan next? 🏔️"
)

// WeatherLookup is satisfied by weather.Service.
type WeatherLookup interface {
	Lookup(ctx context.Context, raw string) (weather.Report, error)
}

// PlanGenerator is satisfied by plan.Generator.
type PlanGenerator interface {
	Generate(ctx context.Context, req plan.Request) (string, error)
}

// Turn is what one user message produced.
type Turn struct {
	Phase       Phase     `json:"phase"`
	Messages    []Message `json:"messages"`
	Suggestions []string  `json:"suggestions"`
}

// Session drives one conversation through its phases. A session is used by a
// single user; concurrent turns are rejected rather than interleaved.
type Session struct {
	mu        sync.Mutex
	state     State
	lookup    WeatherLookup
	generator PlanGenerator
	log       *slog.Logger
	newID     func() string
}

// NewSession starts a conversation in the askDestination phase.
func NewSession(lookup WeatherLookup, generator PlanGenerator, log *slog.Logger) *Session {
	s := &Session{lookup: lookup, generator: generator, log: log, newID: uuid.NewString}
	s.state = s.initialState()
	return s
}

// Resume continues a conversation from a previously returned State.
func Resume(state State, lookup WeatherLookup, generator PlanGenerator, log *slog.Logger) (*Session, error) {
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("resuming conversation: %w", err)
	}
	return &Session{
		state:     state.clone(),
		lookup:    lookup,
		generator: generator,
		log:       log,
		newID:     uuid.NewString,
	}, nil
}

// InitialState returns the state of a brand-new conversation.
func InitialState() State {
	return (&Session{newID: uuid.NewString}).initialState()
}

func (s *Session) initialState() State {
	return State{
		Phase:    PhaseAskDestination,
		Messages: []Message{{ID: s.newID(), Role: RoleAssistant, Content: msgWelcome}},
	}
}

// State returns a copy of the current conversation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Restart drops the destination and weather context and greets the user again.
func (s *Session) Restart() error {
	if !s.mu.TryLock() {
		return ErrTurnInFlight
	}
	defer s.mu.Unlock()
	s.state = s.initialState()
	return nil
}

// Send handles one user message. Lookup and generation failures become
// assistant messages; only configuration errors and ErrTurnInFlight are returned.
// A turn that returns a configuration error leaves the state as it was.
func (s *Session) Send(ctx context.Context, text string) (Turn, error) {
	if !s.mu.TryLock() {
		return Turn{}, ErrTurnInFlight
	}
	defer s.mu.Unlock()

	prev := s.state.clone()
	mark := len(s.state.Messages)
	s.state.Suggestions = nil

	phase := s.state.Phase
	var err error
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		s.handleBlank()
	case s.state.Phase == PhaseAskDestination:
		err = s.handleDestination(ctx, text)
	case strings.EqualFold(text, SuggestionChangeDestination):
		s.handleChangeDestination(text)
	default:
		err = s.handleQuestion(ctx, text)
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		s.state = prev
	}
	metrics.TurnsTotal.WithLabelValues(string(phase), outcome).Inc()

	turn := Turn{
		Phase:       s.state.Phase,
		Messages:    append([]Message(nil), s.state.Messages[mark:]...),
		Suggestions: append([]string(nil), s.state.Suggestions...),
	}
	return turn, err
}

func (s *Session) handleBlank() {
	if s.state.Phase == PhaseAskDestination {
		s.say(weather.DescribeFailure(&weather.ValidationError{Message: "Please provide a location name"}).Message)
		return
	}
	s.say(msgEmptyQuestion)
}

func (s *Session) handleDestination(ctx context.Context, text string) error {
	s.add(RoleUser, text, nil)

	report, err := s.lookup.Lookup(ctx, text)
	if err != nil {
		s.log.Info("destination lookup failed", "query", text, "err", err)
		var dErr *weather.DisambiguationError
		if errors.As(err, &dErr) && len(dErr.Candidates) > 0 {
			s.say(disambiguationMessage(dErr.Candidates))
			return nil
		}
		s.say(weather.DescribeFailure(err).Message)
		return nil
	}

	wc := &WeatherContext{Forecast: report.Forecast, Summary: report.Summary}
	planText, err := s.generator.Generate(ctx, plan.Request{
		Destination: text,
		Forecast:    wc.Forecast,
		Summary:     wc.Summary,
	})
	if err != nil && isConfigError(err) {
		return err
	}

	s.state.Destination = text
	s.state.WeatherContext = wc
	s.add(RoleAssistant, fmt.Sprintf("Here's the weather forecast for %s:", report.Forecast.Location.Name), wc)

	if err != nil {
		s.log.Warn("trek plan generation failed", "destination", text, "err", err)
		s.say(msgPlanFailed)
	} else {
		s.say(planText)
	}

	s.say(msgAskFollowUps)
	s.state.Suggestions = Suggestions(s.state)
	s.state.Phase = PhaseChat
	return nil
}

// handleChangeDestination drops the weather context and goes back to asking
// for a destination. Earlier messages stay in the history.
func (s *Session) handleChangeDestination(text string) {
	s.add(RoleUser, text, nil)
	s.state.Destination = ""
	s.state.WeatherContext = nil
	s.state.Phase = PhaseAskDestination
	s.say(msgNewDestination)
}

func (s *Session) handleQuestion(ctx context.Context, text string) error {
	s.add(RoleUser, text, nil)

	wc := s.state.WeatherContext
	if wc == nil {
		s.say(msgNeedDestination)
		return nil
	}

	reply, err := s.generator.Generate(ctx, plan.Request{
		Destination: s.state.Destination,
		Forecast:    wc.Forecast,
		Summary:     wc.Summary,
		Question:    text,
	})
	if err != nil {
		if isConfigError(err) {
			return err
		}
		s.log.Warn("follow-up generation failed", "destination", s.state.Destination, "err", err)
		s.say(msgFollowUpFailed)
		return nil
	}

	s.say(reply)
	s.state.Suggestions = Suggestions(s.state)
	return nil
}

func (s *Session) say(content string) {
	s.add(RoleAssistant, content, nil)
}

func (s *Session) add(role Role, content string, wc *WeatherContext) {
	s.state.Messages = append(s.state.Messages, Message{
		ID:          s.newID(),
		Role:        role,
		Content:     content,
		WeatherData: wc,
	})
}

func isConfigError(err error) bool {
	var cErr *plan.ConfigError
	return errors.As(err, &cErr)
}

func disambiguationMessage(candidates []weather.GeocodeCandidate) string {
	var b strings.Builder
	b.WriteString("I found multiple locations:\n\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Label())
	}
	b.WriteString("\nPlease specify which one.")
	return b.String()
}
