package chat

import (
	"fmt"

	"github.com/neexbeast/trekmate/internal/weather"
)

// Phase is the conversation step the next user message is interpreted in.
type Phase string

const (
	PhaseAskDestination Phase = "askDestination"
	PhaseChat           Phase = "chat"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// WeatherContext is the forecast and summary a conversation is planned around.
type WeatherContext struct {
	Forecast weather.ForecastSnapshot `json:"forecast"`
	Summary  weather.WeatherSummary   `json:"summary"`
}

// Message is one chat bubble. Messages are never edited once appended.
type Message struct {
	ID          string          `json:"id"`
	Role        Role            `json:"role"`
	Content     string          `json:"content"`
	WeatherData *WeatherContext `json:"weather_data,omitempty"`
}

// State is everything a conversation needs to continue. It is owned by a
// single Session and can be handed to a client and resumed later.
type State struct {
	Phase          Phase           `json:"phase"`
	Destination    string          `json:"destination"`
	WeatherContext *WeatherContext `json:"weather_context,omitempty"`
	Messages       []Message       `json:"messages"`
	Suggestions    []string        `json:"suggestions"`
}

// Validate checks a state received from outside the process.
func (s State) Validate() error {
	switch s.Phase {
	case PhaseAskDestination, PhaseChat:
	default:
		return fmt.Errorf("unknown conversation phase %q", s.Phase)
	}
	for i, m := range s.Messages {
		if m.ID == "" {
			return fmt.Errorf("message %d has no id", i)
		}
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("message %d has unknown role %q", i, m.Role)
		}
	}
	return nil
}

// clone copies the slices so the caller cannot mutate session-owned state.
func (s State) clone() State {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	out.Suggestions = append([]string(nil), s.Suggestions...)
	return out
}
