package chat

// SuggestionChangeDestination is offered once a destination is set. Sending it
// in the chat phase goes back to asking for a destination.
const SuggestionChangeDestination = "Change destination"

// Suggestions returns the follow-up chips for a conversation state.
func Suggestions(s State) []string {
	if s.WeatherContext == nil {
		return []string{
			"What are popular treks nearby?",
			"What is the best season to visit?",
			"Any beginner-friendly routes?",
		}
	}

	loc := s.WeatherContext.Forecast.Location.Name
	if loc == "" {
		loc = s.Destination
	}
	if loc == "" {
		loc = "this trek"
	}
	return []string{
		"Suggest a 2-day itinerary around " + loc,
		"How will the weather affect difficulty?",
		"What gear should I pack for these conditions?",
		SuggestionChangeDestination,
	}
}
