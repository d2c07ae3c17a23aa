package economy

// ObservationLines picks the lines a CEO reviews on a non-deciding hour: everything
// logged during (day, hour), formatted, newest ObservationWindow kept.
func ObservationLines(entries []LogEntry, day, hour int) []string {
	lines := []string{}
	for _, e := range entries {
		if e.Day == day && e.Time == hour {
			lines = append(lines, e.Line())
		}
	}
	return lastN(lines, ObservationWindow)
}

// MarketIntel is the customer chatter a CEO sees before deciding: the latest thought
// and action entries.
func MarketIntel(entries []LogEntry) []string {
	lines := []string{}
	for _, e := range entries {
		if e.Kind == LogThought || e.Kind == LogAction {
			lines = append(lines, e.Line())
		}
	}
	return lastN(lines, CEOIntelWindow)
}

func lastN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
