package calendar

// Merge reconciles a freshly normalized batch against the previously
// persisted one, keyed by event ID.
//
// For IDs present in both, the prior notification flags are carried
// forward verbatim (a re-fetch never resets a flag) and status never
// regresses: once completed, always completed, even when the new fetch
// came back without the actual value. Fresh IDs pass through unchanged.
//
// IDs present only in prior fell out of the fetch window and are dropped;
// the merged batch contains exactly the IDs of newEvents. Retention of
// scrolled-out events is deliberately left to the caller.
func Merge(newEvents, prior []Event) []Event {
	byID := make(map[string]Event, len(prior))
	for _, ev := range prior {
		byID[ev.ID] = ev
	}

	merged := make([]Event, 0, len(newEvents))
	for _, ev := range newEvents {
		if old, ok := byID[ev.ID]; ok {
			ev.NotifiedWarn = old.NotifiedWarn
			ev.NotifiedRelease = old.NotifiedRelease

			// Guard against a stale re-fetch downgrading a release that
			// already happened.
			if old.Status == StatusCompleted || ev.Actual != nil {
				ev.Status = StatusCompleted
			}
		}
		merged = append(merged, ev)
	}
	return merged
}
