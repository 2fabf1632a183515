package calendar

import (
	"context"
	"time"

	"catalystradar/pkg/logx"
)

// Sender is the opaque message-delivery sink. An error means the message
// did not go out; the evaluator leaves the trigger pending for retry on a
// later run.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// warnWindow is how far before the scheduled instant the pre-release
// warning becomes due.
const warnWindow = 12 * time.Hour

// Result summarizes one evaluation pass.
type Result struct {
	Warned   int // pre-release warnings delivered
	Released int // release results delivered
	Failed   int // delivery attempts that errored
}

// Evaluate walks the merged batch in slice order and fires the two
// notification triggers per event, pre-release warning first:
//
//   - warning: High impact, not yet warned, scheduled instant in the
//     future and at most warnWindow away
//   - release: High impact, completed with an actual value, not yet
//     announced
//
// Medium-impact events are tracked but never notified. A successful
// delivery flips the matching sticky flag; a failed or unavailable
// delivery leaves it false so the trigger stays eligible. A nil sender
// (credentials absent) disables delivery without aborting the run.
//
// The returned slice is a modified copy; the input is not mutated.
func Evaluate(ctx context.Context, events []Event, now time.Time, sender Sender, log logx.Logger) ([]Event, Result) {
	if log.IsZero() {
		log = logx.Nop()
	}

	out := make([]Event, len(events))
	copy(out, events)

	var res Result
	for i := range out {
		ev := &out[i]
		if ev.Impact != ImpactHigh {
			continue
		}

		if !ev.NotifiedWarn {
			if due, hoursUntil := warningDue(*ev, now, log); due {
				if deliver(ctx, sender, FormatWarning(*ev, hoursUntil), *ev, "warning", log, &res) {
					ev.NotifiedWarn = true
					res.Warned++
				}
			}
		}

		if !ev.NotifiedRelease && ev.Completed() && ev.Actual != nil {
			if deliver(ctx, sender, FormatRelease(*ev), *ev, "release", log, &res) {
				ev.NotifiedRelease = true
				res.Released++
			}
		}
	}
	return out, res
}

// warningDue reports whether the pre-release warning window is open and
// how many hours remain. Events whose display time is not a clock value
// ("All Day", "Tentative") have no usable instant and never become due.
func warningDue(ev Event, now time.Time, log logx.Logger) (bool, float64) {
	at, err := ev.Scheduled(now.Location())
	if err != nil {
		log.Debug("event has no parseable schedule; skipping warning trigger",
			logx.String("id", ev.ID),
			logx.String("name", ev.Name),
			logx.String("time", ev.Time),
		)
		return false, 0
	}
	until := at.Sub(now)
	if until < 0 || until > warnWindow {
		return false, 0
	}
	return true, until.Hours()
}

func deliver(ctx context.Context, sender Sender, text string, ev Event, trigger string, log logx.Logger, res *Result) bool {
	if sender == nil {
		log.Debug("notifications disabled; trigger left pending",
			logx.String("trigger", trigger),
			logx.String("id", ev.ID),
			logx.String("name", ev.Name),
		)
		return false
	}
	if err := sender.Send(ctx, text); err != nil {
		res.Failed++
		log.Warn("notification delivery failed",
			logx.String("trigger", trigger),
			logx.String("id", ev.ID),
			logx.String("name", ev.Name),
			logx.Err(err),
		)
		return false
	}
	log.Info("notification sent",
		logx.String("trigger", trigger),
		logx.String("id", ev.ID),
		logx.String("name", ev.Name),
	)
	return true
}
