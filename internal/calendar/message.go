package calendar

import (
	"fmt"
	"html"
)

// Messages are Telegram HTML (ParseMode=HTML). Only provider-supplied
// text is escaped; the markup skeleton is ours.

// FormatWarning builds the pre-release warning message. hoursUntil is the
// time remaining to the scheduled instant, already computed by the caller.
func FormatWarning(e Event, hoursUntil float64) string {
	return fmt.Sprintf(
		"⚠️ <b>Upcoming Catalyst (%.1fh)</b>\n\n"+
			"%s <b>%s</b>\n"+
			"📅 %s at %s\n"+
			"📊 Forecast: <b>%s</b>\n"+
			"⚡ Impact: <b>%s</b>",
		hoursUntil,
		impactEmoji(e.Impact),
		html.EscapeString(e.Name),
		html.EscapeString(e.Date),
		html.EscapeString(e.Time),
		html.EscapeString(orNA(e.Forecast)),
		e.Impact,
	)
}

// FormatRelease builds the release-result message. The deviation section
// appears only when both forecast and actual parse numerically; an
// unparseable value silently omits it.
func FormatRelease(e Event) string {
	deviation := ""
	if e.Forecast != nil && e.Actual != nil {
		if f, fok := parseNumeric(*e.Forecast); fok {
			if a, aok := parseNumeric(*e.Actual); aok {
				diff := a - f
				pct := 0.0
				if f != 0 {
					pct = diff / f * 100
				}
				deviation = fmt.Sprintf("\n%s Deviation: %+.1f (%+.1f%%)", deviationEmoji(diff), diff, pct)
			}
		}
	}

	return fmt.Sprintf(
		"📢 <b>Data Release</b>\n\n"+
			"%s <b>%s</b>\n"+
			"📊 Actual: <b>%s</b>\n"+
			"🎯 Forecast: %s\n"+
			"📍 Previous: %s%s\n\n"+
			"⏰ Released: %s %s",
		impactEmoji(e.Impact),
		html.EscapeString(e.Name),
		html.EscapeString(orNA(e.Actual)),
		html.EscapeString(orNA(e.Forecast)),
		html.EscapeString(orNA(e.Previous)),
		deviation,
		html.EscapeString(e.Date),
		html.EscapeString(e.Time),
	)
}

func impactEmoji(i Impact) string {
	if i == ImpactHigh {
		return "🔴"
	}
	return "🟡"
}

func deviationEmoji(diff float64) string {
	if diff > 0 {
		return "🟢"
	}
	return "🔴"
}

func orNA(v *string) string {
	if v == nil {
		return "N/A"
	}
	return *v
}
