package calendar

import (
	"strings"
	"time"

	"catalystradar/pkg/logx"
)

// RawRow is one unprocessed record from the data provider.
//
// All fields are raw markup text; Normalize owns every bit of cleanup
// and filtering policy so the provider stays a dumb extractor.
type RawRow struct {
	// DateTime is the combined event timestamp, provider format
	// "2006/01/02 15:04:05".
	DateTime string
	Currency string
	// ImpactKey is the provider's tier marker ("bull1".."bull3").
	ImpactKey string
	Name      string
	// Time is the display time as shown on the calendar ("08:30", "All Day").
	Time     string
	Forecast string
	Actual   string
	Previous string
}

const rawTimeLayout = "2006/01/02 15:04:05"

// trackedCurrency is the single currency this tracker follows.
const trackedCurrency = "USD"

// nbsp is the provider's "no data" placeholder cell content.
const nbsp = "\u00a0"

// Normalize turns raw provider rows into canonical events, applying the
// full filtering policy:
//
//  1. rows without a parseable timestamp are skipped (logged, not fatal)
//  2. timestamp must fall within [from, to] inclusive
//  3. currency must be USD
//  4. impact must map to High or Medium; Low and unclassified are rejected
//
// It is a pure transform over the input window; the only side effect is
// an accepted/rejected summary log.
func Normalize(rows []RawRow, from, to time.Time, log logx.Logger) []Event {
	if log.IsZero() {
		log = logx.Nop()
	}

	events := make([]Event, 0, len(rows))
	rejected := 0
	for _, row := range rows {
		ev, ok := normalizeRow(row, from, to, log)
		if !ok {
			rejected++
			continue
		}
		events = append(events, ev)
	}

	log.Info("normalized calendar rows",
		logx.Int("accepted", len(events)),
		logx.Int("rejected", rejected),
	)
	return events
}

func normalizeRow(row RawRow, from, to time.Time, log logx.Logger) (Event, bool) {
	ts, err := time.ParseInLocation(rawTimeLayout, strings.TrimSpace(row.DateTime), from.Location())
	if err != nil {
		log.Debug("skipping row with unparseable timestamp",
			logx.String("datetime", row.DateTime),
			logx.String("name", row.Name),
		)
		return Event{}, false
	}

	// Inclusive window: events exactly on either bound are kept.
	if ts.Before(from) || ts.After(to) {
		return Event{}, false
	}

	if strings.TrimSpace(row.Currency) != trackedCurrency {
		return Event{}, false
	}

	impact, ok := mapImpact(row.ImpactKey)
	if !ok {
		return Event{}, false
	}

	name := collapseWhitespace(row.Name)
	if name == "" {
		name = "Unknown Event"
	}

	displayTime := strings.TrimSpace(row.Time)
	if displayTime == "" {
		displayTime = ts.Format("15:04")
	}

	actual := optionalValue(row.Actual)
	date := ts.Format(DateLayout)

	ev := Event{
		ID:       EventID(date, name),
		Date:     date,
		Time:     displayTime,
		Name:     name,
		Impact:   impact,
		Forecast: optionalValue(row.Forecast),
		Actual:   actual,
		Previous: optionalValue(row.Previous),
		Status:   StatusUpcoming,
	}
	if actual != nil {
		ev.Status = StatusCompleted
	}
	return ev, true
}

// mapImpact maps the provider's tier marker. Only bull3 (High) and
// bull2 (Medium) are tracked; bull1 (Low) and anything else is rejected.
func mapImpact(key string) (Impact, bool) {
	switch strings.TrimSpace(key) {
	case "bull3":
		return ImpactHigh, true
	case "bull2":
		return ImpactMedium, true
	default:
		return "", false
	}
}

// collapseWhitespace trims and reduces internal whitespace runs to a
// single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// optionalValue maps an empty cell or the provider's no-data placeholder
// to absent (nil). A present-but-odd value is kept verbatim.
func optionalValue(s string) *string {
	s = strings.Trim(s, nbsp+" \t\r\n")
	if s == "" {
		return nil
	}
	return &s
}
