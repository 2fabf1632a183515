package calendar

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Impact is the provider-assigned severity tier of an indicator.
// Low-impact events are filtered out at normalization and never represented.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
)

// Status tracks whether an indicator's actual value has been published.
// It only ever moves upcoming -> completed.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
)

const (
	// DateLayout is the calendar-date format used in persisted documents.
	DateLayout = "2006-01-02"
	// clockLayout parses the provider's display time ("08:30").
	clockLayout = "2006-01-02 15:04"
)

// Event is a single tracked economic-indicator release.
//
// Forecast/Actual/Previous are free-form numeric-ish strings from the
// provider ("0.3%", "215K"). A nil pointer means the provider published
// no value at all, which is distinct from an empty-but-present value.
//
// The JSON tags define the persisted document schema; do not rename them.
type Event struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Name     string  `json:"name"`
	Impact   Impact  `json:"impact"`
	Forecast *string `json:"forecast"`
	Actual   *string `json:"actual"`
	Previous *string `json:"previous"`
	Status   Status  `json:"status"`

	// Notification flags are sticky: once true they stay true across
	// merges for the same ID, regardless of what a later fetch says.
	NotifiedWarn    bool `json:"notification_sent_12h"`
	NotifiedRelease bool `json:"notification_sent_release"`
}

// EventID derives a stable identifier from (date, name).
//
// It is a pure function: the same pair always yields the same ID across
// runs and platforms, so state can be carried forward between fetches.
// md5 truncated to 16 hex chars keeps IDs compatible with documents
// written by earlier versions of this tool; collision odds are negligible
// for tens of named indicators per day.
func EventID(date, name string) string {
	sum := md5.Sum([]byte(date + "_" + name))
	return hex.EncodeToString(sum[:])[:16]
}

// Scheduled returns the event's scheduled instant, combining the calendar
// date with the display time. The display time is upstream-provided and
// not always a clock value ("All Day", "Tentative"); those fail to parse
// and the caller decides how to degrade.
func (e Event) Scheduled(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(clockLayout, e.Date+" "+e.Time, loc)
}

// Completed reports whether the actual value has been published.
func (e Event) Completed() bool { return e.Status == StatusCompleted }
