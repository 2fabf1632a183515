package calendar

import (
	"strings"
	"testing"
)

func TestFormatWarning(t *testing.T) {
	t.Parallel()
	ev := Event{
		Name:     "FOMC Statement",
		Date:     "2026-03-18",
		Time:     "14:00",
		Impact:   ImpactHigh,
		Forecast: strptr("5.25%"),
	}
	msg := FormatWarning(ev, 11.96)
	for _, want := range []string{
		"Upcoming Catalyst (12.0h)",
		"<b>FOMC Statement</b>",
		"2026-03-18 at 14:00",
		"Forecast: <b>5.25%</b>",
		"Impact: <b>High</b>",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("warning message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatWarningMissingForecast(t *testing.T) {
	t.Parallel()
	ev := Event{Name: "Fed Chair Speaks", Date: "2026-03-18", Time: "14:00", Impact: ImpactHigh}
	if msg := FormatWarning(ev, 2.0); !strings.Contains(msg, "Forecast: <b>N/A</b>") {
		t.Fatalf("absent forecast must render as N/A:\n%s", msg)
	}
}

func TestFormatWarningEscapesName(t *testing.T) {
	t.Parallel()
	ev := Event{Name: "M&A <Review>", Date: "2026-03-18", Time: "14:00", Impact: ImpactHigh}
	msg := FormatWarning(ev, 1.0)
	if strings.Contains(msg, "<Review>") {
		t.Fatalf("provider text must be HTML-escaped:\n%s", msg)
	}
	if !strings.Contains(msg, "M&amp;A &lt;Review&gt;") {
		t.Fatalf("expected escaped name:\n%s", msg)
	}
}

func TestFormatReleaseDeviation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		forecast *string
		actual   *string
		want     string
		omit     bool
	}{
		{"positive pct deviation", strptr("0.3%"), strptr("0.4%"), "+0.1 (+33.3%)", false},
		{"negative deviation", strptr("220K"), strptr("215K"), "-5000.0 (-2.3%)", false},
		{"zero forecast avoids division", strptr("0.0%"), strptr("0.2%"), "+0.2 (+0.0%)", false},
		{"unparseable actual omits section", strptr("0.3%"), strptr("n/a"), "Deviation", true},
		{"missing forecast omits section", nil, strptr("0.4%"), "Deviation", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev := Event{
				Name:     "CPI m/m",
				Date:     "2026-03-10",
				Time:     "08:30",
				Impact:   ImpactHigh,
				Forecast: tt.forecast,
				Actual:   tt.actual,
				Status:   StatusCompleted,
			}
			msg := FormatRelease(ev)
			if tt.omit {
				if strings.Contains(msg, tt.want) {
					t.Fatalf("deviation section should be omitted:\n%s", msg)
				}
				return
			}
			if !strings.Contains(msg, tt.want) {
				t.Fatalf("expected %q in:\n%s", tt.want, msg)
			}
		})
	}
}

func TestFormatReleaseFields(t *testing.T) {
	t.Parallel()
	ev := Event{
		Name:     "Nonfarm Payrolls",
		Date:     "2026-03-06",
		Time:     "08:30",
		Impact:   ImpactHigh,
		Actual:   strptr("215K"),
		Previous: strptr("187K"),
		Status:   StatusCompleted,
	}
	msg := FormatRelease(ev)
	for _, want := range []string{
		"Data Release",
		"Actual: <b>215K</b>",
		"Forecast: N/A",
		"Previous: 187K",
		"Released: 2026-03-06 08:30",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("release message missing %q:\n%s", want, msg)
		}
	}
}
