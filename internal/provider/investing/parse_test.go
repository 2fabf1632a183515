package investing

import (
	"testing"
)

const sampleMarkup = `
<table>
<tbody>
<tr class="theDay"><td colspan="9">Wednesday, March 11, 2026</td></tr>
<tr class="js-event-item" data-event-datetime="2026/03/11 08:30:00">
  <td class="time js-time">08:30</td>
  <td class="flagCur"><span class="ceFlags usa"></span> USD</td>
  <td class="sentiment" data-img_key="bull3"><i></i><i></i><i></i></td>
  <td class="event"><a href="/economic-calendar/cpi-69">CPI  m/m</a></td>
  <td class="act" id="eventActual_1">&nbsp;</td>
  <td class="fore" id="eventForecast_1">0.3%</td>
  <td class="prev" id="eventPrevious_1">0.2%</td>
</tr>
<tr class="js-event-item" data-event-datetime="2026/03/11 10:00:00">
  <td class="time js-time">10:00</td>
  <td class="flagCur"><span class="ceFlags germany"></span> EUR</td>
  <td class="sentiment" data-img_key="bull2"><i></i><i></i></td>
  <td class="event">German ZEW Economic Sentiment</td>
  <td class="act">41.2</td>
  <td class="fore">39.5</td>
  <td class="prev">38.1</td>
</tr>
</tbody>
</table>`

func TestParseRows(t *testing.T) {
	t.Parallel()
	rows, err := ParseRows(sampleMarkup)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	// The date-header row is not an event item.
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	usd := rows[0]
	if usd.DateTime != "2026/03/11 08:30:00" {
		t.Fatalf("DateTime = %q", usd.DateTime)
	}
	if usd.Currency != "USD" {
		t.Fatalf("Currency = %q", usd.Currency)
	}
	if usd.ImpactKey != "bull3" {
		t.Fatalf("ImpactKey = %q", usd.ImpactKey)
	}
	// Raw text is extracted verbatim; cleanup is the normalizer's job.
	if usd.Name != "CPI  m/m" {
		t.Fatalf("Name = %q", usd.Name)
	}
	if usd.Time != "08:30" {
		t.Fatalf("Time = %q", usd.Time)
	}
	if usd.Forecast != "0.3%" || usd.Previous != "0.2%" {
		t.Fatalf("Forecast/Previous = %q/%q", usd.Forecast, usd.Previous)
	}

	eur := rows[1]
	if eur.Currency != "EUR" || eur.ImpactKey != "bull2" {
		t.Fatalf("second row = %+v", eur)
	}
}

func TestParseRowsEmptyMarkup(t *testing.T) {
	t.Parallel()
	rows, err := ParseRows("<div>no table here</div>")
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(rows))
	}
}
