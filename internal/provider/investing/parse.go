package investing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"catalystradar/internal/calendar"
)

// ParseRows extracts raw event rows from a calendar markup fragment.
//
// Each event is a tr.js-event-item (date-header rows have a different
// class and are excluded by the selector). Cell text is returned as-is;
// all cleanup and filtering policy lives in the normalizer.
func ParseRows(markup string) ([]calendar.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	var rows []calendar.RawRow
	doc.Find("tr.js-event-item").Each(func(_ int, sel *goquery.Selection) {
		dt, _ := sel.Attr("data-event-datetime")
		impactKey, _ := sel.Find("td.sentiment").Attr("data-img_key")
		rows = append(rows, calendar.RawRow{
			DateTime:  dt,
			Currency:  strings.TrimSpace(sel.Find("td.flagCur").Text()),
			ImpactKey: impactKey,
			Name:      sel.Find("td.event").Text(),
			Time:      strings.TrimSpace(sel.Find("td.time").Text()),
			Forecast:  sel.Find("td.fore").Text(),
			Actual:    sel.Find("td.act").Text(),
			Previous:  sel.Find("td.prev").Text(),
		})
	})
	return rows, nil
}
