package investing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"catalystradar/internal/calendar"
	"catalystradar/pkg/logx"
)

const (
	defaultEndpoint = "https://www.investing.com/economic-calendar/Service/getCalendarFilteredData"
	defaultReferer  = "https://www.investing.com/economic-calendar/"
	defaultOrigin   = "https://www.investing.com"

	// Plain library UAs get served a challenge page; a current browser UA
	// plus a cookie jar is enough for the AJAX endpoint.
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultTimeout = 30 * time.Second
)

type Config struct {
	Endpoint  string
	UserAgent string
	// Timezone is the provider's timezone-offset parameter for the query
	// (investing.com zone id; "8" = GMT+8).
	Timezone string
	Timeout  time.Duration
}

// Client fetches raw calendar rows from investing.com's AJAX endpoint.
//
// The client is constructed per process and passed explicitly; it holds a
// cookie jar so challenge cookies survive across requests within a run.
type Client struct {
	cfg  Config
	http *http.Client
	log  logx.Logger
}

func New(cfg Config, log logx.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if strings.TrimSpace(cfg.Timezone) == "" {
		cfg.Timezone = "8"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		log: log,
	}, nil
}

// envelope is the AJAX response: JSON wrapping an HTML fragment.
type envelope struct {
	Data string `json:"data"`
}

// FetchRange requests the calendar for [from, to] and returns the raw
// rows found in the response markup. A transport or decode failure is
// returned to the caller; per-row oddities are left for the normalizer.
func (c *Client) FetchRange(ctx context.Context, from, to time.Time) ([]calendar.RawRow, error) {
	form := url.Values{
		"dateFrom":   {from.Format("2006-01-02")},
		"dateTo":     {to.Format("2006-01-02")},
		"currentTab": {"custom"},
		"limit_from": {"0"},
		"timeZone":   {c.cfg.Timezone},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Origin", defaultOrigin)
	req.Header.Set("Referer", defaultReferer)

	c.log.Debug("fetching calendar",
		logx.String("from", from.Format("2006-01-02")),
		logx.String("to", to.Format("2006-01-02")),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("calendar fetch: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, err
	}

	// The endpoint wraps the table HTML in a JSON envelope. Some error
	// paths serve the page directly, so fall back to treating the body
	// as markup.
	markup := string(body)
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Data == "" {
			return nil, fmt.Errorf("calendar fetch: empty data envelope")
		}
		markup = env.Data
	} else {
		c.log.Debug("response is not a JSON envelope; parsing body as markup")
	}

	rows, err := ParseRows(markup)
	if err != nil {
		return nil, fmt.Errorf("calendar fetch: %w", err)
	}
	c.log.Info("fetched calendar rows", logx.Int("rows", len(rows)))
	return rows, nil
}
