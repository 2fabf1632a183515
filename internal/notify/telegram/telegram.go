package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"catalystradar/pkg/logx"
)

type Config struct {
	Token string
	// ChatID is the destination: a numeric chat id or an @channel name.
	ChatID     string
	RatePerSec int
	// Timeout bounds each sendMessage call independently.
	Timeout time.Duration
}

// Notifier delivers formatted messages to a single Telegram chat.
//
// It satisfies calendar.Sender. Sends are rate limited so a backlog of
// due triggers (e.g. after downtime) doesn't trip Telegram's flood
// control.
type Notifier struct {
	bot     *tele.Bot
	to      destination
	limiter *rate.Limiter
	log     logx.Logger
}

// destination adapts a raw chat id string to telebot's Recipient, which
// accepts both numeric ids and @channel names verbatim.
type destination string

func (d destination) Recipient() string { return string(d) }

func New(cfg Config, log logx.Logger) (*Notifier, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if strings.TrimSpace(cfg.ChatID) == "" {
		return nil, errors.New("telegram chat id is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Client: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, err
	}

	return &Notifier{
		bot:     b,
		to:      destination(strings.TrimSpace(cfg.ChatID)),
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		log:     log,
	}, nil
}

// Send delivers one HTML message. A failure is returned to the caller;
// there is no retry here, the evaluator's sticky flags make the next run
// the retry.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := n.bot.Send(n.to, text, &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	})
	return err
}
