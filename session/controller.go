package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/medibot/medibot/logger"
	"github.com/medibot/medibot/provider"
)

// User-facing messages. Every failure cause collapses to GenericErrorMessage;
// the distinct cause is kept in the log only.
const (
	GenericErrorMessage = "Unable to get a response right now. Please try again."
	ConfigErrorMessage  = "API key not configured. Run 'medibot onboard' or set GEMINI_API_KEY."
)

// ErrBusy is returned when Submit is called while a request is in flight.
// The caller is expected to gate input on Pending(); this is the defensive
// backstop.
var ErrBusy = errors.New("a submission is already pending")

// ErrEmptyInput is returned when the submitted text is empty after trimming.
var ErrEmptyInput = errors.New("empty input")

// Controller owns the conversation log and drives the exchange cycle with
// the inference provider. All state lives in memory and is dropped when the
// process exits.
type Controller struct {
	mu      sync.Mutex
	entries []Entry
	pending bool
	lastErr string

	prov         provider.Provider // nil when no credential is configured
	systemPrompt string
	now          func() time.Time
}

// New creates a controller. Pass a nil provider when no API credential is
// configured; submissions then fail with the configuration message without
// touching the log.
func New(prov provider.Provider, systemPrompt string) *Controller {
	return &Controller{
		prov:         prov,
		systemPrompt: systemPrompt,
		now:          time.Now,
	}
}

// Submit runs one exchange: append the user entry, dispatch exactly one
// request, then append the bot entry or record the transient error. The
// user entry is appended before any network activity, so a failed exchange
// still leaves the question in the log.
func (c *Controller) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}

	c.mu.Lock()
	if c.prov == nil {
		c.lastErr = ConfigErrorMessage
		c.mu.Unlock()
		return fmt.Errorf("submit: %w", provider.ErrNoCredential)
	}
	if c.pending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.lastErr = ""
	c.entries = append(c.entries, Entry{Kind: KindUser, Text: text})
	c.pending = true
	c.mu.Unlock()

	resp, err := c.prov.Generate(ctx, &provider.Request{
		System: c.systemPrompt,
		Query:  text,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false

	if err != nil {
		logger.Error("submission failed", "err", err)
		c.lastErr = GenericErrorMessage
		return fmt.Errorf("submit: %w", err)
	}

	entry := Entry{
		Kind:      KindBot,
		Query:     text,
		Response:  strings.TrimSpace(resp.Content),
		Timestamp: c.now(),
		ReportID:  NewReportID(),
	}
	c.entries = append(c.entries, entry)
	logger.Info("exchange completed",
		"reportID", entry.ReportID,
		"responseChars", len(entry.Response),
	)
	return nil
}

// Entries returns a snapshot copy of the conversation log.
func (c *Controller) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Pending reports whether a request is in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Err returns the transient error message, empty when the last submission
// succeeded. It is overwritten at the start of each new attempt.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// LastReport returns the most recent bot entry.
func (c *Controller) LastReport() (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Kind == KindBot {
			return c.entries[i], true
		}
	}
	return Entry{}, false
}

// Report returns the bot entry with the given report id.
func (c *Controller) Report(id string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.Kind == KindBot && e.ReportID == id {
			return e, true
		}
	}
	return Entry{}, false
}
