package session

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/medibot/medibot/provider"
)

// fakeProvider returns canned responses and records observations at call time.
type fakeProvider struct {
	resp   string
	err    error
	onCall func()

	entered chan struct{} // when set, closed on entry
	release chan struct{} // when set, Generate blocks until closed
}

func (f *fakeProvider) Generate(_ context.Context, _ *provider.Request) (*provider.Response, error) {
	if f.onCall != nil {
		f.onCall()
	}
	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.resp}, nil
}

var reportIDPattern = regexp.MustCompile(`^[A-Z0-9]{9}$`)

func TestSubmitSuccess(t *testing.T) {
	c := New(&fakeProvider{resp: "  Drink water.  "}, "be brief")

	if err := c.Submit(context.Background(), "am I thirsty?"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("log length = %d, want 2", len(entries))
	}
	if entries[0].Kind != KindUser || entries[0].Text != "am I thirsty?" {
		t.Errorf("first entry = %+v, want user entry with raw text", entries[0])
	}
	bot := entries[1]
	if bot.Kind != KindBot {
		t.Fatalf("second entry kind = %v, want KindBot", bot.Kind)
	}
	if bot.Response != "Drink water." {
		t.Errorf("Response = %q, want trimmed %q", bot.Response, "Drink water.")
	}
	if bot.Query != "am I thirsty?" {
		t.Errorf("Query = %q, want original user text", bot.Query)
	}
	if !reportIDPattern.MatchString(bot.ReportID) {
		t.Errorf("ReportID = %q, want uppercase alphanumeric", bot.ReportID)
	}
	if bot.Timestamp.IsZero() {
		t.Error("Timestamp is zero, want capture time")
	}
	if c.Err() != "" {
		t.Errorf("Err() = %q, want empty after success", c.Err())
	}
	if c.Pending() {
		t.Error("Pending() = true after resolution")
	}
}

func TestSubmitAppendsUserEntryBeforeDispatch(t *testing.T) {
	var lenAtDispatch int
	f := &fakeProvider{resp: "ok"}
	c := New(f, "")
	f.onCall = func() { lenAtDispatch = len(c.Entries()) }

	if err := c.Submit(context.Background(), "hello"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if lenAtDispatch != 1 {
		t.Errorf("log length at dispatch = %d, want 1 (the user entry)", lenAtDispatch)
	}
}

func TestSubmitFailureLeavesOnlyUserEntry(t *testing.T) {
	c := New(&fakeProvider{err: &provider.ShapeError{Reason: "no candidate with non-empty text"}}, "")

	err := c.Submit(context.Background(), "question")
	if err == nil {
		t.Fatal("Submit() error = nil, want error")
	}

	entries := c.Entries()
	if len(entries) != 1 || entries[0].Kind != KindUser {
		t.Fatalf("log = %+v, want exactly the user entry", entries)
	}
	if c.Err() != GenericErrorMessage {
		t.Errorf("Err() = %q, want generic message", c.Err())
	}
	if c.Pending() {
		t.Error("Pending() = true after failure")
	}
}

func TestSubmitErrorCausesCollapse(t *testing.T) {
	causes := []error{
		&provider.TransportError{Status: 500, Err: errors.New("boom")},
		&provider.TransportError{Err: errors.New("connection refused")},
		&provider.ShapeError{Reason: "empty candidates"},
	}
	for _, cause := range causes {
		c := New(&fakeProvider{err: cause}, "")
		_ = c.Submit(context.Background(), "q")
		if c.Err() != GenericErrorMessage {
			t.Errorf("cause %v: Err() = %q, want the single generic message", cause, c.Err())
		}
	}
}

func TestSubmitMissingCredential(t *testing.T) {
	c := New(nil, "")

	err := c.Submit(context.Background(), "question")
	if !errors.Is(err, provider.ErrNoCredential) {
		t.Fatalf("Submit() error = %v, want ErrNoCredential", err)
	}
	if len(c.Entries()) != 0 {
		t.Errorf("log length = %d, want 0 (no mutation before credential check)", len(c.Entries()))
	}
	if c.Err() != ConfigErrorMessage {
		t.Errorf("Err() = %q, want config message", c.Err())
	}
	if c.Pending() {
		t.Error("Pending() = true, want untouched")
	}
}

func TestSubmitEmptyInput(t *testing.T) {
	c := New(&fakeProvider{resp: "ok"}, "")
	for _, text := range []string{"", "   ", "\n\t"} {
		if err := c.Submit(context.Background(), text); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Submit(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
	if len(c.Entries()) != 0 {
		t.Errorf("log length = %d, want 0", len(c.Entries()))
	}
}

func TestSubmitRejectsOverlap(t *testing.T) {
	f := &fakeProvider{
		resp:    "ok",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := New(f, "")

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background(), "first") }()

	<-f.entered
	if !c.Pending() {
		t.Error("Pending() = false while request in flight")
	}
	if err := c.Submit(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("overlapping Submit() error = %v, want ErrBusy", err)
	}

	close(f.release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if c.Pending() {
		t.Error("Pending() = true after resolution")
	}
	if got := len(c.Entries()); got != 2 {
		t.Errorf("log length = %d, want 2 (rejected overlap must not append)", got)
	}
}

func TestErrClearedOnNextAttempt(t *testing.T) {
	f := &fakeProvider{err: &provider.ShapeError{Reason: "empty"}}
	c := New(f, "")
	_ = c.Submit(context.Background(), "q1")
	if c.Err() == "" {
		t.Fatal("Err() empty after failure, want message")
	}

	f.err = nil
	f.resp = "fine now"
	if err := c.Submit(context.Background(), "q2"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if c.Err() != "" {
		t.Errorf("Err() = %q, want cleared", c.Err())
	}
}

func TestEntriesSnapshotIsolation(t *testing.T) {
	c := New(&fakeProvider{resp: "ok"}, "")
	if err := c.Submit(context.Background(), "q"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	snap := c.Entries()
	snap[0].Text = "mutated"
	if c.Entries()[0].Text != "q" {
		t.Error("mutating a snapshot changed the log")
	}
}

func TestReportLookup(t *testing.T) {
	f := &fakeProvider{resp: "first"}
	c := New(f, "")
	_ = c.Submit(context.Background(), "q1")
	f.resp = "second"
	_ = c.Submit(context.Background(), "q2")

	last, ok := c.LastReport()
	if !ok || last.Response != "second" {
		t.Fatalf("LastReport() = %+v, %v; want the second reply", last, ok)
	}
	byID, ok := c.Report(last.ReportID)
	if !ok || byID.ReportID != last.ReportID {
		t.Fatalf("Report(%q) = %+v, %v", last.ReportID, byID, ok)
	}
	if _, ok := c.Report("NOPE12345"); ok {
		t.Error("Report() found an id that was never issued")
	}
}

func TestNewReportIDShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewReportID()
		if !reportIDPattern.MatchString(id) {
			t.Fatalf("NewReportID() = %q, want 9 uppercase alphanumerics", id)
		}
		seen[id] = true
	}
	// Not a uniqueness guarantee, just a sanity check that the generator
	// is not degenerate.
	if len(seen) < 90 {
		t.Errorf("only %d distinct ids in 100 draws", len(seen))
	}
}
