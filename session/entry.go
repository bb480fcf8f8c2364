// Package session owns the in-memory conversation log and the
// request/response exchange cycle.
package session

import (
	"crypto/rand"
	"time"
)

// Kind discriminates conversation entry variants.
type Kind int

const (
	// KindUser is a question typed by the user.
	KindUser Kind = iota
	// KindBot is a completed consultation reply.
	KindBot
)

// Entry is one element of the conversation log. Entries are immutable once
// appended; the log only grows for the lifetime of the process.
type Entry struct {
	Kind Kind

	// Text is the user question, set only for KindUser. It is stored
	// exactly as typed.
	Text string

	// Bot fields, set only for KindBot.
	Query     string    // the question this reply answers
	Response  string    // trimmed reply text
	Timestamp time.Time // capture time at acceptance; formatted at render time
	ReportID  string    // short uppercase token identifying the report
}

const (
	reportIDLen      = 9
	reportIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewReportID returns a short random uppercase alphanumeric token. IDs are
// not checked for uniqueness; at human-scale session volume a collision is
// acceptable.
func NewReportID() string {
	buf := make([]byte, reportIDLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively unreachable; fall back to a
		// time-derived token rather than panic mid-chat.
		nano := time.Now().UnixNano()
		for i := range buf {
			buf[i] = reportIDAlphabet[nano%int64(len(reportIDAlphabet))]
			nano /= int64(len(reportIDAlphabet))
		}
		return string(buf)
	}
	for i := range buf {
		buf[i] = reportIDAlphabet[int(buf[i])%len(reportIDAlphabet)]
	}
	return string(buf)
}
