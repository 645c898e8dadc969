// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package events

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Record is the two-field shape every ingestion source must produce.
type Record struct {
	UserID string
	Date   Date
}

// Event is a validated activity: user UserID was active on Date.
type Event struct {
	UserID string `json:"user_id"`
	Date   Date   `json:"date"`
}

// Log is an immutable, validated activity log.
// Duplicate (user, date) pairs are kept; every metric counts distinct users.
type Log struct {
	events      []Event
	fingerprint string
}

// NewLog validates records and builds a Log.
// The first invalid record aborts construction with an *InvalidRecordError;
// no partial log is returned. An empty input yields an empty, valid Log.
func NewLog(records []Record) (*Log, error) {
	evts := make([]Event, 0, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.UserID) == "" {
			return nil, &InvalidRecordError{Index: i, Field: "user_id", Reason: "is missing"}
		}
		if r.Date.IsZero() {
			return nil, &InvalidRecordError{Index: i, Field: "date", Reason: "is missing"}
		}
		evts = append(evts, Event{UserID: r.UserID, Date: r.Date})
	}

	return &Log{
		events:      evts,
		fingerprint: fingerprint(evts),
	}, nil
}

// Len returns the number of events, duplicates included.
func (l *Log) Len() int {
	return len(l.events)
}

// IsEmpty reports whether the log has no events.
func (l *Log) IsEmpty() bool {
	return len(l.events) == 0
}

// Event returns the i-th event in input order.
func (l *Log) Event(i int) Event {
	return l.events[i]
}

// Events returns a copy of all events in input order.
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Users returns the distinct user identifiers in ascending order.
func (l *Log) Users() []string {
	seen := make(map[string]struct{})
	for _, e := range l.events {
		seen[e.UserID] = struct{}{}
	}
	users := make([]string, 0, len(seen))
	for u := range seen {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// UserCount returns the number of distinct users.
func (l *Log) UserCount() int {
	seen := make(map[string]struct{})
	for _, e := range l.events {
		seen[e.UserID] = struct{}{}
	}
	return len(seen)
}

// FirstActivity returns each user's earliest activity date.
// The map is built fresh on every call.
func (l *Log) FirstActivity() map[string]Date {
	first := make(map[string]Date)
	for _, e := range l.events {
		if d, ok := first[e.UserID]; !ok || e.Date.Before(d) {
			first[e.UserID] = e.Date
		}
	}
	return first
}

// DateRange returns the earliest and latest activity dates.
// ok is false for an empty log.
func (l *Log) DateRange() (first, last Date, ok bool) {
	if len(l.events) == 0 {
		return Date{}, Date{}, false
	}
	first, last = l.events[0].Date, l.events[0].Date
	for _, e := range l.events[1:] {
		if e.Date.Before(first) {
			first = e.Date
		}
		if e.Date.After(last) {
			last = e.Date
		}
	}
	return first, last, true
}

// Between returns a new Log holding the events in [start, end].
// A zero start or end leaves that side unbounded.
func (l *Log) Between(start, end Date) *Log {
	if start.IsZero() && end.IsZero() {
		return l
	}
	evts := make([]Event, 0, len(l.events))
	for _, e := range l.events {
		if !start.IsZero() && e.Date.Before(start) {
			continue
		}
		if !end.IsZero() && e.Date.After(end) {
			continue
		}
		evts = append(evts, e)
	}
	return &Log{events: evts, fingerprint: fingerprint(evts)}
}

// Fingerprint identifies the log's contents independent of event order.
// Two logs with the same multiset of events share a fingerprint.
func (l *Log) Fingerprint() string {
	return l.fingerprint
}

func fingerprint(evts []Event) string {
	keys := make([]string, len(evts))
	for i, e := range evts {
		keys[i] = e.UserID + "\x00" + e.Date.String()
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'\n'})
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}
