// /home/krylon/go/src/github.com/blicero/ariadne/objects/recur.go
// -*- mode: go; coding: utf-8; -*-
// Created on 16. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-08 17:31:02 krylon>

package objects

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// OccurType describes the kind of occurrence found when walking an
// Event's recurrence.
type OccurType uint8

// OccurNone means no (further) occurrence exists.
// OccurFirstOrOnly is the first or sole occurrence.
// OccurDate is a date-only recurrence, OccurDateTime one with a
// time of day, OccurLast the final recurrence.
// The OccurRepeat bit is set when the occurrence is merely a simple
// repetition within the current recurrence slot, as opposed to an
// advancement to a new recurrence.
const (
	OccurNone OccurType = iota
	OccurFirstOrOnly
	OccurDate
	OccurDateTime
	OccurLast

	OccurRepeat OccurType = 0x80
)

// Base strips the repeat flag.
func (o OccurType) Base() OccurType {
	return o &^ OccurRepeat
} // func (o OccurType) Base() OccurType

// IsRepeat returns true if the occurrence is a repetition of the
// current recurrence rather than a new one.
func (o OccurType) IsRepeat() bool {
	return o&OccurRepeat != 0
} // func (o OccurType) IsRepeat() bool

func (o OccurType) String() string {
	var s string

	switch o.Base() {
	case OccurNone:
		s = "None"
	case OccurFirstOrOnly:
		s = "FirstOrOnly"
	case OccurDate:
		s = "Date"
	case OccurDateTime:
		s = "DateTime"
	case OccurLast:
		s = "Last"
	default:
		s = fmt.Sprintf("InvalidOccurType(%d)", uint8(o.Base()))
	}

	if o.IsRepeat() {
		s += "+Repeat"
	}

	return s
} // func (o OccurType) String() string

// Recurrence wraps an RFC 5545 recurrence rule anchored at the Event's
// first occurrence.
type Recurrence struct {
	Start time.Time // the first occurrence, i.e. DTSTART
	Rule  string    // e.g. "FREQ=DAILY;INTERVAL=2;COUNT=10"

	rr *rrule.RRule
}

func (r *Recurrence) String() string {
	if r == nil {
		return "(None)"
	}

	return fmt.Sprintf("Recurrence{ %s from %s }",
		r.Rule,
		r.Start.Format("2006-01-02 15:04:05"))
} // func (r *Recurrence) String() string

func (r *Recurrence) rule() (*rrule.RRule, error) {
	if r.rr == nil {
		var err error
		if r.rr, err = rrule.StrToRRule(r.Rule); err != nil {
			return nil, fmt.Errorf("Cannot parse recurrence rule %q: %s",
				r.Rule,
				err.Error())
		}

		r.rr.DTStart(r.Start)
	}

	return r.rr, nil
} // func (r *Recurrence) rule() (*rrule.RRule, error)

func (e *Event) classifyOccurrence(t time.Time) OccurType {
	if t.IsZero() {
		return OccurNone
	} else if !e.Recurs() || t.Equal(e.Recur.Start) {
		return OccurFirstOrOnly
	}

	var (
		err error
		rr  *rrule.RRule
	)

	if rr, err = e.Recur.rule(); err == nil {
		if next := rr.After(t, false); next.IsZero() {
			return OccurLast
		}
	}

	if e.DateOnly {
		return OccurDate
	}

	return OccurDateTime
} // func (e *Event) classifyOccurrence(t time.Time) OccurType

// NextOccurrence computes the next occurrence of the Event at or after
// the reference time. For non-recurring Events, that is the scheduled
// time itself, if it has not passed yet.
func (e *Event) NextOccurrence(ref time.Time) (time.Time, OccurType) {
	if !e.Recurs() {
		if e.Time.After(ref) {
			return e.Time, OccurFirstOrOnly
		}
		return time.Time{}, OccurNone
	}

	var (
		err error
		rr  *rrule.RRule
	)

	if rr, err = e.Recur.rule(); err != nil {
		return time.Time{}, OccurNone
	}

	var next = rr.After(ref, true)
	if next.IsZero() {
		return time.Time{}, OccurNone
	}

	return next, e.classifyOccurrence(next)
} // func (e *Event) NextOccurrence(ref time.Time) (time.Time, OccurType)

// PreviousOccurrence computes the most recent occurrence strictly
// before the reference time. If includeRepetition is true and the Event
// has a simple repetition, the result is advanced to the latest repeat
// of that occurrence before ref, and the repeat flag is set on the
// returned type.
func (e *Event) PreviousOccurrence(ref time.Time, includeRepetition bool) (time.Time, OccurType) {
	var (
		prev time.Time
		otyp OccurType
	)

	if !e.Recurs() {
		var first = e.Time
		if e.Recur != nil && !e.Recur.Start.IsZero() {
			first = e.Recur.Start
		}
		if !first.Before(ref) {
			return time.Time{}, OccurNone
		}
		prev, otyp = first, OccurFirstOrOnly
	} else {
		var (
			err error
			rr  *rrule.RRule
		)

		if rr, err = e.Recur.rule(); err != nil {
			return time.Time{}, OccurNone
		} else if prev = rr.Before(ref, false); prev.IsZero() {
			return time.Time{}, OccurNone
		}

		otyp = e.classifyOccurrence(prev)
	}

	if includeRepetition && e.Repeat.Count > 0 && e.Repeat.Interval > 0 {
		var n = int(ref.Sub(prev) / e.Repeat.Interval)
		if n > e.Repeat.Count {
			n = e.Repeat.Count
		}
		for n > 0 && !prev.Add(e.Repeat.Interval*time.Duration(n)).Before(ref) {
			n--
		}
		if n > 0 {
			prev = prev.Add(e.Repeat.Interval * time.Duration(n))
			otyp |= OccurRepeat
		}
	}

	return prev, otyp
} // func (e *Event) PreviousOccurrence(ref time.Time, includeRepetition bool) (time.Time, OccurType)

// SetNextOccurrence advances the Event to its next occurrence at or
// after the reference time. The Event is only modified if a further
// occurrence exists.
func (e *Event) SetNextOccurrence(ref time.Time) OccurType {
	var next, otyp = e.NextOccurrence(ref)

	if otyp == OccurNone {
		return OccurNone
	}

	e.Time = next
	e.ReminderDone = false
	return otyp
} // func (e *Event) SetNextOccurrence(ref time.Time) OccurType
