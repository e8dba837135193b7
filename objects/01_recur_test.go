// /home/krylon/go/src/github.com/blicero/ariadne/objects/01_recur_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-08 18:02:33 krylon>

package objects

import (
	"testing"
	"time"

	"github.com/blicero/ariadne/objects/action"
)

var refStart = time.Date(2023, 4, 3, 10, 0, 0, 0, time.UTC)

func mkRecurringEvent() *Event {
	return &Event{
		ID:      1,
		Action:  action.Message,
		Text:    "Testing, one, two",
		Time:    refStart,
		Enabled: true,
		Recur: &Recurrence{
			Start: refStart,
			Rule:  "FREQ=DAILY;COUNT=5",
		},
	}
} // func mkRecurringEvent() *Event

func TestNextOccurrence(t *testing.T) {
	type testCase struct {
		ref        time.Time
		expectTime time.Time
		expectType OccurType
	}

	var e = mkRecurringEvent()

	var cases = []testCase{
		{
			ref:        time.Date(2023, 4, 5, 12, 0, 0, 0, time.UTC),
			expectTime: time.Date(2023, 4, 6, 10, 0, 0, 0, time.UTC),
			expectType: OccurDateTime,
		},
		{
			ref:        time.Date(2023, 4, 6, 12, 0, 0, 0, time.UTC),
			expectTime: time.Date(2023, 4, 7, 10, 0, 0, 0, time.UTC),
			expectType: OccurLast,
		},
		{
			ref:        time.Date(2023, 4, 8, 0, 0, 0, 0, time.UTC),
			expectType: OccurNone,
		},
	}

	for idx, c := range cases {
		var next, otyp = e.NextOccurrence(c.ref)

		if otyp != c.expectType {
			t.Errorf("Case %d: unexpected occurrence type %s (expected %s)",
				idx+1,
				otyp,
				c.expectType)
		} else if otyp != OccurNone && !next.Equal(c.expectTime) {
			t.Errorf("Case %d: unexpected occurrence time %s (expected %s)",
				idx+1,
				next.Format(time.RFC3339),
				c.expectTime.Format(time.RFC3339))
		}
	}
} // func TestNextOccurrence(t *testing.T)

func TestNextOccurrenceOnce(t *testing.T) {
	var e = &Event{
		Action: action.Message,
		Time:   refStart,
	}

	if next, otyp := e.NextOccurrence(refStart.Add(-time.Hour)); otyp != OccurFirstOrOnly {
		t.Errorf("Non-recurring Event in the future yields %s, expected FirstOrOnly",
			otyp)
	} else if !next.Equal(refStart) {
		t.Errorf("Unexpected occurrence time %s", next.Format(time.RFC3339))
	}

	if _, otyp := e.NextOccurrence(refStart.Add(time.Hour)); otyp != OccurNone {
		t.Errorf("Non-recurring Event in the past yields %s, expected None",
			otyp)
	}
} // func TestNextOccurrenceOnce(t *testing.T)

func TestPreviousOccurrence(t *testing.T) {
	var e = mkRecurringEvent()

	var prev, otyp = e.PreviousOccurrence(time.Date(2023, 4, 5, 12, 0, 0, 0, time.UTC), false)

	if otyp.Base() != OccurDateTime {
		t.Errorf("Unexpected occurrence type %s", otyp)
	} else if !prev.Equal(time.Date(2023, 4, 5, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected previous occurrence %s",
			prev.Format(time.RFC3339))
	}

	if _, otyp = e.PreviousOccurrence(refStart, false); otyp != OccurNone {
		t.Errorf("Occurrence before the start yields %s, expected None", otyp)
	}
} // func TestPreviousOccurrence(t *testing.T)

func TestPreviousOccurrenceRepeat(t *testing.T) {
	var e = mkRecurringEvent()
	e.Repeat = Repetition{
		Interval: time.Hour,
		Count:    3,
	}

	var now = time.Date(2023, 4, 5, 12, 30, 0, 0, time.UTC)
	var prev, otyp = e.PreviousOccurrence(now.Add(time.Second), true)

	if !otyp.IsRepeat() {
		t.Errorf("Expected a repeat occurrence, got %s", otyp)
	} else if !prev.Equal(time.Date(2023, 4, 5, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected repeat occurrence %s",
			prev.Format(time.RFC3339))
	}

	// Beyond the last repetition, the result is capped.
	now = time.Date(2023, 4, 5, 19, 0, 0, 0, time.UTC)
	if prev, otyp = e.PreviousOccurrence(now, true); !otyp.IsRepeat() {
		t.Errorf("Expected a repeat occurrence, got %s", otyp)
	} else if !prev.Equal(time.Date(2023, 4, 5, 13, 0, 0, 0, time.UTC)) {
		t.Errorf("Repeat occurrence was not capped at the repetition count: %s",
			prev.Format(time.RFC3339))
	}
} // func TestPreviousOccurrenceRepeat(t *testing.T)

func TestSetNextOccurrence(t *testing.T) {
	var e = mkRecurringEvent()
	e.ReminderDone = true

	if otyp := e.SetNextOccurrence(time.Date(2023, 4, 5, 12, 0, 0, 0, time.UTC)); otyp != OccurDateTime {
		t.Errorf("Unexpected occurrence type %s", otyp)
	} else if !e.Time.Equal(time.Date(2023, 4, 6, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Event was not advanced, Time is %s",
			e.Time.Format(time.RFC3339))
	} else if e.ReminderDone {
		t.Error("Advancing the Event did not reset the reminder")
	}

	e = mkRecurringEvent()
	var before = e.Time
	if otyp := e.SetNextOccurrence(time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)); otyp != OccurNone {
		t.Errorf("Unexpected occurrence type %s", otyp)
	} else if !e.Time.Equal(before) {
		t.Error("Event was modified although no occurrence remains")
	}
} // func TestSetNextOccurrence(t *testing.T)
