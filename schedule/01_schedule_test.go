// /home/krylon/go/src/github.com/blicero/ariadne/schedule/01_schedule_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 22. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-09 15:02:48 krylon>

package schedule

import (
	"testing"
	"time"
)

func TestMaxLateness(t *testing.T) {
	type testCase struct {
		lateCancel int
		interval   time.Duration
		expect     time.Duration
	}

	var cases = []testCase{
		{0, time.Minute, time.Minute + LatenessLeeway},
		{1, time.Minute, time.Minute + LatenessLeeway},
		{5, time.Minute, time.Minute + LatenessLeeway + time.Minute*4},
		{1440, time.Second * 30, time.Second*30 + LatenessLeeway + time.Minute*1439},
	}

	for _, c := range cases {
		if ml := MaxLateness(c.lateCancel, c.interval); ml != c.expect {
			t.Errorf("MaxLateness(%d, %s) == %s, expected %s",
				c.lateCancel,
				c.interval,
				ml,
				c.expect)
		}
	}
} // func TestMaxLateness(t *testing.T)

func TestIsDue(t *testing.T) {
	var now = time.Date(2023, 4, 3, 10, 0, 0, 0, time.UTC)

	if !IsDue(now.Add(-time.Minute), now, false) {
		t.Error("An instance one minute in the past is not due")
	} else if !IsDue(now, now, false) {
		t.Error("An instance at the current time is not due")
	} else if IsDue(now.Add(time.Minute), now, false) {
		t.Error("An instance one minute in the future is due")
	}
} // func TestIsDue(t *testing.T)

func TestIsDueClockTime(t *testing.T) {
	// Across a DST shift, a local-clock instance may appear to lie in
	// the future although its wall-clock reading has passed.
	var (
		east = time.FixedZone("EAST", 7200)
		west = time.FixedZone("WEST", -36000)
		now  = time.Date(2023, 4, 3, 14, 0, 0, 0, east)  // 12:00 UTC, wall 14:00
		inst = time.Date(2023, 4, 3, 13, 0, 0, 0, west) // 23:00 UTC, wall 13:00
	)

	if !inst.After(now) {
		t.Fatal("Test setup is broken, instance should be in the absolute future")
	} else if !IsDue(inst, now, true) {
		t.Error("Local-clock instance with passed wall time is not due")
	} else if IsDue(inst, now, false) {
		t.Error("The same instance without clock-time semantics is due")
	}
} // func TestIsDueClockTime(t *testing.T)

func TestDateTooLate(t *testing.T) {
	var day = time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC)

	// lateCancel of two days: limit is the start of April 6th.
	if DateTooLate(day, 2880, time.Date(2023, 4, 5, 23, 59, 0, 0, time.UTC)) {
		t.Error("Date-only alarm flagged late before its limit")
	} else if !DateTooLate(day, 2880, time.Date(2023, 4, 6, 0, 0, 0, 0, time.UTC)) {
		t.Error("Date-only alarm not flagged late at its limit")
	}
} // func TestDateTooLate(t *testing.T)
