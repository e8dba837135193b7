// /home/krylon/go/src/github.com/blicero/ariadne/schedule/schedule.go
// -*- mode: go; coding: utf-8; -*-
// Created on 22. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-09 14:48:16 krylon>

// Package schedule implements the temporal policy of the alarm engine:
// how late an alarm may fire, and when an alarm instance counts as due.
// It is purely computational and carries no state.
package schedule

import "time"

// LatenessLeeway is a small safety margin added to the lateness window
// to cater for timing irregularities in the daemon's check loop.
const LatenessLeeway = time.Second * 5

// MaxLateness returns the maximum duration a late-cancel alarm is
// allowed to be overdue before it is considered too late to fire. It is
// derived from the daemon's check interval plus the leeway, plus the
// late-cancel threshold itself (less its first minute, which is covered
// by the check interval).
func MaxLateness(lateCancelMinutes int, checkInterval time.Duration) time.Duration {
	var lc time.Duration

	if lateCancelMinutes >= 1 {
		lc = time.Minute * time.Duration(lateCancelMinutes-1)
	}

	return checkInterval + LatenessLeeway + lc
} // func MaxLateness(lateCancelMinutes int, checkInterval time.Duration) time.Duration

// MaxLatenessDays returns the lateness threshold for date-only alarms,
// in days.
func MaxLatenessDays(lateCancelMinutes int) int {
	return lateCancelMinutes / 1440
} // func MaxLatenessDays(lateCancelMinutes int) int

// IsDue returns true if the instance time has been reached. A
// local-clock instance whose apparent time is in the future is still
// considered due when its wall-clock reading is not later than the
// current local wall-clock reading; this keeps alarms expressed in
// local clock time from being misclassified as not-yet-due across a
// daylight saving shift.
// now must carry the local clock reading in its own location, which is
// what time.Now returns.
func IsDue(instanceTime, now time.Time, localClock bool) bool {
	if !instanceTime.After(now) {
		return true
	} else if !localClock {
		return false
	}

	return wallSecs(instanceTime) <= wallSecs(now)
} // func IsDue(instanceTime, now time.Time, localClock bool) bool

// wallSecs flattens a timestamp's wall-clock reading (in its own
// location) into a comparable number of seconds.
func wallSecs(t time.Time) int64 {
	var (
		y, mon, d = t.Date()
		h, min, s = t.Clock()
	)

	return ((int64(y)*400+int64(mon))*32+int64(d))*86400 +
		int64(h)*3600 + int64(min)*60 + int64(s)
} // func wallSecs(t time.Time) int64

// StartOfDay truncates a timestamp to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	var y, mon, d = t.Date()
	return time.Date(y, mon, d, 0, 0, 0, 0, t.Location())
} // func StartOfDay(t time.Time) time.Time

// DateTooLate returns true if a date-only alarm scheduled for the given
// day is beyond its day-granularity lateness window.
func DateTooLate(instanceTime time.Time, lateCancelMinutes int, now time.Time) bool {
	var limit = StartOfDay(instanceTime).AddDate(0, 0, MaxLatenessDays(lateCancelMinutes)+1)
	return !now.Before(limit)
} // func DateTooLate(instanceTime time.Time, lateCancelMinutes int, now time.Time) bool
