// /home/krylon/go/src/github.com/blicero/ariadne/objects/event.go
// -*- mode: go; coding: utf-8; -*-
// Created on 16. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-08 17:26:19 krylon>

// Package objects provides the data types used by the application.
package objects

import (
	"fmt"
	"time"

	"github.com/blicero/ariadne/objects/action"
	"github.com/blicero/ariadne/objects/role"
)

//go:generate ffjson event.go

// Repetition is a simple, fixed-interval repetition layered on top of
// the current occurrence of an Event's recurrence. Count is the number
// of extra repeats after the occurrence itself.
type Repetition struct {
	Interval time.Duration
	Count    int
}

// Event is an alarm definition: an action bound to a point in time,
// optionally recurring, repeating, or deferred.
type Event struct {
	ID       int64
	UUID     string
	Action   action.ID
	Text     string // message text, file path, command line, or email body
	Time     time.Time
	DateOnly bool

	// LateCancel is a threshold in minutes beyond which a due alarm is
	// abandoned instead of shown. 0 disables the check.
	LateCancel int

	Enabled         bool
	Beep            bool
	Speak           bool
	ConfirmAck      bool
	AutoClose       bool
	RepeatAtLogin   bool
	CopyToOrganizer bool
	CommandScript   bool
	CommandXterm    bool
	Archive         bool // retain the Event once consumed or cancelled
	MainExpired     bool

	BgColor   string
	FgColor   string
	AudioFile string

	Recur  *Recurrence
	Repeat Repetition

	// Deferral is a one-off alternate time the user chose instead of
	// the scheduled one.
	Deferral *time.Time

	// Reminder is the lead time, in minutes, for an early warning
	// instance before the Main instance. 0 disables the reminder.
	Reminder     int
	ReminderDone bool

	PreAction  string
	PostAction string
	LogFile    string

	EmailTo          []string
	EmailSubject     string
	EmailFromID      string
	EmailAttachments []string

	Changed time.Time
}

func (e *Event) String() string {
	return fmt.Sprintf("Event{ ID: %d, Action: %s, Time: %s, Text: %q }",
		e.ID,
		e.Action,
		e.Time.Format("2006-01-02 15:04:05"),
		e.Text)
} // func (e *Event) String() string

// UniqueID returns an identifier that is unique across instances.
func (e *Event) UniqueID() string {
	return e.UUID
} // func (e *Event) UniqueID() string

// IsNewer returns true if the receiver's Changed stamp is more recent
// than the argument's.
func (e *Event) IsNewer(other *Event) bool {
	return e.Changed.After(other.Changed)
} // func (e *Event) IsNewer(other *Event) bool

// Recurs returns true if the Event has a recurrence rule.
func (e *Event) Recurs() bool {
	return e.Recur != nil && e.Recur.Rule != ""
} // func (e *Event) Recurs() bool

// Instances materializes the Event's alarm instances, most significant
// first: Main, Reminder, Deferred, AtLogin. loginTime is the start of
// the current session; it is only used for repeat-at-login Events and
// may be the zero value otherwise.
func (e *Event) Instances(loginTime time.Time) []Alarm {
	var instances = make([]Alarm, 0, 4)

	if !e.MainExpired {
		instances = append(instances, Alarm{
			Role:     role.Main,
			Time:     e.Time,
			DateOnly: e.DateOnly,
		})

		if e.Reminder > 0 && !e.ReminderDone {
			instances = append(instances, Alarm{
				Role:     role.Reminder,
				Time:     e.Time.Add(time.Minute * time.Duration(-e.Reminder)),
				DateOnly: e.DateOnly,
			})
		}
	}

	if e.Deferral != nil {
		instances = append(instances, Alarm{
			Role: role.Deferred,
			Time: *e.Deferral,
		})
	}

	if e.RepeatAtLogin && !loginTime.IsZero() {
		instances = append(instances, Alarm{
			Role: role.AtLogin,
			Time: loginTime,
		})
	}

	return instances
} // func (e *Event) Instances(loginTime time.Time) []Alarm

// FirstAlarm returns the Event's most significant alarm instance, or
// nil if none remain.
func (e *Event) FirstAlarm(loginTime time.Time) *Alarm {
	var instances = e.Instances(loginTime)

	if len(instances) == 0 {
		return nil
	}

	return &instances[0]
} // func (e *Event) FirstAlarm(loginTime time.Time) *Alarm

// AlarmCount returns the number of alarm instances the Event can still
// resolve. An Event whose count has dropped to zero is consumed; it is
// either archived or deleted.
func (e *Event) AlarmCount() int {
	var cnt int

	if !e.MainExpired {
		cnt++
		if e.Reminder > 0 && !e.ReminderDone {
			cnt++
		}
		if e.RepeatAtLogin {
			cnt++
		}
	}

	if e.Deferral != nil {
		cnt++
	}

	return cnt
} // func (e *Event) AlarmCount() int

// RemoveExpiredAlarm removes the sub-alarm with the given role after it
// has fired or been cancelled.
func (e *Event) RemoveExpiredAlarm(r role.ID) {
	switch r {
	case role.Main:
		e.MainExpired = true
		e.Deferral = nil
	case role.Reminder:
		e.ReminderDone = true
	case role.Deferred:
		e.Deferral = nil
	case role.AtLogin:
		// Login alarms stay until their main alarm is gone.
	}
} // func (e *Event) RemoveExpiredAlarm(r role.ID)

// Bit positions for the flag field the database stores.
const (
	flagEnabled = 1 << iota
	flagBeep
	flagSpeak
	flagConfirmAck
	flagAutoClose
	flagRepeatAtLogin
	flagCopyToOrganizer
	flagCommandScript
	flagCommandXterm
	flagArchive
	flagMainExpired
	flagReminderDone
	flagDateOnly
)

// FlagRepeatAtLogin is exported so the database layer can filter for
// login alarms without duplicating the bit assignment.
const FlagRepeatAtLogin int64 = flagRepeatAtLogin

// FlagField packs the Event's boolean flags into a single integer for
// storage.
func (e *Event) FlagField() int64 {
	var f int64

	for _, b := range []struct {
		set bool
		bit int64
	}{
		{e.Enabled, flagEnabled},
		{e.Beep, flagBeep},
		{e.Speak, flagSpeak},
		{e.ConfirmAck, flagConfirmAck},
		{e.AutoClose, flagAutoClose},
		{e.RepeatAtLogin, flagRepeatAtLogin},
		{e.CopyToOrganizer, flagCopyToOrganizer},
		{e.CommandScript, flagCommandScript},
		{e.CommandXterm, flagCommandXterm},
		{e.Archive, flagArchive},
		{e.MainExpired, flagMainExpired},
		{e.ReminderDone, flagReminderDone},
		{e.DateOnly, flagDateOnly},
	} {
		if b.set {
			f |= b.bit
		}
	}

	return f
} // func (e *Event) FlagField() int64

// ApplyFlagField unpacks a stored flag field into the Event's booleans.
func (e *Event) ApplyFlagField(f int64) {
	e.Enabled = f&flagEnabled != 0
	e.Beep = f&flagBeep != 0
	e.Speak = f&flagSpeak != 0
	e.ConfirmAck = f&flagConfirmAck != 0
	e.AutoClose = f&flagAutoClose != 0
	e.RepeatAtLogin = f&flagRepeatAtLogin != 0
	e.CopyToOrganizer = f&flagCopyToOrganizer != 0
	e.CommandScript = f&flagCommandScript != 0
	e.CommandXterm = f&flagCommandXterm != 0
	e.Archive = f&flagArchive != 0
	e.MainExpired = f&flagMainExpired != 0
	e.ReminderDone = f&flagReminderDone != 0
	e.DateOnly = f&flagDateOnly != 0
} // func (e *Event) ApplyFlagField(f int64)

// MainEndRepeatTime returns the time of the last simple repetition of
// the current occurrence. Without repetitions it is the occurrence
// itself.
func (e *Event) MainEndRepeatTime() time.Time {
	if e.Repeat.Count <= 0 || e.Repeat.Interval <= 0 {
		return e.Time
	}

	return e.Time.Add(e.Repeat.Interval * time.Duration(e.Repeat.Count))
} // func (e *Event) MainEndRepeatTime() time.Time
