// /home/krylon/go/src/github.com/blicero/ariadne/engine/trigger.go
// -*- mode: go; coding: utf-8; -*-
// Created on 15. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-11 21:40:02 krylon>

package engine

import (
	"time"

	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/role"
	"github.com/blicero/ariadne/schedule"
)

// evalAction is a lateness verdict on one alarm instance: advance it to
// its next occurrence, or abandon it.
type evalAction struct {
	alarm  objects.Alarm
	cancel bool
}

// evaluate walks the Event's alarm instances, most significant first,
// and picks the one that is due now, if any. Instances that are overdue
// beyond their lateness window are not selected, they are returned as
// reschedule/cancel actions instead. At most one instance is ever
// selected as due.
func (eng *Engine) evaluate(e *objects.Event, now time.Time) (*objects.Alarm, []evalAction) {
	var (
		due      *objects.Alarm
		actions  []evalAction
		interval = eng.conf.CheckDuration()
	)

	// A repeating alarm's stored time is its first firing. The latest
	// simple repeat at or before now is what lateness is judged by.
	var repeatTime time.Time
	if e.Repeat.Count > 0 && e.Repeat.Interval > 0 {
		if prev, otyp := e.PreviousOccurrence(now.Add(time.Second), true); otyp.IsRepeat() {
			repeatTime = prev
		}
	}

	for _, a := range e.Instances(eng.sessionStart) {
		var alarm = a

		if alarm.Role == role.Main && repeatTime.After(alarm.Time) {
			alarm.Time = repeatTime
		}

		if alarm.Role == role.Deferred && e.Repeat.Count > 0 && alarm.Time.After(repeatTime) {
			// The deferral is later than the last repeat of the main
			// alarm, so it replaces the repeat outright. Deselecting
			// even before the deferral is due keeps the superseded
			// repeats from firing over and over.
			due = nil
		}

		if !schedule.IsDue(alarm.Time, now, true) {
			continue
		}

		if alarm.Role == role.AtLogin {
			// An alarm that was only just set up must not refire, and
			// a login alarm never displaces another due instance.
			if due == nil && now.Sub(e.Changed) > schedule.MaxLateness(1, interval) {
				alarm.Time = now
				due = &alarm
			}
			continue
		}

		if e.LateCancel > 0 && tooLate(e, &alarm, now, interval) {
			actions = append(actions, classifyLate(e, alarm, now))
			continue
		}

		if alarm.Role == role.Deferred && due != nil {
			// A deferral later than the latest repeat occurrence
			// wins over a tentatively selected instance.
			if alarm.Time.After(repeatTime) {
				due = &alarm
			}
			continue
		}

		if due == nil {
			due = &alarm
		}
	}

	return due, actions
} // func (eng *Engine) evaluate(e *objects.Event, now time.Time) (*objects.Alarm, []evalAction)

func tooLate(e *objects.Event, a *objects.Alarm, now time.Time, interval time.Duration) bool {
	if a.DateOnly {
		return schedule.DateTooLate(a.Time, e.LateCancel, now)
	}

	return now.Sub(a.Time) > schedule.MaxLateness(e.LateCancel, interval)
} // func tooLate(e *objects.Event, a *objects.Alarm, now time.Time, interval time.Duration) bool

// classifyLate decides whether an overdue instance is abandoned or
// advanced: it is abandoned only when no earlier occurrence remains to
// fall back to.
func classifyLate(e *objects.Event, a objects.Alarm, now time.Time) evalAction {
	var _, otyp = e.PreviousOccurrence(now.Add(time.Second), true)

	var cancel bool

	switch otyp.Base() {
	case objects.OccurNone:
		cancel = true
	case objects.OccurFirstOrOnly:
		cancel = !e.Recurs()
	case objects.OccurLast:
		cancel = !otyp.IsRepeat() || !e.MainEndRepeatTime().After(now)
	default:
		// Further occurrences exist, advance to them.
	}

	return evalAction{alarm: a, cancel: cancel}
} // func classifyLate(e *objects.Event, a objects.Alarm, now time.Time) evalAction

// handleEvent acts on an Event if one of its alarms is due. Overdue
// instances are rescheduled or cancelled first, then the due instance,
// if any, is executed. The Event is written back to the calendar once
// per pass, no matter how many instances needed adjusting.
func (eng *Engine) handleEvent(e *objects.Event, now time.Time) {
	var due, actions = eng.evaluate(e, now)

	eng.log.Printf("[TRACE] Event %d (%q): due=%v, %d lateness actions\n",
		e.ID,
		e.Text,
		due,
		len(actions))

	var changed bool

	for _, act := range actions {
		if act.cancel {
			eng.log.Printf("[INFO] Cancelling overdue %s alarm of Event %d (%q)\n",
				act.alarm.Role,
				e.ID,
				e.Text)
			e.RemoveExpiredAlarm(act.alarm.Role)
		} else {
			eng.rescheduleAlarm(e, &act.alarm, now)
		}
		changed = true
	}

	if due != nil {
		// The due instance's own bookkeeping, including the single
		// calendar write, happens on the execution path.
		eng.execAlarm(e, due, true, true, false)
		return
	}

	if changed {
		eng.saveEvent(e)
	}
} // func (eng *Engine) handleEvent(e *objects.Event, now time.Time)

// rescheduleAlarm advances one alarm instance past its current firing.
// The main alarm moves to its next occurrence; reminder and deferred
// instances are simply consumed. The calendar is not written here.
func (eng *Engine) rescheduleAlarm(e *objects.Event, a *objects.Alarm, now time.Time) {
	switch a.Role {
	case role.Main:
		if e.Repeat.Count > 0 && e.MainEndRepeatTime().After(now) {
			// Repetitions of the current occurrence remain; the Event
			// does not advance until they are exhausted.
			eng.log.Printf("[DEBUG] Event %d (%q) has repetitions pending until %s\n",
				e.ID,
				e.Text,
				e.MainEndRepeatTime().Format("2006-01-02 15:04:05"))
			return
		}
		if otyp := e.SetNextOccurrence(now.Add(time.Second)); otyp == objects.OccurNone {
			e.RemoveExpiredAlarm(role.Main)
			eng.log.Printf("[DEBUG] Event %d (%q) has no further occurrences\n",
				e.ID,
				e.Text)
		} else {
			eng.log.Printf("[DEBUG] Rescheduled Event %d (%q) for %s (%s)\n",
				e.ID,
				e.Text,
				e.Time.Format("2006-01-02 15:04:05"),
				otyp)
		}
	case role.Reminder, role.Deferred, role.AtLogin:
		e.RemoveExpiredAlarm(a.Role)
	}
} // func (eng *Engine) rescheduleAlarm(e *objects.Event, a *objects.Alarm, now time.Time)

// eventHandled performs the post-execution bookkeeping for a fired
// alarm: advance the schedule and write the Event back once.
func (eng *Engine) eventHandled(e *objects.Event, a *objects.Alarm, now time.Time) {
	eng.rescheduleAlarm(e, a, now)
	eng.saveEvent(e)
} // func (eng *Engine) eventHandled(e *objects.Event, a *objects.Alarm, now time.Time)

// saveEvent writes an Event's state back to the calendar. An Event with
// no alarm instances left is consumed: archived if it asked for that,
// then removed.
func (eng *Engine) saveEvent(e *objects.Event) {
	if e.ID == 0 {
		// Fire-and-forget Events are never tracked in the calendar.
		return
	}

	var (
		err error
		db  = eng.pool.Get()
	)
	defer eng.pool.Put(db)

	if e.AlarmCount() == 0 {
		if e.Archive {
			if err = db.ArchiveAdd(e); err != nil {
				eng.log.Printf("[ERROR] Cannot archive Event %d (%q): %s\n",
					e.ID,
					e.Text,
					err.Error())
			}
		}
		if err = db.EventDelete(e); err != nil {
			eng.log.Printf("[ERROR] Cannot remove consumed Event %d (%q): %s\n",
				e.ID,
				e.Text,
				err.Error())
		} else {
			eng.log.Printf("[INFO] Event %d (%q) is consumed\n",
				e.ID,
				e.Text)
		}
		return
	}

	if err = db.EventUpdate(e); err != nil {
		eng.log.Printf("[ERROR] Cannot update Event %d (%q): %s\n",
			e.ID,
			e.Text,
			err.Error())
	}
} // func (eng *Engine) saveEvent(e *objects.Event)

// cancelEvent removes an Event without displaying anything.
func (eng *Engine) cancelEvent(e *objects.Event) {
	var (
		err error
		db  = eng.pool.Get()
	)
	defer eng.pool.Put(db)

	if win := eng.disp.FindWindow(e.ID); win != nil {
		win.Close() // nolint: errcheck
	}

	if e.Archive {
		if err = db.ArchiveAdd(e); err != nil {
			eng.log.Printf("[ERROR] Cannot archive Event %d (%q): %s\n",
				e.ID,
				e.Text,
				err.Error())
		}
	}

	if err = db.EventDelete(e); err != nil {
		eng.log.Printf("[ERROR] Cannot delete Event %d (%q): %s\n",
			e.ID,
			e.Text,
			err.Error())
	} else {
		eng.log.Printf("[INFO] Cancelled Event %d (%q)\n",
			e.ID,
			e.Text)
	}
} // func (eng *Engine) cancelEvent(e *objects.Event)

// deferEvent reschedules an Event's next firing to a user-chosen time.
// Deferring past a pending reminder consumes the reminder.
func (eng *Engine) deferEvent(e *objects.Event, deferTo time.Time) {
	e.Deferral = &deferTo

	if e.Reminder > 0 && !e.ReminderDone {
		var remTime = e.Time.Add(time.Minute * time.Duration(-e.Reminder))
		if deferTo.After(remTime) {
			e.ReminderDone = true
		}
	}

	eng.log.Printf("[INFO] Deferred Event %d (%q) to %s\n",
		e.ID,
		e.Text,
		deferTo.Format("2006-01-02 15:04:05"))

	eng.saveEvent(e)
} // func (eng *Engine) deferEvent(e *objects.Event, deferTo time.Time)
