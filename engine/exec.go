// /home/krylon/go/src/github.com/blicero/ariadne/engine/exec.go
// -*- mode: go; coding: utf-8; -*-
// Created on 22. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-11 21:52:29 krylon>

package engine

import (
	"fmt"
	"time"

	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/action"
	"github.com/blicero/ariadne/objects/role"
)

// execAlarm performs the action of one alarm instance. With reschedule,
// the Event's schedule advances once the action is on its way; command
// execution is fire-and-forget in that regard, the schedule does not
// wait for the process to exit. noPreAction suppresses the pre-action
// hook, it is set when a dispatch resumes after its pre-action ran.
func (eng *Engine) execAlarm(e *objects.Event, a *objects.Alarm, reschedule, allowDefer, noPreAction bool) {
	var now = time.Now()

	if !e.Enabled {
		eng.log.Printf("[DEBUG] Event %d (%q) is disabled, not executing\n",
			e.ID,
			e.Text)
		if reschedule {
			eng.eventHandled(e, a, now)
		}
		return
	}

	switch e.Action {
	case action.Message, action.File:
		var win = eng.disp.FindWindow(e.ID)

		if win == nil && e.PreAction != "" && !noPreAction {
			// Run the pre-action first. The display is deferred
			// until the process completes, the completion handler
			// re-enters this dispatch with noPreAction set.
			var flags = procPreAction
			if reschedule {
				flags |= procReschedule
			}
			if allowDefer {
				flags |= procAllowDefer
			}
			eng.runEventCommand(e, a, e.PreAction, flags)
			return
		}

		if win != nil && win.CanDefer() && !win.LoginRepeat() &&
			(win.Role() == role.Reminder) == (a.Role == role.Reminder) {
			// An open window for this Event can simply replay its
			// alert.
			if err := win.Repeat(*a); err != nil {
				eng.log.Printf("[ERROR] Cannot repeat alert for Event %d: %s\n",
					e.ID,
					err.Error())
			}
			if reschedule {
				eng.eventHandled(e, a, now)
			}
			return
		}

		if win != nil {
			win.Close() // nolint: errcheck
		}

		if err := eng.disp.ShowMessage(e, a, allowDefer); err != nil {
			eng.log.Printf("[ERROR] Cannot display Event %d (%q): %s\n",
				e.ID,
				e.Text,
				err.Error())
		}

		if reschedule {
			eng.eventHandled(e, a, now)
		}

		eng.alarmCompleted(e, a)

	case action.Command:
		var flags procFlags
		if e.PostAction != "" {
			// The completion handler fires the post-action.
			flags |= procWantPost
		}
		eng.runEventCommand(e, a, e.Text, flags)

		if reschedule {
			eng.eventHandled(e, a, now)
		}

	case action.Email:
		if err := eng.mailer.Send(e); err != nil {
			var msg = fmt.Sprintf("Failed to send email %q: %s",
				e.EmailSubject,
				err.Error())
			eng.log.Printf("[ERROR] %s\n", msg)
			eng.disp.ShowError(e, []string{msg}) // nolint: errcheck
		} else {
			eng.log.Printf("[INFO] Sent email %q for Event %d\n",
				e.EmailSubject,
				e.ID)
		}

		if reschedule {
			eng.eventHandled(e, a, now)
		}

		eng.alarmCompleted(e, a)

	default:
		eng.log.Printf("[CANTHAPPEN] Event %d has unknown action %d\n",
			e.ID,
			e.Action)
	}
} // func (eng *Engine) execAlarm(e *objects.Event, a *objects.Alarm, reschedule, allowDefer, noPreAction bool)

// alarmCompleted fires the Event's post-action, if one is configured.
// Post-actions have no scheduling side effects.
func (eng *Engine) alarmCompleted(e *objects.Event, a *objects.Alarm) {
	if e.PostAction == "" {
		return
	}

	eng.runEventCommand(e, a, e.PostAction, procPostAction)
} // func (eng *Engine) alarmCompleted(e *objects.Event, a *objects.Alarm)
