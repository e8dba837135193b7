// /home/krylon/go/src/github.com/blicero/ariadne/engine/queue.go
// -*- mode: go; coding: utf-8; -*-
// Created on 08. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-11 21:18:40 krylon>

package engine

import (
	"time"

	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/schedule"
)

// queueEntry is one pending unit of work. Either event is set (a brand
// new Event that is not in the store yet) or eventID refers to a stored
// one.
type queueEntry struct {
	event   *objects.Event
	eventID int64
	fn      objects.EventFunc
	deferTo time.Time
}

// enqueue appends an entry to the work queue and pokes the drain
// goroutine. Entries are processed strictly in insertion order.
func (eng *Engine) enqueue(ent *queueEntry) {
	eng.qLock.Lock()
	eng.queue = append(eng.queue, ent)
	eng.qLock.Unlock()
	eng.poke()
} // func (eng *Engine) enqueue(ent *queueEntry)

// poke wakes the drain goroutine without blocking. The channel has a
// capacity of one, a wakeup that is already pending covers us, too.
func (eng *Engine) poke() {
	select {
	case eng.wakeup <- struct{}{}:
	default:
	}
} // func (eng *Engine) poke()

func (eng *Engine) popEntry() *queueEntry {
	eng.qLock.Lock()
	defer eng.qLock.Unlock()

	if len(eng.queue) == 0 {
		return nil
	}

	var ent = eng.queue[0]
	eng.queue = eng.queue[1:]
	return ent
} // func (eng *Engine) popEntry() *queueEntry

// requestPurge is invoked by the cron schedule. The purge itself runs
// on the drain goroutine once the queue is empty.
func (eng *Engine) requestPurge() {
	eng.qLock.Lock()
	eng.purgePending = true
	eng.qLock.Unlock()
	eng.poke()
} // func (eng *Engine) requestPurge()

// drainLoop is the Engine's single point of calendar mutation. Queue
// entries, command completions, and the periodic calendar scan are all
// funneled through this one goroutine.
func (eng *Engine) drainLoop() {
	defer eng.log.Println("[TRACE] drainLoop is shutting down")

	var tick = time.NewTicker(eng.conf.CheckDuration())
	defer tick.Stop()

	eng.scanLoginAlarms()

	for eng.IsAlive() {
		select {
		case <-eng.wakeup:
			eng.processQueue()
		case res := <-eng.completions:
			eng.commandCompleted(res)
		case <-tick.C:
			eng.dbCheck()
		}

		eng.checkShutdown()
	}
} // func (eng *Engine) drainLoop()

// processQueue drains the work queue in FIFO order. Entries appended
// while we are draining are picked up by the same pass.
func (eng *Engine) processQueue() {
	eng.qLock.Lock()
	if eng.draining {
		eng.qLock.Unlock()
		return
	}
	eng.draining = true
	eng.qLock.Unlock()

	defer func() {
		eng.qLock.Lock()
		eng.draining = false
		eng.qLock.Unlock()
	}()

	for ent := eng.popEntry(); ent != nil; ent = eng.popEntry() {
		eng.processEntry(ent)
	}

	eng.qLock.Lock()
	var purge = eng.purgePending
	eng.purgePending = false
	eng.qLock.Unlock()

	if purge {
		eng.purgeArchive()
	}
} // func (eng *Engine) processQueue()

func (eng *Engine) processEntry(ent *queueEntry) {
	var now = time.Now()

	if ent.event != nil {
		switch ent.fn {
		case objects.FuncTrigger:
			// Fire once, do not track.
			if alarm := ent.event.FirstAlarm(eng.sessionStart); alarm != nil {
				eng.execAlarm(ent.event, alarm, false, true, false)
			}
		case objects.FuncCancel:
			eng.log.Printf("[DEBUG] Discarding submitted Event %q\n",
				ent.event.Text)
		default:
			eng.scheduleEvent(ent.event, now)
		}
		return
	}

	var (
		err error
		e   *objects.Event
		db  = eng.pool.Get()
	)
	defer eng.pool.Put(db)

	if e, err = db.EventGetByID(ent.eventID); err != nil {
		eng.log.Printf("[ERROR] Cannot look up Event %d: %s\n",
			ent.eventID,
			err.Error())
		return
	} else if e == nil {
		// Tell no one. The requester considers the Event handled,
		// and so do we.
		eng.log.Printf("[INFO] Event %d is not in the calendar, treating %s as resolved\n",
			ent.eventID,
			ent.fn)
		return
	}

	switch ent.fn {
	case objects.FuncHandle:
		eng.handleEvent(e, now)
	case objects.FuncTrigger:
		if alarm := e.FirstAlarm(eng.sessionStart); alarm != nil {
			eng.execAlarm(e, alarm, true, true, false)
		}
	case objects.FuncCancel:
		eng.cancelEvent(e)
	case objects.FuncDefer:
		eng.deferEvent(e, ent.deferTo)
	default:
		eng.log.Printf("[CANTHAPPEN] Unknown EventFunc %d for Event %d\n",
			ent.fn,
			e.ID)
	}
} // func (eng *Engine) processEntry(ent *queueEntry)

// scheduleEvent adds a newly submitted Event to the calendar. An Event
// whose time has already passed is handled right away, unless it is
// beyond its lateness window, in which case it is dropped entirely.
func (eng *Engine) scheduleEvent(e *objects.Event, now time.Time) {
	var due = !e.Time.After(now)

	if due && e.LateCancel > 0 &&
		now.Sub(e.Time) > schedule.MaxLateness(e.LateCancel, eng.conf.CheckDuration()) {
		eng.log.Printf("[INFO] Submitted Event %q is %s overdue, dropping it\n",
			e.Text,
			now.Sub(e.Time))
		return
	}

	var (
		err error
		db  = eng.pool.Get()
	)
	defer eng.pool.Put(db)

	if err = db.EventAdd(e); err != nil {
		eng.log.Printf("[ERROR] Cannot add Event %q to calendar: %s\n",
			e.Text,
			err.Error())
		return
	}

	eng.log.Printf("[DEBUG] Added Event %d (%q), due %s\n",
		e.ID,
		e.Text,
		e.Time.Format("2006-01-02 15:04:05"))

	if due {
		eng.handleEvent(e, now)
	}
} // func (eng *Engine) scheduleEvent(e *objects.Event, now time.Time)

// dbCheck scans the calendar for Events with due alarms and queues them
// for handling.
func (eng *Engine) dbCheck() {
	var (
		err      error
		events   []objects.Event
		db       = eng.pool.Get()
		deadline = time.Now()
	)
	defer eng.pool.Put(db)

	if events, err = db.EventGetPending(deadline); err != nil {
		eng.log.Printf("[ERROR] Cannot get pending Events from calendar: %s\n",
			err.Error())
		return
	}

	for idx := range events {
		eng.enqueue(&queueEntry{
			eventID: events[idx].ID,
			fn:      objects.FuncHandle,
		})
	}

	if len(events) > 0 {
		eng.log.Printf("[TRACE] Queued %d pending Events\n",
			len(events))
	}
} // func (eng *Engine) dbCheck()

// scanLoginAlarms queues every repeat-at-login Event for handling once
// at session start. Their main alarms usually lie in the future, so the
// periodic scan never picks them up.
func (eng *Engine) scanLoginAlarms() {
	var (
		err    error
		events []objects.Event
		db     = eng.pool.Get()
	)
	defer eng.pool.Put(db)

	if events, err = db.EventGetLogin(); err != nil {
		eng.log.Printf("[ERROR] Cannot get login Events from calendar: %s\n",
			err.Error())
		return
	}

	for idx := range events {
		eng.enqueue(&queueEntry{
			eventID: events[idx].ID,
			fn:      objects.FuncHandle,
		})
	}

	if len(events) > 0 {
		eng.log.Printf("[INFO] Queued %d login Events at session start\n",
			len(events))
	}
} // func (eng *Engine) scanLoginAlarms()

func (eng *Engine) purgeArchive() {
	var (
		err error
		cnt int64
		db  = eng.pool.Get()
	)
	defer eng.pool.Put(db)

	if cnt, err = db.ArchivePurge(eng.conf.KeepDays); err != nil {
		eng.log.Printf("[ERROR] Cannot purge archive: %s\n",
			err.Error())
	} else if cnt > 0 {
		eng.log.Printf("[INFO] Purged %d Events older than %d days from archive\n",
			cnt,
			eng.conf.KeepDays)
	}
} // func (eng *Engine) purgeArchive()
