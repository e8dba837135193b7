// /home/krylon/go/src/github.com/blicero/ariadne/engine/03_queue_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 02. 07. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-11 23:50:21 krylon>

package engine

import (
	"testing"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/action"
)

func TestQueueOrder(t *testing.T) {
	if eng == nil {
		t.SkipNow()
	}

	var ids = []int64{101, 102, 103, 104, 105}

	for _, id := range ids {
		eng.enqueue(&queueEntry{
			eventID: id,
			fn:      objects.FuncHandle,
		})
	}

	// Interleave a fresh entry the way a nested trigger would.
	eng.enqueue(&queueEntry{eventID: 106, fn: objects.FuncCancel})
	ids = append(ids, 106)

	for i, id := range ids {
		var ent = eng.popEntry()
		if ent == nil {
			t.Fatalf("Queue ran dry after %d entries", i)
		} else if ent.eventID != id {
			t.Errorf("Entry %d is Event %d (expected %d)",
				i,
				ent.eventID,
				id)
		}
	}

	if ent := eng.popEntry(); ent != nil {
		t.Errorf("Queue should be empty, got entry for Event %d",
			ent.eventID)
	}

	// Drain the wakeup signal so later tests start clean.
	select {
	case <-eng.wakeup:
	default:
	}
} // func TestQueueOrder(t *testing.T)

func TestScanLoginAlarms(t *testing.T) {
	if eng == nil {
		t.SkipNow()
	}

	var (
		err error
		db  = eng.pool.Get()
		e   = &objects.Event{
			UUID:          common.GetUUID(),
			Action:        action.Message,
			Text:          "Fires at every login",
			Time:          time.Now().Add(72 * time.Hour),
			RepeatAtLogin: true,
			Enabled:       true,
		}
	)

	if err = db.EventAdd(e); err != nil {
		eng.pool.Put(db)
		t.Fatalf("Cannot add Event: %s", err.Error())
	}
	eng.pool.Put(db)

	eng.scanLoginAlarms()

	// The main alarm lies far in the future, only the session-start
	// scan can deliver this Event.
	var found bool
	for ent := eng.popEntry(); ent != nil; ent = eng.popEntry() {
		if ent.eventID != e.ID {
			continue
		}

		found = true
		if ent.fn != objects.FuncHandle {
			t.Errorf("Login Event %d is queued as %s (expected %s)",
				ent.eventID,
				ent.fn,
				objects.FuncHandle)
		}
	}

	if !found {
		t.Errorf("Login Event %d was not queued at session start", e.ID)
	}

	select {
	case <-eng.wakeup:
	default:
	}

	db = eng.pool.Get()
	defer eng.pool.Put(db)

	if err = db.EventDelete(e); err != nil {
		t.Errorf("Cannot remove Event %d: %s", e.ID, err.Error())
	}
} // func TestScanLoginAlarms(t *testing.T)

func TestScheduleEventImmediate(t *testing.T) {
	if eng == nil {
		t.SkipNow()
	}

	disp.CloseAll()

	var (
		now    = time.Now()
		before = disp.msgCount()
		e      = &objects.Event{
			UUID:    common.GetUUID(),
			Action:  action.Message,
			Text:    "Already due on submission",
			Time:    now.Add(-time.Minute),
			Enabled: true,
		}
	)

	eng.scheduleEvent(e, now)

	if disp.msgCount() != before+1 {
		t.Error("A submitted Event that is already due must fire right away")
	}
} // func TestScheduleEventImmediate(t *testing.T)

func TestScheduleEventTooLate(t *testing.T) {
	if eng == nil {
		t.SkipNow()
	}

	var (
		err    error
		now    = time.Now()
		before = disp.msgCount()
		e      = &objects.Event{
			UUID:       common.GetUUID(),
			Action:     action.Message,
			Text:       "Too old to bother",
			Time:       now.Add(-3 * time.Hour),
			LateCancel: 2,
			Enabled:    true,
		}
	)

	eng.scheduleEvent(e, now)

	if disp.msgCount() != before {
		t.Error("An overly late submission must not fire")
	}

	var db = eng.pool.Get()
	defer eng.pool.Put(db)

	var ref *objects.Event
	if ref, err = db.EventGetByUUID(e.UUID); err != nil {
		t.Fatalf("Cannot look up Event %s: %s", e.UUID, err.Error())
	} else if ref != nil {
		t.Error("An overly late submission must not be added to the calendar")
	}
} // func TestScheduleEventTooLate(t *testing.T)
