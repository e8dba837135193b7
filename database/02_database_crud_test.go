// /home/krylon/go/src/github.com/blicero/ariadne/database/02_database_crud_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 26. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-09 17:21:09 krylon>

package database

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/action"
)

const (
	itemCnt   = 32
	maxOffset = time.Hour * 168
)

var items []*objects.Event

func init() {
	items = make([]*objects.Event, itemCnt)

	var now = time.Now()

	for i := range items {
		var e = &objects.Event{
			UUID:    common.GetUUID(),
			Action:  action.Message,
			Text:    fmt.Sprintf("TEST #%03d", i),
			Time:    now.Add(time.Duration(rand.Int63n(int64(maxOffset)))),
			Enabled: true,
		}

		if i%8 == 0 {
			e.RepeatAtLogin = true
		}

		if i%10 == 0 {
			e.Recur = &objects.Recurrence{
				Start: e.Time,
				Rule:  "FREQ=DAILY;COUNT=10",
			}
		}

		items[i] = e
	}
}

func TestEventAdd(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	for _, e := range items {
		var err error

		if err = db.EventAdd(e); err != nil {
			t.Fatalf("Cannot add Event %s: %s",
				e.Text,
				err.Error())
		} else if e.ID == 0 {
			t.Errorf("ID of Event %q is 0", e.Text)
		}
	}
} // func TestEventAdd(t *testing.T)

func TestEventGetAll(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	var (
		err    error
		events []objects.Event
	)

	if events, err = db.EventGetAll(); err != nil {
		t.Fatalf("Cannot fetch all Events: %s",
			err.Error())
	} else if len(events) != len(items) {
		t.Fatalf("Unexpected number of Events: %d (expected %d)",
			len(events),
			len(items))
	}
} // func TestEventGetAll(t *testing.T)

func TestEventGetByID(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	for _, e := range items {
		var (
			err error
			ref *objects.Event
		)

		if ref, err = db.EventGetByID(e.ID); err != nil {
			t.Fatalf("Cannot look up Event %d: %s",
				e.ID,
				err.Error())
		} else if ref == nil {
			t.Fatalf("Event %d was not found in database", e.ID)
		} else if ref.UUID != e.UUID {
			t.Errorf("Event %d has the wrong UUID: %q (expected %q)",
				e.ID,
				ref.UUID,
				e.UUID)
		} else if ref.Time.Unix() != e.Time.Unix() {
			t.Errorf("Event %d has the wrong Time: %s (expected %s)",
				e.ID,
				ref.Time.Format(common.TimestampFormat),
				e.Time.Format(common.TimestampFormat))
		} else if !ref.Enabled {
			t.Errorf("Event %d should be enabled, but it is not",
				e.ID)
		}
	}
} // func TestEventGetByID(t *testing.T)

func TestEventGetByUUID(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	var (
		err error
		e   = items[itemCnt/2]
		ref *objects.Event
	)

	if ref, err = db.EventGetByUUID(e.UUID); err != nil {
		t.Fatalf("Cannot look up Event by UUID %s: %s",
			e.UUID,
			err.Error())
	} else if ref == nil {
		t.Fatalf("Event %s was not found in database", e.UUID)
	} else if ref.ID != e.ID {
		t.Errorf("Event %s has the wrong ID: %d (expected %d)",
			e.UUID,
			ref.ID,
			e.ID)
	}
} // func TestEventGetByUUID(t *testing.T)

func TestEventGetPending(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	var (
		err      error
		events   []objects.Event
		deadline = time.Now().Add(maxOffset + time.Hour)
	)

	if events, err = db.EventGetPending(deadline); err != nil {
		t.Fatalf("Cannot fetch pending Events: %s",
			err.Error())
	} else if len(events) != len(items) {
		t.Errorf("Unexpected number of pending Events: %d (expected %d)",
			len(events),
			len(items))
	}
} // func TestEventGetPending(t *testing.T)

func TestEventGetLogin(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	var refCnt int
	for _, e := range items {
		if e.RepeatAtLogin {
			refCnt++
		}
	}

	var (
		err    error
		events []objects.Event
	)

	if events, err = db.EventGetLogin(); err != nil {
		t.Fatalf("Cannot fetch login Events: %s",
			err.Error())
	} else if len(events) != refCnt {
		t.Errorf("Unexpected number of login Events: %d (expected %d)",
			len(events),
			refCnt)
	}

	for _, e := range events {
		if !e.RepeatAtLogin {
			t.Errorf("Event %d (%q) does not have the login flag set",
				e.ID,
				e.Text)
		}
	}
} // func TestEventGetLogin(t *testing.T)

func TestEventUpdate(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	var (
		err     error
		e       = items[0]
		ref     *objects.Event
		deferTo = time.Now().Add(time.Minute * 30)
	)

	e.Deferral = &deferTo
	e.Time = e.Time.Add(time.Hour * 24)

	if err = db.EventUpdate(e); err != nil {
		t.Fatalf("Cannot update Event %d: %s",
			e.ID,
			err.Error())
	} else if ref, err = db.EventGetByID(e.ID); err != nil {
		t.Fatalf("Cannot look up Event %d after update: %s",
			e.ID,
			err.Error())
	} else if ref.Deferral == nil {
		t.Errorf("Event %d should have a Deferral after the update",
			e.ID)
	} else if ref.Deferral.Unix() != deferTo.Unix() {
		t.Errorf("Event %d has the wrong Deferral: %s (expected %s)",
			e.ID,
			ref.Deferral.Format(common.TimestampFormat),
			deferTo.Format(common.TimestampFormat))
	} else if ref.Time.Unix() != e.Time.Unix() {
		t.Errorf("Event %d has the wrong Time after update: %s (expected %s)",
			e.ID,
			ref.Time.Format(common.TimestampFormat),
			e.Time.Format(common.TimestampFormat))
	}
} // func TestEventUpdate(t *testing.T)

func TestArchive(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	const archCnt = 5

	var err error

	for _, e := range items[:archCnt] {
		if err = db.ArchiveAdd(e); err != nil {
			t.Fatalf("Cannot archive Event %d: %s",
				e.ID,
				err.Error())
		}
	}

	var arch []objects.Event

	if arch, err = db.ArchiveGetAll(); err != nil {
		t.Fatalf("Cannot fetch archived Events: %s",
			err.Error())
	} else if len(arch) != archCnt {
		t.Fatalf("Unexpected number of archived Events: %d (expected %d)",
			len(arch),
			archCnt)
	}

	// A negative age makes the cutoff lie in the future, so even the
	// Events we just archived get removed.
	var cnt int64

	if cnt, err = db.ArchivePurge(-1); err != nil {
		t.Fatalf("Cannot purge archive: %s",
			err.Error())
	} else if cnt != archCnt {
		t.Errorf("Unexpected number of purged Events: %d (expected %d)",
			cnt,
			archCnt)
	}
} // func TestArchive(t *testing.T)

func TestEventDelete(t *testing.T) {
	if db == nil {
		t.SkipNow()
	}

	var (
		err error
		e   = items[itemCnt-1]
		ref *objects.Event
	)

	if err = db.EventDelete(e); err != nil {
		t.Fatalf("Cannot delete Event %d: %s",
			e.ID,
			err.Error())
	} else if ref, err = db.EventGetByID(e.ID); err != nil {
		t.Fatalf("Cannot look up Event %d after deletion: %s",
			e.ID,
			err.Error())
	} else if ref != nil {
		t.Errorf("Event %d should be gone, but it is still in the database",
			e.ID)
	}
} // func TestEventDelete(t *testing.T)
