// /home/krylon/go/src/github.com/blicero/ariadne/objects/02_instance_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 20. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-08 18:06:21 krylon>

package objects

import (
	"testing"
	"time"

	"github.com/blicero/ariadne/objects/role"
)

func TestInstances(t *testing.T) {
	var (
		when    = time.Date(2023, 4, 3, 10, 0, 0, 0, time.UTC)
		deferTo = when.Add(time.Hour)
		login   = when.Add(-time.Hour * 2)
	)

	var e = &Event{
		Time:          when,
		Enabled:       true,
		Reminder:      15,
		RepeatAtLogin: true,
		Deferral:      &deferTo,
	}

	var instances = e.Instances(login)

	if len(instances) != 4 {
		t.Fatalf("Unexpected number of instances: %d (expected 4)",
			len(instances))
	}

	var expectRoles = []role.ID{role.Main, role.Reminder, role.Deferred, role.AtLogin}

	for idx, r := range expectRoles {
		if instances[idx].Role != r {
			t.Errorf("Instance %d has role %s, expected %s",
				idx,
				instances[idx].Role,
				r)
		}
	}

	if !instances[1].Time.Equal(when.Add(-15 * time.Minute)) {
		t.Errorf("Reminder instance has unexpected time %s",
			instances[1].Time.Format(time.RFC3339))
	} else if !instances[3].Time.Equal(login) {
		t.Errorf("Login instance has unexpected time %s",
			instances[3].Time.Format(time.RFC3339))
	}
} // func TestInstances(t *testing.T)

func TestRemoveExpiredAlarm(t *testing.T) {
	var deferTo = time.Date(2023, 4, 3, 12, 0, 0, 0, time.UTC)

	var e = &Event{
		Time:     deferTo.Add(-time.Hour),
		Enabled:  true,
		Reminder: 30,
		Deferral: &deferTo,
	}

	if cnt := e.AlarmCount(); cnt != 3 {
		t.Errorf("Unexpected alarm count %d (expected 3)", cnt)
	}

	e.RemoveExpiredAlarm(role.Reminder)
	if cnt := e.AlarmCount(); cnt != 2 {
		t.Errorf("Unexpected alarm count %d (expected 2)", cnt)
	} else if !e.ReminderDone {
		t.Error("Reminder was not marked as done")
	}

	e.RemoveExpiredAlarm(role.Deferred)
	if e.Deferral != nil {
		t.Error("Deferral was not removed")
	}

	e.RemoveExpiredAlarm(role.Main)
	if cnt := e.AlarmCount(); cnt != 0 {
		t.Errorf("Consumed Event still has %d alarms", cnt)
	}
} // func TestRemoveExpiredAlarm(t *testing.T)
