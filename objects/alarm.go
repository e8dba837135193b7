// /home/krylon/go/src/github.com/blicero/ariadne/objects/alarm.go
// -*- mode: go; coding: utf-8; -*-
// Created on 16. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-03-28 18:40:33 krylon>

package objects

import (
	"fmt"
	"time"

	"github.com/blicero/ariadne/objects/role"
)

// Alarm is one materialized occurrence of an Event for a specific role.
// Alarms are derived on demand from the Event; they are not persisted
// on their own.
type Alarm struct {
	Role     role.ID
	Time     time.Time
	DateOnly bool
}

func (a *Alarm) String() string {
	return fmt.Sprintf("Alarm{ Role: %s, Time: %s }",
		a.Role,
		a.Time.Format("2006-01-02 15:04:05"))
} // func (a *Alarm) String() string
