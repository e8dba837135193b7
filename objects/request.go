// /home/krylon/go/src/github.com/blicero/ariadne/objects/request.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-24 16:10:08 krylon>

package objects

import "fmt"

//go:generate ffjson request.go

// EventFunc is the requested way of dealing with an Event.
type EventFunc uint8

// FuncHandle acts on the Event only if one of its alarms is due.
// FuncTrigger acts on the first alarm unconditionally.
// FuncCancel removes the Event without displaying it.
// FuncDefer reschedules the next firing to a user-chosen time.
const (
	FuncHandle EventFunc = iota
	FuncTrigger
	FuncCancel
	FuncDefer
)

func (f EventFunc) String() string {
	switch f {
	case FuncHandle:
		return "Handle"
	case FuncTrigger:
		return "Trigger"
	case FuncCancel:
		return "Cancel"
	case FuncDefer:
		return "Defer"
	default:
		return fmt.Sprintf("InvalidEventFunc(%d)", uint8(f))
	}
} // func (f EventFunc) String() string

// Response is what the backend sends to a client after processing a
// request.
type Response struct {
	ID      int64
	Status  bool
	Message string
}
