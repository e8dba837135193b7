// /home/krylon/go/src/github.com/blicero/ariadne/objects/role/role.go
// -*- mode: go; coding: utf-8; -*-
// Created on 16. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-03-16 19:11:50 krylon>

//go:generate stringer -type=ID

// Package role contains symbolic constants for the various roles a
// materialized alarm instance can play for its Event.
package role

// ID is the role of one alarm instance.
type ID uint8

// Main is the regular occurrence of an Event.
// Reminder goes off a configured lead time before the Main instance.
// Deferred is a one-off occurrence the user postponed to.
// AtLogin goes off once per session, regardless of the schedule.
const (
	Main ID = iota
	Reminder
	Deferred
	AtLogin
)
