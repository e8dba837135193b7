// /home/krylon/go/src/github.com/blicero/ariadne/engine/shutstate/shutstate.go
// -*- mode: go; coding: utf-8; -*-
// Created on 17. 06. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-17 21:04:55 krylon>

// Package shutstate provides symbolic constants for the Engine's
// shutdown state machine.
package shutstate

//go:generate stringer -type=ID

// ID is the Engine's lifecycle state.
type ID uint8

// Running is normal operation. ShutdownRequested means a shutdown was
// asked for but not yet evaluated. WaitingOnQueue and
// WaitingOnProcesses mean the shutdown is deferred until the work queue
// is drained or the running commands have finished, respectively.
// Terminated is the final state.
const (
	Running ID = iota
	ShutdownRequested
	WaitingOnQueue
	WaitingOnProcesses
	Terminated
)
