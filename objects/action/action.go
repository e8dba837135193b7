// /home/krylon/go/src/github.com/blicero/ariadne/objects/action/action.go
// -*- mode: go; coding: utf-8; -*-
// Created on 16. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-03-16 19:04:27 krylon>

//go:generate stringer -type=ID

// Package action contains symbolic constants for the kinds of action
// an Alarm can perform when it goes off.
package action

// ID describes what an Alarm does when it fires.
type ID uint8

// Message displays a text message.
// File displays the contents of a file.
// Command runs a shell command.
// Email sends an email.
const (
	Message ID = iota
	File
	Command
	Email
)
