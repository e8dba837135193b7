// /home/krylon/go/src/github.com/blicero/ariadne/logdomain/logdomain.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-04-02 19:22:41 krylon>

//go:generate stringer -type=ID

// Package logdomain provides symbolic constants to identify the various
// "areas" of the application that perform logging.
package logdomain

// ID represents an area of the application.
type ID uint8

// These constants identify the various log sources.
const (
	Common ID = iota
	Client
	Config
	Database
	DBPool
	Engine
	Mail
	Notify
	Runner
	Web
)

// AllDomains returns a slice of all the known log sources.
func AllDomains() []ID {
	return []ID{
		Common,
		Client,
		Config,
		Database,
		DBPool,
		Engine,
		Mail,
		Notify,
		Runner,
		Web,
	}
} // func AllDomains() []ID
