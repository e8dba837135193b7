// /home/krylon/go/src/github.com/blicero/ariadne/database/query/query.go
// -*- mode: go; coding: utf-8; -*-
// Created on 24. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-02 20:14:55 krylon>

// Package query provides symbolic constants for identifying SQL queries.
package query

//go:generate stringer -type=ID

type ID uint8

const (
	EventAdd ID = iota
	EventUpdate
	EventDelete
	EventGetByID
	EventGetByUUID
	EventGetPending
	EventGetLogin
	EventGetAll
	ArchiveAdd
	ArchiveGetAll
	ArchivePurge
)
