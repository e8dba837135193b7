// /home/krylon/go/src/github.com/blicero/ariadne/database/initqueries.go
// -*- mode: go; coding: utf-8; -*-
// Created on 24. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-02 20:21:38 krylon>

package database

var initQueries = []string{
	`
CREATE TABLE event (
    id                INTEGER PRIMARY KEY,
    uuid              TEXT UNIQUE NOT NULL,
    action            INTEGER NOT NULL,
    text              TEXT NOT NULL,
    time              INTEGER NOT NULL,
    late_cancel       INTEGER NOT NULL DEFAULT 0,
    flags             INTEGER NOT NULL DEFAULT 0,
    bg_color          TEXT NOT NULL DEFAULT '',
    fg_color          TEXT NOT NULL DEFAULT '',
    audio_file        TEXT NOT NULL DEFAULT '',
    recur_start       INTEGER NOT NULL DEFAULT 0,
    recur_rule        TEXT NOT NULL DEFAULT '',
    repeat_interval   INTEGER NOT NULL DEFAULT 0,
    repeat_count      INTEGER NOT NULL DEFAULT 0,
    deferral          INTEGER,
    reminder          INTEGER NOT NULL DEFAULT 0,
    pre_action        TEXT NOT NULL DEFAULT '',
    post_action       TEXT NOT NULL DEFAULT '',
    log_file          TEXT NOT NULL DEFAULT '',
    email_to          TEXT NOT NULL DEFAULT '',
    email_subject     TEXT NOT NULL DEFAULT '',
    email_from        TEXT NOT NULL DEFAULT '',
    email_attachments TEXT NOT NULL DEFAULT '',
    changed           INTEGER NOT NULL,
    CHECK (time > 0)
)
`,
	"CREATE INDEX event_time_idx ON event (time)",
	"CREATE INDEX event_flags_idx ON event (flags)",
	`
CREATE TABLE archive (
    id                INTEGER PRIMARY KEY,
    uuid              TEXT NOT NULL,
    action            INTEGER NOT NULL,
    text              TEXT NOT NULL,
    time              INTEGER NOT NULL,
    late_cancel       INTEGER NOT NULL DEFAULT 0,
    flags             INTEGER NOT NULL DEFAULT 0,
    bg_color          TEXT NOT NULL DEFAULT '',
    fg_color          TEXT NOT NULL DEFAULT '',
    audio_file        TEXT NOT NULL DEFAULT '',
    recur_start       INTEGER NOT NULL DEFAULT 0,
    recur_rule        TEXT NOT NULL DEFAULT '',
    repeat_interval   INTEGER NOT NULL DEFAULT 0,
    repeat_count      INTEGER NOT NULL DEFAULT 0,
    deferral          INTEGER,
    reminder          INTEGER NOT NULL DEFAULT 0,
    pre_action        TEXT NOT NULL DEFAULT '',
    post_action       TEXT NOT NULL DEFAULT '',
    log_file          TEXT NOT NULL DEFAULT '',
    email_to          TEXT NOT NULL DEFAULT '',
    email_subject     TEXT NOT NULL DEFAULT '',
    email_from        TEXT NOT NULL DEFAULT '',
    email_attachments TEXT NOT NULL DEFAULT '',
    changed           INTEGER NOT NULL,
    archived_at       INTEGER NOT NULL
)
`,
	"CREATE INDEX archive_stamp_idx ON archive (archived_at)",
}
