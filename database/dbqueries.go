// /home/krylon/go/src/github.com/blicero/ariadne/database/dbqueries.go
// -*- mode: go; coding: utf-8; -*-
// Created on 24. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-09 16:40:12 krylon>

package database

import "github.com/blicero/ariadne/database/query"

const eventColumns = `
    id,
    uuid,
    action,
    text,
    time,
    late_cancel,
    flags,
    bg_color,
    fg_color,
    audio_file,
    recur_start,
    recur_rule,
    repeat_interval,
    repeat_count,
    deferral,
    reminder,
    pre_action,
    post_action,
    log_file,
    email_to,
    email_subject,
    email_from,
    email_attachments,
    changed
`

var dbQueries = map[query.ID]string{
	query.EventAdd: `
INSERT INTO event (uuid, action, text, time, late_cancel, flags,
                   bg_color, fg_color, audio_file,
                   recur_start, recur_rule, repeat_interval, repeat_count,
                   deferral, reminder, pre_action, post_action, log_file,
                   email_to, email_subject, email_from, email_attachments,
                   changed)
VALUES            (   ?,      ?,    ?,    ?,           ?,     ?,
                      ?,        ?,        ?,
                      ?,           ?,          ?,               ?,
                      ?,        ?,        ?,           ?,           ?,
                      ?,        ?,            ?,          ?,
                      ?)
`,
	query.EventUpdate: `
UPDATE event
SET time = ?,
    flags = ?,
    recur_start = ?,
    recur_rule = ?,
    repeat_interval = ?,
    repeat_count = ?,
    deferral = ?,
    changed = ?
WHERE id = ?
`,
	query.EventDelete:  "DELETE FROM event WHERE id = ?",
	query.EventGetByID: "SELECT " + eventColumns + " FROM event WHERE id = ?",
	query.EventGetByUUID: "SELECT " + eventColumns + " FROM event WHERE uuid = ?",
	query.EventGetPending: `
SELECT ` + eventColumns + `
FROM event
WHERE (time - reminder * 60) <= ?
   OR (deferral IS NOT NULL AND deferral <= ?)
ORDER BY time
`,
	query.EventGetLogin: `
SELECT ` + eventColumns + `
FROM event
WHERE (flags & ?) <> 0
ORDER BY time
`,
	query.EventGetAll: "SELECT " + eventColumns + " FROM event ORDER BY time, id",
	query.ArchiveAdd: `
INSERT INTO archive (uuid, action, text, time, late_cancel, flags,
                     bg_color, fg_color, audio_file,
                     recur_start, recur_rule, repeat_interval, repeat_count,
                     deferral, reminder, pre_action, post_action, log_file,
                     email_to, email_subject, email_from, email_attachments,
                     changed, archived_at)
VALUES              (   ?,      ?,    ?,    ?,           ?,     ?,
                        ?,        ?,        ?,
                        ?,           ?,          ?,               ?,
                        ?,        ?,        ?,           ?,           ?,
                        ?,        ?,            ?,          ?,
                        ?,       ?)
`,
	query.ArchiveGetAll: "SELECT " + eventColumns + " FROM archive ORDER BY archived_at DESC",
	query.ArchivePurge:  "DELETE FROM archive WHERE archived_at < ?",
}
