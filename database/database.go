// /home/krylon/go/src/github.com/blicero/ariadne/database/database.go
// -*- mode: go; coding: utf-8; -*-
// Created on 24. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-10 19:42:17 krylon>

// Package database is the storage backend of the application, the
// calendar store all Event state lives in. It is implemented on top of
// SQLite.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/database/query"
	"github.com/blicero/ariadne/logdomain"
	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/action"
	"github.com/blicero/krylib"
	_ "github.com/mattn/go-sqlite3" // Import the database driver
)

var (
	openLock sync.Mutex
	idCnt    int64
)

// ErrTxInProgress indicates that an attempt was made to initiate a
// transaction while one is already in progress.
var ErrTxInProgress = fmt.Errorf("A Transaction is already in progress")

// ErrNoTxInProgress indicates that an attempt was made to finish a
// transaction while none is active.
var ErrNoTxInProgress = fmt.Errorf("There is no transaction in progress")

var retryPat = regexp.MustCompile("(?i)database is (?:locked|busy)")

// If a query returns an error and the error text matches this pattern,
// we just retry the operation.
func worthARetry(e error) bool {
	return retryPat.MatchString(e.Error())
} // func worthARetry(e error) bool

// retryDelay is the amount of time we wait before we repeat a failed
// database operation.
const retryDelay = 25 * time.Millisecond

func waitForRetry() {
	time.Sleep(retryDelay)
} // func waitForRetry()

// Database wraps a database connection and a few bits of bookkeeping.
type Database struct {
	id        int64
	db        *sql.DB
	tx        *sql.Tx
	log       *log.Logger
	path      string
	stmtTable map[query.ID]*sql.Stmt
}

// Open opens a Database. If the database file does not exist, it is
// created and the schema is initialized.
func Open(path string) (*Database, error) {
	var (
		err      error
		dbExists bool
		db       = &Database{
			path:      path,
			stmtTable: make(map[query.ID]*sql.Stmt),
		}
	)

	openLock.Lock()
	defer openLock.Unlock()
	idCnt++
	db.id = idCnt

	if db.log, err = common.GetLogger(logdomain.Database); err != nil {
		return nil, err
	}

	var connstring = fmt.Sprintf("%s?_locking=NORMAL&_journal=WAL&_fk=1&recursive_triggers=0",
		path)

	if dbExists, err = krylib.Fexists(path); err != nil {
		db.log.Printf("[ERROR] Failed to check if database file %s exists: %s\n",
			path,
			err.Error())
		return nil, err
	} else if db.db, err = sql.Open("sqlite3", connstring); err != nil {
		db.log.Printf("[ERROR] Failed to open %s: %s\n",
			path,
			err.Error())
		return nil, err
	}

	if !dbExists {
		if err = db.initialize(); err != nil {
			var e2 error
			if e2 = db.db.Close(); e2 != nil {
				db.log.Printf("[CRITICAL] Failed to close database: %s\n",
					e2.Error())
				return nil, e2
			}
			return nil, err
		}
	}

	return db, nil
} // func Open(path string) (*Database, error)

func (db *Database) initialize() error {
	var err error
	var tx *sql.Tx

	if tx, err = db.db.Begin(); err != nil {
		db.log.Printf("[ERROR] Cannot begin transaction: %s\n",
			err.Error())
		return err
	}

	for _, q := range initQueries {
		if _, err = tx.Exec(q); err != nil {
			db.log.Printf("[ERROR] Cannot execute init query: %s\n%s\n",
				err.Error(),
				q)
			if rbErr := tx.Rollback(); rbErr != nil {
				db.log.Printf("[CANTHAPPEN] Cannot rollback transaction: %s\n",
					rbErr.Error())
			}
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		db.log.Printf("[CANTHAPPEN] Failed to commit init transaction: %s\n",
			err.Error())
		return err
	}

	return nil
} // func (db *Database) initialize() error

// Close closes the database connection.
func (db *Database) Close() error {
	var err error

	if db.tx != nil {
		if err = db.tx.Rollback(); err != nil {
			db.log.Printf("[CRITICAL] Cannot roll back pending transaction: %s\n",
				err.Error())
			return err
		}
		db.tx = nil
	}

	for key, stmt := range db.stmtTable {
		if err = stmt.Close(); err != nil {
			db.log.Printf("[CRITICAL] Cannot close statement handle %s: %s\n",
				key,
				err.Error())
			return err
		}
		delete(db.stmtTable, key)
	}

	if err = db.db.Close(); err != nil {
		db.log.Printf("[CRITICAL] Cannot close database: %s\n",
			err.Error())
		return err
	}

	db.db = nil
	return nil
} // func (db *Database) Close() error

func (db *Database) getQuery(id query.ID) (*sql.Stmt, error) {
	var (
		stmt *sql.Stmt
		ok   bool
		err  error
	)

	if stmt, ok = db.stmtTable[id]; ok {
		return stmt, nil
	}

PREPARE_QUERY:
	if stmt, err = db.db.Prepare(dbQueries[id]); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto PREPARE_QUERY
		}

		db.log.Printf("[ERROR] Cannot parse query %s: %s\n%s\n",
			id,
			err.Error(),
			dbQueries[id])
		return nil, err
	}

	db.stmtTable[id] = stmt
	return stmt, nil
} // func (db *Database) getQuery(id query.ID) (*sql.Stmt, error)

// Begin begins an explicit database transaction.
// Only one transaction can be in progress at once, attempting to start
// one while another transaction is already in progress yields
// ErrTxInProgress.
func (db *Database) Begin() error {
	var err error

	if db.tx != nil {
		return ErrTxInProgress
	}

BEGIN_TX:
	for db.tx == nil {
		if db.tx, err = db.db.Begin(); err != nil {
			if worthARetry(err) {
				waitForRetry()
				continue BEGIN_TX
			}

			db.log.Printf("[ERROR] Failed to start transaction: %s\n",
				err.Error())
			return err
		}
	}

	return nil
} // func (db *Database) Begin() error

// Commit ends the active transaction, making any changes made during
// that transaction permanent and visible to other connections.
func (db *Database) Commit() error {
	var err error

	if db.tx == nil {
		return ErrNoTxInProgress
	}

COMMIT_TX:
	if err = db.tx.Commit(); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto COMMIT_TX
		}

		db.log.Printf("[ERROR] Failed to commit transaction: %s\n",
			err.Error())
		return err
	}

	db.tx = nil
	return nil
} // func (db *Database) Commit() error

// Rollback aborts the active transaction.
func (db *Database) Rollback() error {
	var err error

	if db.tx == nil {
		return ErrNoTxInProgress
	}

	if err = db.tx.Rollback(); err != nil {
		db.log.Printf("[ERROR] Failed to roll back transaction: %s\n",
			err.Error())
		return err
	}

	db.tx = nil
	return nil
} // func (db *Database) Rollback() error

//////////////////////////////////////////////////////////////////////////////
/// Serialization helpers ////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////

func stampOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
} // func stampOrZero(t time.Time) int64

func deferralStamp(e *objects.Event) sql.NullInt64 {
	if e.Deferral == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: e.Deferral.Unix(), Valid: true}
} // func deferralStamp(e *objects.Event) sql.NullInt64

func joinList(items []string) string {
	return strings.Join(items, "\n")
} // func joinList(items []string) string

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
} // func splitList(s string) []string

func scanEvent(rows *sql.Rows) (*objects.Event, error) {
	var (
		err                           error
		e                             = new(objects.Event)
		act                           int
		stamp, recurStart, changed    int64
		flags, repInterval, repCount  int64
		deferral                      sql.NullInt64
		recurRule                     string
		emailTo, emailAtt             string
	)

	if err = rows.Scan(
		&e.ID,
		&e.UUID,
		&act,
		&e.Text,
		&stamp,
		&e.LateCancel,
		&flags,
		&e.BgColor,
		&e.FgColor,
		&e.AudioFile,
		&recurStart,
		&recurRule,
		&repInterval,
		&repCount,
		&deferral,
		&e.Reminder,
		&e.PreAction,
		&e.PostAction,
		&e.LogFile,
		&emailTo,
		&e.EmailSubject,
		&e.EmailFromID,
		&emailAtt,
		&changed); err != nil {
		return nil, err
	}

	e.Action = action.ID(act)
	e.Time = time.Unix(stamp, 0)
	e.ApplyFlagField(flags)
	e.Changed = time.Unix(changed, 0)
	e.EmailTo = splitList(emailTo)
	e.EmailAttachments = splitList(emailAtt)

	if recurRule != "" {
		e.Recur = &objects.Recurrence{
			Start: time.Unix(recurStart, 0),
			Rule:  recurRule,
		}
	}

	if repInterval > 0 {
		e.Repeat = objects.Repetition{
			Interval: time.Second * time.Duration(repInterval),
			Count:    int(repCount),
		}
	}

	if deferral.Valid {
		var d = time.Unix(deferral.Int64, 0)
		e.Deferral = &d
	}

	return e, nil
} // func scanEvent(rows *sql.Rows) (*objects.Event, error)

func (db *Database) eventArgs(e *objects.Event) []any {
	var recurStart int64
	var recurRule string

	if e.Recur != nil {
		recurStart = stampOrZero(e.Recur.Start)
		recurRule = e.Recur.Rule
	}

	return []any{
		e.UUID,
		int(e.Action),
		e.Text,
		e.Time.Unix(),
		e.LateCancel,
		e.FlagField(),
		e.BgColor,
		e.FgColor,
		e.AudioFile,
		recurStart,
		recurRule,
		int64(e.Repeat.Interval / time.Second),
		int64(e.Repeat.Count),
		deferralStamp(e),
		e.Reminder,
		e.PreAction,
		e.PostAction,
		e.LogFile,
		joinList(e.EmailTo),
		e.EmailSubject,
		e.EmailFromID,
		joinList(e.EmailAttachments),
		e.Changed.Unix(),
	}
} // func (db *Database) eventArgs(e *objects.Event) []any

//////////////////////////////////////////////////////////////////////////////
/// Event CRUD ///////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////

// EventAdd adds an Event to the calendar store.
func (db *Database) EventAdd(e *objects.Event) error {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(query.EventAdd); err != nil {
		return err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	e.Changed = time.Now()

	var res sql.Result

EXEC_QUERY:
	if res, err = stmt.Exec(db.eventArgs(e)...); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot add Event %q to database: %s\n",
			e.Text,
			err.Error())
		return err
	}

	if e.ID, err = res.LastInsertId(); err != nil {
		db.log.Printf("[ERROR] Cannot get ID of new Event %q: %s\n",
			e.Text,
			err.Error())
		return err
	}

	return nil
} // func (db *Database) EventAdd(e *objects.Event) error

// EventUpdate writes an Event's mutable scheduling state back to the
// store.
func (db *Database) EventUpdate(e *objects.Event) error {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(query.EventUpdate); err != nil {
		return err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	e.Changed = time.Now()

	var recurStart int64
	var recurRule string
	if e.Recur != nil {
		recurStart = stampOrZero(e.Recur.Start)
		recurRule = e.Recur.Rule
	}

EXEC_QUERY:
	if _, err = stmt.Exec(
		e.Time.Unix(),
		e.FlagField(),
		recurStart,
		recurRule,
		int64(e.Repeat.Interval/time.Second),
		int64(e.Repeat.Count),
		deferralStamp(e),
		e.Changed.Unix(),
		e.ID); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot update Event %d (%q): %s\n",
			e.ID,
			e.Text,
			err.Error())
		return err
	}

	return nil
} // func (db *Database) EventUpdate(e *objects.Event) error

// EventDelete removes an Event from the calendar store.
func (db *Database) EventDelete(e *objects.Event) error {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(query.EventDelete); err != nil {
		return err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

EXEC_QUERY:
	if _, err = stmt.Exec(e.ID); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot delete Event %d (%q): %s\n",
			e.ID,
			e.Text,
			err.Error())
		return err
	}

	return nil
} // func (db *Database) EventDelete(e *objects.Event) error

// EventGetByID looks up an Event by its ID. If the Event is not in the
// store, it returns nil, but no error.
func (db *Database) EventGetByID(id int64) (*objects.Event, error) {
	return db.eventGetOne(query.EventGetByID, id)
} // func (db *Database) EventGetByID(id int64) (*objects.Event, error)

// EventGetByUUID looks up an Event by its UUID.
func (db *Database) EventGetByUUID(uuid string) (*objects.Event, error) {
	return db.eventGetOne(query.EventGetByUUID, uuid)
} // func (db *Database) EventGetByUUID(uuid string) (*objects.Event, error)

func (db *Database) eventGetOne(qid query.ID, arg any) (*objects.Event, error) {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		return nil, err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(arg); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot look up Event (%v): %s\n",
			arg,
			err.Error())
		return nil, err
	}

	defer rows.Close() // nolint: errcheck

	if rows.Next() {
		return scanEvent(rows)
	}

	return nil, nil
} // func (db *Database) eventGetOne(qid query.ID, arg any) (*objects.Event, error)

func (db *Database) eventGetMany(qid query.ID, args ...any) ([]objects.Event, error) {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		return nil, err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(args...); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot execute query %s: %s\n",
			qid,
			err.Error())
		return nil, err
	}

	defer rows.Close() // nolint: errcheck

	var events = make([]objects.Event, 0, 16)

	for rows.Next() {
		var e *objects.Event
		if e, err = scanEvent(rows); err != nil {
			db.log.Printf("[ERROR] Cannot scan Event row: %s\n",
				err.Error())
			return nil, err
		}
		events = append(events, *e)
	}

	return events, nil
} // func (db *Database) eventGetMany(qid query.ID, args ...any) ([]objects.Event, error)

// EventGetPending returns all Events that have an alarm instance due by
// the given deadline.
func (db *Database) EventGetPending(deadline time.Time) ([]objects.Event, error) {
	return db.eventGetMany(query.EventGetPending, deadline.Unix(), deadline.Unix())
} // func (db *Database) EventGetPending(deadline time.Time) ([]objects.Event, error)

// EventGetLogin returns all Events flagged to repeat at login.
func (db *Database) EventGetLogin() ([]objects.Event, error) {
	return db.eventGetMany(query.EventGetLogin, objects.FlagRepeatAtLogin)
} // func (db *Database) EventGetLogin() ([]objects.Event, error)

// EventGetAll returns all active Events.
func (db *Database) EventGetAll() ([]objects.Event, error) {
	return db.eventGetMany(query.EventGetAll)
} // func (db *Database) EventGetAll() ([]objects.Event, error)

//////////////////////////////////////////////////////////////////////////////
/// Archive //////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////

// ArchiveAdd copies a consumed or cancelled Event into the archive for
// historical display.
func (db *Database) ArchiveAdd(e *objects.Event) error {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(query.ArchiveAdd); err != nil {
		return err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var args = append(db.eventArgs(e), time.Now().Unix())

EXEC_QUERY:
	if _, err = stmt.Exec(args...); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot archive Event %d (%q): %s\n",
			e.ID,
			e.Text,
			err.Error())
		return err
	}

	return nil
} // func (db *Database) ArchiveAdd(e *objects.Event) error

// ArchiveGetAll returns all archived Events, most recent first.
func (db *Database) ArchiveGetAll() ([]objects.Event, error) {
	return db.eventGetMany(query.ArchiveGetAll)
} // func (db *Database) ArchiveGetAll() ([]objects.Event, error)

// ArchivePurge removes archived Events older than the given number of
// days. It returns the number of removed rows.
func (db *Database) ArchivePurge(days int) (int64, error) {
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(query.ArchivePurge); err != nil {
		return 0, err
	} else if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var cutoff = time.Now().AddDate(0, 0, -days)
	var res sql.Result

EXEC_QUERY:
	if res, err = stmt.Exec(cutoff.Unix()); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot purge archive: %s\n",
			err.Error())
		return 0, err
	}

	var cnt int64
	if cnt, err = res.RowsAffected(); err != nil {
		db.log.Printf("[ERROR] Cannot get number of purged rows: %s\n",
			err.Error())
		return 0, err
	}

	return cnt, nil
} // func (db *Database) ArchivePurge(days int) (int64, error)
