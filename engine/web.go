// /home/krylon/go/src/github.com/blicero/ariadne/engine/web.go
// -*- mode: go; coding: utf-8; -*-
// Created on 20. 05. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-11 22:58:31 krylon>

package engine

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/database"
	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/action"
	"github.com/gorilla/mux"
	"github.com/pquerna/ffjson/ffjson"
)

func (eng *Engine) initWebHandlers() error {
	eng.router.HandleFunc("/alarm/add", eng.handleAlarmAdd)
	eng.router.HandleFunc("/alarm/pending", eng.handleAlarmGetPending)
	eng.router.HandleFunc("/alarm/all", eng.handleAlarmGetAll)
	eng.router.HandleFunc("/alarm/archived", eng.handleAlarmGetArchived)
	eng.router.HandleFunc("/alarm/export", eng.handleAlarmExport)
	eng.router.HandleFunc("/alarm/{id:(?:\\d+)}/handle", eng.handleAlarmFunc(objects.FuncHandle))
	eng.router.HandleFunc("/alarm/{id:(?:\\d+)}/trigger", eng.handleAlarmFunc(objects.FuncTrigger))
	eng.router.HandleFunc("/alarm/{id:(?:\\d+)}/cancel", eng.handleAlarmFunc(objects.FuncCancel))
	eng.router.HandleFunc("/alarm/{id:(?:\\d+)}/defer", eng.handleAlarmDefer)

	return nil
} // func (eng *Engine) initWebHandlers() error

func parseActionKind(s string) (action.ID, error) {
	switch strings.ToLower(s) {
	case "", "message":
		return action.Message, nil
	case "file":
		return action.File, nil
	case "command":
		return action.Command, nil
	case "email":
		return action.Email, nil
	default:
		return 0, fmt.Errorf("Unknown action kind %q", s)
	}
} // func parseActionKind(s string) (action.ID, error)

func formBool(r *http.Request, key string) bool {
	var v, err = strconv.ParseBool(r.PostFormValue(key))
	return err == nil && v
} // func formBool(r *http.Request, key string) bool

func formInt(r *http.Request, key string) int {
	var v, _ = strconv.Atoi(r.PostFormValue(key))
	return v
} // func formInt(r *http.Request, key string) int

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
} // func splitNonEmpty(s, sep string) []string

// eventFromForm synthesizes an Event from a new-alarm request.
func eventFromForm(r *http.Request) (*objects.Event, error) {
	var (
		err  error
		e    = new(objects.Event)
		tstr = r.PostFormValue("time")
	)

	if e.Action, err = parseActionKind(r.PostFormValue("action")); err != nil {
		return nil, err
	} else if e.Time, err = time.Parse(time.RFC3339, tstr); err != nil {
		return nil, fmt.Errorf("Cannot parse time stamp %q: %s",
			tstr,
			err.Error())
	}

	e.UUID = common.GetUUID()
	e.Text = r.PostFormValue("text")
	e.DateOnly = formBool(r, "date_only")
	e.LateCancel = formInt(r, "late_cancel")
	e.Reminder = formInt(r, "reminder")
	e.Enabled = true
	if r.PostFormValue("enabled") != "" {
		e.Enabled = formBool(r, "enabled")
	}
	e.Beep = formBool(r, "beep")
	e.Speak = formBool(r, "speak")
	e.ConfirmAck = formBool(r, "confirm_ack")
	e.AutoClose = formBool(r, "auto_close")
	e.RepeatAtLogin = formBool(r, "login")
	e.CopyToOrganizer = formBool(r, "organizer")
	e.CommandScript = formBool(r, "script")
	e.CommandXterm = formBool(r, "xterm")
	e.Archive = formBool(r, "archive")
	e.BgColor = r.PostFormValue("bg")
	e.FgColor = r.PostFormValue("fg")
	e.AudioFile = r.PostFormValue("audio")
	e.PreAction = r.PostFormValue("pre_action")
	e.PostAction = r.PostFormValue("post_action")
	e.LogFile = r.PostFormValue("log_file")
	e.EmailTo = splitNonEmpty(r.PostFormValue("email_to"), ",")
	e.EmailSubject = r.PostFormValue("email_subject")
	e.EmailFromID = r.PostFormValue("email_from")
	e.EmailAttachments = splitNonEmpty(r.PostFormValue("email_attach"), ",")

	if rule := r.PostFormValue("recur"); rule != "" {
		e.Recur = &objects.Recurrence{
			Start: e.Time,
			Rule:  rule,
		}
	}

	if cnt := formInt(r, "repeat_count"); cnt > 0 {
		e.Repeat = objects.Repetition{
			Interval: time.Second * time.Duration(formInt(r, "repeat_interval")),
			Count:    cnt,
		}
		if e.Repeat.Interval <= 0 {
			return nil, fmt.Errorf("Repetition with count %d needs an interval", cnt)
		}
	}

	return e, nil
} // func eventFromForm(r *http.Request) (*objects.Event, error)

func (eng *Engine) handleAlarmAdd(w http.ResponseWriter, r *http.Request) {
	eng.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err      error
		e        *objects.Event
		fn       = objects.FuncHandle
		response = objects.Response{ID: eng.getID()}
	)

	if err = r.ParseForm(); err != nil {
		eng.log.Printf("[ERROR] Cannot parse form data: %s\n",
			err.Error())
		response.Message = err.Error()
		goto SEND_RESPONSE
	}

	if e, err = eventFromForm(r); err != nil {
		eng.log.Printf("[ERROR] %s\n", err.Error())
		response.Message = err.Error()
		goto SEND_RESPONSE
	}

	switch strings.ToLower(r.PostFormValue("fn")) {
	case "", "handle":
		fn = objects.FuncHandle
	case "trigger":
		fn = objects.FuncTrigger
	case "discard":
		fn = objects.FuncCancel
	default:
		response.Message = fmt.Sprintf("Unknown function %q",
			r.PostFormValue("fn"))
		goto SEND_RESPONSE
	}

	eng.enqueue(&queueEntry{
		event: e,
		fn:    fn,
	})

	response.Message = e.UUID
	response.Status = true

SEND_RESPONSE:
	eng.sendResponseJSON(w, &response)
} // func (eng *Engine) handleAlarmAdd(w http.ResponseWriter, r *http.Request)

// handleAlarmFunc returns a handler that queues the given function for
// an existing Event.
func (eng *Engine) handleAlarmFunc(fn objects.EventFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eng.log.Printf("[TRACE] Handle %s from %s\n",
			r.URL,
			r.RemoteAddr)

		var (
			err      error
			id       int64
			vars     = mux.Vars(r)
			response = objects.Response{ID: eng.getID()}
		)

		if id, err = strconv.ParseInt(vars["id"], 10, 64); err != nil {
			response.Message = fmt.Sprintf("Cannot parse Event ID %q: %s",
				vars["id"],
				err.Error())
			eng.log.Printf("[ERROR] %s\n", response.Message)
			goto SEND_RESPONSE
		}

		eng.enqueue(&queueEntry{
			eventID: id,
			fn:      fn,
		})

		response.Message = fmt.Sprintf("%s of Event %d is queued",
			fn,
			id)
		response.Status = true

	SEND_RESPONSE:
		eng.sendResponseJSON(w, &response)
	}
} // func (eng *Engine) handleAlarmFunc(fn objects.EventFunc) http.HandlerFunc

func (eng *Engine) handleAlarmDefer(w http.ResponseWriter, r *http.Request) {
	eng.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err      error
		id       int64
		deferTo  time.Time
		tstr     string
		vars     = mux.Vars(r)
		response = objects.Response{ID: eng.getID()}
	)

	if err = r.ParseForm(); err != nil {
		response.Message = err.Error()
		goto SEND_RESPONSE
	}

	tstr = r.PostFormValue("time")

	if id, err = strconv.ParseInt(vars["id"], 10, 64); err != nil {
		response.Message = fmt.Sprintf("Cannot parse Event ID %q: %s",
			vars["id"],
			err.Error())
		eng.log.Printf("[ERROR] %s\n", response.Message)
		goto SEND_RESPONSE
	} else if deferTo, err = time.Parse(time.RFC3339, tstr); err != nil {
		response.Message = fmt.Sprintf("Cannot parse time stamp %q: %s",
			tstr,
			err.Error())
		eng.log.Printf("[ERROR] %s\n", response.Message)
		goto SEND_RESPONSE
	}

	eng.enqueue(&queueEntry{
		eventID: id,
		fn:      objects.FuncDefer,
		deferTo: deferTo,
	})

	response.Message = fmt.Sprintf("Event %d is deferred to %s",
		id,
		deferTo.Format("2006-01-02 15:04:05"))
	response.Status = true

SEND_RESPONSE:
	eng.sendResponseJSON(w, &response)
} // func (eng *Engine) handleAlarmDefer(w http.ResponseWriter, r *http.Request)

func (eng *Engine) handleAlarmGetPending(w http.ResponseWriter, r *http.Request) {
	eng.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err      error
		db       *database.Database
		events   []objects.Event
		buf      []byte
		deadline = time.Now().Add(eng.conf.CheckDuration())
	)

	db = eng.pool.Get()
	defer eng.pool.Put(db)

	if events, err = db.EventGetPending(deadline); err != nil {
		eng.log.Printf("[ERROR] Cannot load Events: %s\n",
			err.Error())
	}

	if buf, err = ffjson.Marshal(events); err != nil {
		eng.log.Printf("[ERROR] Cannot serialize Event list: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (eng *Engine) handleAlarmGetPending(w http.ResponseWriter, r *http.Request)

func (eng *Engine) handleAlarmGetAll(w http.ResponseWriter, r *http.Request) {
	eng.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err    error
		db     *database.Database
		events []objects.Event
		buf    []byte
	)

	db = eng.pool.Get()
	defer eng.pool.Put(db)

	if events, err = db.EventGetAll(); err != nil {
		eng.log.Printf("[ERROR] Cannot load Events: %s\n",
			err.Error())
	} else if buf, err = ffjson.Marshal(events); err != nil {
		eng.log.Printf("[ERROR] Cannot serialize Event list: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (eng *Engine) handleAlarmGetAll(w http.ResponseWriter, r *http.Request)

func (eng *Engine) handleAlarmGetArchived(w http.ResponseWriter, r *http.Request) {
	eng.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err    error
		db     *database.Database
		events []objects.Event
		buf    []byte
	)

	db = eng.pool.Get()
	defer eng.pool.Put(db)

	if events, err = db.ArchiveGetAll(); err != nil {
		eng.log.Printf("[ERROR] Cannot load archived Events: %s\n",
			err.Error())
	} else if buf, err = ffjson.Marshal(events); err != nil {
		eng.log.Printf("[ERROR] Cannot serialize Event list: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (eng *Engine) handleAlarmGetArchived(w http.ResponseWriter, r *http.Request)

// handleAlarmExport renders the active calendar as iCalendar.
func (eng *Engine) handleAlarmExport(w http.ResponseWriter, r *http.Request) {
	eng.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err    error
		db     *database.Database
		events []objects.Event
	)

	db = eng.pool.Get()
	defer eng.pool.Put(db)

	if events, err = db.EventGetAll(); err != nil {
		eng.log.Printf("[ERROR] Cannot load Events: %s\n",
			err.Error())
		http.Error(w, err.Error(), 500)
		return
	}

	var cal = ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//blicero//ariadne//EN")

	for idx := range events {
		var (
			e  = &events[idx]
			ev = cal.AddEvent(e.UUID)
		)

		ev.SetDtStampTime(e.Changed)
		if e.DateOnly {
			ev.SetAllDayStartAt(e.Time)
		} else {
			ev.SetStartAt(e.Time)
		}
		ev.SetSummary(e.Text)
		if e.Recurs() {
			ev.AddRrule(e.Recur.Rule)
		}
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.WriteHeader(200)
	w.Write([]byte(cal.Serialize())) // nolint: errcheck
} // func (eng *Engine) handleAlarmExport(w http.ResponseWriter, r *http.Request)

//////////////////////////////////////////////////////////////////////////////////////////////////
/// Helpers //////////////////////////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////////////////////////

func (eng *Engine) sendResponseJSON(w http.ResponseWriter, res *objects.Response) {
	var (
		err error
		buf []byte
	)

	if buf, err = ffjson.Marshal(res); err != nil {
		eng.log.Printf("[ERROR] Cannot serialize Response object %#v: %s\n",
			res,
			err.Error())
		return
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (eng *Engine) sendResponseJSON(w http.ResponseWriter, res *objects.Response)
