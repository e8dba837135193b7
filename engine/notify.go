// /home/krylon/go/src/github.com/blicero/ariadne/engine/notify.go
// -*- mode: go; coding: utf-8; -*-
// Created on 06. 05. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-11 22:31:17 krylon>

package engine

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/logdomain"
	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/role"
	"github.com/godbus/dbus/v5"
)

const (
	notifyObj    = "org.freedesktop.Notifications"
	notifyIntf   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"
	closeMethod  = "org.freedesktop.Notifications.CloseNotification"
	closedSignal = "org.freedesktop.Notifications.NotificationClosed"
)

// Display is the surface alarms are presented on.
type Display interface {
	ShowMessage(e *objects.Event, a *objects.Alarm, allowDefer bool) error
	ShowError(e *objects.Event, msgs []string) error
	FindWindow(eventID int64) DisplayWindow
	CloseAll()
}

// DisplayWindow is one open alarm presentation.
type DisplayWindow interface {
	Role() role.ID
	CanDefer() bool
	LoginRepeat() bool
	Repeat(a objects.Alarm) error
	Close() error
}

// notifier delivers alarms as desktop notifications via DBus.
type notifier struct {
	log  *log.Logger
	bus  *dbus.Conn
	lock sync.Mutex

	// windows tracks open alarm notifications by Event ID, errOpen the
	// open error notices. An error notice that is still open suppresses
	// duplicates for the same Event.
	windows map[int64]*notifyWindow
	errOpen map[int64]uint32
}

// notifyWindow is one open notification.
type notifyWindow struct {
	n        *notifier
	event    *objects.Event
	notifyID uint32
	role     role.ID
	canDefer bool
	loginRep bool
}

func newNotifier() (*notifier, error) {
	var (
		err error
		n   = &notifier{
			windows: make(map[int64]*notifyWindow),
			errOpen: make(map[int64]uint32),
		}
	)

	if n.log, err = common.GetLogger(logdomain.Notify); err != nil {
		return nil, err
	} else if n.bus, err = dbus.SessionBus(); err != nil {
		n.log.Printf("[ERROR] Failed to connect to DBus session bus: %s\n",
			err.Error())
		return nil, err
	}

	if err = n.bus.AddMatchSignal(
		dbus.WithMatchObjectPath(notifyPath),
		dbus.WithMatchInterface(notifyIntf),
		dbus.WithMatchMember("NotificationClosed")); err != nil {
		n.log.Printf("[ERROR] Cannot subscribe to NotificationClosed: %s\n",
			err.Error())
		return nil, err
	}

	var sigq = make(chan *dbus.Signal, 16)
	n.bus.Signal(sigq)
	go n.signalLoop(sigq)

	return n, nil
} // func newNotifier() (*notifier, error)

// signalLoop watches for closed notifications so that stale window
// handles and error-duplicate guards go away with them.
func (n *notifier) signalLoop(queue <-chan *dbus.Signal) {
	for sig := range queue {
		if sig.Name != closedSignal || len(sig.Body) < 1 {
			continue
		}

		var id, ok = sig.Body[0].(uint32)
		if !ok {
			continue
		}

		n.lock.Lock()
		for evID, win := range n.windows {
			if win.notifyID == id {
				delete(n.windows, evID)
				break
			}
		}
		for evID, errID := range n.errOpen {
			if errID == id {
				delete(n.errOpen, evID)
				break
			}
		}
		n.lock.Unlock()
	}
} // func (n *notifier) signalLoop(queue <-chan *dbus.Signal)

// post sends one notification, returning the ID assigned by the server.
// replaces reuses an existing notification's screen estate.
func (n *notifier) post(summary, body string, replaces uint32, urgency byte, expire int32) (uint32, error) {
	var obj = n.bus.Object(notifyObj, notifyPath)

	if obj == nil {
		return 0, fmt.Errorf("Did not find object %s (%s) on session bus",
			notifyObj,
			notifyPath)
	}

	var res = obj.Call(
		notifyMethod,
		0,
		common.AppName,
		replaces,
		"",
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(urgency),
		},
		expire,
	)

	if res.Err != nil {
		return 0, res.Err
	}

	var id uint32
	if err := res.Store(&id); err != nil {
		return 0, err
	}

	return id, nil
} // func (n *notifier) post(summary, body string, replaces uint32, urgency byte, expire int32) (uint32, error)

func messagePayload(e *objects.Event, a *objects.Alarm) (string, string) {
	var summary = common.AppName

	if a.Role == role.Reminder {
		summary = fmt.Sprintf("%s (Reminder)", common.AppName)
	}

	return summary, e.Text
} // func messagePayload(e *objects.Event, a *objects.Alarm) (string, string)

// ShowMessage displays an alarm message. File alarms show the file
// path; rendering the file itself is the desktop's business.
func (n *notifier) ShowMessage(e *objects.Event, a *objects.Alarm, allowDefer bool) error {
	var (
		err          error
		id, replaces uint32
		urgency      byte  = 1
		expire       int32 = 0
	)

	if e.ConfirmAck {
		urgency = 2
	}
	if e.AutoClose {
		expire = -1
	}

	n.lock.Lock()
	if old, ok := n.windows[e.ID]; ok {
		replaces = old.notifyID
	}
	n.lock.Unlock()

	var summary, body = messagePayload(e, a)

	if id, err = n.post(summary, body, replaces, urgency, expire); err != nil {
		n.log.Printf("[ERROR] Cannot post notification for Event %d: %s\n",
			e.ID,
			err.Error())
		return err
	}

	n.lock.Lock()
	n.windows[e.ID] = &notifyWindow{
		n:        n,
		event:    e,
		notifyID: id,
		role:     a.Role,
		canDefer: allowDefer,
		loginRep: a.Role == role.AtLogin,
	}
	n.lock.Unlock()

	n.log.Printf("[DEBUG] Displayed Event %d (%q) as notification %d\n",
		e.ID,
		e.Text,
		id)

	return nil
} // func (n *notifier) ShowMessage(e *objects.Event, a *objects.Alarm, allowDefer bool) error

// ShowError displays an error notice. While a notice for the same Event
// is still open, further ones are swallowed.
func (n *notifier) ShowError(e *objects.Event, msgs []string) error {
	var key int64
	if e != nil {
		key = e.ID
	}

	n.lock.Lock()
	var _, open = n.errOpen[key]
	n.lock.Unlock()

	if open {
		return nil
	}

	var id, err = n.post(
		fmt.Sprintf("%s - Error", common.AppName),
		strings.Join(msgs, "\n"),
		0,
		2,
		0)
	if err != nil {
		n.log.Printf("[ERROR] Cannot post error notification: %s\n",
			err.Error())
		return err
	}

	n.lock.Lock()
	n.errOpen[key] = id
	n.lock.Unlock()

	return nil
} // func (n *notifier) ShowError(e *objects.Event, msgs []string) error

// FindWindow returns the open notification for the given Event, or nil.
func (n *notifier) FindWindow(eventID int64) DisplayWindow {
	n.lock.Lock()
	defer n.lock.Unlock()

	if win, ok := n.windows[eventID]; ok {
		return win
	}

	return nil
} // func (n *notifier) FindWindow(eventID int64) DisplayWindow

// CloseAll closes all open notifications.
func (n *notifier) CloseAll() {
	n.lock.Lock()
	var wins = make([]*notifyWindow, 0, len(n.windows))
	for _, win := range n.windows {
		wins = append(wins, win)
	}
	n.lock.Unlock()

	for _, win := range wins {
		win.Close() // nolint: errcheck
	}
} // func (n *notifier) CloseAll()

func (w *notifyWindow) Role() role.ID     { return w.role }
func (w *notifyWindow) CanDefer() bool    { return w.canDefer }
func (w *notifyWindow) LoginRepeat() bool { return w.loginRep }

// Repeat replays the window's alert for a fresh alarm instance.
func (w *notifyWindow) Repeat(a objects.Alarm) error {
	var summary, body = messagePayload(w.event, &a)

	var id, err = w.n.post(summary, body, w.notifyID, 1, 0)
	if err != nil {
		return err
	}

	w.n.lock.Lock()
	w.notifyID = id
	w.role = a.Role
	w.n.lock.Unlock()

	return nil
} // func (w *notifyWindow) Repeat(a objects.Alarm) error

// Close dismisses the notification.
func (w *notifyWindow) Close() error {
	var obj = w.n.bus.Object(notifyObj, notifyPath)

	if res := obj.Call(closeMethod, 0, w.notifyID); res.Err != nil {
		return res.Err
	}

	w.n.lock.Lock()
	delete(w.n.windows, w.event.ID)
	w.n.lock.Unlock()

	return nil
} // func (w *notifyWindow) Close() error
