// /home/krylon/go/src/github.com/blicero/ariadne/engine/engine.go
// -*- mode: go; coding: utf-8; -*-
// Created on 02. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-11 20:01:33 krylon>

// Package engine implements the alarm evaluation and execution engine,
// the part of the application that decides when an alarm fires, fires
// it, and keeps the calendar store in sync afterwards.
package engine

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/config"
	"github.com/blicero/ariadne/database"
	"github.com/blicero/ariadne/engine/shutstate"
	"github.com/blicero/ariadne/logdomain"
	"github.com/gorilla/mux"
	"github.com/grandcat/zeroconf"
	"github.com/robfig/cron/v3"
)

const (
	wakeupDepth    = 1
	completionCap  = 8
	banishTimeout  = time.Second * 5
	webShutTimeout = time.Second * 3
)

// Engine is the centerpiece of the daemon. It owns the work queue, the
// running command processes, and the collaborators alarms are delivered
// through. All calendar mutation funnels through its drain goroutine,
// so at most one calendar-mutating operation is ever active.
type Engine struct {
	log          *log.Logger
	conf         *config.Config
	pool         *database.Pool
	disp         Display
	mailer       Mailer
	web          http.Server
	router       *mux.Router
	dnssd        *zeroconf.Server
	cron         *cron.Cron
	hostname     string
	sessionStart time.Time

	sLock sync.RWMutex
	state shutstate.ID
	done  chan struct{}

	qLock        sync.Mutex
	queue        []*queueEntry
	draining     bool
	purgePending bool
	wakeup       chan struct{}
	completions  chan procResult

	pLock sync.Mutex
	procs map[int64]*ProcRecord

	idLock sync.Mutex
	idCnt  int64
}

// Summon summons an Engine and returns it. No sacrifice or idolatry is
// required.
func Summon(conf *config.Config) (*Engine, error) {
	var (
		err error
		eng = &Engine{
			conf:         conf,
			sessionStart: time.Now(),
			router:       mux.NewRouter(),
			done:         make(chan struct{}),
			wakeup:       make(chan struct{}, wakeupDepth),
			completions:  make(chan procResult, completionCap),
			procs:        make(map[int64]*ProcRecord),
			queue:        make([]*queueEntry, 0, 8),
		}
	)

	if eng.log, err = common.GetLogger(logdomain.Engine); err != nil {
		fmt.Printf("ERROR initializing Logger: %s\n",
			err.Error())
		return nil, err
	} else if eng.pool, err = database.NewPool(4); err != nil {
		eng.log.Printf("[ERROR] Cannot initialize database pool: %s\n",
			err.Error())
		return nil, err
	} else if eng.disp, err = newNotifier(); err != nil {
		eng.log.Printf("[ERROR] Cannot connect to the notification service: %s\n",
			err.Error())
		return nil, err
	} else if eng.mailer, err = newMailer(&conf.Mail); err != nil {
		eng.log.Printf("[ERROR] Cannot initialize mailer: %s\n",
			err.Error())
		return nil, err
	} else if eng.hostname, err = os.Hostname(); err != nil {
		eng.log.Printf("[ERROR] Cannot query hostname: %s\n",
			err.Error())
		return nil, err
	}

	eng.web.Addr = conf.Listen
	eng.web.ErrorLog = eng.log
	eng.web.Handler = eng.router

	if err = eng.initWebHandlers(); err != nil {
		eng.log.Printf("[ERROR] Failed to initialize web server: %s\n",
			err.Error())
		return nil, err
	} else if err = eng.initDNSSd(); err != nil {
		eng.log.Printf("[ERROR] Failed to announce service via DNS-SD: %s\n",
			err.Error())
		return nil, err
	}

	eng.cron = cron.New()
	if _, err = eng.cron.AddFunc(conf.PurgeCron, eng.requestPurge); err != nil {
		eng.log.Printf("[ERROR] Cannot schedule archive purge (%q): %s\n",
			conf.PurgeCron,
			err.Error())
		return nil, err
	}
	eng.cron.Start()

	go eng.drainLoop()
	go eng.serveHTTP()

	return eng, nil
} // func Summon(conf *config.Config) (*Engine, error)

// State returns the Engine's current lifecycle state.
func (eng *Engine) State() shutstate.ID {
	eng.sLock.RLock()
	var s = eng.state
	eng.sLock.RUnlock()

	return s
} // func (eng *Engine) State() shutstate.ID

func (eng *Engine) setState(s shutstate.ID) {
	eng.sLock.Lock()
	if s != eng.state {
		eng.log.Printf("[DEBUG] Engine state %s -> %s\n",
			eng.state,
			s)
		eng.state = s
	}
	eng.sLock.Unlock()
} // func (eng *Engine) setState(s shutstate.ID)

// IsAlive returns true until the Engine has terminated.
func (eng *Engine) IsAlive() bool {
	return eng.State() != shutstate.Terminated
} // func (eng *Engine) IsAlive() bool

// Banish asks the Engine to shut down and waits for it to do so. The
// shutdown is deferred while queue entries or command processes are
// still outstanding, unless force is given, in which case all open
// message windows are closed and running commands are abandoned.
func (eng *Engine) Banish(force bool) error {
	if eng.State() == shutstate.Terminated {
		return nil
	}

	if force {
		eng.disp.CloseAll()
		eng.abandonProcesses()
	}

	eng.setState(shutstate.ShutdownRequested)
	eng.poke()

	select {
	case <-eng.done:
		return nil
	case <-time.After(banishTimeout):
		return fmt.Errorf("Engine did not shut down within %s",
			banishTimeout)
	}
} // func (eng *Engine) Banish(force bool) error

// checkShutdown evaluates a pending shutdown request. It runs on the
// drain goroutine only.
func (eng *Engine) checkShutdown() {
	switch eng.State() {
	case shutstate.Running, shutstate.Terminated:
		return
	}

	eng.qLock.Lock()
	var queued = len(eng.queue)
	eng.qLock.Unlock()

	eng.pLock.Lock()
	var running = len(eng.procs)
	eng.pLock.Unlock()

	if queued > 0 {
		eng.setState(shutstate.WaitingOnQueue)
		return
	} else if running > 0 {
		eng.setState(shutstate.WaitingOnProcesses)
		return
	}

	eng.terminate()
} // func (eng *Engine) checkShutdown()

func (eng *Engine) terminate() {
	var (
		err         error
		ctx, cancel = context.WithTimeout(context.Background(), webShutTimeout)
	)
	defer cancel()

	if eng.cron != nil {
		eng.cron.Stop()
	}

	if eng.dnssd != nil {
		eng.dnssd.Shutdown()
	}

	if err = eng.web.Shutdown(ctx); err != nil {
		eng.log.Printf("[ERROR] Failed to shut down web server: %s\n",
			err.Error())
		eng.web.Close() // nolint: errcheck
	}

	if eng.pool != nil {
		if err = eng.pool.Close(); err != nil {
			eng.log.Printf("[ERROR] Failed to close database pool: %s\n",
				err.Error())
		}
	}

	eng.setState(shutstate.Terminated)
	close(eng.done)
} // func (eng *Engine) terminate()

// fatalError forces a shutdown after an unrecoverable error, telling
// the user what happened first.
func (eng *Engine) fatalError(msg string) {
	eng.log.Printf("[CRITICAL] %s\n", msg)
	eng.disp.ShowError(nil, []string{msg}) // nolint: errcheck
	eng.setState(shutstate.ShutdownRequested)
	eng.poke()
} // func (eng *Engine) fatalError(msg string)

func (eng *Engine) serveHTTP() {
	var err error

	defer eng.log.Println("[INFO] Web server is shutting down")

	eng.log.Printf("[INFO] Web interface is going online at %s\n", eng.web.Addr)

	if err = eng.web.ListenAndServe(); err != nil {
		if err != http.ErrServerClosed {
			eng.log.Printf("[ERROR] ListenAndServe returned an error: %s\n",
				err.Error())
		} else {
			eng.log.Println("[INFO] HTTP Server has shut down.")
		}
	}
} // func (eng *Engine) serveHTTP()

func (eng *Engine) getID() int64 {
	eng.idLock.Lock()
	eng.idCnt++
	var id = eng.idCnt
	eng.idLock.Unlock()
	return id
} // func (eng *Engine) getID() int64
