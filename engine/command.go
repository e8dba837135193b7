// /home/krylon/go/src/github.com/blicero/ariadne/engine/command.go
// -*- mode: go; coding: utf-8; -*-
// Created on 29. 04. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-11 22:10:46 krylon>

package engine

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/objects"
)

// procFlags describes the context a command process was launched in.
type procFlags uint16

const (
	procPreAction procFlags = 1 << iota
	procPostAction
	procWantPost
	procReschedule
	procAllowDefer
	procXterm
	procTempFile
)

const shell = "/bin/sh"

// ProcRecord tracks one externally launched command tied to an Event
// and one alarm instance. It owns its temp files; they are deleted when
// the record is released, success or failure.
type ProcRecord struct {
	id        int64
	event     *objects.Event
	alarm     objects.Alarm
	command   string // the literal command text, before any substitution
	flags     procFlags
	cmd       *exec.Cmd
	logger    *exec.Cmd
	logInput  io.WriteCloser
	tempFiles []string
}

// procResult is a process exit signal, delivered to the drain goroutine.
type procResult struct {
	rec *ProcRecord
	err error
}

// runEventCommand launches a shell command on behalf of an Event. The
// command is the Event's action, its pre-action, or its post-action,
// depending on the flags.
func (eng *Engine) runEventCommand(e *objects.Event, a *objects.Alarm, cmdText string, flags procFlags) {
	var rec = &ProcRecord{
		id:      eng.getID(),
		event:   e,
		alarm:   *a,
		command: cmdText,
		flags:   flags,
	}

	var (
		err     error
		cmdLine string
	)

	if cmdLine, err = eng.buildCommandLine(rec, e); err != nil {
		// Failing to materialize the script counts as a failed
		// execution, not a fatal condition.
		eng.commandError(rec, err)
		eng.releaseProc(rec)
		return
	}

	eng.doShellCommand(rec, cmdLine)
} // func (eng *Engine) runEventCommand(e *objects.Event, a *objects.Alarm, cmdText string, flags procFlags)

// buildCommandLine turns the literal command text into the line that is
// handed to the shell, materializing temp scripts and applying the
// terminal template as needed. Exactly one template marker is
// substituted per invocation.
func (eng *Engine) buildCommandLine(rec *ProcRecord, e *objects.Event) (string, error) {
	var (
		err  error
		base = rec.command
	)

	var isHook = rec.flags&(procPreAction|procPostAction) != 0

	if e.CommandScript && !isHook {
		if base, err = eng.createTempScript(rec, rec.command, ""); err != nil {
			return "", err
		}
		rec.flags |= procTempFile
	}

	if !e.CommandXterm || isHook {
		return base, nil
	}

	rec.flags |= procXterm

	var (
		tmpl    = eng.conf.XtermCommand
		cmdLine string
	)

	switch {
	case strings.Contains(tmpl, "%C"):
		var path = base
		if rec.flags&procTempFile == 0 {
			if path, err = eng.createTempScript(rec, rec.command, ""); err != nil {
				return "", err
			}
			rec.flags |= procTempFile
		}
		cmdLine = strings.Replace(tmpl, "%C", path, 1)
	case strings.Contains(tmpl, "%W"):
		var path string
		if path, err = eng.createTempScript(rec, rec.command, "\nsleep 86400\n"); err != nil {
			return "", err
		}
		rec.flags |= procTempFile
		cmdLine = strings.Replace(tmpl, "%W", path, 1)
	case strings.Contains(tmpl, "%w"):
		cmdLine = strings.Replace(tmpl, "%w", shellescape.Quote(base)+"; sleep 86400", 1)
	case strings.Contains(tmpl, "%c"):
		cmdLine = strings.Replace(tmpl, "%c", shellescape.Quote(base), 1)
	default:
		cmdLine = tmpl + " " + shellescape.Quote(base)
	}

	return strings.ReplaceAll(cmdLine, "%t", shellescape.Quote(common.AppName)), nil
} // func (eng *Engine) buildCommandLine(rec *ProcRecord, e *objects.Event) (string, error)

// createTempScript writes the command text to an executable file in the
// spool directory. The file is owned by the ProcRecord and removed when
// the record is released.
func (eng *Engine) createTempScript(rec *ProcRecord, text, suffix string) (string, error) {
	var (
		err error
		fh  *os.File
	)

	if fh, err = os.CreateTemp(common.SpoolDir(), "alarm*.sh"); err != nil {
		return "", fmt.Errorf("Cannot create temp script: %s",
			err.Error())
	}

	var body = text
	if !strings.HasPrefix(body, "#!") {
		body = "#!" + shell + "\n" + body
	}
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	body += suffix

	if _, err = fh.WriteString(body); err != nil {
		fh.Close()           // nolint: errcheck
		os.Remove(fh.Name()) // nolint: errcheck
		return "", fmt.Errorf("Cannot write temp script %s: %s",
			fh.Name(),
			err.Error())
	} else if err = fh.Chmod(0700); err != nil {
		fh.Close()           // nolint: errcheck
		os.Remove(fh.Name()) // nolint: errcheck
		return "", fmt.Errorf("Cannot make temp script %s executable: %s",
			fh.Name(),
			err.Error())
	} else if err = fh.Close(); err != nil {
		os.Remove(fh.Name()) // nolint: errcheck
		return "", fmt.Errorf("Cannot close temp script %s: %s",
			fh.Name(),
			err.Error())
	}

	rec.tempFiles = append(rec.tempFiles, fh.Name())
	return fh.Name(), nil
} // func (eng *Engine) createTempScript(rec *ProcRecord, text, suffix string) (string, error)

// doShellCommand starts the process, wiring up the paired logger
// process if the Event asks for output logging. Completion is delivered
// asynchronously to the drain goroutine.
func (eng *Engine) doShellCommand(rec *ProcRecord, cmdLine string) {
	var err error

	eng.log.Printf("[DEBUG] Run command for Event %d: %s\n",
		rec.event.ID,
		cmdLine)

	rec.cmd = exec.Command(shell, "-c", cmdLine)

	if rec.event.LogFile != "" && rec.flags&procXterm == 0 {
		if err = eng.attachLogger(rec); err != nil {
			eng.log.Printf("[ERROR] Cannot attach logger for Event %d: %s\n",
				rec.event.ID,
				err.Error())
			// The command still runs, just without the log.
		}
	}

	if err = rec.cmd.Start(); err != nil {
		eng.commandError(rec, err)
		eng.releaseProc(rec)
		return
	}

	eng.pLock.Lock()
	eng.procs[rec.id] = rec
	eng.pLock.Unlock()

	go func() {
		var werr = rec.cmd.Wait()
		eng.completions <- procResult{rec: rec, err: werr}
	}()
} // func (eng *Engine) doShellCommand(rec *ProcRecord, cmdLine string)

// attachLogger starts the paired logging process (cat appending to the
// Event's log file), writes the banner line, and routes the command's
// combined output into it.
func (eng *Engine) attachLogger(rec *ProcRecord) error {
	var err error

	rec.logger = exec.Command(shell, "-c",
		"cat >> "+shellescape.Quote(rec.event.LogFile))

	if rec.logInput, err = rec.logger.StdinPipe(); err != nil {
		rec.logger = nil
		return err
	} else if err = rec.logger.Start(); err != nil {
		rec.logInput.Close() // nolint: errcheck
		rec.logger = nil
		rec.logInput = nil
		return err
	}

	var banner string
	if rec.alarm.Time.IsZero() {
		banner = fmt.Sprintf("******* %s *******\n", common.AppName)
	} else {
		banner = fmt.Sprintf("******* %s %s *******\n",
			common.AppName,
			rec.alarm.Time.Format(common.TimestampFormat))
	}

	if _, err = io.WriteString(rec.logInput, banner); err != nil {
		eng.log.Printf("[ERROR] Cannot write log banner: %s\n",
			err.Error())
	}

	rec.cmd.Stdout = rec.logInput
	rec.cmd.Stderr = rec.logInput
	return nil
} // func (eng *Engine) attachLogger(rec *ProcRecord) error

// commandCompleted consumes a process exit signal. It runs on the drain
// goroutine, so any calendar mutation it triggers is serialized with
// the rest of the queue.
func (eng *Engine) commandCompleted(res procResult) {
	var rec = res.rec

	if rec.logInput != nil {
		// Tell the logger to flush and close; it winds down on its
		// own completion.
		rec.logInput.Close() // nolint: errcheck
		rec.logInput = nil
		go rec.logger.Wait() // nolint: errcheck
	}

	if res.err != nil {
		eng.commandError(rec, res.err)
	}

	switch {
	case rec.flags&procPreAction != 0:
		// A failed pre-action does not block the alarm itself.
		eng.execAlarm(rec.event,
			&rec.alarm,
			rec.flags&procReschedule != 0,
			rec.flags&procAllowDefer != 0,
			true)
	case rec.flags&procWantPost != 0 && res.err == nil:
		eng.alarmCompleted(rec.event, &rec.alarm)
	}

	eng.releaseProc(rec)
} // func (eng *Engine) commandCompleted(res procResult)

// commandError reports a failed or abnormally exited command via the
// message surface.
func (eng *Engine) commandError(rec *ProcRecord, err error) {
	var msgs = make([]string, 0, 3)

	switch {
	case rec.flags&procPreAction != 0:
		msgs = append(msgs, "Pre-alarm action:")
	case rec.flags&procPostAction != 0:
		msgs = append(msgs, "Post-alarm action:")
	}

	msgs = append(msgs, err.Error())

	if rec.flags&procTempFile == 0 {
		msgs = append(msgs, rec.command)
	}

	eng.log.Printf("[ERROR] Command for Event %d failed: %s\n",
		rec.event.ID,
		strings.Join(msgs, " "))

	if derr := eng.disp.ShowError(rec.event, msgs); derr != nil {
		eng.log.Printf("[ERROR] Cannot display error message: %s\n",
			derr.Error())
	}
} // func (eng *Engine) commandError(rec *ProcRecord, err error)

// releaseProc destroys a ProcRecord, deleting its temp files
// unconditionally.
func (eng *Engine) releaseProc(rec *ProcRecord) {
	for _, path := range rec.tempFiles {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			eng.log.Printf("[ERROR] Cannot remove temp file %s: %s\n",
				path,
				err.Error())
		}
	}
	rec.tempFiles = nil

	eng.pLock.Lock()
	delete(eng.procs, rec.id)
	eng.pLock.Unlock()
} // func (eng *Engine) releaseProc(rec *ProcRecord)

// abandonProcesses kills any still-running commands. Used on forced
// shutdown only.
func (eng *Engine) abandonProcesses() {
	eng.pLock.Lock()
	defer eng.pLock.Unlock()

	for id, rec := range eng.procs {
		if rec.cmd != nil && rec.cmd.Process != nil {
			eng.log.Printf("[INFO] Killing command process %d (Event %d)\n",
				id,
				rec.event.ID)
			rec.cmd.Process.Kill() // nolint: errcheck
		}

		for _, path := range rec.tempFiles {
			os.Remove(path) // nolint: errcheck
		}
		rec.tempFiles = nil
		delete(eng.procs, id)
	}
} // func (eng *Engine) abandonProcesses()
