// /home/krylon/go/src/github.com/blicero/ariadne/engine/02_command_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 01. 07. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-11 23:41:02 krylon>

package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/action"
	"github.com/blicero/ariadne/objects/role"
	"github.com/blicero/krylib"
)

func TestTempScriptTemplate(t *testing.T) {
	if eng == nil {
		t.SkipNow()
	}

	var (
		err     error
		cmdLine string
		e       = &objects.Event{
			Action:        action.Command,
			Text:          "echo hello",
			CommandScript: true,
			CommandXterm:  true,
			Enabled:       true,
		}
		rec = &ProcRecord{command: e.Text}
	)

	// The default template carries the temp-script marker.
	if cmdLine, err = eng.buildCommandLine(rec, e); err != nil {
		t.Fatalf("Cannot build command line: %s", err.Error())
	} else if rec.flags&procTempFile == 0 {
		t.Error("A scripted command must be materialized as a temp file")
	} else if len(rec.tempFiles) != 1 {
		t.Fatalf("Expected 1 temp file, got %d", len(rec.tempFiles))
	}

	var path = rec.tempFiles[0]

	if !strings.Contains(cmdLine, path) {
		t.Errorf("Command line %q does not contain the script path %q",
			cmdLine,
			path)
	}

	var info os.FileInfo
	if info, err = os.Stat(path); err != nil {
		t.Fatalf("Cannot stat temp script %s: %s", path, err.Error())
	} else if info.Mode().Perm()&0100 == 0 {
		t.Errorf("Temp script %s is not executable (%s)",
			path,
			info.Mode())
	}

	var raw []byte
	if raw, err = os.ReadFile(path); err != nil {
		t.Fatalf("Cannot read temp script %s: %s", path, err.Error())
	} else if !strings.HasPrefix(string(raw), "#!"+shell+"\n") {
		t.Errorf("Temp script is missing its interpreter line:\n%s", raw)
	} else if !strings.Contains(string(raw), "echo hello") {
		t.Errorf("Temp script does not contain the command:\n%s", raw)
	}

	eng.releaseProc(rec)

	var exists bool
	if exists, err = krylib.Fexists(path); err != nil {
		t.Fatalf("Cannot check temp script %s: %s", path, err.Error())
	} else if exists {
		t.Errorf("Temp script %s was not removed on release", path)
	}
} // func TestTempScriptTemplate(t *testing.T)

func TestQuotedCommandMarker(t *testing.T) {
	if eng == nil {
		t.SkipNow()
	}

	var oldTmpl = eng.conf.XtermCommand
	defer func() { eng.conf.XtermCommand = oldTmpl }()
	eng.conf.XtermCommand = "myterm -e %c"

	var (
		err     error
		cmdLine string
		e       = &objects.Event{
			Action:       action.Command,
			Text:         `echo "a b"`,
			CommandXterm: true,
			Enabled:      true,
		}
		rec = &ProcRecord{command: e.Text}
	)

	if cmdLine, err = eng.buildCommandLine(rec, e); err != nil {
		t.Fatalf("Cannot build command line: %s", err.Error())
	}

	var expect = "myterm -e " + shellescape.Quote(e.Text)
	if cmdLine != expect {
		t.Errorf("Unexpected command line:\nGot:      %s\nExpected: %s",
			cmdLine,
			expect)
	} else if len(rec.tempFiles) != 0 {
		t.Errorf("The quoted-literal marker must not create temp files, got %d",
			len(rec.tempFiles))
	}
} // func TestQuotedCommandMarker(t *testing.T)

func awaitCompletion(t *testing.T) procResult {
	t.Helper()

	select {
	case res := <-eng.completions:
		return res
	case <-time.After(time.Second * 10):
		t.Fatal("Timed out waiting for command completion")
		return procResult{}
	}
} // func awaitCompletion(t *testing.T) procResult

func TestCommandRun(t *testing.T) {
	if eng == nil {
		t.SkipNow()
	}

	var (
		e = &objects.Event{
			ID:      4001,
			Action:  action.Command,
			Text:    "echo test",
			Enabled: true,
		}
		a = &objects.Alarm{Role: role.Main, Time: time.Now()}
	)

	eng.runEventCommand(e, a, e.Text, 0)

	eng.pLock.Lock()
	var running = len(eng.procs)
	eng.pLock.Unlock()

	if running != 1 {
		t.Fatalf("Expected 1 running process, got %d", running)
	}

	var res = awaitCompletion(t)

	if res.err != nil {
		t.Errorf("Command failed: %s", res.err.Error())
	}

	eng.commandCompleted(res)

	eng.pLock.Lock()
	running = len(eng.procs)
	eng.pLock.Unlock()

	if running != 0 {
		t.Errorf("Process record was not released, %d still registered",
			running)
	}
} // func TestCommandRun(t *testing.T)

func TestCommandFailure(t *testing.T) {
	if eng == nil {
		t.SkipNow()
	}

	var (
		e = &objects.Event{
			ID:      4002,
			Action:  action.Command,
			Text:    "exit 4",
			Enabled: true,
		}
		a = &objects.Alarm{Role: role.Main, Time: time.Now()}
	)

	disp.lock.Lock()
	var before = len(disp.errors)
	disp.lock.Unlock()

	eng.runEventCommand(e, a, e.Text, 0)

	var res = awaitCompletion(t)

	if res.err == nil {
		t.Error("A non-zero exit should be reported as an error")
	}

	eng.commandCompleted(res)

	disp.lock.Lock()
	defer disp.lock.Unlock()

	if len(disp.errors) != before+1 {
		t.Fatalf("Expected 1 new error report, got %d",
			len(disp.errors)-before)
	}

	var report = disp.errors[len(disp.errors)-1]
	var found bool
	for _, line := range report {
		if strings.Contains(line, "exit 4") {
			found = true
			break
		}
	}

	if !found {
		t.Errorf("The error report does not name the command: %v", report)
	}
} // func TestCommandFailure(t *testing.T)

func TestCommandLog(t *testing.T) {
	if eng == nil {
		t.SkipNow()
	}

	var (
		logPath = filepath.Join(common.BaseDir, "command_test.log")
		e       = &objects.Event{
			ID:      4003,
			Action:  action.Command,
			Text:    "echo logged-output",
			LogFile: logPath,
			Enabled: true,
		}
		a = &objects.Alarm{Role: role.Main, Time: time.Now()}
	)

	eng.runEventCommand(e, a, e.Text, 0)

	var res = awaitCompletion(t)
	eng.commandCompleted(res)

	// The logger process flushes on its own schedule.
	var (
		content []byte
		err     error
	)

	for i := 0; i < 50; i++ {
		if content, err = os.ReadFile(logPath); err == nil &&
			strings.Contains(string(content), "logged-output") {
			break
		}
		time.Sleep(time.Millisecond * 100)
	}

	if err != nil {
		t.Fatalf("Cannot read log file %s: %s", logPath, err.Error())
	}

	var text = string(content)

	if !strings.Contains(text, "******* "+common.AppName) {
		t.Errorf("Log file is missing its banner line:\n%s", text)
	} else if !strings.Contains(text, "logged-output") {
		t.Errorf("Log file is missing the command output:\n%s", text)
	}
} // func TestCommandLog(t *testing.T)

func TestPreActionResumes(t *testing.T) {
	if eng == nil {
		t.SkipNow()
	}

	var (
		now = time.Now()
		e   = &objects.Event{
			ID:        4004,
			Action:    action.Message,
			Text:      "Message with a pre-action",
			Time:      now.Add(-time.Minute),
			PreAction: "true",
			Enabled:   true,
		}
		a = &objects.Alarm{Role: role.Main, Time: e.Time}
	)

	var before = disp.msgCount()

	// The display is deferred until the pre-action has run.
	eng.execAlarm(e, a, false, true, false)

	if disp.msgCount() != before {
		t.Fatal("The message must not be displayed before the pre-action finished")
	}

	var res = awaitCompletion(t)
	eng.commandCompleted(res)

	if disp.msgCount() != before+1 {
		t.Error("The message was not displayed after the pre-action finished")
	}
} // func TestPreActionResumes(t *testing.T)
