// /home/krylon/go/src/github.com/blicero/ariadne/clients/sendalarm/main.go
// -*- mode: go; coding: utf-8; -*-
// Created on 10. 06. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-12 19:44:21 krylon>

// sendalarm is the command line client for scheduling and manipulating
// alarms on a running daemon.
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/blicero/ariadne/clients/clientlib"
	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/objects"
)

func main() {
	var (
		err      error
		c        *clientlib.Client
		srv      string
		wake     string
		kind     string
		late     string
		reminder string
		recur    string
		repCnt   int
		repIvl   string
		handleID int64
		fireID   int64
		cancelID int64
		deferID  int64
		values   = make(url.Values)
	)

	flag.StringVar(&srv, "server", fmt.Sprintf("localhost:%d", common.DefaultPort), "Address of the daemon")
	flag.StringVar(&wake, "time", "", "When the alarm is due: [[[yyyy-]mm-]dd-]hh:mm, or yyyy-mm-dd for a date-only alarm")
	flag.StringVar(&kind, "action", "message", "What the alarm does: message, file, command, or email")
	flag.StringVar(&late, "late", "", "Cancel the alarm if it cannot fire within this interval of its due time")
	flag.StringVar(&reminder, "reminder", "", "Display a reminder this long before the alarm itself")
	flag.StringVar(&recur, "recur", "", "Recurrence rule (RFC 5545 RRULE)")
	flag.IntVar(&repCnt, "repeat-count", 0, "Number of simple repetitions after the main occurrence")
	flag.StringVar(&repIvl, "repeat-interval", "", "Interval between simple repetitions")

	var (
		text     = flag.String("text", "", "The message text, file path, command line, or email body")
		beep     = flag.Bool("beep", false, "Beep when displaying the message")
		ack      = flag.Bool("ack", false, "Require the message to be acknowledged")
		script   = flag.Bool("script", false, "The command is a script to execute")
		xterm    = flag.Bool("xterm", false, "Run the command in a terminal window")
		login    = flag.Bool("login", false, "Repeat the alarm at every login")
		archive  = flag.Bool("archive", false, "Archive the alarm when it expires")
		disabled = flag.Bool("disabled", false, "Create the alarm in disabled state")
		audio    = flag.String("audio", "", "Audio file to play with the message")
		logFile  = flag.String("log", "", "Log the command's output to this file")
		preCmd   = flag.String("pre", "", "Command to run before the first display of the alarm")
		postCmd  = flag.String("post", "", "Command to run after the alarm's final window is closed")
		mailTo   = flag.String("mailto", "", "Email recipients, separated by commas")
		mailSubj = flag.String("subject", "", "Email subject")
		trigger  = flag.Bool("now", false, "Fire the alarm immediately, regardless of its due time")
	)

	flag.Int64Var(&handleID, "handle", 0, "Evaluate the alarm with the given ID")
	flag.Int64Var(&fireID, "fire", 0, "Fire the alarm with the given ID immediately")
	flag.Int64Var(&cancelID, "cancel", 0, "Cancel the alarm with the given ID")
	flag.Int64Var(&deferID, "defer", 0, "Defer the alarm with the given ID (requires -time)")

	flag.Parse()

	if c, err = clientlib.NewClient(srv); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot create client for %s: %s\n",
			srv,
			err.Error())
		os.Exit(1)
	}

	switch {
	case handleID != 0:
		err = c.RequestFunc(handleID, objects.FuncHandle)
	case fireID != 0:
		err = c.RequestFunc(fireID, objects.FuncTrigger)
	case cancelID != 0:
		err = c.RequestFunc(cancelID, objects.FuncCancel)
	case deferID != 0:
		var stamp time.Time
		if stamp, _, err = convWakeTime(wake, time.Now()); err != nil {
			fmt.Fprintf(
				os.Stderr,
				"Deferring an alarm requires a valid -time: %s\n",
				err.Error())
			os.Exit(1)
		}
		err = c.DeferAlarm(deferID, stamp)
	default:
		var (
			stamp    time.Time
			dateOnly bool
			uuid     string
		)

		if stamp, dateOnly, err = convWakeTime(wake, time.Now()); err != nil {
			fmt.Fprintf(
				os.Stderr,
				"Invalid wake-up time: %s\n",
				err.Error())
			os.Exit(1)
		}

		values.Set("time", stamp.Format(time.RFC3339))
		values.Set("action", kind)
		values.Set("text", *text)
		if dateOnly {
			values.Set("date_only", "true")
		}

		if late != "" {
			var minutes int
			if minutes, err = convInterval(late); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid -late interval: %s\n", err.Error())
				os.Exit(1)
			}
			values.Set("late_cancel", strconv.Itoa(minutes))
		}

		if reminder != "" {
			var minutes int
			if minutes, err = convInterval(reminder); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid -reminder interval: %s\n", err.Error())
				os.Exit(1)
			}
			values.Set("reminder", strconv.Itoa(minutes))
		}

		if recur != "" {
			values.Set("recur", recur)
		}

		if repCnt > 0 {
			var minutes int
			if minutes, err = convInterval(repIvl); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid -repeat-interval: %s\n", err.Error())
				os.Exit(1)
			}
			values.Set("repeat_count", strconv.Itoa(repCnt))
			values.Set("repeat_interval", strconv.Itoa(minutes*60))
		}

		if *beep {
			values.Set("beep", "true")
		}
		if *ack {
			values.Set("confirm_ack", "true")
		}
		if *script {
			values.Set("script", "true")
		}
		if *xterm {
			values.Set("xterm", "true")
		}
		if *login {
			values.Set("login", "true")
		}
		if *archive {
			values.Set("archive", "true")
		}
		if *disabled {
			values.Set("enabled", "false")
		}
		if *audio != "" {
			values.Set("audio", *audio)
		}
		if *logFile != "" {
			values.Set("log_file", *logFile)
		}
		if *preCmd != "" {
			values.Set("pre_action", *preCmd)
		}
		if *postCmd != "" {
			values.Set("post_action", *postCmd)
		}
		if *mailTo != "" {
			values.Set("email_to", *mailTo)
		}
		if *mailSubj != "" {
			values.Set("email_subject", *mailSubj)
		}
		if *trigger {
			values.Set("fn", "trigger")
		}

		var format = common.TimestampFormatMinute
		if dateOnly {
			format = common.TimestampFormatDate
		}

		if uuid, err = c.SubmitAlarm(values); err == nil {
			fmt.Printf("Alarm %s is scheduled for %s\n",
				uuid,
				stamp.Format(format))
		}
	}

	if err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Request failed: %s\n",
			err.Error())
		os.Exit(1)
	}
} // func main()
