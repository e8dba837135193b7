// /home/krylon/go/src/github.com/blicero/ariadne/clients/sendalarm/conv.go
// -*- mode: go; coding: utf-8; -*-
// Created on 10. 06. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-12 18:40:19 krylon>

package main

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	wakePat = regexp.MustCompile(`^(?:(?:(?:(\d{4})-)?(\d{1,2})-)?(\d{1,2})-)?(\d{1,2}):(\d{2})$`)
	datePat = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	intPat  = regexp.MustCompile(`^(\d+)([mhdwY]?)$`)
)

// convWakeTime parses a point in time given as [[[yyyy-]mm-]dd-]hh:mm,
// omitted date fields default to today, or as yyyy-mm-dd for a
// date-only alarm.
func convWakeTime(s string, now time.Time) (time.Time, bool, error) {
	var match []string

	if match = datePat.FindStringSubmatch(s); match != nil {
		var (
			year, _  = strconv.Atoi(match[1])
			month, _ = strconv.Atoi(match[2])
			day, _   = strconv.Atoi(match[3])
		)

		var t = time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
		return t, true, nil
	}

	if match = wakePat.FindStringSubmatch(s); match == nil {
		return time.Time{}, false, fmt.Errorf("Cannot parse time %q, expected [[[yyyy-]mm-]dd-]hh:mm or yyyy-mm-dd",
			s)
	}

	var (
		year  = now.Year()
		month = int(now.Month())
		day   = now.Day()
	)

	if match[1] != "" {
		year, _ = strconv.Atoi(match[1])
	}
	if match[2] != "" {
		month, _ = strconv.Atoi(match[2])
	}
	if match[3] != "" {
		day, _ = strconv.Atoi(match[3])
	}

	var (
		hour, _   = strconv.Atoi(match[4])
		minute, _ = strconv.Atoi(match[5])
	)

	if hour > 23 || minute > 59 {
		return time.Time{}, false, fmt.Errorf("Invalid time of day %02d:%02d",
			hour,
			minute)
	}

	var t = time.Date(year, time.Month(month), day, hour, minute, 0, 0, now.Location())
	return t, false, nil
} // func convWakeTime(s string, now time.Time) (time.Time, bool, error)

// convInterval parses an interval given as <n>[mhdwY] and returns its
// length in minutes. Without a suffix, the number is taken as minutes.
func convInterval(s string) (int, error) {
	var match []string

	if match = intPat.FindStringSubmatch(s); match == nil {
		return 0, fmt.Errorf("Cannot parse interval %q, expected <n>[mhdwY]",
			s)
	}

	var n, _ = strconv.Atoi(match[1])

	switch match[2] {
	case "", "m":
		return n, nil
	case "h":
		return n * 60, nil
	case "d":
		return n * 1440, nil
	case "w":
		return n * 10080, nil
	case "Y":
		return n * 525600, nil
	default:
		return 0, fmt.Errorf("Invalid interval unit %q", match[2])
	}
} // func convInterval(s string) (int, error)
