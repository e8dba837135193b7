// /home/krylon/go/src/github.com/blicero/ariadne/clients/sendalarm/01_conv_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 10. 06. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-12 18:51:46 krylon>

package main

import (
	"testing"
	"time"
)

func TestConvWakeTime(t *testing.T) {
	var now = time.Date(2023, 7, 12, 9, 30, 0, 0, time.UTC)

	type testCase struct {
		input    string
		expected time.Time
		dateOnly bool
		invalid  bool
	}

	var cases = []testCase{
		{
			input:    "14:45",
			expected: time.Date(2023, 7, 12, 14, 45, 0, 0, time.UTC),
		},
		{
			input:    "15-14:45",
			expected: time.Date(2023, 7, 15, 14, 45, 0, 0, time.UTC),
		},
		{
			input:    "8-15-14:45",
			expected: time.Date(2023, 8, 15, 14, 45, 0, 0, time.UTC),
		},
		{
			input:    "2024-8-15-14:45",
			expected: time.Date(2024, 8, 15, 14, 45, 0, 0, time.UTC),
		},
		{
			input:    "2024-08-15",
			expected: time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
			dateOnly: true,
		},
		{
			input:   "25:00",
			invalid: true,
		},
		{
			input:   "Wednesday",
			invalid: true,
		},
	}

	for _, c := range cases {
		var stamp, dateOnly, err = convWakeTime(c.input, now)

		if c.invalid {
			if err == nil {
				t.Errorf("Input %q should have been rejected, got %s",
					c.input,
					stamp)
			}
			continue
		}

		if err != nil {
			t.Errorf("Cannot parse %q: %s",
				c.input,
				err.Error())
		} else if !stamp.Equal(c.expected) {
			t.Errorf("Input %q yields %s (expected %s)",
				c.input,
				stamp,
				c.expected)
		} else if dateOnly != c.dateOnly {
			t.Errorf("Input %q: dateOnly is %t (expected %t)",
				c.input,
				dateOnly,
				c.dateOnly)
		}
	}
} // func TestConvWakeTime(t *testing.T)

func TestConvInterval(t *testing.T) {
	type testCase struct {
		input    string
		expected int
		invalid  bool
	}

	var cases = []testCase{
		{input: "10", expected: 10},
		{input: "10m", expected: 10},
		{input: "2h", expected: 120},
		{input: "3d", expected: 4320},
		{input: "1w", expected: 10080},
		{input: "1Y", expected: 525600},
		{input: "m10", invalid: true},
		{input: "10x", invalid: true},
		{input: "", invalid: true},
	}

	for _, c := range cases {
		var minutes, err = convInterval(c.input)

		if c.invalid {
			if err == nil {
				t.Errorf("Input %q should have been rejected, got %d",
					c.input,
					minutes)
			}
			continue
		}

		if err != nil {
			t.Errorf("Cannot parse %q: %s",
				c.input,
				err.Error())
		} else if minutes != c.expected {
			t.Errorf("Input %q yields %d minutes (expected %d)",
				c.input,
				minutes,
				c.expected)
		}
	}
} // func TestConvInterval(t *testing.T)
