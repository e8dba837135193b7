// /home/krylon/go/src/github.com/blicero/ariadne/config/01_config_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-03-14 20:31:44 krylon>

package config

import (
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	var (
		err  error
		conf *Config
		path = filepath.Join(t.TempDir(), "ariadne.yaml")
	)

	if conf, err = Load(path); err != nil {
		t.Fatalf("Cannot load non-existent config: %s", err.Error())
	} else if conf.CheckInterval != Default().CheckInterval {
		t.Errorf("Fresh config has check_interval %d, expected %d",
			conf.CheckInterval,
			Default().CheckInterval)
	}

	// The file should exist now and load back identically.
	if conf, err = Load(path); err != nil {
		t.Fatalf("Cannot re-load config: %s", err.Error())
	} else if conf.Listen == "" || conf.XtermCommand == "" {
		t.Errorf("Re-loaded config is incomplete: %#v", conf)
	}
} // func TestLoadCreatesDefault(t *testing.T)

func TestNormalize(t *testing.T) {
	var conf = &Config{Listen: "localhost:9999"}

	conf.Normalize()

	if conf.Listen != "localhost:9999" {
		t.Errorf("Normalize clobbered Listen: %q", conf.Listen)
	} else if conf.CheckInterval <= 0 {
		t.Errorf("Normalize did not fill in CheckInterval: %d",
			conf.CheckInterval)
	} else if conf.PurgeCron == "" {
		t.Error("Normalize did not fill in PurgeCron")
	}
} // func TestNormalize(t *testing.T)
