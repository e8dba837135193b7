// /home/krylon/go/src/github.com/blicero/ariadne/config/config.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-20 18:47:12 krylon>

// Package config deals with the application's configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/krylib"
	"gopkg.in/yaml.v3"
)

// MailConfig holds the settings for sending alarms by email.
type MailConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Config is the application's runtime configuration.
type Config struct {
	// Listen is the address the HTTP interface binds to.
	Listen string `yaml:"listen"`

	// CheckInterval is the interval (in seconds) at which the daemon
	// scans the calendar for due alarms. It feeds into the lateness
	// window for late-cancel alarms.
	CheckInterval int `yaml:"check_interval"`

	// KeepDays is the number of days archived alarms are retained.
	KeepDays int `yaml:"keep_days"`

	// PurgeCron is a cron-style schedule for purging the archive.
	PurgeCron string `yaml:"purge"`

	// XtermCommand is the template used to run command alarms inside a
	// terminal window. %c is replaced by the quoted command, %C by the
	// path of a temporary script, %W by a script with a trailing sleep,
	// %w by the quoted command with a trailing sleep, %t by the
	// application name.
	XtermCommand string `yaml:"xterm_command"`

	Mail MailConfig `yaml:"mail"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Listen:        fmt.Sprintf("localhost:%d", common.DefaultPort),
		CheckInterval: 60,
		KeepDays:      30,
		PurgeCron:     "@midnight",
		XtermCommand:  "xterm -T %t -e %C",
	}
} // func Default() *Config

// Normalize fills in missing values so that a partially filled
// configuration still behaves sensibly.
func (c *Config) Normalize() {
	var def = Default()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = def.CheckInterval
	}
	if c.KeepDays <= 0 {
		c.KeepDays = def.KeepDays
	}
	if c.PurgeCron == "" {
		c.PurgeCron = def.PurgeCron
	}
	if c.XtermCommand == "" {
		c.XtermCommand = def.XtermCommand
	}
} // func (c *Config) Normalize()

// CheckDuration returns the daemon's check interval as a time.Duration.
func (c *Config) CheckDuration() time.Duration {
	return time.Second * time.Duration(c.CheckInterval)
} // func (c *Config) CheckDuration() time.Duration

// Load reads the configuration from the given path. If the file does not
// exist, the default configuration is written there and returned.
func Load(path string) (*Config, error) {
	var (
		err    error
		exists bool
		buf    []byte
		conf   = new(Config)
	)

	if exists, err = krylib.Fexists(path); err != nil {
		return nil, err
	} else if !exists {
		conf = Default()
		if err = conf.Dump(path); err != nil {
			return nil, err
		}
		return conf, nil
	}

	if buf, err = os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("Cannot read config file %s: %s",
			path,
			err.Error())
	} else if err = yaml.Unmarshal(buf, conf); err != nil {
		return nil, fmt.Errorf("Cannot parse config file %s: %s",
			path,
			err.Error())
	}

	conf.Normalize()
	return conf, nil
} // func Load(path string) (*Config, error)

// Dump writes the configuration to the given path.
func (c *Config) Dump(path string) error {
	var (
		err error
		buf []byte
	)

	if buf, err = yaml.Marshal(c); err != nil {
		return err
	} else if err = os.WriteFile(path, buf, 0600); err != nil {
		return fmt.Errorf("Cannot write config file %s: %s",
			path,
			err.Error())
	}

	return nil
} // func (c *Config) Dump(path string) error
