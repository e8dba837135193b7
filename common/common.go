// /home/krylon/go/src/github.com/blicero/ariadne/common/common.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-06-18 21:09:54 krylon>

// Package common provides constants and definitions used throughout
// the application, plus a few helpers.
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/blicero/ariadne/logdomain"
	"github.com/blicero/krylib"
	"github.com/hashicorp/logutils"
	uuid "github.com/odeke-em/go-uuid"
)

// Debug, if true, causes the application to log additional messages.
// AppName is the name of the application.
// Version is the version number, TimestampFormat the format for
// rendering timestamps, used throughout the application.
const (
	Debug                 = true
	AppName               = "Ariadne"
	Version               = "0.4.2"
	TimestampFormat       = "2006-01-02 15:04:05"
	TimestampFormatMinute = "2006-01-02 15:04"
	TimestampFormatDate   = "2006-01-02"
	DefaultPort           = 7202
)

// LogLevels are the names of the log levels supported by the logger.
var LogLevels = []logutils.LogLevel{
	"TRACE",
	"DEBUG",
	"INFO",
	"WARN",
	"ERROR",
	"CRITICAL",
	"CANTHAPPEN",
	"SILENT",
}

// PackageLevels defines minimum log levels per package.
var PackageLevels = make(map[logdomain.ID]logutils.LogLevel, len(logdomain.AllDomains()))

func init() {
	for _, id := range logdomain.AllDomains() {
		PackageLevels[id] = "TRACE"
	}
} // func init()

// BaseDir is the folder where all application-specific files are stored.
// It defaults to $HOME/.ariadne.d
var BaseDir = filepath.Join(
	os.Getenv("HOME"),
	".ariadne.d")

// LogPath returns the filename of the log file.
func LogPath() string {
	return filepath.Join(BaseDir, "ariadne.log")
} // func LogPath() string

// DbPath returns the path of the database file.
func DbPath() string {
	return filepath.Join(BaseDir, "ariadne.db")
} // func DbPath() string

// CfgPath returns the path of the configuration file.
func CfgPath() string {
	return filepath.Join(BaseDir, "ariadne.yaml")
} // func CfgPath() string

// SpoolDir returns the directory where temporary script files are created.
func SpoolDir() string {
	return filepath.Join(BaseDir, "spool")
} // func SpoolDir() string

// SetBaseDir sets the application's base directory. This should only be
// called very early in the startup process.
func SetBaseDir(path string) error {
	fmt.Printf("Setting BaseDir to %s\n", path)
	BaseDir = path

	if err := InitApp(); err != nil {
		fmt.Printf("Error initializing application environment: %s\n",
			err.Error())
		return err
	}

	return nil
} // func SetBaseDir(path string) error

// InitApp performs some basic preparations for the application to run.
// Currently, this means creating the BaseDir folder and its subfolders.
func InitApp() error {
	var err error

	for _, dir := range []string{BaseDir, SpoolDir()} {
		var exists bool
		if exists, err = krylib.Fexists(dir); err != nil {
			return fmt.Errorf("Error checking directory %s: %s",
				dir,
				err.Error())
		} else if !exists {
			if err = os.Mkdir(dir, 0700); err != nil {
				return fmt.Errorf("Error creating directory %s: %s",
					dir,
					err.Error())
			}
		}
	}

	return nil
} // func InitApp() error

// GetLogger tries to create a Logger for the given log domain.
func GetLogger(dom logdomain.ID) (*log.Logger, error) {
	var (
		err     error
		name    = fmt.Sprintf("%s.%s ", AppName, dom)
		logfile *os.File
	)

	if err = InitApp(); err != nil {
		return nil, fmt.Errorf("Error initializing application environment: %s",
			err.Error())
	}

	if logfile, err = os.OpenFile(LogPath(), os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644); err != nil {
		return nil, fmt.Errorf("Error opening log file %s: %s",
			LogPath(),
			err.Error())
	}

	var writer = io.MultiWriter(os.Stdout, logfile)

	var filter = &logutils.LevelFilter{
		Levels:   LogLevels,
		MinLevel: minLogLevel(dom),
		Writer:   writer,
	}

	return log.New(filter, name, log.Ldate|log.Ltime|log.Lshortfile), nil
} // func GetLogger(dom logdomain.ID) (*log.Logger, error)

func minLogLevel(dom logdomain.ID) logutils.LogLevel {
	if !Debug {
		return "INFO"
	} else if lvl, ok := PackageLevels[dom]; ok {
		return lvl
	}

	return "TRACE"
} // func minLogLevel(dom logdomain.ID) logutils.LogLevel

// GetUUID returns a fresh UUID.
func GetUUID() string {
	return uuid.NewRandom().String()
} // func GetUUID() string

// TimeEqual compares two timestamps with second granularity.
func TimeEqual(t1, t2 time.Time) bool {
	return t1.Unix() == t2.Unix()
} // func TimeEqual(t1, t2 time.Time) bool
