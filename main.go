// /home/krylon/go/src/github.com/blicero/ariadne/main.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-12 19:10:08 krylon>

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/config"
	"github.com/blicero/ariadne/engine"
)

func main() {
	fmt.Printf("%s %s\n",
		common.AppName,
		common.Version)

	var (
		err          error
		eng          *engine.Engine
		conf         *config.Config
		appDir, addr string
	)

	flag.StringVar(
		&appDir,
		"appdir",
		common.BaseDir,
		"The directory where application-specific files live")

	flag.StringVar(
		&addr,
		"address",
		"",
		"Address to listen on (overrides the config file)")

	flag.Parse()

	if appDir != common.BaseDir {
		if err = common.SetBaseDir(appDir); err != nil {
			fmt.Fprintf(
				os.Stderr,
				"Cannot set application directory to %s: %s\n",
				appDir,
				err.Error())
			os.Exit(1)
		}
	} else if err = common.InitApp(); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot initialize application environment: %s\n",
			err.Error())
		os.Exit(1)
	}

	if conf, err = config.Load(common.CfgPath()); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot load configuration from %s: %s\n",
			common.CfgPath(),
			err.Error())
		os.Exit(1)
	}

	if addr != "" {
		conf.Listen = addr
	}

	if eng, err = engine.Summon(conf); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Failed to summon Engine: %s\n",
			err.Error())
		os.Exit(1)
	}

	var sigQ = make(chan os.Signal, 1)
	signal.Notify(sigQ, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	var sig = <-sigQ
	fmt.Printf("Quitting on signal %s\n", sig)

	if err = eng.Banish(false); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Graceful shutdown failed (%s), forcing it\n",
			err.Error())
		eng.Banish(true) // nolint: errcheck
	}
} // func main()
