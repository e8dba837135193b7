// /home/krylon/go/src/github.com/blicero/ariadne/engine/dnssd.go
// -*- mode: go; coding: utf-8; -*-
// Created on 17. 06. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-02 18:22:09 krylon>

package engine

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/grandcat/zeroconf"
)

const (
	srvName    = "Ariadne"
	srvService = "_http._tcp"
	srvDomain  = "local."
)

var addrPat = regexp.MustCompile(`:(\d+)$`)

// initDNSSd announces the HTTP interface via DNS-SD so clients can find
// the daemon without configuration.
func (eng *Engine) initDNSSd() error {
	var (
		err   error
		match []string
		port  int64
		srv   *zeroconf.Server
	)

	if match = addrPat.FindStringSubmatch(eng.web.Addr); match == nil {
		return fmt.Errorf("Cannot extract HTTP port from server address %q",
			eng.web.Addr)
	}

	if port, err = strconv.ParseInt(match[1], 10, 16); err != nil {
		eng.log.Printf("[ERROR] Cannot parse HTTP port from server address %q: %s\n",
			eng.web.Addr,
			err.Error())
		return err
	}

	var txt = []string{"txtv=0"}

	var instanceName = fmt.Sprintf("%s@%s",
		srvName,
		eng.hostname)

	if srv, err = zeroconf.Register(instanceName, srvService, srvDomain, int(port), txt, nil); err != nil {
		eng.log.Printf("[ERROR] Cannot register service with DNS-SD: %s\n",
			err.Error())
		return err
	}

	eng.dnssd = srv
	return nil
} // func (eng *Engine) initDNSSd() error
