// /home/krylon/go/src/github.com/blicero/ariadne/clients/clientlib/lib.go
// -*- mode: go; coding: utf-8; -*-
// Created on 04. 06. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-12 18:12:33 krylon>

// Package clientlib provides the basic framework for building clients
// that talk to the daemon's HTTP interface.
package clientlib

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/logdomain"
	"github.com/blicero/ariadne/objects"
	"github.com/pquerna/ffjson/ffjson"
)

const addPath = "/alarm/add"

// Client implements the fundamental communication with the daemon.
type Client struct {
	Server *url.URL
	Client http.Client
	log    *log.Logger
}

// NewClient creates a new Client.
func NewClient(srv string) (*Client, error) {
	var (
		err error
		c   = &Client{
			Client: http.Client{
				Timeout: time.Second * 10,
			},
		}
	)

	if c.log, err = common.GetLogger(logdomain.Client); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot create Logger: %s\n",
			err.Error())
		return nil, err
	} else if c.Server, err = url.Parse(srv); err != nil {
		c.log.Printf("[ERROR] Cannot parse URL %q: %s\n",
			srv,
			err.Error())
		return nil, err
	}

	c.Server.Scheme = "http"

	return c, nil
} // func NewClient(srv string) (*Client, error)

// GetLogger returns the Client's logger.
func (c *Client) GetLogger() *log.Logger {
	return c.log
} // func (c *Client) GetLogger() *log.Logger

func (c *Client) postForm(path string, values url.Values) (*objects.Response, error) {
	var (
		err    error
		msg    string
		rcvBuf bytes.Buffer
		hres   *http.Response
		ores   objects.Response
		addr   = *c.Server
	)

	addr.Path = path

	if hres, err = c.Client.PostForm(addr.String(), values); err != nil {
		c.log.Printf("[ERROR] Failed to POST to %s: %s\n",
			addr.String(),
			err.Error())
		return nil, err
	} else if hres.StatusCode != http.StatusOK {
		msg = fmt.Sprintf("Unexpected status from %s: %s",
			addr.String(),
			hres.Status)
		c.log.Printf("[ERROR] %s\n", msg)
		return nil, errors.New(msg)
	} else if _, err = io.Copy(&rcvBuf, hres.Body); err != nil {
		c.log.Printf("[ERROR] Failed to read Response body from %s: %s\n",
			addr.String(),
			err.Error())
		return nil, err
	} else if err = ffjson.Unmarshal(rcvBuf.Bytes(), &ores); err != nil {
		c.log.Printf("[ERROR] Cannot de-serialize Response from %s: %s\n",
			addr.String(),
			err.Error())
		return nil, err
	} else if !ores.Status {
		err = fmt.Errorf("Request to %s failed: %s",
			addr.String(),
			ores.Message)
		c.log.Printf("[ERROR] %s\n", err.Error())
		return &ores, err
	}

	return &ores, nil
} // func (c *Client) postForm(path string, values url.Values) (*objects.Response, error)

// SubmitAlarm submits a new alarm to the daemon. On success, it returns
// the UUID the daemon assigned.
func (c *Client) SubmitAlarm(values url.Values) (string, error) {
	var res, err = c.postForm(addPath, values)

	if err != nil {
		return "", err
	}

	return res.Message, nil
} // func (c *Client) SubmitAlarm(values url.Values) (string, error)

// RequestFunc asks the daemon to handle, trigger, or cancel an alarm.
func (c *Client) RequestFunc(id int64, fn objects.EventFunc) error {
	var path string

	switch fn {
	case objects.FuncHandle:
		path = fmt.Sprintf("/alarm/%d/handle", id)
	case objects.FuncTrigger:
		path = fmt.Sprintf("/alarm/%d/trigger", id)
	case objects.FuncCancel:
		path = fmt.Sprintf("/alarm/%d/cancel", id)
	default:
		return fmt.Errorf("Function %s cannot be requested this way", fn)
	}

	var _, err = c.postForm(path, make(url.Values))
	return err
} // func (c *Client) RequestFunc(id int64, fn objects.EventFunc) error

// DeferAlarm asks the daemon to defer an alarm's next firing to the
// given time.
func (c *Client) DeferAlarm(id int64, deferTo time.Time) error {
	var values = url.Values{
		"time": []string{deferTo.Format(time.RFC3339)},
	}

	var _, err = c.postForm(fmt.Sprintf("/alarm/%d/defer", id), values)
	return err
} // func (c *Client) DeferAlarm(id int64, deferTo time.Time) error
