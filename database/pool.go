// /home/krylon/go/src/github.com/blicero/ariadne/database/pool.go
// -*- mode: go; coding: utf-8; -*-
// Created on 26. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-07-04 18:55:46 krylon>

package database

import (
	"container/list"
	"sync"

	"github.com/blicero/ariadne/common"
)

// Pool is a pool of database connections.
type Pool struct {
	lock sync.Mutex
	cond *sync.Cond
	pool *list.List
}

// NewPool opens the given number of database connections.
func NewPool(cnt int) (*Pool, error) {
	var (
		err  error
		pool = &Pool{pool: list.New()}
	)

	pool.cond = sync.NewCond(&pool.lock)

	for i := 0; i < cnt; i++ {
		var db *Database

		if db, err = Open(common.DbPath()); err != nil {
			return nil, err
		}

		pool.pool.PushBack(db)
	}

	return pool, nil
} // func NewPool(cnt int) (*Pool, error)

// Get returns a connection from the Pool.
// If the Pool is empty, it blocks until a connection is returned.
func (p *Pool) Get() *Database {
	p.lock.Lock()
	defer p.lock.Unlock()

	for p.pool.Len() == 0 {
		p.cond.Wait()
	}

	var (
		item = p.pool.Front()
		db   = item.Value.(*Database)
	)

	p.pool.Remove(item)
	return db
} // func (p *Pool) Get() *Database

// GetNoWait returns a connection from the Pool. If the Pool is empty,
// it opens a fresh connection rather than wait for one to be returned.
func (p *Pool) GetNoWait() (*Database, error) {
	p.lock.Lock()

	if p.pool.Len() > 0 {
		var (
			item = p.pool.Front()
			db   = item.Value.(*Database)
		)
		p.pool.Remove(item)
		p.lock.Unlock()
		return db, nil
	}

	p.lock.Unlock()
	return Open(common.DbPath())
} // func (p *Pool) GetNoWait() (*Database, error)

// Put returns a connection to the Pool.
func (p *Pool) Put(db *Database) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.pool.PushBack(db)
	p.cond.Signal()
} // func (p *Pool) Put(db *Database)

// IsEmpty returns true if the Pool is currently empty.
func (p *Pool) IsEmpty() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.pool.Len() == 0
} // func (p *Pool) IsEmpty() bool

// Close closes all connections currently in the Pool.
func (p *Pool) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	var err error

	for p.pool.Len() > 0 {
		var (
			item = p.pool.Front()
			db   = item.Value.(*Database)
		)

		p.pool.Remove(item)

		if err = db.Close(); err != nil {
			return err
		}
	}

	return nil
} // func (p *Pool) Close() error
