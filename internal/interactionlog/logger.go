// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package interactionlog persists each inference attempt for audit. Writes
// are fire-and-forget: Record never blocks the caller, failures are counted
// and logged but never surface to the pipeline, and Close drains whatever is
// still queued before the process exits.
package interactionlog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	log "github.com/sirupsen/logrus"

	"github.com/platewise/platewise/internal/metrics"
)

const (
	queueSize    = 1000
	writeTimeout = 10 * time.Second
)

// Entry records one inference attempt.
type Entry struct {
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"request_id"`
	Identity     string    `json:"identity,omitempty"`
	Backend      string    `json:"backend"`
	Query        string    `json:"query"`
	ResponseType string    `json:"response_type"`
	Success      bool      `json:"success"`
	RawResponse  string    `json:"raw_response"`
	Context      any       `json:"context"`
}

const schema = `CREATE TABLE IF NOT EXISTS interactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL,
	request_id TEXT NOT NULL,
	identity TEXT,
	backend TEXT NOT NULL,
	query TEXT,
	response_type TEXT,
	success INTEGER NOT NULL,
	raw_response TEXT,
	context TEXT
);
CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp);
CREATE INDEX IF NOT EXISTS idx_interactions_identity ON interactions(identity);`

// Logger is the asynchronous interaction log.
type Logger struct {
	db      *sql.DB
	queue   chan Entry
	wg      sync.WaitGroup
	metrics *metrics.Metrics

	closeOnce sync.Once
}

// New opens (or creates) the SQLite log at path and starts the background
// writer.
func New(path string, m *metrics.Metrics) (*Logger, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("interactionlog: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("interactionlog: init schema: %w", err)
	}

	l := &Logger{
		db:      db,
		queue:   make(chan Entry, queueSize),
		metrics: m,
	}
	l.wg.Add(1)
	go l.writeWorker()
	return l, nil
}

// Record queues an entry without blocking. When the queue is full the entry
// is dropped and counted; a slow sink must not add latency to responses.
func (l *Logger) Record(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case l.queue <- e:
	default:
		if l.metrics != nil {
			l.metrics.RecordLogDrop()
		}
		log.Warn("interaction log queue full, dropping entry")
	}
}

func (l *Logger) writeWorker() {
	defer l.wg.Done()
	for e := range l.queue {
		l.write(e)
	}
}

func (l *Logger) write(e Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	ctxJSON, err := json.Marshal(e.Context)
	if err != nil {
		ctxJSON = []byte("{}")
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO interactions (timestamp, request_id, identity, backend, query, response_type, success, raw_response, context)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp, e.RequestID, e.Identity, e.Backend, e.Query,
		e.ResponseType, e.Success, e.RawResponse, string(ctxJSON))
	if err != nil {
		if l.metrics != nil {
			l.metrics.RecordLogFailure()
		}
		log.WithError(err).Error("failed to write interaction log entry")
	}
}

// Close drains the queue and closes the database. Safe to call more than
// once.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.queue)
		l.wg.Wait()
		err = l.db.Close()
	})
	return err
}
