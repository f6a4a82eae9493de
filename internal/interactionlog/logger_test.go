// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package interactionlog

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/platewise/internal/metrics"
)

func openForRead(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", path)
}

func TestRecordAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interactions.db")
	l, err := New(path, metrics.New())
	require.NoError(t, err)

	l.Record(Entry{
		RequestID:    "req-1",
		Identity:     "u1",
		Backend:      "gpt",
		Query:        "something warm",
		ResponseType: "recommendation",
		Success:      true,
		RawResponse:  `{"response_type":"recommendation"}`,
		Context:      map[string]any{"mood_score": 4},
	})
	l.Record(Entry{
		RequestID: "req-2",
		Backend:   "direct_search",
		Success:   true,
	})

	// Close drains the queue before shutting the database.
	require.NoError(t, l.Close())

	db, err := openForRead(path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM interactions`).Scan(&count))
	assert.Equal(t, 2, count)

	var backend, ctxJSON string
	var success bool
	require.NoError(t, db.QueryRow(
		`SELECT backend, success, context FROM interactions WHERE request_id = ?`, "req-1",
	).Scan(&backend, &success, &ctxJSON))
	assert.Equal(t, "gpt", backend)
	assert.True(t, success)
	assert.Contains(t, ctxJSON, "mood_score")
}

func TestCloseIsIdempotent(t *testing.T) {
	l, err := New(filepath.Join(t.TempDir(), "interactions.db"), nil)
	require.NoError(t, err)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}

func TestRecordFillsTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interactions.db")
	l, err := New(path, nil)
	require.NoError(t, err)

	l.Record(Entry{RequestID: "req-ts", Backend: "ollama"})
	require.NoError(t, l.Close())

	db, err := openForRead(path)
	require.NoError(t, err)
	defer db.Close()

	var ts string
	require.NoError(t, db.QueryRow(`SELECT timestamp FROM interactions WHERE request_id = ?`, "req-ts").Scan(&ts))
	assert.NotEmpty(t, ts)
}
