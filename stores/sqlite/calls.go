package sqlite

import (
	"context"

	"database/sql"
	stdlog "log"

	"signaling-server/core"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type callStore struct {
	db *sql.DB
}

func NewCallStore(dataSourceName string) core.CallStore {
	db, err := sql.Open("sqlite3", dataSourceName)

	if err != nil {
		stdlog.Fatal(err)
	}

	sts := `CREATE TABLE IF NOT EXISTS calls (
		id TEXT PRIMARY KEY,
		caller_id TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		call_type TEXT,
		channel_name TEXT,
		delivered INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);`
	_, err = db.Exec(sts)
	if err != nil {
		stdlog.Fatal(err)
	}

	return &callStore{db}
}

func (s *callStore) RecordCall(ctx context.Context, record *core.CallRecord) (string, error) {
	id := ulid.Make().String()
	log := logrus.WithFields(logrus.Fields{
		"call_id":     id,
		"caller_id":   record.CallerID,
		"receiver_id": record.ReceiverID,
	})

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO calls (id, caller_id, receiver_id, call_type, channel_name, delivered, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, record.CallerID, record.ReceiverID, record.CallType, record.ChannelName, record.Delivered, record.CreatedAt)
	if err != nil {
		log.WithField("error", err).Error("Failed to record call attempt")
		return "", err
	}
	log.Debug("Call attempt recorded")
	return id, nil
}

func (s *callStore) ListCalls(ctx context.Context, limit int) ([]core.CallRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, caller_id, receiver_id, call_type, channel_name, delivered, created_at FROM calls ORDER BY created_at DESC, id DESC LIMIT ?",
		limit)
	if err != nil {
		logrus.WithField("error", err).Error("Failed to list call attempts")
		return nil, err
	}
	defer rows.Close()

	var calls []core.CallRecord
	for rows.Next() {
		var record core.CallRecord
		if err := rows.Scan(&record.ID, &record.CallerID, &record.ReceiverID, &record.CallType, &record.ChannelName, &record.Delivered, &record.CreatedAt); err != nil {
			return nil, err
		}
		calls = append(calls, record)
	}
	return calls, rows.Err()
}
