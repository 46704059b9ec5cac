package memory

import (
	"context"
	"sync"

	"signaling-server/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// maxRecords bounds the in-memory call log; older attempts roll off.
const maxRecords = 1000

type callStore struct {
	mu      sync.RWMutex
	records []core.CallRecord
}

func NewCallStore() core.CallStore {
	return &callStore{}
}

func (s *callStore) RecordCall(ctx context.Context, record *core.CallRecord) (string, error) {
	id := ulid.Make().String()

	stored := *record
	stored.ID = id

	s.mu.Lock()
	s.records = append(s.records, stored)
	if len(s.records) > maxRecords {
		s.records = s.records[len(s.records)-maxRecords:]
	}
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"call_id":     id,
		"caller_id":   record.CallerID,
		"receiver_id": record.ReceiverID,
		"delivered":   record.Delivered,
	}).Debug("Call attempt recorded")

	return id, nil
}

func (s *callStore) ListCalls(ctx context.Context, limit int) ([]core.CallRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}

	// Most recent first.
	calls := make([]core.CallRecord, 0, limit)
	for i := len(s.records) - 1; i >= len(s.records)-limit; i-- {
		calls = append(calls, s.records[i])
	}
	return calls, nil
}
