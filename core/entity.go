package core

import (
	"context"
)

type (
	// Connection is a non-owning handle to one live signaling transport
	// connection. The transport layer owns the connection's lifetime; the
	// presence registry only keys on it.
	Connection interface {
		ID() string
		Emit(event string, data any) error
	}

	// CallInvitation is one routing attempt from a caller to a receiver.
	// Never persisted; it exists only for the duration of the attempt.
	CallInvitation struct {
		CallerID    string
		CallerName  string
		ReceiverID  string
		CallType    string
		ChannelName string
		Token       string
	}

	CallRecord struct {
		ID          string `json:"id"`
		CallerID    string `json:"callerId"`
		ReceiverID  string `json:"receiverId"`
		CallType    string `json:"callType"`
		ChannelName string `json:"channelName"`
		Delivered   bool   `json:"delivered"`
		CreatedAt   int64  `json:"createdAt"`
	}

	CallStore interface {
		RecordCall(ctx context.Context, record *CallRecord) (string, error)
		ListCalls(ctx context.Context, limit int) ([]CallRecord, error)
	}
)
