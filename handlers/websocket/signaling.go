package websocket

import (
	"context"
	"strconv"
	"time"

	"signaling-server/core"
	"signaling-server/presence"

	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

// socketConn adapts a socket.io socket to the core.Connection the presence
// registry holds. It is a non-owning wrapper; the socket.io server manages
// the underlying connection.
type socketConn struct {
	socket *socketio.Socket
}

func (c *socketConn) ID() string {
	return string(c.socket.Id())
}

func (c *socketConn) Emit(event string, data any) error {
	return c.socket.Emit(event, data)
}

// SetupSocketIO wires the signaling events onto a socket.io server: register
// binds an identity to the socket, call-user routes an invitation to the
// receiver's socket, disconnect cleans the registry entry back out.
func SetupSocketIO(registry *presence.Registry, router *presence.Router, calls core.CallStore) *socketio.Server {
	opts := socketio.DefaultServerOptions()
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	opts.SetCors(&types.Cors{
		Origin:      []any{"*"},
		Credentials: true,
	})
	srv := socketio.NewServer(nil, opts)

	//nolint:errcheck // Socket.IO event handlers do not return useful errors
	srv.On("connection", func(clients ...any) {
		socket, ok := clients[0].(*socketio.Socket)
		if !ok {
			return
		}

		conn := &socketConn{socket: socket}
		logrus.WithField("socket_id", conn.ID()).Info("User connected")

		//nolint:errcheck // Socket.IO event handlers do not return useful errors
		socket.On("register", func(datas ...any) {
			if len(datas) == 0 {
				return
			}

			userID, ok := Identity(datas[0])
			if !ok {
				logrus.WithField("socket_id", conn.ID()).Warn("Ignoring register event without user id")
				return
			}

			registry.Register(userID, conn)
		})

		//nolint:errcheck // Socket.IO event handlers do not return useful errors
		socket.On("call-user", func(datas ...any) {
			if len(datas) == 0 {
				return
			}

			inv, ok := ParseInvitation(datas[0])
			if !ok {
				logrus.WithField("socket_id", conn.ID()).Warn("Ignoring malformed call-user payload")
				return
			}

			delivered := router.RouteInvitation(inv)
			recordCall(calls, inv, delivered)
		})

		socket.On("disconnect", func(datas ...any) {
			if identity, removed := registry.RemoveByConnection(conn); removed {
				logrus.WithFields(logrus.Fields{
					"user_id":   identity,
					"socket_id": conn.ID(),
				}).Info("User disconnected")
			} else {
				logrus.WithField("socket_id", conn.ID()).Debug("Unregistered socket disconnected")
			}
		})
	})

	return srv
}

// Identity normalizes a registered user id from the wire. Ids are opaque;
// clients send them as strings or numbers, and numeric ids key the registry
// by their decimal form.
func Identity(data any) (string, bool) {
	switch v := data.(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	default:
		return "", false
	}
}

// ParseInvitation extracts a call invitation from a raw socket.io payload.
// Fields pass through untouched; only the payload shape is checked.
func ParseInvitation(data any) (core.CallInvitation, bool) {
	payload, ok := data.(map[string]any)
	if !ok {
		return core.CallInvitation{}, false
	}

	return core.CallInvitation{
		CallerID:    stringField(payload, "callerId"),
		CallerName:  stringField(payload, "callerName"),
		ReceiverID:  stringField(payload, "receiverId"),
		CallType:    stringField(payload, "callType"),
		ChannelName: stringField(payload, "channelName"),
		Token:       stringField(payload, "token"),
	}, true
}

func stringField(payload map[string]any, key string) string {
	value, _ := payload[key].(string)
	return value
}

func recordCall(calls core.CallStore, inv core.CallInvitation, delivered bool) {
	if calls == nil {
		return
	}

	record := &core.CallRecord{
		CallerID:    inv.CallerID,
		ReceiverID:  inv.ReceiverID,
		CallType:    inv.CallType,
		ChannelName: inv.ChannelName,
		Delivered:   delivered,
		CreatedAt:   time.Now().UnixMilli(),
	}
	if _, err := calls.RecordCall(context.Background(), record); err != nil {
		logrus.WithError(err).Warn("Failed to record call attempt")
	}
}
