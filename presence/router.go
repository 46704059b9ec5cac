package presence

import (
	"signaling-server/core"

	"github.com/sirupsen/logrus"
)

// Router forwards call invitations to the receiver's live connection.
// Delivery is best effort: if the receiver is not registered the invitation
// is dropped without error, and the caller gets no acknowledgment.
type Router struct {
	registry *Registry
}

func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// RouteInvitation resolves the receiver and emits a single incoming-call
// event to its connection. The delivered payload carries the caller's
// details but not the receiver id. Returns whether delivery happened.
func (r *Router) RouteInvitation(inv core.CallInvitation) bool {
	log := logrus.WithFields(logrus.Fields{
		"caller_id":   inv.CallerID,
		"receiver_id": inv.ReceiverID,
		"call_type":   inv.CallType,
		"channel":     inv.ChannelName,
	})

	conn, ok := r.registry.Lookup(inv.ReceiverID)
	if !ok {
		log.Debug("Receiver not registered, dropping invitation")
		return false
	}

	payload := map[string]any{
		"callerId":    inv.CallerID,
		"callerName":  inv.CallerName,
		"callType":    inv.CallType,
		"channelName": inv.ChannelName,
		"token":       inv.Token,
	}

	if err := conn.Emit("incoming-call", payload); err != nil {
		log.WithError(err).Warn("Failed to deliver invitation")
		return false
	}

	log.WithField("socket_id", conn.ID()).Info("Invitation delivered")
	return true
}
