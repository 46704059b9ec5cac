package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const defaultExpirationSeconds = 3600

// Role is the privilege level encoded into an access grant.
type Role int

const (
	RolePublisher  Role = 1
	RoleSubscriber Role = 2
)

// ErrUIDRequired marks a token request whose uid is missing entirely. In
// practice the unparseable-uid check fires first, but the branch is kept
// because its status code differs at the HTTP boundary.
var ErrUIDRequired = errors.New("uid is required")

// RequestError is a validation failure in a token request, reported to the
// HTTP caller as a 400.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// SigningError wraps a failure of the signing primitive, typically missing
// credentials. Reported as a server fault, never retried.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("failed to sign token: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

type (
	// Request carries the raw token request fields. UID and
	// ExpirationTimeInSeconds are decoded loosely because clients send them
	// as either strings or numbers.
	Request struct {
		ChannelName             string `json:"channelName"`
		UID                     any    `json:"uid"`
		RoleType                string `json:"roleType,omitempty"`
		ExpirationTimeInSeconds any    `json:"expirationTimeInSeconds,omitempty"`
	}

	// Grant is the issued access grant. RoleType echoes the request's raw
	// role string while ExpirationTimeInSeconds carries the resolved value,
	// after defaulting and parsing.
	Grant struct {
		ChannelName             string `json:"channelName"`
		Token                   string `json:"token"`
		RoleType                string `json:"roleType,omitempty"`
		ExpirationTimeInSeconds int    `json:"expirationTimeInSeconds"`
	}

	// Signer is the external signing primitive: deterministic for identical
	// inputs and identical current time, failing only when its credentials
	// are absent or malformed.
	Signer interface {
		Sign(channelName string, uid int, role Role, privilegeExpiredTs int64) (string, error)
	}

	Issuer struct {
		signer Signer
		now    func() time.Time
	}
)

func NewIssuer(signer Signer) *Issuer {
	return &Issuer{
		signer: signer,
		now:    time.Now,
	}
}

// Issue validates the request, resolves role and expiry, and produces a
// signed grant. Stateless and safe for concurrent use.
func (i *Issuer) Issue(req Request) (*Grant, error) {
	if req.ChannelName == "" {
		return nil, &RequestError{Message: "channelName are required"}
	}

	uid, ok := parseInt(req.UID)
	if !ok {
		return nil, &RequestError{Message: "uid must be a valid number"}
	}
	if req.UID == nil {
		return nil, ErrUIDRequired
	}

	role := RoleSubscriber
	if req.RoleType == "publisher" {
		role = RolePublisher
	}

	expiration := defaultExpirationSeconds
	if !isAbsent(req.ExpirationTimeInSeconds) {
		parsed, ok := parseInt(req.ExpirationTimeInSeconds)
		if !ok {
			return nil, &RequestError{Message: "expirationTimeInSeconds must be a valid number"}
		}
		expiration = parsed
	}

	privilegeExpiredTs := i.now().Unix() + int64(expiration)

	signed, err := i.signer.Sign(req.ChannelName, uid, role, privilegeExpiredTs)
	if err != nil {
		return nil, &SigningError{Err: err}
	}

	return &Grant{
		ChannelName:             req.ChannelName,
		Token:                   signed,
		RoleType:                req.RoleType,
		ExpirationTimeInSeconds: expiration,
	}, nil
}

// parseInt accepts the integer encodings seen on the wire: JSON numbers
// (float64), numeric strings, and native ints. Fractional values truncate.
func parseInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// isAbsent reports whether the wire value counts as "not provided": missing
// or an empty string. Zero and negative numbers are real values and pass
// through to the signer unclamped.
func isAbsent(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
