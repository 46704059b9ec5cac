package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingCredentials is returned when the signer was constructed without
// an app id or certificate.
var ErrMissingCredentials = errors.New("APP_ID and APP_CERTIFICATE are required")

// RTCSigner produces signed channel-access grants for the media platform.
// The grant is an HS256 JWT keyed by the app certificate, binding the
// channel, numeric identity, role, and expiry. Given identical inputs the
// output is identical.
type RTCSigner struct {
	appID          string
	appCertificate string
}

func NewRTCSigner(appID, appCertificate string) *RTCSigner {
	return &RTCSigner{
		appID:          appID,
		appCertificate: appCertificate,
	}
}

func (s *RTCSigner) Sign(channelName string, uid int, role Role, privilegeExpiredTs int64) (string, error) {
	if s.appID == "" || s.appCertificate == "" {
		return "", ErrMissingCredentials
	}

	claims := jwt.MapClaims{
		"iss":     s.appID,
		"channel": channelName,
		"uid":     uid,
		"role":    int(role),
		"exp":     privilegeExpiredTs,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.appCertificate))
}
