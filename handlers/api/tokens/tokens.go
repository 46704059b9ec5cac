package tokens

import (
	"encoding/json"
	"errors"
	"net/http"

	"signaling-server/token"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// NoCache stamps the token responses as uncacheable; grants are short-lived
// and minted fresh per request.
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "private, no-cache, no-store, must-revalidate")
		w.Header().Set("Expires", "-1")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}

// HandleGenerate issues an access grant for a channel join request.
func HandleGenerate(issuer *token.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req token.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.WithField("error", err).Error("Failed to decode token request")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
			return
		}

		grant, err := issuer.Issue(req)
		if err != nil {
			respondIssueError(w, r, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"channel": grant.ChannelName,
			"expires": grant.ExpirationTimeInSeconds,
		}).Info("Token generated")
		render.JSON(w, r, grant)
	}
}

func respondIssueError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *token.RequestError
	if errors.As(err, &reqErr) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: reqErr.Message})
		return
	}

	// The missing-uid branch keeps its historical 500 status even though the
	// number check fires first in practice.
	if errors.Is(err, token.ErrUIDRequired) {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: token.ErrUIDRequired.Error()})
		return
	}

	logrus.WithField("error", err).Error("Failed to generate token")
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{Error: "failed to generate token"})
}
