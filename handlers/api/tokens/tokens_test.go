package tokens

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"signaling-server/token"
)

func newTestHandler() http.Handler {
	issuer := token.NewIssuer(token.NewRTCSigner("test-app-id", "test-app-cert"))
	return NoCache(HandleGenerate(issuer))
}

func postToken(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate-token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleGenerateSuccess(t *testing.T) {
	rec := postToken(t, newTestHandler(), `{"channelName":"room1","uid":42,"roleType":"publisher"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var grant token.Grant
	if err := json.Unmarshal(rec.Body.Bytes(), &grant); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if grant.ChannelName != "room1" {
		t.Errorf("channelName = %q, want %q", grant.ChannelName, "room1")
	}
	if grant.Token == "" {
		t.Error("response token is empty")
	}
	if grant.RoleType != "publisher" {
		t.Errorf("roleType = %q, want %q", grant.RoleType, "publisher")
	}
	if grant.ExpirationTimeInSeconds != 3600 {
		t.Errorf("expirationTimeInSeconds = %d, want default 3600", grant.ExpirationTimeInSeconds)
	}
}

func TestHandleGenerateStringUID(t *testing.T) {
	rec := postToken(t, newTestHandler(), `{"channelName":"room1","uid":"42"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestHandleGenerateMissingChannelName(t *testing.T) {
	rec := postToken(t, newTestHandler(), `{"uid":42}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error != "channelName are required" {
		t.Errorf("error = %q, want %q", resp.Error, "channelName are required")
	}
}

func TestHandleGenerateInvalidUID(t *testing.T) {
	rec := postToken(t, newTestHandler(), `{"channelName":"room1","uid":"abc"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error != "uid must be a valid number" {
		t.Errorf("error = %q, want %q", resp.Error, "uid must be a valid number")
	}
}

func TestHandleGenerateMalformedBody(t *testing.T) {
	rec := postToken(t, newTestHandler(), `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleGenerateSigningFailure(t *testing.T) {
	issuer := token.NewIssuer(token.NewRTCSigner("", ""))
	handler := NoCache(HandleGenerate(issuer))

	rec := postToken(t, handler, `{"channelName":"room1","uid":42}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestHandleGenerateNoCacheHeaders(t *testing.T) {
	rec := postToken(t, newTestHandler(), `{"channelName":"room1","uid":42}`)

	headers := map[string]string{
		"Cache-Control": "private, no-cache, no-store, must-revalidate",
		"Expires":       "-1",
		"Pragma":        "no-cache",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("header %s = %q, want %q", name, got, want)
		}
	}
}
