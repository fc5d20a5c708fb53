package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateAndFetchSession(t *testing.T) {
	service, hub := newTestService(t)
	server := newTestServer(service, hub)
	defer server.Close()

	resp, err := http.Post(server.URL+"/sessions", "application/json", strings.NewReader(`{"questionSetId":"set-1"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		SessionID     string `json:"sessionId"`
		QuestionCount int    `json:"questionCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(created.SessionID) != 6 || created.QuestionCount != 1 {
		t.Fatalf("unexpected created payload %+v", created)
	}

	get, err := http.Get(server.URL + "/sessions/" + created.SessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer get.Body.Close()
	var snapshot struct {
		Status string `json:"status"`
		Phase  string `json:"phase"`
	}
	if err := json.NewDecoder(get.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.Status != "waiting" || snapshot.Phase != "waiting" {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}

	qr, err := http.Get(server.URL + "/sessions/" + created.SessionID + "/qr")
	if err != nil {
		t.Fatalf("get qr: %v", err)
	}
	defer qr.Body.Close()
	png, _ := io.ReadAll(qr.Body)
	if qr.Header.Get("Content-Type") != "image/png" || !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("expected png, got %s", qr.Header.Get("Content-Type"))
	}
}

func TestCreateSessionDefaultsAndErrors(t *testing.T) {
	service, hub := newTestService(t)
	server := newTestServer(service, hub)
	defer server.Close()

	resp, err := http.Post(server.URL+"/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected default set to be used, got %d", resp.StatusCode)
	}

	missing, err := http.Post(server.URL+"/sessions", "application/json", strings.NewReader(`{"questionSetId":"nope"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer missing.Body.Close()
	var body errorPayload
	_ = json.NewDecoder(missing.Body).Decode(&body)
	if missing.StatusCode != http.StatusNotFound || body.Code != "QUESTION_SET_NOT_FOUND" {
		t.Fatalf("expected 404 QUESTION_SET_NOT_FOUND, got %d %+v", missing.StatusCode, body)
	}

	for _, path := range []string{"/sessions/NOPE", "/sessions/NOPE/qr"} {
		res, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", path, res.StatusCode)
		}
	}
}

func TestJoinURLPrefersPublicURL(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://internal:8080/sessions/ROOM01/qr", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	derived := NewSessionHandler(nil, "", "")
	if got := derived.joinURL(r, "ROOM01"); got != "https://internal:8080/join?session=ROOM01" {
		t.Fatalf("unexpected derived url %s", got)
	}
	public := NewSessionHandler(nil, "", "https://trivia.example.com/")
	if got := public.joinURL(r, "ROOM01"); got != "https://trivia.example.com/join?session=ROOM01" {
		t.Fatalf("unexpected public url %s", got)
	}
}
