package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
	"live-trivia-service/internal/app"
	"live-trivia-service/internal/domain"
)

const qrSize = 320

// SessionHandler serves the REST side of session management.
type SessionHandler struct {
	service    *app.TriviaService
	defaultSet string
	publicURL  string
}

// NewSessionHandler builds the handler. publicURL may be empty, in which case
// join links are derived from the request.
func NewSessionHandler(service *app.TriviaService, defaultSet, publicURL string) *SessionHandler {
	return &SessionHandler{
		service:    service,
		defaultSet: defaultSet,
		publicURL:  strings.TrimSuffix(publicURL, "/"),
	}
}

// RegisterRoutes sets up the session routes.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{id}", h.getSession)
	mux.HandleFunc("GET /sessions/{id}/qr", h.sessionQR)
}

type createSessionRequest struct {
	QuestionSetID string `json:"questionSetId"`
}

func (h *SessionHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid request body", Code: "BAD_REQUEST"})
			return
		}
	}
	setID := req.QuestionSetID
	if setID == "" {
		setID = h.defaultSet
	}
	if setID == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "missing questionSetId", Code: "BAD_REQUEST"})
		return
	}
	info, err := h.service.ProvisionSession(r.Context(), setID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (h *SessionHandler) getSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *SessionHandler) sessionQR(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if _, err := h.service.Snapshot(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}
	png, err := qrcode.Encode(h.joinURL(r, sessionID), qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// joinURL is the link players scan to join a session.
func (h *SessionHandler) joinURL(r *http.Request, sessionID string) string {
	base := h.publicURL
	if base == "" {
		// Derive scheme respecting TLS and X-Forwarded-Proto.
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join?session=" + url.QueryEscape(sessionID)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorPayload{Message: err.Error(), Code: domain.ErrorCode(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrQuestionSetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionExists), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoPlayableQuestions):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
