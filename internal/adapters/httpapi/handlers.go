package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/example/frontdesk/internal/ports/primary"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

type startCallRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type queryRequest struct {
	Query       string `json:"query"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type registerMemberRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSessions returns escalation history, optionally filtered by ?status=.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	filters := primary.SessionFilters{Status: r.URL.Query().Get("status")}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filters.Limit = limit
	}

	sessions, err := h.Resolution.ListSessions(r.Context(), filters)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if sessions == nil {
		sessions = []*primary.SessionSummary{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// GetSession returns one session with its latest escalation.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.Resolution.GetSession(r.Context(), r.PathValue("session_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Resolve records a supervisor answer.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req primary.ResolveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.Resolution.Resolve(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": resp.Message})
}

// StartCall opens a session for an incoming call.
func (h *Handler) StartCall(w http.ResponseWriter, r *http.Request) {
	var req startCallRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.Receptionist.StartSession(r.Context(), req.PhoneNumber)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id": resp.SessionID,
		"greeting":   resp.Greeting,
	})
}

// Query answers one customer utterance within a call.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	caller := primary.Caller{SessionID: r.PathValue("session_id"), PhoneNumber: req.PhoneNumber}
	resp, err := h.Receptionist.HandleQuery(r.Context(), caller, req.Query)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reply":     resp.Reply,
		"escalated": resp.Escalated,
	})
}

// CheckMember reports whether a phone number belongs to a member.
func (h *Handler) CheckMember(w http.ResponseWriter, r *http.Request) {
	status, err := h.Membership.Check(r.Context(), r.PathValue("phone"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// RegisterMember adds a member.
func (h *Handler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req registerMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := h.Membership.Register(r.Context(), req.PhoneNumber)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, status)
}

// writeError maps service errors onto status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, primary.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
	case errors.Is(err, primary.ErrAnswerRequired),
		errors.Is(err, primary.ErrQueryRequired),
		errors.Is(err, primary.ErrInvalidStatus),
		errors.Is(err, primary.ErrInvalidPhone):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, primary.ErrMemberExists), errors.Is(err, primary.ErrAlreadyResolved):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.Logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
