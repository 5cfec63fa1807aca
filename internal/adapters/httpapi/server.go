// Package httpapi exposes the supervisor and telephony HTTP surface.
package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/example/frontdesk/internal/ports/primary"
)

// Handler serves the HTTP routes on top of the primary ports.
type Handler struct {
	Receptionist primary.ReceptionistService
	Resolution   primary.ResolutionService
	Membership   primary.MembershipService
	Logger       *zap.Logger
}

// NewServer wires the routes. metrics may be nil; limiter may be nil to
// disable rate limiting.
func NewServer(h *Handler, metrics http.Handler, limiter *RateLimiter) http.Handler {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.Health)

	mux.HandleFunc("GET /sessions", h.ListSessions)
	mux.HandleFunc("GET /api/member-sessions", h.ListSessions)
	mux.HandleFunc("GET /sessions/{session_id}", h.GetSession)
	mux.HandleFunc("POST /resolve", h.Resolve)

	mux.HandleFunc("POST /calls", h.StartCall)
	mux.HandleFunc("POST /calls/{session_id}/query", h.Query)

	mux.HandleFunc("GET /members/{phone}", h.CheckMember)
	mux.HandleFunc("POST /members", h.RegisterMember)

	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	if limiter == nil {
		return mux
	}
	return limiter.Middleware(mux)
}
