package handlers

import (
	"net/http"
	"strconv"

	"github.com/file-finder/backend/internal/db"
)

const (
	defaultInvocationLimit = 50
	maxInvocationLimit     = 500
)

type InvocationsHandler struct {
	db *db.Database
}

func NewInvocationsHandler(database *db.Database) *InvocationsHandler {
	return &InvocationsHandler{db: database}
}

// List returns the newest journal entries.
func (h *InvocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultInvocationLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxInvocationLimit)
	}

	invocations, err := h.db.ListInvocations(limit)
	if err != nil {
		jsonError(w, "failed to list invocations: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, invocations, http.StatusOK)
}

func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
