package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/file-finder/backend/internal/command"
)

type InvokeHandler struct {
	registry *command.Registry
}

func NewInvokeHandler(registry *command.Registry) *InvokeHandler {
	return &InvokeHandler{registry: registry}
}

// ListCommands returns the names the bridge accepts.
func (h *InvokeHandler) ListCommands(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]interface{}{
		"commands": h.registry.Names(),
	}, http.StatusOK)
}

// Invoke runs the command named in the URL with the request body as its
// JSON arguments.
func (h *InvokeHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "command")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	result, err := h.registry.Invoke(commandContext(r), name, body)
	if err != nil {
		if errors.Is(err, command.ErrUnknownCommand) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"result": result,
	}, http.StatusOK)
}
