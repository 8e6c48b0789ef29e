package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/file-finder/backend/internal/command"
	"github.com/file-finder/backend/internal/storage"
)

const maxTreeDepth = 3

type FilesHandler struct {
	browseRoot string
	registry   *command.Registry
}

func NewFilesHandler(browseRoot string, registry *command.Registry) *FilesHandler {
	return &FilesHandler{browseRoot: browseRoot, registry: registry}
}

// GetTree lists a directory under the browse root for the folder picker.
// Query: dirs=1 (directories only), hidden=1, depth=0..3.
func (h *FilesHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)
	if path == "" {
		path = "."
	}

	q := r.URL.Query()
	opts := storage.ListOptions{
		DirsOnly:   q.Get("dirs") == "1",
		ShowHidden: q.Get("hidden") == "1",
	}
	depth := 0
	if v := q.Get("depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxTreeDepth {
			jsonError(w, "depth must be between 0 and 3", http.StatusBadRequest)
			return
		}
		depth = n
	}

	tree, err := storage.BuildTree(h.browseRoot, path, depth, opts)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrPermission):
			jsonError(w, "path outside browse root", http.StatusForbidden)
		case errors.Is(err, os.ErrNotExist):
			jsonError(w, "directory not found", http.StatusNotFound)
		default:
			jsonError(w, "failed to list directory", http.StatusInternalServerError)
		}
		return
	}

	jsonResponse(w, map[string]interface{}{
		"path":     path,
		"location": tree.Location,
		"entries":  tree.Children,
	}, http.StatusOK)
}

// Search is the query-string form of the search_file command. An absent
// location parameter means no root was chosen.
func (h *FilesHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	args := command.SearchFileArgs{Guess: q.Get("guess")}
	if q.Has("location") {
		location := q.Get("location")
		args.Location = &location
	}

	raw, err := json.Marshal(args)
	if err != nil {
		jsonError(w, "invalid search arguments", http.StatusBadRequest)
		return
	}
	results, err := h.registry.Invoke(commandContext(r), command.SearchFile, raw)
	if err != nil {
		jsonError(w, "search failed", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"location": args.Location,
		"guess":    args.Guess,
		"results":  results,
	}, http.StatusOK)
}
