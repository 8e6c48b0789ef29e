package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/file-finder/backend/internal/metrics"
	"github.com/file-finder/backend/internal/search"
)

const (
	SearchFile = "search_file"
	Greet      = "greet"
)

// SearchFileArgs is the wire form of a search request.
type SearchFileArgs struct {
	Location *string `json:"location"`
	Guess    string  `json:"guess"`
}

type GreetArgs struct {
	Name string `json:"name"`
}

// RegisterDefaults installs the commands the desktop shell calls.
func RegisterDefaults(r *Registry, searcher *search.Searcher, m *metrics.Metrics) {
	r.Register(SearchFile, searchFileHandler(searcher, m))
	r.Register(Greet, greetHandler)
}

func searchFileHandler(searcher *search.Searcher, m *metrics.Metrics) Handler {
	return func(_ context.Context, raw json.RawMessage) (Outcome, error) {
		var args SearchFileArgs
		if err := decodeArgs(raw, &args); err != nil {
			return Outcome{}, err
		}

		start := time.Now()
		rep := searcher.Run(search.Request{Root: args.Location, Query: args.Guess})
		m.ObserveSearch(rep, time.Since(start))

		return Outcome{Value: rep.Paths, Count: len(rep.Paths), Skipped: rep.Skipped}, nil
	}
}

func greetHandler(_ context.Context, raw json.RawMessage) (Outcome, error) {
	var args GreetArgs
	if err := decodeArgs(raw, &args); err != nil {
		return Outcome{}, err
	}
	return Outcome{Value: fmt.Sprintf("Hello, %s!", args.Name), Count: 1}, nil
}
