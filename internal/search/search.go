package search

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// canonicalizeFn is swapped out in tests to simulate entries vanishing mid-walk.
var canonicalizeFn = canonicalize

// Request is a single search invocation. A nil Root yields no results.
type Request struct {
	Root  *string
	Query string
}

// Report is the outcome of one walk. Only Paths is part of the public
// search_file contract; the counters exist for diagnostics.
type Report struct {
	Paths   []string
	Visited int // entries successfully canonicalized
	Skipped int // entries dropped because listing or canonicalization failed, or the path is not UTF-8
	Cycles  int // directory edges not re-entered because the directory was already visited
}

// Searcher walks a directory tree following symlinks and returns the
// canonical paths that contain a query substring.
type Searcher struct {
	logger *log.Logger
}

// NewSearcher creates a Searcher. Skipped entries are logged to logger; a nil
// logger discards them.
func NewSearcher(logger *log.Logger) *Searcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Searcher{logger: logger}
}

// Search returns the canonical paths under root whose string form contains
// query. It never fails: unreadable entries are skipped.
func (s *Searcher) Search(root *string, query string) []string {
	return s.Run(Request{Root: root, Query: query}).Paths
}

// Run performs the walk described by req and reports what it saw.
func (s *Searcher) Run(req Request) Report {
	rep := Report{Paths: []string{}}
	if req.Root == nil || *req.Root == "" {
		return rep
	}

	emitted := make(map[string]bool)
	dirs := make(map[string]bool)

	// Depth-first pre-order; children are pushed in reverse so they pop in
	// the lexical order os.ReadDir returns them.
	stack := []string{*req.Root}
	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		canonical, err := canonicalizeFn(path)
		if err != nil {
			rep.Skipped++
			s.logger.Printf("[search] skip %s: %v", path, err)
			continue
		}
		// Non-UTF-8 names cannot cross the JSON bridge intact.
		if !utf8.ValidString(canonical) {
			rep.Skipped++
			s.logger.Printf("[search] skip %q: not valid UTF-8", canonical)
			continue
		}
		info, err := os.Stat(canonical)
		if err != nil {
			rep.Skipped++
			s.logger.Printf("[search] skip %s: %v", path, err)
			continue
		}

		if info.IsDir() {
			if dirs[canonical] {
				rep.Cycles++
				continue
			}
			dirs[canonical] = true
		}

		rep.Visited++
		if canonical != "" && !emitted[canonical] {
			emitted[canonical] = true
			if strings.Contains(canonical, req.Query) {
				rep.Paths = append(rep.Paths, canonical)
			}
		}

		if !info.IsDir() {
			continue
		}

		// A failed listing may still return the entries read before the error.
		entries, err := os.ReadDir(canonical)
		if err != nil {
			rep.Skipped++
			s.logger.Printf("[search] cannot list %s: %v", canonical, err)
		}
		for i := len(entries) - 1; i >= 0; i-- {
			stack = append(stack, filepath.Join(canonical, entries[i].Name()))
		}
	}

	return rep
}

// canonicalize resolves path to an absolute path with every symlink and
// dot segment resolved. It fails if any component does not exist.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
