// Package command implements the named-command bridge the UI invokes. Each
// command takes JSON arguments and returns a JSON-encodable value.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/file-finder/backend/internal/db/models"
	"github.com/file-finder/backend/internal/metrics"
)

var ErrUnknownCommand = errors.New("unknown command")

type clientKey struct{}

// WithClient tags ctx with the session client making the call; the journal
// records it.
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

func clientFrom(ctx context.Context) string {
	client, _ := ctx.Value(clientKey{}).(string)
	return client
}

// Outcome is what a Handler produces. Count and Skipped feed the journal.
type Outcome struct {
	Value   any
	Count   int
	Skipped int
}

// Handler runs one command. args is the raw JSON argument object and may be empty.
type Handler func(ctx context.Context, args json.RawMessage) (Outcome, error)

// Journal persists invocation records.
type Journal interface {
	RecordInvocation(inv *models.Invocation) error
	PruneInvocations(keep int) (int64, error)
}

type Registry struct {
	mu          sync.RWMutex
	handlers    map[string]Handler
	journal     Journal
	journalKeep int
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewRegistry creates an empty registry. journal and m may be nil.
func NewRegistry(journal Journal, journalKeep int, m *metrics.Metrics) *Registry {
	return &Registry{
		handlers:    make(map[string]Handler),
		journal:     journal,
		journalKeep: journalKeep,
		metrics:     m,
		now:         time.Now,
	}
}

// Register binds name to h, replacing any previous binding.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Names lists registered commands in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke dispatches name with args, then journals and counts the dispatch.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()

	start := r.now()
	var (
		out Outcome
		err error
	)
	if !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	} else {
		out, err = h(ctx, args)
	}
	r.record(ctx, name, start, out, err)

	if err != nil {
		return nil, err
	}
	return out.Value, nil
}

func (r *Registry) record(ctx context.Context, name string, start time.Time, out Outcome, err error) {
	inv := &models.Invocation{
		ID:          uuid.New().String(),
		Command:     name,
		Client:      clientFrom(ctx),
		Status:      models.InvocationOK,
		DurationMS:  r.now().Sub(start).Milliseconds(),
		ResultCount: out.Count,
		Skipped:     out.Skipped,
		CreatedAt:   start,
	}
	if err != nil {
		inv.Status = models.InvocationError
		inv.Error = err.Error()
	}
	r.metrics.ObserveInvocation(name, inv.Status)

	if r.journal == nil {
		return
	}
	if err := r.journal.RecordInvocation(inv); err != nil {
		log.Printf("[command] journal %s: %v", name, err)
		return
	}
	if r.journalKeep > 0 {
		if _, err := r.journal.PruneInvocations(r.journalKeep); err != nil {
			log.Printf("[command] prune journal: %v", err)
		}
	}
}

// decodeArgs unmarshals args into v. Empty or null args leave v at its zero value.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}
	return nil
}
