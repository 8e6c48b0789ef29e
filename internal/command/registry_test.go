package command

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/file-finder/backend/internal/db/models"
	"github.com/file-finder/backend/internal/metrics"
	"github.com/file-finder/backend/internal/search"
)

type memJournal struct {
	mu      sync.Mutex
	records []*models.Invocation
	pruned  []int
	failAdd bool
}

func (j *memJournal) RecordInvocation(inv *models.Invocation) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failAdd {
		return errors.New("disk full")
	}
	j.records = append(j.records, inv)
	return nil
}

func (j *memJournal) PruneInvocations(keep int) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pruned = append(j.pruned, keep)
	return 0, nil
}

func newTestRegistry(t *testing.T) (*Registry, *memJournal, *metrics.Metrics) {
	t.Helper()
	j := &memJournal{}
	m := metrics.New()
	r := NewRegistry(j, 100, m)
	RegisterDefaults(r, search.NewSearcher(nil), m)
	return r, j, m
}

func TestNames(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	assert.Equal(t, []string{Greet, SearchFile}, r.Names())
}

func TestGreet(t *testing.T) {
	r, j, _ := newTestRegistry(t)

	got, err := r.Invoke(context.Background(), Greet, json.RawMessage(`{"name":"Ada"}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada!", got)

	require.Len(t, j.records, 1)
	assert.Equal(t, Greet, j.records[0].Command)
	assert.Equal(t, models.InvocationOK, j.records[0].Status)
	assert.NotEmpty(t, j.records[0].ID)
	assert.Empty(t, j.records[0].Client)
	assert.Equal(t, []int{100}, j.pruned)
}

func TestInvokeRecordsClient(t *testing.T) {
	r, j, _ := newTestRegistry(t)

	ctx := WithClient(context.Background(), "webview")
	_, err := r.Invoke(ctx, Greet, json.RawMessage(`{"name":"Ada"}`))
	require.NoError(t, err)
	_, err = r.Invoke(ctx, "launch_rockets", nil)
	require.Error(t, err)

	require.Len(t, j.records, 2)
	for _, inv := range j.records {
		assert.Equal(t, "webview", inv.Client, inv.Command)
	}
}

func TestSearchFile(t *testing.T) {
	r, j, m := newTestRegistry(t)
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "needle.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "hay.txt"), nil, 0o644))

	args, err := json.Marshal(SearchFileArgs{Location: &root, Guess: "needle"})
	require.NoError(t, err)

	got, err := r.Invoke(context.Background(), SearchFile, args)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "needle.txt")}, got)

	require.Len(t, j.records, 1)
	assert.Equal(t, 1, j.records[0].ResultCount)

	expected := `
# HELP filefinder_search_total Number of completed directory searches.
# TYPE filefinder_search_total counter
filefinder_search_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "filefinder_search_total"))
}

func TestSearchFileWithoutLocation(t *testing.T) {
	r, j, _ := newTestRegistry(t)

	for _, args := range []string{``, `null`, `{}`, `{"location":null,"guess":"x"}`} {
		got, err := r.Invoke(context.Background(), SearchFile, json.RawMessage(args))
		require.NoError(t, err, "args %q", args)
		assert.Equal(t, []string{}, got, "args %q", args)
	}
	assert.Len(t, j.records, 4)
}

func TestSearchFileMissingLocationIsNotAnError(t *testing.T) {
	r, j, _ := newTestRegistry(t)
	missing := filepath.Join(t.TempDir(), "gone")

	args, err := json.Marshal(SearchFileArgs{Location: &missing, Guess: ""})
	require.NoError(t, err)

	got, err := r.Invoke(context.Background(), SearchFile, args)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got)
	require.Len(t, j.records, 1)
	assert.Equal(t, 1, j.records[0].Skipped)
}

func TestInvokeBadArguments(t *testing.T) {
	r, j, _ := newTestRegistry(t)

	_, err := r.Invoke(context.Background(), SearchFile, json.RawMessage(`{"guess": 12}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode arguments")

	require.Len(t, j.records, 1)
	assert.Equal(t, models.InvocationError, j.records[0].Status)
}

func TestInvokeUnknownCommand(t *testing.T) {
	r, j, m := newTestRegistry(t)

	_, err := r.Invoke(context.Background(), "launch_rockets", nil)
	assert.True(t, errors.Is(err, ErrUnknownCommand))

	require.Len(t, j.records, 1)
	assert.Equal(t, "launch_rockets", j.records[0].Command)
	assert.Contains(t, j.records[0].Error, "launch_rockets")

	expected := `
# HELP filefinder_command_invocations_total Bridge command dispatches by command and status.
# TYPE filefinder_command_invocations_total counter
filefinder_command_invocations_total{command="launch_rockets",status="error"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "filefinder_command_invocations_total"))
}

func TestJournalFailureDoesNotFailInvoke(t *testing.T) {
	j := &memJournal{failAdd: true}
	r := NewRegistry(j, 10, nil)
	RegisterDefaults(r, search.NewSearcher(nil), nil)

	got, err := r.Invoke(context.Background(), Greet, json.RawMessage(`{"name":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello, x!", got)
	assert.Empty(t, j.pruned)
}

func TestRegistryWithoutJournal(t *testing.T) {
	r := NewRegistry(nil, 0, nil)
	r.Register("echo", func(_ context.Context, raw json.RawMessage) (Outcome, error) {
		return Outcome{Value: string(raw)}, nil
	})

	got, err := r.Invoke(context.Background(), "echo", json.RawMessage(`"hi"`))
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, got)
}
