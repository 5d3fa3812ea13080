package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name string
	got  []string
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return "stub " + s.name }
func (s *stubCommand) Run(_ *cobra.Command, args []string) error {
	s.got = args
	return nil
}

func TestRegistry_ListIsSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubCommand{name: "zeta"})
	r.Register(&stubCommand{name: "alpha"})
	r.Register(&stubCommand{name: "mid"})

	var names []string
	for _, c := range r.List() {
		names = append(names, c.Name())
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)

	_, ok := r.Get("mid")
	assert.True(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_RootDispatchesArgs(t *testing.T) {
	stub := &stubCommand{name: "echo"}
	r := NewRegistry()
	r.Register(stub)

	root := r.Root()
	root.SetArgs([]string{"echo", "a", "b"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, []string{"a", "b"}, stub.got)
}

func TestMigrateCommand_RequiresSubcommand(t *testing.T) {
	r := NewRegistry()
	r.Register(&MigrateCommand{})

	root := r.Root()
	root.SetArgs([]string{"migrate"})

	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestReplayCommand_CommitsAndVerifies(t *testing.T) {
	r := NewRegistry()
	r.Register(&ReplayCommand{})

	root := r.Root()
	root.SetArgs([]string{
		"replay", filepath.Join("testdata", "event.json"),
		"--catalog", filepath.Join("..", "..", "configs", "catalog.json"),
		"--commit", "--confirm-over-budget",
	})

	assert.NoError(t, root.ExecuteContext(context.Background()))
}

func TestReplayCommand_RejectsInvalidEvent(t *testing.T) {
	r := NewRegistry()
	r.Register(&ReplayCommand{})

	root := r.Root()
	root.SetArgs([]string{"replay", filepath.Join(t.TempDir(), "missing.json")})

	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestPruneEventsCommand_RejectsNonPositiveDays(t *testing.T) {
	r := NewRegistry()
	r.Register(&PruneEventsCommand{})

	root := r.Root()
	root.SetArgs([]string{"prune-events", "--days", "0"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--days")
}
