package main

import (
	"sort"

	"github.com/spf13/cobra"
)

const appName = "prizegrid"

// Command interface that all devtool commands must implement
type Command interface {
	Name() string
	Description() string
	Run(cmd *cobra.Command, args []string) error
}

// configurer is implemented by commands that declare flags or argument rules
type configurer interface {
	Configure(cmd *cobra.Command)
}

// Registry manages the available commands
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns a sorted list of all registered commands
func (r *Registry) List() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name() < cmds[j].Name()
	})
	return cmds
}

// Root builds the cobra tree, one subcommand per registered command
func (r *Registry) Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "devtool",
		Short:         "Developer utilities for " + appName,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, c := range r.List() {
		sub := &cobra.Command{
			Use:   c.Name(),
			Short: c.Description(),
			RunE:  c.Run,
		}
		if cfg, ok := c.(configurer); ok {
			cfg.Configure(sub)
		}
		root.AddCommand(sub)
	}

	return root
}
