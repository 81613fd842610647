package cli

import (
	"github.com/spf13/cobra"

	"github.com/pkoster/tangle/pkg/graph"
)

// setFlagCommand is the shared implementation of check/uncheck/arc/unarc:
// resolve every identifier, apply one boolean setter, save once.
func (c *CLI) setFlagCommand(use, short string, apply func(*graph.Graph, graph.NodeID) error, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			ids, err := s.resolveAll(args)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if err := apply(s.graph, id); err != nil {
					return err
				}
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("%s %d node(s)", verb, len(ids))
			return nil
		},
	}
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return c.setFlagCommand("check <node>...", "Mark nodes as done",
		func(g *graph.Graph, id graph.NodeID) error { return g.SetChecked(id, true) }, "Checked")
}

// uncheckCommand creates the uncheck command.
func (c *CLI) uncheckCommand() *cobra.Command {
	return c.setFlagCommand("uncheck <node>...", "Mark nodes as not done",
		func(g *graph.Graph, id graph.NodeID) error { return g.SetChecked(id, false) }, "Unchecked")
}

// archiveCommand creates the arc command.
func (c *CLI) archiveCommand() *cobra.Command {
	return c.setFlagCommand("arc <node>...", "Archive nodes, hiding them from listings",
		func(g *graph.Graph, id graph.NodeID) error { return g.SetArchived(id, true) }, "Archived")
}

// unarchiveCommand creates the unarc command.
func (c *CLI) unarchiveCommand() *cobra.Command {
	return c.setFlagCommand("unarc <node>...", "Restore archived nodes",
		func(g *graph.Graph, id graph.NodeID) error { return g.SetArchived(id, false) }, "Unarchived")
}
