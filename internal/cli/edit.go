package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// removeCommand creates the rm command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <node>...",
		Short: "Remove nodes and their exclusively reachable descendants",
		Long: `Remove nodes from the graph.

A removed node takes along every descendant that is reachable only
through it; a child that keeps another surviving parent stays. Removed
slots become tombstones until the next clean.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			ids, err := s.resolveAll(args)
			if err != nil {
				return err
			}
			removed := 0
			for _, id := range ids {
				// A later target may already be gone as part of an earlier
				// removal's subtree.
				if _, err := s.graph.Node(id); err != nil {
					continue
				}
				if err := s.graph.Remove(id); err != nil {
					return err
				}
				removed++
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Removed %d node(s)", removed)
			return nil
		},
	}
}

// linkCommand creates the link command.
func (c *CLI) linkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link <parent> <child>",
		Short: "Add a parent-child edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			ids, err := s.resolveAll(args)
			if err != nil {
				return err
			}
			if err := s.graph.Link(ids[0], ids[1]); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Linked %d -> %d", ids[0], ids[1])
			return nil
		},
	}
}

// unlinkCommand creates the unlink command.
func (c *CLI) unlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <parent> <child>",
		Short: "Remove a parent-child edge",
		Long: `Remove the edge between a parent and a child. Both nodes stay in
the graph; a child left without parents becomes a root.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			ids, err := s.resolveAll(args)
			if err != nil {
				return err
			}
			if err := s.graph.Unlink(ids[0], ids[1]); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Unlinked %d -> %d", ids[0], ids[1])
			return nil
		},
	}
}

// moveCommand creates the mv command.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <node> <new-parent>",
		Short: "Move a node under a new parent",
		Long: `Detach a node from all of its current parents and attach it under
a single new parent.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			ids, err := s.resolveAll(args)
			if err != nil {
				return err
			}
			if err := s.graph.Move(ids[0], ids[1]); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			p, _ := s.graph.Node(ids[1])
			printSuccess("Moved node %d under %q", ids[0], p.Message)
			return nil
		},
	}
}

// copyCommand creates the cp command.
func (c *CLI) copyCommand() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "cp <node> <target-parent>",
		Short: "Copy a node under another parent",
		Long: `Copy a node as a new child of the target parent. Aliases and the
archived flag do not travel with copies. With --recursive the whole
subtree is copied.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			ids, err := s.resolveAll(args)
			if err != nil {
				return err
			}
			if recursive {
				if err := s.graph.CopyRecursive(ids[0], ids[1]); err != nil {
					return err
				}
			} else {
				if _, err := s.graph.Copy(ids[0], ids[1]); err != nil {
					return err
				}
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Copied node %d under %d", ids[0], ids[1])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "copy the whole subtree")
	return cmd
}

// reorderCommand creates the ord command.
func (c *CLI) reorderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ord <node> <parent> <delta>",
		Short: "Reorder a node among its siblings",
		Long: `Shift a node by delta positions within a parent's child list.
Negative delta moves toward the front; the result is clamped to the
sibling range.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[2])
			if err != nil {
				return err
			}
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			ids, err := s.resolveAll(args[:2])
			if err != nil {
				return err
			}
			if err := s.graph.Reorder(ids[0], ids[1], delta); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Reordered node %d by %+d", ids[0], delta)
			return nil
		},
	}
	return cmd
}

// renameCommand creates the rename command.
func (c *CLI) renameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <node> <message>...",
		Short: "Replace a node's message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			id, err := s.resolveNode(args[0])
			if err != nil {
				return err
			}
			message := strings.Join(args[1:], " ")
			if err := s.graph.Rename(id, message); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Renamed node %d to %q", id, message)
			return nil
		},
	}
}
