package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pkoster/tangle/pkg/blueprint"
	"github.com/pkoster/tangle/pkg/graph"
)

// blueprintCommand creates the bp command group.
func (c *CLI) blueprintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bp",
		Short: "Manage blueprints, reusable subtree templates",
	}

	cmd.AddCommand(c.blueprintSaveCommand())
	cmd.AddCommand(c.blueprintListCommand())
	cmd.AddCommand(c.blueprintShowCommand())
	cmd.AddCommand(c.blueprintInsertCommand())
	cmd.AddCommand(c.blueprintRemoveCommand())
	cmd.AddCommand(c.blueprintExportCommand())
	cmd.AddCommand(c.blueprintEditCommand())

	return cmd
}

// blueprintSaveCommand creates the "bp save" subcommand.
func (c *CLI) blueprintSaveCommand() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "save <node> <name>",
		Short: "Save a subtree as a blueprint",
		Long: `Extract the subtree under a node into a named blueprint. Aliases
and archived flags stay behind; by default the subtree is removed from
the graph afterwards, --keep leaves it in place.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			store, err := c.blueprintStore()
			if err != nil {
				return err
			}
			id, err := s.resolveNode(args[0])
			if err != nil {
				return err
			}
			d, err := blueprint.Extract(s.graph, id, args[1], author(), keep)
			if err != nil {
				return err
			}
			if err := store.Save(d); err != nil {
				return err
			}
			if !keep {
				if err := s.save(); err != nil {
					return err
				}
			}
			printSuccess("Saved blueprint %q with %d node(s)", d.Name, len(d.Nodes))
			printDetail("%s", store.Path(d.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&keep, "keep", "k", false, "leave the subtree in the graph")
	return cmd
}

// blueprintListCommand creates the "bp ls" subcommand.
func (c *CLI) blueprintListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List stored blueprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.blueprintStore()
			if err != nil {
				return err
			}
			names, err := store.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No blueprints in %s", store.Dir())
				return nil
			}
			for _, name := range names {
				d, err := store.Load(name)
				if err != nil {
					printWarning("%s: %v", name, err)
					continue
				}
				line := StyleAlias.Render(name) + " " + StyleDim.Render(fmt.Sprintf("%d node(s)", len(d.Nodes)))
				if d.Author != "" {
					line += " " + StyleDim.Render("by "+d.Author)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

// blueprintShowCommand creates the "bp show" subcommand.
func (c *CLI) blueprintShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a blueprint as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.blueprintStore()
			if err != nil {
				return err
			}
			d, err := store.Load(args[0])
			if err != nil {
				return err
			}
			g, err := d.ToGraph()
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(d.Name))
			r := c.newTreeRenderer(os.Stdout, g)
			return r.renderSubtree(0, graph.WalkOptions{ShowArchived: true})
		},
	}
}

// blueprintInsertCommand creates the "bp ins" subcommand.
func (c *CLI) blueprintInsertCommand() *cobra.Command {
	var asRoot bool

	cmd := &cobra.Command{
		Use:   "ins <name> [parent]",
		Short: "Insert a blueprint into the graph",
		Long: `Transplant a blueprint under a parent node, or as a new root with
--root. Every inserted node gets a fresh id. If any date in the
blueprint already exists in the graph, nothing is inserted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !asRoot && len(args) != 2 {
				return fmt.Errorf("a parent is required unless --root is given")
			}
			store, err := c.blueprintStore()
			if err != nil {
				return err
			}
			d, err := store.Load(args[0])
			if err != nil {
				return err
			}
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			var parent graph.NodeID
			if !asRoot {
				parent, err = s.resolveNode(args[1])
				if err != nil {
					return err
				}
			}
			root, err := blueprint.Insert(s.graph, d, parent, asRoot)
			if err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Inserted blueprint %q, root is node %d", d.Name, root)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asRoot, "root", "r", false, "insert as a new root")
	return cmd
}

// blueprintRemoveCommand creates the "bp rm" subcommand.
func (c *CLI) blueprintRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a stored blueprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.blueprintStore()
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			printSuccess("Deleted blueprint %q", args[0])
			return nil
		},
	}
}

// blueprintExportCommand creates the "bp export" subcommand.
func (c *CLI) blueprintExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <name>",
		Short: "Write a blueprint as YAML to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.blueprintStore()
			if err != nil {
				return err
			}
			d, err := store.Load(args[0])
			if err != nil {
				return err
			}
			return yaml.NewEncoder(os.Stdout).Encode(d)
		},
	}
}

// blueprintEditCommand creates the "bp edit" subcommand.
func (c *CLI) blueprintEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <name>",
		Short: "Edit a blueprint interactively",
		Long: `Materialize a blueprint as a working graph and open it in the
interactive browser. Changes are written back to the blueprint file on
quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.blueprintStore()
			if err != nil {
				return err
			}
			d, err := store.Load(args[0])
			if err != nil {
				return err
			}
			g, err := d.ToGraph()
			if err != nil {
				return err
			}
			changed, err := c.runTUI(g)
			if err != nil {
				return err
			}
			if !changed {
				printInfo("No changes")
				return nil
			}
			out, err := d.FromGraph(g)
			if err != nil {
				return err
			}
			if err := store.Save(out); err != nil {
				return err
			}
			printSuccess("Updated blueprint %q", out.Name)
			return nil
		},
	}
}
