package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pkoster/tangle/pkg/resolve"
)

// aliasCommand creates the alias command.
func (c *CLI) aliasCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "alias <node> <name>",
		Short: "Bind an alias to a node",
		Long: `Bind an alias to a node. Aliases are unique across the graph and
resolve before numeric indices and date expressions. Reserved date words
(today, weekday and month names) are refused unless --force is given,
since an alias shadowing them changes what identifiers mean.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[1]
			if resolve.IsKeyword(name) && !force {
				return fmt.Errorf("%q is a reserved date word; use --force to bind it anyway", name)
			}
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			id, err := s.resolveNode(args[0])
			if err != nil {
				return err
			}
			if err := s.graph.SetAlias(id, name); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Aliased node %d as %s", id, StyleAlias.Render(name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "allow reserved date words as aliases")
	return cmd
}

// unaliasCommand creates the unalias command.
func (c *CLI) unaliasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unalias <node>",
		Short: "Remove a node's alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			id, err := s.resolveNode(args[0])
			if err != nil {
				return err
			}
			if err := s.graph.ClearAlias(id); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Cleared alias on node %d", id)
			return nil
		},
	}
}

// aliasesCommand creates the aliases command.
func (c *CLI) aliasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "List all aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			index := s.graph.AliasIndex()
			if len(index) == 0 {
				printInfo("No aliases")
				return nil
			}
			names := make([]string, 0, len(index))
			for a := range index {
				names = append(names, a)
			}
			sort.Strings(names)
			for _, a := range names {
				n, _ := s.graph.Node(index[a])
				fmt.Println(StyleAlias.Render(a) + " " + StyleDim.Render(fmt.Sprintf("#%d", n.ID)) + " " + n.Message)
			}
			return nil
		},
	}
}
