package cli

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/pkoster/tangle/pkg/graph"
)

// randCommand creates the rand command.
func (c *CLI) randCommand() *cobra.Command {
	var (
		checkedOnly   bool
		uncheckedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "rand [parent]",
		Short: "Pick a random child of a node",
		Long: `Pick one direct child of the given parent uniformly at random.
Without a parent the pick is among the graph's roots. The candidate set
can be narrowed to checked or unchecked nodes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := graph.FilterAll
			if checkedOnly {
				filter = graph.FilterChecked
			}
			if uncheckedOnly {
				filter = graph.FilterUnchecked
			}

			s, err := c.openGraph()
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			var id graph.NodeID
			if len(args) == 1 {
				parent, err := s.resolveNode(args[0])
				if err != nil {
					return err
				}
				id, err = s.graph.Pick(rng, parent, filter)
				if err != nil {
					return err
				}
			} else {
				id, err = s.graph.PickRoot(rng, filter)
				if err != nil {
					return err
				}
			}

			n, _ := s.graph.Node(id)
			state, _ := s.graph.StateWith(id, c.aggregateOptions())
			fmt.Println(stateIcon(n.Kind, state) + " " + n.Message + " " + StyleDim.Render(fmt.Sprintf("#%d", n.ID)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&checkedOnly, "checked", "c", false, "pick only among checked nodes")
	cmd.Flags().BoolVarP(&uncheckedOnly, "unchecked", "u", false, "pick only among unchecked nodes")
	cmd.MarkFlagsMutuallyExclusive("checked", "unchecked")
	return cmd
}

// cleanCommand creates the clean command.
func (c *CLI) cleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Compact the node table",
		Long: `Compact the node table, reclaiming tombstoned slots left behind by
removals. Node ids are renumbered densely; aliases keep working, but any
numeric ids noted down elsewhere are stale after a clean.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			reclaimed := s.graph.Compact()
			if reclaimed == 0 {
				printInfo("Nothing to reclaim")
				return nil
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Reclaimed %d slot(s)", reclaimed)
			return nil
		},
	}
}
