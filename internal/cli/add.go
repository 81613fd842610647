package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkoster/tangle/pkg/resolve"
)

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	var (
		root   bool
		pseudo bool
		date   string
		parent string
	)

	cmd := &cobra.Command{
		Use:   "add <message>",
		Short: "Add a task node",
		Long: `Add a task node to the graph.

By default the node is attached under the parent given with --parent.
With --root it becomes a top-level node, and with --date it is attached
under the date node for the given date expression (created on demand).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			s, err := c.openGraph()
			if err != nil {
				return err
			}

			switch {
			case date != "":
				day, err := resolve.Date(date)
				if err != nil {
					return err
				}
				parentID, ok := s.graph.ResolveDate(day)
				if !ok {
					parentID, err = s.graph.AddDate(day, day)
					if err != nil {
						return err
					}
				}
				id, err := s.graph.AddChild(message, parentID, pseudo)
				if err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}
				printSuccess("Added %q under %s", message, StyleDate.Render(day))
				printDetail("id: %d", id)

			case root || parent == "":
				id := s.graph.AddRoot(message, pseudo)
				if err := s.save(); err != nil {
					return err
				}
				printSuccess("Added root %q", message)
				printDetail("id: %d", id)

			default:
				parentID, err := s.resolveNode(parent)
				if err != nil {
					return err
				}
				id, err := s.graph.AddChild(message, parentID, pseudo)
				if err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}
				p, _ := s.graph.Node(parentID)
				printSuccess("Added %q under %q", message, p.Message)
				printDetail("id: %d", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&root, "root", "r", false, "add as a top-level node")
	cmd.Flags().BoolVarP(&pseudo, "pseudo", "p", false, "add as a pseudo node, excluded from completion accounting")
	cmd.Flags().StringVarP(&date, "date", "d", "", "attach under the date node for this date expression")
	cmd.Flags().StringVarP(&parent, "parent", "t", "", "parent node identifier")
	cmd.MarkFlagsMutuallyExclusive("root", "date", "parent")

	return cmd
}
