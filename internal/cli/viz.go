package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkoster/tangle/pkg/doc"
	"github.com/pkoster/tangle/pkg/render"
)

// vizCommand creates the viz command.
func (c *CLI) vizCommand() *cobra.Command {
	var (
		format   string
		output   string
		archived bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Render the graph with Graphviz",
		Long: `Render the graph as a Graphviz diagram. DOT output goes to stdout
unless --output is given; svg and png always need --output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			dot := render.ToDOT(s.graph, render.Options{
				ShowArchived: archived,
				Detailed:     detailed,
			})

			switch strings.ToLower(format) {
			case "dot":
				if output == "" {
					fmt.Print(dot)
					return nil
				}
				if err := doc.WriteAtomic(output, []byte(dot)); err != nil {
					return err
				}
			case "svg", "png":
				if output == "" {
					return fmt.Errorf("--output is required for %s", format)
				}
				var data []byte
				if format == "svg" {
					data, err = render.SVG(cmd.Context(), dot)
				} else {
					data, err = render.PNG(cmd.Context(), dot)
				}
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
			default:
				return fmt.Errorf("unknown format %q (dot, svg, png)", format)
			}

			printSuccess("Rendered %d node(s)", s.graph.NodeCount())
			printDetail("%s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().BoolVarP(&archived, "archived", "a", false, "include archived nodes")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node ids and kinds in labels")
	return cmd
}
