package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pkoster/tangle/pkg/doc"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the graph as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			return doc.ExportJSON(s.graph, os.Stdout)
		},
	}
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Replace the graph with JSON read from stdin",
		Long: `Replace the graph file with a document read from stdin, in the
format produced by export. The existing graph is overwritten only after
the input parses and validates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := doc.ImportJSON(os.Stdin)
			if err != nil {
				return err
			}
			path, err := doc.Discover(c.useLocal, c.useGlobal)
			if err != nil {
				return err
			}
			if err := doc.Save(g, path); err != nil {
				return err
			}
			printSuccess("Imported %d node(s) into %s", g.NodeCount(), path)
			return nil
		},
	}
}
