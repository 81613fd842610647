// Package cli implements the tangle command-line interface.
//
// Every invocation follows the same shape: load the graph file, run one
// command against the in-memory graph, and save the file back if the command
// mutated anything. Saves are atomic, so an interrupted command leaves the
// previous graph intact.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/pkoster/tangle/pkg/blueprint"
	"github.com/pkoster/tangle/pkg/buildinfo"
	"github.com/pkoster/tangle/pkg/config"
	"github.com/pkoster/tangle/pkg/doc"
	"github.com/pkoster/tangle/pkg/graph"
	"github.com/pkoster/tangle/pkg/resolve"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg        config.Config
	configPath string // --config override, empty for the default
	useLocal   bool   // --local
	useGlobal  bool   // --global
	preferDate bool   // -D: try the date reading of identifiers first
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		cfg: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "tangle",
		Short:        "Tangle tracks tasks as a graph instead of a list",
		Long:         `Tangle is a personal task tracker built on a multigraph: a task can live under several parents, hang off a calendar date, and roll its children's completion up on demand.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default ~/"+config.FileName+")")
	pf.BoolVar(&c.useLocal, "local", false, "operate on ./"+doc.FileName+" in the working directory")
	pf.BoolVar(&c.useGlobal, "global", false, "operate on ~/"+doc.FileName+" even if a local file exists")
	pf.BoolVarP(&c.preferDate, "prefer-date", "D", false, "resolve ambiguous identifiers as dates before node indices")

	root.AddCommand(c.addCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.listDatesCommand())
	root.AddCommand(c.listArchivedCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.calendarCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.unlinkCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.copyCommand())
	root.AddCommand(c.reorderCommand())
	root.AddCommand(c.renameCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.uncheckCommand())
	root.AddCommand(c.archiveCommand())
	root.AddCommand(c.unarchiveCommand())
	root.AddCommand(c.aliasCommand())
	root.AddCommand(c.unaliasCommand())
	root.AddCommand(c.aliasesCommand())
	root.AddCommand(c.randCommand())
	root.AddCommand(c.cleanCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.vizCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.blueprintCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg

	switch cfg.Display.Color {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	c.Logger.Debug("config loaded", "path", path)
	return nil
}

// =============================================================================
// Graph Sessions
// =============================================================================

// session is one load-mutate-save cycle over the graph file.
type session struct {
	cli   *CLI
	graph *graph.Graph
	path  string
}

// openGraph loads the graph file selected by the --local/--global flags.
func (c *CLI) openGraph() (*session, error) {
	if c.useLocal && c.useGlobal {
		return nil, fmt.Errorf("--local and --global are mutually exclusive")
	}
	path, err := doc.Discover(c.useLocal, c.useGlobal)
	if err != nil {
		return nil, err
	}
	g, err := doc.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("graph loaded", "path", path, "nodes", g.NodeCount())
	return &session{cli: c, graph: g, path: path}, nil
}

// save persists the graph, compacting first when auto-compaction is on and
// the tombstone ratio crossed the configured threshold.
func (s *session) save() error {
	cfg := s.cli.cfg.Graph
	if cfg.AutoCompact {
		threshold := float64(cfg.CompactThreshold) / 100
		if ratio := s.graph.TombstoneRatio(); ratio > threshold {
			reclaimed := s.graph.Compact()
			s.cli.Logger.Debug("auto-compacted", "reclaimed", reclaimed, "ratio", ratio)
		}
	}
	if err := doc.Save(s.graph, s.path); err != nil {
		return fmt.Errorf("save graph: %w", err)
	}
	s.cli.Logger.Debug("graph saved", "path", s.path)
	return nil
}

// resolveNode turns a user-supplied identifier into a node id, honoring the
// --prefer-date flag.
func (s *session) resolveNode(token string) (graph.NodeID, error) {
	return resolve.Node(s.graph, token, s.cli.preferDate)
}

// resolveAll resolves a list of identifiers, failing on the first bad one.
func (s *session) resolveAll(tokens []string) ([]graph.NodeID, error) {
	ids := make([]graph.NodeID, len(tokens))
	for i, tok := range tokens {
		id, err := s.resolveNode(tok)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// aggregateOptions maps the configured archive policy onto the engine's
// aggregation options.
func (c *CLI) aggregateOptions() graph.AggregateOptions {
	return graph.AggregateOptions{IncludeArchived: c.cfg.Graph.CountArchived}
}

// blueprintStore opens the configured blueprint store.
func (c *CLI) blueprintStore() (*blueprint.Store, error) {
	dir, err := c.cfg.BlueprintDir()
	if err != nil {
		return nil, err
	}
	return blueprint.NewStore(dir), nil
}

// author returns the blueprint author recorded on save: the OS user name, or
// empty when unavailable.
func author() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return os.Getenv("USERNAME")
}
