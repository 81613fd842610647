package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoster/tangle/pkg/graph"
	"github.com/pkoster/tangle/pkg/resolve"
)

// listCommand creates the ls command.
func (c *CLI) listCommand() *cobra.Command {
	var (
		depth    int
		archived bool
	)

	cmd := &cobra.Command{
		Use:   "ls [target]",
		Short: "List the graph as a tree",
		Long: `List the graph as an indented tree.

Without a target every root is shown. With a target only that node's
subtree is shown. Cycles are cut with a (cycle) marker; a node under
several parents branches with +.. instead of +--.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			opts := graph.WalkOptions{MaxDepth: depth, ShowArchived: archived}
			r := c.newTreeRenderer(os.Stdout, s.graph)

			if len(args) == 1 {
				id, err := s.resolveNode(args[0])
				if err != nil {
					return err
				}
				return r.renderSubtree(id, opts)
			}
			if len(s.graph.Roots()) == 0 {
				printInfo("Graph is empty")
				return nil
			}
			r.renderRoots(opts)
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "limit tree depth (0 = unbounded)")
	cmd.Flags().BoolVarP(&archived, "archived", "a", false, "include archived nodes")
	return cmd
}

// listDatesCommand creates the lsd command.
func (c *CLI) listDatesCommand() *cobra.Command {
	var archived bool

	cmd := &cobra.Command{
		Use:   "lsd",
		Short: "List date nodes in calendar order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			dates := s.graph.DateNodes()
			if len(dates) == 0 {
				printInfo("No date nodes")
				return nil
			}
			r := c.newTreeRenderer(os.Stdout, s.graph)
			opts := graph.WalkOptions{ShowArchived: archived}
			for _, id := range dates {
				if err := r.renderSubtree(id, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&archived, "archived", "a", false, "include archived nodes")
	return cmd
}

// listArchivedCommand creates the lsa command.
func (c *CLI) listArchivedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsa",
		Short: "List archived nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			ids := s.graph.ArchivedNodes()
			if len(ids) == 0 {
				printInfo("No archived nodes")
				return nil
			}
			r := c.newTreeRenderer(os.Stdout, s.graph)
			for _, id := range ids {
				n, _ := s.graph.Node(id)
				fmt.Println(r.nodeLine(n, false))
			}
			return nil
		},
	}
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show graph statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			st := s.graph.ComputeStats()
			fmt.Println(StyleTitle.Render("Graph statistics"))
			printKeyValue("file", s.path)
			printKeyValue("nodes", strconv.Itoa(st.Nodes))
			printKeyValue("checked", strconv.Itoa(st.Checked))
			printKeyValue("roots", strconv.Itoa(st.Roots))
			printKeyValue("dates", strconv.Itoa(st.Dates))
			printKeyValue("archived", strconv.Itoa(st.Archived))
			printKeyValue("aliases", strconv.Itoa(st.Aliases))
			printKeyValue("tombstones", fmt.Sprintf("%d (%.0f%%)", st.Tombstones, s.graph.TombstoneRatio()*100))
			return nil
		},
	}
}

// calendarCommand creates the cal command.
func (c *CLI) calendarCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cal [month]",
		Short: "Show a month calendar of date nodes",
		Long: `Show a month calendar. Days with a date node are highlighted by
their aggregated completion state. Defaults to the current month; a month
name or abbreviation selects another month of this year.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}

			now := time.Now()
			first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
			if len(args) == 1 {
				day, err := resolve.Date(args[0])
				if err != nil {
					return err
				}
				t, _ := time.Parse(resolve.DayFormat, day)
				first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
			}

			c.printCalendar(s, first, now)
			return nil
		},
	}
}

func (c *CLI) printCalendar(s *session, first, today time.Time) {
	fmt.Println(StyleTitle.Render(first.Format("January 2006")))
	fmt.Println(StyleDim.Render("Mo Tu We Th Fr Sa Su"))

	// Monday-first column index of the 1st.
	col := (int(first.Weekday()) + 6) % 7
	var line strings.Builder
	line.WriteString(strings.Repeat("   ", col))

	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		cell := fmt.Sprintf("%2d", day.Day())
		if id, ok := s.graph.ResolveDate(day.Format(resolve.DayFormat)); ok {
			state, _ := s.graph.StateWith(id, c.aggregateOptions())
			switch state {
			case graph.StateChecked:
				cell = styleStateChecked.Render(cell)
			case graph.StatePartial:
				cell = styleStatePartial.Render(cell)
			default:
				cell = StyleDate.Render(cell)
			}
		} else if day.Year() == today.Year() && day.YearDay() == today.YearDay() {
			cell = StyleTitle.Render(cell)
		} else {
			cell = StyleDim.Render(cell)
		}
		line.WriteString(cell)
		col++
		if col == 7 {
			fmt.Println(line.String())
			line.Reset()
			col = 0
		} else {
			line.WriteByte(' ')
		}
	}
	if line.Len() > 0 {
		fmt.Println(line.String())
	}
}
