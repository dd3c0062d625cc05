package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/ingest"
	"github.com/pow3r-build/constellation/pkg/model"
)

// ingestCommand creates the ingest command for loading status feeds.
func (c *CLI) ingestCommand() *cobra.Command {
	var (
		output  string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "ingest [data.json]",
		Short: "Load a project status feed into the canonical model",
		Long: `Load a project status feed into the canonical model.

The input may use any of the supported schema versions: v1 (nodes with
legacy color statuses), v2 (assets with phase/completeness), or v3 (assets
with state/progress). Projects may arrive as a bare array or wrapped in a
{"projects": [...]} document.

With --output, the canonical model is written as JSON for consumption by
other tools. Without it, a per-project summary table is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIngest(args[0], output, summary)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write canonical model JSON to file")
	cmd.Flags().BoolVar(&summary, "summary", true, "print the per-project summary table")

	return cmd
}

func (c *CLI) runIngest(input, output string, summary bool) error {
	prog := newProgress(c.Logger)

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer f.Close()

	m, diag, err := ingest.ReadJSON(f, c.Logger)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeNoData) {
			printWarning("no project data in %s", input)
			return nil
		}
		return err
	}
	prog.done(fmt.Sprintf("Ingested %d projects", m.ClusterCount()))

	if diag.DroppedEdges > 0 {
		printWarning("dropped %d edges with unresolved endpoints", diag.DroppedEdges)
	}
	if diag.DefaultedStatuses > 0 {
		printDetail("%d nodes defaulted to backlogged", diag.DefaultedStatuses)
	}

	if summary {
		printModelSummary(m)
	}
	printStats(m.ClusterCount(), m.NodeCount(), m.EdgeCount())

	if output != "" {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal model: %w", err)
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printFile(output)
	}

	printNextStep("Explore interactively", appName+" browse "+input)
	return nil
}

// printModelSummary renders a per-project table with status breakdowns.
func printModelSummary(m *model.Model) {
	rows := make([][]string, 0, m.ClusterCount())
	for _, cluster := range m.Clusters {
		counts := make(map[model.Status]int)
		for _, n := range m.ClusterNodes(cluster.ID) {
			counts[n.Status]++
		}

		var breakdown string
		for _, s := range model.Statuses() {
			if counts[s] == 0 {
				continue
			}
			if breakdown != "" {
				breakdown += "  "
			}
			breakdown += fmt.Sprintf("%s %d", renderStatus(s), counts[s])
		}

		rows = append(rows, []string{
			cluster.Name,
			renderStatus(cluster.Status),
			fmt.Sprintf("%d", len(cluster.NodeIDs)),
			breakdown,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Project", "Status", "Nodes", "Breakdown").
		Rows(rows...)
	fmt.Println(t)
}
