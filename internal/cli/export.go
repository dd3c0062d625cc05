package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pow3r-build/constellation/pkg/export"
	"github.com/pow3r-build/constellation/pkg/ingest"
)

// exportCommand creates the export command for generating diagrams.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format   string
		output   string
		maxNodes int
	)

	cmd := &cobra.Command{
		Use:   "export [data.json]",
		Short: "Export a status feed as a Mermaid, DOT, or SVG diagram",
		Long: `Export a status feed as a shareable diagram.

The feed is ingested into the canonical model, then rendered as:
  - mermaid: a graph block for embedding in markdown
  - dot:     Graphviz DOT for further tooling
  - svg:     an SVG rendered through Graphviz

Without --output the diagram is written to stdout (svg excepted).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(args[0], format, output, maxNodes)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "output format: mermaid, dot, or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", export.DefaultMaxNodes, "cap the number of exported nodes")

	return cmd
}

func (c *CLI) runExport(input, format, output string, maxNodes int) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer f.Close()

	m, _, err := ingest.ReadJSON(f, c.Logger)
	if err != nil {
		return err
	}
	opts := export.Options{MaxNodes: maxNodes, IncludeHidden: true}

	var data []byte
	switch strings.ToLower(format) {
	case "mermaid":
		data = []byte(export.ToMermaid(m, opts) + "\n")
	case "dot":
		data = []byte(export.ToDOT(m, opts))
	case "svg":
		spinner := newSpinnerWithContext(context.Background(), "Rendering SVG...")
		spinner.Start()
		data, err = export.RenderSVG(export.ToDOT(m, opts))
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return fmt.Errorf("render svg: %w", err)
		}
		spinner.StopWithSuccess("Rendered SVG")
		if output == "" {
			output = strings.TrimSuffix(input, ".json") + ".svg"
		}
	default:
		return fmt.Errorf("unknown format %q (must be mermaid, dot, or svg)", format)
	}

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Exported %s diagram", format)
	printFile(output)
	return nil
}
