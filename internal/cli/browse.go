package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pow3r-build/constellation/pkg/engine"
	"github.com/pow3r-build/constellation/pkg/ingest"
)

// browseCommand creates the browse command for interactive exploration.
func (c *CLI) browseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [data.json]",
		Short: "Explore a project graph interactively in the terminal",
		Long: `Explore a project graph interactively.

The browser runs the same engine the 3D frontend uses: type to search,
cycle filter chips, switch transform modes, and collapse clusters. The node
list always reflects what the scene would show.

Keys:
  /         start typing a query (enter commits it to history, esc clears)
  tab       cycle filter chips (all, repos, nodes, statuses)
  m         cycle transform modes
  c         toggle cluster collapse
  up/down   move the selection
  enter     show details for the selected node
  q         quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd, args[0])
		},
	}
	return cmd
}

func (c *CLI) runBrowse(cmd *cobra.Command, input string) error {
	cfg, err := configFromCmd(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer f.Close()

	m, _, err := ingest.ReadJSON(f, c.Logger)
	if err != nil {
		return err
	}

	eng := engine.New(cfg.EngineConfig(), engine.WithLogger(c.Logger))
	if err := eng.Load(m); err != nil {
		return err
	}

	prog := tea.NewProgram(newBrowseModel(eng), tea.WithContext(cmd.Context()))
	_, err = prog.Run()
	return err
}
