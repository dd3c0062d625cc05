package cli

import (
	"github.com/spf13/cobra"

	"github.com/pow3r-build/constellation/pkg/buildinfo"
	"github.com/pow3r-build/constellation/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "Constellation lays out project graphs in 3D space",
		Long:         `Constellation ingests project status feeds and turns them into an explorable spatial graph: clusters per project, nodes per component, and typed edges between them, with transform modes, search, and filtering.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")

	root.AddCommand(c.ingestCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// configFromCmd loads the config referenced by the root --config flag.
func configFromCmd(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		path = ""
	}
	return config.Load(path)
}
