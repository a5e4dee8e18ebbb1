// Package commands defines all Cobra CLI commands for the lawrag binary.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/lawrag/lawrag/internal/audit"
	"github.com/lawrag/lawrag/internal/config"
	"github.com/lawrag/lawrag/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lawrag",
		Short: "lawrag — retrieval strategies and evaluation for statutory QA",
		Long: `lawrag indexes labor-law statutes into a Qdrant vector store and measures
how well different retrieval strategies surface the right articles for a
labeled set of questions.

Strategies are addressed by version token (naive, parent-child-fine,
parent-child-coarse). Each version indexes into its own collection, so
evaluation runs against different corpus layouts never interfere.

Configuration comes from env vars or a YAML config file
(~/.lawrag/config.yaml). See 'lawrag --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.lawrag/config.yaml)")

	root.AddCommand(
		NewEvalCmd(),
		NewQueryCmd(),
		NewIngestCmd(),
		NewRunsCmd(),
		NewVersionCmd(),
	)

	return root
}
