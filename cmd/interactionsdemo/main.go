// Command interactionsdemo is a small host process exercising the
// interactions framework end to end: it wires an example ModuleSource
// and, through its sync subcommand, syncs commands to a guild/global
// scope via the facade's sync engine.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logger     = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

func main() {
	slog.SetDefault(logger)

	root := buildRootCmd()
	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "interactionsdemo",
		Short:        "Example host for the interactions command framework",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the demo's YAML config file")

	root.AddCommand(buildSyncCmd())
	return root
}

func buildSyncCmd() *cobra.Command {
	var global bool
	var guildID string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the example module tree against discord's registered commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDemoConfig(configPath)
			if err != nil {
				return err
			}
			if guildID == "" {
				guildID = cfg.GuildID
			}
			if !global && guildID == "" {
				return fmt.Errorf("either --global or --guild (or guild_id in %s) is required", configPath)
			}

			facade, session, err := newDemoFacade(cfg)
			if err != nil {
				return err
			}
			defer session.Close()

			scope := guildID
			if global {
				scope = ""
			}
			if err := facade.SyncCommands(cmd.Context(), scope, true); err != nil {
				return fmt.Errorf("sync commands: %w", err)
			}

			stats := facade.Stats()
			slog.Info("synced commands",
				"global", global,
				"guild", guildID,
				"slash_commands", stats.SlashCommands,
				"context_commands", stats.ContextCommands,
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "sync to the global command scope instead of a guild")
	cmd.Flags().StringVar(&guildID, "guild", "", "guild id to sync to (defaults to guild_id in the config file)")
	return cmd
}
