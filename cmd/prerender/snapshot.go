package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/prerender/internal/config"
	"github.com/vango-dev/prerender/internal/errors"
	"github.com/vango-dev/prerender/pkg/snapshot"
)

func snapshotCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect stored renders",
		Long: `Inspect renders kept in the configured snapshot store.

Examples:
  prerender snapshot list
  prerender snapshot show home
  prerender snapshot delete home`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List snapshot keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, *configPath, func(ctx context.Context, _ *config.Config, store snapshot.Store) error {
					keys, err := store.List(ctx)
					if err != nil {
						return err
					}
					if len(keys) == 0 {
						info(cmd.ErrOrStderr(), "No snapshots stored")
					}
					for _, key := range keys {
						fmt.Fprintln(cmd.OutOrStdout(), key)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show <key>",
			Short: "Print a snapshot's markup with its cache data",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, *configPath, func(ctx context.Context, cfg *config.Config, store snapshot.Store) error {
					snap, err := store.Get(ctx, args[0])
					if err != nil {
						return err
					}
					return writeOutput(cmd.OutOrStdout(), "", snap.MarkupWithCacheData(embedOptions(cfg)))
				})
			},
		},
		&cobra.Command{
			Use:   "delete <key>",
			Short: "Remove a snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, *configPath, func(ctx context.Context, _ *config.Config, store snapshot.Store) error {
					if err := store.Delete(ctx, args[0]); err != nil {
						return err
					}
					success(cmd.ErrOrStderr(), "Deleted snapshot %s", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

// withStore opens the configured store and runs fn, wrapping store
// failures in a coded error.
func withStore(cmd *cobra.Command, configPath string, fn func(context.Context, *config.Config, snapshot.Store) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := fn(ctx, cfg, store); err != nil {
		return errors.FromError(err, errors.CodeSnapshotFailed).
			WithSuggestion("Check the snapshot section of " + config.ConfigFileName)
	}
	return nil
}
