package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/itemquery/internal/catalog"
	"github.com/Veraticus/itemquery/internal/cli"
	"github.com/Veraticus/itemquery/internal/common"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the stat catalog",
		Long:  `Import, inspect and search the stat catalog that modifiers are matched against.`,
	}

	cmd.AddCommand(catalogImportCmd())
	cmd.AddCommand(catalogCheckCmd())
	cmd.AddCommand(catalogSearchCmd())
	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogPruneCmd())

	return cmd
}

func catalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Store the catalog files as a new snapshot",
		Long: `Read the stats and filters files given with --stats and --filters and store
them in the snapshot database. Parsing then works without the files. An
import identical to the newest snapshot is skipped.`,
		RunE: runCatalogImport,
	}
}

func runCatalogImport(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	if !cfg.UsesFiles() {
		return common.NewUserError("catalog import needs --stats", common.ErrMissingConfig)
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), true)

	cat, err := catalog.LoadFiles(cfg.StatsPath, cfg.FiltersPath)
	if err != nil {
		return err
	}
	_, warnings, err := catalog.Compile(ctx, cat, catalog.DefaultOptions())
	if err != nil {
		return err
	}
	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(fmt.Sprintf("%d stat templates could not be compiled", len(warnings))))
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	progress := cli.NewImportProgress(cmd.ErrOrStderr())
	snapshot, created, err := store.SaveCatalog(ctx, cat, cfg.StatsPath, progress.Update)
	progress.Finish()
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return err
	}

	out := cmd.OutOrStdout()
	if !created {
		_, _ = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Catalog unchanged; snapshot %d is current", snapshot.ID)))
		return nil
	}
	_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported snapshot %d with %d stats", snapshot.ID, snapshot.Entries)))

	pruned, err := store.PruneSnapshots(ctx, cfg.KeepSnapshots)
	if err != nil {
		return err
	}
	if pruned > 0 {
		slog.Info("Pruned old catalog snapshots", "count", pruned, "kept", cfg.KeepSnapshots)
	}
	return nil
}

func catalogCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compile the catalog and report templates that fail",
		RunE: func(cmd *cobra.Command, _ []string) error {
			compiled, warnings, err := compileCatalog(cmd.Context(), appConfig)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, w := range warnings {
				_, _ = fmt.Fprintln(out, cli.FormatWarning(w.String()))
			}
			_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%d patterns compiled, longest template spans %d lines", compiled.Len(), compiled.MaxLines())))
			if len(warnings) > 0 {
				return fmt.Errorf("%d of the catalog's templates failed to compile", len(warnings))
			}
			return nil
		},
	}
}

func catalogSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Find catalog stats by text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			compiled, _, err := compileCatalog(cmd.Context(), appConfig)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSearchHits(compiled.Search(args[0], limit)))
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of results")

	return cmd
}

func catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored catalog snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx, appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snapshots, err := store.ListSnapshots(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSnapshots(snapshots))
			return nil
		},
	}
}

func catalogPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest catalog snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			keep, _ := cmd.Flags().GetInt("keep")
			if keep == 0 {
				keep = appConfig.KeepSnapshots
			}

			ctx := cmd.Context()
			store, err := openStore(ctx, appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			pruned, err := store.PruneSnapshots(ctx, keep)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %d snapshots", pruned)))
			return nil
		},
	}

	cmd.Flags().Int("keep", 0, "Snapshots to keep (default from catalog.keep_snapshots)")

	return cmd
}
