package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/itemquery/internal/cli"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/reconcile"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile <listing.json>",
		Short: "Compare fetched listings with a parsed item",
		Long: `Map the modifiers of fetched trade listings back onto catalog templates.

The listing file holds one listing object or an array of them. When an item
is given with --item or --clipboard it is parsed first, and every listing
modifier with an enabled filter shows how far it rolled above or below it.`,
		Args: cobra.ExactArgs(1),
		RunE: runReconcile,
	}

	cmd.Flags().String("item", "", "Item text file to compare against")
	cmd.Flags().Bool("clipboard", false, "Read the item to compare against from the clipboard")
	cmd.Flags().Bool("json", false, "Print reconciled modifiers as JSON")

	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	itemPath, _ := cmd.Flags().GetString("item")
	useClipboard, _ := cmd.Flags().GetBool("clipboard")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()

	listings, err := readListings(args[0])
	if err != nil {
		return err
	}

	eng, err := buildEngine(ctx, appConfig)
	if err != nil {
		return err
	}

	var q *model.Query
	if itemPath != "" || useClipboard {
		raw, err := cli.ReadItem(ctx, cli.InputSource{Clipboard: useClipboard, Path: itemPath})
		if err != nil {
			return err
		}
		q, _, err = eng.Parse(ctx, raw)
		if err != nil {
			return err
		}
	}

	results := make([][]reconcile.Reconciled, len(listings))
	for i := range listings {
		results[i] = eng.Reconcile(&listings[i], q)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, results)
	}

	for i, listing := range listings {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		_, _ = fmt.Fprintln(out, cli.FormatTitle(listingTitle(listing)))
		_, _ = fmt.Fprintln(out, cli.RenderReconciled(results[i]))
	}
	return nil
}

// readListings decodes a single listing object or an array of listings.
func readListings(path string) ([]model.ResultItem, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read listing file: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []model.ResultItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to decode listings: %w", err)
		}
		return items, nil
	}

	var item model.ResultItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}
	return []model.ResultItem{item}, nil
}

func listingTitle(item model.ResultItem) string {
	if item.Name != "" {
		return item.Name + " " + item.TypeLine
	}
	return item.TypeLine
}
