package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/itemquery/internal/cli"
	"github.com/Veraticus/itemquery/internal/engine"
	"github.com/Veraticus/itemquery/internal/model"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [item-file]",
		Short: "Build a trade query from copied item text",
		Long: `Parse item text and print the trade query it produces.

The text is read from the clipboard with --clipboard, from the given file,
or from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().Bool("clipboard", false, "Read the item from the clipboard")
	cmd.Flags().Bool("json", false, "Print the trade request JSON")
	cmd.Flags().Bool("explain", false, "Show matched modifiers, unmatched lines and suggestions")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	useClipboard, _ := cmd.Flags().GetBool("clipboard")
	asJSON, _ := cmd.Flags().GetBool("json")
	explain, _ := cmd.Flags().GetBool("explain")

	ctx := cmd.Context()

	src := cli.InputSource{Clipboard: useClipboard, Stdin: cmd.InOrStdin()}
	if len(args) == 1 {
		src.Path = args[0]
	}
	raw, err := cli.ReadItem(ctx, src)
	if err != nil {
		return err
	}

	eng, err := buildEngine(ctx, appConfig)
	if err != nil {
		return err
	}

	q, result, err := eng.Parse(ctx, raw)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, q.Request())
	}

	printParse(out, q, result)
	if explain {
		printExplain(out, eng, result)
	}
	return nil
}

func printParse(out io.Writer, q *model.Query, result *engine.Result) {
	_, _ = fmt.Fprintln(out, cli.RenderHeader(result.Header))
	_, _ = fmt.Fprintln(out, cli.RenderQuery(q))
}

func printExplain(out io.Writer, eng *engine.Engine, result *engine.Result) {
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, cli.RenderSummary(result.Modifiers, result.Unmatched))
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, cli.StyleTitle("Modifiers"))
	_, _ = fmt.Fprintln(out, cli.RenderModifiers(result.Modifiers))

	if len(result.Unmatched) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, cli.RenderUnmatched(result.Unmatched))
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, cli.StyleTitle("Closest stats"))
	_, _ = fmt.Fprintln(out, cli.RenderSuggestions(eng.Suggest(result)))
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
