package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/itemquery/internal/catalog"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/pattern"
	"github.com/Veraticus/itemquery/internal/reconcile"
)

// RenderQuery renders the assembled query as an indented summary. Disabled
// entries are dimmed so the user can see what was left out of the search.
func RenderQuery(q *model.Query) string {
	var sb strings.Builder

	if q.Name != "" {
		sb.WriteString(toggleLine(q.NameEnabled, "name", q.Name) + "\n")
	}
	if q.Type != "" {
		sb.WriteString(toggleLine(q.TypeEnabled, "type", q.Type) + "\n")
	}

	groups := make([]string, 0, len(q.Groups))
	for name := range q.Groups {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	for _, name := range groups {
		g := q.Groups[name]
		sb.WriteString(toggleLine(g.Enabled, BoldStyle.Render(name), "") + "\n")

		fields := make([]string, 0, len(g.Filters))
		for field := range g.Filters {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			f := g.Filters[field]
			sb.WriteString("  " + toggleLine(f.Enabled, field, formatField(f)) + "\n")
		}
	}

	for _, g := range q.Stats {
		label := g.Type
		if g.Type == model.StatGroupCount && g.Value.Min != nil {
			label += " >= " + formatNumber(*g.Value.Min)
		}
		sb.WriteString(toggleLine(g.Enabled, BoldStyle.Render("stats ("+label+")"), "") + "\n")
		for _, f := range g.Filters {
			detail := fmt.Sprintf("%s %s", f.ID, formatRange(f.Value))
			sb.WriteString("  " + toggleLine(f.Enabled, string(f.Category), strings.TrimSpace(detail)) + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// RenderHeader renders the item name in its rarity color over a subtitle
// naming the class, trade category and rarity.
func RenderHeader(h *model.ItemHeader) string {
	title := h.TypeLine
	if h.Name != "" {
		title = h.Name + " " + title
	}
	subtitle := fmt.Sprintf("%s · %s · %s", h.Class, h.CategoryID, h.Rarity)
	return lipgloss.JoinVertical(lipgloss.Left,
		RarityStyle(h.Rarity).Render(ItemIcon+" "+title),
		SubtitleStyle.Render(subtitle),
	)
}

// RenderSummary boxes the match counts of a parse: how many modifiers each
// matcher pass resolved and how many lines were left over.
func RenderSummary(mods []model.MatchedModifier, unmatched []string) string {
	counts := make(map[model.MatchStrategy]int)
	for _, m := range mods {
		counts[m.Strategy]++
	}
	lines := []string{
		fmt.Sprintf("modifiers: %d", len(mods)),
		fmt.Sprintf("  exact: %d  regex: %d  fuzzy: %d",
			counts[model.StrategyExact], counts[model.StrategyRegex], counts[model.StrategyFuzzy]),
	}
	unmatchedLine := fmt.Sprintf("unmatched lines: %d", len(unmatched))
	if len(unmatched) > 0 {
		unmatchedLine = WarningStyle.Render(unmatchedLine)
	}
	lines = append(lines, unmatchedLine)
	return RenderBox("Parse summary", strings.Join(lines, "\n"))
}

// RenderModifiers renders matched modifiers as a table.
func RenderModifiers(mods []model.MatchedModifier) string {
	if len(mods) == 0 {
		return SubtleStyle.Render("no modifiers matched")
	}

	rows := make([][]string, 0, len(mods))
	for _, m := range mods {
		rows = append(rows, []string{
			string(m.Category),
			string(m.Strategy),
			m.StatID,
			formatRange(m.Original),
			m.RawText,
		})
	}
	return renderTable([]string{"CATEGORY", "MATCH", "STAT", "VALUE", "TEXT"}, rows)
}

// RenderUnmatched lists lines nothing claimed.
func RenderUnmatched(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(FormatWarning(fmt.Sprintf("%d unmatched lines", len(lines))))
	for _, line := range lines {
		sb.WriteString("\n  " + SubtleStyle.Render(line))
	}
	return sb.String()
}

// RenderSuggestions renders the closest catalog stats for unmatched lines.
func RenderSuggestions(suggestions []pattern.Suggestion) string {
	if len(suggestions) == 0 {
		return SubtleStyle.Render("no suggestions")
	}

	rows := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		rows = append(rows, []string{
			strconv.FormatFloat(s.Score, 'f', 2, 64),
			string(s.Category),
			s.StatID,
			s.Text,
			s.Template,
		})
	}
	return renderTable([]string{"SCORE", "CATEGORY", "STAT", "LINE", "TEMPLATE"}, rows)
}

// RenderReconciled renders listing modifiers with their delta from the search.
func RenderReconciled(mods []reconcile.Reconciled) string {
	if len(mods) == 0 {
		return SubtleStyle.Render("listing has no indexed modifiers")
	}

	var sb strings.Builder
	for i, m := range mods {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(SubtleStyle.Render(fmt.Sprintf("%-9s", m.Category)) + " " + m.Text)
		if m.Delta != nil {
			style := SuccessStyle
			arrow := "▲"
			if m.Delta.Direction == reconcile.Lower {
				style = ErrorStyle
				arrow = "▼"
			}
			sb.WriteString(" " + style.Render(fmt.Sprintf("%s %d%%", arrow, m.Delta.Percent)))
		}
	}
	return sb.String()
}

// RenderSearchHits renders catalog search results.
func RenderSearchHits(hits []catalog.SearchHit) string {
	if len(hits) == 0 {
		return SubtleStyle.Render("no stats found")
	}

	rows := make([][]string, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, []string{string(h.Pattern.Category), h.Pattern.ID, h.Pattern.FuzzyDocText})
	}
	return renderTable([]string{"CATEGORY", "STAT", "TEXT"}, rows)
}

// RenderSnapshots renders stored catalog snapshots, newest first.
func RenderSnapshots(snapshots []model.CatalogSnapshot) string {
	if len(snapshots) == 0 {
		return SubtleStyle.Render("no catalog snapshots stored")
	}

	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		checksum := s.Checksum
		if len(checksum) > 12 {
			checksum = checksum[:12]
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.ImportedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(s.Entries),
			checksum,
			s.Source,
		})
	}
	return renderTable([]string{"ID", "IMPORTED", "ENTRIES", "CHECKSUM", "SOURCE"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(headers, TableHeaderStyle))
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func toggleLine(enabled bool, label, detail string) string {
	icon := SuccessStyle.Render(EnabledIcon)
	if !enabled {
		icon = SubtleStyle.Render(DisabledIcon)
		label = SubtleStyle.Render(label)
	}
	if detail == "" {
		return icon + " " + label
	}
	return icon + " " + label + ": " + detail
}

func formatField(f *model.FilterField) string {
	if f.Option != "" {
		return f.Option
	}
	return formatRange(model.Range{Min: f.Min, Max: f.Max})
}

func formatRange(r model.Range) string {
	switch {
	case r.Min != nil && r.Max != nil:
		return formatNumber(*r.Min) + "-" + formatNumber(*r.Max)
	case r.Min != nil:
		return formatNumber(*r.Min) + "+"
	case r.Max != nil:
		return "<= " + formatNumber(*r.Max)
	}
	return ""
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
