// Package report renders analysis results as plain-text takeoff sheets
// suitable for printing or pasting into a bid packet.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fieldwise/takeoff/internal/engine"
)

// Render formats a single analysis result as a takeoff sheet.
func Render(result *engine.AnalysisResult) string {
	var sb strings.Builder

	header := fmt.Sprintf("TAKEOFF SHEET - %s", result.Filename)
	sb.WriteString(header)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("=", len(header)))
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Pages analyzed: %d\n", result.Pages)
	fmt.Fprintf(&sb, "Analyzed at:    %s\n", result.AnalyzedAt.Format("2006-01-02 15:04 MST"))
	sb.WriteByte('\n')

	sb.WriteString("PANELS\n")
	if len(result.PanelsDetected) == 0 {
		sb.WriteString("  (none detected)\n")
	}
	for _, p := range result.PanelsDetected {
		fmt.Fprintf(&sb, "  %-12s %-18s pages %s\n", p.Name, p.Type, pageList(p.SourcePages))
	}
	fmt.Fprintf(&sb, "  Circuits counted: %d\n", result.CircuitsCount)
	sb.WriteByte('\n')

	sb.WriteString("CONDUIT\n")
	if len(result.ConduitRuns) == 0 {
		sb.WriteString("  (none detected)\n")
	}
	for _, run := range result.ConduitRuns {
		fmt.Fprintf(&sb, "  %-6s %-8s %d runs\n", run.Type, run.Size, run.RunCount)
	}
	sb.WriteByte('\n')

	sb.WriteString("MATERIAL ESTIMATE\n")
	if len(result.Materials) == 0 {
		sb.WriteString("  (nothing to order)\n")
	}
	for _, item := range sortedItems(result.Materials) {
		fmt.Fprintf(&sb, "  %-42s %6d\n", item, result.Materials[item])
	}
	sb.WriteByte('\n')

	if len(result.FlaggedIssues) > 0 {
		sb.WriteString("FLAGGED FOR REVIEW\n")
		for _, msg := range result.FlaggedIssues {
			fmt.Fprintf(&sb, "  %s\n", msg)
		}
		sb.WriteByte('\n')
	}

	if len(result.Notes) > 0 {
		sb.WriteString("NOTES\n")
		for _, note := range result.Notes {
			fmt.Fprintf(&sb, "  %s\n", note)
		}
	}

	return sb.String()
}

// RenderBatch formats a batch result: one summary block followed by a
// sheet per document.
func RenderBatch(batch *engine.BatchResult) string {
	var sb strings.Builder

	header := fmt.Sprintf("BATCH TAKEOFF - %d drawing sets", batch.TotalFiles)
	sb.WriteString(header)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("=", len(header)))
	sb.WriteByte('\n')

	sb.WriteString("COMBINED MATERIAL ESTIMATE\n")
	if len(batch.TotalMaterials) == 0 {
		sb.WriteString("  (nothing to order)\n")
	}
	for _, item := range sortedItems(batch.TotalMaterials) {
		fmt.Fprintf(&sb, "  %-42s %6d\n", item, batch.TotalMaterials[item])
	}

	if len(batch.IssueCategories) > 0 {
		fmt.Fprintf(&sb, "Issue categories: %s\n", strings.Join(batch.IssueCategories, ", "))
	}
	sb.WriteByte('\n')

	for _, result := range batch.Results {
		sb.WriteString(Render(result))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func sortedItems(materials map[string]int) []string {
	items := make([]string, 0, len(materials))
	for item := range materials {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

func pageList(pages []int) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, fmt.Sprintf("%d", p))
	}
	return strings.Join(parts, ", ")
}
