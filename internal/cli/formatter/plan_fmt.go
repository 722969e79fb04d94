package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/courseforge/courseforge/internal/domain"
	"github.com/courseforge/courseforge/internal/loader"
)

// FormatPlan renders a deployment plan batch by batch for dry-run
// inspection. Output is deterministic for identical input so plans can
// be diffed across invocations.
func FormatPlan(plan domain.DeploymentPlan, set *loader.CourseSet, excluded map[string]string) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("deployment plan: %d entities in %d batches",
		plan.EntityCount(), len(plan.Batches))))
	b.WriteString("\n")

	for i, batch := range plan.Batches {
		b.WriteString(fmt.Sprintf("%s\n", StyleBlue.Render(fmt.Sprintf("batch %d", i))))
		for _, id := range batch {
			kind := ""
			if e, ok := set.Get(id); ok {
				kind = string(e.Kind)
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", Bold(id), Dim(kind)))
		}
	}

	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for id := range excluded {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		b.WriteString("\n")
		b.WriteString(Header(fmt.Sprintf("%d entities excluded", len(ids))))
		b.WriteString("\n")
		for _, id := range ids {
			b.WriteString(fmt.Sprintf("  %s  %s\n", Bold(id), Dim(excluded[id])))
		}
	}
	return b.String()
}

// FormatCycles renders dependency cycle traces so the author can break
// them.
func FormatCycles(cycles [][]string) string {
	if len(cycles) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%d dependency cycles", len(cycles))))
	b.WriteString("\n")
	for _, cycle := range cycles {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			StyleRed.Render("↻"),
			StyleFg.Render(strings.Join(cycle, " -> ")+" -> "+cycle[0])))
	}
	return b.String()
}
