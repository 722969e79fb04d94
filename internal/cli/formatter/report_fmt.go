package formatter

import (
	"fmt"
	"strings"

	"github.com/courseforge/courseforge/internal/domain"
)

// FormatReport renders the final deployment report: counts by status,
// then every entity with its outcome and reason.
func FormatReport(rep *domain.Report) string {
	var b strings.Builder
	b.WriteString(Header("deployment report"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("run %s\n\n", Dim(rep.RunID)))

	summary := []string{
		StyleGreen.Render(fmt.Sprintf("%d succeeded", rep.Counts[domain.StatusSucceeded])),
		StyleRed.Render(fmt.Sprintf("%d failed", rep.Counts[domain.StatusFailed])),
		StyleYellow.Render(fmt.Sprintf("%d skipped", rep.Counts[domain.StatusSkipped])),
	}
	b.WriteString(strings.Join(summary, Dim("  ·  ")))
	b.WriteString("\n\n")

	headers := []string{"ENTITY", "KIND", "STATUS", "ACTION", "REMOTE ID", "REASON"}
	rows := make([][]string, 0, len(rep.Outcomes))
	for _, out := range rep.Outcomes {
		remote := out.RemoteID
		if remote == "" {
			remote = Dim("--")
		}
		reason := out.Reason
		if reason == "" {
			reason = Dim("--")
		}
		rows = append(rows, []string{
			Bold(out.LocalID),
			string(out.Kind),
			StatusIndicator(out.Status),
			string(out.Action),
			remote,
			reason,
		})
	}
	b.WriteString(RenderTable(headers, rows))
	return b.String()
}
