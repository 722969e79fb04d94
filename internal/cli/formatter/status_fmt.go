package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/courseforge/courseforge/internal/domain"
)

// FormatRecords renders the persisted deployment records from the last
// runs, newest information first in stable local-ID order.
func FormatRecords(records domain.RecordSet, latest *domain.DeploymentRun) string {
	var b strings.Builder
	b.WriteString(Header("deployment records"))
	b.WriteString("\n")

	if latest != nil {
		finished := "still running"
		if latest.FinishedAt != nil {
			finished = latest.FinishedAt.UTC().Format(time.RFC3339)
		}
		b.WriteString(fmt.Sprintf("last run %s  started %s  finished %s\n\n",
			Dim(latest.ID),
			latest.StartedAt.UTC().Format(time.RFC3339),
			finished))
	}

	if len(records) == 0 {
		b.WriteString(Dim("no deployments recorded") + "\n")
		return b.String()
	}

	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	headers := []string{"ENTITY", "KIND", "STATUS", "REMOTE ID", "ATTEMPTED"}
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rec := records[id]
		remote := rec.RemoteID
		if remote == "" {
			remote = Dim("--")
		}
		rows = append(rows, []string{
			Bold(rec.LocalID),
			string(rec.Kind),
			StatusIndicator(rec.Status),
			remote,
			rec.AttemptedAt.UTC().Format(time.RFC3339),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	return b.String()
}
