package formatter

import (
	"fmt"
	"strings"

	"github.com/courseforge/courseforge/internal/domain"
)

// FormatIssues renders validation findings, errors before warnings.
// Warnings are always surfaced, even though they never block deployment.
func FormatIssues(issues []domain.ValidationIssue) string {
	if len(issues) == 0 {
		return StyleGreen.Render("✓ configuration is valid") + "\n"
	}

	errors, warnings := domain.SplitBySeverity(issues)

	var b strings.Builder
	if len(errors) > 0 {
		b.WriteString(Header(fmt.Sprintf("%d validation errors", len(errors))))
		b.WriteString("\n")
		for _, issue := range errors {
			b.WriteString(formatIssue(issue))
		}
	}
	if len(warnings) > 0 {
		if len(errors) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(fmt.Sprintf("%d warnings", len(warnings))))
		b.WriteString("\n")
		for _, issue := range warnings {
			b.WriteString(formatIssue(issue))
		}
	}
	return b.String()
}

func formatIssue(issue domain.ValidationIssue) string {
	location := issue.EntityID
	if issue.Field != "" {
		location += "." + issue.Field
	}
	return fmt.Sprintf("  %s  %s  %s\n",
		SeverityLabel(issue.Severity), Bold(location), StyleFg.Render(issue.Message))
}
