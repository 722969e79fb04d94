package domain

import "fmt"

// ValidationIssue is one finding from the schema validator or the
// reference resolver. Error-level issues block deployment; warnings are
// informational and surfaced in dry-run output.
type ValidationIssue struct {
	Severity Severity
	EntityID string
	Field    string
	Message  string
}

func (i ValidationIssue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("[%s] %s: %s", i.Severity, i.EntityID, i.Message)
	}
	return fmt.Sprintf("[%s] %s.%s: %s", i.Severity, i.EntityID, i.Field, i.Message)
}

// HasErrors reports whether any issue in the list is error-level.
func HasErrors(issues []ValidationIssue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// SplitBySeverity partitions issues into errors and warnings, preserving
// order within each partition.
func SplitBySeverity(issues []ValidationIssue) (errors, warnings []ValidationIssue) {
	for _, i := range issues {
		if i.Severity == SeverityError {
			errors = append(errors, i)
		} else {
			warnings = append(warnings, i)
		}
	}
	return errors, warnings
}
