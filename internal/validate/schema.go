package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/courseforge/courseforge/internal/domain"
	"github.com/courseforge/courseforge/internal/loader"
)

var vld = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their json names so issues match what the
	// author wrote in the configuration file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Schema checks every entity's payload against its kind-specific shape.
// All findings are collected; the validator never stops at the first
// problem. It consults no other entity except for the module position
// uniqueness check, which is structural across siblings.
func Schema(set *loader.CourseSet) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	for _, e := range set.Entities {
		issues = append(issues, validatePayload(e)...)
	}
	issues = append(issues, validateModulePositions(set)...)
	return issues
}

func validatePayload(e *domain.Entity) []domain.ValidationIssue {
	err := vld.Struct(e.Payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.ValidationIssue{{
			Severity: domain.SeverityError,
			EntityID: e.LocalID,
			Message:  fmt.Sprintf("validating %s payload: %v", e.Kind, err),
		}}
	}

	issues := make([]domain.ValidationIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, domain.ValidationIssue{
			Severity: domain.SeverityError,
			EntityID: e.LocalID,
			Field:    fe.Field(),
			Message:  constraintMessage(fe),
		})
	}
	return issues
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

// validateModulePositions enforces that module positions are unique within
// the sibling set.
func validateModulePositions(set *loader.CourseSet) []domain.ValidationIssue {
	byPosition := make(map[int][]string)
	for _, e := range set.Entities {
		mp, ok := e.Payload.(*domain.ModulePayload)
		if !ok || mp.Position <= 0 {
			continue
		}
		byPosition[mp.Position] = append(byPosition[mp.Position], e.LocalID)
	}

	var positions []int
	for pos, ids := range byPosition {
		if len(ids) > 1 {
			positions = append(positions, pos)
		}
	}
	sort.Ints(positions)

	var issues []domain.ValidationIssue
	for _, pos := range positions {
		ids := byPosition[pos]
		sort.Strings(ids)
		for _, id := range ids {
			issues = append(issues, domain.ValidationIssue{
				Severity: domain.SeverityError,
				EntityID: id,
				Field:    "position",
				Message:  fmt.Sprintf("position %d duplicated across modules %s", pos, strings.Join(ids, ", ")),
			})
		}
	}
	return issues
}
