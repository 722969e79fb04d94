// Package pipeline wires the deployment stages together: load, validate,
// resolve, graph, plan, execute, report.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/courseforge/courseforge/internal/domain"
	"github.com/courseforge/courseforge/internal/executor"
	"github.com/courseforge/courseforge/internal/graph"
	"github.com/courseforge/courseforge/internal/loader"
	"github.com/courseforge/courseforge/internal/planner"
	"github.com/courseforge/courseforge/internal/report"
	"github.com/courseforge/courseforge/internal/repository"
	"github.com/courseforge/courseforge/internal/validate"
)

// ValidationResult is everything the validation stages learned about a
// configuration directory.
type ValidationResult struct {
	Set    *loader.CourseSet
	Graph  *graph.Graph
	Issues []domain.ValidationIssue
	Cycles [][]string

	// Excluded maps entities that will not be deployed to the reason:
	// their own validation errors, cycle membership, or an excluded
	// dependency upstream.
	Excluded map[string]string
}

// Clean reports whether no error-level issue was found anywhere.
func (r *ValidationResult) Clean() bool {
	return !domain.HasErrors(r.Issues)
}

// Validate loads a configuration directory and runs every validation
// stage, collecting all findings in one pass rather than stopping at the
// first problem.
func Validate(dir string) (*ValidationResult, error) {
	set, issues, err := loader.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return validateSet(set, issues), nil
}

// ValidateSet validates an already-assembled course set. Used by callers
// that build entities programmatically and by tests.
func ValidateSet(set *loader.CourseSet) *ValidationResult {
	return validateSet(set, nil)
}

func validateSet(set *loader.CourseSet, issues []domain.ValidationIssue) *ValidationResult {
	issues = append(issues, validate.Schema(set)...)
	issues = append(issues, validate.References(set)...)

	g := graph.Build(set.Entities)
	cycles := g.Cycles()
	for _, cycle := range cycles {
		issues = append(issues, domain.ValidationIssue{
			Severity: domain.SeverityError,
			EntityID: cycle[0],
			Field:    "dependencies",
			Message:  fmt.Sprintf("dependency cycle: %s -> %s", strings.Join(cycle, " -> "), cycle[0]),
		})
	}

	return &ValidationResult{
		Set:      set,
		Graph:    g,
		Issues:   issues,
		Cycles:   cycles,
		Excluded: excludedEntities(set, g, issues, cycles),
	}
}

// excludedEntities computes the set of entities that must not be deployed
// and why. Schema, reference and cycle errors are local: they take out
// the entity itself and everything downstream of it, and nothing else.
func excludedEntities(set *loader.CourseSet, g *graph.Graph, issues []domain.ValidationIssue, cycles [][]string) map[string]string {
	excluded := make(map[string]string)
	for _, issue := range issues {
		if issue.Severity != domain.SeverityError || !set.Has(issue.EntityID) {
			continue
		}
		if _, done := excluded[issue.EntityID]; !done {
			excluded[issue.EntityID] = "validation errors"
		}
	}
	for _, cycle := range cycles {
		trace := strings.Join(cycle, " -> ")
		for _, id := range cycle {
			excluded[id] = fmt.Sprintf("member of dependency cycle %s", trace)
		}
	}

	// Propagate downstream, breadth-first in sorted order so reasons are
	// deterministic given identical input.
	queue := make([]string, 0, len(excluded))
	for id := range excluded {
		queue = append(queue, id)
	}
	sort.Strings(queue)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dependent := range g.DependentsOf(id) {
			if _, done := excluded[dependent]; done {
				continue
			}
			excluded[dependent] = fmt.Sprintf("dependency %s was not deployed (%s)", id, excluded[id])
			queue = append(queue, dependent)
		}
	}
	return excluded
}

// Plan produces the deployment batches for every entity that survived
// validation. With a poisoned graph the surviving portion still plans;
// only cycle members and their dependents are left out.
func Plan(res *ValidationResult) (domain.DeploymentPlan, error) {
	exclude := make(map[string]bool, len(res.Excluded))
	for id := range res.Excluded {
		exclude[id] = true
	}
	return planner.Subset(res.Graph, exclude)
}

// Deployer runs planned deployments and persists their records.
type Deployer struct {
	exec    *executor.Executor
	records repository.RecordRepo
	now     func() time.Time
}

// NewDeployer creates a Deployer. The record repo may be nil, in which
// case runs are not persisted and every deployment starts from scratch.
func NewDeployer(exec *executor.Executor, records repository.RecordRepo) *Deployer {
	return &Deployer{exec: exec, records: records, now: time.Now}
}

// Deploy plans and executes a validated configuration set, returning the
// final report and writing an updated deployment record per entity.
func (d *Deployer) Deploy(ctx context.Context, res *ValidationResult) (*domain.Report, error) {
	plan, err := Plan(res)
	if err != nil {
		return nil, fmt.Errorf("planning deployment: %w", err)
	}

	var prior domain.RecordSet
	if d.records != nil {
		prior, err = d.records.ListRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading prior deployment records: %w", err)
		}
	}

	entities := make(map[string]*domain.Entity, res.Set.Len())
	for _, e := range res.Set.Entities {
		entities[e.LocalID] = e
	}

	runID := uuid.NewString()
	startedAt := d.now()
	if d.records != nil {
		run := &domain.DeploymentRun{ID: runID, StartedAt: startedAt}
		if err := d.records.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("recording deployment run: %w", err)
		}
	}

	outcomes, err := d.exec.Run(ctx, executor.RunInput{
		RunID:      runID,
		Plan:       plan,
		Entities:   entities,
		Prior:      prior,
		Preskipped: res.Excluded,
	})
	if err != nil {
		// Close the run row even on an aborted run so status output
		// doesn't show it in progress forever. The deploy error wins;
		// cancellation must not block the bookkeeping.
		if d.records != nil {
			_ = d.records.FinishRun(context.WithoutCancel(ctx), runID, d.now())
		}
		return nil, err
	}

	rep := report.Aggregate(runID, outcomes)
	if d.records != nil {
		attemptedAt := d.now()
		for _, out := range outcomes {
			// A skip never demotes a recorded success: the entity is
			// still deployed remotely, and losing the succeeded status
			// would make the next run recreate it.
			if out.Status == domain.StatusSkipped && prior.Succeeded(out.LocalID) {
				continue
			}
			rec := &domain.EntityRecord{
				LocalID:     out.LocalID,
				Kind:        out.Kind,
				RemoteID:    out.RemoteID,
				Status:      out.Status,
				Reason:      out.Reason,
				RunID:       runID,
				AttemptedAt: attemptedAt,
			}
			// Keep the remote ID from an earlier run when this run did
			// not reach the entity.
			if rec.RemoteID == "" {
				rec.RemoteID = prior.RemoteID(out.LocalID)
			}
			if err := d.records.UpsertRecord(ctx, rec); err != nil {
				return nil, fmt.Errorf("recording outcome for %s: %w", out.LocalID, err)
			}
		}
		if err := d.records.FinishRun(ctx, runID, d.now()); err != nil {
			return nil, fmt.Errorf("finishing deployment run: %w", err)
		}
	}
	return rep, nil
}
