package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/courseforge/courseforge/internal/domain"
)

// CourseSet is the full set of parsed entities for one deployment
// invocation, indexed by local ID.
type CourseSet struct {
	Entities []*domain.Entity
	byID     map[string]*domain.Entity
}

// Get returns the entity with the given local ID.
func (s *CourseSet) Get(localID string) (*domain.Entity, bool) {
	e, ok := s.byID[localID]
	return e, ok
}

// Has reports whether the set contains the given local ID.
func (s *CourseSet) Has(localID string) bool {
	_, ok := s.byID[localID]
	return ok
}

// Len returns the number of entities in the set.
func (s *CourseSet) Len() int { return len(s.Entities) }

// NewCourseSet builds a set from already-constructed entities, deriving
// dependencies and sorting by local ID. Intended for tests and callers
// that assemble entities programmatically.
func NewCourseSet(entities []*domain.Entity) *CourseSet {
	set := &CourseSet{byID: make(map[string]*domain.Entity)}
	for _, e := range entities {
		e.DeriveDependencies()
		set.Entities = append(set.Entities, e)
		set.byID[e.LocalID] = e
	}
	sort.Slice(set.Entities, func(i, j int) bool {
		return set.Entities[i].LocalID < set.Entities[j].LocalID
	})
	return set
}

// LoadDir reads every .json, .yaml and .yml file directly under dir and
// parses the documents inside into a CourseSet. Parse-level problems
// (missing local_id, unknown kind, duplicate IDs, malformed values) come
// back as issues; only filesystem failures return an error.
func LoadDir(dir string) (*CourseSet, []domain.ValidationIssue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	var (
		entities []*domain.Entity
		issues   []domain.ValidationIssue
		seen     = make(map[string]string) // local_id -> source file
	)
	for _, path := range files {
		docs, docIssues, err := loadFile(path)
		if err != nil {
			return nil, nil, err
		}
		issues = append(issues, docIssues...)
		for _, e := range docs {
			if prev, dup := seen[e.LocalID]; dup {
				issues = append(issues, domain.ValidationIssue{
					Severity: domain.SeverityError,
					EntityID: e.LocalID,
					Field:    "local_id",
					Message:  fmt.Sprintf("duplicate local_id %q (already defined in %s)", e.LocalID, prev),
				})
				continue
			}
			seen[e.LocalID] = e.SourceFile
			entities = append(entities, e)
		}
	}

	set := &CourseSet{byID: make(map[string]*domain.Entity, len(entities))}
	for _, e := range entities {
		e.DeriveDependencies()
		set.Entities = append(set.Entities, e)
		set.byID[e.LocalID] = e
	}
	sort.Slice(set.Entities, func(i, j int) bool {
		return set.Entities[i].LocalID < set.Entities[j].LocalID
	})
	return set, issues, nil
}

// loadFile parses one configuration file. A file may hold a single
// document or a list of documents.
func loadFile(path string) ([]*domain.Entity, []domain.ValidationIssue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, []domain.ValidationIssue{{
			Severity: domain.SeverityError,
			EntityID: filepath.Base(path),
			Message:  fmt.Sprintf("unparseable document: %v", err),
		}}, nil
	}

	var docs []any
	switch v := raw.(type) {
	case []any:
		docs = v
	case nil:
		return nil, nil, nil
	default:
		docs = []any{raw}
	}

	var (
		entities []*domain.Entity
		issues   []domain.ValidationIssue
	)
	for i, doc := range docs {
		m, ok := doc.(map[string]any)
		if !ok {
			issues = append(issues, domain.ValidationIssue{
				Severity: domain.SeverityError,
				EntityID: fmt.Sprintf("%s[%d]", filepath.Base(path), i),
				Message:  "document is not a mapping",
			})
			continue
		}
		e, docIssues := parseDocument(m, path, i)
		issues = append(issues, docIssues...)
		if e != nil {
			entities = append(entities, e)
		}
	}
	return entities, issues, nil
}

func parseDocument(m map[string]any, path string, index int) (*domain.Entity, []domain.ValidationIssue) {
	var issues []domain.ValidationIssue
	docName := fmt.Sprintf("%s[%d]", filepath.Base(path), index)

	// Round-trip through JSON so YAML and JSON documents decode through
	// the same typed path.
	data, err := json.Marshal(m)
	if err != nil {
		return nil, []domain.ValidationIssue{{
			Severity: domain.SeverityError,
			EntityID: docName,
			Message:  fmt.Sprintf("normalizing document: %v", err),
		}}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, []domain.ValidationIssue{{
			Severity: domain.SeverityError,
			EntityID: docName,
			Message:  fmt.Sprintf("reading local_id/kind: %v", err),
		}}
	}
	if env.LocalID == "" {
		return nil, []domain.ValidationIssue{{
			Severity: domain.SeverityError,
			EntityID: docName,
			Field:    "local_id",
			Message:  "local_id is required",
		}}
	}
	if env.Kind == "" {
		return nil, []domain.ValidationIssue{{
			Severity: domain.SeverityError,
			EntityID: env.LocalID,
			Field:    "kind",
			Message:  "kind is required",
		}}
	}
	if !domain.ValidEntityKinds[env.Kind] {
		return nil, []domain.ValidationIssue{{
			Severity: domain.SeverityError,
			EntityID: env.LocalID,
			Field:    "kind",
			Message:  fmt.Sprintf("unknown kind %q", env.Kind),
		}}
	}

	kind := domain.EntityKind(env.Kind)
	payload, _ := domain.NewPayload(kind)

	if err := json.Unmarshal(data, payload); err != nil {
		issues = append(issues, domain.ValidationIssue{
			Severity: domain.SeverityError,
			EntityID: env.LocalID,
			Message:  fmt.Sprintf("malformed %s document: %v", kind, err),
		})
	}

	known := knownFields(payload)
	var unknown []string
	for key := range m {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		issues = append(issues, domain.ValidationIssue{
			Severity: domain.SeverityWarning,
			EntityID: env.LocalID,
			Field:    key,
			Message:  fmt.Sprintf("unknown field %q for kind %s", key, kind),
		})
	}

	return &domain.Entity{
		LocalID:    env.LocalID,
		Kind:       kind,
		Payload:    payload,
		SourceFile: path,
	}, issues
}
