package domain

import "sort"

// Ref is a single cross-entity reference carried by a payload field.
type Ref struct {
	Field  string
	Target string
}

// Payload is the kind-specific body of an entity. Each concrete payload
// exposes the references it carries so the resolver and graph builder can
// treat reference extraction uniformly, and can rewrite those references
// to remote IDs before going over the wire.
type Payload interface {
	Kind() EntityKind
	Refs() []Ref

	// Resolve returns a copy of the payload with every reference target
	// replaced through ids. Targets without a mapping are kept as-is.
	Resolve(ids map[string]string) Payload
}

// Entity is the unit of deployment: one course configuration object keyed
// by its author-assigned local ID.
type Entity struct {
	LocalID string
	Kind    EntityKind

	// RemoteID is empty until the entity has been created in Canvas.
	RemoteID string

	// Dependencies holds the local IDs this entity must follow in
	// deployment order, deduplicated and sorted. Derived from the
	// payload's references at load time.
	Dependencies []string

	Payload Payload

	// SourceFile is the configuration file the entity was parsed from,
	// kept for diagnostics only.
	SourceFile string
}

// ResolveRefs returns a copy of the entity whose payload references are
// rewritten through ids, mapping author-assigned local IDs to the remote
// IDs Canvas handed back for already-deployed dependencies.
func (e *Entity) ResolveRefs(ids map[string]string) *Entity {
	if e.Payload == nil || len(ids) == 0 {
		return e
	}
	resolved := *e
	resolved.Payload = e.Payload.Resolve(ids)
	return &resolved
}

// DeriveDependencies rebuilds the entity's dependency list from its
// payload references.
func (e *Entity) DeriveDependencies() {
	if e.Payload == nil {
		e.Dependencies = nil
		return
	}
	seen := make(map[string]bool)
	var deps []string
	for _, ref := range e.Payload.Refs() {
		if ref.Target == "" || seen[ref.Target] {
			continue
		}
		seen[ref.Target] = true
		deps = append(deps, ref.Target)
	}
	sort.Strings(deps)
	e.Dependencies = deps
}
