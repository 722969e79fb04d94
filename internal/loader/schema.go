package loader

import (
	"reflect"
	"strings"

	"github.com/courseforge/courseforge/internal/domain"
)

// envelope holds the two fields common to every configuration document.
type envelope struct {
	LocalID string `json:"local_id"`
	Kind    string `json:"kind"`
}

// knownFields returns the set of recognized top-level keys for a payload
// type, derived from its json struct tags plus the envelope keys. Keys
// outside this set produce warning-level issues rather than errors so that
// forward-compatible configuration additions do not block deployment.
func knownFields(p domain.Payload) map[string]bool {
	fields := map[string]bool{"local_id": true, "kind": true}
	t := reflect.TypeOf(p)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			fields[name] = true
		}
	}
	return fields
}
