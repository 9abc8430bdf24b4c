package formdata

import "encoding/json"

// Record is the in-memory tree of editable values for one college entry. The
// shape (slot names and nesting) is fixed by the schema at session start; only
// values and list lengths change afterwards. Values are one of: string, bool,
// float64, Record, or []any.
type Record map[string]any

// Clone returns a deep copy of the record. Engine operations never need it
// (they copy only the touched levels), but hydration and draft stores do.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Record:
		return v.Clone()
	case map[string]any:
		return Record(v).Clone()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Merge applies a fetched remote entity on top of the record: for every
// top-level key the entity provides that also exists in the record, the remote
// value wins wholesale. Keys the schema does not know are ignored, so a stale
// server payload can never change the record shape.
func Merge(r Record, remote map[string]any) Record {
	if len(remote) == 0 {
		return r
	}
	out := r.shallowCopy()
	for key, value := range remote {
		if _, ok := out[key]; !ok {
			continue
		}
		out[key] = normalizeValue(value)
	}
	return out
}

// FromJSON decodes a serialized record, normalising nested maps to Record so
// engine operations behave uniformly regardless of where the tree came from.
func FromJSON(data []byte) (Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(Record, len(raw))
	for key, value := range raw {
		out[key] = normalizeValue(value)
	}
	return out, nil
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(Record, len(v))
		for key, item := range v {
			out[key] = normalizeValue(item)
		}
		return out
	case Record:
		out := make(Record, len(v))
		for key, item := range v {
			out[key] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func (r Record) shallowCopy() Record {
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

// String reads a top-level or one-level-nested ("parent.child") string slot.
// Missing or non-string slots report an empty string.
func (r Record) String(path string) string {
	value, ok := r.lookup(path)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// List reads a top-level or one-level-nested list slot. A missing slot reports
// (nil, false) so callers can distinguish "absent" from "empty".
func (r Record) List(path string) ([]any, bool) {
	value, ok := r.lookup(path)
	if !ok {
		return nil, false
	}
	list, ok := value.([]any)
	return list, ok
}

// Nested reads a nested record slot by top-level name.
func (r Record) Nested(name string) (Record, bool) {
	value, ok := r[name]
	if !ok {
		return nil, false
	}
	return asRecord(value)
}

func (r Record) lookup(path string) (any, bool) {
	parent, name := splitPath(path)
	if parent == "" {
		value, ok := r[name]
		return value, ok
	}
	nested, ok := r.Nested(parent)
	if !ok {
		return nil, false
	}
	value, ok := nested[name]
	return value, ok
}

func asRecord(value any) (Record, bool) {
	switch v := value.(type) {
	case Record:
		return v, true
	case map[string]any:
		return Record(v), true
	default:
		return nil, false
	}
}
