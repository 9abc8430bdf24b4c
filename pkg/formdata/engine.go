package formdata

import (
	"log"
	"strings"
)

// WarnFunc receives developer-facing diagnostics for malformed mutation paths.
type WarnFunc func(format string, args ...any)

// Option customises the engine configuration.
type Option func(*Engine)

// WithWarnFunc overrides where malformed-path warnings go. Pass nil to silence
// them entirely.
func WithWarnFunc(warn WarnFunc) Option {
	return func(e *Engine) {
		e.warn = warn
		e.warnSpecified = true
	}
}

// WithProtectedLists overrides the list slots RemoveArrayItem refuses to take
// below one element.
func WithProtectedLists(paths ...string) Option {
	return func(e *Engine) {
		e.protected = make(map[string]struct{}, len(paths))
		for _, path := range paths {
			e.protected[path] = struct{}{}
		}
	}
}

// Engine provides the generalized mutation operations every form section
// composes. All operations are copy-on-write: they return a new Record that
// shares every untouched branch with the input, so a view layer can detect
// change by reference comparison. A malformed path is never fatal; the
// operation returns the input unchanged and emits a warning.
type Engine struct {
	warn          WarnFunc
	warnSpecified bool
	protected     map[string]struct{}
}

// NewEngine constructs an Engine with default diagnostics (stdlib log) and the
// schema's protected lists.
func NewEngine(options ...Option) *Engine {
	e := &Engine{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if !e.warnSpecified {
		e.warn = log.Printf
	}
	if e.protected == nil {
		e.protected = make(map[string]struct{})
		for _, path := range ProtectedLists() {
			e.protected[path] = struct{}{}
		}
	}
	return e
}

func (e *Engine) warnf(format string, args ...any) {
	if e.warn == nil {
		return
	}
	e.warn(format, args...)
}

// SetField replaces a top-level slot.
func (e *Engine) SetField(r Record, name string, value any) Record {
	if _, ok := r[name]; !ok {
		e.warnf("formdata: unknown field %q", name)
		return r
	}
	out := r.shallowCopy()
	out[name] = value
	return out
}

// SetNestedField replaces a slot inside a one-level-nested record.
func (e *Engine) SetNestedField(r Record, parent, name string, value any) Record {
	nested, ok := r.Nested(parent)
	if !ok {
		e.warnf("formdata: unknown nested field %q.%q", parent, name)
		return r
	}
	if _, ok := nested[name]; !ok {
		e.warnf("formdata: unknown nested field %q.%q", parent, name)
		return r
	}
	out := r.shallowCopy()
	updated := nested.shallowCopy()
	updated[name] = value
	out[parent] = updated
	return out
}

// SetDeepNestedField replaces a slot two levels deep (record inside record).
func (e *Engine) SetDeepNestedField(r Record, parent, nested, name string, value any) Record {
	parentRec, ok := r.Nested(parent)
	if !ok {
		e.warnf("formdata: unknown deep field %q.%q.%q", parent, nested, name)
		return r
	}
	inner, ok := asRecord(parentRec[nested])
	if !ok {
		e.warnf("formdata: unknown deep field %q.%q.%q", parent, nested, name)
		return r
	}
	if _, ok := inner[name]; !ok {
		e.warnf("formdata: unknown deep field %q.%q.%q", parent, nested, name)
		return r
	}
	updatedInner := inner.shallowCopy()
	updatedInner[name] = value
	updatedParent := parentRec.shallowCopy()
	updatedParent[nested] = updatedInner
	out := r.shallowCopy()
	out[parent] = updatedParent
	return out
}

// SetArrayItem replaces one element of a list slot. The path may be top-level
// ("overview") or one level nested ("admissionProcess.steps"). An index below
// zero signals whole-list replacement, in which case value must be []any.
func (e *Engine) SetArrayItem(r Record, path string, index int, value any) Record {
	if index < 0 {
		list, ok := value.([]any)
		if !ok {
			e.warnf("formdata: whole-list replacement of %q needs []any, got %T", path, value)
			return r
		}
		return e.setList(r, path, list)
	}

	list, ok := r.List(path)
	if !ok {
		e.warnf("formdata: unknown list %q", path)
		return r
	}
	if index >= len(list) {
		e.warnf("formdata: index %d out of range for list %q (len %d)", index, path, len(list))
		return r
	}
	updated := make([]any, len(list))
	copy(updated, list)
	updated[index] = value
	return e.setList(r, path, updated)
}

// SetArraySubfield replaces one named slot of a record-shaped element inside a
// list (faq[i].question, coursesAndFee[i].fee, ...).
func (e *Engine) SetArraySubfield(r Record, path string, index int, subfield string, value any) Record {
	list, ok := r.List(path)
	if !ok {
		e.warnf("formdata: unknown list %q", path)
		return r
	}
	if index < 0 || index >= len(list) {
		e.warnf("formdata: index %d out of range for list %q (len %d)", index, path, len(list))
		return r
	}
	item, ok := asRecord(list[index])
	if !ok {
		e.warnf("formdata: list %q element %d is not a record", path, index)
		return r
	}
	updatedItem := item.shallowCopy()
	updatedItem[subfield] = value
	updated := make([]any, len(list))
	copy(updated, list)
	updated[index] = updatedItem
	return e.setList(r, path, updated)
}

// AppendArrayItem grows a list by one element using the section's schema
// default as template.
func (e *Engine) AppendArrayItem(r Record, path string, template any) Record {
	list, ok := r.List(path)
	if !ok {
		e.warnf("formdata: unknown list %q", path)
		return r
	}
	updated := make([]any, len(list), len(list)+1)
	copy(updated, list)
	updated = append(updated, template)
	return e.setList(r, path, updated)
}

// RemoveArrayItem removes one element, preserving the order of the rest.
// Protected lists never drop below one element; such removals are a no-op.
func (e *Engine) RemoveArrayItem(r Record, path string, index int) Record {
	list, ok := r.List(path)
	if !ok {
		e.warnf("formdata: unknown list %q", path)
		return r
	}
	if index < 0 || index >= len(list) {
		e.warnf("formdata: index %d out of range for list %q (len %d)", index, path, len(list))
		return r
	}
	if _, protected := e.protected[path]; protected && len(list) <= 1 {
		return r
	}
	updated := make([]any, 0, len(list)-1)
	updated = append(updated, list[:index]...)
	updated = append(updated, list[index+1:]...)
	return e.setList(r, path, updated)
}

// AppendSubitem grows the nested list held by one record-shaped list element
// (reviews[i].review). A missing or nil nested list is lazily initialised
// before the push.
func (e *Engine) AppendSubitem(r Record, path string, index int, subfield string, template any) Record {
	list, ok := r.List(path)
	if !ok {
		e.warnf("formdata: unknown list %q", path)
		return r
	}
	if index < 0 || index >= len(list) {
		e.warnf("formdata: index %d out of range for list %q (len %d)", index, path, len(list))
		return r
	}
	item, ok := asRecord(list[index])
	if !ok {
		e.warnf("formdata: list %q element %d is not a record", path, index)
		return r
	}
	sub, _ := item[subfield].([]any)
	updatedSub := make([]any, len(sub), len(sub)+1)
	copy(updatedSub, sub)
	updatedSub = append(updatedSub, template)

	updatedItem := item.shallowCopy()
	updatedItem[subfield] = updatedSub
	updated := make([]any, len(list))
	copy(updated, list)
	updated[index] = updatedItem
	return e.setList(r, path, updated)
}

// RemoveSubitem removes one element from the nested list held by a
// record-shaped list element.
func (e *Engine) RemoveSubitem(r Record, path string, index int, subfield string, subIndex int) Record {
	list, ok := r.List(path)
	if !ok {
		e.warnf("formdata: unknown list %q", path)
		return r
	}
	if index < 0 || index >= len(list) {
		e.warnf("formdata: index %d out of range for list %q (len %d)", index, path, len(list))
		return r
	}
	item, ok := asRecord(list[index])
	if !ok {
		e.warnf("formdata: list %q element %d is not a record", path, index)
		return r
	}
	sub, _ := item[subfield].([]any)
	if subIndex < 0 || subIndex >= len(sub) {
		e.warnf("formdata: index %d out of range for %q[%d].%q (len %d)", subIndex, path, index, subfield, len(sub))
		return r
	}
	updatedSub := make([]any, 0, len(sub)-1)
	updatedSub = append(updatedSub, sub[:subIndex]...)
	updatedSub = append(updatedSub, sub[subIndex+1:]...)

	updatedItem := item.shallowCopy()
	updatedItem[subfield] = updatedSub
	updated := make([]any, len(list))
	copy(updated, list)
	updated[index] = updatedItem
	return e.setList(r, path, updated)
}

// SetSubitemField replaces one named slot of a record inside a two-level list
// (reviews[i].review[j].content).
func (e *Engine) SetSubitemField(r Record, path string, index int, subfield string, subIndex int, name string, value any) Record {
	list, ok := r.List(path)
	if !ok {
		e.warnf("formdata: unknown list %q", path)
		return r
	}
	if index < 0 || index >= len(list) {
		e.warnf("formdata: index %d out of range for list %q (len %d)", index, path, len(list))
		return r
	}
	item, ok := asRecord(list[index])
	if !ok {
		e.warnf("formdata: list %q element %d is not a record", path, index)
		return r
	}
	sub, _ := item[subfield].([]any)
	if subIndex < 0 || subIndex >= len(sub) {
		e.warnf("formdata: index %d out of range for %q[%d].%q (len %d)", subIndex, path, index, subfield, len(sub))
		return r
	}
	subItem, ok := asRecord(sub[subIndex])
	if !ok {
		e.warnf("formdata: %q[%d].%q element %d is not a record", path, index, subfield, subIndex)
		return r
	}
	updatedSubItem := subItem.shallowCopy()
	updatedSubItem[name] = value

	updatedSub := make([]any, len(sub))
	copy(updatedSub, sub)
	updatedSub[subIndex] = updatedSubItem

	updatedItem := item.shallowCopy()
	updatedItem[subfield] = updatedSub
	updated := make([]any, len(list))
	copy(updated, list)
	updated[index] = updatedItem
	return e.setList(r, path, updated)
}

// setList writes a list value at a top-level or one-level-nested path, copying
// only the containers on that path.
func (e *Engine) setList(r Record, path string, list []any) Record {
	parent, name := splitPath(path)
	if parent == "" {
		if _, ok := r[name]; !ok {
			e.warnf("formdata: unknown list %q", path)
			return r
		}
		out := r.shallowCopy()
		out[name] = list
		return out
	}
	nested, ok := r.Nested(parent)
	if !ok {
		e.warnf("formdata: unknown list %q", path)
		return r
	}
	updated := nested.shallowCopy()
	updated[name] = list
	out := r.shallowCopy()
	out[parent] = updated
	return out
}

// SplitFieldPath splits a dotted field path into its parent and leaf names.
// Paths are at most one level deep ("sampleDegree.image"); a path with no dot
// reports an empty parent.
func SplitFieldPath(path string) (parent, name string) {
	return splitPath(path)
}

// splitPath splits a field path at its first dot. Paths are at most one level
// deep ("sampleDegree.image"); anything deeper is the caller's bug and will
// surface as an unknown-field warning.
func splitPath(path string) (parent, name string) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}
