// Package preview renders a read-only HTML rendition of a college record, the
// same view reviewers see on the dashboard before approving an entry. The
// section order and field labels come from an embedded layout document so the
// console and the renderer cannot drift apart.
package preview

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/flosch/pongo2/v6"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-collegecms/pkg/formdata"
)

//go:embed sections.yaml
var layoutYAML []byte

//go:embed templates
var templateFS embed.FS

// Field is one labelled record slot in the layout.
type Field struct {
	Path  string `yaml:"path"`
	Label string `yaml:"label"`
	Rich  bool   `yaml:"rich"`
	List  bool   `yaml:"list"`
}

// Section is one titled group of fields in the layout.
type Section struct {
	Name   string  `yaml:"name"`
	Title  string  `yaml:"title"`
	Fields []Field `yaml:"fields"`
}

type layoutDoc struct {
	Sections []Section `yaml:"sections"`
}

// Item is one rendered field: either a scalar Value or a list of Values.
type Item struct {
	Label  string
	Value  string
	Values []string
	Rich   bool
}

// RenderedSection is one section with its empty fields already filtered out.
type RenderedSection struct {
	Name  string
	Title string
	Items []Item
}

// Option customises the renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	layout    []Section
	template  string
}

// WithTemplates overrides the embedded template set.
func WithTemplates(files fs.FS) Option {
	return func(cfg *config) { cfg.templates = files }
}

// WithLayout overrides the embedded section layout.
func WithLayout(sections []Section) Option {
	return func(cfg *config) { cfg.layout = sections }
}

// WithTemplateName overrides the template rendered for a record (default
// "college.tpl").
func WithTemplateName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.template = name
		}
	}
}

// Renderer turns records into HTML previews. Parsed templates are cached after
// first use; the renderer is safe for concurrent Render calls.
type Renderer struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	layout    []Section
	template  string
}

// New constructs a Renderer over the embedded layout and templates unless
// overridden.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{template: "college.tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.layout == nil {
		var doc layoutDoc
		if err := yaml.Unmarshal(layoutYAML, &doc); err != nil {
			return nil, fmt.Errorf("preview: parse layout: %w", err)
		}
		cfg.layout = doc.Sections
	}
	if cfg.templates == nil {
		sub, err := fs.Sub(templateFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("preview: open template dir: %w", err)
		}
		cfg.templates = sub
	}

	return &Renderer{
		set:       pongo2.NewSet("collegecms", pongo2.NewFSLoader(cfg.templates)),
		templates: make(map[string]*pongo2.Template),
		layout:    cfg.layout,
		template:  cfg.template,
	}, nil
}

// Layout exposes the section layout driving the preview.
func (r *Renderer) Layout() []Section {
	return r.layout
}

// Render produces the HTML preview for one record. Sections whose every field
// is empty are dropped entirely.
func (r *Renderer) Render(record formdata.Record) (string, error) {
	if record == nil {
		return "", errors.New("preview: record is nil")
	}

	tmpl, err := r.getTemplate(r.template)
	if err != nil {
		return "", err
	}

	ctx := pongo2.Context{
		"title":    record.String("collegeName"),
		"location": record.String("collegeLocation"),
		"sections": r.renderSections(record),
		"courses":  courseRows(record),
		"faq":      listOfMaps(record, "faq"),
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("preview: execute template %q: %w", r.template, err)
	}
	return buf.String(), nil
}

func (r *Renderer) renderSections(record formdata.Record) []RenderedSection {
	out := make([]RenderedSection, 0, len(r.layout))
	for _, section := range r.layout {
		rendered := RenderedSection{Name: section.Name, Title: section.Title}
		for _, field := range section.Fields {
			if field.List {
				values := stringList(record, field.Path)
				if len(values) == 0 {
					continue
				}
				rendered.Items = append(rendered.Items, Item{Label: field.Label, Values: values})
				continue
			}
			value := record.String(field.Path)
			if value == "" {
				continue
			}
			rendered.Items = append(rendered.Items, Item{Label: field.Label, Value: value, Rich: field.Rich})
		}
		if len(rendered.Items) > 0 {
			out = append(out, rendered)
		}
	}
	return out
}

// stringList reads a list slot, keeping only its non-empty string elements.
func stringList(record formdata.Record, path string) []string {
	list, ok := record.List(path)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, _ := item.(string)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// listOfMaps reads a list of record-shaped elements as plain maps for the
// template engine, skipping all-empty rows.
func listOfMaps(record formdata.Record, path string) []map[string]any {
	list, ok := record.List(path)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		var m map[string]any
		switch v := item.(type) {
		case formdata.Record:
			m = map[string]any(v)
		case map[string]any:
			m = v
		default:
			continue
		}
		if allEmpty(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// courseRows keeps only rows where a course was actually picked or typed; the
// schema's blank starter row never shows in a preview.
func courseRows(record formdata.Record) []map[string]any {
	rows := listOfMaps(record, "coursesAndFee")
	out := rows[:0]
	for _, row := range rows {
		course, _ := row["course"].(string)
		name, _ := row["courseName"].(string)
		if course == "" && name == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}

func allEmpty(m map[string]any) bool {
	for _, value := range m {
		if s, ok := value.(string); ok && s != "" {
			return false
		}
	}
	return true
}

func (r *Renderer) getTemplate(name string) (*pongo2.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[name]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("preview: load template %q: %w", name, err)
	}
	r.templates[name] = tmpl
	return tmpl, nil
}
