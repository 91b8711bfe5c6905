package mustache

import (
	"bytes"
	"io"
	"os"
	"path"

	"github.com/stachengine/mustache/parse"
)

// Template is a compiled mustache template: a tree of Nodes, ready to be
// rendered against a Data value any number of times.
type Template struct {
	nodes    []Node
	dir      string
	partials PartialProvider
}

func (tmpl *Template) resolvedPartials() PartialProvider {
	if tmpl.partials != nil {
		return tmpl.partials
	}
	return &FileProvider{Paths: []string{tmpl.dir, ""}}
}

func rootStack(data Data) ctxStack {
	if data.kind == KindHash {
		return ctxStack{data.hash}
	}
	return nil
}

// FRender renders tmpl against data, writing output to out.
func (tmpl *Template) FRender(out io.Writer, data Data) error {
	rw := &renderWriter{w: out}
	if err := renderNodes(rw, tmpl.nodes, rootStack(data), tmpl.resolvedPartials()); err != nil {
		return err
	}
	return rw.err
}

// Render renders tmpl against data and returns the output.
func (tmpl *Template) Render(data Data) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.FRender(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FRenderInLayout renders tmpl against data, then wraps the result as
// {"content": <rendered tmpl>} and renders layout against that wrapper
// hash, writing the layout's output to out.
func (tmpl *Template) FRenderInLayout(out io.Writer, layout *Template, data Data) error {
	content, err := tmpl.Render(data)
	if err != nil {
		return err
	}
	wrapped := NewHashBuilder().InsertString("content", content).Build()
	return layout.FRender(out, wrapped)
}

// RenderInLayout is the string-returning form of FRenderInLayout.
func (tmpl *Template) RenderInLayout(layout *Template, data Data) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.FRenderInLayout(&buf, layout, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func compile(data string, dir string, partials PartialProvider) (*Template, error) {
	nodes, err := parseNodes(parse.Lex(data))
	if err != nil {
		return nil, err
	}
	return &Template{nodes: nodes, dir: dir, partials: partials}, nil
}

// ParseString compiles a mustache template string. The result can be
// rendered any number of times against different Data values.
func ParseString(data string) (*Template, error) {
	return ParseStringPartials(data, nil)
}

// ParseStringPartials compiles a mustache template string, resolving any
// {{>name}} tags through partials.
func ParseStringPartials(data string, partials PartialProvider) (*Template, error) {
	return compile(data, os.Getenv("CWD"), partials)
}

// ParseFile loads a mustache template from filename and compiles it.
// Partials default to a FileProvider searching the template's own
// directory.
func ParseFile(filename string) (*Template, error) {
	return ParseFilePartials(filename, nil)
}

// ParseFilePartials loads a mustache template from filename and compiles
// it, resolving any {{>name}} tags through partials.
func ParseFilePartials(filename string, partials PartialProvider) (*Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	dirname, _ := path.Split(filename)
	return compile(string(data), dirname, partials)
}

// Render compiles templateText and renders it against data in one step.
func Render(templateText string, data Data) (string, error) {
	return RenderPartials(templateText, nil, data)
}

// RenderPartials compiles templateText and renders it against data,
// resolving any {{>name}} tags through partials.
func RenderPartials(templateText string, partials PartialProvider, data Data) (string, error) {
	tmpl, err := ParseStringPartials(templateText, partials)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data)
}

// RenderInLayout compiles templateText and layoutText and renders
// templateText wrapped in layoutText against data.
func RenderInLayout(templateText, layoutText string, data Data) (string, error) {
	return RenderInLayoutPartials(templateText, layoutText, nil, data)
}

// RenderInLayoutPartials is RenderInLayout with an explicit partial
// provider shared by both templates.
func RenderInLayoutPartials(templateText, layoutText string, partials PartialProvider, data Data) (string, error) {
	layoutTmpl, err := ParseStringPartials(layoutText, partials)
	if err != nil {
		return "", err
	}
	tmpl, err := ParseStringPartials(templateText, partials)
	if err != nil {
		return "", err
	}
	return tmpl.RenderInLayout(layoutTmpl, data)
}

// RenderFile loads and compiles filename, then renders it against data.
func RenderFile(filename string, data Data) (string, error) {
	tmpl, err := ParseFile(filename)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data)
}

// RenderFileInLayout loads and compiles filename and layoutFile, then
// renders filename wrapped in layoutFile against data.
func RenderFileInLayout(filename, layoutFile string, data Data) (string, error) {
	layoutTmpl, err := ParseFile(layoutFile)
	if err != nil {
		return "", err
	}
	tmpl, err := ParseFile(filename)
	if err != nil {
		return "", err
	}
	return tmpl.RenderInLayout(layoutTmpl, data)
}
