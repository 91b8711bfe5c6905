package mustache

import (
	"io"
	"strconv"
	"strings"

	"github.com/stachengine/mustache/parse"
)

// ctxStack is the LIFO of Hash frames consulted for dotted-name
// resolution. Frames hold the underlying map[string]Data directly
// (maps are reference types in Go), so pushing a frame never clones the
// Hash it came from — required so that a Lambda's closure state stays
// the same identity across pushes and pops of the stack it's nested
// under (spec §9 design notes).
type ctxStack []map[string]Data

// pushed returns a new stack with h appended, always allocating a fresh
// backing array. A plain append would risk letting two sibling pushes
// made from the same parent stack (e.g. consecutive elements of a
// Vector section) alias and overwrite each other's top frame whenever
// the parent slice had spare capacity; allocating fresh here rules that
// out entirely.
func pushed(stack ctxStack, h map[string]Data) ctxStack {
	next := make(ctxStack, len(stack)+1)
	copy(next, stack)
	next[len(stack)] = h
	return next
}

// resolve looks up a (possibly dotted) name against stack. The first
// path segment is searched for from the top of the stack down
// (section-scoped fallback: an inner section's frame shadows outer
// ones, and a name absent from every frame simply isn't found); any
// remaining segments then descend into nested Hashes only, starting
// from wherever the first segment resolved.
func resolve(stack ctxStack, name string) (Data, bool) {
	segs := splitDotted(name)
	if len(segs) == 0 {
		return Data{}, false
	}

	var d Data
	found := false
	for i := len(stack) - 1; i >= 0; i-- {
		if v, ok := stack[i][segs[0]]; ok {
			d, found = v, true
			break
		}
	}
	if !found {
		return Data{}, false
	}

	for _, seg := range segs[1:] {
		if d.kind != KindHash {
			return Data{}, false
		}
		v, ok := d.hash[seg]
		if !ok {
			return Data{}, false
		}
		d = v
	}
	return d, true
}

func splitDotted(name string) []string {
	if name == "" {
		return nil
	}
	var segs []string
	start := 0
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			segs = append(segs, name[start:i])
			start = i + 1
		}
	}
	segs = append(segs, name[start:])
	return segs
}

// dataToString renders the coercion rules for interpolation: String and
// Bool and numeric kinds have a defined text form; Vector and Hash do
// not and are reported as UnexpectedDataTypeError. Lambda is handled
// by the caller before dataToString is ever reached.
func dataToString(d Data, context string) (string, error) {
	switch d.kind {
	case KindString:
		return d.str, nil
	case KindBool:
		if d.b {
			return "true", nil
		}
		return "false", nil
	case KindInteger:
		return strconv.FormatInt(d.i, 10), nil
	case KindFloat:
		return strconv.FormatFloat(d.f, 'g', -1, 64), nil
	default:
		return "", &UnexpectedDataTypeError{Context: context}
	}
}

// renderWriter accumulates the first write error encountered so the
// walk can bail out of deeply recursive section rendering with a single
// check rather than threading an error return through every io.Writer
// call site.
type renderWriter struct {
	w   io.Writer
	err error
}

func (rw *renderWriter) writeString(s string) bool {
	if rw.err != nil {
		return false
	}
	if _, err := io.WriteString(rw.w, s); err != nil {
		rw.err = &WriteError{Cause: err}
		return false
	}
	return true
}

// renderNodes walks nodes against stack, writing escaped/raw output and
// resolving partials through partials, stopping at the first error.
func renderNodes(rw *renderWriter, nodes []Node, stack ctxStack, partials PartialProvider) error {
	for _, n := range nodes {
		if rw.err != nil {
			return rw.err
		}
		if err := renderNode(rw, n, stack, partials); err != nil {
			return err
		}
	}
	return rw.err
}

func renderNode(rw *renderWriter, n Node, stack ctxStack, partials PartialProvider) error {
	switch n.Type {
	case NodeStatic:
		rw.writeString(n.Text)
		return rw.err

	case NodeValue, NodeUnescaped:
		return renderInterpolation(rw, n, stack, partials)

	case NodeSection:
		return renderSection(rw, n, stack, partials)

	case NodePartial:
		return renderPartial(rw, n, stack, partials)
	}
	return nil
}

func renderInterpolation(rw *renderWriter, n Node, stack ctxStack, partials PartialProvider) error {
	d, found := resolve(stack, n.Name)
	if !found {
		return nil
	}

	escape := n.Type == NodeValue

	if d.kind == KindLambda {
		out, err := evalLambda(d, "", stack, partials)
		if err != nil {
			return err
		}
		if escape {
			out = escapeHTML(out)
		}
		rw.writeString(out)
		return rw.err
	}

	s, err := dataToString(d, n.Name)
	if err != nil {
		return err
	}
	if escape {
		s = escapeHTML(s)
	}
	rw.writeString(s)
	return rw.err
}

func renderSection(rw *renderWriter, n Node, stack ctxStack, partials PartialProvider) error {
	d, found := resolve(stack, n.Name)

	if n.Inverted {
		if !truthy(d, found) {
			return renderNodes(rw, n.Children, stack, partials)
		}
		return nil
	}

	if !truthy(d, found) {
		return nil
	}

	switch d.kind {
	case KindLambda:
		out, err := evalLambda(d, sectionText(n.Children), stack, partials)
		if err != nil {
			return err
		}
		rw.writeString(out)
		return rw.err

	case KindHash:
		return renderNodes(rw, n.Children, pushed(stack, d.hash), partials)

	case KindVector:
		for _, elem := range d.vec {
			if elem.kind != KindHash {
				return &UnexpectedDataTypeError{Context: n.Name}
			}
			if err := renderNodes(rw, n.Children, pushed(stack, elem.hash), partials); err != nil {
				return err
			}
		}
		return rw.err

	default:
		// Bool(true), String, Integer, Float: render the body once against
		// the unchanged context, the same as a non-list truthy section in
		// every reference Mustache implementation.
		return renderNodes(rw, n.Children, stack, partials)
	}
}

// evalLambda invokes d's LambdaFunc with text, then re-tokenizes,
// re-parses and re-renders whatever it returns against stack (spec
// properties L1-L3): a lambda's returned string is template source, not
// literal output.
func evalLambda(d Data, text string, stack ctxStack, partials PartialProvider) (string, error) {
	render := func(s string) (string, error) {
		return renderString(s, stack, partials)
	}
	result, err := d.lambda(text, render)
	if err != nil {
		return "", err
	}
	return renderString(result, stack, partials)
}

// renderString tokenizes, parses and renders s from scratch against
// stack; it is the engine behind RenderFunc and behind a lambda's own
// return value.
func renderString(s string, stack ctxStack, partials PartialProvider) (string, error) {
	nodes, err := parseNodes(parse.Lex(s))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	rw := &renderWriter{w: &b}
	if err := renderNodes(rw, nodes, stack, partials); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderPartial(rw *renderWriter, n Node, stack ctxStack, partials PartialProvider) error {
	if partials == nil {
		return nil
	}
	text, ok, err := partials.Get(n.Name)
	if err != nil {
		return &PartialReadError{Name: n.Name, Cause: err}
	}
	if !ok {
		return nil
	}
	nodes, perr := parseNodes(parse.Lex(text))
	if perr != nil {
		return perr
	}
	return renderNodes(rw, nodes, stack, partials)
}
