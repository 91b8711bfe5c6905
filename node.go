package mustache

import (
	"strings"

	"github.com/stachengine/mustache/parse"
)

// NodeType identifies the kind of a Node in the parsed template tree.
type NodeType int

const (
	// NodeStatic is verbatim output.
	NodeStatic NodeType = iota
	// NodeValue is escaped interpolation.
	NodeValue
	// NodeUnescaped is raw interpolation.
	NodeUnescaped
	// NodeSection is a (possibly inverted) section spanning a balanced
	// range of the token stream.
	NodeSection
	// NodePartial includes another template by name.
	NodePartial
)

// Node is the parsed form of a template: the tokenizer's linear Token
// sequence folded into a tree by matching {{#name}}/{{^name}} tags with
// their {{/name}} close.
type Node struct {
	Type     NodeType
	Text     string // NodeStatic payload
	Name     string // NodeValue/NodeUnescaped/NodeSection/NodePartial
	Raw      string // original tag text, for NodeValue/NodeUnescaped/NodePartial
	Inverted bool   // NodeSection only
	Children []Node // NodeSection only
	OpenRaw  string // NodeSection only: the {{#name}}/{{^name}} tag text
	CloseRaw string // NodeSection only: the {{/name}} tag text
}

// parseError reports a structural defect in the token stream that the
// parser cannot route around, such as a section with no matching close.
// It predates rendering and sits outside the render-time error taxonomy
// of errors.go.
type parseError struct {
	message string
}

func (e *parseError) Error() string {
	return "mustache: " + e.message
}

// parseNodes folds a linear token sequence into a node tree. Nested
// sections sharing a name are handled correctly because each {{#name}}
// token recurses into its own call that consumes tokens up to its own
// nearest matching {{/name}}; the recursion itself tracks nesting depth,
// there is no separate counter to get wrong.
func parseNodes(tokens []parse.Token) ([]Node, error) {
	nodes, _, _, err := parseUntil(tokens, 0, "")
	return nodes, err
}

func parseUntil(tokens []parse.Token, idx int, sectionName string) (nodes []Node, next int, closeRaw string, err error) {
	opening := sectionName != ""

	for idx < len(tokens) {
		t := tokens[idx]

		switch t.Type {
		case parse.TokenText:
			nodes = append(nodes, Node{Type: NodeStatic, Text: t.Raw})
			idx++

		case parse.TokenComment:
			idx++

		case parse.TokenVariable:
			nodes = append(nodes, Node{Type: NodeValue, Name: t.Name, Raw: t.Raw})
			idx++

		case parse.TokenRaw:
			nodes = append(nodes, Node{Type: NodeUnescaped, Name: t.Name, Raw: t.Raw})
			idx++

		case parse.TokenPartial:
			nodes = append(nodes, Node{Type: NodePartial, Name: t.Name, Raw: t.Raw})
			idx++

		case parse.TokenOpenSection:
			children, n, cRaw, err := parseUntil(tokens, idx+1, t.Name)
			if err != nil {
				return nil, 0, "", err
			}
			nodes = append(nodes, Node{
				Type:     NodeSection,
				Name:     t.Name,
				Inverted: t.Inverted,
				Children: children,
				OpenRaw:  t.Raw,
				CloseRaw: cRaw,
			})
			idx = n

		case parse.TokenCloseSection:
			if opening && t.Name == sectionName {
				return nodes, idx + 1, t.Raw, nil
			}
			// An unmatched close tag (wrong name, or no enclosing section
			// at all) is silently ignored; this is intentional, matching
			// the lenient behavior the source's tests exercise.
			idx++

		default:
			idx++
		}
	}

	if opening {
		return nil, 0, "", &parseError{message: "section " + sectionName + " has no closing tag"}
	}
	return nodes, idx, "", nil
}

// sectionText reconstructs the literal source text spanned by a set of
// child nodes: the exact bytes a {{#name}}BODY{{/name}} section's lambda
// receives as BODY. Nested sections contribute their own open/close tag
// text plus their own reconstructed body.
func sectionText(nodes []Node) string {
	var b strings.Builder
	writeSectionText(&b, nodes)
	return b.String()
}

func writeSectionText(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n.Type {
		case NodeStatic:
			b.WriteString(n.Text)
		case NodeValue, NodeUnescaped, NodePartial:
			b.WriteString(n.Raw)
		case NodeSection:
			b.WriteString(n.OpenRaw)
			writeSectionText(b, n.Children)
			b.WriteString(n.CloseRaw)
		}
	}
}
