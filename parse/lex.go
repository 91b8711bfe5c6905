// Package parse implements the tokenizer stage of the mustache rendering
// pipeline: it scans a raw template string and emits a linear sequence of
// typed Tokens, without attempting to match opening and closing section
// tags (that's the parser stage, one level up).
//
// The scanner here began life as a copy of the stateFn-driven lexer from
// Go's text/template (the same lineage the teacher's stub in this package
// was modeled on), but mustache templates have no nested expression
// grammar to speak of, so the channel-fed goroutine and parenDepth/stateFn
// plumbing of that design are overkill: this version runs synchronously and
// returns a []Token directly.
package parse

import "strings"

// TokenType identifies the kind of a Token.
type TokenType int

const (
	// TokenText is a run of literal template text. Never empty.
	TokenText TokenType = iota
	// TokenVariable is {{ name }}; escaped on interpolation.
	TokenVariable
	// TokenRaw is {{{ name }}} or {{& name }}; not escaped.
	TokenRaw
	// TokenOpenSection is {{# name }} (Inverted=false) or {{^ name }} (Inverted=true).
	TokenOpenSection
	// TokenCloseSection is {{/ name }}.
	TokenCloseSection
	// TokenPartial is {{> name }}.
	TokenPartial
	// TokenComment is {{! ... }}; discarded by the parser.
	TokenComment
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "Text"
	case TokenVariable:
		return "Variable"
	case TokenRaw:
		return "Raw"
	case TokenOpenSection:
		return "OpenSection"
	case TokenCloseSection:
		return "CloseSection"
	case TokenPartial:
		return "Partial"
	case TokenComment:
		return "Comment"
	default:
		return "Invalid"
	}
}

// Token is one element of the linear sequence produced by Lex.
//
// Raw always carries the original source substring for this token: for
// TokenText it is the literal text itself; for every tag token it is the
// tag's full "{{...}}" (or "{{{...}}}") spelling, preserved so that a
// section lambda can later be handed back the exact bytes it appeared as.
type Token struct {
	Type     TokenType
	Name     string // trimmed identifier (dotted paths kept whole); unused for Text/Comment
	Inverted bool   // only meaningful for TokenOpenSection
	Raw      string
	Pos      Pos // byte offset of the token's first byte in the source
}

const (
	openDelim     = "{{"
	closeDelim    = "}}"
	closeRawDelim = "}}}"
)

// Lex scans input and returns the linear token sequence. It is total: it
// never fails. Malformed tags (no matching close delimiter) simply fall out
// as a trailing Text token covering the unmatched remainder.
func Lex(input string) []Token {
	var toks []Token
	pos := 0
	n := len(input)

	for pos < n {
		rel := strings.Index(input[pos:], openDelim)
		if rel < 0 {
			toks = emitText(toks, input[pos:], Pos(pos))
			break
		}
		tagStart := pos + rel

		// Split the pending text run into its main body and any trailing
		// run of spaces/tabs/CR/LF immediately preceding the tag; these
		// are kept as separate Text tokens per the tokenizer contract.
		pre := input[pos:tagStart]
		body, ws := splitTrailingSpace(pre)
		toks = emitText(toks, body, Pos(pos))
		toks = emitText(toks, ws, Pos(tagStart-len(ws)))

		innerStart := tagStart + len(openDelim)
		triple := innerStart < n && input[innerStart] == '{'
		closer := closeDelim
		if triple {
			closer = closeRawDelim
		}

		closeRel := strings.Index(input[innerStart:], closer)
		if closeRel < 0 {
			// Unmatched open tag: everything from "{{" onward is literal text.
			toks = emitText(toks, input[tagStart:], Pos(tagStart))
			pos = n
			break
		}
		closeAbs := innerStart + closeRel
		tagEnd := closeAbs + len(closer)
		raw := input[tagStart:tagEnd]

		var inner string
		if triple {
			inner = input[innerStart+1 : closeAbs]
		} else {
			inner = input[innerStart:closeAbs]
		}
		toks = append(toks, classify(inner, raw, triple, Pos(tagStart)))

		pos = tagEnd
		wsEnd := pos
		for wsEnd < n && isTemplateSpace(input[wsEnd]) {
			wsEnd++
		}
		if wsEnd > pos {
			toks = emitText(toks, input[pos:wsEnd], Pos(pos))
			pos = wsEnd
		}
	}

	return toks
}

// classify turns a tag's trimmed inner text into a Token, per the sigil
// table in the tokenizer contract: "!" comment, "#"/"^" open section,
// "/" close section, ">" partial, "&" raw, default variable. Triple-brace
// tags are always Raw regardless of their inner sigil.
func classify(inner, raw string, triple bool, pos Pos) Token {
	if triple {
		return Token{Type: TokenRaw, Name: strings.TrimSpace(inner), Raw: raw, Pos: pos}
	}

	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return Token{Type: TokenVariable, Name: "", Raw: raw, Pos: pos}
	}

	switch trimmed[0] {
	case '!':
		return Token{Type: TokenComment, Raw: raw, Pos: pos}
	case '#':
		return Token{Type: TokenOpenSection, Name: strings.TrimSpace(trimmed[1:]), Inverted: false, Raw: raw, Pos: pos}
	case '^':
		return Token{Type: TokenOpenSection, Name: strings.TrimSpace(trimmed[1:]), Inverted: true, Raw: raw, Pos: pos}
	case '/':
		return Token{Type: TokenCloseSection, Name: strings.TrimSpace(trimmed[1:]), Raw: raw, Pos: pos}
	case '>':
		return Token{Type: TokenPartial, Name: strings.TrimSpace(trimmed[1:]), Raw: raw, Pos: pos}
	case '&':
		return Token{Type: TokenRaw, Name: strings.TrimSpace(trimmed[1:]), Raw: raw, Pos: pos}
	default:
		return Token{Type: TokenVariable, Name: trimmed, Raw: raw, Pos: pos}
	}
}

func emitText(toks []Token, s string, pos Pos) []Token {
	if s == "" {
		return toks
	}
	return append(toks, Token{Type: TokenText, Raw: s, Pos: pos})
}

// splitTrailingSpace divides s into (body, ws) where ws is the longest
// trailing run of spaces/tabs/CR/LF.
func splitTrailingSpace(s string) (body, ws string) {
	i := len(s)
	for i > 0 && isTemplateSpace(s[i-1]) {
		i--
	}
	return s[:i], s[i:]
}

func isTemplateSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
