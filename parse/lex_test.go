package parse

import (
	"reflect"
	"testing"
)

type lexTest struct {
	name  string
	input string
	want  []Token
}

func tok(typ TokenType, name, raw string) Token {
	return Token{Type: typ, Name: name, Raw: raw}
}

func invTok(name, raw string) Token {
	return Token{Type: TokenOpenSection, Name: name, Inverted: true, Raw: raw}
}

var lexTests = []lexTest{
	{"empty", "", nil},
	{"numbers", "12345", []Token{tok(TokenText, "", "12345")}},
	{"spaces", " \t\n", []Token{tok(TokenText, "", " \t\n")}},
	{"text", "now is the time", []Token{tok(TokenText, "", "now is the time")}},
	{"comment", "12345{{! Comment Block! }}67890", []Token{
		tok(TokenText, "", "12345"),
		tok(TokenComment, "", "{{! Comment Block! }}"),
		tok(TokenText, "", "67890"),
	}},
	{"interpolation", "{{foo}}", []Token{
		tok(TokenVariable, "foo", "{{foo}}"),
	}},
	{"interpolation with spaces", "{{  foo  }}", []Token{
		tok(TokenVariable, "foo", "{{  foo  }}"),
	}},
	{"dotted name", "{{a.b.c}}", []Token{
		tok(TokenVariable, "a.b.c", "{{a.b.c}}"),
	}},
	{"triple mustache raw", "{{{foo}}}", []Token{
		tok(TokenRaw, "foo", "{{{foo}}}"),
	}},
	{"ampersand raw", "{{& foo}}", []Token{
		tok(TokenRaw, "foo", "{{& foo}}"),
	}},
	{"section", "{{#foo}}stuff goes here{{/foo}}", []Token{
		{Type: TokenOpenSection, Name: "foo", Raw: "{{#foo}}"},
		tok(TokenText, "", "stuff goes here"),
		tok(TokenCloseSection, "foo", "{{/foo}}"),
	}},
	{"inverted section", "{{^foo}}nope{{/foo}}", []Token{
		invTok("foo", "{{^foo}}"),
		tok(TokenText, "", "nope"),
		tok(TokenCloseSection, "foo", "{{/foo}}"),
	}},
	{"partial", "{{>text}}", []Token{
		tok(TokenPartial, "text", "{{>text}}"),
	}},
	{"unmatched open tag falls out as text", "before {{oops", []Token{
		tok(TokenText, "", "before"),
		tok(TokenText, "", " "),
		tok(TokenText, "", "{{oops"),
	}},
	{"whitespace around tag kept as separate text tokens", "a \t{{x}}\t b", []Token{
		tok(TokenText, "", "a"),
		tok(TokenText, "", " \t"),
		tok(TokenVariable, "x", "{{x}}"),
		tok(TokenText, "", "\t "),
		tok(TokenText, "", "b"),
	}},
}

func TestLex(t *testing.T) {
	for _, test := range lexTests {
		got := Lex(test.input)
		if !tokensEqual(got, test.want) {
			t.Errorf("%s: got\n\t%+v\nwant\n\t%+v", test.name, got, test.want)
		}
	}
}

func tokensEqual(got, want []Token) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		g, w := got[i], want[i]
		if g.Type != w.Type || g.Name != w.Name || g.Raw != w.Raw || g.Inverted != w.Inverted {
			return false
		}
	}
	return true
}

// TestLexTotality exercises the T1 invariant: concatenating every token's
// Raw text reproduces the input whenever the input contains no malformed
// trailing tag.
func TestLexTotality(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"{{a}}{{b}}{{{c}}}{{&d}}{{#e}}x{{/e}}{{^f}}y{{/f}}{{!z}}{{>g}}",
		"  leading and trailing ws  ",
		"mixed {{a}} and {{#b}} nested {{/b}} text",
	}
	for _, in := range inputs {
		toks := Lex(in)
		var rebuilt string
		for _, tk := range toks {
			rebuilt += tk.Raw
		}
		if rebuilt != in {
			t.Errorf("Lex(%q): reconstructed %q", in, rebuilt)
		}
	}
}

func TestLexNestedSameNameSections(t *testing.T) {
	toks := Lex("{{#x}}a{{#x}}b{{/x}}c{{/x}}")
	var opens, closes int
	for _, tk := range toks {
		if tk.Type == TokenOpenSection && tk.Name == "x" {
			opens++
		}
		if tk.Type == TokenCloseSection && tk.Name == "x" {
			closes++
		}
	}
	if opens != 2 || closes != 2 {
		t.Fatalf("expected 2 opens and 2 closes for nested same-named sections, got %d/%d", opens, closes)
	}
	if !reflect.DeepEqual(toks[0], Token{Type: TokenOpenSection, Name: "x", Raw: "{{#x}}"}) {
		t.Fatalf("unexpected first token: %+v", toks[0])
	}
}
