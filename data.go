package mustache

// Kind identifies which variant of Data a value holds.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindVector
	KindHash
	KindLambda
)

// RenderFunc re-enters the rendering pipeline (tokenize, parse, render)
// for an arbitrary string against the context stack active at the call
// site. Lambdas receive one of these so that a section lambda can expand
// mustache tags in text it assembles itself (see LambdaFunc).
type RenderFunc func(text string) (string, error)

// LambdaFunc is a user-supplied transformation stored in a Hash or Vector.
// For an interpolation tag ({{lambda}}/{{{lambda}}}), text is "". For a
// section tag ({{#lambda}}BODY{{/lambda}}), text is the literal BODY bytes
// exactly as they appeared in the template. The returned string is always
// re-tokenized, re-parsed and rendered against the current context stack;
// render is provided so the lambda can do that itself before returning
// (useful when a lambda wants to inspect the expanded text).
//
// A non-nil error returned by the lambda aborts the render and is passed
// back to the caller unchanged; errors from the render parameter (e.g.
// from a nested lambda) propagate the same way when the lambda returns them.
type LambdaFunc func(text string, render RenderFunc) (string, error)

// Data is the tagged value tree the renderer walks. Build one with
// NewString/NewBool/.../NewLambda, or more conveniently with HashBuilder
// and VecBuilder.
//
// A Data is a value type and is safe to copy, except that a KindLambda
// Data's closure may itself hold mutable state (a call counter, for
// example); Data does not clone that state, by design — cloning would
// break lambdas whose behavior depends on being invoked a specific number
// of times within one render (see LambdaFunc).
type Data struct {
	kind   Kind
	str    string
	b      bool
	i      int64
	f      float64
	vec    []Data
	hash   map[string]Data
	lambda LambdaFunc
}

// Kind reports which variant d holds.
func (d Data) Kind() Kind { return d.kind }

func NewString(s string) Data  { return Data{kind: KindString, str: s} }
func NewBool(b bool) Data      { return Data{kind: KindBool, b: b} }
func NewInteger(i int64) Data  { return Data{kind: KindInteger, i: i} }
func NewFloat(f float64) Data  { return Data{kind: KindFloat, f: f} }
func NewVector(v []Data) Data  { return Data{kind: KindVector, vec: v} }
func NewHash(h map[string]Data) Data {
	if h == nil {
		h = map[string]Data{}
	}
	return Data{kind: KindHash, hash: h}
}
func NewLambda(fn LambdaFunc) Data { return Data{kind: KindLambda, lambda: fn} }

// Range calls fn for every key/value pair of a KindHash Data, in
// unspecified order. It is a no-op for every other kind; it exists so
// callers outside this package (the CLI's YAML/override merging, in
// particular) can walk a Hash without reaching into its unexported field.
func (d Data) Range(fn func(key string, v Data)) {
	if d.kind != KindHash {
		return
	}
	for k, v := range d.hash {
		fn(k, v)
	}
}

// truthy implements the section-condition rules of the data model: a
// missing resolution is falsy; Bool is its own value; Integer is truthy
// iff nonzero; Vector is truthy iff non-empty; everything else (String,
// Float, Hash, Lambda) is truthy.
func truthy(d Data, found bool) bool {
	if !found {
		return false
	}
	switch d.kind {
	case KindBool:
		return d.b
	case KindInteger:
		return d.i != 0
	case KindVector:
		return len(d.vec) > 0
	default:
		return true
	}
}

// HashBuilder fluently assembles a KindHash Data, grounded on rustache's
// HashBuilder (original_source/src/build.rs): a chain of Insert* calls
// each returning the receiver, terminated by Build.
type HashBuilder struct {
	data map[string]Data
}

func NewHashBuilder() *HashBuilder {
	return &HashBuilder{data: map[string]Data{}}
}

func (b *HashBuilder) Insert(key string, v Data) *HashBuilder {
	b.data[key] = v
	return b
}

func (b *HashBuilder) InsertString(key, v string) *HashBuilder {
	return b.Insert(key, NewString(v))
}

func (b *HashBuilder) InsertBool(key string, v bool) *HashBuilder {
	return b.Insert(key, NewBool(v))
}

func (b *HashBuilder) InsertInteger(key string, v int64) *HashBuilder {
	return b.Insert(key, NewInteger(v))
}

func (b *HashBuilder) InsertFloat(key string, v float64) *HashBuilder {
	return b.Insert(key, NewFloat(v))
}

func (b *HashBuilder) InsertHash(key string, v *HashBuilder) *HashBuilder {
	return b.Insert(key, v.Build())
}

func (b *HashBuilder) InsertVector(key string, v *VecBuilder) *HashBuilder {
	return b.Insert(key, v.Build())
}

func (b *HashBuilder) InsertLambda(key string, fn LambdaFunc) *HashBuilder {
	return b.Insert(key, NewLambda(fn))
}

// Build returns the assembled Data.
func (b *HashBuilder) Build() Data {
	return NewHash(b.data)
}

// VecBuilder fluently assembles a KindVector Data, grounded on rustache's
// VecBuilder (original_source/src/build.rs).
type VecBuilder struct {
	data []Data
}

func NewVecBuilder() *VecBuilder {
	return &VecBuilder{}
}

func (b *VecBuilder) Push(v Data) *VecBuilder {
	b.data = append(b.data, v)
	return b
}

func (b *VecBuilder) PushString(v string) *VecBuilder {
	return b.Push(NewString(v))
}

func (b *VecBuilder) PushBool(v bool) *VecBuilder {
	return b.Push(NewBool(v))
}

func (b *VecBuilder) PushInteger(v int64) *VecBuilder {
	return b.Push(NewInteger(v))
}

func (b *VecBuilder) PushFloat(v float64) *VecBuilder {
	return b.Push(NewFloat(v))
}

func (b *VecBuilder) PushHash(v *HashBuilder) *VecBuilder {
	return b.Push(v.Build())
}

func (b *VecBuilder) PushVector(v *VecBuilder) *VecBuilder {
	return b.Push(v.Build())
}

func (b *VecBuilder) PushLambda(fn LambdaFunc) *VecBuilder {
	return b.Push(NewLambda(fn))
}

// Build returns the assembled Data.
func (b *VecBuilder) Build() Data {
	return NewVector(b.data)
}
