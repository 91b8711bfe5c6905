package mustache

import (
	"os"
	"path"
	"unicode/utf8"
)

// PartialProvider resolves a {{>name}} tag to the literal template text
// of the named partial. The comma-ok return makes "no such partial" a
// normal, non-error outcome: renderPartial treats ok == false as if the
// tag had been absent from the template entirely. A non-nil error means
// the provider found the partial but could not read it (a PartialReadError
// candidate), not that the name is unknown.
type PartialProvider interface {
	Get(name string) (text string, ok bool, err error)
}

// FileProvider resolves partials from a filesystem. When a partial named
// NAME is requested, FileProvider searches each of Paths in order for a
// file named NAME followed by any of Extensions. The default for Paths is
// the current working directory; the default for Extensions is, in order,
// no extension, then ".mustache", then ".stache".
type FileProvider struct {
	Paths      []string
	Extensions []string
}

func (fp *FileProvider) Get(name string) (string, bool, error) {
	paths := fp.Paths
	if paths == nil {
		paths = []string{""}
	}
	exts := fp.Extensions
	if exts == nil {
		exts = []string{"", ".mustache", ".stache"}
	}

	for _, p := range paths {
		for _, e := range exts {
			candidate := path.Join(p, name+e)
			data, err := os.ReadFile(candidate)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return "", false, err
			}
			if !utf8.Valid(data) {
				return "", false, &invalidUTF8Error{path: candidate}
			}
			return string(data), true, nil
		}
	}
	return "", false, nil
}

var _ PartialProvider = (*FileProvider)(nil)

type invalidUTF8Error struct {
	path string
}

func (e *invalidUTF8Error) Error() string {
	return "mustache: partial file " + e.path + " is not valid UTF-8"
}

// StaticProvider resolves partials from an in-memory map of name to
// template source, useful for tests and embedded templates.
type StaticProvider struct {
	Partials map[string]string
}

func (sp *StaticProvider) Get(name string) (string, bool, error) {
	if sp.Partials == nil {
		return "", false, nil
	}
	text, ok := sp.Partials[name]
	return text, ok, nil
}

var _ PartialProvider = (*StaticProvider)(nil)
