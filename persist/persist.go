// Package persist defines the pluggable persisted-query boundary spec.md
// §6 specifies but leaves external: "each operation's text may be POSTed
// to an external URL with extra key-value params; the response's
// persisted id is embedded in the artifact." The actual HTTP transport is
// an external collaborator (spec.md §1 Non-goals); this package only
// fixes the shape callers implement against.
package persist

// Persister is the `(text, url, params) → id` boundary spec.md §6 names.
// A concrete implementation owns the URL and transport; Persist is called
// once per artifact and may block (spec.md §5: "awaitable per artifact").
type Persister interface {
	Persist(text string, params map[string]string) (id string, err error)
}

// Disabled is the zero-configuration Persister: every call returns an
// empty id, which artifact.BuildOperation renders as the `null` literal.
// Used when a project has no persist-query configuration attached.
type Disabled struct{}

func (Disabled) Persist(string, map[string]string) (string, error) {
	return "", nil
}
