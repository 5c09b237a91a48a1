// Package artifact assembles the per-operation and per-fragment output
// files a build emits (spec.md §6 "Output artifact text format") and
// signs them so downstream build tools can verify a file wasn't hand-
// edited after generation (spec.md §8 invariant 7).
package artifact

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/persist"
	"github.com/viant/queryc/printer"
)

// Artifact is one emitted file: a name (the operation or fragment name)
// and its full rendered, signed content.
type Artifact struct {
	Name    string
	Content []byte
}

// operationRequest is the JSON literal assigned to the `request` constant
// in an operation artifact: the printed request plus metadata a
// downstream runtime needs to issue it (name, operation kind, persisted
// id). Field names match spec.md's own vocabulary, not Go convention,
// since this literal is read by the downstream tool, not by Go code.
type operationRequest struct {
	Name          string `json:"name"`
	OperationKind string `json:"operationKind"`
	Text          string `json:"text"`
	ID            string `json:"id"`
}

func operationKindString(k ir.OperationKind) string {
	switch k {
	case ir.Mutation:
		return "mutation"
	case ir.Subscription:
		return "subscription"
	default:
		return "query"
	}
}

// BuildOperation assembles the artifact for one operation (spec.md §6,
// §4.10 step 7). operationText is the Operation-Text-pipeline definition
// of this name — its printed form is both the request descriptor's `text`
// field and the standalone `text` constant. A nil persister leaves the id
// constant `null`; otherwise persister.Persist is called synchronously
// with the printed operation text (spec.md §5: "the persist-id RPC, which
// is awaitable per artifact").
func BuildOperation(operationText *ir.OperationDefinition, persister persist.Persister, persistParams map[string]string) (*Artifact, error) {
	name := intern.Lookup(operationText.Name.Value)
	text := printer.Operation(operationText)

	id := ""
	if persister != nil {
		persistedID, err := persister.Persist(text, persistParams)
		if err != nil {
			return nil, fmt.Errorf("artifact %q: persist: %w", name, err)
		}
		id = persistedID
	}

	req := operationRequest{
		Name:          name,
		OperationKind: operationKindString(operationText.OperationKind),
		Text:          text,
		ID:            id,
	}
	requestJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("artifact %q: marshal request: %w", name, err)
	}

	idLiteral := "null"
	if id != "" {
		idLiteral = "'" + id + "'"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\n", signingPlaceholder)
	fmt.Fprintf(&b, "const request = %s;\n", requestJSON)
	fmt.Fprintf(&b, "const text = `%s`;\n", text)
	fmt.Fprintf(&b, "const id = %s;\n", idLiteral)

	return &Artifact{Name: name, Content: []byte(Sign(b.String()))}, nil
}

// BuildFragment assembles the artifact for one fragment (spec.md §6: "For
// fragments: a single `fragment = <fragment-json-literal>`").
func BuildFragment(reader *ir.FragmentDefinition) (*Artifact, error) {
	name := intern.Lookup(reader.Name.Value)
	text := printer.Fragment(reader)

	payload := struct {
		Name          string `json:"name"`
		TypeCondition string `json:"type"`
		Text          string `json:"text"`
	}{
		Name:          name,
		TypeCondition: intern.Lookup(reader.TypeCondition),
		Text:          text,
	}
	fragmentJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("artifact %q: marshal fragment: %w", name, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s\n", signingPlaceholder)
	fmt.Fprintf(&b, "const fragment = %s;\n", fragmentJSON)

	return &Artifact{Name: name, Content: []byte(Sign(b.String()))}, nil
}
