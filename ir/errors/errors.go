// Package errors implements the fixed validation-error taxonomy spec.md §7
// describes: structured, data-not-exceptions errors carrying a code, a
// primary-plus-context location list, and free-form structured fields
// rendered into a stable message.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/viant/queryc/ir"
	"go.uber.org/multierr"
)

// Code enumerates every validation rule the builder and later passes can
// raise (spec.md §4.3, §7). It is a closed, fixed set — adding a new rule
// means adding a new Code here, never reusing an existing one for a
// different meaning.
type Code int

const (
	UnknownArgument Code = iota
	DuplicateInputField
	MissingRequiredFields
	ExpectedValueMatchingType
	InvalidSelectionsOnScalarField
	ExpectedSelectionsOnObjectField
	UndefinedFragment
	InvalidFragmentSpreadType
	InvalidInlineFragmentTypeCondition
	UnknownDirective
	InvalidDirectiveUsageUnsupportedLocation
	InvalidVariableUsage
	IncompatibleVariableUsage
	ExpectedVariablesToBeDefined
	UnsupportedNestListType
	UnknownField
	UnknownType
	DuplicateDefinition
	ExpectedCompositeType

	// Connection-shape errors (spec.md §4.5 "connections").
	InvalidConnectionFieldType
	ExpectedConnectionToHaveEdgesSelection
	ExpectedConnectionToExposeValidEdgesField
	ExpectedConnectionToExposeValidPageInfoField

	// Declarative-connection errors (spec.md §4.5 "declarative_connection").
	AppendEdgeUnsupported
	PrependEdgeUnsupported
	AppendNodeUnsupported
	PrependNodeUnsupported
	DeleteRecordUnsupported

	// @module / @arguments form errors (spec.md §7).
	InvalidModuleDirectiveUsage
	InvalidArgumentsDirectiveUsage
	DisallowedIDAliasing
)

var codeNames = map[Code]string{
	UnknownArgument:                           "UnknownArgument",
	DuplicateInputField:                       "DuplicateInputField",
	MissingRequiredFields:                     "MissingRequiredFields",
	ExpectedValueMatchingType:                 "ExpectedValueMatchingType",
	InvalidSelectionsOnScalarField:            "InvalidSelectionsOnScalarField",
	ExpectedSelectionsOnObjectField:           "ExpectedSelectionsOnObjectField",
	UndefinedFragment:                         "UndefinedFragment",
	InvalidFragmentSpreadType:                 "InvalidFragmentSpreadType",
	InvalidInlineFragmentTypeCondition:        "InvalidInlineFragmentTypeCondition",
	UnknownDirective:                          "UnknownDirective",
	InvalidDirectiveUsageUnsupportedLocation:  "InvalidDirectiveUsageUnsupportedLocation",
	InvalidVariableUsage:                      "InvalidVariableUsage",
	IncompatibleVariableUsage:                 "IncompatibleVariableUsage",
	ExpectedVariablesToBeDefined:              "ExpectedVariablesToBeDefined",
	UnsupportedNestListType:                   "UnsupportedNestListType",
	UnknownField:                              "UnknownField",
	UnknownType:                               "UnknownType",
	DuplicateDefinition:                       "DuplicateDefinition",
	ExpectedCompositeType:                     "ExpectedCompositeType",
	InvalidConnectionFieldType:                "InvalidConnectionFieldType",
	ExpectedConnectionToHaveEdgesSelection:    "ExpectedConnectionToHaveEdgesSelection",
	ExpectedConnectionToExposeValidEdgesField: "ExpectedConnectionToExposeValidEdgesField",
	ExpectedConnectionToExposeValidPageInfoField: "ExpectedConnectionToExposeValidPageInfoField",
	AppendEdgeUnsupported:           "AppendEdgeUnsupported",
	PrependEdgeUnsupported:          "PrependEdgeUnsupported",
	AppendNodeUnsupported:           "AppendNodeUnsupported",
	PrependNodeUnsupported:          "PrependNodeUnsupported",
	DeleteRecordUnsupported:         "DeleteRecordUnsupported",
	InvalidModuleDirectiveUsage:     "InvalidModuleDirectiveUsage",
	InvalidArgumentsDirectiveUsage:  "InvalidArgumentsDirectiveUsage",
	DisallowedIDAliasing:            "DisallowedIDAliasing",
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// LocationTag annotates a Location with the role it plays in the message,
// e.g. "defined here" or "previously used as" (spec.md §7).
type LocationTag struct {
	Loc  ir.Location
	Role string // "" for the primary location
}

// ValidationError is a single structured diagnostic. The first entry of
// Locations is the primary cause; later entries provide context. Fields
// carries rule-specific structured data (e.g. the offending argument name);
// callers render it with Message, which never panics even if a caller
// forgot to populate Fields.
type ValidationError struct {
	Code      Code
	Message   string
	Locations []LocationTag
	Fields    map[string]string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Locations) > 0 {
		b.WriteString("\n")
		for i, l := range e.Locations {
			if i > 0 {
				b.WriteString("\n")
			}
			if l.Role != "" {
				fmt.Fprintf(&b, "  %s: %s", l.Role, locString(l.Loc))
			} else {
				fmt.Fprintf(&b, "  %s", locString(l.Loc))
			}
		}
	}
	return b.String()
}

func locString(l ir.Location) string {
	return fmt.Sprintf("file#%d:%d-%d", l.FileKey, l.Start, l.End)
}

// New builds a ValidationError with a single primary location.
func New(code Code, message string, primary ir.Location) *ValidationError {
	return &ValidationError{Code: code, Message: message, Locations: []LocationTag{{Loc: primary}}}
}

// WithContext appends a contextual location (e.g. "defined here") to err
// and returns it, for chaining at the call site.
func (e *ValidationError) WithContext(role string, loc ir.Location) *ValidationError {
	e.Locations = append(e.Locations, LocationTag{Loc: loc, Role: role})
	return e
}

// WithField attaches a structured field to the error (e.g. the argument or
// field name involved), for programmatic consumers and richer messages.
func (e *ValidationError) WithField(key, value string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[key] = value
	return e
}

// List is an accumulated, ordered collection of validation errors. The
// builder and passes append to a List rather than failing fast (spec.md
// §4.3 "Errors accumulate").
type List struct {
	errs []*ValidationError
}

// Add appends err to the list if non-nil.
func (l *List) Add(err *ValidationError) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// Errors returns the accumulated errors in insertion order.
func (l *List) Errors() []*ValidationError { return l.errs }

// HasErrors reports whether any errors were accumulated.
func (l *List) HasErrors() bool { return len(l.errs) > 0 }

// Sorted returns a copy of the accumulated errors ordered by primary
// location (file, then start offset), matching spec.md §7's "stable order"
// requirement for the final report.
func (l *List) Sorted() []*ValidationError {
	out := make([]*ValidationError, len(l.errs))
	copy(out, l.errs)
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := primaryLoc(out[i]), primaryLoc(out[j])
		if li.FileKey != lj.FileKey {
			return li.FileKey < lj.FileKey
		}
		return li.Start < lj.Start
	})
	return out
}

func primaryLoc(e *ValidationError) ir.Location {
	if len(e.Locations) == 0 {
		return ir.Location{}
	}
	return e.Locations[0].Loc
}

// Report renders every accumulated error, in stable order, separated by a
// blank line, matching spec.md §6 "Validation error text" format.
func (l *List) Report() string {
	var b strings.Builder
	for i, e := range l.Sorted() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// Combined returns the accumulated errors as a single multierr-joined
// error (nil if empty), so a driver can propagate "errors accumulate;
// continue" results (spec.md §4.3, §7) through ordinary `error`-returning
// call chains instead of threading *List everywhere.
func (l *List) Combined() error {
	var combined error
	for _, e := range l.Sorted() {
		combined = multierr.Append(combined, e)
	}
	return combined
}
