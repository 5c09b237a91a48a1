package build

import (
	"fmt"

	"github.com/viant/queryc/ir"
	ierrors "github.com/viant/queryc/ir/errors"
)

func ierrorsUnknownType(name string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.UnknownType, fmt.Sprintf("Unknown type %q", name), at).WithField("type", name)
}

func ierrorsUnknownArgument(name string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.UnknownArgument, fmt.Sprintf("Unknown input field %q", name), at).WithField("field", name)
}

func ierrorsUnknownArgumentAt(name, where string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.UnknownArgument, fmt.Sprintf("Unknown argument %q on %s", name, where), at).
		WithField("argument", name).WithField("on", where)
}

func ierrorsDuplicateInputField(name string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.DuplicateInputField, fmt.Sprintf("Duplicate input field %q", name), at).WithField("field", name)
}

func ierrorsMissingRequiredFields(owner, field string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.MissingRequiredFields, fmt.Sprintf("Missing required field %q on %q", field, owner), at).
		WithField("owner", owner).WithField("field", field)
}

func ierrorsUnknownField(typeName, field string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.UnknownField, fmt.Sprintf("Unknown field %q on type %q", field, typeName), at).
		WithField("type_", typeName).WithField("field", field)
}

func ierrorsInvalidSelectionsOnScalar(typeName, field string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.InvalidSelectionsOnScalarField,
		fmt.Sprintf("Field %q of scalar type %q must not have a selection set", field, typeName), at)
}

func ierrorsExpectedSelectionsOnObject(typeName, field string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.ExpectedSelectionsOnObjectField,
		fmt.Sprintf("Field %q of composite type %q must have a selection set", field, typeName), at)
}

func ierrorsUndefinedFragment(name string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.UndefinedFragment, fmt.Sprintf("Undefined fragment %q", name), at).WithField("fragment", name)
}

func ierrorsInvalidFragmentSpreadType(fragName, fragType, parentType string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.InvalidFragmentSpreadType,
		fmt.Sprintf("Fragment %q cannot be spread here: its type condition %q does not overlap %q", fragName, fragType, parentType), at)
}

func ierrorsInvalidInlineFragmentTypeCondition(typeCond, parentType string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.InvalidInlineFragmentTypeCondition,
		fmt.Sprintf("Inline fragment type condition %q does not overlap parent type %q", typeCond, parentType), at)
}

func ierrorsUnknownDirective(name string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.UnknownDirective, fmt.Sprintf("Unknown directive %q", name), at).WithField("directive", name)
}

func ierrorsInvalidDirectiveLocation(name, location string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.InvalidDirectiveUsageUnsupportedLocation,
		fmt.Sprintf("Directive %q is not supported at %s", name, location), at)
}

func ierrorsExpectedVariablesToBeDefined(name string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.ExpectedVariablesToBeDefined, fmt.Sprintf("Undefined variable %q", name), at).WithField("variable", name)
}

func ierrorsIncompatibleVariableUsage(name, declared, used string, at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.IncompatibleVariableUsage,
		fmt.Sprintf("Variable %q of type %q cannot be used where %q is expected", name, declared, used), at).
		WithField("variable", name).WithField("declared", declared).WithField("expected", used)
}

func ierrorsUnsupportedNestListType(at ir.Location) *ierrors.ValidationError {
	return ierrors.New(ierrors.UnsupportedNestListType, "Nested list types beyond two levels are not supported", at)
}
