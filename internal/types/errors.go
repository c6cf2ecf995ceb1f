package types

import (
	"fmt"

	"github.com/inferlang/infc/internal/ast"
)

// Diagnostic is satisfied by every member of the checker's error
// taxonomy. Key returns the stable deduplication key described in the
// design: (variant, primary-name, primary-location).
type Diagnostic interface {
	error
	Loc() ast.Loc
	Key() string
	// Message returns the diagnostic text without a location prefix,
	// for callers (the CLI) that render their own "<file>:<line>:<col>:
	// <message>" format.
	Message() string
}

// FormatDiagnostic renders d the way a failed run is required to print
// it: "<file>:<line>:<col>: <message>".
func FormatDiagnostic(path string, d Diagnostic) string {
	l := d.Loc()
	return fmt.Sprintf("%s:%d:%d: %s", path, l.StartLine, l.StartCol, d.Message())
}

func locKey(l ast.Loc) string {
	return fmt.Sprintf("%d.%d-%d.%d", l.StartLine, l.StartCol, l.EndLine, l.EndCol)
}

// TypeMismatchContext discriminates why a TypeMismatch diagnostic was
// raised.
type TypeMismatchContext int

const (
	CtxAssignment TypeMismatchContext = iota
	CtxReturn
	CtxVariableDefinition
	CtxBinaryOperation
	CtxCondition
	CtxFunctionArgument
	CtxMethodArgument
	CtxArrayElement
)

type TypeMismatch struct {
	Context  TypeMismatchContext
	Op       string // set for CtxBinaryOperation
	FnName   string // set for CtxFunctionArgument
	TypeName string // set for CtxMethodArgument
	Method   string // set for CtxMethodArgument
	ArgIdx   int    // set for CtxFunctionArgument/CtxMethodArgument
	Expected *TypeInfo
	Found    *TypeInfo
	L        ast.Loc
}

func (e *TypeMismatch) Loc() ast.Loc { return e.L }
func (e *TypeMismatch) Key() string  { return "TypeMismatch:" + locKey(e.L) }
func (e *TypeMismatch) Message() string {
	return fmt.Sprintf("type mismatch: expected %s, found %s", e.Expected, e.Found)
}
func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("%s: %s", e.L, e.Message())
}

type simpleDiag struct {
	kind string
	name string
	l    ast.Loc
	msg  string
}

func (e *simpleDiag) Loc() ast.Loc     { return e.l }
func (e *simpleDiag) Key() string      { return e.kind + ":" + e.name + ":" + locKey(e.l) }
func (e *simpleDiag) Message() string  { return e.msg }
func (e *simpleDiag) Error() string {
	return fmt.Sprintf("%s: %s", e.l, e.msg)
}

func newDiag(kind, name string, l ast.Loc, format string, args ...interface{}) Diagnostic {
	return &simpleDiag{kind: kind, name: name, l: l, msg: fmt.Sprintf(format, args...)}
}

func UnknownType(name string, l ast.Loc) Diagnostic {
	return newDiag("UnknownType", name, l, "unknown type %q", name)
}
func UnknownIdentifier(name string, l ast.Loc) Diagnostic {
	return newDiag("UnknownIdentifier", name, l, "unknown identifier %q", name)
}
func UndefinedFunction(name string, l ast.Loc) Diagnostic {
	return newDiag("UndefinedFunction", name, l, "undefined function %q", name)
}
func UndefinedMethod(typeName, method string, l ast.Loc) Diagnostic {
	return newDiag("UndefinedMethod", typeName+"."+method, l, "type %q has no method %q", typeName, method)
}
func AssociatedCallOnInstanceMethod(typeName, method string, l ast.Loc) Diagnostic {
	return newDiag("AssociatedCallOnInstanceMethod", typeName+"::"+method, l,
		"%q takes self and must be called as value.%s(...), not %s::%s(...)", method, method, typeName, method)
}
func InstanceCallOnAssociatedFunction(typeName, method string, l ast.Loc) Diagnostic {
	return newDiag("InstanceCallOnAssociatedFunction", typeName+"."+method, l,
		"%q takes no self and must be called as %s::%s(...), not value.%s(...)", method, typeName, method, method)
}

// VisibilityContext discriminates which kind of symbol a
// VisibilityViolation refers to.
type VisibilityContext int

const (
	VisFunction VisibilityContext = iota
	VisStruct
	VisEnum
	VisField
	VisMethod
	VisImport
)

type VisibilityViolation struct {
	Ctx        VisibilityContext
	StructName string
	FieldName  string
	Name       string
	L          ast.Loc
}

func (e *VisibilityViolation) Loc() ast.Loc { return e.L }
func (e *VisibilityViolation) Key() string {
	return fmt.Sprintf("VisibilityViolation:%d:%s:%s", e.Ctx, e.StructName+"."+e.FieldName+e.Name, locKey(e.L))
}
func (e *VisibilityViolation) Message() string {
	switch e.Ctx {
	case VisField:
		return fmt.Sprintf("field %q of struct %q is private", e.FieldName, e.StructName)
	default:
		return fmt.Sprintf("%q is private", e.Name)
	}
}
func (e *VisibilityViolation) Error() string {
	return fmt.Sprintf("%s: %s", e.L, e.Message())
}

func ArgumentCountMismatch(name string, want, got int, l ast.Loc) Diagnostic {
	return newDiag("ArgumentCountMismatch", name, l, "%q expects %d argument(s), got %d", name, want, got)
}
func MethodCallOnNonStruct(l ast.Loc) Diagnostic {
	return newDiag("MethodCallOnNonStruct", "", l, "method call on a non-struct value")
}
func UnsupportedUnaryOperator(op string, t *TypeInfo, l ast.Loc) Diagnostic {
	return newDiag("UnsupportedUnaryOperator", op, l, "operator %q not supported for type %s", op, t)
}
func BinaryOperatorTypeMismatch(op string, l ast.Loc) Diagnostic {
	return newDiag("BinaryOperatorTypeMismatch", op, l, "operand types do not match operator %q", op)
}
func DivisionByZero(l ast.Loc) Diagnostic {
	return newDiag("DivisionByZero", "", l, "division by a literal zero")
}
func ImportPathNotFound(path string, l ast.Loc) Diagnostic {
	return newDiag("ImportPathNotFound", path, l, "import path %q not found", path)
}
func AmbiguousImport(name string, l ast.Loc) Diagnostic {
	return newDiag("AmbiguousImport", name, l, "%q is ambiguous between multiple imports", name)
}
func CircularImport(path string, l ast.Loc) Diagnostic {
	return newDiag("CircularImport", path, l, "circular import resolving %q", path)
}
func GlobImportFailure(path string, l ast.Loc) Diagnostic {
	return newDiag("GlobImportFailure", path, l, "glob import target %q is not a module or has no public members", path)
}

func DuplicateSymbol(name string, l ast.Loc) Diagnostic {
	return newDiag("DuplicateSymbol", name, l, "%q is already defined in this scope", name)
}
func DuplicateField(structName, field string, l ast.Loc) Diagnostic {
	return newDiag("DuplicateField", structName+"."+field, l, "duplicate field %q in struct %q", field, structName)
}
func DuplicateEnumVariant(enumName, variant string, l ast.Loc) Diagnostic {
	return newDiag("DuplicateEnumVariant", enumName+"::"+variant, l, "duplicate variant %q in enum %q", variant, enumName)
}
func FieldNotFound(structName, field string, l ast.Loc) Diagnostic {
	return newDiag("FieldNotFound", structName+"."+field, l, "struct %q has no field %q", structName, field)
}
func MemberAccessOnNonStruct(l ast.Loc) Diagnostic {
	return newDiag("MemberAccessOnNonStruct", "", l, "field access on a non-struct value")
}
func ArrayIndexOnNonArray(l ast.Loc) Diagnostic {
	return newDiag("ArrayIndexOnNonArray", "", l, "indexing a non-array value")
}
func ArrayIndexTypeMismatch(l ast.Loc) Diagnostic {
	return newDiag("ArrayIndexTypeMismatch", "", l, "array index must be a number")
}
func ArraySizeMismatch(want, got int, l ast.Loc) Diagnostic {
	return newDiag("ArraySizeMismatch", "", l, "array literal has %d elements, expected %d", got, want)
}
func EmptyArrayWithoutType(l ast.Loc) Diagnostic {
	return newDiag("EmptyArrayWithoutType", "", l, "empty array literal requires an explicit type annotation")
}
func InvalidEnumVariant(enumName, variant string, l ast.Loc) Diagnostic {
	return newDiag("InvalidEnumVariant", enumName+"::"+variant, l, "enum %q has no variant %q", enumName, variant)
}
func TypeMemberAccessOnNonEnum(name string, l ast.Loc) Diagnostic {
	return newDiag("TypeMemberAccessOnNonEnum", name, l, "%q is not a registered enum", name)
}
func ConditionMustBeBool(l ast.Loc) Diagnostic {
	return newDiag("ConditionMustBeBool", "", l, "condition must have type bool")
}
func InvalidSelfReference(l ast.Loc) Diagnostic {
	return newDiag("InvalidSelfReference", "", l, "self is only valid inside a method with a receiver")
}
func UnresolvedTypeParameter(fnName string, t *TypeInfo, l ast.Loc) Diagnostic {
	return newDiag("UnresolvedTypeParameter", fnName, l, "call to %q leaves a type parameter unresolved in %s", fnName, t)
}

// MissingExpressionType is raised by TypedContext.FindUntypedExpressions,
// the debug-time consistency check supplementing the five-phase
// checker's own diagnostics (see SPEC_FULL.md §7).
func MissingExpressionType(nodeDesc string, l ast.Loc) Diagnostic {
	return newDiag("MissingExpressionType", nodeDesc, l, "value expression %s has no recorded type", nodeDesc)
}

// Diagnostics is a joined error value: the return type of a failed
// check, printed one diagnostic per line.
type Diagnostics []error

func (d Diagnostics) Error() string {
	s := ""
	for i, e := range d {
		if i > 0 {
			s += "\n"
		}
		s += e.Error()
	}
	return s
}

// dedup filters errs, keeping only the first occurrence of each
// diagnostic key, preserving order (diagnostic determinism, spec.md
// §8 invariant 8).
func dedup(errs []error) []error {
	seen := map[string]bool{}
	var out []error
	for _, e := range errs {
		key := e.Error()
		if d, ok := e.(Diagnostic); ok {
			key = d.Key()
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
