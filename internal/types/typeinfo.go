// Package types implements the five-phase bidirectional type checker:
// it builds a scoped symbol table, resolves imports, validates
// visibility, and annotates every value expression with a resolved
// TypeInfo, accumulating and deduplicating diagnostics along the way.
package types

import "fmt"

// NumberType is the bit-width/signedness tag of a Number TypeInfo.
type NumberType int

const (
	I8 NumberType = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
)

func (n NumberType) String() string {
	names := [...]string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64"}
	if int(n) < len(names) {
		return names[n]
	}
	return "<unknown number type>"
}

func (n NumberType) Signed() bool { return n <= I64 }

// TypeInfoKind discriminates the variant a TypeInfo holds.
type TypeInfoKind int

const (
	KindUnit TypeInfoKind = iota
	KindBool
	KindString
	KindNumber
	KindArray
	KindStruct
	KindEnum
	KindSpec
	KindCustom
	KindGeneric
	KindQualifiedName
	KindFunction
)

// TypeInfo is the resolved-type representation produced by the type
// checker. It is distinct from the AST's own Type nodes, which record
// only syntax.
type TypeInfo struct {
	Kind TypeInfoKind

	Number NumberType // valid iff Kind == KindNumber

	Elem *TypeInfo // valid iff Kind == KindArray
	Size uint32    // valid iff Kind == KindArray

	Name string // valid iff Kind in {Struct, Enum, Spec, Custom, Generic}

	Path []string // valid iff Kind == KindQualifiedName

	SignatureKey string // valid iff Kind == KindFunction

	// TypeParams is a list of type-parameter names. No constructor in
	// this package sets it, and neither Equal nor Substitute reads it.
	TypeParams []string
}

func Unit() *TypeInfo   { return &TypeInfo{Kind: KindUnit} }
func Bool() *TypeInfo   { return &TypeInfo{Kind: KindBool} }
func String() *TypeInfo { return &TypeInfo{Kind: KindString} }
func Number(n NumberType) *TypeInfo { return &TypeInfo{Kind: KindNumber, Number: n} }
func Array(elem *TypeInfo, size uint32) *TypeInfo {
	return &TypeInfo{Kind: KindArray, Elem: elem, Size: size}
}
func Struct(name string) *TypeInfo { return &TypeInfo{Kind: KindStruct, Name: name} }
func Enum(name string) *TypeInfo   { return &TypeInfo{Kind: KindEnum, Name: name} }
func Spec(name string) *TypeInfo   { return &TypeInfo{Kind: KindSpec, Name: name} }
func Custom(name string) *TypeInfo { return &TypeInfo{Kind: KindCustom, Name: name} }
func Generic(param string) *TypeInfo { return &TypeInfo{Kind: KindGeneric, Name: param} }
func QualifiedName(path []string) *TypeInfo {
	return &TypeInfo{Kind: KindQualifiedName, Path: path}
}
func Function(sigKey string) *TypeInfo { return &TypeInfo{Kind: KindFunction, SignatureKey: sigKey} }

// Equal reports whether two TypeInfo values describe the same type.
func (t *TypeInfo) Equal(o *TypeInfo) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindNumber:
		return t.Number == o.Number
	case KindArray:
		return t.Size == o.Size && t.Elem.Equal(o.Elem)
	case KindStruct, KindEnum, KindSpec, KindCustom, KindGeneric:
		return t.Name == o.Name
	case KindQualifiedName:
		if len(t.Path) != len(o.Path) {
			return false
		}
		for i := range t.Path {
			if t.Path[i] != o.Path[i] {
				return false
			}
		}
		return true
	case KindFunction:
		return t.SignatureKey == o.SignatureKey
	default:
		return true
	}
}

func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Kind {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNumber:
		return t.Number.String()
	case KindArray:
		return fmt.Sprintf("[%s; %d]", t.Elem, t.Size)
	case KindStruct, KindEnum, KindSpec, KindCustom:
		return t.Name
	case KindGeneric:
		return t.Name
	case KindQualifiedName:
		out := ""
		for i, seg := range t.Path {
			if i > 0 {
				out += "::"
			}
			out += seg
		}
		return out
	case KindFunction:
		return "fn:" + t.SignatureKey
	default:
		return "<unknown type>"
	}
}

// Substitute recursively replaces Generic(p) with σ[p] wherever p is
// bound in σ. It descends into arrays and leaves every other variant
// unchanged.
func (t *TypeInfo) Substitute(sigma map[string]*TypeInfo) *TypeInfo {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindGeneric:
		if repl, ok := sigma[t.Name]; ok {
			return repl
		}
		return t
	case KindArray:
		return Array(t.Elem.Substitute(sigma), t.Size)
	default:
		return t
	}
}

// HasUnresolvedParams reports whether any Generic(p) remains anywhere
// within t.
func (t *TypeInfo) HasUnresolvedParams() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindGeneric:
		return true
	case KindArray:
		return t.Elem.HasUnresolvedParams()
	default:
		return false
	}
}
