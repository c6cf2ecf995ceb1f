package wasmtov

import (
	"strings"
	"unicode"
)

const mangleSep = '_'

// rocqReserved holds Rocq/Coq keywords and a handful of names this
// emitter's own preamble binds; any mangled identifier colliding with
// one of these gets an underscore appended, mirroring gengo/mangle.go's
// reserved-word-avoidance discipline for Go identifiers.
var rocqReserved = map[string]bool{
	"as": true, "at": true, "cofix": true, "else": true, "end": true,
	"exists": true, "exists2": true, "fix": true, "for": true, "forall": true,
	"fun": true, "if": true, "IF": true, "in": true, "let": true, "match": true,
	"mod": true, "Prop": true, "return": true, "Set": true, "then": true,
	"Type": true, "using": true, "where": true, "with": true,
	"Definition": true, "Fixpoint": true, "Inductive": true, "Module": true,
	"Record": true, "Theorem": true, "Lemma": true, "Import": true,
	// names this emitter's preamble and helper abbreviations bind.
	"Vi32": true, "Vi64": true, "Mt": true, "Mm": true, "Mg": true,
	"Mi": true, "Me": true, "Ma": true, "module": true,
}

// mangleIdent turns an arbitrary WASM name (from the "name" custom
// section, or a synthesized funN) into a legal Rocq identifier: every
// character other than a Unicode letter or digit, `_` or `'` is
// replaced by its spelled-out form
// from opNames (falling back to its mangled Unicode code point), and a
// leading digit or a collision with a Rocq keyword gets an underscore
// prefix/suffix.
func mangleIdent(name string) string {
	if name == "" {
		return "_anon"
	}
	var s strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == '\'':
			s.WriteRune(r)
		case unicode.IsLetter(r):
			s.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				s.WriteRune(mangleSep)
			}
			s.WriteRune(r)
		default:
			if i > 0 {
				s.WriteRune(mangleSep)
			}
			if n, ok := opNames[r]; ok {
				s.WriteString(n)
			} else {
				s.WriteString("u")
				s.WriteString(itoaRune(r))
			}
		}
	}
	out := s.String()
	if rocqReserved[out] {
		out += "_"
	}
	return out
}

var opNames = map[rune]string{
	'!': "bang", '%': "pct", '&': "amp", '*': "star", '+': "plus",
	'-': "dash", '.': "dot", '/': "slash", ':': "colon", '<': "lt",
	'=': "eq", '>': "gt", '?': "qmark", '@': "at", '\\': "bslash",
	'|': "pipe", '~': "tilde", '$': "dollar", '#': "hash",
}

func itoaRune(r rune) string {
	if r == 0 {
		return "0"
	}
	n := uint32(r)
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// mangleFuncName produces the Rocq definition name for function index
// i: its preserved name from the "name" custom section, mangled, or
// the synthesized funN fallback spec.md §4.4 requires when unnamed.
func mangleFuncName(m *Module, i uint32) string {
	return mangleIdent(m.FuncName(i))
}
