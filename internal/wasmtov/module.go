// Package wasmtov implements the two-phase WASM→Rocq translator: a
// binary parser producing an in-memory structural view of a WASM
// module, and an emitter turning that view into Rocq source text.
package wasmtov

// ValType is a WASM value type tag, restricted to the numeric types
// this translator needs to round-trip.
type ValType byte

const (
	ValI32 ValType = 0x7F
	ValI64 ValType = 0x7E
	ValF32 ValType = 0x7D
	ValF64 ValType = 0x7C
)

// FuncType is one entry of the type section: a parameter list and a
// result list (WASM's MVP allows at most one result; later binaries
// may carry more, so this keeps a slice).
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Import is one entry of the import section.
type Import struct {
	Module string
	Name   string
	Kind   byte // 0x00 func, 0x01 table, 0x02 mem, 0x03 global
	Index  uint32
}

// Export is one entry of the export section.
type Export struct {
	Name  string
	Kind  byte
	Index uint32
}

// Global is one entry of the global section.
type Global struct {
	Type    ValType
	Mutable bool
	Init    []Instr
}

// Limits is the MVP limits shape used by Table and Mem: a minimum and
// an optional maximum.
type Limits struct {
	Min uint32
	Max uint32
	HasMax bool
}

type Table struct {
	ElemType byte // 0x70 funcref
	Limits   Limits
}

type Mem struct {
	Limits Limits
}

// Elem is one entry of the element section: a table index, an offset
// expression, and the function indices it installs.
type Elem struct {
	TableIndex uint32
	Offset     []Instr
	FuncIdxs   []uint32
}

// Data is one entry of the data section.
type Data struct {
	MemIndex uint32
	Offset   []Instr
	Bytes    []byte
}

// Func is one entry of the code section, paired positionally with its
// declared signature in the function section. RawBody is the
// undecoded local-declarations-plus-instructions blob Phase 1 reads
// off the wire; Phase 1 never decodes it (see decodeFuncBody), so an
// unrecognized or malformed instruction inside it is an emission-phase
// concern, not a parse failure, matching spec.md's error-handling
// split.
type Func struct {
	TypeIndex uint32
	RawBody   []byte
}

// Module is the structural view Phase 1 produces and Phase 2 consumes.
type Module struct {
	Types   []FuncType
	Imports []Import
	// FuncTypeIdx is the function section: one type index per
	// locally defined function (imported functions are in Imports).
	FuncTypeIdx []uint32
	Tables      []Table
	Mems        []Mem
	Globals     []Global
	Exports     []Export
	Start       *uint32
	Elems       []Elem
	Datas       []Data
	Funcs       []Func // parallel to FuncTypeIdx

	// Names holds the optional custom "name" section's contents.
	Names NameSection

	// UnsupportedSectionIDs records any section id the parser does not
	// recognize, in encounter order. Parsing does not fail on these —
	// spec.md's error-handling rules treat an unsupported section as an
	// emission-phase error, not a parse-phase one — so Emit reports them.
	UnsupportedSectionIDs []byte
}

// NameSection preserves the custom "name" section's function and local
// names, keyed by their WASM-binary-assigned index.
type NameSection struct {
	ModuleName string
	FuncNames  map[uint32]string
	LocalNames map[uint32]map[uint32]string // funcIdx -> localIdx -> name
}

// FuncName returns the preserved name for function index i, or the
// synthesized fallback fun<i> spec.md §4.4 requires when the name
// section is absent or doesn't cover that index.
func (m *Module) FuncName(i uint32) string {
	if m.Names.FuncNames != nil {
		if n, ok := m.Names.FuncNames[i]; ok {
			return n
		}
	}
	return "fun" + uitoa(i)
}

// LocalName returns the preserved name for local idx of function
// funcIdx, or "" if unnamed.
func (m *Module) LocalName(funcIdx, idx uint32) string {
	if m.Names.LocalNames == nil {
		return ""
	}
	locals, ok := m.Names.LocalNames[funcIdx]
	if !ok {
		return ""
	}
	return locals[idx]
}

func uitoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
