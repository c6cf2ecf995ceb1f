package wasmtov

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	secCustom   = 0
	secType     = 1
	secImport   = 2
	secFunction = 3
	secTable    = 4
	secMemory   = 5
	secGlobal   = 6
	secExport   = 7
	secStart    = 8
	secElement  = 9
	secCode     = 10
	secData     = 11
)

var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6D}

// ParseModule is Phase 1: a single forward pass over a WASM binary
// into a Module structural view. Parse failures fail fast (spec.md
// §6, "Parse-phase WASM errors fail fast"), unlike the checker's
// phases, which accumulate.
func ParseModule(wasm []byte) (*Module, error) {
	r := bytes.NewReader(wasm)

	magic := make([]byte, 4)
	if _, err := r.Read(magic); err != nil || !bytes.Equal(magic, wasmMagic) {
		return nil, fmt.Errorf("wasmtov: not a WASM binary (bad magic)")
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("wasmtov: truncated version: %w", err)
	}

	m := &Module{}
	for r.Len() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("wasmtov: truncated section header: %w", err)
		}
		size, err := readVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("wasmtov: truncated section size: %w", err)
		}
		body, err := readBytes(r, size)
		if err != nil {
			return nil, fmt.Errorf("wasmtov: truncated section body: %w", err)
		}
		sr := bytes.NewReader(body)
		if err := parseSection(m, id, sr); err != nil {
			return nil, fmt.Errorf("wasmtov: section %d: %w", id, err)
		}
	}
	return m, nil
}

func parseSection(m *Module, id byte, r *bytes.Reader) error {
	switch id {
	case secType:
		return parseTypeSection(m, r)
	case secImport:
		return parseImportSection(m, r)
	case secFunction:
		return parseFunctionSection(m, r)
	case secTable:
		return parseTableSection(m, r)
	case secMemory:
		return parseMemorySection(m, r)
	case secGlobal:
		return parseGlobalSection(m, r)
	case secExport:
		return parseExportSection(m, r)
	case secStart:
		idx, err := readVarU32(r)
		if err != nil {
			return err
		}
		m.Start = &idx
		return nil
	case secElement:
		return parseElementSection(m, r)
	case secCode:
		return parseCodeSection(m, r)
	case secData:
		return parseDataSection(m, r)
	case secCustom:
		return parseCustomSection(m, r)
	default:
		// Not a parse failure: spec.md's error-handling rules single out
		// unsupported sections as an emission-phase error, so the id is
		// recorded and parsing continues over the rest of the module.
		m.UnsupportedSectionIDs = append(m.UnsupportedSectionIDs, id)
		return nil
	}
}

func readValType(r *bytes.Reader) (ValType, error) {
	b, err := r.ReadByte()
	return ValType(b), err
}

func parseTypeSection(m *Module, r *bytes.Reader) error {
	n, err := readVarU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		form, err := r.ReadByte()
		if err != nil || form != 0x60 {
			return fmt.Errorf("expected func type form 0x60")
		}
		np, err := readVarU32(r)
		if err != nil {
			return err
		}
		params := make([]ValType, np)
		for j := range params {
			if params[j], err = readValType(r); err != nil {
				return err
			}
		}
		nr, err := readVarU32(r)
		if err != nil {
			return err
		}
		results := make([]ValType, nr)
		for j := range results {
			if results[j], err = readValType(r); err != nil {
				return err
			}
		}
		m.Types = append(m.Types, FuncType{Params: params, Results: results})
	}
	return nil
}

func parseImportSection(m *Module, r *bytes.Reader) error {
	n, err := readVarU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		mod, err := readName(r)
		if err != nil {
			return err
		}
		name, err := readName(r)
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}
		idx, err := readVarU32(r)
		if err != nil {
			return err
		}
		m.Imports = append(m.Imports, Import{Module: mod, Name: name, Kind: kind, Index: idx})
	}
	return nil
}

func parseFunctionSection(m *Module, r *bytes.Reader) error {
	n, err := readVarU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		idx, err := readVarU32(r)
		if err != nil {
			return err
		}
		m.FuncTypeIdx = append(m.FuncTypeIdx, idx)
	}
	return nil
}

func readLimits(r *bytes.Reader) (Limits, error) {
	flag, err := r.ReadByte()
	if err != nil {
		return Limits{}, err
	}
	min, err := readVarU32(r)
	if err != nil {
		return Limits{}, err
	}
	l := Limits{Min: min}
	if flag == 1 {
		max, err := readVarU32(r)
		if err != nil {
			return Limits{}, err
		}
		l.Max, l.HasMax = max, true
	}
	return l, nil
}

func parseTableSection(m *Module, r *bytes.Reader) error {
	n, err := readVarU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		elemType, err := r.ReadByte()
		if err != nil {
			return err
		}
		lim, err := readLimits(r)
		if err != nil {
			return err
		}
		m.Tables = append(m.Tables, Table{ElemType: elemType, Limits: lim})
	}
	return nil
}

func parseMemorySection(m *Module, r *bytes.Reader) error {
	n, err := readVarU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		lim, err := readLimits(r)
		if err != nil {
			return err
		}
		m.Mems = append(m.Mems, Mem{Limits: lim})
	}
	return nil
}

func parseGlobalSection(m *Module, r *bytes.Reader) error {
	n, err := readVarU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		vt, err := readValType(r)
		if err != nil {
			return err
		}
		mutByte, err := r.ReadByte()
		if err != nil {
			return err
		}
		init, _, err := decodeInstrs(r)
		if err != nil {
			return err
		}
		m.Globals = append(m.Globals, Global{Type: vt, Mutable: mutByte == 1, Init: init})
	}
	return nil
}

func parseExportSection(m *Module, r *bytes.Reader) error {
	n, err := readVarU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		name, err := readName(r)
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}
		idx, err := readVarU32(r)
		if err != nil {
			return err
		}
		m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Index: idx})
	}
	return nil
}

func parseElementSection(m *Module, r *bytes.Reader) error {
	n, err := readVarU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		tidx, err := readVarU32(r)
		if err != nil {
			return err
		}
		offset, _, err := decodeInstrs(r)
		if err != nil {
			return err
		}
		cnt, err := readVarU32(r)
		if err != nil {
			return err
		}
		fns := make([]uint32, cnt)
		for j := range fns {
			if fns[j], err = readVarU32(r); err != nil {
				return err
			}
		}
		m.Elems = append(m.Elems, Elem{TableIndex: tidx, Offset: offset, FuncIdxs: fns})
	}
	return nil
}

func parseDataSection(m *Module, r *bytes.Reader) error {
	n, err := readVarU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		midx, err := readVarU32(r)
		if err != nil {
			return err
		}
		offset, _, err := decodeInstrs(r)
		if err != nil {
			return err
		}
		size, err := readVarU32(r)
		if err != nil {
			return err
		}
		bs, err := readBytes(r, size)
		if err != nil {
			return err
		}
		m.Datas = append(m.Datas, Data{MemIndex: midx, Offset: offset, Bytes: bs})
	}
	return nil
}

// parseCodeSection reads each function's declared byte length and
// keeps the bytes within it opaque: spec.md's error-handling rules
// treat a malformed instruction stream as an emission-phase error, so
// nothing here decodes locals or instructions (that's decodeFuncBody,
// called from Emit). Only the section's own fixed-shape framing (the
// function count and each body's length prefix) can fail parsing.
func parseCodeSection(m *Module, r *bytes.Reader) error {
	n, err := readVarU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		bodySize, err := readVarU32(r)
		if err != nil {
			return err
		}
		bodyBytes, err := readBytes(r, bodySize)
		if err != nil {
			return err
		}
		typeIdx := uint32(0)
		if i < uint32(len(m.FuncTypeIdx)) {
			typeIdx = m.FuncTypeIdx[i]
		}
		m.Funcs = append(m.Funcs, Func{TypeIndex: typeIdx, RawBody: bodyBytes})
	}
	return nil
}

// parseCustomSection only understands the "name" custom section;
// every other custom section is preserved as absent (skipped), since
// nothing downstream of the translator consumes custom sections other
// than names.
func parseCustomSection(m *Module, r *bytes.Reader) error {
	name, err := readName(r)
	if err != nil {
		return err
	}
	if name != "name" {
		return nil
	}
	m.Names.FuncNames = map[uint32]string{}
	m.Names.LocalNames = map[uint32]map[uint32]string{}
	for r.Len() > 0 {
		subID, err := r.ReadByte()
		if err != nil {
			return err
		}
		subSize, err := readVarU32(r)
		if err != nil {
			return err
		}
		subBytes, err := readBytes(r, subSize)
		if err != nil {
			return err
		}
		sr := bytes.NewReader(subBytes)
		switch subID {
		case 0: // module name
			if n, err := readName(sr); err == nil {
				m.Names.ModuleName = n
			}
		case 1: // function names
			cnt, err := readVarU32(sr)
			if err != nil {
				return err
			}
			for i := uint32(0); i < cnt; i++ {
				idx, err := readVarU32(sr)
				if err != nil {
					return err
				}
				nm, err := readName(sr)
				if err != nil {
					return err
				}
				m.Names.FuncNames[idx] = nm
			}
		case 2: // local names
			cnt, err := readVarU32(sr)
			if err != nil {
				return err
			}
			for i := uint32(0); i < cnt; i++ {
				fidx, err := readVarU32(sr)
				if err != nil {
					return err
				}
				lcnt, err := readVarU32(sr)
				if err != nil {
					return err
				}
				locals := map[uint32]string{}
				for j := uint32(0); j < lcnt; j++ {
					lidx, err := readVarU32(sr)
					if err != nil {
						return err
					}
					nm, err := readName(sr)
					if err != nil {
						return err
					}
					locals[lidx] = nm
				}
				m.Names.LocalNames[fidx] = locals
			}
		}
	}
	return nil
}
