package wasmtov

// Standard WASM MVP opcodes this translator recognizes. Anything not
// in this set, outside the 0xFC extended space, is reported by the
// parser as an unsupported opcode rather than silently skipped: a
// translator that guesses at unknown instruction encodings risks
// desynchronizing the rest of the byte stream.
const (
	opUnreachable byte = 0x00
	opNop         byte = 0x01
	opBlock       byte = 0x02
	opLoop        byte = 0x03
	opIf          byte = 0x04
	opElse        byte = 0x05
	opEnd         byte = 0x0B
	opBr          byte = 0x0C
	opBrIf        byte = 0x0D
	opReturn      byte = 0x0F
	opCall        byte = 0x10
	opDrop        byte = 0x1A
	opSelect      byte = 0x1B

	opLocalGet  byte = 0x20
	opLocalSet  byte = 0x21
	opLocalTee  byte = 0x22
	opGlobalGet byte = 0x23
	opGlobalSet byte = 0x24

	opI32Const byte = 0x41
	opI64Const byte = 0x42

	opI32Add byte = 0x6A
	opI32Sub byte = 0x6B
	opI32Mul byte = 0x6C
	opI32Eq  byte = 0x46
	opI32Ne  byte = 0x47
	opI32LtS byte = 0x48
	opI32GtS byte = 0x4A

	opI64Add byte = 0x7C
	opI64Sub byte = 0x7D
	opI64Mul byte = 0x7E

	// opExtended is the prefix byte introducing this translator's
	// six non-standard nondeterministic-construct opcodes (and, in a
	// real WASM binary, the standard saturating-truncation family;
	// this translator only recognizes the six extended forms it was
	// built to round-trip, per spec.md §4.4/§9 and SPEC_FULL.md §6.4.1).
	opExtended byte = 0xFC
)

// Extended opcode table, resolved per SPEC_FULL.md §6.4.1: each of the
// four nondeterministic block constructs starts with its own 0xFC
// sub-opcode and closes with the ordinary `end` (0x0B), exactly like
// `block`/`loop`/`if`. uzumaki.i32/i64 are zero-operand
// value-producing instructions, not blocks.
const (
	extForallStart byte = 0x3A
	extExistsStart byte = 0x3B
	extUzumakiI32  byte = 0x3C
	extUzumakiI64  byte = 0x3D
	extAssumeStart byte = 0x3E
	extUniqueStart byte = 0x3F
)

func blockConstructFor(sub byte) (string, bool) {
	switch sub {
	case extForallStart:
		return "forall", true
	case extExistsStart:
		return "exists", true
	case extAssumeStart:
		return "assume", true
	case extUniqueStart:
		return "unique", true
	}
	return "", false
}
