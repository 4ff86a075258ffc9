package cpu

import "fmt"

// Opcode identifies one of the sixteen LC-3 instructions, taken from bits
// 15..12 of the instruction word.
type Opcode uint16

// The sixteen LC-3 opcodes, in their architectural bit-pattern order.
const (
	OpBR Opcode = iota
	OpADD
	OpLD
	OpST
	OpJSR
	OpAND
	OpLDR
	OpSTR
	OpRTI
	OpNOT
	OpLDI
	OpSTI
	OpJMP
	OpRES
	OpLEA
	OpTRAP
)

// Instruction is the tagged-variant record produced by Decode. Only the
// fields relevant to Op are meaningful; Reg1/Reg2/Reg3 are always populated
// from their fixed bit positions even where a given opcode doesn't use them,
// mirroring the uniform field layout of the LC-3 instruction word.
type Instruction struct {
	Op Opcode

	// Reg1 is bits 11:9 -- DR for ADD/AND/NOT/LD/LDI/LDR/LEA, SR for
	// ST/STI/STR.
	Reg1 uint16

	// Reg2 is bits 8:6 -- SR1 for ADD/AND, BaseR for LDR/STR/JMP/JSRR.
	Reg2 uint16

	// Reg3 is bits 2:0 -- SR2 for ADD/AND in register mode.
	Reg3 uint16

	// ImmMode is set for ADD/AND when bit 5 selects the 5-bit immediate
	// over SR2, and for JSR when bit 11 selects PCoffset11 over BaseR.
	ImmMode bool

	Imm5       uint16 // sign-extended 5-bit immediate (ADD/AND)
	Offset6    uint16 // sign-extended 6-bit offset (LDR/STR)
	PCOffset9  uint16 // sign-extended 9-bit offset (BR/LD/LDI/LEA/ST/STI)
	PCOffset11 uint16 // sign-extended 11-bit offset (JSR)
	NZP        Flag   // BR condition mask
	TrapVec    uint16 // low 8 bits of a TRAP instruction
}

// SignExtend sign-extends the low bitCount bits of x to a full 16-bit
// two's-complement value: bits bitCount..15 take the value of bit
// bitCount-1.
func SignExtend(x uint16, bitCount int) uint16 {
	if (x>>(bitCount-1))&1 != 0 {
		x |= 0xFFFF << uint(bitCount)
	}
	return x
}

// Decode decodes a 16-bit instruction word into its tagged variant.
func Decode(word uint16) Instruction {
	instr := Instruction{
		Op:   Opcode(word >> 12),
		Reg1: (word >> 9) & 0x7,
		Reg2: (word >> 6) & 0x7,
		Reg3: word & 0x7,
	}
	switch instr.Op {
	case OpBR:
		if (word>>11)&1 != 0 {
			instr.NZP |= FlagN
		}
		if (word>>10)&1 != 0 {
			instr.NZP |= FlagZ
		}
		if (word>>9)&1 != 0 {
			instr.NZP |= FlagP
		}
		instr.PCOffset9 = SignExtend(word&0x1FF, 9)
	case OpADD, OpAND:
		if (word>>5)&1 != 0 {
			instr.ImmMode = true
			instr.Imm5 = SignExtend(word&0x1F, 5)
		}
	case OpLD, OpLDI, OpLEA, OpST, OpSTI:
		instr.PCOffset9 = SignExtend(word&0x1FF, 9)
	case OpLDR, OpSTR:
		instr.Offset6 = SignExtend(word&0x3F, 6)
	case OpJSR:
		if (word>>11)&1 != 0 {
			instr.ImmMode = true
			instr.PCOffset11 = SignExtend(word&0x7FF, 11)
		}
	case OpTRAP:
		instr.TrapVec = word & 0xFF
	}
	return instr
}

// String disassembles the instruction to LC-3 assembly syntax, used for
// verbose tracing and in error messages.
func (i Instruction) String() string {
	switch i.Op {
	case OpBR:
		nzp := ""
		if i.NZP&FlagN != 0 {
			nzp += "n"
		}
		if i.NZP&FlagZ != 0 {
			nzp += "z"
		}
		if i.NZP&FlagP != 0 {
			nzp += "p"
		}
		return fmt.Sprintf("BR%s #%d", nzp, int16(i.PCOffset9))
	case OpADD:
		if i.ImmMode {
			return fmt.Sprintf("ADD R%d,R%d,#%d", i.Reg1, i.Reg2, int16(i.Imm5))
		}
		return fmt.Sprintf("ADD R%d,R%d,R%d", i.Reg1, i.Reg2, i.Reg3)
	case OpAND:
		if i.ImmMode {
			return fmt.Sprintf("AND R%d,R%d,#%d", i.Reg1, i.Reg2, int16(i.Imm5))
		}
		return fmt.Sprintf("AND R%d,R%d,R%d", i.Reg1, i.Reg2, i.Reg3)
	case OpNOT:
		return fmt.Sprintf("NOT R%d,R%d", i.Reg1, i.Reg2)
	case OpLD:
		return fmt.Sprintf("LD R%d,#%d", i.Reg1, int16(i.PCOffset9))
	case OpLDI:
		return fmt.Sprintf("LDI R%d,#%d", i.Reg1, int16(i.PCOffset9))
	case OpLDR:
		return fmt.Sprintf("LDR R%d,R%d,#%d", i.Reg1, i.Reg2, int16(i.Offset6))
	case OpLEA:
		return fmt.Sprintf("LEA R%d,#%d", i.Reg1, int16(i.PCOffset9))
	case OpST:
		return fmt.Sprintf("ST R%d,#%d", i.Reg1, int16(i.PCOffset9))
	case OpSTI:
		return fmt.Sprintf("STI R%d,#%d", i.Reg1, int16(i.PCOffset9))
	case OpSTR:
		return fmt.Sprintf("STR R%d,R%d,#%d", i.Reg1, i.Reg2, int16(i.Offset6))
	case OpJMP:
		if i.Reg2 == 7 {
			return "RET"
		}
		return fmt.Sprintf("JMP R%d", i.Reg2)
	case OpJSR:
		if i.ImmMode {
			return fmt.Sprintf("JSR #%d", int16(i.PCOffset11))
		}
		return fmt.Sprintf("JSRR R%d", i.Reg2)
	case OpTRAP:
		return fmt.Sprintf("TRAP 0x%02X", i.TrapVec)
	case OpRTI:
		return "RTI"
	case OpRES:
		return "RES"
	default:
		return fmt.Sprintf("<unknown opcode %d>", i.Op)
	}
}
