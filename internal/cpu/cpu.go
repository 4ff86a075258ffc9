// Package cpu implements the LC-3 register file, condition flags, and the
// fetch-decode-execute loop over the sixteen LC-3 opcodes.
package cpu

import (
	"errors"
	"fmt"

	"github.com/bassosimone/lc3vm/internal/mem"
)

// NumRegisters is the number of general-purpose registers, R0 through R7.
const NumRegisters = 8

// ResetPC is the fixed entry address execution begins at after load. It is
// a property of the LC-3 architecture, independent of any loaded image's
// origin.
const ResetPC uint16 = 0x3000

// Flag is a condition-code bitmask. Exactly one of FlagP, FlagZ, FlagN is
// set in Registers.Cond after any instruction that writes a general
// register.
type Flag uint16

// The condition flags are disjoint bitmasks so a BR instruction's 3-bit nzp
// field can be tested against Cond with a single bitwise AND.
const (
	FlagP Flag = 1 << iota // positive
	FlagZ                  // zero
	FlagN                  // negative
)

// Registers holds the eight general-purpose registers, the program counter,
// and the condition-code register.
type Registers struct {
	R    [NumRegisters]uint16
	PC   uint16
	Cond Flag
}

// SetCC recomputes Cond from the sign of R[r].
func (regs *Registers) SetCC(r uint16) {
	switch v := regs.R[r]; {
	case v == 0:
		regs.Cond = FlagZ
	case v&0x8000 != 0:
		regs.Cond = FlagN
	default:
		regs.Cond = FlagP
	}
}

// The following errors may be returned by Execute.
var (
	// ErrHalt indicates that the HALT trap has stopped the machine.
	ErrHalt = errors.New("cpu: halted")

	// ErrIllegalOpcode indicates execution of RTI or RES, or of a TRAP
	// instruction when no trap handler is installed.
	ErrIllegalOpcode = errors.New("cpu: illegal opcode")
)

// TrapHandler services a TRAP instruction's vector. R7 already holds the
// return address by the time this is called.
type TrapHandler func(m *Machine, vector uint16) error

// Machine owns the memory and register file for the entire life of a run;
// no module-level mutable state exists outside of it.
type Machine struct {
	Reg  Registers
	Mem  *mem.Memory
	Trap TrapHandler
}

// NewMachine returns a Machine with registers in their post-load state: PC
// at ResetPC, Cond at FlagZ, general registers zeroed.
func NewMachine(m *mem.Memory) *Machine {
	return &Machine{
		Mem: m,
		Reg: Registers{PC: ResetPC, Cond: FlagZ},
	}
}

// Fetch reads the instruction word at PC and post-increments PC.
func (m *Machine) Fetch() uint16 {
	word := m.Mem.Read(m.Reg.PC)
	m.Reg.PC++
	return word
}

// Step fetches, decodes, and executes a single instruction.
func (m *Machine) Step() (uint16, Instruction, error) {
	word := m.Fetch()
	instr := Decode(word)
	return word, instr, m.Execute(instr)
}

// Execute dispatches a decoded instruction. The PC it reads for any
// PC-relative computation is the already-incremented PC, as Fetch leaves
// it.
func (m *Machine) Execute(instr Instruction) error {
	switch instr.Op {
	case OpBR:
		if instr.NZP&m.Reg.Cond != 0 {
			m.Reg.PC += instr.PCOffset9
		}

	case OpADD:
		if instr.ImmMode {
			m.Reg.R[instr.Reg1] = m.Reg.R[instr.Reg2] + instr.Imm5
		} else {
			m.Reg.R[instr.Reg1] = m.Reg.R[instr.Reg2] + m.Reg.R[instr.Reg3]
		}
		m.Reg.SetCC(instr.Reg1)

	case OpAND:
		if instr.ImmMode {
			m.Reg.R[instr.Reg1] = m.Reg.R[instr.Reg2] & instr.Imm5
		} else {
			m.Reg.R[instr.Reg1] = m.Reg.R[instr.Reg2] & m.Reg.R[instr.Reg3]
		}
		m.Reg.SetCC(instr.Reg1)

	case OpNOT:
		m.Reg.R[instr.Reg1] = ^m.Reg.R[instr.Reg2]
		m.Reg.SetCC(instr.Reg1)

	case OpLD:
		m.Reg.R[instr.Reg1] = m.Mem.Read(m.Reg.PC + instr.PCOffset9)
		m.Reg.SetCC(instr.Reg1)

	case OpLDI:
		ptr := m.Mem.Read(m.Reg.PC + instr.PCOffset9)
		m.Reg.R[instr.Reg1] = m.Mem.Read(ptr)
		m.Reg.SetCC(instr.Reg1)

	case OpLDR:
		m.Reg.R[instr.Reg1] = m.Mem.Read(m.Reg.R[instr.Reg2] + instr.Offset6)
		m.Reg.SetCC(instr.Reg1)

	case OpLEA:
		m.Reg.R[instr.Reg1] = m.Reg.PC + instr.PCOffset9
		m.Reg.SetCC(instr.Reg1)

	case OpST:
		m.Mem.Write(m.Reg.PC+instr.PCOffset9, m.Reg.R[instr.Reg1])

	case OpSTI:
		ptr := m.Mem.Read(m.Reg.PC + instr.PCOffset9)
		m.Mem.Write(ptr, m.Reg.R[instr.Reg1])

	case OpSTR:
		m.Mem.Write(m.Reg.R[instr.Reg2]+instr.Offset6, m.Reg.R[instr.Reg1])

	case OpJMP:
		m.Reg.PC = m.Reg.R[instr.Reg2]

	case OpJSR:
		m.Reg.R[7] = m.Reg.PC
		if instr.ImmMode {
			m.Reg.PC += instr.PCOffset11
		} else {
			m.Reg.PC = m.Reg.R[instr.Reg2]
		}

	case OpTRAP:
		m.Reg.R[7] = m.Reg.PC
		if m.Trap == nil {
			return fmt.Errorf("%w: no trap handler installed for vector 0x%02X", ErrIllegalOpcode, instr.TrapVec)
		}
		return m.Trap(m, instr.TrapVec)

	case OpRTI, OpRES:
		return fmt.Errorf("%w: %s", ErrIllegalOpcode, instr)

	default:
		return fmt.Errorf("%w: %s", ErrIllegalOpcode, instr)
	}
	return nil
}
