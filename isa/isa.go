// Package isa loads and validates the configurable instruction-set
// descriptor that drives both the assembler and the disassembler.
package isa

import (
	"fmt"
	"sort"
)

// ArgKind identifies one of the fixed set of argument descriptor variants
// an instruction's signature can be built from.
type ArgKind int

const (
	Immediate ArgKind = iota
	Padding
	Address
	TextAddress
	DataAddress
	Register
	RegisterAddress
	RegisterOffset
	RegisterAddressOffset
)

func (k ArgKind) String() string {
	switch k {
	case Immediate:
		return "immediate"
	case Padding:
		return "padding"
	case Address:
		return "address"
	case TextAddress:
		return "text_address"
	case DataAddress:
		return "data_address"
	case Register:
		return "register"
	case RegisterAddress:
		return "register_address"
	case RegisterOffset:
		return "register_offset"
	case RegisterAddressOffset:
		return "register_address_offset"
	default:
		return "unknown"
	}
}

func parseArgKind(s string) (ArgKind, bool) {
	switch s {
	case "immediate":
		return Immediate, true
	case "padding":
		return Padding, true
	case "address":
		return Address, true
	case "text_address":
		return TextAddress, true
	case "data_address":
		return DataAddress, true
	case "register":
		return Register, true
	case "register_address":
		return RegisterAddress, true
	case "register_offset":
		return RegisterOffset, true
	case "register_address_offset":
		return RegisterAddressOffset, true
	default:
		return 0, false
	}
}

// ArgDescriptor is one argument slot in a command's signature, as declared
// in the ISA document.
type ArgDescriptor struct {
	Kind        ArgKind
	Bits        int  // declared total width of the field, for every kind
	Relative    bool // text_address/data_address/register_offset/register_address_offset: symbol references default to PC-relative
	Group       string
	OffsetBits  int // register_offset / register_address_offset
	PaddingBits int // register_offset / register_address_offset
}

// Command is one mnemonic's opcode and argument signature.
type Command struct {
	Mnemonic  string
	Opcode    uint64
	Arguments []ArgDescriptor
}

// PreOpcodeArguments returns the number of leading arguments that sit before
// the opcode field, computed from each argument's declared bit width and the
// configuration's opcode_offset: the cumulative width of the first k
// arguments must equal opcodeOffset exactly for some k,
// 0 <= k <= len(Arguments).
func (c Command) PreOpcodeArguments(opcodeOffset int) (int, error) {
	offset := 0
	for k, arg := range c.Arguments {
		if offset == opcodeOffset {
			return k, nil
		}
		offset += arg.Bits
	}
	if offset == opcodeOffset {
		return len(c.Arguments), nil
	}
	return 0, fmt.Errorf("command %q: opcode_offset %d does not align with any argument boundary (reached %d)", c.Mnemonic, opcodeOffset, offset)
}

// RegisterGroup names the registers usable in a register-shaped argument,
// plus the bit width used to encode an index into it.
type RegisterGroup struct {
	Length    int
	Registers map[string]int // name -> index
}

// IndexOf returns the encoded index for a register name.
func (g RegisterGroup) IndexOf(name string) (int, bool) {
	idx, ok := g.Registers[name]
	return idx, ok
}

// Bits and Names satisfy operand.RegisterSet, letting a RegisterGroup be
// handed directly to an operand scanner without that package importing isa.
func (g RegisterGroup) Bits() int { return g.Length }

func (g RegisterGroup) Names() []string { return g.SortedRegisterNames() }

// NameOf is the reverse lookup used by the disassembler to print a register
// name instead of a bare index. Ties are broken by picking the
// lexicographically-first name, since register groups defined as an
// explicit name->index map may alias multiple names to one index (e.g. a
// link-register alias sharing an index with a numbered register).
func (g RegisterGroup) NameOf(index int) (string, bool) {
	var best string
	found := false
	for name, i := range g.Registers {
		if i != index {
			continue
		}
		if !found || name < best {
			best = name
			found = true
		}
	}
	return best, found
}

// Configuration is the full ISA descriptor: word geometry plus the set of
// commands and register groups it makes available. There is no single
// global word width: the text section's word ("byte") width is
// TextByteLength, the data section's is DataByteLength. A pedagogic ISA is
// free to pack instructions into 6-bit words while still storing 8-bit
// data bytes.
type Configuration struct {
	OpcodeLength   int
	OpcodeOffset   int
	TextByteLength int
	DataByteLength int
	TextAddrBits   int
	DataAddrBits   int
	Commands       []Command
	RegisterGroups map[string]RegisterGroup
}

// Validate checks the structural invariants the document loader cannot
// express through struct tags alone: every command's fixed-width arguments
// align with opcode_offset, and every register group a command references
// actually exists.
func (c *Configuration) Validate() error {
	if c.TextByteLength <= 0 {
		return fmt.Errorf("isa: text_byte_length must be positive")
	}
	if c.DataByteLength <= 0 {
		return fmt.Errorf("isa: data_byte_length must be positive")
	}
	if c.OpcodeLength <= 0 {
		return fmt.Errorf("isa: opcode_length must be positive")
	}
	for _, cmd := range c.Commands {
		if _, err := cmd.PreOpcodeArguments(c.OpcodeOffset); err != nil {
			return err
		}
		total := c.OpcodeLength
		for _, arg := range cmd.Arguments {
			total += arg.Bits
		}
		if total%c.TextByteLength != 0 {
			return fmt.Errorf("isa: command %q is %d bits, not a multiple of the %d-bit word", cmd.Mnemonic, total, c.TextByteLength)
		}
		for _, arg := range cmd.Arguments {
			switch arg.Kind {
			case Register, RegisterAddress, RegisterOffset, RegisterAddressOffset:
				group, ok := c.RegisterGroups[arg.Group]
				if !ok {
					return fmt.Errorf("isa: command %q references unknown register group %q", cmd.Mnemonic, arg.Group)
				}
				if declaredBitsFor(arg) != group.Length {
					return fmt.Errorf("isa: command %q argument declares %d register bits but group %q is %d bits wide", cmd.Mnemonic, declaredBitsFor(arg), arg.Group, group.Length)
				}
			}
		}
	}
	return nil
}

// declaredBitsFor returns the portion of an argument's declared total width
// that should equal its register group's width: the whole field for
// register/register_address, or what's left after subtracting the padding
// and offset sub-fields for register_offset/register_address_offset.
func declaredBitsFor(arg ArgDescriptor) int {
	switch arg.Kind {
	case RegisterOffset, RegisterAddressOffset:
		return arg.Bits - arg.PaddingBits - arg.OffsetBits
	default:
		return arg.Bits
	}
}

// CommandsNamed returns every command signature declared under the given
// mnemonic (case already normalised by the caller), in declaration order.
func (c *Configuration) CommandsNamed(mnemonic string) []Command {
	var out []Command
	for _, cmd := range c.Commands {
		if cmd.Mnemonic == mnemonic {
			out = append(out, cmd)
		}
	}
	return out
}

// SortedRegisterNames is a small helper for deterministic diagnostics and
// the inspector's register legend.
func (g RegisterGroup) SortedRegisterNames() []string {
	names := make([]string, 0, len(g.Registers))
	for name := range g.Registers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
