// Package codec bridges the isa and operand packages: it builds the
// concrete operand.Scanner signature for a command declared in an ISA
// descriptor, and pretty-prints a decoded argument value back into surface
// syntax for the disassembler.
package codec

import (
	"fmt"

	"github.com/monistode/assembler/isa"
	"github.com/monistode/assembler/operand"
)

// BuildScanner turns one argument descriptor into the operand.Scanner that
// recognises it, resolving any register-group reference against cfg.
func BuildScanner(desc isa.ArgDescriptor, cfg *isa.Configuration, section string) (operand.Scanner, error) {
	switch desc.Kind {
	case isa.Immediate:
		return operand.ImmediateScanner{NBits: desc.Bits}, nil
	case isa.Padding:
		return operand.PaddingScanner{NBits: desc.Bits}, nil
	case isa.Address:
		return operand.AddressScanner{NBits: desc.Bits}, nil
	case isa.TextAddress:
		return operand.LabelScanner{NBits: desc.Bits, Section: "text", Relative: desc.Relative}, nil
	case isa.DataAddress:
		return operand.LabelScanner{NBits: desc.Bits, Section: "data", Relative: desc.Relative}, nil
	case isa.Register:
		group, err := lookupGroup(cfg, desc.Group)
		if err != nil {
			return nil, err
		}
		return operand.RegisterScanner{Group: group}, nil
	case isa.RegisterAddress:
		group, err := lookupGroup(cfg, desc.Group)
		if err != nil {
			return nil, err
		}
		return operand.RegisterAddressScanner{Group: group}, nil
	case isa.RegisterOffset:
		group, err := lookupGroup(cfg, desc.Group)
		if err != nil {
			return nil, err
		}
		return operand.RegisterOffsetScanner{
			Group: group, PaddingBits: desc.PaddingBits, OffsetBits: desc.OffsetBits,
			Relative: desc.Relative, Section: section,
		}, nil
	case isa.RegisterAddressOffset:
		group, err := lookupGroup(cfg, desc.Group)
		if err != nil {
			return nil, err
		}
		return operand.RegisterAddressOffsetScanner{
			Group: group, PaddingBits: desc.PaddingBits, OffsetBits: desc.OffsetBits,
			Relative: desc.Relative, Section: section,
		}, nil
	default:
		return nil, fmt.Errorf("codec: unknown argument kind %v", desc.Kind)
	}
}

// BuildSignature builds the full ordered scanner list for a command.
func BuildSignature(cmd isa.Command, cfg *isa.Configuration, section string) ([]operand.Scanner, error) {
	scanners := make([]operand.Scanner, len(cmd.Arguments))
	for i, desc := range cmd.Arguments {
		s, err := BuildScanner(desc, cfg, section)
		if err != nil {
			return nil, fmt.Errorf("command %q argument %d: %w", cmd.Mnemonic, i, err)
		}
		scanners[i] = s
	}
	return scanners, nil
}

type registerGroupAdapter = isa.RegisterGroup

func lookupGroup(cfg *isa.Configuration, name string) (registerGroupAdapter, error) {
	group, ok := cfg.RegisterGroups[name]
	if !ok {
		return isa.RegisterGroup{}, fmt.Errorf("codec: unknown register group %q", name)
	}
	return group, nil
}
