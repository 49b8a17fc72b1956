package codec

import (
	"fmt"

	"github.com/monistode/assembler/isa"
)

// PrintArg renders a decoded argument value back into surface syntax for a
// disassembly listing. symbol is the resolved relocation target name for
// this field, or "" if the field carries no relocation (a plain literal).
func PrintArg(desc isa.ArgDescriptor, value uint64, symbol string, cfg *isa.Configuration) (string, error) {
	switch desc.Kind {
	case isa.Immediate:
		return fmt.Sprintf("$%d", value), nil
	case isa.Padding:
		if value != 0 {
			return "", fmt.Errorf("codec: non-zero padding field (got %d)", value)
		}
		if symbol != "" {
			return "", fmt.Errorf("codec: padding field carries a relocation to %q", symbol)
		}
		return "", nil
	case isa.Address:
		return fmt.Sprintf("%d", value), nil
	case isa.TextAddress, isa.DataAddress:
		if symbol != "" {
			return labelText(desc, symbol), nil
		}
		return fmt.Sprintf("%d", value), nil
	case isa.Register:
		group, err := lookupGroup(cfg, desc.Group)
		if err != nil {
			return "", err
		}
		name, ok := group.NameOf(int(value))
		if !ok {
			return "", fmt.Errorf("codec: register index %d not in group %q", value, desc.Group)
		}
		return "%" + name, nil
	case isa.RegisterAddress:
		group, err := lookupGroup(cfg, desc.Group)
		if err != nil {
			return "", err
		}
		name, ok := group.NameOf(int(value))
		if !ok {
			return "", fmt.Errorf("codec: register index %d not in group %q", value, desc.Group)
		}
		return "[%" + name + "]", nil
	case isa.RegisterOffset:
		return printRegisterOffset(desc, value, symbol, cfg)
	case isa.RegisterAddressOffset:
		inner, err := printRegisterOffset(desc, value, symbol, cfg)
		if err != nil {
			return "", err
		}
		return "[" + inner + "]", nil
	default:
		return "", fmt.Errorf("codec: unknown argument kind %v", desc.Kind)
	}
}

func labelText(desc isa.ArgDescriptor, symbol string) string {
	if desc.Relative {
		return "OFFSET " + symbol
	}
	return "ABSOLUTE " + symbol
}

func printRegisterOffset(desc isa.ArgDescriptor, value uint64, symbol string, cfg *isa.Configuration) (string, error) {
	group, err := lookupGroup(cfg, desc.Group)
	if err != nil {
		return "", err
	}
	regIndex := int(value >> uint(desc.PaddingBits+desc.OffsetBits))
	name, ok := group.NameOf(regIndex)
	if !ok {
		return "", fmt.Errorf("codec: register index %d not in group %q", regIndex, desc.Group)
	}
	mask := uint64(1)<<uint(desc.OffsetBits) - 1
	offsetVal := value & mask
	if symbol != "" {
		return fmt.Sprintf("%%%s + %s", name, labelText(desc, symbol)), nil
	}
	return fmt.Sprintf("%%%s + %d", name, offsetVal), nil
}
