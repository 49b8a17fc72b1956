package isa

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// document is the on-disk shape of an ISA descriptor, following the same
// tagged-struct-plus-BurntSushi/toml idiom the driver config uses. Only
// the loader sees this shape; everything downstream works off the
// validated Configuration.
type document struct {
	OpcodeLength    int                       `toml:"opcode_length"`
	OpcodeOffset    int                       `toml:"opcode_offset"`
	TextByteLength  int                       `toml:"text_byte_length"`
	DataByteLength  int                       `toml:"data_byte_length"`
	TextAddressSize int                       `toml:"text_address_size"`
	DataAddressSize int                       `toml:"data_address_size"`
	RegisterGroups  map[string]registerGroup  `toml:"register_groups"`
	Commands        []documentCommand         `toml:"commands"`
}

type registerGroup struct {
	Length    int             `toml:"length"`
	Registers toml.Primitive  `toml:"registers"`
}

type documentCommand struct {
	Mnemonic  string             `toml:"mnemonic"`
	Opcode    uint64             `toml:"opcode"`
	Arguments []documentArgument `toml:"arguments"`
}

type documentArgument struct {
	Kind        string `toml:"type"`
	Bits        int    `toml:"bits"`
	Group       string `toml:"group"`
	OffsetBits  int    `toml:"offset_bits"`
	PaddingBits int    `toml:"padding_bits"`
	Relative    bool   `toml:"relative"`
}

// LoadConfig reads and validates an ISA descriptor from a TOML file.
func LoadConfig(path string) (*Configuration, error) {
	var doc document
	md, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("isa: failed to parse config file: %w", err)
	}

	cfg := &Configuration{
		OpcodeLength:   doc.OpcodeLength,
		OpcodeOffset:   doc.OpcodeOffset,
		TextByteLength: doc.TextByteLength,
		DataByteLength: doc.DataByteLength,
		TextAddrBits:   doc.TextAddressSize,
		DataAddrBits:   doc.DataAddressSize,
		RegisterGroups: make(map[string]RegisterGroup, len(doc.RegisterGroups)),
	}

	for name, rg := range doc.RegisterGroups {
		group, err := decodeRegisterGroup(md, rg)
		if err != nil {
			return nil, fmt.Errorf("isa: register group %q: %w", name, err)
		}
		cfg.RegisterGroups[name] = group
	}

	for _, dc := range doc.Commands {
		cmd := Command{Mnemonic: dc.Mnemonic, Opcode: dc.Opcode}
		for _, da := range dc.Arguments {
			kind, ok := parseArgKind(da.Kind)
			if !ok {
				return nil, fmt.Errorf("isa: command %q: unknown argument kind %q", dc.Mnemonic, da.Kind)
			}
			cmd.Arguments = append(cmd.Arguments, ArgDescriptor{
				Kind:        kind,
				Bits:        da.Bits,
				Group:       da.Group,
				OffsetBits:  da.OffsetBits,
				PaddingBits: da.PaddingBits,
				Relative:    da.Relative,
			})
		}
		cfg.Commands = append(cfg.Commands, cmd)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeRegisterGroup accepts either an ordered list of register names
// (register indices assigned by position) or an explicit name->index map
// (for register sets with aliases, e.g. a link-register name sharing an
// index with a numbered register).
func decodeRegisterGroup(md toml.MetaData, rg registerGroup) (RegisterGroup, error) {
	group := RegisterGroup{Length: rg.Length, Registers: make(map[string]int)}

	var asList []string
	if err := md.PrimitiveDecode(rg.Registers, &asList); err == nil {
		for i, name := range asList {
			group.Registers[name] = i
		}
		return group, nil
	}

	var asMap map[string]int
	if err := md.PrimitiveDecode(rg.Registers, &asMap); err != nil {
		return RegisterGroup{}, fmt.Errorf("registers must be a list of names or a name-to-index table: %w", err)
	}
	group.Registers = asMap
	return group, nil
}
