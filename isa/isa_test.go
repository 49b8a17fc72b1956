package isa

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
opcode_length = 4
opcode_offset = 0
text_byte_length = 8
data_byte_length = 8
text_address_size = 16
data_address_size = 16

[register_groups.general]
length = 3
registers = ["r0", "r1", "r2", "r3"]

[[commands]]
mnemonic = "nop"
opcode = 0
  [[commands.arguments]]
  type = "padding"
  bits = 4

[[commands]]
mnemonic = "mov"
opcode = 1
  [[commands.arguments]]
  type = "register"
  group = "general"
  bits = 3
  [[commands.arguments]]
  type = "padding"
  bits = 1
  [[commands.arguments]]
  type = "immediate"
  bits = 8
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "isa.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeSample(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpcodeLength != 4 {
		t.Errorf("got OpcodeLength=%d, want 4", cfg.OpcodeLength)
	}
	if len(cfg.Commands) != 2 {
		t.Fatalf("got %d commands, want 2", len(cfg.Commands))
	}
	group, ok := cfg.RegisterGroups["general"]
	if !ok {
		t.Fatalf("missing register group general")
	}
	if idx, ok := group.IndexOf("r2"); !ok || idx != 2 {
		t.Errorf("got index %d,%v for r2, want 2,true", idx, ok)
	}
}

func TestCommandPreOpcodeArguments(t *testing.T) {
	cmd := Command{
		Mnemonic: "movi",
		Arguments: []ArgDescriptor{
			{Kind: Register, Bits: 3},
			{Kind: Immediate, Bits: 5},
		},
	}
	n, err := cmd.PreOpcodeArguments(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d, want 1", n)
	}
}

func TestCommandPreOpcodeArgumentsMisaligned(t *testing.T) {
	cmd := Command{
		Mnemonic: "bad",
		Arguments: []ArgDescriptor{
			{Kind: Register, Bits: 3},
			{Kind: Immediate, Bits: 5},
		},
	}
	if _, err := cmd.PreOpcodeArguments(2); err == nil {
		t.Fatalf("expected misalignment error")
	}
}

func TestValidateRejectsMisalignedCommand(t *testing.T) {
	cfg := &Configuration{
		OpcodeLength:   4,
		OpcodeOffset:   0,
		TextByteLength: 8,
		DataByteLength: 8,
		Commands: []Command{
			{Mnemonic: "bad", Opcode: 1, Arguments: []ArgDescriptor{
				{Kind: Immediate, Bits: 3},
			}},
		},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected a misalignment error: 4+3 bits is not a whole 8-bit word")
	}
}
