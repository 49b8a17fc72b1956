package driver

import (
	"strings"
	"testing"

	"github.com/monistode/assembler/isa"
)

func testConfig() *isa.Configuration {
	gp := isa.RegisterGroup{Length: 3, Registers: map[string]int{
		"r0": 0, "r1": 1, "r2": 2, "r3": 3,
	}}
	return &isa.Configuration{
		OpcodeLength:   8,
		OpcodeOffset:   0,
		TextByteLength: 8,
		DataByteLength: 8,
		TextAddrBits:   16,
		DataAddrBits:   16,
		RegisterGroups: map[string]isa.RegisterGroup{"gp": gp},
		Commands: []isa.Command{
			{Mnemonic: "nop", Opcode: 0x00},
			{Mnemonic: "jmp", Opcode: 0x20, Arguments: []isa.ArgDescriptor{
				{Kind: isa.TextAddress, Bits: 16, Relative: false},
			}},
		},
	}
}

func TestAssembleProducesUnresolvedForwardRelocation(t *testing.T) {
	// "loop" is never defined as a label anywhere in the source: linking
	// is out of scope, so assembling a forward or external reference must
	// still succeed and simply leave the relocation unresolved for an
	// external consumer to patch later.
	src := ".text\njmp loop"
	file, err := Assemble(testConfig(), "test.asm", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sec, ok := file.Section("text")
	if !ok {
		t.Fatalf("missing text section")
	}
	if len(sec.Relocations) != 1 {
		t.Fatalf("expected 1 relocation, got %d", len(sec.Relocations))
	}
	if sec.Relocations[0].Target.Name != "loop" {
		t.Fatalf("unexpected relocation target: %+v", sec.Relocations[0])
	}
	// Placeholder bytes: opcode then two zero address words, untouched.
	want := []uint64{0x20, 0, 0}
	if len(sec.Words) != len(want) {
		t.Fatalf("got %d words, want %d", len(sec.Words), len(want))
	}
	for i := range want {
		if sec.Words[i] != want[i] {
			t.Errorf("word %d: got %#x, want %#x", i, sec.Words[i], want[i])
		}
	}
}

func TestAssembleLabelAndComment(t *testing.T) {
	src := "# a comment\n.text\nstart:\n  nop  # trailing comment\n"
	file, err := Assemble(testConfig(), "test.asm", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sec, _ := file.Section("text")
	if len(sec.Symbols) != 1 || sec.Symbols[0].Name != "start" || sec.Symbols[0].WordOffset != 0 {
		t.Fatalf("unexpected symbols: %+v", sec.Symbols)
	}
	if len(sec.Words) != 1 || sec.Words[0] != 0 {
		t.Fatalf("unexpected words: %v", sec.Words)
	}
}

func TestAssembleUnknownSection(t *testing.T) {
	_, err := Assemble(testConfig(), "test.asm", ".bogus\nnop")
	if err == nil {
		t.Fatalf("expected an error for an unknown section")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("expected error to mention the bad section name, got %v", err)
	}
}

func TestAssembleCommandOutsideSection(t *testing.T) {
	_, err := Assemble(testConfig(), "test.asm", "nop")
	if err == nil {
		t.Fatalf("expected an error for a command outside any section")
	}
}

func TestAssembleAbortsOnFirstError(t *testing.T) {
	// Two unknown mnemonics in a row: assembly must abort tagged with the
	// first one and never reach the second (no partial recovery).
	src := ".text\nfrobnicate\nbork\n"
	_, err := Assemble(testConfig(), "test.asm", src)
	lineErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if lineErr.Pos.Line != 2 {
		t.Fatalf("expected the error to be tagged with line 2 (frobnicate), got line %d", lineErr.Pos.Line)
	}
	if strings.Contains(err.Error(), "bork") {
		t.Fatalf("assembly should have stopped before reaching the second bad line, got %v", err)
	}
}
