// Package disasm implements the text-section unpacker (C5): given a
// section's word stream and its relocation/symbol tables, it recovers one
// instruction's mnemonic and operands at a time and renders a full listing.
package disasm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/monistode/assembler/codec"
	"github.com/monistode/assembler/isa"
	"github.com/monistode/assembler/object"
)

// UnpackError reports a failure to recover an instruction from the word
// stream: an opcode with no matching command, or a word stream that doesn't
// end on a byte boundary.
type UnpackError struct {
	WordOffset int
	Message    string
}

func (e *UnpackError) Error() string {
	return fmt.Sprintf("word %d: %s", e.WordOffset, e.Message)
}

// TextUnpacker recovers instructions from a text section's word stream for
// one ISA configuration.
type TextUnpacker struct {
	Config *isa.Configuration
}

// decoded is one recovered instruction: its command, the argument values in
// declaration order, and how many words it occupied.
type decoded struct {
	Command  isa.Command
	Values   []uint64
	Consumed int
}

// extractBits pulls the bits in [offset, offset+size) of command, counting
// offset from the most-significant bit of a commandWords-wide value.
func extractBits(command uint64, commandWords, byteBits, offset, size int) uint64 {
	totalBits := commandWords * byteBits
	shift := totalBits - offset - size
	mask := uint64(1)<<uint(size) - 1
	return (command >> uint(shift)) & mask
}

// next decodes one instruction starting at words[0], reading just enough
// words to cover the opcode and pulling more as the argument cursor
// advances past what has been read.
func (u *TextUnpacker) next(words []uint64) (decoded, error) {
	byteBits := u.Config.TextByteLength
	needed := (u.Config.OpcodeOffset + u.Config.OpcodeLength + byteBits - 1) / byteBits
	if needed > len(words) {
		return decoded{}, &UnpackError{Message: "truncated instruction stream"}
	}

	commandWords := needed
	var command uint64
	for i := 0; i < commandWords; i++ {
		command = (command << uint(byteBits)) | words[i]
	}

	opcode := extractBits(command, commandWords, byteBits, u.Config.OpcodeOffset, u.Config.OpcodeLength)

	var cmd isa.Command
	found := false
	for _, c := range u.Config.Commands {
		if c.Opcode == opcode {
			cmd = c
			found = true
			break
		}
	}
	if !found {
		return decoded{}, &UnpackError{Message: fmt.Sprintf("unknown opcode %d", opcode)}
	}

	preOpcode, err := cmd.PreOpcodeArguments(u.Config.OpcodeOffset)
	if err != nil {
		return decoded{}, err
	}

	cursor := 0
	if preOpcode == 0 {
		cursor = u.Config.OpcodeLength
	}

	values := make([]uint64, len(cmd.Arguments))
	pull := func() error {
		if commandWords >= len(words) {
			return &UnpackError{Message: "truncated instruction stream"}
		}
		command = (command << uint(byteBits)) | words[commandWords]
		commandWords++
		return nil
	}

	for i, arg := range cmd.Arguments {
		for cursor+arg.Bits > commandWords*byteBits {
			if err := pull(); err != nil {
				return decoded{}, err
			}
		}
		cursor += arg.Bits
		values[i] = extractBits(command, commandWords, byteBits, cursor-arg.Bits, arg.Bits)

		if i == preOpcode-1 {
			cursor += u.Config.OpcodeLength
		}
	}

	if cursor%byteBits != 0 {
		return decoded{}, &UnpackError{Message: "instruction not aligned properly"}
	}

	return decoded{Command: cmd, Values: values, Consumed: commandWords}, nil
}

// relocationSymbol finds the symbol name recorded against a packed field,
// matched on the exact (word offset, bit offset, size) triple.
func relocationSymbol(relocs []object.Relocation, wordOffset, bitOffset, size int) string {
	for _, r := range relocs {
		if r.WordOffset == wordOffset && r.BitOffset == bitOffset && r.SizeBits == size {
			return r.Target.Name
		}
	}
	return ""
}

// Disassemble renders a full text-section listing: one `ADDR: mnemonic
// args  # words` line per instruction, with `NAME:` label lines emitted
// just before the instruction at that symbol's address. The `#` word
// margin is aligned to one column across the whole listing.
func (u *TextUnpacker) Disassemble(section *object.Section) ([]string, error) {
	labelsAt := make(map[int][]string)
	for _, sym := range section.Symbols {
		labelsAt[sym.WordOffset] = append(labelsAt[sym.WordOffset], sym.Name)
	}

	type listingLine struct {
		head  string
		words string // empty for label lines
	}
	var entries []listingLine
	headWidth := 0

	pos := 0
	for pos < len(section.Words) {
		for _, name := range sortedNames(labelsAt[pos]) {
			entries = append(entries, listingLine{head: fmt.Sprintf("    %s:", name)})
		}

		inst, err := u.next(section.Words[pos:])
		if err != nil {
			if ue, ok := err.(*UnpackError); ok {
				ue.WordOffset = pos
			}
			return nil, err
		}

		head, words, err := u.render(inst, pos, section)
		if err != nil {
			return nil, err
		}
		if len(head) > headWidth {
			headWidth = len(head)
		}
		entries = append(entries, listingLine{head: head, words: words})
		pos += inst.Consumed
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		if e.words == "" {
			lines[i] = e.head
			continue
		}
		lines[i] = e.head + strings.Repeat(" ", headWidth-len(e.head)) + "  # " + e.words
	}
	return lines, nil
}

func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

func (u *TextUnpacker) render(inst decoded, wordOffset int, section *object.Section) (head, words string, err error) {
	var args []string
	cursor := 0
	byteBits := u.Config.TextByteLength
	preOpcode, _ := inst.Command.PreOpcodeArguments(u.Config.OpcodeOffset)
	for i, arg := range inst.Command.Arguments {
		if i == preOpcode {
			cursor += u.Config.OpcodeLength
		}
		// A relocation is recorded against the sub-field that actually
		// holds the symbol's bits: the whole field for address arguments,
		// the low offset sub-field for register_offset shapes.
		relBit, relSize := cursor, arg.Bits
		switch arg.Kind {
		case isa.RegisterOffset, isa.RegisterAddressOffset:
			relBit = cursor + (arg.Bits - arg.OffsetBits)
			relSize = arg.OffsetBits
		}
		fieldWord := wordOffset + relBit/byteBits
		fieldBit := relBit % byteBits
		symbol := relocationSymbol(section.Relocations, fieldWord, fieldBit, relSize)
		text, err := codec.PrintArg(arg, inst.Values[i], symbol, u.Config)
		if err != nil {
			return "", "", &UnpackError{WordOffset: wordOffset, Message: err.Error()}
		}
		if text != "" {
			args = append(args, text)
		}
		cursor += arg.Bits
	}

	bytesRendered := make([]string, inst.Consumed)
	for i := 0; i < inst.Consumed; i++ {
		bytesRendered[i] = pprintByte(section.Words[wordOffset+i], u.Config.TextByteLength)
	}

	addrDigits := (u.Config.TextAddrBits + 3) / 4
	addr := fmt.Sprintf("%0*X", addrDigits, wordOffset)
	head = strings.TrimRight(fmt.Sprintf("%s: %s %s", addr, inst.Command.Mnemonic, strings.Join(args, ", ")), " ")
	return head, strings.Join(bytesRendered, " "), nil
}

// pprintByte renders one word either as zero-padded binary or zero-padded
// hex: binary when byteBits isn't a multiple of 4 (hex digits wouldn't
// align), hex otherwise.
func pprintByte(value uint64, byteBits int) string {
	if byteBits%4 != 0 {
		return fmt.Sprintf("%0*b", byteBits, value)
	}
	return fmt.Sprintf("%0*X", byteBits/4, value)
}
