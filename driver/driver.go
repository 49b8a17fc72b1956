// Package driver implements the line-oriented parsing pass (C6): it
// classifies each source line as a section header, a label, or a command,
// and hands commands off to the text or data packer, accumulating a
// complete object.File.
package driver

import (
	"strings"

	"github.com/monistode/assembler/asm"
	"github.com/monistode/assembler/isa"
	"github.com/monistode/assembler/object"
)

// Assemble runs the full assembly pass over source. The first line-level
// failure aborts the whole pass immediately, returning a single *Error
// tagged with that line's position and text; there is no partial recovery.
func Assemble(cfg *isa.Configuration, filename, source string) (*object.File, error) {
	file := &object.File{}
	textPacker := &asm.TextPacker{Config: cfg}
	dataPacker := &asm.DataPacker{Config: cfg}

	var current *object.Section

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}

		if name, ok := sectionHeader(line); ok {
			section, err := sectionFor(file, cfg, name)
			if err != nil {
				return nil, &Error{Pos: Position{filename, lineNo}, Line: raw, Wrapped: err}
			}
			current = section
			continue
		}

		label, rest, hasLabel := parseLabel(line)
		for hasLabel {
			if current == nil {
				return nil, &Error{Pos: Position{filename, lineNo}, Line: raw, Wrapped: errOutsideSection("label")}
			}
			wordOffset := len(current.Words)
			current.Symbols = append(current.Symbols, object.Symbol{Name: label, Section: current.Name, WordOffset: wordOffset})
			line = rest
			label, rest, hasLabel = parseLabel(line)
		}
		if line == "" {
			continue
		}

		mnemonic, operands, ok := parseCommand(line)
		if !ok {
			continue // comment-only remainder
		}
		if current == nil {
			return nil, &Error{Pos: Position{filename, lineNo}, Line: raw, Wrapped: errOutsideSection("command")}
		}

		if err := assembleCommand(current, textPacker, dataPacker, mnemonic, operands); err != nil {
			return nil, &Error{Pos: Position{filename, lineNo}, Line: raw, Wrapped: err}
		}
	}

	return file, nil
}

func assembleCommand(section *object.Section, textPacker *asm.TextPacker, dataPacker *asm.DataPacker, mnemonic, operands string) error {
	switch section.Name {
	case "text":
		wordOffset := len(section.Words)
		words, relocs, err := textPacker.Pack(mnemonic, operands, wordOffset)
		if err != nil {
			return err
		}
		section.Words = append(section.Words, words...)
		section.Relocations = append(section.Relocations, relocs...)
		return nil
	case "data":
		bytes, err := dataPacker.Pack(mnemonic, operands)
		if err != nil {
			return err
		}
		for _, b := range bytes {
			section.Words = append(section.Words, uint64(b))
		}
		return nil
	default:
		return errOutsideSection("command")
	}
}

func sectionFor(file *object.File, cfg *isa.Configuration, name string) (*object.Section, error) {
	if s, ok := file.Section(name); ok {
		return s, nil
	}
	var byteBits int
	switch name {
	case "text":
		byteBits = cfg.TextByteLength
	case "data":
		byteBits = cfg.DataByteLength
	default:
		return nil, &UnknownSectionError{Name: name}
	}
	file.Sections = append(file.Sections, object.Section{Name: name, ByteBits: byteBits})
	s, _ := file.Section(name)
	return s, nil
}

// UnknownSectionError reports a `.name` header that isn't "text" or "data".
type UnknownSectionError struct{ Name string }

func (e *UnknownSectionError) Error() string { return "unknown section name: " + e.Name }

type sectionlessError struct{ what string }

func (e *sectionlessError) Error() string { return e.what + " found outside of section" }

func errOutsideSection(what string) error { return &sectionlessError{what: what} }

func sectionHeader(line string) (string, bool) {
	if !strings.HasPrefix(line, ".") {
		return "", false
	}
	return strings.TrimSpace(line[1:]), true
}

// parseLabel recognises a leading label on line: either the whole line is
// a bare "name:" with no internal whitespace, or the first
// whitespace-delimited token ends in ":".
func parseLabel(line string) (label, rest string, ok bool) {
	idx := strings.IndexAny(line, " \t")
	if idx == -1 {
		if strings.HasSuffix(line, ":") {
			return line[:len(line)-1], "", true
		}
		return "", line, false
	}
	token := line[:idx]
	if strings.HasSuffix(token, ":") {
		return token[:len(token)-1], strings.TrimLeft(line[idx:], " \t"), true
	}
	return "", line, false
}

// parseCommand splits the mnemonic off the front of line: the mnemonic
// runs up to the first whitespace, lower-cased; a line starting with '#'
// has no command at all. Trailing comments are already removed by
// stripComment before this is called.
func parseCommand(line string) (mnemonic, rest string, ok bool) {
	if line == "" || line[0] == '#' {
		return "", "", false
	}
	idx := strings.IndexAny(line, " \t")
	if idx == -1 {
		return strings.ToLower(line), "", true
	}
	return strings.ToLower(line[:idx]), strings.TrimLeft(line[idx:], " \t"), true
}

// stripComment removes a trailing '#'-introduced comment, ignoring '#'
// characters inside a double-quoted string literal.
func stripComment(line string) string {
	inQuote := false
	escaped := false
	for i, c := range line {
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inQuote {
				escaped = true
			}
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}
