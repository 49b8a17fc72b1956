// Package container gives the abstract object model (package object) one
// concrete on-disk encoding, so the CLI has a real DEST file to write and
// read. It is intentionally small and bespoke: a replaceable adapter
// around the object model, not part of the packing/unpacking core.
package container

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/monistode/assembler/object"
)

var magic = [4]byte{'M', 'S', 'T', 'D'}

const version = 1

// Encode writes file to w in the container's binary form: a magic header,
// then one block per section (name, byte width, word count and words,
// symbol table, relocation table).
func Encode(w io.Writer, file *object.File) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, uint32(version)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, uint32(len(file.Sections))); err != nil {
		return err
	}

	for _, sec := range file.Sections {
		if err := encodeSection(bw, sec); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func encodeSection(w *bufio.Writer, sec object.Section) error {
	if err := writeString(w, sec.Name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(sec.ByteBits)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint64(len(sec.Words))); err != nil {
		return err
	}
	for _, word := range sec.Words {
		if err := binary.Write(w, binary.BigEndian, word); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.BigEndian, uint32(len(sec.Symbols))); err != nil {
		return err
	}
	for _, sym := range sec.Symbols {
		if err := writeString(w, sym.Name); err != nil {
			return err
		}
		if err := writeString(w, sym.Section); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint64(sym.WordOffset)); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.BigEndian, uint32(len(sec.Relocations))); err != nil {
		return err
	}
	for _, r := range sec.Relocations {
		if err := writeString(w, r.Target.Name); err != nil {
			return err
		}
		if err := writeString(w, r.Target.Section); err != nil {
			return err
		}
		if err := writeString(w, r.Section); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint64(r.WordOffset)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint32(r.BitOffset)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint32(r.SizeBits)); err != nil {
			return err
		}
		relative := uint8(0)
		if r.Relative {
			relative = 1
		}
		if err := binary.Write(w, binary.BigEndian, relative); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// Decode reads a container previously written by Encode.
func Decode(r io.Reader) (*object.File, error) {
	br := bufio.NewReader(r)

	var gotMagic [4]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("container: reading magic: %w", err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("container: not a monistode object file")
	}

	var ver, sectionCount uint32
	if err := binary.Read(br, binary.BigEndian, &ver); err != nil {
		return nil, err
	}
	if ver != version {
		return nil, fmt.Errorf("container: unsupported version %d", ver)
	}
	if err := binary.Read(br, binary.BigEndian, &sectionCount); err != nil {
		return nil, err
	}

	file := &object.File{}
	for i := uint32(0); i < sectionCount; i++ {
		sec, err := decodeSection(br)
		if err != nil {
			return nil, err
		}
		file.Sections = append(file.Sections, sec)
	}
	return file, nil
}

func decodeSection(r io.Reader) (object.Section, error) {
	var sec object.Section
	var err error

	if sec.Name, err = readString(r); err != nil {
		return sec, err
	}

	var byteBits uint32
	if err := binary.Read(r, binary.BigEndian, &byteBits); err != nil {
		return sec, err
	}
	sec.ByteBits = int(byteBits)

	var wordCount uint64
	if err := binary.Read(r, binary.BigEndian, &wordCount); err != nil {
		return sec, err
	}
	sec.Words = make([]uint64, wordCount)
	for i := range sec.Words {
		if err := binary.Read(r, binary.BigEndian, &sec.Words[i]); err != nil {
			return sec, err
		}
	}

	var symCount uint32
	if err := binary.Read(r, binary.BigEndian, &symCount); err != nil {
		return sec, err
	}
	for i := uint32(0); i < symCount; i++ {
		var sym object.Symbol
		if sym.Name, err = readString(r); err != nil {
			return sec, err
		}
		if sym.Section, err = readString(r); err != nil {
			return sec, err
		}
		var off uint64
		if err := binary.Read(r, binary.BigEndian, &off); err != nil {
			return sec, err
		}
		sym.WordOffset = int(off)
		sec.Symbols = append(sec.Symbols, sym)
	}

	var relocCount uint32
	if err := binary.Read(r, binary.BigEndian, &relocCount); err != nil {
		return sec, err
	}
	for i := uint32(0); i < relocCount; i++ {
		var rel object.Relocation
		if rel.Target.Name, err = readString(r); err != nil {
			return sec, err
		}
		if rel.Target.Section, err = readString(r); err != nil {
			return sec, err
		}
		if rel.Section, err = readString(r); err != nil {
			return sec, err
		}
		var wordOffset uint64
		if err := binary.Read(r, binary.BigEndian, &wordOffset); err != nil {
			return sec, err
		}
		rel.WordOffset = int(wordOffset)
		var bitOffset, sizeBits uint32
		if err := binary.Read(r, binary.BigEndian, &bitOffset); err != nil {
			return sec, err
		}
		rel.BitOffset = int(bitOffset)
		if err := binary.Read(r, binary.BigEndian, &sizeBits); err != nil {
			return sec, err
		}
		rel.SizeBits = int(sizeBits)
		var relative uint8
		if err := binary.Read(r, binary.BigEndian, &relative); err != nil {
			return sec, err
		}
		rel.Relative = relative != 0
		sec.Relocations = append(sec.Relocations, rel)
	}

	return sec, nil
}

func readString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
