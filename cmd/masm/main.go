// Command masm is the CLI front-end for the monistode assembler and
// disassembler: assemble/disassemble/inspect subcommands dispatched off
// os.Args.
package main

import (
	"fmt"
	"os"

	"github.com/monistode/assembler/container"
	"github.com/monistode/assembler/disasm"
	"github.com/monistode/assembler/driver"
	"github.com/monistode/assembler/drivercfg"
	"github.com/monistode/assembler/inspect"
	"github.com/monistode/assembler/isa"
	"github.com/monistode/assembler/object"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := drivercfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "masm: loading config: %v\n", err)
		os.Exit(1)
	}

	var runErr error
	switch os.Args[1] {
	case "assemble":
		runErr = runAssemble(os.Args[2:])
	case "disassemble":
		runErr = runDisassemble(os.Args[2:], cfg)
	case "inspect":
		runErr = runInspect(os.Args[2:], cfg)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "masm: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "masm: %v\n", runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  masm assemble CONFIG SOURCE DEST
  masm disassemble CONFIG SOURCE [DEST] [--header-only]
  masm inspect CONFIG OBJECT`)
}

func runAssemble(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("assemble requires CONFIG SOURCE DEST")
	}
	configPath, sourcePath, destPath := args[0], args[1], args[2]

	isaCfg, err := isa.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading ISA config: %w", err)
	}

	source, err := os.ReadFile(sourcePath) // #nosec G304 -- user-supplied source path
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	file, err := driver.Assemble(isaCfg, sourcePath, string(source))
	if err != nil {
		return err
	}

	out, err := os.Create(destPath) // #nosec G304 -- user-supplied destination path
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer out.Close()

	if err := container.Encode(out, file); err != nil {
		return fmt.Errorf("writing object file: %w", err)
	}
	return nil
}

func runDisassemble(args []string, cfg *drivercfg.Config) error {
	headerOnly := cfg.Listing.HeaderOnly
	var positional []string
	for _, a := range args {
		if a == "--header-only" {
			headerOnly = true
			continue
		}
		positional = append(positional, a)
	}
	if len(positional) < 2 || len(positional) > 3 {
		return fmt.Errorf("disassemble requires CONFIG SOURCE [DEST]")
	}
	configPath, sourcePath := positional[0], positional[1]

	isaCfg, err := isa.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading ISA config: %w", err)
	}

	in, err := os.Open(sourcePath) // #nosec G304 -- user-supplied source path
	if err != nil {
		return fmt.Errorf("opening object file: %w", err)
	}
	defer in.Close()

	file, err := container.Decode(in)
	if err != nil {
		return fmt.Errorf("reading object file: %w", err)
	}

	out := os.Stdout
	if len(positional) == 3 {
		f, err := os.Create(positional[2]) // #nosec G304 -- user-supplied destination path
		if err != nil {
			return fmt.Errorf("creating destination: %w", err)
		}
		defer f.Close()
		out = f
	}

	if headerOnly {
		printHeader(out, file)
		return nil
	}

	printHeader(out, file)
	unpacker := &disasm.TextUnpacker{Config: isaCfg}
	if textSection, ok := file.Section("text"); ok {
		lines, err := unpacker.Disassemble(textSection)
		if err != nil {
			return fmt.Errorf("disassembling text section: %w", err)
		}
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
	}
	return nil
}

func printHeader(out *os.File, file *object.File) {
	fmt.Fprintf(out, "; %d section(s)\n", len(file.Sections))
	for _, sec := range file.Sections {
		fmt.Fprintf(out, ";   %s: %d word(s), %d byte bits, %d symbol(s), %d relocation(s)\n",
			sec.Name, len(sec.Words), sec.ByteBits, len(sec.Symbols), len(sec.Relocations))
	}
}

func runInspect(args []string, cfg *drivercfg.Config) error {
	if len(args) != 2 {
		return fmt.Errorf("inspect requires CONFIG OBJECT")
	}
	configPath, objectPath := args[0], args[1]

	isaCfg, err := isa.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading ISA config: %w", err)
	}

	in, err := os.Open(objectPath) // #nosec G304 -- user-supplied object path
	if err != nil {
		return fmt.Errorf("opening object file: %w", err)
	}
	defer in.Close()

	file, err := container.Decode(in)
	if err != nil {
		return fmt.Errorf("reading object file: %w", err)
	}

	return inspect.Run(file, isaCfg, cfg)
}
