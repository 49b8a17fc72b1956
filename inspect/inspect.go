// Package inspect implements a read-only TUI browser over an assembled
// object file: a section list plus panels for its word dump, symbol table,
// and relocation table, wired as a tview.Application with Flex-laid-out
// bordered panels driven off a single event loop.
package inspect

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/monistode/assembler/disasm"
	"github.com/monistode/assembler/drivercfg"
	"github.com/monistode/assembler/isa"
	"github.com/monistode/assembler/object"
)

// UI holds every panel of the inspector.
type UI struct {
	App    *tview.Application
	File   *object.File
	Config *isa.Configuration
	Driver *drivercfg.Config

	Layout        *tview.Flex
	SectionList   *tview.List
	WordsView     *tview.TextView
	SymbolsView   *tview.TextView
	RelocsView    *tview.TextView
	ListingView   *tview.TextView
}

// Run builds the inspector and blocks until the user quits.
func Run(file *object.File, cfg *isa.Configuration, driverCfg *drivercfg.Config) error {
	ui := &UI{File: file, Config: cfg, Driver: driverCfg, App: tview.NewApplication()}
	ui.initializeViews()
	ui.buildLayout()
	ui.populateSections()
	return ui.App.SetRoot(ui.Layout, true).SetFocus(ui.SectionList).Run()
}

func (ui *UI) initializeViews() {
	ui.SectionList = tview.NewList().ShowSecondaryText(false)
	ui.SectionList.SetBorder(true).SetTitle(" Sections ")

	ui.WordsView = tview.NewTextView().SetDynamicColors(ui.Driver.Inspector.ColorOutput).SetScrollable(true).SetWrap(false)
	ui.WordsView.SetBorder(true).SetTitle(" Words ")

	ui.SymbolsView = tview.NewTextView().SetDynamicColors(ui.Driver.Inspector.ColorOutput).SetScrollable(true)
	ui.SymbolsView.SetBorder(true).SetTitle(" Symbols ")

	ui.RelocsView = tview.NewTextView().SetDynamicColors(ui.Driver.Inspector.ColorOutput).SetScrollable(true)
	ui.RelocsView.SetBorder(true).SetTitle(" Relocations ")

	ui.ListingView = tview.NewTextView().SetDynamicColors(ui.Driver.Inspector.ColorOutput).SetScrollable(true).SetWrap(false)
	ui.ListingView.SetBorder(true).SetTitle(" Listing ")
}

func (ui *UI) buildLayout() {
	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.SectionList, 0, 1, true).
		AddItem(ui.SymbolsView, 0, 1, false).
		AddItem(ui.RelocsView, 0, 1, false)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.ListingView, 0, 1, false).
		AddItem(ui.WordsView, 0, 1, false)

	ui.Layout = tview.NewFlex().
		AddItem(left, 0, 1, true).
		AddItem(right, 0, 2, false)

	ui.Layout.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			ui.App.Stop()
			return nil
		}
		return event
	})
}

func (ui *UI) populateSections() {
	for _, sec := range ui.File.Sections {
		name := sec.Name
		ui.SectionList.AddItem(name, "", 0, func() { ui.showSection(name) })
	}
	if len(ui.File.Sections) > 0 {
		ui.showSection(ui.File.Sections[0].Name)
	}
}

func (ui *UI) showSection(name string) {
	sec, ok := ui.File.Section(name)
	if !ok {
		return
	}

	var symbols strings.Builder
	for _, sym := range sec.Symbols {
		fmt.Fprintf(&symbols, "%s: word %d\n", sym.Name, sym.WordOffset)
	}
	ui.SymbolsView.SetText(symbols.String())

	var relocs strings.Builder
	for _, r := range sec.Relocations {
		fmt.Fprintf(&relocs, "%s (%s) @ word %d bit %d, %d bits, relative=%v\n",
			r.Target.Name, r.Target.Section, r.WordOffset, r.BitOffset, r.SizeBits, r.Relative)
	}
	ui.RelocsView.SetText(relocs.String())

	var words strings.Builder
	for i, w := range sec.Words {
		fmt.Fprintf(&words, "%04d: %#x\n", i, w)
	}
	ui.WordsView.SetText(words.String())

	ui.ListingView.SetText(ui.renderListing(name, sec))
}

func (ui *UI) renderListing(name string, sec *object.Section) string {
	if name != "text" {
		return "(no disassembly for non-text sections)"
	}
	unpacker := &disasm.TextUnpacker{Config: ui.Config}
	lines, err := unpacker.Disassemble(sec)
	if err != nil {
		return fmt.Sprintf("disassembly error: %v", err)
	}
	return strings.Join(lines, "\n")
}
