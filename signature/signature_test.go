package signature

import (
	"testing"

	"github.com/monistode/assembler/operand"
)

func TestMatchSingleSignature(t *testing.T) {
	sig := []operand.Scanner{operand.ImmediateScanner{NBits: 8}}
	results, err := Match("$5", [][]operand.Scanner{sig})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].AsInt != 5 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestMatchNoSignature(t *testing.T) {
	sig := []operand.Scanner{operand.ImmediateScanner{NBits: 8}}
	_, err := Match("not_an_immediate", [][]operand.Scanner{sig})
	if _, ok := err.(*NoMatchError); !ok {
		t.Fatalf("expected NoMatchError, got %v", err)
	}
}

func TestMatchAmbiguous(t *testing.T) {
	sigA := []operand.Scanner{operand.AddressScanner{NBits: 8}}
	sigB := []operand.Scanner{operand.AddressScanner{NBits: 16}}
	_, err := Match("5", [][]operand.Scanner{sigA, sigB})
	if _, ok := err.(*AmbiguousError); !ok {
		t.Fatalf("expected AmbiguousError, got %v", err)
	}
}

func TestMatchRejectsTrailingGarbage(t *testing.T) {
	sig := []operand.Scanner{operand.ImmediateScanner{NBits: 8}}
	_, err := Match("$1 $2", [][]operand.Scanner{sig})
	if _, ok := err.(*NoMatchError); !ok {
		t.Fatalf("expected NoMatchError for unconsumed trailing operand, got %v", err)
	}
}

func TestMatchAllowsTrailingComment(t *testing.T) {
	sig := []operand.Scanner{operand.ImmediateScanner{NBits: 8}}
	results, err := Match("$1  # a comment", [][]operand.Scanner{sig})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].AsInt != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestMatchSkipsDelimiters(t *testing.T) {
	sig := []operand.Scanner{operand.ImmediateScanner{NBits: 8}, operand.ImmediateScanner{NBits: 8}}
	results, err := Match("$1,   $2", [][]operand.Scanner{sig})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].AsInt != 1 || results[1].AsInt != 2 {
		t.Fatalf("unexpected results: %+v", results)
	}
}
