package operand

import "testing"

func TestImmediateScannerDecimal(t *testing.T) {
	s := ImmediateScanner{NBits: 8}
	parsed, ok := s.Attempt("$42 rest", 0)
	if !ok {
		t.Fatalf("expected match")
	}
	if parsed.AsInt != 42 {
		t.Errorf("got AsInt=%d, want 42", parsed.AsInt)
	}
	if parsed.LengthInChars != 3 {
		t.Errorf("got LengthInChars=%d, want 3", parsed.LengthInChars)
	}
}

func TestImmediateScannerHex(t *testing.T) {
	s := ImmediateScanner{NBits: 8}
	parsed, ok := s.Attempt("$0xff", 0)
	if !ok {
		t.Fatalf("expected match")
	}
	if parsed.AsInt != 0xff {
		t.Errorf("got AsInt=%d, want 255", parsed.AsInt)
	}
}

func TestImmediateScannerOutOfRange(t *testing.T) {
	s := ImmediateScanner{NBits: 4}
	if _, ok := s.Attempt("$16", 0); ok {
		t.Fatalf("expected value 16 to be rejected for a 4-bit field")
	}
}

func TestImmediateScannerCharLiteral(t *testing.T) {
	s := ImmediateScanner{NBits: 8}
	parsed, ok := s.Attempt(`$'A'`, 0)
	if !ok {
		t.Fatalf("expected match")
	}
	if parsed.AsInt != 'A' {
		t.Errorf("got AsInt=%d, want %d", parsed.AsInt, 'A')
	}
}

func TestImmediateScannerNoSigil(t *testing.T) {
	s := ImmediateScanner{NBits: 8}
	if _, ok := s.Attempt("42", 0); ok {
		t.Fatalf("expected no match without leading $")
	}
}
