// Package signature matches a raw operand string against a command's
// candidate argument signatures, requiring exactly one to match in full.
package signature

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/monistode/assembler/operand"
)

// NoMatchError is returned when no candidate signature accepts the operand
// text at all.
type NoMatchError struct{}

func (e *NoMatchError) Error() string {
	return "could not parse arguments: no matching signature"
}

// AmbiguousError is returned when more than one candidate signature accepts
// the same operand text, naming each candidate's argument-type sequence so
// the caller can report which signatures collided.
type AmbiguousError struct {
	Candidates [][]string
}

func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = strings.Join(c, ", ")
	}
	return fmt.Sprintf("line matches %d signatures - %s", len(e.Candidates), strings.Join(names, " | "))
}

var reDelimiters = regexp.MustCompile(`[^\s,]`)

// skipDelimiters advances past leading whitespace and commas. If nothing
// but delimiters remains, it lands at end-of-string.
func skipDelimiters(line string, offset int) int {
	loc := reDelimiters.FindStringIndex(line[offset:])
	if loc == nil {
		return len(line)
	}
	return offset + loc[0]
}

// tryCandidate runs one candidate signature's scanners in sequence against
// line, each preceded by a delimiter skip, and returns the matched operands
// if every scanner in the signature succeeded in order.
func tryCandidate(line string, signature []operand.Scanner) ([]operand.Parsed, bool) {
	offset := 0
	results := make([]operand.Parsed, 0, len(signature))
	for _, scanner := range signature {
		offset = skipDelimiters(line, offset)
		// Once the line has ended only a zero-width scanner (padding) can
		// still be satisfied.
		terminated := offset >= len(line) || line[offset] == '#'
		parsed, ok := scanner.Attempt(line, offset)
		if !ok || (terminated && parsed.LengthInChars != 0) {
			return nil, false
		}
		results = append(results, parsed)
		offset += parsed.LengthInChars
	}
	// Every declared scanner matched; the candidate is only satisfied if
	// nothing but delimiters and an optional comment remain.
	offset = skipDelimiters(line, offset)
	if offset < len(line) && line[offset] != '#' {
		return nil, false
	}
	return results, true
}

// Match tries every candidate signature against operandString and requires
// exactly one to match the whole string.
func Match(operandString string, signatures [][]operand.Scanner) ([]operand.Parsed, error) {
	results, _, err := MatchIndexed(operandString, signatures)
	return results, err
}

// MatchIndexed is Match but also reports which candidate signature (by
// index into signatures) produced the single match, so a caller that built
// signatures from a parallel list of isa.Command values can recover which
// command was selected.
func MatchIndexed(operandString string, signatures [][]operand.Scanner) ([]operand.Parsed, int, error) {
	var matched []operand.Parsed
	matchedIndex := -1
	var candidateNames [][]string
	count := 0

	for i, candidate := range signatures {
		results, ok := tryCandidate(operandString, candidate)
		if !ok {
			continue
		}
		count++
		matched = results
		matchedIndex = i
		names := make([]string, len(candidate))
		for j, s := range candidate {
			names[j] = s.TypeName()
		}
		candidateNames = append(candidateNames, names)
	}

	switch count {
	case 0:
		return nil, 0, &NoMatchError{}
	case 1:
		return matched, matchedIndex, nil
	default:
		return nil, 0, &AmbiguousError{Candidates: candidateNames}
	}
}
