// Split mmCIF lines at spaces and quotes.

/* from https://www.iucr.org/resources/cif/spec/version1.1/cifsyntax
               character or string role
_ (underscore) identifies data name
#              identifies comment
'              delimits non-simple data values
"              delimits non-simple data values
; at beginning of line of text delimits non-simple data values
data_          identifies data block header (case-insensitive)
*/

package pdb

import (
	"errors"
)

const (
	squote = '\''
	dquote = '"'
)

// asciiSpace only knows about ascii spaces
var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

func iswhite(b byte) bool { return asciiSpace[b] }

type splitState struct { // Holds the state of the state functions
	err   error
	ret   [][]byte
	line  []byte
	start int
	qtype byte
}
type stateFn func(i int, c byte, s *splitState) stateFn

func inQuote(i int, c byte, s *splitState) stateFn {
	if c == s.qtype {
		return exitQuote
	}
	if c == '\n' {
		s.err = errors.New("unterminated quote: " + string(s.line))
		return inWhite
	}
	return inQuote
}

// exitQuote. A quote only ends a word if white space follows, so
// O5' stays one word.
func exitQuote(i int, c byte, s *splitState) stateFn {
	if iswhite(c) {
		s.ret = append(s.ret, s.line[s.start:i-1])
		return inWhite
	}
	return inQuote
}

func inText(i int, c byte, s *splitState) stateFn {
	if iswhite(c) {
		s.ret = append(s.ret, s.line[s.start:i])
		return inWhite
	}
	return inText
}

func inWhite(i int, c byte, s *splitState) stateFn {
	switch {
	case iswhite(c):
		return inWhite
	case c == squote || c == dquote:
		s.qtype = c
		s.start = i + 1
		return inQuote
	default:
		s.start = i
		return inText
	}
}

// splitCifLine breaks a line into words separated by spaces, honouring
// matching quotes. The returned slices point into line and reuse the
// storage of dst.
func splitCifLine(line []byte, dst [][]byte) ([][]byte, error) {
	if len(line) == 0 {
		return dst[:0], nil
	}
	s := splitState{ret: dst[:0], line: line}
	state := inWhite
	for i, c := range line {
		state = state(i, c, &s)
	}
	state(len(line), '\n', &s) // flushes the last word, catches open quotes
	if s.err != nil {
		return nil, s.err
	}
	return s.ret, nil
}
