package extract

// content.go: text recovery from a decoded page content stream.
//
// Only the text-showing operators are interpreted. Glyph widths are unknown at
// this level, so line breaks come from baseline moves and word breaks from
// explicit repositioning or large TJ adjustments.

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// tjSpaceThreshold is the TJ adjustment (thousandths of text space, negative
// moves right) beyond which a word break is assumed.
const tjSpaceThreshold = -200

// baselineTolerance is the vertical move, in text space units, still treated
// as the same line.
const baselineTolerance = 1.0

type operandKind int

const (
	opNumber operandKind = iota
	opString
	opName
	opArray
)

type operand struct {
	kind  operandKind
	num   float64
	str   []byte
	items []operand
}

type textWriter struct {
	out     strings.Builder
	y       float64 // current baseline in the text object
	lastY   float64 // baseline of the last shown text
	shown   bool
	moved   bool // a positioning operator ran since the last show
	newline bool // a next-line operator ran since the last show
}

func (w *textWriter) show(s string) {
	if s == "" {
		return
	}
	if w.shown {
		switch {
		case w.newline || math.Abs(w.y-w.lastY) > baselineTolerance:
			w.out.WriteByte('\n')
		case w.moved && !endsWithSpace(&w.out) && !strings.HasPrefix(s, " "):
			w.out.WriteByte(' ')
		}
	}
	w.out.WriteString(s)
	w.shown, w.moved, w.newline = true, false, false
	w.lastY = w.y
}

func endsWithSpace(b *strings.Builder) bool {
	s := b.String()
	return s != "" && (s[len(s)-1] == ' ' || s[len(s)-1] == '\n')
}

// contentText returns the text shown by a content stream, one line per
// baseline.
func contentText(data []byte) string {
	var (
		w     textWriter
		stack []operand
		arr   []operand
		inArr bool
	)
	push := func(o operand) {
		if inArr {
			arr = append(arr, o)
			return
		}
		stack = append(stack, o)
	}
	nums := func(n int) []float64 {
		if len(stack) < n {
			return nil
		}
		out := make([]float64, n)
		for i, o := range stack[len(stack)-n:] {
			out[i] = o.num
		}
		return out
	}
	lastString := func() ([]byte, bool) {
		if len(stack) == 0 || stack[len(stack)-1].kind != opString {
			return nil, false
		}
		return stack[len(stack)-1].str, true
	}

	sc := scanner{data: data}
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		switch tok.kind {
		case tokString:
			push(operand{kind: opString, str: tok.value})
			continue
		case tokNumber:
			n, _ := strconv.ParseFloat(string(tok.value), 64)
			push(operand{kind: opNumber, num: n})
			continue
		case tokName:
			push(operand{kind: opName})
			continue
		case tokArrayStart:
			inArr, arr = true, nil
			continue
		case tokArrayEnd:
			inArr = false
			stack = append(stack, operand{kind: opArray, items: arr})
			continue
		}

		switch string(tok.value) {
		case "BT":
			w.y = 0
		case "Td", "TD":
			if v := nums(2); v != nil {
				w.y += v[1]
			}
			w.moved = true
		case "Tm":
			if v := nums(6); v != nil {
				w.y = v[5]
			}
			w.moved = true
		case "T*":
			w.newline = true
		case "Tj":
			if s, ok := lastString(); ok {
				w.show(decodeText(s))
			}
		case "'", `"`:
			w.newline = true
			if s, ok := lastString(); ok {
				w.show(decodeText(s))
			}
		case "TJ":
			if len(stack) > 0 && stack[len(stack)-1].kind == opArray {
				w.show(arrayText(stack[len(stack)-1].items))
			}
		case "ID":
			sc.skipInlineImage()
		}
		stack = stack[:0]
	}
	return w.out.String()
}

// arrayText joins the strings of a TJ array, turning wide adjustments into
// spaces.
func arrayText(items []operand) string {
	var b strings.Builder
	for _, it := range items {
		switch it.kind {
		case opString:
			b.WriteString(decodeText(it.str))
		case opNumber:
			if it.num < tjSpaceThreshold && b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// decodeText maps single-byte string codes to UTF-8 using Windows-1252, the
// encoding of the standard fonts most simple PDF writers use.
func decodeText(raw []byte) string {
	s, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(s)
}

type tokenKind int

const (
	tokOperator tokenKind = iota
	tokNumber
	tokString
	tokName
	tokArrayStart
	tokArrayEnd
)

type token struct {
	kind  tokenKind
	value []byte
}

type scanner struct {
	data []byte
	pos  int
}

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *scanner) next() (token, bool) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isWhite(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			s.pos++
			return token{kind: tokString, value: s.literal()}, true
		case c == '<' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '<':
			s.pos += 2
		case c == '>' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '>':
			s.pos += 2
		case c == '<':
			s.pos++
			return token{kind: tokString, value: s.hex()}, true
		case c == '[':
			s.pos++
			return token{kind: tokArrayStart}, true
		case c == ']':
			s.pos++
			return token{kind: tokArrayEnd}, true
		case c == '/':
			s.pos++
			return token{kind: tokName, value: s.regular()}, true
		case c == '{' || c == '}' || c == ')' || c == '>':
			s.pos++
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			return token{kind: tokNumber, value: s.regular()}, true
		default:
			return token{kind: tokOperator, value: s.regular()}, true
		}
	}
	return token{}, false
}

func (s *scanner) regular() []byte {
	start := s.pos
	for s.pos < len(s.data) && !isWhite(s.data[s.pos]) && !isDelim(s.data[s.pos]) {
		s.pos++
	}
	return s.data[start:s.pos]
}

// literal reads a (string) body; the opening parenthesis is already consumed.
func (s *scanner) literal() []byte {
	var out []byte
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out
			}
		case '\\':
			if s.pos >= len(s.data) {
				return out
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						v = v*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// hex reads a <hex> string body; the opening bracket is already consumed.
func (s *scanner) hex() []byte {
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		c := s.data[s.pos]
		if !isWhite(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++ // '>'
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return out
}

// skipInlineImage moves past the binary data of an inline image, up to and
// including its EI operator.
func (s *scanner) skipInlineImage() {
	if i := bytes.Index(s.data[s.pos:], []byte("EI")); i >= 0 {
		for j := s.pos + i; j >= 0 && j+2 <= len(s.data); {
			end := j + 2
			if (j == 0 || isWhite(s.data[j-1])) && (end == len(s.data) || isWhite(s.data[end])) {
				s.pos = end
				return
			}
			k := bytes.Index(s.data[end:], []byte("EI"))
			if k < 0 {
				break
			}
			j = end + k
		}
	}
	s.pos = len(s.data)
}
