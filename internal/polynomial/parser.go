package polynomial

import (
	"strconv"
	"unicode"

	"yqhp/calc-engine/pkg/calcerr"
)

// Parser reads the single-variable polynomial grammar:
//
//	polynomial = [sign] term { sign term }
//	term       = number [ "*" ] [ variable [ "^" [sign] digits ] ] | variable [ "^" [sign] digits ]
//	sign       = ( "+" | "-" ) { "+" | "-" }
//
// Whitespace is allowed between any two elements.
type Parser struct {
	input string
	pos   int
}

// NewParser creates a new Parser for the given input.
func NewParser(input string) *Parser {
	return &Parser{input: input}
}

// Parse parses the polynomial expression in s. An empty or blank string is the zero
// polynomial.
func Parse(s string) (Polynomial, error) {
	return NewParser(s).Parse()
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Polynomial {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse consumes the whole input and returns the polynomial.
func (p *Parser) Parse() (Polynomial, error) {
	var poly Polynomial

	p.skipWhitespace()
	if p.eof() {
		return poly, nil
	}

	negative, _ := p.readSigns()
	for {
		term, err := p.parseTerm(negative)
		if err != nil {
			return Polynomial{}, err
		}
		poly.AddTerm(term)

		p.skipWhitespace()
		if p.eof() {
			return poly, nil
		}
		var ok bool
		negative, ok = p.readSigns()
		if !ok {
			return Polynomial{}, calcerr.NewParseError(p.pos, "expected '+' or '-' before %q", p.input[p.pos:])
		}
	}
}

// readSigns consumes a run of '+'/'-' characters and reports whether their product is
// negative and whether any sign was read.
func (p *Parser) readSigns() (negative, ok bool) {
	for {
		p.skipWhitespace()
		switch p.peek() {
		case '+':
		case '-':
			negative = !negative
		default:
			return negative, ok
		}
		ok = true
		p.pos++
	}
}

// parseTerm parses a single term after its sign.
func (p *Parser) parseTerm(negative bool) (Term, error) {
	p.skipWhitespace()
	start := p.pos

	coefficient := 1.0
	hasNumber := false
	if isNumberStart(p.peek()) {
		c, err := p.readNumber()
		if err != nil {
			return Term{}, err
		}
		coefficient = c
		hasNumber = true

		p.skipWhitespace()
		if p.peek() == '*' {
			p.pos++
			p.skipWhitespace()
			if !isLetter(p.peek()) {
				return Term{}, calcerr.NewParseError(p.pos, "expected a variable after '*'")
			}
		}
	}
	if negative {
		coefficient = -coefficient
	}

	p.skipWhitespace()
	if !isLetter(p.peek()) {
		if !hasNumber {
			if p.eof() {
				return Term{}, calcerr.NewParseError(start, "missing term at end of expression")
			}
			return Term{}, calcerr.NewParseError(start, "cannot parse term starting with %q", p.input[start:start+1])
		}
		return Constant(coefficient), nil
	}

	variable := string(p.input[p.pos])
	p.pos++

	exponent := 1
	p.skipWhitespace()
	if p.peek() == '^' {
		p.pos++
		e, err := p.readExponent()
		if err != nil {
			return Term{}, err
		}
		exponent = e
	}
	return NewTerm(coefficient, variable, exponent), nil
}

func (p *Parser) readNumber() (float64, error) {
	start := p.pos
	seenDot := false
	for !p.eof() {
		ch := p.input[p.pos]
		if ch == '.' {
			if seenDot {
				return 0, calcerr.NewParseError(p.pos, "unexpected second decimal point")
			}
			seenDot = true
		} else if !isDigit(ch) {
			break
		}
		p.pos++
	}
	lit := p.input[start:p.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, calcerr.Wrap(calcerr.KindParse, start, err, "invalid coefficient %q", lit)
	}
	return v, nil
}

func (p *Parser) readExponent() (int, error) {
	p.skipWhitespace()
	start := p.pos
	negative := false
	if ch := p.peek(); ch == '+' || ch == '-' {
		negative = ch == '-'
		p.pos++
	}
	digits := p.pos
	for !p.eof() && isDigit(p.input[p.pos]) {
		p.pos++
	}
	if digits == p.pos {
		return 0, calcerr.NewParseError(start, "expected an integer exponent after '^'")
	}
	n, err := strconv.Atoi(p.input[digits:p.pos])
	if err != nil {
		return 0, calcerr.Wrap(calcerr.KindParse, start, err, "invalid exponent %q", p.input[start:p.pos])
	}
	if negative {
		n = -n
	}
	return n, nil
}

func (p *Parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *Parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isNumberStart(ch byte) bool {
	return isDigit(ch) || ch == '.'
}
