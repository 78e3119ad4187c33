package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type TokenType int

// Token types
const (
	LEX_EOF TokenType = iota
	LEX_IDENT
	LEX_INT
	LEX_FLOAT
	LEX_STRING
	LEX_KEYWORD
	LEX_OPERATOR
	LEX_PUNCTUATION
)

func (t TokenType) String() string {
	switch t {
	case LEX_EOF:
		return "EOF"
	case LEX_IDENT:
		return "IDENT"
	case LEX_INT:
		return "INT"
	case LEX_FLOAT:
		return "FLOAT"
	case LEX_STRING:
		return "STRING"
	case LEX_KEYWORD:
		return "KEYWORD"
	case LEX_OPERATOR:
		return "OPERATOR"
	case LEX_PUNCTUATION:
		return "PUNCTUATION"
	default:
		return "UNKNOWN"
	}
}

// Keywords in Medusa
var keywords = map[string]bool{
	"int":    true,
	"float":  true,
	"string": true,
	"if":     true,
	"else":   true,
}

// Single-character operators and punctuation
var singleCharTokens = map[rune]TokenType{
	'(': LEX_PUNCTUATION,
	')': LEX_PUNCTUATION,
	'{': LEX_PUNCTUATION,
	'}': LEX_PUNCTUATION,
	';': LEX_PUNCTUATION,
	'@': LEX_PUNCTUATION,
	'+': LEX_OPERATOR,
	'*': LEX_OPERATOR,
	'%': LEX_OPERATOR,
}

// Operators that may be followed by a second character forming a longer operator.
// The key is the first character, the value maps the second character to the full operator.
var twoCharOperators = map[rune]map[rune]string{
	'=': {'=': "=="},
	'!': {'=': "!="},
	'<': {'=': "<=", '-': "<-"},
	'>': {'=': ">="},
	'-': {'>': "->"},
}

type Location struct {
	Filename string
	Line     int
	Col      int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Col)
}

type Lexeme struct {
	Type TokenType
	Str  string
	Loc  Location
}

func (l Lexeme) String() string {
	if l.Str == "" {
		return fmt.Sprintf("<%s>", l.Type)
	}
	return fmt.Sprintf("<%s %q>", l.Type, l.Str)
}

func (l Lexeme) IsKeyword(kv string) bool {
	return l.Type == LEX_KEYWORD && l.Str == kv
}

func (l Lexeme) IsPunctuation(pv string) bool {
	return l.Type == LEX_PUNCTUATION && l.Str == pv
}

func (l Lexeme) IsOperator(op string) bool {
	return l.Type == LEX_OPERATOR && l.Str == op
}

type Lexer struct {
	input     *bufio.Reader
	filename  string
	line      int
	col       int
	prevCol   int
	lastRune  rune
	lastSize  int
	hasUnread bool
}

func New(inputReader io.Reader, filename string) *Lexer {
	return &Lexer{
		input:    bufio.NewReader(inputReader),
		filename: filename,
		line:     1,
		col:      1,
		prevCol:  1,
	}
}

func (l *Lexer) location(line, col int) Location {
	return Location{Filename: l.filename, Line: line, Col: col}
}

// readRune reads the next rune from the input
func (l *Lexer) readRune() (rune, int, error) {
	var r rune
	var size int
	var err error

	if l.hasUnread {
		l.hasUnread = false
		r, size, err = l.lastRune, l.lastSize, nil
	} else {
		r, size, err = l.input.ReadRune()
	}

	if err != nil {
		return 0, 0, err
	}

	l.prevCol = l.col
	l.lastRune = r
	l.lastSize = size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, size, nil
}

// unreadRune puts back the last read rune.
// Should be called at most once per readRune.
func (l *Lexer) unreadRune() {
	l.hasUnread = true
	if l.lastRune == '\n' {
		l.line--
	}
	l.col = l.prevCol
}

// skipSpace skips whitespace characters
func (l *Lexer) skipSpace() error {
	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !unicode.IsSpace(r) {
			l.unreadRune()
			return nil
		}
	}
}

// skipComment skips a C++ style comment (from // to end of line)
func (l *Lexer) skipComment() error {
	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// Next returns the next lexeme from the input
func (l *Lexer) Next() (Lexeme, error) {
	if err := l.skipSpace(); err != nil {
		return Lexeme{Type: LEX_EOF}, err
	}
	startLoc := l.location(l.line, l.col)

	r, _, err := l.readRune()
	if err != nil {
		if err == io.EOF {
			return Lexeme{Type: LEX_EOF, Loc: startLoc}, nil
		}
		return Lexeme{Type: LEX_EOF}, err
	}

	switch {
	case unicode.IsLetter(r) || r == '_':
		l.unreadRune()
		return l.lexIdent(startLoc)
	case r == '"':
		return l.lexString(startLoc)
	case unicode.IsDigit(r):
		l.unreadRune()
		return l.lexNumber(startLoc)
	case r == '/':
		nextR, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return Lexeme{Type: LEX_OPERATOR, Str: "/", Loc: startLoc}, nil
			}
			return Lexeme{Type: LEX_EOF}, err
		}
		if nextR == '/' {
			if err := l.skipComment(); err != nil {
				return Lexeme{Type: LEX_EOF}, err
			}
			return l.Next()
		}
		l.unreadRune()
		return Lexeme{Type: LEX_OPERATOR, Str: "/", Loc: startLoc}, nil
	}

	if seconds, ok := twoCharOperators[r]; ok {
		return l.lexOperator(r, seconds, startLoc)
	}

	if tokenType, ok := singleCharTokens[r]; ok {
		return Lexeme{Type: tokenType, Str: string(r), Loc: startLoc}, nil
	}

	return Lexeme{Type: LEX_EOF}, fmt.Errorf("%s: unexpected character %q", startLoc, r)
}

// lexOperator reads an operator that is either a single character or a known two-character combination.
func (l *Lexer) lexOperator(first rune, seconds map[rune]string, startLoc Location) (Lexeme, error) {
	nextR, _, err := l.readRune()
	if err != nil && err != io.EOF {
		return Lexeme{Type: LEX_EOF}, err
	}
	if err == nil {
		if op, ok := seconds[nextR]; ok {
			return Lexeme{Type: LEX_OPERATOR, Str: op, Loc: startLoc}, nil
		}
		l.unreadRune()
	}
	if first == '!' {
		// There is no logical negation in Medusa, only "!=".
		return Lexeme{Type: LEX_EOF}, fmt.Errorf("%s: unexpected character %q", startLoc, first)
	}
	return Lexeme{Type: LEX_OPERATOR, Str: string(first), Loc: startLoc}, nil
}

// lexIdent reads an identifier or keyword
func (l *Lexer) lexIdent(startLoc Location) (Lexeme, error) {
	var sb strings.Builder

	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Lexeme{}, err
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			l.unreadRune()
			break
		}

		sb.WriteRune(r)
	}

	ident := sb.String()
	if keywords[ident] {
		return Lexeme{Type: LEX_KEYWORD, Str: ident, Loc: startLoc}, nil
	}
	return Lexeme{Type: LEX_IDENT, Str: ident, Loc: startLoc}, nil
}

// lexString reads a string literal
func (l *Lexer) lexString(startLoc Location) (Lexeme, error) {
	var sb strings.Builder

	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return Lexeme{}, fmt.Errorf("%s: unterminated string literal", startLoc)
			}
			return Lexeme{}, err
		}

		if r == '"' {
			return Lexeme{Type: LEX_STRING, Str: sb.String(), Loc: startLoc}, nil
		}

		if r == '\\' {
			nextR, _, err := l.readRune()
			if err != nil {
				if err == io.EOF {
					return Lexeme{}, fmt.Errorf("%s: unterminated string literal", startLoc)
				}
				return Lexeme{}, err
			}

			switch nextR {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '\\':
				sb.WriteRune('\\')
			case '"':
				sb.WriteRune('"')
			case '\'':
				sb.WriteRune('\'')
			default:
				// Unknown escape sequence - treat as literal character (remove backslash)
				sb.WriteRune(nextR)
			}
			continue
		}

		sb.WriteRune(r)
	}
}

// lexNumber reads an integer or a float literal.
// Floats always have digits on both sides of the decimal point.
func (l *Lexer) lexNumber(startLoc Location) (Lexeme, error) {
	digits, err := l.readDigits()
	if err != nil {
		return Lexeme{}, err
	}

	r, _, err := l.readRune()
	if err != nil {
		if err == io.EOF {
			return Lexeme{Type: LEX_INT, Str: digits, Loc: startLoc}, nil
		}
		return Lexeme{}, err
	}
	if r != '.' {
		l.unreadRune()
		return Lexeme{Type: LEX_INT, Str: digits, Loc: startLoc}, nil
	}

	fraction, err := l.readDigits()
	if err != nil {
		return Lexeme{}, err
	}
	if fraction == "" {
		return Lexeme{}, fmt.Errorf("%s: expected digits after decimal point in %q", startLoc, digits+".")
	}
	return Lexeme{Type: LEX_FLOAT, Str: digits + "." + fraction, Loc: startLoc}, nil
}

func (l *Lexer) readDigits() (string, error) {
	var sb strings.Builder
	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
		if !unicode.IsDigit(r) {
			l.unreadRune()
			break
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
