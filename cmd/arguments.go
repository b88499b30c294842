// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"quakeed/math/vec"
)

type QArg struct {
	a string
}

func (a QArg) String() string {
	return a.a
}

func (a QArg) Int() int {
	r, err := strconv.ParseInt(a.a, 10, 0)
	if err != nil {
		return 0
	}
	return int(r)
}

func (a QArg) Float64() float64 {
	r, err := strconv.ParseFloat(a.a, 64)
	if err != nil {
		return 0
	}
	return r
}

func (a QArg) Bool() bool {
	switch a.a {
	case "1", "t", "T", "true", "TRUE", "True", "On", "ON", "on":
		return true
	default:
		return false
	}
}

type Arguments struct {
	// each arg on its own
	args []QArg
	// concat of args[1:]
	full string
}

func (c *Arguments) Argv(i int) QArg {
	if i < 0 || i >= len(c.args) {
		slog.Debug("Argv out of bounds", "index", i, "len", len(c.args))
		return QArg{""}
	}
	return c.args[i]
}

// Float parses argument i as a number.
func (c *Arguments) Float(i int) (float64, error) {
	a := c.Argv(i).String()
	r, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, errors.Errorf("argument %d: %q is not a number", i, a)
	}
	return r, nil
}

// Vec3 parses a vector written as "( x y z )" starting at argument i and
// returns it together with the index of the next argument.
func (c *Arguments) Vec3(i int) (vec.Vec3, int, error) {
	if c.Argv(i).String() != "(" || c.Argv(i+4).String() != ")" {
		return vec.Vec3{}, i, errors.Errorf("argument %d: expected ( x y z )", i)
	}
	var r [3]float64
	for j := range r {
		f, err := c.Float(i + 1 + j)
		if err != nil {
			return vec.Vec3{}, i, err
		}
		r[j] = f
	}
	return vec.VFromA(r), i + 5, nil
}

// Vec3s parses vectors until the arguments run out.
func (c *Arguments) Vec3s(i int) ([]vec.Vec3, error) {
	var r []vec.Vec3
	for i < len(c.args) {
		v, n, err := c.Vec3(i)
		if err != nil {
			return nil, err
		}
		r = append(r, v)
		i = n
	}
	return r, nil
}

func (c *Arguments) Full() string {
	return c.full
}

func (c *Arguments) Args() []QArg {
	return c.args
}

func (c *Arguments) ArgumentString() string {
	// args[0] is the cmd
	if len(c.args) < 2 {
		return ""
	}
	r := strings.TrimPrefix(c.full, c.args[0].String())
	r = strings.TrimLeftFunc(r, unicode.IsSpace)
	// we want to remove " around the text.
	// the end is not that important but the result should not start with " or
	// space.
	if len(r) > 1 {
		if r[0] == '"' {
			r = strings.Trim(r, "\"\t\n\v\f\r ")
		}
	}
	return r
}

// Parse splits a console line into arguments. Quotes group words, '(' and
// ')' stand on their own and "//" starts a comment.
func Parse(s string) (args Arguments) {
	args.full = strings.TrimFunc(s, unicode.IsSpace)
	args.args = []QArg{}

	for _, t := range lex(args.full) {
		switch t.typ {
		case tokenWord:
			args.args = append(args.args, QArg{t.val})
		case tokenString:
			args.args = append(args.args, QArg{strings.Trim(t.val, `"`)})
		case tokenError:
			slog.Debug("Dropping rest of line", "err", t.val)
			return
		}
	}
	return
}

type tokenType int

const (
	tokenError  tokenType = iota
	tokenString           // quoted string includes quotes
	tokenWord             // also '(' and ')'
)

const eof = -1

type token struct {
	typ tokenType
	val string
}

type stateFn func(*lexer) stateFn

type lexer struct {
	input  string
	start  int
	pos    int
	width  int
	tokens []token
}

func lex(input string) []token {
	l := &lexer{input: input}
	for state := lexAction; state != nil; {
		state = state(l)
	}
	return l.tokens
}

func (l *lexer) emit(t tokenType) {
	l.tokens = append(l.tokens, token{t, l.input[l.start:l.pos]})
	l.start = l.pos
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += l.width
	return r
}

func (l *lexer) backup() {
	l.pos -= l.width
}

func (l *lexer) ignore() {
	l.start = l.pos
}

func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.tokens = append(l.tokens, token{tokenError, fmt.Sprintf(format, args...)})
	return nil
}

func lexAction(l *lexer) stateFn {
	switch r := l.next(); {
	case r == eof || isEndOfLine(r):
		return nil
	case isSpace(r):
		l.ignore()
		return lexAction
	case r == '"':
		return lexQuote
	case isBracket(r):
		l.emit(tokenWord)
		return lexAction
	case r == '/' && strings.HasPrefix(l.input[l.pos:], "/"):
		// drop the rest of this line
		return nil
	case isQuakeRune(r):
		return lexWord
	default:
		return l.errorf("unhandled char: %#U", r)
	}
}

func lexWord(l *lexer) stateFn {
	for {
		if r := l.next(); !isQuakeRune(r) || isBracket(r) {
			l.backup()
			l.emit(tokenWord)
			return lexAction
		}
	}
}

func lexQuote(l *lexer) stateFn {
	for {
		switch l.next() {
		case '"':
			l.emit(tokenString)
			return lexAction
		case eof, '\n':
			return l.errorf("unterminated string")
		}
	}
}

func isQuakeRune(r rune) bool {
	// this is an ugly ascii workaround
	return r > ' '
}

// brackets enclose points like in map files
func isBracket(r rune) bool {
	return r == '(' || r == ')'
}

func isEndOfLine(r rune) bool {
	return r == '\r' || r == '\n'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
