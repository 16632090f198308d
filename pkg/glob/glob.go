// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package glob implements a small, case-sensitive glob matcher for file base names.
//
// The grammar is intentionally restricted:
//   - '*' matches any run of characters, including the empty run
//   - '?' matches exactly one character
//   - '[...]' matches one character from a class; ranges such as "a-z" are allowed,
//     and a leading '!' or '^' negates the class. A ']' right after the opening
//     bracket (or after the negation mark) is taken literally.
//
// There is no escape character, no brace expansion, and no "**": consecutive stars
// collapse into one. Patterns containing a path separator are rejected, because
// patterns only ever apply to base names.
package glob

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrBadPattern is returned by [Compile] for patterns outside the supported grammar.
var ErrBadPattern = errors.New("bad pattern")

type tokenKind int

const (
	literal tokenKind = iota
	anyOne
	anyRun
	class
)

type runeRange struct {
	lo, hi rune
}

type token struct {
	kind    tokenKind
	r       rune
	ranges  []runeRange
	negated bool
}

func (t *token) matchRune(r rune) bool {
	switch t.kind {
	case literal:
		return t.r == r
	case anyOne:
		return true
	case class:
		in := false
		for _, rr := range t.ranges {
			if rr.lo <= r && r <= rr.hi {
				in = true
				break
			}
		}
		return in != t.negated
	}
	return false
}

// Pattern is a compiled glob pattern. The zero value matches nothing.
type Pattern struct {
	src    string
	tokens []token
}

// String returns the source text of the pattern.
func (p *Pattern) String() string {
	return p.src
}

// Compile parses pattern.
func Compile(pattern string) (*Pattern, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrBadPattern)
	}
	if strings.ContainsAny(pattern, `/\`) {
		return nil, fmt.Errorf("%w: %q must not contain a path separator", ErrBadPattern, pattern)
	}
	if !utf8.ValidString(pattern) {
		return nil, fmt.Errorf("%w: %q is not valid UTF-8", ErrBadPattern, pattern)
	}
	p := &Pattern{src: pattern}
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			if n := len(p.tokens); n > 0 && p.tokens[n-1].kind == anyRun {
				continue
			}
			p.tokens = append(p.tokens, token{kind: anyRun})
		case '?':
			p.tokens = append(p.tokens, token{kind: anyOne})
		case '[':
			tok, next, err := parseClass(runes, i)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrBadPattern, pattern, err)
			}
			p.tokens = append(p.tokens, tok)
			i = next
		default:
			p.tokens = append(p.tokens, token{kind: literal, r: r})
		}
	}
	return p, nil
}

// parseClass parses the class starting at runes[start] == '['.
// It returns the token and the index of the closing ']'.
func parseClass(runes []rune, start int) (token, int, error) {
	tok := token{kind: class}
	i := start + 1
	if i < len(runes) && (runes[i] == '!' || runes[i] == '^') {
		tok.negated = true
		i++
	}
	first := true
	for ; i < len(runes); i++ {
		r := runes[i]
		if r == ']' && !first {
			return tok, i, nil
		}
		first = false
		lo, hi := r, r
		if i+2 < len(runes) && runes[i+1] == '-' && runes[i+2] != ']' {
			hi = runes[i+2]
			if hi < lo {
				return token{}, 0, fmt.Errorf("invalid range %c-%c", lo, hi)
			}
			i += 2
		}
		tok.ranges = append(tok.ranges, runeRange{lo: lo, hi: hi})
	}
	return token{}, 0, errors.New("unterminated character class")
}

// Match reports whether name matches the whole pattern.
func (p *Pattern) Match(name string) bool {
	if p == nil || len(p.tokens) == 0 {
		return false
	}
	s := []rune(name)
	ti, si := 0, 0
	// Backtracking point for the most recent '*'.
	starTi, starSi := -1, 0
	for si < len(s) {
		if ti < len(p.tokens) {
			tok := &p.tokens[ti]
			if tok.kind == anyRun {
				starTi, starSi = ti, si
				ti++
				continue
			}
			if tok.matchRune(s[si]) {
				ti++
				si++
				continue
			}
		}
		if starTi < 0 {
			return false
		}
		starSi++
		ti, si = starTi+1, starSi
	}
	for ti < len(p.tokens) && p.tokens[ti].kind == anyRun {
		ti++
	}
	return ti == len(p.tokens)
}

// Match compiles pattern and matches name against it.
func Match(pattern, name string) (bool, error) {
	p, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return p.Match(name), nil
}
