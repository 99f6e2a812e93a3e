// Copyright isle-typeinf contributors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package sexp

import (
	"unicode"

	"github.com/yelhsams/isle-typeinf/internal/source"
)

// Parse reads a source file into a single S-expression, recording every
// subterm's span into the returned source map. It is an error for anything
// but whitespace and comments to follow the first term.
func Parse(s *source.File) (SExp, *source.Map[SExp], *source.SyntaxError) {
	p := NewParser(s)

	term, err := p.Parse()
	if err == nil {
		p.SkipWhiteSpace()

		if p.index != len(p.text) {
			return nil, nil, p.error("unexpected remainder")
		}
	}

	return term, p.SourceMap(), err
}

// ParseAll reads a source file into zero or more top-level S-expressions,
// continuing past the first term rather than demanding it be the only one.
func ParseAll(s *source.File) ([]SExp, *source.Map[SExp], *source.SyntaxError) {
	p := NewParser(s)

	terms := make([]SExp, 0)

	for {
		term, err := p.Parse()
		if err != nil {
			return terms, p.srcmap, err
		} else if term == nil {
			return terms, p.srcmap, nil
		}

		terms = append(terms, term)
	}
}

// Parser represents a parser in the process of reading a given source file
// into one or more S-expressions.
type Parser struct {
	srcfile *source.File
	text    []rune
	index   int
	srcmap  *source.Map[SExp]
}

// NewParser constructs a new Parser over a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{
		srcfile: srcfile,
		text:    srcfile.Contents(),
		index:   0,
		srcmap:  source.NewSourceMap[SExp](*srcfile),
	}
}

// SourceMap returns the source map accumulated so far, mapping every
// S-expression parsed to its span in the original text.
func (p *Parser) SourceMap() *source.Map[SExp] { return p.srcmap }

// Parse reads the next S-expression from the stream, or returns (nil, nil)
// at end of input.
func (p *Parser) Parse() (SExp, *source.SyntaxError) {
	p.SkipWhiteSpace()

	start := p.index
	token := p.Next()

	var term SExp

	switch {
	case token == nil:
		return nil, nil
	case len(token) == 1 && token[0] == ')':
		p.index--
		return nil, p.error("unexpected end-of-list")
	case len(token) == 1 && token[0] == '}':
		p.index--
		return nil, p.error("unexpected end-of-set")
	case len(token) == 1 && token[0] == '(':
		elements, err := p.parseSequence(')')
		if err != nil {
			return nil, err
		}

		term = &List{elements}
	case len(token) == 1 && token[0] == '{':
		elements, err := p.parseSequence('}')
		if err != nil {
			return nil, err
		}

		term = &Set{elements}
	default:
		term = &Symbol{string(token)}
	}

	p.srcmap.Put(term, source.NewSpan(start, p.index))

	return term, nil
}

func (p *Parser) parseSequence(terminator rune) ([]SExp, *source.SyntaxError) {
	var elements []SExp

	for c := p.Lookahead(0); c == nil || *c != terminator; c = p.Lookahead(0) {
		element, err := p.Parse()
		if err != nil {
			return nil, err
		} else if element == nil {
			p.index--
			return nil, p.error("unexpected end-of-file")
		}

		elements = append(elements, element)
		p.SkipWhiteSpace()
	}

	p.Next()

	return elements, nil
}

// Next extracts the next token from the stream, skipping leading whitespace
// and comments.
func (p *Parser) Next() []rune {
	p.SkipWhiteSpace()

	if p.index == len(p.text) {
		return nil
	}

	switch p.text[p.index] {
	case '(', ')', '{', '}':
		p.index++
		return p.text[p.index-1 : p.index]
	}

	return p.parseSymbol()
}

// SkipWhiteSpace advances past any whitespace and line comments (';' to
// end-of-line).
func (p *Parser) SkipWhiteSpace() {
	for p.index < len(p.text) && (unicode.IsSpace(p.text[p.index]) || p.text[p.index] == ';') {
		if p.text[p.index] == ';' {
			i := len(p.text)

			for j := p.index; j < i; j++ {
				if p.text[j] == '\n' {
					i = j + 1
					break
				}
			}

			p.index = i
		} else {
			p.index++
		}
	}
}

// Lookahead reports the next significant punctuation character, skipping
// whitespace, or nil if the next token is not punctuation.
func (p *Parser) Lookahead(i int) *rune {
	pos := i + p.index

	if len(p.text) > pos {
		r := p.text[pos]

		switch {
		case r == '(' || r == ')' || r == '{' || r == '}' || r == ';':
			return &r
		case unicode.IsSpace(r):
			return p.Lookahead(i + 1)
		}
	}

	return nil
}

func (p *Parser) parseSymbol() []rune {
	i := len(p.text)

	for j := p.index; j < i; j++ {
		c := p.text[j]
		if c == '(' || c == ')' || c == '{' || c == '}' || unicode.IsSpace(c) {
			i = j
			break
		}
	}

	token := p.text[p.index:i]
	p.index = i

	return token
}

// error constructs a syntax error at the current position in the stream.
func (p *Parser) error(msg string) *source.SyntaxError {
	return p.srcfile.SyntaxError(source.NewSpan(p.index, p.index+1), msg)
}
