// Copyright Consensys Software Inc.
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
package termio

// FormattedText represents, as the name suggests, a chunk of formatted text.
type FormattedText struct {
	// Format to apply to this text (optional)
	format *AnsiEscape
	// Text represents the contents
	text []rune
}

// NewText constructs a new (unformatted) chunk of text.
func NewText(text string) FormattedText {
	return FormattedText{nil, []rune(text)}
}

// NewFormattedText constructs a new chunk of text with a given format.
func NewFormattedText(text string, format AnsiEscape) FormattedText {
	return FormattedText{&format, []rune(text)}
}

// NewColouredText constructs a new (coloured) chunk of text.
func NewColouredText(text string, colour uint) FormattedText {
	escape := NewAnsiEscape().FgColour(colour)
	return FormattedText{&escape, []rune(text)}
}

// Len returns the number of characters [runes] in this chunk of formatted text.
// Observe that this does not include characters arising from the formatting
// escapes.
func (p FormattedText) Len() uint {
	return uint(len(p.text))
}

// ClearFormat clears any formatting for this chunk of text.
func (p FormattedText) ClearFormat() FormattedText {
	p.format = nil
	return p
}

// Format sets the format for this chunk of text.
func (p FormattedText) Format(format AnsiEscape) FormattedText {
	p.format = &format
	return p
}

// Clip removes text from the start and end, returning the clipped chunk.
func (p FormattedText) Clip(start uint, end uint) FormattedText {
	length := p.Len()

	switch {
	case start >= length:
		p.text = []rune{}
	case end >= length:
		p.text = p.text[start:]
	default:
		p.text = p.text[start:end]
	}

	return p
}

// Pad right-pads this chunk of text with spaces up to the given width,
// leaving it unchanged if it is already at least that wide.
func (p FormattedText) Pad(width uint) FormattedText {
	for p.Len() < width {
		p.text = append(p.text, ' ')
	}

	return p
}

// Bytes returns an ANSI-formatted byte representing of this chunk.
func (p FormattedText) Bytes() []byte {
	// Append bytes
	if p.format != nil {
		// Apply formatting
		bytes := []byte(p.format.Build())
		// Add content
		bytes = append(bytes, []byte(string(p.text))...)
		// Reset formatting
		escape := ResetAnsiEscape().Build()
		//
		return append(bytes, []byte(escape)...)
	}
	// no formatting
	return []byte(string(p.text))
}
