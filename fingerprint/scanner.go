//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package fingerprint

// A minimal SQL lexer. It does not classify tokens beyond their extent:
// its only job is to find where the token at a recorded literal offset
// ends, so the normalizer can splice a placeholder over exactly that span.

type token struct {
	start int
	end   int
}

type scanner struct {
	text string
	pos  int
}

func newScanner(text string) *scanner {
	return &scanner{text: text}
}

func (this *scanner) next() (token, bool) {
	this.skipIgnored()
	if this.pos >= len(this.text) {
		return token{}, false
	}
	start := this.pos
	c := this.text[this.pos]
	switch {
	case c == '\'':
		this.scanString()
	case c == '"':
		this.scanQuoted('"')
	case (c == 'E' || c == 'e' || c == 'B' || c == 'b' || c == 'X' || c == 'x') &&
		this.pos+1 < len(this.text) && this.text[this.pos+1] == '\'':
		// prefixed string: the prefix letter is part of the token
		this.pos++
		this.scanString()
	case c == '$':
		this.scanDollar()
	case isDigit(c) || (c == '.' && this.pos+1 < len(this.text) && isDigit(this.text[this.pos+1])):
		this.scanNumber()
	case isIdentStart(c):
		this.pos++
		for this.pos < len(this.text) && isIdentCont(this.text[this.pos]) {
			this.pos++
		}
	default:
		this.pos++
	}
	return token{start: start, end: this.pos}, true
}

func (this *scanner) skipIgnored() {
	for this.pos < len(this.text) {
		c := this.text[this.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			this.pos++
		case c == '-' && this.pos+1 < len(this.text) && this.text[this.pos+1] == '-':
			for this.pos < len(this.text) && this.text[this.pos] != '\n' {
				this.pos++
			}
		case c == '/' && this.pos+1 < len(this.text) && this.text[this.pos+1] == '*':
			// block comments nest
			depth := 1
			this.pos += 2
			for this.pos < len(this.text) && depth > 0 {
				if this.pos+1 < len(this.text) && this.text[this.pos] == '/' && this.text[this.pos+1] == '*' {
					depth++
					this.pos += 2
				} else if this.pos+1 < len(this.text) && this.text[this.pos] == '*' && this.text[this.pos+1] == '/' {
					depth--
					this.pos += 2
				} else {
					this.pos++
				}
			}
		default:
			return
		}
	}
}

// scanString consumes a single quoted string starting at the current
// position, honoring '' doubling and backslash escapes.
func (this *scanner) scanString() {
	this.pos++ // opening quote
	for this.pos < len(this.text) {
		c := this.text[this.pos]
		if c == '\\' && this.pos+1 < len(this.text) {
			this.pos += 2
			continue
		}
		if c == '\'' {
			if this.pos+1 < len(this.text) && this.text[this.pos+1] == '\'' {
				this.pos += 2
				continue
			}
			this.pos++
			return
		}
		this.pos++
	}
}

func (this *scanner) scanQuoted(quote byte) {
	this.pos++
	for this.pos < len(this.text) {
		if this.text[this.pos] == quote {
			if this.pos+1 < len(this.text) && this.text[this.pos+1] == quote {
				this.pos += 2
				continue
			}
			this.pos++
			return
		}
		this.pos++
	}
}

// scanDollar consumes either a $n parameter reference or a $tag$...$tag$
// quoted string.
func (this *scanner) scanDollar() {
	start := this.pos
	this.pos++
	if this.pos < len(this.text) && isDigit(this.text[this.pos]) {
		for this.pos < len(this.text) && isDigit(this.text[this.pos]) {
			this.pos++
		}
		return
	}
	for this.pos < len(this.text) && isIdentCont(this.text[this.pos]) {
		this.pos++
	}
	if this.pos >= len(this.text) || this.text[this.pos] != '$' {
		// bare dollar, not a quoting tag
		this.pos = start + 1
		return
	}
	this.pos++
	tag := this.text[start:this.pos]
	for this.pos < len(this.text) {
		if this.text[this.pos] == '$' && this.pos+len(tag) <= len(this.text) &&
			this.text[this.pos:this.pos+len(tag)] == tag {
			this.pos += len(tag)
			return
		}
		this.pos++
	}
}

func (this *scanner) scanNumber() {
	if this.text[this.pos] == '0' && this.pos+1 < len(this.text) &&
		(this.text[this.pos+1] == 'x' || this.text[this.pos+1] == 'X') {
		this.pos += 2
		for this.pos < len(this.text) && isHexDigit(this.text[this.pos]) {
			this.pos++
		}
		return
	}
	for this.pos < len(this.text) && isDigit(this.text[this.pos]) {
		this.pos++
	}
	if this.pos < len(this.text) && this.text[this.pos] == '.' {
		this.pos++
		for this.pos < len(this.text) && isDigit(this.text[this.pos]) {
			this.pos++
		}
	}
	if this.pos < len(this.text) && (this.text[this.pos] == 'e' || this.text[this.pos] == 'E') {
		mark := this.pos
		this.pos++
		if this.pos < len(this.text) && (this.text[this.pos] == '+' || this.text[this.pos] == '-') {
			this.pos++
		}
		if this.pos < len(this.text) && isDigit(this.text[this.pos]) {
			for this.pos < len(this.text) && isDigit(this.text[this.pos]) {
				this.pos++
			}
		} else {
			// not an exponent after all
			this.pos = mark
		}
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
