// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strconv"
	"strings"

	"github.com/gogpu/essl/ir"
)

// splitDirective splits "name rest" of a directive line.
func splitDirective(text string) (name, rest string) {
	text = strings.TrimSpace(text)
	end := 0
	for end < len(text) && isAlphaNumeric(text[end]) {
		end++
	}
	return text[:end], strings.TrimSpace(text[end:])
}

// directiveWords splits a directive body into words, treating ':' '(' and
// ')' as words of their own.
func directiveWords(rest string) []string {
	var words []string
	start := -1
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch {
		case c == ':' || c == '(' || c == ')':
			if start >= 0 {
				words = append(words, rest[start:i])
				start = -1
			}
			words = append(words, string(c))
		case c == ' ' || c == '\t':
			if start >= 0 {
				words = append(words, rest[start:i])
				start = -1
			}
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		words = append(words, rest[start:])
	}
	return words
}

// directive applies a directive token to the context.
func (p *Parser) directive(tok Token) {
	name, rest := splitDirective(tok.Text)
	words := directiveWords(rest)

	switch name {
	case "":
		// The null directive.
	case "version":
		p.versionDirective(tok.Loc, words)
	case "extension":
		if len(words) != 3 || words[1] != ":" {
			p.ctx.Error(tok.Loc, "invalid extension directive", "extension")
			return
		}
		p.ctx.HandleExtensionDirective(tok.Loc, words[0], words[2])
	case "pragma":
		p.pragmaDirective(tok.Loc, words)
	case "line":
		// Line remapping is not applied; locations always refer to the
		// source strings as given.
	case "define", "undef", "if", "ifdef", "ifndef", "else", "elif", "endif", "error":
		p.ctx.Warning(tok.Loc, "preprocessor directive is not supported and was ignored", name)
	default:
		p.ctx.Error(tok.Loc, "invalid directive name", name)
	}
}

func (p *Parser) versionDirective(loc ir.Loc, words []string) {
	if len(words) == 0 {
		p.ctx.Error(loc, "invalid version directive", "version")
		return
	}
	v, err := strconv.Atoi(words[0])
	if err != nil {
		p.ctx.Error(loc, "invalid version number", words[0])
		return
	}
	switch {
	case v >= 300 && (len(words) < 2 || words[1] != "es"):
		p.ctx.Error(loc, "invalid version profile", words[0], "'es' expected")
	case v == 100 && len(words) > 1:
		p.ctx.Error(loc, "unexpected profile", words[1])
	}
	p.ctx.HandleVersion(loc, v)
}

// pragmaDirective handles "#pragma name(value)" and
// "#pragma STDGL name(value)".
func (p *Parser) pragmaDirective(loc ir.Loc, words []string) {
	stdgl := len(words) > 0 && words[0] == "STDGL"
	if stdgl {
		words = words[1:]
	}
	if len(words) == 0 {
		return
	}

	name, value := words[0], ""
	if len(words) > 1 {
		if len(words) != 4 || words[1] != "(" || words[3] != ")" {
			if !stdgl {
				p.ctx.Warning(loc, "invalid pragma", name)
			}
			return
		}
		value = words[2]
	}
	p.ctx.HandlePragmaDirective(loc, name, value, stdgl)
}
