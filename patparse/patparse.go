// Package patparse implements C10: a minimal surface-syntax parser for
// lexer specifications, built so the rest of the module can be exercised
// end to end without an external parser generator. spec.md treats the
// parser as wholly out of scope; this is a supplemental "rest of the
// system" piece.
//
// Grammar (informal):
//
//	program  := (macroDecl | ruleDecl)*
//	macroDecl:= "LET" ident "=" pattern
//	ruleDecl := "RULE" ident "=" "PARSE" clause ("|" clause)* ";"
//	clause   := pattern "{" action "}"
//
// Pattern syntax is blynn-nex/nex.go's own regex subset — concatenation,
// '|', '*', '+', '?', '(...)', character classes '[...]'/'[^...]', '.',
// backslash escapes including \uXXXX — plus '{name}' macro references and
// '$' for end-of-file, both additions this module needs that nex.go's
// regex-to-NFA parser had no use for. The character-level engine below
// (term/closure/cat/alt) is a direct structural port of nex.go's own
// pterm/pclosure/pcat/pre, rebuilt to produce lexspec.Pattern trees
// instead of NFA nodes.
package patparse

import (
	"strconv"

	"github.com/nexlex/lexgen/lexerr"
	"github.com/nexlex/lexgen/lexspec"
)

// Parse parses src into a Specification, per the grammar above. Errors
// are accumulated per top-level declaration; a malformed declaration is
// skipped (recovered to the start of the next line) so later declarations can
// still be parsed and diagnosed in the same pass.
func Parse(src []byte, source string) (*lexspec.Specification, lexerr.List) {
	p := &topParser{runes: []rune(string(src)), source: source, line: 1, col: 1}
	spec := &lexspec.Specification{Rules: lexspec.NewOrderedMap[string, *lexspec.RuleDef]()}
	var errs lexerr.List

	for {
		p.skipWS()
		if p.eof() {
			break
		}
		err := p.parseDecl(spec)
		if err != nil {
			errs = append(errs, err...)
			p.recover()
		}
	}

	if spec.StartRule == "" {
		for _, k := range spec.Rules.Keys() {
			spec.StartRule = k
			break
		}
	}

	return spec, errs
}

type topParser struct {
	runes      []rune
	pos        int
	line, col  int
	source     string
}

func (p *topParser) eof() bool { return p.pos >= len(p.runes) }

func (p *topParser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.runes[p.pos]
}

func (p *topParser) advance() rune {
	c := p.runes[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return c
}

func (p *topParser) posHere() lexerr.Pos {
	return lexerr.Pos{Source: p.source, Line: p.line, Col: p.col}
}

func (p *topParser) skipWS() {
	for !p.eof() {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.advance()
			continue
		}
		if c == '/' && p.pos+1 < len(p.runes) && p.runes[p.pos+1] == '/' {
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
			continue
		}
		break
	}
}

// readWord consumes a maximal run of non-whitespace runes.
func (p *topParser) readWord() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		p.advance()
	}
	return string(p.runes[start:p.pos])
}

// recover skips to the start of the next line, for error recovery between
// top-level declarations.
func (p *topParser) recover() {
	for !p.eof() && p.peek() != '\n' {
		p.advance()
	}
	if !p.eof() {
		p.advance()
	}
}

func syntaxErr(pos lexerr.Pos, format string, args ...any) lexerr.List {
	return lexerr.List{lexerr.NewAt(lexerr.SyntaxError, pos, format, args...)}
}

func (p *topParser) parseDecl(spec *lexspec.Specification) lexerr.List {
	pos := p.posHere()
	kw := p.readWord()
	switch kw {
	case "LET":
		return p.parseMacroDecl(spec, pos)
	case "RULE":
		return p.parseRuleDecl(spec, pos)
	default:
		return syntaxErr(pos, "expected LET or RULE, got %q", kw)
	}
}

func (p *topParser) parseMacroDecl(spec *lexspec.Specification, startPos lexerr.Pos) lexerr.List {
	p.skipWS()
	namePos := p.posHere()
	name := p.readWord()
	if name == "" {
		return syntaxErr(namePos, "expected macro name after LET")
	}
	p.skipWS()
	if eq := p.readWord(); eq != "=" {
		return syntaxErr(p.posHere(), "expected '=' after LET %s, got %q", name, eq)
	}
	p.skipWS()
	patPos := p.posHere()
	patSrc := p.readWord()
	if patSrc == "" {
		return syntaxErr(patPos, "expected pattern after LET %s =", name)
	}
	pat, perrs := parsePattern(patSrc, p.source, patPos)
	if len(perrs) > 0 {
		return perrs
	}
	spec.Macros = append(spec.Macros, lexspec.MacroDecl{Name: name, Pattern: pat, Pos: startPos})
	return nil
}

func (p *topParser) parseRuleDecl(spec *lexspec.Specification, startPos lexerr.Pos) lexerr.List {
	p.skipWS()
	namePos := p.posHere()
	name := p.readWord()
	if name == "" {
		return syntaxErr(namePos, "expected rule name after RULE")
	}
	p.skipWS()
	if eq := p.readWord(); eq != "=" {
		return syntaxErr(p.posHere(), "expected '=' after RULE %s, got %q", name, eq)
	}
	p.skipWS()
	if kw := p.readWord(); kw != "PARSE" {
		return syntaxErr(p.posHere(), "expected PARSE after RULE %s =, got %q", name, kw)
	}

	def := &lexspec.RuleDef{}
	for {
		p.skipWS()
		patPos := p.posHere()
		patSrc := p.readWord()
		if patSrc == "" {
			return syntaxErr(patPos, "expected clause pattern in rule %s", name)
		}
		pat, perrs := parsePattern(patSrc, p.source, patPos)
		if len(perrs) > 0 {
			return perrs
		}

		p.skipWS()
		if p.peek() != '{' {
			return syntaxErr(p.posHere(), "expected '{' after clause pattern in rule %s", name)
		}
		action, aerrs := p.readAction()
		if len(aerrs) > 0 {
			return aerrs
		}
		// Clauses are prepended, not appended: spec.md §4.7 step 4 assumes
		// the parser hands the compiler clauses in reverse declaration
		// order, and the compiler reverses them back before vectorizing.
		def.Clauses = append([]lexspec.Clause{{Pattern: pat, Action: action}}, def.Clauses...)

		p.skipWS()
		switch p.peek() {
		case '|':
			p.advance()
			continue
		case ';':
			p.advance()
			spec.Rules.Set(name, def)
			return nil
		default:
			return syntaxErr(p.posHere(), "expected '|' or ';' after clause action in rule %s", name)
		}
	}
}

// readAction reads a brace-delimited, brace-balanced action fragment,
// with p.pos positioned at the opening '{'.
func (p *topParser) readAction() (lexspec.CodeFragment, lexerr.List) {
	start := p.posHere()
	p.advance() // consume '{'
	depth := 1
	textStart := p.pos
	for {
		if p.eof() {
			return lexspec.CodeFragment{}, lexerr.List{lexerr.NewAt(lexerr.UnmatchedBrace, start, "unterminated action block")}
		}
		c := p.advance()
		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				break
			}
		}
	}
	text := string(p.runes[textStart : p.pos-1])
	return lexspec.CodeFragment{Text: text, Pos: start}, nil
}

// parsePattern parses one whitespace-free pattern token into a
// lexspec.Pattern, using the character-level engine in pattern.go.
func parsePattern(src, source string, base lexerr.Pos) (*lexspec.Pattern, lexerr.List) {
	pp := &patternParser{runes: []rune(src), source: source, base: base}
	var result *lexspec.Pattern
	var errs lexerr.List
	func() {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(*lexerr.Error); ok {
					errs = lexerr.List{e}
					return
				}
				panic(r)
			}
		}()
		result, _ = pp.alt()
		if pp.pos != len(pp.runes) {
			errs = lexerr.List{lexerr.NewAt(lexerr.SyntaxError, pp.posAt(pp.pos), "unexpected %q in pattern", pp.runes[pp.pos])}
		}
	}()
	if len(errs) > 0 {
		return nil, errs
	}
	return result, nil
}

// strconvParseHex parses a 4-digit hex escape, used by \uXXXX.
func strconvParseHex(s string) (rune, bool) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
