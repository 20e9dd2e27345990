package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/keurnel/x64asm/internal/ir"
)

// ParseError is one recoverable parse failure: the 1-based source line and
// a message. Parse collects these and keeps going, the same "skip and
// continue" policy the encoder uses for per-instruction errors.
type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

type parserState struct {
	toks []token
	pos  int
	line int
	errs []ParseError
}

func (p *parserState) peek() token {
	return p.toks[p.pos]
}

func (p *parserState) next() token {
	t := p.toks[p.pos]
	p.pos++
	if t.kind == tokNewline {
		p.line++
	}
	return t
}

func (p *parserState) accept(k tokenKind) bool {
	if p.peek().kind == k {
		p.next()
		return true
	}
	return false
}

func (p *parserState) errorf(format string, args ...any) {
	p.errs = append(p.errs, ParseError{Line: p.line + 1, Message: fmt.Sprintf(format, args...)})
}

// Parse tokenizes and parses source into an ir.Program in one pass. Lines
// that fail to parse are skipped; their failures are returned alongside
// whatever nodes did parse, so callers can report diagnostics without
// aborting the whole file.
func Parse(source string) (ir.Program, []ParseError) {
	p := &parserState{toks: lex(source)}
	var prog ir.Program

	for p.peek().kind != tokEOF {
		t := p.peek()
		switch t.kind {
		case tokNewline:
			p.next()
			continue
		case tokIdent:
			if p.toks[p.pos+1].kind == tokColon {
				p.next() // ident
				p.next() // colon
				prog.Nodes = append(prog.Nodes, &ir.Label{Name: t.text})
				continue
			}
			p.next()
			before := len(p.errs)
			instr := p.parseInstruction(t.text)
			if len(p.errs) == before {
				prog.Nodes = append(prog.Nodes, instr)
			}
		case tokDirective:
			p.next()
			prog.Nodes = append(prog.Nodes, p.parseDirective(t.text))
		default:
			p.errorf("unexpected token, skipping to end of line")
			p.skipLine()
		}
	}
	return prog, p.errs
}

func (p *parserState) skipLine() {
	for p.peek().kind != tokNewline && p.peek().kind != tokEOF {
		p.next()
	}
}

func (p *parserState) parseInstruction(mnemonic string) *ir.Instruction {
	instr := &ir.Instruction{Mnemonic: mnemonic}
	for p.peek().kind != tokNewline && p.peek().kind != tokEOF {
		op, ok := p.parseOperand()
		if ok {
			instr.Operands = append(instr.Operands, op)
		}
		p.accept(tokComma)
	}
	return instr
}

func (p *parserState) parseDirective(name string) *ir.Directive {
	dir := &ir.Directive{Name: name}
	for p.peek().kind != tokNewline && p.peek().kind != tokEOF {
		switch t := p.peek(); t.kind {
		case tokString:
			dir.Args = append(dir.Args, t.text)
			p.next()
		case tokIdent, tokNumber:
			dir.Args = append(dir.Args, t.text)
			p.next()
		default:
			p.next()
		}
	}
	return dir
}

// parseOperand reads one instruction operand: an immediate ($N), a bare
// register (%reg), a memory reference (optionally preceded by a numeric
// displacement), or a label reference (a bare identifier, or $label).
func (p *parserState) parseOperand() (ir.Operand, bool) {
	t := p.peek()
	switch t.kind {
	case tokImmPrefix:
		p.next()
		if p.peek().kind == tokIdent {
			return ir.LabelRef{Name: p.next().text}, true
		}
		if p.peek().kind != tokNumber {
			p.errorf("expected a number or label after '$'")
			return nil, false
		}
		n := p.next()
		v, err := parseNumber(n.text)
		if err != nil {
			p.errorf("invalid immediate %q: %v", n.text, err)
			return nil, false
		}
		return ir.Immediate{Value: v}, true

	case tokRegister:
		p.next()
		return ir.Register{Name: t.text}, true

	case tokNumber:
		p.next()
		disp, err := parseNumber(t.text)
		if err != nil {
			p.errorf("invalid number %q: %v", t.text, err)
			return nil, false
		}
		if p.peek().kind == tokLParen {
			return p.parseMemory(disp, true), true
		}
		return ir.Immediate{Value: disp}, true

	case tokLParen:
		return p.parseMemory(0, false), true

	case tokIdent:
		p.next()
		return ir.LabelRef{Name: t.text}, true

	default:
		p.errorf("unexpected token in operand position")
		p.next()
		return nil, false
	}
}

func (p *parserState) parseMemory(disp int64, hasDisp bool) ir.Memory {
	mem := ir.Memory{Disp: disp, HasDisp: hasDisp, Scale: 1}
	if !p.accept(tokLParen) {
		return mem
	}
	if p.peek().kind == tokRegister {
		mem.Base = p.next().text
	}
	if p.accept(tokComma) {
		if p.peek().kind == tokRegister {
			mem.Index = p.next().text
		}
		if p.accept(tokComma) {
			if p.peek().kind == tokNumber {
				scale, err := strconv.Atoi(p.next().text)
				if err == nil {
					mem.Scale = scale
				}
			}
		}
	}
	p.accept(tokRParen)
	return mem
}

func parseNumber(s string) (int64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseInt(s[2:], 16, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}
