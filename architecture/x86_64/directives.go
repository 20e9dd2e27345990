package x86_64

import (
	"strconv"

	"github.com/keurnel/x64asm/internal/ir"
)

// knownDirectives is the recognized directive-name set; anything else is
// skipped with zero size per §4.5.
var knownDirectives = map[string]bool{
	"code": true, "data": true, "org": true, "string": true,
}

// execDirective applies dir's effect on ctx (section switch, cursor
// relocation, or section-cursor advance) and returns the literal bytes (if
// any) that belong in the current section buffer at this position. Unknown
// directives are no-ops. Behavior is identical across both passes — no
// label table dependency exists in this component.
func execDirective(ctx *assemblyContext, dir *ir.Directive) ([]byte, *EncodingError) {
	if !knownDirectives[dir.Name] {
		return nil, nil
	}

	switch dir.Name {
	case "code":
		ctx.section = SectionCode
		return nil, nil
	case "data":
		ctx.section = SectionData
		return nil, nil
	case "org":
		if len(dir.Args) != 1 {
			return nil, newErr(UnsupportedForm, ".org", "expected exactly one address argument")
		}
		addr, err := parseDirectiveNumber(dir.Args[0])
		if err != nil {
			return nil, newErr(UnsupportedForm, ".org", "invalid address %q", dir.Args[0])
		}
		ctx.cursor[ctx.section] = uint32(addr)
		return nil, nil
	case "string":
		if len(dir.Args) != 1 {
			return nil, newErr(UnsupportedForm, ".string", "expected exactly one string argument")
		}
		bytes := append([]byte(dir.Args[0]), 0)
		ctx.advance(len(bytes))
		return bytes, nil
	}
	return nil, nil
}

func parseDirectiveNumber(s string) (int64, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return strconv.ParseInt(s[2:], 16, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}
