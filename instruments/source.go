package instruments

import (
	"bytes"
	"sort"
	"unicode/utf8"

	"go.starlark.net/syntax"
)

// source resolves syntax positions (1-based line, 1-based rune column) to byte
// offsets of the normalized text.
type source struct {
	text       []byte
	lineStarts []int
}

func newSource(text []byte) *source {
	s := &source{
		text:       text,
		lineStarts: []int{0},
	}
	for i, b := range text {
		if b == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// normalize converts CRLF and CR line endings to LF, the scanner treats them all
// as one newline.
func normalize(src []byte) []byte {
	if !bytes.ContainsRune(src, '\r') {
		return src
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(src, []byte("\r"), []byte("\n"))
}

func (s *source) offset(pos syntax.Position) int {
	line := int(pos.Line)
	if line < 1 {
		return 0
	}
	if line > len(s.lineStarts) {
		return len(s.text)
	}
	off := s.lineStarts[line-1]
	for col := int32(1); col < pos.Col && off < len(s.text); col++ {
		if s.text[off] == '\n' {
			break
		}
		_, size := utf8.DecodeRune(s.text[off:])
		off += size
	}
	return off
}

func (s *source) lineOf(offset int) int {
	return sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	})
}

func (s *source) lineStart(offset int) int {
	return s.lineStarts[s.lineOf(offset)-1]
}

// nextLine returns the offset just past the newline ending the line of offset, or
// len(text) if the line is the last one.
func (s *source) nextLine(offset int) int {
	if i := bytes.IndexByte(s.text[offset:], '\n'); i >= 0 {
		return offset + i + 1
	}
	return len(s.text)
}

// indentOf reports the leading whitespace before offset if offset is the first
// token of its line.
func (s *source) indentOf(offset int) (string, bool) {
	start := s.lineStart(offset)
	prefix := s.text[start:offset]
	for _, b := range prefix {
		if b != ' ' && b != '\t' {
			return "", false
		}
	}
	return string(prefix), true
}

func (s *source) slice(start, end int) string {
	return string(s.text[start:end])
}

func (s *source) start(n syntax.Node) int {
	return s.offset(syntax.Start(n))
}

// end returns the offset just past the last byte of an expression.
func (s *source) end(e syntax.Expr) int {
	switch e := e.(type) {
	case *syntax.Ident:
		return s.offset(e.NamePos) + len(e.Name)
	case *syntax.Literal:
		return s.offset(e.TokenPos) + len(e.Raw)
	case *syntax.ParenExpr:
		return s.offset(e.Rparen) + 1
	case *syntax.CallExpr:
		return s.offset(e.Rparen) + 1
	case *syntax.DotExpr:
		return s.end(e.Name)
	case *syntax.Comprehension:
		return s.offset(e.Rbrack) + 1
	case *syntax.DictExpr:
		return s.offset(e.Rbrace) + 1
	case *syntax.DictEntry:
		return s.end(e.Value)
	case *syntax.ListExpr:
		return s.offset(e.Rbrack) + 1
	case *syntax.TupleExpr:
		if e.Lparen.IsValid() {
			return s.offset(e.Rparen) + 1
		}
		return s.end(e.List[len(e.List)-1])
	case *syntax.UnaryExpr:
		if e.X != nil {
			return s.end(e.X)
		}
		return s.offset(e.OpPos) + 1
	case *syntax.BinaryExpr:
		return s.end(e.Y)
	case *syntax.CondExpr:
		return s.end(e.False)
	case *syntax.LambdaExpr:
		return s.end(e.Body)
	case *syntax.IndexExpr:
		return s.offset(e.Rbrack) + 1
	case *syntax.SliceExpr:
		return s.offset(e.Rbrack) + 1
	}
	return s.offset(syntax.End(e))
}

// tailEnd is end, extended over the trailing comma of a bare tuple.
func (s *source) tailEnd(e syntax.Expr) int {
	end := s.end(e)
	if tuple, ok := e.(*syntax.TupleExpr); !ok || tuple.Lparen.IsValid() {
		return end
	}
	i := end
	for i < len(s.text) && (s.text[i] == ' ' || s.text[i] == '\t') {
		i++
	}
	if i < len(s.text) && s.text[i] == ',' {
		return i + 1
	}
	return end
}

// stmtEnd returns the offset just past the last token of a statement.
func (s *source) stmtEnd(stmt syntax.Stmt) int {
	switch stmt := stmt.(type) {
	case *syntax.AssignStmt:
		return s.tailEnd(stmt.RHS)
	case *syntax.ExprStmt:
		return s.tailEnd(stmt.X)
	case *syntax.ReturnStmt:
		if stmt.Result == nil {
			return s.offset(stmt.Return) + len("return")
		}
		return s.tailEnd(stmt.Result)
	case *syntax.BranchStmt:
		return s.offset(stmt.TokenPos) + len(stmt.Token.String())
	case *syntax.LoadStmt:
		return s.offset(stmt.Rparen) + 1
	case *syntax.DefStmt:
		return s.stmtEnd(stmt.Body[len(stmt.Body)-1])
	case *syntax.ForStmt:
		return s.stmtEnd(stmt.Body[len(stmt.Body)-1])
	case *syntax.WhileStmt:
		return s.stmtEnd(stmt.Body[len(stmt.Body)-1])
	case *syntax.IfStmt:
		body := stmt.False
		if len(body) == 0 {
			body = stmt.True
		}
		return s.stmtEnd(body[len(body)-1])
	}
	return s.offset(syntax.End(stmt))
}
