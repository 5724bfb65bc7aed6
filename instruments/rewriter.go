package instruments

import (
	"maps"
	"strconv"
	"strings"

	"github.com/reusee/tutor/events"
	"go.starlark.net/syntax"
)

type scope struct {
	function string
	declared map[string]bool
}

func (s *scope) branch() *scope {
	return &scope{
		function: s.function,
		declared: maps.Clone(s.declared),
	}
}

func newScope(function string) *scope {
	return &scope{
		function: function,
		declared: make(map[string]bool),
	}
}

type rewriter struct {
	src   *source
	edits []edit
	stats Stats
}

func (r *rewriter) insert(offset int, text string) {
	r.edits = append(r.edits, edit{
		offset: offset,
		end:    offset,
		text:   text,
	})
}

func (r *rewriter) replace(start, end int, text string) {
	r.edits = append(r.edits, edit{
		offset: start,
		end:    end,
		text:   text,
	})
}

func (r *rewriter) stmts(sc *scope, stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		r.stmt(sc, stmt)
	}
}

func (r *rewriter) stmt(sc *scope, stmt syntax.Stmt) {
	switch stmt := stmt.(type) {

	case *syntax.AssignStmt:
		names := boundNames(stmt.LHS)
		if len(names) == 0 {
			return
		}
		action := events.ActionAssign
		if stmt.Op == syntax.EQ {
			if isStore(stmt.LHS) {
				action = events.ActionMutate
			} else {
				for _, name := range names {
					if !sc.declared[name] {
						action = events.ActionDeclare
					}
				}
			}
		}
		for _, name := range names {
			sc.declared[name] = true
		}
		r.insert(
			r.src.stmtEnd(stmt),
			"; "+stepHook(line(stmt), action, names),
		)
		r.stats.Steps++

	case *syntax.ExprStmt:
		// xs.append(x) and friends mutate xs in place
		call, ok := stmt.X.(*syntax.CallExpr)
		if !ok {
			return
		}
		dot, ok := call.Fn.(*syntax.DotExpr)
		if !ok {
			return
		}
		root := rootIdent(dot.X)
		if root == nil {
			return
		}
		r.insert(
			r.src.stmtEnd(stmt),
			"; "+stepHook(line(stmt), events.ActionMutate, []string{root.Name}),
		)
		r.stats.Steps++

	case *syntax.ReturnStmt:
		r.stats.Returns++
		hook := ReturnHook + "(" + strconv.Itoa(line(stmt)) + ", " + syntax.Quote(sc.function, false) + ", "
		if stmt.Result == nil {
			r.insert(r.src.stmtEnd(stmt), " "+hook+"None)")
			return
		}
		r.insert(r.src.start(stmt.Result), hook+"(")
		r.insert(r.src.tailEnd(stmt.Result), "))")

	case *syntax.DefStmt:
		r.def(stmt)

	case *syntax.ForStmt:
		names := boundNames(stmt.Vars)
		for _, name := range names {
			sc.declared[name] = true
		}
		if len(names) > 0 {
			r.prologue(stmt.Body, stepHook(line(stmt), events.ActionLoop, names))
			r.stats.Loops++
		}
		r.stmts(sc, stmt.Body)

	case *syntax.WhileStmt:
		r.stmts(sc, stmt.Body)

	case *syntax.IfStmt:
		// only one branch runs, each declares on its own
		then, els := sc.branch(), sc.branch()
		r.stmts(then, stmt.True)
		r.stmts(els, stmt.False)
		maps.Copy(sc.declared, then.declared)
		maps.Copy(sc.declared, els.declared)

	}
}

func (r *rewriter) def(stmt *syntax.DefStmt) {
	r.stats.Functions++
	name := stmt.Name.Name
	sc := newScope(name)

	params := paramNames(stmt.Params)
	for _, param := range params {
		sc.declared[param] = true
	}
	var args strings.Builder
	args.WriteString(CallHook)
	args.WriteString("(")
	args.WriteString(strconv.Itoa(int(stmt.Def.Line)))
	args.WriteString(", ")
	args.WriteString(syntax.Quote(name, false))
	for _, param := range params {
		args.WriteString(", ")
		args.WriteString(param)
		args.WriteString("=")
		args.WriteString(param)
	}
	args.WriteString(")")
	r.prologue(stmt.Body, args.String())

	r.stmts(sc, stmt.Body)

	// falling off the end returns None
	last := stmt.Body[len(stmt.Body)-1]
	if _, ok := last.(*syntax.ReturnStmt); ok {
		return
	}
	r.stats.Returns++
	end := r.src.stmtEnd(last)
	hook := ReturnHook + "(" + strconv.Itoa(r.src.lineOf(end)) + ", " + syntax.Quote(name, false) + ", None)"
	first := r.src.start(stmt.Body[0])
	indent, block := r.src.indentOf(first)
	if !block {
		r.insert(end, "; "+hook)
		return
	}
	next := r.src.nextLine(end)
	text := indent + hook + "\n"
	if next == len(r.src.text) && (next == 0 || r.src.text[next-1] != '\n') {
		text = "\n" + text
	}
	r.insert(next, text)
}

// prologue places a hook statement in front of the first statement of a block.
func (r *rewriter) prologue(body []syntax.Stmt, hook string) {
	first := r.src.start(body[0])
	if indent, block := r.src.indentOf(first); block {
		r.insert(r.src.lineStart(first), indent+hook+"\n")
		return
	}
	// single line suite, only simple statements may follow the colon
	r.insert(first, hook+"; ")
}

// checks rewrites calls of the check builtin into test hook calls carrying the
// expression text. The file must be resolved.
func (r *rewriter) checks(file *syntax.File) {
	syntax.Walk(file, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok {
			return true
		}
		fn, ok := call.Fn.(*syntax.Ident)
		if !ok || fn.Name != CheckName || len(call.Args) != 1 || !isBuiltin(fn) {
			return true
		}
		arg := call.Args[0]
		switch arg := arg.(type) {
		case *syntax.BinaryExpr:
			if arg.Op == syntax.EQ {
				return true
			}
		case *syntax.UnaryExpr:
			if arg.Op == syntax.STAR || arg.Op == syntax.STARSTAR {
				return true
			}
		}
		expr := strings.TrimSpace(r.src.slice(r.src.start(arg), r.src.end(arg)))
		fnStart := r.src.start(fn)
		r.replace(fnStart, fnStart+len(fn.Name), TestHook)
		r.insert(
			r.src.offset(call.Lparen)+1,
			strconv.Itoa(int(call.Lparen.Line))+", "+syntax.Quote(expr, false)+", ",
		)
		r.stats.Checks++
		return true
	})
}

func stepHook(line int, action string, names []string) string {
	var b strings.Builder
	b.WriteString(StepHook)
	b.WriteString("(")
	b.WriteString(strconv.Itoa(line))
	b.WriteString(", ")
	b.WriteString(syntax.Quote(action, false))
	for _, name := range names {
		b.WriteString(", ")
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(name)
	}
	b.WriteString(")")
	return b.String()
}

func line(stmt syntax.Stmt) int {
	return int(syntax.Start(stmt).Line)
}

// boundNames lists the variables an assignment target binds or mutates, in order,
// without duplicates.
func boundNames(target syntax.Expr) (names []string) {
	seen := make(map[string]bool)
	add := func(id *syntax.Ident) {
		if id == nil || seen[id.Name] {
			return
		}
		seen[id.Name] = true
		names = append(names, id.Name)
	}
	var visit func(syntax.Expr)
	visit = func(e syntax.Expr) {
		switch e := e.(type) {
		case *syntax.Ident:
			add(e)
		case *syntax.ParenExpr:
			visit(e.X)
		case *syntax.TupleExpr:
			for _, elem := range e.List {
				visit(elem)
			}
		case *syntax.ListExpr:
			for _, elem := range e.List {
				visit(elem)
			}
		case *syntax.IndexExpr, *syntax.DotExpr, *syntax.SliceExpr:
			add(rootIdent(e))
		}
	}
	visit(target)
	return
}

// isStore reports whether an assignment target stores into an element or field
// rather than binding a name.
func isStore(target syntax.Expr) bool {
	switch target := target.(type) {
	case *syntax.IndexExpr, *syntax.DotExpr, *syntax.SliceExpr:
		return true
	case *syntax.ParenExpr:
		return isStore(target.X)
	}
	return false
}

func rootIdent(e syntax.Expr) *syntax.Ident {
	for {
		switch x := e.(type) {
		case *syntax.Ident:
			return x
		case *syntax.DotExpr:
			e = x.X
		case *syntax.IndexExpr:
			e = x.X
		case *syntax.SliceExpr:
			e = x.X
		case *syntax.ParenExpr:
			e = x.X
		default:
			return nil
		}
	}
}

// paramNames lists parameter names: ident, ident=default, *ident, **ident.
func paramNames(params []syntax.Expr) (names []string) {
	for _, param := range params {
		switch param := param.(type) {
		case *syntax.Ident:
			names = append(names, param.Name)
		case *syntax.BinaryExpr:
			if id, ok := param.X.(*syntax.Ident); ok {
				names = append(names, id.Name)
			}
		case *syntax.UnaryExpr:
			if id, ok := param.X.(*syntax.Ident); ok {
				names = append(names, id.Name)
			}
		}
	}
	return
}
