package eval

import (
	"fmt"
	"io"

	"github.com/mango-os/mango/script/ast"
)

// ShellExec invokes the shell dispatcher with a command line, backing the
// `exec` built-in. The evaluator package never imports shell directly,
// keeping the dependency direction collaborator-style (accept an
// interface).
type ShellExec func(cmd string) error

// Interpreter holds the single global environment and the stdout/exec
// collaborators built-ins use.
type Interpreter struct {
	global *Environment
	out    io.Writer
	exec   ShellExec
}

// New constructs an Interpreter writing print/println output to out and
// dispatching `exec` calls through exec (nil is fine if the script never
// calls exec).
func New(out io.Writer, exec ShellExec) *Interpreter {
	return &Interpreter{global: NewEnvironment(nil), out: out, exec: exec}
}

// Run executes stmts as a top-level program. A RETURN reaching top level
// terminates the program (§4.9's "program-level return... terminates
// script execution").
func (it *Interpreter) Run(stmts []ast.Stmt) error {
	_, _, err := it.evalBlockStmts(stmts, it.global)
	return err
}

// evalBlockStmts is eval_block: it runs stmts in order within env, short-
// circuiting and propagating a RETURN.
func (it *Interpreter) evalBlockStmts(stmts []ast.Stmt, env *Environment) (*Value, bool, error) {
	for _, s := range stmts {
		v, returned, err := it.evalStmt(s, env)
		if err != nil {
			return nil, false, err
		}
		if returned {
			return v, true, nil
		}
	}
	return nil, false, nil
}

func (it *Interpreter) evalStmt(s ast.Stmt, env *Environment) (*Value, bool, error) {
	switch s := s.(type) {
	case *ast.LetStmt:
		val := Null()
		if s.Init != nil {
			v, err := it.evalExpr(s.Init, env)
			if err != nil {
				return nil, false, err
			}
			val = v
		}
		if err := env.Declare(s.Name, val); err != nil {
			return nil, false, lineErr(s.Pos(), err)
		}
		return nil, false, nil

	case *ast.AssignStmt:
		v, err := it.evalExpr(s.Value, env)
		if err != nil {
			return nil, false, err
		}
		if err := env.Assign(s.Name, v); err != nil {
			return nil, false, lineErr(s.Pos(), err)
		}
		return nil, false, nil

	case *ast.BlockStmt:
		child := NewEnvironment(env)
		return it.evalBlockStmts(s.Stmts, child)

	case *ast.FuncDecl:
		closure := &Closure{Decl: s, Env: env}
		if err := env.Declare(s.Name, Function(closure)); err != nil {
			return nil, false, lineErr(s.Pos(), err)
		}
		return nil, false, nil

	case *ast.IfStmt:
		cond, err := it.evalExpr(s.Cond, env)
		if err != nil {
			return nil, false, err
		}
		if cond.Truthy() {
			return it.evalStmt(s.Then, env)
		}
		if s.Else != nil {
			return it.evalStmt(s.Else, env)
		}
		return nil, false, nil

	case *ast.ReturnStmt:
		v, err := it.evalExpr(s.Value, env)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil

	case *ast.ExprStmt:
		_, err := it.evalExpr(s.X, env)
		return nil, false, err

	default:
		return nil, false, fmt.Errorf("line %d: unhandled statement type %T", s.Pos(), s)
	}
}

func (it *Interpreter) evalExpr(e ast.Expr, env *Environment) (*Value, error) {
	switch e := e.(type) {
	case *ast.NumberLit:
		return Int(e.Value), nil
	case *ast.FloatLit:
		return Float(e.Value), nil
	case *ast.StringLit:
		return Str(e.Value), nil
	case *ast.BoolLit:
		return Bool(e.Value), nil
	case *ast.NullLit:
		return Null(), nil
	case *ast.Ident:
		v, ok := env.Lookup(e.Name)
		if !ok {
			return nil, fmt.Errorf("line %d: undefined identifier %q", e.Pos(), e.Name)
		}
		return v, nil
	case *ast.BinaryExpr:
		l, err := it.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		r, err := it.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return evalBinary(e.Op, l, r, e.Pos())
	case *ast.CallExpr:
		return it.evalCall(e, env)
	default:
		return nil, fmt.Errorf("line %d: unhandled expression type %T", e.Pos(), e)
	}
}

func (it *Interpreter) evalCall(e *ast.CallExpr, env *Environment) (*Value, error) {
	ident, ok := e.Callee.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("line %d: call target must be a name", e.Pos())
	}
	args := make([]*Value, len(e.Args))
	for i, a := range e.Args {
		v, err := it.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if bi, ok := builtins[ident.Name]; ok {
		return bi(it, args, e.Pos())
	}
	fnVal, ok := env.Lookup(ident.Name)
	if !ok {
		return nil, fmt.Errorf("line %d: undefined function %q", e.Pos(), ident.Name)
	}
	if fnVal.Kind != KindFunction {
		return nil, fmt.Errorf("line %d: %q is not callable", e.Pos(), ident.Name)
	}
	return it.callClosure(fnVal.Closure, args, e.Pos())
}

// callClosure implements §4.9's function-call semantics. The new call
// frame's parent is the closure's defining environment (Closure.Env), not
// the caller's block — see DESIGN.md on open question 2.
func (it *Interpreter) callClosure(c *Closure, args []*Value, line int) (*Value, error) {
	if len(args) < len(c.Decl.Params) {
		return nil, fmt.Errorf("line %d: too few arguments to %s: want %d, got %d",
			line, c.Decl.Name, len(c.Decl.Params), len(args))
	}
	callEnv := NewEnvironment(c.Env)
	for i, p := range c.Decl.Params {
		// Declare cannot fail here: parameter names are unique within a
		// fresh environment by construction.
		callEnv.Declare(p, args[i])
	}
	result, returned, err := it.evalBlockStmts(c.Decl.Body.Stmts, callEnv)
	if err != nil {
		return nil, err
	}
	if returned {
		return result, nil
	}
	return Null(), nil
}

func lineErr(line int, err error) error { return fmt.Errorf("line %d: %w", line, err) }
