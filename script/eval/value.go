// Package eval is the tree-walking evaluator for Mango scripts: expression
// evaluation, the operator matrix, environments, function calls with return
// propagation, and the built-in function table.
package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mango-os/mango/script/ast"
)

// Kind is Value's discriminant — the reference's seven-variant tagged sum
// (null, bool, int, float, str, function, file), kept here as a
// discriminated union with exhaustive switches at each operator site rather
// than an interface{} with type assertions scattered around.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindFunction
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindFunction:
		return "function"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Closure is a function value: its declaration plus the environment it was
// declared in. Open question 2 resolved: calls use Env (the function's
// *defining* environment) as the new call frame's parent, giving true
// lexical scope — matching §8's "Lexical (expected)" law rather than the
// reference's dynamic-scope behavior. See DESIGN.md.
type Closure struct {
	Decl *ast.FuncDecl
	Env  *Environment
}

// Value is a Mango script runtime value.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Float   float64
	Str     string
	Closure *Closure
	File    any // reserved for future file-handle scripting; no built-in constructs one yet.
}

func Null() *Value                 { return &Value{Kind: KindNull} }
func Bool(b bool) *Value           { return &Value{Kind: KindBool, Bool: b} }
func Int(n int64) *Value           { return &Value{Kind: KindInt, Int: n} }
func Float(f float64) *Value       { return &Value{Kind: KindFloat, Float: f} }
func Str(s string) *Value          { return &Value{Kind: KindStr, Str: s} }
func Function(c *Closure) *Value   { return &Value{Kind: KindFunction, Closure: c} }

// Truthy implements the reference's truthiness rules for `if`.
func (v *Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int > 0
	case KindFloat:
		return v.Float > 0
	case KindStr:
		return v.Str != ""
	case KindFunction, KindFile:
		return true
	default:
		return false
	}
}

// AsFloat returns v's numeric value widened to float64; only valid for
// KindInt/KindFloat.
func (v *Value) AsFloat() float64 {
	if v.Kind == KindInt {
		return float64(v.Int)
	}
	return v.Float
}

func (v *Value) isNumeric() bool { return v.Kind == KindInt || v.Kind == KindFloat }

// Display renders v the way print/println do: null -> "null", bool ->
// "true"/"false", everything else via its natural string form.
func (v *Value) Display() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindStr:
		return v.Str
	case KindFunction:
		return fmt.Sprintf("<function %s>", v.Closure.Decl.Name)
	case KindFile:
		return "<file>"
	default:
		return "<?>"
	}
}

// AsStr coerces v to a string (the `as_str` built-in).
func (v *Value) AsStr() *Value { return Str(v.Display()) }

// AsInt coerces v to an int (the `as_int` built-in): strings are parsed as
// a float then truncated, per §6.3.
func (v *Value) AsInt() (*Value, error) {
	switch v.Kind {
	case KindInt:
		return v, nil
	case KindFloat:
		return Int(int64(v.Float)), nil
	case KindBool:
		if v.Bool {
			return Int(1), nil
		}
		return Int(0), nil
	case KindStr:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil, fmt.Errorf("as_int: cannot parse %q as a number", v.Str)
		}
		return Int(int64(f)), nil
	default:
		return nil, fmt.Errorf("as_int: cannot coerce a %s", v.Kind)
	}
}

// AsFloatValue coerces v to a float (the `as_float` built-in).
func (v *Value) AsFloatValue() (*Value, error) {
	switch v.Kind {
	case KindInt:
		return Float(float64(v.Int)), nil
	case KindFloat:
		return v, nil
	case KindStr:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil, fmt.Errorf("as_float: cannot parse %q as a number", v.Str)
		}
		return Float(f), nil
	default:
		return nil, fmt.Errorf("as_float: cannot coerce a %s", v.Kind)
	}
}
