package eval

import (
	"fmt"
	"strings"
)

// evalBinary implements §4.9's operator matrix exactly: both operands are
// already-evaluated literal values by the time this is called.
func evalBinary(op string, l, r *Value, line int) (*Value, error) {
	switch op {
	case "+":
		return evalAdd(l, r, line)
	case "-":
		return evalArith(l, r, line, "-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case "*":
		return evalMul(l, r, line)
	case "/":
		return evalDiv(l, r, line)
	case "%":
		return evalMod(l, r, line)
	case "==":
		return Bool(valuesEqual(l, r)), nil
	case "!=":
		return Bool(!valuesEqual(l, r)), nil
	case "<", ">", "<=", ">=":
		return evalCompare(op, l, r, line)
	default:
		return nil, fmt.Errorf("line %d: unknown operator %q", line, op)
	}
}

func evalAdd(l, r *Value, line int) (*Value, error) {
	if l.Kind == KindStr && r.Kind == KindStr {
		return Str(l.Str + r.Str), nil
	}
	if l.Kind == KindInt && r.Kind == KindInt {
		return Int(l.Int + r.Int), nil
	}
	if l.isNumeric() && r.isNumeric() {
		return Float(l.AsFloat() + r.AsFloat()), nil
	}
	return nil, typeError(line, "+", l, r)
}

func evalArith(l, r *Value, line int, name string, intOp func(int64, int64) int64, floatOp func(float64, float64) float64) (*Value, error) {
	if l.Kind == KindInt && r.Kind == KindInt {
		return Int(intOp(l.Int, r.Int)), nil
	}
	if l.isNumeric() && r.isNumeric() {
		return Float(floatOp(l.AsFloat(), r.AsFloat())), nil
	}
	return nil, typeError(line, name, l, r)
}

func evalMul(l, r *Value, line int) (*Value, error) {
	if l.Kind == KindInt && r.Kind == KindStr {
		return Str(repeatString(r.Str, l.Int)), nil
	}
	if l.Kind == KindStr && r.Kind == KindInt {
		return Str(repeatString(l.Str, r.Int)), nil
	}
	if l.Kind == KindInt && r.Kind == KindInt {
		return Int(l.Int * r.Int), nil
	}
	if l.isNumeric() && r.isNumeric() {
		return Float(l.AsFloat() * r.AsFloat()), nil
	}
	return nil, typeError(line, "*", l, r)
}

func repeatString(s string, n int64) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, int(n))
}

func evalDiv(l, r *Value, line int) (*Value, error) {
	if !l.isNumeric() || !r.isNumeric() {
		return nil, typeError(line, "/", l, r)
	}
	denom := r.AsFloat()
	if denom == 0 {
		return nil, fmt.Errorf("line %d: division by zero", line)
	}
	return Float(l.AsFloat() / denom), nil
}

func evalMod(l, r *Value, line int) (*Value, error) {
	if !l.isNumeric() || !r.isNumeric() {
		return nil, typeError(line, "%", l, r)
	}
	a, b := int64(l.AsFloat()), int64(r.AsFloat())
	if b == 0 {
		return nil, fmt.Errorf("line %d: modulo by zero", line)
	}
	return Int(a % b), nil
}

func evalCompare(op string, l, r *Value, line int) (*Value, error) {
	if !l.isNumeric() || !r.isNumeric() {
		return nil, typeError(line, op, l, r)
	}
	a, b := l.AsFloat(), r.AsFloat()
	var result bool
	switch op {
	case "<":
		result = a < b
	case ">":
		result = a > b
	case "<=":
		result = a <= b
	case ">=":
		result = a >= b
	}
	return Bool(result), nil
}

func valuesEqual(l, r *Value) bool {
	if l.Kind == KindNull && r.Kind == KindNull {
		return true
	}
	if l.Kind == KindStr && r.Kind == KindStr {
		return l.Str == r.Str
	}
	if l.isNumeric() && r.isNumeric() {
		return l.AsFloat() == r.AsFloat()
	}
	if l.Kind == KindBool && r.Kind == KindBool {
		return l.Bool == r.Bool
	}
	return false
}

func typeError(line int, op string, l, r *Value) error {
	return fmt.Errorf("line %d: operator %q not defined for %s and %s", line, op, l.Kind, r.Kind)
}
