package eval

import "fmt"

type builtinFunc func(it *Interpreter, args []*Value, line int) (*Value, error)

var builtins = map[string]builtinFunc{
	"print":     biPrint,
	"println":   biPrintln,
	"exec":      biExec,
	"as_str":    biAsStr,
	"as_int":    biAsInt,
	"as_float":  biAsFloat,
	"type_name": biTypeName,
}

func biPrint(it *Interpreter, args []*Value, line int) (*Value, error) {
	for _, a := range args {
		fmt.Fprint(it.out, a.Display())
	}
	return Null(), nil
}

func biPrintln(it *Interpreter, args []*Value, line int) (*Value, error) {
	for _, a := range args {
		fmt.Fprint(it.out, a.Display())
	}
	fmt.Fprintln(it.out)
	return Null(), nil
}

func biExec(it *Interpreter, args []*Value, line int) (*Value, error) {
	if len(args) != 1 || args[0].Kind != KindStr {
		return nil, fmt.Errorf("line %d: exec(cmd) wants one string argument", line)
	}
	if it.exec == nil {
		return nil, fmt.Errorf("line %d: exec is unavailable in this context", line)
	}
	if err := it.exec(args[0].Str); err != nil {
		return nil, err
	}
	return Null(), nil
}

func biAsStr(it *Interpreter, args []*Value, line int) (*Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("line %d: as_str(x) wants one argument", line)
	}
	return args[0].AsStr(), nil
}

func biAsInt(it *Interpreter, args []*Value, line int) (*Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("line %d: as_int(x) wants one argument", line)
	}
	v, err := args[0].AsInt()
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", line, err)
	}
	return v, nil
}

func biAsFloat(it *Interpreter, args []*Value, line int) (*Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("line %d: as_float(x) wants one argument", line)
	}
	v, err := args[0].AsFloatValue()
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", line, err)
	}
	return v, nil
}

func biTypeName(it *Interpreter, args []*Value, line int) (*Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("line %d: type_name(x) wants one argument", line)
	}
	return Str(args[0].Kind.String()), nil
}
