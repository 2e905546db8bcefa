package update

import (
	"fmt"
	"math"

	"github.com/roach88/constable/internal/cval"
)

// methodFunc is a pure derived operation on a composite. Each one validates
// the receiver kind and its arguments; value-type closure of the result is
// re-checked by the engine after dispatch.
type methodFunc func(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error)

// methods is the fixed, closed dispatch table for call parts. There is no
// prototype chain: method names resolve statically against this map, object
// and array operations alike.
var methods = map[string]methodFunc{
	// object operations
	"set":     methodSet,
	"without": methodWithout,
	"get":     methodGet,
	"has":     methodHas,
	"keys":    nullary(cval.KindObject, "keys", func(c *cval.Composite) cval.Value { return c.Keys() }),
	"values":  nullary(cval.KindObject, "values", func(c *cval.Composite) cval.Value { return c.Values() }),
	"entries": nullary(cval.KindObject, "entries", func(c *cval.Composite) cval.Value { return c.Entries() }),

	// array operations
	"push":    methodPush,
	"pop":     nullary(cval.KindArray, "pop", func(c *cval.Composite) cval.Value { return c.Pop() }),
	"shift":   nullary(cval.KindArray, "shift", func(c *cval.Composite) cval.Value { return c.Shift() }),
	"unshift": methodUnshift,
	"splice":  methodSplice,
	"slice":   methodSlice,
	"concat":  methodConcat,
	"join":    methodJoin,
	"reverse": nullary(cval.KindArray, "reverse", func(c *cval.Composite) cval.Value { return c.Reverse() }),
	"with":    methodWith,
	"at":      methodAt,
	"first":   nullary(cval.KindArray, "first", func(c *cval.Composite) cval.Value { v, _ := c.First(); return v }),
	"last":    nullary(cval.KindArray, "last", func(c *cval.Composite) cval.Value { v, _ := c.Last(); return v }),
	"indexOf": methodIndexOf,
	"includes": func(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
		if err := checkMethod(recv, cval.KindArray, "includes", args, 1, path); err != nil {
			return nil, err
		}
		return cval.Bool(recv.Includes(args[0])), nil
	},
}

// nullary adapts an argument-less derived operation.
func nullary(kind cval.Kind, name string, fn func(*cval.Composite) cval.Value) methodFunc {
	return func(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
		if err := checkMethod(recv, kind, name, args, 0, path); err != nil {
			return nil, err
		}
		return fn(recv), nil
	}
}

func methodSet(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkMethod(recv, cval.KindObject, "set", args, 2, path); err != nil {
		return nil, err
	}
	k, err := argKey(args[0], "set", path)
	if err != nil {
		return nil, err
	}
	return recv.Set(k, args[1])
}

func methodWithout(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkMethod(recv, cval.KindObject, "without", args, 1, path); err != nil {
		return nil, err
	}
	k, err := argKey(args[0], "without", path)
	if err != nil {
		return nil, err
	}
	return recv.Without(k), nil
}

func methodGet(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkMethod(recv, cval.KindObject, "get", args, 1, path); err != nil {
		return nil, err
	}
	k, err := argKey(args[0], "get", path)
	if err != nil {
		return nil, err
	}
	v, _ := recv.Get(k)
	return v, nil
}

func methodHas(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkMethod(recv, cval.KindObject, "has", args, 1, path); err != nil {
		return nil, err
	}
	k, err := argKey(args[0], "has", path)
	if err != nil {
		return nil, err
	}
	return cval.Bool(recv.Has(k)), nil
}

func methodPush(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkKind(recv, cval.KindArray, "push", path); err != nil {
		return nil, err
	}
	return recv.Push(args...)
}

func methodUnshift(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkKind(recv, cval.KindArray, "unshift", path); err != nil {
		return nil, err
	}
	return recv.Unshift(args...)
}

func methodSplice(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkKind(recv, cval.KindArray, "splice", path); err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, pathErr(path, FieldStep("splice"), "splice requires start and deleteCount")
	}
	start, err := argIndex(args[0], "splice", path)
	if err != nil {
		return nil, err
	}
	del, err := argIndex(args[1], "splice", path)
	if err != nil {
		return nil, err
	}
	return recv.Splice(start, del, args[2:]...)
}

func methodSlice(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkMethod(recv, cval.KindArray, "slice", args, 2, path); err != nil {
		return nil, err
	}
	start, err := argIndex(args[0], "slice", path)
	if err != nil {
		return nil, err
	}
	end, err := argIndex(args[1], "slice", path)
	if err != nil {
		return nil, err
	}
	return recv.Slice(start, end), nil
}

func methodConcat(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkMethod(recv, cval.KindArray, "concat", args, 1, path); err != nil {
		return nil, err
	}
	other, ok := args[0].(*cval.Composite)
	if !ok || other.Kind() != cval.KindArray {
		return nil, pathErr(path, FieldStep("concat"),
			fmt.Sprintf("concat requires a const array, got %s", cval.DescribeValue(args[0])))
	}
	return recv.Concat(other), nil
}

func methodJoin(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkMethod(recv, cval.KindArray, "join", args, 1, path); err != nil {
		return nil, err
	}
	sep, ok := args[0].(cval.String)
	if !ok {
		return nil, pathErr(path, FieldStep("join"),
			fmt.Sprintf("join requires a string separator, got %s", cval.DescribeValue(args[0])))
	}
	s, err := recv.Join(string(sep))
	if err != nil {
		return nil, err
	}
	return s, nil
}

func methodWith(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkMethod(recv, cval.KindArray, "with", args, 2, path); err != nil {
		return nil, err
	}
	i, err := argIndex(args[0], "with", path)
	if err != nil {
		return nil, err
	}
	return recv.With(i, args[1])
}

func methodAt(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkMethod(recv, cval.KindArray, "at", args, 1, path); err != nil {
		return nil, err
	}
	i, err := argIndex(args[0], "at", path)
	if err != nil {
		return nil, err
	}
	v, _ := recv.At(i)
	return v, nil
}

func methodIndexOf(recv *cval.Composite, args []cval.Value, path Path) (cval.Value, error) {
	if err := checkMethod(recv, cval.KindArray, "indexOf", args, 1, path); err != nil {
		return nil, err
	}
	return cval.Number(recv.IndexOf(args[0])), nil
}

func checkMethod(recv *cval.Composite, kind cval.Kind, name string, args []cval.Value, arity int, path Path) error {
	if err := checkKind(recv, kind, name, path); err != nil {
		return err
	}
	if len(args) != arity {
		return pathErr(path, FieldStep(name),
			fmt.Sprintf("%s takes %d argument(s), got %d", name, arity, len(args)))
	}
	return nil
}

func checkKind(recv *cval.Composite, kind cval.Kind, name string, path Path) error {
	if recv.Kind() != kind {
		return pathErr(path, FieldStep(name),
			fmt.Sprintf("method %s requires a const %s, got const %s", name, kind, recv.Kind()))
	}
	return nil
}

// argKey coerces a method argument into a property key (string or symbol).
func argKey(v cval.Value, method string, path Path) (cval.Key, error) {
	switch v := v.(type) {
	case cval.String:
		return cval.StringKey(string(v)), nil
	case *cval.Symbol:
		return cval.SymbolKey(v), nil
	default:
		return cval.Key{}, pathErr(path, FieldStep(method),
			fmt.Sprintf("%s requires a string or symbol key, got %s", method, cval.DescribeValue(v)))
	}
}

// argIndex coerces a method argument into an integer index.
func argIndex(v cval.Value, method string, path Path) (int, error) {
	n, ok := v.(cval.Number)
	if !ok || math.Trunc(float64(n)) != float64(n) || math.IsInf(float64(n), 0) || math.IsNaN(float64(n)) {
		return 0, pathErr(path, FieldStep(method),
			fmt.Sprintf("%s requires an integer index, got %s", method, cval.DescribeValue(v)))
	}
	return int(n), nil
}
