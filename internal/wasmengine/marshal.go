package wasmengine

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/seho-dev/bud/internal/value"
)

// marshalArgs converts Value arguments into the raw uint64 lane
// representation wazero's Function.Call expects, rejecting (before any
// guest code runs) anything the numeric ABI boundary cannot carry:
// non-numeric Values and arity/type mismatches against the exported
// function's declared signature. This is Testable Property 7: a call is
// rejected before invocation, not mid-call.
func marshalArgs(def api.FunctionDefinition, args []value.Value) ([]uint64, error) {
	params := def.ParamTypes()
	if len(params) != len(args) {
		return nil, fmt.Errorf("function %q expects %d argument(s), got %d", def.Name(), len(params), len(args))
	}

	lanes := make([]uint64, len(args))
	for i, a := range args {
		if !a.IsNumeric() {
			return nil, fmt.Errorf("argument %d (%s) is not numeric: only I32/I64/F32/F64 values may cross the guest boundary", i, a.Kind())
		}

		lane, err := encodeLane(params[i], a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		lanes[i] = lane
	}
	return lanes, nil
}

func encodeLane(want api.ValueType, v value.Value) (uint64, error) {
	switch want {
	case api.ValueTypeI32:
		i, ok := v.AsI32()
		if !ok {
			return 0, fmt.Errorf("expected i32, got %s", v.Kind())
		}
		return api.EncodeI32(i), nil
	case api.ValueTypeI64:
		i, ok := v.AsI64()
		if !ok {
			return 0, fmt.Errorf("expected i64, got %s", v.Kind())
		}
		return uint64(i), nil
	case api.ValueTypeF32:
		f, ok := v.AsF32()
		if !ok {
			return 0, fmt.Errorf("expected f32, got %s", v.Kind())
		}
		return uint64(api.EncodeF32(f)), nil
	case api.ValueTypeF64:
		f, ok := v.AsF64()
		if !ok {
			return 0, fmt.Errorf("expected f64, got %s", v.Kind())
		}
		return api.EncodeF64(f), nil
	default:
		return 0, fmt.Errorf("function signature uses unsupported value type %s", want)
	}
}

// checkResultTypes rejects, before the call executes, any declared result
// type this ABI cannot represent (V128, funcref, externref). Numeric
// results are always representable; the only question is how many.
func checkResultTypes(def api.FunctionDefinition) error {
	for i, rt := range def.ResultTypes() {
		switch rt {
		case api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64:
			continue
		default:
			return fmt.Errorf("result %d has unsupported value type %s", i, rt)
		}
	}
	return nil
}

// unmarshalResults converts raw result lanes back into the Value ADT per
// §4.3's 0/1/N mapping: no results -> Null, one result -> that Value,
// multiple results -> an Array of Values in order.
func unmarshalResults(def api.FunctionDefinition, lanes []uint64) (value.Value, error) {
	types := def.ResultTypes()
	if len(types) != len(lanes) {
		return value.Null, fmt.Errorf("function %q returned %d result(s), expected %d", def.Name(), len(lanes), len(types))
	}

	if len(types) == 0 {
		return value.Null, nil
	}

	values := make([]value.Value, len(types))
	for i, t := range types {
		v, err := decodeLane(t, lanes[i])
		if err != nil {
			return value.Null, fmt.Errorf("result %d: %w", i, err)
		}
		values[i] = v
	}

	if len(values) == 1 {
		return values[0], nil
	}
	return value.Array(values...), nil
}

func decodeLane(t api.ValueType, lane uint64) (value.Value, error) {
	switch t {
	case api.ValueTypeI32:
		return value.I32(api.DecodeI32(lane)), nil
	case api.ValueTypeI64:
		return value.I64(int64(lane)), nil
	case api.ValueTypeF32:
		return value.F32(api.DecodeF32(lane)), nil
	case api.ValueTypeF64:
		return value.F64(api.DecodeF64(lane)), nil
	default:
		return value.Null, fmt.Errorf("unsupported result value type %s", t)
	}
}
