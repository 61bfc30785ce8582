package value

import "math"

// f32BitsEqual compares by IEEE-754 bit pattern so that NaN payloads
// participate in equality the way the marshalling contract requires
// (F32/F64 are transported as bit patterns, not mathematical values).
func f32BitsEqual(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}

func f64BitsEqual(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

// F32Bits returns the IEEE-754 bit pattern of an F32 Value's payload.
func F32Bits(v Value) (uint32, bool) {
	f, ok := v.AsF32()
	if !ok {
		return 0, false
	}
	return math.Float32bits(f), true
}

// F64Bits returns the IEEE-754 bit pattern of an F64 Value's payload.
func F64Bits(v Value) (uint64, bool) {
	f, ok := v.AsF64()
	if !ok {
		return 0, false
	}
	return math.Float64bits(f), true
}

// F32FromBits constructs an F32 Value from a raw IEEE-754 bit pattern.
func F32FromBits(bits uint32) Value {
	return F32(math.Float32frombits(bits))
}

// F64FromBits constructs an F64 Value from a raw IEEE-754 bit pattern.
func F64FromBits(bits uint64) Value {
	return F64(math.Float64frombits(bits))
}
