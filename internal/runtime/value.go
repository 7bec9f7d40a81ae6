package runtime

import (
	"fmt"
	"strconv"
)

// ValueTag discriminates the kinds of values programs consume and produce.
type ValueTag int

const (
	VTBool ValueTag = iota
	VTInt
	VTDouble
	VTQubit
	VTResult
)

// Value is a tagged argument or result value. Callers supply Bool/Int/Double
// arguments; qubit and result references only flow inside an execution.
type Value struct {
	Tag    ValueTag
	B      bool
	I      int64
	D      float64
}

func Bool(b bool) Value      { return Value{Tag: VTBool, B: b} }
func Int(i int64) Value      { return Value{Tag: VTInt, I: i} }
func Double(d float64) Value { return Value{Tag: VTDouble, D: d} }
func Qubit(id int64) Value   { return Value{Tag: VTQubit, I: id} }
func Result(id int64) Value  { return Value{Tag: VTResult, I: id} }

func (v Value) String() string {
	switch v.Tag {
	case VTBool:
		return strconv.FormatBool(v.B)
	case VTInt:
		return strconv.FormatInt(v.I, 10)
	case VTDouble:
		return strconv.FormatFloat(v.D, 'g', -1, 64)
	case VTQubit:
		return fmt.Sprintf("qubit(%d)", v.I)
	case VTResult:
		return fmt.Sprintf("result(%d)", v.I)
	}
	return "<unknown>"
}

// AsBool coerces a value into a branch condition.
func (v Value) AsBool() bool {
	switch v.Tag {
	case VTBool:
		return v.B
	case VTInt:
		return v.I != 0
	case VTDouble:
		return v.D != 0
	}
	return false
}

// AsInt coerces a value into an integer.
func (v Value) AsInt() int64 {
	switch v.Tag {
	case VTBool:
		if v.B {
			return 1
		}
		return 0
	case VTDouble:
		return int64(v.D)
	}
	return v.I
}

// AsDouble coerces a value into a float.
func (v Value) AsDouble() float64 {
	switch v.Tag {
	case VTDouble:
		return v.D
	case VTInt:
		return float64(v.I)
	}
	return 0
}

// Equal compares two values after integer coercion of bools.
func (v Value) Equal(o Value) bool {
	if v.Tag == VTDouble || o.Tag == VTDouble {
		return v.AsDouble() == o.AsDouble()
	}
	return v.AsInt() == o.AsInt()
}
