package raw

import "math"

// Primitive payloads travel through Value.Bits in a fixed encoding:
// integrals are sign-extended two's complement, booleans are 0 or 1,
// chars are zero-extended UTF-16 units, floats are IEEE-754 bit images.
// Both sides of the interface (marshalers and implementations) use these
// helpers so the encoding stays in one place.

func BoolBits(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func ByteBits(v int8) uint64     { return uint64(int64(v)) }
func CharBits(v uint16) uint64   { return uint64(v) }
func ShortBits(v int16) uint64   { return uint64(int64(v)) }
func IntBits(v int32) uint64     { return uint64(int64(v)) }
func LongBits(v int64) uint64    { return uint64(v) }
func FloatBits(v float32) uint64 { return uint64(math.Float32bits(v)) }
func DoubleBits(v float64) uint64 { return math.Float64bits(v) }

func BitsBool(bits uint64) bool      { return bits != 0 }
func BitsByte(bits uint64) int8      { return int8(bits) }
func BitsChar(bits uint64) uint16    { return uint16(bits) }
func BitsShort(bits uint64) int16    { return int16(bits) }
func BitsInt(bits uint64) int32      { return int32(bits) }
func BitsLong(bits uint64) int64     { return int64(bits) }
func BitsFloat(bits uint64) float32  { return math.Float32frombits(uint32(bits)) }
func BitsDouble(bits uint64) float64 { return math.Float64frombits(bits) }
