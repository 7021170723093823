// Package wide implements 128-bit wrapping two's-complement words.
//
// The arithmetic cores register values wider than a machine word: a width-64
// divider carries a 65- or 66-bit running remainder and a width-64 multiplier
// accumulates a 128-bit product. Uint128 backs those registers with plain
// carry-chain arithmetic on math/bits.
package wide

import "math/bits"

// Uint128 is a 128-bit word. Signedness is a matter of interpretation: all
// operations wrap modulo 2^128, and IsNeg/Abs treat bit 127 as the sign bit.
type Uint128 struct {
	// Lo holds bits 0..63.
	Lo uint64

	// Hi holds bits 64..127.
	Hi uint64
}

// From64 zero-extends x to 128 bits.
func From64(x uint64) Uint128 {
	return Uint128{Lo: x}
}

// SignExtend interprets the low width bits of x as a two's-complement value
// and sign-extends it to 128 bits. width must be in 1..64.
func SignExtend(x uint64, width uint) Uint128 {
	x &= Mask64(width)
	if x>>(width-1)&1 == 1 {
		return Uint128{Lo: x | ^Mask64(width), Hi: ^uint64(0)}
	}
	return Uint128{Lo: x}
}

// Mask64 returns a uint64 with the low width bits set. width must be in
// 0..64.
func Mask64(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<width - 1
}

// Add returns x + y mod 2^128.
func (x Uint128) Add(y Uint128) Uint128 {
	lo, carry := bits.Add64(x.Lo, y.Lo, 0)
	hi, _ := bits.Add64(x.Hi, y.Hi, carry)
	return Uint128{Lo: lo, Hi: hi}
}

// Add64 returns x + y mod 2^128.
func (x Uint128) Add64(y uint64) Uint128 {
	lo, carry := bits.Add64(x.Lo, y, 0)
	hi, _ := bits.Add64(x.Hi, 0, carry)
	return Uint128{Lo: lo, Hi: hi}
}

// Sub returns x - y mod 2^128.
func (x Uint128) Sub(y Uint128) Uint128 {
	lo, borrow := bits.Sub64(x.Lo, y.Lo, 0)
	hi, _ := bits.Sub64(x.Hi, y.Hi, borrow)
	return Uint128{Lo: lo, Hi: hi}
}

// Sub64 returns x - y mod 2^128.
func (x Uint128) Sub64(y uint64) Uint128 {
	lo, borrow := bits.Sub64(x.Lo, y, 0)
	hi, _ := bits.Sub64(x.Hi, 0, borrow)
	return Uint128{Lo: lo, Hi: hi}
}

// Neg returns -x mod 2^128.
func (x Uint128) Neg() Uint128 {
	return Uint128{}.Sub(x)
}

// Shl returns x << n. Shifts of 128 or more return zero.
func (x Uint128) Shl(n uint) Uint128 {
	switch {
	case n == 0:
		return x
	case n < 64:
		return Uint128{Lo: x.Lo << n, Hi: x.Hi<<n | x.Lo>>(64-n)}
	case n < 128:
		return Uint128{Hi: x.Lo << (n - 64)}
	default:
		return Uint128{}
	}
}

// Shr returns x >> n, shifting in zeros. Shifts of 128 or more return zero.
func (x Uint128) Shr(n uint) Uint128 {
	switch {
	case n == 0:
		return x
	case n < 64:
		return Uint128{Lo: x.Lo>>n | x.Hi<<(64-n), Hi: x.Hi >> n}
	case n < 128:
		return Uint128{Lo: x.Hi >> (n - 64)}
	default:
		return Uint128{}
	}
}

// Mask keeps the low width bits of x and clears the rest. width must be in
// 0..128.
func (x Uint128) Mask(width uint) Uint128 {
	switch {
	case width >= 128:
		return x
	case width >= 64:
		return Uint128{Lo: x.Lo, Hi: x.Hi & Mask64(width-64)}
	default:
		return Uint128{Lo: x.Lo & Mask64(width)}
	}
}

// IsZero reports whether x == 0.
func (x Uint128) IsZero() bool {
	return x.Lo == 0 && x.Hi == 0
}

// IsNeg reports whether bit 127 is set.
func (x Uint128) IsNeg() bool {
	return x.Hi>>63 == 1
}

// Abs returns the magnitude of x under two's-complement interpretation.
func (x Uint128) Abs() Uint128 {
	if x.IsNeg() {
		return x.Neg()
	}
	return x
}

// Cmp compares x and y as unsigned 128-bit values, returning -1, 0, or +1.
func (x Uint128) Cmp(y Uint128) int {
	switch {
	case x.Hi < y.Hi:
		return -1
	case x.Hi > y.Hi:
		return 1
	case x.Lo < y.Lo:
		return -1
	case x.Lo > y.Lo:
		return 1
	default:
		return 0
	}
}

// ToSigned interprets the low width bits of x as a two's-complement value.
// width must be in 1..64.
func ToSigned(x uint64, width uint) int64 {
	x &= Mask64(width)
	if x>>(width-1)&1 == 1 {
		return int64(x | ^Mask64(width))
	}
	return int64(x)
}

// Bit returns bit n of x as 0 or 1. n must be in 0..127.
func (x Uint128) Bit(n uint) uint64 {
	if n < 64 {
		return x.Lo >> n & 1
	}
	return x.Hi >> (n - 64) & 1
}
