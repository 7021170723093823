package base10

// doubleDabble converts x to packed BCD by the shift-add-3 algorithm: for
// each input bit from the top, every digit at 5 or above gains 3, then the
// whole digit chain shifts left by one with the input bit entering at the
// bottom. This is base-2 Horner's method with BCD doubling folded into the
// add-3 correction.
//
// The hardware form is a triangle of combinational shift-add-3 cells; here
// the triangle is collapsed row by row. Digits are least significant first.
func doubleDabble(x uint64, width, digits uint) Digits {
	var d Digits
	for i := int(width) - 1; i >= 0; i-- {
		for j := uint(0); j < digits; j++ {
			if d[j] >= 5 {
				d[j] += 3
			}
		}
		carry := uint8(x >> uint(i) & 1)
		for j := uint(0); j < digits; j++ {
			next := d[j] >> 3 & 1
			d[j] = d[j]<<1&0xF | carry
			carry = next
		}
	}
	return d
}

// numDigits returns how many decimal digits a width-bit value can need.
func numDigits(width uint) uint {
	n := uint(1)
	for v := maxValue(width); v >= 10; v /= 10 {
		n++
	}
	return n
}

func maxValue(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<width - 1
}
