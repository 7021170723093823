package main

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/sarchlab/arithsim/wide"
)

// parseOperand parses a decimal, hex (0x), or octal (0o) integer and
// truncates it to the low width bits. Negative values are accepted only
// when signed.
func parseOperand(s string, width uint, signed bool) (uint64, error) {
	if width < 1 || width > 64 {
		return 0, errors.Errorf("width must be in [1, 64], got %d", width)
	}

	if signed {
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "parsing operand %q", s)
		}
		return uint64(v) & wide.Mask64(width), nil
	}

	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing operand %q", s)
	}
	return v & wide.Mask64(width), nil
}
