package catalog

import "strings"

// stepPrecision converts an exchange step string ("0.0001", "1e-05", "1")
// into the number of decimal places it allows. Trailing zeros are ignored so
// "0.00010000" still means four places.
func stepPrecision(step string) int32 {
	step = strings.TrimSpace(step)
	if step == "" {
		return 0
	}

	if i := strings.IndexAny(step, "eE"); i >= 0 {
		exp := step[i+1:]
		neg := strings.HasPrefix(exp, "-")
		exp = strings.TrimLeft(exp, "+-")
		var n int32
		for _, r := range exp {
			if r < '0' || r > '9' {
				return 0
			}
			n = n*10 + int32(r-'0')
		}
		if neg {
			return n
		}
		return 0
	}

	dot := strings.IndexByte(step, '.')
	if dot < 0 {
		return 0
	}
	frac := strings.TrimRight(step[dot+1:], "0")
	return int32(len(frac))
}
