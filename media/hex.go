package media

// EncodeHexByte renders b as two uppercase ASCII hex characters, the
// wire convention the UHF modem's AT command set uses for length and
// id fields (spec.md §4.3).
func EncodeHexByte(b byte) [2]byte {
	const digits = "0123456789ABCDEF"
	return [2]byte{digits[b>>4], digits[b&0x0f]}
}

// DecodeHexByte parses two ASCII hex characters into a byte. ok is
// false if either character is not a hex digit.
func DecodeHexByte(hi, lo byte) (b byte, ok bool) {
	h, ok1 := decodeHexDigit(hi)
	l, ok2 := decodeHexDigit(lo)
	if !ok1 || !ok2 {
		return 0, false
	}
	return h<<4 | l, true
}

func decodeHexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
