package wifi

import "strconv"

// parseIPv4 decodes a dotted-decimal IPv4 address with no surrounding
// whitespace or punctuation.
func parseIPv4(b []byte) ([4]byte, bool) {
	var ip [4]byte
	octet := 0
	val := 0
	digits := 0
	for _, c := range b {
		if c == '.' {
			if digits == 0 || octet >= 3 {
				return ip, false
			}
			ip[octet] = byte(val)
			octet++
			val = 0
			digits = 0
			continue
		}
		if c < '0' || c > '9' {
			return ip, false
		}
		val = val*10 + int(c-'0')
		if val > 255 {
			return ip, false
		}
		digits++
	}
	if digits == 0 || octet != 3 {
		return ip, false
	}
	ip[3] = byte(val)
	return ip, true
}

// formatIPv4 renders ip in dotted-decimal notation.
func formatIPv4(ip [4]byte) string {
	return strconv.Itoa(int(ip[0])) + "." + strconv.Itoa(int(ip[1])) + "." +
		strconv.Itoa(int(ip[2])) + "." + strconv.Itoa(int(ip[3]))
}
