package uhf

// drHeaderPrefix is the unsolicited receive header's fixed prefix,
// per spec.md §4.3. None of its four characters repeat, so a
// mismatched byte can only ever restart a match at itself.
const drHeaderPrefix = "*DR="

// drPrefixMatcher incrementally matches drHeaderPrefix one byte at a
// time against a stream that may contain unrelated bytes beforehand.
type drPrefixMatcher struct {
	matched int
}

// feed consumes one byte and reports whether it completed the prefix.
func (m *drPrefixMatcher) feed(b byte) bool {
	if b == drHeaderPrefix[m.matched] {
		m.matched++
	} else if b == drHeaderPrefix[0] {
		m.matched = 1
	} else {
		m.matched = 0
	}
	if m.matched == len(drHeaderPrefix) {
		m.matched = 0
		return true
	}
	return false
}
