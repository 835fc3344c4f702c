package addr

// TypeSet is a 4-bit bitmask over {Serial, UHF, Udp, WebSocket}.
type TypeSet uint8

// fullTypeSet has all four bits set; Complement masks against this so
// unused high bits never leak into a comparison.
const fullTypeSet TypeSet = 0b1111

// NewTypeSet builds a [TypeSet] containing exactly the given types.
func NewTypeSet(types ...Type) TypeSet {
	var s TypeSet
	for _, t := range types {
		s |= 1 << t
	}
	return s
}

// Contains reports whether t is a member of the set.
func (s TypeSet) Contains(t Type) bool {
	return s&(1<<t) != 0
}

// Union returns the set containing every type in either set.
func (s TypeSet) Union(other TypeSet) TypeSet {
	return s | other
}

// Intersect returns the set containing every type in both sets.
func (s TypeSet) Intersect(other TypeSet) TypeSet {
	return s & other
}

// Complement returns every type not in the set.
func (s TypeSet) Complement() TypeSet {
	return ^s & fullTypeSet
}

// Empty reports whether the set has no members.
func (s TypeSet) Empty() bool {
	return s&fullTypeSet == 0
}
