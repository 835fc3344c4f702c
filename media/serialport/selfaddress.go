package serialport

// selfAddress holds the port's adopted node number on the bus. It is
// shared (by pointer) between the Port and its receiveState so that
// the first parsed header can bootstrap it in the same tick it is
// used to decide whether that header's payload belongs to us, per
// spec.md §4.5's self-address bootstrap rule.
type selfAddress struct {
	value byte
	has   bool
}

// adoptOrMatch returns true if destination names this port: either the
// address was already fixed and destination matches it, or the address
// is still unset and destination is adopted as it.
func (s *selfAddress) adoptOrMatch(destination byte) bool {
	if !s.has {
		s.value = destination
		s.has = true
		return true
	}
	return s.value == destination
}
