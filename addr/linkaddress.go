package addr

// LinkAddress wraps an [Address] with a discriminator for unicast
// versus broadcast delivery at the link layer. The broadcast variant
// names only the address type, never a body, per spec.md §3.
type LinkAddress struct {
	addressType Type
	unicast     Address
	isBroadcast bool
}

// NewUnicastLinkAddress wraps a concrete address as a unicast
// [LinkAddress].
func NewUnicastLinkAddress(a Address) LinkAddress {
	return LinkAddress{addressType: a.Type(), unicast: a}
}

// NewBroadcastLinkAddress builds a broadcast [LinkAddress] for the
// given medium.
func NewBroadcastLinkAddress(t Type) LinkAddress {
	return LinkAddress{addressType: t, isBroadcast: true}
}

// AddressType returns the medium this link address belongs to.
func (l LinkAddress) AddressType() Type {
	return l.addressType
}

// IsBroadcast reports whether this is the broadcast variant.
func (l LinkAddress) IsBroadcast() bool {
	return l.isBroadcast
}

// IsUnicast reports whether this is the unicast variant.
func (l LinkAddress) IsUnicast() bool {
	return !l.isBroadcast
}

// Unicast returns the wrapped address and true, or the zero address and
// false if this is the broadcast variant.
func (l LinkAddress) Unicast() (Address, bool) {
	if l.isBroadcast {
		return Address{}, false
	}
	return l.unicast, true
}

// Matches reports whether a concrete address is addressed by this
// LinkAddress: a broadcast link address of type t matches any address
// of type t, a unicast link address matches only an equal address.
func (l LinkAddress) Matches(a Address) bool {
	if l.addressType != a.Type() {
		return false
	}
	if l.isBroadcast {
		return true
	}
	return l.unicast.Equal(a)
}
