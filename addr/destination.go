package addr

// ClusterId identifies a multicast cluster. The wire encoding reserves
// the value 0 to mean "no cluster id", per spec.md §6.
type ClusterId uint8

// OptionalClusterId is a present-or-absent [ClusterId].
type OptionalClusterId struct {
	value   ClusterId
	present bool
}

// SomeClusterId wraps a present cluster id. v must not be zero: zero is
// reserved on the wire for "absent".
func SomeClusterId(v ClusterId) OptionalClusterId {
	return OptionalClusterId{value: v, present: v != 0}
}

// NoClusterId is the absent cluster id.
func NoClusterId() OptionalClusterId {
	return OptionalClusterId{}
}

// Get returns the wrapped value and whether it is present.
func (o OptionalClusterId) Get() (ClusterId, bool) {
	return o.value, o.present
}

// Encode appends the 1-byte wire representation to buf.
func (o OptionalClusterId) Encode(buf []byte) []byte {
	if !o.present {
		return append(buf, 0)
	}
	return append(buf, byte(o.value))
}

// DecodeOptionalClusterId reads the 1-byte wire representation from the
// front of buf.
func DecodeOptionalClusterId(buf []byte) (OptionalClusterId, int, error) {
	if len(buf) < 1 {
		return OptionalClusterId{}, 0, ErrInvalidWireBytes
	}
	if buf[0] == 0 {
		return NoClusterId(), 1, nil
	}
	return SomeClusterId(ClusterId(buf[0])), 1, nil
}

// Destination names where a routing frame should end up: a node id plus
// an optional cluster id for multicast delivery.
type Destination struct {
	NodeID  NodeId
	Cluster OptionalClusterId
}

// NewUnicastDestination builds a unicast destination to a concrete
// node.
func NewUnicastDestination(node NodeId) Destination {
	return Destination{NodeID: node}
}

// NewMulticastDestination builds a multicast destination: broadcast
// node id plus a cluster id.
func NewMulticastDestination(cluster ClusterId) Destination {
	return Destination{NodeID: BroadcastNodeID(), Cluster: SomeClusterId(cluster)}
}

// NewBroadcastDestination builds the "every node" destination.
func NewBroadcastDestination() Destination {
	return Destination{NodeID: BroadcastNodeID()}
}

// IsUnicast reports whether the destination names a single node.
func (d Destination) IsUnicast() bool {
	return !d.NodeID.IsBroadcast()
}

// IsMulticast reports whether the destination is broadcast node id with
// a cluster id set.
func (d Destination) IsMulticast() bool {
	if !d.NodeID.IsBroadcast() {
		return false
	}
	_, present := d.Cluster.Get()
	return present
}

// IsBroadcast reports whether the destination is broadcast node id with
// no cluster id.
func (d Destination) IsBroadcast() bool {
	if !d.NodeID.IsBroadcast() {
		return false
	}
	_, present := d.Cluster.Get()
	return !present
}

// Equal reports whether two destinations carry the same node id and
// cluster id.
func (d Destination) Equal(other Destination) bool {
	if !d.NodeID.Equal(other.NodeID) {
		return false
	}
	dv, dp := d.Cluster.Get()
	ov, op := other.Cluster.Get()
	return dp == op && (!dp || dv == ov)
}

// Encode appends the wire representation (node id, then 1-byte cluster
// id) to buf.
func (d Destination) Encode(buf []byte) []byte {
	buf = d.NodeID.Encode(buf)
	return d.Cluster.Encode(buf)
}

// DecodeDestination reads a [Destination] from the front of buf.
func DecodeDestination(buf []byte) (Destination, int, error) {
	node, n, err := DecodeNodeID(buf)
	if err != nil {
		return Destination{}, 0, err
	}
	cluster, m, err := DecodeOptionalClusterId(buf[n:])
	if err != nil {
		return Destination{}, 0, err
	}
	return Destination{NodeID: node, Cluster: cluster}, n + m, nil
}
