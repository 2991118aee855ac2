package domain

// AttrID names an attribute consumed at entity construction or exposed by
// the state machine's accessors.
type AttrID uint32

const (
	// ModuleAttrLocation is the module's position in the hardware topology,
	// a character sequence parsed as an integer module index. Mandatory at
	// module creation.
	ModuleAttrLocation AttrID = iota + 1

	// NetIfAttrIndex is the network interface's slot index under its module.
	// Mandatory at network interface creation.
	NetIfAttrIndex

	// HostIfAttrIndex is the host interface's slot index under its module.
	// Mandatory at host interface creation.
	HostIfAttrIndex

	// NetIfAttrTxDis is the transmitter-disable control of the network
	// interface. Accessible only once the module's machine is configured.
	NetIfAttrTxDis
)

// Attribute is a single attribute as supplied in a creation request.
type Attribute struct {
	ID    AttrID
	Value interface{}
}

// Attributes is the attribute set handed to entity constructors.
type Attributes []Attribute

// Lookup returns the value of the first attribute with the given id.
func (as Attributes) Lookup(id AttrID) (interface{}, bool) {
	for _, a := range as {
		if a.ID == id {
			return a.Value, true
		}
	}
	return nil, false
}

// String returns the value of the given attribute as a string.
// The second result is false if the attribute is absent or not a string.
func (as Attributes) String(id AttrID) (string, bool) {
	v, ok := as.Lookup(id)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the value of the given attribute as an int. Unsigned and
// sized integer values supplied by callers are accepted as well.
// The second result is false if the attribute is absent or not an integer.
func (as Attributes) Int(id AttrID) (int, bool) {
	v, ok := as.Lookup(id)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case uint8:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
