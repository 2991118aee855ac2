package domain

import "fmt"

// Fixed topology of the reference hardware. One transponder module carries
// one line-side (network) interface and two client-side (host) interfaces.
const (
	NumModule = 4
	NumNetIf  = 1
	NumHostIf = 2
)

// ObjectType tags the kind of entity an ObjectID names.
type ObjectType uint8

const (
	ObjectTypeNone ObjectType = iota
	ObjectTypeModule
	ObjectTypeNetIf
	ObjectTypeHostIf
)

// String returns a human-readable representation of the object type.
func (t ObjectType) String() string {
	switch t {
	case ObjectTypeNone:
		return "none"
	case ObjectTypeModule:
		return "module"
	case ObjectTypeNetIf:
		return "netif"
	case ObjectTypeHostIf:
		return "hostif"
	default:
		return "unknown"
	}
}

// ObjectID is the bit-packed identifier of a managed entity:
//
//	[type : bits 48+][module index : bits 8..15][interface index : bits 0..7]
//
// The type field alone recovers the entity's class, and the module-index
// byte recovers the owning module from any interface identifier, so no
// side lookup table is needed to route requests.
type ObjectID uint64

const (
	objectTypeShift  = 48
	moduleIndexShift = 8
	indexMask        = 0xff
)

// NewObjectID packs an identifier from its three fields. The index fields
// are one byte each by construction; the composed value is not range
// checked beyond that.
func NewObjectID(t ObjectType, module, index uint8) ObjectID {
	return ObjectID(uint64(t)<<objectTypeShift |
		uint64(module)<<moduleIndexShift |
		uint64(index))
}

// Type recovers the entity class from the identifier.
func (id ObjectID) Type() ObjectType {
	return ObjectType(id >> objectTypeShift)
}

// ModuleIndex recovers the owning module's index from any identifier,
// module or interface alike.
func (id ObjectID) ModuleIndex() uint8 {
	return uint8(id >> moduleIndexShift & indexMask)
}

// Index recovers the interface slot index. For a module identifier this is
// always zero.
func (id ObjectID) Index() uint8 {
	return uint8(id & indexMask)
}

// ModuleID returns the identifier of the module owning this entity. For a
// module identifier it returns the identifier itself.
func (id ObjectID) ModuleID() ObjectID {
	return NewObjectID(ObjectTypeModule, id.ModuleIndex(), 0)
}

// String renders the identifier in hex, the form used by logs and the shell.
func (id ObjectID) String() string {
	return fmt.Sprintf("0x%x", uint64(id))
}
