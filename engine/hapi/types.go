// Package hapi describes the procedural geometry host the instancer reads
// from: its data types, the query contract and an in-memory implementation.
package hapi

import "github.com/spaghettifunk/anima-hapi/engine/math"

// AttributeOwner is the geometry element an attribute is stored on.
type AttributeOwner int32

const (
	ATTROWNER_INVALID AttributeOwner = iota - 1
	ATTROWNER_VERTEX
	ATTROWNER_POINT
	ATTROWNER_PRIM
	ATTROWNER_DETAIL
	ATTROWNER_MAX
)

func (o AttributeOwner) String() string {
	switch o {
	case ATTROWNER_VERTEX:
		return "vertex"
	case ATTROWNER_POINT:
		return "point"
	case ATTROWNER_PRIM:
		return "prim"
	case ATTROWNER_DETAIL:
		return "detail"
	default:
		return "invalid"
	}
}

// ParseAttributeOwner maps fixture names onto owners. Empty means point.
func ParseAttributeOwner(name string) (AttributeOwner, bool) {
	switch name {
	case "", "point":
		return ATTROWNER_POINT, true
	case "vertex":
		return ATTROWNER_VERTEX, true
	case "prim", "primitive":
		return ATTROWNER_PRIM, true
	case "detail":
		return ATTROWNER_DETAIL, true
	default:
		return ATTROWNER_INVALID, false
	}
}

// RSTOrder is the composition order of scale, rotation and translation.
type RSTOrder int32

const (
	TRS RSTOrder = iota
	TSR
	RTS
	RST
	STR
	SRT
)

// ObjectInfo summarizes one object of a cooked asset.
type ObjectInfo struct {
	ID   int32
	Name string
	// IsInstancer is set when the object carries instancing points.
	IsInstancer bool
	// ObjectToInstanceID is the index of the object every point instances,
	// or -1 when points choose through the instance attribute.
	ObjectToInstanceID int32
	GeoCount           int32
}

type GeoInfo struct {
	ID        int32
	PartCount int32
}

type PartInfo struct {
	ID         int32
	Name       string
	PointCount int32
}

// AttributeInfo describes an attribute looked up by name. Exists is false
// when the attribute was never authored.
type AttributeInfo struct {
	Name      string
	Exists    bool
	Owner     AttributeOwner
	Count     int32
	TupleSize int32
}

// Transform is the per-point instance transform as authored by the host.
type Transform struct {
	Position           math.Vec3
	RotationQuaternion math.Quaternion
	Scale              math.Vec3
	RSTOrder           RSTOrder
}
