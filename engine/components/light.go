package components

import (
	"github.com/spaghettifunk/kalsengi/engine/math"
)

type LightType uint8

const (
	LIGHT_TYPE_DIRECTIONAL LightType = iota
	LIGHT_TYPE_POINT
)

func (t LightType) String() string {
	if t == LIGHT_TYPE_POINT {
		return "point"
	}
	return "directional"
}

type Light struct {
	BaseBehavior

	Type  LightType
	Color math.Vec3
}

func NewLight(lightType LightType) *Light {
	return &Light{
		BaseBehavior: NewBaseBehavior("light"),
		Type:         lightType,
		Color:        math.NewVec3(1.0, 0.992, 0.658),
	}
}

// PositionOrDirection returns the direction towards a directional light
// with w=0, or a point light's world position with w=1.
func (l *Light) PositionOrDirection() math.Vec4 {
	if l.entity == nil {
		return math.NewVec4Zero()
	}
	t := l.entity.Transform
	if l.Type == LIGHT_TYPE_POINT {
		return t.WorldPosition().ToVec4(1)
	}
	return t.Forward().Negate().ToVec4(0)
}
