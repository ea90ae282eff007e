package components

import (
	"github.com/spaghettifunk/kalsengi/engine/math"
)

// Rotate spins its entity around Axis at Speed degrees per second.
type Rotate struct {
	BaseBehavior

	Speed float32
	Axis  math.Vec3
}

func NewRotate() *Rotate {
	return &Rotate{
		BaseBehavior: NewBaseBehavior("rotate"),
		Speed:        15,
		Axis:         math.NewVec3Up(),
	}
}

func (r *Rotate) Update(deltaTime float64) {
	if r.entity == nil {
		return
	}
	r.entity.Transform.Rotate(r.Axis.MulScalar(r.Speed * float32(deltaTime)))
}
