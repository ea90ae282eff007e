package components

import (
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
)

// MAX_FREE_FLY_STEP caps the delta time of one update, in seconds, so a
// long stall does not teleport the camera.
const MAX_FREE_FLY_STEP float64 = 0.1

// InputSource answers raw key state queries.
type InputSource interface {
	IsKeyDown(key core.KeyCode) bool
}

// FreeFlyCamera moves its entity with WASD/QE and rotates it with IK/JL/UO.
// Holding left control moves along the world axes instead of the local ones.
type FreeFlyCamera struct {
	BaseBehavior

	// Speed is in units per second.
	Speed float32
	// AngularSpeed is in degrees per second.
	AngularSpeed float32

	input InputSource
}

func NewFreeFlyCamera(input InputSource) *FreeFlyCamera {
	return &FreeFlyCamera{
		BaseBehavior: NewBaseBehavior("free fly camera"),
		Speed:        5,
		AngularSpeed: 30,
		input:        input,
	}
}

// axis returns +1, -1 or 0 depending on which of the two keys is held.
func (f *FreeFlyCamera) axis(positive, negative core.KeyCode) float32 {
	var v float32
	if f.input.IsKeyDown(positive) {
		v++
	}
	if f.input.IsKeyDown(negative) {
		v--
	}
	return v
}

func (f *FreeFlyCamera) Update(deltaTime float64) {
	if f.entity == nil || f.input == nil {
		return
	}
	dt := float32(math.Clamp(deltaTime, 0, MAX_FREE_FLY_STEP))
	t := f.entity.Transform

	right, up, forward := t.Right(), t.Up(), t.Forward()
	if f.input.IsKeyDown(core.KEY_LCONTROL) {
		right, up, forward = math.NewVec3Right(), math.NewVec3Up(), math.NewVec3Forward()
	}

	// the camera looks down -forward
	move := forward.MulScalar(f.axis(core.KEY_S, core.KEY_W)).
		Add(right.MulScalar(f.axis(core.KEY_D, core.KEY_A))).
		Add(up.MulScalar(f.axis(core.KEY_E, core.KEY_Q)))
	// setting an unchanged position would still invalidate every matrix
	if move.LengthSquared() > 0 {
		t.SetLocalPosition(t.LocalPosition().Add(move.MulScalar(f.Speed * dt)))
	}

	rot := math.NewVec3(
		f.axis(core.KEY_I, core.KEY_K),
		f.axis(core.KEY_J, core.KEY_L),
		f.axis(core.KEY_U, core.KEY_O),
	)
	if rot.LengthSquared() > 0 {
		t.Rotate(rot.MulScalar(f.AngularSpeed * dt))
	}
}
