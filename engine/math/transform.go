package math

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/kalsengi/engine/core"
)

// stampCounter hands out strictly increasing change stamps to every transform
// mutation so cached world data can be validated by comparing integers.
var stampCounter atomic.Uint64

func nextStamp() uint64 {
	return stampCounter.Add(1)
}

/**
 * @brief Represents the transform of an object in the world.
 * Transforms can have a parent whose own transform is then
 * taken into account. NOTE: The properties of this should not
 * be edited directly, but done via the setters to ensure proper
 * matrix generation.
 *
 * Local matrices are recomputed lazily on read behind independent
 * dirty flags. World matrices are recomputed from the local matrix
 * and the parent chain whenever the world stamp moves.
 */
type Transform struct {
	localPosition Vec3
	localRotation Quaternion
	localScale    Vec3

	parent   *Transform
	children []*Transform
	owner    interface{}

	translation      Mat4
	translationDirty bool
	rotation         Mat4
	rotationDirty    bool
	scale            Mat4
	scaleDirty       bool
	localModel       Mat4
	modelDirty       bool
	localView        Mat4
	viewDirty        bool

	// stamp changes on every local mutation and on reparenting.
	stamp           uint64
	worldModel      Mat4
	worldModelStamp uint64
	worldView       Mat4
	worldViewStamp  uint64

	// lastRoll is the x angle (radians) of the last non-degenerate
	// euler extraction, reused while the rotation is gimbal locked.
	lastRoll float32
}

func NewTransform() *Transform {
	return NewTransformFromPositionRotationScale(NewVec3Zero(), NewQuatIdentity(), NewVec3One())
}

func NewTransformFromPosition(position Vec3) *Transform {
	return NewTransformFromPositionRotationScale(position, NewQuatIdentity(), NewVec3One())
}

func NewTransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) *Transform {
	t := &Transform{
		localPosition: position,
		localRotation: rotation,
		localScale:    scale,
	}
	t.markAllDirty()
	return t
}

func (t *Transform) markAllDirty() {
	t.translationDirty = true
	t.rotationDirty = true
	t.scaleDirty = true
	t.modelDirty = true
	t.viewDirty = true
	t.stamp = nextStamp()
}

// Owner is the object this transform belongs to, usually an entity.
func (t *Transform) Owner() interface{} {
	return t.owner
}

func (t *Transform) SetOwner(owner interface{}) {
	t.owner = owner
}

func (t *Transform) LocalPosition() Vec3 {
	return t.localPosition
}

func (t *Transform) SetLocalPosition(position Vec3) {
	t.localPosition = position
	t.translationDirty = true
	t.modelDirty = true
	t.viewDirty = true
	t.stamp = nextStamp()
}

// Translate moves the transform by delta in parent space.
func (t *Transform) Translate(delta Vec3) {
	t.SetLocalPosition(t.localPosition.Add(delta))
}

func (t *Transform) LocalRotation() Quaternion {
	return t.localRotation
}

func (t *Transform) SetLocalRotation(rotation Quaternion) {
	t.localRotation = rotation
	t.rotationDirty = true
	t.modelDirty = true
	t.viewDirty = true
	t.stamp = nextStamp()
}

func (t *Transform) LocalScale() Vec3 {
	return t.localScale
}

func (t *Transform) SetLocalScale(scale Vec3) {
	t.localScale = scale
	t.scaleDirty = true
	t.modelDirty = true
	t.viewDirty = true
	t.stamp = nextStamp()
}

// Rotate composes an euler delta (degrees) with the current local rotation,
// local_rotation * delta, so the increment is applied in local space.
func (t *Transform) Rotate(eulerDelta Vec3) {
	delta := NewQuatFromEuler(eulerDelta)
	t.SetLocalRotation(t.localRotation.Mul(delta).Normalize())
}

// LocalEulerAngles returns the local rotation as x, y, z degrees for display.
// Near gimbal lock the x angle repeats the last valid one.
func (t *Transform) LocalEulerAngles() Vec3 {
	r := t.RotationMatrix()
	angles, locked := r.EulerXYZ(t.lastRoll)
	if !locked {
		t.lastRoll = angles.X
	}
	return Vec3{RadToDeg(angles.X), RadToDeg(angles.Y), RadToDeg(angles.Z)}
}

func (t *Transform) SetLocalEulerAngles(degrees Vec3) {
	t.SetLocalRotation(NewQuatFromEuler(degrees))
}

func (t *Transform) TranslationMatrix() Mat4 {
	if t.translationDirty {
		t.translation = NewMat4Translation(t.localPosition)
		t.translationDirty = false
	}
	return t.translation
}

func (t *Transform) RotationMatrix() Mat4 {
	if t.rotationDirty {
		t.rotation = t.localRotation.ToMat4()
		t.rotationDirty = false
	}
	return t.rotation
}

func (t *Transform) ScaleMatrix() Mat4 {
	if t.scaleDirty {
		t.scale = NewMat4Scale(t.localScale)
		t.scaleDirty = false
	}
	return t.scale
}

// LocalModelMatrix is T·R·S: scale, then rotate, then translate.
func (t *Transform) LocalModelMatrix() Mat4 {
	if t.modelDirty {
		tr := t.TranslationMatrix()
		r := t.RotationMatrix()
		s := t.ScaleMatrix()
		t.localModel = tr.Mul(r.Mul(s))
		t.modelDirty = false
	}
	return t.localModel
}

// LocalViewMatrix is R⁻¹·T⁻¹. Scale is not part of it.
func (t *Transform) LocalViewMatrix() Mat4 {
	if t.viewDirty {
		invT := NewMat4Translation(t.localPosition.Negate())
		invR := t.RotationMatrix().Transposed()
		t.localView = invR.Mul(invT)
		t.viewDirty = false
	}
	return t.localView
}

func (t *Transform) Parent() *Transform {
	return t.parent
}

// Children is informational only; world data is always derived upwards.
func (t *Transform) Children() []*Transform {
	out := make([]*Transform, len(t.children))
	copy(out, t.children)
	return out
}

// SetParent attaches the transform to parent, or detaches it when parent is nil.
// Local values are kept, so the world placement changes with the new parent.
func (t *Transform) SetParent(parent *Transform) error {
	for p := parent; p != nil; p = p.parent {
		if p == t {
			err := fmt.Errorf("cannot parent transform to its own descendant: %w", core.ErrTransformCycle)
			core.LogError(err.Error())
			return err
		}
	}
	if t.parent == parent {
		return nil
	}
	if t.parent != nil {
		t.parent.removeChild(t)
	}
	t.parent = parent
	if parent != nil {
		parent.children = append(parent.children, t)
	}
	t.stamp = nextStamp()
	return nil
}

func (t *Transform) removeChild(child *Transform) {
	for i, c := range t.children {
		if c == child {
			t.children = append(t.children[:i], t.children[i+1:]...)
			return
		}
	}
}

// WorldStamp changes whenever this transform or any ancestor changes.
func (t *Transform) WorldStamp() uint64 {
	s := t.stamp
	if t.parent != nil {
		if ps := t.parent.WorldStamp(); ps > s {
			s = ps
		}
	}
	return s
}

// WorldModelMatrix is parent_world·local, walking to the root.
func (t *Transform) WorldModelMatrix() Mat4 {
	ws := t.WorldStamp()
	if t.worldModelStamp != ws {
		local := t.LocalModelMatrix()
		if t.parent != nil {
			p := t.parent.WorldModelMatrix()
			t.worldModel = p.Mul(local)
		} else {
			t.worldModel = local
		}
		t.worldModelStamp = ws
	}
	return t.worldModel
}

// WorldViewMatrix is local_view·parent_world_view.
func (t *Transform) WorldViewMatrix() Mat4 {
	ws := t.WorldStamp()
	if t.worldViewStamp != ws {
		local := t.LocalViewMatrix()
		if t.parent != nil {
			t.worldView = local.Mul(t.parent.WorldViewMatrix())
		} else {
			t.worldView = local
		}
		t.worldViewStamp = ws
	}
	return t.worldView
}

func (t *Transform) WorldPosition() Vec3 {
	if t.parent == nil {
		return t.localPosition
	}
	p := t.parent.WorldModelMatrix()
	return p.TransformPoint(t.localPosition)
}

// SetWorldPosition stores position converted into the parent's space.
func (t *Transform) SetWorldPosition(position Vec3) {
	if t.parent == nil {
		t.SetLocalPosition(position)
		return
	}
	inv := t.parent.WorldModelMatrix().Inverse()
	t.SetLocalPosition(inv.TransformPoint(position))
}

func (t *Transform) WorldRotation() Quaternion {
	if t.parent == nil {
		return t.localRotation
	}
	return t.parent.WorldRotation().Mul(t.localRotation)
}

func (t *Transform) SetWorldRotation(rotation Quaternion) {
	if t.parent == nil {
		t.SetLocalRotation(rotation)
		return
	}
	t.SetLocalRotation(t.parent.WorldRotation().Inverse().Mul(rotation))
}

func (t *Transform) basis(axis Vec3) Vec3 {
	m := t.WorldModelMatrix()
	return m.TransformDirection(axis).Normalize()
}

func (t *Transform) Right() Vec3 {
	return t.basis(NewVec3Right())
}

func (t *Transform) Up() Vec3 {
	return t.basis(NewVec3Up())
}

func (t *Transform) Forward() Vec3 {
	return t.basis(NewVec3Forward())
}
