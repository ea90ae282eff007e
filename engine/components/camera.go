package components

import (
	"github.com/spaghettifunk/kalsengi/engine/math"
)

/** @brief The default vertical field of view in degrees. */
const DEFAULT_CAMERA_FOV float32 = 60

/**
 * @brief A perspective camera looking down its entity's -Z axis.
 * Projection is rebuilt lazily when any of its parameters change; the
 * view-projection is rebuilt when either the projection or the
 * transform chain changed since the last read.
 */
type Camera struct {
	BaseBehavior

	/** @brief The color the frame is cleared to. */
	ClearColor math.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	projection      math.Mat4
	projectionDirty bool

	viewProjection      math.Mat4
	viewProjectionStamp uint64
	viewProjectionValid bool
}

func NewCamera(aspectRatio float32) *Camera {
	return &Camera{
		BaseBehavior:    NewBaseBehavior("camera"),
		ClearColor:      math.NewVec3(0.705, 0.980, 0.992),
		fov:             DEFAULT_CAMERA_FOV,
		aspect:          aspectRatio,
		near:            0.01,
		far:             1000,
		projectionDirty: true,
	}
}

func (c *Camera) FOV() float32 {
	return c.fov
}

// SetFOV sets the vertical field of view in degrees, clamped to (1, 179).
func (c *Camera) SetFOV(degrees float32) {
	c.fov = math.Clamp(degrees, 1, 179)
	c.projectionDirty = true
}

func (c *Camera) AspectRatio() float32 {
	return c.aspect
}

func (c *Camera) SetAspectRatio(aspect float32) {
	c.aspect = aspect
	c.projectionDirty = true
}

func (c *Camera) Near() float32 {
	return c.near
}

func (c *Camera) SetNear(near float32) {
	c.near = near
	c.projectionDirty = true
}

func (c *Camera) Far() float32 {
	return c.far
}

func (c *Camera) SetFar(far float32) {
	c.far = far
	c.projectionDirty = true
}

func (c *Camera) Projection() math.Mat4 {
	if c.projectionDirty {
		c.projection = math.NewMat4Perspective(math.DegToRad(c.fov), c.aspect, c.near, c.far)
		c.projectionDirty = false
	}
	return c.projection
}

// View is the world view matrix of the owning entity, identity when detached.
func (c *Camera) View() math.Mat4 {
	if c.entity == nil {
		return math.NewMat4Identity()
	}
	return c.entity.Transform.WorldViewMatrix()
}

// Position is the camera's world position.
func (c *Camera) Position() math.Vec3 {
	if c.entity == nil {
		return math.NewVec3Zero()
	}
	return c.entity.Transform.WorldPosition()
}

func (c *Camera) ViewProjection() math.Mat4 {
	var stamp uint64
	if c.entity != nil {
		stamp = c.entity.Transform.WorldStamp()
	}
	if c.projectionDirty || !c.viewProjectionValid || stamp != c.viewProjectionStamp {
		c.viewProjection = c.Projection().Mul(c.View())
		c.viewProjectionStamp = stamp
		c.viewProjectionValid = true
	}
	return c.viewProjection
}
