package math

import "github.com/go-gl/mathgl/mgl32"

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 *
 * @return A new identity matrix
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

// At returns the element at the given row and column.
func (mt Mat4) At(row, col int) float32 {
	return mt.Data[col*4+row]
}

/**
 * @brief Returns the product mt·other. Applied to a column vector, other acts first.
 *
 * @param other The right-hand matrix.
 * @return The result of the matrix multiplication.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out_matrix := Mat4{}
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			sum := float32(0)
			for i := 0; i < 4; i++ {
				sum += mt.Data[i*4+row] * other.Data[col*4+i]
			}
			out_matrix.Data[col*4+row] = sum
		}
	}
	return out_matrix
}

// MulVec4 returns mt·v.
func (mt Mat4) MulVec4(v Vec4) Vec4 {
	d := &mt.Data
	return Vec4{
		d[0]*v.X + d[4]*v.Y + d[8]*v.Z + d[12]*v.W,
		d[1]*v.X + d[5]*v.Y + d[9]*v.Z + d[13]*v.W,
		d[2]*v.X + d[6]*v.Y + d[10]*v.Z + d[14]*v.W,
		d[3]*v.X + d[7]*v.Y + d[11]*v.Z + d[15]*v.W,
	}
}

// TransformPoint applies mt to p with w=1.
func (mt Mat4) TransformPoint(p Vec3) Vec3 {
	return mt.MulVec4(p.ToVec4(1)).ToVec3()
}

// TransformDirection applies mt to d with w=0, ignoring translation.
func (mt Mat4) TransformDirection(d Vec3) Vec3 {
	return mt.MulVec4(d.ToVec4(0)).ToVec3()
}

/**
 * @brief Creates and returns a perspective matrix. Typically used to render 3d scenes.
 * Maps view space (looking down -Z) into OpenGL clip space.
 *
 * @param fov_radians The vertical field of view in radians.
 * @param aspect_ratio The aspect ratio.
 * @param near_clip The near clipping plane distance.
 * @param far_clip The far clipping plane distance.
 * @return A new perspective matrix.
 */
func NewMat4Perspective(fov_radians, aspect_ratio, near_clip, far_clip float32) Mat4 {
	half_tan_fov := ktan(fov_radians * 0.5)
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0 / (aspect_ratio * half_tan_fov)
	out_matrix.Data[5] = 1.0 / half_tan_fov
	out_matrix.Data[10] = -((far_clip + near_clip) / (far_clip - near_clip))
	out_matrix.Data[11] = -1.0
	out_matrix.Data[14] = -((2.0 * far_clip * near_clip) / (far_clip - near_clip))
	return out_matrix
}

/**
 * @brief Returns a transposed copy of the provided matrix (rows->colums)
 */
func (mt Mat4) Transposed() Mat4 {
	out_matrix := Mat4{}
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out_matrix.Data[row*4+col] = mt.Data[col*4+row]
		}
	}
	return out_matrix
}

/**
 * @brief Creates and returns an inverse of the provided matrix. A singular
 * matrix yields the zero matrix.
 */
func (mt Mat4) Inverse() Mat4 {
	return Mat4{Data: [16]float32(mgl32.Mat4(mt.Data).Inv())}
}

/**
 * @brief Creates and returns a translation matrix from the given position.
 */
func NewMat4Translation(position Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[12] = position.X
	out_matrix.Data[13] = position.Y
	out_matrix.Data[14] = position.Z
	return out_matrix
}

/**
 * @brief Returns a scale matrix using the provided scale.
 */
func NewMat4Scale(scale Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = scale.X
	out_matrix.Data[5] = scale.Y
	out_matrix.Data[10] = scale.Z
	return out_matrix
}

// NewMat4RotationX rotates about the world x axis.
func NewMat4RotationX(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()
	c := kcos(angle_radians)
	s := ksin(angle_radians)
	out_matrix.Data[5] = c
	out_matrix.Data[6] = s
	out_matrix.Data[9] = -s
	out_matrix.Data[10] = c
	return out_matrix
}

// NewMat4RotationY rotates about the world y axis.
func NewMat4RotationY(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()
	c := kcos(angle_radians)
	s := ksin(angle_radians)
	out_matrix.Data[0] = c
	out_matrix.Data[2] = -s
	out_matrix.Data[8] = s
	out_matrix.Data[10] = c
	return out_matrix
}

// NewMat4RotationZ rotates about the world z axis.
func NewMat4RotationZ(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()
	c := kcos(angle_radians)
	s := ksin(angle_radians)
	out_matrix.Data[0] = c
	out_matrix.Data[1] = s
	out_matrix.Data[4] = -s
	out_matrix.Data[5] = c
	return out_matrix
}

// NewMat4EulerXYZ composes Rx·Ry·Rz, the engine's fixed Euler order.
func NewMat4EulerXYZ(x_radians, y_radians, z_radians float32) Mat4 {
	rx := NewMat4RotationX(x_radians)
	ry := NewMat4RotationY(y_radians)
	rz := NewMat4RotationZ(z_radians)
	return rx.Mul(ry.Mul(rz))
}

// Translation returns the translation column.
func (mt Mat4) Translation() Vec3 {
	return Vec3{mt.Data[12], mt.Data[13], mt.Data[14]}
}

func (mt Mat4) Compare(other Mat4, tolerance float32) bool {
	for i := 0; i < 16; i++ {
		if !FloatEqual(mt.Data[i], other.Data[i], tolerance) {
			return false
		}
	}
	return true
}

// eulerLockEpsilon is how close |sin(beta)| may get to 1 before the
// extraction treats the rotation as gimbal locked.
const eulerLockEpsilon float32 = 1e-5

/**
 * @brief Extracts x, y, z angles (radians) from the rotation block assuming
 * the Rx·Ry·Rz order. When the y angle sits at +-90 degrees the x and z
 * angles are coupled; the x angle is then taken from lastRoll and z absorbs
 * the remainder. The second return value reports that case.
 *
 * Intended for display only: it does not round-trip for every input.
 */
func (mt Mat4) EulerXYZ(lastRoll float32) (Vec3, bool) {
	r00 := mt.At(0, 0)
	r01 := mt.At(0, 1)
	r02 := Clamp(mt.At(0, 2), -1, 1)
	r10 := mt.At(1, 0)
	r11 := mt.At(1, 1)
	r12 := mt.At(1, 2)
	r22 := mt.At(2, 2)

	beta := kasin(r02)
	if 1-kabs(r02) < eulerLockEpsilon {
		// cos(beta) ~ 0
		sum := katan2(r10, r11)
		if r02 > 0 {
			// beta = +90: r10 = sin(x+z), r11 = cos(x+z)
			return Vec3{lastRoll, beta, sum - lastRoll}, true
		}
		// beta = -90: r10 = sin(z-x), r11 = cos(z-x)
		return Vec3{lastRoll, beta, sum + lastRoll}, true
	}

	alpha := katan2(-r12, r22)
	gamma := katan2(-r01, r00)
	return Vec3{alpha, beta, gamma}, false
}
