package math

/**
 * @brief Creates an identity quaternion.
 *
 * @return An identity quaternion.
 */
func NewQuatIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1.0}
}

/**
 * @brief Returns the normal of the provided quaternion.
 */
func (q Quaternion) Normal() float32 {
	return ksqrt(
		q.X*q.X +
			q.Y*q.Y +
			q.Z*q.Z +
			q.W*q.W)
}

/**
 * @brief Returns a normalized copy of the provided quaternion.
 */
func (q Quaternion) Normalize() Quaternion {
	normal := q.Normal()
	if normal == 0 {
		return NewQuatIdentity()
	}
	return Quaternion{
		q.X / normal,
		q.Y / normal,
		q.Z / normal,
		q.W / normal}
}

/**
 * @brief Returns the conjugate of the provided quaternion. That is,
 * The x, y and z elements are negated, but the w element is untouched.
 */
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, q.W}
}

/**
 * @brief Returns an inverse copy of the provided quaternion.
 */
func (q Quaternion) Inverse() Quaternion {
	c := q.Conjugate()
	return c.Normalize()
}

/**
 * @brief Hamilton product q*other. Rotating by the result equals rotating
 * by other first and then by q.
 *
 * @param other The right-hand quaternion.
 * @return The multiplied quaternion.
 */
func (q Quaternion) Mul(other Quaternion) Quaternion {
	out_quaternion := Quaternion{}

	out_quaternion.X = q.X*other.W +
		q.Y*other.Z -
		q.Z*other.Y +
		q.W*other.X

	out_quaternion.Y = -q.X*other.Z +
		q.Y*other.W +
		q.Z*other.X +
		q.W*other.Y

	out_quaternion.Z = q.X*other.Y -
		q.Y*other.X +
		q.Z*other.W +
		q.W*other.Z

	out_quaternion.W = -q.X*other.X -
		q.Y*other.Y -
		q.Z*other.Z +
		q.W*other.W

	return out_quaternion
}

/**
 * @brief Calculates the dot product of the provided quaternions.
 */
func (q Quaternion) Dot(other Quaternion) float32 {
	return q.X*other.X +
		q.Y*other.Y +
		q.Z*other.Z +
		q.W*other.W
}

/**
 * @brief Creates a rotation matrix from the given quaternion. The upper 3x3
 * block uses the 1-2y²-2z² family of formulas; translation is zero.
 *
 * @param q The quaternion to be used. It is normalized first.
 * @return A rotation matrix.
 */
func (q Quaternion) ToMat4() Mat4 {
	out_matrix := NewMat4Identity()

	n := q.Normalize()

	xx, yy, zz := n.X*n.X, n.Y*n.Y, n.Z*n.Z
	xy, xz, yz := n.X*n.Y, n.X*n.Z, n.Y*n.Z
	wx, wy, wz := n.W*n.X, n.W*n.Y, n.W*n.Z

	// column 0
	out_matrix.Data[0] = 1.0 - 2.0*yy - 2.0*zz
	out_matrix.Data[1] = 2.0*xy + 2.0*wz
	out_matrix.Data[2] = 2.0*xz - 2.0*wy
	// column 1
	out_matrix.Data[4] = 2.0*xy - 2.0*wz
	out_matrix.Data[5] = 1.0 - 2.0*xx - 2.0*zz
	out_matrix.Data[6] = 2.0*yz + 2.0*wx
	// column 2
	out_matrix.Data[8] = 2.0*xz + 2.0*wy
	out_matrix.Data[9] = 2.0*yz - 2.0*wx
	out_matrix.Data[10] = 1.0 - 2.0*xx - 2.0*yy

	return out_matrix
}

/**
 * @brief Creates a quaternion from the given axis and angle.
 *
 * @param axis The axis of rotation. Must already be unit length.
 * @param angle The angle of rotation in radians.
 * @param normalize Indicates if the quaternion should be normalized.
 * @return A new quaternion.
 */
func NewQuatFromAxisAngle(axis Vec3, angle float32, normalize bool) Quaternion {
	half_angle := 0.5 * angle
	s := ksin(half_angle)
	c := kcos(half_angle)

	q := Quaternion{s * axis.X, s * axis.Y, s * axis.Z, c}
	if normalize {
		return q.Normalize()
	}
	return q
}

/**
 * @brief Creates a quaternion from x, y, z angles in degrees as Qx*(Qy*Qz):
 * z is applied first, then y, then x, the same as Rx·Ry·Rz.
 *
 * @param degrees The euler angles in degrees.
 * @return A new quaternion.
 */
func NewQuatFromEuler(degrees Vec3) Quaternion {
	qx := NewQuatFromAxisAngle(NewVec3Right(), DegToRad(degrees.X), false)
	qy := NewQuatFromAxisAngle(NewVec3Up(), DegToRad(degrees.Y), false)
	qz := NewQuatFromAxisAngle(NewVec3Forward(), DegToRad(degrees.Z), false)
	return qx.Mul(qy.Mul(qz))
}

// Rotate applies the rotation to v.
func (q Quaternion) Rotate(v Vec3) Vec3 {
	p := Quaternion{v.X, v.Y, v.Z, 0}
	r := q.Mul(p).Mul(q.Conjugate())
	return Vec3{r.X, r.Y, r.Z}
}

func (q Quaternion) Compare(other Quaternion, tolerance float32) bool {
	return Vec4(q).Compare(Vec4(other), tolerance)
}
