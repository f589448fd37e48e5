package math

// Authoring space is right handed with its X axis pointing the opposite way
// of the engine's. The engine is left handed.

/**
 * @brief Returns the Euler angles of q in degrees, each in [0, 360).
 * Angles follow the engine convention: a rotation of Z degrees around
 * the Z axis, then X degrees around X, then Y degrees around Y.
 */
func (q Quaternion) EulerAngles() Vec3 {
	n := q.Normalize()

	// Rotation matrix terms, column-vector convention.
	r02 := 2.0 * (n.X*n.Z + n.Y*n.W)
	r10 := 2.0 * (n.X*n.Y + n.Z*n.W)
	r11 := 1.0 - 2.0*(n.X*n.X+n.Z*n.Z)
	r12 := 2.0 * (n.Y*n.Z - n.X*n.W)
	r22 := 1.0 - 2.0*(n.X*n.X+n.Y*n.Y)

	sx := Clamp(-r12, -1.0, 1.0)
	var x, y, z float32
	if kabs(sx) < 0.9999 {
		x = kasin(sx)
		y = katan2(r02, r22)
		z = katan2(r10, r11)
	} else {
		// Gimbal lock: only Y - Z (or Y + Z) is defined. Fold it into Y.
		r00 := 1.0 - 2.0*(n.Y*n.Y+n.Z*n.Z)
		r20 := 2.0 * (n.X*n.Z - n.Y*n.W)
		x = K_HALF_PI
		if sx < 0 {
			x = -K_HALF_PI
		}
		y = katan2(-r20, r00)
		z = 0
	}

	return Vec3{
		WrapDegrees(RadToDeg(x)),
		WrapDegrees(RadToDeg(y)),
		WrapDegrees(RadToDeg(z)),
	}
}

/**
 * @brief Builds a quaternion from Euler angles in degrees using the same
 * convention as EulerAngles.
 */
func NewQuatFromEuler(euler Vec3) Quaternion {
	qx := NewQuatFromAxisAngle(Vec3{1, 0, 0}, DegToRad(euler.X), false)
	qy := NewQuatFromAxisAngle(Vec3{0, 1, 0}, DegToRad(euler.Y), false)
	qz := NewQuatFromAxisAngle(Vec3{0, 0, 1}, DegToRad(euler.Z), false)
	return qy.Mul(qx).Mul(qz)
}

// AuthoringToEnginePosition flips the X axis.
func AuthoringToEnginePosition(position Vec3) Vec3 {
	return Vec3{-position.X, position.Y, position.Z}
}

// AuthoringToEngineEuler negates the Y and Z rotations. X is flipped twice,
// once for the axis direction and once for the handedness, so it stays.
func AuthoringToEngineEuler(euler Vec3) Vec3 {
	return Vec3{euler.X, -euler.Y, -euler.Z}
}

// AuthoringToEngineRotation converts an authored rotation and returns both
// the engine Euler angles and the matching quaternion.
func AuthoringToEngineRotation(rotation Quaternion) (Vec3, Quaternion) {
	euler := AuthoringToEngineEuler(rotation.EulerAngles())
	return euler, NewQuatFromEuler(euler)
}
