package bgew

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func translateAffine(tx, ty float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, tx, ty}
}

func rotateAffine(rad float64) [6]float64 {
	sin, cos := math.Sincos(rad)
	return [6]float64{cos, sin, -sin, cos, 0, 0}
}

func scaleAffine(sx, sy float64) [6]float64 {
	return [6]float64{sx, 0, 0, sy, 0, 0}
}

// computeLocalTransform maps entity-local coordinates, where (0, 0) is the
// top-left corner of the zoomed bounds, into the parent's space.
//
//	Translate(X, Y) -> Translate(w/2, h/2) -> Rotate -> Translate(-w/2, -h/2)
func computeLocalTransform(e *Entity) [6]float64 {
	if e.rotation == 0 {
		return translateAffine(e.X, e.Y)
	}
	cx, cy := e.Width()/2, e.Height()/2
	sin, cos := math.Sincos(e.rotation)
	// Rotation about (cx, cy) followed by translation to (X, Y).
	tx := cx - cos*cx + sin*cy + e.X
	ty := cy - sin*cx - cos*cy + e.Y
	return [6]float64{cos, sin, -sin, cos, tx, ty}
}

// worldTransform composes the local transforms of e and every ancestor.
// Children of a container are positioned relative to the container's
// top-left corner.
func (e *Entity) worldTransform() [6]float64 {
	m := computeLocalTransform(e)
	for p := e.parent; p != nil; p = p.parent {
		m = multiplyAffine(computeLocalTransform(p), m)
	}
	return m
}

// WorldToLocal converts a board-space point to this entity's local space,
// where (0, 0) is the entity's top-left corner before rotation.
func (e *Entity) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(invertAffine(e.worldTransform()), wx, wy)
}

// LocalToWorld converts a local-space point to board space.
func (e *Entity) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(e.worldTransform(), lx, ly)
}
