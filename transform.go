package sketchpad

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// rotationAbout returns the affine matrix rotating points by deg degrees
// (clockwise on screen, since Y grows downward) around (cx, cy).
//
//	Translate(cx, cy) * Rotate(deg) * Translate(-cx, -cy)
func rotationAbout(cx, cy, deg float64) [6]float64 {
	if deg == 0 {
		return identityTransform
	}
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return [6]float64{
		cos, sin,
		-sin, cos,
		cx - cos*cx + sin*cy,
		cy - sin*cx - cos*cy,
	}
}

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
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
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

// rotateAround rotates p by deg degrees about center.
func rotateAround(p, center Vec2, deg float64) Vec2 {
	x, y := transformPoint(rotationAbout(center.X, center.Y, deg), p.X, p.Y)
	return Vec2{x, y}
}

// angleDeg returns the angle of the vector from center to p in degrees.
func angleDeg(p, center Vec2) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X) * 180 / math.Pi
}

// normalizeDeg maps any angle into [0, 360).
func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// --- Component frame conversion ---

// localMatrix is the matrix taking world points into the component's local
// (unrotated) frame. The local frame shares world units and origin; only the
// rotation about the component center is removed.
func (c *Component) localMatrix() [6]float64 {
	ctr := c.Center()
	return rotationAbout(ctr.X, ctr.Y, -c.Rotation)
}

// WorldToLocal converts a world-space point into the component's unrotated
// frame.
func (c *Component) WorldToLocal(p Vec2) Vec2 {
	x, y := transformPoint(c.localMatrix(), p.X, p.Y)
	return Vec2{x, y}
}

// LocalToWorld converts a point in the component's unrotated frame back into
// world space.
func (c *Component) LocalToWorld(p Vec2) Vec2 {
	x, y := transformPoint(invertAffine(c.localMatrix()), p.X, p.Y)
	return Vec2{x, y}
}

// ScreenMatrix is the matrix taking points in the component's local frame
// straight to screen pixels through v.
func (c *Component) ScreenMatrix(v *Viewport) [6]float64 {
	return multiplyAffine(v.Matrix(), invertAffine(c.localMatrix()))
}

// Corners returns the component's four corners in world space, clockwise
// from the top-left.
func (c *Component) Corners() [4]Vec2 {
	b := c.Bounds()
	return [4]Vec2{
		c.LocalToWorld(Vec2{b.X, b.Y}),
		c.LocalToWorld(Vec2{b.X + b.Width, b.Y}),
		c.LocalToWorld(Vec2{b.X + b.Width, b.Y + b.Height}),
		c.LocalToWorld(Vec2{b.X, b.Y + b.Height}),
	}
}

// AABB returns the axis-aligned world bounding box of the rotated component.
func (c *Component) AABB() Rect {
	pts := c.Corners()
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ellipseSegments is the polygon resolution used to approximate circles.
const ellipseSegments = 48

// Outline returns the component's silhouette as a closed polygon in world
// space: its four corners, or a polygon approximating the inscribed ellipse
// for circles.
func (c *Component) Outline() []Vec2 {
	if c.Kind != KindCircle {
		pts := c.Corners()
		return pts[:]
	}
	b := c.Bounds()
	ctr := b.Center()
	rx, ry := b.Width/2, b.Height/2
	pts := make([]Vec2, ellipseSegments)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / ellipseSegments)
		pts[i] = c.LocalToWorld(Vec2{ctr.X + rx*cos, ctr.Y + ry*sin})
	}
	return pts
}
