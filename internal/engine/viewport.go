package engine

import "math"

// Matrix2D represents a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a uniform scale matrix.
func Scale(s float64) Matrix2D {
	return Matrix2D{s, 0, 0, s, 0, 0}
}

// Multiply multiplies this matrix by another: result = m * other.
// This applies 'other' first, then 'm'.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// TransformPoint applies the matrix to a point.
func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Determinant returns the determinant of the matrix.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix, or Identity if not invertible.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}
	invDet := 1.0 / det
	return Matrix2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}
}

// Zoom bounds for the viewport.
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// Viewport maps between screen (viewport pixel) coordinates and canvas
// logical coordinates: canvas = (screen - translate) / zoom. Every
// cross-space conversion in the editor routes through here: pan and zoom
// can change between the start and end of a single gesture, and a single
// conversion point is what keeps that correct.
type Viewport struct {
	Zoom       float64 `json:"zoom"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

// NewViewport returns an identity viewport (zoom 1, no pan).
func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// matrix returns the canvas→screen transform: Translate * Scale.
func (v Viewport) matrix() Matrix2D {
	return Translate(v.TranslateX, v.TranslateY).Multiply(Scale(v.Zoom))
}

// ScreenToCanvas converts a screen point to canvas space.
func (v Viewport) ScreenToCanvas(x, y float64) Point {
	cx, cy := v.matrix().Invert().TransformPoint(x, y)
	return Point{X: cx, Y: cy}
}

// CanvasToScreen converts a canvas point to screen space.
func (v Viewport) CanvasToScreen(x, y float64) Point {
	sx, sy := v.matrix().TransformPoint(x, y)
	return Point{X: sx, Y: sy}
}

// CanvasRectToScreen converts a canvas-space rect to screen space.
func (v Viewport) CanvasRectToScreen(r Rect) Rect {
	tl := v.CanvasToScreen(r.X, r.Y)
	return Rect{X: tl.X, Y: tl.Y, Width: r.Width * v.Zoom, Height: r.Height * v.Zoom}
}

// PanBy shifts the viewport by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.TranslateX += dx
	v.TranslateY += dy
}

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(zoom float64) {
	v.Zoom = clampZoom(zoom)
}

// ZoomAt sets the zoom level while keeping the canvas point under the
// given screen anchor fixed on screen.
func (v *Viewport) ZoomAt(zoom, anchorX, anchorY float64) {
	zoom = clampZoom(zoom)
	pivot := v.ScreenToCanvas(anchorX, anchorY)
	v.Zoom = zoom
	v.TranslateX = anchorX - pivot.X*zoom
	v.TranslateY = anchorY - pivot.Y*zoom
}
