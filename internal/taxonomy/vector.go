// internal/taxonomy/vector.go

package taxonomy

import "math"

// Vector is a dense preference/feature vector laid out per Categories.
type Vector []float64

// NewVector returns a zero vector of the canonical size.
func NewVector() Vector {
	return make(Vector, vectorSize)
}

// Dot returns the dot product of v and other. Vectors of mismatched length
// are compared over the shorter prefix.
func (v Vector) Dot(other Vector) float64 {
	n := len(v)
	if len(other) < n {
		n = len(other)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += v[i] * other[i]
	}
	return sum
}

// Norm returns the Euclidean norm of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize returns a copy of v scaled to unit length. A zero vector is
// returned unchanged; callers must treat it as "no signal".
func (v Vector) Normalize() Vector {
	out := make(Vector, len(v))
	norm := v.Norm()
	if norm == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// IsZero reports whether every component of v is zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Cosine returns the cosine similarity of two vectors, or 0 when either
// has zero norm.
func Cosine(a, b Vector) float64 {
	na := a.Norm()
	nb := b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}
