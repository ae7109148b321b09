package physics

import (
	"math/rand"
	"testing"
)

func TestCollidesFixedCases(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"overlapping corner", NewRect(0, 0, 5, 5), NewRect(3, 3, 5, 5), true},
		{"diagonal gap", NewRect(0, 0, 5, 5), NewRect(6, 6, 5, 5), false},
		{"below", NewRect(0, 0, 5, 5), NewRect(2, 10, 5, 5), false},
		{"touching edge", NewRect(0, 0, 5, 5), NewRect(5, 0, 5, 5), true},
		{"contained", NewRect(0, 0, 10, 10), NewRect(2, 2, 1, 1), true},
		{"point inside", NewRect(4, 4, 1, 1), NewRect(0, 0, 10, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collides(tt.a, tt.b); got != tt.want {
				t.Errorf("Collides(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Collides(tt.b, tt.a); got != tt.want {
				t.Errorf("Collides(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestCollidesSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randRect := func() Rect {
		return NewRect(rng.Float64()*100-50, rng.Float64()*100-50, rng.Float64()*40, rng.Float64()*40)
	}

	for i := 0; i < 5000; i++ {
		a, b := randRect(), randRect()
		if Collides(a, b) != Collides(b, a) {
			t.Fatalf("asymmetric result for %v and %v", a, b)
		}
	}
}

func TestTranslate(t *testing.T) {
	r := NewRect(1, 2, 3, 4).Translate(10, -2)
	if r.X != 11 || r.Y != 0 || r.W != 3 || r.H != 4 {
		t.Fatalf("unexpected translated rect %v", r)
	}
	if r.Right() != 14 || r.Bottom() != 4 {
		t.Fatalf("edges wrong: right=%v bottom=%v", r.Right(), r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp low = %v", got)
	}
	if got := Clamp(30, 0, 10); got != 10 {
		t.Errorf("Clamp high = %v", got)
	}
	if got := ClampInt(7, 0, 5); got != 5 {
		t.Errorf("ClampInt = %v", got)
	}
}
