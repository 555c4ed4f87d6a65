package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestObservablyEqualTolerance(t *testing.T) {
	a := PlayerState{Pos: mgl32.Vec3{1, 0, 2}, Vel: mgl32.Vec3{300, 0, 0}, Yaw: 45}

	b := a
	b.Pos[0] += 1e-6
	b.Vel[2] -= 1e-6
	if !a.ObservablyEqual(b) {
		t.Fatal("float noise below tolerance treated as observable")
	}

	moved := a
	moved.Pos[0] += 0.01
	if a.ObservablyEqual(moved) {
		t.Fatal("moved state treated as equal")
	}

	turned := a
	turned.Yaw = 90
	if a.ObservablyEqual(turned) {
		t.Fatal("turned state treated as equal")
	}

	faster := a
	faster.Vel[0] += 1
	if a.ObservablyEqual(faster) {
		t.Fatal("faster state treated as equal")
	}
}

func TestWithFrameTimeTruncatesToMilliseconds(t *testing.T) {
	p := DefaultParameters()
	if ft := p.WithFrameTime("0.0109").FrameTime; ft != 0.010 {
		t.Fatalf("frame time %v, want 0.010", ft)
	}
	if ft := p.WithFrameTime("bogus").FrameTime; ft != 0 {
		t.Fatalf("unparseable frame time mapped to %v", ft)
	}
}
