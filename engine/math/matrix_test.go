package math

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestMat4MulMatchesMathgl(t *testing.T) {
	a := NewMat4Translation(NewVec3(1, 2, 3)).Mul(NewMat4RotationY(0.3))
	b := NewMat4Scale(NewVec3(2, 3, 4)).Mul(NewMat4RotationX(-1.1))

	ref := mgl32.Mat4(a.Data).Mul4(mgl32.Mat4(b.Data))
	got := a.Mul(b)
	if !got.Compare(Mat4{Data: [16]float32(ref)}, tolerance) {
		t.Fatalf("got %v, want %v", got.Data, ref)
	}
}

func TestMat4RotationsMatchMathgl(t *testing.T) {
	tests := []struct {
		name string
		got  Mat4
		want mgl32.Mat4
	}{
		{"x", NewMat4RotationX(0.7), mgl32.HomogRotate3DX(0.7)},
		{"y", NewMat4RotationY(0.7), mgl32.HomogRotate3DY(0.7)},
		{"z", NewMat4RotationZ(0.7), mgl32.HomogRotate3DZ(0.7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Compare(Mat4{Data: [16]float32(tt.want)}, tolerance) {
				t.Errorf("got %v, want %v", tt.got.Data, tt.want)
			}
		})
	}
}

func TestMat4Perspective(t *testing.T) {
	got := NewMat4Perspective(DegToRad(60), 16.0/9.0, 0.01, 1000)
	want := mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.01, 1000)
	if !got.Compare(Mat4{Data: [16]float32(want)}, 1e-4) {
		t.Fatalf("got %v, want %v", got.Data, want)
	}
}

func TestMat4Inverse(t *testing.T) {
	m := NewMat4Translation(NewVec3(4, -2, 7)).Mul(NewMat4EulerXYZ(0.2, 0.4, 0.6)).Mul(NewMat4Scale(NewVec3(2, 2, 0.5)))
	got := m.Mul(m.Inverse())
	if !got.Compare(NewMat4Identity(), 1e-4) {
		t.Fatalf("m*m^-1 = %v", got.Data)
	}
}

func TestMat4TransformPoint(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	if got := m.TransformPoint(NewVec3Zero()); !got.Compare(NewVec3(1, 2, 3), tolerance) {
		t.Errorf("point: got %+v", got)
	}
	if got := m.TransformDirection(NewVec3Up()); !got.Compare(NewVec3Up(), tolerance) {
		t.Errorf("direction must ignore translation: got %+v", got)
	}
}

func TestEulerXYZRoundTrip(t *testing.T) {
	tests := []Vec3{
		{0, 0, 0},
		{30, 0, 0},
		{10, 20, 30},
		{-45, 60, -120},
		{170, -80, 5},
	}
	for _, deg := range tests {
		m := NewQuatFromEuler(deg).ToMat4()
		rad, locked := m.EulerXYZ(0)
		if locked {
			t.Fatalf("%+v: unexpected gimbal lock", deg)
		}
		back := NewQuatFromEuler(Vec3{RadToDeg(rad.X), RadToDeg(rad.Y), RadToDeg(rad.Z)}).ToMat4()
		if !back.Compare(m, 1e-4) {
			t.Errorf("%+v: extracted %+v does not rebuild the same rotation", deg, rad)
		}
	}
}

func TestEulerXYZGimbalLock(t *testing.T) {
	lastRoll := DegToRad(25)
	for _, y := range []float32{90, -90} {
		m := NewQuatFromAxisAngle(NewVec3Up(), DegToRad(y), false).ToMat4()
		got, locked := m.EulerXYZ(lastRoll)
		if !locked {
			t.Fatalf("y=%v: expected gimbal lock", y)
		}
		if got.X != lastRoll {
			t.Errorf("y=%v: roll %v, want %v", y, got.X, lastRoll)
		}
		if math32.IsNaN(got.Y) || math32.IsNaN(got.Z) {
			t.Errorf("y=%v: NaN in %+v", y, got)
		}
		back := NewMat4EulerXYZ(got.X, got.Y, got.Z)
		if !back.Compare(m, 1e-3) {
			t.Errorf("y=%v: %+v does not rebuild the rotation", y, got)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("int clamp high: %v", got)
	}
	if got := Clamp(float32(-0.5), 0, 1); got != 0 {
		t.Errorf("float clamp low: %v", got)
	}
	if got := Clamp(0.25, 0, 1); got != 0.25 {
		t.Errorf("float clamp pass: %v", got)
	}
}
