package render

import (
	"math"
	"testing"

	"volvis-renderer/internal/camera"
	"volvis-renderer/internal/mathutil"
	"volvis-renderer/internal/transfer"
	"volvis-renderer/internal/volume"
)

const testVolumeSize = 32

func testVolumeCenter() mathutil.Vec3 {
	return mathutil.Vec3{1, 1, 1}.Scale(float64(testVolumeSize-1) / 2)
}

// newTestRenderer builds a renderer looking at the volume center from
// +z, far enough back that the whole volume is in view.
func newTestRenderer(t *testing.T, vol *volume.Volume, cfg Config) *Renderer {
	t.Helper()

	center := testVolumeCenter()
	cam, err := camera.New(center.Add(mathutil.Vec3{0, 0, 100}), center, mathutil.Vec3{0, 1, 0}, 45, float64(cfg.Width)/float64(cfg.Height))
	if err != nil {
		t.Fatalf("camera.New: %v", err)
	}

	r, err := New(vol, volume.NewGradientVolume(vol), cam, cfg)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return r
}

func mustSphere(t *testing.T) *volume.Volume {
	t.Helper()
	vol, err := volume.SolidSphere(testVolumeSize, 12.8)
	if err != nil {
		t.Fatalf("SolidSphere: %v", err)
	}
	return vol
}

func centerPixel(r *Renderer) mathutil.Vec4 {
	fb := r.FrameBuffer()
	return fb.At(fb.Width/2, fb.Height/2)
}

func TestTraceMIP_UniformZeroVolume(t *testing.T) {
	vol, err := volume.Uniform(testVolumeSize, 0)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	r := newTestRenderer(t, vol, Config{Width: 16, Height: 16, Mode: ModeMIP, StepSize: 1, Workers: 1})
	r.Render()

	// Center ray hits the volume and normalizes to black, alpha 1.
	if got := centerPixel(r); got != (mathutil.Vec4{0, 0, 0, 1}) {
		t.Errorf("center pixel = %v, want {0 0 0 1}", got)
	}
	// Corner rays miss and stay at the zero-filled background.
	if got := r.FrameBuffer().At(0, 0); got != (mathutil.Vec4{}) {
		t.Errorf("corner pixel = %v, want zero background", got)
	}
}

func TestTraceMIP_FinerStepsNeverDecreaseMaximum(t *testing.T) {
	vol := mustSphere(t)

	coarse := newTestRenderer(t, vol, Config{Width: 9, Height: 9, Mode: ModeMIP, StepSize: 2, Workers: 1})
	coarse.Render()
	fine := newTestRenderer(t, vol, Config{Width: 9, Height: 9, Mode: ModeMIP, StepSize: 0.25, Workers: 1})
	fine.Render()

	for i := range fine.FrameBuffer().Pix {
		c := coarse.FrameBuffer().Pix[i][0]
		f := fine.FrameBuffer().Pix[i][0]
		if f < c-1e-9 {
			t.Fatalf("pixel %d: finer sampling decreased the maximum: %g < %g", i, f, c)
		}
	}
}

func TestTraceSlice_UniformVolume(t *testing.T) {
	vol, err := volume.Uniform(testVolumeSize, 70)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	r := newTestRenderer(t, vol, Config{Width: 16, Height: 16, Mode: ModeSlice, StepSize: 1, Workers: 1})
	r.Render()

	// On the slicing plane the sample equals the volume maximum.
	if got := centerPixel(r); got != (mathutil.Vec4{1, 1, 1, 1}) {
		t.Errorf("center pixel = %v, want {1 1 1 1}", got)
	}
}

func TestTraceSlice_RayParallelToPlane(t *testing.T) {
	vol := mustSphere(t)
	r := newTestRenderer(t, vol, Config{Width: 4, Height: 4, Mode: ModeSlice, StepSize: 1, Workers: 1})

	// Perpendicular to the plane normal: the intersection distance is
	// infinite and the sample must fall back to background black.
	ray := Ray{Origin: mathutil.Vec3{0, 0, 0}, Dir: mathutil.Vec3{1, 0, 0}}
	planeNormal := mathutil.Vec3{0, 0, 1}
	got := r.traceSlice(ray, testVolumeCenter(), planeNormal)
	if got != (mathutil.Vec4{0, 0, 0, 1}) {
		t.Errorf("parallel ray = %v, want opaque black", got)
	}
}

func TestTraceIso_ValueAboveFieldMaximum(t *testing.T) {
	vol := mustSphere(t)
	r := newTestRenderer(t, vol, Config{Width: 16, Height: 16, Mode: ModeIso, StepSize: 1, IsoValue: 200, Workers: 1})
	r.Render()

	for i, px := range r.FrameBuffer().Pix {
		if px != (mathutil.Vec4{}) && px != (mathutil.Vec4{0, 0, 0, 1}) {
			t.Fatalf("pixel %d = %v, want background", i, px)
		}
	}
	if got := centerPixel(r); got != (mathutil.Vec4{0, 0, 0, 1}) {
		t.Errorf("center pixel = %v, want opaque black (hit, no crossing)", got)
	}
}

func TestTraceIso_FlatColorWithoutShading(t *testing.T) {
	vol := mustSphere(t)
	r := newTestRenderer(t, vol, Config{Width: 16, Height: 16, Mode: ModeIso, StepSize: 1, IsoValue: 40, Workers: 1})
	r.Render()

	want := mathutil.FromRGB(isoColor, 1)
	if got := centerPixel(r); got != want {
		t.Errorf("center pixel = %v, want flat iso color %v", got, want)
	}
}

func TestTraceIso_ShadedSurface(t *testing.T) {
	vol := mustSphere(t)
	r := newTestRenderer(t, vol, Config{Width: 16, Height: 16, Mode: ModeIso, StepSize: 1, IsoValue: 40, Shading: true, Workers: 1})
	r.Render()

	got := centerPixel(r)
	if got[3] != 1 {
		t.Fatalf("alpha = %g, want 1", got[3])
	}
	for c := 0; c < 3; c++ {
		if math.IsNaN(got[c]) || got[c] < 0 {
			t.Fatalf("channel %d = %g, want finite non-negative", c, got[c])
		}
	}
	// The sphere gradient at the front face points at the camera, so the
	// diffuse term must contribute above the ambient floor.
	ambientOnly := isoColor.Mul(isoColor).Scale(phongAmbient)
	if got[0] <= ambientOnly[0] {
		t.Errorf("red = %g, want above ambient-only %g", got[0], ambientOnly[0])
	}
}

func TestBisect_RefinesCrossing(t *testing.T) {
	vol := mustSphere(t)
	r := newTestRenderer(t, vol, Config{Width: 4, Height: 4, Mode: ModeIso, StepSize: 1, IsoValue: 40, Workers: 1})

	center := testVolumeCenter()
	ray := Ray{Origin: mathutil.Vec3{center[0], center[1], -10}, Dir: mathutil.Vec3{0, 0, 1}}
	if !(Bounds{Upper: mathutil.Vec3{31, 31, 31}}).IntersectRay(&ray) {
		t.Fatal("center ray must intersect the volume")
	}

	// Find the first step crossing the iso value, then refine.
	const iso = 40.0
	for t0 := ray.TMin; t0 <= ray.TMax; t0++ {
		if r.volume.SampleInterpolated(ray.At(t0)) >= iso {
			refined := r.bisect(ray, t0-1, t0, iso)
			if refined < t0-1 || refined > t0 {
				t.Fatalf("refined t %g outside bracket [%g, %g]", refined, t0-1, t0)
			}
			val := r.volume.SampleInterpolated(ray.At(refined))
			if math.Abs(val-iso) > 0.05 {
				t.Fatalf("refined sample %g, want within 0.05 of %g", val, iso)
			}
			return
		}
	}
	t.Fatal("no iso crossing found along the center ray")
}

func TestBisect_TerminatesWithoutBracket(t *testing.T) {
	vol, err := volume.Uniform(testVolumeSize, 0)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	r := newTestRenderer(t, vol, Config{Width: 4, Height: 4, Mode: ModeIso, StepSize: 1, IsoValue: 50, Workers: 1})

	ray := Ray{Origin: mathutil.Vec3{15.5, 15.5, -10}, Dir: mathutil.Vec3{0, 0, 1}}
	got := r.bisect(ray, 10, 11, 50) // no crossing anywhere in the field
	if got < 10 || got > 11 {
		t.Errorf("bisect returned %g, want best estimate within [10, 11]", got)
	}
}

func compositeConfig(mode Mode, shading bool) Config {
	return Config{
		Width: 16, Height: 16, Mode: mode, StepSize: 1, Shading: shading, Workers: 1,
		TF1D: transfer.Grayscale(0, 100),
		TF2D: transfer.Tent2D{Intensity: 50, Radius: 40, Color: mathutil.Vec4{0.9, 0.4, 0.2, 0.6}},
	}
}

func TestTraceComposite_AlphaBounded(t *testing.T) {
	for _, shading := range []bool{false, true} {
		r := newTestRenderer(t, mustSphere(t), compositeConfig(ModeComposite, shading))
		r.Render()

		for i, px := range r.FrameBuffer().Pix {
			if px[3] < 0 || px[3] > 1 {
				t.Fatalf("shading=%v pixel %d: alpha %g outside [0,1]", shading, i, px[3])
			}
			for c := 0; c < 3; c++ {
				if math.IsNaN(px[c]) || px[c] < 0 {
					t.Fatalf("shading=%v pixel %d channel %d: %g", shading, i, c, px[c])
				}
			}
		}

		if got := centerPixel(r); got[3] == 0 {
			t.Errorf("shading=%v: center ray through the sphere accumulated no opacity", shading)
		}
	}
}

func TestTraceTF2D_AlphaBoundedByCutoff(t *testing.T) {
	r := newTestRenderer(t, mustSphere(t), compositeConfig(ModeTF2D, false))
	r.Render()

	for i, px := range r.FrameBuffer().Pix {
		if px[3] < 0 || px[3] > 1 {
			t.Fatalf("pixel %d: alpha %g outside [0,1]", i, px[3])
		}
	}
	if got := centerPixel(r); got[3] == 0 {
		t.Error("center ray through the shell gradient accumulated no opacity")
	}
}

func TestPhongShade(t *testing.T) {
	color := mathutil.Vec3{0.8, 0.8, 0.2}
	base := color.Mul(color)

	t.Run("Normal facing the light", func(t *testing.T) {
		light := mathutil.Vec3{0, 0, 1}
		grad := volume.GradientSample{Dir: mathutil.Vec3{0, 0, 5}, Magnitude: 5}
		view := mathutil.Vec3{1, 0, 0} // perpendicular: reflection contributes nothing

		got := phongShade(color, grad, light, view)
		want := base.Scale(phongAmbient + phongDiffuse)
		if got.Sub(want).Len() > 1e-12 {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("Back-facing gradient still lights up", func(t *testing.T) {
		light := mathutil.Vec3{0, 0, 1}
		grad := volume.GradientSample{Dir: mathutil.Vec3{0, 0, -5}, Magnitude: 5}
		view := mathutil.Vec3{1, 0, 0}

		got := phongShade(color, grad, light, view)
		if got[0] <= base[0]*phongAmbient {
			t.Errorf("diffuse term vanished for a back-facing gradient: %v", got)
		}
	})

	t.Run("Negative reflection cosine clamps to zero", func(t *testing.T) {
		light := mathutil.Vec3{0, 0, 1}
		grad := volume.GradientSample{Dir: mathutil.Vec3{0, 0, 1}, Magnitude: 1}
		view := mathutil.Vec3{0, 0, -1} // reflection == light, cos(reflection, view) == -1

		got := phongShade(color, grad, light, view)
		want := base.Scale(phongAmbient + phongDiffuse)
		for c := 0; c < 3; c++ {
			if math.IsNaN(got[c]) {
				t.Fatalf("NaN in shaded color %v", got)
			}
		}
		if got.Sub(want).Len() > 1e-12 {
			t.Errorf("got %v, want specular clamped to %v", got, want)
		}
	})
}
