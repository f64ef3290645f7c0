package frame

import "testing"

func TestROIValidateOutOfBounds(t *testing.T) {
	r := ROI{X: 5, Y: 5, W: 10, H: 10}
	if err := r.Validate(10, 10); err == nil {
		t.Fatal("expected ROIOutOfBounds error")
	}
}

func TestROIValidateOK(t *testing.T) {
	r := ROI{X: 0, Y: 0, W: 10, H: 10, QualityBoost: 20, FeatherWidth: 4}
	if err := r.Validate(10, 10); err != nil {
		t.Fatal(err)
	}
}

func TestROIDistanceMultiplierInside(t *testing.T) {
	r := ROI{X: 10, Y: 10, W: 20, H: 20, QualityBoost: 40, FeatherWidth: 5}
	got := r.DistanceMultiplier(15, 15)
	want := 1.0 / (1.0 + 40.0/10.0)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestROIDistanceMultiplierOutsideFeather(t *testing.T) {
	r := ROI{X: 10, Y: 10, W: 20, H: 20, QualityBoost: 40, FeatherWidth: 5}
	if got := r.DistanceMultiplier(0, 0); got != 1.0 {
		t.Fatalf("got %v, want 1.0", got)
	}
}

func TestROIDistanceMultiplierFeatherBand(t *testing.T) {
	r := ROI{X: 10, Y: 10, W: 20, H: 20, QualityBoost: 40, FeatherWidth: 4}
	got := r.DistanceMultiplier(8, 15) // 2 pixels outside on the x axis
	if got <= 1.0/(1.0+4.0) || got >= 1.0 {
		t.Fatalf("feathered multiplier %v should lie strictly between boosted and 1.0", got)
	}
}
