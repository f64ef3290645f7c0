package codec

import (
	"testing"

	"github.com/jxlgo/jxl/internal/vardct"
)

func gradientPlane(w, h int) []float64 {
	plane := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			plane[y*w+x] = float64(x*8 + y*4)
		}
	}
	return plane
}

func maxAbsDiff(a, b []float64) float64 {
	var max float64
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}

func TestVarDCTChannelRoundTripSmooth(t *testing.T) {
	const w, h = 16, 16
	plane := gradientPlane(w, h)

	res, _, err := EncodeVarDCTChannel(plane, w, h, vardct.Luma, 1.0, false, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	decoded, pw, ph, _, err := DecodeVarDCTChannel(res.Payload, vardct.Luma, 1.0, false, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if pw != res.PaddedW || ph != res.PaddedH {
		t.Fatalf("padded dims = %dx%d, want %dx%d", pw, ph, res.PaddedW, res.PaddedH)
	}

	cropped := vardct.CropFromBlock(decoded, pw, w, h)
	if d := maxAbsDiff(plane, cropped); d > 64 {
		t.Fatalf("max reconstruction error %v exceeds distance-1.0 tolerance", d)
	}
}

// A flat plane concentrates all energy in DC, so adaptive
// quantization's coarsest factor still reconstructs within half its
// DC step. This fails loudly if the decoder's matrix ever diverges
// from the activity-scaled one the encoder quantized with.
func TestVarDCTChannelAdaptiveRoundTripFlat(t *testing.T) {
	const w, h = 16, 16
	plane := make([]float64, w*h)
	for i := range plane {
		plane[i] = 128
	}

	res, _, err := EncodeVarDCTChannel(plane, w, h, vardct.Luma, 1.0, true, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	decoded, pw, _, _, err := DecodeVarDCTChannel(res.Payload, vardct.Luma, 1.0, true, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	cropped := vardct.CropFromBlock(decoded, pw, w, h)
	if d := maxAbsDiff(plane, cropped); d > 16 {
		t.Fatalf("flat adaptive block error %v, want <= half the scaled DC step", d)
	}
}

// Chroma proportional to luma is exactly what CfL models: the
// residual collapses toward zero and the decoder rebuilds chroma from
// the luma it already decoded.
func TestVarDCTChannelCfLRoundTrip(t *testing.T) {
	const w, h = 16, 16
	luma := gradientPlane(w, h)
	chroma := make([]float64, len(luma))
	copy(chroma, luma)

	lumaRes, lumaAC, err := EncodeVarDCTChannel(luma, w, h, vardct.Luma, 1.0, false, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	chromaRes, _, err := EncodeVarDCTChannel(chroma, w, h, vardct.Chroma, 1.0, false, nil, lumaAC)
	if err != nil {
		t.Fatal(err)
	}

	_, _, _, decodedLumaAC, err := DecodeVarDCTChannel(lumaRes.Payload, vardct.Luma, 1.0, false, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	decodedChroma, pw, _, _, err := DecodeVarDCTChannel(chromaRes.Payload, vardct.Chroma, 1.0, false, nil, decodedLumaAC)
	if err != nil {
		t.Fatal(err)
	}
	cropped := vardct.CropFromBlock(decodedChroma, pw, w, h)
	if d := maxAbsDiff(chroma, cropped); d > 96 {
		t.Fatalf("chroma-from-luma reconstruction error %v too large", d)
	}
}

func TestModularPlaneRoundTripANS(t *testing.T) {
	const w, h = 13, 9
	p := NewPlane(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Data[y*w+x] = int32((x*37 + y*91) % 256)
		}
	}

	payload, err := EncodeModularPlane(p, true, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeModularPlane(payload, w, h, 8, false)
	if err != nil {
		t.Fatal(err)
	}
	for i := range p.Data {
		if got.Data[i] != p.Data[i] {
			t.Fatalf("sample %d: got %d, want %d", i, got.Data[i], p.Data[i])
		}
	}
}

func TestModularPlaneRoundTripProgressiveSqueeze(t *testing.T) {
	const w, h = 16, 12
	p := NewPlane(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Data[y*w+x] = int32((x + y) * 5 % 256)
		}
	}

	payload, err := EncodeModularPlane(p, true, true, 3)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeModularPlane(payload, w, h, 8, false)
	if err != nil {
		t.Fatal(err)
	}
	for i := range p.Data {
		if got.Data[i] != p.Data[i] {
			t.Fatalf("sample %d: got %d, want %d", i, got.Data[i], p.Data[i])
		}
	}
}

func TestDecodeModularPlaneTruncated(t *testing.T) {
	if _, err := DecodeModularPlane(nil, 4, 4, 8, false); err == nil {
		t.Fatal("expected truncation error for empty payload")
	}
}
