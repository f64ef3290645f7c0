package jxl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jxlgo/jxl/internal/codestream"
)

// An 8x8 all-128 RGB frame, encoded lossless, decodes to all 128.
func TestEncodeDecodeAllGrayLossless(t *testing.T) {
	f, err := NewFrame(8, 8, 3, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			for c := 0; c < 3; c++ {
				f.Set(x, y, c, 128)
			}
		}
	}

	data, _, err := Encode(f, DefaultOptions())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0x0A {
		t.Fatalf("codestream signature = % X, want FF 0A prefix", data[:2])
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Width() != 8 || got.Height() != 8 {
		t.Fatalf("dimensions = %dx%d, want 8x8", got.Width(), got.Height())
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			for c := 0; c < 3; c++ {
				if v := got.At(x, y, c); v != 128 {
					t.Fatalf("pixel (%d,%d,%d) = %d, want 128", x, y, c, v)
				}
			}
		}
	}
}

// A 16x16 diagonal gradient
// (R=x*16, G=y*16, B=(x+y)*8), encoded lossless, round-trips
// byte-exactly.
func TestEncodeDecodeGradientLossless(t *testing.T) {
	const n = 16
	f, err := NewFrame(n, n, 3, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			f.Set(x, y, 0, int32(x*16))
			f.Set(x, y, 1, int32(y*16))
			f.Set(x, y, 2, int32((x+y)*8))
		}
	}

	data, _, err := Encode(f, DefaultOptions())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			for c := 0; c < 3; c++ {
				want := f.At(x, y, c)
				if v := got.At(x, y, c); v != want {
					t.Fatalf("pixel (%d,%d,%d) = %d, want %d", x, y, c, v, want)
				}
			}
		}
	}
}

// VarDCT-encode a 10x14 gradient at
// distance 1.0; decoded dimensions are exactly 10x14.
func TestEncodeDecodeVarDCTNonMultipleOf8Dimensions(t *testing.T) {
	const w, h = 10, 14
	f, err := NewFrame(w, h, 3, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, 0, int32((x*25)%256))
			f.Set(x, y, 1, int32((y*18)%256))
			f.Set(x, y, 2, int32(((x+y)*9)%256))
		}
	}

	opts := DefaultOptions()
	opts.Mode = LossyDistance(1.0)
	opts.UseANS = true

	data, stats, err := Encode(f, opts)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if stats.Lossless {
		t.Fatalf("stats.Lossless = true for a distance-mode encode")
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Width() != w || got.Height() != h {
		t.Fatalf("decoded dimensions = %dx%d, want %dx%d", got.Width(), got.Height(), w, h)
	}
}

// Every encoded codestream begins with the fixed two-byte signature,
// regardless of pipeline.
func TestCodestreamSignature(t *testing.T) {
	f, err := NewFrame(4, 4, 1, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for _, opts := range []Options{DefaultOptions(), {Mode: LossyDistance(2.0)}} {
		data, _, err := Encode(f, opts)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if data[0] != 0xFF || data[1] != 0x0A {
			t.Fatalf("signature = % X, want FF 0A", data[:2])
		}
	}
}

// Every encoded container begins with the twelve-byte "JXL "
// signature box.
func TestContainerSignature(t *testing.T) {
	f, err := NewFrame(4, 4, 1, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	data, _, err := EncodeContainer(f, DefaultOptions(), ContainerExtras{})
	if err != nil {
		t.Fatalf("EncodeContainer: %v", err)
	}
	if len(data) < 12 {
		t.Fatalf("container too short: %d bytes", len(data))
	}
	if string(data[4:8]) != "JXL " {
		t.Fatalf("box type at offset 4 = %q, want \"JXL \"", data[4:8])
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode of container: %v", err)
	}
	if got.Width() != 4 || got.Height() != 4 {
		t.Fatalf("dimensions = %dx%d, want 4x4", got.Width(), got.Height())
	}
}

// Lossless round trip over every supported channel count with
// uint16 samples, including an extra channel.
func TestEncodeDecodeLosslessChannelCountsAndExtraChannel(t *testing.T) {
	for _, c := range []int{1, 3, 4} {
		f, err := NewFrame(6, 5, c, U16, 16)
		if err != nil {
			t.Fatalf("NewFrame(c=%d): %v", c, err)
		}
		for y := 0; y < 5; y++ {
			for x := 0; x < 6; x++ {
				for ch := 0; ch < c; ch++ {
					f.Set(x, y, ch, int32((x*1000+y*37+ch*19)%65536))
				}
			}
		}
		extra := ExtraChannel{Name: "depth", BitsPerSample: 8, Data: make([]byte, 6*5)}
		for i := range extra.Data {
			extra.Data[i] = byte(i * 7)
		}
		f.AddExtraChannel(extra)

		data, _, err := Encode(f, DefaultOptions())
		if err != nil {
			t.Fatalf("Encode(c=%d): %v", c, err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode(c=%d): %v", c, err)
		}
		for y := 0; y < 5; y++ {
			for x := 0; x < 6; x++ {
				for ch := 0; ch < c; ch++ {
					want := f.At(x, y, ch)
					if v := got.At(x, y, ch); v != want {
						t.Fatalf("c=%d pixel (%d,%d,%d) = %d, want %d", c, x, y, ch, v, want)
					}
				}
			}
		}
	}
}

// ParseImageHeader reads geometry without decoding pixel data.
func TestParseImageHeader(t *testing.T) {
	f, err := NewFrame(12, 9, 3, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	data, _, err := Encode(f, DefaultOptions())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	hdr, err := ParseImageHeader(data)
	if err != nil {
		t.Fatalf("ParseImageHeader: %v", err)
	}
	if hdr.Width != 12 || hdr.Height != 9 {
		t.Fatalf("header dims = %dx%d, want 12x9", hdr.Width, hdr.Height)
	}
	if hdr.Channels != 3 {
		t.Fatalf("header channels = %d, want 3", hdr.Channels)
	}
}

// ParseImageHeader recovers every metadata field an animated encode
// wrote, compared with go-cmp instead of a field-by-field
// reflect.DeepEqual.
func TestParseImageHeaderAnimationFields(t *testing.T) {
	f, err := NewFrame(5, 5, 3, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.AnimationConfig = AnimationConfig{TicksPerSecondNum: 30, TicksPerSecondDen: 1, LoopCount: 0}

	data, _, err := EncodeSequence([]*Frame{f, f.Clone()}, []uint32{1, 1}, opts)
	if err != nil {
		t.Fatalf("EncodeSequence: %v", err)
	}

	hdr, err := ParseImageHeader(data)
	if err != nil {
		t.Fatalf("ParseImageHeader: %v", err)
	}

	want := ImageHeader{
		Width: 5, Height: 5, Channels: 3,
		PixelType: U8, BitsPerSample: 8,
		Orientation:       1,
		Animation:         true,
		TicksPerSecondNum: 30, TicksPerSecondDen: 1, LoopCount: 0,
		ColorEncoding: codestream.DefaultColorEncoding(),
	}
	if diff := cmp.Diff(want, hdr); diff != "" {
		t.Fatalf("ParseImageHeader mismatch (-want +got):\n%s", diff)
	}
}

// Invalid frame dimensions are rejected at NewFrame with
// InvalidImageDimensions/UnsupportedPixelFormat.
func TestNewFrameRejectsInvalidInputs(t *testing.T) {
	if _, err := NewFrame(0, 4, 3, U8, 8); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := NewFrame(4, 4, 2, U8, 8); err == nil {
		t.Fatal("expected error for unsupported channel count 2")
	}
}

// Out-of-range mode and effort values fail with InvalidConfiguration
// before any pipeline runs.
func TestEncodeRejectsInvalidOptions(t *testing.T) {
	f, err := NewFrame(4, 4, 3, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	cases := []Options{
		{Mode: LossyQuality(101)},
		{Mode: LossyQuality(-1)},
		{Mode: LossyDistance(16)},
		{Mode: LossyDistance(-0.5)},
		{Mode: Lossless(), Effort: 12},
	}
	for i, opts := range cases {
		if _, _, err := Encode(f, opts); err == nil {
			t.Fatalf("case %d: expected InvalidConfiguration, got nil", i)
		}
	}

	bad := DefaultOptions()
	bad.ModularMode = true
	bad.UseXYBColorSpace = true
	if _, _, err := Encode(f, bad); err == nil {
		t.Fatal("expected error for modularMode + useXYBColorSpace")
	}
}

// Adaptive quantization writes its per-block activity into the
// stream, so the decoder reproduces the encoder's matrices; a flat
// frame reconstructs to within half the scaled DC step.
func TestEncodeDecodeVarDCTAdaptiveQuantization(t *testing.T) {
	f, err := NewFrame(16, 16, 3, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			for c := 0; c < 3; c++ {
				f.Set(x, y, c, 128)
			}
		}
	}

	opts := DefaultOptions()
	opts.Mode = LossyDistance(1.0)
	opts.AdaptiveQuantization = true

	data, _, err := Encode(f, opts)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			for c := 0; c < 3; c++ {
				v := got.At(x, y, c)
				if v < 128-24 || v > 128+24 {
					t.Fatalf("pixel (%d,%d,%d) = %d, drifted too far from 128", x, y, c, v)
				}
			}
		}
	}
}

// A VarDCT encode with an ROI quality boost decodes to a frame of the
// original dimensions.
func TestEncodeDecodeVarDCTWithROI(t *testing.T) {
	f, err := NewFrame(32, 32, 3, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			f.Set(x, y, 0, int32((x*13+y*7)%256))
			f.Set(x, y, 1, int32((x*3+y*29)%256))
			f.Set(x, y, 2, int32((x+y)*5%256))
		}
	}

	opts := DefaultOptions()
	opts.Mode = LossyDistance(4.0)
	opts.RegionOfInterest = &ROI{X: 8, Y: 8, W: 16, H: 16, QualityBoost: 40, FeatherWidth: 8}

	data, _, err := Encode(f, opts)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Width() != 32 || got.Height() != 32 {
		t.Fatalf("dimensions = %dx%d, want 32x32", got.Width(), got.Height())
	}
}

// EncodeContainer carries optional metadata boxes; decoding the
// container recovers the same pixels as decoding the bare codestream.
func TestEncodeContainerWithExtras(t *testing.T) {
	f, err := NewFrame(6, 6, 3, U8, 8)
	if err != nil {
		t.Fatal(err)
	}
	extras := ContainerExtras{
		Exif: []byte{0x4D, 0x4D, 0x00, 0x2A},
		XML:  []byte("<x:xmpmeta/>"),
	}
	data, _, err := EncodeContainer(f, DefaultOptions(), extras)
	if err != nil {
		t.Fatalf("EncodeContainer: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Width() != 6 || got.Height() != 6 {
		t.Fatalf("dimensions = %dx%d, want 6x6", got.Width(), got.Height())
	}
}
