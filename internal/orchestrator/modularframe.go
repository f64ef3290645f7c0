package orchestrator

import (
	"github.com/jxlgo/jxl/internal/codec"
	"github.com/jxlgo/jxl/internal/frame"
	"github.com/jxlgo/jxl/internal/modular"
	"github.com/jxlgo/jxl/internal/workerpool"
)

// colorPlaneCount returns how many of a frame's channels participate
// in the reversible color transform: 3 (RGB->YCoCg) when RCT applies,
// otherwise every channel is coded independently.
func colorPlaneCount(channels int) int {
	if modular.ShouldApplyRCT(channels) {
		return 3
	}
	return channels
}

// buildColorPlanes extracts f's first colorPlaneCount(channels)
// channels into codec.Plane values, applying the reversible color
// transform when it applies. Bit-exactness uses AtBits/SetBits
// so F32 frames round-trip through Modular exactly as uint8/uint16
// ones do.
func buildColorPlanes(f *frame.Frame) []codec.Plane {
	w, h, ch := f.Width, f.Height, f.Channels
	signed := f.PixelType == frame.I16
	n := colorPlaneCount(ch)

	planes := make([]codec.Plane, n)
	for i := range planes {
		bits := f.BitsPerSample
		sgn := signed
		if n == 3 && i > 0 {
			sgn = true // Co, Cg are always signed differences
		}
		planes[i] = codec.Plane{Width: w, Height: h, Data: make([]int32, w*h), Bits: bits, Signed: sgn}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if n == 3 {
				r, g, b := f.AtBits(x, y, 0), f.AtBits(x, y, 1), f.AtBits(x, y, 2)
				yy, co, cg := modular.ForwardRCT(r, g, b)
				planes[0].Data[idx] = yy
				planes[1].Data[idx] = co
				planes[2].Data[idx] = cg
			} else {
				for c := 0; c < n; c++ {
					planes[c].Data[idx] = f.AtBits(x, y, c)
				}
			}
		}
	}
	return planes
}

// writeColorPlanes is the inverse of buildColorPlanes, writing
// reconstructed samples back into f's first colorPlaneCount channels.
func writeColorPlanes(f *frame.Frame, planes []codec.Plane) {
	w, h := f.Width, f.Height
	n := len(planes)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if n == 3 {
				r, g, b := modular.InverseRCT(planes[0].Data[idx], planes[1].Data[idx], planes[2].Data[idx])
				f.SetBits(x, y, 0, r)
				f.SetBits(x, y, 1, g)
				f.SetBits(x, y, 2, b)
			} else {
				for c := 0; c < n; c++ {
					f.SetBits(x, y, c, planes[c].Data[idx])
				}
			}
		}
	}
}

// auxPlanes collects a frame's non-color-transformed channels: the
// alpha channel (channel index 3, when the frame has 4 channels) and
// every extra channel, appended after the color planes in the same
// residual stream. These are
// always coded losslessly through the Modular pipeline, even inside a
// VarDCT frame, matching how a real encoder keeps alpha/extra
// precision independent of the lossy color path.
func auxPlanes(f *frame.Frame) []codec.Plane {
	signed := f.PixelType == frame.I16
	var planes []codec.Plane
	if f.Channels == 4 {
		p := codec.Plane{Width: f.Width, Height: f.Height, Data: make([]int32, f.Width*f.Height), Bits: f.BitsPerSample, Signed: signed}
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				p.Data[y*f.Width+x] = f.AtBits(x, y, 3)
			}
		}
		planes = append(planes, p)
	}
	for _, e := range f.Extra {
		p := codec.Plane{Width: f.Width, Height: f.Height, Data: make([]int32, f.Width*f.Height), Bits: e.BitsPerSample, Signed: false}
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				p.Data[y*f.Width+x] = readExtraSample(e, f.Width, x, y)
			}
		}
		planes = append(planes, p)
	}
	return planes
}

func writeAuxPlanes(f *frame.Frame, planes []codec.Plane) {
	pos := 0
	if f.Channels == 4 {
		p := planes[pos]
		pos++
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				f.SetBits(x, y, 3, p.Data[y*f.Width+x])
			}
		}
	}
	for i := range f.Extra {
		p := planes[pos]
		pos++
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				writeExtraSample(f.Extra[i], f.Width, x, y, p.Data[y*f.Width+x])
			}
		}
	}
}

func extraByteWidth(bits int) int { return (bits + 7) / 8 }

func readExtraSample(e frame.ExtraChannel, width, x, y int) int32 {
	bw := extraByteWidth(e.BitsPerSample)
	off := (y*width + x) * bw
	var v uint32
	for i := 0; i < bw && i < 4; i++ {
		v |= uint32(e.Data[off+i]) << uint(8*i)
	}
	return int32(v)
}

func writeExtraSample(e frame.ExtraChannel, width, x, y int, v int32) {
	bw := extraByteWidth(e.BitsPerSample)
	off := (y*width + x) * bw
	uv := uint32(v)
	for i := 0; i < bw && i < 4; i++ {
		e.Data[off+i] = byte(uv >> uint(8*i))
	}
}

// planeEncodeResult carries one plane's encode outcome back from a
// worker-pool job so SubmitAll's any-typed results can be unpacked.
type planeEncodeResult struct {
	payload []byte
	err     error
}

// encodePlaneSet entropy-codes every plane in planes and concatenates
// the results behind a count and per-plane length prefix. Planes are
// independent, so pool fans them out across workers; each plane's
// own ANS stream stays single-threaded.
func encodePlaneSet(planes []codec.Plane, useANS, progressive bool, pool *workerpool.Pool) ([]byte, error) {
	jobs := make([]workerpool.Job, len(planes))
	for i, p := range planes {
		p := p
		jobs[i] = func() any {
			payload, err := codec.EncodeModularPlane(p, useANS, progressive, SqueezeLevels)
			return planeEncodeResult{payload, err}
		}
	}
	results := pool.SubmitAll(jobs)

	out := appendU32(nil, uint32(len(planes)))
	for _, r := range results {
		res := r.(planeEncodeResult)
		if res.err != nil {
			return nil, res.err
		}
		out = appendLenPrefixed(out, res.payload)
	}
	return out, nil
}

// planeDecodeResult carries one plane's decode outcome back from a
// worker-pool job.
type planeDecodeResult struct {
	plane codec.Plane
	err   error
}

// decodePlaneSet is the inverse of encodePlaneSet. bits/signed give
// each expected plane's clamp parameters in order. Payload extraction
// is sequential (each plane's length prefix must be read in order),
// but the per-plane ANS decode that follows is independent and runs
// across pool.
func decodePlaneSet(data []byte, pos int, width, height int, bits []int, signed []bool, pool *workerpool.Pool) ([]codec.Plane, int, error) {
	n, pos, err := readU32(data, pos)
	if err != nil {
		return nil, pos, err
	}
	payloads := make([][]byte, n)
	for i := range payloads {
		payloads[i], pos, err = readLenPrefixed(data, pos)
		if err != nil {
			return nil, pos, err
		}
	}

	jobs := make([]workerpool.Job, n)
	for i := range payloads {
		i := i
		b, s := 8, false
		if i < len(bits) {
			b = bits[i]
		}
		if i < len(signed) {
			s = signed[i]
		}
		jobs[i] = func() any {
			p, err := codec.DecodeModularPlane(payloads[i], width, height, b, s)
			return planeDecodeResult{p, err}
		}
	}
	results := pool.SubmitAll(jobs)

	planes := make([]codec.Plane, n)
	for i, r := range results {
		res := r.(planeDecodeResult)
		if res.err != nil {
			return nil, pos, res.err
		}
		planes[i] = res.plane
	}
	return planes, pos, nil
}
