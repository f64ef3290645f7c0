package codec

import (
	"github.com/jxlgo/jxl/internal/ans"
	"github.com/jxlgo/jxl/internal/jxlerr"
	"github.com/jxlgo/jxl/internal/modular"
	"github.com/jxlgo/jxl/internal/pool"
)

// Plane is a single-channel row-major int32 image, the common
// currency between the frame orchestrator and the lossless pipeline.
// Bits and Signed describe the channel's representable range for MED
// prediction clamping: unsigned channels (color, alpha, extra
// channels) clamp to [0, 2^Bits-1]; RCT's Co/Cg chroma planes and
// int16 source data are signed.
type Plane struct {
	Width, Height int
	Data          []int32
	Bits          int
	Signed        bool
}

// NewPlane allocates a zeroed w x h plane.
func NewPlane(w, h int) Plane {
	return Plane{Width: w, Height: h, Data: make([]int32, w*h), Bits: 8}
}

// EncodeModularPlane runs Squeeze (when progressive), MED prediction
// and residual entropy coding over a single plane, returning the
// serialized payload. The plane's own Data is left untouched; Squeeze
// operates on a private copy drawn from the shared int32 buffer pool
// and released once the payload is assembled.
func EncodeModularPlane(p Plane, useANS, progressive bool, squeezeLevels int) ([]byte, error) {
	bufs := pool.Shared().Int32
	data := bufs.Acquire(len(p.Data))
	copy(data, p.Data)
	defer bufs.Release(&data)
	var steps []modular.Step
	if progressive {
		g := &modular.Grid{Data: data, Stride: p.Width}
		steps = modular.Forward(g, p.Width, p.Height, squeezeLevels)
	}

	body, err := encodeResiduals(data, p.Width, p.Height, useANS, p.Bits, p.Signed)
	if err != nil {
		return nil, err
	}

	out := []byte{boolByte(progressive)}
	if progressive {
		out = append(out, byte(len(steps)))
		for _, s := range steps {
			out = append(out, byte(s.Orientation))
			out = appendUint32(out, uint32(s.RegionW))
			out = appendUint32(out, uint32(s.RegionH))
		}
	}
	return append(out, body...), nil
}

// DecodeModularPlane is the inverse of EncodeModularPlane.
func DecodeModularPlane(payload []byte, width, height, bits int, signed bool) (Plane, error) {
	if len(payload) < 1 {
		return Plane{}, jxlerr.ErrTruncatedData()
	}
	progressive := payload[0] != 0
	pos := 1

	var steps []modular.Step
	if progressive {
		if pos >= len(payload) {
			return Plane{}, jxlerr.ErrTruncatedData()
		}
		n := int(payload[pos])
		pos++
		steps = make([]modular.Step, n)
		for i := 0; i < n; i++ {
			if pos+9 > len(payload) {
				return Plane{}, jxlerr.ErrTruncatedData()
			}
			w, _ := readUint32(payload, pos+1)
			h, _ := readUint32(payload, pos+5)
			steps[i] = modular.Step{
				Orientation: modular.Orientation(payload[pos]),
				RegionW:     int(w),
				RegionH:     int(h),
			}
			pos += 9
		}
	}

	data, err := decodeResiduals(payload[pos:], width, height, bits, signed)
	if err != nil {
		return Plane{}, err
	}

	if progressive {
		g := &modular.Grid{Data: data, Stride: width}
		modular.Inverse(g, steps)
	}

	return Plane{Width: width, Height: height, Data: data, Bits: bits, Signed: signed}, nil
}

// EncodeModularImage encodes every plane of a (possibly RCT-
// transformed) image independently, in channel order.
func EncodeModularImage(planes []Plane, useANS, progressive bool, squeezeLevels int) ([][]byte, error) {
	out := make([][]byte, len(planes))
	for i, p := range planes {
		payload, err := EncodeModularPlane(p, useANS, progressive, squeezeLevels)
		if err != nil {
			return nil, err
		}
		out[i] = payload
	}
	return out, nil
}

// DecodeModularImage is the inverse of EncodeModularImage. bits and
// signed carry one entry per plane, matching the order planes were
// encoded in.
func DecodeModularImage(payloads [][]byte, width, height int, bits []int, signed []bool) ([]Plane, error) {
	out := make([]Plane, len(payloads))
	for i, payload := range payloads {
		p, err := DecodeModularPlane(payload, width, height, bits[i], signed[i])
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// encodeResiduals runs MED prediction over the (possibly squeezed)
// w x h grid in data and entropy-codes the zigzag residuals, falling
// back to the flat fixed-width encoding whenever a residual exceeds
// the ANS alphabet ceiling. The predictor itself is clamped to the
// plane's representable range before differencing, matching the
// decoder's reconstruction exactly since both sides compute the
// clamp from identical already-decoded neighbors.
func encodeResiduals(data []int32, w, h int, useANS bool, bits int, signed bool) ([]byte, error) {
	count := w * h
	g := &modular.Grid{Data: data, Stride: w}
	residuals := make([]uint32, count)
	ctxs := make([]int, count)
	var maxSym uint32
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			pred := modular.ClampPrediction(modular.PredictAt(g, x, y), bits, signed)
			z := modular.Zigzag(data[i] - pred)
			residuals[i] = z
			ctxs[i] = modular.ResidualContext(g, x, y)
			if z > maxSym {
				maxSym = z
			}
		}
	}

	useANSActual := useANS && maxSym < ans.MaxAlphabetSize-1
	if !useANSActual {
		payload := modular.EncodeSimple(residuals)
		return append([]byte{0}, payload...), nil
	}

	alphabet := int(maxSym) + 1
	hist := make([][]uint32, modular.NumResidualContexts)
	for c := range hist {
		hist[c] = make([]uint32, alphabet)
	}
	for i, z := range residuals {
		hist[ctxs[i]][z]++
	}
	dists := make([]*ans.Distribution, modular.NumResidualContexts)
	for c, raw := range hist {
		if sumU32(raw) == 0 {
			raw = []uint32{1}
		}
		d, err := ans.NewDistribution(raw)
		if err != nil {
			return nil, err
		}
		dists[c] = d
	}

	stream, err := modular.EncodeANS(residuals, func(i int) int { return ctxs[i] }, dists)
	if err != nil {
		return nil, err
	}

	out := []byte{1}
	out = appendUint32(out, uint32(alphabet))
	for _, d := range dists {
		enc := ans.EncodeDistribution(d.Freq)
		out = appendUint32(out, uint32(len(enc)))
		out = append(out, enc...)
	}
	out = appendUint32(out, uint32(len(stream)))
	out = append(out, stream...)
	return out, nil
}

// decodeResiduals is the inverse of encodeResiduals. The ANS path
// cannot use modular.DecodeANS directly: the context for sample i
// depends on already-reconstructed neighbor *pixel values*, which
// only exist once prediction has run, so this drives the
// MultiContextDecoder by hand, interleaving GetSymbol calls with
// prediction and grid writes one pixel at a time.
func decodeResiduals(payload []byte, w, h, bits int, signed bool) ([]int32, error) {
	if len(payload) < 1 {
		return nil, jxlerr.ErrTruncatedData()
	}
	mode := payload[0]
	pos := 1
	count := w * h
	data := make([]int32, count)
	g := &modular.Grid{Data: data, Stride: w}

	if mode == 0 {
		residuals, err := modular.DecodeSimple(payload[pos:], count)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				pred := modular.ClampPrediction(modular.PredictAt(g, x, y), bits, signed)
				data[i] = pred + modular.UnZigzag(residuals[i])
			}
		}
		return data, nil
	}

	if _, ok := readUint32(payload, pos); !ok {
		return nil, jxlerr.ErrTruncatedData()
	}
	pos += 4 // alphabet size: informational only, recovered from the distributions themselves

	dists := make([]*ans.Distribution, modular.NumResidualContexts)
	for c := 0; c < modular.NumResidualContexts; c++ {
		encLen, ok := readUint32(payload, pos)
		if !ok {
			return nil, jxlerr.ErrTruncatedData()
		}
		pos += 4
		if pos+int(encLen) > len(payload) {
			return nil, jxlerr.ErrTruncatedData()
		}
		freq, err := ans.DecodeDistribution(payload[pos : pos+int(encLen)])
		if err != nil {
			return nil, err
		}
		pos += int(encLen)
		raw := make([]uint32, len(freq))
		for i, f := range freq {
			raw[i] = uint32(f)
		}
		d, err := ans.NewDistribution(raw)
		if err != nil {
			return nil, err
		}
		dists[c] = d
	}

	streamLen, ok := readUint32(payload, pos)
	if !ok {
		return nil, jxlerr.ErrTruncatedData()
	}
	pos += 4
	if pos+int(streamLen) > len(payload) {
		return nil, jxlerr.ErrTruncatedData()
	}
	dec, err := ans.NewMultiContextDecoder(dists, payload[pos:pos+int(streamLen)])
	if err != nil {
		return nil, err
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			pred := modular.ClampPrediction(modular.PredictAt(g, x, y), bits, signed)
			ctx := modular.ResidualContext(g, x, y)
			sym, err := dec.GetSymbol(ctx)
			if err != nil {
				return nil, err
			}
			data[i] = pred + modular.UnZigzag(uint32(sym))
		}
	}
	return data, nil
}
