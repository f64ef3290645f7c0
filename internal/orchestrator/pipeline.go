package orchestrator

import (
	"github.com/jxlgo/jxl/internal/codec"
	"github.com/jxlgo/jxl/internal/frame"
	"github.com/jxlgo/jxl/internal/jxlerr"
	"github.com/jxlgo/jxl/internal/modular"
	"github.com/jxlgo/jxl/internal/vardct"
	"github.com/jxlgo/jxl/internal/workerpool"
)

const (
	pipelineModular = 0
	pipelineVarDCT  = 1
)

// buildFrameExtras captures the per-frame attributes a pipeline body
// needs beyond pixel data.
func buildFrameExtras(f *frame.Frame) frameExtras {
	e := frameExtras{AlphaMode: f.AlphaMode, Medical: f.Medical}
	for _, ec := range f.Extra {
		e.ExtraBits = append(e.ExtraBits, ec.BitsPerSample)
		e.ExtraName = append(e.ExtraName, ec.Name)
	}
	return e
}

// EncodeFrameBody runs the pipeline cfg selects over f's pixel data
// and returns the frame's section payload, starting with the
// pipeline-discriminator byte the decoder reads first.
func EncodeFrameBody(f *frame.Frame, cfg Config, pool *workerpool.Pool) ([]byte, int, error) {
	if cfg.usesModular() {
		body, err := encodeModularBody(f, cfg, pool)
		return body, codestreamEncodingModular, err
	}
	body, err := encodeVarDCTBody(f, cfg, pool)
	return body, codestreamEncodingVarDCT, err
}

// codestreamEncodingModular/VarDCT mirror internal/codestream's
// EncodingModular/EncodingVarDCT constants and hold the same values.
const (
	codestreamEncodingModular = 0
	codestreamEncodingVarDCT  = 1
)

func encodeModularBody(f *frame.Frame, cfg Config, pool *workerpool.Pool) ([]byte, error) {
	out := []byte{pipelineModular}
	out = append(out, buildFrameExtras(f).encode()...)

	colorPlanes := buildColorPlanes(f)
	colorPayload, err := encodePlaneSet(colorPlanes, cfg.UseANS, cfg.Progressive, pool)
	if err != nil {
		return nil, err
	}
	out = appendLenPrefixed(out, colorPayload)

	auxPayload, err := encodePlaneSet(auxPlanes(f), cfg.UseANS, cfg.Progressive, pool)
	if err != nil {
		return nil, err
	}
	out = appendLenPrefixed(out, auxPayload)
	return out, nil
}

// colorPlaneSpec reproduces the (bits, signed) metadata
// buildColorPlanes assigned each color plane, purely from frame
// geometry already known to the decoder, so it never needs to be
// serialized.
func colorPlaneSpec(channels, bitsPerSample int, pixelType frame.PixelType) ([]int, []bool) {
	n := colorPlaneCount(channels)
	signed := pixelType == frame.I16
	bits := make([]int, n)
	sgn := make([]bool, n)
	for i := range bits {
		bits[i] = bitsPerSample
		sgn[i] = signed
		if n == 3 && i > 0 {
			sgn[i] = true
		}
	}
	return bits, sgn
}

func auxPlaneSpec(f *frame.Frame, extraBits []int) ([]int, []bool) {
	signed := f.PixelType == frame.I16
	var bits []int
	var sgn []bool
	if f.Channels == 4 {
		bits = append(bits, f.BitsPerSample)
		sgn = append(sgn, signed)
	}
	for _, b := range extraBits {
		bits = append(bits, b)
		sgn = append(sgn, false)
	}
	return bits, sgn
}

// DecodeFrameBody is the inverse of EncodeFrameBody; width/height are
// the frame's crop dimensions and channels/pixelType/bitsPerSample
// come from the codestream image metadata. It needs no caller-supplied
// options: the pipeline discriminator and, for VarDCT, the encoder's
// distance/adaptive-quantization/ROI settings all travel inside body
// itself.
func DecodeFrameBody(body []byte, width, height, channels int, pixelType frame.PixelType, bitsPerSample int, pool *workerpool.Pool) (*frame.Frame, error) {
	if len(body) < 1 {
		return nil, jxlerr.ErrTruncatedData()
	}
	switch body[0] {
	case pipelineModular:
		return decodeModularBody(body[1:], width, height, channels, pixelType, bitsPerSample, pool)
	case pipelineVarDCT:
		return decodeVarDCTBody(body[1:], width, height, channels, pixelType, bitsPerSample, pool)
	default:
		return nil, jxlerr.ErrDecodingFailed("unknown frame pipeline discriminator")
	}
}

func decodeModularBody(body []byte, width, height, channels int, pixelType frame.PixelType, bitsPerSample int, pool *workerpool.Pool) (*frame.Frame, error) {
	extras, pos, err := decodeFrameExtras(body, 0)
	if err != nil {
		return nil, err
	}

	colorPayload, pos, err := readLenPrefixed(body, pos)
	if err != nil {
		return nil, err
	}
	bits, sgn := colorPlaneSpec(channels, bitsPerSample, pixelType)
	colorPlanes, _, err := decodePlaneSet(colorPayload, 0, width, height, bits, sgn, pool)
	if err != nil {
		return nil, err
	}

	auxPayload, _, err := readLenPrefixed(body, pos)
	if err != nil {
		return nil, err
	}

	f, err := frame.New(width, height, channels, pixelType, bitsPerSample)
	if err != nil {
		return nil, err
	}
	f.HasAlpha = channels == 4
	f.AlphaMode = extras.AlphaMode
	f.Medical = extras.Medical
	for i, b := range extras.ExtraBits {
		f.Extra = append(f.Extra, frame.NewExtraChannel(extras.ExtraName[i], width, height, b))
	}

	auxBits, auxSgn := auxPlaneSpec(f, extras.ExtraBits)
	auxPlanesDecoded, _, err := decodePlaneSet(auxPayload, 0, width, height, auxBits, auxSgn, pool)
	if err != nil {
		return nil, err
	}

	writeColorPlanes(f, colorPlanes)
	writeAuxPlanes(f, auxPlanesDecoded)
	return f, nil
}

func encodeVarDCTBody(f *frame.Frame, cfg Config, pool *workerpool.Pool) ([]byte, error) {
	out := []byte{pipelineVarDCT}
	out = append(out, buildFrameExtras(f).encode()...)
	out = append(out, vardctParams{Distance: cfg.Distance, Adaptive: cfg.AdaptiveQuantization, ROI: cfg.RegionOfInterest}.encode()...)

	planes := buildYCbCrPlanes(f)
	payloads := make([][]byte, len(planes))
	var lumaAC [][]float64
	for i, p := range planes {
		ch := vardct.Luma
		var la [][]float64
		if i > 0 {
			ch = vardct.Chroma
			la = lumaAC
		}
		res, ac, err := codec.EncodeVarDCTChannel(p, f.Width, f.Height, ch, cfg.Distance, cfg.AdaptiveQuantization, cfg.RegionOfInterest, la)
		if err != nil {
			return nil, err
		}
		payloads[i] = res.Payload
		if i == 0 {
			lumaAC = ac
		}
	}

	out = appendU32(out, uint32(len(payloads)))
	for _, p := range payloads {
		out = appendLenPrefixed(out, p)
	}

	auxPayload, err := encodePlaneSet(auxPlanes(f), cfg.UseANS, cfg.Progressive, pool)
	if err != nil {
		return nil, err
	}
	out = appendLenPrefixed(out, auxPayload)
	return out, nil
}

func decodeVarDCTBody(body []byte, width, height, channels int, pixelType frame.PixelType, bitsPerSample int, pool *workerpool.Pool) (*frame.Frame, error) {
	extras, pos, err := decodeFrameExtras(body, 0)
	if err != nil {
		return nil, err
	}

	params, pos, err := decodeVardctParams(body, pos)
	if err != nil {
		return nil, err
	}

	numCh, pos, err := readU32(body, pos)
	if err != nil {
		return nil, err
	}

	planes := make([][]float64, numCh)
	var lumaAC [][]float64
	for i := 0; i < int(numCh); i++ {
		var payload []byte
		payload, pos, err = readLenPrefixed(body, pos)
		if err != nil {
			return nil, err
		}
		ch := vardct.Luma
		var la [][]float64
		if i > 0 {
			ch = vardct.Chroma
			la = lumaAC
		}
		plane, cpw, _, ac, err := codec.DecodeVarDCTChannel(payload, ch, params.Distance, params.Adaptive, params.ROI, la)
		if err != nil {
			return nil, err
		}
		planes[i] = vardct.CropFromBlock(plane, cpw, width, height)
		if i == 0 {
			lumaAC = ac
		}
	}

	auxPayload, _, err := readLenPrefixed(body, pos)
	if err != nil {
		return nil, err
	}

	f, err := frame.New(width, height, channels, pixelType, bitsPerSample)
	if err != nil {
		return nil, err
	}
	f.HasAlpha = channels == 4
	f.AlphaMode = extras.AlphaMode
	f.Medical = extras.Medical
	for i, b := range extras.ExtraBits {
		f.Extra = append(f.Extra, frame.NewExtraChannel(extras.ExtraName[i], width, height, b))
	}

	writeYCbCrPlanes(f, planes)

	auxBits, auxSgn := auxPlaneSpec(f, extras.ExtraBits)
	auxPlanesDecoded, _, err := decodePlaneSet(auxPayload, 0, width, height, auxBits, auxSgn, pool)
	if err != nil {
		return nil, err
	}
	writeAuxPlanes(f, auxPlanesDecoded)
	return f, nil
}

// buildYCbCrPlanes converts f's color channels to float64 planes
// ready for DCT: a single luma plane for grayscale frames, or
// Y/Cb/Cr for 3+ channel frames. Values are normalized to [0,1] by
// f.MaxValue() before the color matrix, then rescaled back to the
// source's native range so VarDCT's distance-parametrized quantizer
// (tuned for 8-bit-scale magnitudes) behaves consistently across bit
// depths. Keeping this path in float64 throughout, rather than
// truncating through an integer store, keeps dark input from
// saturating chroma at 8-bit depths.
func buildYCbCrPlanes(f *frame.Frame) [][]float64 {
	w, h := f.Width, f.Height
	maxVal := float64(f.MaxValue())
	if !modular.ShouldApplyRCT(f.Channels) {
		plane := make([]float64, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				plane[y*w+x] = f.AtFloat(x, y, 0)
			}
		}
		return [][]float64{plane}
	}

	y := make([]float64, w*h)
	cb := make([]float64, w*h)
	cr := make([]float64, w*h)
	for yy := 0; yy < h; yy++ {
		for xx := 0; xx < w; xx++ {
			idx := yy*w + xx
			r := f.AtFloat(xx, yy, 0) / maxVal
			g := f.AtFloat(xx, yy, 1) / maxVal
			b := f.AtFloat(xx, yy, 2) / maxVal
			yv, cbv, crv := vardct.ForwardYCbCr(r, g, b)
			y[idx] = yv * maxVal
			cb[idx] = cbv * maxVal
			cr[idx] = crv * maxVal
		}
	}
	return [][]float64{y, cb, cr}
}

func writeYCbCrPlanes(f *frame.Frame, planes [][]float64) {
	w, h := f.Width, f.Height
	maxVal := float64(f.MaxValue())
	if len(planes) == 1 {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				f.SetFloat(x, y, 0, planes[0][y*w+x])
			}
		}
		return
	}
	for yy := 0; yy < h; yy++ {
		for xx := 0; xx < w; xx++ {
			idx := yy*w + xx
			r, g, b := vardct.InverseYCbCr(planes[0][idx]/maxVal, planes[1][idx]/maxVal, planes[2][idx]/maxVal)
			f.SetFloat(xx, yy, 0, r*maxVal)
			f.SetFloat(xx, yy, 1, g*maxVal)
			f.SetFloat(xx, yy, 2, b*maxVal)
		}
	}
}
