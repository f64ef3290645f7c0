package codec

import (
	"github.com/jxlgo/jxl/internal/ans"
	"github.com/jxlgo/jxl/internal/frame"
	"github.com/jxlgo/jxl/internal/jxlerr"
	"github.com/jxlgo/jxl/internal/modular"
	"github.com/jxlgo/jxl/internal/vardct"
)

// acEOBSentinel mirrors the magic value vardct.EncodeBlock uses
// internally to mark "rest of block is zero"; it is reproduced here
// (rather than exported from vardct) because this layer needs to
// distinguish it from a real coefficient before entropy coding, not
// to reinterpret the block-coding algorithm itself.
const acEOBSentinel = uint32(1<<31 - 1)

// VarDCTChannelResult is one channel's encoded block stream plus the
// block grid geometry needed to decode it.
type VarDCTChannelResult struct {
	BlocksW, BlocksH int
	PaddedW, PaddedH int
	Payload          []byte
}

// blockAC caches the DCT-domain (dequantized, zigzag-ordered) AC
// coefficients of one block's luma pass so the chroma pass can search
// for a Chroma-from-Luma scale against them.
type blockAC [][]float64 // [blockIndex][0..62]

// EncodeVarDCTChannel DCT-transforms, quantizes and entropy-codes one
// padded-to-8x8 image plane. When lumaAC is non-nil the channel is
// treated as chroma: each block's AC is replaced by its residual
// against the best Chroma-from-Luma scale of the matching luma block
// before quantization.
func EncodeVarDCTChannel(plane []float64, w, h int, ch vardct.Channel, distance float64, adaptive bool, roi *frame.ROI, lumaAC blockAC) (VarDCTChannelResult, blockAC, error) {
	padded, pw, ph := vardct.PadToBlock(plane, w, h)
	bw, bh := pw/vardct.BlockSize, ph/vardct.BlockSize

	dcGrid := make([]int32, bw*bh)
	dcAt := func(bx, by int) int32 { return dcGrid[by*bw+bx] }

	dcResiduals := make([]uint32, 0, bw*bh)
	var acRuns, acVals []uint32
	var acCtx []int
	var actBytes []byte
	cflCoeffs := make([]int8, 0)
	ownAC := make(blockAC, bw*bh)

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			idx := by*bw + bx
			block := extractBlock(padded, pw, bx, by)

			effDistance := distance
			if roi != nil {
				effDistance *= roi.DistanceMultiplier(bx*vardct.BlockSize, by*vardct.BlockSize)
			}

			var q [64]float64
			if ch == vardct.Luma {
				q = vardct.LumaMatrix(effDistance)
			} else {
				q = vardct.ChromaMatrix(effDistance)
			}
			if adaptive {
				// The factor travels in the payload as a quantized
				// byte; the matrix is scaled by the quantized value so
				// the decoder reproduces the exact same step sizes.
				ab := vardct.QuantizeActivity(vardct.ActivityFactor(block))
				actBytes = append(actBytes, ab)
				af := vardct.DequantizeActivity(ab)
				for i := range q {
					q[i] *= af
				}
			}

			dctRowMajor := vardct.Forward2D(block)
			dctZigzag := vardct.ZigzagScan(dctRowMajor)
			qZigzagSlice := vardct.ZigzagScan(q[:])
			var qZigzag [64]float64
			copy(qZigzag[:], qZigzagSlice)

			ac := append([]float64(nil), dctZigzag[1:]...)
			if lumaAC != nil {
				c := vardct.BestCfL(ac, lumaAC[idx])
				ac = vardct.ApplyCfL(ac, lumaAC[idx], c)
				cflCoeffs = append(cflCoeffs, int8(c))
			}
			copy(dctZigzag[1:], ac)

			quantized := vardct.Quantize(dctZigzag, qZigzag)
			if ch == vardct.Luma {
				// The chroma pass predicts against the luma AC the
				// decoder will actually reconstruct, so the CfL
				// reference is the dequantized coefficients, not the
				// pre-quantization ones.
				deq := vardct.Dequantize(quantized, qZigzag)
				ownAC[idx] = append([]float64(nil), deq[1:]...)
			}

			predicted := vardct.PredictDC(bx, by, dcAt)
			actual := int32(quantized[0])
			dcGrid[idx] = actual
			dcResiduals = append(dcResiduals, vardct.EncodeDCResidual(actual, predicted))

			tokens := vardct.EncodeBlock(quantized)
			pos := 1
			for _, tok := range tokens {
				// Context is derived from the position BEFORE this
				// token's run, not after: that's the only position
				// information a causal decoder has before it has
				// decoded the run itself.
				band := int(ch)*3 + bandOf(pos)
				acCtx = append(acCtx, band)
				acRuns = append(acRuns, uint32(tok.Run))
				if tok.Value == acEOBSentinel {
					acVals = append(acVals, 0)
				} else {
					acVals = append(acVals, tok.Value+1)
				}
				pos += tok.Run + 1
			}
		}
	}

	dcPayload, err := encodeFlat(dcResiduals, []int{0}, flatContexts(len(dcResiduals)))
	if err != nil {
		return VarDCTChannelResult{}, nil, err
	}
	runsPayload, err := encodeFlat(acRuns, ctxDomain(vardct.NumBlockContexts), acCtx)
	if err != nil {
		return VarDCTChannelResult{}, nil, err
	}
	valsPayload, err := encodeFlat(acVals, ctxDomain(vardct.NumBlockContexts), acCtx)
	if err != nil {
		return VarDCTChannelResult{}, nil, err
	}

	out := appendUint32(nil, uint32(bw))
	out = appendUint32(out, uint32(bh))
	out = appendUint32(out, uint32(len(dcResiduals)))
	out = appendLenPrefixed(out, dcPayload)
	out = appendUint32(out, uint32(len(acRuns)))
	out = appendLenPrefixed(out, runsPayload)
	out = appendLenPrefixed(out, valsPayload)
	out = append(out, boolByte(len(cflCoeffs) > 0))
	if len(cflCoeffs) > 0 {
		out = appendUint32(out, uint32(len(cflCoeffs)))
		for _, c := range cflCoeffs {
			out = append(out, byte(c))
		}
	}
	out = append(out, boolByte(len(actBytes) > 0))
	out = append(out, actBytes...)

	return VarDCTChannelResult{BlocksW: bw, BlocksH: bh, PaddedW: pw, PaddedH: ph, Payload: out}, ownAC, nil
}

// DecodeVarDCTChannel is the inverse of EncodeVarDCTChannel, returning
// the reconstructed padded plane.
func DecodeVarDCTChannel(payload []byte, ch vardct.Channel, distance float64, adaptive bool, roi *frame.ROI, lumaAC blockAC) ([]float64, int, int, blockAC, error) {
	pos := 0
	bwv, ok := readUint32(payload, pos)
	if !ok {
		return nil, 0, 0, nil, jxlerr.ErrTruncatedData()
	}
	pos += 4
	bhv, _ := readUint32(payload, pos)
	pos += 4
	bw, bh := int(bwv), int(bhv)

	dcCount, _ := readUint32(payload, pos)
	pos += 4
	dcPayload, n, err := readLenPrefixed(payload, pos)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	pos = n
	dcResiduals, err := decodeFlat(dcPayload, int(dcCount), []int{0}, flatContexts(int(dcCount)))
	if err != nil {
		return nil, 0, 0, nil, err
	}

	acCount, _ := readUint32(payload, pos)
	pos += 4
	runsPayload, n, err := readLenPrefixed(payload, pos)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	pos = n
	valsPayload, n, err := readLenPrefixed(payload, pos)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	pos = n

	if pos >= len(payload) {
		return nil, 0, 0, nil, jxlerr.ErrTruncatedData()
	}
	hasCfl := payload[pos] != 0
	pos++
	var cflCoeffs []int8
	if hasCfl {
		cflCount, ok := readUint32(payload, pos)
		if !ok {
			return nil, 0, 0, nil, jxlerr.ErrTruncatedData()
		}
		pos += 4
		cflCoeffs = make([]int8, cflCount)
		for i := range cflCoeffs {
			if pos >= len(payload) {
				return nil, 0, 0, nil, jxlerr.ErrTruncatedData()
			}
			cflCoeffs[i] = int8(payload[pos])
			pos++
		}
	}

	if pos >= len(payload) {
		return nil, 0, 0, nil, jxlerr.ErrTruncatedData()
	}
	hasActivity := payload[pos] != 0
	pos++
	var actBytes []byte
	if hasActivity {
		if pos+bw*bh > len(payload) {
			return nil, 0, 0, nil, jxlerr.ErrTruncatedData()
		}
		actBytes = payload[pos : pos+bw*bh]
		pos += bw * bh
	}

	// AC tokens carry no explicit per-token context in the wire
	// format: both streams were entropy-coded against the same
	// position-derived context the encoder computed as it walked
	// each block, so decode must replay that same walk. Context for
	// token i only depends on the run lengths of tokens before it
	// (not on whether they were end-of-block), so runs and values are
	// pulled in lockstep, one context at a time, rather than batch-
	// decoded independently.
	runsStream, err := parseTokenStream(runsPayload, int(acCount))
	if err != nil {
		return nil, 0, 0, nil, err
	}
	valsStream, err := parseTokenStream(valsPayload, int(acCount))
	if err != nil {
		return nil, 0, 0, nil, err
	}

	blockTokens := make([][]vardct.ACToken, bw*bh)
	b, posInBlock := 0, 1
	for i := 0; i < int(acCount); i++ {
		ctx := int(ch)*3 + bandOf(posInBlock)
		run, err := runsStream.get(i, ctx)
		if err != nil {
			return nil, 0, 0, nil, err
		}
		val, err := valsStream.get(i, ctx)
		if err != nil {
			return nil, 0, 0, nil, err
		}

		tok := vardct.ACToken{Run: int(run)}
		isEOB := val == 0
		if isEOB {
			tok.Value = acEOBSentinel
		} else {
			tok.Value = val - 1
		}
		if b < len(blockTokens) {
			blockTokens[b] = append(blockTokens[b], tok)
		}

		posInBlock += int(run) + 1
		if isEOB || posInBlock > vardct.BlockSize*vardct.BlockSize-1 {
			b++
			posInBlock = 1
		}
	}

	dcGrid := make([]int32, bw*bh)
	dcAt := func(bx, by int) int32 { return dcGrid[by*bw+bx] }

	pw, ph := bw*vardct.BlockSize, bh*vardct.BlockSize
	padded := make([]float64, pw*ph)
	outAC := make(blockAC, bw*bh)

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			idx := by*bw + bx
			predicted := vardct.PredictDC(bx, by, dcAt)
			actual := vardct.DecodeDCResidual(dcResiduals[idx], predicted)
			dcGrid[idx] = actual

			quantized := vardct.DecodeBlock(blockTokens[idx])
			quantized[0] = int16(actual)

			effDistance := distance
			if roi != nil {
				effDistance *= roi.DistanceMultiplier(bx*vardct.BlockSize, by*vardct.BlockSize)
			}
			var q [64]float64
			if ch == vardct.Luma {
				q = vardct.LumaMatrix(effDistance)
			} else {
				q = vardct.ChromaMatrix(effDistance)
			}
			if actBytes != nil {
				af := vardct.DequantizeActivity(actBytes[idx])
				for i := range q {
					q[i] *= af
				}
			}
			qZigzagSlice := vardct.ZigzagScan(q[:])
			var qZigzag [64]float64
			copy(qZigzag[:], qZigzagSlice)

			dequantZigzag := vardct.Dequantize(quantized, qZigzag)

			if lumaAC != nil {
				ac := dequantZigzag[1:]
				c := int(cflCoeffs[idx])
				restored := vardct.UndoCfL(ac, lumaAC[idx], c)
				copy(dequantZigzag[1:], restored)
			}
			outAC[idx] = append([]float64(nil), dequantZigzag[1:]...)

			dctRowMajor := vardct.ZigzagUnscan(dequantZigzag)
			block := vardct.Inverse2D(dctRowMajor)
			writeBlock(padded, pw, bx, by, block)
		}
	}

	return padded, pw, ph, outAC, nil
}

func bandOf(zigzagPos int) int {
	switch {
	case zigzagPos < 6:
		return int(vardct.BandLow)
	case zigzagPos < 28:
		return int(vardct.BandMid)
	default:
		return int(vardct.BandHigh)
	}
}

func extractBlock(padded []float64, stride, bx, by int) []float64 {
	out := make([]float64, vardct.BlockSize*vardct.BlockSize)
	for y := 0; y < vardct.BlockSize; y++ {
		srcOff := (by*vardct.BlockSize+y)*stride + bx*vardct.BlockSize
		copy(out[y*vardct.BlockSize:], padded[srcOff:srcOff+vardct.BlockSize])
	}
	return out
}

func writeBlock(padded []float64, stride, bx, by int, block []float64) {
	for y := 0; y < vardct.BlockSize; y++ {
		dstOff := (by*vardct.BlockSize+y)*stride + bx*vardct.BlockSize
		copy(padded[dstOff:dstOff+vardct.BlockSize], block[y*vardct.BlockSize:(y+1)*vardct.BlockSize])
	}
}

// --- flat, multi-context entropy coding shared by DC/AC streams ---

func flatContexts(n int) []int {
	ctx := make([]int, n)
	return ctx
}

func ctxDomain(n int) []int {
	return make([]int, n)
}

// encodeFlat entropy-codes a []uint32 stream whose per-symbol context
// is given by ctxOf (a length-1 contextsTemplate gives a single shared
// context), falling back to the fixed-width encoding when a
// value exceeds the ANS alphabet ceiling.
func encodeFlat(values []uint32, contextsTemplate []int, ctxOf []int) ([]byte, error) {
	numCtx := len(contextsTemplate)
	if numCtx == 0 {
		numCtx = 1
	}
	var maxSym uint32
	for _, v := range values {
		if v > maxSym {
			maxSym = v
		}
	}
	if len(values) == 0 || maxSym >= ans.MaxAlphabetSize-1 {
		return append([]byte{0}, modular.EncodeSimple(values)...), nil
	}

	alphabet := int(maxSym) + 1
	hist := make([][]uint32, numCtx)
	for c := range hist {
		hist[c] = make([]uint32, alphabet)
	}
	ctxAt := func(i int) int {
		if len(ctxOf) == 0 {
			return 0
		}
		return ctxOf[i]
	}
	for i, v := range values {
		hist[ctxAt(i)][v]++
	}
	dists := make([]*ans.Distribution, numCtx)
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
	stream, err := modular.EncodeANS(values, ctxAt, dists)
	if err != nil {
		return nil, err
	}

	out := []byte{1}
	out = appendUint32(out, uint32(numCtx))
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

func decodeFlat(payload []byte, count int, contextsTemplate []int, ctxOf []int) ([]uint32, error) {
	if len(payload) < 1 {
		if count == 0 {
			return nil, nil
		}
		return nil, jxlerr.ErrTruncatedData()
	}
	mode := payload[0]
	pos := 1
	if mode == 0 {
		return modular.DecodeSimple(payload[pos:], count)
	}

	numCtxV, ok := readUint32(payload, pos)
	if !ok {
		return nil, jxlerr.ErrTruncatedData()
	}
	pos += 4
	numCtx := int(numCtxV)
	if _, ok := readUint32(payload, pos); !ok {
		return nil, jxlerr.ErrTruncatedData()
	}
	pos += 4 // alphabet size, informational

	dists := make([]*ans.Distribution, numCtx)
	for c := 0; c < numCtx; c++ {
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

	out := make([]uint32, count)
	for i := 0; i < count; i++ {
		ctx := 0
		if len(ctxOf) > i {
			ctx = ctxOf[i]
		}
		sym, err := dec.GetSymbol(ctx)
		if err != nil {
			return nil, err
		}
		out[i] = uint32(sym)
	}
	return out, nil
}

// tokenStream decodes one flat-encoded []uint32 stream token by token,
// taking the entropy context for each symbol from the caller at the
// moment it's needed rather than all at once. This is what lets AC
// run/value decoding interleave with the causal position bookkeeping
// that determines each token's context.
type tokenStream struct {
	simple []uint32 // mode 0: whole stream already decoded, context irrelevant
	dec    *ans.MultiContextDecoder
}

func parseTokenStream(payload []byte, count int) (*tokenStream, error) {
	if len(payload) < 1 {
		if count == 0 {
			return &tokenStream{}, nil
		}
		return nil, jxlerr.ErrTruncatedData()
	}
	mode := payload[0]
	pos := 1
	if mode == 0 {
		vals, err := modular.DecodeSimple(payload[pos:], count)
		if err != nil {
			return nil, err
		}
		return &tokenStream{simple: vals}, nil
	}

	numCtxV, ok := readUint32(payload, pos)
	if !ok {
		return nil, jxlerr.ErrTruncatedData()
	}
	pos += 4
	numCtx := int(numCtxV)
	if _, ok := readUint32(payload, pos); !ok {
		return nil, jxlerr.ErrTruncatedData()
	}
	pos += 4 // alphabet size, informational

	dists := make([]*ans.Distribution, numCtx)
	for c := 0; c < numCtx; c++ {
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
	return &tokenStream{dec: dec}, nil
}

func (t *tokenStream) get(i, ctx int) (uint32, error) {
	if t.dec == nil {
		if i >= len(t.simple) {
			return 0, jxlerr.ErrTruncatedData()
		}
		return t.simple[i], nil
	}
	sym, err := t.dec.GetSymbol(ctx)
	if err != nil {
		return 0, err
	}
	return uint32(sym), nil
}

func appendLenPrefixed(out, payload []byte) []byte {
	out = appendUint32(out, uint32(len(payload)))
	return append(out, payload...)
}

func readLenPrefixed(data []byte, pos int) ([]byte, int, error) {
	n, ok := readUint32(data, pos)
	if !ok {
		return nil, 0, jxlerr.ErrTruncatedData()
	}
	pos += 4
	if pos+int(n) > len(data) {
		return nil, 0, jxlerr.ErrTruncatedData()
	}
	return data[pos : pos+int(n)], pos + int(n), nil
}
