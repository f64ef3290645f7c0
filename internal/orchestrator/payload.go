package orchestrator

import (
	"encoding/binary"
	"math"

	"github.com/jxlgo/jxl/internal/frame"
	"github.com/jxlgo/jxl/internal/jxlerr"
)

// frameExtras carries the per-frame attributes that neither
// internal/codestream's ImageMetadata/FrameHeader nor the pipeline
// payload itself has a field for: alpha blending mode, each extra
// channel's name and bit depth, and pass-through medical metadata.
// It is serialized as a small header in front of every frame's
// pipeline payload, the layer directly above the codec package that
// the frame orchestrator owns.
type frameExtras struct {
	AlphaMode frame.AlphaMode
	ExtraBits []int
	ExtraName []string
	Medical   *frame.MedicalMetadata
}

func appendU32(out []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(out, buf[:]...)
}

func appendString(out []byte, s string) []byte {
	out = appendU32(out, uint32(len(s)))
	return append(out, s...)
}

func readU32(data []byte, pos int) (uint32, int, error) {
	if pos+4 > len(data) {
		return 0, pos, jxlerr.ErrTruncatedData()
	}
	return binary.LittleEndian.Uint32(data[pos:]), pos + 4, nil
}

func readString(data []byte, pos int) (string, int, error) {
	n, pos, err := readU32(data, pos)
	if err != nil {
		return "", pos, err
	}
	if pos+int(n) > len(data) {
		return "", pos, jxlerr.ErrTruncatedData()
	}
	return string(data[pos : pos+int(n)]), pos + int(n), nil
}

func (e frameExtras) encode() []byte {
	out := []byte{byte(e.AlphaMode)}
	out = appendU32(out, uint32(len(e.ExtraBits)))
	for i, b := range e.ExtraBits {
		out = appendU32(out, uint32(b))
		out = appendString(out, e.ExtraName[i])
	}
	if e.Medical == nil {
		out = append(out, 0)
		return out
	}
	out = append(out, 1)
	out = appendString(out, e.Medical.Modality)
	out = appendString(out, e.Medical.PatientID)
	out = appendString(out, e.Medical.StudyUID)
	var fb [8]byte
	binary.LittleEndian.PutUint64(fb[:], math.Float64bits(e.Medical.WindowCenter))
	out = append(out, fb[:]...)
	binary.LittleEndian.PutUint64(fb[:], math.Float64bits(e.Medical.WindowWidth))
	out = append(out, fb[:]...)
	return out
}

func decodeFrameExtras(data []byte, pos int) (frameExtras, int, error) {
	var e frameExtras
	if pos >= len(data) {
		return e, pos, jxlerr.ErrTruncatedData()
	}
	e.AlphaMode = frame.AlphaMode(data[pos])
	pos++

	n, pos2, err := readU32(data, pos)
	if err != nil {
		return e, pos, err
	}
	pos = pos2
	e.ExtraBits = make([]int, n)
	e.ExtraName = make([]string, n)
	for i := range e.ExtraBits {
		var b uint32
		b, pos, err = readU32(data, pos)
		if err != nil {
			return e, pos, err
		}
		e.ExtraBits[i] = int(b)
		e.ExtraName[i], pos, err = readString(data, pos)
		if err != nil {
			return e, pos, err
		}
	}

	if pos >= len(data) {
		return e, pos, jxlerr.ErrTruncatedData()
	}
	hasMedical := data[pos] != 0
	pos++
	if hasMedical {
		m := &frame.MedicalMetadata{}
		m.Modality, pos, err = readString(data, pos)
		if err != nil {
			return e, pos, err
		}
		m.PatientID, pos, err = readString(data, pos)
		if err != nil {
			return e, pos, err
		}
		m.StudyUID, pos, err = readString(data, pos)
		if err != nil {
			return e, pos, err
		}
		if pos+16 > len(data) {
			return e, pos, jxlerr.ErrTruncatedData()
		}
		m.WindowCenter = math.Float64frombits(binary.LittleEndian.Uint64(data[pos:]))
		pos += 8
		m.WindowWidth = math.Float64frombits(binary.LittleEndian.Uint64(data[pos:]))
		pos += 8
		e.Medical = m
	}
	return e, pos, nil
}

// vardctParams carries the encode-time VarDCT knobs a decoder needs to
// reconstruct pixels but that the codec payload itself doesn't
// self-describe: the target distance, whether adaptive quantization
// was applied, and any region-of-interest quality boost. It is
// written once per VarDCT frame body so Decode never has to be told
// the encoder's settings out of band.
type vardctParams struct {
	Distance float64
	Adaptive bool
	ROI      *frame.ROI
}

func (p vardctParams) encode() []byte {
	out := make([]byte, 0, 10)
	var fb [8]byte
	binary.LittleEndian.PutUint64(fb[:], math.Float64bits(p.Distance))
	out = append(out, fb[:]...)
	adaptive := byte(0)
	if p.Adaptive {
		adaptive = 1
	}
	out = append(out, adaptive)
	if p.ROI == nil {
		out = append(out, 0)
		return out
	}
	out = append(out, 1)
	out = appendU32(out, uint32(p.ROI.X))
	out = appendU32(out, uint32(p.ROI.Y))
	out = appendU32(out, uint32(p.ROI.W))
	out = appendU32(out, uint32(p.ROI.H))
	out = appendU32(out, uint32(p.ROI.FeatherWidth))
	binary.LittleEndian.PutUint64(fb[:], math.Float64bits(p.ROI.QualityBoost))
	out = append(out, fb[:]...)
	return out
}

func decodeVardctParams(data []byte, pos int) (vardctParams, int, error) {
	var p vardctParams
	if pos+10 > len(data) {
		return p, pos, jxlerr.ErrTruncatedData()
	}
	p.Distance = math.Float64frombits(binary.LittleEndian.Uint64(data[pos:]))
	pos += 8
	p.Adaptive = data[pos] != 0
	pos++

	hasROI := data[pos] != 0
	pos++
	if !hasROI {
		return p, pos, nil
	}

	var x, y, w, h, feather uint32
	var err error
	for _, v := range []*uint32{&x, &y, &w, &h, &feather} {
		*v, pos, err = readU32(data, pos)
		if err != nil {
			return p, pos, err
		}
	}
	if pos+8 > len(data) {
		return p, pos, jxlerr.ErrTruncatedData()
	}
	boost := math.Float64frombits(binary.LittleEndian.Uint64(data[pos:]))
	pos += 8
	p.ROI = &frame.ROI{X: int(x), Y: int(y), W: int(w), H: int(h), FeatherWidth: int(feather), QualityBoost: boost}
	return p, pos, nil
}

func appendLenPrefixed(out, payload []byte) []byte {
	out = appendU32(out, uint32(len(payload)))
	return append(out, payload...)
}

func readLenPrefixed(data []byte, pos int) ([]byte, int, error) {
	n, pos, err := readU32(data, pos)
	if err != nil {
		return nil, pos, err
	}
	if pos+int(n) > len(data) {
		return nil, pos, jxlerr.ErrTruncatedData()
	}
	return data[pos : pos+int(n)], pos + int(n), nil
}
