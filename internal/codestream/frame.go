package codestream

import (
	"github.com/jxlgo/jxl/internal/bio"
	"github.com/jxlgo/jxl/internal/jxlerr"
)

// Encoding kind selects which pipeline produced a frame's payload.
const (
	EncodingModular = iota
	EncodingVarDCT
)

// Blend modes for compositing a frame onto the canvas built up by
// prior frames.
const (
	BlendReplace = iota
	BlendBlend
	BlendAdd
	BlendMultiply
)

// FrameHeader carries the per-frame fields: encoding kind, blend
// mode, crop rectangle, duration, pass count, save-as-reference
// index, optional name and the is-last flag.
type FrameHeader struct {
	Encoding        int
	BlendMode       int
	CropX0, CropY0  int
	CropW, CropH    int
	Duration        uint32
	NumPasses       int
	SaveAsReference int // -1 means "not saved"
	Name            string
	IsLast          bool
}

// DefaultFrameHeader is the value assumed when the "all default" bit
// is set: a full-frame Modular replace with one pass, not saved as a
// reference, and marked as the last frame.
func DefaultFrameHeader(width, height int) FrameHeader {
	return FrameHeader{
		Encoding:        EncodingModular,
		BlendMode:       BlendReplace,
		CropW:           width,
		CropH:           height,
		NumPasses:       1,
		SaveAsReference: -1,
		IsLast:          true,
	}
}

func (h FrameHeader) isDefault(width, height int) bool {
	return h == DefaultFrameHeader(width, height)
}

// WriteFrameHeader serializes h, using the one-bit fast path when h
// equals DefaultFrameHeader(width, height) for the enclosing image's
// dimensions.
func WriteFrameHeader(w *bio.Writer, h FrameHeader, width, height int) error {
	if h.isDefault(width, height) {
		w.Append(1, 1)
		return nil
	}
	w.Append(0, 1)

	w.Append(uint32(h.Encoding), 1)
	w.Append(uint32(h.BlendMode), 2)

	w.Append(uint32(h.CropX0), 30)
	w.Append(uint32(h.CropY0), 30)
	w.Append(uint32(h.CropW), 30)
	w.Append(uint32(h.CropH), 30)

	w.Append(h.Duration, 32)
	w.Append(uint32(h.NumPasses), 8)

	hasRef := h.SaveAsReference >= 0
	w.Append(boolBit(hasRef), 1)
	if hasRef {
		w.Append(uint32(h.SaveAsReference), 8)
	}

	nameBytes := []byte(h.Name)
	w.Append(uint32(len(nameBytes)), 16)
	for _, b := range nameBytes {
		w.AppendByte(b)
	}

	w.Append(boolBit(h.IsLast), 1)
	return nil
}

// ReadFrameHeader is the inverse of WriteFrameHeader.
func ReadFrameHeader(r *bio.Reader, width, height int) (FrameHeader, error) {
	allDefault, err := r.ReadBool()
	if err != nil {
		return FrameHeader{}, err
	}
	if allDefault {
		return DefaultFrameHeader(width, height), nil
	}

	var h FrameHeader
	enc, err := r.Read(1)
	if err != nil {
		return h, err
	}
	h.Encoding = int(enc)

	blend, err := r.Read(2)
	if err != nil {
		return h, err
	}
	h.BlendMode = int(blend)
	if h.BlendMode > BlendMultiply {
		return h, jxlerr.ErrInvalidFrameHeader("invalid blend mode")
	}

	for _, f := range []*int{&h.CropX0, &h.CropY0, &h.CropW, &h.CropH} {
		v, err := r.Read(30)
		if err != nil {
			return h, err
		}
		*f = int(v)
	}

	if h.Duration, err = r.Read(32); err != nil {
		return h, err
	}
	passes, err := r.Read(8)
	if err != nil {
		return h, err
	}
	h.NumPasses = int(passes)

	hasRef, err := r.ReadBool()
	if err != nil {
		return h, err
	}
	h.SaveAsReference = -1
	if hasRef {
		v, err := r.Read(8)
		if err != nil {
			return h, err
		}
		h.SaveAsReference = int(v)
	}

	nameLen, err := r.Read(16)
	if err != nil {
		return h, err
	}
	name := make([]byte, nameLen)
	for i := range name {
		b, err := r.Read(8)
		if err != nil {
			return h, err
		}
		name[i] = byte(b)
	}
	h.Name = string(name)

	last, err := r.ReadBool()
	if err != nil {
		return h, err
	}
	h.IsLast = last

	return h, nil
}
