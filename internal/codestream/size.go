// Package codestream implements the JPEG XL codestream wire format:
// the two-byte signature, a compact size header, image metadata and
// color encoding with "all default" fast paths, frame headers, and
// section/group headers. Bits are read and written through internal/bio,
// the same LSB-first primitive the rest of the core uses, so the
// header package sits on a shared bit-level reader/writer rather
// than hand-rolling byte offsets per field.
package codestream

import (
	"github.com/jxlgo/jxl/internal/bio"
	"github.com/jxlgo/jxl/internal/jxlerr"
)

// Signature is the fixed two-byte codestream marker.
var Signature = [2]byte{0xFF, 0x0A}

// MaxDimension is the largest encodable width or height.
const MaxDimension = 1 << 30

// widthSelectorBits maps the 2-bit non-small selector to a field
// width for (value-1).
var widthSelectorBits = [4]uint{9, 13, 18, 30}

// WriteSignature appends the fixed codestream signature.
func WriteSignature(w *bio.Writer) {
	w.AppendByte(Signature[0])
	w.AppendByte(Signature[1])
}

// ReadSignature consumes and validates the codestream signature.
func ReadSignature(r *bio.Reader) error {
	b0, err := r.ReadAlignedByte()
	if err != nil {
		return err
	}
	b1, err := r.ReadAlignedByte()
	if err != nil {
		return err
	}
	if b0 != Signature[0] || b1 != Signature[1] {
		return jxlerr.ErrDecodingFailed("bad codestream signature")
	}
	return nil
}

// WriteSizeHeader encodes width/height using the compact form: a
// "small" bit, then either two 8-bit (value-1) fields or a 2-bit
// selector plus two (value-1) fields of the selected width.
func WriteSizeHeader(w *bio.Writer, width, height uint32) error {
	if width == 0 || height == 0 || width > MaxDimension || height > MaxDimension {
		return jxlerr.ErrInvalidDimensions(int(width), int(height))
	}

	if width <= 256 && height <= 256 {
		w.Append(1, 1)
		w.Append(width-1, 8)
		w.Append(height-1, 8)
		return nil
	}

	w.Append(0, 1)
	sel, bits := selectWidth(width, height)
	w.Append(uint32(sel), 2)
	w.Append(width-1, bits)
	w.Append(height-1, bits)
	return nil
}

func selectWidth(width, height uint32) (sel int, bits uint) {
	need := width
	if height > need {
		need = height
	}
	for i, bw := range widthSelectorBits {
		if need-1 < (1 << bw) {
			return i, bw
		}
	}
	return 3, widthSelectorBits[3]
}

// ReadSizeHeader is the inverse of WriteSizeHeader.
func ReadSizeHeader(r *bio.Reader) (width, height uint32, err error) {
	small, err := r.ReadBool()
	if err != nil {
		return 0, 0, err
	}
	if small {
		w, err := r.Read(8)
		if err != nil {
			return 0, 0, err
		}
		h, err := r.Read(8)
		if err != nil {
			return 0, 0, err
		}
		return w + 1, h + 1, nil
	}

	sel, err := r.Read(2)
	if err != nil {
		return 0, 0, err
	}
	if int(sel) >= len(widthSelectorBits) {
		return 0, 0, jxlerr.ErrDecodingFailed("invalid size header selector")
	}
	bits := widthSelectorBits[sel]
	w, err := r.Read(bits)
	if err != nil {
		return 0, 0, err
	}
	h, err := r.Read(bits)
	if err != nil {
		return 0, 0, err
	}
	width, height = w+1, h+1
	if width == 0 || height == 0 || width > MaxDimension || height > MaxDimension {
		return 0, 0, jxlerr.ErrInvalidDimensions(int(width), int(height))
	}
	return width, height, nil
}
