package codestream

import (
	"encoding/binary"

	"github.com/jxlgo/jxl/internal/bio"
	"github.com/jxlgo/jxl/internal/jxlerr"
)

// Section is one length-prefixed payload within a frame: a pipeline
// output, always byte-aligned so sections can be concatenated without
// bit-level bookkeeping. The orchestrator writes each frame's payload
// as a single section.
type Section struct {
	Payload []byte
}

// WriteSection appends a 4-byte little-endian length followed by the
// payload.
func WriteSection(w *bio.Writer, s Section) {
	w.FlushToByteBoundary()
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s.Payload)))
	for _, b := range lenBuf {
		w.AppendByte(b)
	}
	for _, b := range s.Payload {
		w.AppendByte(b)
	}
}

// ReadSection is the inverse of WriteSection.
func ReadSection(r *bio.Reader) (Section, error) {
	lenBytes, err := r.ReadBytes(4)
	if err != nil {
		return Section{}, err
	}
	n := binary.LittleEndian.Uint32(lenBytes)
	payload, err := r.ReadBytes(int(n))
	if err != nil {
		return Section{}, jxlerr.ErrTruncatedData()
	}
	return Section{Payload: append([]byte(nil), payload...)}, nil
}

// GroupHeader identifies one group within a multi-group frame: its
// index and whether it carries global (frame-wide) information versus
// a per-group payload.
type GroupHeader struct {
	Index    int
	IsGlobal bool
}

// WriteGroupHeader appends a group index (16 bits, supporting up to
// 65536 groups per frame) and the is-global bit.
func WriteGroupHeader(w *bio.Writer, g GroupHeader) {
	w.Append(uint32(g.Index), 16)
	w.Append(boolBit(g.IsGlobal), 1)
}

// ReadGroupHeader is the inverse of WriteGroupHeader.
func ReadGroupHeader(r *bio.Reader) (GroupHeader, error) {
	idx, err := r.Read(16)
	if err != nil {
		return GroupHeader{}, err
	}
	isGlobal, err := r.ReadBool()
	if err != nil {
		return GroupHeader{}, err
	}
	return GroupHeader{Index: int(idx), IsGlobal: isGlobal}, nil
}
