// Package box implements the ISOBMFF-style box container that wraps
// a JPEG XL codestream: length-prefixed, 4-char-type boxes with
// extended-length handling and a streaming Reader/Writer, populated
// with the JXL box set.
package box

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Box type codes for the JPEG XL container.
const (
	TypeSignature  Type = 0x4A584C20 // "JXL " - signature box
	TypeFileType   Type = 0x66747970 // "ftyp"
	TypeCodestream Type = 0x6A786C63 // "jxlc" - entire codestream
	TypePartial    Type = 0x6A786C70 // "jxlp" - partial codestream
	TypeLevel      Type = 0x6A786C6C // "jxll" - level box
	TypeExif       Type = 0x45786966 // "Exif"
	TypeXML        Type = 0x786D6C20 // "xml "
	TypeColor      Type = 0x636F6C72 // "colr"
	TypeThumbnail  Type = 0x74687562 // "thub"
	TypeFrameIndex Type = 0x6A786C69 // "jxli" - frame index
)

// Signature is the fixed payload of the "JXL " signature box.
var Signature = [4]byte{0x0D, 0x0A, 0x87, 0x0A}

// Type represents a 4-byte box type code.
type Type uint32

// String returns the 4-character type code.
func (t Type) String() string {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(t))
	return string(b)
}

// Box is one ISOBMFF-style box: a big-endian size, a 4-char type,
// then the payload.
type Box struct {
	Type     Type
	Length   uint64 // total box length including header
	Contents []byte
}

// Header returns the box header bytes.
func (b *Box) Header() []byte {
	if b.Length <= 0xFFFFFFFF {
		header := make([]byte, 8)
		binary.BigEndian.PutUint32(header[0:4], uint32(b.Length))
		binary.BigEndian.PutUint32(header[4:8], uint32(b.Type))
		return header
	}
	header := make([]byte, 16)
	binary.BigEndian.PutUint32(header[0:4], 1)
	binary.BigEndian.PutUint32(header[4:8], uint32(b.Type))
	binary.BigEndian.PutUint64(header[8:16], b.Length)
	return header
}

// Bytes returns the complete box as bytes.
func (b *Box) Bytes() []byte {
	header := b.Header()
	result := make([]byte, len(header)+len(b.Contents))
	copy(result, header)
	copy(result[len(header):], b.Contents)
	return result
}

// Reader reads boxes from a stream.
type Reader struct {
	r      io.Reader
	offset int64
}

// NewReader creates a new box reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadBox reads the next box from the stream.
func (r *Reader) ReadBox() (*Box, error) {
	header := make([]byte, 8)
	n, err := io.ReadFull(r.r, header)
	if err != nil {
		if err == io.EOF && n == 0 {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading box header: %w", err)
	}
	r.offset += 8

	length := uint64(binary.BigEndian.Uint32(header[0:4]))
	boxType := Type(binary.BigEndian.Uint32(header[4:8]))
	headerLen := uint64(8)

	if length == 1 {
		extLen := make([]byte, 8)
		if _, err := io.ReadFull(r.r, extLen); err != nil {
			return nil, fmt.Errorf("reading extended length: %w", err)
		}
		length = binary.BigEndian.Uint64(extLen)
		headerLen = 16
		r.offset += 8
	} else if length == 0 {
		return nil, errors.New("box extends to EOF not supported")
	}

	if length < headerLen {
		return nil, fmt.Errorf("invalid box length: %d", length)
	}

	contentLen := length - headerLen
	if contentLen > 1<<30 {
		return nil, fmt.Errorf("box too large: %d bytes", contentLen)
	}

	contents := make([]byte, contentLen)
	if _, err := io.ReadFull(r.r, contents); err != nil {
		return nil, fmt.Errorf("reading box contents: %w", err)
	}
	r.offset += int64(contentLen)

	return &Box{Type: boxType, Length: length, Contents: contents}, nil
}

// Offset returns the current stream offset.
func (r *Reader) Offset() int64 { return r.offset }

// Writer writes boxes to a stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a new box writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteBox writes a box to the stream.
func (w *Writer) WriteBox(b *Box) error {
	_, err := w.w.Write(b.Bytes())
	return err
}

// NewSignatureBox builds the required "JXL " signature box.
func NewSignatureBox() *Box {
	b := &Box{Type: TypeSignature, Contents: Signature[:]}
	b.Length = uint64(8 + len(b.Contents))
	return b
}

// IsSignatureBox reports whether a box is a well-formed JXL signature
// box.
func IsSignatureBox(b *Box) bool {
	return b.Type == TypeSignature && len(b.Contents) == 4 &&
		b.Contents[0] == Signature[0] && b.Contents[1] == Signature[1] &&
		b.Contents[2] == Signature[2] && b.Contents[3] == Signature[3]
}

// FileTypeBox is the "ftyp" box: brand, minor version, compatible
// brand list.
type FileTypeBox struct {
	Brand         Type
	MinorVersion  uint32
	Compatibility []Type
}

// Parse parses the file type box.
func (b *FileTypeBox) Parse(data []byte) error {
	if len(data) < 8 {
		return errors.New("file type box too short")
	}
	b.Brand = Type(binary.BigEndian.Uint32(data[0:4]))
	b.MinorVersion = binary.BigEndian.Uint32(data[4:8])
	numCompat := (len(data) - 8) / 4
	b.Compatibility = make([]Type, numCompat)
	for i := 0; i < numCompat; i++ {
		b.Compatibility[i] = Type(binary.BigEndian.Uint32(data[8+i*4:]))
	}
	return nil
}

// Bytes returns the box contents.
func (b *FileTypeBox) Bytes() []byte {
	data := make([]byte, 8+4*len(b.Compatibility))
	binary.BigEndian.PutUint32(data[0:4], uint32(b.Brand))
	binary.BigEndian.PutUint32(data[4:8], b.MinorVersion)
	for i, c := range b.Compatibility {
		binary.BigEndian.PutUint32(data[8+i*4:], uint32(c))
	}
	return data
}

// jxlBrand is both the major brand and sole compatible brand written
// into ftyp, "jxl " per the container spec.
const jxlBrand Type = 0x6A786C20

// NewFileTypeBox builds the standard ftyp box for a JXL container.
func NewFileTypeBox() *Box {
	ftyp := &FileTypeBox{Brand: jxlBrand, MinorVersion: 0, Compatibility: []Type{jxlBrand}}
	contents := ftyp.Bytes()
	return &Box{Type: TypeFileType, Length: uint64(8 + len(contents)), Contents: contents}
}

// NewCodestreamBox wraps an entire codestream in a single "jxlc" box.
func NewCodestreamBox(codestream []byte) *Box {
	return &Box{Type: TypeCodestream, Length: uint64(8 + len(codestream)), Contents: codestream}
}

// NewPartialCodestreamBoxes splits a codestream across one or more
// "jxlp" boxes of at most chunkSize bytes each, prefixing each
// payload with its 4-byte big-endian partial-stream index.
func NewPartialCodestreamBoxes(codestream []byte, chunkSize int) []*Box {
	if chunkSize <= 0 {
		chunkSize = len(codestream)
	}
	var boxes []*Box
	for i, off := 0, 0; off < len(codestream); i, off = i+1, off+chunkSize {
		end := off + chunkSize
		if end > len(codestream) {
			end = len(codestream)
		}
		payload := make([]byte, 4+end-off)
		binary.BigEndian.PutUint32(payload[0:4], uint32(i))
		copy(payload[4:], codestream[off:end])
		boxes = append(boxes, &Box{Type: TypePartial, Length: uint64(8 + len(payload)), Contents: payload})
	}
	return boxes
}

// NewExifBox wraps Exif metadata payload with its mandated 4-byte
// zero offset prefix.
func NewExifBox(payload []byte) *Box {
	contents := make([]byte, 4+len(payload))
	copy(contents[4:], payload)
	return &Box{Type: TypeExif, Length: uint64(8 + len(contents)), Contents: contents}
}

// NewXMLBox wraps a UTF-8 XMP packet.
func NewXMLBox(xml []byte) *Box {
	return &Box{Type: TypeXML, Length: uint64(8 + len(xml)), Contents: xml}
}

// NewColorBox wraps an ICC profile under the "prof" method tag.
func NewColorBox(icc []byte) *Box {
	contents := make([]byte, 4+len(icc))
	copy(contents[0:4], "prof")
	copy(contents[4:], icc)
	return &Box{Type: TypeColor, Length: uint64(8 + len(contents)), Contents: contents}
}

// NewLevelBox records a codestream level other than the default (5).
func NewLevelBox(level uint8) *Box {
	return &Box{Type: TypeLevel, Length: 9, Contents: []byte{level}}
}

// FrameIndexEntry describes one animation frame's position in the
// codestream for the "jxli" box.
type FrameIndexEntry struct {
	FrameNumber uint32
	Offset      uint32
	Duration    uint32
}

// NewFrameIndexBox builds the "jxli" box: a 4-byte big-endian entry
// count followed by (frame#, offset, duration) triples.
func NewFrameIndexBox(entries []FrameIndexEntry) *Box {
	contents := make([]byte, 4+12*len(entries))
	binary.BigEndian.PutUint32(contents[0:4], uint32(len(entries)))
	for i, e := range entries {
		base := 4 + i*12
		binary.BigEndian.PutUint32(contents[base:base+4], e.FrameNumber)
		binary.BigEndian.PutUint32(contents[base+4:base+8], e.Offset)
		binary.BigEndian.PutUint32(contents[base+8:base+12], e.Duration)
	}
	return &Box{Type: TypeFrameIndex, Length: uint64(8 + len(contents)), Contents: contents}
}

// ParseFrameIndexBox is the inverse of NewFrameIndexBox.
func ParseFrameIndexBox(contents []byte) ([]FrameIndexEntry, error) {
	if len(contents) < 4 {
		return nil, errors.New("frame index box too short")
	}
	count := binary.BigEndian.Uint32(contents[0:4])
	entries := make([]FrameIndexEntry, count)
	for i := range entries {
		base := 4 + i*12
		if base+12 > len(contents) {
			return nil, errors.New("frame index box truncated")
		}
		entries[i] = FrameIndexEntry{
			FrameNumber: binary.BigEndian.Uint32(contents[base : base+4]),
			Offset:      binary.BigEndian.Uint32(contents[base+4 : base+8]),
			Duration:    binary.BigEndian.Uint32(contents[base+8 : base+12]),
		}
	}
	return entries, nil
}

// NewThumbnailBox wraps a thumbnail image payload (an independently
// encoded small codestream) verbatim.
func NewThumbnailBox(payload []byte) *Box {
	return &Box{Type: TypeThumbnail, Length: uint64(8 + len(payload)), Contents: payload}
}

// Container is the parsed result of reading every box in a JXL file:
// the extracted codestream bytes (concatenated across jxlc/jxlp) plus
// whichever optional boxes were present.
type Container struct {
	Codestream []byte
	Exif       []byte
	XML        []byte
	ICCProfile []byte
	Level      *uint8
	FrameIndex []FrameIndexEntry
	Thumbnail  []byte
}

// ParseContainer reads every box from data and assembles a Container.
// It does not require boxes in any particular order beyond the
// signature box appearing first, per the ISOBMFF convention.
func ParseContainer(data []byte) (*Container, error) {
	r := NewReader(&byteReader{data: data})
	c := &Container{}

	first, err := r.ReadBox()
	if err != nil {
		return nil, err
	}
	if !IsSignatureBox(first) {
		return nil, errors.New("missing JXL signature box")
	}

	partials := map[uint32][]byte{}
	for {
		b, err := r.ReadBox()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch b.Type {
		case TypeFileType:
			// validated structurally only; brand mismatch is not fatal to extraction
		case TypeCodestream:
			c.Codestream = append(c.Codestream, b.Contents...)
		case TypePartial:
			if len(b.Contents) < 4 {
				return nil, errors.New("jxlp box too short")
			}
			idx := binary.BigEndian.Uint32(b.Contents[0:4])
			partials[idx] = b.Contents[4:]
		case TypeLevel:
			if len(b.Contents) < 1 {
				return nil, errors.New("jxll box too short")
			}
			lvl := b.Contents[0]
			c.Level = &lvl
		case TypeExif:
			if len(b.Contents) < 4 {
				return nil, errors.New("Exif box too short")
			}
			c.Exif = b.Contents[4:]
		case TypeXML:
			c.XML = b.Contents
		case TypeColor:
			if len(b.Contents) >= 4 {
				c.ICCProfile = b.Contents[4:]
			}
		case TypeFrameIndex:
			entries, err := ParseFrameIndexBox(b.Contents)
			if err != nil {
				return nil, err
			}
			c.FrameIndex = entries
		case TypeThumbnail:
			c.Thumbnail = b.Contents
		}
	}

	if len(partials) > 0 {
		for i := uint32(0); i < uint32(len(partials)); i++ {
			chunk, ok := partials[i]
			if !ok {
				return nil, fmt.Errorf("missing jxlp partial index %d", i)
			}
			c.Codestream = append(c.Codestream, chunk...)
		}
	}

	return c, nil
}

// byteReader wraps a byte slice as an io.Reader.
type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
