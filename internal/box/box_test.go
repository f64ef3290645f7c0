package box

import (
	"bytes"
	"io"
	"testing"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeSignature, "JXL "},
		{TypeFileType, "ftyp"},
		{TypeCodestream, "jxlc"},
		{TypePartial, "jxlp"},
		{TypeLevel, "jxll"},
		{TypeExif, "Exif"},
		{TypeXML, "xml "},
		{TypeColor, "colr"},
		{TypeFrameIndex, "jxli"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("Type(%08X).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestSignatureBoxRoundTrip(t *testing.T) {
	b := NewSignatureBox()
	if !IsSignatureBox(b) {
		t.Fatal("NewSignatureBox did not produce a recognizable signature box")
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteBox(b); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	got, err := r.ReadBox()
	if err != nil {
		t.Fatal(err)
	}
	if !IsSignatureBox(got) {
		t.Fatal("round-tripped box is not recognized as a signature box")
	}
}

func TestFirstTwelveBytesIdentifySignature(t *testing.T) {
	b := NewSignatureBox()
	data := b.Bytes()
	if len(data) != 12 {
		t.Fatalf("signature box length = %d, want 12", len(data))
	}
	want := []byte{0, 0, 0, 0x0C, 'J', 'X', 'L', ' ', 0x0D, 0x0A, 0x87, 0x0A}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, data[i], want[i])
		}
	}
}

func TestFileTypeBoxRoundTrip(t *testing.T) {
	b := NewFileTypeBox()
	var ftyp FileTypeBox
	if err := ftyp.Parse(b.Contents); err != nil {
		t.Fatal(err)
	}
	if ftyp.Brand != jxlBrand {
		t.Errorf("brand = %v, want %v", ftyp.Brand, jxlBrand)
	}
	if len(ftyp.Compatibility) != 1 || ftyp.Compatibility[0] != jxlBrand {
		t.Errorf("compatibility = %v, want [%v]", ftyp.Compatibility, jxlBrand)
	}
}

func TestCodestreamBoxRoundTrip(t *testing.T) {
	payload := []byte{0xFF, 0x0A, 1, 2, 3, 4, 5}
	b := NewCodestreamBox(payload)

	var buf bytes.Buffer
	NewWriter(&buf).WriteBox(b)

	r := NewReader(&buf)
	got, err := r.ReadBox()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Contents, payload) {
		t.Fatalf("got %x, want %x", got.Contents, payload)
	}
}

func TestPartialCodestreamBoxesReassemble(t *testing.T) {
	codestream := make([]byte, 100)
	for i := range codestream {
		codestream[i] = byte(i)
	}
	boxes := NewPartialCodestreamBoxes(codestream, 30)
	if len(boxes) != 4 {
		t.Fatalf("got %d partial boxes, want 4", len(boxes))
	}

	var reassembled []byte
	for i, b := range boxes {
		if b.Type != TypePartial {
			t.Fatalf("box %d has wrong type", i)
		}
		reassembled = append(reassembled, b.Contents[4:]...)
	}
	if !bytes.Equal(reassembled, codestream) {
		t.Fatal("reassembled partial codestream does not match original")
	}
}

func TestExifBoxHasZeroOffsetPrefix(t *testing.T) {
	payload := []byte{1, 2, 3}
	b := NewExifBox(payload)
	if len(b.Contents) != 4+len(payload) {
		t.Fatalf("contents length = %d, want %d", len(b.Contents), 4+len(payload))
	}
	for i := 0; i < 4; i++ {
		if b.Contents[i] != 0 {
			t.Fatalf("offset prefix byte %d = %d, want 0", i, b.Contents[i])
		}
	}
	if !bytes.Equal(b.Contents[4:], payload) {
		t.Fatal("Exif payload mismatch")
	}
}

func TestFrameIndexBoxRoundTrip(t *testing.T) {
	entries := []FrameIndexEntry{
		{FrameNumber: 0, Offset: 100, Duration: 10},
		{FrameNumber: 1, Offset: 250, Duration: 10},
		{FrameNumber: 2, Offset: 400, Duration: 20},
	}
	b := NewFrameIndexBox(entries)
	got, err := ParseFrameIndexBox(b.Contents)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestReaderEOFOnEmptyStream(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	_, err := r.ReadBox()
	if err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestParseContainerRecoversEveryBoxAndCodestream(t *testing.T) {
	codestream := []byte{0xFF, 0x0A, 9, 9, 9, 9}
	var buf bytes.Buffer
	w := NewWriter(&buf)

	boxes := []*Box{
		NewSignatureBox(),
		NewFileTypeBox(),
		NewCodestreamBox(codestream),
		NewExifBox([]byte("exif-payload")),
		NewXMLBox([]byte("<xmp/>")),
		NewColorBox([]byte{1, 2, 3, 4}),
	}
	for _, b := range boxes {
		if err := w.WriteBox(b); err != nil {
			t.Fatal(err)
		}
	}

	c, err := ParseContainer(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(c.Codestream, codestream) {
		t.Fatalf("codestream = %x, want %x", c.Codestream, codestream)
	}
	if string(c.Exif) != "exif-payload" {
		t.Fatalf("Exif = %q, want %q", c.Exif, "exif-payload")
	}
	if string(c.XML) != "<xmp/>" {
		t.Fatalf("XML = %q, want %q", c.XML, "<xmp/>")
	}
	if !bytes.Equal(c.ICCProfile, []byte{1, 2, 3, 4}) {
		t.Fatalf("ICC profile = %x, want %x", c.ICCProfile, []byte{1, 2, 3, 4})
	}
}

func TestParseContainerReassemblesPartialCodestream(t *testing.T) {
	codestream := make([]byte, 50)
	for i := range codestream {
		codestream[i] = byte(i * 3)
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBox(NewSignatureBox())
	w.WriteBox(NewFileTypeBox())
	for _, b := range NewPartialCodestreamBoxes(codestream, 16) {
		w.WriteBox(b)
	}

	c, err := ParseContainer(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(c.Codestream, codestream) {
		t.Fatal("reassembled codestream from jxlp boxes does not match original")
	}
}

func TestParseContainerRejectsMissingSignature(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteBox(NewFileTypeBox())

	if _, err := ParseContainer(buf.Bytes()); err == nil {
		t.Fatal("expected error for missing signature box")
	}
}

func TestLevelBox(t *testing.T) {
	b := NewLevelBox(10)
	if len(b.Contents) != 1 || b.Contents[0] != 10 {
		t.Fatalf("level box contents = %v, want [10]", b.Contents)
	}
}
