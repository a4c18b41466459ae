package imageio

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/sensor"
)

func gradientBitmap(width, height int) *sensor.Bitmap {
	bm := sensor.NewBitmap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			bm.Set(x, y, core.NewSpectrum(
				float64(x)*0.5,
				float64(y)*0.25,
				float64(x+y)+0.125,
			))
		}
	}
	return bm
}

func TestEXR_WriteReadRoundtrip(t *testing.T) {
	src := gradientBitmap(7, 5)

	var buf bytes.Buffer
	if err := WriteEXR(&buf, src); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadEXR(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Width != src.Width || got.Height != src.Height {
		t.Fatalf("size = %dx%d, want %dx%d", got.Width, got.Height, src.Width, src.Height)
	}
	for i := range src.Pixels {
		if got.Pixels[i] != src.Pixels[i] {
			t.Fatalf("pixel %d = %v, want %v", i, got.Pixels[i], src.Pixels[i])
		}
	}
}

func TestEXR_RejectsBadMagic(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef, 2, 0, 0, 0}
	if _, err := ReadEXR(bytes.NewReader(data)); !errors.Is(err, ErrBadImage) {
		t.Errorf("bad magic error = %v, want ErrBadImage", err)
	}
}

func TestEXR_RejectsTruncated(t *testing.T) {
	src := gradientBitmap(4, 4)
	var buf bytes.Buffer
	if err := WriteEXR(&buf, src); err != nil {
		t.Fatalf("write: %v", err)
	}
	data := buf.Bytes()[:buf.Len()-10]
	if _, err := ReadEXR(bytes.NewReader(data)); !errors.Is(err, ErrBadImage) {
		t.Errorf("truncated file error = %v, want ErrBadImage", err)
	}
}

// zipForward applies the format's pre-compression transform: split into
// interleaved halves, then byte-delta encode, then deflate
func zipForward(t *testing.T, data []byte) []byte {
	t.Helper()
	tmp := make([]byte, len(data))
	mid := (len(data) + 1) / 2
	for i, j := 0, 0; i < len(data); i, j = i+2, j+1 {
		tmp[j] = data[i]
	}
	for i, j := 1, mid; i < len(data); i, j = i+2, j+1 {
		tmp[j] = data[i]
	}
	enc := make([]byte, len(tmp))
	prev := 0
	for i, b := range tmp {
		if i == 0 {
			enc[0] = b
		} else {
			enc[i] = byte(int(b) - prev + 128)
		}
		prev = int(b)
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(enc); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	zw.Close()
	return buf.Bytes()
}

func TestZipDecompress_InvertsForwardTransform(t *testing.T) {
	data := []byte{10, 250, 3, 77, 128, 0, 255, 42, 9}
	compressed := zipForward(t, data)
	got, err := zipDecompress(compressed, len(data))
	if err != nil {
		t.Fatalf("zipDecompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("roundtrip = %v, want %v", got, data)
	}
}

// writeTestEXR builds a single-block scanline file by hand so the
// reader can be exercised against zip compression and half channels
func writeTestEXR(t *testing.T, width, height int, compression byte, channels []exrChannel, pixelData []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(exrMagic))
	binary.Write(&buf, binary.LittleEndian, uint32(2))

	attr := func(name, typ string, data []byte) {
		buf.WriteString(name)
		buf.WriteByte(0)
		buf.WriteString(typ)
		buf.WriteByte(0)
		binary.Write(&buf, binary.LittleEndian, int32(len(data)))
		buf.Write(data)
	}

	var chlist bytes.Buffer
	for _, ch := range channels {
		chlist.WriteString(ch.name)
		chlist.WriteByte(0)
		binary.Write(&chlist, binary.LittleEndian, ch.pixelType)
		chlist.Write([]byte{0, 0, 0, 0})
		binary.Write(&chlist, binary.LittleEndian, int32(1))
		binary.Write(&chlist, binary.LittleEndian, int32(1))
	}
	chlist.WriteByte(0)
	attr("channels", "chlist", chlist.Bytes())
	attr("compression", "compression", []byte{compression})
	var box bytes.Buffer
	binary.Write(&box, binary.LittleEndian, [4]int32{0, 0, int32(width - 1), int32(height - 1)})
	attr("dataWindow", "box2i", box.Bytes())
	attr("displayWindow", "box2i", box.Bytes())
	buf.WriteByte(0)

	// single block: offset table entry, then y, size, payload
	binary.Write(&buf, binary.LittleEndian, int64(0))
	binary.Write(&buf, binary.LittleEndian, int32(0))
	binary.Write(&buf, binary.LittleEndian, int32(len(pixelData)))
	buf.Write(pixelData)
	return buf.Bytes()
}

func TestEXR_ReadsZipsCompressed(t *testing.T) {
	// a wide uniform scanline so deflate actually shrinks the payload;
	// otherwise the format stores the block raw
	width := 64
	channels := []exrChannel{
		{name: "B", pixelType: pixelTypeFloat},
		{name: "G", pixelType: pixelTypeFloat},
		{name: "R", pixelType: pixelTypeFloat},
	}
	want := core.NewSpectrum(1.5, 2.25, 3.75)

	var raw bytes.Buffer
	for _, v := range []float64{want.B, want.G, want.R} {
		for x := 0; x < width; x++ {
			binary.Write(&raw, binary.LittleEndian, float32(v))
		}
	}
	compressed := zipForward(t, raw.Bytes())
	if len(compressed) >= raw.Len() {
		t.Fatalf("test payload did not compress: %d >= %d", len(compressed), raw.Len())
	}

	file := writeTestEXR(t, width, 1, compressionZIPS, channels, compressed)
	bm, err := ReadEXR(bytes.NewReader(file))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for x := 0; x < width; x++ {
		if bm.Get(x, 0) != want {
			t.Errorf("pixel %d = %v, want %v", x, bm.Get(x, 0), want)
		}
	}
}

func TestEXR_ReadsHalfChannels(t *testing.T) {
	// exactly representable half values: 0.5, 1.0, 2.0
	halfBits := map[float64]uint16{0.5: 0x3800, 1.0: 0x3C00, 2.0: 0x4000}
	channels := []exrChannel{
		{name: "B", pixelType: pixelTypeHalf},
		{name: "G", pixelType: pixelTypeHalf},
		{name: "R", pixelType: pixelTypeHalf},
	}

	var raw bytes.Buffer
	for _, v := range []float64{2.0, 1.0, 0.5} { // B, G, R
		binary.Write(&raw, binary.LittleEndian, halfBits[v])
	}

	file := writeTestEXR(t, 1, 1, compressionNone, channels, raw.Bytes())
	bm, err := ReadEXR(bytes.NewReader(file))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := bm.Get(0, 0)
	want := core.NewSpectrum(0.5, 1.0, 2.0)
	if got != want {
		t.Errorf("half pixel = %v, want %v", got, want)
	}
}

func TestEXR_SkipsAlphaChannel(t *testing.T) {
	channels := []exrChannel{
		{name: "A", pixelType: pixelTypeFloat},
		{name: "B", pixelType: pixelTypeFloat},
		{name: "G", pixelType: pixelTypeFloat},
		{name: "R", pixelType: pixelTypeFloat},
	}
	var raw bytes.Buffer
	for _, v := range []float32{0.5, 7, 8, 9} { // A, B, G, R
		binary.Write(&raw, binary.LittleEndian, v)
	}
	file := writeTestEXR(t, 1, 1, compressionNone, channels, raw.Bytes())
	bm, err := ReadEXR(bytes.NewReader(file))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := bm.Get(0, 0); got != core.NewSpectrum(9, 8, 7) {
		t.Errorf("pixel = %v, want RGB (9,8,7)", got)
	}
}

func TestEXR_HeaderSizeMatchesWriter(t *testing.T) {
	src := gradientBitmap(3, 2)
	var buf bytes.Buffer
	if err := WriteEXR(&buf, src); err != nil {
		t.Fatalf("write: %v", err)
	}
	data := buf.Bytes()
	offset := exrHeaderSize()
	// first offset table entry must point just past the table
	first := int64(binary.LittleEndian.Uint64(data[offset:]))
	if first != offset+int64(src.Height)*8 {
		t.Errorf("first scanline offset = %d, want %d", first, offset+int64(src.Height)*8)
	}
	// and the block there must carry y = 0
	if y := int32(binary.LittleEndian.Uint32(data[first:])); y != 0 {
		t.Errorf("first block y = %d, want 0", y)
	}
}
