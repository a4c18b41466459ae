// Package imageio reads and writes the image formats the renderer
// touches: OpenEXR for HDR input and output, PNG for display output.
package imageio

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mrjoshuak/go-openexr/half"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/sensor"
)

// ErrBadImage is wrapped by all EXR parse failures
var ErrBadImage = errors.New("imageio: malformed exr file")

const exrMagic = 0x01312f76

// EXR pixel types
const (
	pixelTypeUint  = 0
	pixelTypeHalf  = 1
	pixelTypeFloat = 2
)

// EXR compression codes
const (
	compressionNone = 0
	compressionZIPS = 2
	compressionZIP  = 3
)

type exrChannel struct {
	name      string
	pixelType int32
}

// WriteEXR writes the bitmap as a scanline EXR with uncompressed
// 32-bit float R, G, B channels
func WriteEXR(w io.Writer, bm *sensor.Bitmap) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, uint32(exrMagic)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(2)); err != nil {
		return err
	}

	// channel list, alphabetical as the format requires
	var chlist bytes.Buffer
	for _, name := range []string{"B", "G", "R"} {
		chlist.WriteString(name)
		chlist.WriteByte(0)
		binary.Write(&chlist, binary.LittleEndian, int32(pixelTypeFloat))
		chlist.Write([]byte{0, 0, 0, 0}) // pLinear + reserved
		binary.Write(&chlist, binary.LittleEndian, int32(1))
		binary.Write(&chlist, binary.LittleEndian, int32(1))
	}
	chlist.WriteByte(0)

	var box bytes.Buffer
	binary.Write(&box, binary.LittleEndian, [4]int32{0, 0, int32(bm.Width - 1), int32(bm.Height - 1)})

	writeAttr := func(name, typ string, data []byte) {
		bw.WriteString(name)
		bw.WriteByte(0)
		bw.WriteString(typ)
		bw.WriteByte(0)
		binary.Write(bw, binary.LittleEndian, int32(len(data)))
		bw.Write(data)
	}
	writeAttr("channels", "chlist", chlist.Bytes())
	writeAttr("compression", "compression", []byte{compressionNone})
	writeAttr("dataWindow", "box2i", box.Bytes())
	writeAttr("displayWindow", "box2i", box.Bytes())
	writeAttr("lineOrder", "lineOrder", []byte{0})

	var f32 bytes.Buffer
	binary.Write(&f32, binary.LittleEndian, float32(1))
	writeAttr("pixelAspectRatio", "float", f32.Bytes())
	var swc bytes.Buffer
	binary.Write(&swc, binary.LittleEndian, [2]float32{0, 0})
	writeAttr("screenWindowCenter", "v2f", swc.Bytes())
	writeAttr("screenWindowWidth", "float", f32.Bytes())
	bw.WriteByte(0) // end of header

	// line offset table, absolute byte offsets per scanline block
	scanlineSize := int64(8 + bm.Width*4*3)
	headerEnd := exrHeaderSize()
	for y := 0; y < bm.Height; y++ {
		offset := headerEnd + int64(bm.Height)*8 + int64(y)*scanlineSize
		if err := binary.Write(bw, binary.LittleEndian, offset); err != nil {
			return err
		}
	}

	// scanline blocks, one scanline each for NO_COMPRESSION
	row := make([]float32, bm.Width)
	for y := 0; y < bm.Height; y++ {
		binary.Write(bw, binary.LittleEndian, int32(y))
		binary.Write(bw, binary.LittleEndian, int32(bm.Width*4*3))
		for _, ch := range []int{2, 1, 0} { // B, G, R
			for x := 0; x < bm.Width; x++ {
				c := bm.Get(x, y)
				switch ch {
				case 0:
					row[x] = float32(c.R)
				case 1:
					row[x] = float32(c.G)
				case 2:
					row[x] = float32(c.B)
				}
			}
			if err := binary.Write(bw, binary.LittleEndian, row); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// exrHeaderSize returns the byte offset of the line offset table for
// the exact header WriteEXR produces
func exrHeaderSize() int64 {
	size := 8 // magic + version
	attr := func(name, typ string, dataLen int) {
		size += len(name) + 1 + len(typ) + 1 + 4 + dataLen
	}
	attr("channels", "chlist", 3*(2+4+4+8)+1)
	attr("compression", "compression", 1)
	attr("dataWindow", "box2i", 16)
	attr("displayWindow", "box2i", 16)
	attr("lineOrder", "lineOrder", 1)
	attr("pixelAspectRatio", "float", 4)
	attr("screenWindowCenter", "v2f", 8)
	attr("screenWindowWidth", "float", 4)
	size++ // header terminator
	return int64(size)
}

// SaveEXR writes the bitmap to an EXR file
func SaveEXR(path string, bm *sensor.Bitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteEXR(f, bm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadEXR decodes a scanline EXR image. Handles uncompressed and
// zip-compressed files with half or float channels; only R, G and B
// are kept.
func ReadEXR(r io.Reader) (*sensor.Bitmap, error) {
	br := bufio.NewReader(r)

	var magic, version uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	if magic != exrMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%x", ErrBadImage, magic)
	}
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	if version&0xff != 2 || version&0x200 != 0 {
		return nil, fmt.Errorf("%w: unsupported version 0x%x", ErrBadImage, version)
	}

	var channels []exrChannel
	compression := byte(0)
	var xMin, yMin, xMax, yMax int32
	haveWindow := false

	for {
		name, err := readCString(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
		}
		if name == "" {
			break
		}
		typ, err := readCString(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
		}
		var size int32
		if err := binary.Read(br, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
		}
		data := make([]byte, size)
		if _, err := io.ReadFull(br, data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
		}

		switch {
		case name == "channels" && typ == "chlist":
			channels, err = parseChannelList(data)
			if err != nil {
				return nil, err
			}
		case name == "compression" && typ == "compression":
			if len(data) != 1 {
				return nil, fmt.Errorf("%w: bad compression attribute", ErrBadImage)
			}
			compression = data[0]
		case name == "dataWindow" && typ == "box2i":
			if len(data) != 16 {
				return nil, fmt.Errorf("%w: bad dataWindow", ErrBadImage)
			}
			xMin = int32(binary.LittleEndian.Uint32(data[0:]))
			yMin = int32(binary.LittleEndian.Uint32(data[4:]))
			xMax = int32(binary.LittleEndian.Uint32(data[8:]))
			yMax = int32(binary.LittleEndian.Uint32(data[12:]))
			haveWindow = true
		}
	}

	if len(channels) == 0 || !haveWindow {
		return nil, fmt.Errorf("%w: missing channels or dataWindow", ErrBadImage)
	}
	linesPerBlock := 1
	switch compression {
	case compressionNone, compressionZIPS:
	case compressionZIP:
		linesPerBlock = 16
	default:
		return nil, fmt.Errorf("%w: unsupported compression %d", ErrBadImage, compression)
	}

	width := int(xMax-xMin) + 1
	height := int(yMax-yMin) + 1
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: empty dataWindow", ErrBadImage)
	}

	// skip the line offset table and read blocks in order
	numBlocks := (height + linesPerBlock - 1) / linesPerBlock
	if _, err := io.CopyN(io.Discard, br, int64(numBlocks)*8); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	bm := sensor.NewBitmap(width, height)
	for b := 0; b < numBlocks; b++ {
		var blockY, blockSize int32
		if err := binary.Read(br, binary.LittleEndian, &blockY); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &blockSize); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
		}
		raw := make([]byte, blockSize)
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
		}

		firstLine := int(blockY - yMin)
		lines := linesPerBlock
		if firstLine+lines > height {
			lines = height - firstLine
		}

		pixelData := raw
		if compression == compressionZIPS || compression == compressionZIP {
			expected := lines * rowBytes(channels, width)
			if len(raw) < expected {
				decoded, err := zipDecompress(raw, expected)
				if err != nil {
					return nil, err
				}
				pixelData = decoded
			}
		}

		if err := decodeScanlines(bm, channels, pixelData, firstLine, lines); err != nil {
			return nil, err
		}
	}
	return bm, nil
}

// LoadEXR reads an EXR file from disk
func LoadEXR(path string) (*sensor.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEXR(f)
}

func readCString(br *bufio.Reader) (string, error) {
	s, err := br.ReadString(0)
	if err != nil {
		return "", err
	}
	return s[:len(s)-1], nil
}

func parseChannelList(data []byte) ([]exrChannel, error) {
	var channels []exrChannel
	for len(data) > 0 && data[0] != 0 {
		i := bytes.IndexByte(data, 0)
		if i < 0 || len(data) < i+1+16 {
			return nil, fmt.Errorf("%w: truncated channel list", ErrBadImage)
		}
		name := string(data[:i])
		pixelType := int32(binary.LittleEndian.Uint32(data[i+1:]))
		if pixelType != pixelTypeUint && pixelType != pixelTypeHalf && pixelType != pixelTypeFloat {
			return nil, fmt.Errorf("%w: channel %q has unknown type %d", ErrBadImage, name, pixelType)
		}
		channels = append(channels, exrChannel{name: name, pixelType: pixelType})
		data = data[i+1+16:]
	}
	return channels, nil
}

func channelBytes(pixelType int32) int {
	if pixelType == pixelTypeHalf {
		return 2
	}
	return 4
}

func rowBytes(channels []exrChannel, width int) int {
	n := 0
	for _, ch := range channels {
		n += channelBytes(ch.pixelType) * width
	}
	return n
}

// zipDecompress inflates a zip block and undoes the byte predictor and
// the two-way interleave the format applies before compression
func zipDecompress(raw []byte, expected int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	if len(data) != expected {
		return nil, fmt.Errorf("%w: zip block is %d bytes, want %d", ErrBadImage, len(data), expected)
	}

	for i := 1; i < len(data); i++ {
		data[i] = byte(int(data[i-1]) + int(data[i]) - 128)
	}

	out := make([]byte, len(data))
	mid := (len(data) + 1) / 2
	for i, j := 0, 0; i < len(data); i, j = i+2, j+1 {
		out[i] = data[j]
	}
	for i, j := 1, mid; i < len(data); i, j = i+2, j+1 {
		out[i] = data[j]
	}
	return out, nil
}

// decodeScanlines copies channel rows into the bitmap, skipping
// channels other than R, G and B
func decodeScanlines(bm *sensor.Bitmap, channels []exrChannel, data []byte, firstLine, lines int) error {
	pos := 0
	for line := 0; line < lines; line++ {
		y := firstLine + line
		for _, ch := range channels {
			n := channelBytes(ch.pixelType) * bm.Width
			if pos+n > len(data) {
				return fmt.Errorf("%w: truncated scanline data", ErrBadImage)
			}
			row := data[pos : pos+n]
			pos += n

			var set func(c core.Spectrum, v float64) core.Spectrum
			switch ch.name {
			case "R":
				set = func(c core.Spectrum, v float64) core.Spectrum { c.R = v; return c }
			case "G":
				set = func(c core.Spectrum, v float64) core.Spectrum { c.G = v; return c }
			case "B":
				set = func(c core.Spectrum, v float64) core.Spectrum { c.B = v; return c }
			default:
				continue
			}
			for x := 0; x < bm.Width; x++ {
				var v float64
				switch ch.pixelType {
				case pixelTypeHalf:
					h := half.Half(binary.LittleEndian.Uint16(row[x*2:]))
					v = float64(h.Float32())
				case pixelTypeFloat:
					bits := binary.LittleEndian.Uint32(row[x*4:])
					v = float64(math.Float32frombits(bits))
				case pixelTypeUint:
					v = float64(binary.LittleEndian.Uint32(row[x*4:]))
				}
				bm.Set(x, y, set(bm.Get(x, y), v))
			}
		}
	}
	return nil
}
