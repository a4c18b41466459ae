package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/twocookingmice/glint/pkg/core"
)

type plyProperty struct {
	name      string
	typ       string
	isList    bool
	countType string
	dataType  string
}

type plyHeader struct {
	format      string
	vertexCount int
	faceCount   int
	vertexProps []plyProperty
	faceProps   []plyProperty
}

// LoadPLY reads a PLY mesh file. ASCII and binary little-endian
// formats are supported; positions, normals and texture coordinates
// are extracted, everything else is skipped.
func LoadPLY(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()
	return ReadPLY(file)
}

// ReadPLY decodes PLY data from a stream
func ReadPLY(r io.Reader) (*MeshData, error) {
	br := bufio.NewReader(r)
	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, err
	}

	switch header.format {
	case "ascii":
		return readPLYAscii(br, header)
	case "binary_little_endian":
		return readPLYBinary(br, header)
	default:
		return nil, fmt.Errorf("unsupported PLY format %q", header.format)
	}
}

func parsePLYHeader(br *bufio.Reader) (*plyHeader, error) {
	magic, err := br.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("not a PLY file")
	}

	header := &plyHeader{}
	currentElement := ""
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("truncated PLY header: %w", err)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "end_header":
			return header, nil
		case "comment", "obj_info":
		case "format":
			if len(fields) < 2 {
				return nil, fmt.Errorf("malformed PLY format line")
			}
			header.format = fields[1]
		case "element":
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed PLY element line")
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("bad element count %q", fields[2])
			}
			currentElement = fields[1]
			switch currentElement {
			case "vertex":
				header.vertexCount = count
			case "face":
				header.faceCount = count
			}
		case "property":
			prop, err := parsePLYPropertyLine(fields[1:])
			if err != nil {
				return nil, err
			}
			switch currentElement {
			case "vertex":
				header.vertexProps = append(header.vertexProps, prop)
			case "face":
				header.faceProps = append(header.faceProps, prop)
			}
		}
	}
}

func parsePLYPropertyLine(fields []string) (plyProperty, error) {
	if len(fields) >= 4 && fields[0] == "list" {
		return plyProperty{
			isList:    true,
			countType: fields[1],
			dataType:  fields[2],
			name:      fields[3],
		}, nil
	}
	if len(fields) >= 2 {
		return plyProperty{typ: fields[0], name: fields[1]}, nil
	}
	return plyProperty{}, fmt.Errorf("malformed PLY property line")
}

func plyTypeSize(typ string) (int, error) {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1, nil
	case "short", "int16", "ushort", "uint16":
		return 2, nil
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4, nil
	case "double", "float64":
		return 8, nil
	}
	return 0, fmt.Errorf("unknown PLY type %q", typ)
}

func plyReadValue(br *bufio.Reader, typ string) (float64, error) {
	size, err := plyTypeSize(typ)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(br, buf); err != nil {
		return 0, err
	}
	switch typ {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(binary.LittleEndian.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(binary.LittleEndian.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(binary.LittleEndian.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(binary.LittleEndian.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))), nil
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf)), nil
	}
}

// vertexAccumulator collects named vertex fields into mesh arrays
type vertexAccumulator struct {
	mesh        *MeshData
	hasNormals  bool
	hasUVs      bool
	pos, normal core.Vec3
	uv          core.Vec2
}

func newVertexAccumulator(header *plyHeader) *vertexAccumulator {
	acc := &vertexAccumulator{mesh: &MeshData{
		Vertices: make([]core.Vec3, 0, header.vertexCount),
	}}
	for _, p := range header.vertexProps {
		switch p.name {
		case "nx":
			acc.hasNormals = true
		case "u", "s", "texture_u":
			acc.hasUVs = true
		}
	}
	return acc
}

func (acc *vertexAccumulator) set(name string, v float64) {
	switch name {
	case "x":
		acc.pos.X = v
	case "y":
		acc.pos.Y = v
	case "z":
		acc.pos.Z = v
	case "nx":
		acc.normal.X = v
	case "ny":
		acc.normal.Y = v
	case "nz":
		acc.normal.Z = v
	case "u", "s", "texture_u":
		acc.uv.X = v
	case "v", "t", "texture_v":
		acc.uv.Y = v
	}
}

func (acc *vertexAccumulator) finish() {
	acc.mesh.Vertices = append(acc.mesh.Vertices, acc.pos)
	if acc.hasNormals {
		acc.mesh.Normals = append(acc.mesh.Normals, acc.normal)
	}
	if acc.hasUVs {
		acc.mesh.UVs = append(acc.mesh.UVs, acc.uv)
	}
}

// appendFace triangulates a polygon as a fan around its first vertex
func appendFace(mesh *MeshData, face []int, vertexCount int) error {
	if len(face) < 3 {
		return fmt.Errorf("PLY face with %d vertices", len(face))
	}
	for _, idx := range face {
		if idx < 0 || idx >= vertexCount {
			return fmt.Errorf("PLY face index %d out of range", idx)
		}
	}
	for i := 2; i < len(face); i++ {
		mesh.Indices = append(mesh.Indices, face[0], face[i-1], face[i])
	}
	return nil
}

func readPLYBinary(br *bufio.Reader, header *plyHeader) (*MeshData, error) {
	acc := newVertexAccumulator(header)
	for i := 0; i < header.vertexCount; i++ {
		for _, p := range header.vertexProps {
			if p.isList {
				return nil, fmt.Errorf("unexpected list property %q on vertices", p.name)
			}
			v, err := plyReadValue(br, p.typ)
			if err != nil {
				return nil, fmt.Errorf("reading vertex %d: %w", i, err)
			}
			acc.set(p.name, v)
		}
		acc.finish()
	}

	mesh := acc.mesh
	for i := 0; i < header.faceCount; i++ {
		for _, p := range header.faceProps {
			if !p.isList {
				if _, err := plyReadValue(br, p.typ); err != nil {
					return nil, fmt.Errorf("reading face %d: %w", i, err)
				}
				continue
			}
			count, err := plyReadValue(br, p.countType)
			if err != nil {
				return nil, fmt.Errorf("reading face %d: %w", i, err)
			}
			face := make([]int, int(count))
			for j := range face {
				v, err := plyReadValue(br, p.dataType)
				if err != nil {
					return nil, fmt.Errorf("reading face %d: %w", i, err)
				}
				face[j] = int(v)
			}
			if p.name != "vertex_indices" && p.name != "vertex_index" {
				continue
			}
			if err := appendFace(mesh, face, len(mesh.Vertices)); err != nil {
				return nil, err
			}
		}
	}
	return mesh, nil
}

func readPLYAscii(br *bufio.Reader, header *plyHeader) (*MeshData, error) {
	acc := newVertexAccumulator(header)
	readLine := func() ([]string, error) {
		for {
			line, err := br.ReadString('\n')
			fields := strings.Fields(line)
			if len(fields) > 0 {
				return fields, nil
			}
			if err != nil {
				return nil, err
			}
		}
	}

	for i := 0; i < header.vertexCount; i++ {
		fields, err := readLine()
		if err != nil {
			return nil, fmt.Errorf("reading vertex %d: %w", i, err)
		}
		if len(fields) < len(header.vertexProps) {
			return nil, fmt.Errorf("vertex %d has %d values, want %d", i, len(fields), len(header.vertexProps))
		}
		for j, p := range header.vertexProps {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			acc.set(p.name, v)
		}
		acc.finish()
	}

	mesh := acc.mesh
	for i := 0; i < header.faceCount; i++ {
		fields, err := readLine()
		if err != nil {
			return nil, fmt.Errorf("reading face %d: %w", i, err)
		}
		count, err := strconv.Atoi(fields[0])
		if err != nil || len(fields) < count+1 {
			return nil, fmt.Errorf("malformed face %d", i)
		}
		face := make([]int, count)
		for j := range face {
			face[j], err = strconv.Atoi(fields[j+1])
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
		}
		if err := appendFace(mesh, face, len(mesh.Vertices)); err != nil {
			return nil, err
		}
	}
	return mesh, nil
}
