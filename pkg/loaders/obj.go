package loaders

import (
	"fmt"

	"github.com/udhos/gwob"

	"github.com/twocookingmice/glint/pkg/core"
)

// MeshData is triangle mesh geometry ready for construction. Normals
// and UVs are empty when the source file lacks them.
type MeshData struct {
	Vertices []core.Vec3
	Normals  []core.Vec3
	UVs      []core.Vec2
	Indices  []int
}

// LoadOBJ reads a Wavefront OBJ file. Faces are triangulated by the
// parser; all groups are merged into one mesh.
func LoadOBJ(filename string) (*MeshData, error) {
	obj, err := gwob.NewObjFromFile(filename, &gwob.ObjParserOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse OBJ file %s: %w", filename, err)
	}
	return meshFromObj(obj)
}

// ParseOBJ reads OBJ data from a string, used by tests and inline assets
func ParseOBJ(name, data string) (*MeshData, error) {
	obj, err := gwob.NewObjFromBuf(name, []byte(data), &gwob.ObjParserOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse OBJ data %s: %w", name, err)
	}
	return meshFromObj(obj)
}

func meshFromObj(obj *gwob.Obj) (*MeshData, error) {
	// stride values are in bytes over a float32 buffer
	stride := obj.StrideSize / 4
	if stride <= 0 {
		return nil, fmt.Errorf("OBJ stride size %d is invalid", obj.StrideSize)
	}
	posOffset := obj.StrideOffsetPosition / 4
	uvOffset := obj.StrideOffsetTexture / 4
	normOffset := obj.StrideOffsetNormal / 4

	count := len(obj.Coord) / stride
	mesh := &MeshData{
		Vertices: make([]core.Vec3, 0, count),
		Indices:  make([]int, len(obj.Indices)),
	}
	if obj.NormCoordFound {
		mesh.Normals = make([]core.Vec3, 0, count)
	}
	if obj.TextCoordFound {
		mesh.UVs = make([]core.Vec2, 0, count)
	}

	for i := 0; i < count; i++ {
		base := i * stride
		p := base + posOffset
		mesh.Vertices = append(mesh.Vertices, core.NewVec3(
			float64(obj.Coord[p]),
			float64(obj.Coord[p+1]),
			float64(obj.Coord[p+2]),
		))
		if obj.NormCoordFound {
			n := base + normOffset
			mesh.Normals = append(mesh.Normals, core.NewVec3(
				float64(obj.Coord[n]),
				float64(obj.Coord[n+1]),
				float64(obj.Coord[n+2]),
			))
		}
		if obj.TextCoordFound {
			uv := base + uvOffset
			mesh.UVs = append(mesh.UVs, core.NewVec2(
				float64(obj.Coord[uv]),
				float64(obj.Coord[uv+1]),
			))
		}
	}

	copy(mesh.Indices, obj.Indices)
	for _, idx := range mesh.Indices {
		if idx < 0 || idx >= count {
			return nil, fmt.Errorf("OBJ index %d out of range (have %d vertices)", idx, count)
		}
	}
	return mesh, nil
}
