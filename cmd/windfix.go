package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/loaders"
)

// FixWinding flips the winding of mesh triangles that face away from a
// reference viewpoint. One-sided emitters exported with the wrong
// winding render black; this rewrites them so their geometric normal
// points back toward the viewer.
func FixWinding(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("usage: fix-winding <mesh.obj|mesh.ply>", 1)
	}
	path := ctx.Args().First()

	var mesh *loaders.MeshData
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		mesh, err = loaders.LoadOBJ(path)
	case ".ply":
		mesh, err = loaders.LoadPLY(path)
	default:
		return cli.Exit(fmt.Sprintf("unsupported mesh format %q", filepath.Ext(path)), 1)
	}
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	eye, err := parseViewpoint(ctx.String("viewpoint"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	flipped := 0
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := mesh.Vertices[mesh.Indices[i]]
		b := mesh.Vertices[mesh.Indices[i+1]]
		c := mesh.Vertices[mesh.Indices[i+2]]
		normal := b.Subtract(a).Cross(c.Subtract(a))
		centroid := a.Add(b).Add(c).Multiply(1.0 / 3)
		if ctx.Bool("all") || normal.Dot(eye.Subtract(centroid)) < 0 {
			mesh.Indices[i+1], mesh.Indices[i+2] = mesh.Indices[i+2], mesh.Indices[i+1]
			flipped++
		}
	}

	out := ctx.String("out")
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "_fixed.obj"
	}
	if err := writeOBJ(out, mesh); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Printf("flipped %d of %d triangles, wrote %s\n", flipped, len(mesh.Indices)/3, out)
	return nil
}

func parseViewpoint(s string) (core.Vec3, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != 3 {
		return core.Vec3{}, fmt.Errorf("viewpoint %q must be three comma-separated numbers", s)
	}
	var vals [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("bad viewpoint component %q: %w", f, err)
		}
		vals[i] = v
	}
	return core.NewVec3(vals[0], vals[1], vals[2]), nil
}

func writeOBJ(path string, mesh *loaders.MeshData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, v := range mesh.Vertices {
		fmt.Fprintf(w, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, n := range mesh.Normals {
		fmt.Fprintf(w, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}
	for _, uv := range mesh.UVs {
		fmt.Fprintf(w, "vt %g %g\n", uv.X, uv.Y)
	}

	hasNormals := len(mesh.Normals) > 0
	hasUVs := len(mesh.UVs) > 0
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		w.WriteString("f")
		for j := 0; j < 3; j++ {
			idx := mesh.Indices[i+j] + 1
			switch {
			case hasNormals && hasUVs:
				fmt.Fprintf(w, " %d/%d/%d", idx, idx, idx)
			case hasNormals:
				fmt.Fprintf(w, " %d//%d", idx, idx)
			case hasUVs:
				fmt.Fprintf(w, " %d/%d", idx, idx)
			default:
				fmt.Fprintf(w, " %d", idx)
			}
		}
		w.WriteString("\n")
	}
	return w.Flush()
}
