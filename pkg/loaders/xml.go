package loaders

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/geometry"
	"github.com/twocookingmice/glint/pkg/integrator"
	"github.com/twocookingmice/glint/pkg/lights"
	"github.com/twocookingmice/glint/pkg/material"
	"github.com/twocookingmice/glint/pkg/media"
	"github.com/twocookingmice/glint/pkg/scene"
	"github.com/twocookingmice/glint/pkg/sensor"
)

// SceneDescription is everything a render run needs: the built scene,
// the camera that owns the output film, and the configured integrator.
type SceneDescription struct {
	Scene      *scene.Scene
	Camera     *sensor.PerspectiveCamera
	Integrator integrator.Integrator
}

// xmlElement is a generic scene-file node. Every element maps onto the
// same struct so the loader can walk the tree without a schema.
type xmlElement struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	ID      string `xml:"id,attr"`
	Name    string `xml:"name,attr"`
	Value   string `xml:"value,attr"`
	X       string `xml:"x,attr"`
	Y       string `xml:"y,attr"`
	Z       string `xml:"z,attr"`
	Angle   string `xml:"angle,attr"`
	Origin  string `xml:"origin,attr"`
	Target  string `xml:"target,attr"`
	Up      string `xml:"up,attr"`

	Children []xmlElement `xml:",any"`
}

// LoadScene parses a scene file from disk. Relative asset paths inside
// the file resolve against the file's directory.
func LoadScene(path string) (*SceneDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}
	return ParseScene(data, filepath.Dir(path))
}

// ParseScene parses scene XML from memory, resolving assets against baseDir
func ParseScene(data []byte, baseDir string) (*SceneDescription, error) {
	var root xmlElement
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse scene XML: %w", err)
	}
	if root.XMLName.Local != "scene" {
		return nil, fmt.Errorf("scene file root element is <%s>, expected <scene>", root.XMLName.Local)
	}

	l := &sceneLoader{
		baseDir: baseDir,
		bsdfs:   make(map[string]core.BSDF),
		media:   make(map[string]core.Medium),
		volumes: make(map[string]core.Volume),
		sc:      scene.NewScene(),

		integType:   "path",
		maxDepth:    8,
		stepSize:    0,
		sampleCount: 16,
	}
	if err := l.load(&root); err != nil {
		return nil, err
	}
	return l.finish()
}

type sceneLoader struct {
	baseDir string
	bsdfs   map[string]core.BSDF
	media   map[string]core.Medium
	volumes map[string]core.Volume
	sc      *scene.Scene
	camera  *sensor.PerspectiveCamera

	integType   string
	maxDepth    int
	stepSize    float64
	sampleCount int
}

func (l *sceneLoader) load(root *xmlElement) error {
	for i := range root.Children {
		el := &root.Children[i]
		var err error
		switch el.XMLName.Local {
		case "integrator":
			err = l.loadIntegrator(el)
		case "sensor":
			err = l.loadSensor(el)
		case "bsdf":
			err = l.loadNamedBSDF(el)
		case "medium":
			err = l.loadNamedMedium(el)
		case "volume":
			err = l.loadNamedVolume(el)
		case "shape":
			err = l.loadShape(el)
		case "emitter":
			err = l.loadEmitter(el)
		case "default":
			// parameter defaults are resolved by preprocessing, not here
		default:
			err = fmt.Errorf("unknown scene element <%s>", el.XMLName.Local)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *sceneLoader) finish() (*SceneDescription, error) {
	if l.camera == nil {
		return nil, fmt.Errorf("scene file has no sensor")
	}

	var integ integrator.Integrator
	switch l.integType {
	case "path":
		integ = integrator.NewPathTracer(l.maxDepth, l.sampleCount)
	case "raymarching":
		integ = integrator.NewRayMarcher(l.maxDepth, l.sampleCount, l.stepSize)
	default:
		return nil, fmt.Errorf("unknown integrator type %q", l.integType)
	}

	l.sc.Build()
	return &SceneDescription{Scene: l.sc, Camera: l.camera, Integrator: integ}, nil
}

func (l *sceneLoader) loadIntegrator(el *xmlElement) error {
	l.integType = el.Type
	l.maxDepth = intParam(el, "max_depth", l.maxDepth)
	l.stepSize = floatParam(el, "step_size", l.stepSize)
	return nil
}

func (l *sceneLoader) loadSensor(el *xmlElement) error {
	if el.Type != "perspective" {
		return fmt.Errorf("unknown sensor type %q", el.Type)
	}

	width, height := 768, 576
	if film := findChild(el, "film"); film != nil {
		width = intParam(film, "width", width)
		height = intParam(film, "height", height)
	}
	if smp := findChild(el, "sampler"); smp != nil {
		l.sampleCount = intParam(smp, "sample_count", l.sampleCount)
	}

	fov := floatParam(el, "fov", 50)
	axis, err := fovAxisFromString(stringParam(el, "fov_axis", "x"))
	if err != nil {
		return err
	}

	origin := core.NewVec3(0, 0, 0)
	target := core.NewVec3(0, 0, 1)
	up := core.NewVec3(0, 1, 0)
	if tw := findNamedChild(el, "to_world"); tw != nil {
		t, err := parseTransform(tw)
		if err != nil {
			return fmt.Errorf("sensor to_world: %w", err)
		}
		origin = t.ApplyPoint(core.NewVec3(0, 0, 0))
		target = origin.Add(t.ApplyVector(core.NewVec3(0, 0, 1)))
		up = t.ApplyVector(core.NewVec3(0, 1, 0))
	}

	l.camera = sensor.NewPerspectiveCamera(width, height, origin, target, up, fov, axis)
	l.camera.SetClip(
		floatParam(el, "near_clip", sensor.DefaultNearClip),
		floatParam(el, "far_clip", sensor.DefaultFarClip))
	return nil
}

func fovAxisFromString(s string) (sensor.FovAxis, error) {
	switch s {
	case "x":
		return sensor.FovAxisX, nil
	case "y":
		return sensor.FovAxisY, nil
	case "diagonal":
		return sensor.FovAxisDiagonal, nil
	case "smaller":
		return sensor.FovAxisSmaller, nil
	case "larger":
		return sensor.FovAxisLarger, nil
	}
	return 0, fmt.Errorf("unknown fov_axis %q", s)
}

func (l *sceneLoader) loadNamedBSDF(el *xmlElement) error {
	if el.ID == "" {
		return fmt.Errorf("top-level bsdf of type %q has no id", el.Type)
	}
	b, err := l.buildBSDF(el)
	if err != nil {
		return err
	}
	l.bsdfs[el.ID] = b
	return nil
}

func (l *sceneLoader) buildBSDF(el *xmlElement) (core.BSDF, error) {
	switch el.Type {
	case "twosided":
		// the shading frame is already flipped toward the viewer, so
		// twosided reduces to its nested BSDF
		inner := findChild(el, "bsdf")
		if inner == nil {
			return nil, fmt.Errorf("twosided bsdf %q has no nested bsdf", el.ID)
		}
		return l.buildBSDF(inner)

	case "diffuse":
		if tex := findNamedChild(el, "reflectance"); tex != nil && tex.XMLName.Local == "texture" {
			img, err := l.loadTexture(tex)
			if err != nil {
				return nil, err
			}
			return material.NewLambertianTextured(img), nil
		}
		return material.NewLambertian(spectrumParam(el, "reflectance", core.NewSpectrum(0.5, 0.5, 0.5))), nil

	case "roughconductor", "conductor":
		dist, err := l.buildMicrofacet(el)
		if err != nil {
			return nil, err
		}
		eta := spectrumParam(el, "eta", core.NewSpectrum(0.143, 0.375, 1.44))
		k := spectrumParam(el, "k", core.NewSpectrum(3.98, 2.39, 1.60))
		b := material.NewRoughConductor(dist, eta, k)
		if tint := findNamedChild(el, "specular_reflectance"); tint != nil {
			b.Reflectance = material.NewConstantTexture(spectrumParam(el, "specular_reflectance", core.NewSpectrum(1, 1, 1)))
		}
		return b, nil

	case "roughdielectric", "dielectric":
		dist, err := l.buildMicrofacet(el)
		if err != nil {
			return nil, err
		}
		intIOR := floatParam(el, "int_ior", 1.5046)
		extIOR := floatParam(el, "ext_ior", 1.000277)
		return material.NewRoughDielectric(dist, intIOR, extIOR), nil

	case "blendbsdf":
		weight := floatParam(el, "weight", 0.5)
		var parts []core.BSDF
		for i := range el.Children {
			c := &el.Children[i]
			switch c.XMLName.Local {
			case "bsdf":
				b, err := l.buildBSDF(c)
				if err != nil {
					return nil, err
				}
				parts = append(parts, b)
			case "ref":
				b, ok := l.bsdfs[c.ID]
				if !ok {
					return nil, fmt.Errorf("blendbsdf references unknown bsdf %q", c.ID)
				}
				parts = append(parts, b)
			}
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("blendbsdf needs exactly two nested bsdfs, got %d", len(parts))
		}
		return material.NewBlend(parts[0], parts[1], weight), nil

	case "null":
		return material.NewNull(), nil
	}
	return nil, fmt.Errorf("unknown bsdf type %q", el.Type)
}

// buildMicrofacet reads the distribution parameters shared by the rough
// materials. The smooth variants map onto a near-delta roughness.
func (l *sceneLoader) buildMicrofacet(el *xmlElement) (material.Microfacet, error) {
	alpha := floatParam(el, "alpha", 0.1)
	if el.Type == "conductor" || el.Type == "dielectric" {
		alpha = 1e-4
	}
	alphaU := floatParam(el, "alpha_u", alpha)
	alphaV := floatParam(el, "alpha_v", alpha)
	sampleVisible := boolParam(el, "sample_visible", true)

	var typ material.MicrofacetType
	switch stringParam(el, "distribution", "beckmann") {
	case "beckmann":
		typ = material.Beckmann
	case "ggx":
		typ = material.GGX
	default:
		return material.Microfacet{}, fmt.Errorf("unknown microfacet distribution %q", stringParam(el, "distribution", ""))
	}
	return material.NewMicrofacet(typ, alphaU, alphaV, sampleVisible), nil
}

func (l *sceneLoader) loadTexture(el *xmlElement) (core.Texture, error) {
	if el.Type != "bitmap" {
		return nil, fmt.Errorf("unknown texture type %q", el.Type)
	}
	filename := stringParam(el, "filename", "")
	if filename == "" {
		return nil, fmt.Errorf("bitmap texture has no filename")
	}
	img, err := LoadImage(filepath.Join(l.baseDir, filename))
	if err != nil {
		return nil, err
	}
	tex := material.NewImageTexture(img.Pixels, img.Width, img.Height)
	tex.Scale = floatParam(el, "scale", 1)
	return tex, nil
}

func (l *sceneLoader) loadShape(el *xmlElement) error {
	toWorld := core.IdentityTransform()
	if tw := findNamedChild(el, "to_world"); tw != nil {
		t, err := parseTransform(tw)
		if err != nil {
			return fmt.Errorf("shape %q to_world: %w", el.Type, err)
		}
		toWorld = t
	}

	var shape core.Shape
	switch el.Type {
	case "rectangle":
		shape = geometry.NewRectangle(toWorld)
	case "cube":
		shape = geometry.NewCube(toWorld)
	case "obj", "ply":
		filename := stringParam(el, "filename", "")
		if filename == "" {
			return fmt.Errorf("%s shape has no filename", el.Type)
		}
		path := filepath.Join(l.baseDir, filename)
		var mesh *MeshData
		var err error
		if el.Type == "obj" {
			mesh, err = LoadOBJ(path)
		} else {
			mesh, err = LoadPLY(path)
		}
		if err != nil {
			return err
		}
		smooth := !boolParam(el, "face_normals", false)
		shape = geometry.NewTriangleMesh(mesh.Vertices, mesh.Normals, mesh.UVs, mesh.Indices, toWorld, smooth)
	default:
		return fmt.Errorf("unknown shape type %q", el.Type)
	}

	obj := &scene.Object{Shape: shape}
	for i := range el.Children {
		c := &el.Children[i]
		switch c.XMLName.Local {
		case "bsdf":
			b, err := l.buildBSDF(c)
			if err != nil {
				return err
			}
			obj.Material = b
		case "ref":
			if c.Name == "interior" {
				m, ok := l.media[c.ID]
				if !ok {
					return fmt.Errorf("shape references unknown medium %q", c.ID)
				}
				obj.Interior = m
				continue
			}
			b, ok := l.bsdfs[c.ID]
			if !ok {
				return fmt.Errorf("shape references unknown bsdf %q", c.ID)
			}
			obj.Material = b
		case "emitter":
			if c.Type != "area" {
				return fmt.Errorf("shape carries unsupported emitter type %q", c.Type)
			}
			obj.Emission = spectrumParam(c, "radiance", core.NewSpectrum(1, 1, 1))
		case "medium":
			m, err := l.buildMedium(c)
			if err != nil {
				return err
			}
			obj.Interior = m
		}
	}
	if obj.Material == nil {
		return fmt.Errorf("%s shape has no bsdf", el.Type)
	}

	l.sc.AddObject(obj)
	return nil
}

func (l *sceneLoader) loadEmitter(el *xmlElement) error {
	switch el.Type {
	case "directional":
		dir := parseVec3Param(el, "direction", core.NewVec3(0, 0, -1))
		irradiance := spectrumParam(el, "irradiance", core.NewSpectrum(1, 1, 1))
		l.sc.AddEmitter(lights.NewDirectionalLight(dir, irradiance))
		return nil

	case "envmap":
		filename := stringParam(el, "filename", "")
		if filename == "" {
			return fmt.Errorf("envmap emitter has no filename")
		}
		img, err := LoadImage(filepath.Join(l.baseDir, filename))
		if err != nil {
			return err
		}
		env := lights.NewEnvironmentLight(img.Pixels, img.Width, img.Height, floatParam(el, "scale", 1))
		if tw := findNamedChild(el, "to_world"); tw != nil {
			t, err := parseTransform(tw)
			if err != nil {
				return fmt.Errorf("envmap to_world: %w", err)
			}
			env.SetTransform(t)
		}
		l.sc.AddEmitter(env)
		return nil
	}
	return fmt.Errorf("unknown emitter type %q", el.Type)
}

func (l *sceneLoader) loadNamedMedium(el *xmlElement) error {
	if el.ID == "" {
		return fmt.Errorf("top-level medium of type %q has no id", el.Type)
	}
	m, err := l.buildMedium(el)
	if err != nil {
		return err
	}
	l.media[el.ID] = m
	return nil
}

func (l *sceneLoader) buildMedium(el *xmlElement) (core.Medium, error) {
	if phase := findChild(el, "phase"); phase != nil && phase.Type != "isotropic" {
		return nil, fmt.Errorf("unsupported phase function %q", phase.Type)
	}
	scale := floatParam(el, "scale", 1)

	switch el.Type {
	case "homogeneous":
		sigmaT := spectrumParam(el, "sigma_t", core.NewSpectrum(1, 1, 1))
		albedo := spectrumParam(el, "albedo", core.NewSpectrum(0.5, 0.5, 0.5))
		return media.NewHomogeneousMedium(sigmaT, scale, albedo), nil

	case "heterogeneous":
		density, err := l.volumeParam(el, "density")
		if err != nil {
			return nil, err
		}
		if density == nil {
			return nil, fmt.Errorf("heterogeneous medium has no density volume")
		}
		albedo, err := l.volumeParam(el, "albedo")
		if err != nil {
			return nil, err
		}
		if albedo == nil {
			albedo = media.NewConstantVolume(core.NewSpectrum(0.5, 0.5, 0.5))
		}
		return media.NewHeterogeneousMedium(density, albedo, scale), nil
	}
	return nil, fmt.Errorf("unknown medium type %q", el.Type)
}

// volumeParam resolves a named volume slot on a medium: an inline
// <volume>, a <ref> to a top-level one, or an <rgb> shorthand for a
// constant. Returns nil when the slot is absent.
func (l *sceneLoader) volumeParam(el *xmlElement, name string) (core.Volume, error) {
	for i := range el.Children {
		c := &el.Children[i]
		if c.Name != name {
			continue
		}
		switch c.XMLName.Local {
		case "volume":
			return l.buildVolume(c)
		case "ref":
			v, ok := l.volumes[c.ID]
			if !ok {
				return nil, fmt.Errorf("medium references unknown volume %q", c.ID)
			}
			return v, nil
		case "rgb", "float":
			return media.NewConstantVolume(spectrumParam(el, name, core.NewSpectrum(1, 1, 1))), nil
		}
	}
	return nil, nil
}

func (l *sceneLoader) loadNamedVolume(el *xmlElement) error {
	if el.ID == "" {
		return fmt.Errorf("top-level volume of type %q has no id", el.Type)
	}
	v, err := l.buildVolume(el)
	if err != nil {
		return err
	}
	l.volumes[el.ID] = v
	return nil
}

func (l *sceneLoader) buildVolume(el *xmlElement) (core.Volume, error) {
	switch el.Type {
	case "constvolume":
		return media.NewConstantVolume(spectrumParam(el, "value", core.NewSpectrum(1, 1, 1))), nil

	case "gridvolume":
		filename := stringParam(el, "filename", "")
		if filename == "" {
			return nil, fmt.Errorf("gridvolume has no filename")
		}
		grid, err := media.LoadVolume(filepath.Join(l.baseDir, filename))
		if err != nil {
			return nil, err
		}
		bounds := grid.Bounds()
		if !boolParam(el, "use_grid_bbox", false) {
			bounds = core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))
		}
		if tw := findNamedChild(el, "to_world"); tw != nil {
			t, err := parseTransform(tw)
			if err != nil {
				return nil, fmt.Errorf("gridvolume to_world: %w", err)
			}
			bounds = transformAABB(t, bounds)
		}
		grid.SetBounds(bounds)
		return grid, nil
	}
	return nil, fmt.Errorf("unknown volume type %q", el.Type)
}

// transformAABB maps a box through a transform and rebounds the result
func transformAABB(t core.Transform, box core.AABB) core.AABB {
	out := core.EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := core.NewVec3(
			pick(i&1 == 0, box.Min.X, box.Max.X),
			pick(i&2 == 0, box.Min.Y, box.Max.Y),
			pick(i&4 == 0, box.Min.Z, box.Max.Z))
		out = out.ExpandPoint(t.ApplyPoint(corner))
	}
	return out
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// parseTransform composes the child operations of a <transform> element
// in document order, matching the convention that later operations
// apply after earlier ones.
func parseTransform(el *xmlElement) (core.Transform, error) {
	t := core.IdentityTransform()
	for i := range el.Children {
		c := &el.Children[i]
		switch c.XMLName.Local {
		case "matrix":
			vals, err := parseFloats(c.Value, 16)
			if err != nil {
				return t, fmt.Errorf("matrix: %w", err)
			}
			var m core.Matrix4
			for r := 0; r < 4; r++ {
				for col := 0; col < 4; col++ {
					m[r][col] = vals[r*4+col]
				}
			}
			t = core.NewTransform(m).Compose(t)
		case "translate":
			v, err := parseXYZ(c, 0)
			if err != nil {
				return t, err
			}
			t = core.Translate(v).Compose(t)
		case "scale":
			v, err := parseXYZ(c, 1)
			if err != nil {
				return t, err
			}
			if c.Value != "" {
				s, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
				if err != nil {
					return t, fmt.Errorf("scale value %q: %w", c.Value, err)
				}
				v = core.NewVec3(s, s, s)
			}
			t = core.Scale(v).Compose(t)
		case "rotate":
			axis, err := parseXYZ(c, 0)
			if err != nil {
				return t, err
			}
			angle, err := strconv.ParseFloat(strings.TrimSpace(c.Angle), 64)
			if err != nil {
				return t, fmt.Errorf("rotate angle %q: %w", c.Angle, err)
			}
			t = core.Rotate(axis, angle*degToRad).Compose(t)
		case "lookat":
			origin, err := parseVec3(c.Origin)
			if err != nil {
				return t, fmt.Errorf("lookat origin: %w", err)
			}
			target, err := parseVec3(c.Target)
			if err != nil {
				return t, fmt.Errorf("lookat target: %w", err)
			}
			up := core.NewVec3(0, 1, 0)
			if c.Up != "" {
				up, err = parseVec3(c.Up)
				if err != nil {
					return t, fmt.Errorf("lookat up: %w", err)
				}
			}
			t = core.LookAt(origin, target, up).Compose(t)
		default:
			return t, fmt.Errorf("unknown transform operation <%s>", c.XMLName.Local)
		}
	}
	return t, nil
}

const degToRad = 3.14159265358979323846 / 180

// Parameter lookup helpers. Scene parameters are children like
// <float name="fov" value="45"/> keyed by their name attribute.

func findChild(el *xmlElement, local string) *xmlElement {
	for i := range el.Children {
		if el.Children[i].XMLName.Local == local {
			return &el.Children[i]
		}
	}
	return nil
}

func findNamedChild(el *xmlElement, name string) *xmlElement {
	for i := range el.Children {
		if el.Children[i].Name == name {
			return &el.Children[i]
		}
	}
	return nil
}

func floatParam(el *xmlElement, name string, def float64) float64 {
	if c := findNamedChild(el, name); c != nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64); err == nil {
			return v
		}
	}
	return def
}

func intParam(el *xmlElement, name string, def int) int {
	if c := findNamedChild(el, name); c != nil {
		if v, err := strconv.Atoi(strings.TrimSpace(c.Value)); err == nil {
			return v
		}
	}
	return def
}

func stringParam(el *xmlElement, name, def string) string {
	if c := findNamedChild(el, name); c != nil && c.Value != "" {
		return c.Value
	}
	return def
}

func boolParam(el *xmlElement, name string, def bool) bool {
	if c := findNamedChild(el, name); c != nil {
		return c.Value == "true"
	}
	return def
}

// spectrumParam accepts both <rgb> triples and scalar <float> values
func spectrumParam(el *xmlElement, name string, def core.Spectrum) core.Spectrum {
	c := findNamedChild(el, name)
	if c == nil {
		return def
	}
	switch c.XMLName.Local {
	case "rgb", "spectrum":
		if vals, err := parseFloats(c.Value, 3); err == nil {
			return core.NewSpectrum(vals[0], vals[1], vals[2])
		}
	case "float":
		if v, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64); err == nil {
			return core.NewSpectrum(v, v, v)
		}
	}
	return def
}

func parseVec3Param(el *xmlElement, name string, def core.Vec3) core.Vec3 {
	c := findNamedChild(el, name)
	if c == nil {
		return def
	}
	if c.X != "" || c.Y != "" || c.Z != "" {
		if v, err := parseXYZ(c, 0); err == nil {
			return v
		}
		return def
	}
	if v, err := parseVec3(c.Value); err == nil {
		return v
	}
	return def
}

// parseVec3 reads three floats separated by commas or whitespace
func parseVec3(s string) (core.Vec3, error) {
	vals, err := parseFloats(s, 3)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(vals[0], vals[1], vals[2]), nil
}

func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d values in %q, got %d", n, s, len(fields))
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad float %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseXYZ(el *xmlElement, def float64) (core.Vec3, error) {
	v := core.NewVec3(def, def, def)
	var err error
	if el.X != "" {
		if v.X, err = strconv.ParseFloat(el.X, 64); err != nil {
			return v, fmt.Errorf("bad x attribute %q: %w", el.X, err)
		}
	}
	if el.Y != "" {
		if v.Y, err = strconv.ParseFloat(el.Y, 64); err != nil {
			return v, fmt.Errorf("bad y attribute %q: %w", el.Y, err)
		}
	}
	if el.Z != "" {
		if v.Z, err = strconv.ParseFloat(el.Z, 64); err != nil {
			return v, fmt.Errorf("bad z attribute %q: %w", el.Z, err)
		}
	}
	return v, nil
}
