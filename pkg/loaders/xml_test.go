package loaders

import (
	"encoding/xml"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/twocookingmice/glint/pkg/core"
	"github.com/twocookingmice/glint/pkg/imageio"
	"github.com/twocookingmice/glint/pkg/integrator"
	"github.com/twocookingmice/glint/pkg/sensor"
)

const testSceneXML = `<scene version="3.0.0">
	<integrator type="raymarching">
		<integer name="max_depth" value="6"/>
		<float name="step_size" value="0.05"/>
	</integrator>
	<sensor type="perspective">
		<float name="fov" value="45"/>
		<string name="fov_axis" value="y"/>
		<float name="near_clip" value="0.1"/>
		<transform name="to_world">
			<lookat origin="0, 0, 4" target="0, 0, 0" up="0, 1, 0"/>
		</transform>
		<sampler type="independent">
			<integer name="sample_count" value="8"/>
		</sampler>
		<film type="hdrfilm">
			<integer name="width" value="32"/>
			<integer name="height" value="16"/>
		</film>
	</sensor>
	<bsdf type="twosided" id="white">
		<bsdf type="diffuse">
			<rgb name="reflectance" value="0.8, 0.8, 0.8"/>
		</bsdf>
	</bsdf>
	<bsdf type="roughconductor" id="metal">
		<string name="distribution" value="ggx"/>
		<float name="alpha" value="0.3"/>
	</bsdf>
	<medium type="homogeneous" id="fog">
		<rgb name="sigma_t" value="1, 1, 1"/>
		<float name="scale" value="0.5"/>
	</medium>
	<shape type="rectangle">
		<transform name="to_world">
			<scale value="2"/>
			<translate z="-1"/>
		</transform>
		<ref id="white"/>
		<emitter type="area">
			<rgb name="radiance" value="1, 2, 3"/>
		</emitter>
	</shape>
	<shape type="cube">
		<bsdf type="null"/>
		<ref name="interior" id="fog"/>
	</shape>
	<shape type="rectangle">
		<ref id="metal"/>
	</shape>
	<emitter type="directional">
		<vector name="direction" x="0" y="-1" z="0"/>
		<rgb name="irradiance" value="2, 2, 2"/>
	</emitter>
</scene>`

func TestParseScene_FullScene(t *testing.T) {
	desc, err := ParseScene([]byte(testSceneXML), ".")
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	rm, ok := desc.Integrator.(*integrator.RayMarcher)
	if !ok {
		t.Fatalf("expected a RayMarcher, got %T", desc.Integrator)
	}
	if rm.SamplesPerPixel() != 8 {
		t.Errorf("samples per pixel = %d, want 8", rm.SamplesPerPixel())
	}

	cam := desc.Camera
	if cam.Film.Width != 32 || cam.Film.Height != 16 {
		t.Errorf("film = %dx%d, want 32x16", cam.Film.Width, cam.Film.Height)
	}
	if got := cam.Origin(); got.Subtract(core.NewVec3(0, 0, 4)).Length() > 1e-9 {
		t.Errorf("camera origin = %v, want (0,0,4)", got)
	}

	sc := desc.Scene
	if len(sc.Objects) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(sc.Objects))
	}
	if sc.Objects[0].Emission != core.NewSpectrum(1, 2, 3) {
		t.Errorf("emission = %v, want (1,2,3)", sc.Objects[0].Emission)
	}
	if !sc.Objects[1].Material.IsNull() {
		t.Error("cube should carry a null bsdf")
	}
	if sc.Objects[1].Interior == nil {
		t.Error("cube should carry an interior medium")
	}
	// area light from the emissive rectangle plus the directional light
	if len(sc.Emitters) != 2 {
		t.Errorf("expected 2 emitters, got %d", len(sc.Emitters))
	}
}

func TestParseScene_TransformOrder(t *testing.T) {
	var el xmlElement
	snippet := `<transform name="to_world">
		<translate x="1"/>
		<rotate y="1" angle="90"/>
	</transform>`
	if err := xml.Unmarshal([]byte(snippet), &el); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	tr, err := parseTransform(&el)
	if err != nil {
		t.Fatalf("parseTransform failed: %v", err)
	}

	// translate first, then rotate: (0,0,0) -> (1,0,0) -> (0,0,-1)
	got := tr.ApplyPoint(core.NewVec3(0, 0, 0))
	want := core.NewVec3(0, 0, -1)
	if got.Subtract(want).Length() > 1e-9 {
		t.Errorf("transformed origin = %v, want %v", got, want)
	}
}

func TestParseScene_MatrixTransform(t *testing.T) {
	var el xmlElement
	snippet := `<transform name="to_world">
		<matrix value="1 0 0 5  0 1 0 0  0 0 1 0  0 0 0 1"/>
	</transform>`
	if err := xml.Unmarshal([]byte(snippet), &el); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	tr, err := parseTransform(&el)
	if err != nil {
		t.Fatalf("parseTransform failed: %v", err)
	}
	got := tr.ApplyPoint(core.NewVec3(0, 0, 0))
	if got.Subtract(core.NewVec3(5, 0, 0)).Length() > 1e-9 {
		t.Errorf("matrix translation = %v, want (5,0,0)", got)
	}
}

func TestParseScene_EnvmapEmitter(t *testing.T) {
	dir := t.TempDir()
	bm := sensor.NewBitmap(4, 2)
	for i := range bm.Pixels {
		bm.Pixels[i] = core.NewSpectrum(0.5, 0.5, 0.5)
	}
	if err := imageio.SaveEXR(filepath.Join(dir, "env.exr"), bm); err != nil {
		t.Fatalf("SaveEXR failed: %v", err)
	}

	data := `<scene version="3.0.0">
		<integrator type="path">
			<integer name="max_depth" value="4"/>
		</integrator>
		<sensor type="perspective">
			<float name="fov" value="40"/>
		</sensor>
		<emitter type="envmap">
			<string name="filename" value="env.exr"/>
			<float name="scale" value="2"/>
		</emitter>
	</scene>`

	desc, err := ParseScene([]byte(data), dir)
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}
	if len(desc.Scene.Emitters) != 1 {
		t.Fatalf("expected 1 emitter, got %d", len(desc.Scene.Emitters))
	}

	env := desc.Scene.EvalEnvironment(core.NewVec3(0, 0, 1))
	if math.Abs(env.R-1) > 1e-6 {
		t.Errorf("environment radiance = %v, want 1 (0.5 scaled by 2)", env)
	}

	if _, ok := desc.Integrator.(*integrator.PathTracer); !ok {
		t.Errorf("expected a PathTracer, got %T", desc.Integrator)
	}
	if desc.Camera.Film.Width != 768 || desc.Camera.Film.Height != 576 {
		t.Errorf("default film = %dx%d, want 768x576", desc.Camera.Film.Width, desc.Camera.Film.Height)
	}
}

func TestParseScene_MissingBSDFRef(t *testing.T) {
	data := `<scene version="3.0.0">
		<sensor type="perspective"/>
		<shape type="rectangle">
			<ref id="nope"/>
		</shape>
	</scene>`
	_, err := ParseScene([]byte(data), ".")
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected unknown bsdf error, got %v", err)
	}
}

func TestParseScene_NoSensor(t *testing.T) {
	if _, err := ParseScene([]byte(`<scene version="3.0.0"/>`), "."); err == nil {
		t.Fatal("expected missing sensor error")
	}
}

func TestParseScene_MeshShapes(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(objPath, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	plyPath := filepath.Join(dir, "quad.ply")
	if err := os.WriteFile(plyPath, []byte(asciiQuadPLY), 0o644); err != nil {
		t.Fatal(err)
	}

	data := `<scene version="3.0.0">
		<integrator type="path"/>
		<sensor type="perspective"/>
		<shape type="obj">
			<string name="filename" value="tri.obj"/>
			<boolean name="face_normals" value="true"/>
			<bsdf type="diffuse"/>
		</shape>
		<shape type="ply">
			<string name="filename" value="quad.ply"/>
			<bsdf type="diffuse"/>
		</shape>
	</scene>`

	desc, err := ParseScene([]byte(data), dir)
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}
	if len(desc.Scene.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(desc.Scene.Objects))
	}
}
