package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

const sampleConfig = `# Scene: Sample
[image]
name = "sample"
width = 64
height = 48

[camera]
origin = [0.0, 1.0, 10.0]
view = [0.0, 0.0, -1.0]
up = [0.0, 1.0, 0.0]

[render]
seed = 7
max_reflect_depth = 3

[output]
dir = "out"
format = "png"
thumbnail = 16

[[scene.spheres]]
center = [0.0, 0.0, 0.0]
radius = 2.0
color = [255, 0, 0]

[[scene.spheres]]
center = [3, 0, -1]
radius = 1
color = "#00ff80"
diffuse = 0.2
reflection = 0.5

[[scene.lights]]
origin = [5.0, 5.0, 5.0]
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Image != (ImageConfig{Name: "sample", Width: 64, Height: 48}) {
		t.Errorf("Unexpected image config %+v", cfg.Image)
	}
	if cfg.Camera.Origin != [3]float32{0, 1, 10} || cfg.Camera.View != [3]float32{0, 0, -1} {
		t.Errorf("Unexpected camera %+v", cfg.Camera)
	}
	if cfg.Render.Seed != 7 || cfg.Render.MaxReflectDepth != 3 {
		t.Errorf("Unexpected render config %+v", cfg.Render)
	}
	if cfg.Output != (OutputConfig{Dir: "out", Format: "png", Thumbnail: 16}) {
		t.Errorf("Unexpected output config %+v", cfg.Output)
	}

	if len(cfg.Scene.Spheres) != 2 || len(cfg.Scene.Lights) != 1 {
		t.Fatalf("Expected 2 spheres and 1 light, got %d and %d", len(cfg.Scene.Spheres), len(cfg.Scene.Lights))
	}

	first := cfg.Scene.Spheres[0]
	if first.Color != [3]uint8{255, 0, 0} || first.Radius != 2 {
		t.Errorf("Unexpected first sphere %+v", first)
	}
	if first.Diffuse != nil || first.Reflection != nil {
		t.Errorf("Expected absent options to stay nil, got %+v", first)
	}

	second := cfg.Scene.Spheres[1]
	if second.Center != [3]float32{3, 0, -1} || second.Color != [3]uint8{0, 255, 128} {
		t.Errorf("Unexpected second sphere %+v", second)
	}
	if second.Diffuse == nil || *second.Diffuse != 0.2 || second.Reflection == nil || *second.Reflection != 0.5 {
		t.Errorf("Expected diffuse 0.2 and reflection 0.5, got %+v", second)
	}

	if cfg.Scene.Lights[0].Origin != [3]float32{5, 5, 5} {
		t.Errorf("Unexpected light %+v", cfg.Scene.Lights[0])
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(`
[image]
width = 10
height = 10
`))
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if cfg.Image.Name != "render" {
		t.Errorf("Expected default name, got %q", cfg.Image.Name)
	}
	if cfg.Camera.View != [3]float32{0, 0, -1} || cfg.Camera.Up != [3]float32{0, 1, 0} {
		t.Errorf("Unexpected default camera %+v", cfg.Camera)
	}
	if cfg.Render.MaxReflectDepth != scene.MaxReflectDepth {
		t.Errorf("Expected default depth %d, got %d", scene.MaxReflectDepth, cfg.Render.MaxReflectDepth)
	}
	if cfg.Output.Format != "ppm" || cfg.Upload.Enabled {
		t.Errorf("Unexpected defaults %+v %+v", cfg.Output, cfg.Upload)
	}
	if len(cfg.Scene.Spheres) != 0 || len(cfg.Scene.Lights) != 0 {
		t.Errorf("Expected an empty scene, got %+v", cfg.Scene)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("RAYTRACER_RENDER_SEED", "99")
	t.Setenv("RAYTRACER_OUTPUT_FORMAT", "jpg")
	t.Setenv("RAYTRACER_UPLOAD_SECRET_KEY", "s3cr3t")
	t.Setenv("RAYTRACER_UPLOAD_ACL", "public-read")

	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Render.Seed != 99 {
		t.Errorf("Expected seed from the environment, got %d", cfg.Render.Seed)
	}
	if cfg.Output.Format != "jpg" {
		t.Errorf("Expected format from the environment, got %q", cfg.Output.Format)
	}
	if cfg.Upload.SecretKey != "s3cr3t" {
		t.Errorf("Expected secret key from the environment, got %q", cfg.Upload.SecretKey)
	}
	if cfg.Upload.ACL != "public-read" {
		t.Errorf("Expected ACL from the environment, got %q", cfg.Upload.ACL)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	const key = "RAYTRACER_UPLOAD_BUCKET"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set", key)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=renders-bucket\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	cfg, err := LoadConfig(writeConfig(t, dir, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Upload.Bucket != "renders-bucket" {
		t.Errorf("Expected bucket from .env, got %q", cfg.Upload.Bucket)
	}
}

func TestLoadConfig_MalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("not-a-key=1\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	if _, err := LoadConfig(writeConfig(t, dir, sampleConfig)); err == nil || !strings.Contains(err.Error(), ".env") {
		t.Errorf("Expected an error naming the .env file, got %v", err)
	}
	if err := LoadDotEnv(dir); err == nil {
		t.Error("Expected LoadDotEnv to report the parse error")
	}
	if err := LoadDotEnv(t.TempDir()); err != nil {
		t.Errorf("Expected a missing .env to be skipped, got %v", err)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing size", `[image]
name = "x"`},
		{"short color", `[image]
width = 1
height = 1
[[scene.spheres]]
center = [0, 0, 0]
radius = 1
color = [1, 2]`},
		{"channel out of range", `[image]
width = 1
height = 1
[[scene.spheres]]
center = [0, 0, 0]
radius = 1
color = [1, 2, 300]`},
		{"bad hex", `[image]
width = 1
height = 1
[[scene.spheres]]
center = [0, 0, 0]
radius = 1
color = "#12345"`},
		{"missing color", `[image]
width = 1
height = 1
[[scene.spheres]]
center = [0, 0, 0]
radius = 1`},
		{"upload without bucket", `[image]
width = 1
height = 1
[upload]
enabled = true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadConfig(strings.NewReader(tt.content)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestLoadConfig_GeometryNotValidated(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(`[image]
width = 1
height = 1
[[scene.spheres]]
center = [0, 0, 0]
radius = -3
color = [1, 2, 3]
[[scene.spheres]]
center = [0, 0, 0]
radius = 1
color = [1, 2, 3]`))
	if err != nil {
		t.Fatalf("Expected overlapping and negative spheres to load, got %v", err)
	}
	if cfg.Scene.Spheres[0].Radius != -3 {
		t.Errorf("Expected radius -3 to be kept, got %v", cfg.Scene.Spheres[0].Radius)
	}
}

func TestLoadPreset(t *testing.T) {
	for _, name := range scene.PresetNames() {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadPreset(name)
			if err != nil {
				t.Fatalf("LoadPreset failed: %v", err)
			}
			preset, _ := scene.NewPreset(name)
			if cfg.Image.Name != name || cfg.Image.Width != preset.Width || cfg.Image.Height != preset.Height {
				t.Errorf("Unexpected image config %+v", cfg.Image)
			}
			if len(cfg.Scene.Spheres) != len(preset.Scene.Spheres) {
				t.Errorf("Expected %d spheres, got %d", len(preset.Scene.Spheres), len(cfg.Scene.Spheres))
			}
		})
	}

	if _, err := LoadPreset("nope"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for an unknown preset, got %v", err)
	}
}

func TestLoadPreset_EnvOverridesSize(t *testing.T) {
	t.Setenv("RAYTRACER_IMAGE_WIDTH", "32")

	cfg, err := LoadPreset("default")
	if err != nil {
		t.Fatalf("LoadPreset failed: %v", err)
	}
	if cfg.Image.Width != 32 {
		t.Errorf("Expected width 32 from the environment, got %d", cfg.Image.Width)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected [3]uint8
	}{
		{"array", []interface{}{int64(10), int64(20), int64(30)}, [3]uint8{10, 20, 30}},
		{"float array", []interface{}{255.0, 0.0, 1.0}, [3]uint8{255, 0, 1}},
		{"long hex", "#ff8000", [3]uint8{255, 128, 0}},
		{"hex without hash", "0080ff", [3]uint8{0, 128, 255}},
		{"short hex", "#f80", [3]uint8{255, 136, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.value)
			if err != nil {
				t.Fatalf("ParseColor(%v) failed: %v", tt.value, err)
			}
			if got != tt.expected {
				t.Errorf("ParseColor(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}

	for _, bad := range []interface{}{"red", []interface{}{1.5, 0.0, 0.0}, []interface{}{int64(-1), int64(0), int64(0)}, 42} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("Expected ParseColor(%v) to fail", bad)
		}
	}
}
