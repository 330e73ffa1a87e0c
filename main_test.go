package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/loaders"
)

const tinyScene = `# Scene: Tiny
[image]
name = "tiny"
width = 8
height = 6

[camera]
origin = [0.0, 0.0, 10.0]
view = [0.0, 0.0, -1.0]
up = [0.0, 1.0, 0.0]

[[scene.spheres]]
center = [0.0, 0.0, 0.0]
radius = 2.0
color = [255, 0, 0]

[[scene.lights]]
origin = [0.0, 5.0, 5.0]
`

func writeScene(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	return path
}

func TestCreateConfig(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeScene(t, dir, "tiny.toml", tinyScene)

	tests := []struct {
		name        string
		configPath  string
		sceneName   string
		expectName  string
		expectError bool
	}{
		{"default preset", "", "default", "default", false},
		{"mirrors preset", "", "mirrors", "mirrors", false},
		{"explicit file", scenePath, "default", "tiny", false},
		{"scene as toml path", "", scenePath, "tiny", false},
		{"unknown scene", "", "nonexistent", "", true},
		{"missing toml path", "", filepath.Join(dir, "missing.toml"), "", true},
		{"empty scene name", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := createConfig(tt.configPath, tt.sceneName)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %q/%q, got none", tt.configPath, tt.sceneName)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.Image.Name != tt.expectName {
				t.Errorf("Expected image name %q, got %q", tt.expectName, cfg.Image.Name)
			}
			if cfg.Image.Width <= 0 || cfg.Image.Height <= 0 {
				t.Errorf("Expected a positive image size, got %dx%d", cfg.Image.Width, cfg.Image.Height)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	if got := outputPath("out", "spheres", "PNG"); got != filepath.Join("out", "spheres.png") {
		t.Errorf("Unexpected output path %q", got)
	}
	if got := outputPath("out", "spheres", ".ppm"); got != filepath.Join("out", "spheres.ppm") {
		t.Errorf("Unexpected output path %q", got)
	}
	if got := thumbnailPath("out", "spheres"); got != filepath.Join("out", "spheres_thumb.png") {
		t.Errorf("Unexpected thumbnail path %q", got)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs bytes.Buffer
	cmd := newRootCommand(log.New(&logs, "", 0))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String() + logs.String(), err
}

func TestRootCommand_RendersPPM(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeScene(t, dir, "tiny.toml", tinyScene)
	outDir := filepath.Join(dir, "out")

	logs, err := executeCommand(t, scenePath, "--output-dir", outDir, "--seed", "3")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "tiny.ppm"))
	if err != nil {
		t.Fatalf("Expected tiny.ppm to be written: %v", err)
	}
	header := "P6\n8\n6\n255\n"
	if !bytes.HasPrefix(data, []byte(header)) || len(data) != len(header)+8*6*3 {
		t.Errorf("Unexpected PPM: %d bytes", len(data))
	}
	if !strings.Contains(logs, "Render saved as") {
		t.Errorf("Expected the output path to be logged, got %q", logs)
	}
	if !strings.Contains(logs, `Scene "tiny": 1 spheres, lights: 1 point, up to 5 reflections`) {
		t.Errorf("Expected the scene summary to be logged, got %q", logs)
	}
}

func TestRootCommand_FormatAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeScene(t, dir, "tiny.toml", tinyScene)

	if _, err := executeCommand(t, scenePath, "--output-dir", dir, "--format", "png", "--thumbnail", "4"); err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	for _, name := range []string{"tiny.png", "tiny_thumb.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
	}
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeScene(t, dir, "tiny.toml", tinyScene)

	_, err := executeCommand(t, scenePath, "--output-dir", dir, "--format", "webp")
	if !errors.Is(err, loaders.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestRootCommand_UploadNeedsBucket(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeScene(t, dir, "tiny.toml", tinyScene)

	_, err := executeCommand(t, scenePath, "--output-dir", dir, "--upload")
	if !errors.Is(err, loaders.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestRootCommand_ListScenes(t *testing.T) {
	out, err := executeCommand(t, "--list-scenes")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	for _, name := range []string{"default", "mirrors"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected %q in scene list %q", name, out)
		}
	}
}

// fakeUploader records uploaded keys
type fakeUploader struct {
	keys []string
}

func (f *fakeUploader) Upload(_ context.Context, key string, _ []byte) error {
	f.keys = append(f.keys, key)
	return nil
}

func TestDescribeLights(t *testing.T) {
	tests := []struct {
		name     string
		lights   []lights.Light
		expected string
	}{
		{"none", nil, "none"},
		{"one point", []lights.Light{lights.NewPointLight(core.NewVec3(0, 5, 0))}, "1 point"},
		{"several points", []lights.Light{
			lights.NewPointLight(core.NewVec3(0, 5, 0)),
			lights.NewPointLight(core.NewVec3(5, 0, 0)),
		}, "2 point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeLights(tt.lights); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUploadFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeScene(t, dir, "a.ppm", "P6")
	b := writeScene(t, dir, "a_thumb.png", "png")

	uploader := &fakeUploader{}
	if err := uploadFiles(context.Background(), uploader, "renders/", []string{a, b}); err != nil {
		t.Fatalf("uploadFiles failed: %v", err)
	}
	want := []string{"renders/a.ppm", "renders/a_thumb.png"}
	if strings.Join(uploader.keys, ",") != strings.Join(want, ",") {
		t.Errorf("Expected keys %v, got %v", want, uploader.keys)
	}

	if err := uploadFiles(context.Background(), uploader, "", []string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestSceneFilesLoad(t *testing.T) {
	files, err := filepath.Glob(filepath.Join(scenesDir, "*.toml"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("Expected scene files in scenes/")
	}
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".toml")
		t.Run(name, func(t *testing.T) {
			cfg, err := createConfig("", name)
			if err != nil {
				t.Fatalf("Failed to load %s: %v", file, err)
			}
			if len(cfg.Scene.Spheres) == 0 || len(cfg.Scene.Lights) == 0 {
				t.Errorf("Expected spheres and lights in %s", file)
			}
		})
	}
}
