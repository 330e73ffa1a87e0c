package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// scenesDir is where named scene files are looked up
const scenesDir = "scenes"

type options struct {
	scene      string
	outputDir  string
	format     string
	seed       int64
	thumbnail  int
	upload     bool
	listScenes bool
}

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(logger)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCommand(logger *log.Logger) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "raytracer [config.toml]",
		Short: "Sphere raytracer",
		Long: `Renders spheres lit by point lights into a PPM (or other) image.

The scene comes from a TOML config file, or from a built-in or named scene
given with --scene. Settings can be overridden with RAYTRACER_* environment
variables, e.g. RAYTRACER_RENDER_SEED=7.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listScenes {
				return listScenes(cmd.OutOrStdout())
			}

			configPath := ""
			if len(args) == 1 {
				configPath = args[0]
			}
			cfg, err := createConfig(configPath, opts.scene)
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, opts, cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.scene, "scene", "default", "Built-in scene name, scene file name in scenes/, or path to a .toml file")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Directory for rendered images (overrides output.dir)")
	flags.StringVar(&opts.format, "format", "", "Image format: "+strings.Join(output.Formats, ", "))
	flags.Int64Var(&opts.seed, "seed", 0, "Seed for rough surface jitter (0 = time based)")
	flags.IntVar(&opts.thumbnail, "thumbnail", 0, "Also write a PNG preview with this maximum side")
	flags.BoolVar(&opts.upload, "upload", false, "Upload the render to the configured S3 bucket")
	flags.BoolVar(&opts.listScenes, "list-scenes", false, "List available scenes and exit")

	return cmd
}

// createConfig resolves the configuration from an explicit file, a built-in
// scene or a scene file name
func createConfig(configPath, sceneName string) (*loaders.Config, error) {
	if err := loaders.LoadDotEnv("."); err != nil {
		return nil, err
	}

	if configPath != "" {
		return loaders.LoadConfig(configPath)
	}
	if sceneName == "" {
		return nil, errors.New("no config file or scene given")
	}

	for _, name := range scene.PresetNames() {
		if name == sceneName {
			return loaders.LoadPreset(sceneName)
		}
	}

	if strings.HasSuffix(sceneName, ".toml") {
		return loaders.LoadConfig(sceneName)
	}
	path := filepath.Join(scenesDir, sceneName+".toml")
	if _, err := os.Stat(path); err == nil {
		return loaders.LoadConfig(path)
	}

	return nil, fmt.Errorf("unknown scene %q (available: %s, or a file in %s/)",
		sceneName, strings.Join(scene.PresetNames(), ", "), scenesDir)
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(cmd *cobra.Command, opts *options, cfg *loaders.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.Dir = opts.outputDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("seed") {
		cfg.Render.Seed = opts.seed
	}
	if flags.Changed("thumbnail") {
		cfg.Output.Thumbnail = opts.thumbnail
	}
	if flags.Changed("upload") {
		cfg.Upload.Enabled = opts.upload
	}
	if !output.IsSupportedFormat(cfg.Output.Format) {
		return fmt.Errorf("%w: unsupported format %q", loaders.ErrInvalidConfig, cfg.Output.Format)
	}
	return cfg.Validate()
}

func listScenes(w io.Writer) error {
	scenes, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, info := range scenes {
		id := info.ID
		if info.Type == "file" {
			id = strings.TrimSuffix(filepath.Base(info.FilePath), ".toml")
		}
		fmt.Fprintf(w, "%-16s %-20s %s\n", id, info.Name, info.Description)
	}
	return nil
}

// outputPath returns <dir>/<name>.<format>
func outputPath(dir, name, format string) string {
	return filepath.Join(dir, name+"."+strings.ToLower(strings.TrimPrefix(format, ".")))
}

// thumbnailPath returns <dir>/<name>_thumb.png
func thumbnailPath(dir, name string) string {
	return filepath.Join(dir, name+"_thumb.png")
}

func run(ctx context.Context, cfg *loaders.Config, logger core.Logger) error {
	camera, err := renderer.NewCamera(renderer.CameraConfig{
		Origin: core.NewVec3FromArray(cfg.Camera.Origin),
		View:   core.NewVec3FromArray(cfg.Camera.View),
		Up:     core.NewVec3FromArray(cfg.Camera.Up),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", loaders.ErrInvalidConfig, err)
	}

	world := scene.New(cfg.Scene, scene.WithMaxReflectDepth(cfg.Render.MaxReflectDepth))
	logger.Printf("Scene %q: %d spheres, lights: %s, up to %d reflections\n",
		cfg.Image.Name, len(world.Objects()), describeLights(world.Lights()), world.MaxReflectDepth())

	config := renderer.DefaultRenderConfig()
	config.Seed = cfg.Render.Seed
	raytracer := renderer.NewRaytracer(world, camera, cfg.Image.Width, cfg.Image.Height, config, logger)

	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	logger.Printf("Rendered %dx%d in %v (%.2f rays/pixel)\n",
		stats.Width, stats.Height, stats.Duration, stats.SamplesPerPixel())

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []string{outputPath(cfg.Output.Dir, cfg.Image.Name, cfg.Output.Format)}
	if err := output.Save(files[0], img); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", files[0])

	if cfg.Output.Thumbnail > 0 {
		thumb := thumbnailPath(cfg.Output.Dir, cfg.Image.Name)
		if err := output.Save(thumb, output.Thumbnail(img, cfg.Output.Thumbnail)); err != nil {
			return err
		}
		logger.Printf("Thumbnail saved as %s\n", thumb)
		files = append(files, thumb)
	}

	if !cfg.Upload.Enabled {
		return nil
	}
	uploader, err := output.NewS3Uploader(output.S3Config{
		Bucket:    cfg.Upload.Bucket,
		Region:    cfg.Upload.Region,
		Endpoint:  cfg.Upload.Endpoint,
		AccessKey: cfg.Upload.AccessKey,
		SecretKey: cfg.Upload.SecretKey,
		ACL:       cfg.Upload.ACL,
	}, logger)
	if err != nil {
		return err
	}
	return uploadFiles(ctx, uploader, cfg.Upload.Prefix, files)
}

// describeLights summarizes lights by kind, e.g. "2 point"
func describeLights(ls []lights.Light) string {
	if len(ls) == 0 {
		return "none"
	}

	counts := make(map[lights.LightType]int)
	for _, light := range ls {
		counts[light.Type()]++
	}

	parts := make([]string, 0, len(counts))
	for kind, n := range counts {
		parts = append(parts, fmt.Sprintf("%d %s", n, kind))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func uploadFiles(ctx context.Context, uploader output.Uploader, prefix string, files []string) error {
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if err := uploader.Upload(ctx, output.ObjectKey(prefix, filepath.Base(file)), data); err != nil {
			return err
		}
	}
	return nil
}
