package loaders

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// ErrInvalidConfig is returned for configuration that cannot be rendered
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes environment variables that override config keys,
// e.g. RAYTRACER_RENDER_SEED for render.seed
const EnvPrefix = "RAYTRACER"

// ImageConfig names and sizes the output image
type ImageConfig struct {
	Name   string `mapstructure:"name"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// RenderConfig controls the tracer
type RenderConfig struct {
	Seed            int64 `mapstructure:"seed"`
	MaxReflectDepth int   `mapstructure:"max_reflect_depth"`
}

// OutputConfig controls where and how the image is written
type OutputConfig struct {
	Dir       string `mapstructure:"dir"`
	Format    string `mapstructure:"format"`
	Thumbnail int    `mapstructure:"thumbnail"` // max side of an extra preview, 0 disables
}

// UploadConfig describes an optional S3 compatible upload target
type UploadConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	Prefix    string `mapstructure:"prefix"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	ACL       string `mapstructure:"acl"` // canned ACL such as "public-read"
}

// Config is a fully resolved render configuration
type Config struct {
	Image  ImageConfig
	Camera scene.CameraDescriptor
	Render RenderConfig
	Output OutputConfig
	Upload UploadConfig
	Scene  scene.Description
}

// rawConfig mirrors the file layout before colors are parsed
type rawConfig struct {
	Image  ImageConfig  `mapstructure:"image"`
	Camera rawCamera    `mapstructure:"camera"`
	Render RenderConfig `mapstructure:"render"`
	Output OutputConfig `mapstructure:"output"`
	Upload UploadConfig `mapstructure:"upload"`
	Scene  rawScene     `mapstructure:"scene"`
}

type rawCamera struct {
	Origin [3]float32 `mapstructure:"origin"`
	View   [3]float32 `mapstructure:"view"`
	Up     [3]float32 `mapstructure:"up"`
}

type rawScene struct {
	Spheres []rawSphere `mapstructure:"spheres"`
	Lights  []rawLight  `mapstructure:"lights"`
}

type rawSphere struct {
	Center     [3]float32  `mapstructure:"center"`
	Radius     float32     `mapstructure:"radius"`
	Color      interface{} `mapstructure:"color"`
	Diffuse    *float32    `mapstructure:"diffuse"`
	Reflection *float32    `mapstructure:"reflection"`
}

type rawLight struct {
	Origin [3]float32 `mapstructure:"origin"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// every key that may come from the environment needs a default
	v.SetDefault("image.name", "render")
	v.SetDefault("image.width", 0)
	v.SetDefault("image.height", 0)
	v.SetDefault("camera.origin", []float64{0, 0, 0})
	v.SetDefault("camera.view", []float64{0, 0, -1})
	v.SetDefault("camera.up", []float64{0, 1, 0})
	v.SetDefault("render.seed", 42)
	v.SetDefault("render.max_reflect_depth", scene.MaxReflectDepth)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", "ppm")
	v.SetDefault("output.thumbnail", 0)
	v.SetDefault("upload.enabled", false)
	v.SetDefault("upload.bucket", "")
	v.SetDefault("upload.region", "us-east-1")
	v.SetDefault("upload.endpoint", "")
	v.SetDefault("upload.prefix", "renders/")
	v.SetDefault("upload.access_key", "")
	v.SetDefault("upload.secret_key", "")
	v.SetDefault("upload.acl", "")
	return v
}

// LoadDotEnv loads .env files from the given directories into the process
// environment. Missing files are skipped and set variables are never replaced.
func LoadDotEnv(dirs ...string) error {
	for _, dir := range dirs {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// LoadConfig reads a TOML render configuration. A .env file next to it is
// loaded first, then RAYTRACER_* variables override file values.
func LoadConfig(path string) (*Config, error) {
	if err := LoadDotEnv(filepath.Dir(path)); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return decode(v)
}

// ReadConfig parses a TOML render configuration from r
func ReadConfig(r io.Reader) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return decode(v)
}

// LoadPreset builds the configuration of a built-in scene. Render, output
// and upload settings still come from defaults and the environment.
func LoadPreset(name string) (*Config, error) {
	preset, err := scene.NewPreset(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	v := newViper()
	v.SetDefault("image.name", preset.Name)
	v.SetDefault("image.width", preset.Width)
	v.SetDefault("image.height", preset.Height)

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.Camera = preset.Camera
	cfg.Scene = preset.Scene
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := &Config{
		Image: raw.Image,
		Camera: scene.CameraDescriptor{
			Origin: raw.Camera.Origin,
			View:   raw.Camera.View,
			Up:     raw.Camera.Up,
		},
		Render: raw.Render,
		Output: raw.Output,
		Upload: raw.Upload,
		Scene: scene.Description{
			Spheres: make([]scene.SphereDescriptor, 0, len(raw.Scene.Spheres)),
			Lights:  make([]scene.LightDescriptor, 0, len(raw.Scene.Lights)),
		},
	}

	for i, s := range raw.Scene.Spheres {
		color, err := ParseColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: sphere %d: %v", ErrInvalidConfig, i, err)
		}
		cfg.Scene.Spheres = append(cfg.Scene.Spheres, scene.SphereDescriptor{
			Center:     s.Center,
			Radius:     s.Radius,
			Color:      color,
			Diffuse:    s.Diffuse,
			Reflection: s.Reflection,
		})
	}
	for _, l := range raw.Scene.Lights {
		cfg.Scene.Lights = append(cfg.Scene.Lights, scene.LightDescriptor{Origin: l.Origin})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the structural parts of the configuration. Scene geometry
// is taken as given.
func (c *Config) Validate() error {
	if c.Image.Width <= 0 || c.Image.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Image.Width, c.Image.Height)
	}
	if c.Image.Name == "" {
		return fmt.Errorf("%w: image name is empty", ErrInvalidConfig)
	}
	if c.Render.MaxReflectDepth < 0 {
		return fmt.Errorf("%w: negative max_reflect_depth %d", ErrInvalidConfig, c.Render.MaxReflectDepth)
	}
	if c.Output.Thumbnail < 0 {
		return fmt.Errorf("%w: negative thumbnail size %d", ErrInvalidConfig, c.Output.Thumbnail)
	}
	if c.Upload.Enabled && c.Upload.Bucket == "" {
		return fmt.Errorf("%w: upload enabled without a bucket", ErrInvalidConfig)
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseColor accepts either three integer channels in 0..255 or a hex string
// such as "#ff8000" or "f80"
func ParseColor(value interface{}) ([3]uint8, error) {
	switch v := value.(type) {
	case string:
		if !hexColor.MatchString(v) {
			return [3]uint8{}, fmt.Errorf("bad hex color %q", v)
		}
		c := fauxgl.HexColor(v)
		return [3]uint8{unitToByte(c.R), unitToByte(c.G), unitToByte(c.B)}, nil
	case []interface{}:
		if len(v) != 3 {
			return [3]uint8{}, fmt.Errorf("color needs 3 channels, got %d", len(v))
		}
		var rgb [3]uint8
		for i, channel := range v {
			b, err := channelByte(channel)
			if err != nil {
				return [3]uint8{}, fmt.Errorf("channel %d: %w", i, err)
			}
			rgb[i] = b
		}
		return rgb, nil
	case nil:
		return [3]uint8{}, errors.New("color is missing")
	default:
		return [3]uint8{}, fmt.Errorf("unsupported color %v", value)
	}
}

func channelByte(value interface{}) (uint8, error) {
	var f float64
	switch v := value.(type) {
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case float64:
		f = v
	default:
		return 0, fmt.Errorf("unsupported value %v", value)
	}
	if f != math.Trunc(f) || f < 0 || f > math.MaxUint8 {
		return 0, fmt.Errorf("value %v is not an integer in 0..255", value)
	}
	return uint8(f), nil
}

func unitToByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * math.MaxUint8))
}
