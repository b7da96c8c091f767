package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TRIPNAV_"

type Config struct {
	ListenAddr     string        `yaml:"listen_addr" validate:"required"`
	Env            string        `yaml:"env" validate:"oneof=development production"`
	OSRM           OSRMConfig    `yaml:"osrm"`
	NATS           NATSConfig    `yaml:"nats"`
	PebbleDir      string        `yaml:"pebble_dir" validate:"required"`
	CorridorRadius float64       `yaml:"corridor_radius_m" validate:"gt=0,lte=5000"`
	DefaultProfile string        `yaml:"default_profile" validate:"oneof=driving walking cycling"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout" validate:"gt=0"`
	Camera         CameraConfig  `yaml:"camera"`
}

type OSRMConfig struct {
	BaseURL    string        `yaml:"base_url" validate:"required,url"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
	RetryCount int           `yaml:"retry_count" validate:"gte=0,lte=10"`
}

// NATSConfig url kosong = pakai log sink.
type NATSConfig struct {
	URL           string `yaml:"url" validate:"omitempty,url"`
	SubjectPrefix string `yaml:"subject_prefix" validate:"required"`
}

type CameraConfig struct {
	NavigatingZoom  float64 `yaml:"navigating_zoom" validate:"gte=0,lte=22"`
	NavigatingPitch float64 `yaml:"navigating_pitch" validate:"gte=0,lte=85"`
	OverviewZoom    float64 `yaml:"overview_zoom" validate:"gte=0,lte=22"`
	DurationMs      int     `yaml:"duration_ms" validate:"gte=0"`
}

func Default() Config {
	return Config{
		ListenAddr: ":5000",
		Env:        "development",
		OSRM: OSRMConfig{
			BaseURL:    "http://localhost:5001",
			Timeout:    5 * time.Second,
			RetryCount: 2,
		},
		NATS: NATSConfig{
			SubjectPrefix: "tripnav",
		},
		PebbleDir:      "./tripnav_poi",
		CorridorRadius: 100,
		DefaultProfile: "driving",
		FetchTimeout:   10 * time.Second,
		Camera: CameraConfig{
			NavigatingZoom:  17,
			NavigatingPitch: 60,
			OverviewZoom:    15,
			DurationMs:      1000,
		},
	}
}

/*
Load urutan: default -> .env (kalau ada) -> file yaml (kalau path tidak kosong) -> env TRIPNAV_* -> validasi.
*/
func Load(path string) (Config, error) {
	// .env boleh tidak ada
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var errs []error
	setString("LISTEN_ADDR", &cfg.ListenAddr)
	setString("ENV", &cfg.Env)
	setString("OSRM_URL", &cfg.OSRM.BaseURL)
	errs = append(errs, setDuration("OSRM_TIMEOUT", &cfg.OSRM.Timeout))
	errs = append(errs, setInt("OSRM_RETRY_COUNT", &cfg.OSRM.RetryCount))
	setString("NATS_URL", &cfg.NATS.URL)
	setString("NATS_SUBJECT_PREFIX", &cfg.NATS.SubjectPrefix)
	setString("PEBBLE_DIR", &cfg.PebbleDir)
	errs = append(errs, setFloat("CORRIDOR_RADIUS_M", &cfg.CorridorRadius))
	setString("DEFAULT_PROFILE", &cfg.DefaultProfile)
	errs = append(errs, setDuration("FETCH_TIMEOUT", &cfg.FetchTimeout))
	errs = append(errs, setFloat("CAMERA_NAVIGATING_ZOOM", &cfg.Camera.NavigatingZoom))
	errs = append(errs, setFloat("CAMERA_NAVIGATING_PITCH", &cfg.Camera.NavigatingPitch))
	errs = append(errs, setFloat("CAMERA_OVERVIEW_ZOOM", &cfg.Camera.OverviewZoom))
	return errors.Join(errs...)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %q", envPrefix, key, v)
	}
	*dst = n
	return nil
}

func setFloat(key string, dst *float64) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %q", envPrefix, key, v)
	}
	*dst = f
	return nil
}

func setDuration(key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %q", envPrefix, key, v)
	}
	*dst = d
	return nil
}
