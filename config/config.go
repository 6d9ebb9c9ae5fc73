package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Dimension names in the fixed order used by the mapper and by Thresholds.
var Canonical = [4]string{"joy", "anger", "surprise", "trust"}

const (
	keyDimensions = "affective_model.dimensions"
	keyThreshold  = "domain_routing.classifier_threshold"
)

// Thresholds are the per-dimension weighting coefficients.
type Thresholds struct {
	Joy      float64 `json:"joy" yaml:"joy"`
	Anger    float64 `json:"anger" yaml:"anger"`
	Surprise float64 `json:"surprise" yaml:"surprise"`
	Trust    float64 `json:"trust" yaml:"trust"`
}

type Service struct {
	URL string
}
type Services struct {
	Text           Service
	Audio          Service
	TimeoutSeconds int
}
type Server struct {
	Addr    string
	Profile string // "service" or "core"
}
type Log struct {
	Level  string
	Format string
}

// Root is the loaded settings document. It is read-only after Load.
type Root struct {
	Path       string
	Dimensions [4]string
	Thresholds Thresholds
	Services   Services
	Server     Server
	Log        Log
}

// Load reads the settings document at path. An empty path walks the default
// locations. Any problem with the required affective fields is an *Error.
func Load(path string) (*Root, error) {
	if path == "" {
		p, err := locate()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("GPRF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("services.timeout_seconds", 60)
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.profile", "service")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	root := &Root{Path: path}
	dims, err := dimensions(v)
	if err != nil {
		return nil, &Error{Path: path, Key: keyDimensions, Err: err}
	}
	root.Dimensions = dims

	th, key, err := thresholds(v)
	if err != nil {
		return nil, &Error{Path: path, Key: key, Err: err}
	}
	root.Thresholds = th

	root.Services = Services{
		Text:           Service{URL: v.GetString("services.text.url")},
		Audio:          Service{URL: v.GetString("services.audio.url")},
		TimeoutSeconds: v.GetInt("services.timeout_seconds"),
	}
	root.Server = Server{Addr: v.GetString("server.addr"), Profile: v.GetString("server.profile")}
	root.Log = Log{Level: v.GetString("log.level"), Format: v.GetString("log.format")}
	return root, nil
}

// Timeout is the per-call deadline for remote diagnostics providers.
func (r *Root) Timeout() time.Duration { return DurSeconds(r.Services.TimeoutSeconds) }

// MisorderedLabels reports whether the configured labels are the canonical
// dimension names in a different order, which would mislabel every score.
func (r *Root) MisorderedLabels() bool {
	seen := map[string]bool{}
	for _, l := range r.Dimensions {
		seen[strings.ToLower(l)] = true
	}
	for _, c := range Canonical {
		if !seen[c] {
			return false
		}
	}
	for i, l := range r.Dimensions {
		if strings.ToLower(l) != Canonical[i] {
			return true
		}
	}
	return false
}

func dimensions(v *viper.Viper) ([4]string, error) {
	var out [4]string
	if !v.IsSet(keyDimensions) {
		return out, ErrMissing
	}
	raw, ok := v.Get(keyDimensions).([]any)
	if !ok {
		return out, fmt.Errorf("expected a list, got %T", v.Get(keyDimensions))
	}
	if len(raw) != len(out) {
		return out, fmt.Errorf("expected %d labels, got %d", len(out), len(raw))
	}
	seen := map[string]bool{}
	for i, x := range raw {
		s, ok := x.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return out, fmt.Errorf("label %d is not a non-empty string", i)
		}
		if seen[s] {
			return out, fmt.Errorf("duplicate label %q", s)
		}
		seen[s] = true
		out[i] = s
	}
	return out, nil
}

func thresholds(v *viper.Viper) (Thresholds, string, error) {
	for _, k := range slices.Sorted(maps.Keys(v.GetStringMap(keyThreshold))) {
		if !slices.Contains(Canonical[:], k) {
			return Thresholds{}, keyThreshold + "." + k, fmt.Errorf("unknown threshold %q", k)
		}
	}
	var vals [4]float64
	for i, name := range Canonical {
		key := keyThreshold + "." + name
		if !v.IsSet(key) {
			return Thresholds{}, key, ErrMissing
		}
		f, err := number(v.Get(key))
		if err != nil {
			return Thresholds{}, key, err
		}
		vals[i] = f
	}
	return Thresholds{Joy: vals[0], Anger: vals[1], Surprise: vals[2], Trust: vals[3]}, "", nil
}

func number(x any) (float64, error) {
	switch n := x.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		// environment overrides arrive as strings
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	}
	return 0, fmt.Errorf("not a number: %T", x)
}

func locate() (string, error) {
	if p := os.Getenv("GPRF_CONFIG"); p != "" {
		return p, nil
	}
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	guess := []string{
		filepath.Join("config", env, "settings.yaml"),
		filepath.Join("config", env, "settings.json"),
		"settings.json",
	}
	for _, p := range guess {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", &Error{Path: strings.Join(guess, ", "), Err: os.ErrNotExist}
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
