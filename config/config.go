package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath = "."

	defaultSubscribePath = "/api/push/subscribe"
	defaultWorkerPath    = "/service-worker.js"
	defaultNotifyURL     = "/profesional"
	defaultCacheName     = "wabot-v2"
	defaultCachePrefix   = "wabot-"
	defaultSubmitTimeout = 15 * time.Second
	defaultPushTTL       = 600
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port int `json:"port" yaml:"port"`
	} `json:"http" yaml:"http"`

	// Worker configures the background worker delivery (push receive,
	// cache-first asset serving, notification interaction).
	Worker struct {
		Port       int    `json:"port" yaml:"port"`
		Scope      string `json:"scope" yaml:"scope"`
		ScriptPath string `json:"scriptPath" yaml:"scriptPath"`
	} `json:"worker" yaml:"worker"`

	// Push configures the web push pipeline: VAPID key pair, the backend
	// submission endpoint and the notification defaults.
	Push *PushConfig `json:"push" yaml:"push"`

	// Cache configures the named install-time asset cache.
	Cache *CacheConfig `json:"cache" yaml:"cache"`

	// Assets configures the static asset origin served by the backend.
	Assets *AssetsConfig `json:"assets" yaml:"assets"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PushConfig defines web push configuration
type PushConfig struct {
	// PublicKey is the VAPID public key, URL-safe base64 without padding
	PublicKey string `json:"publicKey" yaml:"publicKey"`
	// PrivateKey is the VAPID private key, used by the sender only
	PrivateKey string `json:"privateKey" yaml:"privateKey"`
	// Subscriber is the VAPID contact, e.g. mailto:admin@example.com
	Subscriber string `json:"subscriber" yaml:"subscriber"`

	// BackendURL is the origin of the subscription persistence backend
	BackendURL string `json:"backendUrl" yaml:"backendUrl"`
	// SubscribePath is the fixed backend path subscriptions are posted to
	SubscribePath string `json:"subscribePath" yaml:"subscribePath"`
	// SubmitTimeout bounds the single best-effort backend submission
	SubmitTimeout time.Duration `json:"submitTimeout" yaml:"submitTimeout"`

	// DefaultURL is the deep link used when a push carries no url field
	DefaultURL string `json:"defaultUrl" yaml:"defaultUrl"`
	// TTL is the delivery service retention for undelivered pushes, in seconds
	TTL int `json:"ttl" yaml:"ttl"`
}

// CacheConfig defines the versioned asset cache store
type CacheConfig struct {
	// Name identifies the cache store; bumping it supersedes older stores
	Name string `json:"name" yaml:"name"`
	// Prefix groups stores of this application across versions
	Prefix string `json:"prefix" yaml:"prefix"`
	// Manifest is the fixed list of root-relative paths cached at install
	Manifest []string `json:"manifest" yaml:"manifest"`
}

// AssetsConfig defines where the backend serves static assets from
type AssetsConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: PUSH_PUBLICKEY -> push.publicKey (not push.publickey)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Worker.ScriptPath == "" {
		cfg.Worker.ScriptPath = defaultWorkerPath
	}

	if cfg.Push == nil {
		cfg.Push = &PushConfig{}
	}
	if cfg.Push.SubscribePath == "" {
		cfg.Push.SubscribePath = defaultSubscribePath
	}
	if cfg.Push.DefaultURL == "" {
		cfg.Push.DefaultURL = defaultNotifyURL
	}
	if cfg.Push.SubmitTimeout <= 0 {
		cfg.Push.SubmitTimeout = defaultSubmitTimeout
	}
	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = defaultPushTTL
	}

	if cfg.Cache == nil {
		cfg.Cache = &CacheConfig{}
	}
	if cfg.Cache.Name == "" {
		cfg.Cache.Name = defaultCacheName
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = defaultCachePrefix
	}
	if len(cfg.Cache.Manifest) == 0 {
		cfg.Cache.Manifest = []string{
			"/",
			"/manifest.json",
			"/static/icons/icon-192x192.png",
			"/static/icons/icon-512x512.png",
		}
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
