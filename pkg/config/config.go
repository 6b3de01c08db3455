package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/logging"
	"github.com/arthur-debert/dotbak/pkg/patterns"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// Files holds the include/exclude pattern lists
type Files struct {
	Include []string `koanf:"include" toml:"include"`
	Exclude []string `koanf:"exclude" toml:"exclude"`
}

// Config is the dotbak configuration
type Config struct {
	// Path is where the config was loaded from and is saved to
	Path string `koanf:"-" toml:"-"`

	RepositoryURL    string `koanf:"repository_url" toml:"repository_url,omitempty"`
	DelayBetweenSync int    `koanf:"delay_between_sync" toml:"delay_between_sync"`
	Files            Files  `koanf:"files" toml:"files"`
}

// Default returns the embedded defaults, not bound to any path.
func Default() (*Config, error) {
	k, err := baseKoanf()
	if err != nil {
		return nil, err
	}
	return unmarshal(k, "")
}

// EnvPrefix marks environment variables that override config keys.
// DOTBAK_DELAY_BETWEEN_SYNC sets delay_between_sync, a double underscore
// separates sections: DOTBAK_FILES__EXCLUDE=a,b sets files.exclude.
const EnvPrefix = "DOTBAK_"

// Load reads the config at path on top of the embedded defaults. Lists in
// the file replace the default lists.
func Load(path string) (*Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides is Load followed by the environment and then the given
// key/value overrides ("delay_between_sync", "files.include", ...).
func LoadWithOverrides(path string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrConfigNotFound, "no config file at %s", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access %s", path).
			WithDetail("path", path)
	}

	k, err := baseKoanf()
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load %s", path).
			WithDetail("path", path)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg, err := unmarshal(k, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("path", path).
		Int("include", len(cfg.Files.Include)).
		Int("exclude", len(cfg.Files.Exclude)).
		Msg("Config loaded")
	return cfg, nil
}

// Create writes the default config to path. It fails if a config exists.
func Create(path string) (*Config, error) {
	if _, err := os.Lstat(path); err == nil {
		return nil, errors.Newf(errors.ErrConfigExists, "config file already exists at %s", path).
			WithDetail("path", path)
	}

	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	if err := cfg.Save(); err != nil {
		return nil, err
	}

	logger := logging.GetLogger("config")
	logger.Info().Str("path", path).Msg("Config created")
	return cfg, nil
}

// LoadOrCreate loads path, creating the defaults there first if needed.
func LoadOrCreate(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.IsErrorCode(err, errors.ErrConfigNotFound) {
		return Create(path)
	}
	return cfg, err
}

// Save writes the config to its path. A symlinked config file is written
// through, so the link stays in place.
func (c *Config) Save() error {
	if c.Path == "" {
		return errors.New(errors.ErrConfigSave, "config has no path")
	}
	data, err := gotoml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigSave, "failed to encode config")
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to create %s", filepath.Dir(c.Path)).
			WithDetail("path", c.Path)
	}
	if err := os.WriteFile(c.Path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to write %s", c.Path).
			WithDetail("path", c.Path)
	}
	logger := logging.GetLogger("config")
	logger.Debug().Str("path", c.Path).Msg("Config saved")
	return nil
}

// Delete removes the config file. A missing file is not an error.
func (c *Config) Delete() error {
	if err := os.Remove(c.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrDelete, "failed to delete %s", c.Path).
			WithDetail("path", c.Path)
	}
	return nil
}

// AddInclude appends entries not yet included and returns the ones added.
func (c *Config) AddInclude(entries ...string) []string {
	var added []string
	for _, e := range entries {
		e = patterns.Clean(e)
		if e == "" || slices.Contains(c.Files.Include, e) {
			continue
		}
		c.Files.Include = append(c.Files.Include, e)
		added = append(added, e)
	}
	return added
}

// RemoveInclude drops entries from the include list, keeping the order of
// the rest, and returns the ones removed.
func (c *Config) RemoveInclude(entries ...string) []string {
	drop := make(map[string]bool, len(entries))
	for _, e := range entries {
		drop[patterns.Clean(e)] = true
	}

	var removed, kept []string
	for _, inc := range c.Files.Include {
		if drop[patterns.Clean(inc)] {
			removed = append(removed, inc)
			continue
		}
		kept = append(kept, inc)
	}
	c.Files.Include = kept
	return removed
}

// SyncInterval is DelayBetweenSync as a duration.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.DelayBetweenSync) * time.Second
}

// Validate checks the pattern lists compile and the delay is positive.
func (c *Config) Validate() error {
	if _, err := patterns.NewSelector(c.Files.Include, c.Files.Exclude); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "invalid pattern in %s", c.Path).
			WithDetail("path", c.Path)
	}
	if c.DelayBetweenSync <= 0 {
		return errors.Newf(errors.ErrConfigLoad, "delay_between_sync must be positive, got %d", c.DelayBetweenSync).
			WithDetail("path", c.Path)
	}
	return nil
}

func baseKoanf() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load defaults")
	}
	return k, nil
}

// envKey maps DOTBAK_FILES__INCLUDE to files.include.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func unmarshal(k *koanf.Koanf, path string) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to decode config %s", path).
			WithDetail("path", path)
	}
	cfg.Path = path
	return &cfg, nil
}
