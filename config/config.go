// Package config loads the server's TOML configuration.
package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-glowstone/crypt"
	"badc0de.net/pkg/go-glowstone/nbt"
)

// EnvPrefix starts the name of every environment override. The rest of
// the name is the key in upper case, e.g. GLOWSTONE_MAX_PLAYERS.
const EnvPrefix = "GLOWSTONE_"

type Config struct {
	ListenAddress      string `toml:"listen_address"`
	DebugListenAddress string `toml:"debug_listen_address"`
	MOTD               string `toml:"motd"`
	// Favicon is an image file shown next to the server in client lists.
	Favicon        string `toml:"favicon"`
	MaxPlayers     int    `toml:"max_players"`
	MaxConnections int    `toml:"max_connections"`

	Encryption bool   `toml:"encryption"`
	Cipher     string `toml:"cipher"`
	KeyBits    int    `toml:"key_bits"`
	// KeyFile holds the server's RSA key. Empty means a new key every start.
	KeyFile string `toml:"key_file"`

	ReadTimeoutSeconds  int `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `toml:"write_timeout_seconds"`
	KeepAliveSeconds    int `toml:"keep_alive_seconds"`
	OutboundQueue       int `toml:"outbound_queue"`

	WorldDir string `toml:"world_dir"`
	// WorldCompression is "gzip", "lz4" or "none".
	WorldCompression  string `toml:"world_compression"`
	ChunkCacheMinutes int    `toml:"chunk_cache_minutes"`
	ViewDistance      int    `toml:"view_distance"`
}

func Default() Config {
	return Config{
		ListenAddress:       ":25565",
		MOTD:                "A Glowstone server",
		MaxPlayers:          20,
		MaxConnections:      100,
		Encryption:          true,
		Cipher:              "aes",
		KeyBits:             1024,
		ReadTimeoutSeconds:  30,
		WriteTimeoutSeconds: 10,
		KeepAliveSeconds:    15,
		OutboundQueue:       256,
		WorldCompression:    "gzip",
		ChunkCacheMinutes:   5,
		ViewDistance:        3,
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, errors.Wrapf(err, "parsing %s", path)
		}
		for _, key := range md.Undecoded() {
			glog.Warningf("%s: unknown key %q", path, key.String())
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("toml")
		name := EnvPrefix + strings.ToUpper(key)
		val, ok := lookup(name)
		if !ok {
			continue
		}
		f := v.Field(i)
		switch f.Kind() {
		case reflect.String:
			f.SetString(val)
		case reflect.Int:
			n, err := strconv.Atoi(val)
			if err != nil {
				return errors.Wrapf(err, "%s", name)
			}
			f.SetInt(int64(n))
		case reflect.Bool:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return errors.Wrapf(err, "%s", name)
			}
			f.SetBool(b)
		}
		glog.V(1).Infof("config: %s set from %s", key, name)
	}
	return nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	known := false
	for _, a := range crypt.Algorithms {
		if c.Cipher == a {
			known = true
		}
	}
	switch {
	case c.ListenAddress == "":
		return errors.New("listen_address is empty")
	case !known:
		return errors.Errorf("cipher %q is not one of %v", c.Cipher, crypt.Algorithms)
	case c.KeyBits < 512:
		return errors.Errorf("key_bits %d is too small", c.KeyBits)
	case c.MaxPlayers < 0 || c.MaxPlayers > 255:
		return errors.Errorf("max_players %d out of range", c.MaxPlayers)
	case c.ViewDistance < 1 || c.ViewDistance > 15:
		return errors.Errorf("view_distance %d out of range", c.ViewDistance)
	case c.MaxConnections < 0, c.OutboundQueue < 0, c.ReadTimeoutSeconds < 0, c.WriteTimeoutSeconds < 0, c.KeepAliveSeconds < 0, c.ChunkCacheMinutes < 0:
		return errors.New("negative limit")
	}
	if _, err := nbt.ParseCompression(c.WorldCompression); err != nil {
		return errors.Wrap(err, "world_compression")
	}
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (c Config) ReadTimeout() time.Duration  { return seconds(c.ReadTimeoutSeconds) }
func (c Config) KeepAlive() time.Duration    { return seconds(c.KeepAliveSeconds) }
func (c Config) WriteTimeout() time.Duration { return seconds(c.WriteTimeoutSeconds) }

func (c Config) ChunkCacheTTL() time.Duration {
	return time.Duration(c.ChunkCacheMinutes) * time.Minute
}
