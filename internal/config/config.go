package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".savior"
	envPrefix  = "SAVIOR"

	KeyOperatorIDs        = "operators.ids"
	KeyController         = "operators.controller"
	KeyStoreBackend       = "store.backend"
	KeyStorePath          = "store.path"
	KeyGatewayURL         = "gateway.url"
	KeyGatewaySecretRef   = "gateway.secret_ref"
	KeyGatewayExchange    = "gateway.exchange"
	KeyGatewayQueue       = "gateway.inbound_queue"
	KeyGatewayInboundKey  = "gateway.inbound_key"
	KeyGatewayCommandKey  = "gateway.command_key"
	KeyGatewayTimeout     = "gateway.request_timeout"
	KeyGatewayPrefetch    = "gateway.prefetch"
	KeyGatewayPoolSize    = "gateway.publish_pool_size"
	KeyTransportTimeout   = "router.transport_timeout"
	KeyChunkSize          = "router.chunk_size"
	KeyReplyIndexCapacity = "router.reply_index_capacity"
	KeyFanoutConcurrency  = "router.fanout_concurrency"
	KeyMirrorReplies      = "router.mirror_replies"
	KeyBroadcastRate      = "broadcast.rate"
	KeyBroadcastBurst     = "broadcast.burst"
	KeyKeepaliveAddr      = "keepalive.addr"
	KeyKeepaliveEnabled   = "keepalive.enabled"
	KeyLogLevel           = "log.level"
	KeyLogFormat          = "log.format"

	BackendTOML = "toml"
	BackendBolt = "bolt"

	DefaultSecretRef = "savior/gateway/url"
)

type Config struct {
	// Dir holds the config file, the default directory store and file
	// credentials.
	Dir       string
	Operators OperatorsConfig
	Store     StoreConfig
	Gateway   GatewayConfig
	Router    RouterConfig
	Broadcast BroadcastConfig
	Keepalive KeepaliveConfig
	Log       LogConfig
}

type OperatorsConfig struct {
	IDs        []string
	Controller string
}

type StoreConfig struct {
	Backend string
	Path    string
}

type GatewayConfig struct {
	URL             string
	SecretRef       string
	Exchange        string
	InboundQueue    string
	InboundKey      string
	CommandKey      string
	RequestTimeout  time.Duration
	Prefetch        int
	PublishPoolSize int
}

type RouterConfig struct {
	TransportTimeout   time.Duration
	ChunkSize          int
	ReplyIndexCapacity int
	FanoutConcurrency  int
	MirrorReplies      bool
}

type BroadcastConfig struct {
	Rate  float64
	Burst int
}

type KeepaliveConfig struct {
	Addr    string
	Enabled bool
}

type LogConfig struct {
	Level  string
	Format string
}

// New prepares a viper instance reading dir/config.toml and SAVIOR_*
// environment overrides. A missing config file is not an error. An empty dir
// means ~/.savior.
func New(dir string) (*viper.Viper, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, configDir)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.Set("dir", dir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStoreBackend, BackendTOML)
	v.SetDefault(KeyGatewaySecretRef, DefaultSecretRef)
	v.SetDefault(KeyGatewayExchange, "savior.gateway")
	v.SetDefault(KeyGatewayQueue, "savior.inbound")
	v.SetDefault(KeyGatewayInboundKey, "gateway.inbound.#")
	v.SetDefault(KeyGatewayCommandKey, "gateway.command.v1")
	v.SetDefault(KeyGatewayTimeout, 10*time.Second)
	v.SetDefault(KeyGatewayPrefetch, 16)
	v.SetDefault(KeyGatewayPoolSize, 8)
	v.SetDefault(KeyTransportTimeout, 10*time.Second)
	v.SetDefault(KeyChunkSize, 3800)
	v.SetDefault(KeyReplyIndexCapacity, 500)
	v.SetDefault(KeyFanoutConcurrency, 8)
	v.SetDefault(KeyMirrorReplies, false)
	v.SetDefault(KeyBroadcastRate, 20.0)
	v.SetDefault(KeyBroadcastBurst, 1)
	v.SetDefault(KeyKeepaliveEnabled, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
}

// Load reads and normalises the configuration. It does not require
// operators; commands that route traffic check Roster separately.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("config source is nil")
	}

	cfg := Config{
		Dir: v.GetString("dir"),
		Operators: OperatorsConfig{
			IDs:        splitList(v.GetStringSlice(KeyOperatorIDs)),
			Controller: strings.TrimSpace(v.GetString(KeyController)),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreBackend))),
			Path:    strings.TrimSpace(v.GetString(KeyStorePath)),
		},
		Gateway: GatewayConfig{
			URL:             strings.TrimSpace(v.GetString(KeyGatewayURL)),
			SecretRef:       strings.TrimSpace(v.GetString(KeyGatewaySecretRef)),
			Exchange:        v.GetString(KeyGatewayExchange),
			InboundQueue:    v.GetString(KeyGatewayQueue),
			InboundKey:      v.GetString(KeyGatewayInboundKey),
			CommandKey:      v.GetString(KeyGatewayCommandKey),
			RequestTimeout:  v.GetDuration(KeyGatewayTimeout),
			Prefetch:        v.GetInt(KeyGatewayPrefetch),
			PublishPoolSize: v.GetInt(KeyGatewayPoolSize),
		},
		Router: RouterConfig{
			TransportTimeout:   v.GetDuration(KeyTransportTimeout),
			ChunkSize:          v.GetInt(KeyChunkSize),
			ReplyIndexCapacity: v.GetInt(KeyReplyIndexCapacity),
			FanoutConcurrency:  v.GetInt(KeyFanoutConcurrency),
			MirrorReplies:      v.GetBool(KeyMirrorReplies),
		},
		Broadcast: BroadcastConfig{
			Rate:  v.GetFloat64(KeyBroadcastRate),
			Burst: v.GetInt(KeyBroadcastBurst),
		},
		Keepalive: KeepaliveConfig{
			Addr:    keepaliveAddr(v.GetString(KeyKeepaliveAddr)),
			Enabled: v.GetBool(KeyKeepaliveEnabled),
		},
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		},
	}

	if err := cfg.normalise(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) normalise() error {
	c.Operators.IDs = dedupe(c.Operators.IDs)

	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.Dir, "directory."+c.Store.Backend)
	}
	path, err := expandHome(c.Store.Path)
	if err != nil {
		return err
	}
	if path, err = filepath.Abs(path); err != nil {
		return fmt.Errorf("resolve store path: %w", err)
	}
	c.Store.Path = filepath.Clean(path)

	return nil
}

func (c Config) validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendTOML, BackendBolt:
	default:
		errs = append(errs, fmt.Errorf("%s must be %q or %q, got %q", KeyStoreBackend, BackendTOML, BackendBolt, c.Store.Backend))
	}

	if c.Operators.Controller != "" && len(c.Operators.IDs) > 0 {
		if !NewRosterFrom(c.Operators).IsOperator(c.Operators.Controller) {
			errs = append(errs, fmt.Errorf("%s %q is not listed in %s", KeyController, c.Operators.Controller, KeyOperatorIDs))
		}
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("%s must be json or text, got %q", KeyLogFormat, c.Log.Format))
	}

	if c.Router.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyChunkSize))
	}
	if c.Broadcast.Rate < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyBroadcastRate))
	}

	return errors.Join(errs...)
}

// Roster returns the operator roster, failing when no operator is
// configured.
func (c Config) Roster() (domain.Roster, error) {
	roster := NewRosterFrom(c.Operators)
	if err := roster.Validate(); err != nil {
		return domain.Roster{}, fmt.Errorf("%s: %w", KeyOperatorIDs, err)
	}
	return roster, nil
}

func NewRosterFrom(ops OperatorsConfig) domain.Roster {
	return domain.NewRoster(ops.IDs, ops.Controller)
}

func (l LogConfig) SlogLevel() slog.Level {
	level, err := parseLevel(l.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	return level, nil
}

// splitList accepts both TOML arrays and comma separated environment values.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func keepaliveAddr(configured string) string {
	if addr := strings.TrimSpace(configured); addr != "" {
		return addr
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return ":" + port
	}
	return ":10000"
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
