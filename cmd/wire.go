package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abdallah-zarea/savior-bot/internal/adapters/credentials/chain"
	gateway "github.com/abdallah-zarea/savior-bot/internal/adapters/gateway/amqp"
	statsadapter "github.com/abdallah-zarea/savior-bot/internal/adapters/render/stats"
	boltrepo "github.com/abdallah-zarea/savior-bot/internal/adapters/repo/bolt"
	tomlrepo "github.com/abdallah-zarea/savior-bot/internal/adapters/repo/toml"
	"github.com/abdallah-zarea/savior-bot/internal/application"
	"github.com/abdallah-zarea/savior-bot/internal/config"
	"github.com/abdallah-zarea/savior-bot/internal/ports"
)

var errNoGatewayURL = errors.New("gateway url not configured: set gateway.url or store one with `savior gateway credential set`")

type gatewayClient interface {
	gateway.Caller
	Run(ctx context.Context, handler ports.InboundHandler) error
	Close()
}

type app struct {
	cfg           config.Config
	store         ports.DirectoryStore
	credentials   ports.CredentialStore
	clock         ports.Clock
	statsRenderer func(application.Stats, statsadapter.RenderOptions) (string, error)
	dialGateway   func(ctx context.Context, cfg gateway.Config, logger *slog.Logger) (gatewayClient, error)
	httpClient    *http.Client
	now           func() time.Time
}

func wireApp() (*app, error) {
	v, err := config.New("")
	if err != nil {
		return nil, fmt.Errorf("wire config: %w", err)
	}

	return wireAppFrom(v)
}

func wireAppFrom(v *viper.Viper) (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("wire directory store: %w", err)
	}

	credentials, err := chain.NewPassFirst(filepath.Join(cfg.Dir, "credentials"))
	if err != nil {
		return nil, fmt.Errorf("wire credential chain: %w", err)
	}

	return &app{
		cfg:           cfg,
		store:         store,
		credentials:   credentials,
		clock:         ports.SystemClock{},
		statsRenderer: statsadapter.Render,
		dialGateway: func(ctx context.Context, cfg gateway.Config, logger *slog.Logger) (gatewayClient, error) {
			return gateway.Dial(ctx, cfg, logger)
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}, nil
}

func openStore(cfg config.StoreConfig) (ports.DirectoryStore, error) {
	switch cfg.Backend {
	case config.BackendBolt:
		return boltrepo.NewRepository(cfg.Path)
	default:
		return tomlrepo.NewRepository(cfg.Path)
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func (a *app) gatewayConfig(ctx context.Context) (gateway.Config, error) {
	url := a.cfg.Gateway.URL
	if url == "" && a.cfg.Gateway.SecretRef != "" {
		resolved, err := a.credentials.Get(ctx, a.cfg.Gateway.SecretRef)
		if err != nil {
			return gateway.Config{}, fmt.Errorf("%w: %v", errNoGatewayURL, err)
		}
		url = strings.TrimSpace(resolved)
	}
	if url == "" {
		return gateway.Config{}, errNoGatewayURL
	}

	return gateway.Config{
		URL:             url,
		Exchange:        a.cfg.Gateway.Exchange,
		InboundQueue:    a.cfg.Gateway.InboundQueue,
		InboundKey:      a.cfg.Gateway.InboundKey,
		CommandKey:      a.cfg.Gateway.CommandKey,
		RequestTimeout:  a.cfg.Gateway.RequestTimeout,
		Prefetch:        a.cfg.Gateway.Prefetch,
		PublishPoolSize: a.cfg.Gateway.PublishPoolSize,
	}, nil
}

func (a *app) connectGateway(ctx context.Context, logger *slog.Logger) (gatewayClient, error) {
	cfg, err := a.gatewayConfig(ctx)
	if err != nil {
		return nil, err
	}

	client, err := a.dialGateway(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect gateway: %w", err)
	}
	return client, nil
}

func (a *app) routerConfig() (application.RouterConfig, error) {
	roster, err := a.cfg.Roster()
	if err != nil {
		return application.RouterConfig{}, err
	}

	return application.RouterConfig{
		Roster:            roster,
		TransportTimeout:  a.cfg.Router.TransportTimeout,
		ChunkSize:         a.cfg.Router.ChunkSize,
		ReplyIndexSize:    a.cfg.Router.ReplyIndexCapacity,
		FanoutConcurrency: a.cfg.Router.FanoutConcurrency,
		MirrorReplies:     a.cfg.Router.MirrorReplies,
		BroadcastRate:     a.cfg.Broadcast.Rate,
		BroadcastBurst:    a.cfg.Broadcast.Burst,
	}, nil
}

func (a *app) directory(ctx context.Context, logger *slog.Logger) *application.Directory {
	return application.NewDirectory(ctx, a.store, a.clock, logger)
}
