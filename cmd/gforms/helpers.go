package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/gforms"
	"github.com/aretw0/gforms/internal/answers"
	"github.com/aretw0/gforms/internal/config"
	"github.com/aretw0/gforms/internal/logging"
	"github.com/aretw0/gforms/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/gforms/pkg/adapters/redis"
	"github.com/aretw0/gforms/pkg/adapters/web"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/persistence/middleware"
	"github.com/aretw0/gforms/pkg/session"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// settings merges the config file with the flags that were set.
func settings(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if f := flags.Lookup("fill-optional"); f != nil && f.Changed {
		cfg.FillOptional, _ = flags.GetBool("fill-optional")
	}
	if f := flags.Lookup("emulate-history"); f != nil && f.Changed {
		cfg.EmulateHistory, _ = flags.GetBool("emulate-history")
	}
	if f := flags.Lookup("mean-delay"); f != nil && f.Changed {
		cfg.MeanDelay, _ = flags.GetDuration("mean-delay")
	}
	if f := flags.Lookup("redis"); f != nil && f.Changed {
		cfg.Redis.Addr, _ = flags.GetString("redis")
	}
	if f := flags.Lookup("metrics"); f != nil && f.Changed {
		cfg.Metrics.Addr, _ = flags.GetString("metrics")
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	name, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// loadForm fetches the form. Unanswered questions are filled by newFiller
// unless opts replace it.
func loadForm(ctx context.Context, rawURL string, cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks, opts ...gforms.Option) (*gforms.Form, error) {
	webOpts := []web.Option{web.WithTimeout(cfg.Timeout)}
	if cfg.UserAgent != "" {
		webOpts = append(webOpts, web.WithUserAgent(cfg.UserAgent))
	}
	form, err := gforms.Load(ctx, rawURL, append([]gforms.Option{
		gforms.WithHTTPClient(web.New(webOpts...)),
		gforms.WithLogger(logger),
		gforms.WithLifecycleHooks(hooks),
		gforms.WithDefaults(newFiller(nil).Value),
	}, opts...)...)
	if err != nil {
		return nil, err
	}
	for _, w := range form.Warnings() {
		logger.Warn("element decoded partially", "err", w)
	}
	return form, nil
}

// answerFile reads the --answers flag. Without it every element gets
// Default.
func answerFile(cmd *cobra.Command, cfg config.Config) (*answers.File, error) {
	path, _ := cmd.Flags().GetString("answers")
	f := &answers.File{}
	if path != "" {
		var err error
		if f, err = answers.Load(path); err != nil {
			return nil, err
		}
	}
	f.FillOptional = f.FillOptional || cfg.FillOptional
	return f, nil
}

// journal builds the submission journal: Redis when configured, in memory
// otherwise, wrapped by the masking and encryption middleware the config
// asks for. The returned func releases the Redis connection.
func journal(cfg config.Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	var mws []middleware.Middleware
	if len(cfg.Journal.Mask) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Journal.Mask)
		if err != nil {
			return nil, nil, fmt.Errorf("journal mask: %w", err)
		}
		mws = append(mws, pii)
	}
	active, fallback, err := cfg.Journal.Keys()
	if err != nil {
		return nil, nil, err
	}
	if active != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, enc)
	}

	if cfg.Redis.Addr == "" {
		store := middleware.Chain(memory.NewStore(), mws...)
		return session.NewManager(store, session.WithLogger(logger)), func() error { return nil }, nil
	}
	client := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
	var storeOpts []redisAdapter.Option
	if cfg.Redis.Prefix != "" {
		storeOpts = append(storeOpts, redisAdapter.WithPrefix(cfg.Redis.Prefix))
	}
	lockPrefix := cfg.Redis.Prefix
	if lockPrefix == "" {
		lockPrefix = "gforms:"
	}
	store := middleware.Chain(redisAdapter.NewFromClient(client, storeOpts...), mws...)
	mgr := session.NewManager(store,
		session.WithLocker(redisAdapter.NewLocker(client, lockPrefix+"lock:")),
		session.WithLogger(logger),
	)
	return mgr, client.Close, nil
}
