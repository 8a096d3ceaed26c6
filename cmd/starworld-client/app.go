package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MayaTheShy/Starworld/pkg/auth"
	"github.com/MayaTheShy/Starworld/pkg/client"
	"github.com/MayaTheShy/Starworld/pkg/config"
	"github.com/MayaTheShy/Starworld/pkg/observability"
	"github.com/MayaTheShy/Starworld/pkg/protocol"
	"github.com/MayaTheShy/Starworld/pkg/scene"
	"github.com/MayaTheShy/Starworld/pkg/session"
)

const tickInterval = 10 * time.Millisecond

// run is the main entry point after CLI parsing.
func run(opts Options) int {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if opts.Host != "" {
		cfg.Domain.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Domain.Port = uint16(opts.Port)
	}

	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	zap.L().Info("starworld-client started", zap.String("app", cfg.AppName))
	zap.L().Info("effective configuration", zap.Any("config", cfg))

	c := client.New(cfg.Domain, cfg.Client, protocol.NewVersionTable(), auth.FromEnv())

	snapshotPath := cfg.Client.SnapshotFile
	if snapshotPath != "" && !filepath.IsAbs(snapshotPath) {
		snapshotPath = filepath.Join(cfg.DataDir, snapshotPath)
	}
	c.LoadSnapshot(snapshotPath)

	if err := c.Connect(cfg.Domain.Host, cfg.Domain.Port); err != nil {
		zap.L().Error("failed to reach domain", zap.Error(err))
		return 1
	}
	defer c.Close()

	pump := scene.NewPump(c.Repository(), newLogSink())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.Tick(now)
			pump.Tick()
			if c.State() == session.StateDenied {
				zap.L().Error("domain denied the connection; giving up",
					zap.String("reason", c.LastDenialReason()))
				return 1
			}
		case <-sigs:
			zap.L().Info("shutting down")
			if err := c.SaveSnapshot(snapshotPath); err != nil {
				zap.L().Warn("save snapshot", zap.Error(err))
			}
			return 0
		}
	}
}
