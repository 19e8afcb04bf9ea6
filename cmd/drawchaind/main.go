package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cometbft/cometbft/abci/server"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/ap-arnab/DrawChain/internal/app"
	"github.com/ap-arnab/DrawChain/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to drawchain.toml (flags override file values)")
		home       = flag.String("home", "", "app home directory (state is stored under <home>/app)")
		addr       = flag.String("addr", "", "ABCI listen address")
		transport  = flag.String("transport", "", "ABCI transport (socket|grpc)")
	)
	flag.Parse()

	logger := cmtlog.NewTMLogger(os.Stdout)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	if *home != "" {
		cfg.Home = *home
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *transport != "" {
		cfg.Transport = *transport
	}

	authorityKey, err := cfg.AuthorityKeyBytes()
	if err != nil {
		logger.Error("authority config", "err", err)
		os.Exit(1)
	}

	a, err := app.New(cfg.Home, app.Config{
		DeckSize:     cfg.DeckSize,
		Authority:    cfg.Authority,
		AuthorityKey: authorityKey,
	})
	if err != nil {
		logger.Error("init app", "err", err)
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg.ListenAddr, cfg.Transport, a)
	if err != nil {
		logger.Error("create abci server", "err", err)
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("start abci server", "err", err)
		os.Exit(1)
	}
	defer func() { _ = srv.Stop() }()

	logger.Info("drawchaind listening",
		"addr", cfg.ListenAddr,
		"transport", cfg.Transport,
		"home", cfg.Home,
		"deck_size", cfg.DeckSize,
		"authority", cfg.Authority,
		"authority_pubkey", fmt.Sprintf("%x", authorityKey),
	)

	// Wait for signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")
}
