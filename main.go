package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"liftsim/config"
	"liftsim/fsm"
	"liftsim/logger"
	"liftsim/network"
	"liftsim/panel"
	"liftsim/timer"
)

var Log = logger.GetLogger()

func main() {
	configPath := flag.String("config", "", "YAML config file")
	envPath := flag.String("env", ".env", "dotenv file, ignored when missing")
	listen := flag.String("listen", "", "address the dispatch server listens on")
	connect := flag.String("connect", "", "run a keyboard panel against this server address instead of serving")
	floors := flag.Int("floors", 0, "number of floors")
	cars := flag.Int("cars", 0, "number of cars")
	logLevel := flag.String("loglevel", "", "debug, info, warn or error")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	if *floors != 0 {
		cfg.FloorCount = *floors
	}
	if *cars != 0 {
		cfg.CarCount = *cars
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.GetLoggerConfigured(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *connect != "" {
		err = runPanel(ctx, *connect, cfg)
	} else {
		err = runServer(ctx, cfg)
	}
	if err != nil {
		Log.Error().Err(err).Msg("Exiting")
		stop()
		os.Exit(1)
	}
}

func loadConfig(configPath, envPath string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnvFile(envPath); err != nil {
		return cfg, err
	}
	if cfg.EnsureName() {
		Log.Debug().Msgf("No building name configured, using %q", cfg.Name)
	}
	return cfg, nil
}

func runServer(ctx context.Context, cfg config.Config) error {
	srv := network.NewServer(cfg)
	if err := srv.Listen(); err != nil {
		return err
	}
	ctrl, err := fsm.New(cfg, timer.Real(), srv)
	if err != nil {
		return err
	}
	Log.Info().Msgf("Dispatch server %q started", cfg.Name)
	return srv.Serve(ctx, ctrl)
}

func runPanel(ctx context.Context, addr string, cfg config.Config) error {
	client, err := network.Dial(addr, cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return panel.Run(ctx, client, cfg, os.Stdout)
}
