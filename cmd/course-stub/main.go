package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pfrederiksen/gopher-golf/internal/api"
	"github.com/pfrederiksen/gopher-golf/internal/logger"
)

var (
	addr     = flag.String("addr", envOr("COURSE_STUB_ADDR", ":8081"), "Listen address (or env: COURSE_STUB_ADDR)")
	logLevel = flag.String("log-level", "info", "Log level: debug, info, warn or error")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	flag.Parse()

	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting course-data stub", logger.Fields{"addr": *addr})
	if err := api.Serve(ctx, *addr, api.NewStub()); err != nil {
		logger.Error("Stub server failed", logger.Fields{"addr": *addr}, err)
		os.Exit(1)
	}
}
