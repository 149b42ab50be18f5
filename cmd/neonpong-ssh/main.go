package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diegok/neonpong/internal/config"
	"github.com/diegok/neonpong/internal/logging"
	"github.com/diegok/neonpong/internal/server"
)

func main() {
	cfg, err := config.ParseServerArgs(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.ServerConfig) error {
	logger, err := logging.New(os.Stderr, cfg.LogLevel, "neonpong-ssh")
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	showServerInfo(cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down", "sessions", len(srv.Sessions()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  neonpong-ssh [options]           Host games over SSH")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  --config <file>     TOML config file")
	fmt.Fprintln(os.Stderr, "  --host <addr>       Listen address (default: ::)")
	fmt.Fprintln(os.Stderr, "  --port <port>       Listen port (default: 2222)")
	fmt.Fprintln(os.Stderr, "  --host-key <path>   Host key, generated if missing")
	fmt.Fprintln(os.Stderr, "  --points <n>        Points to win (default: 7)")
	fmt.Fprintln(os.Stderr, "  --max-sessions <n>  Concurrent players, 0 for no limit")
	fmt.Fprintln(os.Stderr, "  --log-level <lvl>   debug, info, warn or error (default: info)")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment:")
	fmt.Fprintf(os.Stderr, "  %s, %s, %s\n", config.EnvSSHHost, config.EnvSSHPort, config.EnvSSHHostKey)
}

func showServerInfo(port int) {
	fmt.Printf("Neon Pong SSH server on port %d\n", port)
	fmt.Println("Players can connect using:")
	fmt.Println("")

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		fmt.Printf("  ssh -t -p %d localhost\n", port)
		return
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}

		ip := ipNet.IP
		if ip.IsLoopback() || ip.To4() == nil {
			continue
		}

		fmt.Printf("  ssh -t -p %d %s\n", port, ip.String())
	}

	fmt.Printf("  ssh -t -p %d localhost  (same machine)\n", port)
	fmt.Println("")
	fmt.Println("Press Ctrl+C to stop the server")
	fmt.Println("")
}
