package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"SkillHub/internal/cli/commands"
	"SkillHub/internal/config"
)

// Заполняются при сборке: -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion(os.Stdout, cfg)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exitCode := commands.Dispatch(ctx, cfg, flag.Args())
	cancel()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func printVersion(w io.Writer, cfg *config.Config) {
	v := version
	if v == "dev" {
		// go install без ldflags: берём версию модуля
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	fmt.Fprintf(w, "SkillHub CLI\nVersion: %s\nBuild date: %s\nServer: %s\nToken file: %s\n", v, buildDate, cfg.ServerURL, cfg.TokenFile)
}
