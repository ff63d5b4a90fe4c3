// avatar-sim runs a small world of animated avatars: one locally controlled
// character on an autopilot and several scripted remote puppets, with the
// web dashboard for inspecting them and triggering expressions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-avatar/internal/config"
	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/animator"
	"github.com/teslashibe/go-avatar/pkg/sim"
	"github.com/teslashibe/go-avatar/pkg/web"
)

type options struct {
	logLevel   string
	configPath string
	port       string
	puppets    int
	rate       time.Duration
	noWeb      bool
}

func main() {
	opts := parseFlags()
	log.Init(opts.logLevel)

	if err := run(opts); err != nil {
		log.Error("avatar-sim failed", "error", err)
		os.Exit(1)
	}
}

// parseFlags parses command line flags. Flags override the environment.
func parseFlags() options {
	opts := options{}

	flag.StringVar(&opts.logLevel, "log-level", config.LogLevel(), "Log level: debug, info, warn, error")
	flag.StringVar(&opts.configPath, "config", config.ConfigPath(), "YAML tuning file (overrides AVATAR_CONFIG)")
	flag.StringVar(&opts.port, "port", config.WebPort(), "Dashboard port (overrides WEB_PORT)")
	flag.IntVar(&opts.puppets, "puppets", sim.DefaultOptions().Puppets, "Number of remote avatars")
	flag.DurationVar(&opts.rate, "rate", sim.DefaultOptions().Rate, "Frame interval")
	flag.BoolVar(&opts.noWeb, "no-web", false, "Run without the dashboard")
	flag.Parse()

	return opts
}

func run(opts options) error {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	policy, ok, err := config.VariantPolicy()
	if err != nil {
		return err
	}
	if ok {
		settings.Animator.VariantPolicy = policy
	}

	simOpts := sim.DefaultOptions()
	simOpts.Puppets = opts.puppets
	simOpts.Rate = opts.rate

	var server *web.Server
	if !opts.noWeb {
		server = web.NewServer(opts.port, settings.Catalog)
		simOpts.Observer = func(t animator.Transition) {
			server.PublishTransition(t)
		}
	}

	world, err := sim.New(settings, simOpts)
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	defer world.Close()

	if server != nil {
		for _, a := range world.Avatars() {
			server.AddAvatar(a.Controller)
		}
		server.StartAsync()
		defer server.Shutdown()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("avatar-sim started",
		"avatars", len(world.Avatars()),
		"variant_policy", settings.Animator.VariantPolicy,
		"dashboard", !opts.noWeb,
	)
	world.Run(ctx)
	log.Info("avatar-sim stopped", "frames", world.Frames())
	return nil
}
