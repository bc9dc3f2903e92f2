package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/l1jgo/entitas/internal/component"
	"github.com/l1jgo/entitas/internal/config"
	"github.com/l1jgo/entitas/internal/core/ecs"
	"github.com/l1jgo/entitas/internal/core/event"
	coresys "github.com/l1jgo/entitas/internal/core/system"
	"github.com/l1jgo/entitas/internal/data"
	"github.com/l1jgo/entitas/internal/logging"
	"github.com/l1jgo/entitas/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", os.Getenv("ECSDEMO_CONFIG"), "TOML config file (defaults when empty)")
	frames := flag.Int("frames", -1, "override runner.frames")
	profMode := flag.String("profile", "", "override profile.mode (cpu or mem)")
	flag.Parse()

	// 1. Load config
	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if *frames >= 0 {
		cfg.Runner.Frames = *frames
	}
	if *profMode != "" {
		cfg.Profile.Mode = *profMode
	}

	// 2. Init logger
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Optional profiling
	switch cfg.Profile.Mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook).Stop()
	}

	// 4. Create pools sharing one component registry
	registry := ecs.NewComponentRegistry()
	bus := event.NewBus()
	pools := make(map[string]*ecs.Pool, len(cfg.Engine.Pools))
	for _, name := range cfg.Engine.Pools {
		pools[name] = ecs.NewPool(registry,
			ecs.WithName(name),
			ecs.WithCapacity(cfg.Engine.InitialCapacity),
			ecs.WithLogger(log),
			ecs.WithBus(bus),
		)
	}
	subscribeLifecycle(bus, log)

	// 5. Populate from the scene file
	if cfg.Scene.Path != "" {
		scene, err := data.LoadScene(cfg.Scene.Path)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		n, err := scene.Spawn(pools, component.SceneTable())
		if err != nil {
			return err
		}
		log.Info("scene loaded", zap.String("path", cfg.Scene.Path), zap.Int("entities", n))
	}

	// 6. Compose systems
	logic, ok := pools["logic"]
	if !ok {
		logic = pools[cfg.Engine.Pools[0]]
	}
	root := buildSystems(logic, log)

	// 7. Run
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := coresys.NewRunner(root, bus, log)
	defer runner.Teardown()
	if err := runner.Run(ctx, cfg.Runner.TickRate, cfg.Runner.Frames); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run: %w", err)
	}
	for _, name := range cfg.Engine.Pools {
		p := pools[name]
		log.Info("pool summary",
			zap.String("pool", name),
			zap.Int("entities", p.Count()),
			zap.Int("groups", len(p.Groups())),
			zap.Int("reusable", p.ReusableCount()))
	}
	return nil
}

// buildSystems lays systems out as features of containers under one root.
func buildSystems(p *ecs.Pool, log *zap.Logger) *coresys.Container {
	input := coresys.NewContainer("input")
	input.Add(ecs.CreateSystem(p, system.NewSpawnSystem(log)))
	input.Add(ecs.CreateSystem(p, system.NewAuditSystem(log)))

	logic := coresys.NewContainer("logic")
	logic.Add(ecs.CreateSystem(p, system.NewSeedSystem(log)))
	logic.Add(ecs.CreateSystem(p, system.NewReplenishSystem(3, log)))
	logic.Add(ecs.CreateSystem(p, system.NewCountSystem(log)))
	logic.Add(ecs.CreateSystem(p, system.NewMovementSystem()))
	logic.Add(ecs.CreateSystem(p, system.NewDecaySystem()))
	logic.Add(ecs.CreateSystem(p, system.NewExpireSystem(log)))
	logic.Add(ecs.CreateSystem(p, system.NewCleanupSystem(log)))

	root := coresys.NewContainer("game")
	root.Add(coresys.NewContainer("input-feature").Add(input))
	root.Add(coresys.NewContainer("logic-feature").Add(logic))
	root.Add(coresys.NewContainer("view-feature"))
	return root
}

func subscribeLifecycle(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(ev ecs.GroupCreated) {
		log.Debug("group created", zap.Stringer("pool_id", ev.Pool), zap.String("matcher", ev.Matcher), zap.Int("count", ev.Count))
	})
	event.Subscribe(bus, func(ev ecs.EntityCreated) {
		log.Debug("entity created", zap.Stringer("pool_id", ev.Pool), zap.Stringer("entity", ev.Entity))
	})
	event.Subscribe(bus, func(ev ecs.EntityDestroyed) {
		log.Debug("entity destroyed", zap.Stringer("pool_id", ev.Pool), zap.Stringer("entity", ev.Entity))
	})
}
