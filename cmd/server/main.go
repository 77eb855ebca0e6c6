package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"urbandesign/internal/adapter/denselog"
	httpadapter "urbandesign/internal/adapter/http"
	metricsinmem "urbandesign/internal/adapter/metrics/inmemory"
	"urbandesign/internal/adapter/policy"
	gormrepo "urbandesign/internal/adapter/repo/gorm"
	"urbandesign/internal/adapter/repo/memory"
	sqliterepo "urbandesign/internal/adapter/repo/sqlite"
	worldruntime "urbandesign/internal/adapter/world/runtime"
	"urbandesign/internal/app/build"
	"urbandesign/internal/app/episode"
	"urbandesign/internal/app/ports"
	"urbandesign/internal/app/replay"
	"urbandesign/internal/config"
	"urbandesign/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	catalog, err := world.DefaultCatalog().WithLocations(cfg.Locations)
	if err != nil {
		log.Fatalf("build landmark catalog: %v", err)
	}
	w, err := worldruntime.NewWorld(worldConfig(cfg, catalog))
	if err != nil {
		log.Fatalf("generate world: %v", err)
	}
	comp, err := build.New(cfg.Build, build.Deps{Grid: w, Agents: w, Catalog: catalog}, build.WithSeed(cfg.Seed))
	if err != nil {
		log.Fatalf("build component: %v", err)
	}

	history, txManager, closeRepo := mustBuildHistory(cfg)
	defer closeRepo()
	kpiRecorder := metricsinmem.NewRecorder()

	deps := episode.Deps{
		Component: comp,
		Agents:    w,
		Layout:    w,
		Policy:    policy.NewRandom(cfg.Seed+1, map[string]int{build.Name: 1}),
		History:   history,
		TxManager: txManager,
		Metrics:   kpiRecorder,
		Logger:    slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
	if cfg.DenseLogDir != "" {
		if err := os.MkdirAll(cfg.DenseLogDir, 0o755); err != nil {
			log.Fatalf("create dense log dir: %v", err)
		}
		deps.DenseLog = denselog.NewWriter(cfg.DenseLogDir)
	}
	runner, err := episode.NewRunner(deps, cfg.EpisodeLength)
	if err != nil {
		log.Fatalf("episode runner: %v", err)
	}
	defer runner.Close()
	if _, err := runner.Reset(context.Background()); err != nil {
		log.Fatalf("initial reset: %v", err)
	}

	h := httpadapter.Handler{
		Episode:  runner,
		ReplayUC: replay.UseCase{History: history},
		KPI:      kpiRecorder,
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	log.Printf("urbandesign server listening on %s (%dx%d world, %d agents, skill_dist=%s)",
		cfg.HTTPAddr, cfg.Rows(), cfg.Cols(), cfg.NAgents, comp.Config().SkillDist)
	s.Spin()
}

func worldConfig(cfg config.Config, catalog world.Catalog) worldruntime.Config {
	wc := worldruntime.DefaultConfig()
	wc.Rows = cfg.Rows()
	wc.Cols = cfg.Cols()
	wc.NAgents = cfg.NAgents
	wc.Seed = cfg.Seed
	wc.StartingInventory = cfg.StartingInventory
	wc.ResourceDensity = cfg.ResourceDensity
	wc.WaterDensity = cfg.WaterDensity
	wc.Catalog = catalog
	return wc
}

// mustBuildHistory prefers Postgres, then a local SQLite file, then memory.
func mustBuildHistory(cfg config.Config) (ports.BuildHistoryRepository, ports.TxManager, func()) {
	ctx := context.Background()
	switch {
	case cfg.DBDSN != "":
		db, err := gormrepo.OpenPostgres(cfg.DBDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := gormrepo.ApplyMigrations(ctx, db, gormrepo.Migrations()); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		return gormrepo.NewHistoryRepo(db), gormrepo.NewTxManager(db), func() {}
	case cfg.SQLitePath != "":
		store := sqliterepo.NewStore(cfg.SQLitePath)
		if err := store.Init(ctx); err != nil {
			log.Fatalf("open sqlite %s: %v", cfg.SQLitePath, err)
		}
		return store, nil, func() { _ = store.Close() }
	default:
		store := memory.NewStore()
		return memory.NewHistoryRepo(store), memory.NewTxManager(store), func() {}
	}
}

func resolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("URBAN_CONFIG")); p != "" {
		return p
	}
	if _, err := os.Stat("urban.yaml"); err == nil {
		return "urban.yaml"
	}
	return ""
}
