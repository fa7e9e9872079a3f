// Package skylark is the public facade over the evolution runtime: it wires
// a run-history store to the managed Aviary, registers the built-in worlds,
// and exposes request/response operations for drivers and the CLI.
package skylark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"skylark/internal/model"
	"skylark/internal/params"
	"skylark/internal/platform"
	"skylark/internal/sim"
	"skylark/internal/stats"
	"skylark/internal/storage"
)

const (
	defaultArtifactsDir = "artifacts"
	defaultDBPath       = "skylark.db"
	defaultWorld        = "meadow"
	defaultGenerations  = 15
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	Logger       *slog.Logger
}

type Client struct {
	store  storage.Store
	aviary *platform.Aviary

	artifactsDir string
}

// RunRequest parameterizes one evolution run. Unset fields default from the
// params file when one is given, then from the world preset.
type RunRequest struct {
	RunID      string
	World      string
	ParamsPath string

	Seed            int64
	Population      int
	FoodCount       int
	Generations     int
	GenerationSteps int

	MutationChance      float64
	MutationCoefficient float64
	FitnessGoal         float64

	WriteArtifacts bool
}

type RunSummary struct {
	RunID            string
	World            string
	ArtifactsDir     string
	BestByGeneration []float64
	FinalBestFitness float64
	Stopped          bool
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		aviary:       platform.NewAviary(platform.Config{Store: store, Logger: logger}),
		artifactsDir: artifactsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Start initializes the store and registers the built-in worlds. It is
// idempotent.
func (c *Client) Start(ctx context.Context) error {
	if err := c.aviary.Init(ctx); err != nil {
		return err
	}
	return registerDefaultWorlds(c.aviary)
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.Start(ctx); err != nil {
		return RunSummary{}, err
	}

	if req.ParamsPath != "" {
		fileParams, err := params.Load(req.ParamsPath)
		if err != nil {
			return RunSummary{}, err
		}
		req = mergeParams(req, fileParams)
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	if req.World == "" {
		req.World = defaultWorld
	}
	if req.Generations <= 0 {
		req.Generations = defaultGenerations
	}
	if req.MutationChance < 0 || req.MutationChance > 1 {
		return RunSummary{}, fmt.Errorf("mutation chance must be in [0,1], got %v", req.MutationChance)
	}
	if req.MutationCoefficient < 0 || req.MutationCoefficient > math.MaxFloat32 {
		return RunSummary{}, fmt.Errorf("mutation coefficient must be a non-negative float32, got %v", req.MutationCoefficient)
	}

	runCfg := platform.RunConfig{
		RunID:               req.RunID,
		World:               req.World,
		Seed:                req.Seed,
		PopulationSize:      req.Population,
		FoodCount:           req.FoodCount,
		Generations:         req.Generations,
		GenerationSteps:     req.GenerationSteps,
		MutationChance:      req.MutationChance,
		MutationCoefficient: req.MutationCoefficient,
		FitnessGoal:         req.FitnessGoal,
	}
	result, err := c.aviary.RunEvolution(ctx, runCfg)
	if err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		RunID:            req.RunID,
		World:            req.World,
		BestByGeneration: result.BestByGeneration,
		FinalBestFitness: result.FinalBestFitness,
		Stopped:          result.Stopped,
	}

	if req.WriteArtifacts {
		spec, ok := c.aviary.World(req.World)
		if !ok {
			return RunSummary{}, fmt.Errorf("unknown world: %s", req.World)
		}
		simCfg := appliedPreset(spec.Preset, runCfg)
		runDir, err := stats.WriteRunArtifacts(c.artifactsDir, platform.Artifacts(runCfg, simCfg, result))
		if err != nil {
			return RunSummary{}, fmt.Errorf("write artifacts: %w", err)
		}
		run, ok, err := c.store.GetRun(ctx, req.RunID)
		if err != nil {
			return RunSummary{}, err
		}
		if !ok {
			return RunSummary{}, fmt.Errorf("run %s was not persisted", req.RunID)
		}
		if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
			RunID:            req.RunID,
			World:            req.World,
			PopulationSize:   run.PopulationSize,
			Generations:      req.Generations,
			Seed:             req.Seed,
			FinalBestFitness: result.FinalBestFitness,
			CreatedAtUTC:     run.CreatedAtUTC,
		}); err != nil {
			return RunSummary{}, fmt.Errorf("append run index: %w", err)
		}
		summary.ArtifactsDir = runDir
	}

	return summary, nil
}

// Runs lists stored runs, newest first.
func (c *Client) Runs(ctx context.Context) ([]model.RunRecord, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return c.store.ListRuns(ctx)
}

func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]float64, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no fitness history for run %s", runID)
	}
	return history, nil
}

func (c *Client) Diagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no diagnostics for run %s", runID)
	}
	return diagnostics, nil
}

// Worlds lists registered world names.
func (c *Client) Worlds(ctx context.Context) ([]string, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return c.aviary.Worlds(), nil
}

func (c *Client) WorldSummary(ctx context.Context, name string) (model.WorldSummary, bool, error) {
	if err := c.Start(ctx); err != nil {
		return model.WorldSummary{}, false, err
	}
	return c.store.GetWorldSummary(ctx, name)
}

// ExportArtifacts copies a run's artifacts directory to outDir.
func (c *Client) ExportArtifacts(ctx context.Context, runID, outDir string) (ExportSummary, error) {
	if err := c.Start(ctx); err != nil {
		return ExportSummary{}, err
	}
	dst, err := stats.ExportRunArtifacts(c.artifactsDir, runID, outDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: dst}, nil
}

// mergeParams fills unset request fields from a params file. Explicit request
// values win.
func mergeParams(req RunRequest, p params.RunParams) RunRequest {
	if req.World == "" {
		req.World = p.World
	}
	if req.Seed == 0 {
		req.Seed = p.Seed
	}
	if req.Population == 0 {
		req.Population = p.Population
	}
	if req.FoodCount == 0 {
		req.FoodCount = p.FoodCount
	}
	if req.Generations == 0 {
		req.Generations = p.Generations
	}
	if req.GenerationSteps == 0 {
		req.GenerationSteps = p.GenerationSteps
	}
	if req.MutationChance == 0 {
		req.MutationChance = p.MutationChance
	}
	if req.MutationCoefficient == 0 {
		req.MutationCoefficient = p.MutationCoefficient
	}
	if req.FitnessGoal == 0 {
		req.FitnessGoal = p.FitnessGoal
	}
	return req
}

// appliedPreset mirrors the override logic the aviary applies, so artifacts
// record the settings the run actually used.
func appliedPreset(preset sim.Config, cfg platform.RunConfig) sim.Config {
	if cfg.PopulationSize > 0 {
		preset.Creatures = cfg.PopulationSize
	}
	if cfg.FoodCount > 0 {
		preset.Foods = cfg.FoodCount
	}
	if cfg.GenerationSteps > 0 {
		preset.GenerationSteps = cfg.GenerationSteps
	}
	if cfg.MutationChance > 0 {
		preset.MutationChance = cfg.MutationChance
	}
	if cfg.MutationCoefficient > 0 {
		preset.MutationCoefficient = float32(cfg.MutationCoefficient)
	}
	return preset
}

// registerDefaultWorlds installs the built-in world presets. Registration is
// idempotent across Start calls because duplicates are skipped by name.
func registerDefaultWorlds(aviary *platform.Aviary) error {
	worlds := []platform.WorldSpec{
		{
			Name:        "meadow",
			Description: "open foraging grounds with default densities",
			Preset:      sim.DefaultConfig(),
		},
		{
			Name:        "scrubland",
			Description: "sparse food, long generations",
			Preset:      scrublandPreset(),
		},
		{
			Name:        "glasshouse",
			Description: "dense food, short generations, fast mutation",
			Preset:      glasshousePreset(),
		},
	}
	registered := aviary.Worlds()
	known := make(map[string]bool, len(registered))
	for _, name := range registered {
		known[name] = true
	}
	for _, spec := range worlds {
		if known[spec.Name] {
			continue
		}
		if err := aviary.RegisterWorld(spec); err != nil {
			return err
		}
	}
	return nil
}

func scrublandPreset() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Foods = 20
	cfg.GenerationSteps = 4000
	cfg.FOVRange = 0.35
	return cfg
}

func glasshousePreset() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Foods = 120
	cfg.GenerationSteps = 1000
	cfg.MutationChance = 0.05
	cfg.MutationCoefficient = 0.5
	return cfg
}
