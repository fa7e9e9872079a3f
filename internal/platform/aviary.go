// Package platform hosts the managed runtime for evolution runs: a store,
// a registry of simulation worlds, and the generation loop that drives the
// simulation, persists its outputs, and honors pause/continue/stop control.
package platform

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"skylark/internal/model"
	"skylark/internal/sim"
	"skylark/internal/stats"
	"skylark/internal/storage"
)

// Command steers a running evolution between generations.
type Command string

const (
	CommandPause    Command = "pause"
	CommandContinue Command = "continue"
	CommandStop     Command = "stop"
)

type Config struct {
	Store  storage.Store
	Logger *slog.Logger
}

// WorldSpec is a registered world: a name, a simulation preset, and a human
// description for listings.
type WorldSpec struct {
	Name        string
	Description string
	Preset      sim.Config
}

// RunConfig parameterizes one evolution run. Zero values for the numeric
// overrides keep the world preset's settings.
type RunConfig struct {
	RunID string
	World string
	Seed  int64

	PopulationSize  int
	FoodCount       int
	Generations     int
	GenerationSteps int

	MutationChance      float64
	MutationCoefficient float64

	// FitnessGoal > 0 stops the run early once a generation's best fitness
	// reaches it.
	FitnessGoal float64

	// Control, when non-nil, is polled between generations.
	Control chan Command
}

type RunResult struct {
	BestByGeneration      []float64
	GenerationDiagnostics []model.GenerationDiagnostics
	FinalBestFitness      float64
	Stopped               bool
}

// Aviary is the managed runtime. It owns the store and the world registry
// and runs evolutions sequentially.
type Aviary struct {
	store  storage.Store
	logger *slog.Logger

	mu      sync.RWMutex
	worlds  map[string]WorldSpec
	started bool
}

func NewAviary(cfg Config) *Aviary {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Aviary{
		store:  cfg.Store,
		logger: logger,
		worlds: make(map[string]WorldSpec),
	}
}

func (a *Aviary) Init(ctx context.Context) error {
	if a.store == nil {
		return fmt.Errorf("store is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return nil
	}
	if err := a.store.Init(ctx); err != nil {
		return err
	}
	a.started = true
	return nil
}

func (a *Aviary) Started() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.started
}

func (a *Aviary) RegisterWorld(spec WorldSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("world name is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.worlds[spec.Name]; exists {
		return fmt.Errorf("duplicate world: %s", spec.Name)
	}
	a.worlds[spec.Name] = spec
	return nil
}

// Worlds lists registered world names in sorted order.
func (a *Aviary) Worlds() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.worlds))
	for name := range a.worlds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *Aviary) World(name string) (WorldSpec, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	spec, ok := a.worlds[name]
	return spec, ok
}

// RunEvolution runs one evolution to completion and persists its outputs.
// The loop is sequential: context and control commands are checked between
// generations, never inside one.
func (a *Aviary) RunEvolution(ctx context.Context, cfg RunConfig) (RunResult, error) {
	if !a.Started() {
		return RunResult{}, fmt.Errorf("aviary is not initialized")
	}
	if cfg.RunID == "" {
		return RunResult{}, fmt.Errorf("run id is required")
	}
	if cfg.Generations <= 0 {
		return RunResult{}, fmt.Errorf("generation count must be > 0, got %d", cfg.Generations)
	}
	spec, ok := a.World(cfg.World)
	if !ok {
		return RunResult{}, fmt.Errorf("unknown world: %s", cfg.World)
	}

	simCfg := spec.Preset
	if cfg.PopulationSize > 0 {
		simCfg.Creatures = cfg.PopulationSize
	}
	if cfg.FoodCount > 0 {
		simCfg.Foods = cfg.FoodCount
	}
	if cfg.GenerationSteps > 0 {
		simCfg.GenerationSteps = cfg.GenerationSteps
	}
	if cfg.MutationChance > 0 {
		simCfg.MutationChance = cfg.MutationChance
	}
	if cfg.MutationCoefficient > 0 {
		simCfg.MutationCoefficient = float32(cfg.MutationCoefficient)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	simulation, err := sim.New(rng, simCfg)
	if err != nil {
		return RunResult{}, fmt.Errorf("build world %s: %w", cfg.World, err)
	}

	a.logger.Info("run started",
		"run_id", cfg.RunID,
		"world", cfg.World,
		"seed", cfg.Seed,
		"population", simCfg.Creatures,
		"generations", cfg.Generations,
	)

	result := RunResult{
		BestByGeneration:      make([]float64, 0, cfg.Generations),
		GenerationDiagnostics: make([]model.GenerationDiagnostics, 0, cfg.Generations),
	}

	for generation := 1; generation <= cfg.Generations; generation++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		stop, err := a.checkControl(ctx, cfg.Control)
		if err != nil {
			return RunResult{}, err
		}
		if stop {
			result.Stopped = true
			break
		}

		diagnostics, err := simulation.Train(rng)
		if err != nil {
			return RunResult{}, fmt.Errorf("generation %d: %w", generation, err)
		}
		result.BestByGeneration = append(result.BestByGeneration, diagnostics.Best)
		result.GenerationDiagnostics = append(result.GenerationDiagnostics, diagnostics)
		if diagnostics.Best > result.FinalBestFitness {
			result.FinalBestFitness = diagnostics.Best
		}

		a.logger.Info("generation finished",
			"run_id", cfg.RunID,
			"generation", diagnostics.Generation,
			"best", diagnostics.Best,
			"mean", diagnostics.Mean,
		)

		if cfg.FitnessGoal > 0 && diagnostics.Best >= cfg.FitnessGoal {
			a.logger.Info("fitness goal reached", "run_id", cfg.RunID, "goal", cfg.FitnessGoal)
			break
		}
	}

	if err := a.persistRun(ctx, cfg, simCfg, result); err != nil {
		return RunResult{}, err
	}
	return result, nil
}

// checkControl drains the control channel without blocking; a pause blocks
// until a continue or stop arrives.
func (a *Aviary) checkControl(ctx context.Context, control chan Command) (bool, error) {
	if control == nil {
		return false, nil
	}

	select {
	case command := <-control:
		switch command {
		case CommandStop:
			return true, nil
		case CommandPause:
			for {
				select {
				case next := <-control:
					if next == CommandStop {
						return true, nil
					}
					if next == CommandContinue {
						return false, nil
					}
				case <-ctx.Done():
					return false, ctx.Err()
				}
			}
		case CommandContinue:
			return false, nil
		default:
			return false, fmt.Errorf("unknown control command: %s", command)
		}
	default:
		return false, nil
	}
}

func (a *Aviary) persistRun(ctx context.Context, cfg RunConfig, simCfg sim.Config, result RunResult) error {
	record := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:                  cfg.RunID,
		World:               cfg.World,
		Seed:                cfg.Seed,
		PopulationSize:      simCfg.Creatures,
		Generations:         cfg.Generations,
		GenerationSteps:     simCfg.GenerationSteps,
		MutationChance:      simCfg.MutationChance,
		MutationCoefficient: float64(simCfg.MutationCoefficient),
		FitnessGoal:         cfg.FitnessGoal,
		FinalBestFitness:    result.FinalBestFitness,
		CreatedAtUTC:        time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.store.SaveRun(ctx, record); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := a.store.SaveFitnessHistory(ctx, cfg.RunID, result.BestByGeneration); err != nil {
		return fmt.Errorf("save fitness history: %w", err)
	}
	if err := a.store.SaveGenerationDiagnostics(ctx, cfg.RunID, result.GenerationDiagnostics); err != nil {
		return fmt.Errorf("save generation diagnostics: %w", err)
	}

	spec, _ := a.World(cfg.World)
	summary, found, err := a.store.GetWorldSummary(ctx, cfg.World)
	if err != nil {
		return fmt.Errorf("get world summary: %w", err)
	}
	if !found {
		summary = model.WorldSummary{
			VersionedRecord: model.VersionedRecord{
				SchemaVersion: storage.CurrentSchemaVersion,
				CodecVersion:  storage.CurrentCodecVersion,
			},
			Name:        cfg.World,
			Description: spec.Description,
		}
	}
	if result.FinalBestFitness > summary.BestFitness {
		summary.BestFitness = result.FinalBestFitness
	}
	if err := a.store.SaveWorldSummary(ctx, summary); err != nil {
		return fmt.Errorf("save world summary: %w", err)
	}
	return nil
}

// Artifacts assembles exportable artifacts for a finished run.
func Artifacts(cfg RunConfig, simCfg sim.Config, result RunResult) stats.RunArtifacts {
	return stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:               cfg.RunID,
			World:               cfg.World,
			Seed:                cfg.Seed,
			PopulationSize:      simCfg.Creatures,
			FoodCount:           simCfg.Foods,
			Generations:         cfg.Generations,
			GenerationSteps:     simCfg.GenerationSteps,
			MutationChance:      simCfg.MutationChance,
			MutationCoefficient: float64(simCfg.MutationCoefficient),
			FitnessGoal:         cfg.FitnessGoal,
		},
		BestByGeneration:      result.BestByGeneration,
		GenerationDiagnostics: result.GenerationDiagnostics,
		FinalBestFitness:      result.FinalBestFitness,
	}
}
