package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"skylark/internal/stats"
	"skylark/internal/storage"
	skyapi "skylark/pkg/skylark"
)

const exportsDir = "exports"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "start":
		return runStart(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "worlds":
		return runWorlds(ctx, args[1:])
	case "world-summary":
		return runWorldSummary(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func newClient(storeKind, dbPath, artifactsDir string) (*skyapi.Client, error) {
	return skyapi.New(skyapi.Options{
		StoreKind:    storeKind,
		DBPath:       dbPath,
		ArtifactsDir: artifactsDir,
	})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "skylark.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, "artifacts")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Start(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runStart(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "skylark.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, "artifacts")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Start(ctx); err != nil {
		return err
	}

	worlds, err := client.Worlds(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("started store=%s worlds=%v\n", *storeKind, worlds)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	paramsPath := fs.String("params", "", "optional run params INI path")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	world := fs.String("world", "", "world name (default: meadow)")
	seed := fs.Int64("seed", 1, "rng seed")
	population := fs.Int("pop", 0, "population size (0 uses world preset)")
	foodCount := fs.Int("food", 0, "food count (0 uses world preset)")
	generations := fs.Int("gens", 0, "generation count (0 uses default)")
	generationSteps := fs.Int("gen-steps", 0, "steps per generation (0 uses world preset)")
	mutationChance := fs.Float64("mutation-chance", 0, "per-gene mutation probability (0 uses world preset)")
	mutationCoefficient := fs.Float64("mutation-coefficient", 0, "mutation magnitude coefficient (0 uses world preset)")
	fitnessGoal := fs.Float64("fitness-goal", 0, "early-stop best fitness goal (0 disables)")
	noArtifacts := fs.Bool("no-artifacts", false, "skip writing run artifacts")
	artifactsDir := fs.String("artifacts-dir", "artifacts", "artifacts base directory")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "skylark.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, *artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, skyapi.RunRequest{
		RunID:               *runID,
		World:               *world,
		ParamsPath:          *paramsPath,
		Seed:                *seed,
		Population:          *population,
		FoodCount:           *foodCount,
		Generations:         *generations,
		GenerationSteps:     *generationSteps,
		MutationChance:      *mutationChance,
		MutationCoefficient: *mutationCoefficient,
		FitnessGoal:         *fitnessGoal,
		WriteArtifacts:      !*noArtifacts,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run completed run_id=%s world=%s seed=%d stopped=%t\n", summary.RunID, summary.World, *seed, summary.Stopped)
	for i, best := range summary.BestByGeneration {
		fmt.Printf("generation=%d best_fitness=%.6f\n", i+1, best)
	}
	fmt.Printf("final_best_fitness=%.6f\n", summary.FinalBestFitness)
	if summary.ArtifactsDir != "" {
		fmt.Printf("artifacts_dir=%s\n", filepath.Clean(summary.ArtifactsDir))
	}
	return nil
}

func runRuns(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	artifactsDir := fs.String("artifacts-dir", "artifacts", "artifacts base directory")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	entries, err := stats.ListRunIndex(*artifactsDir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(entries) > *limit {
		entries = entries[:*limit]
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	for _, e := range entries {
		fmt.Printf("run_id=%s created_at=%s world=%s seed=%d pop=%d gens=%d final_best_fitness=%.6f\n",
			e.RunID,
			e.CreatedAtUTC,
			e.World,
			e.Seed,
			e.PopulationSize,
			e.Generations,
			e.FinalBestFitness,
		)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show fitness history for the most recent run from run index")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit fitness history as JSON")
	artifactsDir := fs.String("artifacts-dir", "artifacts", "artifacts base directory")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "skylark.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := resolveRunID(*runID, *latest, *artifactsDir, "fitness")
	if err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, *artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, id)
	if err != nil {
		return err
	}
	if *limit > 0 && len(history) > *limit {
		history = history[:*limit]
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}
	for i, best := range history {
		fmt.Printf("generation=%d best_fitness=%.6f\n", i+1, best)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show diagnostics for the most recent run from run index")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	artifactsDir := fs.String("artifacts-dir", "artifacts", "artifacts base directory")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "skylark.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := resolveRunID(*runID, *latest, *artifactsDir, "diagnostics")
	if err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, *artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, id)
	if err != nil {
		return err
	}
	if *limit > 0 && len(diagnostics) > *limit {
		diagnostics = diagnostics[:*limit]
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diagnostics)
	}
	for _, d := range diagnostics {
		fmt.Printf("generation=%d best=%.6f mean=%.6f median=%.6f min=%.6f std_dev=%.6f\n",
			d.Generation,
			d.Best,
			d.Mean,
			d.Median,
			d.Min,
			d.StdDev,
		)
	}
	return nil
}

func runWorlds(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("worlds", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "skylark.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, "artifacts")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	worlds, err := client.Worlds(ctx)
	if err != nil {
		return err
	}
	for _, name := range worlds {
		fmt.Printf("world=%s\n", name)
	}
	return nil
}

func runWorldSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("world-summary", flag.ContinueOnError)
	world := fs.String("world", "", "world name")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "skylark.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *world == "" {
		return errors.New("world-summary requires --world")
	}

	client, err := newClient(*storeKind, *dbPath, "artifacts")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, ok, err := client.WorldSummary(ctx, *world)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no summary recorded for world %s", *world)
	}
	fmt.Printf("world=%s best_fitness=%.6f description=%s\n",
		summary.Name,
		summary.BestFitness,
		summary.Description,
	)
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run from run index")
	outDir := fs.String("out", exportsDir, "export output directory")
	artifactsDir := fs.String("artifacts-dir", "artifacts", "artifacts base directory")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "skylark.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := resolveRunID(*runID, *latest, *artifactsDir, "export")
	if err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, *artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	export, err := client.ExportArtifacts(ctx, id, *outDir)
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s to=%s\n", export.RunID, filepath.Clean(export.Directory))
	return nil
}

// resolveRunID maps the --run-id/--latest flag pair onto a concrete run id.
func resolveRunID(runID string, latest bool, artifactsDir, command string) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either --run-id or --latest, not both")
	}
	if runID == "" && !latest {
		return "", fmt.Errorf("%s requires --run-id or --latest", command)
	}
	if runID != "" {
		return runID, nil
	}
	entries, err := stats.ListRunIndex(artifactsDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no runs recorded in run index")
	}
	return entries[0].RunID, nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: skylarkctl <init|start|run|runs|fitness|diagnostics|worlds|world-summary|export> [flags]", msg)
}
