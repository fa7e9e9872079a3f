package sim

import (
	"fmt"
	"math"
	"math/rand"

	"skylark/internal/model"
	"skylark/internal/stats"
	"skylark/pkg/genetic"
)

// Config describes one world: its population and food density, the length of
// a generation in steps, the creatures' senses and movement limits, and the
// mutation parameters used when breeding.
type Config struct {
	Creatures       int
	Foods           int
	GenerationSteps int

	MutationChance      float64
	MutationCoefficient float32

	EyeCells int
	FOVRange float32
	FOVAngle float32

	SpeedMin      float32
	SpeedMax      float32
	SpeedAccel    float32
	RotationAccel float32

	// FoodSize is the eating radius in world units.
	FoodSize float32
}

// DefaultConfig returns the meadow world parameters.
func DefaultConfig() Config {
	return Config{
		Creatures:           40,
		Foods:               60,
		GenerationSteps:     2500,
		MutationChance:      0.01,
		MutationCoefficient: 0.3,
		EyeCells:            9,
		FOVRange:            0.25,
		FOVAngle:            math.Pi + math.Pi/4,
		SpeedMin:            0.001,
		SpeedMax:            0.005,
		SpeedAccel:          0.2,
		RotationAccel:       math.Pi / 32,
		FoodSize:            0.01,
	}
}

func (c Config) validate() error {
	if c.Creatures <= 0 {
		return fmt.Errorf("creature count must be > 0, got %d", c.Creatures)
	}
	if c.Foods <= 0 {
		return fmt.Errorf("food count must be > 0, got %d", c.Foods)
	}
	if c.GenerationSteps <= 0 {
		return fmt.Errorf("generation steps must be > 0, got %d", c.GenerationSteps)
	}
	if c.SpeedMin <= 0 || c.SpeedMax < c.SpeedMin {
		return fmt.Errorf("speed range must satisfy 0 < min <= max, got [%v, %v]", c.SpeedMin, c.SpeedMax)
	}
	if c.FoodSize <= 0 {
		return fmt.Errorf("food size must be > 0, got %v", c.FoodSize)
	}
	if _, err := NewEye(c.FOVRange, c.FOVAngle, c.EyeCells); err != nil {
		return err
	}
	return nil
}

// topology is the brain shape: one input per retina cell, a hidden layer
// twice as wide, and two steering outputs.
func (c Config) topology() []int {
	return []int{c.EyeCells, 2 * c.EyeCells, 2}
}

func (c Config) eye() Eye {
	return Eye{FOVRange: c.FOVRange, FOVAngle: c.FOVAngle, Cells: c.EyeCells}
}

// individual adapts a creature's outcome to the genetic engine's capability
// set. Creatures themselves stay out of the engine: only fitness and genome
// cross the boundary, and bred individuals are grown back into creatures by
// the simulation.
type individual struct {
	fitness float64
	genome  genetic.Genome
}

func (i individual) Fitness() float64 {
	return i.fitness
}

func (i individual) Genome() genetic.Genome {
	return i.genome
}

func (i individual) Create(genome genetic.Genome) individual {
	return individual{genome: genome}
}

// Simulation owns one world and breeds its population at the end of every
// generation. It is single-threaded; each call advances the world using only
// the supplied random source, so identical seeds reproduce identical runs.
type Simulation struct {
	cfg    Config
	eye    Eye
	engine *genetic.Engine[individual]

	creatures  []*Creature
	foods      []Food
	age        int
	generation int
}

// New builds a world with randomly placed creatures and food.
func New(rng *rand.Rand, cfg Config) (*Simulation, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mutation, err := genetic.NewGaussianMutation(cfg.MutationChance, cfg.MutationCoefficient)
	if err != nil {
		return nil, err
	}
	engine, err := genetic.NewEngine[individual](genetic.RouletteSelection[individual]{}, genetic.UniformCrossover{}, mutation)
	if err != nil {
		return nil, err
	}

	creatures := make([]*Creature, 0, cfg.Creatures)
	for i := 0; i < cfg.Creatures; i++ {
		c, err := randomCreature(rng, cfg)
		if err != nil {
			return nil, err
		}
		creatures = append(creatures, c)
	}

	foods := make([]Food, cfg.Foods)
	for i := range foods {
		foods[i] = Food{X: rng.Float32(), Y: rng.Float32()}
	}

	return &Simulation{
		cfg:       cfg,
		eye:       cfg.eye(),
		engine:    engine,
		creatures: creatures,
		foods:     foods,
	}, nil
}

// Step advances the world by one tick: every creature senses, thinks, and
// moves, then eats any food within reach (eaten food respawns). When the
// tick completes a generation the population is bred and the finished
// generation's diagnostics are returned; otherwise the result is nil.
func (s *Simulation) Step(rng *rand.Rand) (*model.GenerationDiagnostics, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}

	for _, c := range s.creatures {
		if err := c.steer(s.cfg, s.eye, s.foods); err != nil {
			return nil, err
		}
	}
	s.feed(rng)

	s.age++
	if s.age < s.cfg.GenerationSteps {
		return nil, nil
	}

	diagnostics, err := s.evolve(rng)
	if err != nil {
		return nil, err
	}
	return &diagnostics, nil
}

// Train fast-forwards to the end of the current generation and returns its
// diagnostics.
func (s *Simulation) Train(rng *rand.Rand) (model.GenerationDiagnostics, error) {
	for {
		diagnostics, err := s.Step(rng)
		if err != nil {
			return model.GenerationDiagnostics{}, err
		}
		if diagnostics != nil {
			return *diagnostics, nil
		}
	}
}

// Generation reports how many generations have been bred.
func (s *Simulation) Generation() int {
	return s.generation
}

// Age reports the step count within the current generation.
func (s *Simulation) Age() int {
	return s.age
}

// Creatures returns the live population. Callers must treat it as read-only.
func (s *Simulation) Creatures() []*Creature {
	return s.creatures
}

// Foods returns the current food positions. Callers must treat the slice as
// read-only.
func (s *Simulation) Foods() []Food {
	return s.foods
}

func (s *Simulation) feed(rng *rand.Rand) {
	for _, c := range s.creatures {
		for i := range s.foods {
			dx := wrapDelta(s.foods[i].X - c.X)
			dy := wrapDelta(s.foods[i].Y - c.Y)
			if float32(math.Hypot(float64(dx), float64(dy))) > s.cfg.FoodSize {
				continue
			}
			c.Eaten++
			s.foods[i] = Food{X: rng.Float32(), Y: rng.Float32()}
		}
	}
}

func (s *Simulation) evolve(rng *rand.Rand) (model.GenerationDiagnostics, error) {
	fitnesses := make([]float64, len(s.creatures))
	total := 0.0
	for i, c := range s.creatures {
		fitnesses[i] = float64(c.Eaten)
		total += fitnesses[i]
	}

	population := make([]individual, len(s.creatures))
	for i, c := range s.creatures {
		weight := fitnesses[i]
		if total == 0 {
			// Nobody ate: fall back to uniform selection instead of
			// failing the roulette's positive-total precondition.
			weight = 1
		}
		population[i] = individual{fitness: weight, genome: c.genome}
	}

	next, err := s.engine.Evolve(rng, population)
	if err != nil {
		return model.GenerationDiagnostics{}, fmt.Errorf("breed generation %d: %w", s.generation+1, err)
	}

	creatures := make([]*Creature, len(next))
	for i, bred := range next {
		c, err := creatureFromGenome(rng, s.cfg, bred.Genome())
		if err != nil {
			return model.GenerationDiagnostics{}, err
		}
		creatures[i] = c
	}

	diagnostics, err := stats.Summarize(s.generation+1, fitnesses)
	if err != nil {
		return model.GenerationDiagnostics{}, err
	}

	s.creatures = creatures
	s.generation++
	s.age = 0
	return diagnostics, nil
}
