package sim

import (
	"fmt"
	"math"
	"math/rand"

	"skylark/pkg/genetic"
	"skylark/pkg/neural"
)

// Creature is one population member: a pose in the world, an evolved brain,
// and a count of food eaten this generation.
type Creature struct {
	X        float32
	Y        float32
	Rotation float32
	Speed    float32
	Eaten    int

	genome genetic.Genome
	brain  *neural.Network
}

// Genome returns the creature's genome, the flattened brain weights it was
// grown from.
func (c *Creature) Genome() genetic.Genome {
	return c.genome
}

// randomCreature grows a creature with a freshly initialized brain; its
// genome is the brain's flattened weights so evolution starts from the same
// values the creature behaves with.
func randomCreature(rng *rand.Rand, cfg Config) (*Creature, error) {
	brain, err := neural.NewNetwork(rng, cfg.topology())
	if err != nil {
		return nil, err
	}
	c := &Creature{
		genome: genetic.NewGenome(brain.Weights()),
		brain:  brain,
	}
	c.spawn(rng, cfg)
	return c, nil
}

// creatureFromGenome grows a creature by decoding genome into brain weights.
// The genome length must match the brain topology.
func creatureFromGenome(rng *rand.Rand, cfg Config, genome genetic.Genome) (*Creature, error) {
	brain, err := neural.NewNetworkFromWeights(cfg.topology(), genome.Genes())
	if err != nil {
		return nil, fmt.Errorf("decode genome into brain: %w", err)
	}
	c := &Creature{
		genome: genome.Clone(),
		brain:  brain,
	}
	c.spawn(rng, cfg)
	return c, nil
}

func (c *Creature) spawn(rng *rand.Rand, cfg Config) {
	c.X = rng.Float32()
	c.Y = rng.Float32()
	c.Rotation = normalizeAngle(rng.Float32() * 2 * math.Pi)
	c.Speed = (cfg.SpeedMin + cfg.SpeedMax) / 2
	c.Eaten = 0
}

// steer runs the brain over the current vision and applies the resulting
// speed and rotation deltas, then moves the creature one step. The two brain
// outputs are folded into signed deltas: both high means accelerate, an
// imbalance means turn toward the stronger side.
func (c *Creature) steer(cfg Config, eye Eye, foods []Food) error {
	vision := eye.Vision(c.X, c.Y, c.Rotation, foods)
	outputs, err := c.brain.Evaluate(vision)
	if err != nil {
		return err
	}

	r0 := clamp(outputs[0], 0, 1) - 0.5
	r1 := clamp(outputs[1], 0, 1) - 0.5
	dSpeed := clamp(r0+r1, -cfg.SpeedAccel, cfg.SpeedAccel)
	dRotation := clamp(r0-r1, -cfg.RotationAccel, cfg.RotationAccel)

	c.Speed = clamp(c.Speed+dSpeed, cfg.SpeedMin, cfg.SpeedMax)
	c.Rotation = normalizeAngle(c.Rotation + dRotation)
	c.X = wrapCoordinate(c.X + float32(math.Cos(float64(c.Rotation)))*c.Speed)
	c.Y = wrapCoordinate(c.Y + float32(math.Sin(float64(c.Rotation)))*c.Speed)
	return nil
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
