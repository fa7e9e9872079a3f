package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is the persisted summary of one evolution run. Genomes and
// network weights are never stored; a run is described by its parameters and
// its scalar outcome only.
type RunRecord struct {
	VersionedRecord
	ID                  string  `json:"id"`
	World               string  `json:"world"`
	Seed                int64   `json:"seed"`
	PopulationSize      int     `json:"population_size"`
	Generations         int     `json:"generations"`
	GenerationSteps     int     `json:"generation_steps"`
	MutationChance      float64 `json:"mutation_chance"`
	MutationCoefficient float64 `json:"mutation_coefficient"`
	FitnessGoal         float64 `json:"fitness_goal"`
	FinalBestFitness    float64 `json:"final_best_fitness"`
	CreatedAtUTC        string  `json:"created_at_utc"`
}

// GenerationDiagnostics summarizes the fitness distribution of one
// generation.
type GenerationDiagnostics struct {
	Generation int     `json:"generation"`
	Best       float64 `json:"best"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	Min        float64 `json:"min"`
	StdDev     float64 `json:"std_dev"`
}

// WorldSummary describes a registered simulation world and the best fitness
// any run has reached on it.
type WorldSummary struct {
	VersionedRecord
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BestFitness float64 `json:"best_fitness"`
}
