package physics

const (
	// DefaultFixedTimestep is the canonical 60 Hz simulation rate.
	DefaultFixedTimestep = 1.0 / 60.0
	// DefaultMaxStepsPerFrame bounds the sub-steps one frame may run before
	// the accumulator is clamped.
	DefaultMaxStepsPerFrame = 8

	defaultVelocityIterations = 6
	defaultPositionIterations = 2

	defaultGravityY = -9.8
)

// Config holds the driver's tunables. All fields have working defaults from
// DefaultConfig; a zero Config is not valid.
type Config struct {
	FixedTimestep    float64
	MaxStepsPerFrame int
	Interpolation    bool

	VelocityIterations int
	PositionIterations int

	GravityX float64
	GravityY float64
}

func DefaultConfig() Config {
	return Config{
		FixedTimestep:      DefaultFixedTimestep,
		MaxStepsPerFrame:   DefaultMaxStepsPerFrame,
		Interpolation:      true,
		VelocityIterations: defaultVelocityIterations,
		PositionIterations: defaultPositionIterations,
		GravityY:           defaultGravityY,
	}
}
