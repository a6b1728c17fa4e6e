package sim

import "github.com/san-kum/swing/internal/dynamo"

type Metric interface {
	Name() string
	Observe(s dynamo.State, step int)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s dynamo.State, step int)
}

type Config struct {
	Steps int
	// ValidateState stops a headless run at the first non-finite state.
	ValidateState bool
	// Record keeps every state in the result.
	Record bool
}

func DefaultConfig() Config {
	return Config{
		Steps:         600,
		ValidateState: true,
		Record:        true,
	}
}
