package inspection

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned when a model is built from parameters
// outside their domain.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Config holds the construction parameters of a Model.
type Config struct {
	// Height and Width give the number of candidate sites, Height x Width.
	Height int
	Width  int

	// Density is the chance that a site holds an establishment.
	Density float64
}

// Validate checks that the parameters can build a model.
func (c Config) Validate() error {
	if c.Height <= 0 {
		return fmt.Errorf("%w: height must be positive, got %d",
			ErrInvalidConfiguration, c.Height)
	}

	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d",
			ErrInvalidConfiguration, c.Width)
	}

	if math.IsNaN(c.Density) || c.Density < 0 || c.Density > 1 {
		return fmt.Errorf("%w: density must be within [0, 1], got %g",
			ErrInvalidConfiguration, c.Density)
	}

	return nil
}
