package indicator

import "github.com/rxtech-lab/argo-crossover/internal/types"

// Indicator interface defines methods that any series indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config configures the indicator parameters
	Config(params ...any) error
	// Compute returns one value per series index, None where the indicator is not defined yet
	Compute(series types.Series) (types.SmaSeries, error)
}
