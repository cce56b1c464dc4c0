package preprocessing

// Feature-type keys the preprocessing schemas are registered under.
const (
	SequenceKey       = "sequence"
	SequenceOutputKey = "sequence_output"
)

// Missing value strategies understood by the imputer.
const (
	FillWithConst = "fill_with_const"
	FillWithMode  = "fill_with_mode"
	FillWithMean  = "fill_with_mean"
	FillWithFalse = "fill_with_false"
	BackFill      = "bfill"
	ForwardFill   = "ffill"
	DropRow       = "drop_row"
)

// MissingValueStrategyOptions is the closed set accepted by missing_value_strategy.
var MissingValueStrategyOptions = []string{
	FillWithConst,
	FillWithMode,
	FillWithMean,
	FillWithFalse,
	BackFill,
	ForwardFill,
	DropRow,
}

const (
	PaddingLeft  = "left"
	PaddingRight = "right"
)

var PaddingOptions = []string{PaddingLeft, PaddingRight}
