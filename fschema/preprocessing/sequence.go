// Package preprocessing declares the preprocessing options of each feature type.
package preprocessing

import (
	"fmt"

	internal "github.com/ZanzyTHEbar/featureschema/fschema"
	"github.com/ZanzyTHEbar/featureschema/fschema/registry"
	"github.com/ZanzyTHEbar/featureschema/fschema/schema"

	"github.com/go-viper/mapstructure/v2"
)

// Option names of the sequence schemas.
const (
	OptTokenizer            = "tokenizer"
	OptVocabFile            = "vocab_file"
	OptMaxSequenceLength    = "max_sequence_length"
	OptMostCommon           = "most_common"
	OptPaddingSymbol        = "padding_symbol"
	OptUnknownSymbol        = "unknown_symbol"
	OptPadding              = "padding"
	OptLowercase            = "lowercase"
	OptMissingValueStrategy = "missing_value_strategy"
	OptFillValue            = "fill_value"
	OptComputedFillValue    = "computed_fill_value"
)

func sequenceFields() []schema.Field {
	return []schema.Field{
		{
			Name:        OptTokenizer,
			Kind:        schema.String,
			Default:     "space",
			Description: "Defines how to map from the raw string content of the dataset column to a sequence of elements.",
		},
		{
			Name:      OptVocabFile,
			Kind:      schema.String,
			Default:   nil,
			AllowNone: true,
			Description: "Filepath string to a UTF-8 encoded file containing the sequence's vocabulary. " +
				"On each line the first string until \\t or \\n is considered a word.",
		},
		{
			Name:    OptMaxSequenceLength,
			Kind:    schema.PositiveInteger,
			Default: 256,
			Description: "The maximum length (number of tokens) of the text. Texts that are longer than this " +
				"value will be truncated, while texts that are shorter will be padded.",
		},
		{
			Name:    OptMostCommon,
			Kind:    schema.PositiveInteger,
			Default: 20000,
			Description: "The maximum number of most common tokens in the vocabulary. If the data contains more " +
				"than this amount, the most infrequent symbols will be treated as unknown.",
		},
		{
			Name:        OptPaddingSymbol,
			Kind:        schema.String,
			Default:     internal.PaddingSymbol,
			Description: "The string used as a padding symbol. This special token is mapped to the integer ID 0 in the vocabulary.",
		},
		{
			Name:        OptUnknownSymbol,
			Kind:        schema.String,
			Default:     internal.UnknownSymbol,
			Description: "The string used as an unknown placeholder. This special token is mapped to the integer ID 1 in the vocabulary.",
		},
		{
			Name:        OptPadding,
			Kind:        schema.StringOptions,
			Options:     PaddingOptions,
			Default:     PaddingRight,
			Description: "The direction of the padding. right and left are available options.",
		},
		{
			Name:        OptLowercase,
			Kind:        schema.Boolean,
			Default:     false,
			Description: "If true, converts the string to lowercase before tokenizing.",
		},
		{
			Name:        OptMissingValueStrategy,
			Kind:        schema.StringOptions,
			Options:     MissingValueStrategyOptions,
			Default:     FillWithConst,
			Description: "What strategy to follow when there's a missing value in a text column.",
		},
		{
			Name:        OptFillValue,
			Kind:        schema.String,
			Default:     internal.UnknownSymbol,
			Description: "The value to replace missing values with in case the missing_value_strategy is fill_with_const.",
		},
		{
			Name:     OptComputedFillValue,
			Kind:     schema.String,
			Default:  internal.UnknownSymbol,
			Internal: true,
			Description: "The internally computed fill value to replace missing values with in case the " +
				"missing_value_strategy is fill_with_mode or fill_with_mean.",
		},
	}
}

// distinctReservedSymbols keeps ids 0 and 1 from collapsing onto one symbol.
func distinctReservedSymbols(v schema.Values) *schema.FieldError {
	if v[OptPaddingSymbol] != v[OptUnknownSymbol] {
		return nil
	}
	return &schema.FieldError{
		Field: OptUnknownSymbol,
		Value: v[OptUnknownSymbol],
		Err:   fmt.Errorf("%w: must differ from %s", schema.ErrConflict, OptPaddingSymbol),
	}
}

var (
	sequenceSchema = mustBuild(schema.New(SequenceKey, sequenceFields()...)).WithChecks(distinctReservedSymbols)

	sequenceOutputSchema = mustBuild(sequenceSchema.Derive(SequenceOutputKey, schema.Field{
		Name:        OptMissingValueStrategy,
		Kind:        schema.StringOptions,
		Options:     MissingValueStrategyOptions,
		Default:     DropRow,
		Description: "What strategy to follow when there's a missing value in a sequence output feature.",
	}))
)

func mustBuild(s *schema.Schema, err error) *schema.Schema {
	if err != nil {
		panic(err)
	}
	return s
}

// SequenceSchema is the preprocessing schema of sequence input features.
func SequenceSchema() *schema.Schema { return sequenceSchema }

// SequenceOutputSchema is SequenceSchema with rows dropped on missing values,
// since output features cannot be imputed.
func SequenceOutputSchema() *schema.Schema { return sequenceOutputSchema }

// Register adds the sequence schemas to reg.
func Register(reg *registry.Registry) error {
	if err := reg.Register(SequenceKey, sequenceSchema); err != nil {
		return err
	}
	return reg.Register(SequenceOutputKey, sequenceOutputSchema)
}

// SequenceConfig is the validated preprocessing configuration of a sequence feature.
// Treat it as read-only once parsed; only Runtime is written afterwards.
type SequenceConfig struct {
	Tokenizer            string  `mapstructure:"tokenizer" json:"tokenizer" yaml:"tokenizer"`
	VocabFile            *string `mapstructure:"vocab_file" json:"vocab_file" yaml:"vocab_file"`
	MaxSequenceLength    int     `mapstructure:"max_sequence_length" json:"max_sequence_length" yaml:"max_sequence_length"`
	MostCommon           int     `mapstructure:"most_common" json:"most_common" yaml:"most_common"`
	PaddingSymbol        string  `mapstructure:"padding_symbol" json:"padding_symbol" yaml:"padding_symbol"`
	UnknownSymbol        string  `mapstructure:"unknown_symbol" json:"unknown_symbol" yaml:"unknown_symbol"`
	Padding              string  `mapstructure:"padding" json:"padding" yaml:"padding"`
	Lowercase            bool    `mapstructure:"lowercase" json:"lowercase" yaml:"lowercase"`
	MissingValueStrategy string  `mapstructure:"missing_value_strategy" json:"missing_value_strategy" yaml:"missing_value_strategy"`
	FillValue            string  `mapstructure:"fill_value" json:"fill_value" yaml:"fill_value"`

	Runtime Runtime `mapstructure:"-" json:"-" yaml:"-"`
}

// Runtime holds values computed from the training data after configuration time.
type Runtime struct {
	// ComputedFillValue replaces missing values under fill_with_mode / fill_with_mean.
	ComputedFillValue string
}

// NewSequenceConfig returns the defaults of a sequence input feature.
func NewSequenceConfig() *SequenceConfig {
	cfg, err := FromValues(sequenceSchema.Defaults())
	if err != nil {
		panic(err)
	}
	return cfg
}

// NewSequenceOutputConfig returns the defaults of a sequence output feature.
func NewSequenceOutputConfig() *SequenceConfig {
	cfg, err := FromValues(sequenceOutputSchema.Defaults())
	if err != nil {
		panic(err)
	}
	return cfg
}

// ParseSequence validates raw against s (one of the sequence schemas) and
// decodes the result.
func ParseSequence(s *schema.Schema, raw map[string]any) (*SequenceConfig, error) {
	values, err := s.Validate(raw)
	if err != nil {
		return nil, err
	}
	return FromValues(values)
}

// FromValues decodes already validated values.
func FromValues(values schema.Values) (*SequenceConfig, error) {
	cfg := &SequenceConfig{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      cfg,
		TagName:     "mapstructure",
		ErrorUnused: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(values)); err != nil {
		return nil, fmt.Errorf("unable to decode preprocessing values: %w", err)
	}

	cfg.Runtime.ComputedFillValue = internal.UnknownSymbol
	if v, ok := values[OptComputedFillValue].(string); ok {
		cfg.Runtime.ComputedFillValue = v
	}
	return cfg, nil
}

// SetComputedFillValue records the fill value derived from the training data.
func (c *SequenceConfig) SetComputedFillValue(v string) {
	c.Runtime.ComputedFillValue = v
}

// ToMap returns the user-settable options. Parsing the result yields an equal config.
func (c *SequenceConfig) ToMap() map[string]any {
	var vocab any
	if c.VocabFile != nil {
		vocab = *c.VocabFile
	}
	return map[string]any{
		OptTokenizer:            c.Tokenizer,
		OptVocabFile:            vocab,
		OptMaxSequenceLength:    c.MaxSequenceLength,
		OptMostCommon:           c.MostCommon,
		OptPaddingSymbol:        c.PaddingSymbol,
		OptUnknownSymbol:        c.UnknownSymbol,
		OptPadding:              c.Padding,
		OptLowercase:            c.Lowercase,
		OptMissingValueStrategy: c.MissingValueStrategy,
		OptFillValue:            c.FillValue,
	}
}

// ReservedSymbols returns the symbols the vocabulary builder must place first;
// a symbol's index is its id.
func (c *SequenceConfig) ReservedSymbols() []string {
	return []string{c.PaddingSymbol, c.UnknownSymbol}
}
