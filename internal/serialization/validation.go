package serialization

import "fmt"

// Validation limits for resource protection. Every length read from a file is
// checked against them before anything is allocated.
const (
	MaxDimension    = 1 << 20 // Maximum width of any layer
	MaxHiddenLayers = 1 << 10 // Maximum number of hidden layers
	MaxSequenceLen  = 1 << 20 // Maximum number of values in one sequence
)

// ValidateHeader checks the dimensions read from a file before the containers
// they describe are allocated.
func ValidateHeader(h *Header) error {
	dims := []struct {
		name  string
		value int
		limit int
	}{
		{"input_width", h.InputWidth, MaxDimension},
		{"hidden_layers", h.HiddenLayers, MaxHiddenLayers},
		{"hidden_width", h.HiddenWidth, MaxDimension},
		{"output_width", h.OutputWidth, MaxDimension},
	}

	for _, d := range dims {
		if d.value <= 0 || d.value > d.limit {
			return &ValidationError{
				Type:    "dimension",
				Field:   d.name,
				Details: fmt.Sprintf("got %d, want 1..%d", d.value, d.limit),
			}
		}
	}
	return nil
}

// validateSequenceLen rejects a length prefix before it is used to allocate.
func validateSequenceLen(field string, n uint64) error {
	if n > MaxSequenceLen {
		return &ValidationError{
			Type:    "sequence_length",
			Field:   field,
			Details: fmt.Sprintf("length %d > max %d", n, MaxSequenceLen),
		}
	}
	return nil
}
