// Package config holds the settings of the train and recognize commands.
package config

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Order selects how training samples are visited in each cycle.
type Order int

// Supported orders. The numeric values are accepted on the command line.
const (
	Sequential Order = 0
	Shuffled   Order = 1
)

// String implements fmt.Stringer.
func (o Order) String() string {
	switch o {
	case Sequential:
		return "sequential"
	case Shuffled:
		return "shuffled"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// TrainCommand configures a training run.
type TrainCommand struct {
	NetworkPath string // Existing network to continue training; empty creates a new one.
	CorpusPath  string
	SavePath    string
	Cycles      int
	Order       Order
	Seed        uint64 // 0 picks a time-based seed.

	// Used only when a new network is created.
	InputWidth   int
	HiddenLayers int
	HiddenWidth  int
	LearningRate float32
	Alphabet     string

	Verbose bool
}

// RecognizeCommand configures a recognition run.
type RecognizeCommand struct {
	NetworkPath string
	TargetPath  string
	ResultPath  string // Empty writes to standard output.
	Threshold   float32
	Alphabet    string

	Verbose bool
}

// DefaultTrain returns the training defaults: 32x32 images, two hidden layers
// of 1024 neurons, 1000 shuffled cycles.
func DefaultTrain() TrainCommand {
	return TrainCommand{
		CorpusPath:   "training_chars",
		SavePath:     "snn_data",
		Cycles:       1000,
		Order:        Shuffled,
		InputWidth:   1024,
		HiddenLayers: 2,
		HiddenWidth:  1024,
		LearningRate: 0.1,
		Alphabet:     "0123456789",
	}
}

// DefaultRecognize returns the recognition defaults.
func DefaultRecognize() RecognizeCommand {
	return RecognizeCommand{
		NetworkPath: "snn_data",
		TargetPath:  "target_chars",
		Threshold:   0.5,
		Alphabet:    "0123456789",
	}
}

// Validate reports the first invalid setting.
func (c *TrainCommand) Validate() error {
	switch {
	case c.CorpusPath == "":
		return fmt.Errorf("%w: corpus path is empty", ErrInvalid)
	case c.SavePath == "":
		return fmt.Errorf("%w: save path is empty", ErrInvalid)
	case c.Cycles < 1:
		return fmt.Errorf("%w: number of cycles must be greater than 0, got %d", ErrInvalid, c.Cycles)
	case c.Order != Sequential && c.Order != Shuffled:
		return fmt.Errorf("%w: only orders 0 (sequential) and 1 (shuffled) are supported, got %d", ErrInvalid, int(c.Order))
	case c.InputWidth < 1:
		return fmt.Errorf("%w: input width must be positive, got %d", ErrInvalid, c.InputWidth)
	case c.HiddenLayers < 1:
		return fmt.Errorf("%w: hidden layers must be positive, got %d", ErrInvalid, c.HiddenLayers)
	case c.HiddenWidth < 1:
		return fmt.Errorf("%w: hidden width must be positive, got %d", ErrInvalid, c.HiddenWidth)
	case c.LearningRate <= 0:
		return fmt.Errorf("%w: learning rate must be positive, got %g", ErrInvalid, c.LearningRate)
	}
	return validateAlphabet(c.Alphabet)
}

// Validate reports the first invalid setting.
func (c *RecognizeCommand) Validate() error {
	switch {
	case c.NetworkPath == "":
		return fmt.Errorf("%w: network path is empty", ErrInvalid)
	case c.TargetPath == "":
		return fmt.Errorf("%w: target path is empty", ErrInvalid)
	case c.Threshold <= 0 || c.Threshold >= 1:
		return fmt.Errorf("%w: threshold must be in (0, 1), got %g", ErrInvalid, c.Threshold)
	}
	return validateAlphabet(c.Alphabet)
}

func validateAlphabet(alphabet string) error {
	if alphabet == "" {
		return fmt.Errorf("%w: alphabet is empty", ErrInvalid)
	}
	seen := make(map[rune]bool)
	for _, r := range alphabet {
		if r == utf8.RuneError {
			return fmt.Errorf("%w: alphabet is not valid UTF-8", ErrInvalid)
		}
		if seen[r] {
			return fmt.Errorf("%w: alphabet repeats %q", ErrInvalid, r)
		}
		seen[r] = true
	}
	return nil
}

// OutputWidth returns the number of output neurons the alphabet needs.
func OutputWidth(alphabet string) int {
	return utf8.RuneCountInString(alphabet)
}
