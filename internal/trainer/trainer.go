// Package trainer drives the network over a training corpus and recognizes
// new images with a trained network.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/charrec/internal/config"
	"github.com/born-ml/charrec/internal/corpus"
	"github.com/born-ml/charrec/internal/snn"
)

// Common errors.
var (
	ErrEmptyCorpus   = errors.New("trainer: corpus has no labelled samples")
	ErrShapeMismatch = errors.New("trainer: network does not fit the data")
)

// Options configures a Trainer.
type Options struct {
	Cycles   int
	Order    config.Order
	Alphabet string      // Output neuron i stands for the i-th rune.
	Source   rand.Source // Shuffle source; nil seeds from the clock.
	Progress io.Writer   // Receives the cycle counter; nil discards it.
	Logger   *slog.Logger
}

// Stats summarizes a training run.
type Stats struct {
	Cycles   int       // Completed cycles.
	Samples  int       // Labelled samples per cycle.
	NonChars int       // Negative samples present in the corpus, not trained on.
	RMSE     []float64 // Mean output error of each completed cycle, measured before each update.
}

// FinalRMSE returns the mean error of the last completed cycle, or 0.
func (s Stats) FinalRMSE() float64 {
	if len(s.RMSE) == 0 {
		return 0
	}
	return s.RMSE[len(s.RMSE)-1]
}

// Trainer runs supervised training cycles.
type Trainer struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Trainer. Zero Cycles means one cycle and an empty Alphabet
// means corpus.DefaultAlphabet.
func New(opts Options) *Trainer {
	if opts.Cycles < 1 {
		opts.Cycles = 1
	}
	if opts.Alphabet == "" {
		opts.Alphabet = corpus.DefaultAlphabet
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	if opts.Source == nil {
		opts.Source = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{opts: opts, logger: logger}
}

// Train presents every labelled sample of c to net once per cycle, updating
// the network after each one. Negative samples are not used.
//
// ctx is checked between samples; on cancellation Train returns ctx.Err() and
// the stats of the cycles completed so far, leaving net as it was after the
// last processed sample.
func (t *Trainer) Train(ctx context.Context, net *snn.Network, c *corpus.Corpus) (Stats, error) {
	if err := c.CheckAlphabet(t.opts.Alphabet); err != nil {
		return Stats{}, err
	}
	samples := c.Samples()
	if len(samples) == 0 {
		return Stats{}, ErrEmptyCorpus
	}

	inputWidth, _, _, outputWidth := net.Dims()
	if want := config.OutputWidth(t.opts.Alphabet); outputWidth != want {
		return Stats{}, fmt.Errorf("%w: %d outputs for an alphabet of %d", ErrShapeMismatch, outputWidth, want)
	}
	for _, s := range samples {
		if len(s.Features) != inputWidth {
			return Stats{}, fmt.Errorf("%w: sample %q has %d features, network takes %d",
				ErrShapeMismatch, s.Label, len(s.Features), inputWidth)
		}
	}

	stats := Stats{
		Samples:  len(samples),
		NonChars: len(c.NonChars()),
		RMSE:     make([]float64, 0, t.opts.Cycles),
	}
	t.logger.Info("training started",
		"cycles", t.opts.Cycles,
		"samples", stats.Samples,
		"non_chars", stats.NonChars,
		"order", t.opts.Order.String())

	target := make([]float32, outputWidth)
	errs := make([]float64, len(samples))

	fmt.Fprint(t.opts.Progress, 0)
	for cycle := 0; cycle < t.opts.Cycles; cycle++ {
		if t.opts.Order == config.Shuffled {
			corpus.Shuffle(samples, t.opts.Source)
		}

		for i, s := range samples {
			if err := ctx.Err(); err != nil {
				fmt.Fprintln(t.opts.Progress)
				return stats, err
			}

			net.Forward(s.Features)
			setUnit(target, corpus.Index(t.opts.Alphabet, s.Label))
			errs[i] = float64(net.EvaluateError(target))
			net.Backward(target)
		}

		mean := stat.Mean(errs, nil)
		stats.Cycles++
		stats.RMSE = append(stats.RMSE, mean)
		t.logger.Debug("cycle done", "cycle", cycle+1, "cycles", t.opts.Cycles, "rmse", mean)
		fmt.Fprintf(t.opts.Progress, "\r%d", cycle+1)
	}
	fmt.Fprintln(t.opts.Progress)

	t.logger.Info("training finished", "cycles", stats.Cycles, "rmse", stats.FinalRMSE())
	return stats, nil
}

func setUnit(v []float32, pos int) {
	clear(v)
	v[pos] = 1
}
