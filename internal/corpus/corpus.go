// Package corpus loads labelled training images from a folder tree.
//
// Every top-level sub-folder of the corpus root whose name is a single
// character becomes a class labelled with that character. Sub-folders with
// longer names hold non-character images, kept as negative samples. Empty
// sub-folders and plain files in the root are ignored.
package corpus

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"golang.org/x/exp/rand"

	"github.com/born-ml/charrec/internal/imaging"
	"github.com/born-ml/charrec/internal/parallel"
)

// DefaultAlphabet is the set of labels the digit recognizer supports.
const DefaultAlphabet = "0123456789"

// Common errors.
var (
	ErrInvalidRoot      = errors.New("corpus: invalid root folder")
	ErrUnsupportedClass = errors.New("corpus: unsupported class")
)

// UnsupportedClassError reports a class folder whose label is outside the
// alphabet the network was built for.
type UnsupportedClassError struct {
	Label    rune
	Alphabet string
}

// Error implements the error interface.
func (e *UnsupportedClassError) Error() string {
	return fmt.Sprintf("corpus: char %q is not supported (alphabet %q)", e.Label, e.Alphabet)
}

// Unwrap lets errors.Is match ErrUnsupportedClass.
func (e *UnsupportedClassError) Unwrap() error {
	return ErrUnsupportedClass
}

// Sample is one labelled feature vector. Features is owned by the Corpus.
type Sample struct {
	Label    rune
	Features []float32
}

// Config controls how a corpus is loaded.
type Config struct {
	Parallel parallel.Config
	Logger   *slog.Logger
}

// DefaultConfig decodes images on all CPUs and logs to slog.Default().
func DefaultConfig() Config {
	return Config{Parallel: parallel.DefaultConfig()}
}

// Corpus holds the feature vectors of every class plus the negatives.
type Corpus struct {
	classes  map[rune][][]float32
	nonChars [][]float32
}

// New builds a corpus from vectors already in memory.
func New(classes map[rune][][]float32, nonChars [][]float32) *Corpus {
	if classes == nil {
		classes = make(map[rune][][]float32)
	}
	return &Corpus{classes: classes, nonChars: nonChars}
}

type job struct {
	label   rune // 0 for a non-character image
	path    string
	feature []float32
}

// Build walks dir and loads every image with normalizer.
func Build(dir string, normalizer imaging.Normalizer, cfg Config) (*Corpus, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidRoot, dir)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidRoot, dir)
	}

	var jobs []job
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		var label rune
		if utf8.RuneCountInString(name) == 1 {
			label, _ = utf8.DecodeRuneInString(name)
		}

		sub := filepath.Join(dir, name)
		files, err := os.ReadDir(sub)
		if err != nil {
			return nil, fmt.Errorf("corpus: read %s: %w", sub, err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			jobs = append(jobs, job{label: label, path: filepath.Join(sub, f.Name())})
		}
	}

	err = parallel.ForErr(len(jobs), func(i int) error {
		vec, err := normalizer.Load(jobs[i].path)
		if err != nil {
			return fmt.Errorf("corpus: %w", err)
		}
		jobs[i].feature = vec
		return nil
	}, cfg.Parallel)
	if err != nil {
		return nil, err
	}

	c := New(nil, nil)
	for _, j := range jobs {
		if j.label == 0 {
			c.nonChars = append(c.nonChars, j.feature)
			continue
		}
		c.classes[j.label] = append(c.classes[j.label], j.feature)
	}

	logger.Debug("corpus loaded",
		"path", dir,
		"classes", len(c.classes),
		"samples", c.Len(),
		"non_chars", len(c.nonChars))
	return c, nil
}

// Classes returns the feature vectors per class label. The map and its
// vectors must not be modified.
func (c *Corpus) Classes() map[rune][][]float32 {
	return c.classes
}

// NonChars returns the negative samples.
func (c *Corpus) NonChars() [][]float32 {
	return c.nonChars
}

// Labels returns the class labels in ascending order.
func (c *Corpus) Labels() []rune {
	labels := make([]rune, 0, len(c.classes))
	for label := range c.classes {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// Len returns the number of labelled samples.
func (c *Corpus) Len() int {
	n := 0
	for _, vecs := range c.classes {
		n += len(vecs)
	}
	return n
}

// Samples flattens the classes into one list, labels ascending and files in
// directory order within a label.
func (c *Corpus) Samples() []Sample {
	samples := make([]Sample, 0, c.Len())
	for _, label := range c.Labels() {
		for _, vec := range c.classes[label] {
			samples = append(samples, Sample{Label: label, Features: vec})
		}
	}
	return samples
}

// CheckAlphabet returns an *UnsupportedClassError for the smallest label
// that does not occur in alphabet.
func (c *Corpus) CheckAlphabet(alphabet string) error {
	for _, label := range c.Labels() {
		if Index(alphabet, label) < 0 {
			return &UnsupportedClassError{Label: label, Alphabet: alphabet}
		}
	}
	return nil
}

// Index returns the position of label in alphabet counted in runes, or -1.
func Index(alphabet string, label rune) int {
	i := 0
	for _, r := range alphabet {
		if r == label {
			return i
		}
		i++
	}
	return -1
}

// Shuffle permutes samples in place using src.
func Shuffle(samples []Sample, src rand.Source) {
	rand.New(src).Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
}
