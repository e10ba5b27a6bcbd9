package trainer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/charrec/internal/config"
	"github.com/born-ml/charrec/internal/imaging"
	"github.com/born-ml/charrec/internal/snn"
)

// DefaultThreshold is the confidence above which a class counts as recognized.
const DefaultThreshold float32 = 0.5

// ErrInvalidTarget is returned for a recognition target that is missing or
// an empty folder.
var ErrInvalidTarget = errors.New("trainer: invalid recognition target")

// Result is the outcome of classifying one feature vector.
type Result struct {
	Class      rune      // Label of the strongest output.
	Index      int       // Position of the strongest output.
	Confidence float32   // Value of the strongest output.
	Recognized bool      // Confidence > threshold.
	Output     []float32 // Copy of the whole output layer.
}

// Recognizer classifies images with a trained network. Like the network it
// wraps, it is not safe for concurrent use.
type Recognizer struct {
	net        *snn.Network
	normalizer imaging.Normalizer
	alphabet   []rune
	threshold  float32
}

// NewRecognizer checks that net has one output per rune of alphabet.
// A threshold of 0 means DefaultThreshold.
func NewRecognizer(net *snn.Network, normalizer imaging.Normalizer, alphabet string, threshold float32) (*Recognizer, error) {
	_, _, _, outputWidth := net.Dims()
	if want := config.OutputWidth(alphabet); outputWidth != want {
		return nil, fmt.Errorf("%w: %d outputs for an alphabet of %d", ErrShapeMismatch, outputWidth, want)
	}
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Recognizer{
		net:        net,
		normalizer: normalizer,
		alphabet:   []rune(alphabet),
		threshold:  threshold,
	}, nil
}

// Classify runs vec through the network. It panics if vec does not match the
// network input width.
func (r *Recognizer) Classify(vec []float32) Result {
	r.net.Forward(vec)
	return r.result(r.net.ReadOutput())
}

func (r *Recognizer) result(output []float32) Result {
	i, v := snn.ArgMax(output)
	return Result{
		Class:      r.alphabet[i],
		Index:      i,
		Confidence: v,
		Recognized: v > r.threshold,
		Output:     append([]float32(nil), output...),
	}
}

// RecognizeFile normalizes the image at path and classifies it.
func (r *Recognizer) RecognizeFile(path string) (Result, error) {
	vec, err := r.normalizer.Load(path)
	if err != nil {
		return Result{}, err
	}
	inputWidth, _, _, _ := r.net.Dims()
	if len(vec) != inputWidth {
		return Result{}, fmt.Errorf("%w: %s has %d features, network takes %d", ErrShapeMismatch, path, len(vec), inputWidth)
	}
	return r.Classify(vec), nil
}

// RecognizePath classifies the file at path, or every file below path if it
// is a folder, and writes a report to w. Files in a folder are numbered from
// 1 across all sub-folders. The first failing image stops the walk.
func (r *Recognizer) RecognizePath(path string, w io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", ErrInvalidTarget, path)
		}
		return fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}

	if !info.IsDir() {
		return r.report(w, path, 0)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidTarget, path)
	}

	counter := 1
	return r.recognizeFolder(path, w, &counter)
}

func (r *Recognizer) recognizeFolder(dir string, w io.Writer, counter *int) error {
	fmt.Fprintf(w, "\nFolder: %q\n", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			if err := r.recognizeFolder(path, w, counter); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := r.report(w, path, *counter); err != nil {
				return err
			}
			*counter++
		}
	}
	return nil
}

// report writes the result for one file. A zero number is omitted.
func (r *Recognizer) report(w io.Writer, path string, number int) error {
	if number > 0 {
		fmt.Fprintf(w, "\n%d. ", number)
	}
	fmt.Fprintln(w, path)

	res, err := r.RecognizeFile(path)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, FormatResult(res))
	return err
}

// FormatResult renders a result as two lines: the verdict and the output
// vector with three decimals.
func FormatResult(res Result) string {
	var b strings.Builder
	if res.Recognized {
		fmt.Fprintf(&b, "Recognized: %c\n", res.Class)
	} else {
		fmt.Fprintf(&b, "Closer to: %c\n", res.Class)
	}
	b.WriteString("Snn output: ")
	for i, v := range res.Output {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%.3f", v)
	}
	b.WriteByte('\n')
	return b.String()
}
