package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/born-ml/charrec/internal/parallel"
)

// byteNormalizer turns each byte of a file into one feature.
type byteNormalizer struct {
	calls atomic.Int64
}

var errBadImage = errors.New("bad image")

func (n *byteNormalizer) Load(path string) ([]float32, error) {
	n.calls.Add(1)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if string(data) == "bad" {
		return nil, errBadImage
	}
	vec := make([]float32, len(data))
	for i, b := range data {
		vec[i] = float32(b) / 255
	}
	return vec, nil
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func testConfig() Config {
	return Config{Parallel: parallel.Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}}
}

func TestBuild(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"3/a.bmp":        "\x00",
		"3/b.bmp":        "\x01",
		"1/a.bmp":        "\xff",
		"noise/x.bmp":    "\x10",
		"noise/y.bmp":    "\x20",
		"readme.txt":     "ignored",
		"7/nested/z.bmp": "\x05",
	})
	require.NoError(t, os.Mkdir(filepath.Join(root, "5"), 0o755))

	n := &byteNormalizer{}
	c, err := Build(root, n, testConfig())
	require.NoError(t, err)

	assert.Equal(t, []rune{'1', '3'}, c.Labels())
	assert.Len(t, c.Classes()['3'], 2)
	assert.Len(t, c.Classes()['1'], 1)
	assert.NotContains(t, c.Classes(), '5')
	assert.NotContains(t, c.Classes(), '7')
	assert.Len(t, c.NonChars(), 2)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, int64(5), n.calls.Load())

	samples := c.Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, Sample{Label: '1', Features: []float32{1}}, samples[0])
	assert.Equal(t, Sample{Label: '3', Features: []float32{0}}, samples[1])
	assert.Equal(t, Sample{Label: '3', Features: []float32{1.0 / 255}}, samples[2])
}

func TestBuild_RootErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing")},
		{"not a directory", file},
		{"empty", empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Build(tt.path, &byteNormalizer{}, testConfig())
			require.ErrorIs(t, err, ErrInvalidRoot)
			assert.Nil(t, c)
		})
	}
}

func TestBuild_NormalizerError(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"0/a.bmp": "\x00",
		"0/b.bmp": "bad",
	})

	_, err := Build(root, &byteNormalizer{}, testConfig())
	require.ErrorIs(t, err, errBadImage)
}

func TestBuild_Unicode(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"ж/a.bmp":  "\x00",
		"жж/a.bmp": "\x00",
	})

	c, err := Build(root, &byteNormalizer{}, Config{Parallel: parallel.Sequential()})
	require.NoError(t, err)
	assert.Equal(t, []rune{'ж'}, c.Labels())
	assert.Len(t, c.NonChars(), 1)
}

func TestCheckAlphabet(t *testing.T) {
	c := New(map[rune][][]float32{
		'0': {{0}},
		'9': {{1}},
	}, nil)
	require.NoError(t, c.CheckAlphabet(DefaultAlphabet))

	c.Classes()['b'] = [][]float32{{0}}
	c.Classes()['a'] = [][]float32{{0}}
	err := c.CheckAlphabet(DefaultAlphabet)
	require.ErrorIs(t, err, ErrUnsupportedClass)

	var classErr *UnsupportedClassError
	require.ErrorAs(t, err, &classErr)
	assert.Equal(t, 'a', classErr.Label)
	assert.Contains(t, err.Error(), `'a'`)
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 0, Index(DefaultAlphabet, '0'))
	assert.Equal(t, 9, Index(DefaultAlphabet, '9'))
	assert.Equal(t, -1, Index(DefaultAlphabet, 'x'))
	assert.Equal(t, 2, Index("аб7", '7'))
}

func TestShuffle(t *testing.T) {
	c := New(map[rune][][]float32{
		'0': {{0}, {1}, {2}},
		'1': {{3}, {4}},
		'2': {{5}, {6}, {7}},
	}, nil)

	a := c.Samples()
	b := c.Samples()
	Shuffle(a, rand.NewSource(1))
	Shuffle(b, rand.NewSource(1))
	assert.Equal(t, a, b)
	assert.ElementsMatch(t, c.Samples(), a)
	assert.NotEqual(t, c.Samples(), a)
}
