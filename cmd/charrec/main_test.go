package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/born-ml/charrec/snn"
)

// writeDot writes a 2x2 BMP that is black except for one white pixel.
func writeDot(t *testing.T, path string, pos int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		c := color.RGBA{0, 0, 0, 255}
		if i == pos {
			c = color.RGBA{255, 255, 255, 255}
		}
		img.SetRGBA(i%2, i/2, c)
	}

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = run(context.Background(), append([]string{"charrec"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_NoArgs(t *testing.T) {
	code, out, _ := runCLI(t)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Type 'charrec help' to get information!\n", out)
}

func TestRun_HelpAndVersion(t *testing.T) {
	code, out, _ := runCLI(t, "help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "recognize")
	assert.Contains(t, out, "-db_path")

	code, out, _ = runCLI(t, "version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "charrec "+version+"\n", out)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"unknown command", []string{"fly"}, "unsupported command 'fly'"},
		{"unknown flag", []string{"train", "-speed=3"}, "speed"},
		{"zero cycles", []string{"train", "-cycles=0"}, "cycles"},
		{"bad algorithm", []string{"train", "-algorithm=5"}, "orders 0"},
		{"bad threshold", []string{"recognize", "-threshold=1.5"}, "threshold"},
		{"stray argument", []string{"info", "extra"}, "unexpected argument 'extra'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, errOut, "A parsing error has occurred")
			assert.Contains(t, errOut, tt.msg)
		})
	}
}

func TestRun_MissingInputs(t *testing.T) {
	dir := t.TempDir()

	code, _, errOut := runCLI(t, "train", "-db_path="+filepath.Join(dir, "missing"), "-input_width=4")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "does not exist")

	code, _, errOut = runCLI(t, "recognize", "-snn_data_path="+filepath.Join(dir, "missing"))
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "An error has occurred")
}

func TestRun_TrainRecognizeInfo(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "training_chars")
	for i := 0; i < 3; i++ {
		writeDot(t, filepath.Join(db, "0", string(rune('a'+i))+".bmp"), 0)
		writeDot(t, filepath.Join(db, "1", string(rune('a'+i))+".bmp"), 3)
	}
	writeDot(t, filepath.Join(db, "noise", "n.bmp"), 1)

	save := filepath.Join(dir, "snn_data")
	code, out, errOut := runCLI(t, "train",
		"-db_path="+db,
		"-path_to_save="+save,
		"-cycles=400",
		"-algorithm=0",
		"-input_width=4",
		"-hidden_layers=1",
		"-hidden_neurons=6",
		"-learning_rate=1",
		"-seed=11",
	)
	require.Equal(t, exitOK, code, errOut)
	assert.True(t, strings.HasPrefix(out, "0\r1\r2"))
	assert.True(t, strings.HasSuffix(out, "\r400\n"))

	net, err := snn.Load(save)
	require.NoError(t, err)
	in, hl, hw, outputs := net.Dims()
	assert.Equal(t, []int{4, 1, 6, 10}, []int{in, hl, hw, outputs})
	assert.Equal(t, float32(1), net.LearningRate())

	// Continue training the saved network.
	code, _, errOut = runCLI(t, "train", "-snn_data_path="+save, "-db_path="+db, "-path_to_save="+save, "-cycles=5", "-seed=3")
	require.Equal(t, exitOK, code, errOut)

	target := filepath.Join(dir, "target_chars")
	writeDot(t, filepath.Join(target, "zero.bmp"), 0)
	writeDot(t, filepath.Join(target, "more", "one.bmp"), 3)

	result := filepath.Join(dir, "result.txt")
	code, out, errOut = runCLI(t, "recognize", "-snn_data_path="+save, "-target_path="+target, "-result_path="+result)
	require.Equal(t, exitOK, code, errOut)
	assert.Empty(t, out)

	report, err := os.ReadFile(result)
	require.NoError(t, err)
	text := string(report)
	assert.Contains(t, text, "Folder: ")
	assert.Contains(t, text, "1. "+filepath.Join(target, "more", "one.bmp")+"\nRecognized: 1\n")
	assert.Contains(t, text, "2. "+filepath.Join(target, "zero.bmp")+"\nRecognized: 0\n")
	assert.Equal(t, 2, strings.Count(text, "Snn output: "))

	code, out, _ = runCLI(t, "info", "-snn_data_path="+save)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Input width:   4")
	assert.Contains(t, out, "Hidden layers: 1 x 6")
	assert.Contains(t, out, "Output width:  10")
}

func TestRun_TrainRejectsUnsupportedClass(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "db")
	writeDot(t, filepath.Join(db, "x", "a.bmp"), 0)
	save := filepath.Join(dir, "snn_data")

	code, _, errOut := runCLI(t, "train", "-db_path="+db, "-path_to_save="+save, "-input_width=4", "-cycles=1")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "not supported")

	_, err := os.Stat(save)
	assert.True(t, os.IsNotExist(err))
}
