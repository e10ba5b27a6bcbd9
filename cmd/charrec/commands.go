package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/exp/rand"

	"github.com/born-ml/charrec/internal/config"
	"github.com/born-ml/charrec/internal/corpus"
	"github.com/born-ml/charrec/internal/imaging"
	"github.com/born-ml/charrec/internal/parallel"
	"github.com/born-ml/charrec/internal/serialization"
	"github.com/born-ml/charrec/internal/trainer"
	"github.com/born-ml/charrec/snn"
)

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseTrain(args []string) (config.TrainCommand, error) {
	cmd := config.DefaultTrain()
	var order int
	lr := float64(cmd.LearningRate)

	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.StringVar(&cmd.NetworkPath, "snn_data_path", cmd.NetworkPath, "")
	fs.StringVar(&cmd.CorpusPath, "db_path", cmd.CorpusPath, "")
	fs.StringVar(&cmd.SavePath, "path_to_save", cmd.SavePath, "")
	fs.IntVar(&cmd.Cycles, "cycles", cmd.Cycles, "")
	fs.IntVar(&order, "algorithm", int(cmd.Order), "")
	fs.IntVar(&cmd.HiddenLayers, "hidden_layers", cmd.HiddenLayers, "")
	fs.IntVar(&cmd.HiddenWidth, "hidden_neurons", cmd.HiddenWidth, "")
	fs.Float64Var(&lr, "learning_rate", lr, "")
	fs.IntVar(&cmd.InputWidth, "input_width", cmd.InputWidth, "")
	fs.Uint64Var(&cmd.Seed, "seed", cmd.Seed, "")
	fs.BoolVar(&cmd.Verbose, "v", cmd.Verbose, "")
	if err := parseFlags(fs, args); err != nil {
		return cmd, err
	}

	cmd.Order = config.Order(order)
	cmd.LearningRate = float32(lr)
	if err := cmd.Validate(); err != nil {
		return cmd, &usageError{msg: "train", err: err}
	}
	return cmd, nil
}

func runTrain(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd, err := parseTrain(args)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, cmd.Verbose)

	var net *snn.Network
	if cmd.NetworkPath == "" {
		var opts []snn.Option
		if cmd.Seed != 0 {
			opts = append(opts, snn.WithSeed(cmd.Seed))
		}
		net = snn.New(cmd.InputWidth, cmd.HiddenLayers, cmd.HiddenWidth, config.OutputWidth(cmd.Alphabet), opts...)
		net.InitBiasesRandom(snn.DefaultBiasMin, snn.DefaultBiasMax)
		net.InitWeightsRandom()
		net.SetLearningRate(cmd.LearningRate)
		logger.Info("created network",
			"input_width", cmd.InputWidth,
			"hidden_layers", cmd.HiddenLayers,
			"hidden_width", cmd.HiddenWidth)
	} else {
		if net, err = snn.Load(cmd.NetworkPath); err != nil {
			return err
		}
		logger.Info("loaded network", "path", cmd.NetworkPath)
	}

	inputWidth, _, _, _ := net.Dims()
	c, err := corpus.Build(cmd.CorpusPath, imaging.NewBMPNormalizer(inputWidth), corpus.Config{
		Parallel: parallel.DefaultConfig(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	opts := trainer.Options{
		Cycles:   cmd.Cycles,
		Order:    cmd.Order,
		Alphabet: cmd.Alphabet,
		Progress: stdout,
		Logger:   logger,
	}
	if cmd.Seed != 0 {
		opts.Source = rand.NewSource(cmd.Seed)
	}
	if _, err := trainer.New(opts).Train(ctx, net, c); err != nil {
		return fmt.Errorf("network not saved: %w", err)
	}

	if err := snn.Save(cmd.SavePath, net); err != nil {
		return err
	}
	logger.Info("saved network", "path", cmd.SavePath)
	return nil
}

func parseRecognize(args []string) (config.RecognizeCommand, error) {
	cmd := config.DefaultRecognize()
	threshold := float64(cmd.Threshold)

	fs := flag.NewFlagSet("recognize", flag.ContinueOnError)
	fs.StringVar(&cmd.NetworkPath, "snn_data_path", cmd.NetworkPath, "")
	fs.StringVar(&cmd.TargetPath, "target_path", cmd.TargetPath, "")
	fs.StringVar(&cmd.ResultPath, "result_path", cmd.ResultPath, "")
	fs.Float64Var(&threshold, "threshold", threshold, "")
	fs.BoolVar(&cmd.Verbose, "v", cmd.Verbose, "")
	if err := parseFlags(fs, args); err != nil {
		return cmd, err
	}

	cmd.Threshold = float32(threshold)
	if err := cmd.Validate(); err != nil {
		return cmd, &usageError{msg: "recognize", err: err}
	}
	return cmd, nil
}

func runRecognize(args []string, stdout, stderr io.Writer) (err error) {
	cmd, err := parseRecognize(args)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, cmd.Verbose)

	net, err := snn.Load(cmd.NetworkPath)
	if err != nil {
		return err
	}
	inputWidth, _, _, _ := net.Dims()
	r, err := trainer.NewRecognizer(net, imaging.NewBMPNormalizer(inputWidth), cmd.Alphabet, cmd.Threshold)
	if err != nil {
		return err
	}

	out := stdout
	if cmd.ResultPath != "" {
		f, ferr := os.Create(cmd.ResultPath)
		if ferr != nil {
			return fmt.Errorf("unable to open file %s for saving result: %w", cmd.ResultPath, ferr)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}()
		out = f
	}

	logger.Debug("recognizing", "path", cmd.TargetPath, "threshold", cmd.Threshold)
	return r.RecognizePath(cmd.TargetPath, out)
}

func runInfo(args []string, stdout, _ io.Writer) error {
	path := config.DefaultRecognize().NetworkPath
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.StringVar(&path, "snn_data_path", path, "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	h, err := serialization.Inspect(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "File:          %s\n", path)
	fmt.Fprintf(stdout, "Format:        %#08x\n", h.Version)
	fmt.Fprintf(stdout, "Input width:   %d\n", h.InputWidth)
	fmt.Fprintf(stdout, "Hidden layers: %d x %d\n", h.HiddenLayers, h.HiddenWidth)
	fmt.Fprintf(stdout, "Output width:  %d\n", h.OutputWidth)
	fmt.Fprintf(stdout, "Learning rate: %g\n", h.LearningRate)
	fmt.Fprintf(stdout, "Size:          %d bytes\n", h.EncodedSize())
	return nil
}
