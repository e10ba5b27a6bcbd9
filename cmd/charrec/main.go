// Package main provides the charrec command line tool: it trains a digit
// recognizer on a folder of BMP images and recognizes new images with the
// trained network.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
)

const version = "v0.1.0"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(stdout, "Type '%s help' to get information!\n", filepath.Base(args[0]))
		return exitOK
	}

	var err error
	switch name, rest := args[1], args[2:]; name {
	case "help", "-h", "-help", "--help":
		printHelp(stdout)
		return exitOK
	case "version":
		fmt.Fprintf(stdout, "charrec %s\n", version)
		return exitOK
	case "train":
		err = runTrain(ctx, rest, stdout, stderr)
	case "recognize":
		err = runRecognize(rest, stdout, stderr)
	case "info":
		err = runInfo(rest, stdout, stderr)
	default:
		err = &usageError{msg: fmt.Sprintf("unsupported command '%s'", name)}
	}

	if err == nil {
		return exitOK
	}
	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(stderr, "A parsing error has occurred: %v\n", err)
		return exitUsage
	}
	fmt.Fprintf(stderr, "An error has occurred: %v\n", err)
	return exitError
}

// usageError reports bad command line input.
type usageError struct {
	msg string
	err error
}

func (e *usageError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *usageError) Unwrap() error {
	return e.err
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return &usageError{msg: fs.Name(), err: err}
	}
	if fs.NArg() > 0 {
		return &usageError{msg: fmt.Sprintf("%s: unexpected argument '%s'", fs.Name(), fs.Arg(0))}
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `charrec %s - handwritten digit recognizer

Usage:
  charrec <command> [-name=value ...]

Commands:
  help       Show this help
  version    Show version
  train      Train a network on a folder of labelled images
  recognize  Recognize an image or every image in a folder
  info       Show the dimensions of a saved network

train parameters:
  -snn_data_path   Network to continue training (default: create a new one)
  -db_path         Training folder, one sub-folder per digit (default training_chars)
  -path_to_save    Where to save the trained network (default snn_data)
  -cycles          Number of training cycles (default 1000)
  -algorithm       0 sequential, 1 shuffled (default 1)
  -hidden_layers   Hidden layers of a new network (default 2)
  -hidden_neurons  Neurons per hidden layer of a new network (default 1024)
  -learning_rate   Learning rate of a new network (default 0.1)
  -input_width     Pixels per image (default 1024)
  -seed            Random seed, 0 for a time-based one
  -v               Verbose logging

recognize parameters:
  -snn_data_path   Trained network (default snn_data)
  -target_path     Image or folder to recognize (default target_chars)
  -result_path     Write the report to this file instead of stdout
  -threshold       Confidence needed to report a digit as recognized (default 0.5)
  -v               Verbose logging

info parameters:
  -snn_data_path   Network file (default snn_data)
`, version)
}
