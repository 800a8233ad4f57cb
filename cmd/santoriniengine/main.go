// Command santoriniengine runs the Santorini search engine over the
// line-delimited protocol spec.md §6.2 defines. Grounded on the
// teacher's cmd/morlock/main.go: parse flags, build the engine, wire a
// stdin/stdout driver, block on its Closed() channel.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/santorini-engine/core/pkg/engine"
	"github.com/santorini-engine/core/pkg/nnue"
	"github.com/santorini-engine/core/pkg/protocol"
	"github.com/seekerror/logw"
)

const defaultHiddenDim = 64

// initialFEN is the engine's boot position: empty board, no workers
// placed yet, both slots provisionally mortal. A real game always
// arrives via set_position before any search matters.
const initialFEN = "0000000000000000000000000/1/mortal:/mortal:"

var (
	hash    = flag.Uint("hash", 32, "Transposition table size in MB (zero disables it)")
	depth   = flag.Uint("depth", 0, "Search depth limit (zero for unbounded other than stop/quit)")
	noise   = flag.Uint("noise", 0, "Evaluation noise in millipoints (zero if deterministic)")
	weights = flag.String("weights", "", "Path to a trained NNUE weights blob (spec.md §6.4); empty uses an untrained zero network")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: santoriniengine [options]

santoriniengine speaks the line-delimited Santorini protocol on
stdin/stdout: set_position, next_moves, ping, stop, quit.

Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	net, err := loadNetwork(*weights)
	if err != nil {
		logw.Exitf(ctx, "Failed to load NNUE weights: %v", err)
	}

	e, err := engine.New(ctx, net, engine.Options{Depth: *depth, Hash: *hash, Noise: *noise}, initialFEN)
	if err != nil {
		logw.Exitf(ctx, "Failed to initialize engine: %v", err)
	}

	in := engine.ReadStdinLines(ctx)
	driver, out := protocol.NewDriver(ctx, e, in)
	go engine.WriteStdoutLines(ctx, out)

	<-driver.Closed()
}

func loadNetwork(path string) (*nnue.Network, error) {
	if path == "" {
		return nnue.NewZeroNetwork(defaultHiddenDim), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %v: %w", path, err)
	}
	return nnue.LoadBlob(data)
}
