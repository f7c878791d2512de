// Command washcore is the harness that wires the core packages (clock,
// memmap, sh4, sh4jit, pvr2, maple, tmu, config) into a runnable machine
// and exposes it over a small cobra CLI, the way other emulator projects
// in the retrieval pack (e.g. bradford-hamilton/chippy, rcornwell/S370)
// front a reusable core with a cobra-based command tree rather than a
// single flag.Parse() main.
package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		zerolog.New(os.Stderr).With().Timestamp().Logger().Error().Err(err).Msg("washcore exited with an error")
		os.Exit(1)
	}
}
