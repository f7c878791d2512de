// Package digest hashes guest-visible state -- disc images, flashed BIOS
// images, and framebuffer output -- so that two runs (or a run against a
// recorded-good baseline) can be compared without storing the raw bytes.
// It generalises the teacher's digest package (built around the television
// protocol's PixelRenderer/AudioMixer callbacks feeding a running hash) to
// spec.md §1's disc/BIOS/GFX-IL surfaces, keeping the same small
// Hash()/ResetDigest() contract so a component's digest can be swapped
// in and out of a regression harness without it knowing the difference.
package digest

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Digest implementations return a hash of everything fed to them via
// Write since the last ResetDigest, per the teacher's contract.
type Digest interface {
	Hash() string
	ResetDigest()
}

// Streaming is a Digest that incrementally hashes written bytes with
// xxhash (the teacher's stand-in cryptographic hash was SHA-1 over raw
// pixel/audio bytes; xxhash is substituted here since spec.md only
// requires a stable hash for regression comparison, not collision
// resistance against adversarial input -- see DESIGN.md).
type Streaming struct {
	h *xxhash.Digest
}

// NewStreaming returns a Streaming digest ready to accept writes.
func NewStreaming() *Streaming {
	return &Streaming{h: xxhash.New()}
}

// Write feeds bytes into the running hash. Never returns an error; it
// satisfies io.Writer so a Streaming digest can sit at the end of an
// io.MultiWriter alongside a real file sink.
func (s *Streaming) Write(p []byte) (int, error) {
	return s.h.Write(p)
}

// Hash returns the current hash as a hex string.
func (s *Streaming) Hash() string {
	var buf [8]byte
	sum := s.h.Sum64()
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (8 * i))
	}
	return hex.EncodeToString(buf[:])
}

// ResetDigest discards all accumulated state, starting a fresh hash.
func (s *Streaming) ResetDigest() {
	s.h.Reset()
}
