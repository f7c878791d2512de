package digest_test

import (
	"testing"

	"github.com/washgo/washcore/digest"
)

func TestStreamingIsDeterministic(t *testing.T) {
	a := digest.NewStreaming()
	b := digest.NewStreaming()
	a.Write([]byte("dreamcast boot rom"))
	b.Write([]byte("dreamcast boot rom"))
	if a.Hash() != b.Hash() {
		t.Fatalf("identical input produced different hashes: %s vs %s", a.Hash(), b.Hash())
	}
}

func TestStreamingDiffersOnDifferentInput(t *testing.T) {
	a := digest.NewStreaming()
	b := digest.NewStreaming()
	a.Write([]byte("disc track 1"))
	b.Write([]byte("disc track 2"))
	if a.Hash() == b.Hash() {
		t.Fatalf("different input produced the same hash")
	}
}

func TestResetDigestStartsFresh(t *testing.T) {
	a := digest.NewStreaming()
	a.Write([]byte("some bytes"))
	a.ResetDigest()
	b := digest.NewStreaming()
	if a.Hash() != b.Hash() {
		t.Fatalf("expected a reset digest to match a fresh one")
	}
}
