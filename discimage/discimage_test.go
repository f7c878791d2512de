package discimage_test

import (
	"testing"

	"github.com/washgo/washcore/discimage"
)

type memTrack struct {
	sectors [][]byte
}

func newMemTrack(n int) *memTrack {
	t := &memTrack{sectors: make([][]byte, n)}
	for i := range t.sectors {
		s := make([]byte, discimage.SectorSize)
		s[0] = byte(i)
		t.sectors[i] = s
	}
	return t
}

func (t *memTrack) ReadSector(sector int, dst []byte) error {
	copy(dst, t.sectors[sector])
	return nil
}

func (t *memTrack) SectorCount() int { return len(t.sectors) }

func TestReadBootstrapCopiesFirst16Sectors(t *testing.T) {
	track := newMemTrack(32)
	buf := make([]byte, discimage.BootstrapSize)
	if err := discimage.ReadBootstrap(track, buf); err != nil {
		t.Fatalf("ReadBootstrap: %v", err)
	}
	for i := 0; i < 16; i++ {
		if buf[i*discimage.SectorSize] != byte(i) {
			t.Fatalf("sector %d: got marker %d, want %d", i, buf[i*discimage.SectorSize], i)
		}
	}
}

func TestReadBootstrapRejectsShortTrack(t *testing.T) {
	track := newMemTrack(4)
	buf := make([]byte, discimage.BootstrapSize)
	if err := discimage.ReadBootstrap(track, buf); err == nil {
		t.Fatalf("expected an error for a track shorter than 16 sectors")
	}
}

func TestReadBootstrapRejectsUndersizedBuffer(t *testing.T) {
	track := newMemTrack(32)
	buf := make([]byte, 10)
	if err := discimage.ReadBootstrap(track, buf); err == nil {
		t.Fatalf("expected an error for a buffer smaller than BootstrapSize")
	}
}
