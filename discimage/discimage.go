// Package discimage gives the BIOS boot path somewhere to read sectors
// from without this core parsing any real disc image format itself.
// GDI/CDI parsing is out of scope per spec.md §1 ("pure readers of byte
// streams"); TrackReader is the seam an out-of-tree parser would
// implement, following original_source's cdi.c/gdi.h split between
// format parsing and the single-track byte-range reads the loader
// actually needs.
package discimage

import "github.com/washgo/washcore/coreerr"

// SectorSize is the standard CD-ROM mode-1/mode-2 sector size GD-ROM
// images use.
const SectorSize = 2048

// TrackReader reads fixed-size sectors from a single data track. A real
// GDI/CDI parser implements this over its own track-and-session layout;
// this package only consumes it.
type TrackReader interface {
	// ReadSector fills dst (which must be len(dst) == SectorSize) with the
	// given zero-based sector.
	ReadSector(sector int, dst []byte) error
	// SectorCount reports how many sectors the track holds.
	SectorCount() int
}

// BootstrapSize is the IP.BIN bootstrap's fixed size, read from the first
// 16 sectors of a GD-ROM's data track.
const BootstrapSize = 16 * SectorSize

// ReadBootstrap reads the IP.BIN bootstrap (the first 16 sectors) from
// track into dst, which must be at least BootstrapSize bytes.
func ReadBootstrap(track TrackReader, dst []byte) error {
	if len(dst) < BootstrapSize {
		return coreerr.Integrityf("discimage", "bootstrap buffer too small: %d bytes, need %d", len(dst), BootstrapSize)
	}
	if track.SectorCount() < 16 {
		return coreerr.New(coreerr.IO, "discimage", "track too short to hold a bootstrap")
	}
	for s := 0; s < 16; s++ {
		if err := track.ReadSector(s, dst[s*SectorSize:(s+1)*SectorSize]); err != nil {
			return coreerr.Wrap(coreerr.IO, "discimage", "reading bootstrap sector", err)
		}
	}
	return nil
}
