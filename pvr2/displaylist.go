// Package pvr2 implements spec.md's component C7: the tile-accelerator
// front end that parses the TAFIFO command stream and the display-list
// replay cache that STARTRENDER consumes, producing GFX-IL (package
// gfxil) rather than rasterising directly -- see spec.md §4.8's rationale
// for keying a list on TA_VERTBUF_POS instead of rebuilding the tile-array
// binary format.
//
// There is no teacher analogue for a tile-based deferred renderer; this
// package's command/state-machine shape is grounded in spec.md §4.8
// directly, following the teacher's habit (seen in hardware/tia) of
// modelling a hardware front end as a small explicit state machine driven
// by register writes rather than a continuous simulation.
package pvr2

import "github.com/washgo/washcore/gfxil"

// PolyGroup identifies one of the five polygon groups a display list holds.
type PolyGroup int

const (
	GroupOpaque PolyGroup = iota
	GroupOpaqueMod
	GroupTranslucent
	GroupTranslucentMod
	GroupPunchThrough
	groupCount
)

// ReplayOrder is the fixed order spec.md §4.8 and invariant 5 require GFX-IL
// commands to appear in.
var ReplayOrder = [groupCount]PolyGroup{
	GroupOpaque, GroupOpaqueMod, GroupTranslucent, GroupTranslucentMod, GroupPunchThrough,
}

// SubmissionState is a polygon group's TA ingest state, per spec.md §4.8.
type SubmissionState int

const (
	NotOpened SubmissionState = iota
	InProgress
	Continuation
	Submitted
)

// Geometry is the polygon shape a group's Header selects: ordinary
// triangle-strip Vertex commands, or packed Quad commands.
type Geometry int

const (
	GeomTriangleStrip Geometry = iota
	GeomQuad
)

// Header carries one group's per-list rendering state, captured from a TA
// Header packet.
type Header struct {
	Geometry      Geometry
	TextureEnable bool
	TextureAddr   uint32
	WidthShift    uint8
	HeightShift   uint8
	Twiddled      bool
	VQCompressed  bool
	Mipmap        bool
	WrapU, WrapV  int
	Filter        int
	PixelFormat   int
	PaletteBase   uint32
	SrcBlend      int
	DstBlend      int
	DepthFunc     int
	DepthWrite    bool
	ClipMode      int
	IntensityBase [4]uint8
	IntensityOffs [4]uint8
}

// Quad is one packed-quad command: four vertex positions and uvs (per
// spec.md §4.8, only three uv pairs are transmitted in the command
// stream -- the fourth is reconstructed as the parallelogram completion
// of the other three), plus the degenerate flag hardware sets when the
// four positions do not form a proper quad.
type Quad struct {
	Pos        [4][3]float32
	UV         [4][2]float32
	Degenerate bool
}

// Group holds one polygon group's accumulated commands within a display
// list. A Submitted group holds either Vertices (GeomTriangleStrip) or
// Quads (GeomQuad), per its Header's Geometry, never both.
type Group struct {
	State    SubmissionState
	Header   Header
	Clip     gfxil.ClipRange
	Vertices []gfxil.Vertex
	Quads    []Quad
}

// DisplayList is keyed by TA_VERTBUF_POS at list-open time, per spec.md §3.
type DisplayList struct {
	Key    uint32
	Groups [groupCount]Group
	Age    int
}

func newDisplayList(key uint32) *DisplayList {
	return &DisplayList{Key: key}
}

// MaxLists is the per-system LRU limit spec.md §4.8 fixes at four.
const MaxLists = 4

// Cache is the LRU-bounded set of display lists, keyed by TA_VERTBUF_POS.
type Cache struct {
	lists []*DisplayList
	clock int
}

// NewCache returns an empty display-list cache.
func NewCache() *Cache { return &Cache{} }

// Open returns the list for key, creating one (evicting the
// least-recently-used if the cache is full) if it does not already exist,
// and bumps its age.
func (c *Cache) Open(key uint32) *DisplayList {
	for _, l := range c.lists {
		if l.Key == key {
			c.touch(l)
			return l
		}
	}
	l := newDisplayList(key)
	if len(c.lists) >= MaxLists {
		c.evictLRU()
	}
	c.lists = append(c.lists, l)
	c.touch(l)
	return l
}

// Lookup returns the list for key without creating or ageing it, for
// STARTRENDER's REGION_BASE match.
func (c *Cache) Lookup(key uint32) (*DisplayList, bool) {
	for _, l := range c.lists {
		if l.Key == key {
			return l, true
		}
	}
	return nil, false
}

func (c *Cache) touch(l *DisplayList) {
	c.clock++
	l.Age = c.clock
	// renormalise ages on overflow, per spec.md §4.8.
	if c.clock == 1<<30 {
		c.compressAges()
	}
}

func (c *Cache) compressAges() {
	ordered := append([]*DisplayList(nil), c.lists...)
	for i := range ordered {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].Age < ordered[i].Age {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}
	for i, l := range ordered {
		l.Age = i
	}
	c.clock = len(ordered)
}

func (c *Cache) evictLRU() {
	if len(c.lists) == 0 {
		return
	}
	oldest := 0
	for i, l := range c.lists {
		if l.Age < c.lists[oldest].Age {
			oldest = i
		}
	}
	c.lists = append(c.lists[:oldest], c.lists[oldest+1:]...)
}

// Len reports how many lists are currently cached.
func (c *Cache) Len() int { return len(c.lists) }
