package pvr2

import (
	"math"

	"github.com/washgo/washcore/coreerr"
	"github.com/washgo/washcore/gfxil"
)

// ParamType classifies a tile-accelerator command word's top three bits,
// following the hardware's PCW (parameter control word) field naming.
type ParamType int

const (
	PTEndOfList ParamType = iota
	PTUserClip
	PTInputList
	PTHeader
	PTVertex
)

// ParamDims describes the word layout of one TA command, per spec.md §4.8's
// get_param_dims(control_word).
type ParamDims struct {
	HdrLen int // length in 32-bit words of a Header command's packet
	VtxLen int // length in 32-bit words of a Vertex command's packet
	IsVert bool
}

// control word bit layout (hardware PCW, simplified to the fields this
// simulation needs):
//
//	bits 31-29: para type (0=EOL, 1=UserClip, 2=InputList, 4=Header, 7=Vertex)
//	bits 26-24: list type, valid for Header only (selects the PolyGroup)
//	bit 23:     modifier-volume header (doubles HdrLen)
//	bit 21:     textured (doubles VtxLen for the following Vertex commands)
//	bit 20:     geometry type, valid for Header only (0=triangle strip,
//	            1=quad); selects how subsequent Vertex-type FIFO commands
//	            under this Header decode until the next Header or EndOfList
//	bit 27:     degenerate, valid for a Quad command only
const (
	pcwTypeShift   = 29
	pcwTypeMask    = 0x7
	pcwListShift   = 24
	pcwListMask    = 0x7
	pcwModVol      = 1 << 23
	pcwTextured    = 1 << 21
	pcwGeomQuad    = 1 << 20
	pcwDegenerate  = 1 << 27
)

// quadLen is the fixed word length of a Quad command: one control word,
// twelve words of packed position (four vertices x XYZ), and three words
// of packed uv (per spec.md §4.8, only three of the four uvs travel over
// the wire).
const quadLen = 16

func paramType(word uint32) ParamType {
	switch (word >> pcwTypeShift) & pcwTypeMask {
	case 0:
		return PTEndOfList
	case 1:
		return PTUserClip
	case 2:
		return PTInputList
	case 7:
		return PTVertex
	default:
		return PTHeader
	}
}

func listTypeOf(word uint32) PolyGroup {
	sel := (word >> pcwListShift) & pcwListMask
	if PolyGroup(sel) >= groupCount {
		return GroupOpaque
	}
	return PolyGroup(sel)
}

// getParamDims implements spec.md §4.8's get_param_dims: the word count of
// the command the control word introduces, derived without looking at the
// payload that follows it.
func getParamDims(word uint32) ParamDims {
	hdrLen := 8
	if word&pcwModVol != 0 {
		hdrLen = 16
	}
	vtxLen := 8
	if word&pcwTextured != 0 {
		vtxLen = 16
	}
	return ParamDims{HdrLen: hdrLen, VtxLen: vtxLen, IsVert: paramType(word) == PTVertex}
}

// fifoWords is the 64-word TA command buffer spec.md §4.8 fixes the TAFIFO
// staging area at.
const fifoWords = 64

// TA is the tile-accelerator command-stream front end: it accumulates
// 32-bit TAFIFO words into commands, classifies each by get_param_dims, and
// feeds completed Header/Vertex/EndOfList commands into the display list
// currently open at TA_VERTBUF_POS.
//
// There is no teacher analogue for a FIFO-driven hardware command decoder;
// this is grounded directly in spec.md §4.8's TA FIFO/get_param_dims/
// polygon-group state machine description.
type TA struct {
	cache     *Cache
	vertbuf   uint32
	list      *DisplayList
	group     *Group
	current   PolyGroup
	textured  bool
	quad      bool
	fifo      [fifoWords]uint32
	fifoLen   int
	need      int // words still required to complete the in-flight command
	firstWord uint32

	// onEndOfList, if set, is called with the just-submitted group's
	// PolyGroup each time an EndOfList command completes, so the owning
	// System can schedule that list's completion interrupt at TA ingest
	// time rather than at STARTRENDER time (spec.md §4.8's Completion
	// interrupts).
	onEndOfList func(pg PolyGroup)
}

// NewTA returns a TA front end writing into cache.
func NewTA(cache *Cache) *TA {
	return &TA{cache: cache}
}

// OpenList selects the display list for the given TA_VERTBUF_POS value,
// per invariant 5 (list identity is keyed on TA_VERTBUF_POS).
func (t *TA) OpenList(vertbufPos uint32) {
	t.vertbuf = vertbufPos
	t.list = t.cache.Open(vertbufPos)
	t.fifoLen = 0
	t.need = 0
}

// WriteWord feeds one 32-bit TAFIFO word. Commands longer than one word
// accumulate in the internal buffer until complete.
func (t *TA) WriteWord(word uint32) error {
	if t.list == nil {
		return coreerr.Protocolf("pvr2", "TA command word written with no list open")
	}
	if t.fifoLen == 0 {
		t.firstWord = word
		dims := getParamDims(word)
		switch paramType(word) {
		case PTEndOfList:
			t.need = 8
		case PTUserClip:
			t.need = 8
		case PTInputList:
			t.need = 8
		case PTHeader:
			t.need = dims.HdrLen
		case PTVertex:
			if t.quad {
				t.need = quadLen
			} else {
				t.need = dims.VtxLen
			}
		}
	}
	if t.fifoLen >= fifoWords {
		return coreerr.Protocolf("pvr2", "TA FIFO overflow: command exceeds %d words", fifoWords)
	}
	t.fifo[t.fifoLen] = word
	t.fifoLen++
	if t.fifoLen < t.need {
		return nil
	}
	return t.completeCommand()
}

func (t *TA) completeCommand() error {
	words := t.fifo[:t.fifoLen]
	t.fifoLen = 0
	switch paramType(t.firstWord) {
	case PTHeader:
		return t.applyHeader(words)
	case PTVertex:
		return t.applyVertex(words)
	case PTUserClip:
		return t.applyUserClip(words)
	case PTInputList:
		return nil // object-list-set commands do not affect group state here
	case PTEndOfList:
		return t.endOfList()
	}
	return nil
}

func (t *TA) applyHeader(words []uint32) error {
	pg := listTypeOf(words[0])
	g := &t.list.Groups[pg]
	switch g.State {
	case NotOpened, Submitted:
		*g = Group{State: InProgress}
	case InProgress:
		g.State = Continuation
	case Continuation:
		// a second Header mid-list is a fresh continuation segment.
	}
	t.textured = words[0]&pcwTextured != 0
	t.quad = words[0]&pcwGeomQuad != 0
	geom := GeomTriangleStrip
	if t.quad {
		geom = GeomQuad
	}
	g.Header = Header{
		Geometry:      geom,
		TextureEnable: t.textured,
		PixelFormat:   int((words[0] >> 8) & 0x7),
	}
	t.current = pg
	t.group = g
	return nil
}

func (t *TA) applyVertex(words []uint32) error {
	if t.group == nil {
		return coreerr.Protocolf("pvr2", "Vertex command with no Header open")
	}
	if t.quad {
		t.group.Quads = append(t.group.Quads, decodeQuad(words))
		return nil
	}
	v := decodeVertex(words, t.textured)
	t.group.Vertices = append(t.group.Vertices, v)
	return nil
}

func (t *TA) applyUserClip(words []uint32) error {
	if t.group == nil {
		return coreerr.Protocolf("pvr2", "UserClip command with no Header open")
	}
	t.group.Clip = gfxil.ClipRange{
		X0: int(words[4]), Y0: int(words[5]),
		X1: int(words[6]), Y1: int(words[7]),
	}
	return nil
}

func (t *TA) endOfList() error {
	if t.group == nil {
		return coreerr.Protocolf("pvr2", "EndOfList with no group open")
	}
	t.group.State = Submitted
	pg := t.current
	t.group = nil
	if t.onEndOfList != nil {
		t.onEndOfList(pg)
	}
	return nil
}

func decodeVertex(words []uint32, textured bool) gfxil.Vertex {
	v := gfxil.Vertex{
		X: math.Float32frombits(words[1]),
		Y: math.Float32frombits(words[2]),
		Z: math.Float32frombits(words[3]),
	}
	if textured && len(words) >= 8 {
		v.U = math.Float32frombits(words[4])
		v.V = math.Float32frombits(words[5])
		packColor(words[6], &v.BaseColor)
		packColor(words[7], &v.OffsColor)
	} else if len(words) >= 6 {
		packColor(words[4], &v.BaseColor)
		packColor(words[5], &v.OffsColor)
	}
	v.EndOfStrip = words[0]&(1<<28) != 0
	return v
}

// decodeQuad implements spec.md §4.8's Quad command: four packed vertex
// positions followed by three packed uv pairs (16-bit fixed-point u,v
// packed into one word apiece); the fourth uv is reconstructed as the
// parallelogram completion of the other three, since only three travel
// over the wire.
func decodeQuad(words []uint32) Quad {
	var q Quad
	idx := 1
	for i := 0; i < 4; i++ {
		q.Pos[i][0] = math.Float32frombits(words[idx])
		q.Pos[i][1] = math.Float32frombits(words[idx+1])
		q.Pos[i][2] = math.Float32frombits(words[idx+2])
		idx += 3
	}
	for i := 0; i < 3; i++ {
		packed := words[idx]
		q.UV[i][0] = float32(packed>>16) / 65535
		q.UV[i][1] = float32(packed&0xffff) / 65535
		idx++
	}
	q.UV[3][0] = q.UV[1][0] + q.UV[2][0] - q.UV[0][0]
	q.UV[3][1] = q.UV[1][1] + q.UV[2][1] - q.UV[0][1]
	q.Degenerate = words[0]&pcwDegenerate != 0
	return q
}

func packColor(word uint32, dst *[4]uint8) {
	dst[0] = uint8(word >> 16)
	dst[1] = uint8(word >> 8)
	dst[2] = uint8(word)
	dst[3] = uint8(word >> 24)
}
