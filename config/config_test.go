package config_test

import (
	"strings"
	"testing"

	"github.com/washgo/washcore/config"
	"github.com/washgo/washcore/internal/assert"
)

// spec.md §8 scenario 6.
func TestConfigScenario(t *testing.T) {
	s := config.New()
	err := s.Parse(strings.NewReader("ui.bgcolor #3d77c0\nwin.vsync false\n"))
	assert.Success(t, err)

	rgb, ok := s.GetRGB("ui.bgcolor")
	assert.Success(t, ok)
	assert.Equate(t, rgb, config.RGB{R: 0x3d, G: 0x77, B: 0xc0})

	vsync, ok := s.GetBool("win.vsync")
	assert.Success(t, ok)
	assert.Equate(t, vsync, false)
}

func TestCommentsAndBlankLines(t *testing.T) {
	s := config.New()
	err := s.Parse(strings.NewReader("; a comment\n\nkey value ; trailing comment\n"))
	assert.Success(t, err)

	v, ok := s.Get("key")
	assert.Success(t, ok)
	assert.Equate(t, v, "value")
}

func TestDuplicateKeysOverwrite(t *testing.T) {
	s := config.New()
	s.Set("k", "first")
	s.Set("k", "second")
	v, _ := s.Get("k")
	assert.Equate(t, v, "second")
	assert.Equate(t, len(s.Keys()), 1)
}

func TestOnChangeCallback(t *testing.T) {
	s := config.New()
	var got []string
	s.OnChange(func(key, value string) {
		got = append(got, key+"="+value)
	})
	s.Set("a", "1")
	s.Set("a", "1") // unchanged, no callback
	s.Set("a", "2")
	assert.Equate(t, got, []string{"a=1", "a=2"})
}

func TestSectionDottedPath(t *testing.T) {
	s := config.New()
	s.Set("dc.ctrl.p0_0.a", "js0.button0")
	s.Set("dc.ctrl.p0_0.b", "js0.button1")
	s.Set("dc.ctrl.p0_1.a", "js1.button0")

	sect := s.Section("dc.ctrl.p0_0")
	assert.Equate(t, len(sect), 2)
	assert.Equate(t, sect["a"], "js0.button0")
}

func TestRoundTripWrite(t *testing.T) {
	s := config.New()
	s.Set("win.vsync", "true")
	var b strings.Builder
	assert.Success(t, s.Write(&b))

	s2 := config.New()
	assert.Success(t, s2.Parse(strings.NewReader(b.String())))
	v, ok := s2.GetBool("win.vsync")
	assert.Success(t, ok)
	assert.Equate(t, v, true)
}
