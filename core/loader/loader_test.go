package loader

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("SkipsDisabled", func(t *testing.T) {
		on := &stubFeature{name: "objects", enabled: true}
		off := &stubFeature{name: "disabled"}

		mgr := NewManager()
		mgr.Register(on)
		mgr.Register(off)

		loaded, err := mgr.LoadAll(fiber.New())
		assert.NoError(t, err)
		assert.Equal(t, []string{"objects"}, loaded)
		assert.True(t, on.loaded)
		assert.False(t, off.loaded)
	})

	t.Run("StopsOnError", func(t *testing.T) {
		bad := &stubFeature{name: "bad", enabled: true, err: assert.AnError}
		after := &stubFeature{name: "after", enabled: true}

		mgr := NewManager()
		mgr.Register(bad)
		mgr.Register(after)

		_, err := mgr.LoadAll(fiber.New())
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "bad")
		assert.False(t, after.loaded)
	})
}
