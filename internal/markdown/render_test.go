package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	t.Run("formats emphasis", func(t *testing.T) {
		html, err := r.Render("A **great** film")
		require.NoError(t, err)
		assert.Contains(t, html, "<strong>great</strong>")
	})

	t.Run("drops scripts", func(t *testing.T) {
		html, err := r.Render("hi <script>alert(1)</script>")
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
	})

	t.Run("marks links nofollow", func(t *testing.T) {
		html, err := r.Render("[site](https://example.com)")
		require.NoError(t, err)
		assert.Contains(t, html, `rel="nofollow`)
	})
}
