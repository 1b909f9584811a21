package inspect_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/gforms/internal/answers"
	"github.com/aretw0/gforms/internal/inspect"
	"github.com/aretw0/gforms/internal/inspect/inspecttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspector(t *testing.T) {
	engine := inspecttest.NewEngine(t)
	in := inspect.New(engine, nil)

	t.Run("describe", func(t *testing.T) {
		form := in.Describe(false)
		assert.Equal(t, "Survey", form.Title)
		require.Len(t, form.Pages, 3)
		assert.Equal(t, inspecttest.URL, in.URL())
	})

	t.Run("graph", func(t *testing.T) {
		g := in.Graph()
		assert.Contains(t, g, "graph TD")
		assert.Contains(t, g, `p0 -. "Route: skip" .-> p2`)
	})

	t.Run("valid answers", func(t *testing.T) {
		f, err := answers.Read(strings.NewReader("answers:\n  Route: skip\n  Extra: hi\n"))
		require.NoError(t, err)
		report := in.Validate(context.Background(), f)
		assert.True(t, report.Valid)
		assert.Empty(t, report.Error)
		assert.Equal(t, []int{0, 2}, report.Path)
		assert.Equal(t, []string{`"hi"`}, report.Form.Pages[2].Elements[0].Answer)
	})

	t.Run("answers do not leak", func(t *testing.T) {
		form := in.Describe(true)
		assert.Equal(t, []string{"EMPTY"}, form.Pages[2].Elements[0].Answer)
	})

	t.Run("invalid answers", func(t *testing.T) {
		f, err := answers.Read(strings.NewReader("answers:\n  Route: go\n"))
		require.NoError(t, err)
		report := in.Validate(context.Background(), f)
		assert.False(t, report.Valid)
		assert.Contains(t, report.Error, "Name")
		assert.Equal(t, []int{0, 1}, report.Path)
	})
}
