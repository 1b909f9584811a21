package answers_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/gforms/internal/answers"
	"github.com/aretw0/gforms/internal/runtime"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opts(values ...string) []domain.Option {
	out := make([]domain.Option, len(values))
	for i, v := range values {
		out[i] = domain.Option{Value: v}
	}
	return out
}

func TestRead(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		f, err := answers.Read(strings.NewReader("fill_optional: true\nanswers:\n  Name: Ada\n  123: 4\n"))
		require.NoError(t, err)
		assert.True(t, f.FillOptional)
		assert.Equal(t, "Ada", f.Answers["Name"])
		assert.Equal(t, 4, f.Answers["123"])
	})

	t.Run("empty document", func(t *testing.T) {
		f, err := answers.Read(strings.NewReader(""))
		require.NoError(t, err)
		assert.False(t, f.FillOptional)
		assert.Empty(t, f.Answers)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := answers.Read(strings.NewReader("answer: {}\n"))
		assert.Error(t, err)
	})

	t.Run("not yaml", func(t *testing.T) {
		_, err := answers.Read(strings.NewReader("answers: [\n"))
		assert.Error(t, err)
	})
}

func TestConvert(t *testing.T) {
	text := domain.NewText(domain.Header{ID: 1, Name: "Text"}, domain.KindShortText, 11, false, nil)
	radio := domain.NewChoice(domain.Header{ID: 2}, domain.KindRadio, 12, false, opts("1", "b"), &domain.Option{Other: true})
	scale := domain.NewChoice(domain.Header{ID: 3}, domain.KindScale, 13, false, opts("1", "2", "3"), nil)
	boxes := domain.NewChoice(domain.Header{ID: 4}, domain.KindCheckboxes, 14, false, opts("a", "b"), &domain.Option{Other: true})
	grid := domain.NewGrid(domain.Header{ID: 5}, []int64{15, 16}, []string{"r1", "r2"}, opts("a", "b"), true, false, nil)
	date := domain.NewDate(domain.Header{ID: 6}, 17, false, false, true)
	clock := domain.NewTime(domain.Header{ID: 7}, 18, false, false)
	dur := domain.NewTime(domain.Header{ID: 8}, 19, false, true)

	tests := []struct {
		name string
		elem domain.InputElement
		raw  any
		want any
	}{
		{"null clears", text, nil, domain.Empty},
		{"sentinel", text, "UNCHANGED", domain.Unchanged},
		{"text from number", text, 3.5, "3.5"},
		{"choice from int", radio, 1, "1"},
		{"scale keeps int", scale, 2, 2},
		{"other option", radio, map[string]any{"other": "teal"}, domain.Option{Value: "teal", Other: true}},
		{"checkbox list", boxes, []any{"a", map[string]any{"other": "c"}}, []any{"a", domain.Option{Value: "c", Other: true}}},
		{"grid list", grid, []any{"a", []any{"a", "b"}}, []any{"a", []string{"a", "b"}}},
		{"grid by row", grid, map[string]any{"r2": "b"}, []any{domain.Empty, "b"}},
		{"date", date, "1990-05-17", time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)},
		{"time", clock, "07:45", domain.TimeOfDay{Hour: 7, Minute: 45}},
		{"duration clock", dur, "01:02:03", time.Hour + 2*time.Minute + 3*time.Second},
		{"duration string", dur, "90m", 90 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := answers.Convert(tt.elem, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.want != domain.Unchanged {
				assert.NoError(t, tt.elem.SetValue(got))
			}
		})
	}

	errs := []struct {
		name string
		elem domain.InputElement
		raw  any
	}{
		{"text from list", text, []any{"a"}},
		{"bad other", radio, map[string]any{"x": "y"}},
		{"unknown row", grid, map[string]any{"r3": "a"}},
		{"bad date", date, "yesterday"},
		{"bad time", clock, "25h"},
		{"bad duration", dur, "1:xx:00"},
	}
	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := answers.Convert(tt.elem, tt.raw)
			assert.ErrorIs(t, err, answers.ErrAnswer)
		})
	}
}

func TestCallback(t *testing.T) {
	form := domain.NewForm()
	name := domain.NewText(domain.Header{ID: 1, Name: "Name"}, domain.KindShortText, 11, true, nil)
	color := domain.NewChoice(domain.Header{ID: 2, Name: "Colour"}, domain.KindRadio, 12, true, opts("red", "blue"), nil)
	form.LastPage().Append(name)
	form.LastPage().Append(color)
	domain.ResolveGraph(form.Pages)

	f, err := answers.Read(strings.NewReader("answers:\n  Name: Ada\n  \"2\": blue\n"))
	require.NoError(t, err)

	m := runtime.NewMachine(form)
	require.NoError(t, m.Fill(context.Background(), f.Callback(), f.FillOptional))
	assert.Equal(t, "Ada", name.Value())
	assert.Equal(t, []string{"blue"}, color.Selected())
	assert.True(t, m.IsValidated())

	t.Run("conversion error names the element", func(t *testing.T) {
		bad, err := answers.Read(strings.NewReader("answers:\n  Name: [a, b]\n"))
		require.NoError(t, err)
		err = runtime.NewMachine(form).Fill(context.Background(), bad.Callback(), false)
		assert.ErrorIs(t, err, answers.ErrAnswer)
		assert.Contains(t, err.Error(), `"Name"`)
	})
}
