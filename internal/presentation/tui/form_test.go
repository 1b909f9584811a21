package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/gforms/internal/presentation/tui"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForm(t *testing.T) (*domain.Form, *domain.Text) {
	t.Helper()
	form := domain.NewForm()
	form.Title = "Feedback <b>2026</b>"
	form.Description = "Tell us <script>alert(1)</script>what you think"
	name := domain.NewText(domain.Header{ID: 1, Name: "Name", Description: "Your <i>full</i> name"}, domain.KindShortText, 11, true, nil)
	form.LastPage().Append(name)
	form.LastPage().Append(domain.NewStatic(domain.Header{ID: 2, Name: "Thanks"}, domain.KindComment))
	logo := domain.NewStatic(domain.Header{ID: 3, Name: "Logo"}, domain.KindImage)
	logo.Image = &domain.Image{ID: "c1", Width: 64, Height: 32, URL: "https://example.com/logo.png"}
	form.LastPage().Append(logo)
	domain.ResolveGraph(form.Pages)
	return form, name
}

func TestFormMarkdown(t *testing.T) {
	form, name := sampleForm(t)

	t.Run("structure", func(t *testing.T) {
		md := tui.FormMarkdown(form, false)
		assert.Contains(t, md, "# Feedback 2026\n")
		assert.Contains(t, md, "Tell us what you think")
		assert.NotContains(t, md, "<script>")
		assert.Contains(t, md, "## Page 1\n")
		assert.Contains(t, md, "- **Name** * _(Short)_")
		assert.Contains(t, md, "  > Your full name")
		assert.Contains(t, md, "- Thanks _(Comment)_")
		assert.Contains(t, md, "- Logo _(Image)_ 64x32 <https://example.com/logo.png>")
	})

	t.Run("answers", func(t *testing.T) {
		md := tui.FormMarkdown(form, true)
		assert.Contains(t, md, "`EMPTY`")

		require.NoError(t, name.SetValue("Ada"))
		md = tui.FormMarkdown(form, true)
		assert.Contains(t, md, "`\"Ada\"`")
	})
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "|___/")
	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("# Title")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}
