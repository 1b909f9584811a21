package dto_test

import (
	"testing"

	"github.com/aretw0/gforms/internal/dto"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromForm(t *testing.T) {
	form := domain.NewForm()
	form.Title = "Survey"
	form.Settings.SendReceipt = domain.ReceiptAlways
	name := domain.NewText(domain.Header{ID: 1, Name: "Name"}, domain.KindShortText, 11, true, nil)
	form.LastPage().Append(name)
	form.AddPage(domain.NewPage(domain.Header{ID: 200, Name: "More"}, domain.ActionNext))
	video := domain.NewStatic(domain.Header{ID: 2, Name: "Intro"}, domain.KindVideo)
	video.Link = "abc"
	form.LastPage().Append(video)
	chart := domain.NewStatic(domain.Header{ID: 3, Name: "Chart"}, domain.KindImage)
	chart.Image = &domain.Image{ID: "c", Width: 300, Height: 200}
	form.LastPage().Append(chart)
	domain.ResolveGraph(form.Pages)
	require.NoError(t, name.SetValue("Ada"))

	t.Run("structure", func(t *testing.T) {
		got := dto.FromForm(form, false)
		assert.Equal(t, "Survey", got.Title)
		assert.Equal(t, "always", got.Settings.Receipt)
		require.Len(t, got.Pages, 2)
		require.NotNil(t, got.Pages[0].Next)
		assert.Equal(t, 1, *got.Pages[0].Next)
		assert.Nil(t, got.Pages[1].Next)
		assert.Equal(t, "Page 2: More", got.Pages[1].Title)

		elem := got.Pages[0].Elements[0]
		assert.Equal(t, []int64{11}, elem.Entries)
		assert.True(t, elem.Required)
		assert.Empty(t, elem.Answer)

		assert.Equal(t, "https://youtu.be/abc", got.Pages[1].Elements[0].URL)
		assert.Equal(t, "300x200", got.Pages[1].Elements[1].Size)
		assert.Empty(t, got.Pages[1].Elements[1].URL)
	})

	t.Run("answers", func(t *testing.T) {
		got := dto.FromForm(form, true)
		assert.Equal(t, []string{`"Ada"`}, got.Pages[0].Elements[0].Answer)
	})
}
