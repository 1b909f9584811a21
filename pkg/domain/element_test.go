package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/validation"
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

func header(id int64, name string) domain.Header {
	return domain.Header{ID: id, Name: name}
}

func newRadio(required, withOther bool) *domain.Choice {
	var other *domain.Option
	if withOther {
		other = &domain.Option{Other: true}
	}
	return domain.NewChoice(header(1, "Radio"), domain.KindRadio, 101, required, opts("a", "b", "c"), other)
}

func allElements() []domain.InputElement {
	return []domain.InputElement{
		domain.NewText(header(1, "Short"), domain.KindShortText, 11, true, nil),
		domain.NewText(header(2, "Paragraph"), domain.KindParagraph, 12, false, nil),
		newRadio(true, true),
		domain.NewChoice(header(3, "Dropdown"), domain.KindDropdown, 13, false, opts("x", "y"), nil),
		domain.NewChoice(header(4, "Checkboxes"), domain.KindCheckboxes, 14, true, opts("x", "y"), &domain.Option{}),
		domain.NewChoice(header(5, "Scale"), domain.KindScale, 15, false, opts("1", "2", "3"), nil),
		domain.NewGrid(header(6, "RadioGrid"), []int64{16, 17}, []string{"r1", "r2"}, opts("c1", "c2"), false, true, nil),
		domain.NewGrid(header(7, "CheckboxGrid"), []int64{18, 19}, []string{"r1", "r2"}, opts("c1", "c2"), true, false, nil),
		domain.NewDate(header(8, "Date"), 20, true, false, true),
		domain.NewDate(header(9, "DateTime"), 21, false, true, false),
		domain.NewTime(header(10, "Time"), 22, false, false),
		domain.NewTime(header(11, "Duration"), 23, true, true),
		domain.NewUserEmail(),
	}
}

func TestDefaultStatePayloadIsEmpty(t *testing.T) {
	for _, elem := range allElements() {
		t.Run(elem.Kind().String(), func(t *testing.T) {
			assert.Empty(t, elem.Payload())
			assert.Empty(t, elem.Draft())

			require.NoError(t, elem.SetValue(domain.Empty))
			assert.Empty(t, elem.Payload())
		})
	}
}

func TestChoice_EmptyStringIsInvalidChoice(t *testing.T) {
	elements := []*domain.Choice{
		newRadio(false, false),
		newRadio(true, false),
		domain.NewChoice(header(2, "Dropdown"), domain.KindDropdown, 2, true, opts("x"), nil),
		domain.NewChoice(header(3, "Scale"), domain.KindScale, 3, false, opts("1", "2"), nil),
		domain.NewChoice(header(4, "Checkboxes"), domain.KindCheckboxes, 4, false, opts("x", "y"), nil),
	}
	for _, elem := range elements {
		t.Run(elem.Kind().String(), func(t *testing.T) {
			err := elem.SetValue("")
			assert.ErrorIs(t, err, domain.ErrInvalidChoice)
			assert.ErrorIs(t, err, domain.ErrElementValue)
		})
	}
}

func TestChoice_OtherPayload(t *testing.T) {
	radio := newRadio(true, true)
	require.NoError(t, radio.SetValue("X"))
	require.NoError(t, radio.Validate())

	assert.Equal(t, domain.Payload{
		"entry.101":                       {"__other_option__"},
		"entry.101.other_option_response": {"X"},
	}, radio.Payload())

	assert.Equal(t, []domain.DraftEntry{
		{nil, int64(101), []string{"__other_option__"}, 0, "X"},
	}, radio.Draft())
}

func TestChoice_OtherOption(t *testing.T) {
	t.Run("explicit other option", func(t *testing.T) {
		cb := domain.NewChoice(header(1, "Checkboxes"), domain.KindCheckboxes, 7, false, opts("a", "b"), &domain.Option{})
		require.NoError(t, cb.SetValue([]any{"a", domain.Option{Other: true, Value: "free"}}))

		assert.Equal(t, []string{"a", "__other_option__"}, cb.Payload()["entry.7"])
		assert.Equal(t, []string{"free"}, cb.Payload()["entry.7.other_option_response"])
	})

	t.Run("duplicate other", func(t *testing.T) {
		cb := domain.NewChoice(header(1, "Checkboxes"), domain.KindCheckboxes, 7, false, opts("a", "b"), &domain.Option{})
		err := cb.SetValue([]string{"one", "two"})
		assert.ErrorIs(t, err, domain.ErrDuplicateOther)
	})

	t.Run("other without other option", func(t *testing.T) {
		radio := newRadio(false, false)
		err := radio.SetValue(domain.Option{Other: true, Value: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidChoice)
	})

	t.Run("required with empty other", func(t *testing.T) {
		radio := newRadio(true, true)
		require.NoError(t, radio.SetValue(domain.Option{Other: true}))
		assert.ErrorIs(t, radio.Validate(), domain.ErrEmptyOther)
		assert.Empty(t, radio.Payload())
	})

	t.Run("optional with empty other", func(t *testing.T) {
		radio := newRadio(false, true)
		require.NoError(t, radio.SetValue(domain.Option{Other: true}))
		assert.NoError(t, radio.Validate())
	})
}

func TestChoice_SetValue(t *testing.T) {
	t.Run("radio rejects lists", func(t *testing.T) {
		err := newRadio(false, false).SetValue([]string{"a"})
		assert.ErrorIs(t, err, domain.ErrElementType)
	})

	t.Run("scale accepts ints", func(t *testing.T) {
		scale := domain.NewChoice(header(1, "Scale"), domain.KindScale, 9, true, opts("1", "2", "3"), nil)
		require.NoError(t, scale.SetValue(2))
		assert.Equal(t, domain.Payload{"entry.9": {"2"}}, scale.Payload())
	})

	t.Run("required radio", func(t *testing.T) {
		radio := newRadio(true, false)
		assert.ErrorIs(t, radio.Validate(), domain.ErrRequired)
		require.NoError(t, radio.SetValue(domain.Option{Value: "b"}))
		assert.NoError(t, radio.Validate())
	})

	t.Run("revision changes on every mutation", func(t *testing.T) {
		radio := newRadio(false, false)
		before := radio.Revision()
		require.NoError(t, radio.SetValue("a"))
		assert.Greater(t, radio.Revision(), before)
	})

	t.Run("failed set keeps the previous value", func(t *testing.T) {
		radio := newRadio(false, false)
		require.NoError(t, radio.SetValue("a"))
		require.Error(t, radio.SetValue("zzz"))
		assert.Equal(t, []string{"a"}, radio.Selected())
	})
}

func TestCheckboxes_ExactlyTwoOfThree(t *testing.T) {
	cb := domain.NewChoice(header(1, "Checkboxes"), domain.KindCheckboxes, 5, true, opts("a", "b", "c"), nil)
	cb.Validator = validation.New(validation.TypeCheckbox, validation.CheckboxExactly, []any{2}, "")

	require.NoError(t, cb.SetValue([]string{"a"}))
	assert.ErrorIs(t, cb.Validate(), domain.ErrInvalidChoiceCount)

	require.NoError(t, cb.SetValue([]string{"a", "c"}))
	assert.NoError(t, cb.Validate())

	require.NoError(t, cb.SetValue([]string{"a", "b", "c"}))
	assert.ErrorIs(t, cb.Validate(), domain.ErrInvalidChoiceCount)
}

func TestCheckboxes_EmptyOtherIsNotCounted(t *testing.T) {
	cb := domain.NewChoice(header(1, "Checkboxes"), domain.KindCheckboxes, 10, false, opts("A", "B"), &domain.Option{})
	cb.Validator = validation.New(validation.TypeCheckbox, validation.CheckboxExactly, []any{2}, "")

	require.NoError(t, cb.SetValue([]string{"A", ""}))
	assert.ErrorIs(t, cb.Validate(), domain.ErrInvalidChoiceCount)
	assert.Equal(t, domain.Payload{"entry.10": {"A"}}, cb.Payload())

	require.NoError(t, cb.SetValue([]string{"A", "mine"}))
	assert.NoError(t, cb.Validate())
	assert.Len(t, cb.Payload()["entry.10"], 2)
}

func TestGrid_SetValue(t *testing.T) {
	newGrid := func(multi bool) *domain.Grid {
		return domain.NewGrid(header(1, "Grid"), []int64{1, 2}, []string{"r1", "r2"}, opts("c1", "c2"), multi, true, nil)
	}

	t.Run("row count mismatch", func(t *testing.T) {
		err := newGrid(false).SetValue([]string{"c1"})
		assert.ErrorIs(t, err, domain.ErrRowMismatch)
	})

	t.Run("row type error names the row", func(t *testing.T) {
		err := newGrid(false).SetValue([]any{"c1", []string{"c1", "c2"}})
		require.ErrorIs(t, err, domain.ErrElementType)

		var elemErr *domain.ElementError
		require.True(t, errors.As(err, &elemErr))
		assert.Equal(t, 1, elemErr.Row)
		assert.Equal(t, "r2", elemErr.RowName)
	})

	t.Run("invalid row choice", func(t *testing.T) {
		err := newGrid(true).SetValue([]any{[]string{"c1", "nope"}, domain.Empty})
		require.ErrorIs(t, err, domain.ErrInvalidChoice)

		var elemErr *domain.ElementError
		require.True(t, errors.As(err, &elemErr))
		assert.Equal(t, 0, elemErr.Row)
	})

	t.Run("required row", func(t *testing.T) {
		g := newGrid(false)
		require.NoError(t, g.SetValue([]any{"c1", domain.Empty}))
		err := g.Validate()
		require.ErrorIs(t, err, domain.ErrRequired)

		var elemErr *domain.ElementError
		require.True(t, errors.As(err, &elemErr))
		assert.Equal(t, "r2", elemErr.RowName)
	})

	t.Run("payload per row", func(t *testing.T) {
		g := newGrid(true)
		require.NoError(t, g.SetValue([]any{[]string{"c1", "c2"}, "c2"}))
		assert.Equal(t, domain.Payload{
			"entry.1": {"c1", "c2"},
			"entry.2": {"c2"},
		}, g.Payload())
	})
}

func TestGrid_IsMisconfigured(t *testing.T) {
	for _, required := range []bool{false, true} {
		for _, multi := range []bool{false, true} {
			for cols := 1; cols <= 3; cols++ {
				for rows := 1; rows <= 3; rows++ {
					ids := make([]int64, rows)
					names := make([]string, rows)
					for i := range ids {
						ids[i] = int64(i + 1)
						names[i] = "row"
					}
					columns := opts("a", "b", "c")[:cols]
					g := domain.NewGrid(header(1, "Grid"), ids, names, columns, multi, required, nil)
					want := required && !multi && cols < rows
					assert.Equal(t, want, g.IsMisconfigured(), "required=%v multi=%v cols=%d rows=%d", required, multi, cols, rows)
				}
			}
		}
	}
}

func TestGrid_ExclusiveColumns(t *testing.T) {
	g := domain.NewGrid(header(1, "Grid"), []int64{1, 2, 3}, []string{"r1", "r2", "r3"}, opts("a", "b"), false, true,
		validation.New(validation.TypeGrid, validation.GridExclusive, nil, ""))
	require.NoError(t, g.SetValue([]string{"a", "b", "a"}))
	assert.ErrorIs(t, g.Validate(), domain.ErrMisconfigured)

	t.Run("checkbox grid with fewer columns than rows", func(t *testing.T) {
		g := domain.NewGrid(header(2, "Grid"), []int64{1, 2, 3}, []string{"r1", "r2", "r3"}, opts("a", "b"), true, true,
			validation.New(validation.TypeGrid, validation.GridExclusive, nil, ""))
		assert.False(t, g.IsMisconfigured())
		require.NoError(t, g.SetValue([]any{[]string{"a"}, []string{"b"}, domain.Empty}))
		err := g.Validate()
		assert.ErrorIs(t, err, domain.ErrMisconfigured)
		assert.NotErrorIs(t, err, domain.ErrRequired)
	})
}

func TestText(t *testing.T) {
	t.Run("short text rejects newlines", func(t *testing.T) {
		short := domain.NewText(header(1, "Short"), domain.KindShortText, 1, false, nil)
		require.NoError(t, short.SetValue("a\nb"))
		assert.ErrorIs(t, short.Validate(), domain.ErrInvalidText)
	})

	t.Run("paragraph accepts newlines", func(t *testing.T) {
		p := domain.NewText(header(1, "Paragraph"), domain.KindParagraph, 1, false, nil)
		require.NoError(t, p.SetValue("a\nb"))
		assert.NoError(t, p.Validate())
	})

	t.Run("validator", func(t *testing.T) {
		short := domain.NewText(header(1, "Short"), domain.KindShortText, 1, false,
			validation.New(validation.TypeNumber, validation.NumberIsInt, nil, ""))
		require.NoError(t, short.SetValue("1.5"))
		assert.ErrorIs(t, short.Validate(), domain.ErrInvalidValue)
		assert.ErrorIs(t, short.Validate(), domain.ErrValidation)
	})

	t.Run("wrong type", func(t *testing.T) {
		short := domain.NewText(header(1, "Short"), domain.KindShortText, 1, false, nil)
		assert.ErrorIs(t, short.SetValue(42), domain.ErrElementType)
	})
}

func TestDateAndTime(t *testing.T) {
	t.Run("date parts", func(t *testing.T) {
		d := domain.NewDate(header(1, "Date"), 5, true, false, true)
		require.NoError(t, d.SetValue(time.Date(2024, time.March, 7, 13, 45, 0, 0, time.UTC)))
		assert.Equal(t, domain.Payload{
			"entry.5_year":  {"2024"},
			"entry.5_month": {"3"},
			"entry.5_day":   {"7"},
		}, d.Payload())
	})

	t.Run("datetime without year", func(t *testing.T) {
		d := domain.NewDate(header(1, "DateTime"), 5, true, true, false)
		require.NoError(t, d.SetValue(time.Date(2024, time.March, 7, 13, 45, 0, 0, time.UTC)))
		assert.Equal(t, domain.Payload{
			"entry.5_month":  {"3"},
			"entry.5_day":    {"7"},
			"entry.5_hour":   {"13"},
			"entry.5_minute": {"45"},
		}, d.Payload())
	})

	t.Run("duration bounds", func(t *testing.T) {
		d := domain.NewTime(header(1, "Duration"), 6, true, true)
		assert.ErrorIs(t, d.SetValue(73*time.Hour), domain.ErrInvalidDuration)
		assert.ErrorIs(t, d.SetValue(-time.Second), domain.ErrInvalidDuration)
		require.NoError(t, d.SetValue(72*time.Hour+59*time.Minute+59*time.Second))
		assert.Equal(t, domain.Payload{
			"entry.6_hour":   {"72"},
			"entry.6_minute": {"59"},
			"entry.6_second": {"59"},
		}, d.Payload())
	})

	t.Run("time of day", func(t *testing.T) {
		tm := domain.NewTime(header(1, "Time"), 7, true, false)
		assert.ErrorIs(t, tm.Validate(), domain.ErrRequired)
		require.NoError(t, tm.SetValue(domain.TimeOfDay{Hour: 9, Minute: 5}))
		assert.NoError(t, tm.Validate())
		assert.Equal(t, []string{"09:05"}, tm.Answer())
		assert.ErrorIs(t, tm.SetValue(time.Minute), domain.ErrElementType)
	})
}

func TestUserEmail(t *testing.T) {
	u := domain.NewUserEmail()
	assert.ErrorIs(t, u.Validate(), domain.ErrRequired)

	require.NoError(t, u.SetValue("not-an-email"))
	assert.ErrorIs(t, u.Validate(), domain.ErrInvalidValue)

	require.NoError(t, u.SetValue("someone@example.com"))
	assert.NoError(t, u.Validate())
	assert.Equal(t, domain.Payload{"emailAddress": {"someone@example.com"}}, u.Payload())
}

func TestPrefill(t *testing.T) {
	data := map[int64][]string{
		101: {"b"},
		14:  {"x", "custom"},
	}
	radio := newRadio(false, true)
	require.NoError(t, radio.Prefill(data))
	assert.Equal(t, []string{"b"}, radio.Selected())

	cb := domain.NewChoice(header(4, "Checkboxes"), domain.KindCheckboxes, 14, true, opts("x", "y"), &domain.Option{})
	require.NoError(t, cb.Prefill(data))
	other, ok := cb.OtherValue()
	assert.True(t, ok)
	assert.Equal(t, "custom", other)
}
