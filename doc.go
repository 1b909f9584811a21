/*
Package gforms is a client for Google Forms: it loads a public form, fills it
from a callback, validates the answers locally the way the form server would,
and submits them page by page.

# Usage

	form, err := gforms.Load(ctx, "https://docs.google.com/forms/d/e/.../viewform")
	if err != nil {
		log.Fatal(err)
	}

	// Answer by element; Default synthesizes a legal random value.
	err = form.Fill(ctx, func(elem domain.InputElement, page, index int) (any, error) {
		if elem.Header().Name == "Name" {
			return "Ada", nil
		}
		return domain.Default, nil
	}, false)
	if err != nil {
		log.Fatal(err)
	}

	result, err := form.Submit(ctx, gforms.SubmitOptions{})

# Values

Fill callbacks return plain Go values (string, []string, domain.Option,
time.Time, time.Duration, domain.TimeOfDay, grid rows) or one of the
sentinels domain.Default, domain.Empty and domain.Unchanged.

# Paths

Choices may route to other pages, so the pages that get filled depend on the
values. Fill and Validate walk the path chosen by the current values and
report domain.ErrInfiniteLoop when that path reaches a page twice. Submit
refuses a form whose values changed since the last successful walk.

# Submission

By default every page on the path is posted in turn, as a browser would. With
SubmitOptions.EmulateHistory only the last page is posted and the history of
the earlier pages is built locally.
*/
package gforms
