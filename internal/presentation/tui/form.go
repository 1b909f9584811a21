package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// sanitize strips the markup the form owner may have put into names and
// descriptions.
func sanitize(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// FormMarkdown renders a form as markdown: one section per page, one list
// item per element. With withAnswers the current values are listed under
// each input element, otherwise its hints are.
func FormMarkdown(f *domain.Form, withAnswers bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", sanitize(f.Title))
	if d := sanitize(f.Description); d != "" {
		fmt.Fprintf(&b, "%s\n\n", d)
	}
	for _, p := range f.Pages {
		fmt.Fprintf(&b, "## %s\n\n", sanitize(p.Title()))
		for _, e := range p.Elements {
			writeElement(&b, e, withAnswers)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeElement(b *strings.Builder, e domain.Element, withAnswers bool) {
	h := e.Header()
	name := sanitize(h.Name)
	if name == "" {
		name = "_untitled_"
	}

	in, ok := e.(domain.InputElement)
	if !ok {
		fmt.Fprintf(b, "- %s _(%s)_", name, e.Kind())
		if s, isStatic := e.(*domain.Static); isStatic {
			if s.Image != nil {
				fmt.Fprintf(b, " %s", s.Image.Size())
			}
			if s.URL() != "" {
				fmt.Fprintf(b, " <%s>", s.URL())
			}
		}
		b.WriteString("\n")
		return
	}

	marker := ""
	if in.Required() {
		marker = " *"
	}
	fmt.Fprintf(b, "- **%s**%s _(%s)_\n", name, marker, e.Kind())
	if d := sanitize(h.Description); d != "" {
		fmt.Fprintf(b, "  > %s\n", strings.ReplaceAll(d, "\n", " "))
	}
	lines := in.Hints()
	if withAnswers {
		lines = in.Answer()
	}
	for _, l := range lines {
		fmt.Fprintf(b, "  - `%s`\n", l)
	}
}
