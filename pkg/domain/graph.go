package domain

import "fmt"

// ResolveGraph links pages to their default successors and resolves the
// targets of action options. It must run once, after every page has been
// appended. Unknown target ids are ignored and reported in the returned
// warnings.
func ResolveGraph(pages []*Page) []error {
	mapping := make(map[int64]*Page, len(pages)+1)
	for _, p := range pages {
		mapping[p.head.ID] = p
	}
	mapping[ActionSubmit] = SubmitPage

	var warnings []error
	for i, page := range pages {
		var successor *Page
		if i+1 < len(pages) {
			successor = pages[i+1]
		}
		warnings = append(warnings, resolveOptions(page, successor, mapping)...)
		if successor == nil {
			continue
		}
		switch successor.PrevAction {
		case ActionSubmit:
			page.hasDefaultNext = false
		case ActionNext:
			page.next = successor
		default:
			page.hasDefaultNext = false
			target, ok := mapping[successor.PrevAction]
			if !ok {
				warnings = append(warnings, fmt.Errorf("page %d: unknown target page %d", page.Index+1, successor.PrevAction))
				continue
			}
			page.next = target
		}
	}
	return warnings
}

func resolveOptions(page, successor *Page, mapping map[int64]*Page) []error {
	var warnings []error
	for _, e := range page.Elements {
		c, ok := e.(*Choice)
		if !ok {
			continue
		}
		for _, opt := range c.actionOptions() {
			opt.Target = nil
			if !opt.HasAction || successor == nil {
				continue
			}
			if opt.Action == ActionNext {
				opt.Target = successor
				continue
			}
			target, ok := mapping[opt.Action]
			if !ok {
				warnings = append(warnings, fmt.Errorf("option %q: unknown target page %d", opt.Value, opt.Action))
				continue
			}
			opt.Target = target
		}
	}
	return warnings
}
