package protocol

import (
	"net/url"
	"strings"

	"github.com/aretw0/gforms/pkg/domain"
)

const resultHost = "docs.google.com"

// Result describes a successful submission.
type Result struct {
	Links domain.SubmissionLinks
	// Pages are the indices of the submitted pages, in order.
	Pages   []int
	History string
	// Requests is the number of POST requests sent.
	Requests int
}

// ParseLinks classifies the links of a confirmation page. links are the
// anchors of the block holding the first link of the page; the block is
// ignored unless that link points back to the form server.
func ParseLinks(links []string) domain.SubmissionLinks {
	var out domain.SubmissionLinks
	if len(links) == 0 {
		return out
	}
	if u, err := url.Parse(links[0]); err != nil || u.Host != resultHost {
		return out
	}
	for _, href := range links {
		switch {
		case strings.Contains(href, "viewanalytics"):
			out.Summary = href
		case strings.Contains(href, "edit2"):
			out.Edit = href
		case strings.Contains(href, "viewscore"):
			out.QuizScore = href
		default:
			out.Resubmit = href
		}
	}
	return out
}
