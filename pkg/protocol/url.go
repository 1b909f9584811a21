package protocol

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/goccy/go-json"
)

const (
	queryUsp     = "usp"
	queryEdit    = "edit2"
	prefillUsp   = "pp_url"
	entryPrefix  = "entry."
	responsePath = "formResponse"
)

var viewformTail = regexp.MustCompile(`viewform.*$`)

// Target is what a form URL says about the form it points to.
type Target struct {
	// Prefilled holds the entry values of a prefill link.
	Prefilled map[int64][]string
	// Edit is set for links that edit an existing response.
	Edit bool
}

// ParseURL checks that rawURL points to a form and extracts prefilled data.
func ParseURL(rawURL string) (Target, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.HasSuffix(u.Path, "viewform") {
		return Target{}, domain.NewAccessError(rawURL, domain.ErrInvalidURL)
	}
	query := u.Query()
	t := Target{Prefilled: map[int64][]string{}, Edit: query.Has(queryEdit)}
	if query.Get(queryUsp) != prefillUsp {
		return t, nil
	}
	for key, values := range query {
		if !strings.HasPrefix(key, entryPrefix) {
			continue
		}
		id, err := strconv.ParseInt(key[len(entryPrefix):], 10, 64)
		if err != nil {
			continue
		}
		t.Prefilled[id] = values
	}
	return t, nil
}

// ResponseURL returns the URL pages of the form at rawURL are posted to.
// Only the edit2 query parameter survives.
func ResponseURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", domain.NewAccessError(rawURL, domain.ErrInvalidURL)
	}
	u.Path = viewformTail.ReplaceAllString(u.Path, responsePath)
	u.RawPath = ""
	query := url.Values{}
	if edit, ok := u.Query()[queryEdit]; ok {
		query[queryEdit] = edit
	}
	u.RawQuery = query.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// PrefillFromDraft extracts the answers of an edited response from its draft.
func PrefillFromDraft(draft string) (map[int64][]string, error) {
	var data []any
	if err := json.Unmarshal([]byte(draft), &data); err != nil {
		return nil, fmt.Errorf("%w: draft: %w", domain.ErrParse, err)
	}
	out := map[int64][]string{}
	if len(data) == 0 {
		return out, nil
	}
	entries, _ := data[0].([]any)
	for _, raw := range entries {
		entry, ok := raw.([]any)
		if !ok || len(entry) < 3 {
			continue
		}
		id, ok := entry[1].(float64)
		if !ok {
			continue
		}
		values, _ := entry[2].([]any)
		strs := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.(string); ok {
				strs = append(strs, s)
			}
		}
		out[int64(id)] = strs
	}
	if len(data) > 6 {
		if email, ok := data[6].(string); ok {
			out[domain.UserEmailEntryID] = []string{email}
		}
	}
	return out, nil
}
