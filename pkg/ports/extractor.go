package ports

// Extractor reads the fragments of a form page the protocol relies on.
type Extractor interface {
	// HiddenInput returns the value of the named hidden input.
	HiddenInput(body []byte, name string) (string, bool)

	// EmbeddedJSON returns the form document assigned to FB_PUBLIC_LOAD_DATA_.
	EmbeddedJSON(body []byte) ([]byte, bool)

	// Links returns the hrefs of the anchors sharing the enclosing block of
	// the first anchor of the page, in document order.
	Links(body []byte) []string

	// Images maps the item id of every image element of the page to the
	// source of its first picture.
	Images(body []byte) map[int64]string
}
