package domain

import "fmt"

// Alignment is the horizontal placement of an image on its page.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// Image is the picture of an Image element.
//
// The document only carries an opaque id; the address of the picture is
// found in the HTML of the page the image is on, so URL stays empty unless
// the form was loaded with image resolution.
type Image struct {
	ID     string
	Width  int64
	Height int64
	// Alignment is meaningful only when HasAlignment is set.
	Alignment    Alignment
	HasAlignment bool
	URL          string
}

// Size renders the dimensions as WIDTHxHEIGHT.
func (i *Image) Size() string {
	return fmt.Sprintf("%dx%d", i.Width, i.Height)
}

// Images returns the Image elements of p that carry picture data, keyed by
// element id.
func (p *Page) Images() map[int64]*Image {
	out := map[int64]*Image{}
	for _, e := range p.Elements {
		if s, ok := e.(*Static); ok && s.Image != nil {
			out[s.Header().ID] = s.Image
		}
	}
	return out
}
