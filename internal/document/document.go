package document

// TextBlock is a single text span extracted from a document page, with its
// bounding box in document point-space (top-left origin). Blocks are built
// once per load and never mutated.
type TextBlock struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Page   int     `json:"page"`
}

// CenterX returns the horizontal center of the block.
func (b TextBlock) CenterX() float64 {
	return b.X + b.Width/2
}

// CenterY returns the vertical center of the block.
func (b TextBlock) CenterY() float64 {
	return b.Y + b.Height/2
}

// PageSize is a page's dimensions in points.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Letter-size default used when a page reports no dimensions.
var defaultPageSize = PageSize{Width: 612, Height: 792}

// Document holds everything the extraction core needs from a loaded file:
// positioned text blocks, rendered page images for the mapping UI, and page
// sizes for coordinate conversion. A nil entry in PageImages means the page
// could not be rendered and the UI must fall back to text-only mapping.
type Document struct {
	Blocks      []TextBlock
	PageImages  [][]byte // PNG bytes per page, nil entries allowed
	PageSizes   []PageSize
	ScaleFactor float64
	// Diagnostic carries a human-readable warning about a degraded load
	// (missing text layer, no rasterizer). Empty on a clean load.
	Diagnostic string
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if len(d.PageSizes) > len(d.PageImages) {
		return len(d.PageSizes)
	}
	return len(d.PageImages)
}

// PageImage returns the rendered PNG for a page, or nil if the page has no
// rendered image.
func (d *Document) PageImage(page int) []byte {
	if page < 0 || page >= len(d.PageImages) {
		return nil
	}
	return d.PageImages[page]
}

// Size returns a page's dimensions in points, defaulting to US letter when
// the page reported none.
func (d *Document) Size(page int) PageSize {
	if page < 0 || page >= len(d.PageSizes) {
		return defaultPageSize
	}
	return d.PageSizes[page]
}

// ScaledSize returns a page's dimensions multiplied by the render scale
// factor, matching the pixel size of PageImage.
func (d *Document) ScaledSize(page int) (int, int) {
	s := d.Size(page)
	return int(s.Width * d.ScaleFactor), int(s.Height * d.ScaleFactor)
}

// HasTextLayer reports whether any text blocks were extracted for the page.
func (d *Document) HasTextLayer(page int) bool {
	for _, b := range d.Blocks {
		if b.Page == page {
			return true
		}
	}
	return false
}

// TextOnly reports whether the document loaded without any rendered page
// images, meaning visual coordinate mapping is unavailable.
func (d *Document) TextOnly() bool {
	for _, img := range d.PageImages {
		if img != nil {
			return false
		}
	}
	return true
}

// BlocksOnPage returns the text blocks belonging to a single page.
func (d *Document) BlocksOnPage(page int) []TextBlock {
	var blocks []TextBlock
	for _, b := range d.Blocks {
		if b.Page == page {
			blocks = append(blocks, b)
		}
	}
	return blocks
}
