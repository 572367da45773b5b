package document

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// Loader decodes a source file into a Document: positioned text blocks,
// rendered page images, and page sizes.
type Loader interface {
	Load(path string) (*Document, error)
}

// Span grouping constants, in multiples of the span's font size.
const (
	spanGapMultiplier  = 1.2 // horizontal gap that splits a line into blocks
	wordGapMultiplier  = 0.3 // horizontal gap that inserts a space
	lineTolerancePts   = 2.0 // vertical tolerance for grouping into a line
	fallbackFontHeight = 12.0
)

// FitzLoader loads PDFs using MuPDF for page rendering and sizes, with a
// pure-Go parser for the positioned text layer. Image files (photos of
// bills) load as a single image-only page with no text layer.
type FitzLoader struct {
	// ScaleFactor is the render scale for page images, relative to 72 DPI.
	ScaleFactor float64
}

// NewFitzLoader returns a loader rendering pages at 2x for display clarity.
func NewFitzLoader() *FitzLoader {
	return &FitzLoader{ScaleFactor: 2.0}
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".heic": true, ".heif": true,
}

// Load decodes the file at path. Degraded loads (no text layer, no
// rasterizer) return a Document with a Diagnostic message rather than an
// error; only an unreadable file is a hard failure.
func (l *FitzLoader) Load(path string) (*Document, error) {
	if imageExtensions[strings.ToLower(filepath.Ext(path))] {
		return l.loadImage(path)
	}
	return l.loadPDF(path)
}

func (l *FitzLoader) loadPDF(path string) (*Document, error) {
	fdoc, err := fitz.New(path)
	if err != nil {
		// No rasterizer for this file; try the text layer alone so the
		// caller can still run anchor-based extraction.
		doc, textErr := l.loadTextOnly(path)
		if textErr != nil {
			return nil, fmt.Errorf("opening document: %w", err)
		}
		doc.Diagnostic = fmt.Sprintf("loaded in text-only mode, no page rendering: %v", err)
		return doc, nil
	}
	defer fdoc.Close()

	doc := &Document{ScaleFactor: l.ScaleFactor}
	for n := 0; n < fdoc.NumPage(); n++ {
		size := defaultPageSize
		if bound, err := fdoc.Bound(n); err == nil {
			size = PageSize{Width: float64(bound.Dx()), Height: float64(bound.Dy())}
		}
		doc.PageSizes = append(doc.PageSizes, size)

		img, err := fdoc.ImageDPI(n, 72*l.ScaleFactor)
		if err != nil {
			doc.PageImages = append(doc.PageImages, nil)
			continue
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			doc.PageImages = append(doc.PageImages, nil)
			continue
		}
		doc.PageImages = append(doc.PageImages, buf.Bytes())
	}

	blocks, err := extractTextBlocks(path, doc.PageSizes)
	switch {
	case err != nil:
		doc.Diagnostic = fmt.Sprintf("no text layer available: %v", err)
	case len(blocks) == 0:
		doc.Diagnostic = "no text found in document"
	}
	doc.Blocks = blocks
	return doc, nil
}

// loadTextOnly extracts the text layer without page rendering. Page sizes
// default to US letter since the parser does not report them.
func (l *FitzLoader) loadTextOnly(path string) (*Document, error) {
	blocks, err := extractTextBlocks(path, nil)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no text found in document")
	}
	pageCount := 0
	for _, b := range blocks {
		if b.Page+1 > pageCount {
			pageCount = b.Page + 1
		}
	}
	doc := &Document{Blocks: blocks, ScaleFactor: l.ScaleFactor}
	for i := 0; i < pageCount; i++ {
		doc.PageSizes = append(doc.PageSizes, defaultPageSize)
		doc.PageImages = append(doc.PageImages, nil)
	}
	return doc, nil
}

// loadImage decodes a photo or scan into a single image-only page. There is
// no text layer to extract, so field values need manual entry.
func (l *FitzLoader) loadImage(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	pngData, width, height, err := imageToPNG(data)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return &Document{
		PageImages:  [][]byte{pngData},
		PageSizes:   []PageSize{{Width: float64(width), Height: float64(height)}},
		ScaleFactor: 1.0,
		Diagnostic:  "image input has no text layer; fields require manual entry",
	}, nil
}

// extractTextBlocks parses the PDF text layer into positioned blocks,
// converting from the parser's bottom-left origin to top-left. Page heights
// come from the sizes already measured; absent that, US letter is assumed.
func extractTextBlocks(path string, sizes []PageSize) (blocks []TextBlock, err error) {
	// The parser panics on some malformed cross-reference tables; treat
	// that the same as any other unreadable text layer.
	defer func() {
		if r := recover(); r != nil {
			blocks = nil
			err = fmt.Errorf("parsing text layer: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening text layer: %w", err)
	}
	defer f.Close()

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageHeight := defaultPageSize.Height
		if pageNum-1 < len(sizes) {
			pageHeight = sizes[pageNum-1].Height
		}
		blocks = append(blocks, groupSpans(page.Content().Text, pageNum-1, pageHeight)...)
	}
	return blocks, nil
}

// groupSpans assembles raw character positions into word-group blocks: sort
// into lines by vertical position, then split each line where the horizontal
// gap exceeds a full glyph width.
func groupSpans(texts []pdf.Text, page int, pageHeight float64) []TextBlock {
	if len(texts) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		sorted = append(sorted, t)
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // larger Y is higher on the page
		}
		return sorted[i].X < sorted[j].X
	})

	var blocks []TextBlock
	var line []pdf.Text
	lineY := sorted[0].Y

	flushLine := func() {
		blocks = append(blocks, splitLine(line, page, pageHeight)...)
		line = nil
	}
	for _, t := range sorted {
		if line != nil && absDiff(t.Y, lineY) > lineTolerancePts {
			flushLine()
			lineY = t.Y
		}
		line = append(line, t)
	}
	flushLine()
	return blocks
}

// splitLine breaks one visual line into blocks at large horizontal gaps and
// builds each block's text and bounding box.
func splitLine(line []pdf.Text, page int, pageHeight float64) []TextBlock {
	sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })

	var blocks []TextBlock
	var span []pdf.Text
	flushSpan := func() {
		if len(span) == 0 {
			return
		}
		var sb strings.Builder
		height := fallbackFontHeight
		for i, t := range span {
			if i > 0 {
				prev := span[i-1]
				gap := t.X - (prev.X + prev.W)
				if gap > fontSize(prev)*wordGapMultiplier {
					sb.WriteString(" ")
				}
			}
			sb.WriteString(t.S)
			if fontSize(t) > height {
				height = fontSize(t)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			span = nil
			return
		}
		first, last := span[0], span[len(span)-1]
		blocks = append(blocks, TextBlock{
			Text:   text,
			X:      first.X,
			Y:      pageHeight - first.Y - height, // baseline approximation
			Width:  last.X + last.W - first.X,
			Height: height,
			Page:   page,
		})
		span = nil
	}

	for _, t := range line {
		if len(span) > 0 {
			prev := span[len(span)-1]
			if t.X-(prev.X+prev.W) > fontSize(prev)*spanGapMultiplier {
				flushSpan()
			}
		}
		span = append(span, t)
	}
	flushSpan()
	return blocks
}

func fontSize(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return fallbackFontHeight
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
