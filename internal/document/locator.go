package document

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultNearRadius is the search radius for coordinate lookups, in points.
// It is sized to capture a value and one adjacent text line, independent of
// render DPI.
const DefaultNearRadius = 60

// AnchorConfig holds the tuning constants for the anchor-label heuristic.
// The relative ordering they encode (same line beats above, above beats
// below, labels only) is load-bearing; the magnitudes are empirical.
type AnchorConfig struct {
	SameLineTolerance float64 // vertical distance still counted as the same line
	AbovePenalty      float64 // horizontal weight for blocks above the point
	BelowPenalty      float64 // vertical multiplier for blocks below the point
	MaxVertical       float64 // envelope: vertical distance cap
	MaxHorizontal     float64 // envelope: horizontal distance cap
	LeftOverlap       float64 // how far right of the point a label may start
	FallbackRadius    float64 // absolute cap for the nearest-label fallback
}

// DefaultAnchorConfig returns the tuning used by the interactive mapper.
func DefaultAnchorConfig() AnchorConfig {
	return AnchorConfig{
		SameLineTolerance: 20,
		AbovePenalty:      0.5,
		BelowPenalty:      10,
		MaxVertical:       100,
		MaxHorizontal:     400,
		LeftOverlap:       50,
		FallbackRadius:    300,
	}
}

// Window constants for gathering value text around an anchor block.
const (
	anchorLineTolerance = 10  // same-line vertical tolerance
	anchorRightWindow   = 200 // how far right of the anchor to collect
	anchorBelowMin      = 5   // next-line window, vertical start
	anchorBelowMax      = 40  // next-line window, vertical end
	anchorAlignWindow   = 150 // next-line window, horizontal alignment
)

var valueOnlyPattern = regexp.MustCompile(`^[\$\-\d,.\s]+$`)

// isLabelText reports whether a block reads like a field label rather than a
// value. Pure numeric/currency strings such as "$128.34" never qualify.
func isLabelText(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if valueOnlyPattern.MatchString(text) {
		return false
	}
	return strings.ContainsFunc(text, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	})
}

// FindNear returns the text blocks whose centers lie within radius of the
// given point, ordered by ascending center distance.
func (d *Document) FindNear(x, y float64, page int, radius float64) []TextBlock {
	var results []TextBlock
	for _, b := range d.Blocks {
		if b.Page != page {
			continue
		}
		if math.Hypot(x-b.CenterX(), y-b.CenterY()) < radius {
			results = append(results, b)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		di := math.Hypot(x-results[i].CenterX(), y-results[i].CenterY())
		dj := math.Hypot(x-results[j].CenterX(), y-results[j].CenterY())
		return di < dj
	})
	return results
}

// FindAnchorLabel returns the best label-like block near a point, for
// anchor-based extraction. Same-line blocks rank by horizontal distance,
// blocks above by vertical distance with a horizontal penalty, and blocks
// below are effectively never preferred. Falls back to the globally nearest
// label within the configured radius.
func (d *Document) FindAnchorLabel(x, y float64, page int) (string, bool) {
	return d.FindAnchorLabelWith(x, y, page, DefaultAnchorConfig())
}

// FindAnchorLabelWith is FindAnchorLabel with explicit tuning.
func (d *Document) FindAnchorLabelWith(x, y float64, page int, cfg AnchorConfig) (string, bool) {
	type candidate struct {
		score float64
		block TextBlock
	}
	var candidates []candidate

	for _, b := range d.Blocks {
		if b.Page != page {
			continue
		}
		if !isLabelText(b.Text) {
			continue
		}
		yDist := math.Abs(b.Y - y)
		xDist := math.Abs(b.X - x)

		// Labels sit to the left of or above their value.
		if b.X >= x+cfg.LeftOverlap {
			continue
		}
		var score float64
		switch {
		case yDist < cfg.SameLineTolerance:
			score = xDist
		case b.Y < y:
			score = yDist + xDist*cfg.AbovePenalty
		default:
			score = yDist*cfg.BelowPenalty + xDist
		}
		if yDist < cfg.MaxVertical && xDist < cfg.MaxHorizontal {
			candidates = append(candidates, candidate{score, b})
		}
	}

	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score < candidates[j].score
		})
		return candidates[0].block.Text, true
	}

	// Nothing in the envelope: take the nearest label anywhere on the page,
	// within an absolute cap.
	var nearest *TextBlock
	nearestDist := math.Inf(1)
	for _, b := range d.Blocks {
		if b.Page != page || !isLabelText(b.Text) {
			continue
		}
		dist := math.Hypot(x-b.X, y-b.Y)
		if dist < nearestDist {
			nearestDist = dist
			block := b
			nearest = &block
		}
	}
	if nearest != nil && nearestDist < cfg.FallbackRadius {
		return nearest.Text, true
	}
	return "", false
}

// TextInRegion returns all text overlapping the given rectangle, joined in
// reading order (top to bottom, left to right).
func (d *Document) TextInRegion(x, y, width, height float64, page int) string {
	var hits []TextBlock
	for _, b := range d.Blocks {
		if b.Page != page {
			continue
		}
		if b.X < x+width && b.X+b.Width > x && b.Y < y+height && b.Y+b.Height > y {
			hits = append(hits, b)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Y != hits[j].Y {
			return hits[i].Y < hits[j].Y
		}
		return hits[i].X < hits[j].X
	})
	parts := make([]string, len(hits))
	for i, b := range hits {
		parts[i] = b.Text
	}
	return strings.Join(parts, " ")
}

// TextNearAnchor finds the first block containing the anchor text
// (case-insensitive) and returns the anchor block's own text together with
// same-line text to its right and text on a following line, distance-ordered.
// Returns "" when the anchor is not present on the page.
func (d *Document) TextNearAnchor(anchor string, page int) string {
	anchorLower := strings.ToLower(anchor)
	var anchorBlock *TextBlock
	for _, b := range d.Blocks {
		if b.Page == page && strings.Contains(strings.ToLower(b.Text), anchorLower) {
			block := b
			anchorBlock = &block
			break
		}
	}
	if anchorBlock == nil {
		return ""
	}

	type part struct {
		order float64
		text  string
	}
	// The anchor block itself comes first, for "Label: Value" spans.
	parts := []part{{0, anchorBlock.Text}}
	anchorRight := anchorBlock.X + anchorBlock.Width

	for _, b := range d.Blocks {
		if b.Page != page || b == *anchorBlock {
			continue
		}
		dx := b.X - anchorRight
		dy := b.Y - anchorBlock.Y

		switch {
		case math.Abs(dy) < anchorLineTolerance && dx > -5 && dx < anchorRightWindow:
			parts = append(parts, part{dx + 1, b.Text})
		case dy > anchorBelowMin && dy < anchorBelowMax && math.Abs(b.X-anchorBlock.X) < anchorAlignWindow:
			// Following line sorts after everything on the anchor's line.
			parts = append(parts, part{dy + 1000, b.Text})
		}
	}

	sort.SliceStable(parts, func(i, j int) bool { return parts[i].order < parts[j].order })
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.text
	}
	return strings.Join(texts, " ")
}

// FullText returns all text on a page in reading order, one block per line.
func (d *Document) FullText(page int) string {
	blocks := d.BlocksOnPage(page)
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Y != blocks[j].Y {
			return blocks[i].Y < blocks[j].Y
		}
		return blocks[i].X < blocks[j].X
	})
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		lines[i] = b.Text
	}
	return strings.Join(lines, "\n")
}
