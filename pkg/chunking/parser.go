package chunking

import "strings"

// ParseContent performs the single-pass structural scan described in spec
// §4.1. It never fails: every input, including the empty string, yields a
// valid ContentAnalysis.
func ParseContent(text string, opts ParseOptions) *ContentAnalysis {
	normalized := normalizeLineEndings(text)
	if opts.StripObsidianBlockIDs {
		normalized = stripObsidianBlockIDs(normalized)
	}

	li := newLineIndex(normalized)

	fenced := scanFences(li)
	headers := scanHeaders(li, fenced)
	tables := scanTables(li, fenced)
	lists := scanLists(li, fenced)

	totalChars := len(normalized)
	totalLines := li.NumLines()

	var codeChars int
	for _, f := range fenced {
		codeChars += f.EndOffset - f.StartOffset
	}
	var codeRatio float64
	if totalChars > 0 {
		codeRatio = float64(codeChars) / float64(totalChars)
	}

	maxHeaderDepth := 0
	for _, h := range headers {
		if h.Level > maxHeaderDepth {
			maxHeaderDepth = h.Level
		}
	}

	analysis := &ContentAnalysis{
		NormalizedText: normalized,
		TotalChars:     totalChars,
		TotalLines:     totalLines,
		Headers:        headers,
		FencedBlocks:   fenced,
		Tables:         tables,
		Lists:          lists,
		CodeRatio:      codeRatio,
		HeaderCount:    len(headers),
		MaxHeaderDepth: maxHeaderDepth,
		TableCount:     len(tables),
		ListCount:      len(lists),
	}
	analysis.ComplexityScore = complexityScore(codeRatio, maxHeaderDepth, len(tables), len(lists), totalLines)
	analysis.PreambleRange = detectPreamble(li, headers)

	return analysis
}

// detectPreamble returns the inclusive line range preceding the first
// header, provided it contains non-whitespace content. With no headers at
// all, there is no preamble (spec §4.1: "not treated as preamble").
func detectPreamble(li *lineIndex, headers []Header) *LineRange {
	if len(headers) == 0 {
		return nil
	}
	firstHeaderLine := headers[0].Line
	if firstHeaderLine <= 1 {
		return nil
	}
	rng := LineRange{Start: 1, End: firstHeaderLine - 1}
	if strings.TrimSpace(li.Slice(rng.Start, rng.End)) == "" {
		return nil
	}
	return &rng
}
