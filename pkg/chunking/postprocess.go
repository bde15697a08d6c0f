package chunking

import (
	"regexp"
	"strings"
)

// urlPattern and numberPattern back the has_urls/has_numbers metadata
// enrichment step (spec §4.7).
var (
	urlPattern    = regexp.MustCompile(`https?://\S+`)
	numberPattern = regexp.MustCompile(`[0-9]`)
)

// postProcess runs the shared pipeline stages applied after any strategy
// produces its raw chunk list (spec §4.7): header-body merge, small-chunk
// merge, metadata enrichment, overlap attachment, and fence-balance
// enforcement, in that order.
func postProcess(chunks []Chunk, cfg ChunkConfig) []Chunk {
	chunks = mergeHeaderBody(chunks, cfg)
	chunks = mergeSmallChunks(chunks, cfg)
	chunks = enrichMetadata(chunks)
	chunks = attachOverlap(chunks, cfg)
	chunks = enforceFenceBalance(chunks)
	return chunks
}

// mergeHeaderBody folds a structural chunk that contains only a header line
// (no body text of its own) into the chunk that follows it, provided both
// share the same header_path. This only happens when a section's own intro
// text is empty and sub-header splitting produced a header-only leading
// segment. The merged chunk's section_tags are both chunks' tags
// concatenated, deduplicated in first-seen order.
func mergeHeaderBody(chunks []Chunk, cfg ChunkConfig) []Chunk {
	var result []Chunk
	for i := 0; i < len(chunks); i++ {
		c := chunks[i]
		if i+1 < len(chunks) && isHeaderOnly(c) && samePath(c, chunks[i+1]) {
			next := chunks[i+1]
			merged := next
			merged.Content = c.Content + next.Content
			merged.StartLine = c.StartLine
			if merged.Size() <= cfg.MaxChunkSize || !cfg.PreserveAtomicBlocks {
				var tags []string
				seen := map[string]bool{}
				for _, src := range []Chunk{c, next} {
					srcTags, _ := src.Metadata[MetaSectionTags].([]string)
					for _, tag := range srcTags {
						if !seen[tag] {
							seen[tag] = true
							tags = append(tags, tag)
						}
					}
				}
				merged.Metadata[MetaSectionTags] = tags
				chunks[i+1] = merged
				continue
			}
		}
		result = append(result, c)
	}
	return result
}

// isHeaderOnly implements spec §4.7 Step 1: a chunk is header-only when its
// content_type is section, its header level is 1 or 2, it is under 150
// characters, and it holds no body text beyond the header line itself.
func isHeaderOnly(c Chunk) bool {
	if c.Metadata[MetaContentType] != string(ContentTypeSection) {
		return false
	}
	level, ok := c.Metadata[MetaHeaderLevel].(int)
	if !ok || level < 1 || level > 2 {
		return false
	}
	if c.Size() >= 150 {
		return false
	}
	return strings.Count(strings.TrimRight(c.Content, "\n"), "\n") == 0
}

func samePath(a, b Chunk) bool {
	ap, _ := a.Metadata[MetaHeaderPath].(string)
	bp, _ := b.Metadata[MetaHeaderPath].(string)
	return ap != "" && ap == bp
}

// mergeSmallChunks folds any chunk under MinChunkSize into an adjacent
// neighbor when the merge would not exceed MaxChunkSize and would not cross
// a header boundary of a different section. A small chunk that cannot merge
// either way is tagged small_chunk=true with a small_chunk_reason, unless the
// structural-strength override (spec §4.7 Step 2) applies.
func mergeSmallChunks(chunks []Chunk, cfg ChunkConfig) []Chunk {
	changed := true
	for changed {
		changed = false
		for i, c := range chunks {
			if c.Size() >= cfg.MinChunkSize || isAtomic(c) || structurallyStrong(c) {
				continue
			}
			if i+1 < len(chunks) && mergeable(c, chunks[i+1], cfg) {
				chunks = mergeAt(chunks, i, i+1)
				changed = true
				break
			}
			if i > 0 && mergeable(chunks[i-1], c, cfg) {
				chunks = mergeAt(chunks, i-1, i)
				changed = true
				break
			}
		}
	}
	for i, c := range chunks {
		if c.Size() < cfg.MinChunkSize && !isAtomic(c) && !structurallyStrong(c) {
			chunks[i].Metadata[MetaSmallChunk] = true
			chunks[i].Metadata[MetaSmallChunkReason] = smallChunkCannotMerge
		}
	}
	return chunks
}

// structurallyStrong implements the spec §4.7 Step 2 override: a chunk is
// not flagged small_chunk (and is not a merge candidate) if it contains an
// H2/H3 header, has >=3 non-header content lines, its post-header text
// length exceeds 100 characters, or it contains >=2 paragraph breaks.
func structurallyStrong(c Chunk) bool {
	lines := strings.Split(c.Content, "\n")

	contentLines := 0
	postHeaderLen := 0
	sawHeader := false
	for _, ln := range lines {
		trimmed := strings.TrimSpace(ln)
		if trimmed == "" {
			continue
		}
		if level, ok := headerLevel(trimmed); ok {
			if level == 2 || level == 3 {
				return true
			}
			sawHeader = true
			continue
		}
		contentLines++
		if sawHeader {
			postHeaderLen += len(ln) + 1
		}
	}
	if contentLines >= 3 {
		return true
	}
	if postHeaderLen > 100 {
		return true
	}
	if strings.Count(strings.TrimSpace(c.Content), "\n\n") >= 2 {
		return true
	}
	return false
}

// headerLevel reports the ATX header level of an already-trimmed line, if
// any.
func headerLevel(trimmed string) (int, bool) {
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0, false
	}
	if n < len(trimmed) && trimmed[n] != ' ' {
		return 0, false
	}
	return n, true
}

func isAtomic(c Chunk) bool {
	t := c.Metadata[MetaContentType]
	return t == string(ContentTypeCode) || t == string(ContentTypeTable)
}

func mergeable(a, b Chunk, cfg ChunkConfig) bool {
	if isAtomic(a) || isAtomic(b) {
		return false
	}
	if a.Size()+b.Size() > cfg.MaxChunkSize {
		return false
	}
	ap, aok := a.Metadata[MetaHeaderPath].(string)
	bp, bok := b.Metadata[MetaHeaderPath].(string)
	if aok && bok && ap != bp {
		return false
	}
	return true
}

func mergeAt(chunks []Chunk, i, j int) []Chunk {
	merged := chunks[i]
	merged.Content = chunks[i].Content + chunks[j].Content
	merged.EndLine = chunks[j].EndLine
	result := make([]Chunk, 0, len(chunks)-1)
	result = append(result, chunks[:i]...)
	result = append(result, merged)
	result = append(result, chunks[j+1:]...)
	return result
}

// attachOverlap attaches previous_content/next_content metadata between
// adjacent non-atomic chunks, capped at min(OverlapSize, 0.35*neighbor size)
// and trimmed to a word boundary. Overlap is metadata only: it is never
// copied into Content (spec §4.7).
func attachOverlap(chunks []Chunk, cfg ChunkConfig) []Chunk {
	if cfg.OverlapSize <= 0 {
		return chunks
	}
	for i := range chunks {
		if isAtomic(chunks[i]) {
			continue
		}
		if i > 0 && !isAtomic(chunks[i-1]) {
			tail := overlapTail(chunks[i-1].Content, overlapBudget(cfg.OverlapSize, chunks[i-1].Size()))
			if tail != "" {
				chunks[i].Metadata[MetaPreviousContent] = tail
			}
		}
		if i+1 < len(chunks) && !isAtomic(chunks[i+1]) {
			head := overlapHead(chunks[i+1].Content, overlapBudget(cfg.OverlapSize, chunks[i+1].Size()))
			if head != "" {
				chunks[i].Metadata[MetaNextContent] = head
			}
		}
		if _, ok := chunks[i].Metadata[MetaPreviousContent]; ok {
			chunks[i].Metadata[MetaOverlapSize] = len(chunks[i].Metadata[MetaPreviousContent].(string))
		}
	}
	return chunks
}

func overlapBudget(configured int, neighborSize int) int {
	ceiling := int(0.35 * float64(neighborSize))
	if configured < ceiling {
		return configured
	}
	return ceiling
}

func overlapTail(content string, n int) string {
	if n <= 0 || len(content) == 0 {
		return ""
	}
	start := len(content) - n
	if start < 0 {
		start = 0
	}
	for start < len(content) && !isWordBoundaryByte(content, start) {
		start++
	}
	return content[start:]
}

func overlapHead(content string, n int) string {
	if n <= 0 || len(content) == 0 {
		return ""
	}
	end := n
	if end > len(content) {
		end = len(content)
	}
	for end > 0 && !isWordBoundaryByte(content, end) {
		end--
	}
	return content[:end]
}

func isWordBoundaryByte(s string, i int) bool {
	if i <= 0 || i >= len(s) {
		return true
	}
	return s[i-1] == ' ' || s[i-1] == '\n' || s[i-1] == '\t'
}

// enrichMetadata fills in size, line_count, has_code, has_urls, and
// has_numbers for every chunk, and assigns the final chunk_index (spec §4.7
// Step 4).
func enrichMetadata(chunks []Chunk) []Chunk {
	for i := range chunks {
		c := &chunks[i]
		c.Metadata[MetaChunkIndex] = i
		c.Metadata[MetaSize] = c.Size()
		c.Metadata[MetaLineCount] = c.EndLine - c.StartLine + 1
		c.Metadata[MetaHasCode] = containsFenceMarker(c.Content)
		c.Metadata[MetaHasURLs] = urlPattern.MatchString(c.Content)
		c.Metadata[MetaHasNumbers] = numberPattern.MatchString(c.Content)
	}
	return chunks
}

// containsFenceMarker reports whether content has any line opening a fenced
// code block (``` or ~~~), regardless of whether the fence closes within the
// chunk. Used to set has_code (spec §3) on every chunk, including structural
// section chunks that carry an inline fence as part of their body text.
func containsFenceMarker(content string) bool {
	li := newLineIndex(content)
	for n := 1; n <= li.NumLines(); n++ {
		if _, _, _, ok := detectFenceOpen(fenceCandidate(li.Line(n))); ok {
			return true
		}
	}
	return false
}

// enforceFenceBalance is a defensive final check: a code chunk carries
// either a matched open/close fence pair or a single fence left unclosed at
// EOF, by construction (scanFences tracks nesting depth explicitly). If a
// merge or strategy bug ever breaks that, downgrade the chunk to
// content_type=text rather than emit a code chunk whose fence a downstream
// renderer cannot balance.
func enforceFenceBalance(chunks []Chunk) []Chunk {
	for i := range chunks {
		c := &chunks[i]
		if c.Metadata[MetaContentType] != string(ContentTypeCode) {
			continue
		}
		if fencesBalanced(c.Content) {
			continue
		}
		// A fence left unclosed at EOF balances once its own opener is closed.
		firstLine, _, _ := strings.Cut(c.Content, "\n")
		if char, length, _, ok := detectFenceOpen(fenceCandidate(firstLine)); ok {
			content := c.Content
			if !strings.HasSuffix(content, "\n") {
				content += "\n"
			}
			if fencesBalanced(content + strings.Repeat(string(char), length) + "\n") {
				continue
			}
		}
		c.Metadata[MetaContentType] = string(ContentTypeText)
		c.Metadata[MetaAllowOversize] = true
		c.Metadata[MetaOversizeReason] = string(OversizeCodeBlock)
	}
	return chunks
}

// fencesBalanced re-scans a chunk's own content with the same stack
// discipline as scanFences, reporting whether every opened fence closed
// within the chunk.
func fencesBalanced(content string) bool {
	li := newLineIndex(content)
	var stack []struct {
		char   byte
		length int
	}
	for n := 1; n <= li.NumLines(); n++ {
		stripped := fenceCandidate(li.Line(n))
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if detectFenceClose(stripped, top.char, top.length) {
				stack = stack[:len(stack)-1]
				continue
			}
		}
		if char, length, _, ok := detectFenceOpen(stripped); ok {
			stack = append(stack, struct {
				char   byte
				length int
			}{char, length})
		}
	}
	return len(stack) == 0
}
