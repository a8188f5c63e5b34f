package chunking

import (
	"strings"
	"unicode/utf8"
)

// ChunkOptions controls the splitter. Sizes are in bytes.
type ChunkOptions struct {
	MinSize int
	MaxSize int
	Overlap int
}

func DefaultOptions() ChunkOptions {
	return ChunkOptions{MinSize: 200, MaxSize: 1200, Overlap: 120}
}

// Chunk is one piece of the source text. Text is always the exact slice
// text[Start:End] of the input.
type Chunk struct {
	Index int
	Start int
	End   int
	Text  string
}

type span struct {
	start int
	end   int
}

// Boundary levels, coarse to fine.
const (
	levelParagraph = iota
	levelSentence
	levelWord
)

// Split cuts text into chunks of at most MaxSize bytes, breaking at
// paragraph boundaries where possible, then sentence boundaries, then
// word boundaries. A word is only cut when it alone exceeds MaxSize.
// Pieces below MinSize are merged forward into the next chunk while the
// result still fits. Each chunk after the first starts Overlap bytes
// (aligned to a word start) before the previous chunk's end. The split
// is deterministic.
func Split(text string, opts ChunkOptions) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultOptions().MaxSize
	}
	if opts.MinSize < 0 {
		opts.MinSize = 0
	}
	if opts.MinSize > opts.MaxSize {
		opts.MinSize = opts.MaxSize
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}
	if opts.Overlap >= opts.MaxSize {
		opts.Overlap = opts.MaxSize / 4
	}

	spans := packSpans(text, span{0, len(text)}, opts.MinSize, opts.MaxSize, levelParagraph)
	spans = mergeTinyTail(spans, opts.MinSize, opts.MaxSize)
	spans = applyOverlap(text, spans, opts.Overlap, opts.MaxSize)

	chunks := make([]Chunk, 0, len(spans))
	for i, s := range spans {
		chunks = append(chunks, Chunk{
			Index: i,
			Start: s.start,
			End:   s.end,
			Text:  text[s.start:s.end],
		})
	}
	return chunks
}

// packSpans splits s at the given boundary level and packs adjacent
// pieces into chunks: a chunk closes at the first boundary after it
// reaches minSize, and never grows past maxSize. Pieces still too large
// after splitting fall through to the next finer level; an oversized
// single word is hard cut.
func packSpans(text string, s span, minSize, maxSize, level int) []span {
	if s.end-s.start <= maxSize {
		return []span{s}
	}

	var parts []span
	switch level {
	case levelParagraph:
		parts = splitParagraphs(text, s)
	case levelSentence:
		parts = splitSentences(text, s)
	default:
		parts = splitWords(text, s)
	}

	var atoms []span
	for _, p := range parts {
		switch {
		case p.end-p.start <= maxSize:
			atoms = append(atoms, p)
		case level < levelWord:
			atoms = append(atoms, packSpans(text, p, minSize, maxSize, level+1)...)
		default:
			atoms = append(atoms, hardCut(text, p, maxSize)...)
		}
	}

	var packed []span
	cur := span{start: atoms[0].start, end: atoms[0].start}
	for _, a := range atoms {
		if cur.end > cur.start && (cur.end-cur.start >= minSize || a.end-cur.start > maxSize) {
			packed = append(packed, cur)
			cur = span{start: a.start, end: a.start}
		}
		cur.end = a.end
	}
	if cur.end > cur.start {
		packed = append(packed, cur)
	}
	return packed
}

// splitParagraphs cuts at blank lines. The separator newlines stay
// attached to the preceding paragraph so spans tile the input exactly.
func splitParagraphs(text string, s span) []span {
	var parts []span
	start := s.start
	i := s.start
	for i < s.end-1 {
		if text[i] == '\n' && text[i+1] == '\n' {
			j := i
			for j < s.end && text[j] == '\n' {
				j++
			}
			parts = append(parts, span{start, j})
			start = j
			i = j
			continue
		}
		i++
	}
	if start < s.end {
		parts = append(parts, span{start, s.end})
	}
	return parts
}

// splitSentences cuts after . ! ? followed by whitespace. The trailing
// whitespace run stays attached to the ending sentence.
func splitSentences(text string, s span) []span {
	var parts []span
	start := s.start
	i := s.start
	for i < s.end-1 {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && isSpace(text[i+1]) {
			j := i + 1
			for j < s.end && isSpace(text[j]) {
				j++
			}
			parts = append(parts, span{start, j})
			start = j
			i = j
			continue
		}
		i++
	}
	if start < s.end {
		parts = append(parts, span{start, s.end})
	}
	return parts
}

// splitWords cuts at whitespace runs, attached to the preceding word.
func splitWords(text string, s span) []span {
	var parts []span
	start := s.start
	i := s.start
	for i < s.end {
		if isSpace(text[i]) {
			j := i
			for j < s.end && isSpace(text[j]) {
				j++
			}
			parts = append(parts, span{start, j})
			start = j
			i = j
			continue
		}
		i++
	}
	if start < s.end {
		parts = append(parts, span{start, s.end})
	}
	return parts
}

// hardCut slices an oversized word at maxSize steps, backing up to a
// rune start so multi-byte characters are never torn.
func hardCut(text string, s span, maxSize int) []span {
	var parts []span
	start := s.start
	for s.end-start > maxSize {
		cut := start + maxSize
		for cut > start && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == start {
			cut = start + maxSize
		}
		parts = append(parts, span{start, cut})
		start = cut
	}
	parts = append(parts, span{start, s.end})
	return parts
}

// mergeTinyTail folds an undersized final span into the previous one
// when the combined span still respects maxSize.
func mergeTinyTail(spans []span, minSize, maxSize int) []span {
	last := len(spans) - 1
	if last < 1 || spans[last].end-spans[last].start >= minSize {
		return spans
	}
	if spans[last].end-spans[last-1].start <= maxSize {
		spans[last-1].end = spans[last].end
		spans = spans[:last]
	}
	return spans
}

// applyOverlap extends every span after the first backwards into the
// previous span's tail, aligned to a word start, without growing any
// span past maxSize.
func applyOverlap(text string, spans []span, overlap, maxSize int) []span {
	if overlap <= 0 {
		return spans
	}
	for i := 1; i < len(spans); i++ {
		candidate := spans[i].start - overlap
		if spans[i].end-candidate > maxSize {
			candidate = spans[i].end - maxSize
		}
		if candidate < spans[i-1].start {
			candidate = spans[i-1].start
		}
		candidate = alignToWordStart(text, candidate, spans[i].start)
		if candidate < spans[i].start {
			spans[i].start = candidate
		}
	}
	return spans
}

// alignToWordStart moves pos forward to the first word start at or after
// it, never past limit.
func alignToWordStart(text string, pos, limit int) int {
	if pos <= 0 {
		return 0
	}
	// A position inside a word first skips to the end of that word.
	for pos < limit && !isSpace(text[pos]) && !isSpace(text[pos-1]) {
		pos++
	}
	for pos < limit && isSpace(text[pos]) {
		pos++
	}
	return pos
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
