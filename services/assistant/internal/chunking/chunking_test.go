package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit_EmptyInput(t *testing.T) {
	assert.Nil(t, Split("", DefaultOptions()))
	assert.Nil(t, Split("   \n\t  ", DefaultOptions()))
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	text := "Hello world."
	chunks := Split(text, DefaultOptions())

	assert.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len(text), chunks[0].End)
	assert.Equal(t, text, chunks[0].Text)
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("One two three four five six seven eight nine ten. ", 40) +
		"\n\n" + strings.Repeat("Another paragraph with several words in it here. ", 30)
	opts := ChunkOptions{MinSize: 100, MaxSize: 300, Overlap: 40}

	first := Split(text, opts)
	second := Split(text, opts)

	assert.Equal(t, first, second)
}

func TestSplit_MaxSizeRespected(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("A short paragraph with a handful of words.")
		b.WriteString("\n\n")
	}
	text := b.String()

	chunks := Split(text, ChunkOptions{MinSize: 80, MaxSize: 200, Overlap: 0})

	assert.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.End-c.Start, 200)
		assert.Equal(t, text[c.Start:c.End], c.Text)
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	text := "First paragraph sentence one here.\n\nSecond paragraph follows with more text here."

	chunks := Split(text, ChunkOptions{MinSize: 10, MaxSize: 80, Overlap: 0})

	assert.Len(t, chunks, 2)
	assert.True(t, strings.HasSuffix(chunks[0].Text, "\n\n"))
	assert.Equal(t, "Second paragraph follows with more text here.", chunks[1].Text)
}

func TestSplit_SentenceFallback(t *testing.T) {
	// One paragraph, three sentences, too large as a whole.
	text := "The quick brown fox jumps over dog. The quick brown fox jumps over dog. The quick brown fox jumps over dog."

	chunks := Split(text, ChunkOptions{MinSize: 10, MaxSize: 80, Overlap: 0})

	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c.Text, ". "), "chunk should end at a sentence boundary: %q", c.Text)
	}
}

func TestSplit_MinSizeMergesForward(t *testing.T) {
	text := "Hi.\n\n" +
		"A paragraph with enough words to pass the minimum size.\n\n" +
		"A closing paragraph with enough words to stand alone too."

	chunks := Split(text, ChunkOptions{MinSize: 20, MaxSize: 80, Overlap: 0})

	assert.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[0].Text, "Hi.\n\n"))
	assert.Greater(t, chunks[0].End-chunks[0].Start, 20)
}

func TestSplit_TinyTailMergesBackward(t *testing.T) {
	text := "A first paragraph with enough words to stand entirely alone.\n\n" +
		"A second paragraph with enough words to stand alone also.\n\n" +
		"End."

	chunks := Split(text, ChunkOptions{MinSize: 20, MaxSize: 80, Overlap: 0})

	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1].Text, "End."))
	for _, c := range chunks {
		assert.LessOrEqual(t, c.End-c.Start, 80)
	}
}

func TestSplit_OverlapStartsAtWordBoundary(t *testing.T) {
	text := "First paragraph sentence one here.\n\nSecond paragraph follows with more text here."

	chunks := Split(text, ChunkOptions{MinSize: 10, MaxSize: 80, Overlap: 12})

	assert.Len(t, chunks, 2)
	assert.Less(t, chunks[1].Start, chunks[0].End, "second chunk should reach back into the first")
	assert.False(t, isSpace(text[chunks[1].Start]))
	assert.True(t, isSpace(text[chunks[1].Start-1]))
	assert.LessOrEqual(t, chunks[1].End-chunks[1].Start, 80)
}

func TestSplit_OffsetsReconstructSource(t *testing.T) {
	text := strings.Repeat("Alpha beta gamma delta epsilon zeta eta theta iota kappa. ", 20) +
		"\n\n" + strings.Repeat("Lambda mu nu xi omicron pi rho sigma tau upsilon. ", 20)
	chunks := Split(text, ChunkOptions{MinSize: 100, MaxSize: 250, Overlap: 30})

	assert.NotEmpty(t, chunks)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len(text), chunks[len(chunks)-1].End)

	rebuilt := text[chunks[0].Start:chunks[0].End]
	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, chunks[i].Start, chunks[i-1].End, "chunks must be contiguous or overlapping")
		assert.Greater(t, chunks[i].End, chunks[i-1].End)
		rebuilt += text[chunks[i-1].End:chunks[i].End]
	}
	assert.Equal(t, text, rebuilt)
}

func TestSplit_HardCutsOversizedWord(t *testing.T) {
	text := strings.Repeat("x", 300)

	chunks := Split(text, ChunkOptions{MinSize: 10, MaxSize: 100, Overlap: 0})

	assert.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.Equal(t, 100, c.End-c.Start)
	}
}

func TestSplit_IndexesAreSequential(t *testing.T) {
	text := strings.Repeat("Some words for the splitter to chew on here. ", 30)
	chunks := Split(text, ChunkOptions{MinSize: 50, MaxSize: 150, Overlap: 20})

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}
