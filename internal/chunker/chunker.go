package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"policyrag/internal/domain"
)

var (
	markerRe  = regexp.MustCompile(`\[Page (\d+)\]`)
	spaceRe   = regexp.MustCompile(`\s+`)
	specialRe = regexp.MustCompile(`[^\w\s.,!?;:()\-\[\]]`)
)

// Chunker splits marked document text into fixed-size overlapping character
// windows. Window i starts at i*(chunkSize-overlap) into the cleaned text;
// the page marker most recently crossed before that start position determines
// the chunk's page number.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New validates the window parameters and returns a chunker. The overlap must
// satisfy 0 <= overlap < chunkSize.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, &domain.ConfigurationError{Field: "chunk_size", Reason: "must be positive"}
	}
	if overlap < 0 {
		return nil, &domain.ConfigurationError{Field: "overlap", Reason: "must be non-negative"}
	}
	if overlap >= chunkSize {
		return nil, &domain.ConfigurationError{Field: "overlap", Reason: "must be smaller than chunk_size"}
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Clean normalizes extracted text: collapses runs of whitespace to single
// spaces, strips special characters while keeping punctuation, and trims.
func Clean(text string) string {
	text = spaceRe.ReplaceAllString(text, " ")
	text = specialRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// pageSpan records where a page's cleaned text begins in the concatenation.
type pageSpan struct {
	start int
	page  int
}

// Chunk scans the marked text left to right and emits overlapping windows as
// chunks with sequential IDs. Empty input yields zero chunks; callers that
// need a non-empty index must treat that as an error.
func (c *Chunker) Chunk(markedText, source string) []domain.Chunk {
	cleaned, spans := flattenPages(markedText)
	if cleaned == "" {
		return nil
	}

	var chunks []domain.Chunk
	stride := c.chunkSize - c.overlap
	for start := 0; start < len(cleaned); start += stride {
		end := start + c.chunkSize
		if end > len(cleaned) {
			end = len(cleaned)
		}
		chunks = append(chunks, domain.Chunk{
			Text:    cleaned[start:end],
			ChunkID: len(chunks),
			PageNum: pageAt(spans, start),
			Source:  source,
		})
		if end == len(cleaned) {
			break
		}
	}
	return chunks
}

// flattenPages strips page markers from the text and returns the cleaned
// concatenation plus the offset at which each page's text begins. Text before
// the first marker belongs to page 1.
func flattenPages(markedText string) (string, []pageSpan) {
	var sb strings.Builder
	var spans []pageSpan

	appendSegment := func(page int, raw string) {
		cleaned := Clean(raw)
		if cleaned == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		spans = append(spans, pageSpan{start: sb.Len(), page: page})
		sb.WriteString(cleaned)
	}

	locs := markerRe.FindAllStringSubmatchIndex(markedText, -1)
	if len(locs) == 0 {
		appendSegment(1, markedText)
		return sb.String(), spans
	}

	if lead := markedText[:locs[0][0]]; strings.TrimSpace(lead) != "" {
		appendSegment(1, lead)
	}
	for i, loc := range locs {
		page, err := strconv.Atoi(markedText[loc[2]:loc[3]])
		if err != nil || page < 1 {
			page = 1
		}
		segEnd := len(markedText)
		if i+1 < len(locs) {
			segEnd = locs[i+1][0]
		}
		appendSegment(page, markedText[loc[1]:segEnd])
	}
	return sb.String(), spans
}

func pageAt(spans []pageSpan, offset int) int {
	page := 1
	for _, s := range spans {
		if s.start > offset {
			break
		}
		page = s.page
	}
	return page
}
