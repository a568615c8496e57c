package domain

// Chunk is a fixed-size window of the source document, tagged with the page
// it was extracted from and its position in document order.
type Chunk struct {
	Text    string `json:"text"`
	ChunkID int    `json:"chunk_id"`
	PageNum int    `json:"page_num"`
	Source  string `json:"source"`
}

// RetrievedChunk pairs a chunk with its retrieval distance. Smaller distance
// means more similar.
type RetrievedChunk struct {
	Chunk    Chunk
	Distance float64
}

// Confidence is a discrete summary of retrieval quality derived from the best
// retrieval distance.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// AnswerResponse is the result of answering one question. Context and
// RetrievalScores are parallel: scores[i] is the distance of context[i].
type AnswerResponse struct {
	Query           string     `json:"query"`
	Answer          string     `json:"answer"`
	Context         []Chunk    `json:"context"`
	Confidence      Confidence `json:"confidence"`
	RetrievalScores []float64  `json:"retrieval_scores"`
}

// AccuracyFlag is a manual annotation on an evaluation record. The automated
// checks never fill it in.
type AccuracyFlag string

const (
	AccuracyUnset AccuracyFlag = ""
	AccuracyPass  AccuracyFlag = "pass"
	AccuracyWarn  AccuracyFlag = "warn"
	AccuracyFail  AccuracyFlag = "fail"
)

// EvaluationRecord is the scorecard produced for one question-answer pair.
type EvaluationRecord struct {
	Query            string       `json:"query"`
	Answer           string       `json:"answer"`
	Confidence       string       `json:"retrieval_confidence"`
	HasCitations     bool         `json:"has_citations"`
	AdmitsLimitation bool         `json:"admits_limitation"`
	ContextUsed      int          `json:"context_used"`
	ExpectedInfo     string       `json:"expected_info,omitempty"`
	Accuracy         AccuracyFlag `json:"accuracy"`
	Notes            string       `json:"notes"`
}
