package eval

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"policyrag/internal/domain"
)

// limitationPhrases are the case-sensitive substrings that indicate the model
// admitted it could not fully answer from the excerpts.
var limitationPhrases = []string{
	"I don't have",
	"not found",
	"cannot answer",
	"insufficient information",
}

// Evaluator applies string-matching heuristics to generated answers and
// accumulates the resulting records for the lifetime of a run. The accuracy
// flag is deliberately left for manual annotation; no automated classifier
// fills it.
type Evaluator struct {
	records []domain.EvaluationRecord
}

func New() *Evaluator { return &Evaluator{} }

// EvaluateAnswer scores one question-answer pair and appends the record.
// Citations are detected by the literal substrings "Page" or "Excerpt";
// limitation admissions by a fixed phrase list. Both checks are
// case-sensitive.
func (e *Evaluator) EvaluateAnswer(query string, resp *domain.AnswerResponse, expectedInfo string) domain.EvaluationRecord {
	admits := false
	for _, phrase := range limitationPhrases {
		if strings.Contains(resp.Answer, phrase) {
			admits = true
			break
		}
	}
	rec := domain.EvaluationRecord{
		Query:            query,
		Answer:           resp.Answer,
		Confidence:       string(resp.Confidence),
		HasCitations:     strings.Contains(resp.Answer, "Page") || strings.Contains(resp.Answer, "Excerpt"),
		AdmitsLimitation: admits,
		ContextUsed:      len(resp.Context),
		ExpectedInfo:     expectedInfo,
	}
	e.records = append(e.records, rec)
	return rec
}

// Records returns the accumulated evaluation records in insertion order.
func (e *Evaluator) Records() []domain.EvaluationRecord { return e.records }

// PrintSummary enumerates the accumulated records. No aggregation beyond
// counting is done.
func (e *Evaluator) PrintSummary(w io.Writer) {
	line := strings.Repeat("=", 80)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "EVALUATION SUMMARY")
	fmt.Fprintln(w, line)
	for i, rec := range e.records {
		fmt.Fprintf(w, "\n%d. Query: %s\n", i+1, rec.Query)
		fmt.Fprintf(w, "   Confidence: %s\n", rec.Confidence)
		fmt.Fprintf(w, "   Citations: %s\n", mark(rec.HasCitations))
		fmt.Fprintf(w, "   Admits limitations: %s\n", mark(rec.AdmitsLimitation))
		fmt.Fprintf(w, "   Context chunks: %d\n", rec.ContextUsed)
		if rec.Accuracy != domain.AccuracyUnset {
			fmt.Fprintf(w, "   Accuracy: %s\n", rec.Accuracy)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, line)
}

// resultsFile is the persisted artifact shape: one run's ordered records
// under a run identifier.
type resultsFile struct {
	RunID       string                    `json:"run_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Results     []domain.EvaluationRecord `json:"results"`
}

// SaveResults writes all accumulated records to path as JSON, fully
// overwriting any previous run's file.
func (e *Evaluator) SaveResults(path string) error {
	out := resultsFile{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Results:     e.records,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
