package sentence

import (
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/fjalar/setningar/internal/token"
	"github.com/google/uuid"
)

// JobStats aggregates the per-job outputs of spec.md §6: number of
// sentences, number parsed, average ambiguity (geometric-mean-style,
// token-count weighted), and cumulative parse time.
type JobStats struct {
	SentenceCount int
	ParsedCount   int
	AvgAmbiguity  float64
	ParseTime     time.Duration
}

// Job is one run of the pipeline over a list of pre-tokenized sentences;
// paragraph markers are not read here (SplitParagraphs handles them).
// Sentences are yielded/retained in input order regardless of how many
// goroutines parsed them concurrently.
type Job struct {
	ID        uuid.UUID
	Sentences []*Sentence
	Stats     JobStats
}

// SentenceInput is one pre-tokenized sentence handed to a Job: the
// external tokenizer's output plus the sentence's original surface text
// (for the Sentence.Text field and JSON dump form).
type SentenceInput struct {
	Text   string
	Tokens []token.Token
}

// SplitParagraphs partitions already-tokenized sentence inputs into
// paragraphs on the `[[`/`]]` markers of spec.md §5. Markers are
// recognized as sentences whose Text, trimmed, is exactly "[[" or "]]";
// they are consumed (not retained as sentences) and only mark a
// paragraph boundary. This keeps the paragraph-splitting decision in
// this façade rather than in the (external) tokenizer, while leaving the
// actual text->token boundary out of scope per spec.md §1.
func SplitParagraphs(inputs []SentenceInput) [][]SentenceInput {
	var paragraphs [][]SentenceInput
	var current []SentenceInput
	for _, in := range inputs {
		trimmed := strings.TrimSpace(in.Text)
		switch trimmed {
		case "[[":
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
		case "]]":
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
		default:
			current = append(current, in)
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}
	return paragraphs
}

// RunJob parses every sentence in inputs (in order, across any paragraph
// boundaries already resolved by the caller or SplitParagraphs) and
// aggregates JobStats. Sentences are distributed across a worker pool
// sized by GOMAXPROCS (SPEC_FULL §4.7/§5: "parallel across sentences")
// and then re-sorted into input order before being returned, preserving
// spec.md §5's ordering guarantee.
func (p *Parser) RunJob(inputs []SentenceInput) *Job {
	job := &Job{ID: uuid.New()}
	results := make([]*Sentence, len(inputs))

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	type work struct {
		idx int
		in  SentenceInput
	}
	jobs := make(chan work)
	done := make(chan struct{})

	for w := 0; w < workers; w++ {
		go func() {
			for item := range jobs {
				results[item.idx] = p.ParseSentence(item.in.Text, item.in.Tokens)
			}
			done <- struct{}{}
		}()
	}

	go func() {
		for i, in := range inputs {
			jobs <- work{idx: i, in: in}
		}
		close(jobs)
	}()

	for w := 0; w < workers; w++ {
		<-done
	}

	job.Sentences = results
	job.Stats = computeStats(results)
	return job
}

// computeStats implements spec.md §6's "average ambiguity
// (geometric-mean-style: the n-th root of the product of per-sentence
// combination counts, weighted by token count)".
func computeStats(sentences []*Sentence) JobStats {
	stats := JobStats{SentenceCount: len(sentences)}

	var logSum, weightSum float64
	for _, s := range sentences {
		stats.ParseTime += s.ParseTime
		if !s.Ok() {
			continue
		}
		stats.ParsedCount++

		combos := float64(s.Stats.MaxPackedAlts)
		if combos < 1 {
			combos = 1
		}
		weight := float64(len(s.Tokens))
		if weight <= 0 {
			weight = 1
		}
		logSum += weight * math.Log(combos)
		weightSum += weight
	}
	if weightSum > 0 {
		stats.AvgAmbiguity = math.Exp(logSum / weightSum)
	}
	return stats
}
