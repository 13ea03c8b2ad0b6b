package analyzer

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	domain "courtside/internal/domain/analysis"
)

// DefaultDelay is how long the mock pretends to process a clip.
const DefaultDelay = 2 * time.Second

var speeds = []int{120, 135, 142, 155, 168, 175, 185}

var scores = []float64{7.2, 7.8, 8.1, 8.4, 8.7, 9.0, 9.3, 9.5}

var feedbackSets = [][]string{
	{
		"Excellent ball toss consistency - maintaining height and placement",
		"Strong hip rotation generating power through the shot",
		"Good follow-through motion completing the stroke",
		"Consider adding more wrist snap at contact point",
	},
	{
		"Great footwork and court positioning on approach",
		"Nice racket preparation and backswing timing",
		"Solid contact point in front of body",
		"Work on recovery speed after shot completion",
	},
	{
		"Impressive topspin technique with heavy racket acceleration",
		"Excellent shoulder rotation through contact zone",
		"Strong balance maintained throughout the stroke",
		"Consider deeper knee bend for more power generation",
	},
	{
		"Good split step timing at the net",
		"Continental grip technique is correct",
		"Quick reaction time to incoming shot",
		"Practice shorter backswing for faster volleys",
	},
}

// Mock is a stand-in Analyzer that returns a plausible random result after
// a fixed delay.
type Mock struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMock creates a Mock. A negative delay is treated as zero; seed fixes
// the sequence of results.
func NewMock(delay time.Duration, seed uint64) *Mock {
	if delay < 0 {
		delay = 0
	}
	return &Mock{delay: delay, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Analyze waits for the configured delay and returns a random result.
// PRE: analysisID is non-empty
// POST: returns ctx.Err() if ctx ends first; otherwise a Result that passes Validate
func (m *Mock) Analyze(ctx context.Context, analysisID string) (domain.Result, error) {
	timer := time.NewTimer(m.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		slog.Debug("analysis_cancelled", "analysis_id", analysisID, "error", ctx.Err())
		return domain.Result{}, ctx.Err()
	case <-timer.C:
	}

	m.mu.Lock()
	speed := speeds[m.rng.IntN(len(speeds))]
	score := scores[m.rng.IntN(len(scores))]
	set := feedbackSets[m.rng.IntN(len(feedbackSets))]
	m.mu.Unlock()

	feedback := make([]string, len(set))
	copy(feedback, set)
	return domain.Result{Speed: speed, TechniqueScore: score, Feedback: feedback}, nil
}
