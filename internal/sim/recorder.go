package sim

import (
	"io"
	"sync"

	"github.com/gocarina/gocsv"

	"legacy-guardians/internal/market"
	"legacy-guardians/internal/models"
)

// Recorder keeps the append-only per-tick performance series of a session.
// Samples are never mutated or reordered once appended.
type Recorder struct {
	mu      sync.Mutex
	samples []models.PerformanceSample
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{samples: make([]models.PerformanceSample, 0, market.MaxTicks+1)}
}

// Append records one sample.
func (r *Recorder) Append(sample models.PerformanceSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, sample)
}

// Samples returns a copy of the recorded series.
func (r *Recorder) Samples() []models.PerformanceSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.PerformanceSample, len(r.samples))
	copy(out, r.samples)
	return out
}

// Len returns the number of recorded samples.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// csvSample is the long-format CSV row: one line per asset per tick, plus
// the tick's total portfolio value on every line.
type csvSample struct {
	Tick       int    `csv:"tick"`
	TotalValue string `csv:"total_value"`
	Asset      string `csv:"asset"`
	Price      string `csv:"price"`
}

// ExportCSV writes the recorded series as CSV.
func (r *Recorder) ExportCSV(w io.Writer) error {
	samples := r.Samples()
	rows := make([]csvSample, 0, len(samples)*len(market.Keys()))
	for _, s := range samples {
		for _, asset := range market.Keys() {
			price, ok := s.Prices[asset]
			if !ok {
				continue
			}
			rows = append(rows, csvSample{
				Tick:       s.Tick,
				TotalValue: s.Total.StringFixed(2),
				Asset:      asset,
				Price:      price.StringFixed(2),
			})
		}
	}
	return gocsv.Marshal(rows, w)
}
