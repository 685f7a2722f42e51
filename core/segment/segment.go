package segment

import (
	"errors"
	"fmt"

	"github.com/expendo-io/expendo/schema"
)

// flatSlope is the slope tolerance below which a segment is reported as flat,
// with no zero crossing.
const flatSlope = 1e-10

// piece is a working segment during the merge loop. SSR is kept alongside the
// stats so the merge cost of a pair is a single aggregate fit away.
type piece struct {
	start, end int
	stats      Stats
	ssr        float64
}

// BottomUp partitions a series into contiguous linear segments by greedy
// bottom-up merging. The series is first chopped into chunks of minLength
// points (the final chunk absorbs any remainder), then adjacent segments are
// merged while the best available merge reduces total cost, where the cost of
// a merge is the fit quality lost minus the flat reward lambda for using one
// fewer segment.
//
// The returned segments cover [0, len(y)-1] with no gaps and are ordered left
// to right. The algorithm is deterministic: same inputs, same segments.
func BottomUp(y []float64, minLength int, lambda float64) ([]schema.Segment, error) {
	n := len(y)
	if n == 0 {
		return nil, errors.New("cannot segment an empty series")
	}
	if minLength < 1 {
		return nil, fmt.Errorf("minimum segment length must be >= 1 (received %d)", minLength)
	}
	if lambda < 0 {
		return nil, fmt.Errorf("lambda must be >= 0 (received %g)", lambda)
	}

	// Initialization: chunks of exactly minLength, with the last chunk
	// extended to n-1 so the remainder is absorbed rather than left short.
	chunks := max(n/minLength, 1)
	pieces := make([]piece, 0, chunks)
	for i := range chunks {
		start := i * minLength
		end := start + minLength - 1
		if i == chunks-1 {
			end = n - 1
		}
		stats := NewStats(y, start, end)
		ssr, _, _ := stats.FitSSR()
		pieces = append(pieces, piece{start: start, end: end, stats: stats, ssr: ssr})
	}

	// Greedy merge loop: apply the globally cheapest adjacent merge while it
	// still reduces total cost, rescanning the full list after every merge.
	for len(pieces) >= 2 {
		bestIdx := -1
		bestCost := 0.0
		var bestMerged piece

		for i := 0; i < len(pieces)-1; i++ {
			merged := pieces[i].stats.Add(pieces[i+1].stats)
			mergedSSR, _, _ := merged.FitSSR()
			cost := mergedSSR - (pieces[i].ssr + pieces[i+1].ssr) - lambda
			if bestIdx < 0 || cost < bestCost {
				bestIdx = i
				bestCost = cost
				bestMerged = piece{
					start: pieces[i].start,
					end:   pieces[i+1].end,
					stats: merged,
					ssr:   mergedSSR,
				}
			}
		}

		if bestCost >= 0 {
			break
		}
		pieces[bestIdx] = bestMerged
		pieces = append(pieces[:bestIdx+1], pieces[bestIdx+2:]...)
	}

	segments := make([]schema.Segment, 0, len(pieces))
	for _, p := range pieces {
		a, b := p.stats.Fit()
		d0 := -1.0
		if a > flatSlope || a < -flatSlope {
			d0 = -b / a
		}
		segments = append(segments, schema.Segment{
			X1:     p.start,
			X2:     p.end,
			A:      a,
			B:      b,
			Y1:     a*float64(p.start) + b,
			Y2:     a*float64(p.end) + b,
			D0:     d0,
			Lambda: lambda,
		})
	}
	return segments, nil
}
