package driver

import "sync/atomic"

// counter hands out 1-based completion indices to workers.
type counter struct{ n atomic.Int64 }

func (c *counter) next() int { return int(c.n.Add(1)) }

// Summary aggregates a Check run.
type Summary struct {
	Files       int
	Failed      int
	Cached      int
	Diagnostics int
	Dropped     int
	CacheErrors int
}

// Summarize counts the results of a run.
func Summarize(results []FileResult) Summary {
	var s Summary
	for i := range results {
		r := &results[i]
		s.Files++
		if r.Failed {
			s.Failed++
		}
		if r.Cached {
			s.Cached++
		}
		if r.CacheErr != nil {
			s.CacheErrors++
		}
		if r.Bag != nil {
			s.Diagnostics += r.Bag.Len()
			s.Dropped += r.Bag.Dropped()
		}
	}
	return s
}

// Clean reports a run with no failures and no diagnostics; the process
// exits zero only then.
func (s Summary) Clean() bool {
	return s.Failed == 0 && s.Diagnostics == 0
}
