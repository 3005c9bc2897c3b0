package collapsed

import (
	"bufio"
	"io"
)

// maxLineSize bounds a single input line. Deep JVM stacks routinely exceed
// bufio.Scanner's 64KiB default.
const maxLineSize = 16 << 20

// Stats accumulates run-level parse counters across any number of streams.
type Stats struct {
	Lines        int  // lines read, including blank ones
	Accepted     int  // records produced
	Ignored      int  // malformed lines
	Fractional   int  // accepted records with a literal fractional weight
	Differential bool // at least one record carried two weights
}

// Observe folds one parse outcome into the counters.
func (s *Stats) Observe(rec Record, st Status) {
	s.Lines++
	switch st {
	case OK:
		s.Accepted++
		if rec.Fractional {
			s.Fractional++
		}
		if rec.Differential {
			s.Differential = true
		}
	case Malformed:
		s.Ignored++
	}
}

// Reader yields the accepted records of one stream.
//
//	r := collapsed.NewReader(f, &stats)
//	for r.Next() {
//	    b.Add(r.Record())
//	}
//	if err := r.Err(); err != nil { ... }
type Reader struct {
	sc    *bufio.Scanner
	stats *Stats
	rec   Record
}

// NewReader returns a Reader over r. Counters are added to stats, which may
// be shared between readers to aggregate several streams. A nil stats is
// allowed.
func NewReader(r io.Reader, stats *Stats) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	if stats == nil {
		stats = &Stats{}
	}
	return &Reader{sc: sc, stats: stats}
}

// Next advances to the next accepted record, skipping blank and malformed
// lines. It returns false at end of input or on a read error.
func (r *Reader) Next() bool {
	for r.sc.Scan() {
		rec, st := ParseLine(r.sc.Text())
		r.stats.Observe(rec, st)
		if st == OK {
			r.rec = rec
			return true
		}
	}
	return false
}

// Record returns the record produced by the last successful call to Next.
func (r *Reader) Record() Record { return r.rec }

// Err returns the first read error encountered, if any.
func (r *Reader) Err() error { return r.sc.Err() }
