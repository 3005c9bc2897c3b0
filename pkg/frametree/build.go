package frametree

import (
	"context"
	"io"

	"github.com/matzehuels/stackflame/pkg/collapsed"
	"github.com/matzehuels/stackflame/pkg/errors"
)

// Build merges the accepted records of every stream into one tree, as if
// the streams were a single input. Parse counters for all streams are added
// to stats, which may be nil.
//
// A stream that cannot be read fails the whole build with an
// errors.ErrCodeInput error naming the stream's index. If no stream yields
// a record, Build fails with errors.ErrCodeNoStacks; stats are filled in
// either way.
func Build(ctx context.Context, stats *collapsed.Stats, streams []io.Reader, opts ...Option) (*Tree, error) {
	b := NewBuilder(opts...)
	for i, s := range streams {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := collapsed.NewReader(s, stats)
		for r.Next() {
			b.Add(r.Record())
		}
		if err := r.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInput, err, "read input %d", i)
		}
	}
	return b.Tree()
}
