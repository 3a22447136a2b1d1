package fieldstore

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Verify re-reads every archived snapshot and checks it against the
// checksum recorded in the field table. It is a pure disk inspection and
// is legal in any mode. Snapshots are verified concurrently, bounded by
// GOMAXPROCS; the first failure cancels the remaining work.
func (a *Archive) Verify(ctx context.Context) error {
	if a.closed {
		return ErrClosed
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, name := range a.table.Names() {
		ot, _ := a.table.Lookup(name)
		path := a.dataFilePath(name)
		for id := range ot {
			n, err := runLength(path, ot, id)
			if err != nil {
				return err
			}
			offset := ot[id].Offset
			want := ot[id].Checksum

			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				buf := make([]byte, n)
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open data file: %w", err)
				}
				defer f.Close()

				if rd, err := f.ReadAt(buf, int64(offset)); err != nil && rd < len(buf) {
					return fmt.Errorf("read data file: %w", err)
				}
				if sum := checksumBytes(buf); sum != want {
					return fmt.Errorf("%w: field %q id %d", ErrChecksumMismatch, name, id)
				}
				return nil
			})
		}
	}

	return g.Wait()
}
