package tile

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterTiles returns an iterator over all non-empty cells visited by r.
// Iteration panics on errors returned by the visitor implementation.
func IterTiles(r Visitor) iter.Seq2[Pos, Tile] {
	return func(yield func(Pos, Tile) bool) {
		err := r.VisitTiles(func(pos Pos, t Tile) error {
			if !yield(pos, t) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}
