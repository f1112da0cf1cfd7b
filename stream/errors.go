package stream

import "github.com/pkg/errors"

// ErrSkip can be returned from Filter and Map callbacks to drop the
// current pair without aborting the run.
var ErrSkip = errors.New("must skip pair")
