package core

import "errors"

// ErrDegenerateVector is returned when a zero-length (or non-finite) vector
// has to be normalized. For valid scenes this does not happen; it usually
// means a light sits exactly on a surface point or a camera axis is zero.
var ErrDegenerateVector = errors.New("degenerate vector")
