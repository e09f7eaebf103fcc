package diagfmt

import "errors"

var errThunk = errors.New("thunk failed")
