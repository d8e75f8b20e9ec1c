package cow

import "errors"

// ErrOutOfRange is returned by View.At when the index is not in [0, Len()).
var ErrOutOfRange = errors.New("cow: index out of range")
