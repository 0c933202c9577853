package ledger

import "errors"

var ErrNotFound = errors.New("product not found")
