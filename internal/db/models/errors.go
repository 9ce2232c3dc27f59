package models

import "errors"

// ErrDuplicate is returned by stores when a unique key (user phone, group
// name) is already taken.
var ErrDuplicate = errors.New("duplicate key")
