package model

import "errors"

var ErrValidation = errors.New("validation error")
