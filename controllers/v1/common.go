package apiv1

import "github.com/pkg/errors"

var errorYearFormat = errors.New("year must be a number")
