package io

import (
	"errors"

	"github.com/ezrec/popola/translate"
)

var f = translate.From

var (
	// Tape errors
	ErrTapeOutput = errors.New(f("tape output missing"))
)
