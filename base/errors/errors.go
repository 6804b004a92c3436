// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors extends the standard errors package with logging of
// errors through slog, so that callers import a single errors package.
package errors

import (
	"errors"
	"log/slog"
)

// Log logs err at the error level if it is non-nil, and returns it:
//
//	return errors.Log(save(cfg))
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error())
	}
	return err
}

// New is [errors.New].
func New(text string) error {
	return errors.New(text)
}

// Is is [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Join is [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}
