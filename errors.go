package mdblog

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/eringen/mdblog/content"
)

const emptyIndexCode = "EMPTY_POST_INDEX"

// outputError annotates a failure to produce a derived view. An aggregate
// over zero posts becomes a validation error carrying the EMPTY_POST_INDEX
// text code.
func outputError(view string, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if content.IsEmptyInput(err) {
		return goerrors.Wrap(err, goerrors.CategoryValidation, view+" requires at least one published post").
			WithTextCode(emptyIndexCode)
	}
	return fmt.Errorf("mdblog: %s: %w", view, err)
}
