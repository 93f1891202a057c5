package content

import (
	"errors"
	"fmt"
	"strings"
)

// EmptyInputError reports an aggregate requested over zero posts.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("content: %s: no posts", e.Op)
}

// IsEmptyInput reports whether err is, or wraps, an EmptyInputError.
func IsEmptyInput(err error) bool {
	var target *EmptyInputError
	return errors.As(err, &target)
}

// DuplicateSlugError reports two or more published sources deriving the same slug.
type DuplicateSlugError struct {
	Slug  string
	Paths []string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("content: duplicate slug %q (%s)", e.Slug, strings.Join(e.Paths, ", "))
}
