// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package ioutilx

import (
	"errors"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestReadAtMaximum(t *testing.T) {
	t.Run("under the limit", func(t *testing.T) {
		b, err := ReadAtMaximum(strings.NewReader("hello"), 10)
		assert.NilError(t, err)
		assert.Equal(t, "hello", string(b))
	})
	t.Run("exactly the limit", func(t *testing.T) {
		b, err := ReadAtMaximum(strings.NewReader("hello"), 5)
		assert.NilError(t, err)
		assert.Equal(t, "hello", string(b))
	})
	t.Run("over the limit", func(t *testing.T) {
		b, err := ReadAtMaximum(strings.NewReader("hello world"), 5)
		assert.Assert(t, errors.Is(err, ErrLimitExceeded))
		assert.Equal(t, "hello", string(b))
	})
	t.Run("empty", func(t *testing.T) {
		b, err := ReadAtMaximum(strings.NewReader(""), 5)
		assert.NilError(t, err)
		assert.Equal(t, 0, len(b))
	})
}
