// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package ioutilx

import (
	"errors"
	"fmt"
	"io"
)

// ErrLimitExceeded is returned by [ReadAtMaximum] when the reader has more than n bytes.
var ErrLimitExceeded = errors.New("exceeded the limit")

// ReadAtMaximum reads n bytes at maximum.
// If r has more data than that, the first n bytes are returned with ErrLimitExceeded.
func ReadAtMaximum(r io.Reader, n int64) ([]byte, error) {
	lr := &io.LimitedReader{
		R: r,
		N: n + 1,
	}
	b, err := io.ReadAll(lr)
	if err != nil {
		return b, err
	}
	if int64(len(b)) > n {
		return b[:n], fmt.Errorf("%w (%d bytes)", ErrLimitExceeded, n)
	}
	return b, nil
}
