// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package pool

import (
	"crypto/rand"
	"io"
)

// osCSPRNGSource draws raw bytes from the platform random service via
// crypto/rand, exactly as newDRBG does in x/crypto/ctrdrbg.
type osCSPRNGSource struct{}

// NewOSCSPRNGSource returns the platform CSPRNG entropy source.
func NewOSCSPRNGSource() Source { return osCSPRNGSource{} }

func (osCSPRNGSource) Name() string { return "os-csprng" }

func (osCSPRNGSource) Available() bool { return true }

func (osCSPRNGSource) Fill(buf []byte) Status {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return StatusError
	}
	return StatusOK
}
