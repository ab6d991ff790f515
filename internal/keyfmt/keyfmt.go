// stretch-go: memory-hard key stretching
// Copyright 2026 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keyfmt decodes textual key material with strict validation.
package keyfmt

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// Error types for key material decoding
var (
	ErrInvalidCharacter = errors.New("keyfmt: invalid character")
	ErrUnknownFormat    = errors.New("keyfmt: unknown format")
)

// Decode converts textual key material into raw bytes. The format is
// one of "raw" (bytes used as-is), "hex" or "base64" (strict standard
// encoding). Encoded forms reject \r and \n anywhere in the input
// rather than skipping them.
func Decode(format, s string) ([]byte, error) {
	switch format {
	case "raw":
		return []byte(s), nil
	case "hex":
		if strings.ContainsAny(s, "\r\n") {
			return nil, ErrInvalidCharacter
		}
		return hex.DecodeString(s)
	case "base64":
		if strings.ContainsAny(s, "\r\n") {
			return nil, ErrInvalidCharacter
		}
		return base64.StdEncoding.Strict().DecodeString(s)
	default:
		return nil, ErrUnknownFormat
	}
}

// Encode renders a derived digest in the given format, "hex" or
// "base64".
func Encode(format string, digest []byte) (string, error) {
	switch format {
	case "hex":
		return hex.EncodeToString(digest), nil
	case "base64":
		return base64.StdEncoding.EncodeToString(digest), nil
	default:
		return "", ErrUnknownFormat
	}
}
