/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package codec

import (
	"fmt"

	hcversion "github.com/hashicorp/go-version"
)

// Version is the wire protocol version, carried as a one-byte header in
// front of every encoded frame so a worker started with an older binary
// can refuse a request it cannot safely decode (spec.md §4.B).
type Version uint8

// CurrentVersion is the protocol version this package encodes with.
const CurrentVersion Version = 1

// MinSupportedVersion is the oldest wire version this package can still
// decode. Bumped only when a breaking change to the frame layout ships.
const MinSupportedVersion Version = 1

// dotted exposes Version as a semver-style string, for the --protocol CLI
// diagnostic path and for comparison via go-version.
func (v Version) dotted() string {
	return fmt.Sprintf("%d.0.0", v)
}

// Negotiate parses a requested protocol version (either a bare integer
// like "1" or a dotted string like "1.0.0") and reports whether this
// package can decode it. A worker bootstrapped with --protocol refuses to
// start if Negotiate returns false (spec.md §6, exit code 1).
func Negotiate(requested string) (Version, bool, error) {
	want, err := hcversion.NewVersion(normalizeVersionString(requested))
	if err != nil {
		return 0, false, fmt.Errorf("invalid protocol version %q: %w", requested, err)
	}

	min, _ := hcversion.NewVersion(MinSupportedVersion.dotted())
	max, _ := hcversion.NewVersion(CurrentVersion.dotted())

	if want.LessThan(min) || want.GreaterThan(max) {
		return 0, false, nil
	}

	return Version(want.Segments()[0]), true, nil
}

func normalizeVersionString(s string) string {
	for _, r := range s {
		if r == '.' {
			return s
		}
	}
	return s + ".0.0"
}
