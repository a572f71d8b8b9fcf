/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package ferror

import "errors"

// CodeOf returns the CodeError carried by err if it (or anything in its
// Unwrap chain) is a ferror.Error, and UnknownError otherwise.
func CodeOf(err error) CodeError {
	var f Error
	if errors.As(err, &f) {
		return f.Code()
	}

	return UnknownError
}

// Is reports whether err carries the given code anywhere in its chain.
// Unlike CodeOf, which reports only the outermost ferror.Error's code, Is
// also checks that error's ferror parents. For call sites that only care
// about the classification, not the Error value itself.
func Is(err error, code CodeError) bool {
	var f Error
	if errors.As(err, &f) {
		return f.IsCode(code)
	}

	return false
}
