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

// Package codec is the Object Codec: it encodes and decodes arbitrary
// language-level values exchanged between the client facade and the
// worker runtime, with a versioned wire header so the worker can refuse a
// protocol it does not understand instead of silently misinterpreting it.
package codec

// Value is the root of the type set this codec declares: nil, bool,
// int64, float64, []byte, string, []Value, map[string]Value, Unit, and
// Record. Unit and Record are encoded as CBOR maps and decode back as
// map[string]Value, not as their own Go types. A value Encode cannot
// serialize produces a ferror.Codec error.
type Value = interface{}

// Unit is the explicit "absence of a value" the spec calls out separately
// from nil/null, used for e.g. a before-shutdown hook that returns
// nothing. It encodes as an empty CBOR map rather than null, so a caller
// can tell "returned nothing" (an empty map after decoding) apart from
// "returned a null".
type Unit struct{}

// Record is a user-declared structured value: a named shape with fields
// of round-trippable types. The Name is carried on the wire so a fault
// produced on one side can name the record type in its message even
// though the two processes may not share the same Go type definition.
type Record struct {
	Name   string
	Fields map[string]Value
}
