/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package atomicx provides a generic, type-safe wrapper around
// sync/atomic.Value, used by worker.Runtime to hold its current
// state-machine phase without a mutex. It accepts any T, function values
// included.
package atomicx

import "sync/atomic"

// Value is a type-safe atomic container for T.
type Value[T any] interface {
	// Load returns the current value, or the zero value of T if never set.
	Load() T

	// Store sets the value.
	Store(v T)

	// Swap atomically stores v and returns the previous value.
	Swap(v T) (old T)
}

type val[T any] struct {
	av atomic.Value
}

// New returns an empty Value[T].
func New[T any]() Value[T] {
	return &val[T]{}
}

// NewValue returns a Value[T] initialized to v.
func NewValue[T any](v T) Value[T] {
	o := &val[T]{}
	o.Store(v)
	return o
}

// box avoids storing T directly in atomic.Value, which panics if
// successive Store calls are given dynamically different concrete types
// (e.g. T = any). Wrapping in a fixed-type box sidesteps that restriction.
type box[T any] struct {
	v T
}

func (o *val[T]) Load() T {
	var zero T

	v := o.av.Load()
	if v == nil {
		return zero
	}

	b, ok := v.(box[T])
	if !ok {
		return zero
	}

	return b.v
}

func (o *val[T]) Store(v T) {
	o.av.Store(box[T]{v: v})
}

func (o *val[T]) Swap(v T) (old T) {
	prev := o.av.Swap(box[T]{v: v})
	if prev == nil {
		var zero T
		return zero
	}

	b, ok := prev.(box[T])
	if !ok {
		var zero T
		return zero
	}

	return b.v
}
