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

package worker

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/ferror"
)

// Reflective is the default Extension: it resolves a remote method name
// against a caller-supplied target value by reflection instead of
// requiring every extension author to write a Dispatch switch by hand
// (spec.md §9). A resolved non-callable field with zero supplied
// arguments is treated as a read, exactly as spec.md §4.D.2 prescribes.
//
// Four method shapes are recognized, tried in this order:
//   - func([]codec.Value, map[string]codec.Value) (codec.Value, error): the
//     raw escape hatch, full control over positional and keyword args.
//   - func(...codec.Value) (codec.Value, error): pure positional methods
//     such as add(a, b) or reverse_string_v1(s).
//   - func(P) (codec.Value, error) where P is a struct: keyword arguments
//     are decoded into P via mapstructure; positional arguments are
//     rejected.
//   - func() (codec.Value, error) or func() codec.Value: zero-argument
//     methods, for symmetry with non-callable attribute reads.
type Reflective struct {
	target reflect.Value
}

// NewReflective wraps target (typically a pointer to a struct) as an
// Extension.
func NewReflective(target interface{}) *Reflective {
	return &Reflective{target: reflect.ValueOf(target)}
}

var (
	rawArgsType   = reflect.TypeOf([]codec.Value{})
	rawKwargsType = reflect.TypeOf(map[string]codec.Value{})
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	valueType     = reflect.TypeOf((*codec.Value)(nil)).Elem()
)

// exportedName maps a wire method name like "scalar_multiply" or
// "reverse_string_v1" onto the Go exported-method convention
// "ScalarMultiply" / "ReverseStringV1".
func exportedName(method string) string {
	parts := strings.Split(method, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

func (r *Reflective) Dispatch(ctx context.Context, method string, args []codec.Value, kwargs map[string]codec.Value) (codec.Value, error) {
	name := exportedName(method)

	m := r.target.MethodByName(name)
	if !m.IsValid() {
		return r.readField(name, args, kwargs)
	}

	return invoke(m, args, kwargs)
}

func (r *Reflective) readField(name string, args []codec.Value, kwargs map[string]codec.Value) (codec.Value, error) {
	v := r.target
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, ferror.New(ferror.AttributeMissing, fmt.Sprintf("no such remote method or attribute %q", name), nil, "")
	}

	f := v.FieldByName(name)
	if !f.IsValid() || !f.CanInterface() {
		return nil, ferror.New(ferror.AttributeMissing, fmt.Sprintf("no such remote method or attribute %q", name), nil, "")
	}

	if len(args) > 0 || len(kwargs) > 0 {
		return nil, ferror.New(ferror.AttributeMissing, fmt.Sprintf("%q is not callable", name), nil, "")
	}

	return f.Interface(), nil
}

func invoke(m reflect.Value, args []codec.Value, kwargs map[string]codec.Value) (codec.Value, error) {
	t := m.Type()

	switch {
	case matchesRawSignature(t):
		out := m.Call([]reflect.Value{reflect.ValueOf(args), reflect.ValueOf(kwargs)})
		return unpackResult(out)

	case t.IsVariadic() && t.NumIn() == 1 && t.In(0).Elem() == valueType:
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			in[i] = asValueArg(a)
		}
		out := m.Call(in)
		return unpackResult(out)

	case t.NumIn() == 1 && t.In(0).Kind() == reflect.Struct:
		if len(args) > 0 {
			return nil, ferror.New(ferror.AttributeMissing, fmt.Sprintf("%q does not accept positional arguments", m.String()), nil, "")
		}
		paramsPtr := reflect.New(t.In(0))
		if len(kwargs) > 0 {
			if err := mapstructure.Decode(kwargs, paramsPtr.Interface()); err != nil {
				return nil, ferror.New(ferror.Codec, "failed to decode keyword arguments", err, "")
			}
		}
		out := m.Call([]reflect.Value{paramsPtr.Elem()})
		return unpackResult(out)

	case t.NumIn() == 0:
		out := m.Call(nil)
		return unpackResult(out)

	default:
		return nil, ferror.New(ferror.AttributeMissing, fmt.Sprintf("method %q has an unsupported signature for reflective dispatch", m.String()), nil, "")
	}
}

func matchesRawSignature(t reflect.Type) bool {
	return t.NumIn() == 2 && t.In(0) == rawArgsType && t.In(1) == rawKwargsType
}

// asValueArg builds a reflect.Value for a as a codec.Value (interface{})
// argument slot; the dynamic type inside a is passed through unchanged.
func asValueArg(a codec.Value) reflect.Value {
	holder := reflect.New(valueType).Elem()
	if a != nil {
		holder.Set(reflect.ValueOf(a))
	}
	return holder
}

func unpackResult(out []reflect.Value) (codec.Value, error) {
	switch len(out) {
	case 0:
		return codec.Unit{}, nil
	case 1:
		if out[0].Type().Implements(errorType) {
			if out[0].IsNil() {
				return codec.Unit{}, nil
			}
			return nil, out[0].Interface().(error)
		}
		return out[0].Interface(), nil
	default:
		var err error
		if ev := out[len(out)-1]; ev.Type().Implements(errorType) && !ev.IsNil() {
			err = ev.Interface().(error)
		}
		return out[0].Interface(), err
	}
}
