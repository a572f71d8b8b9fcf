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
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/sabouaram/bitbridge/ferror"
)

// frameHeaderSize is the one-byte protocol version prefix in front of
// every encoded frame (spec.md §4.B "the codec must expose a declared
// protocol version").
const frameHeaderSize = 1

// encMode is shared by every Encode call. Floats are written as float64
// with no shortening and no NaN/Inf conversion, which is what makes
// NaN/±Inf round-trip bit-for-bit (spec.md §4.B, §8 invariant 1): a
// shortest-form encoder could otherwise re-encode a float64 NaN as a
// float16 NaN, changing its bit pattern on decode.
var encMode, _ = cbor.EncOptions{
	ShortestFloat: cbor.ShortestFloatNone,
	NaNConvert:    cbor.NaNConvertNone,
	InfConvert:    cbor.InfConvertNone,
}.EncMode()

// decMode enables duplicate-map-key rejection (cbor's default, "ignore")
// would silently let a malformed frame overwrite a field twice; bitbridge
// frames should fail loudly instead. IntDecConvertSigned decodes every
// CBOR integer into int64 when the destination is Value (interface{}),
// rather than splitting positive values into uint64 and negative values
// into int64 — without it, Encode(int64(17)) would Decode back as
// uint64(17), breaking the round-trip invariant spec.md §8 requires.
// DefaultMapType likewise decodes a CBOR map into map[string]Value rather
// than map[interface{}]interface{}, so a string-keyed mapping comes back
// as the same Go type it was encoded from.
var decMode, _ = cbor.DecOptions{
	DupMapKey:      cbor.DupMapKeyEnforcedAPF,
	IntDec:         cbor.IntDecConvertSigned,
	DefaultMapType: reflect.TypeOf(map[string]Value(nil)),
}.DecMode()

// Encode serializes v under CurrentVersion, prefixing the one-byte
// version header. It never touches the transport: an unencodable value
// (e.g. a channel, a func with no registered Record mapping) surfaces as
// ferror.Codec immediately, per spec.md §4.B's "Encoding errors raise a
// local not-encodable fault without touching the transport".
func Encode(v Value) ([]byte, error) {
	body, err := encMode.Marshal(v)
	if err != nil {
		return nil, ferror.New(ferror.Codec, "value is not encodable", err, fmt.Sprintf("%T", v))
	}

	return append([]byte{byte(CurrentVersion)}, body...), nil
}

// Decode reverses Encode, validating the frame's version header against
// MinSupportedVersion/CurrentVersion before touching the body.
func Decode(frame []byte, out *Value) error {
	body, err := stripHeader(frame)
	if err != nil {
		return err
	}

	if err := decMode.Unmarshal(body, out); err != nil {
		return ferror.New(ferror.Codec, "frame is not decodable", err, "")
	}

	return nil
}

func stripHeader(frame []byte) ([]byte, error) {
	if len(frame) < frameHeaderSize {
		return nil, ferror.New(ferror.Codec, "frame shorter than version header", nil, "")
	}

	v := Version(frame[0])
	if v < MinSupportedVersion || v > CurrentVersion {
		return nil, ferror.New(ferror.ProtocolVersionMismatch,
			fmt.Sprintf("frame declares protocol version %d, supported range is [%d,%d]", v, MinSupportedVersion, CurrentVersion),
			nil, "")
	}

	return frame[frameHeaderSize:], nil
}

// EncodeRequest serializes a Request frame.
func EncodeRequest(req Request) ([]byte, error) {
	return encodeTyped(req)
}

// DecodeRequest reverses EncodeRequest.
func DecodeRequest(frame []byte) (Request, error) {
	var req Request
	err := decodeTyped(frame, &req)
	return req, err
}

// EncodeResponse serializes a Response frame.
func EncodeResponse(resp Response) ([]byte, error) {
	return encodeTyped(resp)
}

// DecodeResponse reverses EncodeResponse.
func DecodeResponse(frame []byte) (Response, error) {
	var resp Response
	err := decodeTyped(frame, &resp)
	return resp, err
}

func encodeTyped(v any) ([]byte, error) {
	body, err := encMode.Marshal(v)
	if err != nil {
		return nil, ferror.New(ferror.Codec, "value is not encodable", err, fmt.Sprintf("%T", v))
	}

	return append([]byte{byte(CurrentVersion)}, body...), nil
}

func decodeTyped(frame []byte, out any) error {
	body, err := stripHeader(frame)
	if err != nil {
		return err
	}

	if err := decMode.Unmarshal(body, out); err != nil {
		return ferror.New(ferror.Codec, "frame is not decodable", err, "")
	}

	return nil
}
