package jvmbind

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// WideString is the native view of the runtime's own string encoding: a
// sequence of UTF-16 code units. It crosses the boundary 1:1 with no
// re-encoding.
type WideString []uint16

const stringClass = "java/lang/String"

// String returns the binding between a Go string (UTF-8) and the runtime's
// UTF-16 string type. Conversion re-encodes explicitly in both directions.
// Malformed input is an error condition, never best-effort substitution: an
// invalid UTF-8 sequence or an unpaired surrogate fails the conversion.
func String() Binding[string] { return stringBinding{} }

// UTF16String returns the binding for WideString. The managed representation
// is the same class as String's; only the native view differs.
func UTF16String() Binding[WideString] { return wideStringBinding{} }

type stringBinding struct{}

func (stringBinding) Descriptor() string { return "L" + stringClass + ";" }

func (stringBinding) ToManaged(env rt.Env, v string) (rt.Value, error) {
	units, err := encodeUTF16(v)
	if err != nil {
		return rt.Value{}, err
	}
	ref := env.NewString(units)
	if err := checkPending(env, "NewString"); err != nil {
		return rt.Value{}, err
	}
	return rt.ObjectValue(ref), nil
}

func (b stringBinding) ToNative(env rt.Env, val rt.Value) (string, error) {
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return "", err
	}
	units := env.GetString(ref)
	if err := checkPending(env, "GetString"); err != nil {
		return "", err
	}
	return decodeUTF16(units)
}

type wideStringBinding struct{}

func (wideStringBinding) Descriptor() string { return "L" + stringClass + ";" }

func (wideStringBinding) ToManaged(env rt.Env, v WideString) (rt.Value, error) {
	ref := env.NewString([]uint16(v))
	if err := checkPending(env, "NewString"); err != nil {
		return rt.Value{}, err
	}
	return rt.ObjectValue(ref), nil
}

func (b wideStringBinding) ToNative(env rt.Env, val rt.Value) (WideString, error) {
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return nil, err
	}
	units := env.GetString(ref)
	if err := checkPending(env, "GetString"); err != nil {
		return nil, err
	}
	return WideString(units), nil
}

var utf16Codec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// encodeUTF16 re-encodes valid UTF-8 into UTF-16 code units, producing
// surrogate pairs for code points above U+FFFF. Validity is checked up front:
// the encoder is never handed malformed input it might paper over.
func encodeUTF16(s string) ([]uint16, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrMalformedText)
	}
	raw, err := utf16Codec.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedText, err)
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}
	return units, nil
}

// decodeUTF16 re-encodes UTF-16 code units into UTF-8. Unpaired surrogates
// are rejected before decoding so that round-tripping is exact.
func decodeUTF16(units []uint16) (string, error) {
	if err := validateUTF16(units); err != nil {
		return "", err
	}
	raw := make([]byte, 2*len(units))
	for i, u := range units {
		raw[2*i] = byte(u >> 8)
		raw[2*i+1] = byte(u)
	}
	out, err := utf16Codec.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedText, err)
	}
	return string(out), nil
}

func validateUTF16(units []uint16) error {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u <= 0xDBFF:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] > 0xDFFF {
				return fmt.Errorf("%w: unpaired high surrogate at index %d", ErrMalformedText, i)
			}
			i++
		case u >= 0xDC00 && u <= 0xDFFF:
			return fmt.Errorf("%w: unpaired low surrogate at index %d", ErrMalformedText, i)
		}
	}
	return nil
}
