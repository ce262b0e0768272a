package jvmbind_test

import (
	"errors"
	"testing"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
)

func TestStringRoundTrip(t *testing.T) {
	_, env := newEnv(t)

	for _, s := range []string{
		"",
		"hello",
		"héllo wörld",
		"日本語",
		"astral \U0001F600 pair", // encodes as a surrogate pair
	} {
		roundTrip(t, env, jvmbind.String(), s)
	}
}

func TestStringRejectsInvalidUTF8(t *testing.T) {
	_, env := newEnv(t)

	_, err := jvmbind.String().ToManaged(env, string([]byte{0xff, 0xfe}))
	if !errors.Is(err, jvmbind.ErrMalformedText) {
		t.Fatalf("err = %v, want ErrMalformedText", err)
	}
}

func TestStringRejectsUnpairedSurrogates(t *testing.T) {
	_, env := newEnv(t)

	for _, units := range []jvmbind.WideString{
		{0xD800},      // lone high surrogate
		{0xDC00},      // lone low surrogate
		{0xD800, 'a'}, // high surrogate not followed by low
		{'a', 0xDFFF}, // low surrogate with no preceding high
	} {
		raw, err := jvmbind.UTF16String().ToManaged(env, units)
		if err != nil {
			t.Fatalf("ToManaged(%v): %v", units, err)
		}
		if _, err := jvmbind.String().ToNative(env, raw); !errors.Is(err, jvmbind.ErrMalformedText) {
			t.Fatalf("units %v: err = %v, want ErrMalformedText", units, err)
		}
	}
}

func TestWideStringCarriesRawUnits(t *testing.T) {
	_, env := newEnv(t)

	// An unpaired surrogate is representable as raw units; only the UTF-8
	// view rejects it.
	units := jvmbind.WideString{0xD800, 'x'}
	raw, err := jvmbind.UTF16String().ToManaged(env, units)
	if err != nil {
		t.Fatalf("ToManaged: %v", err)
	}
	got, err := jvmbind.UTF16String().ToNative(env, raw)
	if err != nil {
		t.Fatalf("ToNative: %v", err)
	}
	if len(got) != 2 || got[0] != 0xD800 || got[1] != 'x' {
		t.Fatalf("round trip = %v, want %v", got, units)
	}
}

func TestSurrogatePairSurvives(t *testing.T) {
	_, env := newEnv(t)

	raw, err := jvmbind.String().ToManaged(env, "\U0001F600")
	if err != nil {
		t.Fatal(err)
	}
	wide, err := jvmbind.UTF16String().ToNative(env, raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(wide) != 2 {
		t.Fatalf("code units = %d, want surrogate pair", len(wide))
	}
}
