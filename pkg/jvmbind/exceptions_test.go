package jvmbind_test

import (
	"errors"
	"testing"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
)

func TestManagedExceptionBecomesError(t *testing.T) {
	_, env := newEnv(t)

	rec := jvmbind.Record[struct{}]("no/Such")
	_, err := rec.ToManaged(env, struct{}{})
	if err == nil {
		t.Fatal("marshaling against an unknown class succeeded")
	}

	var be *jvmbind.Error
	if !errors.As(err, &be) {
		t.Fatalf("err %T is not *jvmbind.Error", err)
	}
	var te *jvmbind.ThrowableError
	if !errors.As(err, &te) {
		t.Fatalf("err %v does not wrap a ThrowableError", err)
	}
	if te.Class != "java/lang/ClassNotFoundException" {
		t.Fatalf("throwable class = %q", te.Class)
	}
	if te.Message != "no/Such" {
		t.Fatalf("throwable message = %q", te.Message)
	}
}

func TestPendingStateConsumedByTranslation(t *testing.T) {
	_, env := newEnv(t)

	rec := jvmbind.Record[struct{}]("no/Such")
	if _, err := rec.ToManaged(env, struct{}{}); err == nil {
		t.Fatal("expected an error")
	}
	// The failure was consumed into the Go error; the context is clean and
	// usable for further calls.
	if env.ExceptionCheck() {
		t.Fatal("exception still pending after translation")
	}
	if _, err := jvmbind.String().ToManaged(env, "still works"); err != nil {
		t.Fatalf("context unusable after translated failure: %v", err)
	}
}
