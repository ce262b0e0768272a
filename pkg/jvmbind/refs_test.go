package jvmbind_test

import (
	"testing"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

func newManagedString(t *testing.T, env rt.Env, s string) rt.Ref {
	t.Helper()
	v, err := jvmbind.String().ToManaged(env, s)
	if err != nil {
		t.Fatalf("ToManaged(%q): %v", s, err)
	}
	return v.Object()
}

func TestWithFrameReleasesEverything(t *testing.T) {
	vm, env := newEnv(t)

	base := vm.LiveLocalRefs()
	err := jvmbind.WithFrame(env, func(f *jvmbind.Frame) error {
		for i := 0; i < 10; i++ {
			newManagedString(t, f.Env(), "scoped")
		}
		if vm.LiveLocalRefs() <= base {
			t.Fatal("no local refs accumulated inside the frame")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := vm.LiveLocalRefs(); got != base {
		t.Fatalf("live local refs after frame = %d, want %d", got, base)
	}
}

func TestWithFrameReleasesOnPanic(t *testing.T) {
	vm, env := newEnv(t)

	base := vm.LiveLocalRefs()
	func() {
		defer func() { _ = recover() }()
		_ = jvmbind.WithFrame(env, func(f *jvmbind.Frame) error {
			newManagedString(t, f.Env(), "doomed")
			panic("unwind")
		})
	}()
	if got := vm.LiveLocalRefs(); got != base {
		t.Fatalf("live local refs after panic = %d, want %d", got, base)
	}
}

func TestPromoteOutlivesFrame(t *testing.T) {
	vm, env := newEnv(t)

	var durable jvmbind.DurableRef
	err := jvmbind.WithFrame(env, func(f *jvmbind.Frame) error {
		s := f.Scoped(newManagedString(t, f.Env(), "kept"))
		durable = s.Promote(f.Env())
		if !s.IsNil() {
			t.Fatal("Promote did not consume the scoped ref")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := jvmbind.String().ToNative(env, rt.ObjectValue(durable.Ref()))
	if err != nil {
		t.Fatalf("reading promoted ref after frame: %v", err)
	}
	if got != "kept" {
		t.Fatalf("promoted content = %q, want kept", got)
	}
	durable.Release(env)
	if vm.LiveGlobalRefs() != 0 {
		t.Fatal("global table not empty after release")
	}
}

func TestDurableRefSurvivesCollection(t *testing.T) {
	vm, env := newEnv(t)

	var durable jvmbind.DurableRef
	err := jvmbind.WithFrame(env, func(f *jvmbind.Frame) error {
		s := f.Scoped(newManagedString(t, f.Env(), "pinned"))
		durable = s.Promote(f.Env())
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	// The frame is gone, so the global ref is the object's only root.
	vm.GC()
	got, err := jvmbind.String().ToNative(env, rt.ObjectValue(durable.Ref()))
	if err != nil {
		t.Fatalf("reading durable ref after collection: %v", err)
	}
	if got != "pinned" {
		t.Fatalf("durable content after collection = %q, want pinned", got)
	}

	live := vm.LiveObjects()
	durable.Release(env)
	vm.GC()
	if got := vm.LiveObjects(); got != live-1 {
		t.Fatalf("live objects after release and collection = %d, want %d", got, live-1)
	}
}

func TestScopedDoubleReleasePanics(t *testing.T) {
	_, env := newEnv(t)

	_ = jvmbind.WithFrame(env, func(f *jvmbind.Frame) error {
		s := f.Scoped(newManagedString(t, f.Env(), "x"))
		s.Release(f.Env())
		defer func() {
			if recover() == nil {
				t.Fatal("double release of scoped ref did not panic")
			}
		}()
		s.Release(f.Env())
		return nil
	})
}

func TestDurableMoveTransfersOwnership(t *testing.T) {
	_, env := newEnv(t)

	var d jvmbind.DurableRef
	_ = jvmbind.WithFrame(env, func(f *jvmbind.Frame) error {
		s := f.Scoped(newManagedString(t, f.Env(), "moved"))
		d = s.Promote(f.Env())
		return nil
	})

	moved := d.Move()
	if !d.IsNil() {
		t.Fatal("Move did not consume the source")
	}
	defer moved.Release(env)

	defer func() {
		if recover() == nil {
			t.Fatal("release of a moved-from ref did not panic")
		}
	}()
	d.Release(env)
}
