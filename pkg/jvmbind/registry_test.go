package jvmbind_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// counter is a native value exposed to the managed side through a handle.
type counter struct {
	total int32
}

func buildRegistry(t *testing.T) *jvmbind.Registry {
	t.Helper()
	reg := jvmbind.NewRegistry(jvmbind.Config{})

	calc := reg.StaticClass("demo/Calculator")
	jvmbind.Static2(calc, "add", jvmbind.Int32(), jvmbind.Int32(), jvmbind.Int32(),
		func(_ rt.Env, a, b int32) (int32, error) { return a + b, nil })
	jvmbind.Static1(calc, "greet", jvmbind.String(), jvmbind.String(),
		func(_ rt.Env, name string) (string, error) { return "hello " + name, nil })
	jvmbind.Static1(calc, "fail", jvmbind.Int32(), jvmbind.Int32(),
		func(_ rt.Env, _ int32) (int32, error) { return 0, fmt.Errorf("no can do") })
	jvmbind.Static1(calc, "rethrow", jvmbind.Int32(), jvmbind.Int32(),
		func(_ rt.Env, _ int32) (int32, error) {
			return 0, &jvmbind.ThrowableError{Class: "java/lang/IllegalStateException", Message: "relayed"}
		})

	count := reg.NativeClass("demo/Counter")
	jvmbind.Constructor1(count, "create", jvmbind.Int32(),
		func(_ rt.Env, start int32) (*counter, error) { return &counter{total: start}, nil })
	// Overload: a zero-argument factory alongside the one-argument one.
	jvmbind.Constructor0(count, "create",
		func(_ rt.Env) (*counter, error) { return &counter{}, nil })
	jvmbind.Method1(count, "add", jvmbind.Int32(), jvmbind.Int32(),
		func(_ rt.Env, c *counter, v int32) (int32, error) {
			c.total += v
			return c.total, nil
		})
	jvmbind.Method0(count, "value", jvmbind.Int32(),
		func(_ rt.Env, c *counter) (int32, error) { return c.total, nil })

	return reg
}

func TestStaticMethodsThroughManagedCalls(t *testing.T) {
	_, env := newEnv(t)
	require.NoError(t, buildRegistry(t).Install(env))

	cls := env.FindClass("demo/Calculator")
	require.False(t, env.ExceptionCheck())

	add := env.GetStaticMethodID(cls, "add", "(II)I")
	got := env.CallStaticMethod(cls, add, rt.Int32Value(2), rt.Int32Value(40))
	require.False(t, env.ExceptionCheck())
	require.Equal(t, int32(42), got.Int32())

	greet := env.GetStaticMethodID(cls, "greet", "(Ljava/lang/String;)Ljava/lang/String;")
	name, err := jvmbind.String().ToManaged(env, "world")
	require.NoError(t, err)
	res := env.CallStaticMethod(cls, greet, name)
	require.False(t, env.ExceptionCheck())
	s, err := jvmbind.String().ToNative(env, res)
	require.NoError(t, err)
	require.Equal(t, "hello world", s)
}

func TestNativeClassLifecycle(t *testing.T) {
	_, env := newEnv(t)
	require.NoError(t, buildRegistry(t).Install(env))

	cls := env.FindClass("demo/Counter")
	create := env.GetStaticMethodID(cls, "create", "(I)Ldemo/Counter;")
	inst := env.CallStaticMethod(cls, create, rt.Int32Value(10))
	require.False(t, env.ExceptionCheck())
	require.False(t, inst.IsNull())

	add := env.GetMethodID(cls, "add", "(I)I")
	require.Equal(t, int32(15), env.CallMethod(inst.Object(), add, rt.Int32Value(5)).Int32())
	require.Equal(t, int32(17), env.CallMethod(inst.Object(), add, rt.Int32Value(2)).Int32())

	value := env.GetMethodID(cls, "value", "()I")
	require.Equal(t, int32(17), env.CallMethod(inst.Object(), value).Int32())
}

func TestConstructorOverloads(t *testing.T) {
	_, env := newEnv(t)
	require.NoError(t, buildRegistry(t).Install(env))

	cls := env.FindClass("demo/Counter")
	create0 := env.GetStaticMethodID(cls, "create", "()Ldemo/Counter;")
	create1 := env.GetStaticMethodID(cls, "create", "(I)Ldemo/Counter;")
	require.False(t, env.ExceptionCheck())
	require.NotEqual(t, create0, create1)

	value := env.GetMethodID(cls, "value", "()I")
	zero := env.CallStaticMethod(cls, create0)
	require.Equal(t, int32(0), env.CallMethod(zero.Object(), value).Int32())
	ten := env.CallStaticMethod(cls, create1, rt.Int32Value(10))
	require.Equal(t, int32(10), env.CallMethod(ten.Object(), value).Int32())
}

func TestGoErrorRaisesNativeException(t *testing.T) {
	_, env := newEnv(t)
	require.NoError(t, buildRegistry(t).Install(env))

	cls := env.FindClass("demo/Calculator")
	fail := env.GetStaticMethodID(cls, "fail", "(I)I")
	env.CallStaticMethod(cls, fail, rt.Int32Value(1))
	require.True(t, env.ExceptionCheck())

	thr := env.ExceptionOccurred()
	env.ExceptionClear()
	require.True(t, env.IsInstanceOf(thr, env.FindClass(jvmbind.NativeExceptionClass)))
}

func TestThrowableErrorReRaisesOriginalClass(t *testing.T) {
	_, env := newEnv(t)
	require.NoError(t, buildRegistry(t).Install(env))

	cls := env.FindClass("demo/Calculator")
	rethrow := env.GetStaticMethodID(cls, "rethrow", "(I)I")
	env.CallStaticMethod(cls, rethrow, rt.Int32Value(1))
	require.True(t, env.ExceptionCheck())

	thr := env.ExceptionOccurred()
	env.ExceptionClear()
	require.True(t, env.IsInstanceOf(thr, env.FindClass("java/lang/IllegalStateException")),
		"re-raise lost the original throwable class")
}

func TestDuplicateMethodPanics(t *testing.T) {
	reg := jvmbind.NewRegistry(jvmbind.Config{})
	c := reg.StaticClass("demo/Dup")
	jvmbind.Static1(c, "f", jvmbind.Int32(), jvmbind.Int32(),
		func(_ rt.Env, v int32) (int32, error) { return v, nil })
	require.Panics(t, func() {
		jvmbind.Static1(c, "f", jvmbind.Int32(), jvmbind.Int32(),
			func(_ rt.Env, v int32) (int32, error) { return v, nil })
	})
}

func TestRegistryShapeForGeneration(t *testing.T) {
	reg := buildRegistry(t)
	classes := reg.Classes()
	require.Len(t, classes, 2)
	require.Equal(t, "demo/Calculator", classes[0].Name)
	require.False(t, classes[0].Native)
	require.Equal(t, "demo/Counter", classes[1].Name)
	require.True(t, classes[1].Native)

	var sigs []string
	for _, m := range classes[1].Methods {
		sigs = append(sigs, m.Name+m.Signature)
	}
	require.Contains(t, sigs, "create(I)Ldemo/Counter;")
	require.Contains(t, sigs, "create()Ldemo/Counter;")
	require.Contains(t, sigs, "add(I)I")
}
