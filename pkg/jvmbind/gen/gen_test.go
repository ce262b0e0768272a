package gen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/gen"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

type point struct {
	X, Y float64
}

func sampleRegistry() *jvmbind.Registry {
	reg := jvmbind.NewRegistry(jvmbind.Config{})

	calc := reg.StaticClass("demo/math/Calculator")
	jvmbind.Static2(calc, "add", jvmbind.Int32(), jvmbind.Int32(), jvmbind.Int32(),
		func(_ rt.Env, a, b int32) (int32, error) { return a + b, nil })
	jvmbind.Static1(calc, "describe", jvmbind.Int32(), jvmbind.String(),
		func(_ rt.Env, v int32) (string, error) { return "", nil })

	pt := jvmbind.Record[point]("demo/math/Point",
		jvmbind.Field("x", jvmbind.Float64(), func(p *point) float64 { return p.X }, func(p *point, v float64) { p.X = v }),
		jvmbind.Field("y", jvmbind.Float64(), func(p *point) float64 { return p.Y }, func(p *point, v float64) { p.Y = v }),
	)
	reg.Record(pt.Info())

	return reg
}

func fileByPath(t *testing.T, files []*gen.OutputFile, path string) string {
	t.Helper()
	for _, f := range files {
		if f.Path == path {
			return string(f.Content)
		}
	}
	t.Fatalf("no generated file at %s", path)
	return ""
}

func TestGenerateStaticClass(t *testing.T) {
	files, err := gen.Generate(sampleRegistry())
	require.NoError(t, err)

	src := fileByPath(t, files, "demo/math/Calculator.java")
	require.Contains(t, src, "package demo.math;")
	require.Contains(t, src, "public final class Calculator {")
	require.Contains(t, src, "public static native int add(int arg0, int arg1);")
	require.Contains(t, src, "public static native java.lang.String describe(int arg0);")
	require.NotContains(t, src, "nativePointer")
	require.NotContains(t, src, "implements AutoCloseable")
}

func TestGenerateRecord(t *testing.T) {
	files, err := gen.Generate(sampleRegistry())
	require.NoError(t, err)

	src := fileByPath(t, files, "demo/math/Point.java")
	require.Contains(t, src, "public final class Point {")
	require.Contains(t, src, "public double x;")
	require.Contains(t, src, "public double y;")
	require.Contains(t, src, "public Point() {")
	require.NotContains(t, src, "native")
}

func TestGenerateNativeClass(t *testing.T) {
	reg := jvmbind.NewRegistry(jvmbind.Config{})
	c := reg.NativeClass("demo/io/Channel")
	jvmbind.Constructor1(c, "open", jvmbind.String(),
		func(_ rt.Env, name string) (*strings.Builder, error) { return &strings.Builder{}, nil })
	jvmbind.Method1(c, "send", jvmbind.String(), jvmbind.Int32(),
		func(_ rt.Env, b *strings.Builder, s string) (int32, error) { return 0, nil })

	files, err := gen.Generate(reg)
	require.NoError(t, err)

	src := fileByPath(t, files, "demo/io/Channel.java")
	require.Contains(t, src, "public final class Channel implements AutoCloseable {")
	require.Contains(t, src, "private long nativePointer;")
	require.Contains(t, src, "public static native demo.io.Channel open(java.lang.String arg0);")
	require.Contains(t, src, "public native int send(java.lang.String arg0);")
	require.Contains(t, src, "private native void release();")
	require.Contains(t, src, "public void close() {")

	// Static factories sort ahead of instance methods.
	require.Less(t, strings.Index(src, "open"), strings.Index(src, "send"))
}

func TestSupportFiles(t *testing.T) {
	files, err := gen.SupportFiles()
	require.NoError(t, err)

	exc := fileByPath(t, files, "io/jvmbind/NativeException.java")
	require.Contains(t, exc, "package io.jvmbind;")
	require.Contains(t, exc, "public class NativeException extends RuntimeException {")

	pred := fileByPath(t, files, "io/jvmbind/NativeIntPredicate.java")
	require.Contains(t, pred, "implements java.util.function.IntPredicate, AutoCloseable")
	require.Contains(t, pred, "public native boolean test(int arg0);")
	require.Contains(t, pred, "private long nativePointer;")
	require.Contains(t, pred, "protected void finalize() {")

	for _, f := range files {
		require.True(t, strings.HasPrefix(string(f.Content), "// Generated by jvmbind-gen."),
			"%s missing header", f.Path)
	}
}
