package jvmbind_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

type rectangle struct {
	Width  float64
	Height float64
}

type person struct {
	Name    string
	Age     int32
	Hobbies []string
}

func rectangleBinding() *jvmbind.RecordBinding[rectangle] {
	return jvmbind.Record[rectangle]("demo/Rectangle",
		jvmbind.Field[rectangle]("width", jvmbind.Float64(),
			func(r *rectangle) float64 { return r.Width },
			func(r *rectangle, v float64) { r.Width = v }),
		jvmbind.Field[rectangle]("height", jvmbind.Float64(),
			func(r *rectangle) float64 { return r.Height },
			func(r *rectangle, v float64) { r.Height = v }),
	)
}

func personBinding() *jvmbind.RecordBinding[person] {
	return jvmbind.Record[person]("demo/Person",
		jvmbind.Field[person]("name", jvmbind.String(),
			func(p *person) string { return p.Name },
			func(p *person, v string) { p.Name = v }),
		jvmbind.Field[person]("age", jvmbind.Int32(),
			func(p *person) int32 { return p.Age },
			func(p *person, v int32) { p.Age = v }),
		jvmbind.Field[person]("hobbies", jvmbind.List(jvmbind.String()),
			func(p *person) []string { return p.Hobbies },
			func(p *person, v []string) { p.Hobbies = v }),
	)
}

func installRecords(t *testing.T, env rt.Env, bindings ...interface{ Info() jvmbind.RecordInfo }) {
	t.Helper()
	reg := jvmbind.NewRegistry(jvmbind.Config{})
	for _, b := range bindings {
		reg.Record(b.Info())
	}
	require.NoError(t, reg.Install(env))
}

func TestRecordRoundTrip(t *testing.T) {
	_, env := newEnv(t)
	rect := rectangleBinding()
	installRecords(t, env, rect)

	in := rectangle{Width: 3.5, Height: 2}
	raw, err := rect.ToManaged(env, in)
	require.NoError(t, err)
	out, err := rect.ToNative(env, raw)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(in, out))
}

func TestRecordWithNestedBindings(t *testing.T) {
	_, env := newEnv(t)
	pers := personBinding()
	installRecords(t, env, pers)

	in := person{Name: "Ada", Age: 36, Hobbies: []string{"math", "looms"}}
	raw, err := pers.ToManaged(env, in)
	require.NoError(t, err)
	out, err := pers.ToNative(env, raw)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(in, out))
}

func TestRecordRejectsWrongClass(t *testing.T) {
	_, env := newEnv(t)
	rect := rectangleBinding()
	installRecords(t, env, rect)

	box, err := jvmbind.Boxed(jvmbind.Int32()).ToManaged(env, 1)
	require.NoError(t, err)
	_, err = rect.ToNative(env, box)
	require.ErrorIs(t, err, jvmbind.ErrClassCast)
}

func TestRecordRejectsNull(t *testing.T) {
	_, env := newEnv(t)
	rect := rectangleBinding()
	installRecords(t, env, rect)

	_, err := rect.ToNative(env, rt.ObjectValue(0))
	require.ErrorIs(t, err, jvmbind.ErrNullObject)
}

func TestRecordInfoShape(t *testing.T) {
	info := personBinding().Info()
	require.Equal(t, "demo/Person", info.Class)
	require.Equal(t, []jvmbind.FieldInfo{
		{Name: "name", Descriptor: "Ljava/lang/String;"},
		{Name: "age", Descriptor: "I"},
		{Name: "hobbies", Descriptor: "Ljava/util/List;"},
	}, info.Fields)
}
