package jvmbind

import (
	"errors"
	"fmt"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// NativeExceptionClass is the marker throwable class raised on the managed
// side when a native-exposed function fails with a Go error. Registry.Install
// defines it; the stub generator emits its source.
const NativeExceptionClass = "io/jvmbind/NativeException"

// ThrowableError is the native failure produced when a managed exception
// crosses the boundary. Class is the throwable's slash-separated class path;
// Message is its detail message. Throwing a ThrowableError back across the
// boundary re-raises the original class.
type ThrowableError struct {
	Class   string
	Message string
}

func (e *ThrowableError) Error() string {
	if e.Message == "" {
		return e.Class
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

// checkPending is issued immediately after every foreign call. If the runtime
// raised an exception the pending state is consumed here, before any further
// foreign call, and converted into a native failure carrying the throwable's
// class and message.
func checkPending(env rt.Env, op string) error {
	if !env.ExceptionCheck() {
		return nil
	}
	thr := env.ExceptionOccurred()
	env.ExceptionClear()
	class, msg := describeThrowable(env, thr)
	return &Error{Op: op, Err: &ThrowableError{Class: class, Message: msg}}
}

// describeThrowable extracts class path and message from a throwable. Runs
// with the pending state already consumed; secondary failures during
// extraction are swallowed so the original failure always surfaces.
func describeThrowable(env rt.Env, thr rt.Ref) (string, string) {
	if thr == 0 {
		return "java/lang/Throwable", ""
	}
	class := "java/lang/Throwable"
	cls := env.GetObjectClass(thr)
	clsCls := env.GetObjectClass(cls)
	nameID := env.GetMethodID(clsCls, "getName", "()Ljava/lang/String;")
	if env.ExceptionCheck() {
		env.ExceptionClear()
	} else {
		nv := env.CallMethod(cls, nameID)
		if env.ExceptionCheck() {
			env.ExceptionClear()
		} else if !nv.IsNull() {
			class = stringFromRef(env, nv.Object())
		}
	}

	msg := ""
	msgID := env.GetMethodID(cls, "getMessage", "()Ljava/lang/String;")
	if env.ExceptionCheck() {
		env.ExceptionClear()
	} else {
		mv := env.CallMethod(thr, msgID)
		if env.ExceptionCheck() {
			env.ExceptionClear()
		} else if !mv.IsNull() {
			msg = stringFromRef(env, mv.Object())
		}
	}
	return class, msg
}

// stringFromRef copies a managed string out for diagnostics. Best effort:
// undecodable content degrades to the empty string rather than masking the
// failure being reported.
func stringFromRef(env rt.Env, r rt.Ref) string {
	units := env.GetString(r)
	if env.ExceptionCheck() {
		env.ExceptionClear()
		return ""
	}
	s, err := decodeUTF16(units)
	if err != nil {
		return ""
	}
	return s
}

// throwNative translates a native failure into a managed exception before
// control returns to the managed runtime. A ThrowableError re-raises its
// original class; any other error raises NativeException (falling back to
// java/lang/RuntimeException when the marker class is not installed). Native
// failures never propagate through a boundary call frame as Go panics.
func throwNative(env rt.Env, err error) {
	if env.ExceptionCheck() {
		// Already pending: the failure originated managed-side and is still
		// in flight. Leave it.
		return
	}
	var te *ThrowableError
	if errors.As(err, &te) {
		cls := env.FindClass(te.Class)
		if env.ExceptionCheck() {
			env.ExceptionClear()
		} else {
			env.ThrowNew(cls, te.Message)
			return
		}
	}
	cls := env.FindClass(NativeExceptionClass)
	if env.ExceptionCheck() {
		env.ExceptionClear()
		cls = env.FindClass("java/lang/RuntimeException")
		if env.ExceptionCheck() {
			panic("jvmbind: runtime has no throwable classes")
		}
	}
	env.ThrowNew(cls, err.Error())
}
