package jvmbind

import "strings"

// methodDescriptor assembles a method signature from parameter and return
// descriptors, e.g. methodDescriptor("Z", "I") == "(I)Z".
func methodDescriptor(ret string, params ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(p)
	}
	b.WriteByte(')')
	b.WriteString(ret)
	return b.String()
}
