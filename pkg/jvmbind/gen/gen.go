// Package gen emits the managed-side source stubs matching a Registry: one
// .java file per declared class and record, plus the fixed support classes
// (the NativeException marker and the function-bridging proxies). The emitted
// shapes match what Registry.Install defines, byte for byte in names and
// signatures.
package gen

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
)

// OutputFile is one generated source file. Path is relative to the output
// root, following source-tree convention (directories per package segment).
type OutputFile struct {
	Path    string
	Content []byte
}

// Generate emits stubs for every class and record the registry declares.
// Support classes are not included; see SupportFiles.
func Generate(reg *jvmbind.Registry) ([]*OutputFile, error) {
	var out []*OutputFile
	for _, c := range reg.Classes() {
		f, err := classFile(c)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	for _, r := range reg.Records() {
		f, err := recordFile(r)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// SupportFiles emits the fixed runtime support stubs every installation
// needs, independent of any registry.
func SupportFiles() ([]*OutputFile, error) {
	out := []*OutputFile{exceptionFile()}
	for _, p := range jvmbind.ProxyClasses() {
		f, err := proxyFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func exceptionFile() *OutputFile {
	var b strings.Builder
	writeHeader(&b, jvmbind.NativeExceptionClass)
	fmt.Fprintf(&b, "public class %s extends RuntimeException {\n", simpleName(jvmbind.NativeExceptionClass))
	fmt.Fprintf(&b, "    public %s(String message) {\n", simpleName(jvmbind.NativeExceptionClass))
	b.WriteString("        super(message);\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return &OutputFile{Path: filePath(jvmbind.NativeExceptionClass), Content: []byte(b.String())}
}

func proxyFile(c jvmbind.ClassInfo) (*OutputFile, error) {
	var b strings.Builder
	writeHeader(&b, c.Name)
	impl := make([]string, 0, len(c.Ifaces)+1)
	for _, in := range c.Ifaces {
		impl = append(impl, dotted(in))
	}
	impl = append(impl, "AutoCloseable")
	fmt.Fprintf(&b, "public final class %s implements %s {\n", simpleName(c.Name), strings.Join(impl, ", "))
	b.WriteString("    private long nativePointer;\n\n")
	fmt.Fprintf(&b, "    private %s() {\n    }\n\n", simpleName(c.Name))
	for _, m := range c.Methods {
		decl, err := methodDecl(m, c.Name, "@Override\n    public native")
		if err != nil {
			return nil, err
		}
		b.WriteString("    " + decl + "\n\n")
	}
	writeReleaseAndClose(&b)
	b.WriteString("}\n")
	return &OutputFile{Path: filePath(c.Name), Content: []byte(b.String())}, nil
}

func classFile(c jvmbind.ClassInfo) (*OutputFile, error) {
	var b strings.Builder
	writeHeader(&b, c.Name)
	decl := fmt.Sprintf("public final class %s", simpleName(c.Name))
	if c.Native {
		decl += " implements AutoCloseable"
	}
	b.WriteString(decl + " {\n")
	if c.Native {
		b.WriteString("    private long nativePointer;\n\n")
	}
	fmt.Fprintf(&b, "    private %s() {\n    }\n\n", simpleName(c.Name))
	methods := append([]jvmbind.MethodInfo(nil), c.Methods...)
	sort.SliceStable(methods, func(i, j int) bool {
		if methods[i].Static != methods[j].Static {
			return methods[i].Static
		}
		return false
	})
	for _, m := range methods {
		qual := "public native"
		if m.Static {
			qual = "public static native"
		}
		decl, err := methodDecl(m, c.Name, qual)
		if err != nil {
			return nil, err
		}
		b.WriteString("    " + decl + "\n\n")
	}
	if c.Native {
		writeReleaseAndClose(&b)
	}
	b.WriteString("}\n")
	return &OutputFile{Path: filePath(c.Name), Content: []byte(b.String())}, nil
}

func recordFile(r jvmbind.RecordInfo) (*OutputFile, error) {
	var b strings.Builder
	writeHeader(&b, r.Class)
	fmt.Fprintf(&b, "public final class %s {\n", simpleName(r.Class))
	for _, f := range r.Fields {
		t, err := javaType(f.Descriptor)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "    public %s %s;\n", t, f.Name)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "    public %s() {\n    }\n", simpleName(r.Class))
	b.WriteString("}\n")
	return &OutputFile{Path: filePath(r.Class), Content: []byte(b.String())}, nil
}

func writeHeader(b *strings.Builder, classPath string) {
	b.WriteString("// Generated by jvmbind-gen. Do not edit.\n\n")
	if pkg := packageName(classPath); pkg != "" {
		fmt.Fprintf(b, "package %s;\n\n", pkg)
	}
}

func writeReleaseAndClose(b *strings.Builder) {
	b.WriteString("    private native void release();\n\n")
	b.WriteString("    @Override\n")
	b.WriteString("    public void close() {\n")
	b.WriteString("        if (nativePointer != 0) {\n")
	b.WriteString("            release();\n")
	b.WriteString("            nativePointer = 0;\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n\n")
	b.WriteString("    @Override\n")
	b.WriteString("    protected void finalize() {\n")
	b.WriteString("        close();\n")
	b.WriteString("    }\n")
}

// methodDecl renders one method declaration from its name and signature.
func methodDecl(m jvmbind.MethodInfo, owner, qualifier string) (string, error) {
	params, ret, err := parseMethodSig(m.Signature)
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", owner, m.Name, err)
	}
	retType, err := javaType(ret)
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", owner, m.Name, err)
	}
	args := make([]string, 0, len(params))
	for i, p := range params {
		t, err := javaType(p)
		if err != nil {
			return "", fmt.Errorf("%s.%s: %w", owner, m.Name, err)
		}
		args = append(args, fmt.Sprintf("%s arg%d", t, i))
	}
	return fmt.Sprintf("%s %s %s(%s);", qualifier, retType, m.Name, strings.Join(args, ", ")), nil
}

// parseMethodSig splits a method signature into parameter and return
// descriptors.
func parseMethodSig(sig string) (params []string, ret string, err error) {
	if len(sig) < 3 || sig[0] != '(' {
		return nil, "", fmt.Errorf("malformed signature %q", sig)
	}
	i := 1
	for i < len(sig) && sig[i] != ')' {
		d, n, err := nextDescriptor(sig[i:])
		if err != nil {
			return nil, "", fmt.Errorf("malformed signature %q: %w", sig, err)
		}
		params = append(params, d)
		i += n
	}
	if i >= len(sig)-1 || sig[i] != ')' {
		return nil, "", fmt.Errorf("malformed signature %q", sig)
	}
	return params, sig[i+1:], nil
}

func nextDescriptor(s string) (string, int, error) {
	if s == "" {
		return "", 0, fmt.Errorf("empty descriptor")
	}
	switch s[0] {
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D', 'V':
		return s[:1], 1, nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return "", 0, fmt.Errorf("unterminated object descriptor")
		}
		return s[:end+1], end + 1, nil
	case '[':
		_, n, err := nextDescriptor(s[1:])
		if err != nil {
			return "", 0, err
		}
		return s[:1+n], 1 + n, nil
	default:
		return "", 0, fmt.Errorf("unknown descriptor %q", s[0])
	}
}

// javaType renders a descriptor as source-level type text.
func javaType(desc string) (string, error) {
	switch {
	case desc == "V":
		return "void", nil
	case desc == "Z":
		return "boolean", nil
	case desc == "B":
		return "byte", nil
	case desc == "C":
		return "char", nil
	case desc == "S":
		return "short", nil
	case desc == "I":
		return "int", nil
	case desc == "J":
		return "long", nil
	case desc == "F":
		return "float", nil
	case desc == "D":
		return "double", nil
	case strings.HasPrefix(desc, "L") && strings.HasSuffix(desc, ";"):
		return dotted(desc[1 : len(desc)-1]), nil
	case strings.HasPrefix(desc, "["):
		inner, err := javaType(desc[1:])
		if err != nil {
			return "", err
		}
		return inner + "[]", nil
	default:
		return "", fmt.Errorf("unknown descriptor %q", desc)
	}
}

func dotted(classPath string) string {
	return strings.ReplaceAll(classPath, "/", ".")
}

func packageName(classPath string) string {
	i := strings.LastIndexByte(classPath, '/')
	if i < 0 {
		return ""
	}
	return dotted(classPath[:i])
}

func simpleName(classPath string) string {
	return path.Base(classPath)
}

func filePath(classPath string) string {
	return classPath + ".java"
}
