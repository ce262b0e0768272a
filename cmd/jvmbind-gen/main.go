// Command jvmbind-gen writes the managed-side support stubs every
// installation needs: the NativeException marker class and the
// function-bridging proxy classes. Application classes and records are
// emitted programmatically through the gen package, from the same Registry
// the application installs.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/gen"
)

func main() {
	out := flag.String("out", ".", "directory to write generated sources under")
	flag.Parse()

	files, err := gen.SupportFiles()
	if err != nil {
		log.Fatalf("generating support stubs: %v", err)
	}
	for _, f := range files {
		dst := filepath.Join(*out, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			log.Fatalf("creating %s: %v", filepath.Dir(dst), err)
		}
		if err := os.WriteFile(dst, f.Content, 0o644); err != nil {
			log.Fatalf("writing %s: %v", dst, err)
		}
		log.Printf("wrote %s", dst)
	}
}
