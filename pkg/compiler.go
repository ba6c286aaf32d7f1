package sanity

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/llir/llvm/ir"
	"golang.org/x/sync/errgroup"
)

// Target names the triple clang should build the emitted IR for. Only the pieces compiler.go actually needs are
// kept from the teacher's Target (Arch/Vendor/OS split), since --emit-object never varies them independently of
// each other in this driver.
type Target string

// DefaultTarget is what --emit-object builds for when the caller doesn't override it.
const DefaultTarget Target = "x86_64-unknown-linux-gnu"

// ObjectEmitter pipes LLVM IR text through an external clang invocation to produce a native object file. Grounded
// on the teacher's pkg/compiler.go Compiler.build: an io.Pipe feeds clang's stdin while clang runs, coordinated by
// golang.org/x/sync/errgroup so a write-side failure and a clang-side failure are both observed rather than one
// silently racing the other.
type ObjectEmitter struct {
	Target Target
}

// NewObjectEmitter creates an ObjectEmitter for target.
func NewObjectEmitter(target Target) *ObjectEmitter {
	return &ObjectEmitter{Target: target}
}

// EmitObject renders mod to LLVM IR text and pipes it through "clang -x ir" to produce a native object file at
// outPath. clang is never invoked for the default (print-IR-to-stdout) path; this only runs when --emit-object is
// given.
func (o *ObjectEmitter) EmitObject(mod *ir.Module, outPath string) error {
	cmd := exec.Command("clang",
		"-x", "ir",
		"--target="+string(o.Target),
		"-c",
		"-o", outPath,
		"-",
	)

	r, w := io.Pipe()
	cmd.Stdin = r

	var eg errgroup.Group
	eg.Go(func() error {
		if _, err := io.WriteString(w, mod.String()); err != nil {
			_ = w.CloseWithError(err)
			return err
		}

		return w.Close()
	})

	eg.Go(func() error {
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("clang: %w: %s", err, out)
		}

		return nil
	})

	return eg.Wait()
}
