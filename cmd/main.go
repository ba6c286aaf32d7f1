// Command sanityc compiles a single sanity source file to LLVM IR.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/llir/llvm/ir"
	"github.com/pborman/getopt/v2"

	sanity "github.com/dgp1130/sanity-lang/pkg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run implements the CLI contract: one positional source path (or "-" for stdin), IR text to out, one diagnostic
// line per error to errOut, exit 0 on success and 1 on any compilation error. Grounded on the teacher's cmd/main.go
// (read the one positional argument, compile, print each CompileError), with flag parsing lifted onto
// github.com/pborman/getopt/v2 per openconfig-goyang's CLI, rather than the teacher's bare len(os.Args) check.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	set := getopt.New()
	output := set.StringLong("output", 'o', "", "write IR to PATH instead of stdout")
	emitObject := set.StringLong("emit-object", 0, "", "pipe IR through clang and write a native object to PATH")
	target := set.StringLong("target", 0, string(sanity.DefaultTarget), "clang target triple for --emit-object")
	help := set.BoolLong("help", 'h', "print this help message")

	if err := set.Getopt(append([]string{"sanityc"}, args...), nil); err != nil {
		fmt.Fprintln(errOut, err)
		set.PrintUsage(errOut)
		return 1
	}

	if *help {
		set.PrintUsage(out)
		return 0
	}

	rest := set.Args()
	if len(rest) != 1 {
		fmt.Fprintln(errOut, "expected exactly one source path (or - for stdin)")
		set.PrintUsage(errOut)
		return 1
	}

	src, err := readSource(rest[0], in)
	if err != nil {
		fmt.Fprintln(errOut, (&sanity.FileNotFoundError{Path: rest[0], Err: err}).Error())
		return 1
	}

	mod, err := compile(src)
	if err != nil {
		fmt.Fprintln(errOut, err.Error())
		return 1
	}

	if *emitObject != "" {
		emitter := sanity.NewObjectEmitter(sanity.Target(*target))
		if err := emitter.EmitObject(mod, *emitObject); err != nil {
			fmt.Fprintln(errOut, err.Error())
			return 1
		}

		return 0
	}

	dest := out
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintln(errOut, (&sanity.FileNotFoundError{Path: *output, Err: err}).Error())
			return 1
		}
		defer f.Close()

		dest = f
	}

	if _, err := io.WriteString(dest, mod.String()); err != nil {
		fmt.Fprintln(errOut, err.Error())
		return 1
	}

	return 0
}

// readSource reads the full source text from path, or from in when path is "-".
func readSource(path string, in io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(in)
		return string(b), err
	}

	b, err := os.ReadFile(path)
	return string(b), err
}

// compile runs the full lex -> parse -> emit pipeline over src.
func compile(src string) (*ir.Module, error) {
	toks, err := sanity.Lex(src)
	if err != nil {
		return nil, err
	}

	file, err := sanity.Parse(toks)
	if err != nil {
		return nil, err
	}

	return sanity.Emit(file)
}
