package annotation

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyExpectOnlyFiles verifies that a file made of plain code and
// expect directives yields exactly those outputs, in order, with their lines.
func TestPropertyExpectOnlyFiles(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "lines")

		var src strings.Builder
		var want []ExpectedOutput
		for i := 1; i <= n; i++ {
			if rapid.Bool().Draw(t, fmt.Sprintf("expect%d", i)) {
				out := rapid.StringMatching(`[a-zA-Z0-9 .,]{0,12}`).Draw(t, fmt.Sprintf("out%d", i))
				fmt.Fprintf(&src, "print x; // expect: %s\n", out)
				want = append(want, ExpectedOutput{Line: i, Output: out})
			} else {
				src.WriteString("var x = 1;\n")
			}
		}

		exp, err := Parse(strings.NewReader(src.String()), "c")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(exp.Output) != len(want) {
			t.Fatalf("got %d outputs, want %d", len(exp.Output), len(want))
		}
		for i := range want {
			if exp.Output[i] != want[i] {
				t.Fatalf("output %d: got %+v, want %+v", i, exp.Output[i], want[i])
			}
		}
		if exp.ExitCode() != SuccessCode {
			t.Fatalf("exit code %d for output-only file", exp.ExitCode())
		}
	})
}

// TestPropertyExitCodeDerivation verifies the expected exit code depends
// only on which error annotations are present.
func TestPropertyExitCodeDerivation(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		compileErrors := rapid.IntRange(0, 3).Draw(t, "compileErrors")
		runtime := rapid.Bool().Draw(t, "runtime")

		var src strings.Builder
		src.WriteString("print 1; // expect: 1\n")
		for i := 0; i < compileErrors; i++ {
			fmt.Fprintf(&src, "x%d; // Error at 'x%d': Bad.\n", i, i)
		}
		if runtime {
			src.WriteString("y(); // expect runtime error: Boom.\n")
		}

		exp, err := Parse(strings.NewReader(src.String()), "c")
		switch {
		case compileErrors > 0 && runtime:
			if err == nil {
				t.Fatalf("conflicting annotations accepted")
			}
		case runtime:
			if err != nil || exp.ExitCode() != RuntimeErrorCode {
				t.Fatalf("runtime annotation: err=%v", err)
			}
		case compileErrors > 0:
			if err != nil || exp.ExitCode() != CompileErrorCode {
				t.Fatalf("compile annotation: err=%v", err)
			}
		default:
			if err != nil || exp.ExitCode() != SuccessCode {
				t.Fatalf("no error annotations: err=%v", err)
			}
		}
	})
}
