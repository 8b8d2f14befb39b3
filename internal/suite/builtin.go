package suite

// Builtin returns the suites for the two reference interpreters, jlox and
// clox, as built in this repository's layout.
func Builtin() *Registry {
	return NewRegistry(jlox(), clox())
}

func jlox() *Suite {
	return &Suite{
		Name:       "jlox",
		Language:   "java",
		Executable: "java",
		Args:       []string{"-cp", "build", "JLox.lox.Lox"},
		Tests: map[string]Disposition{
			// Early chapters only scan and evaluate expressions.
			"test/scanning":    Skip,
			"test/expressions": Skip,

			// The JVM does not implement IEEE equality on boxed doubles.
			"test/number/nan_equality.lox": Skip,

			// jlox has no hardcoded limits.
			"test/limit/loop_too_large.lox":     Skip,
			"test/limit/no_reuse_constants.lox": Skip,
			"test/limit/too_many_constants.lox": Skip,
			"test/limit/too_many_locals.lox":    Skip,
			"test/limit/too_many_upvalues.lox":  Skip,
			"test/limit/stack_overflow.lox":     Skip,
		},
	}
}

func clox() *Suite {
	return &Suite{
		Name:       "clox",
		Language:   "c",
		Executable: "build/clox.exe",
		Tests: map[string]Disposition{
			"test/scanning":    Skip,
			"test/expressions": Skip,

			// Constants are addressed with 24 bits.
			"test/limit/no_reuse_constants.lox": Skip,
			"test/limit/too_many_constants.lox": Skip,
		},
	}
}
