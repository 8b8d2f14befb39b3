package annotation

import "regexp"

// Directive patterns embedded in test source comments.
var (
	expectedOutputPattern       = regexp.MustCompile(`// expect: ?(.*)`)
	expectedErrorPattern        = regexp.MustCompile(`// (Error.*)`)
	errorLinePattern            = regexp.MustCompile(`// \[((java|c) )?line (\d+)\] (Error.*)`)
	expectedRuntimeErrorPattern = regexp.MustCompile(`// expect runtime error: (.+)`)
	nonTestPattern              = regexp.MustCompile(`// nontest`)
)
