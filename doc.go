package cloudlens

// Package cloudlens implements a pull-based pipeline engine for analyzing
// machine-generated text, especially logs.
//
// The package is organized into several sub-packages:
//
// - value: a JSON-like tagged value with path-based get/set/remove
// - pattern: the pattern sub-language (substring/regex, named typed captures)
// - source: Stream constructors (in-memory, text file, JSON file, user func)
// - internal/scratch: the expansion-marker wrapper emit() produces
// - internal/debugtrace: opt-in stage-firing diagnostics
//
// A Stream is a reference to its current Source. Registering a stage with
// Process/ProcessKey/ProcessPattern/ProcessMatch/ProcessAtEnd layers a new
// Source on top of the current one; nothing runs until Run is called.
// Each record flows through every registered stage, in registration
// order, before the next record is pulled from the root source:
//
//	s := cloudlens.FromStrings("error 42", "warning", "error 255")
//	s.MustProcessMatch(`^error (?<n:Number>\d+)`, "message", func(rec *value.Value) {
//		fmt.Println("error detected:", rec)
//	})
//	s.Run(false)
//
// The CLI utility is in the directory cmd/cloudlens.
