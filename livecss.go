// Package livecss keeps a stylesheet in step with the utility class names a
// running application uses.
//
// A Session accumulates every class name it is shown, deduplicates them, and
// serializes rebuilds into a single FIFO queue: each rebuild compiles the
// full accumulated set through a utility-CSS engine and replaces the content
// of one stylesheet sink wholesale. Repeated class names never trigger
// rebuilds, and builds never overlap.
//
// # Rendering
//
// Call Classes while rendering markup. It returns the active class
// attribute synchronously and schedules compilation in the background:
//
//	session := livecss.New(livecss.Options{})
//	attr := session.Classes(
//		livecss.Cls("flex items-center gap-2"),
//		livecss.KV("bg-blue-500 text-white", isActive),
//	)
//
// # One-shot builds
//
// Scan a project tree for class names and write the stylesheet once:
//
//	result, err := livecss.Build(ctx, livecss.Config{
//		ContentGlobs: []string{"**/*.templ", "**/*.go", "**/*.html"},
//		OutputFile:   "assets/livecss.css",
//	})
//
// # CLI Tool
//
// livecss also provides a CLI with build, watch, serve and check commands.
// Install with:
//
//	go install github.com/yacobolo/livecss/cmd/livecss@latest
package livecss
