package livecss

import "fmt"

// UnsupportedResourceError reports an @import identifier outside the fixed
// resource table. The identifier is carried so callers can name it.
type UnsupportedResourceError struct {
	Identifier string
}

func (e *UnsupportedResourceError) Error() string {
	return fmt.Sprintf("unsupported resource %q", e.Identifier)
}

// UnsupportedExtensionError reports a @plugin or @config directive. This
// build loads no dynamic extensions, so every such directive fails.
type UnsupportedExtensionError struct {
	Identifier string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported extension %q: plugins and configs cannot be loaded", e.Identifier)
}

// BuildError wraps a failure from an asynchronous build task: an initialize
// or compile error, a sink replacement error, or a panic recovered from a
// compiler. It reaches the Options.OnBuildError hook; callers waiting on
// Initialize or Flush receive the underlying error directly.
type BuildError struct {
	Task uint64
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build task %d: %v", e.Task, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
