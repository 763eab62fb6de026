/*
Package preflight reproduces, on a developer machine, the gate a CI pipeline
applies before accepting a change: refresh the dependency environment, run
static checks over the source tree, and smoke-test that the application's
top-level modules load and bind their service singletons.

The pipeline is a short, ordered, fail-fast sequence of checks executed on a
single goroutine. There is no retry, no parallelism, and no partial credit:
the first failure aborts the run and its diagnostics are the last thing
printed.

# Phases

 1. Environment preparation: the manifest's dependency steps (by default
    "go mod download" and "go mod verify") run as child processes.
 2. Static checks, strict pass: syntax errors, undefined names, and malformed
    format strings are fatal.
 3. Static checks, advisory pass: complexity and line-length statistics are
    reported but never fail the run.
 4. Load checks: each target package must type-check and bind its
    conventionally-named singleton (or, in embedded mode, each registered
    service provider must construct a non-nil singleton).

# Usage

	h, err := preflight.New("./my-app")
	if err != nil {
		log.Fatal(err)
	}

	report, err := h.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(report.ExitCode())

Applications that embed the harness can declare their services on
registry.Default so the load-check phase constructs the real singletons
instead of inspecting package scopes.
*/
package preflight
