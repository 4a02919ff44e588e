// Package script runs a command in the directory of a documentation source
// file and formats its captured output as a literal text block ready to be
// embedded into that file by a cog-style preprocessor.
//
// The rendered block consists of the command line itself (prefixed with "$ "),
// a blank separator, and the command's interleaved stdout/stderr, every line
// indented with a tab so the downstream generator treats the block verbatim.
// Overlong lines are brought within a configurable width by one of six break
// policies (see BreakMode); caller-supplied cleanups can rewrite each line,
// for example to scrub absolute paths out of tool output.
//
// # Failure policy
//
// When the command fails and failures are not ignored, Render prints a
// delimited error banner, runs the same command a second time with the
// failure ignored so its output still reaches the console, and then returns
// the original error. The double execution is deliberate and observable:
// commands that are not idempotent will run twice on failure. Callers that
// cannot tolerate that must set IgnoreErrors and inspect the output
// themselves.
package script
