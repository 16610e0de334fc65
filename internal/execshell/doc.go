// Package execshell runs the gh executable as a child process.
//
// ShellExecutor logs each invocation and notifies a CommandEventObserver;
// OSCommandRunner is the os/exec backed CommandRunner. Arguments are always
// passed as a discrete vector and never interpreted by a shell.
package execshell
