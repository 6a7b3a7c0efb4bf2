package ports

// ProcessFinder reports whether a named process is currently running.
type ProcessFinder interface {
	// Running matches name against running processes.
	Running(name string) (bool, error)
}
