//go:build !pprof

package profile

// Modes returns no modes when built without the pprof build tag.
func Modes() []string { return nil }

func start(Config) Stopper { return ignore{} }
