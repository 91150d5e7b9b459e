//go:build !debugchecks

package analyzer

func assertNormalized(string) {}
