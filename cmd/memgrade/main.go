// Command memgrade grades the memory dump log written by the lab kernel.
//
// Usage:
//
//	memgrade grade --grade_from 0 --grade_up_to 5 --tmpfile /tmp/log.txt
//	memgrade grade --config grade.yaml --output score.txt
//	memgrade checks
//
// Broken invariants, a malformed log or a missing log exit with status 1 before any score is produced.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
