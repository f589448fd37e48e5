//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the module and builds the testbed binary into bin/.
func (Build) Binary() error {
	mg.Deps(Build.Deps)
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/anima-hapi", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy and go mod download.
func (Build) Deps() error {
	return goTidy()
}
