//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Instances every fixture of the assets directory once and prints the scene.
func (Run) Testbed() error {
	fmt.Println("Run testbed...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "anima.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Keeps the testbed running and re-instances fixtures as they change.
func (Run) Watch() error {
	fmt.Println("Run testbed in watch mode...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "anima.toml", "-watch"), withStream()); err != nil {
		return err
	}
	return nil
}
