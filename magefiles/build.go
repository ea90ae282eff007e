//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles the windowed testbed into bin/.
func (Build) Engine() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/kalsengi", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Compiles the headless runner into bin/.
func (Build) Headless() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/kalsengi-headless", "./cmd/headless"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the unit tests of every package.
func Test() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Removes the build output and the mesh cache.
func Clean() error {
	for _, dir := range []string{"bin", ".cache"} {
		if _, err := executeCmd("rm", withArgs("-rf", dir)); err != nil {
			return err
		}
	}
	return nil
}
