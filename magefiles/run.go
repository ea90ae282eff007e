//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed in a window.
func (Run) Engine() error {
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "config.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the testbed without a window for a fixed number of frames.
func (Run) Headless() error {
	mg.Deps(Build.Headless)
	if _, err := executeCmd("bin/kalsengi-headless", withArgs("-config", "config.toml", "-frames", "600"), withStream()); err != nil {
		return err
	}
	return nil
}
