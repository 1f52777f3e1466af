//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles the simulator and the channel map tester
func Build() error {
	mg.Deps(BuildSimulator, BuildMapTester)
	fmt.Println("Compilation finished")
	return nil
}

// The simulator links the HDF5 writer, which needs cgo
func BuildSimulator() error {
	fmt.Println("Building simulator executable...")
	return goCommand(true, "build", "-o", "./bin/simulator", "./simulator")
}

func BuildMapTester() error {
	fmt.Println("Building maptester executable...")
	return goCommand(false, "build", "-o", "./bin/maptester", "./maptester")
}

// Test runs the unit tests of the trigger library and the binaries
func Test() error {
	fmt.Println("Running tests...")
	return goCommand(false, "test", "./pkg", "./simulator", "./maptester")
}

func goCommand(cgo bool, args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Env = os.Environ()
	if cgo {
		cmd.Env = append(cmd.Env,
			"CGO_ENABLED=1",
			fmt.Sprintf("CGO_LDFLAGS=%s", os.Getenv("CGO_LDFLAGS")),
			fmt.Sprintf("CGO_CFLAGS=%s", os.Getenv("CGO_CFLAGS")))
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
