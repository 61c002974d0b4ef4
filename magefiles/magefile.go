//go:build mage

// Package main provides build targets for the kanban project using Mage.
//
// Usage:
//
//	mage build      Compile the kanban binary to bin/
//	mage test       Run all tests with the race detector
//	mage testUnit   Run tests without the redis store
//	mage testRedis  Run the kv tests against REDIS_URL (default localhost)
//	mage lint       Run golangci-lint
//	mage clean      Remove build artifacts
//	mage install    Install kanban to GOPATH/bin
//	mage serve      Build and serve the board on :8080
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "kanban"
	binaryDir  = "bin"
	cmdDir     = "./cmd/kanban"

	defaultRedisURL = "redis://localhost:6379/0"
)

// Build compiles the kanban binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs every package's tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// TestUnit runs all tests with the redis store test disabled.
func TestUnit() error {
	env := map[string]string{"KANBAN_TEST_REDIS_URL": ""}
	return sh.RunWithV(env, "go", "test", "./...")
}

// TestRedis runs the kv tests against a live redis server at REDIS_URL.
func TestRedis() error {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = defaultRedisURL
	}
	env := map[string]string{"KANBAN_TEST_REDIS_URL": url}
	return sh.RunWithV(env, "go", "test", "-run", "Redis", "-v", "./internal/kv/...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}

// Serve builds the binary and serves the board with debug logging.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "--verbose", "serve")
}
