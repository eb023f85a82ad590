//go:build mage

// Package main holds the datagrid build targets for Mage.
//
// Usage:
//
//	mage build     Compile the datagrid binary to bin/
//	mage test      Run every package's tests
//	mage cover     Run tests with a coverage profile in bin/coverage.out
//	mage vet       Run go vet
//	mage lint      Run golangci-lint
//	mage clean     Remove build artifacts
//	mage install   Install datagrid to GOPATH/bin
//	mage stats     Print Go line counts per package
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "datagrid"
	binaryDir  = "bin"
	cmdDir     = "./cmd/datagrid"
	modulePath = "github.com/mesh-intelligence/datagrid"
)

// Build compiles the datagrid binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover runs all tests and writes a coverage profile.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "coverage.out")
	if err := sh.RunV("go", "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func", profile)
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint after vet.
func Lint() error {
	mg.Deps(Vet)
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

// Stats prints production and test line counts per package.
func Stats() error {
	type counts struct{ prod, test int }
	perPkg := map[string]*counts{}

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binaryDir || name == "magefiles") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return nil
		}
		pkg := filepath.ToSlash(filepath.Dir(path))
		c, ok := perPkg[pkg]
		if !ok {
			c = &counts{}
			perPkg[pkg] = c
		}
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	pkgs := make([]string, 0, len(perPkg))
	for p := range perPkg {
		pkgs = append(pkgs, p)
	}
	slices.Sort(pkgs)

	var prod, test int
	fmt.Printf("%-40s %8s %8s\n", "package", "prod", "test")
	for _, p := range pkgs {
		c := perPkg[p]
		prod += c.prod
		test += c.test
		fmt.Printf("%-40s %8d %8d\n", modulePath+"/"+p, c.prod, c.test)
	}
	fmt.Printf("%-40s %8d %8d\n", "total", prod, test)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}
