package main

import (
	"flag"
	"os"
	"testing"

	"github.com/neurlang/mldeploy/scaffold"
)

func TestRunCreatesFilesInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	if err := run(); err != nil {
		t.Fatal(err)
	}
	for _, name := range scaffold.Files() {
		st, err := os.Stat(name)
		if err != nil {
			t.Errorf("%q missing: %v", name, err)
			continue
		}
		if st.Size() != 0 {
			t.Errorf("%q has %d bytes", name, st.Size())
		}
	}
}

func TestNoDirFlag(t *testing.T) {
	if flag.Lookup("dir") != nil {
		t.Error("template accepts -dir, files must go to the working directory")
	}
}
