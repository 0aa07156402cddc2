package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_DiscardsByDefault(t *testing.T) {
	// Must not panic or block.
	GetLogger("[test] ").Println("dropped")
}

func TestSetOutput(t *testing.T) {
	var sb strings.Builder
	SetOutput(&sb)
	defer SetOutput(nil)

	GetLogger("[test] ").Println("hello")
	if !strings.Contains(sb.String(), "[test] ") ||
		!strings.Contains(sb.String(), "hello") {
		t.Errorf("log output %q, want prefix and message", sb.String())
	}
}

func TestSetOutputFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "log")
	if err := SetOutputFile(fname); err != nil {
		t.Fatal(err)
	}
	GetLogger("[file] ").Println("to file")
	if err := SetOutputFile(""); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[file] ") {
		t.Errorf("log file contains %q, want prefix", data)
	}
}

func TestSetOutputFile_BadPath(t *testing.T) {
	err := SetOutputFile(filepath.Join(t.TempDir(), "no", "such", "dir", "log"))
	if err == nil {
		t.Errorf("want error for unwritable path")
	}
}
