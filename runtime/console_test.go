package runtime

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleReadFileSkipsShebang(t *testing.T) {
	dir := t.TempDir()
	c := NewConsole(strings.NewReader(""), &bytes.Buffer{})

	withShebang := filepath.Join(dir, "script.hash")
	if err := os.WriteFile(withShebang, []byte("#!/usr/bin/env hash\noutput(1)\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err := c.ReadFile(withShebang)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "\noutput(1)\n" {
		t.Fatalf("expected shebang line to be blanked, got %q", data)
	}

	onlyShebang := filepath.Join(dir, "only_shebang.hash")
	if err := os.WriteFile(onlyShebang, []byte("#!/bin/true"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err = c.ReadFile(onlyShebang)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty body for shebang-only script, got %q", data)
	}

	plain := filepath.Join(dir, "plain.hash")
	if err := os.WriteFile(plain, []byte(`output("hi")`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err = c.ReadFile(plain)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != `output("hi")` {
		t.Fatalf("expected content unchanged, got %q", data)
	}

	if _, err := c.ReadFile(filepath.Join(dir, "missing.hash")); err == nil || !strings.Contains(err.Error(), "missing.hash") {
		t.Fatalf("expected error naming the missing file, got %v", err)
	}
}

func TestShebangKeepsLineNumbers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.hash")
	if err := os.WriteFile(path, []byte("#!/usr/bin/env hash\nvar a = 1\nq\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	in := New(NewConsole(strings.NewReader(""), &out))
	_, err := in.RunFile(path)
	if err == nil {
		t.Fatalf("expected runtime error")
	}
	if want := "File " + path + ", line 3\n"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected %q in diagnostic:\n%v", want, err)
	}
}

func TestConsoleReadLineLastLineWithoutNewline(t *testing.T) {
	c := NewConsole(strings.NewReader("one\ntwo"), &bytes.Buffer{})
	for _, want := range []string{"one", "two"} {
		got, err := c.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine error: %v", err)
		}
		if got != want {
			t.Fatalf("ReadLine => %q, want %q", got, want)
		}
	}
	if _, err := c.ReadLine(); err == nil {
		t.Fatalf("expected error at end of input")
	}
}

func TestConsoleReadIntegerEOF(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("x\n"), &out)
	if _, err := c.ReadInteger(); err == nil {
		t.Fatalf("expected error once input runs out")
	}
	if out.String() != "'x' must be an integer. Try again!\n" {
		t.Fatalf("unexpected reprompt output %q", out.String())
	}
}

func TestConsoleSharesBufferedReader(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("a\nb\n"))
	if _, err := br.ReadString('\n'); err != nil {
		t.Fatalf("ReadString error: %v", err)
	}
	c := NewConsole(br, &bytes.Buffer{})
	got, err := c.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine error: %v", err)
	}
	if got != "b" {
		t.Fatalf("expected console to continue the shared reader, got %q", got)
	}
}
