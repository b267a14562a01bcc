//go:build !windows

package ptyboot

import (
	"os"
	"testing"
)

func TestShellCommandUsesEnvShell(t *testing.T) {
	prev := os.Getenv("SHELL")
	defer os.Setenv("SHELL", prev)

	os.Setenv("SHELL", "/usr/local/bin/zsh")
	path, argv := ShellCommand("")
	if path != "/usr/local/bin/zsh" {
		t.Errorf("path = %q, want /usr/local/bin/zsh", path)
	}
	if len(argv) != 2 || argv[0] != "zsh" || argv[1] != "-i" {
		t.Errorf("argv = %v, want [zsh -i]", argv)
	}
}

func TestShellCommandWithCommandLine(t *testing.T) {
	os.Setenv("SHELL", "/bin/bash")
	path, argv := ShellCommand("echo hi")
	if path != "/bin/bash" {
		t.Errorf("path = %q, want /bin/bash", path)
	}
	if len(argv) != 3 || argv[0] != "bash" || argv[1] != "-c" || argv[2] != "echo hi" {
		t.Errorf("argv = %v, want [bash -c \"echo hi\"]", argv)
	}
}

func TestShellCommandFallsBackToDefault(t *testing.T) {
	prev := os.Getenv("SHELL")
	defer os.Setenv("SHELL", prev)
	os.Unsetenv("SHELL")

	path, argv := ShellCommand("")
	if path != defaultShell {
		t.Errorf("path = %q, want %q", path, defaultShell)
	}
	if argv[0] != "sh" {
		t.Errorf("argv[0] = %q, want sh", argv[0])
	}
}
