package cli_test

import (
	"bytes"
	"testing"

	"go.safehomi.dev/homeadmin/pkg/cli"
)

func TestNewRootCommand(t *testing.T) {
	opts := &cli.Options{}
	cmd := cli.NewRootCommand(opts)

	if cmd == nil {
		t.Fatal("NewRootCommand() returned nil")
	}

	if cmd.Use != "homeadmin" {
		t.Errorf("NewRootCommand() Use = %q, want %q", cmd.Use, "homeadmin")
	}

	// Check that subcommands are registered
	commandNames := make(map[string]bool)
	for _, c := range cmd.Commands() {
		commandNames[c.Name()] = true
	}

	expectedCommands := []string{"ui", "listings", "inquiries", "login", "logout", "config", "mock-server"}
	for _, name := range expectedCommands {
		if !commandNames[name] {
			t.Errorf("NewRootCommand() missing subcommand: %q", name)
		}
	}
}

func TestResourceSubcommands(t *testing.T) {
	cmd := cli.NewRootCommand(&cli.Options{})

	for _, group := range []string{"listings", "inquiries"} {
		sub, _, err := cmd.Find([]string{group})
		if err != nil {
			t.Fatalf("Find(%q) error = %v", group, err)
		}
		names := make(map[string]bool)
		for _, c := range sub.Commands() {
			names[c.Name()] = true
		}
		for _, verb := range []string{"list", "show", "toggle", "delete", "search"} {
			if !names[verb] {
				t.Errorf("%s missing subcommand %q", group, verb)
			}
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	cmd := cli.NewRootCommand(&cli.Options{})

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("root command --version error = %v", err)
	}

	if !bytes.Contains(buf.Bytes(), []byte("homeadmin")) {
		t.Error("root command --version output missing 'homeadmin'")
	}
}

func TestRootCommandHelp(t *testing.T) {
	cmd := cli.NewRootCommand(&cli.Options{})

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("root command --help error = %v", err)
	}

	if !bytes.Contains(buf.Bytes(), []byte("Admin console for SafeHomi")) {
		t.Error("root command --help output missing description")
	}
}

func TestRootCommandInvalidCommand(t *testing.T) {
	cmd := cli.NewRootCommand(&cli.Options{})

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"invalid-command"})

	if err := cmd.Execute(); err == nil {
		t.Error("root command expected error for invalid command, got nil")
	}
}

func TestRootCommandFlags(t *testing.T) {
	opts := &cli.Options{}
	cmd := cli.NewRootCommand(opts)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	// An invalid output format fails before any network or file access.
	cmd.SetArgs([]string{"--config", "/test/config.json", "--api-url", "http://api.test", "--quiet", "listings", "list", "-o", "xml"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for invalid output format")
	}
	if opts.ConfigPath != "/test/config.json" {
		t.Errorf("ConfigPath = %q, want %q", opts.ConfigPath, "/test/config.json")
	}
	if opts.APIURL != "http://api.test" {
		t.Errorf("APIURL = %q, want %q", opts.APIURL, "http://api.test")
	}
	if !opts.Quiet {
		t.Error("Quiet = false, want true")
	}
}
