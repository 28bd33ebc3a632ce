package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"run":      false,
		"decide":   false,
		"validate": false,
		"snapshot": false,
		"version":  false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRootFlags(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag not registered")
	}
	if rootCmd.PersistentFlags().Lookup("log-level") == nil {
		t.Error("--log-level flag not registered")
	}
}

func TestReadRequest_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "request.json")
	payload, _ := json.Marshal(map[string]any{
		"organization": "acme",
		"domain":       "payments",
		"intent":       "transfer_funds",
		"stage":        "pre_commit",
		"actor":        "agent://bot",
	})
	if err := os.WriteFile(jsonPath, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	req, err := readRequest(jsonPath)
	if err != nil {
		t.Fatalf("readRequest(json): %v", err)
	}
	if req.Organization != "acme" || req.Intent != "transfer_funds" {
		t.Errorf("got %+v, want acme/transfer_funds", req)
	}

	yamlPath := filepath.Join(dir, "request.yaml")
	yamlBody := "organization: acme\ndomain: payments\nintent: transfer_funds\nstage: pre_commit\nactor: agent://bot\n"
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}

	req, err = readRequest(yamlPath)
	if err != nil {
		t.Fatalf("readRequest(yaml): %v", err)
	}
	if req.Domain != "payments" {
		t.Errorf("domain = %q, want payments", req.Domain)
	}
}

func TestReadRequest_MissingFile(t *testing.T) {
	if _, err := readRequest(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
