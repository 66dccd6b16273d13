package ilgenconfig

import (
	"strings"
	"testing"
)

func TestLoadOverridesPolicyAndJobs(t *testing.T) {
	input := `
# comment line, and a blank line follow

cr_name = MY_CR
jobs = 4
`
	cfg, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Policy.CRName != "MY_CR" {
		t.Errorf("Policy.CRName = %q, want MY_CR", cfg.Policy.CRName)
	}
	if cfg.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", cfg.Jobs)
	}
	// Keys not mentioned keep their Default() value.
	if cfg.Policy.EndLabel != Default().Policy.EndLabel {
		t.Errorf("EndLabel = %q, want the default %q", cfg.Policy.EndLabel, Default().Policy.EndLabel)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	_, err := Load(strings.NewReader("bogus = 1\n"))
	if err == nil {
		t.Fatal("expected an error for an unrecognised config key")
	}
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	_, err := Load(strings.NewReader("not-a-key-value-line\n"))
	if err == nil {
		t.Fatal("expected an error for a line with no '='")
	}
}

func TestLoadRejectsNonIntegerJobs(t *testing.T) {
	_, err := Load(strings.NewReader("jobs = many\n"))
	if err == nil {
		t.Fatal("expected an error for a non-integer jobs value")
	}
}

func TestLoadErrorNamesLineNumber(t *testing.T) {
	_, err := Load(strings.NewReader("cr_name = OK\nbogus = 1\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %v, want it to name line 2", err)
	}
}
