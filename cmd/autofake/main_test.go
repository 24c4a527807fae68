package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	headers, err := filepath.Abs("../../fake/testdata")
	if !assert.Nil(t, err) {
		return
	}
	broken := t.TempDir()
	assert.Nil(t, os.WriteFile(filepath.Join(broken, "broken.h"), []byte("#ifndef BROKEN_H_\n#define BROKEN_H_\n\nvoid broken(int a, ..., int b);\n\n#endif\n"), 0644))

	tests := []struct {
		description string
		args        func(output string) []string
		exitCode    int
		stdout      []string
		stderr      []string
	}{
		{
			description: "version",
			args:        func(string) []string { return []string{"-version"} },
			stdout:      []string{"autofake " + version},
		},
		{
			description: "no input",
			args:        func(string) []string { return nil },
			exitCode:    2,
			stderr:      []string{"usage: autofake"},
		},
		{
			description: "unknown flag",
			args:        func(string) []string { return []string{"-unknown", headers} },
			exitCode:    2,
		},
		{
			description: "invalid override",
			args:        func(output string) []string { return []string{"-workers", "0", "-o", output, headers} },
			exitCode:    2,
			stderr:      []string{"invalid workers"},
		},
		{
			description: "generate",
			args: func(output string) []string {
				return []string{"-o", output, "-suffix", "_double", "-verify", headers}
			},
			stdout: []string{
				filepath.Join(headers, "driver.h") + ": driver_double.h, driver_double.c",
				filepath.Join(headers, "hardware.h") + ": hardware_double.h, hardware_double.c",
			},
		},
		{
			description: "parse error context",
			args: func(output string) []string {
				return []string{"-o", output, filepath.Join(broken, "broken.h")}
			},
			exitCode: 1,
			stderr: []string{
				filepath.Join(broken, "broken.h") + ":4:23: expected ')' after '...', found \",\"",
				"4 | void broken(int a, ..., int b);\n  |                       ^\n",
			},
		},
		{
			description: "missing config",
			args: func(output string) []string {
				return []string{"-c", filepath.Join(output, "missing.yaml"), headers}
			},
			exitCode: 1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
			exitCode := run(context.Background(), tc.args(t.TempDir()), stdout, stderr)
			assert.Equal(t, tc.exitCode, exitCode, stderr.String())
			for _, expect := range tc.stdout {
				assert.Contains(t, stdout.String(), expect)
			}
			for _, expect := range tc.stderr {
				assert.Contains(t, stderr.String(), expect)
			}
		})
	}
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "fakes")
	URL := filepath.Join(dir, "autofake.yaml")
	content := strings.Join([]string{
		"version: v1.0.0",
		"outputDir: " + output,
		"fffHeader: fff/fff.h",
		"log:",
		"  level: info",
		"  format: json",
	}, "\n") + "\n"
	if !assert.Nil(t, os.WriteFile(URL, []byte(content), 0644)) {
		return
	}
	headers, err := filepath.Abs("../../fake/testdata/hardware.h")
	if !assert.Nil(t, err) {
		return
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	if !assert.Equal(t, 0, run(context.Background(), []string{"-c", URL, headers}, stdout, stderr), stderr.String()) {
		return
	}
	assert.Contains(t, stderr.String(), `"msg":"generated fakes"`)
	data, err := os.ReadFile(filepath.Join(output, "hardware_fake.h"))
	if assert.Nil(t, err) {
		assert.Contains(t, string(data), "#include \"fff/fff.h\"\n")
	}
}
