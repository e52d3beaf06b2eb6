// Package printer sends archived documents to a local CUPS printer so the
// treasurer has a paper copy to double-sign.
package printer

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Print submits each file through lp. An empty printer name uses the CUPS
// default destination.
func Print(ctx context.Context, printerName string, paths []string) error {
	if _, err := exec.LookPath("lp"); err != nil {
		return fmt.Errorf("lp not found, is CUPS installed: %w", err)
	}
	for _, path := range paths {
		args := []string{}
		if printerName != "" {
			args = append(args, "-d", printerName)
		}
		args = append(args, path)
		out, err := exec.CommandContext(ctx, "lp", args...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("print %s: %s: %w", path, strings.TrimSpace(string(out)), err)
		}
		slog.Info("sent to printer", "file", path, "printer", printerName)
	}
	return nil
}

// List returns the printer names lpstat knows about.
func List(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "lpstat", "-p").Output()
	if err != nil {
		return nil, fmt.Errorf("lpstat: %w", err)
	}
	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		// lpstat -p lines look like "printer NAME is idle. ..."
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "printer" {
			names = append(names, fields[1])
		}
	}
	return names, nil
}
