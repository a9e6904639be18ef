package main

import (
	"fmt"
	"io"

	"al.essio.dev/pkg/shellescape"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/kompassi-entrypoint/internal/resolver"
)

const (
	formatEnv   = "env"
	formatShell = "shell"
	formatYAML  = "yaml"
)

func printVars(w io.Writer, result resolver.Result, format string) error {
	switch format {
	case formatEnv:
		for _, v := range result.Vars() {
			if _, err := fmt.Fprintf(w, "%s=%s\n", v.Name, v.Value); err != nil {
				return err
			}
		}
	case formatShell:
		for _, v := range result.Vars() {
			if _, err := fmt.Fprintf(w, "export %s=%s\n", v.Name, shellescape.Quote(v.Value)); err != nil {
				return err
			}
		}
	case formatYAML:
		out, err := yaml.Marshal(result.Map())
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}
