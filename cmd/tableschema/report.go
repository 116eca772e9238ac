package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	ts "github.com/reoring/tableschema"
)

type docReport struct {
	Name   string    `json:"name"`
	Index  int       `json:"index"`
	Valid  bool      `json:"valid"`
	Issues ts.Issues `json:"issues,omitempty"`
}

// label names the document, adding the stream position for YAML streams.
func (d docReport) label() string {
	name := d.Name
	if name == "-" || name == "" {
		name = "stdin"
	}
	if d.Index > 0 {
		return name + "#" + strconv.Itoa(d.Index)
	}
	return name
}

type report struct {
	Valid     bool        `json:"valid"`
	Documents []docReport `json:"documents"`
}

func (r *report) add(ds ...docReport) {
	for _, d := range ds {
		if !d.Valid {
			r.Valid = false
		}
		r.Documents = append(r.Documents, d)
	}
}

func writeReport(w io.Writer, f outputFormat, p *palette, r report) error {
	switch f {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case outputYAML:
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		y, err := yaml.JSONToYAML(data)
		if err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
		_, err = w.Write(y)
		return err
	}
	return writeText(w, p, r)
}

func writeText(w io.Writer, p *palette, r report) error {
	for _, d := range r.Documents {
		if d.Valid {
			if _, err := fmt.Fprintf(w, "%s: %s\n", d.label(), p.ok("ok")); err != nil {
				return err
			}
			continue
		}
		noun := "issues"
		if len(d.Issues) == 1 {
			noun = "issue"
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", d.label(), p.bad("%d %s", len(d.Issues), noun)); err != nil {
			return err
		}
		for _, is := range d.Issues {
			line := fmt.Sprintf("  %s %s %s", p.path("%s", is.Path), p.code("[%s]", is.Code), is.Message)
			if is.Rule != "" && is.Rule != ts.RuleStructure {
				line += " (" + is.Rule + ")"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
			if is.Hint != "" {
				if _, err := fmt.Fprintf(w, "    %s\n", p.hint("hint: %s", is.Hint)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
