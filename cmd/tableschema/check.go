package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/source"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	out, err := parseOutputFormat(cfg.Output)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	in, err := cfg.inputFormat()
	if err != nil {
		return err
	}
	v, err := cfg.validator()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	rep := report{Valid: true}
	for _, name := range args {
		reps, err := checkInput(v, name, cc.In, in, cfg.Strict)
		if err != nil {
			return err
		}
		rep.add(reps...)
	}
	if err := writeReport(cc.Out, out, cfg.paletteFor(cc.Out), rep); err != nil {
		return err
	}
	if !rep.Valid {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkInput loads every document of one input and checks it. Inputs that
// fail to decode are reported as invalid documents; I/O errors are returned.
func checkInput(v *ts.Validator, name string, stdin io.Reader, f source.Format, strict bool) ([]docReport, error) {
	docs, err := loadDocs(name, stdin, f)
	if err != nil {
		iss, ok := ts.AsIssues(err)
		if !ok {
			return nil, err
		}
		if strict && len(iss) > 1 {
			iss = iss[:1]
		}
		return []docReport{{Name: name, Valid: false, Issues: iss}}, nil
	}
	out := make([]docReport, 0, len(docs))
	for _, d := range docs {
		out = append(out, checkDocument(v, d, strict))
	}
	return out, nil
}

func loadDocs(name string, stdin io.Reader, f source.Format) ([]source.Document, error) {
	if name != "-" {
		return source.ReadFile(name, f)
	}
	docs, err := source.ReadAll(stdin, f)
	for i := range docs {
		docs[i].Name = name
	}
	return docs, err
}

func checkDocument(v *ts.Validator, d source.Document, strict bool) docReport {
	dr := docReport{Name: d.Name, Index: d.Index}
	if strict {
		err := v.Validate(d.Value)
		var sve *ts.SchemaValidationError
		if errors.As(err, &sve) {
			dr.Issues = ts.Issues{sve.Issue}
		}
	} else {
		dr.Issues = v.Errors(d.Value)
	}
	dr.Valid = len(dr.Issues) == 0
	theLog.Debug("checked document", "name", d.Name, "index", d.Index, "issues", len(dr.Issues))
	return dr
}
