package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	ts "github.com/reoring/tableschema"
	"github.com/reoring/tableschema/i18n"
	"github.com/reoring/tableschema/rules"
	"github.com/reoring/tableschema/source"
)

type MainConfig struct {
	Lang  string `cli:"name=lang desc='message language: en, ja'"`
	Log   string `cli:"name=log desc='log level: debug, info, warn, error'"`
	Color bool   `cli:"name=color desc='force colored output'"`

	Main *cli.Command
}

// apply installs the global settings, falling back to the environment.
func (cfg *MainConfig) apply() error {
	lang := cfg.Lang
	if lang == "" {
		lang = getEnv("TABLESCHEMA_LANG", "")
	}
	if lang != "" {
		i18n.SetLanguage(lang)
	}
	level := cfg.Log
	if level == "" {
		level = getEnv("TABLESCHEMA_LOG", "")
	}
	if err := setupLogging(level); err != nil {
		return fmt.Errorf("%w: bad log level %q: %w", cli.ErrUsage, level, err)
	}
	return nil
}

// palette is the set of sprint funcs used by text reports.
type palette struct {
	ok, bad, path, code, hint func(string, ...any) string
}

func plainPalette() *palette {
	return &palette{ok: fmt.Sprintf, bad: fmt.Sprintf, path: fmt.Sprintf, code: fmt.Sprintf, hint: fmt.Sprintf}
}

func colorPalette() *palette {
	force := func(c *color.Color) func(string, ...any) string {
		c.EnableColor()
		return c.SprintfFunc()
	}
	return &palette{
		ok:   force(color.New(color.FgGreen)),
		bad:  force(color.New(color.FgRed, color.Bold)),
		path: force(color.New(color.FgCyan)),
		code: force(color.New(color.FgYellow)),
		hint: force(color.New(color.Faint)),
	}
}

// paletteFor colors output only for terminals unless -color is given.
func (cfg *MainConfig) paletteFor(w io.Writer) *palette {
	if cfg.Color {
		return colorPalette()
	}
	f, ok := w.(*os.File)
	if !ok {
		return plainPalette()
	}
	if isatty.IsTerminal(f.Fd()) {
		return colorPalette()
	}
	return plainPalette()
}

type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch strings.ToLower(s) {
	case "", "text", "t":
		return outputText, nil
	case "json", "j":
		return outputJSON, nil
	case "yaml", "y", "yml":
		return outputYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

type CheckConfig struct {
	*MainConfig

	Output      string `cli:"name=o aliases=output desc='report format: text, json, yaml' default=text"`
	Input       string `cli:"name=f aliases=format desc='input format: json, yaml (default by file extension)'"`
	Strict      bool   `cli:"name=strict desc='report only the first problem of each document'"`
	UniqueNames bool   `cli:"name=unique-names desc='reject duplicate field names'"`
	RequirePK   bool   `cli:"name=require-pk desc='require a primaryKey'"`
	Rules       []ts.Rule

	Check *cli.Command
}

// ruleOpt parses -rule name=expr into an expression rule.
func (cfg *CheckConfig) ruleOpt(_ *cli.Context, a string) (any, error) {
	name, src, ok := strings.Cut(a, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: -rule expects name=expr, got %q", cli.ErrUsage, a)
	}
	r, err := rules.Expr(name, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Rules = append(cfg.Rules, r)
	return r, nil
}

func (cfg *CheckConfig) inputFormat() (source.Format, error) {
	f, err := source.ParseFormat(cfg.Input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return f, nil
}

func (cfg *CheckConfig) validator() (*ts.Validator, error) {
	rs := append([]ts.Rule(nil), cfg.Rules...)
	if cfg.UniqueNames {
		rs = append(rs, rules.UniqueFieldNames())
	}
	if cfg.RequirePK {
		rs = append(rs, rules.RequirePrimaryKey())
	}
	return ts.New(ts.WithRules(rs...), ts.WithLogger(theLog))
}

type ServeConfig struct {
	*MainConfig

	Addr    string `cli:"name=addr desc='HTTP listen address (default $TABLESCHEMA_ADDR or :8080)'"`
	MaxBody int    `cli:"name=max-body desc='maximum request body size in bytes'"`
	Gops    bool   `cli:"name=gops desc='start the gops diagnostics agent'"`

	Serve *cli.Command
}

type MetaSchemaConfig struct {
	*MainConfig

	Output string `cli:"name=o aliases=output desc='output format: json, yaml' default=json"`

	MetaSchema *cli.Command
}
