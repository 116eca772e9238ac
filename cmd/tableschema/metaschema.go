package main

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/reoring/tableschema/metaschema"
)

func printMetaSchema(cfg *MetaSchemaConfig, cc *cli.Context, args []string) error {
	args, err := cfg.MetaSchema.Parse(cc, args)
	if err != nil {
		cfg.MetaSchema.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: metaschema takes no arguments", cli.ErrUsage)
	}
	f, err := parseOutputFormat(cfg.Output)
	if err != nil || f == outputText {
		return fmt.Errorf("%w: metaschema output must be json or yaml, got %q", cli.ErrUsage, cfg.Output)
	}
	data := metaschema.Bytes()
	if f == outputYAML {
		data, err = yaml.JSONToYAML(data)
		if err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
	}
	_, err = cc.Out.Write(data)
	return err
}
