package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "tableschema").
		WithSynopsis("tableschema [opts] command [opts]").
		WithDescription("tableschema validates Table Schema descriptors.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tsMain(cfg, cc, args)
		}).
		WithSubs(
			CheckCommand(cfg),
			ServeCommand(cfg),
			MetaSchemaCommand(cfg))
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg, Output: string(outputText)}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "rule",
		Description: "extra policy rule written as an expression, e.g. 'has-pk=primaryKey != nil'",
		Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.ruleOpt), "(name=expr)"),
	})
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check [opts] [files]").
		WithDescription(checkDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

const checkDescription = `check validates table schema documents.

Each file may be JSON or YAML; the format follows the file extension unless
-f is given. With no files, check reads stdin. A YAML stream may hold several
documents and each one is checked.

Every problem found is reported: structural problems against the bundled
meta-schema first, then primary and foreign key problems. -strict reports only
the first problem of each document.

check exits with status 1 when any document is invalid.`

func ServeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ServeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithSynopsis("serve [-addr <addr>]").
		WithDescription("run the HTTP validation service").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}

func MetaSchemaCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MetaSchemaConfig{MainConfig: mainCfg, Output: string(outputJSON)}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.MetaSchema, "metaschema").
		WithAliases("ms").
		WithSynopsis("metaschema [-o json|yaml]").
		WithDescription("print the bundled table schema meta-schema").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return printMetaSchema(cfg, cc, args)
		})
}
