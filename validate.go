package tableschema

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/reoring/tableschema/metaschema"
)

// Rule is an additional policy check run after the built-in structural and
// semantic checks. Implementations must be safe for concurrent use and must
// not mutate doc. Issues without a Rule tag are tagged with Name().
type Rule interface {
	Name() string
	Check(doc any) Issues
}

// Option configures a Validator.
type Option func(*Validator)

// WithMetaSchema replaces the bundled meta-schema.
func WithMetaSchema(ms *metaschema.Schema) Option {
	return func(v *Validator) { v.schema = ms }
}

// WithRules appends policy rules evaluated after the built-in checks.
func WithRules(rules ...Rule) Option {
	return func(v *Validator) { v.rules = append(v.rules, rules...) }
}

// WithLogger sets the logger used for debug records. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// Validator checks table schema documents. It holds no per-call state and
// may be shared between goroutines.
type Validator struct {
	schema *metaschema.Schema
	rules  []Rule
	logger *slog.Logger
}

// New builds a Validator. Without WithMetaSchema the bundled meta-schema is
// used.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(v)
	}
	if v.schema == nil {
		ms, err := metaschema.Default()
		if err != nil {
			return nil, fmt.Errorf("load bundled meta-schema: %w", err)
		}
		v.schema = ms
	}
	return v, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Validator {
	v, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// MetaSchema returns the meta-schema the validator evaluates.
func (v *Validator) MetaSchema() *metaschema.Schema { return v.schema }

type stage struct {
	name string
	run  func(doc any) Issues
}

func (v *Validator) stages() []stage {
	st := []stage{
		{name: RuleStructure, run: func(doc any) Issues { return checkStructure(v.schema, doc) }},
		{name: "semantics", run: checkSemantics},
	}
	for _, r := range v.rules {
		st = append(st, stage{name: r.Name(), run: func(doc any) Issues {
			iss := r.Check(doc)
			for i := range iss {
				if iss[i].Rule == "" {
					iss[i].Rule = r.Name()
				}
			}
			return iss
		}})
	}
	return st
}

// CheckStructure reports meta-schema violations only.
func (v *Validator) CheckStructure(doc any) Issues { return checkStructure(v.schema, doc) }

// CheckSemantics reports primary and foreign key defects only.
func (v *Validator) CheckSemantics(doc any) Issues { return checkSemantics(doc) }

// IterErrors returns every defect of doc: structural issues first, then
// semantic ones, then policy rules in registration order. Each stage runs
// only when the consumer keeps iterating, and every call starts from scratch.
func (v *Validator) IterErrors(doc any) iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, s := range v.stages() {
			iss := s.run(doc)
			v.logger.LogAttrs(context.Background(), slog.LevelDebug, "check complete",
				slog.String("stage", s.name), slog.Int("issues", len(iss)))
			for _, is := range iss {
				if !yield(is) {
					return
				}
			}
		}
	}
}

// Errors collects IterErrors into a slice. It returns nil for valid documents.
func (v *Validator) Errors(doc any) Issues {
	var out Issues
	for is := range v.IterErrors(doc) {
		out = append(out, is)
	}
	return out
}

// Validate returns nil when doc is valid and otherwise a
// *SchemaValidationError carrying the first defect. The whole aggregate is
// evaluated, so Validate fails exactly when Errors is non-empty.
func (v *Validator) Validate(doc any) error {
	if iss := v.Errors(doc); len(iss) > 0 {
		return &SchemaValidationError{Issue: iss[0]}
	}
	return nil
}

// IsValid reports whether doc has no defects.
func (v *Validator) IsValid(doc any) bool { return v.Validate(doc) == nil }

var defaultValidator = sync.OnceValue(func() *Validator { return MustNew() })

// Default returns the shared Validator built from the bundled meta-schema.
func Default() *Validator { return defaultValidator() }

// CheckStructure reports meta-schema violations using the default Validator.
func CheckStructure(doc any) Issues { return Default().CheckStructure(doc) }

// CheckSemantics reports key defects using the default Validator.
func CheckSemantics(doc any) Issues { return checkSemantics(doc) }

// IterErrors iterates every defect using the default Validator.
func IterErrors(doc any) iter.Seq[Issue] { return Default().IterErrors(doc) }

// Errors collects every defect using the default Validator.
func Errors(doc any) Issues { return Default().Errors(doc) }

// Validate returns the first defect using the default Validator.
func Validate(doc any) error { return Default().Validate(doc) }

// IsValid reports whether doc is valid using the default Validator.
func IsValid(doc any) bool { return Default().IsValid(doc) }
