package tableschema

import (
	eng "github.com/reoring/tableschema/internal/engine"
	"github.com/reoring/tableschema/metaschema"
)

// checkStructure evaluates doc against ms and converts the interpreter's
// issues, rendering messages through the current translator.
func checkStructure(ms *metaschema.Schema, doc any) Issues {
	raw := eng.CheckValue(ms, doc)
	if len(raw) == 0 {
		return nil
	}
	out := make(Issues, 0, len(raw))
	for _, si := range raw {
		out = append(out, Issue{
			Path:    si.Path,
			Code:    si.Code,
			Message: message(si.Code, si.Params),
			Params:  si.Params,
			Rule:    RuleStructure,
		})
	}
	return out
}
