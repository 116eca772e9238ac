package tableschema

import (
	"fmt"

	"github.com/reoring/tableschema/i18n"
)

// IssueAt creates an Issue at the given path with provided code, message and params map.
// An empty msg is rendered from the code through the current i18n translator.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	if msg == "" {
		msg = message(code, params)
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

// message renders the translated text for code. Params are formatted with
// %v; strings are quoted except for the structural "expected", "allowed" and
// "pattern" params which are already human readable.
func message(code string, params map[string]any) string {
	if len(params) == 0 {
		return i18n.T(code, nil)
	}
	data := make(map[string]string, len(params))
	for k, v := range params {
		switch s := v.(type) {
		case string:
			switch k {
			case "expected", "got", "allowed", "pattern", "rule", "local", "referenced":
				data[k] = s
			default:
				data[k] = fmt.Sprintf("%q", s)
			}
		default:
			data[k] = fmt.Sprint(v)
		}
	}
	return i18n.T(code, data)
}
