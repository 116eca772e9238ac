package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "field"); templates reference it as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":                  "invalid type: expected {expected}, got {got}",
		"required":                      "required property {key} missing",
		"unknown_key":                   "unknown key {key}",
		"duplicate_key":                 "duplicate key {key}",
		"too_short":                     "too short: at least {min} required, got {got}",
		"too_long":                      "too long: at most {max} allowed, got {got}",
		"pattern":                       "value does not match pattern {pattern}",
		"invalid_enum":                  "invalid value {got}, must be one of {allowed}",
		"parse_error":                   "parse error",
		"uniqueness":                    "duplicate value {key}",
		"business_rule":                 "rule {rule} failed",
		"key_malformed":                 "{key} must be a field name or a list of field names",
		"primary_key_empty":             "primary key must reference at least one field",
		"primary_key_unknown_field":     "primary key references unknown field {field}",
		"foreign_key_shape_mismatch":    "foreign key fields and reference fields must both be a name or both be a list",
		"foreign_key_arity_mismatch":    "foreign key has {local} fields but its reference has {referenced}",
		"foreign_key_unknown_field":     "foreign key references unknown local field {field}",
		"foreign_key_unknown_reference": "self-referencing foreign key references unknown field {field}",
	},
	"ja": {
		"invalid_type":                  "型が不正です ({expected} が必要ですが {got} でした)",
		"required":                      "必須プロパティ {key} が不足しています",
		"unknown_key":                   "未知のキー {key} です",
		"duplicate_key":                 "キー {key} が重複しています",
		"too_short":                     "短すぎます (最小 {min}、実際 {got})",
		"too_long":                      "長すぎます (最大 {max}、実際 {got})",
		"pattern":                       "パターン {pattern} に一致しません",
		"invalid_enum":                  "値 {got} は不正です ({allowed} のいずれか)",
		"parse_error":                   "解析エラー",
		"uniqueness":                    "値 {key} が重複しています",
		"business_rule":                 "ルール {rule} を満たしていません",
		"key_malformed":                 "{key} はフィールド名またはフィールド名の配列である必要があります",
		"primary_key_empty":             "主キーには少なくとも1つのフィールドが必要です",
		"primary_key_unknown_field":     "主キーが未定義のフィールド {field} を参照しています",
		"foreign_key_shape_mismatch":    "外部キーの fields と reference.fields は同じ形式である必要があります",
		"foreign_key_arity_mismatch":    "外部キーのフィールド数 {local} と参照先のフィールド数 {referenced} が一致しません",
		"foreign_key_unknown_field":     "外部キーが未定義のフィールド {field} を参照しています",
		"foreign_key_unknown_reference": "自己参照の外部キーが未定義のフィールド {field} を参照しています",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return interpolate(tmpl, data)
}

func interpolate(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
