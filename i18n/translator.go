package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data fills the {placeholders} of the message: "key" (source key of the
// field), "type", "value", "reason" and "max".
type Translator interface {
	Message(code string, data map[string]string) string
}

var dictionaries = map[string]map[string]string{
	"en": {
		"unknown_key":   "Unknown key '{key}'",
		"invalid_type":  "Cannot cast value of field '{key}' to {type}",
		"required":      "Missing required field '{key}'",
		"hydration":     "Cannot hydrate field '{key}': {reason}",
		"invalid_enum":  "Invalid value '{value}' for field '{key}'",
		"max_depth":     "Maximum nesting depth {max} exceeded at field '{key}'",
		"duplicate_key": "Duplicate key '{key}'",
		"parse_error":   "Cannot parse input: {reason}",
	},
	"ja": {
		"unknown_key":   "未知のキー '{key}' です",
		"invalid_type":  "フィールド '{key}' の値を {type} に変換できません",
		"required":      "必須フィールド '{key}' がありません",
		"hydration":     "フィールド '{key}' の値を計算できません: {reason}",
		"invalid_enum":  "フィールド '{key}' の値 '{value}' は許可されていません",
		"max_depth":     "フィールド '{key}' で最大ネスト深度 {max} を超えました",
		"duplicate_key": "キー '{key}' が重複しています",
		"parse_error":   "解析エラー: {reason}",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return expand(msg, data)
}

func expand(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
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
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
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
