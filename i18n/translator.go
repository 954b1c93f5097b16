package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "min").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "invalid_enum":
			return "許可された値のいずれでもありません"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "pattern":
			return "パターンに一致しません"
		case "not_integer":
			return "整数ではありません"
		case "not_unique":
			return "要素が重複しています"
		case "required":
			return "必須プロパティが不足しています"
		case "custom":
			return "カスタム検証に失敗しました"
		case "no_variant":
			return "いずれの形式にも一致しません"
		case "invalid_properties":
			return "一つ以上のプロパティが不正です"
		case "invalid_items":
			return "一つ以上の要素が不正です"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "invalid_enum":
			return "value not in enum"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "pattern":
			return "pattern mismatch"
		case "not_integer":
			return "not an integer"
		case "not_unique":
			return "items are not unique"
		case "required":
			return "required property missing"
		case "custom":
			return "failed custom validation"
		case "no_variant":
			return "value matched no variant"
		case "invalid_properties":
			return "one or more properties failed validation"
		case "invalid_items":
			return "one or more items failed validation"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
