package model

import (
	"codeclash/internal/common"
)

// Language is the submission language as named by clients.
type Language string

const (
	LanguageCPP        Language = "cpp"
	LanguageJava       Language = "java"
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
)

// Judge0 CE language identifiers.
var judgeLanguageIDs = map[Language]int{
	LanguageCPP:        54,
	LanguageJava:       62,
	LanguagePython:     71,
	LanguageJavaScript: 63,
}

// ParseLanguage resolves a client-supplied language name. Matching is exact.
func ParseLanguage(name string) (Language, error) {
	lang := Language(name)
	if _, ok := judgeLanguageIDs[lang]; !ok {
		return "", common.WithMessage("Unsupported language", common.Errorf("language %q: %w", name, common.ErrUnsupportedLanguage))
	}
	return lang, nil
}

// JudgeID returns the judge-specific identifier, or 0 for an unknown language.
func (l Language) JudgeID() int {
	return judgeLanguageIDs[l]
}

func SupportedLanguages() []Language {
	return []Language{LanguageCPP, LanguageJava, LanguagePython, LanguageJavaScript}
}
