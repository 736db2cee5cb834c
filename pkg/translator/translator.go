package translator

import (
	"os"
	"path/filepath"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var Translator *i18n.Bundle

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string // List of supported languages, the first one is the fallback
}

const (
	LanguageFr = "fr"
	LanguageEn = "en"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.French})
var supported = []string{LanguageEn, LanguageFr}

func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if len(cfg.SupportedLanguages) > 0 {
		setSupportedLanguages(cfg.SupportedLanguages)
	}

	lstFiles, err := os.ReadDir(cfg.TranslationFolder)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, f := range lstFiles {
		if f.IsDir() || filepath.Ext(f.Name()) != ".toml" {
			continue
		}
		path := filepath.Join(cfg.TranslationFolder, f.Name())

		if _, err := Translator.LoadMessageFile(path); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", f.Name()), zap.Error(err))
		}
	}
}

// MatchLanguage picks the supported language closest to an Accept-Language
// header value. Unknown or empty headers resolve to the fallback language.
func MatchLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return supported[0]
	}
	return supported[index]
}

func setSupportedLanguages(languages []string) {
	tags := make([]language.Tag, 0, len(languages))
	names := make([]string, 0, len(languages))
	for _, lang := range languages {
		tag, err := language.Parse(lang)
		if err != nil {
			zap.L().Warn("ignoring unsupported language", zap.String("lang", lang), zap.Error(err))
			continue
		}
		tags = append(tags, tag)
		names = append(names, lang)
	}
	if len(tags) == 0 {
		return
	}
	matcher = language.NewMatcher(tags)
	supported = names
}
