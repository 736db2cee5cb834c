package tests

import (
	"os"
	"testing"

	"timemaster/pkg/translator"

	"github.com/gin-gonic/gin"
)

const translationFolder = "../../../../../pkg/translator/translation"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  translationFolder,
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})
	os.Exit(m.Run())
}
