package apierrors

import (
	"fmt"
	"timemaster/pkg/translator"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
)

// JsonErr represents the JSON structure for apierrors.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err represents the error with a code, a message and the offending field when known.
type Err struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	if e.ErrDetails.Field != "" {
		return fmt.Sprintf("Code: %d, Message: %s, Field: %s", e.ErrDetails.Code, e.ErrDetails.Message, e.ErrDetails.Field)
	}
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// CreateError generates a JsonErr with a translated message.
func CreateError(code int, msgKey string, lang string) JsonErr {
	message := GetTransErrorMsg(msgKey, lang)
	return JsonErr{ErrDetails: Err{Code: code, Message: message}}
}

// CreateFieldError generates a JsonErr with a translated message naming the rejected field.
func CreateFieldError(code int, msgKey string, field string, lang string) JsonErr {
	err := CreateError(code, msgKey, lang)
	err.ErrDetails.Field = field
	return err
}

// GetTransErrorMsg retrieves the translated error message.
func GetTransErrorMsg(msgKey string, lang string) string {
	if translator.Translator == nil {
		return msgKey
	}
	l := i18n.NewLocalizer(translator.Translator, lang, translator.LanguageEn)
	m := i18n.LocalizeConfig{}
	m.MessageID = msgKey
	msg, err := l.Localize(&m)
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", msgKey), zap.Error(err))
		return msgKey
	}
	return msg
}
