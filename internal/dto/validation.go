package dto

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernameCharset = regexp.MustCompile(`^[가-힣a-zA-Z0-9_]+$`)
	phonePattern    = regexp.MustCompile(`^010[0-9]{8}$`)
	nonDigits       = regexp.MustCompile(`[^0-9]`)
)

// reservedUsernames may not be registered regardless of availability.
var reservedUsernames = map[string]struct{}{
	"admin": {}, "administrator": {}, "root": {}, "user": {}, "guest": {},
	"anonymous": {}, "null": {}, "undefined": {}, "system": {}, "api": {},
	"www": {}, "mail": {}, "ftp": {}, "test": {}, "demo": {}, "support": {},
	"help": {}, "info": {}, "contact": {},
	"관리자": {}, "운영자": {}, "테스트": {}, "시스템": {}, "고객센터": {},
}

// RegisterValidations installs the custom binding rules on gin's validator
// engine. Must be called once before the router handles requests.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("username", validUsername); err != nil {
		return err
	}
	return v.RegisterValidation("phone_kr", validKoreanPhone)
}

// validUsername enforces the signup username policy: 3-20 characters of
// Hangul, latin letters, digits or underscore; no leading, trailing or
// doubled underscore; reserved words blocked.
func validUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	length := utf8.RuneCountInString(username)
	if length < 3 || length > 20 {
		return false
	}
	if !usernameCharset.MatchString(username) {
		return false
	}
	if strings.HasPrefix(username, "_") || strings.HasSuffix(username, "_") {
		return false
	}
	if strings.Contains(username, "__") {
		return false
	}
	if _, reserved := reservedUsernames[strings.ToLower(username)]; reserved {
		return false
	}
	return true
}

// validKoreanPhone accepts 010-xxxx-xxxx numbers with or without separators.
func validKoreanPhone(fl validator.FieldLevel) bool {
	digits := nonDigits.ReplaceAllString(fl.Field().String(), "")
	return phonePattern.MatchString(digits)
}

// NormalizePhoneNumber formats an accepted phone number as 010-xxxx-xxxx.
func NormalizePhoneNumber(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) != 11 {
		return raw
	}
	return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
}
