// Package i18n holds the user-facing message catalog of the client.
//
// Messages are looked up by key through golang.org/x/text/message. English is
// the fallback language; Simplified Chinese is the app's original locale.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	KeyAuthFailed             = "auth.authFailed"
	KeyVerificationFailed     = "auth.verificationFailed"
	KeyVerificationIDNotFound = "auth.verificationIDNotFound"
	KeyNetworkError           = "auth.networkError"
	KeyUserNotFound           = "auth.userNotFound"

	KeySignOutFailed       = "session.signOutFailed"
	KeyCredentialsNotSaved = "session.credentialsNotSaved"
	KeyResetEmailSent      = "session.resetEmailSent"

	KeyEmailRequired   = "validation.emailRequired"
	KeyEmailInvalid    = "validation.emailInvalid"
	KeyPasswordReq     = "validation.passwordRequired"
	KeyPasswordShort   = "validation.passwordShort"
	KeyConfirmRequired = "validation.confirmRequired"
	KeyConfirmMismatch = "validation.confirmMismatch"
	KeyNameRequired    = "validation.nameRequired"
	KeyNameShort       = "validation.nameShort"
	KeyAgeRequired     = "validation.ageRequired"
	KeyAgeUnderage     = "validation.ageUnderage"
	KeyAgeInvalid      = "validation.ageInvalid"
	KeyGenderRequired  = "validation.genderRequired"
)

var (
	English = language.English
	Chinese = language.SimplifiedChinese
)

var messages = map[string][2]string{
	KeyAuthFailed:             {"Authentication failed, please try again", "认证失败，请重试"},
	KeyVerificationFailed:     {"Failed to send verification code, please try again", "验证码发送失败，请重试"},
	KeyVerificationIDNotFound: {"Verification ID missing, please request a new code", "验证ID丢失，请重新获取验证码"},
	KeyNetworkError:           {"Network connection error", "网络连接错误"},
	KeyUserNotFound:           {"User does not exist", "用户不存在"},

	KeySignOutFailed:       {"Sign out failed, please try again", "登出失败，请重试"},
	KeyCredentialsNotSaved: {"Could not save sign-in information, please try again", "无法保存登录信息，请重试"},
	KeyResetEmailSent:      {"Check your email for password reset instructions", "请检查您的电子邮件以获取密码重置说明"},

	KeyEmailRequired:   {"Please enter your email address", "请输入电子邮件地址"},
	KeyEmailInvalid:    {"Please enter a valid email address", "请输入有效的电子邮件地址"},
	KeyPasswordReq:     {"Please enter a password", "请输入密码"},
	KeyPasswordShort:   {"Password must be at least 6 characters", "密码长度至少为6位"},
	KeyConfirmRequired: {"Please confirm your password", "请确认密码"},
	KeyConfirmMismatch: {"The two passwords do not match", "两次输入的密码不一致"},
	KeyNameRequired:    {"Please enter your name", "请输入姓名"},
	KeyNameShort:       {"Name must be at least 2 characters", "姓名至少需要2个字符"},
	KeyAgeRequired:     {"Please enter your age", "请输入年龄"},
	KeyAgeUnderage:     {"You must be at least 18 to use this app", "您必须年满18岁才能使用此应用"},
	KeyAgeInvalid:      {"Please enter a valid age", "请输入有效的年龄"},
	KeyGenderRequired:  {"Please choose male, female or other", "请选择性别"},
}

var (
	cat       = build()
	supported = []language.Tag{English, Chinese}
	matcher   = language.NewMatcher(supported)
)

func build() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(English))
	for key, m := range messages {
		_ = b.SetString(English, key, m[0])
		_ = b.SetString(Chinese, key, m[1])
	}
	return b
}

// Match picks the closest supported language for tag.
func Match(tag language.Tag) language.Tag {
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}

// Parse resolves a BCP 47 string such as "zh-CN" to a supported language.
// Empty or unparsable input yields English.
func Parse(s string) language.Tag {
	if s == "" {
		return English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return English
	}
	return Match(tag)
}

// Printer returns a printer bound to the client catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(Match(tag), message.Catalog(cat))
}

// Text renders the message stored under key.
func Text(tag language.Tag, key string) string {
	return Printer(tag).Sprintf(key)
}
