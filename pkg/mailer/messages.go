package mailer

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const appName = "Sauvini"

func greeting(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Hello,"
	}
	return fmt.Sprintf("Hello %s,", name)
}

func link(base, path, code, userType string) string {
	q := url.Values{}
	q.Set("token", code)
	q.Set("type", userType)
	return strings.TrimRight(base, "/") + path + "?" + q.Encode()
}

// VerificationEmail builds the message carrying an email verification code.
func VerificationEmail(to, name, frontendURL, code, userType string, expiresAt time.Time) Message {
	href := link(frontendURL, "/verify-email", code, userType)
	text := fmt.Sprintf("%s\n\nPlease verify your %s account by opening the link below:\n%s\n\nThe link expires at %s.\n",
		greeting(name), appName, href, expiresAt.UTC().Format(time.RFC1123))
	html := fmt.Sprintf(`<p>%s</p><p>Please verify your %s account:</p><p><a href="%s">Verify email</a></p><p>The link expires at %s.</p>`,
		greeting(name), appName, href, expiresAt.UTC().Format(time.RFC1123))

	return Message{
		To:       to,
		Subject:  appName + " - Verify your email",
		TextBody: text,
		HTMLBody: html,
	}
}

// PasswordResetEmail builds the message carrying a password reset code.
func PasswordResetEmail(to, name, frontendURL, code, userType string, expiresAt time.Time) Message {
	href := link(frontendURL, "/reset-password", code, userType)
	text := fmt.Sprintf("%s\n\nA password reset was requested for your %s account. Open the link below to choose a new password:\n%s\n\nThe link expires at %s. If you did not request this, ignore this email.\n",
		greeting(name), appName, href, expiresAt.UTC().Format(time.RFC1123))
	html := fmt.Sprintf(`<p>%s</p><p>A password reset was requested for your %s account.</p><p><a href="%s">Reset password</a></p><p>The link expires at %s.</p>`,
		greeting(name), appName, href, expiresAt.UTC().Format(time.RFC1123))

	return Message{
		To:       to,
		Subject:  appName + " - Reset your password",
		TextBody: text,
		HTMLBody: html,
	}
}

// ProfessorDecisionEmail notifies a professor that their application was
// approved or rejected.
func ProfessorDecisionEmail(to, name string, approved bool) Message {
	subject := appName + " - Your professor application was rejected"
	body := "Unfortunately your professor application was not accepted."
	if approved {
		subject = appName + " - Your professor application was approved"
		body = "Your professor application has been approved. You can now log in."
	}

	return Message{
		To:       to,
		Subject:  subject,
		TextBody: fmt.Sprintf("%s\n\n%s\n", greeting(name), body),
		HTMLBody: fmt.Sprintf("<p>%s</p><p>%s</p>", greeting(name), body),
	}
}
