package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"math/rand"
	"net/smtp"
	"strconv"

	"github.com/sunshineiot/evolte-auth/internal/logging"
)

// ErrDeliveryFailed marks mail-transport failures so callers can map them to
// a distinct response without inspecting SMTP details.
var ErrDeliveryFailed = errors.New("failed to send OTP email")

// Passcodes are 4-digit numbers; the low bound keeps a leading zero from
// ever appearing.
const (
	otpMin = 1000
	otpMax = 9999
)

type Service struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromEmail    string
}

func NewService(smtpHost, smtpPort, smtpUser, smtpPassword, fromEmail string) *Service {
	return &Service{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		fromEmail:    fromEmail,
	}
}

// IssueOTP generates a fresh passcode and emails it to toEmail. The code is
// returned only after the SMTP server accepted the message, so a nil error
// means the transport took responsibility for delivery (not that the mail
// arrived). No retry is attempted here.
func (s *Service) IssueOTP(ctx context.Context, toEmail string) (string, error) {
	logger := logging.GetLoggerFromContext(ctx)

	otp := generateOTP()

	body, err := renderOTPEmailTemplate(otp)
	if err != nil {
		logger.Error("failed to render OTP email template", "error", err)
		return "", fmt.Errorf("render template: %w", err)
	}

	subject := fmt.Sprintf("E-Volte OTP is %s", otp)
	if err := s.sendEmail(toEmail, subject, body); err != nil {
		logger.Error("failed to send OTP email", "email", toEmail, "error", err)
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	logger.Info("OTP email sent", "email", toEmail)
	return otp, nil
}

// generateOTP draws a code uniformly from [otpMin, otpMax].
func generateOTP() string {
	return strconv.Itoa(otpMin + rand.Intn(otpMax-otpMin+1))
}

func (s *Service) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)

	// Build message
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		s.fromEmail, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	return smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg)
}

func renderOTPEmailTemplate(otp string) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body>
    <div style="font-family: Helvetica,Arial,sans-serif;overflow:auto;line-height:2">
      <div style="margin:50px auto;width:70%;padding:20px 0">
        <div style="border-bottom:1px solid #eee">
          <a href="#" style="font-size:1.4em;color:#00466a;text-decoration:none;font-weight:600">E-Volte</a>
        </div>
        <p style="font-size:1.1em">Hi,</p>
        <p>Thank you for choosing <strong>E-Volte</strong>. Use the following OTP to complete your sign up. The OTP is valid for 5 minutes.</p>
        <h2 style="background:#00466a;margin:0 auto;width:max-content;padding:0 10px;color:#fff;border-radius:4px;">{{.OTP}}</h2>
        <p style="font-size:0.9em;">Regards,<br />E-Volte Team</p>
        <hr style="border:none;border-top:1px solid #eee" />
        <div style="float:right;padding:8px 0;color:#aaa;font-size:0.8em;line-height:1;font-weight:300">
          <p>Sunshine iotronics Pvt. Ltd.</p>
          <p>Manjari, Pune</p>
        </div>
      </div>
    </div>
</body>
</html>
`

	t, err := template.New("otp").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		OTP string
	}{
		OTP: otp,
	}

	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
