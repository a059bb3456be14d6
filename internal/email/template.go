package email

import (
	"bytes"
	"html/template"

	"dbs-store/internal/auth"
)

const (
	subjectReset   = "Réinitialisation de votre mot de passe — DBS Store"
	subjectDefault = "Votre code de vérification — DBS Store"
)

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>{{.Title}}</title>
</head>
<body style="margin:0;padding:0;background:#f1f5f9;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" style="padding:40px 16px;">
    <tr>
      <td align="center">
        <table width="100%" cellpadding="0" cellspacing="0" style="max-width:480px;background:#ffffff;border-radius:12px;overflow:hidden;">
          <tr>
            <td style="background:#0f172a;padding:24px 32px;text-align:center;">
              <span style="font-size:20px;font-weight:700;color:#ffffff;">DBS Store</span>
            </td>
          </tr>
          <tr>
            <td style="padding:40px 32px 32px;">
              <h1 style="margin:0 0 8px;font-size:22px;color:#0f172a;">{{.Title}}</h1>
              <p style="margin:0 0 32px;font-size:15px;color:#64748b;">
                Utilisez le code ci-dessous pour continuer. Il est valable <strong>{{.ValidMinutes}} minutes</strong>.
              </p>
              <div style="background:#f8fafc;border:1px solid #e2e8f0;border-radius:8px;padding:24px;text-align:center;margin-bottom:32px;">
                <span style="font-size:36px;font-weight:700;letter-spacing:12px;color:#0f172a;font-family:'Courier New',monospace;">{{.OTP}}</span>
              </div>
              <p style="margin:0;font-size:13px;color:#94a3b8;">
                Si vous n'avez pas demandé ce code, ignorez cet email. Votre compte reste sécurisé.
              </p>
            </td>
          </tr>
          <tr>
            <td style="border-top:1px solid #e2e8f0;padding:16px 32px;text-align:center;">
              <p style="margin:0;font-size:12px;color:#94a3b8;">DBS Store, Abidjan, Côte d'Ivoire</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))

type otpData struct {
	Title        string
	OTP          string
	ValidMinutes int
}

// Subject returns the mail subject for an OTP type.
func Subject(otpType auth.OTPType) string {
	if otpType == auth.OTPForgetPassword {
		return subjectReset
	}
	return subjectDefault
}

func renderOTP(otp string, otpType auth.OTPType) (string, error) {
	title := "Vérification de votre compte"
	if otpType == auth.OTPForgetPassword {
		title = "Réinitialisation de mot de passe"
	}

	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, otpData{
		Title:        title,
		OTP:          otp,
		ValidMinutes: int(auth.OTPTTL.Minutes()),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
