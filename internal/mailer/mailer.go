// Package mailer delivers password-setup links over SMTP.
package mailer

import (
	"fmt"
	"log"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional mail through a single SMTP account.
// With no host configured it logs the link instead of sending, which
// keeps local development working without an SMTP server.
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func New(host string, port int, username, password, from string) *Mailer {
	return &Mailer{Host: host, Port: port, Username: username, Password: password, From: from}
}

// SendSetupLink emails the time-limited password-setup link to a
// company's contact address.
func (m *Mailer) SendSetupLink(to, companyName, link string) error {
	if m.Host == "" {
		log.Printf("mailer: SMTP not configured, setup link for %s: %s", to, link)
		return nil
	}

	body := fmt.Sprintf(`<p>Dzień dobry,</p>
<p>dla firmy <strong>%s</strong> utworzono link do ustawienia hasła w systemie ewidencji bębnów:</p>
<p><a href="%s">%s</a></p>
<p>Link jest ważny przez 15 minut i może zostać użyty tylko raz. Jeśli to nie Państwo prosili o jego wysłanie, prosimy zignorować tę wiadomość.</p>`,
		companyName, link, link)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Ustawienie hasła — ewidencja bębnów")
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	return d.DialAndSend(msg)
}
