package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/config"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"
)

// EmailSender delivers payment confirmations over SMTP. The recipient is the
// same party that was billed for the order.
type EmailSender struct {
	cfg      config.SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ Sender = (*EmailSender)(nil)

func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg, sendMail: smtp.SendMail}
}

func (s *EmailSender) Send(_ context.Context, o entities.Order) error {
	if s.cfg.Host == "" {
		log.Printf("[notify][email] smtp not configured, skipping order_id=%s", o.ID)
		return nil
	}

	payer, err := usecase.ResolvePayer(o)
	if err != nil {
		log.Printf("[notify][email] no payer to notify order_id=%s err=%v", o.ID, err)
		return nil
	}
	if payer.Email == "" {
		log.Printf("[notify][email] payer has no email order_id=%s", o.ID)
		return nil
	}

	msg := buildConfirmationMessage(s.cfg.From, payer, o)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.From, []string{payer.Email}, msg); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

func buildConfirmationMessage(from string, payer entities.Payer, o entities.Order) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", payer.Email)
	fmt.Fprintf(&b, "Subject: Pagamento confirmado - Pedido %s\r\n", o.ID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Ola %s,\r\n\r\n", payer.Name)
	fmt.Fprintf(&b, "O pagamento do pedido %s foi confirmado.\r\n", o.ID)
	fmt.Fprintf(&b, "Valor: R$ %.2f\r\n", float64(o.TotalPriceCents)/100)
	fmt.Fprintf(&b, "Quantidade de passageiros: %d\r\n\r\n", o.Quantity)
	b.WriteString("Obrigado pela preferencia.\r\n")
	return []byte(b.String())
}
