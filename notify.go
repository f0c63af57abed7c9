package main

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/khadijah/storefront-backend/models"
)

// Mailer sends the admin notifications fired by contact-form and order
// intake. Failures never block the triggering write.
type Mailer interface {
	SendContactNotification(contact models.ContactUs) error
	SendOrderReceipt(order models.Order) error
}

type smtpMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer builds the production mailer from SMTP config.
func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) send(subject, body string) error {
	msg := "From: " + m.cfg.From + "\n" +
		"To: " + m.cfg.AdminEmail + "\n" +
		"Subject: " + subject + "\n\n" + body
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, []string{m.cfg.AdminEmail}, []byte(msg))
}

func (m *smtpMailer) SendContactNotification(contact models.ContactUs) error {
	subject := fmt.Sprintf("New Contact Form Submission from %s", contact.Name)
	body := fmt.Sprintf("Name: %s\nEmail: %s\nMessage: %s\n", contact.Name, contact.Email, contact.Message)
	return m.send(subject, body)
}

func (m *smtpMailer) SendOrderReceipt(order models.Order) error {
	var items []string
	for _, item := range order.Items {
		items = append(items, fmt.Sprintf("- %s x %d = %d",
			item.Product.Title, item.Quantity, item.Product.UnitPrice()*item.Quantity))
	}

	subject := fmt.Sprintf("New Order Received - Order #%.8s", order.ID)
	body := fmt.Sprintf(
		"A new order has been received:\n\nOrder ID: %.8s\nCustomer: %s\nPhone: %s\nAddress: %s\nTotal Amount: %d\n\nItems Ordered:\n%s\n",
		order.ID, order.CustomerName, order.CustomerPhone, order.CustomerAddress,
		order.TotalPrice, strings.Join(items, "\n"))
	return m.send(subject, body)
}

// noopMailer stands in when SMTP is not configured.
type noopMailer struct{}

func (noopMailer) SendContactNotification(models.ContactUs) error { return nil }
func (noopMailer) SendOrderReceipt(models.Order) error            { return nil }
