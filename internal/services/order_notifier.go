package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"

	"laptopshop/internal/mailer"

	"golang.org/x/sync/errgroup"
)

// OrderNotifier e-mails the customer and the shop about a new order.
type OrderNotifier struct {
	sender     mailer.Sender
	adminEmail string
	shopName   string
}

// NewOrderNotifier creates a new OrderNotifier. An empty adminEmail disables
// the shop notification.
func NewOrderNotifier(sender mailer.Sender, adminEmail, shopName string) *OrderNotifier {
	return &OrderNotifier{
		sender:     sender,
		adminEmail: adminEmail,
		shopName:   shopName,
	}
}

var (
	customerMailTemplate = template.Must(template.New("customer").Funcs(mailFuncs).Parse(`<h2>Cảm ơn {{.CustomerName}} đã đặt hàng tại {{.Shop}}</h2>
<p>Mã đơn hàng: <strong>{{.OrderNumber}}</strong></p>
<table>{{range .Items}}<tr><td>{{.ProductName}}</td><td>x{{.Quantity}}</td><td>{{vnd .LineTotal}}</td></tr>{{end}}</table>
<p>Tổng cộng: <strong>{{vnd .TotalAmount}}</strong></p>
<p>Giao đến: {{.Address}}</p>`))

	adminMailTemplate = template.Must(template.New("admin").Funcs(mailFuncs).Parse(`<h2>Đơn hàng mới {{.OrderNumber}}</h2>
<p>{{.CustomerName}} - {{.CustomerPhone}}{{if .CustomerEmail}} - {{.CustomerEmail}}{{end}}</p>
<p>Địa chỉ: {{.Address}}</p>
<p>Thanh toán: {{.PaymentMethod}}</p>
<table>{{range .Items}}<tr><td>{{.ProductName}}</td><td>x{{.Quantity}}</td><td>{{vnd .Price}}</td><td>{{vnd .LineTotal}}</td></tr>{{end}}</table>
<p>Tổng cộng: <strong>{{vnd .TotalAmount}}</strong></p>{{if .Note}}
<p>Ghi chú: {{.Note}}</p>{{end}}`))

	mailFuncs = template.FuncMap{"vnd": FormatVND}
)

type mailData struct {
	OrderEvent
	Shop string
}

// ErrNotifyFinal marks a notification failure that retrying the event would
// not fix without repeating a mail that was already delivered.
var ErrNotifyFinal = errors.New("notification will not be retried")

// Notify sends both e-mails concurrently. Each send runs on the caller's
// context, so one failure never stops the other. When nothing could be
// delivered the joined errors are returned as is; when at least one mail went
// out the error also wraps ErrNotifyFinal.
func (n *OrderNotifier) Notify(ctx context.Context, event OrderEvent) error {
	data := mailData{OrderEvent: event, Shop: n.shopName}
	var (
		g    errgroup.Group
		errs [2]error
		sent [2]bool
	)

	if event.CustomerEmail != "" {
		g.Go(func() error {
			errs[0] = n.send(ctx, event.CustomerEmail, fmt.Sprintf("[%s] Xác nhận đơn hàng %s", n.shopName, event.OrderNumber), customerMailTemplate, data)
			sent[0] = errs[0] == nil
			return nil
		})
	}
	if n.adminEmail != "" {
		g.Go(func() error {
			errs[1] = n.send(ctx, n.adminEmail, fmt.Sprintf("Đơn hàng mới %s - %s", event.OrderNumber, FormatVND(event.TotalAmount)), adminMailTemplate, data)
			sent[1] = errs[1] == nil
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs[:]...)
	if err == nil {
		return nil
	}
	log.Printf("Error sending notifications for order %s: %v", event.OrderNumber, err)
	if sent[0] || sent[1] {
		return fmt.Errorf("%w: %w", ErrNotifyFinal, err)
	}
	return err
}

func (n *OrderNotifier) send(ctx context.Context, to, subject string, tmpl *template.Template, data mailData) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render %s mail: %w", tmpl.Name(), err)
	}
	return n.sender.Send(ctx, mailer.Message{To: to, Subject: subject, HTML: body.String()})
}

// FormatVND renders an amount as "18.500.000 ₫".
func FormatVND(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b bytes.Buffer
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if negative {
		return "-" + b.String() + " ₫"
	}
	return b.String() + " ₫"
}
