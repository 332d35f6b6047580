package service

import (
	"bytes"
	"fmt"
	"html/template"

	"checkout-bridge/internal/core/domain"
	"checkout-bridge/internal/core/ports"
)

var adminTmpl = template.Must(template.New("admin").Parse(`<h2>Nueva venta confirmada</h2>
<p>Orden <strong>#{{.Order.ID}}</strong></p>
{{if .Order.Items}}<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Producto</th><th>Cantidad</th><th>Precio unitario</th><th>Subtotal</th></tr>
{{range .Order.Items}}<tr><td>{{.Title}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.Subtotal}}</td></tr>
{{end}}</table>
<p><strong>Total: {{.Total}} {{.Currency}}</strong></p>
{{else}}<p><strong>Sin ítems recuperados para esta orden.</strong> Verificar manualmente en el panel del procesador.</p>
{{end}}<h3>Comprador</h3>
<ul>
<li>Nombre: {{.BuyerName}}</li>
<li>Email: {{if .Order.Buyer.Email}}{{.Order.Buyer.Email}}{{else}}no informado{{end}}</li>
<li>DNI: {{.Order.Buyer.DNI}}</li>
<li>Teléfono: {{.Order.Buyer.Phone}}</li>
<li>Dirección: {{.Order.Buyer.Address}}</li>
</ul>`))

var buyerTmpl = template.Must(template.New("buyer").Parse(`<h2>¡Gracias por tu compra{{if .Order.Buyer.FirstName}}, {{.Order.Buyer.FirstName}}{{end}}!</h2>
<p>Tu pago fue confirmado. Orden <strong>#{{.Order.ID}}</strong>.</p>
{{if .Order.Items}}<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Producto</th><th>Cantidad</th><th>Subtotal</th></tr>
{{range .Order.Items}}<tr><td>{{.Title}}</td><td>{{.Quantity}}</td><td>{{.Subtotal}}</td></tr>
{{end}}</table>
<p><strong>Total: {{.Total}} {{.Currency}}</strong></p>
{{end}}<p>Te vamos a contactar para coordinar la entrega.</p>`))

type emailData struct {
	Order     *domain.Order
	Total     string
	Currency  string
	BuyerName string
}

// EmailComposer renders notification bodies for resolved orders.
type EmailComposer struct {
	currency string
}

// NewEmailComposer creates a composer. currency is the ISO code shown next
// to totals.
func NewEmailComposer(currency string) *EmailComposer {
	return &EmailComposer{currency: currency}
}

func (c *EmailComposer) data(order *domain.Order) emailData {
	name := order.Buyer.FullName()
	if name == "" {
		name = "no informado"
	}
	return emailData{
		Order:     order,
		Total:     order.Total().StringFixed(2),
		Currency:  c.currency,
		BuyerName: name,
	}
}

// AdminNotification builds the store-administrator email. The recipient is
// filled in by the dispatcher; Reply-To points at the buyer when known so
// the administrator can answer directly.
func (c *EmailComposer) AdminNotification(order *domain.Order) (ports.Email, error) {
	var body bytes.Buffer
	if err := adminTmpl.Execute(&body, c.data(order)); err != nil {
		return ports.Email{}, fmt.Errorf("render admin notification: %w", err)
	}
	return ports.Email{
		Subject: fmt.Sprintf("Nueva venta confirmada - orden #%s", order.ID),
		HTML:    body.String(),
		ReplyTo: order.Buyer.Email,
	}, nil
}

// BuyerConfirmation builds the buyer-facing confirmation email.
func (c *EmailComposer) BuyerConfirmation(order *domain.Order) (ports.Email, error) {
	var body bytes.Buffer
	if err := buyerTmpl.Execute(&body, c.data(order)); err != nil {
		return ports.Email{}, fmt.Errorf("render buyer confirmation: %w", err)
	}
	return ports.Email{
		Subject: fmt.Sprintf("Confirmamos tu compra - orden #%s", order.ID),
		HTML:    body.String(),
	}, nil
}
