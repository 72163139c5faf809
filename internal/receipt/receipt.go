// Package receipt renders an order as fixed-width plain text for an
// 80mm thermal printer (40 columns).
package receipt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"comanda-monitor/internal/order"
)

const width = 40

var (
	separator       = strings.Repeat("-", width)
	doubleSeparator = strings.Repeat("=", width)
)

// center pads both sides with floor((width-n)/2) spaces. Odd remainders
// drop the extra space; printers downstream rely on this exact rounding.
func center(text string) string {
	pad := (width - utf8.RuneCountInString(text)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text + strings.Repeat(" ", pad)
}

// align anchors right at column 40 with at least one separating space.
// Overflowing lines are kept whole, never clipped.
func align(left, right string) string {
	space := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if space < 1 {
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func money(v float64) string {
	return "R$ " + decimal.NewFromFloat(v).StringFixed(2)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Render formats the receipt. It is pure and never fails: malformed
// optional payload fields fall back to their defaults.
func Render(o order.Order) string {
	doc := o.Document()

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(center("COMANDA DE PEDIDO"))
	line(center("Monitor de Comandas v2.0"))
	line(doubleSeparator)

	line(align("Pedido #:", strconv.FormatInt(o.ID, 10)))
	line(align("ID Externo:", orNA(doc.DisplayID)))
	line(align("Status:", strings.ToUpper(o.Status)))
	line(align("Data/Hora:", o.CreatedAt.Format("02/01/2006 15:04:05")))
	line(separator)

	var customer order.Customer
	if doc.Customer != nil {
		customer = *doc.Customer
	}
	line(center("DADOS DO CLIENTE"))
	line(align("Nome:", orNA(customer.Name)))
	line(align("Telefone:", orNA(customer.Phone)))
	line(align("Endereço:", orNA(customer.Address)))
	line(separator)

	line(center("ITENS"))
	for _, it := range doc.Items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		left := strconv.FormatFloat(qty, 'f', -1, 64) + "x " + it.Name
		line(align(left, money(it.TotalPrice)))

		for _, f := range it.Flavors {
			line("  - " + f.Portion + " de " + f.Name)
		}
		for _, m := range it.Modifiers {
			suffix := ""
			if m.Price > 0 {
				suffix = " (+" + money(m.Price) + ")"
			}
			line(fmt.Sprintf("  + %s: %s%s", m.GroupName, m.Name, suffix))
		}
		if it.Notes != "" {
			line("  Obs: " + it.Notes)
		}
	}
	line(separator)

	line(align("SUBTOTAL:", money(doc.Total)))
	line(align("TAXA DE ENTREGA:", "R$ 0.00"))
	line(doubleSeparator)
	line(align("TOTAL GERAL:", money(doc.Total)))
	line(doubleSeparator)

	line(center("PAGAMENTO"))
	var payment order.Payment
	if doc.Payment != nil {
		payment = *doc.Payment
	}
	line(align("Método:", orNA(payment.Method)))
	if payment.ChangeFor > doc.Total {
		change := decimal.NewFromFloat(payment.ChangeFor).Sub(decimal.NewFromFloat(doc.Total))
		line(align("Troco para:", money(payment.ChangeFor)))
		line(align("Seu Troco:", "R$ "+change.StringFixed(2)))
	}
	line(separator)

	if doc.Notes != "" {
		line(center("OBSERVAÇÕES GERAIS"))
		line(doc.Notes)
		line(separator)
	}

	line(center("OBRIGADO PELA PREFERÊNCIA!"))
	b.WriteString("\n\n\n") // paper feed before the cut

	return b.String()
}
