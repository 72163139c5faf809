// Package card renders an order as the HTML fragment the display board
// shows for each comanda. Its defaulting rules must stay consistent with
// the receipt renderer.
package card

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"comanda-monitor/internal/order"
)

// NoveltyWindow is how long an order keeps its NOVO badge.
const NoveltyWindow = 120 * time.Second

// IsNew reports whether the order arrived inside the novelty window.
func IsNew(o order.Order, now time.Time) bool {
	return now.Sub(o.CreatedAt) < NoveltyWindow
}

// WhatsAppLink builds a wa.me link from the digits of the phone field.
func WhatsAppLink(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "https://wa.me/" + digits.String()
}

// MapsLink builds a Google Maps search link from the address field.
func MapsLink(address string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(address)
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func esc(s string) string { return html.EscapeString(s) }

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Data indisponível"
	}
	return t.Format("02/01/2006 15:04:05")
}

func renderItems(b *strings.Builder, items []order.Item) {
	for _, it := range items {
		name := it.Name
		if name == "" {
			name = "Item"
		}
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}

		b.WriteString(`<li class="item-pedido">`)
		fmt.Fprintf(b, `<span class="item-quantidade">%sx</span>`, decimal.NewFromFloat(qty).String())
		fmt.Fprintf(b, `<span class="item-nome">%s</span>`, esc(name))

		if len(it.Flavors) > 0 {
			b.WriteString(`<ul class="lista-sabores">`)
			for _, f := range it.Flavors {
				portion := f.Portion
				if portion == "" {
					portion = "inteira"
				}
				fmt.Fprintf(b, `<li class="sabor-item">%s de %s</li>`, esc(portion), esc(f.Name))
			}
			b.WriteString(`</ul>`)
		}
		if it.Notes != "" {
			fmt.Fprintf(b, `<p class="item-observacao">Obs: %s</p>`, esc(it.Notes))
		}
		if len(it.Modifiers) > 0 {
			b.WriteString(`<ul class="lista-modificadores">`)
			for _, m := range it.Modifiers {
				price := ""
				if m.Price > 0 {
					price = " (+R$ " + money(m.Price) + ")"
				}
				fmt.Fprintf(b, `<li class="modificador">%s: %s%s</li>`, esc(m.GroupName), esc(m.Name), price)
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</li>`)
	}
}

// Render produces the card fragment for one order. All user-supplied
// text is escaped before embedding.
func Render(o order.Order, now time.Time) string {
	doc := o.Document()

	displayID := esc(orNA(doc.DisplayID))
	total := "N/A"
	if doc.Total > 0 {
		total = money(doc.Total)
	}

	var customer order.Customer
	if doc.Customer != nil {
		customer = *doc.Customer
	}
	name := esc(orNA(customer.Name))
	phone := esc(orNA(customer.Phone))
	address := esc(orNA(customer.Address))

	var payment order.Payment
	if doc.Payment != nil {
		payment = *doc.Payment
	}
	method := esc(orNA(payment.Method))
	change := ""
	if payment.ChangeFor > doc.Total {
		change = " (Troco para R$ " + money(payment.ChangeFor) + ")"
	}

	novo := IsNew(o, now)
	cardClass := "comanda"
	if novo {
		cardClass = "comanda comanda-nova"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="%s">`, cardClass)
	fmt.Fprintf(&b, `<h2>Pedido #%d - ID Externo: %s</h2>`, o.ID, displayID)

	b.WriteString(`<div class="contato-cliente">`)
	fmt.Fprintf(&b, `<p><strong>Cliente:</strong> %s</p>`, name)
	fmt.Fprintf(&b, `<p><strong>Telefone:</strong> %s <a href="%s" target="_blank" class="btn-whatsapp" title="Contatar via WhatsApp">WhatsApp</a></p>`,
		phone, WhatsAppLink(customer.Phone))
	b.WriteString(`</div>`)

	b.WriteString(`<div class="detalhes-pedido"><h3>Itens do Pedido</h3><ul class="lista-itens">`)
	renderItems(&b, doc.Items)
	b.WriteString(`</ul></div>`)

	fmt.Fprintf(&b, `<p class="endereco"><strong>Endereço:</strong> %s <a href="%s" target="_blank" class="btn-maps" title="Ver no Google Maps">Maps</a></p>`,
		address, MapsLink(orNA(customer.Address)))

	fmt.Fprintf(&b, `<p class="pagamento"><strong>Total:</strong> R$ %s<br><strong>Pagamento:</strong> %s%s</p>`,
		total, method, change)

	if doc.Notes != "" {
		fmt.Fprintf(&b, `<div class="observacoes"><strong>Observações Gerais:</strong> %s</div>`, esc(doc.Notes))
	}

	fmt.Fprintf(&b, `<p class="timestamp">Recebido em: %s</p>`, formatDate(o.CreatedAt))

	fmt.Fprintf(&b, `<div class="acoes-comanda">`+
		`<button class="btn-finalizar" data-id="%d" title="Marcar como finalizado">Finalizar</button>`+
		`<button class="btn-imprimir" data-id="%d" title="Imprimir Comanda">Imprimir</button>`+
		`<button class="btn-deletar" data-id="%d" title="Deletar pedido">Deletar</button>`+
		`</div>`, o.ID, o.ID, o.ID)

	if novo {
		b.WriteString(`<div class="novo-badge">NOVO</div>`)
	}
	b.WriteString(`</div>`)

	return b.String()
}
