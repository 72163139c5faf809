package card

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"comanda-monitor/internal/order"
)

func sampleOrder(t *testing.T, payload string, createdAt time.Time) order.Order {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("fixture inválida: %v", err)
	}
	return order.Order{ID: 7, Status: order.StatusReceived, CreatedAt: createdAt, Payload: m}
}

func TestRender_EscapesUserText(t *testing.T) {
	t.Parallel()

	now := time.Now()
	o := sampleOrder(t, `{
		"displayId": "<script>alert(1)</script>",
		"total": 10,
		"items": [{"name": "<img src=x onerror=alert(1)>", "quantity": 1}],
		"customer": {"name": "Maria & João"},
		"notes": "<b>urgente</b>"
	}`, now)
	out := Render(o, now)

	for _, banned := range []string{"<script>", "<img", "<b>urgente"} {
		if strings.Contains(out, banned) {
			t.Fatalf("HTML não escapado %q:\n%s", banned, out)
		}
	}
	if !strings.Contains(out, "&lt;script&gt;") || !strings.Contains(out, "Maria &amp; João") {
		t.Fatalf("texto escapado ausente:\n%s", out)
	}
}

func TestIsNew_Window(t *testing.T) {
	t.Parallel()

	now := time.Now()
	fresh := order.Order{CreatedAt: now.Add(-119 * time.Second)}
	stale := order.Order{CreatedAt: now.Add(-121 * time.Second)}

	if !IsNew(fresh, now) {
		t.Fatal("pedido de 119s deveria ser novo")
	}
	if IsNew(stale, now) {
		t.Fatal("pedido de 121s não deveria ser novo")
	}
}

func TestRender_NovoBadge(t *testing.T) {
	t.Parallel()

	now := time.Now()
	payload := `{"total": 10, "items": [{"name": "Pizza", "quantity": 1}]}`

	fresh := Render(sampleOrder(t, payload, now.Add(-30*time.Second)), now)
	if !strings.Contains(fresh, "novo-badge") || !strings.Contains(fresh, "comanda-nova") {
		t.Fatalf("badge NOVO ausente em pedido recente:\n%s", fresh)
	}

	stale := Render(sampleOrder(t, payload, now.Add(-10*time.Minute)), now)
	if strings.Contains(stale, "novo-badge") || strings.Contains(stale, "comanda-nova") {
		t.Fatalf("badge NOVO presente em pedido antigo:\n%s", stale)
	}
}

func TestWhatsAppLink_DigitsOnly(t *testing.T) {
	t.Parallel()

	if got := WhatsAppLink("(11) 98765-4321"); got != "https://wa.me/11987654321" {
		t.Fatalf("got=%q", got)
	}
}

func TestMapsLink_EscapesAddress(t *testing.T) {
	t.Parallel()

	got := MapsLink("Rua das Flores, 123")
	want := "https://www.google.com/maps/search/?api=1&query=Rua+das+Flores%2C+123"
	if got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestRender_DefaultsToNA(t *testing.T) {
	t.Parallel()

	now := time.Now()
	o := sampleOrder(t, `{"items": [{"name": "Pizza", "quantity": 1}]}`, now)
	out := Render(o, now)

	if !strings.Contains(out, "<strong>Cliente:</strong> N/A") {
		t.Fatalf("cliente deveria ser N/A:\n%s", out)
	}
	if !strings.Contains(out, "<strong>Total:</strong> R$ N/A") {
		t.Fatalf("total deveria ser N/A:\n%s", out)
	}
	if !strings.Contains(out, "<strong>Pagamento:</strong> N/A") {
		t.Fatalf("pagamento deveria ser N/A:\n%s", out)
	}
}

func TestRender_ItemsFlavorsAndChange(t *testing.T) {
	t.Parallel()

	now := time.Now()
	o := sampleOrder(t, `{
		"displayId": "IF-9",
		"total": 65.5,
		"items": [{
			"name": "Pizza Grande", "quantity": 2,
			"flavors": [{"name": "Calabresa", "portion": "1/2"}, {"name": "Atum"}],
			"modifiers": [{"groupName": "Borda", "name": "Catupiry", "price": 5}],
			"notes": "bem passada"
		}],
		"payment": {"method": "Dinheiro", "changeFor": 100}
	}`, now)
	out := Render(o, now)

	for _, want := range []string{
		"Pedido #7 - ID Externo: IF-9",
		`<span class="item-quantidade">2x</span>`,
		"1/2 de Calabresa",
		"inteira de Atum", // portion defaults to inteira
		"Borda: Catupiry (+R$ 5.00)",
		"Obs: bem passada",
		"(Troco para R$ 100.00)",
		`data-id="7"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("trecho %q ausente:\n%s", want, out)
		}
	}
}
