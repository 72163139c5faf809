package order

import (
	"encoding/json"
	"time"
)

const (
	StatusReceived  = "received"
	StatusFinalized = "finalized"
)

// Order is the persisted envelope: three control fields owned by the
// repository plus the submitted document kept verbatim as Payload.
type Order struct {
	ID        int64
	Status    string
	CreatedAt time.Time
	Payload   map[string]any
}

// MarshalJSON flattens the payload at the top level of the view, with
// the control fields winning on a name collision.
func (o Order) MarshalJSON() ([]byte, error) {
	view := make(map[string]any, len(o.Payload)+3)
	for k, v := range o.Payload {
		view[k] = v
	}
	view["id"] = o.ID
	view["status"] = o.Status
	view["createdAt"] = o.CreatedAt
	return json.Marshal(view)
}

// Document is the typed reading of a payload used by the receipt and
// card renderers. Optional fields keep their zero value when absent.
type Document struct {
	DisplayID      string    `json:"displayId"`
	SourcePlatform string    `json:"sourcePlatform"`
	Total          float64   `json:"total"`
	Items          []Item    `json:"items"`
	Customer       *Customer `json:"customer"`
	Payment        *Payment  `json:"payment"`
	Notes          string    `json:"notes"`
}

type Item struct {
	Name       string     `json:"name"`
	Quantity   float64    `json:"quantity"`
	UnitPrice  float64    `json:"unitPrice"`
	TotalPrice float64    `json:"totalPrice"`
	Notes      string     `json:"notes"`
	Flavors    []Flavor   `json:"flavors"`
	Modifiers  []Modifier `json:"modifiers"`
}

type Flavor struct {
	Name    string `json:"name"`
	Portion string `json:"portion"`
}

type Modifier struct {
	GroupName string  `json:"groupName"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Payment struct {
	Method    string  `json:"method"`
	ChangeFor float64 `json:"changeFor"`
}

// Document decodes the payload into its typed shape. Decoding is
// lenient: fields of the wrong type are left at their zero value so the
// renderers can fall back to their defaults.
func (o Order) Document() Document {
	var doc Document
	if raw, err := json.Marshal(o.Payload); err == nil {
		_ = json.Unmarshal(raw, &doc)
	}
	return doc
}
