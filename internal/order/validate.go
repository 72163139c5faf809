package order

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var validPortions = map[string]bool{
	"1/2":     true,
	"1/3":     true,
	"1/4":     true,
	"inteira": true,
}

// Validate checks the raw submitted document field by field and returns
// every violation found, never stopping at the first one. Unknown extra
// fields are ignored. An empty result means the document is accepted.
func Validate(raw map[string]any) []string {
	var errs []string

	if s, ok := raw["displayId"].(string); !ok || s == "" || utf8.RuneCountInString(s) > 50 {
		errs = append(errs, "displayId inválido ou ausente (máx 50 caracteres).")
	}
	if s, ok := raw["sourcePlatform"].(string); !ok || s == "" || utf8.RuneCountInString(s) > 50 {
		errs = append(errs, "sourcePlatform inválido ou ausente (máx 50 caracteres).")
	}
	if n, ok := raw["total"].(float64); !ok || n <= 0 {
		errs = append(errs, "Total inválido ou ausente.")
	}

	items, ok := raw["items"].([]any)
	if !ok || len(items) == 0 {
		errs = append(errs, "Items inválidos ou ausentes.")
		return errs
	}

	for i, v := range items {
		item, _ := v.(map[string]any)

		if s, ok := item["name"].(string); !ok || s == "" || utf8.RuneCountInString(s) > 100 {
			errs = append(errs, fmt.Sprintf("Item %d: Nome inválido.", i+1))
		}
		if n, ok := item["quantity"].(float64); !ok || n <= 0 {
			errs = append(errs, fmt.Sprintf("Item %d: Quantidade inválida.", i+1))
		}

		fv, present := item["flavors"]
		if !present || fv == nil {
			continue
		}
		flavors, ok := fv.([]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("Item %d: Campo 'flavors' deve ser um array.", i+1))
			continue
		}
		for j, fraw := range flavors {
			flavor, _ := fraw.(map[string]any)

			if s, ok := flavor["name"].(string); !ok || s == "" || utf8.RuneCountInString(s) > 50 {
				errs = append(errs, fmt.Sprintf("Item %d, Sabor %d: Nome do sabor inválido.", i+1, j+1))
			}
			if s, ok := flavor["portion"].(string); !ok || s == "" || !validPortions[strings.ToLower(s)] {
				errs = append(errs, fmt.Sprintf("Item %d, Sabor %d: Porção inválida (esperado: 1/2, 1/3, 1/4, inteira).", i+1, j+1))
			}
		}
	}

	return errs
}
