package recipe

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/internal/domain/inventory"
	"github.com/jhoicas/cafe-pos/internal/domain/units"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Códigos de hallazgo.
const (
	IssueMissingStockEntry = "missing_stock_entry"
	IssueUnknownUnit       = "unknown_unit"
	IssueCategoryMismatch  = "category_mismatch"
	IssueZeroQuantity      = "zero_quantity"
	IssueNegativeQuantity  = "negative_quantity"
	IssueEmptyServing      = "empty_serving"
	IssueDuplicateServing  = "duplicate_serving"
)

// Issue hallazgo de validación. IngredientIndex es -1 cuando aplica a la porción completa.
type Issue struct {
	Severity        Severity
	Code            string
	ServingID       string
	ServingIndex    int
	IngredientIndex int
	Message         string
}

// Validate revisa la receta contra el snapshot de inventario. No modifica nada.
// Un requerimiento en cero se reporta como advertencia: el calculador lo trata como ilimitado.
func Validate(r entity.Recipe, stock inventory.Stock) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(r.Servings))
	for si, s := range r.Servings {
		if seen[s.ID] {
			issues = append(issues, Issue{
				Severity: SeverityError, Code: IssueDuplicateServing, ServingID: s.ID, ServingIndex: si, IngredientIndex: -1,
				Message: fmt.Sprintf("porción %q duplicada", s.ID),
			})
		}
		seen[s.ID] = true

		if len(s.Ingredients) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning, Code: IssueEmptyServing, ServingID: s.ID, ServingIndex: si, IngredientIndex: -1,
				Message: "la porción no tiene ingredientes, su disponibilidad es ilimitada",
			})
		}

		for ii, ing := range s.Ingredients {
			if issue, ok := checkIngredient(ing, stock); ok {
				issue.ServingID = s.ID
				issue.ServingIndex = si
				issue.IngredientIndex = ii
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

// HasErrors indica si algún hallazgo es de severidad error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func checkIngredient(ing entity.RecipeIngredient, stock inventory.Stock) (Issue, bool) {
	entry, ok := stock[ing.StockEntryID]
	if !ok {
		return Issue{Severity: SeverityError, Code: IssueMissingStockEntry,
			Message: (&domain.MissingStockEntryError{StockEntryID: ing.StockEntryID}).Error()}, true
	}
	if _, err := units.Convert(entry.Category, ing.Unit, entry.Unit, decimal.NewFromInt(1)); err != nil {
		code := IssueUnknownUnit
		if errors.Is(err, domain.ErrCategoryMismatch) {
			code = IssueCategoryMismatch
		}
		return Issue{Severity: SeverityError, Code: code, Message: err.Error()}, true
	}
	switch {
	case ing.Quantity.IsNegative():
		return Issue{Severity: SeverityError, Code: IssueNegativeQuantity, Message: "cantidad negativa"}, true
	case ing.Quantity.IsZero():
		return Issue{Severity: SeverityWarning, Code: IssueZeroQuantity,
			Message: fmt.Sprintf("requerimiento en cero de %s: no limita la disponibilidad", entry.Name)}, true
	}
	return Issue{}, false
}
