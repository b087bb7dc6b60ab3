package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mfg-console/internal/domain/entity"
)

// AssignmentRule regla que decidió el resultado de la asignación.
type AssignmentRule int

const (
	RuleSetPrimary     AssignmentRule = 1 // sin primaria: la ubicación pasa a ser primaria
	RuleSamePrimary    AssignmentRule = 2 // la ubicación ya es la primaria
	RuleSetSecondary   AssignmentRule = 3 // primaria con stock y sin secundaria
	RuleKeepSecondary  AssignmentRule = 4 // nunca se sobrescribe la secundaria
	RulePointOfUseSkip AssignmentRule = 5 // la ubicación es el punto de uso: no participa
)

// Assignment resultado del motor de asignación.
type Assignment struct {
	PrimaryLocationID   string
	SecondaryLocationID string
	Rule                AssignmentRule
	Changed             bool
}

// AssignLocation decide la ubicación primaria/secundaria del ítem ante un ingreso en selected.
// primaryOnHand es el saldo de la primaria medido ANTES de escribir los movimientos de la operación.
// Nunca toca el punto de uso. El orden de las reglas importa: la regla 2 corta antes de mirar stock.
func AssignLocation(item *entity.Item, selected string, primaryOnHand decimal.Decimal) Assignment {
	out := Assignment{
		PrimaryLocationID:   item.PrimaryLocationID,
		SecondaryLocationID: item.SecondaryLocationID,
	}
	switch {
	case selected == "":
		out.Rule = RuleKeepSecondary
	case item.PointOfUseLocationID != "" && selected == item.PointOfUseLocationID:
		out.Rule = RulePointOfUseSkip
	case item.PrimaryLocationID == "":
		out.PrimaryLocationID = selected
		out.Rule = RuleSetPrimary
		// La secundaria no puede quedar igual a la nueva primaria.
		if out.SecondaryLocationID == selected {
			out.SecondaryLocationID = ""
		}
		out.Changed = true
	case selected == item.PrimaryLocationID:
		out.Rule = RuleSamePrimary
	case HasStock(primaryOnHand) && item.SecondaryLocationID == "":
		out.SecondaryLocationID = selected
		out.Rule = RuleSetSecondary
		out.Changed = true
	default:
		out.Rule = RuleKeepSecondary
	}
	return out
}
