package usecase

import (
	"errors"
	"regexp"
	"strings"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
)

var ErrPayerDataInvalid = errors.New("payer data invalid")

const minTaxIDDigits = 11

var nonDigits = regexp.MustCompile(`[^\d]`)

// sanitizeTaxID strips formatting from a CPF/CNPJ, keeping digits only.
func sanitizeTaxID(doc string) string {
	return nonDigits.ReplaceAllString(doc, "")
}

// ResolvePayer selects whose identity is billed for the order.
//
// Pedagogical orders bill the responsible adult, never the minor passenger.
// Conventional orders bill the first passenger, who is the payer in that
// flow. Returns ErrPayerDataInvalid when the selected identity has no usable
// tax id; charge creation must not proceed in that case.
func ResolvePayer(o entities.Order) (entities.Payer, error) {
	var p entities.Payer

	switch o.Category {
	case entities.OrderCategoryPedagogical:
		if o.ResponsibleParty == nil {
			return entities.Payer{}, ErrPayerDataInvalid
		}
		p = entities.Payer{
			Name:  strings.TrimSpace(o.ResponsibleParty.Name),
			TaxID: sanitizeTaxID(o.ResponsibleParty.TaxID),
			Email: strings.TrimSpace(o.ResponsibleParty.Email),
			Phone: strings.TrimSpace(o.ResponsibleParty.Phone),
		}
	case entities.OrderCategoryConventional:
		if len(o.Items) == 0 {
			return entities.Payer{}, ErrPayerDataInvalid
		}
		first := o.Items[0]
		p = entities.Payer{
			Name:  strings.TrimSpace(first.Name),
			TaxID: sanitizeTaxID(first.TaxID),
			Email: strings.TrimSpace(first.Email),
			Phone: strings.TrimSpace(first.Phone),
		}
	default:
		return entities.Payer{}, ErrPayerDataInvalid
	}

	if len(p.TaxID) < minTaxIDDigits {
		return entities.Payer{}, ErrPayerDataInvalid
	}
	return p, nil
}
