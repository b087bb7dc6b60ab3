package imports

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal interpreta un número de planilla con coma o punto decimal y separador de miles
// opcional: "10,5", "1234.5", "1.234,5", "1,234.5", "1.234.567". Con los dos separadores, el
// último es el decimal. Un único separador sin el otro se toma como decimal ("1,234" = 1.234),
// salvo que se repita ("1,234,567"). Los miles deben ir en grupos de tres dígitos.
func ParseDecimal(v string) (decimal.Decimal, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return decimal.Zero, fmt.Errorf("número vacío")
	}
	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}

	dots, commas := strings.Count(s, "."), strings.Count(s, ",")
	var thousands, dec string
	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			thousands, dec = ".", ","
		} else {
			thousands, dec = ",", "."
		}
		if strings.Count(s, dec) > 1 {
			return decimal.Zero, invalidNumber(v)
		}
	case dots > 1:
		thousands = "."
	case commas > 1:
		thousands = ","
	case commas == 1:
		dec = ","
	case dots == 1:
		dec = "."
	}

	intPart, frac := s, ""
	if dec != "" {
		i := strings.Index(s, dec)
		intPart, frac = s[:i], s[i+1:]
		if frac == "" || (thousands != "" && strings.Contains(frac, thousands)) {
			return decimal.Zero, invalidNumber(v)
		}
	}
	if thousands != "" {
		groups := strings.Split(intPart, thousands)
		if len(groups[0]) == 0 || len(groups[0]) > 3 {
			return decimal.Zero, invalidNumber(v)
		}
		for _, g := range groups[1:] {
			if len(g) != 3 {
				return decimal.Zero, invalidNumber(v)
			}
		}
		intPart = strings.Join(groups, "")
	}
	if intPart == "" && frac == "" || !digits(intPart) || !digits(frac) {
		return decimal.Zero, invalidNumber(v)
	}
	if intPart == "" {
		intPart = "0"
	}

	n := sign + intPart
	if frac != "" {
		n += "." + frac
	}
	return decimal.NewFromString(n)
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func invalidNumber(v string) error {
	return fmt.Errorf("número inválido %q: se acepta un solo separador decimal (coma o punto) y miles en grupos de tres", v)
}
