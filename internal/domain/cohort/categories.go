package cohort

import (
	"strings"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/normalize"
)

// OtherCategory is assigned when no rule matches.
const OtherCategory = "Other"

// CategoryRule assigns Category to any interest containing one of Keywords.
type CategoryRule struct {
	Category string   `koanf:"category" json:"category"`
	Keywords []string `koanf:"keywords" json:"keywords"`
}

type compiledCategory struct {
	category string
	keywords []string
}

// DefaultCategoryRules maps career interests to broad areas. Rules are
// checked in order and the first match wins.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Category: "Technology", Keywords: []string{"software", "desarrollo", "developer", "programa", "sistemas", "data", "datos", "tecnolog", "ti", "it", "computacion"}},
		{Category: "Marketing", Keywords: []string{"marketing", "publicidad", "comunicacion", "ventas", "comercial"}},
		{Category: "Finance", Keywords: []string{"finanz", "contab", "banca", "econom", "auditor"}},
		{Category: "Engineering", Keywords: []string{"ingenier", "industrial", "civil", "mecanic"}},
		{Category: "Business", Keywords: []string{"administra", "gestion", "negocio", "emprend", "consultor"}},
		{Category: "Design", Keywords: []string{"diseno", "design", "ux", "ui", "arquitect"}},
		{Category: "Human Resources", Keywords: []string{"recursos humanos", "rrhh", "talento", "reclutamiento"}},
		{Category: "Law", Keywords: []string{"derecho", "legal", "abogad"}},
		{Category: "Health", Keywords: []string{"medic", "salud", "enfermer", "psicolog", "nutricion"}},
	}
}

func compileRules(rules []CategoryRule) []compiledCategory {
	out := make([]compiledCategory, 0, len(rules))
	for _, r := range rules {
		name := strings.TrimSpace(r.Category)
		if name == "" {
			continue
		}
		c := compiledCategory{category: name}
		for _, kw := range r.Keywords {
			if k := normalize.Text(kw); k != "" {
				c.keywords = append(c.keywords, k)
			}
		}
		if len(c.keywords) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// categorize returns the first category whose keyword occurs in interest.
// Short keywords ("ti", "ux") only match whole words so that "estadistica"
// does not land in Technology.
func categorize(rules []compiledCategory, interest string) string {
	text := normalize.Text(interest)
	if text == "" {
		return OtherCategory
	}
	words := strings.Fields(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if len(kw) <= 2 {
				if containsWord(words, kw) {
					return r.category
				}
				continue
			}
			if strings.Contains(text, kw) {
				return r.category
			}
		}
	}
	return OtherCategory
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}
