package usecase

import (
	"regexp"
	"strings"
)

var multiSpacePattern = regexp.MustCompile(`\s+`)

// defaultSearchAliases maps display names from shopping lists to the generic
// category term the price search API indexes by. Keys are normalized with
// normalizeProductName.
var defaultSearchAliases = map[string]string{
	"coca cola 2.25l":              "gaseosa",
	"coca cola 1.5l":               "gaseosa",
	"coca cola zero 2.25l":         "gaseosa",
	"sprite 2.25l":                 "gaseosa",
	"fanta 2.25l":                  "gaseosa",
	"pepsi 2.25l":                  "gaseosa",
	"agua mineral 2l":              "agua",
	"agua villavicencio 2l":        "agua",
	"leche la serenisima 1l":       "leche",
	"leche entera 1l":              "leche",
	"leche descremada 1l":          "leche",
	"yogur bebible 1l":             "yogur",
	"pan lactal":                   "pan",
	"pan bimbo":                    "pan",
	"fideos matarazzo 500g":        "fideos",
	"fideos spaghetti 500g":        "fideos",
	"arroz gallo oro 1kg":          "arroz",
	"arroz largo fino 1kg":         "arroz",
	"aceite natura 1.5l":           "aceite",
	"aceite de girasol 1.5l":       "aceite",
	"azucar ledesma 1kg":           "azucar",
	"yerba mate playadito 1kg":     "yerba",
	"yerba mate taragui 1kg":       "yerba",
	"cafe la virginia 500g":        "cafe",
	"huevos x12":                   "huevos",
	"docena de huevos":             "huevos",
	"manteca la serenisima":        "manteca",
	"queso cremoso":                "queso",
	"papel higienico higienol":     "papel higienico",
	"papel higienico x4":           "papel higienico",
	"detergente magistral":         "detergente",
	"jabon en polvo ala":           "jabon",
	"cerveza quilmes 1l":           "cerveza",
	"galletitas oreo":              "galletitas",
	"dulce de leche la serenisima": "dulce de leche",
}

// SearchKeyer maps product display names to normalized search terms
type SearchKeyer struct {
	aliases map[string]string
}

// NewSearchKeyer creates a SearchKeyer using the built-in alias table
// extended (and overridden) by extra.
func NewSearchKeyer(extra map[string]string) *SearchKeyer {
	aliases := make(map[string]string, len(defaultSearchAliases)+len(extra))
	for name, key := range defaultSearchAliases {
		aliases[name] = key
	}
	for name, key := range extra {
		name = normalizeProductName(name)
		key = strings.TrimSpace(key)
		if name == "" || key == "" {
			continue
		}
		aliases[name] = key
	}
	return &SearchKeyer{aliases: aliases}
}

// Key returns the search term for a product name. Names missing from the
// alias table fall back to their lowercased first word.
func (k *SearchKeyer) Key(name string) string {
	normalized := normalizeProductName(name)
	if normalized == "" {
		return ""
	}

	if alias, ok := k.aliases[normalized]; ok {
		return alias
	}

	return strings.Fields(normalized)[0]
}

// SearchKey derives the search term with the built-in alias table
func SearchKey(name string) string {
	return defaultSearchKeyer.Key(name)
}

var defaultSearchKeyer = NewSearchKeyer(nil)

// normalizeProductName lowercases and collapses whitespace
func normalizeProductName(name string) string {
	name = strings.ToLower(name)
	name = multiSpacePattern.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
