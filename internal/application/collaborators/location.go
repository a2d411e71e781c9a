// internal/application/collaborators/location.go
package collaborators

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const locationSeparator = ", "

// LocationDirectory supplies the country → region → city hierarchy used to
// compose the location field.
type LocationDirectory interface {
	Countries() []string
	Regions(country string) []string
	Cities(country, region string) []string
}

// ComposeLocation joins the three parts as "City, Region, Country". Parts
// are NFC-normalised and trimmed; every part must be non-empty.
func ComposeLocation(city, region, country string) (string, error) {
	parts := []string{city, region, country}
	for i, p := range parts {
		p = strings.TrimSpace(norm.NFC.String(p))
		if p == "" {
			return "", fmt.Errorf("location part %d is empty", i+1)
		}
		if strings.Contains(p, locationSeparator) {
			return "", fmt.Errorf("location part %q contains the separator", p)
		}
		parts[i] = p
	}
	return strings.Join(parts, locationSeparator), nil
}

// ParseLocation splits a composed location. ok is false unless there are
// exactly three non-empty parts.
func ParseLocation(s string) (city, region, country string, ok bool) {
	parts := strings.Split(s, locationSeparator)
	if len(parts) != 3 {
		return "", "", "", false
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return "", "", "", false
		}
	}
	return parts[0], parts[1], parts[2], true
}

// StaticDirectory is an in-memory LocationDirectory. Names are returned
// sorted with Brazilian Portuguese collation.
type StaticDirectory struct {
	data map[string]map[string][]string

	// collate.Collator is not safe for concurrent use
	mu       sync.Mutex
	collator *collate.Collator
}

func NewStaticDirectory(data map[string]map[string][]string) *StaticDirectory {
	normalized := make(map[string]map[string][]string, len(data))
	for country, regions := range data {
		nr := make(map[string][]string, len(regions))
		for region, cities := range regions {
			nc := make([]string, 0, len(cities))
			for _, c := range cities {
				nc = append(nc, norm.NFC.String(c))
			}
			nr[norm.NFC.String(region)] = nc
		}
		normalized[norm.NFC.String(country)] = nr
	}
	return &StaticDirectory{
		data:     normalized,
		collator: collate.New(language.BrazilianPortuguese, collate.IgnoreCase),
	}
}

// DefaultDirectory is a small built-in directory for the CLI.
func DefaultDirectory() *StaticDirectory {
	return NewStaticDirectory(map[string]map[string][]string{
		"Brasil": {
			"SP": {"São Paulo", "Campinas", "Santos", "Ribeirão Preto"},
			"RJ": {"Rio de Janeiro", "Niterói", "Petrópolis"},
			"MG": {"Belo Horizonte", "Uberlândia", "Juiz de Fora"},
			"PR": {"Curitiba", "Londrina", "Maringá"},
			"RS": {"Porto Alegre", "Caxias do Sul"},
			"PE": {"Recife", "Olinda"},
			"DF": {"Brasília"},
		},
		"Portugal": {
			"Lisboa": {"Lisboa", "Sintra", "Cascais"},
			"Porto":  {"Porto", "Vila Nova de Gaia"},
		},
		"United States": {
			"California": {"San Francisco", "Los Angeles", "San Diego"},
			"New York":   {"New York City", "Buffalo"},
		},
	})
}

func (d *StaticDirectory) Countries() []string {
	out := make([]string, 0, len(d.data))
	for c := range d.data {
		out = append(out, c)
	}
	d.sort(out)
	return out
}

func (d *StaticDirectory) Regions(country string) []string {
	regions := d.data[norm.NFC.String(country)]
	out := make([]string, 0, len(regions))
	for r := range regions {
		out = append(out, r)
	}
	d.sort(out)
	return out
}

func (d *StaticDirectory) Cities(country, region string) []string {
	cities := d.data[norm.NFC.String(country)][norm.NFC.String(region)]
	out := append([]string(nil), cities...)
	d.sort(out)
	return out
}

func (d *StaticDirectory) sort(names []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.collator.SortStrings(names)
}
