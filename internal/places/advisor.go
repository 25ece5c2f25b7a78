package places

import (
	"context"
	"fmt"
	"strings"
)

// Advisor suggests dining and drinks venues near a named location. The
// boolean reports whether the advisor had anything to offer.
type Advisor interface {
	Suggest(ctx context.Context, locationName string) (string, bool)
}

type venue struct {
	name    string
	kind    string
	address string
}

type area struct {
	key    string
	venues []venue
}

// curatedAreas maps well-known NYC areas to a couple of reliable picks
// each. Ordered so that overlapping keys resolve deterministically.
var curatedAreas = []area{
	{"columbus circle", []venue{
		{"Per Se", "Fine dining", "10 Columbus Circle"},
		{"Landmarc", "French-American bistro", "Time Warner Center"},
	}},
	{"central park", []venue{
		{"Tavern on the Green", "American", "Central Park West"},
		{"The Loeb Boathouse", "Lakeside dining", "Central Park"},
	}},
	{"times square", []venue{
		{"Junior's", "Diner & cheesecake", "1515 Broadway"},
		{"Carmine's", "Italian family style", "200 W 44th St"},
	}},
	{"broadway", []venue{
		{"Sardi's", "Theater district classic", "234 W 44th St"},
		{"Joe Allen", "American bistro", "326 W 46th St"},
	}},
	{"brooklyn", []venue{
		{"Juliana's Pizza", "Pizzeria", "DUMBO"},
		{"The River Café", "Fine dining", "Brooklyn Bridge Park"},
	}},
	{"dumbo", []venue{
		{"Juliana's Pizza", "Famous pizzeria", "19 Old Fulton St"},
		{"Time Out Market", "Food hall", "55 Water St"},
	}},
	{"soho", []venue{
		{"Balthazar", "French brasserie", "80 Spring St"},
		{"The Mercer Kitchen", "American", "99 Prince St"},
	}},
	{"williamsburg", []venue{
		{"Peter Luger", "Steakhouse", "178 Broadway"},
		{"Lilia", "Italian", "567 Union Ave"},
	}},
	{"chelsea", []venue{
		{"Buddakan", "Asian fusion", "75 9th Ave"},
		{"Los Tacos No. 1", "Tacos", "Chelsea Market"},
	}},
	{"east village", []venue{
		{"Veselka", "Ukrainian diner", "144 2nd Ave"},
		{"Momofuku Noodle Bar", "Asian", "171 1st Ave"},
	}},
	{"west village", []venue{
		{"L'Artusi", "Italian", "228 W 10th St"},
		{"The Spotted Pig", "Gastropub", "314 W 11th St"},
	}},
	{"upper west side", []venue{
		{"Barney Greengrass", "Deli", "541 Amsterdam Ave"},
		{"Jacob's Pickles", "Southern", "509 Amsterdam Ave"},
	}},
	{"upper east side", []venue{
		{"Cafe Sabarsky", "Viennese café", "Neue Galerie"},
		{"JG Melon", "Burger joint", "1291 3rd Ave"},
	}},
	{"harlem", []venue{
		{"Red Rooster", "American", "310 Lenox Ave"},
		{"Sylvia's", "Soul food", "328 Malcolm X Blvd"},
	}},
	{"financial district", []venue{
		{"The Dead Rabbit", "Irish bar", "30 Water St"},
		{"Crown Shy", "New American", "70 Pine St"},
	}},
	{"midtown", []venue{
		{"Grand Central Oyster Bar", "Seafood", "Grand Central"},
		{"The Campbell", "Cocktail bar", "Grand Central"},
	}},
}

// StaticAdvisor serves the curated table. Matching is bidirectional
// substring so "near Columbus Circle subway" still hits "columbus
// circle", and a bare "soho" hits "soho".
type StaticAdvisor struct{}

func NewStaticAdvisor() *StaticAdvisor {
	return &StaticAdvisor{}
}

func (a *StaticAdvisor) Suggest(_ context.Context, locationName string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(locationName))
	if lower == "" {
		return "", false
	}
	for _, area := range curatedAreas {
		if !strings.Contains(lower, area.key) && !strings.Contains(area.key, lower) {
			continue
		}
		lines := make([]string, 0, 2)
		for i, v := range area.venues {
			if i == 2 {
				break
			}
			lines = append(lines, fmt.Sprintf("• %s (%s) - %s", v.name, v.kind, v.address))
		}
		return strings.Join(lines, "\n"), true
	}
	return "", false
}

// Generator is the slice of the LLM responder the advisor needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMAdvisor asks the language model for venue picks when the curated
// table has no entry for the area.
type LLMAdvisor struct {
	gen Generator
}

func NewLLMAdvisor(gen Generator) *LLMAdvisor {
	return &LLMAdvisor{gen: gen}
}

func (a *LLMAdvisor) Suggest(ctx context.Context, locationName string) (string, bool) {
	if a.gen == nil {
		return "", false
	}
	prompt := fmt.Sprintf(
		"List exactly 2 well-known restaurants or bars near %s in New York City. "+
			"Answer with plain text only, one per line, formatted as "+
			"\"• Name (Type) - Address\". No other text.", locationName)
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return "", false
	}
	return strings.TrimSpace(text), true
}

// Chain tries each advisor in order and returns the first suggestion.
type Chain []Advisor

func (c Chain) Suggest(ctx context.Context, locationName string) (string, bool) {
	for _, a := range c {
		if text, ok := a.Suggest(ctx, locationName); ok {
			return text, true
		}
	}
	return "", false
}
