package domain

// Persona is one of the fixed taste archetypes used to curate collections.
type Persona string

// Persona constants. The set is closed; unknown values are rejected at the
// HTTP boundary.
const (
	PersonaDegen     Persona = "degen"
	PersonaWhale     Persona = "whale"
	PersonaAesthete  Persona = "aesthete"
	PersonaConnector Persona = "connector"
)

// PersonaDescriptor carries the static display and prompt material for one
// persona. Defined at process start, never mutated.
type PersonaDescriptor struct {
	ID          Persona `json:"id"`
	Label       string  `json:"label"`
	Descriptor  string  `json:"descriptor"` // short display sentence
	Color       string  `json:"color"`      // UI color token
	Theme       string  `json:"theme"`      // thematic criteria, prompt construction only
}

// PersonaMatch is a selected subset of collections for one persona request.
// Created fresh per request, not persisted.
type PersonaMatch struct {
	SelectedCollections []Collection `json:"selectedCollections"` // 3-4 items, order as returned
	Reasoning           string       `json:"reasoning"`
	Confidence          float64      `json:"confidence"` // normalized to [0,1]

	// Fallback marks a degraded selection produced without (or despite) the
	// text-generation provider. Confidence 0.1 signals total failure,
	// 0.2 a malformed provider response.
	Fallback bool `json:"fallback,omitempty"`
}
