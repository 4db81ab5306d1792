package persona

import (
	"fmt"
	"strings"

	"nft-persona-lab/internal/domain"
)

// buildPrompt assembles the matching prompt: role preamble, persona block,
// enumerated collection listing (1-based), persona criteria, and a strict
// JSON output contract.
func buildPrompt(d domain.PersonaDescriptor, collections []domain.Collection) string {
	var b strings.Builder

	b.WriteString("You are an NFT curation analyst. Your mission is to select the collections ")
	b.WriteString("from the list below that best fit one collector persona.\n\n")

	fmt.Fprintf(&b, "Persona: %s\nProfile: %s\nThemes: %s\n\n", d.Label, d.Descriptor, d.Theme)

	b.WriteString("Collections:\n")
	for i, c := range collections {
		fmt.Fprintf(&b, "%d. %s", i+1, displayName(c))
		if c.Symbol != "" {
			fmt.Fprintf(&b, " (%s)", c.Symbol)
		}
		if c.TotalSupply != nil {
			fmt.Fprintf(&b, ", supply %d", *c.TotalSupply)
		}
		if c.OwnerCount != nil {
			fmt.Fprintf(&b, ", %d owners", *c.OwnerCount)
		}
		fmt.Fprintf(&b, ", contract %s\n", c.ContractAddress)
	}

	fmt.Fprintf(&b, "\nSelection criteria for this persona:\n%s\n\n", criteria[d.ID])

	b.WriteString("Respond with ONLY a JSON object, no other text:\n")
	b.WriteString(`{"selectedCollections": [<1-based indices of 3-4 collections>], ` +
		`"reasoning": "<one short paragraph>", "confidence": <number between 0 and 1>}`)
	b.WriteString("\n")

	return b.String()
}

func displayName(c domain.Collection) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ContractAddress
}
