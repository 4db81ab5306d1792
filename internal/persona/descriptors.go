// Package persona matches the cached collection set against one of four
// fixed taste archetypes via the text-generation capability.
package persona

import "nft-persona-lab/internal/domain"

// descriptors is the closed persona set, defined at process start.
var descriptors = map[domain.Persona]domain.PersonaDescriptor{
	domain.PersonaDegen: {
		ID:         domain.PersonaDegen,
		Label:      "Degen Trader",
		Descriptor: "Chases momentum and high-velocity flips.",
		Color:      "#ff4d4d",
		Theme:      "volatility, meme energy, fast-moving communities, asymmetric upside",
	},
	domain.PersonaWhale: {
		ID:         domain.PersonaWhale,
		Label:      "Blue-Chip Whale",
		Descriptor: "Accumulates established, historically significant collections.",
		Color:      "#4d79ff",
		Theme:      "provenance, track record, floor resilience, institutional recognition",
	},
	domain.PersonaAesthete: {
		ID:         domain.PersonaAesthete,
		Label:      "Art Aesthete",
		Descriptor: "Collects for visual and generative-art merit above market signals.",
		Color:      "#b84dff",
		Theme:      "artistic innovation, generative technique, curatorial pedigree, visual coherence",
	},
	domain.PersonaConnector: {
		ID:         domain.PersonaConnector,
		Label:      "Community Connector",
		Descriptor: "Joins collections for membership, access and shared identity.",
		Color:      "#2ecc71",
		Theme:      "community strength, holder benefits, IRL presence, collaborative culture",
	},
}

// criteria maps each persona to the selection-criteria paragraph embedded in
// the matching prompt. Hardcoded text, not derived from the descriptors.
var criteria = map[domain.Persona]string{
	domain.PersonaDegen: "Favor collections showing recent transfer momentum and smaller, " +
		"volatile supplies where a thin floor can move fast. Penalize sleepy blue chips " +
		"with large passive holder bases. The ideal pick is one the persona could flip " +
		"within weeks.",
	domain.PersonaWhale: "Favor collections with long on-chain history, large distributed " +
		"holder bases and names an institution would recognize. Penalize unproven or " +
		"meme-driven projects regardless of recent volume. The ideal pick still matters " +
		"in five years.",
	domain.PersonaAesthete: "Favor collections whose value case is the artwork itself: " +
		"generative systems, strong visual identity, curatorial significance. Market " +
		"metrics are secondary. Penalize derivative profile-picture projects with no " +
		"artistic thesis.",
	domain.PersonaConnector: "Favor collections known for active communities, holder perks " +
		"and collective identity, where owning one is a membership card. Penalize " +
		"collections that are purely financial instruments with anonymous holder bases.",
}

// Lookup returns the descriptor for a persona and whether it exists.
func Lookup(p domain.Persona) (domain.PersonaDescriptor, bool) {
	d, ok := descriptors[p]
	return d, ok
}

// All returns the persona descriptors in a stable order.
func All() []domain.PersonaDescriptor {
	return []domain.PersonaDescriptor{
		descriptors[domain.PersonaDegen],
		descriptors[domain.PersonaWhale],
		descriptors[domain.PersonaAesthete],
		descriptors[domain.PersonaConnector],
	}
}
