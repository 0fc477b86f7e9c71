package prompt

import "github.com/serplab/rankforensics/internal/domain/analysis"

// Persona tone profiles. These change phrasing register only; the factual
// constraints in the system prompt are identical for all three.
var personaTones = map[analysis.Persona]string{
	analysis.PersonaPanicPatty: `Tone profile "Panic Patty": the account manager you are writing for is anxious and reassurance-seeking. Lead with what is under control, keep sentences short, and spell out the next step explicitly. Avoid jargon.`,

	analysis.PersonaTechnicalTom: `Tone profile "Technical Tom": the account manager is an experienced SEO. Be precise and data-forward, reference SERP features and crawl/index mechanics by name, and skip pleasantries.`,

	analysis.PersonaGhostGary: `Tone profile "Ghost Gary": the account manager is terse and hard to reach. Keep the draft email short enough to read on a phone, front-load the verdict, and make any required action a single bullet.`,
}

// ToneFor returns the tone block for a persona. Unknown personas fall back to
// a neutral register; persona validity is enforced at the request boundary.
func ToneFor(p analysis.Persona) string {
	if tone, ok := personaTones[p]; ok {
		return tone
	}
	return "Tone profile: neutral, professional register."
}
