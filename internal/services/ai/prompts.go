package ai

import "strings"

const roleLine = "Act as a professional chef. Generate a detailed recipe based on the following ingredients:"

const formatSection = `Provide the recipe in the following format:
1. Recipe Name
2. Ingredients (with quantities)
3. Step-by-Step Instructions
4. Serving Suggestions
5. Tips or Variations`

// BuildRecipePrompt builds the generation prompt. Ingredients are
// interpolated as given, without escaping. Empty ingredients still yield a
// well-formed prompt; callers decide whether generating makes sense.
func BuildRecipePrompt(ingredients string, pref DietaryPreference) string {
	var sb strings.Builder
	sb.WriteString(roleLine)
	sb.WriteString("\n\n")
	sb.WriteString("Ingredients: ")
	sb.WriteString(ingredients)
	sb.WriteString("\n\n")
	sb.WriteString("Dietary Preference: ")
	sb.WriteString(pref.String())
	sb.WriteString("\n\n")
	sb.WriteString(formatSection)
	sb.WriteString("\n")
	return sb.String()
}
