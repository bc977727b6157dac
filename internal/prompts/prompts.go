package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxFreeTextLen = 500

// Sanitize makes user free text safe to interpolate into a prompt template:
// control characters go away, whitespace collapses, backticks are stripped,
// and the result is capped so a hostile input cannot balloon the prompt.
func Sanitize(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	lastSpace := false
	for _, r := range input {
		switch {
		case r == '`':
			continue
		case r == '\n' || r == '\r' || r == '\t' || r == ' ':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		case r < 0x20 || r == 0x7f:
			continue
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	out := strings.TrimSpace(b.String())
	if len(out) > maxFreeTextLen {
		// cut on a rune boundary so multi-byte text is never split
		cut := maxFreeTextLen
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}

// BeginnerPlantingPlan asks for a step-by-step plan a first-season farmer can follow.
func BeginnerPlantingPlan(crop, soil, weather string) string {
	return fmt.Sprintf(
		"You are an agriculture expert helping a beginner farmer in India. "+
			"Create a simple step-by-step planting plan for %s on %s soil under %s conditions. "+
			"Use short sections with headings and bullet points. Cover land preparation, sowing, "+
			"irrigation, fertilizer schedule, and harvest timing. Keep the language simple.",
		Sanitize(crop), Sanitize(soil), Sanitize(weather))
}

// CropIntelligence asks for a compact agronomy profile of one crop.
func CropIntelligence(crop string) string {
	return fmt.Sprintf(
		"Provide a concise agronomy profile for %s grown in India: ideal season, soil and water "+
			"needs, common pests and diseases with prevention, and expected duration to harvest. "+
			"Use headings and bullet points.",
		Sanitize(crop))
}

// CropIntelligenceWithProfile is CropIntelligence anchored to the catalog's
// known facts about the crop, so the answer stays consistent with what the
// app already shows.
func CropIntelligenceWithProfile(crop, season, duration string, pests []string) string {
	clean := make([]string, 0, len(pests))
	for _, p := range pests {
		if s := Sanitize(p); s != "" {
			clean = append(clean, s)
		}
	}
	pestList := "none recorded"
	if len(clean) > 0 {
		pestList = strings.Join(clean, ", ")
	}
	return fmt.Sprintf(
		"Provide a concise agronomy profile for %s grown in India. Known facts: growing season %s, "+
			"duration to harvest %s, common pests: %s. Stay consistent with these facts and expand on "+
			"soil and water needs, pest prevention, and harvest handling. Use headings and bullet points.",
		Sanitize(crop), Sanitize(season), Sanitize(duration), pestList)
}

// SoilHealthAnalysis asks for an interpretation of an NPK/pH soil test.
func SoilHealthAnalysis(nitrogen, phosphorus, potassium, ph float64, location string) string {
	return fmt.Sprintf(
		"Analyze this soil test from %s: Nitrogen %.2f kg/ha, Phosphorus %.2f kg/ha, "+
			"Potassium %.2f kg/ha, pH %.2f. Explain what the values mean, flag deficiencies, "+
			"recommend amendments and suitable crops. Use headings and bullet points.",
		Sanitize(location), nitrogen, phosphorus, potassium, ph)
}

// CropAdvisory answers a free-form farming question.
func CropAdvisory(question string) string {
	return fmt.Sprintf(
		"You are a farming advisor for Indian smallholders. Answer the following question with "+
			"practical, low-cost advice. Use headings and bullet points where helpful. Question: %s",
		Sanitize(question))
}

// MarketInsights asks for current mandi price trends; meant for grounded completion.
func MarketInsights(cropOrRegion string) string {
	return fmt.Sprintf(
		"Summarize current market and mandi price trends in India for %s. Include recent price "+
			"movement, demand outlook, and selling advice for farmers. Use headings and bullet points.",
		Sanitize(cropOrRegion))
}

// WeatherAlert asks for near-term weather risks; meant for grounded completion.
func WeatherAlert(location string) string {
	return fmt.Sprintf(
		"Give a short farming weather alert for %s, India for the next few days: rainfall, "+
			"temperature extremes, wind, and what field work to do or avoid. Use bullet points.",
		Sanitize(location))
}

// CropHealthVision is the fixed instruction paired with a field photo.
func CropHealthVision() string {
	return "Identify the plant and any disease visible in this photo. " +
		"Provide a Risk Score (Low/Medium/High) and a treatment plan. " +
		"Use headings and bullet points."
}
