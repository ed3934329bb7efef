package services

import (
	"lexiguard-backend/models"
	"lexiguard-backend/store"
)

// Built-in dataset served when the store is unreachable. Content reads must
// not fail outright just because the database is down.

var fallbackGuides = []models.Guide{
	{
		GuideID:     "ca-basic-en",
		State:       "CA",
		Language:    "en",
		Type:        models.GuideTypeBasic,
		LastUpdated: "2024-01-15",
		Content: models.GuideContent{
			Title:   "California Legal Rights Guide",
			Summary: "Essential rights during police interactions in California",
			Sections: []models.GuideSection{
				{
					Title:      "Right to Remain Silent",
					Content:    "You have the right to remain silent. You do not have to answer questions about where you are going, where you are traveling from, what you are doing, or where you live.",
					Importance: "critical",
				},
				{
					Title:      "Right to Refuse Searches",
					Content:    "You have the right to refuse to consent to a search of yourself, your car, or your home. Police may pat you down for weapons if they suspect you are armed and dangerous.",
					Importance: "critical",
				},
				{
					Title:      "Right to Leave",
					Content:    "You have the right to leave if you are not under arrest. Ask \"Am I free to go?\" If yes, you can leave calmly.",
					Importance: "important",
				},
			},
		},
	},
	{
		GuideID:     "ny-basic-en",
		State:       "NY",
		Language:    "en",
		Type:        models.GuideTypeBasic,
		LastUpdated: "2024-01-15",
		Content: models.GuideContent{
			Title:   "New York Legal Rights Guide",
			Summary: "Essential rights during police interactions in New York",
			Sections: []models.GuideSection{
				{
					Title:      "Stop and Frisk Laws",
					Content:    "Police may stop and frisk you if they have reasonable suspicion you are involved in criminal activity. You can ask \"What crime do you suspect me of?\"",
					Importance: "critical",
				},
				{
					Title:      "ID Requirements",
					Content:    "In New York, you are not required to carry ID or show it to police unless you are driving a vehicle.",
					Importance: "important",
				},
				{
					Title:      "Recording Rights",
					Content:    "You have the right to record police interactions in public spaces as long as you do not interfere with their duties.",
					Importance: "helpful",
				},
			},
		},
	},
}

var fallbackScripts = []models.Script{
	{
		ScriptID:           "traffic-stop-en",
		Scenario:           "traffic_stop",
		Language:           "en",
		StateApplicability: models.StringList{"ALL"},
		Content: models.ScriptContent{
			Title:     "Traffic Stop Script",
			Situation: "You have been pulled over by police during a traffic stop",
			DoSay: []string{
				"\"I am exercising my right to remain silent.\"",
				"\"I do not consent to any searches.\"",
				"\"Am I free to go?\"",
				"\"I would like to speak to a lawyer.\"",
			},
			DontSay: []string{
				"Don't admit to speeding or any violations",
				"Don't argue about the reason for the stop",
				"Don't reach for documents until asked",
				"Don't consent to vehicle searches",
			},
			KeyPoints: []string{
				"Keep hands visible at all times",
				"Remain calm and polite",
				"Ask before reaching for documents",
				"Remember you can refuse consent to search",
			},
		},
	},
	{
		ScriptID:           "consent-search-en",
		Scenario:           "consent_to_search",
		Language:           "en",
		StateApplicability: models.StringList{"ALL"},
		Content: models.ScriptContent{
			Title:     "Consent to Search Script",
			Situation: "Police are asking for permission to search you, your belongings, or your property",
			DoSay: []string{
				"\"I do not consent to any searches.\"",
				"\"I am exercising my constitutional rights.\"",
				"\"I want to speak to a lawyer before answering questions.\"",
				"\"Am I under arrest or am I free to go?\"",
			},
			DontSay: []string{
				"Don't say \"I have nothing to hide\"",
				"Don't give partial consent",
				"Don't physically resist",
				"Don't argue about your rights",
			},
			KeyPoints: []string{
				"Consent must be voluntary and can be withdrawn",
				"Police may search anyway with probable cause",
				"Clearly state your refusal to consent",
				"Document the interaction if possible",
			},
		},
	},
	{
		ScriptID:           "questioning-en",
		Scenario:           "questioning",
		Language:           "en",
		StateApplicability: models.StringList{"ALL"},
		Content: models.ScriptContent{
			Title:     "Police Questioning Script",
			Situation: "Police want to question you about a crime or incident",
			DoSay: []string{
				"\"I am invoking my right to remain silent.\"",
				"\"I want to speak to a lawyer.\"",
				"\"I do not wish to answer questions without my attorney present.\"",
				"\"Am I under arrest?\"",
			},
			DontSay: []string{
				"Don't try to explain your innocence",
				"Don't answer \"just a few questions\"",
				"Don't lie or provide false information",
				"Don't sign anything without a lawyer",
			},
			KeyPoints: []string{
				"You must clearly invoke your right to silence",
				"Anything you say can be used against you",
				"Police can lie during questioning",
				"Request a lawyer immediately",
			},
		},
	},
}

func filterFallbackGuides(f store.GuideFilter) []models.Guide {
	out := make([]models.Guide, 0, len(fallbackGuides))
	for _, g := range fallbackGuides {
		if f.State != "" && g.State != f.State {
			continue
		}
		if f.Language != "" && g.Language != f.Language {
			continue
		}
		if f.Type != "" && g.Type != f.Type {
			continue
		}
		out = append(out, g)
	}
	return out
}

func filterFallbackScripts(f store.ScriptFilter) []models.Script {
	out := make([]models.Script, 0, len(fallbackScripts))
	for _, s := range fallbackScripts {
		if f.Scenario != "" && s.Scenario != f.Scenario {
			continue
		}
		if f.Language != "" && s.Language != f.Language {
			continue
		}
		if f.State != "" && !s.StateApplicability.Contains("ALL") && !s.StateApplicability.Contains(f.State) {
			continue
		}
		out = append(out, s)
	}
	return out
}
