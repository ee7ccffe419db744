package services

import "strings"

// knownSpecies is the local care table for common houseplants. Order matters:
// lookup walks the slice and returns the first match, so broader names must
// come after more specific ones.
var knownSpecies = []struct {
	Key  string
	Data CareData
}{
	{
		Key: "monstera",
		Data: CareData{
			CommonName:      "Swiss Cheese Plant",
			ScientificNames: []string{"Monstera deliciosa"},
			Family:          "Araceae",
			Genus:           "Monstera",
			LifeCycle:       "perennial",
			Watering:        "Water every 1-2 weeks, letting the top half of the soil dry out between waterings.",
			Sunlight:        []string{"bright indirect light"},
			CareTips: []string{
				"Provide a moss pole for the aerial roots to climb.",
				"Wipe the large leaves monthly so they can breathe.",
				"Repot every two years in spring.",
			},
			CommonProblems: []string{
				"No leaf fenestrations means the plant needs more light.",
				"Yellow lower leaves usually indicate overwatering.",
			},
		},
	},
	{
		Key: "ficus lyrata",
		Data: CareData{
			CommonName:      "Fiddle Leaf Fig",
			ScientificNames: []string{"Ficus lyrata"},
			Family:          "Moraceae",
			Genus:           "Ficus",
			LifeCycle:       "perennial",
			Watering:        "Water when the top 3cm of soil is dry, roughly weekly; never let it sit in water.",
			Sunlight:        []string{"bright indirect light", "some direct morning sun"},
			CareTips: []string{
				"Keep it away from drafts and heating vents.",
				"Do not move it once it has settled; it drops leaves when relocated.",
			},
			CommonProblems: []string{
				"Brown spots spreading from leaf edges point to inconsistent watering.",
				"Sudden leaf drop follows cold drafts or relocation.",
			},
		},
	},
	{
		Key: "sansevieria",
		Data: CareData{
			CommonName:      "Snake Plant",
			ScientificNames: []string{"Sansevieria trifasciata", "Dracaena trifasciata"},
			Family:          "Asparagaceae",
			Genus:           "Dracaena",
			LifeCycle:       "perennial",
			Watering:        "Water every 2-6 weeks; allow the soil to dry completely between waterings.",
			Sunlight:        []string{"low light", "bright indirect light"},
			CareTips: []string{
				"Use a free-draining cactus mix.",
				"Water even less in winter, roughly monthly.",
			},
			CommonProblems: []string{
				"Mushy leaves at the base mean root rot from overwatering.",
				"Wrinkled leaves mean it is finally time to water.",
			},
		},
	},
	{
		Key: "epipremnum",
		Data: CareData{
			CommonName:      "Pothos",
			ScientificNames: []string{"Epipremnum aureum"},
			Family:          "Araceae",
			Genus:           "Epipremnum",
			LifeCycle:       "perennial",
			Watering:        "Water when the top of the soil dries out, about once a week.",
			Sunlight:        []string{"low light", "medium indirect light"},
			CareTips: []string{
				"Trim leggy vines to keep the plant full.",
				"Cuttings root easily in water.",
			},
			CommonProblems: []string{
				"Pale leaves on variegated varieties mean too little light.",
				"Black stems indicate stem rot from soggy soil.",
			},
		},
	},
	{
		Key: "spathiphyllum",
		Data: CareData{
			CommonName:      "Peace Lily",
			ScientificNames: []string{"Spathiphyllum wallisii"},
			Family:          "Araceae",
			Genus:           "Spathiphyllum",
			LifeCycle:       "perennial",
			Watering:        "Keep the soil lightly moist; it droops dramatically when thirsty and recovers fast.",
			Sunlight:        []string{"low light", "medium indirect light"},
			CareTips: []string{
				"Use filtered water if your tap water is heavily chlorinated.",
				"Remove spent flowers at the base of the stalk.",
			},
			CommonProblems: []string{
				"Brown leaf tips come from dry air or mineral-heavy water.",
				"No flowers usually means not enough light.",
			},
		},
	},
	{
		Key: "chlorophytum",
		Data: CareData{
			CommonName:      "Spider Plant",
			ScientificNames: []string{"Chlorophytum comosum"},
			Family:          "Asparagaceae",
			Genus:           "Chlorophytum",
			LifeCycle:       "perennial",
			Watering:        "Water weekly in summer and every other week in winter.",
			Sunlight:        []string{"bright indirect light"},
			CareTips: []string{
				"Plantlets on runners can be potted up while still attached.",
				"Slightly root-bound plants produce more runners.",
			},
			CommonProblems: []string{
				"Brown tips are common with fluoridated tap water.",
			},
		},
	},
	{
		Key: "rosa",
		Data: CareData{
			CommonName:      "Rosa",
			ScientificNames: []string{"Rosa chinensis"},
			Family:          "Rosaceae",
			Genus:           "Rosa",
			LifeCycle:       "perennial",
			Watering:        "Water deeply when the top of the soil dries; miniature roses dislike drying out completely.",
			Sunlight:        []string{"full sun", "bright direct light"},
			CareTips: []string{
				"Give it the sunniest window you have, ideally 6 hours of direct light.",
				"Deadhead spent blooms to encourage reflowering.",
				"Move it outside in summer if possible.",
			},
			CommonProblems: []string{
				"Powdery mildew appears with poor air circulation.",
				"Spider mites thrive on indoor roses in dry air.",
				"Bud drop follows sudden temperature changes.",
			},
		},
	},
	{
		Key: "aloe",
		Data: CareData{
			CommonName:      "Aloe Vera",
			ScientificNames: []string{"Aloe barbadensis miller"},
			Family:          "Asphodelaceae",
			Genus:           "Aloe",
			LifeCycle:       "perennial",
			Watering:        "Water deeply but rarely, every 3 weeks or so; the soil must dry fully between waterings.",
			Sunlight:        []string{"bright direct light"},
			CareTips: []string{
				"Plant in a terracotta pot with succulent mix.",
				"Harvest outer leaves at the base when needed.",
			},
			CommonProblems: []string{
				"Thin, curled leaves mean underwatering.",
				"Brown mushy leaves mean rot from overwatering or cold.",
			},
		},
	},
}

// lookupKnownSpecies matches a name against the table, case-insensitively,
// with containment checked in both directions so "monstera deliciosa" hits
// the "monstera" entry and "rosa" hits "Rosa chinensis".
func lookupKnownSpecies(name string) (CareData, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return CareData{}, false
	}

	for _, entry := range knownSpecies {
		if strings.Contains(needle, entry.Key) || strings.Contains(entry.Key, needle) {
			return entry.Data, true
		}
		if matchesSpeciesNames(needle, entry.Data) {
			return entry.Data, true
		}
	}
	return CareData{}, false
}

func matchesSpeciesNames(needle string, data CareData) bool {
	common := strings.ToLower(data.CommonName)
	if strings.Contains(common, needle) || strings.Contains(needle, common) {
		return true
	}
	for _, sci := range data.ScientificNames {
		s := strings.ToLower(sci)
		if strings.Contains(s, needle) || strings.Contains(needle, s) {
			return true
		}
	}
	return false
}
