package pricing

import "fmt"

// MainCategory is the first level of the work classification.
type MainCategory string

// SubCategory is the second level of the work classification.
type SubCategory string

const (
	CivilWorks  MainCategory = "civil_works"
	Electrical  MainCategory = "electrical"
	Mechanical  MainCategory = "mechanical"
	Plumbing    MainCategory = "plumbing"
	HVAC        MainCategory = "hvac"
	FireSafety  MainCategory = "fire_safety"
	Security    MainCategory = "security"
	Finishing   MainCategory = "finishing"
	Landscaping MainCategory = "landscaping"
	Other       MainCategory = "other"
)

// Custom is the fallback sub-category for unknown main categories.
const Custom SubCategory = "custom"

// MainCategories lists the main categories in display order.
var MainCategories = []MainCategory{
	CivilWorks, Electrical, Mechanical, Plumbing, HVAC,
	FireSafety, Security, Finishing, Landscaping, Other,
}

// The first entry of each list is the default sub-category.
var subCategories = map[MainCategory][]SubCategory{
	CivilWorks:  {"excavation", "concrete", "masonry", "reinforcement", "formwork", "waterproofing"},
	Electrical:  {"wiring", "lighting", "panels", "cabling", "earthing", "switches_sockets"},
	Mechanical:  {"equipment", "piping", "pumps", "ventilation", "lifts"},
	Plumbing:    {"water_supply", "drainage", "sanitary_fixtures", "water_tanks"},
	HVAC:        {"ducting", "chillers", "air_handling", "split_units", "controls"},
	FireSafety:  {"sprinklers", "fire_alarm", "extinguishers", "hydrants"},
	Security:    {"cctv", "access_control", "intrusion_alarm", "intercom"},
	Finishing:   {"painting", "flooring", "false_ceiling", "tiling", "joinery"},
	Landscaping: {"softscape", "hardscape", "irrigation"},
	Other:       {Custom},
}

var labels = map[string]string{
	string(CivilWorks):  "Civil Works",
	string(Electrical):  "Electrical",
	string(Mechanical):  "Mechanical",
	string(Plumbing):    "Plumbing",
	string(HVAC):        "HVAC",
	string(FireSafety):  "Fire Safety",
	string(Security):    "Security",
	string(Finishing):   "Finishing",
	string(Landscaping): "Landscaping",
	string(Other):       "Other",

	"excavation":    "Excavation",
	"concrete":      "Concrete",
	"masonry":       "Masonry",
	"reinforcement": "Reinforcement",
	"formwork":      "Formwork",
	"waterproofing": "Waterproofing",

	"wiring":           "Wiring",
	"lighting":         "Lighting",
	"panels":           "Panels & Distribution",
	"cabling":          "Cabling",
	"earthing":         "Earthing",
	"switches_sockets": "Switches & Sockets",

	"equipment":   "Equipment",
	"piping":      "Piping",
	"pumps":       "Pumps",
	"ventilation": "Ventilation",
	"lifts":       "Lifts & Escalators",

	"water_supply":      "Water Supply",
	"drainage":          "Drainage",
	"sanitary_fixtures": "Sanitary Fixtures",
	"water_tanks":       "Water Tanks",

	"ducting":      "Ducting",
	"chillers":     "Chillers",
	"air_handling": "Air Handling Units",
	"split_units":  "Split Units",
	"controls":     "Controls",

	"sprinklers":    "Sprinklers",
	"fire_alarm":    "Fire Alarm",
	"extinguishers": "Extinguishers",
	"hydrants":      "Hydrants",

	"cctv":            "CCTV",
	"access_control":  "Access Control",
	"intrusion_alarm": "Intrusion Alarm",
	"intercom":        "Intercom",

	"painting":      "Painting",
	"flooring":      "Flooring",
	"false_ceiling": "False Ceiling",
	"tiling":        "Tiling",
	"joinery":       "Joinery",

	"softscape":  "Softscape",
	"hardscape":  "Hardscape",
	"irrigation": "Irrigation",

	string(Custom): "Custom",
}

// DefaultSubCategory returns the sub-category a line item gets when its main
// category is set. Unknown main categories map to Custom.
func DefaultSubCategory(main MainCategory) SubCategory {
	subs, ok := subCategories[main]
	if !ok || len(subs) == 0 {
		return Custom
	}
	return subs[0]
}

// SubCategoriesFor returns the allowed sub-categories of a main category in
// display order. The returned slice is a copy.
func SubCategoriesFor(main MainCategory) []SubCategory {
	subs, ok := subCategories[main]
	if !ok {
		return []SubCategory{Custom}
	}
	out := make([]SubCategory, len(subs))
	copy(out, subs)
	return out
}

// IsMainCategory reports whether main is one of the fixed main categories.
func IsMainCategory(main MainCategory) bool {
	_, ok := subCategories[main]
	return ok
}

// BelongsTo reports whether sub is in the allowed set of main.
func BelongsTo(main MainCategory, sub SubCategory) bool {
	for _, s := range SubCategoriesFor(main) {
		if s == sub {
			return true
		}
	}
	return false
}

// Label returns the display label of a main or sub-category code. Unknown
// codes are returned unchanged.
func Label(code string) string {
	if l, ok := labels[code]; ok {
		return l
	}
	return code
}

// CategoryString builds the combined "Main/Sub" display string.
func CategoryString(main MainCategory, sub SubCategory) string {
	return fmt.Sprintf("%s/%s", Label(string(main)), Label(string(sub)))
}
