// Package i18n is a minimal translation lookup for the bot front-end.
// Untranslated keys fall back to the key itself so a missing entry
// degrades to something readable instead of an error.
package i18n

var tables = map[string]map[string]string{
	"en": {
		"start":           "Send a photo of your plant and I will suggest a diagnosis.\nCommands: /crops to pick a crop, /mode to switch online/offline.",
		"choose_crop":     "Which crop is this? Pick one:",
		"crop_selected":   "Got it. Now send a photo of the affected plant.",
		"need_crop":       "Please pick a crop first with /crops.",
		"analyzing":       "Photo received, analyzing...",
		"diagnosis":       "Diagnosis",
		"confidence":      "Confidence",
		"organic":         "Organic treatments",
		"chemical":        "Chemical treatments",
		"mode_online":     "Online analysis enabled.",
		"mode_offline":    "Offline analysis enabled.",
		"error":           "Something went wrong, please try again.",
		"unknown_command": "Unknown command.",
	},
	"hi": {
		"start":         "अपने पौधे की फोटो भेजें, मैं रोग का निदान सुझाऊंगा।\nकमांड: /crops फसल चुनने के लिए, /mode मोड बदलने के लिए।",
		"choose_crop":   "यह कौन सी फसल है? एक चुनें:",
		"crop_selected": "ठीक है। अब प्रभावित पौधे की फोटो भेजें।",
		"need_crop":     "पहले /crops से फसल चुनें।",
		"analyzing":     "फोटो मिल गई, विश्लेषण हो रहा है...",
		"diagnosis":     "निदान",
		"confidence":    "विश्वास",
		"organic":       "जैविक उपचार",
		"chemical":      "रासायनिक उपचार",
		"error":         "कुछ गलत हो गया, फिर से कोशिश करें।",
	},
	"sw": {
		"start":         "Tuma picha ya mmea wako nami nitapendekeza utambuzi.\nAmri: /crops kuchagua zao, /mode kubadilisha hali.",
		"choose_crop":   "Hili ni zao gani? Chagua moja:",
		"crop_selected": "Sawa. Sasa tuma picha ya mmea ulioathirika.",
		"need_crop":     "Tafadhali chagua zao kwanza kwa /crops.",
		"analyzing":     "Picha imepokelewa, inachambuliwa...",
		"diagnosis":     "Utambuzi",
		"confidence":    "Uhakika",
		"organic":       "Matibabu ya kikaboni",
		"chemical":      "Matibabu ya kemikali",
		"error":         "Hitilafu imetokea, jaribu tena.",
	},
}

// T resolves key for lang, falling back to English and then to the key
// itself.
func T(lang, key string) string {
	if tbl, ok := tables[lang]; ok {
		if s, ok := tbl[key]; ok {
			return s
		}
	}
	if s, ok := tables["en"][key]; ok {
		return s
	}
	return key
}
