package constants

import "strings"

// GigApp identifies the delivery/rideshare platform an earnings screenshot
// came from.
type GigApp string

const (
	AppDoorDash  GigApp = "doordash"
	AppUberEats  GigApp = "ubereats"
	AppGrubhub   GigApp = "grubhub"
	AppInstacart GigApp = "instacart"
	AppUber      GigApp = "uber"
	AppLyft      GigApp = "lyft"
	AppShipt     GigApp = "shipt"
	AppSpark     GigApp = "spark"
	AppUnknown   GigApp = "unknown"
)

var allGigApps = []GigApp{
	AppDoorDash,
	AppUberEats,
	AppGrubhub,
	AppInstacart,
	AppUber,
	AppLyft,
	AppShipt,
	AppSpark,
	AppUnknown,
}

func GigAppsAsStrings() []string {
	result := make([]string, len(allGigApps))
	for i, a := range allGigApps {
		result[i] = string(a)
	}
	return result
}

// CanonicalizeApp maps a model-produced label to a known app. Unrecognized
// labels collapse to AppUnknown with ok=false.
func CanonicalizeApp(input string) (GigApp, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "_", "")

	synonyms := map[string]GigApp{
		"doordashdasher": AppDoorDash,
		"dasher":         AppDoorDash,
		"ubereatsdriver": AppUberEats,
		"postmates":      AppUberEats, // folded into Uber Eats
		"grubhubdriver":  AppGrubhub,
		"instacartshop":  AppInstacart,
		"walmartspark":   AppSpark,
	}
	if a, ok := synonyms[normalized]; ok {
		return a, true
	}

	for _, a := range allGigApps {
		if normalized == string(a) {
			return a, a != AppUnknown
		}
	}
	return AppUnknown, false
}
