package dashboard

import "strings"

// ResolveLocalizedValue selects the best translation for the locale and falls back to the
// supplied value. Region locales (`es-mx`) fall back to their base language (`es`).
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		if value, ok := values[candidate]; ok && value != "" {
			return value
		}
	}
	return fallback
}

// DisplayNameForLocale returns the display name for the locale.
func (d WidgetTypeDescriptor) DisplayNameForLocale(locale string) string {
	return ResolveLocalizedValue(d.DisplayNameLocalized, locale, d.DisplayName)
}

// DescriptionForLocale returns the localized description if available.
func (d WidgetTypeDescriptor) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(d.DescriptionLocalized, locale, d.Description)
}

// Localized returns a copy with display name and description resolved for the locale.
func (d WidgetTypeDescriptor) Localized(locale string) WidgetTypeDescriptor {
	out := cloneDescriptor(d)
	out.DisplayName = d.DisplayNameForLocale(locale)
	out.Description = d.DescriptionForLocale(locale)
	return out
}

func (d *WidgetTypeDescriptor) normalizeLocalizedFields() {
	d.DisplayNameLocalized = normalizeLocaleMap(d.DisplayNameLocalized)
	d.DescriptionLocalized = normalizeLocaleMap(d.DescriptionLocalized)
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}
