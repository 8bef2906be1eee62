package leads

import "github.com/ranwtech/site/internal/i18n"

var serviceLabels = map[string][2]string{
	ServiceDirectorsOfficers:     {"דירקטורים ונושאי משרה", "Directors & Officers"},
	ServiceTravel:                {"נסיעות לחו״ל", "Travel insurance"},
	ServiceCyber:                 {"סייבר", "Cyber"},
	ServiceProfessionalLiability: {"אחריות מקצועית", "Professional liability"},
	ServiceClinicalTrial:         {"ניסוי קליני", "Clinical trial"},
}

// ServiceTypeLabel is the human label for the insurance category a lead asked about.
// An explicit free-text ServiceType without a key is shown as-is.
func ServiceTypeLabel(l *Lead, lang i18n.Lang) string {
	if l.ServiceType != "" && l.ServiceTypeKey == "" {
		return l.ServiceType
	}
	key := l.ServiceTypeKey
	if key == "" {
		key = l.ServiceType
	}
	if key == "" {
		return "-"
	}
	if key == ServiceOther {
		if l.ServiceTypeOther != "" {
			return l.ServiceTypeOther
		}
		return i18n.Pick(lang, "אחר", "Other")
	}
	if lbl, ok := serviceLabels[key]; ok {
		return i18n.Pick(lang, lbl[0], lbl[1])
	}
	if l.ServiceType != "" {
		return l.ServiceType
	}
	return key
}

// StatusLabel localizes a lead status.
func StatusLabel(s Status, lang i18n.Lang) string {
	if s == StatusHandled {
		return i18n.Pick(lang, "טופל", "Handled")
	}
	return i18n.Pick(lang, "חדש", "New")
}
