package ethiocal

// DefaultLanguage is used for any language code without a month table.
const DefaultLanguage = "en"

var monthNames = map[string][Pagume]string{
	"en": {
		"Meskerem", "Tikimt", "Hidar", "Tahsas", "Tir", "Yekatit", "Megabit",
		"Miazia", "Ginbot", "Sene", "Hamle", "Nehase", "Pagume",
	},
	"am": {
		"መስከረም", "ጥቅምት", "ኅዳር", "ታኅሣሥ", "ጥር", "የካቲት", "መጋቢት",
		"ሚያዝያ", "ግንቦት", "ሰኔ", "ሐምሌ", "ነሐሴ", "ጳጉሜን",
	},
}

// MonthName returns the name of Ethiopian month (1-13) in language, falling
// back to English. Months outside 1-13 yield "".
func MonthName(month int, language string) string {
	names, ok := monthNames[language]
	if !ok {
		names = monthNames[DefaultLanguage]
	}
	// Convert never produces these; kept as a bounds check.
	if month < 1 || month > Pagume {
		return ""
	}
	return names[month-1]
}

// Languages returns the language codes that have their own month table.
func Languages() []string {
	return []string{"en", "am"}
}

// HasMonthTable reports whether language has its own month names.
func HasMonthTable(language string) bool {
	_, ok := monthNames[language]
	return ok
}
