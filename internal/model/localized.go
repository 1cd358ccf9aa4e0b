package model

// Languages content is published in. English is always present.
var Languages = []string{"en", "am", "om", "ti"}

// Localized holds one text value per site language.
type Localized struct {
	EN string
	AM string
	OM string
	TI string
}

// Get returns the text for lang, or the English text when that
// translation is missing.
func (l Localized) Get(lang string) string {
	var v string
	switch lang {
	case "am":
		v = l.AM
	case "om":
		v = l.OM
	case "ti":
		v = l.TI
	}
	if v == "" {
		return l.EN
	}
	return v
}
