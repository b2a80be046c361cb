package main

// SkinDef describes one cosmetic ship skin. Skins never affect gameplay.
type SkinDef struct {
	ID          string
	Name        string
	Description string
}

var Skins = []SkinDef{
	{"blue", "Interceptor Blue", "Standard issue port-side hull"},
	{"red", "Raider Red", "Standard issue starboard hull"},
	{"gold", "Solar Gold", "Gilded plating for seasoned pilots"},
	{"violet", "Nebula Violet", "Deep-space camouflage"},
	{"chrome", "Chrome Mirror", "Polished to a meteorite shine"},
	{"stealth", "Void Stealth", "Barely visible against the starfield"},
}

// DefaultSkinFor returns the starting skin for a seat
func DefaultSkinFor(playerID int) string {
	if playerID == 2 {
		return "red"
	}
	return "blue"
}

// ValidSkin reports whether the skin ID is in the catalog
func ValidSkin(id string) bool {
	for _, s := range Skins {
		if s.ID == id {
			return true
		}
	}
	return false
}
