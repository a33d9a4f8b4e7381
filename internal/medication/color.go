package medication

var palette = []string{
	"#e53935", "#d81b60", "#8e24aa", "#3949ab", "#1e88e5", "#00897b",
	"#43a047", "#f4511e", "#fb8c00", "#f6bf26", "#33b679", "#0b8043",
}

// ColorFor derives a stable display color from the medicine name, used when
// no color was stored. Same name, same color, every session.
func ColorFor(name string) string {
	var hash int32
	for _, r := range name {
		hash = int32(r) + (hash << 5) - hash
	}
	if hash < 0 {
		hash = -hash
	}
	return palette[int(hash)%len(palette)]
}

// DisplayColor returns the stored color, falling back to the derived one.
func DisplayColor(med *Medication) string {
	if med.Color != "" {
		return med.Color
	}
	return ColorFor(med.Name)
}
