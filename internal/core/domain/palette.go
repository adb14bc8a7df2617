package domain

// DefaultPalette is the fixed series palette
var DefaultPalette = []string{"blue", "red", "green", "orange", "purple", "brown", "black"}

// ColorFor returns palette[i mod len(palette)].
// An empty palette falls back to DefaultPalette.
func ColorFor(palette []string, i int) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}
