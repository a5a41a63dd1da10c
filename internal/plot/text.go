package plot

import "strings"

var texReplacer = strings.NewReplacer(
	`\dot{\omega}`, "ω'",
	`\dot{\theta}`, "θ'",
	`\frac{g}{l}`, "g/l",
	`\omega`, "ω",
	`\theta`, "θ",
	`\gamma`, "γ",
	`_{A}`, "_A",
)

// PlainText rewrites the TeX fragments used in labels for canvases that
// can only print plain text.
func PlainText(s string) string {
	return texReplacer.Replace(s)
}
