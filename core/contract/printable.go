package contract

import "strings"

// printableRewrites maps the portal's dark-theme declarations to print-safe
// equivalents. The token list is fixed: the legal document must stay legible
// when printed, so any styling change in the template must be mirrored here.
var printableRewrites = [][2]string{
	{"color: hsl(45, 95%, 90%)", "color: #000"},
	{"color: hsl(45, 100%, 60%)", "color: #000"},
	{"color: hsl(45, 100%, 70%)", "color: #222"},
	{"color: hsl(45, 30%, 50%)", "color: #666"},
	{"background: transparent", "background: #fff"},
	{"background: hsl(0, 0%, 8%)", "background: #fafafa"},
	{"background: hsl(0, 0%, 5%)", "background: #fff"},
	{"background: linear-gradient(to right, hsl(45, 30%, 20%) 0%, transparent 100%)", "background: linear-gradient(to right, #f8f8f8 0%, #fff 100%)"},
	{"background: hsl(45, 30%, 15%)", "background: #f5f5f5"},
	{"border: 1px solid hsl(45, 30%, 20%)", "border: 1px solid #ddd"},
	{"border-bottom: 3px double hsl(45, 100%, 60%)", "border-bottom: 3px double #000"},
	{"border-left: 4px solid hsl(45, 100%, 60%)", "border-left: 4px solid #333"},
	{"border-bottom: 1px solid hsl(45, 100%, 60%)", "border-bottom: 1px solid #000"},
	{"border-bottom: 2px solid hsl(45, 100%, 60%)", "border-bottom: 2px solid #000"},
	{"filter: brightness(0) saturate(100%) invert(83%) sepia(49%) saturate(1053%) hue-rotate(0deg) brightness(102%) contrast(101%);", "filter: none;"},
}

// PrintableHTML rewrites the dark-theme contract HTML into its light,
// print-safe form used for PDF rendering.
func PrintableHTML(darkHTML string) string {
	out := darkHTML
	for _, pair := range printableRewrites {
		out = strings.ReplaceAll(out, pair[0], pair[1])
	}
	return out
}
