package contract

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"tuneport/model"
)

// Licensor royalty share printed into the contract.
const royaltyPercent = "90%"

// Data is everything the contract is derived from. The generated document is
// a deterministic function of Data plus the generator's clock. It is never
// persisted standalone and is regenerated whenever an input changes.
type Data struct {
	Requisites       model.ContractRequisites
	ReleaseDate      string
	Tracks           []model.Track
	CoverURL         string
	SignatureDataURL string // optional; omitted from the document when empty
}

// Generator renders contract HTML by template substitution. The wall clock is
// injected so tests can pin the contract number and execution date.
type Generator struct {
	clock func() time.Time

	mu       sync.RWMutex
	template string
}

// NewGenerator returns a generator over the embedded template.
func NewGenerator() *Generator {
	return &Generator{
		clock:    time.Now,
		template: defaultTemplate,
	}
}

// NewGeneratorWithClock pins the generator's clock. Used in tests.
func NewGeneratorWithClock(clock func() time.Time) *Generator {
	g := NewGenerator()
	g.clock = clock
	return g
}

// SetTemplate swaps the template, used by the override watcher.
func (g *Generator) SetTemplate(tmpl string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.template = tmpl
}

// Number derives a display contract number from the instant t: the fixed
// label prefix plus the last six digits of unix milliseconds. Unique enough
// for display; it is not a database key.
func Number(t time.Time) string {
	millis := fmt.Sprintf("%d", t.UnixMilli())
	return "420-" + millis[len(millis)-6:]
}

// executionDate is the contract execution date: t plus 14 days, dd.mm.yyyy.
func executionDate(t time.Time) string {
	return t.AddDate(0, 0, 14).Format("02.01.2006")
}

// Generate substitutes the collected data into the template and returns the
// contract HTML plus its derived number.
func (g *Generator) Generate(data Data) (string, string) {
	now := g.clock()
	number := Number(now)

	var rows strings.Builder
	for _, t := range data.Tracks {
		rows.WriteString("<tr>")
		rows.WriteString("<td>" + html.EscapeString(t.Title) + "</td>")
		rows.WriteString("<td>" + html.EscapeString(t.AuthorLyrics) + "</td>")
		rows.WriteString("<td>" + html.EscapeString(t.Composer) + "</td>")
		rows.WriteString("<td>" + html.EscapeString(t.AuthorPhonogram) + "</td>")
		rows.WriteString("<td>" + html.EscapeString(t.AuthorMusic) + "</td>")
		rows.WriteString("<td>100%</td>")
		rows.WriteString("</tr>\n")
	}

	signatureHTML := ""
	if data.SignatureDataURL != "" {
		signatureHTML = fmt.Sprintf(`<img src="%s" alt="Подпись" class="signature-image" />`, data.SignatureDataURL)
	}

	req := data.Requisites
	bankDetails := strings.ReplaceAll(html.EscapeString(req.BankRequisites), "\n", "<br>")

	replacer := strings.NewReplacer(
		"{{номер_договора}}", number,
		"{{дата_заключения_договора}}", executionDate(now),
		"{{ФИО_ИП_полностью_кого}}", html.EscapeString(req.FullName),
		"{{ФИО_ИП_кратко}}", html.EscapeString(req.ShortName()),
		"{{graj}}", html.EscapeString(req.Citizenship),
		"{{PAS}}", html.EscapeString(req.PassportData),
		"{{NIK}}", html.EscapeString(req.StageName),
		"{{ИНН_SWIFT}}", html.EscapeString(req.InnSwift),
		"{{РЕКВИЗИТЫ_БАНК}}", bankDetails,
		"{{mail}}", html.EscapeString(req.Email),
		"{{procc}}", royaltyPercent,
		"{{img}}", data.CoverURL,
		"{{дата_релиза}}", html.EscapeString(data.ReleaseDate),
		"{{TRACKS_TABLE}}", rows.String(),
		"{{SIGNATURE_LICENSOR}}", signatureHTML,
	)

	g.mu.RLock()
	tmpl := g.template
	g.mu.RUnlock()

	return replacer.Replace(tmpl), number
}

// FileName returns the download artifact name for a contract document.
func FileName(number, ext string) string {
	return fmt.Sprintf("Договор_%s.%s", number, ext)
}
