package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl"))
	moneyPrinter  = message.NewPrinter(language.AmericanEnglish)
)

// formatMoney renders an amount in dollars with thousands separators.
func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("$%.2f", v)
}

type statusChangeData struct {
	ClaimNumber  string
	Policyholder string
	Address      string
	From         string
	To           string
	ClaimURL     string
}

type supplementData struct {
	ClaimNumber string
	Sequence    int
	Requested   string
	Approved    string
	Partial     bool
	ClaimURL    string
}

// render executes the HTML and text variants of one template pair.
func render(name string, data any) (html, text string, err error) {
	var hb, tb bytes.Buffer

	if err := htmlTemplates.ExecuteTemplate(&hb, name+".html.tmpl", data); err != nil {
		return "", "", fmt.Errorf("rendering %s html: %w", name, err)
	}

	if err := textTemplates.ExecuteTemplate(&tb, name+".txt.tmpl", data); err != nil {
		return "", "", fmt.Errorf("rendering %s text: %w", name, err)
	}

	return hb.String(), tb.String(), nil
}
