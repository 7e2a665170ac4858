package invoice

import (
	"strconv"
	"strings"

	"parts-pos/internal/core"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const walkInCustomer = "Walk-in Customer"

// Field is a labelled value.
type Field struct {
	Label string
	Value string
}

// Row is one line-item row, already formatted.
type Row struct {
	Quantity    string
	Description string
	UnitPrice   string
	Amount      string
}

// Layout is the fully formatted content of one invoice. Render draws it; nothing
// in it is computed beyond summing the stored line subtotals.
type Layout struct {
	Title         string
	InvoiceNumber string
	BusinessName  string
	BusinessLines []string
	Info          []Field
	Vehicle       []Field // empty when the sale has no vehicle details
	Columns       [4]string
	Rows          []Row
	Totals        []Field // subtotal, discount, tax, total; the last is the grand total
	Footer        string
}

// BuildLayout formats sale for printing. Totals come from the stored sale and
// its item subtotals and are not re-derived from prices.
func BuildLayout(sale *core.Sale, tmpl Template) Layout {
	m := newMoneyFormatter(tmpl)

	l := Layout{
		Title:         "INVOICE " + sale.InvoiceNumber,
		InvoiceNumber: sale.InvoiceNumber,
		BusinessName:  tmpl.BusinessName,
		BusinessLines: businessLines(tmpl),
		Columns:       [4]string{"Qty", "Description", "Unit Price", "Amount"},
		Footer:        tmpl.Footer,
	}

	customer := sale.CustomerName
	if customer == "" {
		customer = walkInCustomer
	}
	l.Info = []Field{
		{Label: "Date", Value: sale.CreatedAt.Format("2006-01-02 15:04")},
		{Label: "Customer", Value: customer},
	}
	if sale.CustomerEmail != "" {
		l.Info = append(l.Info, Field{Label: "Email", Value: sale.CustomerEmail})
	}
	l.Info = append(l.Info, Field{Label: "Payment", Value: cases.Title(language.English).String(sale.PaymentMethod)})

	if sale.HasVehicle() {
		l.Vehicle = vehicleFields(sale, m, tmpl.MileageUnit)
	}

	subtotal := decimal.Zero
	for _, item := range sale.Items {
		l.Rows = append(l.Rows, Row{
			Quantity:    m.printer.Sprint(number.Decimal(item.Quantity)),
			Description: item.ProductName,
			UnitPrice:   m.Format(item.Price),
			Amount:      m.Format(item.Subtotal),
		})
		subtotal = subtotal.Add(item.Subtotal)
	}

	l.Totals = []Field{
		{Label: "Subtotal", Value: m.Format(subtotal)},
		{Label: "Discount", Value: "-" + m.Format(sale.Discount)},
		{Label: "Tax", Value: m.Format(sale.Tax)},
		{Label: "Total", Value: m.Format(sale.Total)},
	}
	return l
}

func businessLines(tmpl Template) []string {
	lines := append([]string{}, tmpl.AddressLines...)
	var contact []string
	if tmpl.Phone != "" {
		contact = append(contact, "Tel: "+tmpl.Phone)
	}
	if tmpl.Email != "" {
		contact = append(contact, tmpl.Email)
	}
	if len(contact) > 0 {
		lines = append(lines, strings.Join(contact, "  |  "))
	}
	if tmpl.TaxID != "" {
		lines = append(lines, "Tax ID: "+tmpl.TaxID)
	}
	return lines
}

func vehicleFields(sale *core.Sale, m moneyFormatter, unit string) []Field {
	var fields []Field
	add := func(label, value string) {
		if value != "" {
			fields = append(fields, Field{Label: label, Value: value})
		}
	}
	add("Make", sale.VehicleMake)
	add("Model", sale.VehicleModel)
	add("Registration", sale.VehicleRegistration)
	if sale.VehicleMileage != nil {
		mileage := m.printer.Sprint(number.Decimal(*sale.VehicleMileage))
		if unit != "" {
			mileage += " " + unit
		}
		add("Mileage", mileage)
	}
	return fields
}

// moneyFormatter renders amounts with the template's currency symbol and the
// locale's digit grouping, always to two decimal places.
type moneyFormatter struct {
	printer *message.Printer
	symbol  string
	point   string // locale decimal separator
}

func newMoneyFormatter(tmpl Template) moneyFormatter {
	tag, err := language.Parse(tmpl.Locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	p := message.NewPrinter(tag)
	// 1.5 prints as digit, separator, digit in every locale.
	sample := []rune(p.Sprint(number.Decimal(1.5, number.Scale(1))))
	point := "."
	if len(sample) > 2 {
		point = string(sample[1 : len(sample)-1])
	}
	return moneyFormatter{printer: p, symbol: tmpl.CurrencySymbol, point: point}
}

// Format works from the decimal's fixed-point string; only the whole part goes
// through the locale printer for grouping.
func (m moneyFormatter) Format(d decimal.Decimal) string {
	d = d.Round(2)
	whole, cents, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = m.printer.Sprint(number.Decimal(n))
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + m.symbol + whole + m.point + cents
}

// FormatMoney formats d the way invoices print amounts for tmpl.
func FormatMoney(d decimal.Decimal, tmpl Template) string {
	return newMoneyFormatter(tmpl).Format(d)
}
