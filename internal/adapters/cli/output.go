package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"parts-pos/internal/core"
	"parts-pos/internal/invoice"

	"github.com/shopspring/decimal"
)

// printer writes either indented JSON or aligned text tables.
type printer struct {
	format string
	w      io.Writer
}

func newPrinter(opts *RootOptions, w io.Writer) *printer {
	return &printer{format: opts.Format, w: w}
}

func (p *printer) json() bool { return p.format == "json" }

func (p *printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// amounts in tables carry grouping but no currency symbol
var tableMoney = invoice.Template{Locale: "en-US"}

func money(d decimal.Decimal) string {
	return invoice.FormatMoney(d, tableMoney)
}

func (p *printer) products(products []core.Product) error {
	if p.json() {
		return p.writeJSON(products)
	}
	if len(products) == 0 {
		_, err := fmt.Fprintln(p.w, "No products.")
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSKU\tNAME\tPRICE\tQTY\tMIN\tACTIVE\t")
	for _, pr := range products {
		flag := ""
		if pr.LowStock {
			flag = " LOW"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d%s\t%d\t%t\t\n",
			pr.ID, pr.SKU, pr.Name, money(pr.Price), pr.Quantity, flag, pr.MinStock, pr.Active)
	}
	return tw.Flush()
}

func (p *printer) sales(sales []core.Sale) error {
	if p.json() {
		return p.writeJSON(sales)
	}
	if len(sales) == 0 {
		_, err := fmt.Fprintln(p.w, "No sales.")
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tINVOICE\tDATE\tCUSTOMER\tPAYMENT\tTOTAL\t")
	for _, s := range sales {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			s.ID, s.InvoiceNumber, s.CreatedAt.Format("2006-01-02 15:04"), s.CustomerName, s.PaymentMethod, money(s.Total))
	}
	return tw.Flush()
}

func (p *printer) sale(s *core.Sale) error {
	if p.json() {
		return p.writeJSON(s)
	}
	fmt.Fprintf(p.w, "Invoice:  %s\n", s.InvoiceNumber)
	fmt.Fprintf(p.w, "Date:     %s\n", s.CreatedAt.Format("2006-01-02 15:04"))
	if s.CustomerName != "" {
		fmt.Fprintf(p.w, "Customer: %s\n", s.CustomerName)
	}
	if s.HasVehicle() {
		fmt.Fprintf(p.w, "Vehicle:  %s %s %s\n", s.VehicleMake, s.VehicleModel, s.VehicleRegistration)
	}
	fmt.Fprintf(p.w, "Payment:  %s\n\n", s.PaymentMethod)

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QTY\tPRODUCT\tPRICE\tSUBTOTAL\t")
	for _, item := range s.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", item.Quantity, item.ProductName, money(item.Price), money(item.Subtotal))
	}
	fmt.Fprintf(tw, "\t\tDiscount\t-%s\t\n", money(s.Discount))
	fmt.Fprintf(tw, "\t\tTax\t%s\t\n", money(s.Tax))
	fmt.Fprintf(tw, "\t\tTotal\t%s\t\n", money(s.Total))
	return tw.Flush()
}

func (p *printer) stats(st *core.DashboardStats) error {
	if p.json() {
		return p.writeJSON(st)
	}
	fmt.Fprintf(p.w, "Products:        %d\n", st.TotalProducts)
	fmt.Fprintf(p.w, "Low stock:       %d\n", st.LowStockCount)
	fmt.Fprintf(p.w, "Sales:           %d\n", st.TotalSales)
	fmt.Fprintf(p.w, "Revenue:         %s\n", money(st.TotalRevenue))
	if len(st.RecentSales) == 0 {
		return nil
	}
	fmt.Fprintln(p.w, "\nRecent sales:")
	return p.sales(st.RecentSales)
}
