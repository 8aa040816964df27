// Package renderer renders portfolio reports as markdown and charts.
package renderer

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	md "github.com/nao1215/markdown"
)

// PortfolioMarkdown renders the portfolio definition and the latest known
// value of each holding, in its own currency.
func PortfolioMarkdown(p *networth.Portfolio) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(p.Name())
	if p.Description() != "" {
		paragraph(doc, p.Description())
	}
	paragraph(doc, fmt.Sprintf("Reporting currency: %s", p.Currency()))

	if p.Len() == 0 {
		paragraph(doc, "No holdings.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Name", "Category", "Subcategory", "Currency", "Since", "Units", "Value"},
		Rows:   [][]string{},
	}
	for h := range p.Holdings() {
		since, units, value := "-", "-", "-"
		if s, ok := h.Timeline().Latest(); ok {
			first := firstSnapshot(h)
			since, units, value = first.String(), s.Units().String(), s.Value().String()
		}
		table.Rows = append(table.Rows, []string{
			h.Name(),
			h.Category().String(),
			h.Subcategory().String(),
			h.Currency(),
			since,
			units,
			value,
		})
	}
	doc.Table(table)
	return doc.String()
}

// paragraph writes 'text' followed by an empty line, so that blocks written
// next are not merged into the paragraph.
func paragraph(doc *md.Markdown, text string) {
	doc.PlainText(text)
	doc.PlainText("")
}

func firstSnapshot(h *networth.Holding) date.Date {
	for s := range h.Timeline().Snapshots() {
		return s.On()
	}
	return date.Date{}
}

// HoldingMarkdown renders a holding, its timeline and its ledger.
func HoldingMarkdown(h *networth.Holding) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s (%s %s in %s)", h.Name(), h.Subcategory(), h.Category(), h.Currency()))
	if h.Description() != "" {
		paragraph(doc, h.Description())
	}

	doc.H2("Timeline")
	if h.Timeline().Len() == 0 {
		paragraph(doc, "No purchase yet.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Units", "Cost", "Value"},
		Rows:   [][]string{},
	}
	for s := range h.Timeline().Snapshots() {
		table.Rows = append(table.Rows, []string{
			s.On().String(),
			s.Units().String(),
			s.Cost().String(),
			s.Value().String(),
		})
	}
	doc.Table(table)

	doc.H2("Ledger")
	var txs []string
	for tx := range h.Ledger() {
		txs = append(txs, fmt.Sprintf("%s %s %s units at %s, fees %s", tx.Date, tx.Command, tx.Units, tx.Price, tx.Fees))
	}
	doc.OrderedList(txs...)
	return doc.String()
}

// BalanceMarkdown renders the balance of portfolio 'p' on day 'on'.
func BalanceMarkdown(p *networth.Portfolio, on date.Date, balance networth.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("%s balance on %s", p.Name(), on))
	paragraph(doc, md.Bold(balance.String()))
	return doc.String()
}

// BreakdownMarkdown renders the share of each subcategory on day 'on'.
//
// Rows follow the networth.Subcategories order.
func BreakdownMarkdown(p *networth.Portfolio, on date.Date, shares map[networth.Subcategory]networth.Percent) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("%s breakdown on %s", p.Name(), on))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Subcategory", "Share"},
		Rows:      [][]string{},
	}
	for _, sub := range sortedSubcategories(shares) {
		table.Rows = append(table.Rows, []string{sub.String(), shares[sub].String()})
	}
	doc.Table(table)
	return doc.String()
}

// sortedSubcategories returns the keys of 'shares' in the canonical order.
func sortedSubcategories(shares map[networth.Subcategory]networth.Percent) []networth.Subcategory {
	keys := make([]networth.Subcategory, 0, len(shares))
	for sub := range shares {
		keys = append(keys, sub)
	}
	slices.SortFunc(keys, func(a, b networth.Subcategory) int {
		return slices.Index(networth.Subcategories, a) - slices.Index(networth.Subcategories, b)
	})
	return keys
}

// SeriesMarkdown renders a balance history.
func SeriesMarkdown(p *networth.Portfolio, r date.Range, period date.Period, series []networth.BalancePoint) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("%s %s balance from %s to %s", p.Name(), period, r.From, r.To))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Balance", "Change"},
		Rows:      [][]string{},
	}
	var prev networth.Money
	for i, pt := range series {
		change := "-"
		if i > 0 {
			change = pt.Balance.Sub(prev).SignedString()
		}
		table.Rows = append(table.Rows, []string{pt.On.String(), pt.Balance.String(), change})
		prev = pt.Balance
	}
	doc.Table(table)
	return doc.String()
}
