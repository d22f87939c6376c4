// Package pdf genera el comprobante de venta de la caja.
//
// Layout de la página (ancho de rollo no estándar, se usa A5 vertical):
//
//	┌──────────────────────────────────────────┐
//	│  CAFÉ + N° orden          Fecha / Tipo    │
//	│  ──────────────────────────────────────  │
//	│  Cant | Producto + adicionales | Total   │
//	│  ──────────────────────────────────────  │
//	│  Subtotal / Descuento / TOTAL            │
//	│  QR con el ID de la orden + nota         │
//	└──────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/cafe-pos/internal/application/checkout"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 92, Green: 58, Blue: 33}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var orderTypeLabels = map[string]string{
	entity.OrderTypeDineIn:   "Para mesa",
	entity.OrderTypeTakeAway: "Para llevar",
	entity.OrderTypeDelivery: "Domicilio",
}

var _ checkout.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa checkout.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	shopName string
	printer  *message.Printer
}

// NewReceiptGenerator construye el generador. shopName encabeza el comprobante.
func NewReceiptGenerator(shopName string) *ReceiptGenerator {
	if shopName == "" {
		shopName = "Café"
	}
	return &ReceiptGenerator{shopName: shopName, printer: message.NewPrinter(language.Spanish)}
}

// GenerateReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceipt(order *entity.Order) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("pdf: orden nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante "+order.ID, true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(g.lineRows(order.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(order))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(order *entity.Order) core.Row {
	kind := orderTypeLabels[order.Type]
	if kind == "" {
		kind = order.Type
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.shopName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Orden "+shortID(order.ID), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(order.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 2}),
			text.New(kind, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 8}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(7).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 6, align.Left),
		h("Total", 4, align.Right),
	)
}

// lineRows una fila por línea; los adicionales van debajo del nombre.
func (g *ReceiptGenerator) lineRows(lines []entity.OrderLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		desc := l.RecipeName
		if l.ServingName != "" {
			desc += " " + l.ServingName
		}
		height := 6.0
		var extras []string
		for _, a := range l.Addons {
			extras = append(extras, fmt.Sprintf("+ %s %s %s", a.StockEntryID, a.Quantity.String(), a.Unit))
		}
		productCol := col.New(6).Add(text.New(desc, props.Text{Size: 8, Top: 1}))
		if len(extras) > 0 {
			height += 4
			productCol.Add(text.New(strings.Join(extras, ", "), props.Text{Size: 6.5, Top: 5, Color: colorGray}))
		}
		out = append(out, row.New(height).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			productCol,
			col.New(4).Add(text.New(g.money(l.Total), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return out
}

func (g *ReceiptGenerator) totalsRow(order *entity.Order) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right})
	}
	discount := order.Subtotal.Sub(order.Total)
	return row.New(18).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:"),
			text.New(fmt.Sprintf("Descuento (%s%%):", order.DiscountPct.String()), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 2, Top: 11, Color: colorPrimary}),
		),
		col.New(4).Add(
			value(g.money(order.Subtotal)),
			text.New("-"+g.money(discount), props.Text{Size: 9, Align: align.Right, Top: 5}),
			text.New(g.money(order.Total), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 11, Color: colorPrimary}),
		),
	)
}

func footerRow(order *entity.Order) core.Row {
	note := "Gracias por su compra"
	if order.Note != "" {
		note = "Nota: " + order.Note
	}
	return row.New(30).Add(
		col.New(4).Add(code.NewQr(order.ID, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New(note, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New(order.ID, props.Text{Size: 6, Top: 20, Left: 3, Color: colorGray}),
		),
	)
}

// money formatea pesos sin decimales con separador de miles local ("$24.840").
func (g *ReceiptGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%d", d.Round(0).IntPart())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
