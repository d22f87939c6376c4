// Package cartstore implementa cart.Store sobre distintos almacenes clave-valor.
// Todos guardan la lista completa de líneas bajo una sola clave fija.
package cartstore

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
)

// DefaultKey clave del carrito de la caja.
const DefaultKey = "pos:cart"

// Formato persistido. Las cantidades y precios viajan como texto decimal.
type lineRecord struct {
	ID       string        `json:"id" msgpack:"id"`
	Quantity int           `json:"quantity" msgpack:"quantity"`
	Recipe   recipeRecord  `json:"recipe" msgpack:"recipe"`
	Serving  servingRecord `json:"serving" msgpack:"serving"`
	Addons   []addonRecord `json:"addons,omitempty" msgpack:"addons,omitempty"`
}

type recipeRecord struct {
	ID          string `json:"id" msgpack:"id"`
	Name        string `json:"name" msgpack:"name"`
	Description string `json:"description,omitempty" msgpack:"description,omitempty"`
}

type servingRecord struct {
	ID          string             `json:"id" msgpack:"id"`
	Name        string             `json:"name" msgpack:"name"`
	Price       string             `json:"price" msgpack:"price"`
	Ingredients []ingredientRecord `json:"ingredients,omitempty" msgpack:"ingredients,omitempty"`
}

type ingredientRecord struct {
	StockEntryID string `json:"stock_entry_id" msgpack:"stock_entry_id"`
	Quantity     string `json:"quantity" msgpack:"quantity"`
	Unit         string `json:"unit" msgpack:"unit"`
}

type addonRecord struct {
	StockEntryID string `json:"stock_entry_id" msgpack:"stock_entry_id"`
	Quantity     string `json:"quantity" msgpack:"quantity"`
	Unit         string `json:"unit" msgpack:"unit"`
	Category     string `json:"category,omitempty" msgpack:"category,omitempty"`
	UnitPrice    string `json:"unit_price" msgpack:"unit_price"`
}

// Codec serializa la lista de líneas. Decode es tolerante: descarta los registros que no
// se pueden leer y devuelve cuántos descartó; solo un documento ilegible completo es error
// (ErrCorruptCart).
type Codec interface {
	Encode(lines []entity.CartLine) ([]byte, error)
	Decode(data []byte) ([]entity.CartLine, int, error)
}

// JSONCodec formato del archivo local y de SQLite.
type JSONCodec struct{}

// MsgpackCodec formato compacto usado en Redis.
type MsgpackCodec struct{}

func (JSONCodec) Encode(lines []entity.CartLine) ([]byte, error) {
	return json.Marshal(toRecords(lines))
}

func (JSONCodec) Decode(data []byte) ([]entity.CartLine, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrCorruptCart, err)
	}
	return decodeEach(len(raw), func(i int, rec *lineRecord) error {
		return json.Unmarshal(raw[i], rec)
	})
}

func (MsgpackCodec) Encode(lines []entity.CartLine) ([]byte, error) {
	return msgpack.Marshal(toRecords(lines))
}

func (MsgpackCodec) Decode(data []byte) ([]entity.CartLine, int, error) {
	var raw []msgpack.RawMessage
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrCorruptCart, err)
	}
	return decodeEach(len(raw), func(i int, rec *lineRecord) error {
		return msgpack.Unmarshal(raw[i], rec)
	})
}

func decodeEach(n int, unmarshal func(i int, rec *lineRecord) error) ([]entity.CartLine, int, error) {
	lines := make([]entity.CartLine, 0, n)
	for i := 0; i < n; i++ {
		var rec lineRecord
		if err := unmarshal(i, &rec); err != nil {
			continue
		}
		line, err := rec.toEntity()
		if err != nil {
			continue
		}
		lines = append(lines, line)
	}
	return lines, n - len(lines), nil
}

func toRecords(lines []entity.CartLine) []lineRecord {
	out := make([]lineRecord, 0, len(lines))
	for _, l := range lines {
		rec := lineRecord{
			ID:       l.ID,
			Quantity: l.Quantity,
			Recipe:   recipeRecord{ID: l.Recipe.ID, Name: l.Recipe.Name, Description: l.Recipe.Description},
			Serving: servingRecord{
				ID:    l.Serving.ID,
				Name:  l.Serving.Name,
				Price: l.Serving.Price.String(),
			},
		}
		for _, ing := range l.Serving.Ingredients {
			rec.Serving.Ingredients = append(rec.Serving.Ingredients, ingredientRecord{
				StockEntryID: ing.StockEntryID,
				Quantity:     ing.Quantity.String(),
				Unit:         ing.Unit,
			})
		}
		for _, a := range l.Addons {
			rec.Addons = append(rec.Addons, addonRecord{
				StockEntryID: a.StockEntryID,
				Quantity:     a.Quantity.String(),
				Unit:         a.Unit,
				Category:     string(a.Category),
				UnitPrice:    a.UnitPrice.String(),
			})
		}
		out = append(out, rec)
	}
	return out
}

func (r lineRecord) toEntity() (entity.CartLine, error) {
	price, err := decimal.NewFromString(r.Serving.Price)
	if err != nil {
		return entity.CartLine{}, err
	}
	line := entity.CartLine{
		ID:       r.ID,
		Quantity: r.Quantity,
		Recipe:   entity.Recipe{ID: r.Recipe.ID, Name: r.Recipe.Name, Description: r.Recipe.Description},
		Serving:  entity.Serving{ID: r.Serving.ID, Name: r.Serving.Name, Price: price},
	}
	for _, ing := range r.Serving.Ingredients {
		q, err := decimal.NewFromString(ing.Quantity)
		if err != nil {
			return entity.CartLine{}, err
		}
		line.Serving.Ingredients = append(line.Serving.Ingredients, entity.RecipeIngredient{
			StockEntryID: ing.StockEntryID,
			Quantity:     q,
			Unit:         ing.Unit,
		})
	}
	for _, a := range r.Addons {
		q, err := decimal.NewFromString(a.Quantity)
		if err != nil {
			return entity.CartLine{}, err
		}
		up, err := decimal.NewFromString(a.UnitPrice)
		if err != nil {
			return entity.CartLine{}, err
		}
		line.Addons = append(line.Addons, entity.Addon{
			StockEntryID: a.StockEntryID,
			Quantity:     q,
			Unit:         a.Unit,
			Category:     entity.Category(a.Category),
			UnitPrice:    up,
		})
	}
	return line, nil
}
