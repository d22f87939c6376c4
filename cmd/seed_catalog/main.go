// seed_catalog genera el script SQL que carga en PostgreSQL el catálogo de la caja
// (insumos, recetas y operadores) a partir del mismo YAML que usa CATALOG_SOURCE=yaml.
//
// Uso: go run ./cmd/seed_catalog [-latin1] [-out ruta.sql] [config/catalog.yaml]
//
//	go run ./cmd/seed_catalog -hash <password>   imprime un hash bcrypt para operators.password_hash
//
// Por defecto escribe migrations/002_seed_catalog.sql en la raíz del módulo.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/cafe-pos/internal/infrastructure/yamlcatalog"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el YAML está en ISO-8859-1 (exportado desde planillas antiguas)")
	outPath := flag.String("out", "", "archivo SQL de salida")
	hash := flag.String("hash", "", "imprime el hash bcrypt de este password y termina")
	flag.Parse()

	if *hash != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(*hash), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Generar hash: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(h))
		return
	}

	yamlPath := filepath.Join("config", "catalog.yaml")
	if flag.NArg() > 0 {
		yamlPath = flag.Arg(0)
	}
	f, err := os.Open(yamlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir catálogo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cat, err := readCatalog(f, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Catálogo inválido: %v\n", err)
		os.Exit(1)
	}

	var buf bytes.Buffer
	stats, err := writeSeed(&buf, cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar SQL: %v\n", err)
		os.Exit(1)
	}

	if *outPath == "" {
		*outPath = filepath.Join(findModuleRoot(), "migrations", "002_seed_catalog.sql")
	}
	if err := os.WriteFile(*outPath, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir archivo: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d insumos, %d recetas, %d porciones, %d operadores\n",
		*outPath, stats.entries, stats.recipes, stats.servings, stats.operators)
}

// readCatalog decodifica desde ISO-8859-1 si hace falta y valida el documento.
func readCatalog(r io.Reader, latin1 bool) (*yamlcatalog.Catalog, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	return yamlcatalog.Parse(data)
}

type seedStats struct {
	entries, recipes, servings, operators int
}

// writeSeed escribe el SQL idempotente (ON CONFLICT) del catálogo. Los ingredientes de cada
// porción se reemplazan completos para que el orden quede igual al del YAML.
func writeSeed(w io.Writer, cat *yamlcatalog.Catalog) (seedStats, error) {
	var st seedStats
	ctx := context.Background()
	entries, err := cat.ListStockEntries(ctx)
	if err != nil {
		return st, err
	}
	recipes, err := cat.ListRecipes(ctx)
	if err != nil {
		return st, err
	}
	operators := cat.Operators()

	var b strings.Builder
	b.WriteString("-- Catálogo de la caja\n")
	b.WriteString("-- Generado con cmd/seed_catalog; no editar a mano.\n\n")
	b.WriteString("BEGIN;\n\n")

	if len(entries) > 0 {
		b.WriteString("-- 1. Insumos\n")
		b.WriteString("INSERT INTO stock_entries (id, name, category, unit, quantity, perishable, average_unit_cost, addon_price) VALUES\n")
		for i, e := range entries {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', %s, %t, %s, %s)%s\n",
				escapeSQL(e.ID), escapeSQL(e.Name), e.Category, escapeSQL(e.Unit),
				e.Quantity.String(), e.Perishable, e.AverageUnitCost.String(), e.AddonPrice.String(), sep(i, len(entries)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, unit = EXCLUDED.unit,\n")
		b.WriteString("  quantity = EXCLUDED.quantity, perishable = EXCLUDED.perishable,\n")
		b.WriteString("  average_unit_cost = EXCLUDED.average_unit_cost, addon_price = EXCLUDED.addon_price, active = TRUE, updated_at = now();\n\n")
		st.entries = len(entries)
	}

	if len(recipes) > 0 {
		b.WriteString("-- 2. Recetas, porciones e ingredientes\n")
	}
	for _, r := range recipes {
		fmt.Fprintf(&b, "INSERT INTO recipes (id, name, description) VALUES ('%s', '%s', %s)\n",
			escapeSQL(r.ID), escapeSQL(r.Name), nullable(r.Description))
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, active = TRUE;\n")
		for pos, s := range r.Servings {
			fmt.Fprintf(&b, "INSERT INTO servings (id, recipe_id, name, price, position) VALUES ('%s', '%s', '%s', %s, %d)\n",
				escapeSQL(s.ID), escapeSQL(r.ID), escapeSQL(s.Name), s.Price.String(), pos)
			b.WriteString("ON CONFLICT (id) DO UPDATE SET recipe_id = EXCLUDED.recipe_id, name = EXCLUDED.name,\n")
			b.WriteString("  price = EXCLUDED.price, position = EXCLUDED.position;\n")
			fmt.Fprintf(&b, "DELETE FROM serving_ingredients WHERE serving_id = '%s';\n", escapeSQL(s.ID))
			for i, ing := range s.Ingredients {
				fmt.Fprintf(&b, "INSERT INTO serving_ingredients (serving_id, position, stock_entry_id, quantity, unit) VALUES ('%s', %d, '%s', %s, '%s');\n",
					escapeSQL(s.ID), i, escapeSQL(ing.StockEntryID), ing.Quantity.String(), escapeSQL(ing.Unit))
			}
			st.servings++
		}
		b.WriteString("\n")
		st.recipes++
	}

	if len(operators) > 0 {
		b.WriteString("-- 3. Operadores\n")
		b.WriteString("INSERT INTO operators (id, email, password_hash, name, role, status) VALUES\n")
		for i, o := range operators {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', '%s', '%s')%s\n",
				escapeSQL(o.ID), escapeSQL(o.Email), escapeSQL(o.PasswordHash), escapeSQL(o.Name),
				escapeSQL(o.Role), escapeSQL(o.Status), sep(i, len(operators)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, password_hash = EXCLUDED.password_hash,\n")
		b.WriteString("  name = EXCLUDED.name, role = EXCLUDED.role, status = EXCLUDED.status, updated_at = now();\n\n")
		st.operators = len(operators)
	}

	b.WriteString("COMMIT;\n")
	_, err = io.WriteString(w, b.String())
	return st, err
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
