package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logger"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type VariantWriter interface {
	Upsert(ctx context.Context, variant domain.Variant) (*domain.Variant, error)
}

// CategoryWriter resolves a category name to a stored category, creating it when missing.
type CategoryWriter interface {
	Ensure(ctx context.Context, name string) (*domain.Category, error)
}

// Columns lists the CSV header the importer expects, in any order.
var Columns = []string{
	"product_key", "name", "price", "seller_phone", "category",
	"color", "size", "image_product", "image_detail", "image_cart", "stock",
}

// Result counts what one run wrote.
type Result struct {
	Products int
	Variants int
}

// CSVImporter reads catalog CSV files and upserts products with their variants.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	variants   VariantWriter
	categories CategoryWriter
	logger     *zap.Logger

	categoryIDs map[string]int64
}

func NewCSVImporter(r io.Reader, products ProductWriter, variants VariantWriter, categories CategoryWriter, log *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		variants:    variants,
		categories:  categories,
		logger:      logger.OrNop(log),
		categoryIDs: make(map[string]int64),
	}
}

type csvRow struct {
	line        int
	Key         string
	Name        string
	Price       string
	SellerPhone string
	Category    string
	Variant     *domain.Variant
}

type productGroup struct {
	head     csvRow
	variants []domain.Variant
}

// Run parses CSV rows and upserts products grouped by product key. Rows with an empty
// product_key continue the product above them.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index, err := headerIndex(headers)
	if err != nil {
		return res, err
	}

	var current *productGroup
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}

		row, err := parseRow(record, index, line)
		if err != nil {
			return res, err
		}
		if row == nil {
			continue
		}

		if row.Key != "" && (current == nil || row.Key != current.head.Key) {
			if current != nil {
				if err := i.save(ctx, current, &res); err != nil {
					return res, err
				}
			}
			current = &productGroup{head: *row}
		}
		if current == nil {
			return res, fmt.Errorf("row %d: variant row before any product_key", line)
		}
		if row.Variant != nil {
			current.variants = append(current.variants, *row.Variant)
		}
	}

	if current != nil {
		if err := i.save(ctx, current, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (i *CSVImporter) save(ctx context.Context, g *productGroup, res *Result) error {
	head := g.head
	if head.Name == "" {
		return fmt.Errorf("row %d: product %q has no name", head.line, head.Key)
	}
	price, err := decimal.NewFromString(head.Price)
	if err != nil || price.IsNegative() {
		return fmt.Errorf("row %d: invalid price %q for product %q", head.line, head.Price, head.Key)
	}

	p := domain.Product{
		Key:         head.Key,
		Name:        head.Name,
		Price:       price,
		SellerPhone: head.SellerPhone,
	}
	if head.Category != "" {
		id, err := i.categoryID(ctx, head.Category)
		if err != nil {
			return err
		}
		p.CategoryID = &id
	}

	saved, err := i.products.Upsert(ctx, p)
	if err != nil {
		return fmt.Errorf("upsert product %q: %w", head.Key, err)
	}
	res.Products++

	for _, v := range g.variants {
		v.ProductID = saved.ID
		if _, err := i.variants.Upsert(ctx, v); err != nil {
			return fmt.Errorf("upsert variant %s/%s of %q: %w", v.Color, v.Size, head.Key, err)
		}
		res.Variants++
	}
	i.logger.Debug("imported product", zap.String("key", head.Key), zap.Int64("id", saved.ID), zap.Int("variants", len(g.variants)))
	return nil
}

func (i *CSVImporter) categoryID(ctx context.Context, name string) (int64, error) {
	if id, ok := i.categoryIDs[name]; ok {
		return id, nil
	}
	c, err := i.categories.Ensure(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("ensure category %q: %w", name, err)
	}
	i.categoryIDs[name] = c.ID
	return c.ID, nil
}

func headerIndex(headers []string) (map[string]int, error) {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"product_key", "name", "price"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return idx, nil
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	row := &csvRow{
		line:        line,
		Key:         pick(record, index, "product_key"),
		Name:        pick(record, index, "name"),
		Price:       pick(record, index, "price"),
		SellerPhone: pick(record, index, "seller_phone"),
		Category:    pick(record, index, "category"),
	}

	color := pick(record, index, "color")
	size := pick(record, index, "size")
	stockStr := pick(record, index, "stock")
	if color != "" || size != "" || stockStr != "" {
		stock := 0
		if stockStr != "" {
			n, err := strconv.Atoi(stockStr)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("row %d: invalid stock %q", line, stockStr)
			}
			stock = n
		}
		row.Variant = &domain.Variant{
			Color:        color,
			Size:         size,
			ImageProduct: pick(record, index, "image_product"),
			ImageDetail:  pick(record, index, "image_detail"),
			ImageCart:    pick(record, index, "image_cart"),
			Stock:        stock,
		}
	}

	if row.Key == "" && row.Variant == nil {
		return nil, nil
	}
	return row, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
