// Package seed 导入参考数据：默认标签与食材 CSV
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

const ingredientBatchSize = 500

// DefaultTags 初始标签
var DefaultTags = []model.Tag{
	{Name: "dinner", Slug: "dinner", Color: "#800080"},
	{Name: "lunch", Slug: "lunch", Color: "#008000"},
	{Name: "breakfast", Slug: "breakfast", Color: "#FF8C00"},
}

// Result 本次新增的行数（已存在的行不计）
type Result struct {
	Tags        int64
	Ingredients int64
}

var validate = validator.New()

// ReadIngredients 解析两列 CSV（name, measurement_unit），无表头；空行跳过，
// 文件内重复的 (name, unit) 只保留一次
func ReadIngredients(r io.Reader) ([]model.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var res []model.Ingredient
	seen := make(map[model.Ingredient]bool)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingredients csv: %w", err)
		}
		it := model.Ingredient{Name: strings.TrimSpace(rec[0]), MeasurementUnit: strings.TrimSpace(rec[1])}
		if err := validate.Struct(it); err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("ingredients csv line %d: %w", line, err)
		}
		if seen[it] {
			continue
		}
		seen[it] = true
		res = append(res, it)
	}
	return res, nil
}

// Run 写入默认标签与 path 指向的食材文件；可重复执行
func Run(ctx context.Context, store *repository.Store, path string) (Result, error) {
	var res Result

	for _, t := range DefaultTags {
		if err := validate.Struct(t); err != nil {
			return res, fmt.Errorf("default tag %q: %w", t.Slug, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("open ingredients file: %w", err)
	}
	defer f.Close()
	items, err := ReadIngredients(f)
	if err != nil {
		return res, err
	}

	err = store.Transaction(ctx, func(tx *repository.Store) error {
		tags := make([]model.Tag, len(DefaultTags))
		copy(tags, DefaultTags)
		n, err := tx.Tags.CreateMissing(ctx, tags)
		if err != nil {
			return fmt.Errorf("seed tags: %w", err)
		}
		res.Tags = n

		n, err = tx.Ingredients.CreateMissing(ctx, items, ingredientBatchSize)
		if err != nil {
			return fmt.Errorf("seed ingredients: %w", err)
		}
		res.Ingredients = n
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info("reference data seeded",
		zap.String("file", path),
		zap.Int("ingredients_in_file", len(items)),
		zap.Int64("tags_created", res.Tags),
		zap.Int64("ingredients_created", res.Ingredients),
	)
	return res, nil
}
