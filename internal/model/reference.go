package model

import (
	"strings"

	"gorm.io/gorm"
)

// Tag 标签（只读参考数据）
type Tag struct {
	ID    int64  `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(200);uniqueIndex;not null" json:"name" validate:"required,max=200"`
	Slug  string `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug" validate:"required,max=200"`
	Color string `gorm:"type:varchar(7);uniqueIndex;not null" json:"color" validate:"required,len=7,hexcolor"`
}

func (Tag) TableName() string { return "tags" }

// Ingredient 食材与计量单位（只读参考数据，来自种子文件）
type Ingredient struct {
	ID              int64  `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"type:varchar(200);not null;index:idx_ingredient_name;uniqueIndex:ux_ingredient_name_unit" json:"name" validate:"required,max=200"`
	MeasurementUnit string `gorm:"type:varchar(200);not null;uniqueIndex:ux_ingredient_name_unit" json:"measurement_unit" validate:"required,max=200"`
	// ux_ingredient_name_unit = (name, measurement_unit)

	// SearchName 小写名称，前缀搜索只查这一列；只写不读
	SearchName string `gorm:"->:false;<-;type:varchar(200);not null;default:'';index:idx_ingredient_search_name" json:"-"`
}

func (Ingredient) TableName() string { return "ingredients" }

// SearchKey 前缀搜索使用的规范形式。
// 大小写折叠在 Go 中完成，sqlite 的 LOWER() 只处理 ASCII
func SearchKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// BeforeSave 写入前同步 SearchName
func (i *Ingredient) BeforeSave(*gorm.DB) error {
	i.SearchName = SearchKey(i.Name)
	return nil
}
