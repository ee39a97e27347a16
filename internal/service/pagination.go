package service

// Paging 默认与最大页大小
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPaging 与配置默认值一致
var DefaultPaging = Paging{DefaultSize: 6, MaxSize: 100}

// window 将 1 起始的页码换算为 offset/limit
func (p Paging) window(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = p.DefaultSize
	}
	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}
	return (page - 1) * size, size
}
