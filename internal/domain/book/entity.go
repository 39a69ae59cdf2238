package book

import (
	"time"
)

// Status 图书状态
// 说明:AVAILABLE/OUT_OF_STOCK随库存变化自动切换,
// DISCONTINUED/MAINTENANCE只能显式设置,库存变化不会覆盖
type Status string

const (
	StatusAvailable    Status = "AVAILABLE"    // 可借阅
	StatusOutOfStock   Status = "OUT_OF_STOCK" // 无可用副本
	StatusDiscontinued Status = "DISCONTINUED" // 已停止采购
	StatusMaintenance  Status = "MAINTENANCE"  // 维护中
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ISBN作为业务唯一标识(数据库层保证唯一性)
// 2. 馆藏计数不变量:0 ≤ AvailableCopies ≤ TotalCopies,
//    任何TotalCopies的调整都按差值传导到AvailableCopies并做区间夹取
// 3. 图书与分类是多对多关联,权威数据是关联边表,双向视图由查询派生
// 4. 图书使用物理删除(与分类的软删除语义刻意不同,不要统一)
type Book struct {
	ID              uint
	ISBN            string // ISBN号(国际标准书号)
	Title           string // 书名
	Author          string // 作者
	Publisher       string // 出版社(可选)
	PublicationYear int    // 出版年份(可选,0表示未知)
	Genre           string // 体裁(可选)
	Summary         string // 内容简介(可选)
	TotalCopies     int    // 馆藏总册数
	AvailableCopies int    // 可借册数
	Status          Status // 图书状态
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
// totalCopies为初始馆藏册数,可借册数初始化为同值,状态初始化为AVAILABLE
func NewBook(isbn, title, author, publisher string, publicationYear int, genre, summary string, totalCopies int) *Book {
	now := time.Now()
	return &Book{
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		Publisher:       publisher,
		PublicationYear: publicationYear,
		Genre:           genre,
		Summary:         summary,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		Status:          StatusAvailable,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ApplyTotalCopies 调整馆藏总册数(领域行为,馆藏计数一致性的核心)
// 业务规则:
// - delta = newTotal - 旧total,可借册数按delta传导
// - 结果夹取到[0, newTotal],保证不变量 0 ≤ available ≤ total
// - AVAILABLE与OUT_OF_STOCK之间随可借册数归零/恢复自动切换
func (b *Book) ApplyTotalCopies(newTotal int) error {
	if newTotal < 0 {
		return ErrNegativeCopies
	}

	delta := newTotal - b.TotalCopies
	b.TotalCopies = newTotal
	b.AvailableCopies = clamp(b.AvailableCopies+delta, 0, newTotal)
	b.refreshStockStatus()
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息(nil表示不修改)
func (b *Book) UpdateInfo(title, author, publisher *string, publicationYear *int, genre, summary *string) {
	if title != nil {
		b.Title = *title
	}
	if author != nil {
		b.Author = *author
	}
	if publisher != nil {
		b.Publisher = *publisher
	}
	if publicationYear != nil {
		b.PublicationYear = *publicationYear
	}
	if genre != nil {
		b.Genre = *genre
	}
	if summary != nil {
		b.Summary = *summary
	}
	b.UpdatedAt = time.Now()
}

// SetStatus 显式设置状态(如DISCONTINUED/MAINTENANCE)
func (b *Book) SetStatus(status Status) {
	b.Status = status
	b.UpdatedAt = time.Now()
}

// IsAvailable 是否可借(状态AVAILABLE且有可借册数)
func (b *Book) IsAvailable() bool {
	return b.Status == StatusAvailable && b.AvailableCopies > 0
}

// refreshStockStatus 按可借册数自动切换AVAILABLE/OUT_OF_STOCK
// DISCONTINUED/MAINTENANCE是人工状态,不被库存变化覆盖
func (b *Book) refreshStockStatus() {
	switch b.Status {
	case StatusAvailable:
		if b.AvailableCopies == 0 {
			b.Status = StatusOutOfStock
		}
	case StatusOutOfStock:
		if b.AvailableCopies > 0 {
			b.Status = StatusAvailable
		}
	}
}

// clamp 将v夹取到闭区间[lo, hi]
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
