package book

import (
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
)

// BookDetail 图书详情DTO
type BookDetail struct {
	ID              uint           `json:"id"`
	ISBN            string         `json:"isbn"`
	Title           string         `json:"title"`
	Author          string         `json:"author"`
	Publisher       string         `json:"publisher"`
	PublicationYear int            `json:"publication_year"`
	Genre           string         `json:"genre"`
	Summary         string         `json:"summary"`
	TotalCopies     int            `json:"total_copies"`
	AvailableCopies int            `json:"available_copies"`
	Status          string         `json:"status"`
	Categories      []CategoryRef  `json:"categories"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
}

// CategoryRef 图书所属分类的引用视图
type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// BookItem 图书列表项DTO(不含summary与分类,减少数据传输量)
type BookItem struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	Genre           string `json:"genre"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	Status          string `json:"status"`
}

// toBookDetail 领域实体 → 详情DTO
func toBookDetail(b *book.Book, categories []*category.Category) *BookDetail {
	refs := make([]CategoryRef, len(categories))
	for i, c := range categories {
		refs[i] = CategoryRef{ID: c.ID, Name: c.Name}
	}

	return &BookDetail{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		Genre:           b.Genre,
		Summary:         b.Summary,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Status:          string(b.Status),
		Categories:      refs,
		CreatedAt:       b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// toBookItems 领域实体列表 → 列表项DTO
func toBookItems(books []*book.Book) []BookItem {
	items := make([]BookItem, len(books))
	for i, b := range books {
		items[i] = BookItem{
			ID:              b.ID,
			ISBN:            b.ISBN,
			Title:           b.Title,
			Author:          b.Author,
			Publisher:       b.Publisher,
			PublicationYear: b.PublicationYear,
			Genre:           b.Genre,
			TotalCopies:     b.TotalCopies,
			AvailableCopies: b.AvailableCopies,
			Status:          string(b.Status),
		}
	}
	return items
}
