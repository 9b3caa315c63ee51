package dto

import "fmt"

// PublishBookRequest HTTP上架请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
type PublishBookRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Cien años de soledad"`
	Author      string `json:"author" binding:"max=100" example:"Gabriel García Márquez"`
	Genre       string `json:"genre" binding:"max=50" example:"novela"`
	Publisher   string `json:"publisher" binding:"max=100" example:"Sudamericana"`
	PublishedAt string `json:"published_at" binding:"omitempty" example:"1967-05-30"`
	Price       int64  `json:"price" binding:"min=0,max=99999999" example:"3500"` // 价格(分),35.00元
}

// UpdateBookRequest HTTP更新图书请求
// 空字段表示不修改,price缺省表示不改价
type UpdateBookRequest struct {
	Title     string `json:"title" binding:"omitempty,max=200"`
	Author    string `json:"author" binding:"omitempty,max=100"`
	Genre     string `json:"genre" binding:"omitempty,max=50"`
	Publisher string `json:"publisher" binding:"omitempty,max=100"`
	Price     *int64 `json:"price" binding:"omitempty,min=0,max=99999999"`
}

// BookResponse HTTP图书响应
// 用于单个图书详情返回
type BookResponse struct {
	ID          uint   `json:"id" example:"1"`
	Title       string `json:"title" example:"Cien años de soledad"`
	Author      string `json:"author" example:"Gabriel García Márquez"`
	Genre       string `json:"genre" example:"novela"`
	Publisher   string `json:"publisher" example:"Sudamericana"`
	PublishedAt string `json:"published_at" example:"1967-05-30"`
	Price       int64  `json:"price" example:"3500"`       // 价格(分)
	PriceYuan   string `json:"price_yuan" example:"35.00"` // 价格(元),方便前端显示
	OwnerID     uint   `json:"owner_id" example:"1"`
	Status      string `json:"status" example:"available"`
	CreatedAt   string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// BookListItem HTTP图书列表项
type BookListItem struct {
	ID        uint   `json:"id" example:"1"`
	Title     string `json:"title" example:"Cien años de soledad"`
	Author    string `json:"author" example:"Gabriel García Márquez"`
	Genre     string `json:"genre" example:"novela"`
	Publisher string `json:"publisher" example:"Sudamericana"`
	Price     int64  `json:"price" example:"3500"`
	PriceYuan string `json:"price_yuan" example:"35.00"`
	OwnerID   uint   `json:"owner_id" example:"1"`
	Status    string `json:"status" example:"available"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"soledad"`
	Genre    string `form:"genre" binding:"omitempty,max=50" example:"novela"`
	OwnerID  uint   `form:"owner_id" binding:"omitempty" example:"1"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc" example:"created_at_desc"`
}

// ListBooksResponse HTTP图书列表响应
type ListBooksResponse struct {
	List  []BookListItem `json:"list"`
	Total int64          `json:"total" example:"100"`
	Page  int            `json:"page" example:"1"`
	Size  int            `json:"size" example:"20"`
}

// FormatPriceYuan 格式化价格(分→元)
// 例如:3500分 → "35.00"
func FormatPriceYuan(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
