package dto

// 订单相关DTO
// 说明:订单对外字段沿用历史契约的西语命名
// (libros_ids/comprador/vendedor/direccion_envio/estado),不要改动

// CreateOrderRequest HTTP下单请求
type CreateOrderRequest struct {
	BookIDs         []uint `json:"libros_ids" binding:"required,min=1"`
	ShippingAddress string `json:"direccion_envio" binding:"required,max=500"`
}

// UpdateOrderStatusRequest HTTP状态流转请求
type UpdateOrderStatusRequest struct {
	Status string `json:"estado" binding:"required" example:"cancelado"`
}

// OrderResponse HTTP订单响应
type OrderResponse struct {
	OrderID         uint   `json:"order_id" example:"1"`
	OrderNo         string `json:"order_no" example:"ORD1699248000123456"`
	BuyerID         uint   `json:"comprador" example:"1"`
	SellerID        uint   `json:"vendedor" example:"2"`
	BookIDs         []uint `json:"libros_ids"`
	ShippingAddress string `json:"direccion_envio" example:"Calle Mayor 1, Madrid"`
	Total           int64  `json:"total" example:"4000"`
	TotalFormatted  string `json:"total_formateado" example:"40.00"`
	Status          string `json:"estado" example:"en_progreso"`
	CreatedAt       string `json:"created_at" example:"2024-11-06 10:30:00"`
	UpdatedAt       string `json:"updated_at" example:"2024-11-06 10:30:00"`
}

// ListOrdersRequest HTTP订单列表请求
type ListOrdersRequest struct {
	Status   string `form:"estado" binding:"omitempty" example:"en_progreso"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// DeleteOrderResponse HTTP删除确认响应
type DeleteOrderResponse struct {
	OrderID uint   `json:"order_id" example:"1"`
	OrderNo string `json:"order_no" example:"ORD1699248000123456"`
	Status  string `json:"estado" example:"cancelado"`
	Message string `json:"mensaje" example:"orden cancelada"`
}
