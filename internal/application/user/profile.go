package user

import (
	"context"

	"github.com/xiebiao/bookmarket/internal/domain/user"
)

// GetProfileUseCase 用户资料查询用例
// 设计说明:资料包含用户参与的订单ID列表(买家或卖家)
type GetProfileUseCase struct {
	userRepo user.Repository
}

// NewGetProfileUseCase 创建资料查询用例
func NewGetProfileUseCase(userRepo user.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: userRepo}
}

// ProfileResponse 用户资料DTO
type ProfileResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"nombre"`
	OrderIDs  []uint `json:"ordenes"`
	CreatedAt string `json:"created_at"`
}

// Execute 查询用户资料
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	orderIDs, err := uc.userRepo.ListOrderRefs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orderIDs == nil {
		orderIDs = []uint{}
	}

	return &ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		OrderIDs:  orderIDs,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
