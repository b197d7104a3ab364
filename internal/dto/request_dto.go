package dto

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LogoutRequest struct {
	Username string `json:"username" binding:"required"`
}

type CreateChildRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	ExamType string `json:"examType" binding:"required"`
	ParentID uint   `json:"parentId" binding:"required"`
}
