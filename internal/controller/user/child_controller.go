package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/nkechi/Smartprep/internal/service"
	"github.com/rs/zerolog/log"
)

type ChildController struct {
	childService service.ChildService
}

func NewChildController(childService service.ChildService) *ChildController {
	return &ChildController{childService: childService}
}

// CreateChild godoc
// @Summary Create a child account under a parent
// @Tags Parent
// @Accept json
// @Produce json
// @Param child body dto.CreateChildRequest true "Child account details"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing fields or username taken"
// @Failure 404 {object} dto.ErrorResponse "Parent not found"
// @Router /parent/create-child [post]
func (c *ChildController) CreateChild(ctx *gin.Context) {
	var req dto.CreateChildRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "All fields are required", Details: []string{err.Error()}})
		return
	}

	child, err := c.childService.CreateChild(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Username already exists"})
		case errors.Is(err, service.ErrParentNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Parent not found"})
		default:
			log.Error().Err(err).Msg("CreateChild: Service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create child", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Child created successfully", "child": child})
}

// GetChildren godoc
// @Summary List a parent's children
// @Tags Parent
// @Produce json
// @Param parentId path int true "Parent ID"
// @Success 200 {array} dto.UserResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Parent not found"
// @Router /parent/children/{parentId} [get]
func (c *ChildController) GetChildren(ctx *gin.Context) {
	parentID, err := strconv.ParseUint(ctx.Param("parentId"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid parent ID format"})
		return
	}

	children, err := c.childService.GetChildren(uint(parentID))
	if err != nil {
		if errors.Is(err, service.ErrParentNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Parent not found"})
			return
		}
		log.Error().Err(err).Uint64("parentID", parentID).Msg("GetChildren: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to fetch children", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, children)
}
