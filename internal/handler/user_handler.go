package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amazighishop/shop_api/internal/middleware"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/repository"
	"github.com/amazighishop/shop_api/internal/service"
	"github.com/amazighishop/shop_api/internal/utils"
)

// UserHandler serves the back-office account pages.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type userRequest struct {
	Name                 string `json:"name" binding:"required,max=30"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Phone                string `json:"phone"`
	Role                 string `json:"role" binding:"required,oneof=admin client gestionnaire_commande"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r userRequest) input() service.UserInput {
	return service.UserInput{
		Name:                 r.Name,
		Email:                r.Email,
		Phone:                r.Phone,
		Role:                 models.Role(r.Role),
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// List handles GET /admin/users
func (h *UserHandler) List(c *gin.Context) {
	page, limit := pageParams(c, defaultPerPage)
	filter := repository.UserFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Page:   page,
		Limit:  limit,
	}

	users, total, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"users":   paginate(c, users, total, page, limit),
		"filters": gin.H{"search": filter.Search, "role": filter.Role},
		"roles":   []models.Role{models.RoleAdmin, models.RoleOrderManager, models.RoleClient},
	})
}

// Show handles GET /admin/users/:id
func (h *UserHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.retrieved"), gin.H{
		"user":          user,
		"is_self":       user.ID == middleware.UserID(c),
		"delete_notice": tr(c, "user.delete_notice"),
	})
}

// Create handles POST /admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if !bind(c, &req) {
		return
	}
	user, err := h.users.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, tr(c, "common.created"), user)
}

// Update handles PUT /admin/users/:id. A blank password keeps the current one.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req userRequest
	if !bind(c, &req) {
		return
	}
	user, err := h.users.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.updated"), user)
}

// Delete handles DELETE /admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, "common.deleted"), nil)
}

// Block handles POST /admin/users/:id/block
func (h *UserHandler) Block(c *gin.Context) {
	h.setBlocked(c, true, "user.blocked")
}

// Unblock handles POST /admin/users/:id/unblock
func (h *UserHandler) Unblock(c *gin.Context) {
	h.setBlocked(c, false, "user.unblocked")
}

func (h *UserHandler) setBlocked(c *gin.Context, blocked bool, messageKey string) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.users.SetBlocked(c.Request.Context(), middleware.UserID(c), id, blocked); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, tr(c, messageKey), gin.H{"id": id, "is_blocked": blocked})
}
