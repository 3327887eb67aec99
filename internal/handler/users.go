package handler

import (
	"net/http"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/utils"
	"github.com/labstack/echo/v4"
)

// UserHandler serves /api/auth/users for super admins.
type UserHandler struct {
	Users      *repository.UserRepo
	Tokens     *repository.TokenRepo
	BcryptCost int
}

func NewUserHandler(u *repository.UserRepo, t *repository.TokenRepo, cost int) *UserHandler {
	return &UserHandler{Users: u, Tokens: t, BcryptCost: cost}
}

type createUserReq struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	IsActive *bool  `json:"isActive"`
}

type updateUserReq struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Users.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return items(c, list)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	u := model.User{Username: req.Username, Email: req.Email, PasswordHash: hash, Role: role, IsActive: true}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Users.Create(ctx, &u); err != nil {
		if repository.IsConflict(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already exists"})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Update applies a partial change.  Admins cannot deactivate or demote
// themselves.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req updateUserReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	self, _ := getUserID(c)

	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Role != nil {
		role, ok := model.ParseRole(*req.Role)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
		}
		if id == self && role != u.Role {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot change your own role"})
		}
		u.Role = role
	}
	if req.IsActive != nil {
		if id == self && !*req.IsActive {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot deactivate yourself"})
		}
		u.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password, h.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		u.PasswordHash = hash
	}
	if err := h.Users.Save(ctx, u); err != nil {
		if repository.IsConflict(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already exists"})
		}
		return respondError(c, err)
	}
	if !u.IsActive || req.Password != nil {
		if err := h.Tokens.RevokeAllForUser(ctx, u.ID); err != nil {
			c.Logger().Warnf("revoke sessions for user %d: %v", u.ID, err)
		}
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if self, _ := getUserID(c); self == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete yourself"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Users.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
