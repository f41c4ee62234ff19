package handlers

import (
	"errors"
	"net/http"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/middleware"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/internal/storage"
	"dentalcare-backend/pkg/apperror"
	"dentalcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const invalidCredentials = "Invalid username or password"

type loginResponse struct {
	*models.User
	Token string `json:"token"`
}

// Register creates an account. Anyone may register staff; doctor and admin
// accounts are created by a signed-in user of at least that role.
func (h *Handler) Register(c *gin.Context) {
	var input models.RegisterInput

	// 1. Validate the JSON body
	if !decode(c, &input) {
		return
	}
	if err := models.ValidateStruct(input); err != nil {
		fail(c, err)
		return
	}

	// 2. Only staff accounts are open; doctor and admin need a caller of that rank
	role := input.Role
	if role == "" {
		role = models.RoleStaff
	}
	if !models.CanGrant(c.GetString(middleware.CtxRole), role) {
		c.Error(apperror.Forbidden("Registering a " + role + " account requires signing in as " + role + " or above"))
		return
	}

	// 3. Hash the password
	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	// 4. Store the user; the store rejects taken usernames
	user, err := h.store.CreateUser(c.Request.Context(), models.User{
		Username: input.Username,
		Password: hashedPassword,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Role:     role,
	})
	if errors.Is(err, storage.ErrDuplicate) {
		c.Error(apperror.Conflict("Username already exists"))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	h.invalidate(c.Request.Context(), cache.UserCreated())
	c.JSON(http.StatusCreated, user)
}

// Login checks credentials and issues a JWT. Unknown usernames and wrong
// passwords get the same response.
func (h *Handler) Login(c *gin.Context) {
	var input models.LoginInput

	// 1. Validate the JSON body
	if !decode(c, &input) {
		return
	}
	if err := models.ValidateStruct(input); err != nil {
		fail(c, err)
		return
	}

	// 2. Look the user up by username
	ctx := c.Request.Context()
	user, err := h.store.GetUserByUsername(ctx, input.Username)
	if err != nil {
		fail(c, err)
		return
	}

	// 3. Compare the password hash
	if user == nil || !utils.CheckPassword(input.Password, user.Password) {
		c.Error(apperror.Unauthorized(invalidCredentials))
		return
	}

	// 4. Remember the device token for push notifications
	if input.FCMToken != "" {
		if err := h.store.SetUserFCMToken(ctx, user.ID, input.FCMToken); err != nil {
			h.log.Warn().Err(err).Uint64("user_id", user.ID).Msg("failed to store fcm token")
		}
	}

	// 5. Issue the token
	token, err := h.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	c.JSON(http.StatusOK, loginResponse{User: user, Token: token})
}
