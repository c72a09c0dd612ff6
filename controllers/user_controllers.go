package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/stall-pos/middlewares"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

const minPasswordLength = 6

var errInvalidCredentials = errors.New("invalid credentials")

type UserController struct {
	DB        *gorm.DB
	Blacklist *utils.TokenBlacklist
	Sessions  *services.SessionManager
}

func NewUserController(db *gorm.DB, blacklist *utils.TokenBlacklist, sessions *services.SessionManager) *UserController {
	return &UserController{DB: db, Blacklist: blacklist, Sessions: sessions}
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role}
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", &CustomError{"password must be at least 6 characters"}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Setup membuat admin pertama. Ditolak kalau sudah ada user.
func (uc *UserController) Setup(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var count int64
	if err := uc.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		respondErr(c, err)
		return
	}
	if count > 0 {
		respondErr(c, services.ErrAlreadyInitialized)
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	user := models.User{
		Username: strings.TrimSpace(req.Username),
		FullName: req.FullName,
		Password: hashed,
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		respondErr(c, err)
		return
	}

	utils.InfoLogger.Printf("Initial admin created: %s", user.Username)
	utils.RespondJSON(c, http.StatusCreated, "Admin account created", toUserResponse(user))
}

// Login user -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("username = ?", strings.TrimSpace(input.Username)).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}
	if !user.Active {
		utils.RespondError(c, http.StatusForbidden, errors.New("account is disabled"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.FullName, user.Role)
	if err != nil {
		respondErr(c, err)
		return
	}

	now := time.Now()
	if err := uc.DB.Model(&user).Update("last_login", now).Error; err != nil {
		utils.ErrorLogger.Errorf("Error updating last login for %s: %v", user.Username, err)
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// Verify -> memeriksa user dari JWT
func (uc *UserController) Verify(c *gin.Context) {
	var user models.User
	if err := uc.DB.First(&user, currentUserID(c)).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user no longer exists"))
		return
	}
	if !user.Active {
		utils.RespondError(c, http.StatusForbidden, errors.New("account is disabled"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Token is valid", toUserResponse(user))
}

// Logout revokes the token and closes the cashier's POS sessions.
func (uc *UserController) Logout(c *gin.Context) {
	var expiresAt time.Time
	if claims, ok := c.Get(middlewares.CtxClaims); ok {
		if cc, ok := claims.(*utils.CustomClaims); ok && cc.ExpiresAt != nil {
			expiresAt = cc.ExpiresAt.Time
		}
	}
	uc.Blacklist.Revoke(c.GetString(middlewares.CtxToken), expiresAt)

	closed := 0
	if uc.Sessions != nil {
		closed = uc.Sessions.CloseForUser(currentUserID(c))
	}
	utils.InfoLogger.Printf("User %s logged out, %d POS sessions closed", c.GetString(middlewares.CtxUsername), closed)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetAllUsers -> endpoint khusus Admin
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Order("username ASC").Find(&users).Error; err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

func (uc *UserController) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleCashier
	}
	if !models.IsRole(req.Role) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("role must be admin or cashier"))
		return
	}

	var existing int64
	uc.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("username already taken"))
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	user := models.User{
		Username: strings.TrimSpace(req.Username),
		FullName: req.FullName,
		Password: hashed,
		Role:     req.Role,
		Active:   true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		respondErr(c, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User created", user)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		FullName *string `json:"full_name"`
		Role     *string `json:"role"`
		Active   *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Role != nil {
		if !models.IsRole(*req.Role) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("role must be admin or cashier"))
			return
		}
		updates["role"] = *req.Role
	}
	if req.Active != nil {
		if !*req.Active && user.ID == currentUserID(c) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("you cannot disable your own account"))
			return
		}
		updates["active"] = *req.Active
	}
	if len(updates) > 0 {
		if err := uc.DB.Model(&user).Updates(updates).Error; err != nil {
			respondErr(c, err)
			return
		}
	}
	if req.Active != nil && !*req.Active && uc.Sessions != nil {
		uc.Sessions.CloseForUser(user.ID)
	}
	if err := uc.DB.First(&user, id).Error; err != nil {
		respondErr(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

func (uc *UserController) ResetPassword(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}
	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := uc.DB.Model(&user).Update("password", hashed).Error; err != nil {
		respondErr(c, err)
		return
	}

	utils.InfoLogger.Printf("Password reset for user %s by %s", user.Username, c.GetString(middlewares.CtxUsername))
	utils.RespondJSON(c, http.StatusOK, "Password updated", nil)
}
