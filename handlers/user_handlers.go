package handlers

import (
	"GoldShop/jwt"
	"GoldShop/models"
	"GoldShop/repository"
	"errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var emailPattern = regexp.MustCompile("^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\\.[a-zA-Z0-9-.]+$")

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword requires 8 to 50 characters with at least one letter and
// one digit and no whitespace.
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 50 {
		return false
	}

	var (
		isLetter = false
		isNumber = false
		isSpace  = false
	)

	for _, s := range password {
		switch {
		case unicode.IsSpace(s):
			isSpace = true
		case unicode.IsLetter(s):
			isLetter = true
		case unicode.IsDigit(s):
			isNumber = true
		default:
		}
	}

	return isLetter && isNumber && !isSpace
}

// userView is a user without credentials.
type userView struct {
	ID        uint      `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewOf(u *models.User) userView {
	return userView{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func SignupHandler(c *gin.Context, users *repository.UserRepository, logger *zap.Logger) {
	var req struct {
		FullName string `json:"fullName" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Phone    string `json:"phone"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid signup request: "+err.Error())
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !ValidateEmail(req.Email) {
		badRequest(c, "invalid email")
		return
	}
	if !ValidatePassword(req.Password) {
		badRequest(c, "password must be 8-50 characters with letters and digits")
		return
	}

	exists, err := users.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		respondStoreError(c, logger, "check email", "", err)
		return
	}
	if exists {
		badRequest(c, "User with this email already exists")
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	user := models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    strings.TrimSpace(req.Phone),
		Password: hashed,
		Role:     "user",
	}
	if err := users.Create(c.Request.Context(), &user); err != nil {
		respondStoreError(c, logger, "create user", "", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created",
		"id":      user.ID,
	})
}

func LoginHandler(c *gin.Context, users *repository.UserRepository, logins *repository.LoginTokenRepository, tokens *jwt.Manager, logger *zap.Logger) {
	var req struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid login request: "+err.Error())
		return
	}

	invalid := gin.H{"error": "Invalid email/phone or password"}

	user, err := users.FindByIdentifier(c.Request.Context(), strings.TrimSpace(req.Identifier))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, invalid)
		return
	}
	if err != nil {
		respondStoreError(c, logger, "find user", "", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, invalid)
		return
	}

	token, expires, err := tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	loginToken := models.LoginToken{
		Token:          token,
		ExpirationTime: expires,
		UserID:         user.ID,
		Role:           user.Role,
	}
	if err := logins.Save(c.Request.Context(), &loginToken); err != nil {
		respondStoreError(c, logger, "save login token", "", err)
		return
	}

	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Login successful",
		"token":     token,
		"expiresAt": expires,
		"user": gin.H{
			"id":       user.ID,
			"fullName": user.FullName,
		},
	})
}

func LogoutHandler(c *gin.Context, logins *repository.LoginTokenRepository, logger *zap.Logger) {
	token := c.GetString("Token")
	if token == "" {
		badRequest(c, "no token")
		return
	}

	if err := logins.Revoke(c.Request.Context(), token); err != nil {
		respondStoreError(c, logger, "revoke login token", "", err)
		return
	}

	c.Header("Authorization", "")
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

func GetAllUsersHandler(c *gin.Context, users *repository.UserRepository, logger *zap.Logger) {
	list, err := users.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, logger, "list users", "", err)
		return
	}

	views := make([]userView, 0, len(list))
	for i := range list {
		views = append(views, viewOf(&list[i]))
	}
	c.JSON(http.StatusOK, views)
}

// UpdateUserHandler applies a partial update; a new password is re-hashed.
func UpdateUserHandler(c *gin.Context, users *repository.UserRepository, logger *zap.Logger) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id, ok = actingUser(c, id); !ok {
		return
	}

	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid update request: "+err.Error())
		return
	}

	changes := map[string]interface{}{}
	if req.FullName != "" {
		changes["full_name"] = req.FullName
	}
	if req.Email != "" {
		if !ValidateEmail(req.Email) {
			badRequest(c, "invalid email")
			return
		}
		changes["email"] = req.Email
	}
	if req.Phone != "" {
		changes["phone"] = req.Phone
	}
	if req.Password != "" {
		if !ValidatePassword(req.Password) {
			badRequest(c, "password must be 8-50 characters with letters and digits")
			return
		}
		hashed, err := hashPassword(req.Password)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		changes["password"] = hashed
	}

	user, err := users.Update(c.Request.Context(), id, changes)
	if err != nil {
		respondStoreError(c, logger, "update user", "User not found", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated",
		"user":    viewOf(user),
	})
}

func DeleteUserHandler(c *gin.Context, users *repository.UserRepository, logger *zap.Logger) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := users.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, logger, "delete user", "User not found", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted",
	})
}

type addressRequest struct {
	UserID uint `json:"userId"`
	models.AddressDetails
}

func (r addressRequest) missingField() string {
	required := []struct{ name, value string }{
		{"name", r.Name},
		{"mobile", r.Mobile},
		{"pincode", r.Pincode},
		{"city", r.City},
		{"state", r.State},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

// CreateAddressHandler saves an address for a registered user.
func CreateAddressHandler(c *gin.Context, users *repository.UserRepository, addresses *repository.AddressRepository, logger *zap.Logger) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid address: "+err.Error())
		return
	}
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return
	}
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "userId is required",
		})
		return
	}
	if field := req.missingField(); field != "" {
		badRequest(c, field+" is required")
		return
	}
	addressType, err := models.ParseAddressType(string(req.AddressType))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	if _, err := users.Get(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied: Invalid userId",
			})
			return
		}
		respondStoreError(c, logger, "load user", "", err)
		return
	}

	address := models.Address{
		UserID:         userID,
		AddressDetails: req.AddressDetails,
	}
	address.AddressType = addressType
	if err := addresses.Create(c.Request.Context(), &address); err != nil {
		respondStoreError(c, logger, "save address", "", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address saved successfully",
		"address": address,
	})
}

func GetAddressesHandler(c *gin.Context, addresses *repository.AddressRepository, logger *zap.Logger) {
	var userID uint
	if raw := c.Query("userId"); raw != "" {
		var ok bool
		if userID, ok = parseID(c, raw, "userId"); !ok {
			return
		}
	}
	userID, ok := actingUser(c, userID)
	if !ok {
		return
	}
	if userID == 0 {
		badRequest(c, "userId is required")
		return
	}

	list, err := addresses.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondStoreError(c, logger, "list addresses", "", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
