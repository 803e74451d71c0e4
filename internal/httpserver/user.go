package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	usersvc "storefront/internal/service/user"
)

type userHandler struct {
	svc UserService
}

type signupRequest struct {
	Name      string `json:"name" binding:"required"`
	Gender    string `json:"gender"`
	BirthDate string `json:"birthDate"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Name      *string `json:"name"`
	Gender    *string `json:"gender"`
	BirthDate *string `json:"birthDate"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h userHandler) create(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.svc.Signup(c.Request.Context(), usersvc.SignupInput{
		Name:      req.Name,
		Gender:    req.Gender,
		BirthDate: req.BirthDate,
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created", "data": u})
}

func (h userHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "data": u})
}

func (h userHandler) list(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h userHandler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h userHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	u, err := h.svc.Update(c.Request.Context(), id, usersvc.PatchInput{
		Name:      req.Name,
		Gender:    req.Gender,
		BirthDate: req.BirthDate,
		Address:   req.Address,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": u})
}
