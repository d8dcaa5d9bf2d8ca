package handler

import (
	"net/http"

	"collabkanban/internal/auth"
	"collabkanban/internal/model"
	"collabkanban/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc    *service.Service
	tokens *auth.Tokens
}

func NewAuthHandler(svc *service.Service, tokens *auth.Tokens) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens}
}

type AuthResponse struct {
	Token   string         `json:"token"`
	Account *model.Account `json:"account"`
}

// Register godoc
// @Summary      Sign up
// @Description  Creates an account and accepts pending invitations sent to its email
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        request  body      service.Register  true  "Account"
// @Success      201      {object}  AuthResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.Register
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, account)
}

// Login godoc
// @Summary      Log in
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        request  body      service.Login  true  "Credentials"
// @Success      200      {object}  AuthResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.Login
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, account)
}

// Me godoc
// @Summary   Current account
// @Tags      Accounts
// @Security  BearerAuth
// @Produce   json
// @Success   200  {object}  model.Account
// @Router    /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	account, err := h.svc.Account(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AuthHandler) respond(c *gin.Context, status int, account *model.Account) {
	token, err := h.tokens.Generate(account.ID.String())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, AuthResponse{Token: token, Account: account})
}
