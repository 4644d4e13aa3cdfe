package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/server/services"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type loginData struct {
	User         any    `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) register(c *gin.Context) {
	st := h.newStaging()
	defer st.cleanup(c)

	avatar, err := st.save(c, "avatar")
	if err != nil {
		fail(c, err)
		return
	}
	cover, err := st.save(c, "coverImage")
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Username:       c.PostForm("username"),
		Email:          c.PostForm("email"),
		FullName:       c.PostForm("fullName"),
		Password:       c.PostForm("password"),
		AvatarPath:     avatar,
		CoverImagePath: cover,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, user, "user registered successfully")
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, NewAPIError(http.StatusBadRequest, "invalid request body", err))
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			err = NewAPIError(http.StatusUnauthorized, "invalid user credentials", err)
		}
		fail(c, err)
		return
	}

	h.cookies.set(c, common.AccessTokenCookieName, res.AccessToken, h.accessTTL)
	h.cookies.set(c, common.RefreshTokenCookieName, res.RefreshToken, h.refreshTTL)
	respond(c, http.StatusOK, loginData{User: res.User, AccessToken: res.AccessToken, RefreshToken: res.RefreshToken},
		"user logged in successfully")
}

func (h *Handler) logout(c *gin.Context) {
	token, _ := c.Get(ctxTokenKey)
	accessToken, _ := token.(string)

	if err := h.users.Logout(c.Request.Context(), currentUserID(c), accessToken); err != nil {
		fail(c, orMessage(err, http.StatusNotFound, "user not found"))
		return
	}

	h.cookies.clear(c, common.AccessTokenCookieName)
	h.cookies.clear(c, common.RefreshTokenCookieName)
	respond(c, http.StatusOK, gin.H{}, "user logged out")
}

// refreshToken reads the refresh token from its cookie, the bearer header or
// the request body, in that order.
func (h *Handler) refreshToken(c *gin.Context) {
	token := tokenFrom(c, common.RefreshTokenCookieName)
	if token == "" {
		var req refreshRequest
		if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
			fail(c, NewAPIError(http.StatusBadRequest, "invalid request body", err))
			return
		}
		token = req.RefreshToken
	}
	if token == "" {
		fail(c, NewAPIError(http.StatusUnauthorized, "unauthorized request", common.ErrorUnauthorized))
		return
	}

	access, err := h.users.RefreshAccessToken(c.Request.Context(), token)
	if err != nil {
		fail(c, orMessage(err, http.StatusUnauthorized, "invalid refresh token"))
		return
	}

	h.cookies.set(c, common.AccessTokenCookieName, access, h.accessTTL)
	respond(c, http.StatusOK, gin.H{"accessToken": access}, "access token refreshed")
}
