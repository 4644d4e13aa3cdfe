package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword" form:"oldPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email"`
}

func (h *Handler) getCurrentUser(c *gin.Context) {
	respond(c, http.StatusOK, currentUser(c), "current user fetched successfully")
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, NewAPIError(http.StatusBadRequest, "invalid request body", err))
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), currentUserID(c), req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "password changed successfully")
}

func (h *Handler) updateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, NewAPIError(http.StatusBadRequest, "invalid request body", err))
		return
	}

	user, err := h.users.UpdateAccount(c.Request.Context(), currentUserID(c), req.FullName, req.Email)
	if err != nil {
		fail(c, orMessage(err, http.StatusConflict, "email is already in use"))
		return
	}
	respond(c, http.StatusOK, user, "account details updated successfully")
}

func (h *Handler) updateAvatar(c *gin.Context) {
	st := h.newStaging()
	defer st.cleanup(c)

	path, err := st.save(c, "avatar")
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.users.UpdateAvatar(c.Request.Context(), currentUserID(c), path)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user, "avatar updated successfully")
}

func (h *Handler) updateCoverImage(c *gin.Context) {
	st := h.newStaging()
	defer st.cleanup(c)

	path, err := st.save(c, "coverImage")
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.users.UpdateCoverImage(c.Request.Context(), currentUserID(c), path)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user, "cover image updated successfully")
}
