package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) channel(c *gin.Context) {
	p, err := h.users.GetChannel(c.Request.Context(), c.Param("username"), currentUserID(c))
	if err != nil {
		fail(c, orMessage(err, http.StatusNotFound, "channel does not exist"))
		return
	}
	respond(c, http.StatusOK, p, "user channel fetched successfully")
}

func (h *Handler) subscribe(c *gin.Context) {
	p, err := h.users.Subscribe(c.Request.Context(), currentUserID(c), c.Param("username"))
	if err != nil {
		fail(c, orMessage(err, http.StatusNotFound, "channel does not exist"))
		return
	}
	respond(c, http.StatusOK, p, "subscribed successfully")
}

func (h *Handler) unsubscribe(c *gin.Context) {
	p, err := h.users.Unsubscribe(c.Request.Context(), currentUserID(c), c.Param("username"))
	if err != nil {
		fail(c, orMessage(err, http.StatusNotFound, "channel does not exist"))
		return
	}
	respond(c, http.StatusOK, p, "unsubscribed successfully")
}

func (h *Handler) watchHistory(c *gin.Context) {
	history, err := h.users.GetWatchHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, history, "watch history fetched successfully")
}

func (h *Handler) addToWatchHistory(c *gin.Context) {
	if err := h.users.AddToWatchHistory(c.Request.Context(), currentUserID(c), c.Param("videoId")); err != nil {
		fail(c, orMessage(err, http.StatusNotFound, "video not found"))
		return
	}
	respond(c, http.StatusCreated, gin.H{}, "added to watch history")
}
