package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sujalbistaa/messmate/internal/imagehost"
	"github.com/sujalbistaa/messmate/internal/store"
	"github.com/sujalbistaa/messmate/internal/ws"
	"github.com/sujalbistaa/messmate/pkg/logger"
)

// HotelLister is satisfied by the store directly or by the redis cache
// wrapped around it.
type HotelLister interface {
	HotelNames(ctx context.Context) ([]string, error)
}

// WsMessage is the JSON envelope pushed to live feed clients.
type WsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Env holds the handlers' dependencies.
type Env struct {
	Store  *store.Store
	Hotels HotelLister
	Images imagehost.Host
	Hub    *ws.Hub
}

// CreatePost accepts a multipart form (username, hotelName, image), pushes
// the image to the configured host and persists the post.
func (e *Env) CreatePost(c *gin.Context) {
	username := c.PostForm("username")
	hotelName := c.PostForm("hotelName")

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	if header.Size > imagehost.MaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds the 5MB limit"})
		return
	}

	file, err := header.Open()
	if err != nil {
		logger.Error("opening uploaded image failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	imageURL, err := e.Images.Upload(c.Request.Context(), file, header.Filename)
	if err != nil {
		logger.Error("image upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	post, err := e.Store.Create(c.Request.Context(), username, hotelName, imageURL)
	if err != nil {
		e.respondError(c, err)
		return
	}

	// A fresh post may introduce a hotel the cached list doesn't have yet.
	if inv, ok := e.Hotels.(interface{ Invalidate(context.Context) }); ok {
		inv.Invalidate(c.Request.Context())
	}

	e.broadcastMessage(WsMessage{Type: "new_post", Data: post})

	c.JSON(http.StatusCreated, post)
}

// GetPosts returns the newest posts across all hotels.
func (e *Env) GetPosts(c *gin.Context) {
	posts, err := e.Store.ListAll(c.Request.Context(), store.DefaultLimit)
	if err != nil {
		e.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPostsByHotel returns the newest posts whose hotel name contains the
// path parameter, case-insensitively.
func (e *Env) GetPostsByHotel(c *gin.Context) {
	posts, err := e.Store.ListByHotel(c.Request.Context(), c.Param("name"), store.DefaultLimit)
	if err != nil {
		e.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetHotels returns the distinct hotel names with at least one visible post.
func (e *Env) GetHotels(c *gin.Context) {
	hotels, err := e.Hotels.HotelNames(c.Request.Context())
	if err != nil {
		e.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotels)
}

func (e *Env) respondError(c *gin.Context, err error) {
	var vErr *store.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		return
	}
	logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
}

func (e *Env) broadcastMessage(msg WsMessage) {
	if e.Hub == nil {
		return
	}
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		logger.Warn("marshalling ws message failed", zap.Error(err))
		return
	}
	e.Hub.Broadcast <- jsonMsg
}
