package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"travel-story/internal/auth"
	"travel-story/internal/domain"
	"travel-story/internal/repository"
	"travel-story/internal/service"
	"travel-story/internal/storage"
)

const maxImageSize = 10 << 20 // 10 MiB

// Handler wires HTTP routes to domain services.
type Handler struct {
	users       service.UserService
	stories     service.StoryService
	media       storage.Service
	tokens      *auth.TokenService
	corsOrigins []string
	assetsDir   string
}

func NewHandler(users service.UserService, stories service.StoryService, media storage.Service, tokens *auth.TokenService, corsOrigins []string, assetsDir string) *Handler {
	return &Handler{
		users:       users,
		stories:     stories,
		media:       media,
		tokens:      tokens,
		corsOrigins: corsOrigins,
		assetsDir:   assetsDir,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(h.corsOrigins))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello from backend!")
	})

	router.POST("/create-account", h.createAccount)
	router.POST("/login", h.login)
	router.POST("/image-upload", h.uploadImage)
	router.DELETE("/delete-image", h.deleteImage)
	// some clients delete through the upload path
	router.DELETE("/image-upload", h.deleteImage)

	if h.assetsDir != "" {
		router.Static("/assets", h.assetsDir)
	}

	protected := router.Group("", authRequired(h.tokens))
	{
		protected.GET("/get-user", h.getUser)
		protected.POST("/add-travel-story", h.addTravelStory)
		protected.GET("/get-all-stories", h.getAllStories)
		protected.PUT("/edit-story/:id", h.editStory)
		protected.DELETE("/delete-story/:id", h.deleteStory)
		protected.PUT("/update-is-favourite/:id", h.updateIsFavourite)
		protected.GET("/search", h.searchStories)
		protected.GET("/travel-stories/filter", h.filterStories)
	}
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type storyRequest struct {
	Title           string   `json:"title"`
	Story           string   `json:"story"`
	VisitedLocation []string `json:"visitedLocation"`
	ImageURL        string   `json:"imageUrl"`
	VisitedDate     int64    `json:"visitedDate"`
}

type favouriteRequest struct {
	IsFavourite bool `json:"isFavourite"`
}

func (h *Handler) createAccount(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondError(c, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, service.ErrUserAlreadyExists):
			respondError(c, http.StatusBadRequest, "User already exists")
		default:
			respondError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"error":       false,
		"user":        userToResponse(user),
		"accessToken": token,
		"message":     "Registration Successful",
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and Password are required")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondError(c, http.StatusBadRequest, "Email and Password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusBadRequest, "Invalid Credentials")
		default:
			respondError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"error":       false,
		"message":     "Login Successful",
		"user":        userToResponse(user),
		"accessToken": token,
	})
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), userIDFrom(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    userToProfileResponse(user),
		"message": "",
	})
}

func (h *Handler) uploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No image uploaded")
		return
	}
	if file.Size > maxImageSize {
		respondError(c, http.StatusBadRequest, "Image exceeds the maximum allowed size")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer src.Close()

	imageURL, err := h.media.UploadImage(c.Request.Context(), src, file.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Upload to image host failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"imageUrl": imageURL})
}

func (h *Handler) deleteImage(c *gin.Context) {
	imageURL := c.Query("imageUrl")
	if imageURL == "" {
		respondError(c, http.StatusBadRequest, "imageUrl parameter is required")
		return
	}

	if err := h.media.DeleteImage(c.Request.Context(), imageURL); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

func (h *Handler) addTravelStory(c *gin.Context) {
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "All fields are required")
		return
	}

	story, err := h.stories.Create(c.Request.Context(), userIDFrom(c), storyInput(req))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondError(c, http.StatusBadRequest, "All fields are required")
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"story":   storyToResponse(*story),
		"message": "Added Successfully",
	})
}

func (h *Handler) getAllStories(c *gin.Context) {
	stories, err := h.stories.List(c.Request.Context(), userIDFrom(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": storiesToResponse(stories)})
}

func (h *Handler) editStory(c *gin.Context) {
	id, ok := storyID(c)
	if !ok {
		return
	}

	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "All fields are required")
		return
	}

	story, err := h.stories.Edit(c.Request.Context(), id, userIDFrom(c), storyInput(req))
	if err != nil {
		h.respondStoryError(c, err, "All fields are required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"story":   storyToResponse(*story),
		"message": "Update Successfully",
	})
}

func (h *Handler) deleteStory(c *gin.Context) {
	id, ok := storyID(c)
	if !ok {
		return
	}
	userID := userIDFrom(c)

	story, err := h.stories.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.respondStoryError(c, err, "")
		return
	}

	// the placeholder is local and must never reach the media host
	if story.ImageURL != "" && !strings.Contains(story.ImageURL, "placeholder.png") {
		if err := h.media.DeleteImage(c.Request.Context(), story.ImageURL); err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if err := h.stories.Delete(c.Request.Context(), id, userID); err != nil {
		h.respondStoryError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Travel story deleted successfully"})
}

func (h *Handler) updateIsFavourite(c *gin.Context) {
	id, ok := storyID(c)
	if !ok {
		return
	}

	var req favouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "isFavourite is required")
		return
	}

	story, err := h.stories.SetFavourite(c.Request.Context(), id, userIDFrom(c), req.IsFavourite)
	if err != nil {
		h.respondStoryError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"story":   storyToResponse(*story),
		"message": "Update Successfully",
	})
}

func (h *Handler) searchStories(c *gin.Context) {
	stories, err := h.stories.Search(c.Request.Context(), userIDFrom(c), c.Query("query"))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondError(c, http.StatusBadRequest, "Query is required")
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": storiesToResponse(stories)})
}

func (h *Handler) filterStories(c *gin.Context) {
	start, startErr := strconv.ParseInt(c.Query("startDate"), 10, 64)
	end, endErr := strconv.ParseInt(c.Query("endDate"), 10, 64)
	if startErr != nil || endErr != nil {
		respondError(c, http.StatusBadRequest, "startDate and endDate are required")
		return
	}

	stories, err := h.stories.FilterByVisitedDate(c.Request.Context(), userIDFrom(c), start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": storiesToResponse(stories)})
}

func (h *Handler) respondStoryError(c *gin.Context, err error, validationMessage string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, validationMessage)
	case errors.Is(err, service.ErrStoryNotFound):
		respondError(c, http.StatusNotFound, "Travel story not found")
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

func storyID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid story id")
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": true, "message": message})
}

type UserResponse struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type ProfileResponse struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type StoryResponse struct {
	ID              int64    `json:"id"`
	UserID          int64    `json:"userId"`
	Title           string   `json:"title"`
	Story           string   `json:"story"`
	VisitedLocation []string `json:"visitedLocation"`
	ImageURL        string   `json:"imageUrl"`
	VisitedDate     string   `json:"visitedDate"`
	IsFavourite     bool     `json:"isFavourite"`
	CreatedAt       string   `json:"createdAt"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		FullName: user.FullName,
		Email:    user.Email,
	}
}

func userToProfileResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func storyToResponse(story domain.Story) StoryResponse {
	locations := story.VisitedLocation
	if locations == nil {
		locations = []string{}
	}
	return StoryResponse{
		ID:              story.ID,
		UserID:          story.UserID,
		Title:           story.Title,
		Story:           story.Story,
		VisitedLocation: locations,
		ImageURL:        story.ImageURL,
		VisitedDate:     story.VisitedDate.Format(time.RFC3339),
		IsFavourite:     story.IsFavourite,
		CreatedAt:       story.CreatedAt.Format(time.RFC3339),
	}
}

func storiesToResponse(stories []domain.Story) []StoryResponse {
	resp := make([]StoryResponse, len(stories))
	for i := range stories {
		resp[i] = storyToResponse(stories[i])
	}
	return resp
}

func storyInput(req storyRequest) service.StoryInput {
	return service.StoryInput{
		Title:           req.Title,
		Story:           req.Story,
		VisitedLocation: req.VisitedLocation,
		ImageURL:        req.ImageURL,
		VisitedDateMS:   req.VisitedDate,
	}
}
