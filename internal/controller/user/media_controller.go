package user

import (
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/internal/dto"
	"github.com/lshigami/mockprep/internal/middleware"
)

// MediaController serves locally stored submission media to its owner.
type MediaController struct {
	fs http.FileSystem
}

func NewMediaController(cfg *config.Config) *MediaController {
	root := cfg.Storage.LocalPath
	if root == "" {
		root = "uploads"
	}
	return &MediaController{fs: gin.Dir(root, false)}
}

// ServeMedia serves GET /uploads/*key, outside the versioned API. Keys look
// like kind/userID/date/file and only that user or an admin may read them.
func (c *MediaController) ServeMedia(ctx *gin.Context) {
	claims := middleware.CurrentUser(ctx)
	if claims == nil {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	key := path.Clean("/" + ctx.Param("key"))
	owner, ok := keyOwner(key)
	if !ok {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Media not found"})
		return
	}
	if owner != claims.UserID && !claims.IsAdmin() {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "You can only access your own media"})
		return
	}
	ctx.FileFromFS(key, c.fs)
}

// keyOwner extracts the user id from "/kind/userID/date/file".
func keyOwner(key string) (uint, bool) {
	parts := strings.Split(strings.TrimPrefix(key, "/"), "/")
	if len(parts) != 4 {
		return 0, false
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
