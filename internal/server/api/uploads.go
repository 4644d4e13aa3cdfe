package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/videohub/internal/common"
	"github.com/dmitrijs2005/videohub/internal/filex"
	"github.com/dmitrijs2005/videohub/internal/logging"
	"github.com/gin-gonic/gin"
)

// staging collects the files saved for one request so they can all be
// removed once the handler is done, whatever the outcome.
type staging struct {
	dir    string
	paths  []string
	logger logging.Logger
}

func (h *Handler) newStaging() *staging {
	return &staging{dir: h.uploadDir, logger: h.logger}
}

// save stores the multipart file named field under a random name and returns
// its path, or "" when the request carries no such file.
func (s *staging) save(c *gin.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", NewAPIError(http.StatusBadRequest, "invalid multipart form", err)
	}

	name, err := common.MakeRandHexString(16)
	if err != nil {
		return "", fmt.Errorf("staging name: %w", err)
	}
	path := filepath.Join(s.dir, name+strings.ToLower(filepath.Ext(fh.Filename)))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return "", fmt.Errorf("stage %s: %w", field, err)
	}
	s.paths = append(s.paths, path)
	return path, nil
}

func (s *staging) cleanup(c *gin.Context) {
	if err := filex.RemoveFiles(s.paths...); err != nil {
		s.logger.Warn(c.Request.Context(), "failed to remove staged uploads", "error", err)
	}
}
