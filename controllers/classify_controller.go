package controllers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fridgekeeper/llm"
	"fridgekeeper/logger"
)

type ClassifyController struct {
	llm *llm.Client
}

func NewClassifyController(client *llm.Client) *ClassifyController {
	return &ClassifyController{llm: client}
}

// Classify relays one image to the vision model and returns the raw
// text answer. Input resolution order follows the original client
// contract: multipart "image" upload first, then a "query" form or
// query value holding a local file path, then the raw body. Remote
// URLs are rejected; only uploads and local paths are supported.
func (cc *ClassifyController) Classify(w http.ResponseWriter, r *http.Request) {
	var payload []byte
	mediaType := "image/jpeg"

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		payload, err = io.ReadAll(file)
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		if ct := header.Header.Get("Content-Type"); ct != "" {
			mediaType = ct
		}
	} else {
		query := strings.TrimSpace(r.FormValue("query"))
		if query == "" {
			body, _ := io.ReadAll(r.Body)
			query = strings.TrimSpace(string(body))
		}
		if query == "" {
			respondError(w, http.StatusBadRequest, "empty query")
			return
		}
		lower := strings.ToLower(query)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			respondError(w, http.StatusBadRequest, "URL input is not supported, use an upload or a local path")
			return
		}
		payload, err = os.ReadFile(query)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				respondError(w, http.StatusNotFound, "file not found: "+query)
				return
			}
			respondError(w, http.StatusBadRequest, "failed to read image path")
			return
		}
		if mt := mime.TypeByExtension(filepath.Ext(query)); mt != "" {
			mediaType = mt
		}
	}

	if !cc.llm.Configured() {
		respondError(w, http.StatusServiceUnavailable, "image classification is not configured")
		return
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(payload))

	text, err := cc.llm.ClassifyImage(dataURI)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			respondError(w, http.StatusServiceUnavailable, "image classification is not configured")
			return
		}
		logger.Error("classify upstream call failed", "error", err)
		respondError(w, http.StatusBadGateway, "upstream classification call failed")
		return
	}

	logger.Info("image classified", "bytes", len(payload), "media_type", mediaType)
	respondJSON(w, http.StatusOK, text)
}
