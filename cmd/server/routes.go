// Copyright 2025 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file defines the REST routes of the editing surface: agent prompt
// submission, attachments, the asset library, the timeline, text-to-speech,
// and scratch-store asset serving.
package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
)

// promptRequest is the submission body. Mode and aspect ratio are optional
// and persist as the session's settings for subsequent submissions.
type promptRequest struct {
	Prompt       string `json:"prompt" binding:"required"`
	Mode         string `json:"mode"`
	AspectRatio  string `json:"aspectRatio"`
	ThinkingMode *bool  `json:"thinkingMode"`
	UseSearch    *bool  `json:"useSearch"`
}

// AgentRouter sets up the conversational endpoints: prompt submission,
// transcript retrieval, constraint inspection, attachments, and credential
// re-selection.
func AgentRouter(r *gin.RouterGroup) {
	agent := r.Group("/agent")
	{
		// Handler for POST /agent/prompt
		agent.POST("/prompt", func(c *gin.Context) {
			var req promptRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if req.Mode != "" {
				if err := state.session.SetMode(model.GenerationMode(req.Mode)); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
			}
			if req.AspectRatio != "" {
				if err := state.session.SetAspectRatio(model.AspectRatio(req.AspectRatio)); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
			}
			if req.ThinkingMode != nil {
				state.session.SetThinkingMode(*req.ThinkingMode)
			}
			if req.UseSearch != nil {
				state.session.SetUseSearch(*req.UseSearch)
			}

			msg, err := state.session.Submit(c.Request.Context(), req.Prompt)
			if errors.Is(err, services.ErrSessionBusy) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				// Classified failures are part of the conversation: the
				// transcript already carries the assistant-role message.
				var classified services.ClassifiedError
				if errors.As(err, &classified) {
					c.JSON(http.StatusOK, gin.H{"message": msg, "error": classified})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": msg})
		})

		// Handler for GET /agent/transcript
		agent.GET("/transcript", func(c *gin.Context) {
			c.JSON(http.StatusOK, state.session.Transcript())
		})

		// Handler for GET /agent/constraints
		agent.GET("/constraints", func(c *gin.Context) {
			mode, constraints := state.session.Constraints()
			c.JSON(http.StatusOK, gin.H{"mode": mode, "constraints": constraints})
		})

		// Handler for POST /agent/credential
		agent.POST("/credential", func(c *gin.Context) {
			state.session.SelectCredential()
			c.Status(http.StatusNoContent)
		})

		// Handler for POST /agent/attachments (multipart, field "file")
		agent.POST("/attachments", func(c *gin.Context) {
			data, err := formFileBytes(c, "file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			file, err := state.attachments.Add(data)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, file)
		})

		// Handler for DELETE /agent/attachments/:id
		agent.DELETE("/attachments/:id", func(c *gin.Context) {
			if err := state.attachments.Remove(c.Param("id")); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.Status(http.StatusNoContent)
		})
	}
}

// LibraryRouter sets up the asset library endpoints.
func LibraryRouter(r *gin.RouterGroup) {
	library := r.Group("/library")
	{
		// Handler for GET /library
		library.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, state.library.List())
		})

		// Handler for POST /library/import (multipart, field "file")
		library.POST("/import", func(c *gin.Context) {
			data, err := formFileBytes(c, "file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			kind, err := filetype.Match(data)
			if err != nil || kind == filetype.Unknown {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unrecognized file type"})
				return
			}
			var assetType model.AssetType
			switch {
			case filetype.IsImage(data):
				assetType = model.AssetTypeImage
			case filetype.IsVideo(data):
				assetType = model.AssetTypeVideo
			case filetype.IsAudio(data):
				assetType = model.AssetTypeAudio
			default:
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "only image, video, and audio imports are supported"})
				return
			}

			handle, err := state.store.Put(data, kind.MIME.Value)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}

			asset := &model.MediaAsset{
				Id:        uuid.New().String(),
				Type:      assetType,
				Url:       handle.Url,
				MimeType:  kind.MIME.Value,
				Bytes:     data,
				LocalPath: handle.Path,
			}
			if err := state.library.Add(c.Request.Context(), asset); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, asset)
		})

		// Handler for POST /library/:id/select — toggles the edit selection.
		library.POST("/:id/select", func(c *gin.Context) {
			selected, err := state.library.Select(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"selected": selected})
		})

		// Handler for GET /library/:id/share — uploads the asset to the
		// mirror bucket and returns a signed streaming url.
		library.GET("/:id/share", func(c *gin.Context) {
			asset, err := state.library.Get(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			handle, err := state.store.Handle(filepath.Base(asset.LocalPath))
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			signed, err := state.store.Mirror(c.Request.Context(), handle)
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": signed})
		})
	}
}

// placeRequest places a library asset on the timeline at an explicit start.
type placeRequest struct {
	AssetId   string  `json:"assetId" binding:"required"`
	StartTime float64 `json:"startTime"`
}

// dropRequest carries the raw drag/drop transfer payload and the optional
// drop position.
type dropRequest struct {
	Payload  json.RawMessage `json:"payload" binding:"required"`
	DropTime *float64        `json:"dropTime"`
}

// TimelineRouter sets up the timeline endpoints.
func TimelineRouter(r *gin.RouterGroup) {
	timeline := r.Group("/timeline")
	{
		// Handler for GET /timeline
		timeline.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, state.timeline.Placements())
		})

		// Handler for POST /timeline
		timeline.POST("", func(c *gin.Context) {
			var req placeRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			asset, err := state.library.Get(req.AssetId)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			placement, err := state.timeline.PlaceAsset(c.Request.Context(), asset, req.StartTime)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, placement)
		})

		// Handler for POST /timeline/drop
		timeline.POST("/drop", func(c *gin.Context) {
			var req dropRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			placement, err := state.timeline.HandleDrop(c.Request.Context(), req.Payload, req.DropTime)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if placement == nil {
				// Malformed payloads are ignored, not errors.
				c.Status(http.StatusNoContent)
				return
			}
			c.JSON(http.StatusOK, placement)
		})

		// Handler for PATCH /timeline/:id
		timeline.PATCH("/:id", func(c *gin.Context) {
			var update model.TimelineUpdate
			if err := c.ShouldBindJSON(&update); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := state.timeline.Update(c.Param("id"), update); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			c.Status(http.StatusNoContent)
		})

		// Handler for DELETE /timeline/:id
		timeline.DELETE("/:id", func(c *gin.Context) {
			if err := state.timeline.Remove(c.Param("id")); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.Status(http.StatusNoContent)
		})
	}
}

// ttsRequest is the narration synthesis body.
type ttsRequest struct {
	Text  string `json:"text" binding:"required"`
	Voice string `json:"voice" binding:"required"`
}

// SpeechRouter sets up the text-to-speech endpoint.
func SpeechRouter(r *gin.RouterGroup) {
	// Handler for POST /tts
	r.POST("/tts", func(c *gin.Context) {
		var req ttsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		asset, err := state.speech.Generate(c.Request.Context(), req.Text, model.Voice(req.Voice))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": services.Classify(err)})
			return
		}
		c.JSON(http.StatusOK, asset)
	})
}

// AssetRouter serves scratch-store files and the closed option sets the
// surface renders as pickers.
func AssetRouter(r *gin.RouterGroup) {
	// Handler for GET /assets/:name
	r.GET("/assets/:name", func(c *gin.Context) {
		path, err := state.store.Path(c.Param("name"))
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.File(path)
	})

	// Handler for GET /mirror — lists the objects shared so far.
	r.GET("/mirror", func(c *gin.Context) {
		names, err := state.store.MirroredObjects(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"objects": names})
	})

	// Handler for GET /voices
	r.GET("/voices", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.Voices())
	})

	// Handler for GET /aspect-ratios
	r.GET("/aspect-ratios", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.AspectRatios())
	})
}

// formFileBytes reads one uploaded file from the multipart form.
func formFileBytes(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close uploaded file: %v\n", err)
		}
	}()
	return io.ReadAll(f)
}
