package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/captionflow/captionflow/internal/timeline"
	"github.com/captionflow/captionflow/internal/waveform"
)

type waveformRequest struct {
	Samples    []float32 `json:"samples" binding:"required"`
	SampleRate int       `json:"sample_rate"`
	TargetRate int       `json:"target_rate"`
	Threshold  *float32  `json:"threshold"`
}

type timelineRequest struct {
	Transform timeline.Transform `json:"transform"`
	Viewport  timeline.Viewport  `json:"viewport"`
	MouseX    float64            `json:"mouse_x"`
	DeltaY    float64            `json:"delta_y"`
	StartX    float64            `json:"start_x"`
	CurrentX  float64            `json:"current_x"`
}

// waveform reduces a raw sample buffer to an envelope and its peaks,
// resampling first when target_rate differs from sample_rate.
func (s *Server) waveform(c *gin.Context) {
	var req waveformRequest
	if !bind(c, &req) {
		return
	}

	samples := req.Samples
	if req.TargetRate > 0 && req.SampleRate != req.TargetRate {
		resampled, err := waveform.Resample(samples, req.SampleRate, req.TargetRate)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, waveform.ErrInvalidRate) || errors.Is(err, waveform.ErrTooLarge) {
				status = http.StatusUnprocessableEntity
			}
			c.JSON(status, gin.H{
				"error": err.Error(),
			})
			return
		}
		samples = resampled
	}

	threshold := s.cfg.Waveform.PeakThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	analyzer := waveform.NewAnalyzer(s.cfg.Waveform.Ratio)
	analyzer.ProcessBuffer(samples)
	c.JSON(http.StatusOK, gin.H{
		"ratio":    analyzer.Ratio(),
		"envelope": nonNil(analyzer.Envelope()),
		"peaks":    nonNil(analyzer.Peaks(threshold)),
	})
}

func (s *Server) timelineTime(c *gin.Context) {
	var req timelineRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"time_ms": timeline.TimeAt(req.Transform, req.Viewport, req.MouseX),
	})
}

func (s *Server) timelineWheel(c *gin.Context) {
	var req timelineRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transform": timeline.Wheel(req.Transform, req.Viewport, req.MouseX, req.DeltaY),
	})
}

func (s *Server) timelinePan(c *gin.Context) {
	var req timelineRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transform": timeline.Pan(req.Transform, req.Viewport, req.StartX, req.CurrentX),
	})
}
