package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/captionflow/captionflow/internal/editor"
	"github.com/captionflow/captionflow/internal/subtitle"
)

// largest subtitle body accepted by the import endpoint
var maxImportBytes int64 = 32 << 20

type createCaptionRequest struct {
	StartMS *int64 `json:"start_ms" binding:"required"`
}

type timedCaptionRequest struct {
	StartMS *int64 `json:"start_ms" binding:"required"`
	EndMS   *int64 `json:"end_ms" binding:"required"`
	Text    string `json:"text"`
}

type textRequest struct {
	Text string `json:"text"`
}

type speakerRequest struct {
	Speaker string `json:"speaker"`
}

type deleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

type splitRequest struct {
	AtMS *int64 `json:"at_ms" binding:"required"`
}

type selectionRequest struct {
	Positions []int `json:"positions"`
}

type shiftRequest struct {
	DeltaMS *int64 `json:"delta_ms" binding:"required"`
}

type stretchRequest struct {
	Factor *float64 `json:"factor" binding:"required"`
}

type findReplaceRequest struct {
	Find          string `json:"find"`
	Replace       string `json:"replace"`
	CaseSensitive bool   `json:"case_sensitive"`
}

type profanityRequest struct {
	Bleep bool `json:"bleep"`
}

// writeError maps the editor's failure taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case editor.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, subtitle.ErrUnsupportedFormat), errors.Is(err, subtitle.ErrExportOnly):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, subtitle.ErrParse):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"details": err.Error(),
	})
}

// bind decodes the JSON body, answering 400 itself on failure
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

// withStore runs fn against the session named in the path and writes its
// error, if any.
func (s *Server) withStore(c *gin.Context, fn func(store *editor.Store) error) {
	if err := s.sessions.With(c.Param("sid"), fn); err != nil {
		writeError(c, err)
	}
}

func historyState(store *editor.Store) gin.H {
	return gin.H{
		"can_undo": store.CanUndo(),
		"can_redo": store.CanRedo(),
	}
}

// found reports a by-id edit; a miss is not an error
func found(c *gin.Context, store *editor.Store, ok bool) {
	c.JSON(http.StatusOK, gin.H{
		"found":   ok,
		"history": historyState(store),
	})
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "captionflow",
		"sessions": s.sessions.Len(),
		"formats":  subtitle.Formats(),
	})
}

func (s *Server) createSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{
		"id": s.sessions.Create(),
	})
}

func (s *Server) deleteSession(c *gin.Context) {
	if !s.sessions.Delete(c.Param("sid")) {
		writeError(c, ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listCaptions(c *gin.Context) {
	s.withStore(c, func(store *editor.Store) error {
		c.JSON(http.StatusOK, gin.H{
			"captions": nonNil(store.Captions()),
			"history":  historyState(store),
		})
		return nil
	})
}

func (s *Server) getCaption(c *gin.Context) {
	s.withStore(c, func(store *editor.Store) error {
		caption, ok := store.Caption(c.Param("cid"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Caption not found",
			})
			return nil
		}
		c.JSON(http.StatusOK, gin.H{
			"caption": caption,
		})
		return nil
	})
}

func (s *Server) createCaption(c *gin.Context) {
	var req createCaptionRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		c.JSON(http.StatusCreated, gin.H{
			"id": store.Create(*req.StartMS),
		})
		return nil
	})
}

func (s *Server) addTimed(c *gin.Context) {
	var req timedCaptionRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		c.JSON(http.StatusCreated, gin.H{
			"id": store.AddTimed(*req.StartMS, *req.EndMS, req.Text),
		})
		return nil
	})
}

func (s *Server) updateText(c *gin.Context) {
	var req textRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		found(c, store, store.UpdateText(c.Param("cid"), req.Text))
		return nil
	})
}

func (s *Server) updateTiming(c *gin.Context) {
	var req timedCaptionRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		found(c, store, store.UpdateTiming(c.Param("cid"), *req.StartMS, *req.EndMS))
		return nil
	})
}

func (s *Server) updateStyle(c *gin.Context) {
	style := subtitle.DefaultStyle()
	if !bind(c, &style) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		found(c, store, store.UpdateStyle(c.Param("cid"), style))
		return nil
	})
}

func (s *Server) updateSpeaker(c *gin.Context) {
	var req speakerRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		found(c, store, store.UpdateSpeaker(c.Param("cid"), req.Speaker))
		return nil
	})
}

func (s *Server) updateGlobalStyle(c *gin.Context) {
	style := subtitle.DefaultStyle()
	if !bind(c, &style) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		store.UpdateGlobalStyle(style)
		c.JSON(http.StatusOK, gin.H{
			"history": historyState(store),
		})
		return nil
	})
}

func (s *Server) deleteCaptions(c *gin.Context) {
	var req deleteRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		c.JSON(http.StatusOK, gin.H{
			"removed": store.Delete(req.IDs),
			"history": historyState(store),
		})
		return nil
	})
}

func (s *Server) split(c *gin.Context) {
	var req splitRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		ok, err := store.Split(c.Param("cid"), *req.AtMS)
		if err != nil {
			return err
		}
		found(c, store, ok)
		return nil
	})
}

func (s *Server) getSelection(c *gin.Context) {
	s.withStore(c, func(store *editor.Store) error {
		c.JSON(http.StatusOK, gin.H{
			"positions": nonNil(store.Selection()),
		})
		return nil
	})
}

func (s *Server) setSelection(c *gin.Context) {
	var req selectionRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		if err := store.Select(req.Positions...); err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"positions": nonNil(store.Selection()),
		})
		return nil
	})
}

func (s *Server) clearSelection(c *gin.Context) {
	s.withStore(c, func(store *editor.Store) error {
		store.ClearSelection()
		c.Status(http.StatusNoContent)
		return nil
	})
}

func (s *Server) merge(c *gin.Context) {
	s.withStore(c, func(store *editor.Store) error {
		if err := store.MergeSelected(); err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"captions": nonNil(store.Captions()),
			"history":  historyState(store),
		})
		return nil
	})
}

func (s *Server) shift(c *gin.Context) {
	var req shiftRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		store.ShiftAll(*req.DeltaMS)
		c.JSON(http.StatusOK, gin.H{
			"history": historyState(store),
		})
		return nil
	})
}

func (s *Server) stretch(c *gin.Context) {
	var req stretchRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		if err := store.StretchAll(*req.Factor); err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"history": historyState(store),
		})
		return nil
	})
}

func (s *Server) sortByStart(c *gin.Context) {
	s.withStore(c, func(store *editor.Store) error {
		store.SortByStart()
		c.JSON(http.StatusOK, gin.H{
			"history": historyState(store),
		})
		return nil
	})
}

func (s *Server) autoPunctuate(c *gin.Context) {
	s.withStore(c, func(store *editor.Store) error {
		store.AutoPunctuate()
		c.JSON(http.StatusOK, gin.H{
			"history": historyState(store),
		})
		return nil
	})
}

func (s *Server) findReplace(c *gin.Context) {
	var req findReplaceRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		n, err := store.FindReplace(req.Find, req.Replace, req.CaseSensitive)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"replaced": n,
			"history":  historyState(store),
		})
		return nil
	})
}

func (s *Server) profanity(c *gin.Context) {
	var req profanityRequest
	if !bind(c, &req) {
		return
	}
	s.withStore(c, func(store *editor.Store) error {
		store.ApplyProfanityFilter(req.Bleep)
		c.JSON(http.StatusOK, gin.H{
			"history": historyState(store),
		})
		return nil
	})
}

func (s *Server) analysis(c *gin.Context) {
	s.withStore(c, func(store *editor.Store) error {
		c.JSON(http.StatusOK, gin.H{
			"warnings":  nonNil(store.AnalyzeReadingSpeed()),
			"conflicts": nonNil(store.DetectConflicts()),
		})
		return nil
	})
}

func (s *Server) undo(c *gin.Context) {
	s.withStore(c, func(store *editor.Store) error {
		c.JSON(http.StatusOK, gin.H{
			"applied": store.Undo(),
			"history": historyState(store),
		})
		return nil
	})
}

func (s *Server) redo(c *gin.Context) {
	s.withStore(c, func(store *editor.Store) error {
		c.JSON(http.StatusOK, gin.H{
			"applied": store.Redo(),
			"history": historyState(store),
		})
		return nil
	})
}

// importCaptions reads the raw request body in the format named by ?format=.
func (s *Server) importCaptions(c *gin.Context) {
	format, err := subtitle.ParseFormat(c.Query("format"))
	if err != nil {
		writeError(c, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "import body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
			})
			return
		}
		badRequest(c, err)
		return
	}

	s.withStore(c, func(store *editor.Store) error {
		n, err := store.Import(format, string(body))
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"imported":  n,
			"warnings":  nonNil(store.LastWarnings()),
			"conflicts": nonNil(store.LastConflicts()),
			"history":   historyState(store),
		})
		return nil
	})
}

func (s *Server) exportCaptions(c *gin.Context) {
	format, err := subtitle.ParseFormat(c.DefaultQuery("format", "srt"))
	if err != nil {
		writeError(c, err)
		return
	}

	s.withStore(c, func(store *editor.Store) error {
		out, err := store.Export(format)
		if err != nil {
			return err
		}
		c.Header("Content-Disposition", "attachment; filename=captions"+subtitle.ExtensionForFormat(format))
		c.String(http.StatusOK, "%s", out)
		return nil
	})
}

// JSON arrays instead of null for empty results
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
