package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ShayCichocki/taskflow/internal/export"
	"github.com/ShayCichocki/taskflow/internal/store"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

type reorderRequest struct {
	IDs []string `json:"ids"`
}

type moveRequest struct {
	Index *int `json:"index"`
}

type themeRequest struct {
	Theme models.ThemeMode `json:"theme"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}

// failErr maps store errors onto HTTP status codes.
func (s *Server) failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrEmptyTitle),
		errors.Is(err, store.ErrInvalidOrder),
		errors.Is(err, store.ErrInvalidPriority),
		errors.Is(err, store.ErrDuplicateID):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

// filterFromQuery builds a filter from query parameters. Unset parameters
// keep their default; unknown status or priority values are rejected.
func filterFromQuery(c *gin.Context) (models.Filter, error) {
	f := models.DefaultFilter()
	if v, ok := c.GetQuery("status"); ok && v != "" {
		f.Status = models.StatusFilter(v)
		if !f.Status.Valid() {
			return f, fmt.Errorf("invalid status %q", v)
		}
	}
	if v, ok := c.GetQuery("priority"); ok && v != "" {
		f.Priority = models.PriorityFilter(v)
		if !f.Priority.Valid() {
			return f, fmt.Errorf("invalid priority %q", v)
		}
	}
	f.Category = c.Query("category")
	f.Search = c.Query("search")
	return f, nil
}

func (s *Server) handleListTasks(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tasks := store.Apply(s.store.Tasks(), f)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tasks,
		"count":   len(tasks),
		"total":   s.store.Len(),
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var input models.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	task, err := s.store.Add(c.Request.Context(), input)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	task, err := s.store.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	task, err := s.store.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, task)
}

func (s *Server) handleMoveTask(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		fail(c, http.StatusBadRequest, "index required")
		return
	}

	if err := s.store.Move(c.Request.Context(), c.Param("id"), *req.Index); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, s.store.Tasks())
}

func (s *Server) handleReorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.store.Reorder(c.Request.Context(), req.IDs); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, s.store.Tasks())
}

func (s *Server) viewPayload() gin.H {
	return gin.H{
		"filters":   s.store.Filters(),
		"filtering": s.store.Filters().IsFiltering(),
		"tasks":     s.store.Filtered(),
	}
}

func (s *Server) handleGetView(c *gin.Context) {
	respond(c, http.StatusOK, s.viewPayload())
}

func (s *Server) handlePatchView(c *gin.Context) {
	var patch models.FilterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if patch.Status != nil && *patch.Status != "" && !patch.Status.Valid() {
		fail(c, http.StatusBadRequest, fmt.Sprintf("invalid status %q", *patch.Status))
		return
	}
	if patch.Priority != nil && *patch.Priority != "" && !patch.Priority.Valid() {
		fail(c, http.StatusBadRequest, fmt.Sprintf("invalid priority %q", *patch.Priority))
		return
	}
	s.store.PatchFilters(patch)
	respond(c, http.StatusOK, s.viewPayload())
}

func (s *Server) handleResetView(c *gin.Context) {
	s.store.ResetFilters()
	respond(c, http.StatusOK, s.viewPayload())
}

func (s *Server) handleCategories(c *gin.Context) {
	respond(c, http.StatusOK, s.store.Categories())
}

func (s *Server) handleStats(c *gin.Context) {
	respond(c, http.StatusOK, store.ComputeStats(s.store.Tasks(), s.now()))
}

func (s *Server) handleGetTheme(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"theme": s.theme.Mode()})
}

func (s *Server) handleSetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !req.Theme.Valid() {
		fail(c, http.StatusBadRequest, fmt.Sprintf("invalid theme %q (valid: light, dark)", req.Theme))
		return
	}
	if err := s.theme.Set(c.Request.Context(), req.Theme); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"theme": s.theme.Mode()})
}

func (s *Server) handleToggleTheme(c *gin.Context) {
	mode, err := s.theme.Toggle(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"theme": mode})
}

var contentTypes = map[export.Format]string{
	export.FormatJSON: "application/json",
	export.FormatYAML: "application/yaml",
	export.FormatCSV:  "text/csv",
	export.FormatPDF:  "application/pdf",
}

func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	data, err := export.Marshal(format, s.store.Tasks(), s.now())
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="tasks.%s"`, format))
	c.Data(http.StatusOK, contentTypes[format], data)
}

func (s *Server) handleImport(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	replace, err := strconv.ParseBool(c.DefaultQuery("replace", "false"))
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("invalid replace %q (want true or false)", c.Query("replace")))
		return
	}

	tasks, err := export.Read(c.Request.Body, format)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	added, updated, err := s.store.Import(c.Request.Context(), tasks, replace)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"added": added, "updated": updated})
}
