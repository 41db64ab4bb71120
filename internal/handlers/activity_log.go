package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/activitylog"
)

// ListActivityLogs serves the audit trail with server-side search, date
// filtering, sorting and pagination.
func (h *Handler) ListActivityLogs(c *gin.Context) {
	f := activitylog.Filter{
		Search:    c.Query("q"),
		SortField: c.Query("sort_field"),
		SortOrder: c.Query("sort_order"),
	}

	if raw := c.Query("from"); raw != "" {
		ts, err := parseDate(raw, false)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be an RFC3339 timestamp or YYYY-MM-DD date"})
			return
		}
		f.From = &ts
	}
	if raw := c.Query("to"); raw != "" {
		ts, err := parseDate(raw, true)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be an RFC3339 timestamp or YYYY-MM-DD date"})
			return
		}
		f.To = &ts
	}

	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", activitylog.DefaultPageSize)

	rows, total, err := h.audit.Query(c.Request.Context(), f, page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":     activitylog.BuildViews(rows),
		"total_count": total,
		"page":        page,
		"page_size":   pageSize,
	})
}

// parseDate accepts RFC3339 or a bare date; a bare "to" date is pushed to the
// end of its day so the range is inclusive.
func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	ts, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		ts = ts.Add(24*time.Hour - time.Nanosecond)
	}
	return ts, nil
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
