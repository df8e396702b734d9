package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clans/pkg/telemetry/correlation"
)

const HeaderProcessTime = "X-Process-Time"

// ProcessTime reports handler latency in milliseconds. The header is set
// just before the status line goes out, so it also covers aborted requests.
func ProcessTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		w := &processTimeWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Writer = w
		c.Next()
		w.stamp()
	}
}

type processTimeWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *processTimeWriter) stamp() {
	if w.stamped || w.ResponseWriter.Written() {
		return
	}
	w.stamped = true
	elapsed := float64(time.Since(w.start).Nanoseconds()) / 1e6
	w.Header().Set(HeaderProcessTime, strconv.FormatFloat(elapsed, 'f', 3, 64))
}

func (w *processTimeWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *processTimeWriter) Write(data []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(data)
}

func (w *processTimeWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

// Correlation accepts a ULID correlation id from the caller or mints one,
// and echoes it back.
func Correlation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, id := correlation.FromHeader(c.Request.Context(), c.GetHeader(correlation.HeaderCorrelationID))
		c.Request = c.Request.WithContext(ctx)
		c.Header(correlation.HeaderCorrelationID, id)
		c.Next()
	}
}
