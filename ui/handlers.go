package ui

import (
	"bytes"
	stderrors "errors"
	"log"
	"net/http"
	"strconv"

	"dashkit/adapters/render"
	domainDataset "dashkit/domain/dataset"
	"dashkit/internal/errors"
	"dashkit/internal/report"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUpload loads the multipart "file" field as the new working dataset
func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"code":  "PAYLOAD_TOO_LARGE",
				"error": "upload exceeds the size limit",
			})
			return
		}
		writeError(c, errors.InvalidInput("multipart field \"file\" is required"))
		return
	}

	f, err := header.Open()
	if err != nil {
		writeError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer f.Close()

	log.Printf("[Upload] Loading %s (%d bytes)", header.Filename, header.Size)
	info, err := s.dashboard.Load(c.Request.Context(), f, header.Filename)
	if err != nil {
		writeError(c, err)
		return
	}
	log.Printf("[Upload] Loaded %s as version %s (%d rows, %d columns)",
		info.Name, info.Version, info.RowCount, info.ColumnCount)
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleDataset(c *gin.Context) {
	info, err := s.dashboard.Current(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleRender(c *gin.Context) {
	sel, ok := bindSelection(c)
	if !ok {
		return
	}
	r, err := s.dashboard.Render(c.Request.Context(), sel)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleReport(c *gin.Context) {
	format, ok := report.ParseFormat(c.Query("format"))
	if !ok {
		writeError(c, errors.InvalidInput("format must be markdown or html"))
		return
	}
	sel, ok := bindSelection(c)
	if !ok {
		return
	}
	r, err := s.dashboard.Render(c.Request.Context(), sel)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, format.ContentType(), report.Render(format, r.Name, r.Summary))
}

// handleChartPNG rasterises the first chart named in the selection
func (s *Server) handleChartPNG(c *gin.Context) {
	sel, ok := bindSelection(c)
	if !ok {
		return
	}
	if len(sel.Charts) == 0 {
		writeError(c, errors.InvalidInput("charts must name the chart to draw"))
		return
	}
	sel.Charts = sel.Charts[:1]

	r, err := s.dashboard.Render(c.Request.Context(), sel)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(r.Charts) == 0 {
		writeError(c, errors.InternalError("render returned no charts"))
		return
	}
	res := r.Charts[0]
	if res.Err != nil {
		writeError(c, res.Err)
		return
	}

	size := render.Size{Width: queryInt(c, "width"), Height: queryInt(c, "height")}
	var buf bytes.Buffer
	if err := render.PNGSize(&buf, res.Chart.Spec, size); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// bindSelection decodes the JSON selection; an empty body is the empty selection
func bindSelection(c *gin.Context) (domainDataset.SelectionState, bool) {
	var sel domainDataset.SelectionState
	if c.Request.ContentLength == 0 {
		return sel, true
	}
	if err := c.ShouldBindJSON(&sel); err != nil {
		writeError(c, errors.ParseError("invalid selection body", err))
		return sel, false
	}
	return sel, true
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// statusFor maps error codes onto HTTP statuses
func statusFor(code string) int {
	switch code {
	case errors.CodeParseError,
		errors.CodeEmptyDataset,
		errors.CodeUnknownColumn,
		errors.CodeNoApplicableChart,
		errors.CodeInvalidFilter,
		errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		log.Printf("[Server] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"code": code, "error": errors.UserMessage(err)})
}
