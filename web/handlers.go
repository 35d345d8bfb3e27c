package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"ytscraper/export"
	"ytscraper/storage"
	"ytscraper/youtube"
)

const videosPerPage = 12

type scrapeRequest struct {
	ChannelURL string `json:"channel_url"`
	APIKey     string `json:"api_key"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type scrapeResponse struct {
	JobID string `json:"job_id"`
}

type progressResponse struct {
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Done     bool    `json:"done"`
	Error    string  `json:"error,omitempty"`
}

type resultsSummary struct {
	TotalViews        int64   `json:"total_views"`
	TotalLikes        int64   `json:"total_likes"`
	TotalComments     int64   `json:"total_comments"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

type resultsResponse struct {
	Channel     *youtube.Channel `json:"channel"`
	Videos      []youtube.Video  `json:"videos"`
	Page        int              `json:"page"`
	TotalPages  int              `json:"total_pages"`
	TotalVideos int              `json:"total_videos"`
	Summary     resultsSummary   `json:"summary"`
}

type exportRequest struct {
	JobID  string `json:"job_id"`
	Format string `json:"format"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleScrape(c echo.Context) error {
	var req scrapeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.ChannelURL == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "channel_url is required"})
	}
	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = s.cfg.APIKey
	}
	if apiKey == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "api_key is required"})
	}
	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	// Sweep stale sessions before admitting new work.
	s.sessions.Cleanup()

	pipeline, err := s.newPipeline(c.Request().Context(), apiKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("pipeline setup failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to initialize scraper"})
	}

	j := &job{id: uuid.NewString(), progress: pipeline.Progress()}
	s.jobs.add(j)

	go s.runJob(j, pipeline, req.ChannelURL, req.StartDate, req.EndDate)

	return c.JSON(http.StatusAccepted, scrapeResponse{JobID: j.id})
}

// runJob drives one scrape to completion and stores the result as a
// session. The pipeline itself is strictly sequential; this goroutine
// exists only so progress can be polled while it runs. Finished jobs are
// evicted from the registry after the retention window so the registry
// does not grow without bound.
func (s *Server) runJob(j *job, pipeline Pipeline, channelURL, startDate, endDate string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	defer time.AfterFunc(s.jobRetention, func() { s.jobs.remove(j.id) })

	result, err := pipeline.Scrape(ctx, channelURL, startDate, endDate)
	if err != nil {
		s.logger.Error().Err(err).Str("job_id", j.id).Msg("scrape failed")
		j.finish(err)
		return
	}
	if err := s.sessions.Put(j.id, result); err != nil {
		s.logger.Error().Err(err).Str("job_id", j.id).Msg("session write failed")
		j.finish(err)
		return
	}
	s.logger.Info().
		Str("job_id", j.id).
		Str("channel_id", result.Channel.ID).
		Int("videos", len(result.Videos)).
		Msg("scrape complete")
	j.finish(nil)
}

func (s *Server) handleProgress(c echo.Context) error {
	id := c.Param("id")
	j, ok := s.jobs.get(id)
	if !ok {
		// A finished job from a previous process still has its session.
		if _, err := s.sessions.Get(id); err == nil {
			return c.JSON(http.StatusOK, progressResponse{Status: "Video data collection complete", Progress: 100, Done: true})
		}
		return c.JSON(http.StatusNotFound, errorResponse{Error: "job not found"})
	}

	status, pct := j.progress.Snapshot()
	done, err := j.state()
	resp := progressResponse{Status: status, Progress: pct, Done: done}
	if err != nil {
		resp.Error = userMessage(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleResults(c echo.Context) error {
	session, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		return sessionError(c, err)
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "page must be a positive integer"})
		}
		page = n
	}

	videos := session.Result.Videos
	total := len(videos)
	totalPages := (total + videosPerPage - 1) / videosPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * videosPerPage
	end := start + videosPerPage
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, resultsResponse{
		Channel:     session.Result.Channel,
		Videos:      videos[start:end],
		Page:        page,
		TotalPages:  totalPages,
		TotalVideos: total,
		Summary:     summarize(videos),
	})
}

func (s *Server) handleExport(c echo.Context) error {
	var req exportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	session, err := s.sessions.Get(req.JobID)
	if err != nil {
		return sessionError(c, err)
	}

	path, err := export.Export(session.Result.Channel, session.Result.Videos, req.Format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "format must be csv, json or excel"})
		}
		s.logger.Error().Err(err).Str("job_id", req.JobID).Msg("export failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "export failed"})
	}
	defer os.Remove(path)

	return c.Attachment(path, filepath.Base(path))
}

func summarize(videos []youtube.Video) resultsSummary {
	var s resultsSummary
	var engagement float64
	for _, v := range videos {
		s.TotalViews += v.ViewCount
		s.TotalLikes += v.LikeCount
		s.TotalComments += v.CommentCount
		engagement += v.EngagementRate
	}
	if len(videos) > 0 {
		s.AvgEngagementRate = engagement / float64(len(videos))
	}
	return s
}

func sessionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "results not found"})
	case errors.Is(err, storage.ErrSessionExpired):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "results expired"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load results"})
	}
}

// userMessage maps pipeline errors to the messages shown to API consumers.
func userMessage(err error) string {
	switch {
	case errors.Is(err, youtube.ErrQuotaExceeded):
		return "YouTube API quota exceeded, try again later"
	case errors.Is(err, youtube.ErrInvalidURL):
		return "unrecognized channel URL"
	case errors.Is(err, youtube.ErrChannelNotFound):
		return "channel not found"
	default:
		return err.Error()
	}
}

func validateDateRange(start, end string) error {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return errors.New("start_date must be YYYY-MM-DD")
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return errors.New("end_date must be YYYY-MM-DD")
	}
	if e.Before(s) {
		return errors.New("end_date must not be before start_date")
	}
	return nil
}
