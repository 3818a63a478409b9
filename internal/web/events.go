package web

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"schoolsite/internal/blob"
	"schoolsite/internal/event"
)

// dateLayout matches the value of an HTML date input.
const dateLayout = "2006-01-02"

func (s *Server) handleCreateEvent(c *gin.Context) {
	name := c.PostForm("name")
	venue := c.PostForm("venue")
	description := c.PostForm("description")
	if name == "" || venue == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and venue are required"})
		return
	}
	startDate, err := time.ParseInLocation(dateLayout, c.PostForm("startDate"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	endDate, err := time.ParseInLocation(dateLayout, c.PostForm("endDate"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}

	header, err := c.FormFile("pic")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pic file required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		internalError(c, err)
		return
	}
	defer file.Close()

	// The blob write and the event write are two separate operations; a
	// failed event insert after a successful upload leaves an orphaned blob.
	ref, err := s.Blobs.Put(c.Request.Context(), header.Filename, file)
	if err != nil {
		internalError(c, err)
		return
	}

	_, err = s.Events.Insert(c.Request.Context(), event.Event{
		Name:        name,
		StartDate:   startDate,
		EndDate:     endDate,
		Venue:       venue,
		Description: description,
		Pic:         &event.PicRef{FileID: ref.ID, Filename: ref.Filename},
	})
	if err != nil {
		internalError(c, err)
		return
	}
	eventsCreated.Inc()
	c.JSON(http.StatusOK, "Event created Successfully")
}

// eventView is an event annotated with the formatted date fields the template
// renders.
type eventView struct {
	event.Event
	FormattedStartDate string
	FormattedEndDate   string
	SmallDate          shortDate
	ImageURL           string
}

func (s *Server) handleListEvents(c *gin.Context) {
	events, err := s.Events.ListRecent(c.Request.Context(), eventsPageSize)
	if err != nil {
		internalError(c, err)
		return
	}

	views := make([]eventView, 0, len(events))
	for _, evt := range events {
		v := eventView{
			Event:              evt,
			FormattedStartDate: formatLong(evt.StartDate),
			FormattedEndDate:   formatLong(evt.EndDate),
			SmallDate:          toShortDate(evt.StartDate),
		}
		if evt.Pic != nil {
			v.ImageURL = "/files/" + evt.Pic.Filename
		}
		views = append(views, v)
	}
	c.HTML(http.StatusOK, "events.tmpl", gin.H{"Events": views})
}

func (s *Server) handleServeFile(c *gin.Context) {
	filename := c.Param("filename")

	if _, err := s.Blobs.Stat(c.Request.Context(), filename); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			c.String(http.StatusNotFound, "File not found")
			return
		}
		internalError(c, err)
		return
	}

	// Content type is fixed; uploads are event images.
	c.Header("Content-Type", "image/jpeg")
	c.Status(http.StatusOK)
	if err := s.Blobs.Stream(c.Request.Context(), filename, c.Writer); err != nil {
		// The status line is already written; all we can do is log.
		log.Printf("stream %s: %v", filename, err)
		return
	}
	filesServed.Inc()
}
