package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolsite/internal/enroll"
)

type enrollForm struct {
	FullName    string `form:"fullName" json:"fullName" binding:"required"`
	ParentEmail string `form:"parentEmail" json:"parentEmail" binding:"required"`
	Gender      string `form:"gender" json:"gender" binding:"required"`
	Age         int    `form:"age" json:"age" binding:"required"`
	Grade       string `form:"grade" json:"grade" binding:"required"`
	Branch      string `form:"branch" json:"branch" binding:"required"`
}

func (s *Server) handleEnroll(c *gin.Context) {
	var req enrollForm
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := s.Enrolls.Insert(c.Request.Context(), enroll.Enrollment{
		FullName:    req.FullName,
		ParentEmail: req.ParentEmail,
		Gender:      req.Gender,
		Age:         req.Age,
		Grade:       req.Grade,
		Branch:      req.Branch,
	})
	if err != nil {
		internalError(c, err)
		return
	}
	enrollmentsSaved.Inc()
	c.JSON(http.StatusOK, "Enrollment Saved Successfully")
}

func (s *Server) handleListEnrollments(c *gin.Context) {
	students, err := s.Enrolls.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.HTML(http.StatusOK, "enrolls.tmpl", gin.H{"Students": students})
}
