// Package submissions accepts the public contact, dealer and career forms
// and lets the admin read and discard them.
package submissions

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"paperpaints/common"
	"paperpaints/content"
	"paperpaints/logs"
	"paperpaints/metrics"
	"paperpaints/models"
	"paperpaints/storage"
	"paperpaints/store"
)

const resumeFolder = "resumes"

var resumeTypes = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".odt": true, ".rtf": true, ".txt": true,
}

// Notifier tells the owner about a new submission.
type Notifier interface {
	NotifySubmission(kind string, fields map[string]string) error
}

type Options struct {
	// SubmitLimit caps form posts per client IP per minute.
	SubmitLimit int
	// MaxResumeBytes caps the size of an attached résumé.
	MaxResumeBytes int64
}

type SubmissionsModule struct {
	contact     *content.Resource[models.ContactSubmission]
	dealer      *content.Resource[models.DealerSubmission]
	career      *content.Resource[models.CareerSubmission]
	media       storage.Storage
	notifier    Notifier
	requireAuth gin.HandlerFunc
	opts        Options
}

func NewSubmissionsModule(db *gorm.DB, requireAuth gin.HandlerFunc, media storage.Storage, notifier Notifier, opts Options) *SubmissionsModule {
	m := &SubmissionsModule{
		contact:     content.NewResource[models.ContactSubmission]("contact submission", "contact submissions", store.New[models.ContactSubmission](db)),
		dealer:      content.NewResource[models.DealerSubmission]("dealer submission", "dealer submissions", store.New[models.DealerSubmission](db)),
		career:      content.NewResource[models.CareerSubmission]("career submission", "career submissions", store.New[models.CareerSubmission](db)),
		media:       media,
		notifier:    notifier,
		requireAuth: requireAuth,
		opts:        opts,
	}
	m.career.OnDelete = m.removeResume
	return m
}

func (m *SubmissionsModule) RegisterRoutes(router gin.IRouter) {
	limited := func(h gin.HandlerFunc) []gin.HandlerFunc { return []gin.HandlerFunc{h} }
	if m.opts.SubmitLimit > 0 {
		limiter := common.RateLimit(m.opts.SubmitLimit, time.Minute)
		limited = func(h gin.HandlerFunc) []gin.HandlerFunc { return []gin.HandlerFunc{limiter, h} }
	}

	contact := router.Group("/contact")
	contact.POST("", limited(m.createContact)...)
	contact.GET("", m.requireAuth, m.contact.List)
	contact.GET("/:id", m.requireAuth, m.contact.Get)
	contact.DELETE("/:id", m.requireAuth, m.contact.Delete)

	dealer := router.Group("/dealer")
	dealer.POST("", limited(m.createDealer)...)
	dealer.GET("", m.requireAuth, m.dealer.List)
	dealer.GET("/:id", m.requireAuth, m.dealer.Get)
	dealer.DELETE("/:id", m.requireAuth, m.dealer.Delete)

	career := router.Group("/career")
	career.POST("", limited(m.createCareer)...)
	career.GET("", m.requireAuth, m.career.List)
	career.GET("/:id", m.requireAuth, m.career.Get)
	career.DELETE("/:id", m.requireAuth, m.career.Delete)
}

func (m *SubmissionsModule) createContact(c *gin.Context) {
	var in ContactInput
	if err := c.ShouldBind(&in); err != nil {
		common.Respond(c, common.Validation("Invalid request body"), "")
		return
	}
	accept[models.ContactSubmission](m, c, "contact", m.contact, &in, "Failed to submit contact form")
}

func (m *SubmissionsModule) createDealer(c *gin.Context) {
	var in DealerInput
	if err := c.ShouldBind(&in); err != nil {
		common.Respond(c, common.Validation("Invalid request body"), "")
		return
	}
	accept[models.DealerSubmission](m, c, "dealer", m.dealer, &in, "Failed to submit dealer application")
}

// createCareer takes JSON or a multipart form with an optional résumé file.
func (m *SubmissionsModule) createCareer(c *gin.Context) {
	const fallback = "Failed to submit career application"

	var in CareerInput
	if err := c.ShouldBind(&in); err != nil {
		common.Respond(c, common.Validation("Invalid request body"), "")
		return
	}
	if err := in.validate(); err != nil {
		common.Respond(c, err, fallback)
		return
	}

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		fh, err := c.FormFile("resume")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			common.Respond(c, common.Validation("Invalid resume upload"), "")
			return
		default:
			url, err := m.uploadResume(c, fh)
			if err != nil {
				common.Respond(c, err, "Failed to upload resume")
				return
			}
			in.ResumeURL = url
		}
	}

	accept[models.CareerSubmission](m, c, "career", m.career, &in, fallback)
}

func (m *SubmissionsModule) uploadResume(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	if m.opts.MaxResumeBytes > 0 && fh.Size > m.opts.MaxResumeBytes {
		return "", &common.Error{Status: http.StatusRequestEntityTooLarge, Message: "Resume is too large"}
	}
	if !resumeTypes[strings.ToLower(path.Ext(fh.Filename))] {
		return "", common.Validation("Unsupported resume file type")
	}
	if m.media == nil {
		return "", common.Misconfigured("Media storage is not configured")
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return storage.Upload(c.Request.Context(), m.media, resumeFolder, fh.Filename, contentType, f)
}

// removeResume deletes the résumé of a discarded career submission when it
// lives on the media host. Failures are logged only.
func (m *SubmissionsModule) removeResume(c *gin.Context, rec *models.CareerSubmission) {
	if m.media == nil || rec.ResumeURL == "" {
		return
	}
	name, ok := storage.NameFromURL(m.media, rec.ResumeURL)
	if !ok {
		return
	}
	if err := m.media.DeleteFile(c.Request.Context(), name); err != nil {
		logs.Logger.WithFields(logrus.Fields{
			"reqid": common.RequestIDFrom(c),
			"name":  name,
		}).WithError(err).Warn("resume cleanup failed")
	}
}

// accept validates and stores a public submission, then notifies the owner.
// A failed notice is logged and never fails the request.
func accept[T any](m *SubmissionsModule, c *gin.Context, kind string, r *content.Resource[T], in lead[T], fallback string) {
	if err := in.validate(); err != nil {
		common.Respond(c, err, fallback)
		return
	}

	rec := in.record()
	if err := r.Store.Create(c.Request.Context(), rec); err != nil {
		common.Respond(c, err, fallback)
		return
	}
	metrics.ObserveSubmission(kind)

	if m.notifier != nil {
		if err := m.notifier.NotifySubmission(kind, in.fields()); err != nil {
			logs.Logger.WithFields(logrus.Fields{
				"reqid": common.RequestIDFrom(c),
				"kind":  kind,
			}).WithError(err).Warn("submission notice failed")
		}
	}

	r.Write(c, http.StatusCreated, rec, fallback)
}
