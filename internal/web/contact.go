package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Zachkp/kussetech/internal/analytics"
	"github.com/Zachkp/kussetech/internal/content"
	"github.com/Zachkp/kussetech/internal/mail"
)

type contactForm struct {
	Name    string `form:"name" binding:"required"`
	Email   string `form:"email" binding:"required"`
	Message string `form:"message" binding:"required"`
}

func (f *contactForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)
}

// validate checks the trimmed form and returns the form names of the missing
// fields.
func (f *contactForm) validate() ([]string, error) {
	err := binding.Validator.ValidateStruct(f)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return missing, err
}

func (s *server) renderContact(c *gin.Context, form contactForm, errMsg string) {
	c.HTML(http.StatusOK, "contact.html", s.page(c, "Contact - "+content.SiteName, gin.H{
		"Form":  form,
		"Error": errMsg,
	}))
}

func (s *server) contactPage(c *gin.Context) {
	s.renderContact(c, contactForm{}, "")
}

func (s *server) track(c *gin.Context, name string, props analytics.Properties) {
	s.tracker.Track(context.WithoutCancel(c.Request.Context()), analytics.NewEvent(name, props))
}

// contactSubmit accepts the form, queues the notification mail and redirects.
// Delivery happens after the response; failures are only logged.
func (s *server) contactSubmit(c *gin.Context) {
	var form contactForm
	// Validation runs again below on the trimmed values.
	var verrs validator.ValidationErrors
	if err := c.ShouldBind(&form); err != nil && !errors.As(err, &verrs) {
		requestLogger(c).WithError(err).Warn("Malformed contact form")
	}
	form.trim()

	s.track(c, "Contact Form Submitted", analytics.Properties{
		"has_name":       form.Name != "",
		"has_email":      form.Email != "",
		"has_message":    form.Message != "",
		"message_length": utf8.RuneCountInString(form.Message),
	})

	if missing, err := form.validate(); err != nil {
		s.track(c, "Contact Form Validation Failed", analytics.Properties{
			"missing_fields": missing,
		})
		s.renderContact(c, form, content.ContactRequired)
		return
	}

	s.track(c, "Contact Form Success", analytics.Properties{
		"sender_domain": senderDomain(form.Email),
	})
	s.sendContactMail(c, mail.Message{Name: form.Name, Email: form.Email, Message: form.Message})

	s.flash(c, fmt.Sprintf(content.ContactSuccess, form.Name))
	c.Redirect(http.StatusSeeOther, "/contact")
}

func (s *server) sendContactMail(c *gin.Context, msg mail.Message) {
	logger := requestLogger(c)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), s.outboundTimeout())

	go func() {
		defer cancel()
		err := s.mailer.Send(ctx, msg)
		switch {
		case errors.Is(err, mail.ErrDisabled):
			logger.Debug("Mail disabled, contact message not sent")
		case err != nil:
			logger.WithError(err).Error("Failed to send contact email")
		default:
			logger.Info("Contact email sent")
		}
	}()
}

func senderDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return strings.ToLower(email[i+1:])
	}
	return ""
}
