package controller

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"brickvault/apiclient"
	"brickvault/listsync"
	"brickvault/service"
	"brickvault/session"
	"brickvault/utils"
)

// Renderer turns page data into HTML or JSON, and maps errors to the
// retry page, the flash slot or a status code. Every controller embeds one.
type Renderer struct {
	views    *service.RenderService
	currency string
}

// NewRenderer creates a new Renderer
func NewRenderer(views *service.RenderService, currency string) *Renderer {
	return &Renderer{views: views, currency: currency}
}

// wantsJSON reports whether the client asked for JSON instead of HTML
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorf("❌ writeJSON: %v", err)
	}
}

// sessionOf returns the request's session. Sessions middleware guarantees one.
func sessionOf(r *http.Request) *session.Session {
	return session.FromContext(r.Context())
}

// apiContext returns the request context carrying the user's API credentials
func apiContext(r *http.Request) (*session.Session, session.Auth, *http.Request) {
	sess := sessionOf(r)
	auth := sess.Auth()
	return sess, auth, r.WithContext(auth.Context(r.Context()))
}

// render writes data as JSON or as the named page inside the layout
func (v *Renderer) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	v.renderStatus(w, r, http.StatusOK, name, title, data)
}

func (v *Renderer) renderStatus(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	sess := sessionOf(r)
	if wantsJSON(r) {
		writeJSON(w, status, map[string]any{
			"success": status < 400,
			"data":    data,
			"flashes": sess.Flashes(),
		})
		return
	}

	page := service.Page{
		Title:    title,
		Path:     r.URL.RequestURI(),
		Auth:     sess.Auth(),
		Flashes:  sess.Flashes(),
		Currency: v.currency,
		Data:     data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := v.views.Render(w, name, page); err != nil {
		zap.S().Errorf("❌ render: page=%s: %v", name, err)
	}
}

// errorPage is the data of the retry / failure page
type errorPage struct {
	Message  string
	RetryURL string
}

// superseded reports whether err only means a later page load of the same
// list overtook this one while the request itself is still alive
func superseded(r *http.Request, err error) bool {
	return errors.Is(err, context.Canceled) && r.Context().Err() == nil
}

// fail answers a failed GET. Network failures get a retry page linking back
// to the same URL; application failures show the server message.
func (v *Renderer) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if r.Context().Err() != nil {
		zap.S().Debugf("%s: client went away: %v", op, err)
		return
	}
	zap.S().Errorf("❌ %s: %v", op, err)

	status := http.StatusBadGateway
	data := errorPage{Message: messageFor(err)}
	switch {
	case apiclient.IsStatus(err, http.StatusNotFound):
		status = http.StatusNotFound
		data.Message = "We couldn't find that page."
	case apiclient.IsRetryable(err):
		data.RetryURL = r.URL.RequestURI()
	default:
		var appErr *apiclient.AppError
		if errors.As(err, &appErr) {
			status = http.StatusUnprocessableEntity
		}
	}
	v.renderStatus(w, r, status, "error", "Something went wrong", data)
}

// messageFor returns the text shown in the message slot for err
func messageFor(err error) string {
	var validation *utils.ValidationError
	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.Is(err, listsync.ErrInFlight):
		return "That set is still being updated. Please wait a moment."
	case errors.Is(err, listsync.ErrNotConfirmed):
		return "Please confirm before deleting."
	case errors.Is(err, listsync.ErrReadOnly):
		return "Sign in to add sets to your collection or wishlist."
	case errors.Is(err, listsync.ErrNotOwned):
		return "Only sets already in your collection can be changed."
	case errors.Is(err, listsync.ErrNothingSelected):
		return "Select at least one set first."
	case errors.Is(err, listsync.ErrInvalidQuantity):
		return "Quantity must be a whole number of at least 1."
	case errors.Is(err, listsync.ErrUnknownItem):
		return "That set is no longer in this list."
	case errors.Is(err, listsync.ErrUnsupported):
		return "That action isn't available here."
	case errors.Is(err, listsync.ErrExhausted):
		return "Everything has been loaded."
	}
	return apiclient.UserMessage(err)
}

// finish completes a POST: on success it flashes ok (if any), on failure the
// error message; then it redirects back or answers JSON with extra.
func (v *Renderer) finish(w http.ResponseWriter, r *http.Request, op, back string, err error, ok string, extra any) {
	sess := sessionOf(r)
	if err != nil {
		zap.S().Errorf("❌ %s: %v", op, err)
	} else {
		zap.S().Debugf("✅ %s", op)
	}

	if wantsJSON(r) {
		status := http.StatusOK
		body := map[string]any{"success": err == nil}
		if err != nil {
			status = statusFor(err)
			body["message"] = messageFor(err)
		} else if ok != "" {
			body["message"] = ok
		}
		if extra != nil {
			body["data"] = extra
		}
		writeJSON(w, status, body)
		return
	}

	if err != nil {
		sess.AddFlash("error", messageFor(err))
	} else {
		sess.AddFlash("success", ok)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func statusFor(err error) int {
	var validation *utils.ValidationError
	var appErr *apiclient.AppError
	switch {
	case errors.As(err, &validation), errors.Is(err, listsync.ErrInvalidQuantity),
		errors.Is(err, listsync.ErrNothingSelected), errors.Is(err, listsync.ErrNotConfirmed):
		return http.StatusBadRequest
	case errors.Is(err, listsync.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, listsync.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, listsync.ErrUnknownItem), errors.Is(err, listsync.ErrNotOwned),
		errors.Is(err, listsync.ErrUnsupported):
		return http.StatusUnprocessableEntity
	case errors.As(err, &appErr):
		return http.StatusUnprocessableEntity
	case apiclient.IsRetryable(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// backTo returns the form's return_to when it is a local path, else fallback
func backTo(r *http.Request, fallback string) string {
	next := r.FormValue("return_to")
	if next == "" {
		next = r.URL.Query().Get("next")
	}
	if isLocalPath(next) {
		return next
	}
	return fallback
}

func isLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	u, err := url.Parse(p)
	return err == nil && u.Host == "" && u.Scheme == ""
}

// confirmPage is the blocking confirmation shown before any delete
type confirmPage struct {
	Message  string
	Action   string
	ReturnTo string
	Fields   map[string]string
}

// confirm renders the confirmation dialog for a destructive action
func (v *Renderer) confirm(w http.ResponseWriter, r *http.Request, message, action, returnTo string, fields map[string]string) {
	v.render(w, r, "confirm", "Are you sure?", confirmPage{
		Message:  message,
		Action:   action,
		ReturnTo: returnTo,
		Fields:   fields,
	})
}

// confirmed reports whether a destructive POST carries confirm=yes
func confirmed(r *http.Request) bool {
	return r.FormValue("confirm") == "yes"
}

// pathInt parses a numeric path value
func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.PathValue(name))
}

// queryPage reads ?page=, defaulting to 1
func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// notFound renders the not-found page
func (v *Renderer) notFound(w http.ResponseWriter, r *http.Request) {
	v.renderStatus(w, r, http.StatusNotFound, "error", "Not found", errorPage{Message: "We couldn't find that page."})
}

var errNoFile = &utils.ValidationError{Field: "file", Message: "Please choose a file to upload."}

// formFile reads one uploaded file. The body cap leaves room above maxMB so
// a too-large file still gets the size message rather than a generic error.
func formFile(w http.ResponseWriter, r *http.Request, field string, maxMB int) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxMB)*4<<20+1<<20)
	file, header, err := r.FormFile(field)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			size := r.ContentLength
			if size < 0 {
				size = tooBig.Limit
			}
			return nil, nil, service.ValidateUpload(size, "", service.UploadPolicy{Field: field, MaxMB: maxMB})
		}
		return nil, nil, errNoFile
	}
	return file, header, nil
}
