package controller

import (
	"net/http"

	"brickvault/models"
	"brickvault/service"
)

// ProfileController handles public profiles and editing one's own
type ProfileController struct {
	*Renderer
	profiles *service.ProfileService
	maxMB    int
}

// NewProfileController creates a new ProfileController
func NewProfileController(renderer *Renderer, profiles *service.ProfileService, maxMB int) *ProfileController {
	return &ProfileController{Renderer: renderer, profiles: profiles, maxMB: maxMB}
}

type profileView struct {
	User  *models.User
	Own   bool
	MaxMB int
}

// Show handles GET /users/{username}
func (c *ProfileController) Show(w http.ResponseWriter, r *http.Request) {
	_, auth, r := apiContext(r)
	user, err := c.profiles.Profile(r.Context(), r.PathValue("username"))
	if err != nil {
		c.fail(w, r, "Profile", err)
		return
	}
	c.render(w, r, "profile", user.Username, profileView{User: user, Own: auth.Owns(user.ID), MaxMB: c.maxMB})
}

// Edit handles GET /profile
func (c *ProfileController) Edit(w http.ResponseWriter, r *http.Request) {
	_, auth, r := apiContext(r)
	user, err := c.profiles.Profile(r.Context(), auth.User.Username)
	if err != nil {
		c.fail(w, r, "ProfileEdit", err)
		return
	}
	c.render(w, r, "profile", "Your profile", profileView{User: user, Own: true, MaxMB: c.maxMB})
}

// Update handles POST /profile (bio, location)
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	sess, _, r := apiContext(r)
	user, err := c.profiles.Update(r.Context(), models.ProfileUpdate{
		Bio:      r.FormValue("bio"),
		Location: r.FormValue("location"),
	})
	if err == nil {
		sess.UpdateUser(*user)
	}
	c.finish(w, r, "ProfileUpdate", "/profile", err, "Profile saved.", user)
}

// Avatar handles POST /profile/avatar (multipart field "avatar")
func (c *ProfileController) Avatar(w http.ResponseWriter, r *http.Request) {
	sess, auth, r := apiContext(r)
	file, header, err := formFile(w, r, "avatar", c.maxMB)
	if err != nil {
		c.finish(w, r, "ProfileAvatar", "/profile", err, "", nil)
		return
	}
	defer file.Close()

	url, err := c.profiles.UploadAvatar(r.Context(), file, header)
	if err == nil && auth.User != nil {
		u := *auth.User
		u.AvatarURL = url
		sess.UpdateUser(u)
	}
	c.finish(w, r, "ProfileAvatar", "/profile", err, "Avatar updated.", map[string]string{"url": url})
}
