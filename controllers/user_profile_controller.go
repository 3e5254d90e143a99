package controllers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"vivaah_server/middleware"
	"vivaah_server/models"
	"vivaah_server/services"
	"vivaah_server/utils"
)

// UserProfileController handles requests related to user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
	Logger             *slog.Logger
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService, logger *slog.Logger) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService, Logger: loggerOrDefault(logger)}
}

// CreateUserProfile handles POST /api/profiles
func (c *UserProfileController) CreateUserProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := decodeJSON(w, r, &profile); err != nil {
		respondError(w, r, c.Logger, "create profile", err)
		return
	}

	created, err := c.UserProfileService.CreateProfile(r.Context(), middleware.CallerFromContext(r.Context()), profile)
	if err != nil {
		respondError(w, r, c.Logger, "create profile", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"message": "Profile submitted for review",
		"profile": created,
	})
}

// UpdateUserProfile handles PATCH /api/profiles/{id}
func (c *UserProfileController) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	var patch models.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, c.Logger, "update profile", err)
		return
	}

	updated, err := c.UserProfileService.UpdateProfile(r.Context(), middleware.CallerFromContext(r.Context()), mux.Vars(r)["id"], &patch)
	if err != nil {
		respondError(w, r, c.Logger, "update profile", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": updated,
	})
}

// GetUserProfileByID handles GET /api/profiles/{id}
func (c *UserProfileController) GetUserProfileByID(w http.ResponseWriter, r *http.Request) {
	profile, err := c.UserProfileService.GetProfile(r.Context(), middleware.CallerFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, c.Logger, "get profile", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Profile fetched successfully",
		"profile": profile,
	})
}

// ListProfiles handles GET /api/profiles, the approved directory
func (c *UserProfileController) ListProfiles(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, false)
}

// ListProfilesForAdmin handles GET /api/admin/profiles
func (c *UserProfileController) ListProfilesForAdmin(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, true)
}

func (c *UserProfileController) list(w http.ResponseWriter, r *http.Request, adminView bool) {
	filter, err := parseProfileFilter(r.URL.Query())
	if err != nil {
		respondError(w, r, c.Logger, "list profiles", err)
		return
	}

	listing, err := c.UserProfileService.ListProfiles(r.Context(), middleware.CallerFromContext(r.Context()), filter, adminView)
	if err != nil {
		respondError(w, r, c.Logger, "list profiles", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":  "Profiles fetched successfully",
		"profiles": listing.Profiles,
		"counts":   listing.Counts,
	})
}

// SetProfileStatus handles PUT /api/admin/profiles/{id}/status
func (c *UserProfileController) SetProfileStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.ProfileStatus `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, c.Logger, "set profile status", err)
		return
	}

	profile, err := c.UserProfileService.SetProfileStatus(r.Context(), middleware.CallerFromContext(r.Context()), mux.Vars(r)["id"], body.Status)
	if err != nil {
		respondError(w, r, c.Logger, "set profile status", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Profile status updated",
		"profile": profile,
	})
}

// DeleteUserProfile handles DELETE /api/admin/profiles/{id}
func (c *UserProfileController) DeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["id"]
	if err := c.UserProfileService.DeleteProfile(r.Context(), middleware.CallerFromContext(r.Context()), profileID); err != nil {
		respondError(w, r, c.Logger, "delete profile", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":   "Profile deleted successfully",
		"profileId": profileID,
	})
}

func parseProfileFilter(q url.Values) (models.ProfileFilter, error) {
	filter := models.ProfileFilter{
		Gender:        strings.TrimSpace(q.Get("gender")),
		Religion:      strings.TrimSpace(q.Get("religion")),
		Caste:         strings.TrimSpace(q.Get("caste")),
		MaritalStatus: strings.TrimSpace(q.Get("maritalStatus")),
		Location:      strings.TrimSpace(q.Get("location")),
		Search:        strings.TrimSpace(q.Get("search")),
		Status:        models.ProfileStatus(strings.TrimSpace(q.Get("status"))),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return filter, &services.ValidationError{Field: "status", Reason: "status must be one of: pending, approved, rejected"}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"minAge", &filter.MinAge},
		{"maxAge", &filter.MaxAge},
		{"limit", &filter.Limit},
	}
	for _, p := range ints {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, &services.ValidationError{Field: p.name, Reason: p.name + " must be a non-negative integer"}
		}
		*p.dst = n
	}
	return filter, nil
}
