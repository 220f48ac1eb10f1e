package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/goerror"
	"github.com/shandysiswandi/opcode-profile/internal/pkg/router"
	"github.com/shandysiswandi/opcode-profile/internal/profile/entity"
	"github.com/shandysiswandi/opcode-profile/internal/profile/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the authenticated user's profile.
type HTTPEndpoint struct {
	uc uc
}

// Profile returns the profile of the authenticated user.
// @Summary Get profile
// @Description Returns the authenticated user's profile with camelCase keys.
// @Tags Profile
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Profile"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Profile not found"
// @Failure 405 {object} router.errorResponse "Method not allowed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return newProfileResponse(resp, "profile has been retrieved"), nil
}

// ProfileUpdate partially updates the profile of the authenticated user.
// @Summary Update profile
// @Description Updates only the given attributes. Keys are camelCase; changing slackId or militaryStatus schedules a pybot sync.
// @Tags Profile
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body ProfileResponse false "Any subset of profile attributes"
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Updated profile"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Profile not found"
// @Failure 405 {object} router.errorResponse "Method not allowed"
// @Failure 415 {object} router.errorResponse "Unsupported media type"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/profile [patch]
func (h *HTTPEndpoint) ProfileUpdate(r *router.Request) (any, error) {
	body, err := r.DecodeFields()
	if err != nil {
		return nil, err
	}

	fields, err := toAttributes(body)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ProfileUpdate(r.Context(), usecase.ProfileUpdateInput{Fields: fields})
	if err != nil {
		return nil, err
	}

	return newProfileResponse(resp, "profile has been updated"), nil
}

// toAttributes renames wire keys to profile attributes ("address2" becomes
// "address_2"). Keys that name no attribute, or that collide after renaming,
// are reported under the key the client sent.
func toAttributes(body map[string]any) (map[string]any, error) {
	fields := make(map[string]any, len(body))
	sources := make(map[string]string, len(body))
	invalid := make(map[string]string)

	for key, value := range body {
		attr := lo.SnakeCase(key)
		if !entity.IsAttribute(attr) {
			invalid[key] = entity.ErrUnknownAttribute.Error()
			continue
		}
		if prev, ok := sources[attr]; ok {
			invalid[key] = "duplicates " + prev
			continue
		}
		sources[attr] = key
		fields[attr] = value
	}

	if len(invalid) > 0 {
		return nil, goerror.NewInvalidFields(invalid)
	}
	return fields, nil
}
