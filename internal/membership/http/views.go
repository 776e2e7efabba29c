package http

import (
	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/pkg/memberapi"
)

// newUserView strips a user record down to its outward shape. Credential
// and token columns never leave this package.
func newUserView(u domain.User) *memberapi.UserView {
	return &memberapi.UserView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     string(u.Role),
		Woreda:   u.Woreda,
		Language: u.Language,
		Membership: memberapi.MembershipView{
			Tier:         string(u.Membership.Tier),
			Status:       string(u.Membership.Status),
			MembershipID: u.Membership.MembershipID,
			StartDate:    u.Membership.StartDate,
			EndDate:      u.Membership.EndDate,
		},
		Profile: memberapi.ProfileView{
			Bio:        u.Profile.Bio,
			Photo:      u.Profile.Photo,
			Occupation: u.Profile.Occupation,
			Location:   u.Profile.Location,
		},
		EmailVerified: u.EmailVerified,
		LastLogin:     u.LastLogin,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
	}
}

func newEventView(e domain.Event) *memberapi.EventView {
	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return &memberapi.EventView{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		Type:                 string(e.Type),
		Status:               string(e.Status),
		Location:             e.Location,
		StartsAt:             e.StartsAt,
		EndsAt:               e.EndsAt,
		RegistrationDeadline: e.RegistrationDeadline,
		Capacity:             e.Capacity,
		Attendees:            attendees,
		CreatedBy:            e.CreatedBy,
		CreatedAt:            e.CreatedAt,
	}
}
