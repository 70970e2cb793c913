package services

import (
	"jejakin-server/models"
)

// Central capability resolution. Every handler that touches a booking,
// destination or review resolves the caller's permission set here instead of
// inlining its own role checks, so the rules cannot drift between endpoints.

// BookingPerms is the permission set a caller holds on one booking.
type BookingPerms struct {
	CanView        bool // read the booking
	CanEditDetails bool // visit date, headcount, notes
	CanEditStatus  bool // status and payment status
	CanCancel      bool
}

// ResolveBookingPerms computes the caller's permissions on a booking.
// The booking must be loaded with its Destination so partner ownership can
// be checked. Only the destination's owning partner gets partner rights;
// unrelated partners are treated like any other user.
func ResolveBookingPerms(viewer models.User, b *models.Booking) BookingPerms {
	if viewer.Role == models.RoleAdmin {
		return BookingPerms{CanView: true, CanEditDetails: true, CanEditStatus: true, CanCancel: true}
	}

	perms := BookingPerms{}
	if b.UserID == viewer.ID {
		perms.CanView = true
		perms.CanEditDetails = true
		perms.CanCancel = true
	}
	if viewer.Role == models.RolePartner && b.Destination.UserID == viewer.ID {
		perms.CanView = true
		perms.CanEditStatus = true
	}
	return perms
}

// CanManageDestination reports whether the caller may update or delete a
// destination: its owner or an admin.
func CanManageDestination(viewer models.User, d *models.Destination) bool {
	return viewer.Role == models.RoleAdmin || d.UserID == viewer.ID
}

// CanDeleteReview reports whether the caller may delete a review: the
// review's author, the owning partner of the reviewed destination, or an
// admin. The review must be loaded with its Destination.
func CanDeleteReview(viewer models.User, r *models.Review) bool {
	if viewer.Role == models.RoleAdmin {
		return true
	}
	if r.UserID == viewer.ID {
		return true
	}
	return viewer.Role == models.RolePartner && r.Destination.UserID == viewer.ID
}
