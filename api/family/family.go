// Package family defines the famlink.v1.FamilyService wire contract: its
// messages, service descriptor and client.
package family

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

type Invitation struct {
	Id           string                 `json:"id"`
	InviterId    string                 `json:"inviter_id"`
	InviteeEmail string                 `json:"invitee_email"`
	InviterRole  string                 `json:"inviter_role"`
	Status       string                 `json:"status"`
	Code         string                 `json:"code"`
	Expired      bool                   `json:"expired,omitempty"`
	ExpiresAt    *timestamppb.Timestamp `json:"expires_at,omitempty"`
	CreatedAt    *timestamppb.Timestamp `json:"created_at"`
	UpdatedAt    *timestamppb.Timestamp `json:"updated_at"`
}

type Relationship struct {
	Id        string                 `json:"id"`
	ParentId  string                 `json:"parent_id"`
	ChildId   string                 `json:"child_id"`
	Type      string                 `json:"type"`
	CreatedAt *timestamppb.Timestamp `json:"created_at"`
}

type FamilyMember struct {
	UserId         string                 `json:"user_id"`
	Role           string                 `json:"role"`
	DisplayName    string                 `json:"display_name"`
	Email          string                 `json:"email"`
	RelationshipId string                 `json:"relationship_id"`
	Since          *timestamppb.Timestamp `json:"since"`
}

type CreateInvitationRequest struct {
	InviteeEmail string `json:"invitee_email"`
	InviterRole  string `json:"inviter_role"`
}

type CreateInvitationReply struct {
	Invitation *Invitation `json:"invitation"`
	Delivered  bool        `json:"delivered"`
	Warning    string      `json:"warning,omitempty"`
}

type ListReceivedInvitationsRequest struct{}

type ListSentInvitationsRequest struct{}

type ListInvitationsReply struct {
	Invitations []*Invitation `json:"invitations"`
}

// AcceptInvitationRequest names the invitation by Id or, when Id is empty,
// by its Code.
type AcceptInvitationRequest struct {
	Id   string `json:"id,omitempty"`
	Code string `json:"code,omitempty"`
}

type AcceptInvitationReply struct {
	Relationship *Relationship `json:"relationship"`
}

type DeclineInvitationRequest struct {
	Id string `json:"id"`
}

type DeclineInvitationReply struct{}

type ListFamilyMembersRequest struct{}

type ListFamilyMembersReply struct {
	Members []*FamilyMember `json:"members"`
}
