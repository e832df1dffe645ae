// Package admin defines the famlink.v1.AdminService wire contract.
package admin

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

type User struct {
	Id          string                 `json:"id"`
	Email       string                 `json:"email"`
	DisplayName string                 `json:"display_name"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at"`
}

type CreateUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

type CreateUserReply struct {
	Id string `json:"id"`
}

type GetUserRequest struct {
	Id    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
}

type GetUserReply struct {
	User *User `json:"user"`
}

type ListUsersRequest struct {
	Limit  int32  `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

type ListUsersReply struct {
	Users  []*User `json:"users"`
	Cursor string  `json:"cursor,omitempty"`
}

type DeleteUserRequest struct {
	Id string `json:"id"`
}

type DeleteUserReply struct{}

type IssueTokenRequest struct {
	Id string `json:"id"`
}

type IssueTokenReply struct {
	Token     string                 `json:"token"`
	ExpiresAt *timestamppb.Timestamp `json:"expires_at"`
}

type UnlinkRelationshipRequest struct {
	Id string `json:"id"`
}

type UnlinkRelationshipReply struct{}
