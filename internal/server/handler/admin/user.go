package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/charadev96/famlink/api/admin"
	server "github.com/charadev96/famlink/internal/server/domain"
	"github.com/charadev96/famlink/internal/server/handler"
	"github.com/charadev96/famlink/internal/server/service"
)

type AdminServiceHandler struct {
	admin.UnimplementedAdminServiceServer
	Users  *service.UserService
	Family *service.FamilyService
	Logger *zerolog.Logger
}

func (h *AdminServiceHandler) CreateUser(ctx context.Context, req *admin.CreateUserRequest) (*admin.CreateUserReply, error) {
	id, err := h.Users.CreateUser(ctx, req.Email, req.DisplayName)
	if err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	return &admin.CreateUserReply{Id: id.String()}, nil
}

func (h *AdminServiceHandler) GetUser(ctx context.Context, req *admin.GetUserRequest) (*admin.GetUserReply, error) {
	var (
		user server.User
		err  error
	)
	switch {
	case req.Id != "":
		id, perr := uuid.Parse(req.Id)
		if perr != nil {
			return nil, status.Error(codes.InvalidArgument, perr.Error())
		}
		user, err = h.Users.GetUser(ctx, id)
	case req.Email != "":
		user, err = h.Users.GetUserByEmail(ctx, req.Email)
	default:
		return nil, status.Error(codes.InvalidArgument, "user id or email is required")
	}
	if err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	return &admin.GetUserReply{User: userReply(user)}, nil
}

func (h *AdminServiceHandler) ListUsers(ctx context.Context, req *admin.ListUsersRequest) (*admin.ListUsersReply, error) {
	var cursor uuid.UUID
	if req.Cursor != "" {
		var err error
		cursor, err = uuid.Parse(req.Cursor)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}
	query := server.UserListQuery{
		Limit:  int(req.Limit),
		Cursor: cursor,
	}
	list, err := h.Users.ListUsers(ctx, query)
	if err != nil {
		return nil, handler.Status(err, h.Logger)
	}

	users := make([]*admin.User, 0, len(list.Users))
	for _, u := range list.Users {
		users = append(users, userReply(u))
	}
	reply := &admin.ListUsersReply{Users: users}
	if list.Cursor != uuid.Nil {
		reply.Cursor = list.Cursor.String()
	}
	return reply, nil
}

func (h *AdminServiceHandler) DeleteUser(ctx context.Context, req *admin.DeleteUserRequest) (*admin.DeleteUserReply, error) {
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := h.Users.DeleteUser(ctx, id); err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	return &admin.DeleteUserReply{}, nil
}

func (h *AdminServiceHandler) IssueToken(ctx context.Context, req *admin.IssueTokenRequest) (*admin.IssueTokenReply, error) {
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	token, exp, err := h.Users.IssueToken(ctx, id)
	if err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	return &admin.IssueTokenReply{
		Token:     token,
		ExpiresAt: timestamppb.New(exp),
	}, nil
}

func (h *AdminServiceHandler) UnlinkRelationship(ctx context.Context, req *admin.UnlinkRelationshipRequest) (*admin.UnlinkRelationshipReply, error) {
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := h.Family.Unlink(ctx, id); err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	return &admin.UnlinkRelationshipReply{}, nil
}

func userReply(user server.User) *admin.User {
	u := new(admin.User)
	copier.Copy(u, &user)
	u.Id = user.ID.String()
	u.CreatedAt = timestamppb.New(user.CreatedAt)
	return u
}
