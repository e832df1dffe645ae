package family

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/charadev96/famlink/api/family"
	server "github.com/charadev96/famlink/internal/server/domain"
	"github.com/charadev96/famlink/internal/server/handler"
	"github.com/charadev96/famlink/internal/server/service"
)

type FamilyServiceHandler struct {
	family.UnimplementedFamilyServiceServer
	Invitations *service.InvitationService
	Family      *service.FamilyService
	Logger      *zerolog.Logger
	Now         func() time.Time
}

func (h *FamilyServiceHandler) CreateInvitation(ctx context.Context, req *family.CreateInvitationRequest) (*family.CreateInvitationReply, error) {
	ident, err := handler.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	role, err := server.ParseRole(req.InviterRole)
	if err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	res, err := h.Invitations.CreateInvitation(ctx, ident, role, req.InviteeEmail)
	if err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	return &family.CreateInvitationReply{
		Invitation: h.invitation(res.Invitation),
		Delivered:  res.Delivered,
		Warning:    res.Warning,
	}, nil
}

func (h *FamilyServiceHandler) ListReceivedInvitations(ctx context.Context, req *family.ListReceivedInvitationsRequest) (*family.ListInvitationsReply, error) {
	ident, err := handler.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	invs, err := h.Invitations.ListPendingReceived(ctx, ident.Email)
	if err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	return h.invitations(invs), nil
}

func (h *FamilyServiceHandler) ListSentInvitations(ctx context.Context, req *family.ListSentInvitationsRequest) (*family.ListInvitationsReply, error) {
	ident, err := handler.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	invs, err := h.Invitations.ListPendingSent(ctx, ident.UserID)
	if err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	return h.invitations(invs), nil
}

func (h *FamilyServiceHandler) AcceptInvitation(ctx context.Context, req *family.AcceptInvitationRequest) (*family.AcceptInvitationReply, error) {
	ident, err := handler.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	var rel server.Relationship
	switch {
	case req.Id != "":
		id, err := uuid.Parse(req.Id)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		rel, err = h.Invitations.AcceptInvitation(ctx, id, ident)
		if err != nil {
			return nil, handler.Status(err, h.Logger)
		}
	case req.Code != "":
		rel, err = h.Invitations.AcceptInvitationByCode(ctx, req.Code, ident)
		if err != nil {
			return nil, handler.Status(err, h.Logger)
		}
	default:
		return nil, status.Error(codes.InvalidArgument, "invitation id or code is required")
	}
	return &family.AcceptInvitationReply{Relationship: relationship(rel)}, nil
}

func (h *FamilyServiceHandler) DeclineInvitation(ctx context.Context, req *family.DeclineInvitationRequest) (*family.DeclineInvitationReply, error) {
	ident, err := handler.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := h.Invitations.DeclineInvitation(ctx, id, ident); err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	return &family.DeclineInvitationReply{}, nil
}

func (h *FamilyServiceHandler) ListFamilyMembers(ctx context.Context, req *family.ListFamilyMembersRequest) (*family.ListFamilyMembersReply, error) {
	ident, err := handler.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	members, err := h.Family.ListFamilyMembers(ctx, ident.UserID)
	if err != nil {
		return nil, handler.Status(err, h.Logger)
	}
	reply := &family.ListFamilyMembersReply{
		Members: make([]*family.FamilyMember, 0, len(members)),
	}
	for _, m := range members {
		fm := new(family.FamilyMember)
		copier.Copy(fm, &m)
		fm.UserId = m.UserID.String()
		fm.Role = m.Role.String()
		fm.RelationshipId = m.RelationshipID.String()
		fm.Since = timestamppb.New(m.Since)
		reply.Members = append(reply.Members, fm)
	}
	return reply, nil
}

func (h *FamilyServiceHandler) invitations(invs []server.Invitation) *family.ListInvitationsReply {
	reply := &family.ListInvitationsReply{
		Invitations: make([]*family.Invitation, 0, len(invs)),
	}
	for _, inv := range invs {
		reply.Invitations = append(reply.Invitations, h.invitation(inv))
	}
	return reply
}

func (h *FamilyServiceHandler) invitation(inv server.Invitation) *family.Invitation {
	i := new(family.Invitation)
	copier.Copy(i, &inv)
	i.Id = inv.ID.String()
	i.InviterId = inv.InviterID.String()
	i.InviterRole = inv.InviterRole.String()
	i.Status = inv.Status.String()
	i.Expired = inv.Expired(h.now())
	i.CreatedAt = timestamppb.New(inv.CreatedAt)
	i.UpdatedAt = timestamppb.New(inv.UpdatedAt)
	if inv.ExpiresAt != nil {
		i.ExpiresAt = timestamppb.New(*inv.ExpiresAt)
	}
	return i
}

func (h *FamilyServiceHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func relationship(rel server.Relationship) *family.Relationship {
	return &family.Relationship{
		Id:        rel.ID.String(),
		ParentId:  rel.ParentID.String(),
		ChildId:   rel.ChildID.String(),
		Type:      rel.Type,
		CreatedAt: timestamppb.New(rel.CreatedAt),
	}
}
