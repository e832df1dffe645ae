package family

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/charadev96/famlink/api/codec"
)

const (
	ServiceName = "famlink.v1.FamilyService"

	FamilyService_CreateInvitation_FullMethodName        = "/famlink.v1.FamilyService/CreateInvitation"
	FamilyService_ListReceivedInvitations_FullMethodName = "/famlink.v1.FamilyService/ListReceivedInvitations"
	FamilyService_ListSentInvitations_FullMethodName     = "/famlink.v1.FamilyService/ListSentInvitations"
	FamilyService_AcceptInvitation_FullMethodName        = "/famlink.v1.FamilyService/AcceptInvitation"
	FamilyService_DeclineInvitation_FullMethodName       = "/famlink.v1.FamilyService/DeclineInvitation"
	FamilyService_ListFamilyMembers_FullMethodName       = "/famlink.v1.FamilyService/ListFamilyMembers"
)

type FamilyServiceClient interface {
	CreateInvitation(ctx context.Context, in *CreateInvitationRequest, opts ...grpc.CallOption) (*CreateInvitationReply, error)
	ListReceivedInvitations(ctx context.Context, in *ListReceivedInvitationsRequest, opts ...grpc.CallOption) (*ListInvitationsReply, error)
	ListSentInvitations(ctx context.Context, in *ListSentInvitationsRequest, opts ...grpc.CallOption) (*ListInvitationsReply, error)
	AcceptInvitation(ctx context.Context, in *AcceptInvitationRequest, opts ...grpc.CallOption) (*AcceptInvitationReply, error)
	DeclineInvitation(ctx context.Context, in *DeclineInvitationRequest, opts ...grpc.CallOption) (*DeclineInvitationReply, error)
	ListFamilyMembers(ctx context.Context, in *ListFamilyMembersRequest, opts ...grpc.CallOption) (*ListFamilyMembersReply, error)
}

type familyServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFamilyServiceClient(cc grpc.ClientConnInterface) FamilyServiceClient {
	return &familyServiceClient{cc}
}

func (c *familyServiceClient) CreateInvitation(ctx context.Context, in *CreateInvitationRequest, opts ...grpc.CallOption) (*CreateInvitationReply, error) {
	return codec.Invoke[CreateInvitationReply](ctx, c.cc, FamilyService_CreateInvitation_FullMethodName, in, opts)
}

func (c *familyServiceClient) ListReceivedInvitations(ctx context.Context, in *ListReceivedInvitationsRequest, opts ...grpc.CallOption) (*ListInvitationsReply, error) {
	return codec.Invoke[ListInvitationsReply](ctx, c.cc, FamilyService_ListReceivedInvitations_FullMethodName, in, opts)
}

func (c *familyServiceClient) ListSentInvitations(ctx context.Context, in *ListSentInvitationsRequest, opts ...grpc.CallOption) (*ListInvitationsReply, error) {
	return codec.Invoke[ListInvitationsReply](ctx, c.cc, FamilyService_ListSentInvitations_FullMethodName, in, opts)
}

func (c *familyServiceClient) AcceptInvitation(ctx context.Context, in *AcceptInvitationRequest, opts ...grpc.CallOption) (*AcceptInvitationReply, error) {
	return codec.Invoke[AcceptInvitationReply](ctx, c.cc, FamilyService_AcceptInvitation_FullMethodName, in, opts)
}

func (c *familyServiceClient) DeclineInvitation(ctx context.Context, in *DeclineInvitationRequest, opts ...grpc.CallOption) (*DeclineInvitationReply, error) {
	return codec.Invoke[DeclineInvitationReply](ctx, c.cc, FamilyService_DeclineInvitation_FullMethodName, in, opts)
}

func (c *familyServiceClient) ListFamilyMembers(ctx context.Context, in *ListFamilyMembersRequest, opts ...grpc.CallOption) (*ListFamilyMembersReply, error) {
	return codec.Invoke[ListFamilyMembersReply](ctx, c.cc, FamilyService_ListFamilyMembers_FullMethodName, in, opts)
}

type FamilyServiceServer interface {
	CreateInvitation(context.Context, *CreateInvitationRequest) (*CreateInvitationReply, error)
	ListReceivedInvitations(context.Context, *ListReceivedInvitationsRequest) (*ListInvitationsReply, error)
	ListSentInvitations(context.Context, *ListSentInvitationsRequest) (*ListInvitationsReply, error)
	AcceptInvitation(context.Context, *AcceptInvitationRequest) (*AcceptInvitationReply, error)
	DeclineInvitation(context.Context, *DeclineInvitationRequest) (*DeclineInvitationReply, error)
	ListFamilyMembers(context.Context, *ListFamilyMembersRequest) (*ListFamilyMembersReply, error)
}

// UnimplementedFamilyServiceServer can be embedded to satisfy
// FamilyServiceServer when only some methods are served.
type UnimplementedFamilyServiceServer struct{}

func (UnimplementedFamilyServiceServer) CreateInvitation(context.Context, *CreateInvitationRequest) (*CreateInvitationReply, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateInvitation not implemented")
}
func (UnimplementedFamilyServiceServer) ListReceivedInvitations(context.Context, *ListReceivedInvitationsRequest) (*ListInvitationsReply, error) {
	return nil, status.Error(codes.Unimplemented, "method ListReceivedInvitations not implemented")
}
func (UnimplementedFamilyServiceServer) ListSentInvitations(context.Context, *ListSentInvitationsRequest) (*ListInvitationsReply, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSentInvitations not implemented")
}
func (UnimplementedFamilyServiceServer) AcceptInvitation(context.Context, *AcceptInvitationRequest) (*AcceptInvitationReply, error) {
	return nil, status.Error(codes.Unimplemented, "method AcceptInvitation not implemented")
}
func (UnimplementedFamilyServiceServer) DeclineInvitation(context.Context, *DeclineInvitationRequest) (*DeclineInvitationReply, error) {
	return nil, status.Error(codes.Unimplemented, "method DeclineInvitation not implemented")
}
func (UnimplementedFamilyServiceServer) ListFamilyMembers(context.Context, *ListFamilyMembersRequest) (*ListFamilyMembersReply, error) {
	return nil, status.Error(codes.Unimplemented, "method ListFamilyMembers not implemented")
}

func RegisterFamilyServiceServer(s grpc.ServiceRegistrar, srv FamilyServiceServer) {
	s.RegisterService(&FamilyService_ServiceDesc, srv)
}

var FamilyService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FamilyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateInvitation",
			Handler:    codec.Unary(FamilyService_CreateInvitation_FullMethodName, FamilyServiceServer.CreateInvitation),
		},
		{
			MethodName: "ListReceivedInvitations",
			Handler:    codec.Unary(FamilyService_ListReceivedInvitations_FullMethodName, FamilyServiceServer.ListReceivedInvitations),
		},
		{
			MethodName: "ListSentInvitations",
			Handler:    codec.Unary(FamilyService_ListSentInvitations_FullMethodName, FamilyServiceServer.ListSentInvitations),
		},
		{
			MethodName: "AcceptInvitation",
			Handler:    codec.Unary(FamilyService_AcceptInvitation_FullMethodName, FamilyServiceServer.AcceptInvitation),
		},
		{
			MethodName: "DeclineInvitation",
			Handler:    codec.Unary(FamilyService_DeclineInvitation_FullMethodName, FamilyServiceServer.DeclineInvitation),
		},
		{
			MethodName: "ListFamilyMembers",
			Handler:    codec.Unary(FamilyService_ListFamilyMembers_FullMethodName, FamilyServiceServer.ListFamilyMembers),
		},
	},
	Streams: []grpc.StreamDesc{},
}
