package admin

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/charadev96/famlink/api/codec"
)

const (
	ServiceName = "famlink.v1.AdminService"

	AdminService_CreateUser_FullMethodName         = "/famlink.v1.AdminService/CreateUser"
	AdminService_GetUser_FullMethodName            = "/famlink.v1.AdminService/GetUser"
	AdminService_ListUsers_FullMethodName          = "/famlink.v1.AdminService/ListUsers"
	AdminService_DeleteUser_FullMethodName         = "/famlink.v1.AdminService/DeleteUser"
	AdminService_IssueToken_FullMethodName         = "/famlink.v1.AdminService/IssueToken"
	AdminService_UnlinkRelationship_FullMethodName = "/famlink.v1.AdminService/UnlinkRelationship"
)

type AdminServiceClient interface {
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*CreateUserReply, error)
	GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserReply, error)
	ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersReply, error)
	DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*DeleteUserReply, error)
	IssueToken(ctx context.Context, in *IssueTokenRequest, opts ...grpc.CallOption) (*IssueTokenReply, error)
	UnlinkRelationship(ctx context.Context, in *UnlinkRelationshipRequest, opts ...grpc.CallOption) (*UnlinkRelationshipReply, error)
}

type adminServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminServiceClient(cc grpc.ClientConnInterface) AdminServiceClient {
	return &adminServiceClient{cc}
}

func (c *adminServiceClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*CreateUserReply, error) {
	return codec.Invoke[CreateUserReply](ctx, c.cc, AdminService_CreateUser_FullMethodName, in, opts)
}

func (c *adminServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserReply, error) {
	return codec.Invoke[GetUserReply](ctx, c.cc, AdminService_GetUser_FullMethodName, in, opts)
}

func (c *adminServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersReply, error) {
	return codec.Invoke[ListUsersReply](ctx, c.cc, AdminService_ListUsers_FullMethodName, in, opts)
}

func (c *adminServiceClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*DeleteUserReply, error) {
	return codec.Invoke[DeleteUserReply](ctx, c.cc, AdminService_DeleteUser_FullMethodName, in, opts)
}

func (c *adminServiceClient) IssueToken(ctx context.Context, in *IssueTokenRequest, opts ...grpc.CallOption) (*IssueTokenReply, error) {
	return codec.Invoke[IssueTokenReply](ctx, c.cc, AdminService_IssueToken_FullMethodName, in, opts)
}

func (c *adminServiceClient) UnlinkRelationship(ctx context.Context, in *UnlinkRelationshipRequest, opts ...grpc.CallOption) (*UnlinkRelationshipReply, error) {
	return codec.Invoke[UnlinkRelationshipReply](ctx, c.cc, AdminService_UnlinkRelationship_FullMethodName, in, opts)
}

type AdminServiceServer interface {
	CreateUser(context.Context, *CreateUserRequest) (*CreateUserReply, error)
	GetUser(context.Context, *GetUserRequest) (*GetUserReply, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersReply, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*DeleteUserReply, error)
	IssueToken(context.Context, *IssueTokenRequest) (*IssueTokenReply, error)
	UnlinkRelationship(context.Context, *UnlinkRelationshipRequest) (*UnlinkRelationshipReply, error)
}

type UnimplementedAdminServiceServer struct{}

func (UnimplementedAdminServiceServer) CreateUser(context.Context, *CreateUserRequest) (*CreateUserReply, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateUser not implemented")
}
func (UnimplementedAdminServiceServer) GetUser(context.Context, *GetUserRequest) (*GetUserReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUser not implemented")
}
func (UnimplementedAdminServiceServer) ListUsers(context.Context, *ListUsersRequest) (*ListUsersReply, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUsers not implemented")
}
func (UnimplementedAdminServiceServer) DeleteUser(context.Context, *DeleteUserRequest) (*DeleteUserReply, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteUser not implemented")
}
func (UnimplementedAdminServiceServer) IssueToken(context.Context, *IssueTokenRequest) (*IssueTokenReply, error) {
	return nil, status.Error(codes.Unimplemented, "method IssueToken not implemented")
}
func (UnimplementedAdminServiceServer) UnlinkRelationship(context.Context, *UnlinkRelationshipRequest) (*UnlinkRelationshipReply, error) {
	return nil, status.Error(codes.Unimplemented, "method UnlinkRelationship not implemented")
}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminService_ServiceDesc, srv)
}

var AdminService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateUser",
			Handler:    codec.Unary(AdminService_CreateUser_FullMethodName, AdminServiceServer.CreateUser),
		},
		{
			MethodName: "GetUser",
			Handler:    codec.Unary(AdminService_GetUser_FullMethodName, AdminServiceServer.GetUser),
		},
		{
			MethodName: "ListUsers",
			Handler:    codec.Unary(AdminService_ListUsers_FullMethodName, AdminServiceServer.ListUsers),
		},
		{
			MethodName: "DeleteUser",
			Handler:    codec.Unary(AdminService_DeleteUser_FullMethodName, AdminServiceServer.DeleteUser),
		},
		{
			MethodName: "IssueToken",
			Handler:    codec.Unary(AdminService_IssueToken_FullMethodName, AdminServiceServer.IssueToken),
		},
		{
			MethodName: "UnlinkRelationship",
			Handler:    codec.Unary(AdminService_UnlinkRelationship_FullMethodName, AdminServiceServer.UnlinkRelationship),
		},
	},
	Streams: []grpc.StreamDesc{},
}
