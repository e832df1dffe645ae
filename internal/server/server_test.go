package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	adminapi "github.com/charadev96/famlink/api/admin"
	familyapi "github.com/charadev96/famlink/api/family"
	"github.com/charadev96/famlink/internal/server/handler"
	"github.com/charadev96/famlink/internal/server/identity"
	"github.com/charadev96/famlink/internal/server/notify"
	"github.com/charadev96/famlink/internal/server/repository"
	"github.com/charadev96/famlink/internal/server/service"
	"github.com/charadev96/famlink/internal/shared/infra"
)

type testEnv struct {
	admin  adminapi.AdminServiceClient
	family familyapi.FamilyServiceClient
}

func startServer(t *testing.T, limiter *handler.UserRateLimiter) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	logger := zerolog.Nop()

	db, err := infra.OpenSQLite(ctx, infra.MemoryDSN(uuid.NewString()))
	if err != nil {
		t.Fatal(err)
	}
	users, err := repository.NewBunUserRepository(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	invitations, err := repository.NewBunInvitationRepository(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	relationships, err := repository.NewBunRelationshipRepository(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	txRunner := infra.NewBunTransactionRunner(db, nil)
	jwt := &identity.JWTProvider{
		Secret: []byte("e2e-secret"),
		Issuer: "famlink-test",
		Users:  users,
	}

	srv := &Server{
		Admin:    AdminConfig{Logger: &logger},
		Family:   FamilyConfig{Logger: &logger, RateLimiter: limiter},
		Identity: jwt,
		UserService: &service.UserService{
			Users:         users,
			Relationships: relationships,
			Tokens:        jwt,
			TXRunner:      txRunner,
		},
		InvitationService: &service.InvitationService{
			Users:         users,
			Invitations:   invitations,
			Relationships: relationships,
			Dispatcher:    &notify.LogDispatcher{Logger: &logger},
			TXRunner:      txRunner,
			Expiry:        24 * time.Hour,
		},
		FamilyService: &service.FamilyService{
			Users:         users,
			Relationships: relationships,
		},
	}

	adminLn := bufconn.Listen(1 << 20)
	familyLn := bufconn.Listen(1 << 20)
	var g errgroup.Group
	g.Go(func() error { return serve(ctx, srv.NewAdminServer(), adminLn, &logger) })
	g.Go(func() error { return serve(ctx, srv.NewFamilyServer(), familyLn, &logger) })

	adminConn := dial(t, adminLn)
	familyConn := dial(t, familyLn)
	t.Cleanup(func() {
		adminConn.Close()
		familyConn.Close()
		cancel()
		if err := g.Wait(); err != nil {
			t.Errorf("server: %v", err)
		}
		db.Close()
	})

	return &testEnv{
		admin:  adminapi.NewAdminServiceClient(adminConn),
		family: familyapi.NewFamilyServiceClient(familyConn),
	}
}

func dial(t *testing.T, ln *bufconn.Listener) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return ln.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	return conn
}

// account provisions a user over the admin API and returns a context
// authenticated as that user.
func (e *testEnv) account(t *testing.T, email, name string) (string, context.Context) {
	t.Helper()
	ctx := context.Background()
	created, err := e.admin.CreateUser(ctx, &adminapi.CreateUserRequest{Email: email, DisplayName: name})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	tok, err := e.admin.IssueToken(ctx, &adminapi.IssueTokenRequest{Id: created.Id})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return created.Id, metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+tok.Token)
}

func expectCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if got := status.Code(err); got != want {
		t.Fatalf("expected %s, got %v", want, err)
	}
}

func TestInvitationFlow(t *testing.T) {
	env := startServer(t, nil)
	dadID, dad := env.account(t, "dad@example.com", "Dad")
	kidID, kid := env.account(t, "kid@example.com", "Kid")

	_, err := env.family.ListFamilyMembers(context.Background(), &familyapi.ListFamilyMembersRequest{})
	expectCode(t, err, codes.Unauthenticated)

	created, err := env.family.CreateInvitation(dad, &familyapi.CreateInvitationRequest{
		InviteeEmail: "Kid@Example.com",
		InviterRole:  "parent",
	})
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}
	if !created.Delivered || created.Invitation.Code == "" || created.Invitation.Status != "pending" {
		t.Fatalf("unexpected reply %+v", created)
	}
	if created.Invitation.ExpiresAt == nil || !created.Invitation.ExpiresAt.AsTime().After(time.Now()) {
		t.Fatal("expected expiry timestamp in the future")
	}

	_, err = env.family.CreateInvitation(dad, &familyapi.CreateInvitationRequest{
		InviteeEmail: "kid@example.com",
		InviterRole:  "parent",
	})
	expectCode(t, err, codes.AlreadyExists)

	_, err = env.family.CreateInvitation(dad, &familyapi.CreateInvitationRequest{
		InviteeEmail: "kid@example.com",
		InviterRole:  "uncle",
	})
	expectCode(t, err, codes.InvalidArgument)

	sent, err := env.family.ListSentInvitations(dad, &familyapi.ListSentInvitationsRequest{})
	if err != nil || len(sent.Invitations) != 1 {
		t.Fatalf("sent: %v %+v", err, sent)
	}
	received, err := env.family.ListReceivedInvitations(kid, &familyapi.ListReceivedInvitationsRequest{})
	if err != nil || len(received.Invitations) != 1 || received.Invitations[0].InviterId != dadID {
		t.Fatalf("received: %v %+v", err, received)
	}

	_, err = env.family.AcceptInvitation(dad, &familyapi.AcceptInvitationRequest{Id: created.Invitation.Id})
	expectCode(t, err, codes.PermissionDenied)
	_, err = env.family.AcceptInvitation(kid, &familyapi.AcceptInvitationRequest{})
	expectCode(t, err, codes.InvalidArgument)

	accepted, err := env.family.AcceptInvitation(kid, &familyapi.AcceptInvitationRequest{Code: created.Invitation.Code})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	rel := accepted.Relationship
	if rel.ParentId != dadID || rel.ChildId != kidID || rel.Type != "parent_child" {
		t.Fatalf("unexpected relationship %+v", rel)
	}
	again, err := env.family.AcceptInvitation(kid, &familyapi.AcceptInvitationRequest{Id: created.Invitation.Id})
	if err != nil || again.Relationship.Id != rel.Id {
		t.Fatalf("repeated accept: %v %+v", err, again)
	}
	_, err = env.family.DeclineInvitation(kid, &familyapi.DeclineInvitationRequest{Id: created.Invitation.Id})
	expectCode(t, err, codes.FailedPrecondition)

	members, err := env.family.ListFamilyMembers(dad, &familyapi.ListFamilyMembersRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(members.Members) != 1 {
		t.Fatalf("expected one member, got %+v", members.Members)
	}
	m := members.Members[0]
	if m.UserId != kidID || m.Role != "child" || m.DisplayName != "Kid" || m.RelationshipId != rel.Id {
		t.Fatalf("unexpected member %+v", m)
	}
	members, err = env.family.ListFamilyMembers(kid, &familyapi.ListFamilyMembersRequest{})
	if err != nil || len(members.Members) != 1 || members.Members[0].Role != "parent" {
		t.Fatalf("kid members: %v %+v", err, members)
	}

	if _, err := env.admin.UnlinkRelationship(context.Background(), &adminapi.UnlinkRelationshipRequest{Id: rel.Id}); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	_, err = env.admin.UnlinkRelationship(context.Background(), &adminapi.UnlinkRelationshipRequest{Id: rel.Id})
	expectCode(t, err, codes.NotFound)
	members, err = env.family.ListFamilyMembers(dad, &familyapi.ListFamilyMembersRequest{})
	if err != nil || len(members.Members) != 0 {
		t.Fatalf("expected no members after unlink: %v %+v", err, members)
	}
}

func TestDeclineFlow(t *testing.T) {
	env := startServer(t, nil)
	_, kid := env.account(t, "kid@example.com", "Kid")
	_, mom := env.account(t, "mom@example.com", "Mom")

	created, err := env.family.CreateInvitation(kid, &familyapi.CreateInvitationRequest{
		InviteeEmail: "mom@example.com",
		InviterRole:  "child",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.family.DeclineInvitation(mom, &familyapi.DeclineInvitationRequest{Id: created.Invitation.Id}); err != nil {
		t.Fatalf("decline: %v", err)
	}
	_, err = env.family.AcceptInvitation(mom, &familyapi.AcceptInvitationRequest{Id: created.Invitation.Id})
	expectCode(t, err, codes.FailedPrecondition)

	_, err = env.family.DeclineInvitation(mom, &familyapi.DeclineInvitationRequest{Id: uuid.NewString()})
	expectCode(t, err, codes.NotFound)
}

func TestAdminUsers(t *testing.T) {
	env := startServer(t, nil)
	ctx := context.Background()
	id, _ := env.account(t, "dad@example.com", "Dad")

	_, err := env.admin.CreateUser(ctx, &adminapi.CreateUserRequest{Email: "DAD@example.com"})
	expectCode(t, err, codes.AlreadyExists)
	_, err = env.admin.CreateUser(ctx, &adminapi.CreateUserRequest{Email: "nope"})
	expectCode(t, err, codes.InvalidArgument)

	got, err := env.admin.GetUser(ctx, &adminapi.GetUserRequest{Email: "dad@example.com"})
	if err != nil || got.User.Id != id || got.User.CreatedAt == nil {
		t.Fatalf("get user: %v %+v", err, got)
	}
	list, err := env.admin.ListUsers(ctx, &adminapi.ListUsersRequest{Limit: 10})
	if err != nil || len(list.Users) != 1 {
		t.Fatalf("list users: %v %+v", err, list)
	}
	if _, err := env.admin.DeleteUser(ctx, &adminapi.DeleteUserRequest{Id: id}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = env.admin.GetUser(ctx, &adminapi.GetUserRequest{Id: id})
	expectCode(t, err, codes.NotFound)
	_, err = env.admin.IssueToken(ctx, &adminapi.IssueTokenRequest{Id: "not-a-uuid"})
	expectCode(t, err, codes.InvalidArgument)
}

func TestDeletedUserTokenIsRejected(t *testing.T) {
	env := startServer(t, nil)
	id, dad := env.account(t, "dad@example.com", "Dad")
	if _, err := env.admin.DeleteUser(context.Background(), &adminapi.DeleteUserRequest{Id: id}); err != nil {
		t.Fatal(err)
	}
	_, err := env.family.ListFamilyMembers(dad, &familyapi.ListFamilyMembersRequest{})
	expectCode(t, err, codes.Unauthenticated)
}

func TestCreateInvitationRateLimit(t *testing.T) {
	env := startServer(t, handler.NewUserRateLimiter(1, 1, time.Minute))
	_, dad := env.account(t, "dad@example.com", "Dad")

	if _, err := env.family.CreateInvitation(dad, &familyapi.CreateInvitationRequest{
		InviteeEmail: "kid@example.com",
		InviterRole:  "parent",
	}); err != nil {
		t.Fatal(err)
	}
	_, err := env.family.CreateInvitation(dad, &familyapi.CreateInvitationRequest{
		InviteeEmail: "other@example.com",
		InviterRole:  "parent",
	})
	expectCode(t, err, codes.ResourceExhausted)

	if _, err := env.family.ListSentInvitations(dad, &familyapi.ListSentInvitationsRequest{}); err != nil {
		t.Fatalf("other methods are not limited: %v", err)
	}
}
