package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	adminapi "github.com/charadev96/famlink/api/admin"
	familyapi "github.com/charadev96/famlink/api/family"
	domain "github.com/charadev96/famlink/internal/server/domain"
	"github.com/charadev96/famlink/internal/server/handler"
	"github.com/charadev96/famlink/internal/server/handler/admin"
	"github.com/charadev96/famlink/internal/server/handler/family"
	"github.com/charadev96/famlink/internal/server/service"
)

type AdminConfig struct {
	Addr   string
	Logger *zerolog.Logger
}

type FamilyConfig struct {
	Addr string
	// Certificate enables TLS when set.
	Certificate *tls.Certificate
	RateLimiter *handler.UserRateLimiter
	Logger      *zerolog.Logger
}

type Server struct {
	Admin  AdminConfig
	Family FamilyConfig

	Identity          domain.IdentityProvider
	UserService       *service.UserService
	InvitationService *service.InvitationService
	FamilyService     *service.FamilyService
}

func (s *Server) NewAdminServer() *grpc.Server {
	inst := grpc.NewServer(
		grpc.ChainUnaryInterceptor(handler.Logging(s.Admin.Logger)),
	)
	adminapi.RegisterAdminServiceServer(inst, &admin.AdminServiceHandler{
		Users:  s.UserService,
		Family: s.FamilyService,
		Logger: s.Admin.Logger,
	})
	return inst
}

func (s *Server) NewFamilyServer() *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{
		handler.Logging(s.Family.Logger),
		handler.Authenticate(s.Identity),
	}
	if s.Family.RateLimiter != nil {
		interceptors = append(interceptors, handler.RateLimit(
			s.Family.RateLimiter,
			familyapi.FamilyService_CreateInvitation_FullMethodName,
		))
	}
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(interceptors...)}
	if s.Family.Certificate != nil {
		opts = append(opts, grpc.Creds(credentials.NewServerTLSFromCert(s.Family.Certificate)))
	}

	inst := grpc.NewServer(opts...)
	familyapi.RegisterFamilyServiceServer(inst, &family.FamilyServiceHandler{
		Invitations: s.InvitationService,
		Family:      s.FamilyService,
		Logger:      s.Family.Logger,
	})
	return inst
}

func (s *Server) ServeAdmin(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Admin.Addr)
	if err != nil {
		return fmt.Errorf("failed to init server: %w", err)
	}
	return serve(ctx, s.NewAdminServer(), ln, s.Admin.Logger)
}

func (s *Server) ServeFamily(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Family.Addr)
	if err != nil {
		return fmt.Errorf("failed to init server: %w", err)
	}
	return serve(ctx, s.NewFamilyServer(), ln, s.Family.Logger)
}

// serve runs inst on ln until ctx is done, then drains in-flight calls.
func serve(ctx context.Context, inst *grpc.Server, ln net.Listener, logger *zerolog.Logger) error {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	logger.Info().
		Str("address", ln.Addr().String()).
		Msg("started server")

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		inst.GracefulStop()
	}()

	err := inst.Serve(ln)
	if errors.Is(err, grpc.ErrServerStopped) {
		err = nil
	}
	if err == nil {
		<-stopped
	}
	return err
}
